package repository

import (
	"context"

	"montapulse/internal/domain/model"
)

// UsersRepository persists user profiles.
type UsersRepository interface {
	// CreateOrMerge writes the profile under the given user ID, merging
	// into any existing document.
	CreateOrMerge(ctx context.Context, userID string, profile *model.UserProfile) error
	Update(ctx context.Context, userID string, fields map[string]interface{}) error
	// Get returns (nil, nil) when no profile document exists; errors are
	// reserved for real failures.
	Get(ctx context.Context, userID string) (*model.UserProfile, error)
}
