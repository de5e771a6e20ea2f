package repository

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"montapulse/internal/domain/model"
	"montapulse/internal/domain/repository"
)

const usersCollection = "users_v2"

// FirestoreUsersRepository persists user profiles in the users_v2
// collection.
type FirestoreUsersRepository struct {
	client *firestore.Client
	logger *zap.SugaredLogger
}

// NewFirestoreUsersRepository creates a new FirestoreUsersRepository.
func NewFirestoreUsersRepository(client *firestore.Client, logger *zap.SugaredLogger) *FirestoreUsersRepository {
	return &FirestoreUsersRepository{client: client, logger: logger}
}

var _ repository.UsersRepository = (*FirestoreUsersRepository)(nil)

// CreateOrMerge writes a profile under the given user ID, merging into any
// existing document.
func (r *FirestoreUsersRepository) CreateOrMerge(ctx context.Context, userID string, profile *model.UserProfile) error {
	_, err := r.client.Collection(usersCollection).Doc(userID).Set(ctx, profile, firestore.MergeAll)
	if err != nil {
		return fmt.Errorf("failed to save user %s: %w", userID, err)
	}
	return nil
}

// Update applies a partial field update to a profile.
func (r *FirestoreUsersRepository) Update(ctx context.Context, userID string, fields map[string]interface{}) error {
	updates := make([]firestore.Update, 0, len(fields))
	for path, value := range fields {
		updates = append(updates, firestore.Update{Path: path, Value: value})
	}
	_, err := r.client.Collection(usersCollection).Doc(userID).Update(ctx, updates)
	if err != nil {
		return fmt.Errorf("failed to update user %s: %w", userID, err)
	}
	return nil
}

// Get fetches a profile, returning (nil, nil) when none exists so callers
// can tell "no profile yet" apart from a real failure.
func (r *FirestoreUsersRepository) Get(ctx context.Context, userID string) (*model.UserProfile, error) {
	doc, err := r.client.Collection(usersCollection).Doc(userID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user %s: %w", userID, err)
	}

	var profile model.UserProfile
	if err := doc.DataTo(&profile); err != nil {
		return nil, fmt.Errorf("failed to decode user %s: %w", userID, err)
	}
	profile.ID = doc.Ref.ID
	return &profile, nil
}
