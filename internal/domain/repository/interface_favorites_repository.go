package repository

import "context"

// FavoritesRepository is the server-side favorites store. Local storage
// remains the source of truth; signed-in sessions write through here so
// favorites survive a device switch.
type FavoritesRepository interface {
	Add(ctx context.Context, userID, eventID string) error
	Remove(ctx context.Context, userID, eventID string) error
	List(ctx context.Context, userID string) ([]string, error)
	Subscribe(ctx context.Context, userID string, callback func([]string)) UnsubscribeFunc
}
