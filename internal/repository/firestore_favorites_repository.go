package repository

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"go.uber.org/zap"

	"montapulse/internal/domain/repository"
)

const favoritesCollection = "favorites"

// favoriteDoc links one user to one favorited event.
type favoriteDoc struct {
	UserID  string `firestore:"userId"`
	EventID string `firestore:"eventId"`
}

// FirestoreFavoritesRepository is the server-side favorites store. The
// dashboard keeps favorites in client-local storage; this repository backs a
// future cross-device sync and stays unwired from the main flow.
type FirestoreFavoritesRepository struct {
	client *firestore.Client
	logger *zap.SugaredLogger
}

// NewFirestoreFavoritesRepository creates a new
// FirestoreFavoritesRepository.
func NewFirestoreFavoritesRepository(client *firestore.Client, logger *zap.SugaredLogger) *FirestoreFavoritesRepository {
	return &FirestoreFavoritesRepository{client: client, logger: logger}
}

var _ repository.FavoritesRepository = (*FirestoreFavoritesRepository)(nil)

// Add records a favorite.
func (r *FirestoreFavoritesRepository) Add(ctx context.Context, userID, eventID string) error {
	_, _, err := r.client.Collection(favoritesCollection).Add(ctx, favoriteDoc{
		UserID:  userID,
		EventID: eventID,
	})
	if err != nil {
		return fmt.Errorf("failed to add favorite: %w", err)
	}
	return nil
}

// Remove deletes every favorite document matching the user/event pair.
func (r *FirestoreFavoritesRepository) Remove(ctx context.Context, userID, eventID string) error {
	docs, err := r.client.Collection(favoritesCollection).
		Where("userId", "==", userID).
		Where("eventId", "==", eventID).
		Documents(ctx).GetAll()
	if err != nil {
		return fmt.Errorf("failed to find favorite: %w", err)
	}
	for _, doc := range docs {
		if _, err := doc.Ref.Delete(ctx); err != nil {
			return fmt.Errorf("failed to remove favorite: %w", err)
		}
	}
	return nil
}

// List returns the event IDs favorited by a user.
func (r *FirestoreFavoritesRepository) List(ctx context.Context, userID string) ([]string, error) {
	docs, err := r.client.Collection(favoritesCollection).
		Where("userId", "==", userID).
		Documents(ctx).GetAll()
	if err != nil {
		return nil, fmt.Errorf("failed to list favorites: %w", err)
	}

	eventIDs := make([]string, 0, len(docs))
	for _, doc := range docs {
		var f favoriteDoc
		if err := doc.DataTo(&f); err != nil {
			r.logger.Warnw("skipping undecodable favorite", "id", doc.Ref.ID, "error", err)
			continue
		}
		eventIDs = append(eventIDs, f.EventID)
	}
	return eventIDs, nil
}

// Subscribe streams a user's favorite event IDs on every change.
func (r *FirestoreFavoritesRepository) Subscribe(ctx context.Context, userID string, callback func([]string)) repository.UnsubscribeFunc {
	ctx, cancel := context.WithCancel(ctx)
	it := r.client.Collection(favoritesCollection).
		Where("userId", "==", userID).
		Snapshots(ctx)

	go func() {
		for {
			snap, err := it.Next()
			if err != nil {
				if ctx.Err() == nil {
					r.logger.Warnw("favorites subscription terminated", "error", err)
				}
				return
			}

			docs, err := snap.Documents.GetAll()
			if err != nil {
				r.logger.Warnw("failed to read favorites snapshot", "error", err)
				continue
			}

			eventIDs := make([]string, 0, len(docs))
			for _, doc := range docs {
				var f favoriteDoc
				if err := doc.DataTo(&f); err != nil {
					continue
				}
				eventIDs = append(eventIDs, f.EventID)
			}
			callback(eventIDs)
		}
	}()

	return func() {
		cancel()
		it.Stop()
	}
}
