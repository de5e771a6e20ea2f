package repository

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"montapulse/internal/domain/model"
	"montapulse/internal/domain/repository"
)

const businessesCollection = "businesses"

// FirestoreBusinessesRepository persists businesses in the businesses
// collection.
type FirestoreBusinessesRepository struct {
	client *firestore.Client
	logger *zap.SugaredLogger
}

// NewFirestoreBusinessesRepository creates a new
// FirestoreBusinessesRepository.
func NewFirestoreBusinessesRepository(client *firestore.Client, logger *zap.SugaredLogger) *FirestoreBusinessesRepository {
	return &FirestoreBusinessesRepository{client: client, logger: logger}
}

var _ repository.BusinessesRepository = (*FirestoreBusinessesRepository)(nil)

// Create stores a new business and returns its generated document ID.
func (r *FirestoreBusinessesRepository) Create(ctx context.Context, business *model.Business) (string, error) {
	id := uuid.New().String()
	_, err := r.client.Collection(businessesCollection).Doc(id).Set(ctx, business)
	if err != nil {
		return "", fmt.Errorf("failed to create business: %w", err)
	}
	r.logger.Infow("✅ business created", "id", id, "name", business.Name)
	return id, nil
}

// Update applies a partial field update, used for drag-repositioning and the
// admin prompt edits.
func (r *FirestoreBusinessesRepository) Update(ctx context.Context, id string, fields map[string]interface{}) error {
	updates := make([]firestore.Update, 0, len(fields))
	for path, value := range fields {
		updates = append(updates, firestore.Update{Path: path, Value: value})
	}
	_, err := r.client.Collection(businessesCollection).Doc(id).Update(ctx, updates)
	if err != nil {
		return fmt.Errorf("failed to update business %s: %w", id, err)
	}
	return nil
}

// Delete removes a business document.
func (r *FirestoreBusinessesRepository) Delete(ctx context.Context, id string) error {
	_, err := r.client.Collection(businessesCollection).Doc(id).Delete(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete business %s: %w", id, err)
	}
	return nil
}

// GetAll fetches the full businesses collection.
func (r *FirestoreBusinessesRepository) GetAll(ctx context.Context) ([]model.Business, error) {
	docs, err := r.client.Collection(businessesCollection).Documents(ctx).GetAll()
	if err != nil {
		return nil, fmt.Errorf("failed to list businesses: %w", err)
	}

	businesses := make([]model.Business, 0, len(docs))
	for _, doc := range docs {
		var b model.Business
		if err := doc.DataTo(&b); err != nil {
			r.logger.Warnw("skipping undecodable business", "id", doc.Ref.ID, "error", err)
			continue
		}
		b.ID = doc.Ref.ID
		businesses = append(businesses, b)
	}
	return businesses, nil
}

// Subscribe streams full collection snapshots to callback until the returned
// function is called.
func (r *FirestoreBusinessesRepository) Subscribe(ctx context.Context, callback func([]model.Business)) repository.UnsubscribeFunc {
	ctx, cancel := context.WithCancel(ctx)
	it := r.client.Collection(businessesCollection).Snapshots(ctx)

	go func() {
		for {
			snap, err := it.Next()
			if err != nil {
				if ctx.Err() == nil {
					r.logger.Warnw("businesses subscription terminated", "error", err)
				}
				return
			}

			docs, err := snap.Documents.GetAll()
			if err != nil {
				r.logger.Warnw("failed to read businesses snapshot", "error", err)
				continue
			}

			businesses := make([]model.Business, 0, len(docs))
			for _, doc := range docs {
				var b model.Business
				if err := doc.DataTo(&b); err != nil {
					r.logger.Warnw("skipping undecodable business", "id", doc.Ref.ID, "error", err)
					continue
				}
				b.ID = doc.Ref.ID
				businesses = append(businesses, b)
			}
			callback(businesses)
		}
	}()

	return func() {
		cancel()
		it.Stop()
	}
}
