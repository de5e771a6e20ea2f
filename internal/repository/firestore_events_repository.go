package repository

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"montapulse/internal/domain/model"
	"montapulse/internal/domain/repository"
)

const eventsCollection = "events"

// eventDoc is the wire shape of an event record. The two schedule fields
// cross the native-time/store-timestamp boundary here and nowhere else.
type eventDoc struct {
	BusinessID      string       `firestore:"businessId"`
	Title           string       `firestore:"title"`
	Locality        string       `firestore:"locality,omitempty"`
	Description     string       `firestore:"description"`
	StartAt         time.Time    `firestore:"startAt"`
	EndAt           time.Time    `firestore:"endAt"`
	Category        string       `firestore:"category"`
	Vibe            model.Vibe   `firestore:"vibe"`
	Sector          model.Sector `firestore:"sector"`
	ImageURL        string       `firestore:"imageUrl"`
	InterestedCount int          `firestore:"interestedCount"`
	CreatedAt       time.Time    `firestore:"createdAt,serverTimestamp"`
	UpdatedAt       time.Time    `firestore:"updatedAt,serverTimestamp"`
}

func eventToDoc(e *model.Event) eventDoc {
	return eventDoc{
		BusinessID:      e.BusinessID,
		Title:           e.Title,
		Locality:        e.Locality,
		Description:     e.Description,
		StartAt:         e.StartAt,
		EndAt:           e.EndAt,
		Category:        e.Category,
		Vibe:            e.Vibe,
		Sector:          e.Sector,
		ImageURL:        e.ImageURL,
		InterestedCount: e.InterestedCount,
	}
}

func docToEvent(id string, d eventDoc) model.Event {
	// Missing timestamps coerce to "now" rather than the zero time so the
	// active/past split stays predictable for half-written records.
	startAt, endAt := d.StartAt, d.EndAt
	if startAt.IsZero() {
		startAt = time.Now()
	}
	if endAt.IsZero() {
		endAt = time.Now()
	}
	return model.Event{
		ID:              id,
		BusinessID:      d.BusinessID,
		Title:           d.Title,
		Locality:        d.Locality,
		Description:     d.Description,
		StartAt:         startAt,
		EndAt:           endAt,
		Category:        d.Category,
		Vibe:            d.Vibe,
		Sector:          d.Sector,
		ImageURL:        d.ImageURL,
		InterestedCount: d.InterestedCount,
	}
}

// FirestoreEventsRepository persists events in the events collection.
type FirestoreEventsRepository struct {
	client *firestore.Client
	logger *zap.SugaredLogger
}

// NewFirestoreEventsRepository creates a new FirestoreEventsRepository.
func NewFirestoreEventsRepository(client *firestore.Client, logger *zap.SugaredLogger) *FirestoreEventsRepository {
	return &FirestoreEventsRepository{client: client, logger: logger}
}

var _ repository.EventsRepository = (*FirestoreEventsRepository)(nil)

// Create stores a new event and returns its generated document ID.
func (r *FirestoreEventsRepository) Create(ctx context.Context, event *model.Event) (string, error) {
	id := uuid.New().String()
	_, err := r.client.Collection(eventsCollection).Doc(id).Set(ctx, eventToDoc(event))
	if err != nil {
		return "", fmt.Errorf("failed to create event: %w", err)
	}
	r.logger.Infow("✅ event created", "id", id, "title", event.Title)
	return id, nil
}

// Update rewrites an existing event document.
func (r *FirestoreEventsRepository) Update(ctx context.Context, id string, event *model.Event) error {
	_, err := r.client.Collection(eventsCollection).Doc(id).Set(ctx, eventToDoc(event))
	if err != nil {
		return fmt.Errorf("failed to update event %s: %w", id, err)
	}
	return nil
}

// Delete removes an event document.
func (r *FirestoreEventsRepository) Delete(ctx context.Context, id string) error {
	_, err := r.client.Collection(eventsCollection).Doc(id).Delete(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete event %s: %w", id, err)
	}
	return nil
}

// GetAll fetches the full events collection.
func (r *FirestoreEventsRepository) GetAll(ctx context.Context) ([]model.Event, error) {
	docs, err := r.client.Collection(eventsCollection).Documents(ctx).GetAll()
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}

	events := make([]model.Event, 0, len(docs))
	for _, doc := range docs {
		var d eventDoc
		if err := doc.DataTo(&d); err != nil {
			r.logger.Warnw("skipping undecodable event", "id", doc.Ref.ID, "error", err)
			continue
		}
		events = append(events, docToEvent(doc.Ref.ID, d))
	}
	return events, nil
}

// Subscribe streams full collection snapshots to callback until the returned
// function is called. Each snapshot fully supersedes the previous one.
func (r *FirestoreEventsRepository) Subscribe(ctx context.Context, callback func([]model.Event)) repository.UnsubscribeFunc {
	ctx, cancel := context.WithCancel(ctx)
	it := r.client.Collection(eventsCollection).Snapshots(ctx)

	go func() {
		for {
			snap, err := it.Next()
			if err != nil {
				if ctx.Err() == nil {
					r.logger.Warnw("events subscription terminated", "error", err)
				}
				return
			}

			docs, err := snap.Documents.GetAll()
			if err != nil {
				r.logger.Warnw("failed to read events snapshot", "error", err)
				continue
			}

			events := make([]model.Event, 0, len(docs))
			for _, doc := range docs {
				var d eventDoc
				if err := doc.DataTo(&d); err != nil {
					r.logger.Warnw("skipping undecodable event", "id", doc.Ref.ID, "error", err)
					continue
				}
				events = append(events, docToEvent(doc.Ref.ID, d))
			}
			callback(events)
		}
	}()

	return func() {
		cancel()
		it.Stop()
	}
}
