package repository

import (
	"context"

	"montapulse/internal/domain/model"
)

// UnsubscribeFunc stops a live snapshot subscription.
type UnsubscribeFunc func()

// EventsRepository persists events and republishes live collection snapshots.
type EventsRepository interface {
	Create(ctx context.Context, event *model.Event) (string, error)
	Update(ctx context.Context, id string, event *model.Event) error
	Delete(ctx context.Context, id string) error
	GetAll(ctx context.Context) ([]model.Event, error)
	// Subscribe invokes callback with a full snapshot whenever the backing
	// collection changes, until the returned function is called.
	Subscribe(ctx context.Context, callback func([]model.Event)) UnsubscribeFunc
}
