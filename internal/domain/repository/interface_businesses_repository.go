package repository

import (
	"context"

	"montapulse/internal/domain/model"
)

// BusinessesRepository persists businesses and republishes live snapshots.
type BusinessesRepository interface {
	Create(ctx context.Context, business *model.Business) (string, error)
	Update(ctx context.Context, id string, fields map[string]interface{}) error
	Delete(ctx context.Context, id string) error
	GetAll(ctx context.Context) ([]model.Business, error)
	Subscribe(ctx context.Context, callback func([]model.Business)) UnsubscribeFunc
}
