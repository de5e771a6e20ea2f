package repository

import (
	"context"

	"montapulse/internal/domain/model"
)

// Citation points at a source backing a grounded recommendation.
type Citation struct {
	URI   string `json:"uri"`
	Title string `json:"title"`
}

// RecommendationsRepository generates event copy and recommendations through
// the text-generation collaborator.
type RecommendationsRepository interface {
	// SmartRecommendations suggests events for the user's interest, grounded
	// in real-time context when the provider supports it.
	SmartRecommendations(ctx context.Context, events []model.Event, userInterest string) (string, []Citation, error)
	// EventDescription writes a short promotional description for an event.
	EventDescription(ctx context.Context, title string, sector model.Sector) (string, error)
}
