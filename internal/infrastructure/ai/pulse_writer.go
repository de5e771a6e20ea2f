package ai

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"montapulse/internal/domain/model"
	"montapulse/internal/domain/repository"
)

// PulseWriter generates recommendations and event copy with Gemini. API
// failures degrade to friendly fallback text instead of surfacing errors;
// the recommendation flow is decorative, never load-bearing.
type PulseWriter struct {
	client *GeminiClient
	logger *zap.SugaredLogger
}

// NewPulseWriter creates a new PulseWriter.
func NewPulseWriter(client *GeminiClient, logger *zap.SugaredLogger) *PulseWriter {
	return &PulseWriter{client: client, logger: logger}
}

var _ repository.RecommendationsRepository = (*PulseWriter)(nil)

// SmartRecommendations asks for the top picks among today's events, grounded
// with search so weather and swell can influence the answer.
func (w *PulseWriter) SmartRecommendations(ctx context.Context, events []model.Event, userInterest string) (string, []repository.Citation, error) {
	entries := make([]string, 0, len(events))
	for _, e := range events {
		entries = append(entries, fmt.Sprintf("%s at %s (%s vibe)", e.Title, e.Sector, e.Vibe))
	}

	prompt := fmt.Sprintf(`User is interested in: %q.
Context: Today in Montañita, Ecuador.
Local Events: %s.
Task: Suggest the top 2 events based on their interest AND real-time context like weather or swell if relevant.
Tone: Beachy, professional, concise.`, userInterest, strings.Join(entries, ", "))

	text, sources, err := w.client.GenerateContent(ctx, prompt, true)
	if err != nil {
		w.logger.Warnw("recommendation generation failed", "error", err)
		return "The ocean is a bit choppy for AI right now. Try again later!", nil, nil
	}

	citations := make([]repository.Citation, 0, len(sources))
	for _, s := range sources {
		citations = append(citations, repository.Citation{URI: s.URI, Title: s.Title})
	}
	return text, citations, nil
}

// EventDescription writes a 20-word promotional description for an event.
func (w *PulseWriter) EventDescription(ctx context.Context, title string, sector model.Sector) (string, error) {
	prompt := fmt.Sprintf(
		"Create a captivating 20-word description for an event called %q located in the %q area of Montañita, Ecuador.",
		title, sector)

	text, _, err := w.client.GenerateContent(ctx, prompt, false)
	if err != nil {
		w.logger.Warnw("description generation failed", "error", err)
		return "Something amazing is happening!", nil
	}
	return strings.TrimSpace(text), nil
}
