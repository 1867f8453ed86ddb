// Package events builds event-recommendation prompts from a user profile,
// parses the completion back into events, and persists accepted events so
// later requests can avoid repeats.
package events

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"minglebot/internal/database"
	"minglebot/internal/gemini"
)

// historyLimit caps how many prior event names are fed back into the prompt
// as an exclusion list.
const historyLimit = 10

// HistoryStore is the slice of the database layer the engine depends on.
type HistoryStore interface {
	SaveEvents(ctx context.Context, username string, events []database.Event) error
	GetRecentEvents(ctx context.Context, username string, limit int) ([]database.Event, error)
}

// Engine produces event recommendations tailored to a profile.
type Engine struct {
	completion gemini.Client
	store      HistoryStore
	log        *slog.Logger
}

// NewEngine creates a recommendation engine.
func NewEngine(completion gemini.Client, store HistoryStore, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		completion: completion,
		store:      store,
		log:        logger.With("component", "events_engine"),
	}
}

// Recommend generates up to 3 event suggestions for the profile. A profile
// without interests yields an empty result without calling the completion
// backend. An unusable completion (upstream error, nothing parseable)
// degrades to an empty result rather than an error; only store failures
// propagate.
func (e *Engine) Recommend(ctx context.Context, profile *database.UserProfile) ([]database.Event, error) {
	interests := profile.InterestList()
	if len(interests) == 0 {
		return nil, nil
	}

	prompt := fmt.Sprintf(recommendPromptTemplate,
		strings.Join(interests, ", "),
		descriptionOrPlaceholder(profile.Description),
	)

	return e.completeAndPersist(ctx, profile.Username, prompt)
}

// RecommendMore behaves like Recommend but feeds the names of up to 10
// previously suggested events into the prompt as an exclusion list, so the
// backend is steered away from repeats.
func (e *Engine) RecommendMore(ctx context.Context, profile *database.UserProfile) ([]database.Event, error) {
	interests := profile.InterestList()
	if len(interests) == 0 {
		return nil, nil
	}

	past, err := e.store.GetRecentEvents(ctx, profile.Username, historyLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to load event history: %w", err)
	}

	pastNames := "none"
	if len(past) > 0 {
		names := make([]string, len(past))
		for i, event := range past {
			names[i] = event.Name
		}
		pastNames = strings.Join(names, ", ")
	}

	e.log.DebugContext(ctx, "Excluding past events from prompt",
		"username", profile.Username, "past_events", pastNames)

	prompt := fmt.Sprintf(recommendMorePromptTemplate,
		strings.Join(interests, ", "),
		descriptionOrPlaceholder(profile.Description),
		pastNames,
	)

	return e.completeAndPersist(ctx, profile.Username, prompt)
}

func (e *Engine) completeAndPersist(ctx context.Context, username, prompt string) ([]database.Event, error) {
	response, err := e.completion.Complete(ctx, prompt)
	if err != nil {
		e.log.WarnContext(ctx, "Completion backend failed, returning no recommendations",
			"username", username, "error", err)
		return nil, nil
	}

	parsed, dropped := parseEvents(response)
	if dropped > 0 {
		e.log.WarnContext(ctx, "Discarded malformed response lines",
			"username", username, "dropped", dropped, "parsed", len(parsed))
	}
	if len(parsed) == 0 {
		e.log.InfoContext(ctx, "Completion response produced no events", "username", username)
		return nil, nil
	}

	if err := e.store.SaveEvents(ctx, username, parsed); err != nil {
		return nil, fmt.Errorf("failed to persist recommended events: %w", err)
	}

	return parsed, nil
}

func descriptionOrPlaceholder(description string) string {
	if strings.TrimSpace(description) == "" {
		return noDescriptionPlaceholder
	}
	return description
}
