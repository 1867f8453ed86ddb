// Package match selects peers for a user by prompting the completion
// backend with every candidate profile and parsing the suggested user
// numbers back into usernames.
package match

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"minglebot/internal/database"
	"minglebot/internal/gemini"
)

// ProfileStore is the slice of the database layer the engine depends on.
type ProfileStore interface {
	GetUser(ctx context.Context, username string) (*database.UserProfile, error)
	ListOtherUsers(ctx context.Context, excluding string) ([]database.UserProfile, error)
}

// Engine finds peer matches for a registered user.
type Engine struct {
	completion gemini.Client
	store      ProfileStore
	log        *slog.Logger
}

// NewEngine creates a matching engine.
func NewEngine(completion gemini.Client, store ProfileStore, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		completion: completion,
		store:      store,
		log:        logger.With("component", "match_engine"),
	}
}

// FindMatches returns up to 3 usernames matched to the given user, in the
// order the completion suggested them. An unregistered user, a profile
// without interests, or an empty candidate pool all return empty without
// calling the completion backend. Every returned username comes from the
// candidate pool; the engine never invents one. Completion failures degrade
// to empty; store failures propagate.
func (e *Engine) FindMatches(ctx context.Context, username string) ([]string, error) {
	current, err := e.store.GetUser(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("failed to load user profile: %w", err)
	}
	if current == nil || len(current.InterestList()) == 0 {
		return nil, nil
	}

	candidates, err := e.store.ListOtherUsers(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("failed to load candidate profiles: %w", err)
	}
	if len(candidates) == 0 {
		return nil, nil
	}

	prompt := buildMatchPrompt(current, candidates)

	response, err := e.completion.Complete(ctx, prompt)
	if err != nil {
		e.log.WarnContext(ctx, "Completion backend failed, returning no matches",
			"username", username, "error", err)
		return nil, nil
	}

	matches, skipped := parseMatches(response, candidates)
	if skipped > 0 {
		e.log.WarnContext(ctx, "Discarded unparsable match lines",
			"username", username, "skipped", skipped, "matched", len(matches))
	}

	return matches, nil
}

func buildMatchPrompt(current *database.UserProfile, candidates []database.UserProfile) string {
	var sb strings.Builder

	sb.WriteString("You are a matchmaking assistant. I have a user with the following profile:\n")
	sb.WriteString(fmt.Sprintf("Interests: %s\n", strings.Join(current.InterestList(), ", ")))
	sb.WriteString(fmt.Sprintf("Description: %s\n\n", descriptionOrPlaceholder(current.Description)))
	sb.WriteString("Here are other user profiles:\n")

	for i, candidate := range candidates {
		sb.WriteString(fmt.Sprintf("User %d:\n", i+1))
		sb.WriteString(fmt.Sprintf("Interests: %s\n", strings.Join(candidate.InterestList(), ", ")))
		sb.WriteString(fmt.Sprintf("Description: %s\n", descriptionOrPlaceholder(candidate.Description)))
	}

	sb.WriteString("\nBased on the interests and descriptions, suggest up to 3 users who are the best matches ")
	sb.WriteString("for the first user. Provide their user numbers (e.g., User 1, User 2) and a brief reason ")
	sb.WriteString("for each match. Format your response as:\n")
	sb.WriteString("- User X: [reason]\n")
	sb.WriteString("- User Y: [reason]\n")
	sb.WriteString("- User Z: [reason]")

	return sb.String()
}

func descriptionOrPlaceholder(description string) string {
	if strings.TrimSpace(description) == "" {
		return "No additional context provided."
	}
	return description
}
