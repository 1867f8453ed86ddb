// Package users manages user profile registration and interest updates.
// Interests behave as a set: registration replaces it, interest additions
// union-merge into it, and duplicates never accumulate.
package users

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"minglebot/internal/database"
)

// ProfileStore is the slice of the database layer the service depends on.
type ProfileStore interface {
	GetUser(ctx context.Context, username string) (*database.UserProfile, error)
	SaveUser(ctx context.Context, profile *database.UserProfile) error
}

// Service wraps profile persistence with the interest-set semantics.
type Service struct {
	store ProfileStore
	log   *slog.Logger
}

// NewService creates a profile service.
func NewService(store ProfileStore, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		store: store,
		log:   logger.With("component", "users_service"),
	}
}

// Register creates or fully replaces the profile for username. Interests are
// deduplicated and sorted; registering twice with the same interests leaves
// the profile unchanged.
func (s *Service) Register(ctx context.Context, username string, interests []string, description string) (*database.UserProfile, error) {
	if username == "" {
		return nil, fmt.Errorf("username cannot be empty")
	}

	profile, err := s.store.GetUser(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("failed to load existing profile: %w", err)
	}
	if profile == nil {
		profile = &database.UserProfile{Username: username}
	}

	profile.SetInterestList(interests)
	profile.Description = strings.TrimSpace(description)

	if err := s.store.SaveUser(ctx, profile); err != nil {
		return nil, fmt.Errorf("failed to save profile: %w", err)
	}

	s.log.InfoContext(ctx, "User registered",
		"username", username, "interests", profile.Interests)
	return profile, nil
}

// AddInterests union-merges the given interests into the user's profile,
// creating the profile if the user has never registered.
func (s *Service) AddInterests(ctx context.Context, username string, interests ...string) (*database.UserProfile, error) {
	if username == "" {
		return nil, fmt.Errorf("username cannot be empty")
	}

	profile, err := s.store.GetUser(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("failed to load existing profile: %w", err)
	}
	if profile == nil {
		profile = &database.UserProfile{Username: username}
	}

	profile.SetInterestList(append(profile.InterestList(), interests...))

	if err := s.store.SaveUser(ctx, profile); err != nil {
		return nil, fmt.Errorf("failed to save profile: %w", err)
	}

	s.log.InfoContext(ctx, "Interests added",
		"username", username, "interests", profile.Interests)
	return profile, nil
}

// Get retrieves the profile for username. Returns nil, nil when the user has
// never registered.
func (s *Service) Get(ctx context.Context, username string) (*database.UserProfile, error) {
	return s.store.GetUser(ctx, username)
}
