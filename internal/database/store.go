package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"
)

// Store defines the interface for database operations.
// Methods accept context.Context for cancellation and timeouts.
type Store interface {
	// Ping checks the database connection.
	Ping(ctx context.Context) error

	// GetUser retrieves a user profile by username. Returns nil, nil if not found.
	GetUser(ctx context.Context, username string) (*UserProfile, error)

	// SaveUser inserts or updates a user profile keyed by username.
	SaveUser(ctx context.Context, profile *UserProfile) error

	// ListOtherUsers retrieves every profile except the given username,
	// ordered by username so prompt enumerations are stable.
	ListOtherUsers(ctx context.Context, excluding string) ([]UserProfile, error)

	// SaveEvents persists a batch of recommended events for a user in a
	// single transaction, stamped with the current time.
	SaveEvents(ctx context.Context, username string, events []Event) error

	// GetRecentEvents retrieves up to 'limit' previously recommended events
	// for a user, most recent first.
	GetRecentEvents(ctx context.Context, username string, limit int) ([]Event, error)

	// AppendRequestLog appends one audit entry for a command invocation.
	AppendRequestLog(ctx context.Context, entry *RequestLog) error

	// CountRecentRequests counts audit entries for a user within the
	// trailing window ending now.
	CountRecentRequests(ctx context.Context, username string, window time.Duration) (int, error)

	// DeleteRequestLogsBefore removes audit entries older than the cutoff
	// and reports how many were deleted.
	DeleteRequestLogsBefore(ctx context.Context, cutoff time.Time) (int64, error)

	// IncrementKeyword atomically increments the times-seen counter for a
	// keyword and returns the new count.
	IncrementKeyword(ctx context.Context, keyword string) (int64, error)

	// RunSQLMaintenance performs database maintenance tasks like VACUUM.
	RunSQLMaintenance(ctx context.Context) error
}

// sqlxStore provides an implementation of the Store interface using sqlx.
type sqlxStore struct {
	db     *sqlx.DB
	logger *slog.Logger
}

// NewStore creates a new Store implementation backed by sqlx.
// It requires a connected sqlx.DB instance and a logger.
func NewStore(db *sqlx.DB, logger *slog.Logger) Store {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &sqlxStore{
		db:     db,
		logger: logger.With("component", "store"),
	}
}

// Ping checks the database connection.
func (s *sqlxStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// GetUser retrieves a user profile by username. Returns nil, nil if not found.
func (s *sqlxStore) GetUser(ctx context.Context, username string) (*UserProfile, error) {
	if username == "" {
		return nil, fmt.Errorf("username cannot be empty")
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	var profile UserProfile
	query := `SELECT id, created_at, updated_at, username, interests, description
	          FROM users WHERE username = ?`

	err := s.db.GetContext(ctx, &profile, query, username)

	switch {
	case errors.Is(err, sql.ErrNoRows):
		s.logger.DebugContext(ctx, "No user profile found", "username", username)
		return nil, nil

	case errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled):
		s.logger.WarnContext(ctx, "Context timeout or cancellation while fetching user profile",
			"username", username, "error", err)
		return nil, err

	case err != nil:
		s.logger.ErrorContext(ctx, "Error getting user profile", "username", username, "error", err)
		return nil, fmt.Errorf("failed to get user profile for %q: %w", username, err)
	}

	return &profile, nil
}

// SaveUser inserts or updates a user profile based on username.
// Uses a transaction to ensure atomicity.
func (s *sqlxStore) SaveUser(ctx context.Context, profile *UserProfile) error {
	if profile == nil {
		return fmt.Errorf("cannot save nil user profile")
	}
	if profile.Username == "" {
		return fmt.Errorf("user profile must have a non-empty username")
	}

	now := time.Now().UTC()
	profile.UpdatedAt = now
	if profile.CreatedAt.IsZero() {
		profile.CreatedAt = now
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to begin transaction for saving user profile",
			"username", profile.Username, "error", err)
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if tx != nil {
			if rollbackErr := tx.Rollback(); rollbackErr != nil {
				if !errors.Is(rollbackErr, sql.ErrTxDone) {
					s.logger.WarnContext(ctx, "Error rolling back transaction", "error", rollbackErr)
				}
			}
		}
	}()

	var exists bool
	err = tx.GetContext(ctx, &exists,
		`SELECT 1 FROM users WHERE username = ? LIMIT 1`, profile.Username)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		s.logger.ErrorContext(ctx, "Error checking if profile exists",
			"username", profile.Username, "error", err)
		return fmt.Errorf("failed to check if profile exists for %q: %w", profile.Username, err)
	}

	var result sql.Result
	if exists {
		query := `
			UPDATE users SET
				interests = :interests,
				description = :description,
				updated_at = :updated_at
			WHERE username = :username
		`
		result, err = tx.NamedExecContext(ctx, query, profile)
	} else {
		query := `
			INSERT INTO users (username, interests, description, created_at, updated_at)
			VALUES (:username, :interests, :description, :created_at, :updated_at)
		`
		result, err = tx.NamedExecContext(ctx, query, profile)
	}

	if err != nil {
		s.logger.ErrorContext(ctx, "Error saving user profile",
			"username", profile.Username, "error", err)
		return fmt.Errorf("failed to save user profile for %q: %w", profile.Username, err)
	}

	if !exists {
		if id, idErr := result.LastInsertId(); idErr == nil {
			//nolint:gosec // integer overflow conversion is acceptable here
			profile.ID = uint(id)
		} else {
			s.logger.WarnContext(ctx, "Could not get last insert ID for user profile",
				"username", profile.Username, "error", idErr)
		}
	}

	if err := tx.Commit(); err != nil {
		s.logger.ErrorContext(ctx, "Failed to commit transaction",
			"username", profile.Username, "error", err)
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	tx = nil

	operation := "updated"
	if !exists {
		operation = "created"
	}
	s.logger.DebugContext(ctx, "User profile saved successfully",
		"operation", operation, "username", profile.Username)
	return nil
}

// ListOtherUsers retrieves every profile except the given username.
func (s *sqlxStore) ListOtherUsers(ctx context.Context, excluding string) ([]UserProfile, error) {
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	var profiles []UserProfile
	query := `SELECT id, created_at, updated_at, username, interests, description
	          FROM users WHERE username != ? ORDER BY username ASC`

	err := s.db.SelectContext(ctx, &profiles, query, excluding)

	switch {
	case errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled):
		s.logger.WarnContext(ctx, "Context timeout or cancellation while listing users", "error", err)
		return nil, err

	case err != nil:
		s.logger.ErrorContext(ctx, "Error listing other users", "excluding", excluding, "error", err)
		return nil, fmt.Errorf("failed to list users excluding %q: %w", excluding, err)
	}

	s.logger.DebugContext(ctx, "Listed other users", "excluding", excluding, "count", len(profiles))
	return profiles, nil
}

// SaveEvents persists a batch of recommended events for a user in a single transaction.
func (s *sqlxStore) SaveEvents(ctx context.Context, username string, events []Event) error {
	if username == "" {
		return fmt.Errorf("username cannot be empty")
	}
	if len(events) == 0 {
		return nil
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to begin transaction for saving events",
			"username", username, "error", err)
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if tx != nil {
			if rollbackErr := tx.Rollback(); rollbackErr != nil {
				if !errors.Is(rollbackErr, sql.ErrTxDone) {
					s.logger.WarnContext(ctx, "Error rolling back transaction", "error", rollbackErr)
				}
			}
		}
	}()

	now := time.Now().UTC()
	query := `
		INSERT INTO events (username, name, date, link, created_at)
		VALUES (:username, :name, :date, :link, :created_at)
	`
	for i := range events {
		events[i].Username = username
		events[i].CreatedAt = now

		if _, err := tx.NamedExecContext(ctx, query, &events[i]); err != nil {
			s.logger.ErrorContext(ctx, "Error saving event",
				"username", username, "event_name", events[i].Name, "error", err)
			return fmt.Errorf("failed to save event %q for %q: %w", events[i].Name, username, err)
		}
	}

	if err := tx.Commit(); err != nil {
		s.logger.ErrorContext(ctx, "Failed to commit transaction",
			"username", username, "error", err)
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	tx = nil

	s.logger.DebugContext(ctx, "Events saved successfully", "username", username, "count", len(events))
	return nil
}

// GetRecentEvents retrieves up to 'limit' previously recommended events, most recent first.
func (s *sqlxStore) GetRecentEvents(ctx context.Context, username string, limit int) ([]Event, error) {
	if username == "" {
		return nil, fmt.Errorf("username cannot be empty")
	}
	if limit <= 0 {
		limit = 10
		s.logger.DebugContext(ctx, "Invalid limit provided, using default", "username", username, "default_limit", limit)
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	var events []Event
	query := `
        SELECT id, created_at, username, name, date, link
        FROM events
        WHERE username = ?
        ORDER BY created_at DESC, id DESC
        LIMIT ?;
    `

	err := s.db.SelectContext(ctx, &events, query, username, limit)

	switch {
	case errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled):
		s.logger.WarnContext(ctx, "Context timeout or cancellation while fetching events",
			"username", username, "error", err)
		return nil, err

	case err != nil:
		s.logger.ErrorContext(ctx, "Error getting recent events", "username", username, "limit", limit, "error", err)
		return nil, fmt.Errorf("failed to get recent events for %q: %w", username, err)
	}

	s.logger.DebugContext(ctx, "Fetched recent events", "username", username, "count", len(events))
	return events, nil
}

// AppendRequestLog appends one audit entry for a command invocation.
func (s *sqlxStore) AppendRequestLog(ctx context.Context, entry *RequestLog) error {
	if entry == nil {
		return fmt.Errorf("cannot append nil request log entry")
	}
	if entry.Username == "" || entry.Command == "" {
		return fmt.Errorf("request log entry must have a username and command")
	}

	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO request_logs (username, command, success, created_at)
		VALUES (:username, :command, :success, :created_at)
	`
	result, err := s.db.NamedExecContext(ctx, query, entry)
	if err != nil {
		s.logger.ErrorContext(ctx, "Error appending request log",
			"username", entry.Username, "command", entry.Command, "error", err)
		return fmt.Errorf("failed to append request log for %q: %w", entry.Username, err)
	}

	if id, idErr := result.LastInsertId(); idErr == nil {
		//nolint:gosec // integer overflow conversion is acceptable here
		entry.ID = uint(id)
	}

	s.logger.DebugContext(ctx, "Request log appended",
		"username", entry.Username, "command", entry.Command, "success", entry.Success)
	return nil
}

// CountRecentRequests counts audit entries for a user within the trailing window.
func (s *sqlxStore) CountRecentRequests(ctx context.Context, username string, window time.Duration) (int, error) {
	if username == "" {
		return 0, fmt.Errorf("username cannot be empty")
	}
	if ctx.Err() != nil {
		return 0, ctx.Err()
	}

	since := time.Now().UTC().Add(-window)

	var count int
	query := `SELECT COUNT(*) FROM request_logs WHERE username = ? AND created_at >= ?`

	if err := s.db.GetContext(ctx, &count, query, username, since); err != nil {
		s.logger.ErrorContext(ctx, "Error counting recent requests",
			"username", username, "window", window, "error", err)
		return 0, fmt.Errorf("failed to count recent requests for %q: %w", username, err)
	}

	s.logger.DebugContext(ctx, "Counted recent requests",
		"username", username, "window", window, "count", count)
	return count, nil
}

// DeleteRequestLogsBefore removes audit entries older than the cutoff.
func (s *sqlxStore) DeleteRequestLogsBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	query := `DELETE FROM request_logs WHERE created_at < ?`
	result, err := s.db.ExecContext(ctx, query, cutoff)
	if err != nil {
		s.logger.ErrorContext(ctx, "Error deleting old request logs", "cutoff", cutoff, "error", err)
		return 0, fmt.Errorf("failed to delete request logs before %s: %w", cutoff, err)
	}

	count, _ := result.RowsAffected()
	s.logger.InfoContext(ctx, "Deleted old request logs", "cutoff", cutoff, "count", count)
	return count, nil
}

// IncrementKeyword atomically increments the times-seen counter for a keyword.
// The increment happens in a single UPSERT so concurrent callers never lose updates.
func (s *sqlxStore) IncrementKeyword(ctx context.Context, keyword string) (int64, error) {
	if keyword == "" {
		return 0, fmt.Errorf("keyword cannot be empty")
	}

	var count int64
	query := `
		INSERT INTO keyword_counts (keyword, count, updated_at)
		VALUES (?, 1, ?)
		ON CONFLICT (keyword) DO UPDATE SET
			count = count + 1,
			updated_at = excluded.updated_at
		RETURNING count;
	`

	if err := s.db.GetContext(ctx, &count, query, keyword, time.Now().UTC()); err != nil {
		s.logger.ErrorContext(ctx, "Error incrementing keyword count", "keyword", keyword, "error", err)
		return 0, fmt.Errorf("failed to increment count for keyword %q: %w", keyword, err)
	}

	s.logger.DebugContext(ctx, "Incremented keyword count", "keyword", keyword, "count", count)
	return count, nil
}

// RunSQLMaintenance executes a VACUUM command on the SQLite database.
func (s *sqlxStore) RunSQLMaintenance(ctx context.Context) error {
	if ctx.Err() != nil {
		s.logger.WarnContext(ctx, "Context cancelled or timed out before starting VACUUM", "error", ctx.Err())
		return ctx.Err()
	}

	s.logger.InfoContext(ctx, "Starting database maintenance (VACUUM)...")

	// VACUUM must run outside a transaction in SQLite
	_, err := s.db.ExecContext(ctx, "VACUUM;")

	switch {
	case errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled):
		s.logger.WarnContext(ctx, "VACUUM operation timed out or was cancelled", "error", err)
		return fmt.Errorf("database maintenance (VACUUM) timed out: %w", err)

	case err != nil:
		s.logger.ErrorContext(ctx, "Database maintenance (VACUUM) failed", "error", err)
		return fmt.Errorf("failed to execute VACUUM: %w", err)

	default:
		s.logger.InfoContext(ctx, "Database maintenance (VACUUM) completed successfully")
	}

	return nil
}
