// Package gate enforces per-user rate limits and records an audit entry for
// every executed command. Every command handler runs through Execute, which
// preserves the check -> handler -> record ordering even when the handler
// fails or panics.
package gate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"minglebot/internal/config"
	"minglebot/internal/database"
)

// ErrRateLimited is returned by Check and Execute when the user has reached
// the invocation ceiling for the trailing window. Callers should tell users
// to retry later rather than treating it as a failure.
var ErrRateLimited = errors.New("rate limit exceeded")

// AuditStore is the slice of the database layer the gate depends on.
type AuditStore interface {
	AppendRequestLog(ctx context.Context, entry *database.RequestLog) error
	CountRecentRequests(ctx context.Context, username string, window time.Duration) (int, error)
}

// Gate wraps command execution with a sliding-window rate limit check before
// and an audit record after.
type Gate struct {
	store    AuditStore
	limit    int
	window   time.Duration
	failOpen bool
	log      *slog.Logger
}

// New creates a Gate from the rate-limit configuration.
func New(store AuditStore, cfg config.RateLimitConfig, logger *slog.Logger) *Gate {
	if logger == nil {
		logger = slog.Default()
	}
	return &Gate{
		store:    store,
		limit:    cfg.Limit,
		window:   cfg.Window(),
		failOpen: cfg.FailOpen,
		log:      logger.With("component", "gate"),
	}
}

// Check returns nil when the command may proceed, ErrRateLimited when the
// user has reached the ceiling, or a wrapped store error when the audit
// store is unreachable and the gate is configured to fail closed. The store
// error is deliberately distinct from ErrRateLimited so callers can tell
// "try again in a minute" from "service unavailable".
func (g *Gate) Check(ctx context.Context, username, command string) error {
	count, err := g.store.CountRecentRequests(ctx, username, g.window)
	if err != nil {
		if g.failOpen {
			g.log.WarnContext(ctx, "Audit store unreachable, failing open",
				"username", username, "command", command, "error", err)
			return nil
		}
		return fmt.Errorf("rate limit check failed: %w", err)
	}

	if count >= g.limit {
		g.log.InfoContext(ctx, "Rate limit exceeded",
			"username", username, "command", command, "count", count, "limit", g.limit)
		return ErrRateLimited
	}

	return nil
}

// Record appends one audit entry for a completed command invocation. Append
// failures are logged but never returned: the handler's own outcome must not
// be masked by audit trouble.
func (g *Gate) Record(ctx context.Context, username, command string, success bool) {
	entry := &database.RequestLog{
		Username:  username,
		Command:   command,
		Success:   success,
		CreatedAt: time.Now().UTC(),
	}
	if err := g.store.AppendRequestLog(ctx, entry); err != nil {
		g.log.ErrorContext(ctx, "Failed to append request log",
			"username", username, "command", command, "success", success, "error", err)
	}
}

// Execute runs fn behind the gate: Check happens before fn, and exactly one
// Record happens after fn finishes, whether it returns an error or panics.
// A rate-limited or store-failed check means fn never runs and no entry is
// recorded. fn's error is returned unchanged after recording.
func (g *Gate) Execute(ctx context.Context, username, command string, fn func(context.Context) error) error {
	if err := g.Check(ctx, username, command); err != nil {
		return err
	}

	success := false
	defer func() {
		g.Record(ctx, username, command, success)
	}()

	if err := fn(ctx); err != nil {
		return err
	}
	success = true
	return nil
}
