package gate_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"minglebot/internal/config"
	"minglebot/internal/database"
	"minglebot/internal/gate"
)

type fakeAuditStore struct {
	count     int
	countErr  error
	appendErr error
	appended  []database.RequestLog
}

func (f *fakeAuditStore) AppendRequestLog(_ context.Context, entry *database.RequestLog) error {
	if f.appendErr != nil {
		return f.appendErr
	}
	f.appended = append(f.appended, *entry)
	return nil
}

func (f *fakeAuditStore) CountRecentRequests(_ context.Context, _ string, _ time.Duration) (int, error) {
	return f.count, f.countErr
}

func newGate(store *fakeAuditStore, limit int, failOpen bool) *gate.Gate {
	cfg := config.RateLimitConfig{Limit: limit, WindowSeconds: 60, FailOpen: failOpen}
	return gate.New(store, cfg, nil)
}

func TestCheck_BelowLimitAllows(t *testing.T) {
	t.Parallel()

	g := newGate(&fakeAuditStore{count: 29}, 30, false)
	if err := g.Check(context.Background(), "alice", "events"); err != nil {
		t.Fatalf("Check() error = %v, want nil", err)
	}
}

func TestCheck_AtLimitRejects(t *testing.T) {
	t.Parallel()

	g := newGate(&fakeAuditStore{count: 30}, 30, false)
	err := g.Check(context.Background(), "alice", "events")
	if !errors.Is(err, gate.ErrRateLimited) {
		t.Fatalf("Check() error = %v, want ErrRateLimited", err)
	}
}

func TestCheck_StoreFailureFailsClosed(t *testing.T) {
	t.Parallel()

	g := newGate(&fakeAuditStore{countErr: errors.New("db locked")}, 30, false)
	err := g.Check(context.Background(), "alice", "events")
	if err == nil {
		t.Fatal("Check() error = nil, want store failure")
	}
	if errors.Is(err, gate.ErrRateLimited) {
		t.Fatal("store failure must be distinguishable from ErrRateLimited")
	}
}

func TestCheck_StoreFailureFailsOpenWhenConfigured(t *testing.T) {
	t.Parallel()

	g := newGate(&fakeAuditStore{countErr: errors.New("db locked")}, 30, true)
	if err := g.Check(context.Background(), "alice", "events"); err != nil {
		t.Fatalf("Check() error = %v, want nil with fail_open", err)
	}
}

func TestExecute_RecordsSuccess(t *testing.T) {
	t.Parallel()

	store := &fakeAuditStore{}
	g := newGate(store, 30, false)

	ran := false
	err := g.Execute(context.Background(), "alice", "events", func(context.Context) error {
		ran = true
		return nil
	})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if !ran {
		t.Fatal("handler did not run")
	}
	if len(store.appended) != 1 {
		t.Fatalf("recorded %d entries, want 1", len(store.appended))
	}
	entry := store.appended[0]
	if entry.Username != "alice" || entry.Command != "events" || !entry.Success {
		t.Errorf("recorded entry = %+v", entry)
	}
	if entry.CreatedAt.IsZero() {
		t.Error("recorded entry has zero timestamp")
	}
}

func TestExecute_RecordsFailureAndReturnsHandlerError(t *testing.T) {
	t.Parallel()

	store := &fakeAuditStore{}
	g := newGate(store, 30, false)

	handlerErr := errors.New("boom")
	err := g.Execute(context.Background(), "alice", "events", func(context.Context) error {
		return handlerErr
	})
	if !errors.Is(err, handlerErr) {
		t.Fatalf("Execute() error = %v, want handler error", err)
	}
	if len(store.appended) != 1 {
		t.Fatalf("recorded %d entries, want 1", len(store.appended))
	}
	if store.appended[0].Success {
		t.Error("failed invocation recorded as success")
	}
}

func TestExecute_RateLimitedSkipsHandlerAndRecord(t *testing.T) {
	t.Parallel()

	store := &fakeAuditStore{count: 30}
	g := newGate(store, 30, false)

	ran := false
	err := g.Execute(context.Background(), "alice", "events", func(context.Context) error {
		ran = true
		return nil
	})
	if !errors.Is(err, gate.ErrRateLimited) {
		t.Fatalf("Execute() error = %v, want ErrRateLimited", err)
	}
	if ran {
		t.Error("handler ran despite rate limit")
	}
	if len(store.appended) != 0 {
		t.Errorf("recorded %d entries, want 0", len(store.appended))
	}
}

func TestExecute_RecordsEvenWhenHandlerPanics(t *testing.T) {
	t.Parallel()

	store := &fakeAuditStore{}
	g := newGate(store, 30, false)

	func() {
		defer func() {
			if recover() == nil {
				t.Error("expected panic to propagate")
			}
		}()
		_ = g.Execute(context.Background(), "alice", "events", func(context.Context) error {
			panic("handler exploded")
		})
	}()

	if len(store.appended) != 1 {
		t.Fatalf("recorded %d entries, want 1", len(store.appended))
	}
	if store.appended[0].Success {
		t.Error("panicked invocation recorded as success")
	}
}

func TestExecute_AppendFailureDoesNotMaskOutcome(t *testing.T) {
	t.Parallel()

	store := &fakeAuditStore{appendErr: errors.New("disk full")}
	g := newGate(store, 30, false)

	err := g.Execute(context.Background(), "alice", "events", func(context.Context) error {
		return nil
	})
	if err != nil {
		t.Fatalf("Execute() error = %v, want nil despite audit failure", err)
	}
}
