package database_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"minglebot/internal/database"
)

// newTestStore opens a fresh migrated SQLite database in a temp directory.
func newTestStore(t *testing.T) database.Store {
	t.Helper()

	db, err := database.NewDB(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { database.CloseDB(db) })

	return database.NewStore(db, nil)
}

func TestSaveAndGetUser(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	ctx := context.Background()

	profile := &database.UserProfile{Username: "alice", Description: "likes live music"}
	profile.SetInterestList([]string{"vr", "gaming"})
	require.NoError(t, store.SaveUser(ctx, profile))

	got, err := store.GetUser(ctx, "alice")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "alice", got.Username)
	assert.Equal(t, []string{"gaming", "vr"}, got.InterestList())
	assert.Equal(t, "likes live music", got.Description)
	assert.False(t, got.CreatedAt.IsZero())
}

func TestGetUser_NotFoundReturnsNil(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)

	got, err := store.GetUser(context.Background(), "nobody")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestSaveUser_UpdatesExistingByUsername(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	ctx := context.Background()

	profile := &database.UserProfile{Username: "alice"}
	profile.SetInterestList([]string{"gaming"})
	require.NoError(t, store.SaveUser(ctx, profile))

	updated := &database.UserProfile{Username: "alice", Description: "updated"}
	updated.SetInterestList([]string{"hiking"})
	require.NoError(t, store.SaveUser(ctx, updated))

	got, err := store.GetUser(ctx, "alice")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, []string{"hiking"}, got.InterestList())
	assert.Equal(t, "updated", got.Description)

	others, err := store.ListOtherUsers(ctx, "zzz")
	require.NoError(t, err)
	assert.Len(t, others, 1, "upsert must not create a second row")
}

func TestListOtherUsers_ExcludesAndOrders(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	ctx := context.Background()

	for _, username := range []string{"carol", "alice", "bob"} {
		profile := &database.UserProfile{Username: username}
		profile.SetInterestList([]string{"chess"})
		require.NoError(t, store.SaveUser(ctx, profile))
	}

	others, err := store.ListOtherUsers(ctx, "bob")
	require.NoError(t, err)
	require.Len(t, others, 2)
	assert.Equal(t, "alice", others[0].Username)
	assert.Equal(t, "carol", others[1].Username)
}

func TestSaveEventsAndGetRecentEvents(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	ctx := context.Background()

	first := []database.Event{
		{Name: "Jazz Night", Date: "July 4, 2025", Link: "https://example.com/jazz"},
	}
	require.NoError(t, store.SaveEvents(ctx, "alice", first))

	second := []database.Event{
		{Name: "Synth Meetup", Date: "July 6, 2025", Link: "https://example.com/synth"},
		{Name: "Open Mic", Date: "July 8, 2025", Link: "https://example.com/mic"},
	}
	require.NoError(t, store.SaveEvents(ctx, "alice", second))

	require.NoError(t, store.SaveEvents(ctx, "bob", []database.Event{
		{Name: "Chess Open", Date: "July 9, 2025", Link: "https://example.com/chess"},
	}))

	got, err := store.GetRecentEvents(ctx, "alice", 10)
	require.NoError(t, err)
	require.Len(t, got, 3, "other users' events must not leak in")

	// Most recent batch first; within a batch, later inserts first.
	assert.Equal(t, "Open Mic", got[0].Name)
	assert.Equal(t, "Synth Meetup", got[1].Name)
	assert.Equal(t, "Jazz Night", got[2].Name)

	limited, err := store.GetRecentEvents(ctx, "alice", 2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)
}

func TestCountRecentRequests_WindowExcludesOldEntries(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	ctx := context.Background()
	now := time.Now().UTC()

	for i := 0; i < 3; i++ {
		require.NoError(t, store.AppendRequestLog(ctx, &database.RequestLog{
			Username: "alice", Command: "events", Success: true,
			CreatedAt: now.Add(-10 * time.Second),
		}))
	}
	// Outside the window.
	require.NoError(t, store.AppendRequestLog(ctx, &database.RequestLog{
		Username: "alice", Command: "events", Success: true,
		CreatedAt: now.Add(-2 * time.Minute),
	}))
	// Different user.
	require.NoError(t, store.AppendRequestLog(ctx, &database.RequestLog{
		Username: "bob", Command: "events", Success: true,
		CreatedAt: now.Add(-10 * time.Second),
	}))

	count, err := store.CountRecentRequests(ctx, "alice", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestDeleteRequestLogsBefore(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	ctx := context.Background()
	now := time.Now().UTC()

	require.NoError(t, store.AppendRequestLog(ctx, &database.RequestLog{
		Username: "alice", Command: "events", Success: true,
		CreatedAt: now.Add(-48 * time.Hour),
	}))
	require.NoError(t, store.AppendRequestLog(ctx, &database.RequestLog{
		Username: "alice", Command: "events", Success: true,
		CreatedAt: now,
	}))

	deleted, err := store.DeleteRequestLogsBefore(ctx, now.Add(-24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	count, err := store.CountRecentRequests(ctx, "alice", 72*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestIncrementKeyword(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	ctx := context.Background()

	count, err := store.IncrementKeyword(ctx, "gaming")
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	count, err = store.IncrementKeyword(ctx, "gaming")
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	count, err = store.IncrementKeyword(ctx, "hiking")
	require.NoError(t, err)
	assert.Equal(t, int64(1), count, "counters are independent per keyword")
}

func TestIncrementKeyword_EmptyRejected(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)

	_, err := store.IncrementKeyword(context.Background(), "")
	assert.Error(t, err)
}

func TestRunSQLMaintenance(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	assert.NoError(t, store.RunSQLMaintenance(context.Background()))
}
