package events_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"minglebot/internal/database"
	"minglebot/internal/events"
)

type fakeCompletion struct {
	response string
	err      error
	prompts  []string
}

func (f *fakeCompletion) Complete(_ context.Context, prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	return f.response, f.err
}

type fakeHistoryStore struct {
	recent  []database.Event
	saved   []database.Event
	saveErr error
	loadErr error
}

func (f *fakeHistoryStore) SaveEvents(_ context.Context, _ string, evts []database.Event) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saved = append(f.saved, evts...)
	return nil
}

func (f *fakeHistoryStore) GetRecentEvents(_ context.Context, _ string, _ int) ([]database.Event, error) {
	return f.recent, f.loadErr
}

func profileWith(interests ...string) *database.UserProfile {
	p := &database.UserProfile{Username: "alice", Description: "likes live music"}
	p.SetInterestList(interests)
	return p
}

func TestRecommend_ParsesAndPersists(t *testing.T) {
	t.Parallel()

	completion := &fakeCompletion{
		response: "1. Jazz Night - July 4, 2025 - https://example.com/jazz\n" +
			"2. Synth Meetup - July 6, 2025 - https://example.com/synth",
	}
	store := &fakeHistoryStore{}
	engine := events.NewEngine(completion, store, nil)

	got, err := engine.Recommend(context.Background(), profileWith("music", "concerts"))
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("Recommend() returned %d events, want 2", len(got))
	}
	if got[0].Name != "Jazz Night" || got[1].Name != "Synth Meetup" {
		t.Errorf("Recommend() names = %q, %q", got[0].Name, got[1].Name)
	}
	if len(store.saved) != 2 {
		t.Errorf("persisted %d events, want 2", len(store.saved))
	}

	if len(completion.prompts) != 1 {
		t.Fatalf("completion called %d times, want 1", len(completion.prompts))
	}
	// Interests are stored sorted, so the prompt order is deterministic.
	if !strings.Contains(completion.prompts[0], "Interests: concerts, music") {
		t.Errorf("prompt missing interest list:\n%s", completion.prompts[0])
	}
}

func TestRecommend_NoInterestsSkipsCompletion(t *testing.T) {
	t.Parallel()

	completion := &fakeCompletion{response: "1. A - B - C"}
	engine := events.NewEngine(completion, &fakeHistoryStore{}, nil)

	got, err := engine.Recommend(context.Background(), &database.UserProfile{Username: "bob"})
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	if got != nil {
		t.Errorf("Recommend() = %v, want nil", got)
	}
	if len(completion.prompts) != 0 {
		t.Errorf("completion called %d times, want 0", len(completion.prompts))
	}
}

func TestRecommend_CompletionFailureDegradesToEmpty(t *testing.T) {
	t.Parallel()

	completion := &fakeCompletion{err: errors.New("backend down")}
	store := &fakeHistoryStore{}
	engine := events.NewEngine(completion, store, nil)

	got, err := engine.Recommend(context.Background(), profileWith("music"))
	if err != nil {
		t.Fatalf("Recommend() error = %v, want nil", err)
	}
	if got != nil {
		t.Errorf("Recommend() = %v, want nil", got)
	}
	if len(store.saved) != 0 {
		t.Errorf("persisted %d events, want 0", len(store.saved))
	}
}

func TestRecommend_UnparseableResponseYieldsEmpty(t *testing.T) {
	t.Parallel()

	completion := &fakeCompletion{response: "I can't help with that."}
	store := &fakeHistoryStore{}
	engine := events.NewEngine(completion, store, nil)

	got, err := engine.Recommend(context.Background(), profileWith("music"))
	if err != nil {
		t.Fatalf("Recommend() error = %v, want nil", err)
	}
	if got != nil {
		t.Errorf("Recommend() = %v, want nil", got)
	}
	if len(store.saved) != 0 {
		t.Errorf("persisted %d events, want 0", len(store.saved))
	}
}

func TestRecommend_SaveFailurePropagates(t *testing.T) {
	t.Parallel()

	completion := &fakeCompletion{response: "1. Jazz Night - July 4, 2025 - https://example.com/jazz"}
	store := &fakeHistoryStore{saveErr: errors.New("disk full")}
	engine := events.NewEngine(completion, store, nil)

	if _, err := engine.Recommend(context.Background(), profileWith("music")); err == nil {
		t.Fatal("Recommend() error = nil, want save failure")
	}
}

func TestRecommendMore_ExcludesHistory(t *testing.T) {
	t.Parallel()

	completion := &fakeCompletion{
		response: "1. New Event - Aug 1, 2025 - https://example.com/new",
	}
	store := &fakeHistoryStore{
		recent: []database.Event{
			{Name: "Jazz Night"},
			{Name: "Synth Meetup"},
		},
	}
	engine := events.NewEngine(completion, store, nil)

	got, err := engine.RecommendMore(context.Background(), profileWith("music"))
	if err != nil {
		t.Fatalf("RecommendMore() error = %v", err)
	}
	if len(got) != 1 || got[0].Name != "New Event" {
		t.Fatalf("RecommendMore() = %#v", got)
	}

	if len(completion.prompts) != 1 {
		t.Fatalf("completion called %d times, want 1", len(completion.prompts))
	}
	if !strings.Contains(completion.prompts[0], "Jazz Night, Synth Meetup") {
		t.Errorf("prompt missing exclusion list:\n%s", completion.prompts[0])
	}
}

func TestRecommendMore_EmptyHistoryUsesNone(t *testing.T) {
	t.Parallel()

	completion := &fakeCompletion{
		response: "1. New Event - Aug 1, 2025 - https://example.com/new",
	}
	engine := events.NewEngine(completion, &fakeHistoryStore{}, nil)

	if _, err := engine.RecommendMore(context.Background(), profileWith("music")); err != nil {
		t.Fatalf("RecommendMore() error = %v", err)
	}
	if !strings.Contains(completion.prompts[0], "previously suggested events: none") {
		t.Errorf("prompt missing none placeholder:\n%s", completion.prompts[0])
	}
}

func TestRecommendMore_HistoryLoadFailurePropagates(t *testing.T) {
	t.Parallel()

	completion := &fakeCompletion{response: "1. A - B - C"}
	store := &fakeHistoryStore{loadErr: errors.New("db locked")}
	engine := events.NewEngine(completion, store, nil)

	if _, err := engine.RecommendMore(context.Background(), profileWith("music")); err == nil {
		t.Fatal("RecommendMore() error = nil, want history load failure")
	}
	if len(completion.prompts) != 0 {
		t.Errorf("completion called %d times, want 0", len(completion.prompts))
	}
}
