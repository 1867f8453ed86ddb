package handlers

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"minglebot/internal/database"
)

// eventsHandler processes /events and /more_events. The more variant feeds
// previously recommended events back into the prompt as an exclusion list.
type eventsHandler struct {
	deps HandlerDeps
	more bool
}

func (h eventsHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) error {
	log := h.deps.Logger.With("handler", "events", "more", h.more)
	chatID := update.Message.Chat.ID
	username := senderUsername(update.Message.From)

	profile, err := h.deps.Users.Get(ctx, username)
	if err != nil {
		return fmt.Errorf("failed to load profile for %q: %w", username, err)
	}
	if profile == nil || len(profile.InterestList()) == 0 {
		sendText(ctx, b, log, chatID, h.deps.Config.Messages.RegisterFirst)
		return nil
	}

	var recommended []database.Event
	header := "Recommended Events:"
	noResults := h.deps.Config.Messages.NoEvents
	if h.more {
		recommended, err = h.deps.Events.RecommendMore(ctx, profile)
		header = "More Recommended Events:"
		noResults = h.deps.Config.Messages.NoMoreEvents
	} else {
		recommended, err = h.deps.Events.Recommend(ctx, profile)
	}
	if err != nil {
		return fmt.Errorf("failed to recommend events for %q: %w", username, err)
	}

	if len(recommended) == 0 {
		sendText(ctx, b, log, chatID, noResults)
		return nil
	}

	sendText(ctx, b, log, chatID, formatEventList(header, recommended))
	return nil
}

func formatEventList(header string, recommended []database.Event) string {
	lines := make([]string, 0, len(recommended)+1)
	lines = append(lines, header)
	for i, event := range recommended {
		lines = append(lines, fmt.Sprintf("%d. %s on %s (%s)", i+1, event.Name, event.Date, event.Link))
	}
	return strings.Join(lines, "\n")
}
