package handlers

import (
	"context"
	"fmt"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// addHandler processes the /add command: the keyword is union-merged into
// the caller's interests and its global times-seen counter is bumped.
type addHandler struct {
	deps HandlerDeps
}

func (h addHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) error {
	log := h.deps.Logger.With("handler", "add")
	chatID := update.Message.Chat.ID

	args := commandArgs(update.Message.Text)
	if len(args) == 0 {
		sendText(ctx, b, log, chatID, h.deps.Config.Messages.AddUsage)
		return nil
	}
	keyword := args[0]
	username := senderUsername(update.Message.From)

	log.InfoContext(ctx, "Adding interest keyword", "username", username, "keyword", keyword)

	if _, err := h.deps.Users.AddInterests(ctx, username, keyword); err != nil {
		return fmt.Errorf("failed to add interest %q: %w", keyword, err)
	}

	count, err := h.deps.Store.IncrementKeyword(ctx, keyword)
	if err != nil {
		return fmt.Errorf("failed to count keyword %q: %w", keyword, err)
	}

	sendText(ctx, b, log, chatID,
		fmt.Sprintf("Added %s to your interests. You have said %s for %d times", keyword, keyword, count))
	return nil
}
