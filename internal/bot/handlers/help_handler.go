package handlers

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// helpHandler processes the /help command.
type helpHandler struct {
	deps HandlerDeps
}

func (h helpHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) error {
	log := h.deps.Logger.With("handler", "help")

	log.InfoContext(ctx, "Handling /help command",
		"chat_id", update.Message.Chat.ID, "user_id", update.Message.From.ID)

	sendText(ctx, b, log, update.Message.Chat.ID, h.deps.Config.Messages.Help)
	return nil
}
