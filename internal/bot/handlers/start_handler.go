package handlers

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// startHandler processes the /start command.
type startHandler struct {
	deps HandlerDeps
}

func (h startHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) error {
	log := h.deps.Logger.With("handler", "start")

	log.InfoContext(ctx, "Handling /start command",
		"chat_id", update.Message.Chat.ID, "user_id", update.Message.From.ID)

	sendText(ctx, b, log, update.Message.Chat.ID, h.deps.Config.Messages.Welcome)
	return nil
}
