package handlers

import (
	"context"
	"fmt"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// helloHandler processes the /hello command, greeting the caller by whatever
// name follows the command.
type helloHandler struct {
	deps HandlerDeps
}

func (h helloHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) error {
	log := h.deps.Logger.With("handler", "hello")

	name := commandArgText(update.Message.Text)
	if name == "" {
		name = "friend"
	}

	sendText(ctx, b, log, update.Message.Chat.ID, fmt.Sprintf("Good day, %s!", name))
	return nil
}
