package handlers

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// openaiHandler processes the /openai command, sending the argument text
// straight to the completion backend.
type openaiHandler struct {
	deps HandlerDeps
}

func (h openaiHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) error {
	log := h.deps.Logger.With("handler", "openai")
	chatID := update.Message.Chat.ID

	message := commandArgText(update.Message.Text)
	if message == "" {
		sendText(ctx, b, log, chatID, h.deps.Config.Messages.ProvideMessage)
		return nil
	}

	return submitAndReply(ctx, h.deps, b, log, chatID, message)
}

// messageHandler is the catch-all for plain text messages: the whole message
// is passed through to the completion backend.
type messageHandler struct {
	deps HandlerDeps
}

func (h messageHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) error {
	log := h.deps.Logger.With("handler", "message")

	text := update.Message.Text
	if text == "" {
		log.DebugContext(ctx, "Ignoring message without text", "chat_id", update.Message.Chat.ID)
		return nil
	}

	return submitAndReply(ctx, h.deps, b, log, update.Message.Chat.ID, text)
}

func submitAndReply(ctx context.Context, deps HandlerDeps, b *bot.Bot, log *slog.Logger, chatID int64, message string) error {
	reply, err := deps.Completion.Complete(ctx, message)
	if err != nil {
		return fmt.Errorf("completion failed: %w", err)
	}

	log.InfoContext(ctx, "Completion reply generated", "reply_len", len(reply))
	sendText(ctx, b, log, chatID, reply)
	return nil
}
