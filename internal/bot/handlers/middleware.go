// Package handlers contains Telegram bot command and message handlers,
// along with their registration logic and the request-gate adapter.
package handlers

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"minglebot/internal/gate"
)

// commandFunc is a command handler body. It returns an error so the gate can
// audit the outcome; the Gated adapter turns the error into a generic
// failure reply.
type commandFunc func(ctx context.Context, b *bot.Bot, update *models.Update) error

// Gated adapts a commandFunc into a bot.HandlerFunc that runs behind the
// request gate: rate-limit check before the body, exactly one audit record
// after it. Rate-limited users get the retry message and the body never
// runs; any other gate or handler error is logged and rendered as the
// generic error reply.
func Gated(deps HandlerDeps, command string, fn commandFunc) bot.HandlerFunc {
	return func(ctx context.Context, b *bot.Bot, update *models.Update) {
		log := deps.Logger.With("middleware", "gate", "command", command)

		if update.Message == nil || update.Message.From == nil {
			log.DebugContext(ctx, "Ignoring update with nil message or sender", "update_id", update.ID)
			return
		}

		username := senderUsername(update.Message.From)
		chatID := update.Message.Chat.ID

		err := deps.Gate.Execute(ctx, username, command, func(ctx context.Context) error {
			return fn(ctx, b, update)
		})

		switch {
		case err == nil:

		case errors.Is(err, gate.ErrRateLimited):
			sendText(ctx, b, log, chatID, deps.Config.Messages.RateLimited)

		default:
			log.ErrorContext(ctx, "Command failed", "username", username, "error", err)
			sendText(ctx, b, log, chatID, deps.Config.Messages.GeneralError)
		}
	}
}

// senderUsername returns the chat-platform username, falling back to the
// numeric user ID for accounts without one.
func senderUsername(from *models.User) string {
	if from.Username != "" {
		return from.Username
	}
	return strconv.FormatInt(from.ID, 10)
}

// sendText sends a plain text reply, logging failures instead of returning
// them: a failed send should never count as a failed command.
func sendText(ctx context.Context, b *bot.Bot, log *slog.Logger, chatID int64, text string) {
	if _, err := b.SendMessage(ctx, &bot.SendMessageParams{ChatID: chatID, Text: text}); err != nil {
		log.ErrorContext(ctx, "Failed to send message", "error", err, "chat_id", chatID)
	}
}

// commandArgs splits the whitespace-separated arguments following the
// command token.
func commandArgs(text string) []string {
	fields := strings.Fields(text)
	if len(fields) <= 1 {
		return nil
	}
	return fields[1:]
}

// commandArgText returns everything after the command token, trimmed.
func commandArgText(text string) string {
	fields := strings.SplitN(strings.TrimSpace(text), " ", 2)
	if len(fields) < 2 {
		return ""
	}
	return strings.TrimSpace(fields[1])
}
