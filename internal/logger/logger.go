// Package logger provides structured logging for minglebot.
// It uses Go's slog package with configurable level and format.
package logger

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// NewLogger creates a new slog Logger with the specified level and format.
// If jsonOutput is true, logs will be formatted as JSON, otherwise as text.
func NewLogger(levelStr string, jsonOutput bool) *slog.Logger {
	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	var handler slog.Handler
	if jsonOutput {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}

// Middleware creates a logging middleware for the Telegram bot.
// It logs every incoming update with sender, chat, and processing duration.
func Middleware(log *slog.Logger) bot.Middleware {
	return func(next bot.HandlerFunc) bot.HandlerFunc {
		return func(ctx context.Context, b *bot.Bot, update *models.Update) {
			startTime := time.Now()

			logEntry := log.With("update_id", update.ID)

			if update.Message != nil {
				var userID int64
				if update.Message.From != nil {
					userID = update.Message.From.ID
				}
				logEntry = logEntry.With(
					"update_type", "message",
					"message_id", update.Message.ID,
					"chat_id", update.Message.Chat.ID,
					"user_id", userID,
					"text_preview", truncateString(update.Message.Text, 50),
				)
			} else {
				logEntry = logEntry.With("update_type", "other")
			}

			logEntry.InfoContext(ctx, "Processing update")

			next(ctx, b, update)

			logEntry.InfoContext(ctx, "Finished processing update", "duration", time.Since(startTime))
		}
	}
}

func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return "..."
	}
	return s[:maxLen-3] + "..."
}
