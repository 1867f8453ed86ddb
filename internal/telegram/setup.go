// Package telegram handles the setup and registration of Telegram bot handlers.
package telegram

import (
	"fmt"
	"log/slog"

	"github.com/go-telegram/bot"

	"minglebot/internal/bot/handlers"
)

// NewTelegramBot creates a new Telegram bot instance using the go-telegram/bot library.
func NewTelegramBot(token string, logger *slog.Logger, opts ...bot.Option) (*bot.Bot, error) {
	if token == "" {
		return nil, fmt.Errorf("telegram bot token cannot be empty")
	}
	if logger == nil {
		logger = slog.Default()
	}
	log := logger.With("component", "telegram_bot")

	b, err := bot.New(token, opts...)
	if err != nil {
		log.Error("Failed to create Telegram bot instance", "error", err)
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}

	log.Info("Telegram bot instance created successfully")
	return b, nil
}

// RegisterHandlers registers command handlers with the Telegram bot instance.
func RegisterHandlers(b *bot.Bot, logger *slog.Logger, registeredHandlers map[string]handlers.RegisteredHandler) error {
	if b == nil {
		return fmt.Errorf("bot instance cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	log := logger.With("component", "handler_registry")

	if len(registeredHandlers) == 0 {
		log.Warn("No handlers provided for registration.")
		return nil
	}

	for _, regHandler := range registeredHandlers {
		if regHandler.Handler == nil {
			log.Warn("Skipping registration for nil handler", "pattern", regHandler.Pattern)
			continue
		}

		b.RegisterHandler(regHandler.HandlerType, regHandler.Pattern, regHandler.MatchType, regHandler.Handler)
		log.Debug("Registered handler", "pattern", regHandler.Pattern, "match_type", regHandler.MatchType)
	}

	log.Info("Registered Telegram handlers successfully", "count", len(registeredHandlers))
	return nil
}
