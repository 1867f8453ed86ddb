package handlers

import (
	"log/slog"

	"minglebot/internal/config"
	"minglebot/internal/database"
	"minglebot/internal/events"
	"minglebot/internal/gate"
	"minglebot/internal/gemini"
	"minglebot/internal/match"
	"minglebot/internal/users"
)

// HandlerDeps provides dependencies for Telegram command handlers.
type HandlerDeps struct {
	Logger     *slog.Logger
	Config     *config.Config
	Store      database.Store
	Gate       *gate.Gate
	Users      *users.Service
	Events     *events.Engine
	Matches    *match.Engine
	Completion gemini.Client
}
