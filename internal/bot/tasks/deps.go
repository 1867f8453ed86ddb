// Package tasks implements scheduled maintenance tasks for minglebot.
package tasks

import (
	"log/slog"

	"minglebot/internal/config"
	"minglebot/internal/database"
)

// TaskDeps contains all dependencies required by scheduled tasks.
type TaskDeps struct {
	Logger *slog.Logger
	Store  database.Store
	Config *config.Config
}
