// Package main contains the entrypoint for the Telegram bot application.
package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	tgbot "github.com/go-telegram/bot"

	"minglebot/internal/bot"
	"minglebot/internal/bot/handlers"
	"minglebot/internal/bot/tasks"
	"minglebot/internal/config"
	"minglebot/internal/database"
	"minglebot/internal/events"
	"minglebot/internal/gate"
	"minglebot/internal/gemini"
	"minglebot/internal/logger"
	"minglebot/internal/match"
	"minglebot/internal/telegram"
	"minglebot/internal/users"

	_ "modernc.org/sqlite"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	exitCode := run(ctx)
	stop() // Ensure context cancellation is signaled before exit
	os.Exit(exitCode)
}

// run initializes and starts all application components (config, logger, db, ai client, bot, scheduler),
// handles graceful shutdown, and returns an exit code (0 for success, 1 for failure).
func run(ctx context.Context) int {
	configPath := flag.String("config", "./config.yaml", "Path to configuration file")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		slog.Error("Failed to load configuration", "path", *configPath, "error", err)
		return 1
	}

	log := logger.NewLogger(cfg.Logger.Level, cfg.Logger.JSON)
	slog.SetDefault(log)
	log.Info("Logger initialized", "level", cfg.Logger.Level, "json", cfg.Logger.JSON)

	db, err := database.NewDB(cfg.Database.Path)
	if err != nil {
		log.Error("Failed to connect to database", "path", cfg.Database.Path, "error", err)
		return 1
	}
	defer database.CloseDB(db) // Ensure DB is closed on function exit
	store := database.NewStore(db, log)
	if err := store.Ping(ctx); err != nil {
		log.Error("Database ping failed", "error", err)
		return 1
	}

	completion, err := gemini.NewClient(ctx, cfg.Gemini, log)
	if err != nil {
		log.Error("Failed to initialize Gemini client", "error", err)
		return 1
	}

	hDeps := handlers.HandlerDeps{
		Logger:     log,
		Config:     cfg,
		Store:      store,
		Gate:       gate.New(store, cfg.RateLimit, log),
		Users:      users.NewService(store, log),
		Events:     events.NewEngine(completion, store, log),
		Matches:    match.NewEngine(completion, store, log),
		Completion: completion,
	}
	tDeps := tasks.TaskDeps{
		Logger: log,
		Store:  store,
		Config: cfg,
	}

	botOpts := []tgbot.Option{
		tgbot.WithMiddlewares(logger.Middleware(log)),
		tgbot.WithDefaultHandler(handlers.NewDefaultHandler(hDeps)),
	}
	tg, err := telegram.NewTelegramBot(cfg.Telegram.Token, log, botOpts...)
	if err != nil {
		log.Error("Failed to create Telegram bot", "error", err)
		return 1
	}

	// Retrieve bot info and store it in the config for runtime use
	cfg.Telegram.BotInfo, err = tg.GetMe(ctx)
	if err != nil {
		log.Error("Failed to get bot info", "error", err)
		return 1
	}
	log.Info("Retrieved bot info", "bot_id", cfg.Telegram.BotInfo.ID, "bot_username", cfg.Telegram.BotInfo.Username)

	cmdHandlers := handlers.RegisterAllCommands(hDeps)
	if err := telegram.RegisterHandlers(tg, log, cmdHandlers); err != nil {
		log.Error("Failed to register Telegram handlers", "error", err)
		return 1
	}

	sched := bot.NewScheduler(log, &cfg.Scheduler, tasks.RegisterAllTasks(tDeps))
	app := bot.NewBot(log, cfg, db, store, completion, tg, sched)

	log.Info("Starting bot...")
	runErr := app.Run(ctx) // Run blocks until context is cancelled or an error occurs
	log.Info("Bot run loop finished. Initiating shutdown...")

	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		log.Error("Bot stopped due to error", "error", runErr)
		// Allow logs to flush before exiting on error
		time.Sleep(time.Second)
		return 1
	}

	log.Info("Bot stopped gracefully.")
	time.Sleep(time.Second)
	return 0
}
