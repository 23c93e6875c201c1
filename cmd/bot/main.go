// Package main contains the entrypoint for the appealbot Telegram bot.
package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	tgbot "github.com/go-telegram/bot"

	"github.com/appealbot/appealbot/internal/bot"
	"github.com/appealbot/appealbot/internal/bot/handlers"
	"github.com/appealbot/appealbot/internal/bot/tasks"
	"github.com/appealbot/appealbot/internal/config"
	"github.com/appealbot/appealbot/internal/database"
	"github.com/appealbot/appealbot/internal/gemini"
	"github.com/appealbot/appealbot/internal/logger"
	"github.com/appealbot/appealbot/internal/telegram"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	exitCode := run(ctx)
	stop()
	os.Exit(exitCode)
}

// run initializes all application components (config, logger, database,
// AI client, bot, scheduler), starts them, handles graceful shutdown, and
// returns the process exit code.
func run(ctx context.Context) int {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		return 1
	}

	log := logger.New(cfg.LogLevel, cfg.LogJSON)
	slog.SetDefault(log)
	log.Info("Logger initialized", "level", cfg.LogLevel, "json", cfg.LogJSON)

	db, err := database.NewDB(cfg.DBPath)
	if err != nil {
		log.Error("Failed to connect to database", "path", cfg.DBPath, "error", err)
		return 1
	}
	defer database.CloseDB(db)
	store := database.NewStore(db, log)

	geminiClient, err := gemini.NewClient(ctx, cfg, log)
	if err != nil {
		log.Error("Failed to initialize Gemini client", "error", err)
		return 1
	}

	hDeps := handlers.HandlerDeps{
		Logger:       log,
		Config:       cfg,
		Store:        store,
		GeminiClient: geminiClient,
		Sessions:     handlers.NewSessionStore(),
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
	tg, err := telegram.NewTelegramBot(cfg.BotToken, log, botOpts...)
	if err != nil {
		log.Error("Failed to create Telegram bot", "error", err)
		return 1
	}

	if err := telegram.SetBotCommands(ctx, tg, log); err != nil {
		// A failed menu update is cosmetic; the bot still works.
		log.Warn("Failed to publish bot command menu", "error", err)
	}

	if err := telegram.RegisterHandlers(tg, log, handlers.RegisterAllHandlers(hDeps)); err != nil {
		log.Error("Failed to register Telegram handlers", "error", err)
		return 1
	}

	sched, err := bot.NewScheduler(log, cfg.SchedulerTasks, tasks.RegisterAllTasks(tDeps))
	if err != nil {
		log.Error("Failed to create scheduler", "error", err)
		return 1
	}

	app := bot.NewBot(log, cfg, db, store, geminiClient, tg, sched)

	log.Info("Starting bot...")
	runErr := app.Run(ctx)

	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		log.Error("Bot stopped due to error", "error", runErr)
		time.Sleep(time.Second)
		return 1
	}

	log.Info("Bot stopped gracefully.")
	time.Sleep(time.Second)
	return 0
}
