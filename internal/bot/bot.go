// Package bot implements the core bot lifecycle: the orchestrator that
// runs the Telegram listener and the task scheduler, and shuts both down
// gracefully.
package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	tgbot "github.com/go-telegram/bot"
	"github.com/jmoiron/sqlx"
	"golang.org/x/sync/errgroup"

	"github.com/appealbot/appealbot/internal/config"
	"github.com/appealbot/appealbot/internal/database"
	"github.com/appealbot/appealbot/internal/gemini"
)

// Bot represents the application and manages its components' lifecycle.
type Bot struct {
	logger       *slog.Logger
	cfg          *config.Config
	db           *sqlx.DB
	store        database.Store
	geminiClient gemini.Client
	tgBot        *tgbot.Bot
	scheduler    *Scheduler
}

// NewBot creates the application from its already-initialized components.
func NewBot(
	logger *slog.Logger,
	cfg *config.Config,
	db *sqlx.DB,
	store database.Store,
	geminiClient gemini.Client,
	tgBot *tgbot.Bot,
	scheduler *Scheduler,
) *Bot {
	return &Bot{
		logger:       logger.With("component", "bot_orchestrator"),
		cfg:          cfg,
		db:           db,
		store:        store,
		geminiClient: geminiClient,
		tgBot:        tgBot,
		scheduler:    scheduler,
	}
}

// Run starts the Telegram listener and the scheduler and blocks until the
// context is cancelled or a component fails.
func (b *Bot) Run(ctx context.Context) error {
	b.logger.Info("Starting bot orchestrator")

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		b.logger.Info("Starting Telegram bot listener")
		b.tgBot.Start(gCtx)
		b.logger.Info("Telegram bot listener stopped")

		if gCtx.Err() == nil {
			return fmt.Errorf("telegram listener stopped unexpectedly")
		}
		return nil
	})

	g.Go(func() error {
		if err := b.scheduler.Start(); err != nil {
			return fmt.Errorf("failed to start scheduler: %w", err)
		}

		<-gCtx.Done()
		b.logger.Info("Shutdown signal received, stopping scheduler")

		if err := b.scheduler.Stop(); err != nil {
			b.logger.Error("Error stopping scheduler", "error", err)
		}
		return nil
	})

	err := g.Wait()
	if err != nil && !errors.Is(err, context.Canceled) {
		b.logger.Error("Bot orchestrator stopped due to error", "error", err)
		return err
	}

	b.logger.Info("Bot orchestrator stopped gracefully")
	return nil
}
