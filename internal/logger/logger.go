// Package logger provides structured logging for appealbot. It builds
// slog loggers from configuration and supplies a Telegram middleware that
// logs every inbound update.
package logger

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// New creates a slog.Logger with the given level. If jsonOutput is true
// the logs are emitted as JSON, otherwise as text.
func New(levelStr string, jsonOutput bool) *slog.Logger {
	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if jsonOutput {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	return slog.New(handler)
}

// Middleware creates a Telegram bot middleware that logs each update
// (messages and callback queries) with its processing duration.
func Middleware(log *slog.Logger) bot.Middleware {
	return func(next bot.HandlerFunc) bot.HandlerFunc {
		return func(ctx context.Context, b *bot.Bot, update *models.Update) {
			start := time.Now()

			entry := log.With("update_id", update.ID)

			switch {
			case update.Message != nil:
				chatID := update.Message.Chat.ID
				var userID int64
				if update.Message.From != nil {
					userID = update.Message.From.ID
				}
				entry = entry.With(
					"update_type", "message",
					"message_id", update.Message.ID,
					"chat_id", chatID,
					"user_id", userID,
					"text_preview", truncate(update.Message.Text, 50),
				)
			case update.CallbackQuery != nil:
				entry = entry.With(
					"update_type", "callback_query",
					"callback_query_id", update.CallbackQuery.ID,
					"user_id", update.CallbackQuery.From.ID,
					"data", update.CallbackQuery.Data,
				)
				if update.CallbackQuery.Message.Message.Date != 0 {
					entry = entry.With("chat_id", update.CallbackQuery.Message.Message.Chat.ID)
				} else {
					entry = entry.With("chat_id", update.CallbackQuery.Message.InaccessibleMessage.Chat.ID)
				}
			default:
				entry = entry.With("update_type", "other")
			}

			entry.InfoContext(ctx, "Processing update")

			next(ctx, b, update)

			entry.InfoContext(ctx, "Finished processing update", "duration", time.Since(start))
		}
	}
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return "..."
	}
	return s[:maxLen-3] + "..."
}
