package handlers

import (
	"log/slog"

	"github.com/appealbot/appealbot/internal/config"
	"github.com/appealbot/appealbot/internal/database"
	"github.com/appealbot/appealbot/internal/gemini"
)

// HandlerDeps provides dependencies for Telegram command and callback
// handlers.
type HandlerDeps struct {
	Logger       *slog.Logger
	Config       *config.Config
	Store        database.Store
	GeminiClient gemini.Client
	Sessions     *SessionStore
}
