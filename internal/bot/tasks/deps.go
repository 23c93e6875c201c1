// Package tasks implements the bot's scheduled background tasks: task
// definitions, dependencies, and registration.
package tasks

import (
	"log/slog"

	"github.com/appealbot/appealbot/internal/config"
	"github.com/appealbot/appealbot/internal/database"
)

// TaskDeps contains the dependencies available to scheduled tasks.
type TaskDeps struct {
	Logger *slog.Logger
	Store  database.Store
	Config *config.Config
}
