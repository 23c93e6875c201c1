// Package config provides configuration loading, validation, and management
// for the appealbot application. It handles reading from an optional YAML
// file and BOT_* environment variables, setting default values, and
// validating configuration parameters.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// TaskConfig describes a single scheduled task entry.
type TaskConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Schedule string `mapstructure:"schedule"`
}

// Config defines the application configuration parameters for all
// components of the bot: logging, Telegram transport, Gemini integration,
// the user registry database, and scheduled tasks.
type Config struct {
	LogLevel string `mapstructure:"log_level" validate:"oneof=debug info warn error"`
	LogJSON  bool   `mapstructure:"log_json"`

	BotToken string `mapstructure:"bot_token" validate:"required"`

	// AdminIDs is a comma-separated list of Telegram user IDs allowed to
	// run admin commands. Empty means no one can broadcast.
	AdminIDs string `mapstructure:"admin_ids"`

	GeminiAPIKey      string        `mapstructure:"gemini_api_key" validate:"required"`
	GeminiModel       string        `mapstructure:"gemini_model"   validate:"required"`
	GeminiTemperature float32       `mapstructure:"gemini_temperature" validate:"min=0,max=2"`
	GeminiTimeout     time.Duration `mapstructure:"gemini_timeout" validate:"min=1s,max=10m"`
	GeminiMaxRetries  int           `mapstructure:"gemini_max_retries" validate:"min=0,max=10"`
	GeminiRetryDelay  time.Duration `mapstructure:"gemini_retry_delay" validate:"min=0,max=1m"`

	DBPath string `mapstructure:"db_path" validate:"required"`

	BroadcastConcurrency int `mapstructure:"broadcast_concurrency" validate:"min=1,max=64"`

	SchedulerTasks map[string]TaskConfig `mapstructure:"scheduler_tasks"`

	MsgWelcome       string `mapstructure:"msg_welcome"`
	MsgHelp          string `mapstructure:"msg_help"`
	MsgGenerating    string `mapstructure:"msg_generating"`
	MsgRegenerating  string `mapstructure:"msg_regenerating"`
	MsgGenerateError string `mapstructure:"msg_generate_error"`
	MsgBackToMenu    string `mapstructure:"msg_back_to_menu"`
	MsgMainMenu      string `mapstructure:"msg_main_menu"`
	MsgUseMenu       string `mapstructure:"msg_use_menu"`
	MsgNoCategory    string `mapstructure:"msg_no_category"`
	MsgUnknownAction string `mapstructure:"msg_unknown_action"`
	MsgNotAuthorized string `mapstructure:"msg_not_authorized"`
	MsgBroadcastUse  string `mapstructure:"msg_broadcast_usage"`
	MsgDBNotReady    string `mapstructure:"msg_db_not_ready"`
	MsgStatusOK      string `mapstructure:"msg_status_ok"`

	// adminSet is derived from AdminIDs at load time.
	adminSet map[int64]struct{}
}

// Load reads configuration from config.yaml (optional) and BOT_* environment
// variables, applies defaults, and validates the result. Startup must abort
// when Load returns an error: a missing bot token or Gemini key leaves the
// bot unable to do anything.
func Load() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	v.SetEnvPrefix("BOT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		slog.Info("configuration file not found, using defaults and environment")
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	adminSet, err := parseAdminIDs(cfg.AdminIDs)
	if err != nil {
		return nil, fmt.Errorf("invalid admin_ids: %w", err)
	}
	cfg.adminSet = adminSet

	if err := validateErrorFormat(cfg.MsgGenerateError); err != nil {
		return nil, fmt.Errorf("invalid msg_generate_error: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	slog.Info("configuration loaded",
		"log_level", cfg.LogLevel,
		"gemini_model", cfg.GeminiModel,
		"db_path", cfg.DBPath,
		"admin_count", len(cfg.adminSet))

	return cfg, nil
}

// IsAdmin reports whether the given Telegram user ID is on the admin
// allow-list.
func (c *Config) IsAdmin(userID int64) bool {
	_, ok := c.adminSet[userID]
	return ok
}

// parseAdminIDs parses a comma-separated ID list. Blank entries are
// skipped so trailing commas in environment variables are harmless.
func parseAdminIDs(raw string) (map[int64]struct{}, error) {
	set := make(map[int64]struct{})
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%q is not a valid user ID: %w", part, err)
		}
		set[id] = struct{}{}
	}
	return set, nil
}

// validateErrorFormat checks that a Sprintf template renders cleanly with
// a single error argument. A template missing a verb would otherwise show
// up in chat as "%!(EXTRA ...)".
func validateErrorFormat(format string) error {
	rendered := fmt.Sprintf(format, errors.New("check"))
	if strings.Contains(rendered, "%!") {
		return fmt.Errorf("template %q does not format a single error value", format)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log_level", "info")
	v.SetDefault("log_json", true)

	// Secrets default to empty so the keys are visible to AutomaticEnv;
	// validation rejects them when they stay empty.
	v.SetDefault("bot_token", "")
	v.SetDefault("gemini_api_key", "")
	v.SetDefault("admin_ids", "")

	v.SetDefault("gemini_model", "gemini-2.5-flash")
	v.SetDefault("gemini_temperature", 1.0)
	v.SetDefault("gemini_timeout", 2*time.Minute)
	v.SetDefault("gemini_max_retries", 2)
	v.SetDefault("gemini_retry_delay", 5*time.Second)

	v.SetDefault("db_path", "storage.db")
	v.SetDefault("broadcast_concurrency", 8)

	v.SetDefault("scheduler_tasks", map[string]any{
		"db_maintenance": map[string]any{
			"enabled":  true,
			"schedule": "0 0 4 * * *",
		},
	})

	v.SetDefault("msg_welcome",
		"Hi — this bot helps generate formal WhatsApp report & appeal messages.\n\n"+
			"Choose the issue you want to report from the menu below. "+
			"Each report button will generate a ready-to-send report message.")
	v.SetDefault("msg_help",
		"This bot generates report text only. Use Regenerate to get a new report, "+
			"Back to return to report list, Home for main menu.")
	v.SetDefault("msg_generating", "Generating report message... ⏳")
	v.SetDefault("msg_regenerating", "Regenerating report message... ⏳")
	v.SetDefault("msg_generate_error", "Error generating report: %v")
	v.SetDefault("msg_back_to_menu", "Back to report menu:")
	v.SetDefault("msg_main_menu", "Main menu:")
	v.SetDefault("msg_use_menu", "Use the menu:")
	v.SetDefault("msg_no_category", "No category selected yet. Pick one from the menu:")
	v.SetDefault("msg_unknown_action", "Unknown action.")
	v.SetDefault("msg_not_authorized", "You are not authorized to broadcast.")
	v.SetDefault("msg_broadcast_usage", "Usage: /broadcast <message>")
	v.SetDefault("msg_db_not_ready", "Database not ready.")
	v.SetDefault("msg_status_ok", "Bot is running.")
}
