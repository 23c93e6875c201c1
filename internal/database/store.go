package database

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"
)

// Store defines the interface for user registry operations. All methods
// are safe to call from concurrent update handlers; each statement is
// independent and auto-committing.
type Store interface {
	// Ping checks the database connection.
	Ping(ctx context.Context) error

	// UpsertUser inserts a user record, ignoring the insert when a record
	// with the same ID already exists. Existing fields are never
	// overwritten.
	UpsertUser(ctx context.Context, user *User) error

	// ListUserIDs returns the IDs of all registered users. No ordering
	// guarantee; broadcast delivery is order-independent.
	ListUserIDs(ctx context.Context) ([]int64, error)

	// CountUsers returns the number of registered users.
	CountUsers(ctx context.Context) (int64, error)

	// RunMaintenance performs database upkeep (VACUUM).
	RunMaintenance(ctx context.Context) error
}

type sqlxStore struct {
	db     *sqlx.DB
	logger *slog.Logger
}

// NewStore creates a Store backed by sqlx. It requires a connected
// sqlx.DB instance; a nil logger discards log output.
func NewStore(db *sqlx.DB, logger *slog.Logger) Store {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &sqlxStore{
		db:     db,
		logger: logger.With("component", "store"),
	}
}

func (s *sqlxStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *sqlxStore) UpsertUser(ctx context.Context, user *User) error {
	if user == nil {
		return errors.New("cannot save nil user")
	}
	if user.ID == 0 {
		return errors.New("user must have a non-zero id")
	}

	if user.StartedAt.IsZero() {
		user.StartedAt = time.Now().UTC()
	}

	query := `
        INSERT INTO users (id, username, first_name, last_name, started_at)
        VALUES (:id, :username, :first_name, :last_name, :started_at)
        ON CONFLICT (id) DO NOTHING;
    `

	result, err := s.db.NamedExecContext(ctx, query, user)
	if err != nil {
		s.logger.ErrorContext(ctx, "Error upserting user", "user_id", user.ID, "error", err)
		return fmt.Errorf("failed to upsert user %d: %w", user.ID, err)
	}

	affected, err := result.RowsAffected()
	if err == nil && affected == 0 {
		s.logger.DebugContext(ctx, "User already registered", "user_id", user.ID)
		return nil
	}

	s.logger.DebugContext(ctx, "User registered", "user_id", user.ID)
	return nil
}

func (s *sqlxStore) ListUserIDs(ctx context.Context) ([]int64, error) {
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	var ids []int64
	if err := s.db.SelectContext(ctx, &ids, `SELECT id FROM users`); err != nil {
		s.logger.ErrorContext(ctx, "Error listing user IDs", "error", err)
		return nil, fmt.Errorf("failed to list user IDs: %w", err)
	}

	s.logger.DebugContext(ctx, "Listed user IDs", "count", len(ids))
	return ids, nil
}

func (s *sqlxStore) CountUsers(ctx context.Context) (int64, error) {
	var count int64
	if err := s.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM users`); err != nil {
		s.logger.ErrorContext(ctx, "Error counting users", "error", err)
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	return count, nil
}

// RunMaintenance executes VACUUM. SQLite requires it to run outside a
// transaction.
func (s *sqlxStore) RunMaintenance(ctx context.Context) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}

	s.logger.InfoContext(ctx, "Starting database maintenance (VACUUM)")

	_, err := s.db.ExecContext(ctx, "VACUUM;")

	switch {
	case errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled):
		s.logger.WarnContext(ctx, "VACUUM timed out or was cancelled", "error", err)
		return fmt.Errorf("database maintenance timed out: %w", err)
	case err != nil:
		s.logger.ErrorContext(ctx, "Database maintenance failed", "error", err)
		return fmt.Errorf("failed to execute VACUUM: %w", err)
	}

	s.logger.InfoContext(ctx, "Database maintenance completed")
	return nil
}
