package database

import "time"

// User is the registry record of a Telegram user who started a
// conversation with the bot. Records are append-only: an upsert for an
// existing ID is a no-op, so the first-seen field values are retained.
// The registry exists solely to enumerate broadcast recipients.
type User struct {
	ID        int64     `db:"id"`
	Username  string    `db:"username"`
	FirstName string    `db:"first_name"`
	LastName  string    `db:"last_name"`
	StartedAt time.Time `db:"started_at"`
}
