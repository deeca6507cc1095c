package store

import (
	"context"
	"time"

	"prospector/internal/game"
)

// User is a registered account with lifetime stats. The password hash
// never leaves the store layer in API responses.
type User struct {
	ID           string     `json:"id"`
	Username     string     `json:"username"`
	PasswordHash string     `json:"-"`
	Stats        game.Stats `json:"stats"`
	LastLogin    time.Time  `json:"last_login"`
}

// UserStore is the account backend. Two implementations exist: the JSON
// file store (default) and the postgres store (DATABASE_URL).
type UserStore interface {
	Create(ctx context.Context, username, passwordHash string) (User, error)
	ByUsername(ctx context.Context, username string) (User, error)
	ByID(ctx context.Context, id string) (User, error)
	TouchLogin(ctx context.Context, id string) error
	RecordOutcome(ctx context.Context, id string, outcome game.Outcome) error
	Leaderboard(ctx context.Context, limit int) ([]User, error)
}
