package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"prospector/internal/game"
)

// PostgresUserStore backs accounts with postgres. Selected when
// DATABASE_URL is set; migrations/ owns the schema.
type PostgresUserStore struct {
	pool *pgxpool.Pool
}

func NewPostgresUserStore(ctx context.Context, connString string) (*PostgresUserStore, error) {
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, err
	}
	return &PostgresUserStore{pool: pool}, nil
}

func (s *PostgresUserStore) Close() {
	s.pool.Close()
}

func (s *PostgresUserStore) Create(ctx context.Context, username, passwordHash string) (User, error) {
	u := User{
		ID:           uuid.NewString(),
		Username:     username,
		PasswordHash: passwordHash,
	}
	row := s.pool.QueryRow(ctx,
		`INSERT INTO users(id, username, password_hash) VALUES($1, $2, $3) RETURNING last_login`,
		u.ID, username, passwordHash)

	if err := row.Scan(&u.LastLogin); err != nil {
		var pgErr *pgconn.PgError
		// 23505 is unique_violation.
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return User{}, ErrDuplicateUsername
		}
		return User{}, fmt.Errorf("creating user: %w", err)
	}
	return u, nil
}

func (s *PostgresUserStore) ByUsername(ctx context.Context, username string) (User, error) {
	u := User{Username: username}
	row := s.pool.QueryRow(ctx,
		`SELECT id, password_hash, wins, losses, draws, games_played, last_login
		 FROM users WHERE username = $1`, username)

	err := row.Scan(&u.ID, &u.PasswordHash,
		&u.Stats.Wins, &u.Stats.Losses, &u.Stats.Draws, &u.Stats.GamesPlayed,
		&u.LastLogin)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return User{}, ErrUserNotFound
		}
		return User{}, fmt.Errorf("loading user by name: %w", err)
	}
	return u, nil
}

func (s *PostgresUserStore) ByID(ctx context.Context, id string) (User, error) {
	u := User{ID: id}
	row := s.pool.QueryRow(ctx,
		`SELECT username, password_hash, wins, losses, draws, games_played, last_login
		 FROM users WHERE id = $1`, id)

	err := row.Scan(&u.Username, &u.PasswordHash,
		&u.Stats.Wins, &u.Stats.Losses, &u.Stats.Draws, &u.Stats.GamesPlayed,
		&u.LastLogin)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return User{}, ErrUserNotFound
		}
		return User{}, fmt.Errorf("loading user by id: %w", err)
	}
	return u, nil
}

func (s *PostgresUserStore) TouchLogin(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `UPDATE users SET last_login = now() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("touching login: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (s *PostgresUserStore) RecordOutcome(ctx context.Context, id string, outcome game.Outcome) error {
	var column string
	switch outcome {
	case game.OutcomeWin:
		column = "wins"
	case game.OutcomeLoss:
		column = "losses"
	case game.OutcomeDraw:
		column = "draws"
	default:
		return fmt.Errorf("unknown outcome %q", outcome)
	}

	query := fmt.Sprintf(
		`UPDATE users SET %s = %s + 1, games_played = games_played + 1 WHERE id = $1`,
		column, column)
	tag, err := s.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("recording outcome: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (s *PostgresUserStore) Leaderboard(ctx context.Context, limit int) ([]User, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, username, wins, losses, draws, games_played, last_login
		 FROM users ORDER BY wins DESC, username ASC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("loading leaderboard: %w", err)
	}
	defer rows.Close()

	var out []User
	for rows.Next() {
		var u User
		if err := rows.Scan(&u.ID, &u.Username,
			&u.Stats.Wins, &u.Stats.Losses, &u.Stats.Draws, &u.Stats.GamesPlayed,
			&u.LastLogin); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}
