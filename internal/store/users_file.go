package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"prospector/internal/game"
)

// fileUser is the on-disk shape; the password hash lives in a separate
// map so that a user row serialized into an API response never carries it.
type fileUser struct {
	ID        string     `json:"id"`
	Username  string     `json:"username"`
	Stats     game.Stats `json:"stats"`
	LastLogin time.Time  `json:"last_login"`
}

type usersFile struct {
	Users     []fileUser        `json:"users"`
	Passwords map[string]string `json:"passwords"` // user ID -> hash
}

// FileUserStore keeps accounts in a single JSON file, rewritten on every
// mutation. Fine for the small rosters this server hosts; the postgres
// store covers anything bigger.
type FileUserStore struct {
	mu    sync.Mutex
	path  string
	users map[string]*User  // by ID
	names map[string]string // username -> ID
}

func NewFileUserStore(path string) (*FileUserStore, error) {
	s := &FileUserStore{
		path:  path,
		users: make(map[string]*User),
		names: make(map[string]string),
	}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *FileUserStore) load() error {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("reading users file: %w", err)
	}

	var f usersFile
	if err := json.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("parsing users file: %w", err)
	}
	for _, fu := range f.Users {
		u := &User{
			ID:           fu.ID,
			Username:     fu.Username,
			Stats:        fu.Stats,
			LastLogin:    fu.LastLogin,
			PasswordHash: f.Passwords[fu.ID],
		}
		s.users[u.ID] = u
		s.names[u.Username] = u.ID
	}
	return nil
}

// saveLocked rewrites the file. Callers hold s.mu.
func (s *FileUserStore) saveLocked() error {
	f := usersFile{Passwords: make(map[string]string, len(s.users))}
	for _, u := range s.users {
		f.Users = append(f.Users, fileUser{
			ID:        u.ID,
			Username:  u.Username,
			Stats:     u.Stats,
			LastLogin: u.LastLogin,
		})
		f.Passwords[u.ID] = u.PasswordHash
	}
	sort.Slice(f.Users, func(i, j int) bool { return f.Users[i].Username < f.Users[j].Username })

	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0o644)
}

func (s *FileUserStore) Create(_ context.Context, username, passwordHash string) (User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, taken := s.names[username]; taken {
		return User{}, ErrDuplicateUsername
	}
	u := &User{
		ID:           uuid.NewString(),
		Username:     username,
		PasswordHash: passwordHash,
		LastLogin:    time.Now(),
	}
	s.users[u.ID] = u
	s.names[username] = u.ID
	if err := s.saveLocked(); err != nil {
		return User{}, err
	}
	return *u, nil
}

func (s *FileUserStore) ByUsername(_ context.Context, username string) (User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.names[username]
	if !ok {
		return User{}, ErrUserNotFound
	}
	return *s.users[id], nil
}

func (s *FileUserStore) ByID(_ context.Context, id string) (User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return User{}, ErrUserNotFound
	}
	return *u, nil
}

func (s *FileUserStore) TouchLogin(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return ErrUserNotFound
	}
	u.LastLogin = time.Now()
	return s.saveLocked()
}

func (s *FileUserStore) RecordOutcome(_ context.Context, id string, outcome game.Outcome) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return ErrUserNotFound
	}
	switch outcome {
	case game.OutcomeWin:
		u.Stats.Wins++
	case game.OutcomeLoss:
		u.Stats.Losses++
	case game.OutcomeDraw:
		u.Stats.Draws++
	default:
		return fmt.Errorf("unknown outcome %q", outcome)
	}
	u.Stats.GamesPlayed++
	return s.saveLocked()
}

func (s *FileUserStore) Leaderboard(_ context.Context, limit int) ([]User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]User, 0, len(s.users))
	for _, u := range s.users {
		out = append(out, *u)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Stats.Wins != out[j].Stats.Wins {
			return out[i].Stats.Wins > out[j].Stats.Wins
		}
		return out[i].Username < out[j].Username
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
