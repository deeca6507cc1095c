package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"prospector/internal/game"
)

const recordExt = ".pros.json"

// RecordInfo is the listing entry for one saved game.
type RecordInfo struct {
	Filename string    `json:"filename"`
	Size     int64     `json:"size"`
	Modified time.Time `json:"modified"`
	GameID   string    `json:"game_id,omitempty"`
	GridSize int       `json:"grid_size,omitempty"`
	State    string    `json:"state,omitempty"`
}

// Replay is a loaded record shaped for playback: the closing snapshot
// plus the move-by-move history.
type Replay struct {
	GameInfo ReplayInfo   `json:"game_info"`
	History  []game.Event `json:"history"`
}

type ReplayInfo struct {
	ID         string        `json:"id"`
	GridSize   int           `json:"grid_size"`
	MaxPlayers int           `json:"max_players"`
	State      game.State    `json:"state"`
	Players    []game.Player `json:"players"`
}

// GameRecorder writes finished games to a records directory, one JSON
// snapshot per game. Records are append-only; nothing here is required
// to be atomic with the in-memory state it captures.
type GameRecorder struct {
	dir string
}

func NewGameRecorder(dir string) (*GameRecorder, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating records dir: %w", err)
	}
	return &GameRecorder{dir: dir}, nil
}

// SaveGame persists a snapshot and returns the record filename.
func (r *GameRecorder) SaveGame(snap game.Snapshot) (string, error) {
	name := fmt.Sprintf("game_%s_%d%s", snap.ID, time.Now().Unix(), recordExt)
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(filepath.Join(r.dir, name), data, 0o644); err != nil {
		return "", fmt.Errorf("writing record: %w", err)
	}
	return name, nil
}

// LoadGame reads a record back as the raw snapshot, ready for
// game.RestoreGame or replay formatting.
func (r *GameRecorder) LoadGame(name string) (game.Snapshot, error) {
	data, err := os.ReadFile(filepath.Join(r.dir, r.normalize(name)))
	if os.IsNotExist(err) {
		return game.Snapshot{}, ErrRecordNotFound
	}
	if err != nil {
		return game.Snapshot{}, fmt.Errorf("reading record: %w", err)
	}

	var snap game.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return game.Snapshot{}, fmt.Errorf("parsing record: %w", err)
	}
	return snap, nil
}

// LoadReplay shapes a record for playback.
func (r *GameRecorder) LoadReplay(name string) (Replay, error) {
	snap, err := r.LoadGame(name)
	if err != nil {
		return Replay{}, err
	}
	return Replay{
		GameInfo: ReplayInfo{
			ID:         snap.ID,
			GridSize:   snap.GridSize,
			MaxPlayers: snap.MaxPlayers,
			State:      snap.State,
			Players:    snap.Players,
		},
		History: snap.History,
	}, nil
}

// List returns all saved records, newest first.
func (r *GameRecorder) List() ([]RecordInfo, error) {
	entries, err := os.ReadDir(r.dir)
	if err != nil {
		return nil, fmt.Errorf("listing records: %w", err)
	}

	var out []RecordInfo
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), recordExt) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		rec := RecordInfo{
			Filename: entry.Name(),
			Size:     info.Size(),
			Modified: info.ModTime(),
		}
		// Best effort; a record that fails to parse still gets listed.
		if snap, err := r.LoadGame(entry.Name()); err == nil {
			rec.GameID = snap.ID
			rec.GridSize = snap.GridSize
			rec.State = string(snap.State)
		}
		out = append(out, rec)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Modified.After(out[j].Modified) })
	return out, nil
}

// Delete removes a saved record.
func (r *GameRecorder) Delete(name string) error {
	err := os.Remove(filepath.Join(r.dir, r.normalize(name)))
	if os.IsNotExist(err) {
		return ErrRecordNotFound
	}
	return err
}

// normalize appends the record extension and strips any path components
// so a request can't escape the records dir.
func (r *GameRecorder) normalize(name string) string {
	name = filepath.Base(name)
	if !strings.HasSuffix(name, recordExt) {
		name += recordExt
	}
	return name
}
