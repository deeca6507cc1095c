package game

import (
	"time"

	"github.com/google/uuid"
)

// Stats are lifetime counters that outlive a single game. They are
// persisted through the user store when a registered player's game ends.
type Stats struct {
	Wins        int `json:"wins"`
	Losses      int `json:"losses"`
	Draws       int `json:"draws"`
	GamesPlayed int `json:"games_played"`
}

// Player is one participant in a game. Score covers the current game
// only; Stats accumulate across games.
type Player struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Score      int       `json:"score"`
	Stats      Stats     `json:"stats"`
	LastActive time.Time `json:"last_active"`
}

// NewPlayer creates a player with a fresh UUID and current activity time.
func NewPlayer(name string) *Player {
	return &Player{
		ID:         uuid.NewString(),
		Name:       name,
		LastActive: time.Now(),
	}
}

// Touch updates the last-activity timestamp.
func (p *Player) Touch() {
	p.LastActive = time.Now()
}

// AddScore credits points from claimed land.
func (p *Player) AddScore(points int) {
	p.Score += points
}

func (p *Player) Win() {
	p.Stats.Wins++
	p.Stats.GamesPlayed++
}

func (p *Player) Lose() {
	p.Stats.Losses++
	p.Stats.GamesPlayed++
}

func (p *Player) Draw() {
	p.Stats.Draws++
	p.Stats.GamesPlayed++
}
