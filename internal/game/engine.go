package game

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
)

const (
	DefaultGridSize    = 5
	DefaultPlayers     = 2
	MaxPlayersCap      = 4
	DefaultTurnTimeout = 60 * time.Second
)

// Options configures a new game. Zero values fall back to the defaults
// above.
type Options struct {
	ID          string
	GridSize    int
	MaxPlayers  int
	LandMix     LandMix
	TurnTimeout time.Duration
	Seed        int64
}

// Game owns one grid, the player roster, the turn pointer and clock, and
// the lifecycle state. It is not safe for concurrent use; the session
// registry serializes all access behind its lock.
type Game struct {
	id          string
	grid        Grid
	players     []*Player
	currentIdx  int
	maxPlayers  int
	state       State
	startTime   time.Time
	turnTimeout time.Duration
	turnStart   time.Time
	unclaimed   int
	history     []Event
	results     map[string]Outcome

	clock func() time.Time
}

// NewGame creates a game in the waiting state with an empty roster.
func NewGame(opts Options) *Game {
	if opts.ID == "" {
		opts.ID = uuid.NewString()
	}
	if opts.GridSize <= 0 {
		opts.GridSize = DefaultGridSize
	}
	if opts.MaxPlayers <= 0 {
		opts.MaxPlayers = DefaultPlayers
	}
	if opts.MaxPlayers > MaxPlayersCap {
		opts.MaxPlayers = MaxPlayersCap
	}
	if opts.TurnTimeout == 0 {
		opts.TurnTimeout = DefaultTurnTimeout
	}
	if opts.Seed == 0 {
		opts.Seed = time.Now().UnixNano()
	}

	rng := rand.New(rand.NewSource(opts.Seed))
	return &Game{
		id:          opts.ID,
		grid:        NewGrid(opts.GridSize, opts.LandMix, rng),
		maxPlayers:  opts.MaxPlayers,
		state:       StateWaiting,
		turnTimeout: opts.TurnTimeout,
		unclaimed:   opts.GridSize * opts.GridSize,
		results:     make(map[string]Outcome),
		clock:       time.Now,
	}
}

func (g *Game) ID() string                { return g.id }
func (g *Game) State() State              { return g.state }
func (g *Game) Grid() *Grid               { return &g.grid }
func (g *Game) MaxPlayers() int           { return g.maxPlayers }
func (g *Game) TurnTimeout() time.Duration { return g.turnTimeout }
func (g *Game) Unclaimed() int            { return g.unclaimed }
func (g *Game) CurrentIndex() int         { return g.currentIdx }

// Players returns the roster in turn order. Callers must not mutate it.
func (g *Game) Players() []*Player { return g.players }

// History returns the append-only event log for replay.
func (g *Game) History() []Event { return g.history }

// Results maps player IDs to their final outcome. It fills in as the
// game settles and is what the stats store persists at game end.
func (g *Game) Results() map[string]Outcome { return g.results }

func (g *Game) win(p *Player)      { p.Win(); g.results[p.ID] = OutcomeWin }
func (g *Game) lose(p *Player)     { p.Lose(); g.results[p.ID] = OutcomeLoss }
func (g *Game) drawGame(p *Player) { p.Draw(); g.results[p.ID] = OutcomeDraw }

// PlayerByID finds a roster member, or nil.
func (g *Game) PlayerByID(id string) *Player {
	for _, p := range g.players {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// CurrentPlayer returns the player whose turn it is, or nil when the
// roster is empty or the pointer is past the end after a removal.
func (g *Game) CurrentPlayer() *Player {
	if len(g.players) == 0 || g.currentIdx >= len(g.players) {
		return nil
	}
	return g.players[g.currentIdx]
}

// TimeLeft reports the remaining turn time. ok is false when no turn
// clock is running.
func (g *Game) TimeLeft() (left time.Duration, ok bool) {
	if g.turnStart.IsZero() || g.turnTimeout <= 0 {
		return 0, false
	}
	left = g.turnTimeout - g.clock().Sub(g.turnStart)
	if left < 0 {
		left = 0
	}
	return left, true
}

// AddPlayer appends a player to the roster. It reports false when the
// game is already at capacity. The first join that brings the roster to
// two players starts play and the turn clock.
func (g *Game) AddPlayer(p *Player) bool {
	if len(g.players) >= g.maxPlayers {
		return false
	}
	g.players = append(g.players, p)
	if len(g.players) >= 2 && g.state == StateWaiting {
		g.state = StatePlaying
		now := g.clock()
		g.startTime = now
		g.turnStart = now
	}
	return true
}

// RemovePlayer drops a player from the roster. Leaving a game in
// progress forfeits it: the departing player takes a loss and every
// remaining player is credited a win. With three or more players left
// that collective win is a deliberate oddity inherited from the rules as
// shipped; see DESIGN.md before changing it.
func (g *Game) RemovePlayer(playerID string) bool {
	idx := -1
	for i, p := range g.players {
		if p.ID == playerID {
			idx = i
			break
		}
	}
	if idx == -1 {
		return false
	}

	leaver := g.players[idx]
	if g.state == StatePlaying {
		for i, p := range g.players {
			if i != idx {
				g.win(p)
			}
		}
		g.lose(leaver)
		g.state = StateFinished
		g.history = append(g.history, Event{
			Type:     EventPlayerLeft,
			PlayerID: playerID,
			Time:     g.clock(),
		})
	}

	g.players = append(g.players[:idx], g.players[idx+1:]...)
	if len(g.players) < 2 && g.state == StatePlaying {
		g.state = StateFinished
	}
	return true
}

// PlaceFence validates and applies one fence placement for the current
// player. Every check happens before any mutation; a rejected call
// leaves the game untouched, except that a placement attempted after the
// turn clock expired advances the turn as a side effect and still fails.
//
// When the placement encloses one or more cells they are claimed for the
// placing player, their value is scored, and the turn does not advance;
// otherwise the turn passes to the next player. Either way the turn
// clock restarts.
func (g *Game) PlaceFence(playerID string, row, col int, orientation Orientation) ([]Coord, error) {
	if g.state == StateFinished {
		return nil, ErrGameFinished
	}
	if g.state != StatePlaying {
		return nil, fmt.Errorf("%w: game has not started", ErrInvalidMove)
	}

	current := g.CurrentPlayer()
	if current == nil || current.ID != playerID {
		return nil, ErrNotYourTurn
	}

	if g.turnTimeout > 0 && !g.turnStart.IsZero() {
		if g.clock().Sub(g.turnStart) > g.turnTimeout {
			g.nextTurn()
			return nil, fmt.Errorf("%w: turn clock expired", ErrInvalidMove)
		}
	}

	switch orientation {
	case Horizontal:
		if row < 0 || row > g.grid.Size || col < 0 || col >= g.grid.Size {
			return nil, fmt.Errorf("%w: fence out of range", ErrInvalidMove)
		}
		if g.grid.Horizontal[row][col] {
			return nil, fmt.Errorf("%w: fence already placed", ErrInvalidMove)
		}
		g.grid.Horizontal[row][col] = true
	case Vertical:
		if row < 0 || row >= g.grid.Size || col < 0 || col > g.grid.Size {
			return nil, fmt.Errorf("%w: fence out of range", ErrInvalidMove)
		}
		if g.grid.Vertical[row][col] {
			return nil, fmt.Errorf("%w: fence already placed", ErrInvalidMove)
		}
		g.grid.Vertical[row][col] = true
	default:
		return nil, fmt.Errorf("%w: unknown orientation %q", ErrInvalidMove, orientation)
	}

	current.Touch()
	g.history = append(g.history, Event{
		Type:        EventFencePlaced,
		PlayerID:    playerID,
		Row:         row,
		Col:         col,
		Orientation: orientation,
		Time:        g.clock(),
	})

	claimed := g.grid.EnclosedUnclaimed()
	if len(claimed) == 0 {
		g.nextTurn()
		return nil, nil
	}

	scoreGained := 0
	for _, coord := range claimed {
		cell := &g.grid.Cells[coord.Row][coord.Col]
		cell.Owner = OwnedBy(g.currentIdx)
		scoreGained += cell.Value
	}
	current.AddScore(scoreGained)
	g.unclaimed -= len(claimed)
	g.history = append(g.history, Event{
		Type:        EventLandClaimed,
		PlayerID:    playerID,
		Lands:       claimed,
		ScoreGained: scoreGained,
		Time:        g.clock(),
	})

	if g.unclaimed == 0 {
		g.EndGame()
	}

	// Claiming keeps the turn; only the clock restarts.
	g.turnStart = g.clock()
	return claimed, nil
}

// nextTurn advances the pointer modulo the roster and restarts the clock.
func (g *Game) nextTurn() {
	if len(g.players) == 0 {
		return
	}
	g.currentIdx = (g.currentIdx + 1) % len(g.players)
	g.turnStart = g.clock()
}

// CheckInactivity removes the current player when their turn clock has
// run out, via the same forfeit path as an explicit leave. It reports
// whether a removal happened.
func (g *Game) CheckInactivity() bool {
	if g.state != StatePlaying || g.turnStart.IsZero() {
		return false
	}
	current := g.CurrentPlayer()
	if current == nil {
		return false
	}
	if g.clock().Sub(g.turnStart) > g.turnTimeout {
		g.RemovePlayer(current.ID)
		return true
	}
	return false
}

// EndGame finishes the game and settles win/loss/draw counters. A sole
// remaining player wins unconditionally; otherwise the highest score
// wins, with all tied leaders taking a draw and everyone else a loss.
// Idempotent: a finished game is left untouched.
func (g *Game) EndGame() {
	if g.state == StateFinished {
		return
	}
	g.state = StateFinished
	g.history = append(g.history, Event{Type: EventGameOver, Time: g.clock()})

	if len(g.players) < 2 {
		if len(g.players) == 1 {
			g.win(g.players[0])
		}
		return
	}

	maxScore := -1
	var winners []int
	for i, p := range g.players {
		if p.Score > maxScore {
			maxScore = p.Score
			winners = []int{i}
		} else if p.Score == maxScore {
			winners = append(winners, i)
		}
	}

	if len(winners) == 1 {
		g.win(g.players[winners[0]])
		for i, p := range g.players {
			if i != winners[0] {
				g.lose(p)
			}
		}
		return
	}

	tied := make(map[int]bool, len(winners))
	for _, i := range winners {
		tied[i] = true
		g.drawGame(g.players[i])
	}
	for i, p := range g.players {
		if !tied[i] {
			g.lose(p)
		}
	}
}
