package game

import "time"

// Snapshot is a complete, serializable description of a game: enough to
// reconstruct the engine for save/restore and the payload broadcast to
// clients. Field names match the wire format.
type Snapshot struct {
	ID              string       `json:"id"`
	GridSize        int          `json:"grid_size"`
	MaxPlayers      int          `json:"max_players"`
	State           State        `json:"state"`
	CurrentPlayerID string       `json:"current_player_id,omitempty"`
	Players         []Player     `json:"players"`
	Horizontal      [][]bool     `json:"horizontal_fences"`
	Vertical        [][]bool     `json:"vertical_fences"`
	Cells           [][]LandCell `json:"land_cells"`
	Unclaimed       int          `json:"unclaimed_lands"`
	TurnTimeout     int          `json:"turn_timeout"` // seconds
	TurnStart       *time.Time   `json:"turn_start_time,omitempty"`
	GameTime        float64      `json:"game_time"` // seconds since play began
	History         []Event      `json:"history,omitempty"`
}

// Snapshot captures the full game state. The copy is deep: later engine
// mutations do not show through.
func (g *Game) Snapshot() Snapshot {
	s := Snapshot{
		ID:          g.id,
		GridSize:    g.grid.Size,
		MaxPlayers:  g.maxPlayers,
		State:       g.state,
		Unclaimed:   g.unclaimed,
		TurnTimeout: int(g.turnTimeout / time.Second),
	}

	if current := g.CurrentPlayer(); current != nil {
		s.CurrentPlayerID = current.ID
	}
	s.Players = make([]Player, len(g.players))
	for i, p := range g.players {
		s.Players[i] = *p
	}

	s.Horizontal = copyLattice(g.grid.Horizontal)
	s.Vertical = copyLattice(g.grid.Vertical)
	s.Cells = make([][]LandCell, len(g.grid.Cells))
	for r, row := range g.grid.Cells {
		s.Cells[r] = append([]LandCell(nil), row...)
	}

	if !g.turnStart.IsZero() {
		ts := g.turnStart
		s.TurnStart = &ts
	}
	if !g.startTime.IsZero() {
		s.GameTime = g.clock().Sub(g.startTime).Seconds()
	}
	s.History = append([]Event(nil), g.history...)
	return s
}

// RestoreGame rebuilds an engine from a snapshot. The fence lattices,
// land ownership, scores, and turn pointer come back exactly as captured.
func RestoreGame(s Snapshot) *Game {
	g := &Game{
		id:          s.ID,
		maxPlayers:  s.MaxPlayers,
		state:       s.State,
		turnTimeout: time.Duration(s.TurnTimeout) * time.Second,
		unclaimed:   s.Unclaimed,
		results:     make(map[string]Outcome),
		clock:       time.Now,
	}

	g.grid = Grid{
		Size:       s.GridSize,
		Horizontal: copyLattice(s.Horizontal),
		Vertical:   copyLattice(s.Vertical),
	}
	g.grid.Cells = make([][]LandCell, len(s.Cells))
	for r, row := range s.Cells {
		g.grid.Cells[r] = append([]LandCell(nil), row...)
	}

	g.players = make([]*Player, len(s.Players))
	for i := range s.Players {
		p := s.Players[i]
		g.players[i] = &p
	}
	for i, p := range g.players {
		if p.ID == s.CurrentPlayerID {
			g.currentIdx = i
			break
		}
	}

	if s.TurnStart != nil {
		g.turnStart = *s.TurnStart
	}
	if s.State != StateWaiting && s.GameTime > 0 {
		g.startTime = g.clock().Add(-time.Duration(s.GameTime * float64(time.Second)))
	}
	g.history = append([]Event(nil), s.History...)
	return g
}

func copyLattice(src [][]bool) [][]bool {
	dst := make([][]bool, len(src))
	for i, row := range src {
		dst[i] = append([]bool(nil), row...)
	}
	return dst
}
