package arena

import (
	"prospector/internal/game"
)

// CellView is one grid square as clients see it: the four bounding
// fences plus the cell's land info and owner.
type CellView struct {
	TopFence    bool          `json:"top_fence"`
	BottomFence bool          `json:"bottom_fence"`
	LeftFence   bool          `json:"left_fence"`
	RightFence  bool          `json:"right_fence"`
	Type        game.LandType `json:"type"`
	Value       int           `json:"value"`
	Owner       game.Owner    `json:"owner"`
}

// GameView is the consistent state snapshot broadcast to every
// connection of a game and returned by the state endpoint.
type GameView struct {
	GameID          string          `json:"game_id"`
	State           game.State      `json:"state"`
	GridSize        int             `json:"grid_size"`
	MaxPlayers      int             `json:"max_players"`
	Grid            [][]CellView    `json:"grid"`
	Players         []game.Player   `json:"players"`
	Scores          map[string]int  `json:"scores"`
	CurrentPlayerID string          `json:"current_player_id,omitempty"`
	TimeLeft        *int            `json:"turn_time_left,omitempty"` // seconds
	Unclaimed       int             `json:"unclaimed_lands"`
}

// buildView assembles a GameView from a live engine. Callers must hold
// the registry lock so the view is internally consistent.
func buildView(g *game.Game) GameView {
	grid := g.Grid()
	view := GameView{
		GameID:     g.ID(),
		State:      g.State(),
		GridSize:   grid.Size,
		MaxPlayers: g.MaxPlayers(),
		Grid:       make([][]CellView, grid.Size),
		Scores:     make(map[string]int),
		Unclaimed:  g.Unclaimed(),
	}

	for r := 0; r < grid.Size; r++ {
		view.Grid[r] = make([]CellView, grid.Size)
		for c := 0; c < grid.Size; c++ {
			cell := grid.Cells[r][c]
			view.Grid[r][c] = CellView{
				TopFence:    grid.Horizontal[r][c],
				BottomFence: grid.Horizontal[r+1][c],
				LeftFence:   grid.Vertical[r][c],
				RightFence:  grid.Vertical[r][c+1],
				Type:        cell.Type,
				Value:       cell.Value,
				Owner:       cell.Owner,
			}
		}
	}

	view.Players = make([]game.Player, len(g.Players()))
	for i, p := range g.Players() {
		view.Players[i] = *p
		view.Scores[p.ID] = p.Score
	}

	if current := g.CurrentPlayer(); current != nil {
		view.CurrentPlayerID = current.ID
	}
	if left, ok := g.TimeLeft(); ok {
		secs := int(left.Seconds())
		view.TimeLeft = &secs
	}
	return view
}
