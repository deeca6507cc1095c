package http

// CreateGameRequest represents the payload for POST /games. LandMix
// overrides the configured land distribution; omitted types default to
// regular land.
type CreateGameRequest struct {
	PlayerName  string             `json:"player_name"`
	GridSize    int                `json:"grid_size"`
	MaxPlayers  int                `json:"max_players"`
	TurnTimeout int                `json:"turn_timeout"`
	LandMix     map[string]float64 `json:"land_mix"`
}

// JoinGameRequest represents the payload for joining an existing game.
type JoinGameRequest struct {
	PlayerName string `json:"player_name"`
}

// LeaveGameRequest represents the payload for leaving a game.
type LeaveGameRequest struct {
	PlayerID string `json:"player_id"`
}

// PlaceFenceRequest represents a fence placement.
type PlaceFenceRequest struct {
	PlayerID    string `json:"player_id"`
	Row         int    `json:"row"`
	Col         int    `json:"col"`
	Orientation string `json:"orientation"`
}

// RegisterRequest represents the payload for account creation.
type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginRequest represents the payload for POST /auth/login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}
