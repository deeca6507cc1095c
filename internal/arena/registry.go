package arena

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"prospector/internal/config"
	"prospector/internal/game"
	"prospector/internal/store"
)

var (
	ErrGameNotFound   = errors.New("game not found")
	ErrPlayerNotFound = errors.New("player not in game")
)

// StatsStore persists lifetime win/loss/draw counters. The registry
// invokes it at game end only, never mid-turn.
type StatsStore interface {
	RecordOutcome(ctx context.Context, playerID string, outcome game.Outcome) error
}

// Recorder saves finished (or abandoned) games for replay.
type Recorder interface {
	SaveGame(snap game.Snapshot) (string, error)
}

// GameOptions are the per-request overrides for CreateGame. Zero values
// take the server defaults.
type GameOptions struct {
	GridSize    int
	MaxPlayers  int
	TurnTimeout time.Duration
	LandMix     game.LandMix
}

// Registry is the single serialization point for every game, player, and
// monitor tick. All reads and writes of engine state go through mu;
// broadcast fan-out runs under the lock so that every connection of a
// game observes the same snapshot for a given mutation.
type Registry struct {
	mu      sync.Mutex
	cfg     config.Config
	games   map[string]*game.Game
	players map[string]string // player ID -> game ID, for reconnect lookups
	settled map[string]bool

	broadcaster Broadcaster
	stats       StatsStore
	recorder    Recorder
	log         zerolog.Logger
}

func NewRegistry(cfg config.Config, stats StatsStore, recorder Recorder, log zerolog.Logger) *Registry {
	return &Registry{
		cfg:         cfg,
		games:       make(map[string]*game.Game),
		players:     make(map[string]string),
		settled:     make(map[string]bool),
		broadcaster: nopBroadcaster{},
		stats:       stats,
		recorder:    recorder,
		log:         log,
	}
}

// SetBroadcaster attaches the websocket hub. Wired once at startup,
// before any traffic.
func (r *Registry) SetBroadcaster(b Broadcaster) {
	r.broadcaster = b
}

func (r *Registry) landMix() game.LandMix {
	return game.LandMix{
		game.LandRegular: r.cfg.LandRegular,
		game.LandCopper:  r.cfg.LandCopper,
		game.LandSilver:  r.cfg.LandSilver,
		game.LandGold:    r.cfg.LandGold,
	}
}

// CreateGame creates a game and admits the creator as its first player.
// userID, when non-empty, becomes the player ID so that the creator's
// lifetime stats can be settled at game end.
func (r *Registry) CreateGame(playerName, userID string, opts GameOptions) (*game.Player, GameView) {
	if opts.GridSize <= 0 {
		opts.GridSize = r.cfg.GridSize
	}
	if opts.MaxPlayers <= 0 {
		opts.MaxPlayers = r.cfg.MaxPlayers
	}
	if opts.TurnTimeout <= 0 {
		opts.TurnTimeout = r.cfg.TurnTimeout
	}
	if opts.LandMix == nil {
		opts.LandMix = r.landMix()
	}

	player := game.NewPlayer(playerName)
	if userID != "" {
		player.ID = userID
	}

	g := game.NewGame(game.Options{
		GridSize:    opts.GridSize,
		MaxPlayers:  opts.MaxPlayers,
		TurnTimeout: opts.TurnTimeout,
		LandMix:     opts.LandMix,
	})
	g.AddPlayer(player)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.games[g.ID()] = g
	r.players[player.ID] = g.ID()

	r.log.Info().
		Str("game_id", g.ID()).
		Str("player", playerName).
		Int("grid_size", opts.GridSize).
		Msg("game created")
	return player, buildView(g)
}

// JoinGame admits a new player to an existing game and broadcasts the
// updated state to everyone already watching it.
func (r *Registry) JoinGame(gameID, playerName, userID string) (*game.Player, GameView, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	g, ok := r.games[gameID]
	if !ok {
		return nil, GameView{}, ErrGameNotFound
	}

	player := game.NewPlayer(playerName)
	if userID != "" {
		player.ID = userID
	}
	if !g.AddPlayer(player) {
		return nil, GameView{}, game.ErrGameFull
	}
	r.players[player.ID] = gameID

	r.log.Info().Str("game_id", gameID).Str("player", playerName).Msg("player joined")
	view := buildView(g)
	r.broadcaster.Broadcast(gameID, "state", view)
	return player, view, nil
}

// PlaceFence applies one move. Turn ownership is checked here as well as
// in the engine so callers get a distinguishable "not your turn" error
// rather than a generic rejection.
func (r *Registry) PlaceFence(gameID, playerID string, row, col int, orientation game.Orientation) ([]game.Coord, GameView, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	g, ok := r.games[gameID]
	if !ok {
		return nil, GameView{}, ErrGameNotFound
	}
	if g.PlayerByID(playerID) == nil {
		return nil, GameView{}, ErrPlayerNotFound
	}
	// Finished beats not-your-turn: a terminal game reports itself as
	// such to every caller, not just the player who held the last turn.
	if g.State() == game.StateFinished {
		return nil, GameView{}, game.ErrGameFinished
	}
	if current := g.CurrentPlayer(); current == nil || current.ID != playerID {
		return nil, GameView{}, game.ErrNotYourTurn
	}

	claimed, err := g.PlaceFence(playerID, row, col, orientation)
	if err != nil {
		return nil, GameView{}, err
	}

	r.log.Info().
		Str("game_id", gameID).
		Str("player_id", playerID).
		Int("row", row).Int("col", col).
		Str("orientation", string(orientation)).
		Int("claimed", len(claimed)).
		Msg("fence placed")

	r.settleLocked(g)
	view := buildView(g)
	r.broadcaster.Broadcast(gameID, "state", view)
	return claimed, view, nil
}

// LeaveGame removes a player; a disconnect takes exactly this path. An
// in-progress game is forfeited to the remaining players, and an emptied
// game is garbage collected.
func (r *Registry) LeaveGame(gameID, playerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	g, ok := r.games[gameID]
	if !ok {
		return ErrGameNotFound
	}
	if !g.RemovePlayer(playerID) {
		return ErrPlayerNotFound
	}
	delete(r.players, playerID)

	r.log.Info().Str("game_id", gameID).Str("player_id", playerID).Msg("player left")
	r.settleLocked(g)
	r.broadcaster.Broadcast(gameID, "state", buildView(g))
	if len(g.Players()) == 0 {
		delete(r.games, gameID)
	}
	return nil
}

// EndGame finishes a game explicitly.
func (r *Registry) EndGame(gameID string) (GameView, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	g, ok := r.games[gameID]
	if !ok {
		return GameView{}, ErrGameNotFound
	}
	g.EndGame()
	r.settleLocked(g)
	view := buildView(g)
	r.broadcaster.Broadcast(gameID, "state", view)
	return view, nil
}

// FindGame reports which game a player is seated in, so a reconnecting
// client can rejoin without carrying the game ID itself.
func (r *Registry) FindGame(playerID string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	gameID, ok := r.players[playerID]
	if !ok {
		return "", ErrPlayerNotFound
	}
	return gameID, nil
}

// View returns the current consistent snapshot of a game.
func (r *Registry) View(gameID string) (GameView, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	g, ok := r.games[gameID]
	if !ok {
		return GameView{}, ErrGameNotFound
	}
	return buildView(g), nil
}

// Snapshot returns the full serializable engine state for persistence.
func (r *Registry) Snapshot(gameID string) (game.Snapshot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	g, ok := r.games[gameID]
	if !ok {
		return game.Snapshot{}, ErrGameNotFound
	}
	return g.Snapshot(), nil
}

// settleLocked persists outcomes and writes the replay record the first
// time a game is seen finished. Anonymous players have no account row;
// their outcomes are skipped.
func (r *Registry) settleLocked(g *game.Game) {
	if g.State() != game.StateFinished || r.settled[g.ID()] {
		return
	}
	r.settled[g.ID()] = true

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	for playerID, outcome := range g.Results() {
		err := r.stats.RecordOutcome(ctx, playerID, outcome)
		if err != nil && !errors.Is(err, store.ErrUserNotFound) {
			r.log.Error().Err(err).Str("player_id", playerID).Msg("failed to persist outcome")
		}
	}

	if name, err := r.recorder.SaveGame(g.Snapshot()); err != nil {
		r.log.Error().Err(err).Str("game_id", g.ID()).Msg("failed to save game record")
	} else {
		r.log.Info().Str("game_id", g.ID()).Str("record", name).Msg("game recorded")
	}
}
