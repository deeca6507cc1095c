package ws

import (
	"encoding/json"
	"errors"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"prospector/internal/arena"
	"prospector/internal/game"
)

// GameService is the slice of the arena the hub drives on behalf of
// connected clients.
type GameService interface {
	PlaceFence(gameID, playerID string, row, col int, orientation game.Orientation) ([]game.Coord, arena.GameView, error)
	LeaveGame(gameID, playerID string) error
	View(gameID string) (arena.GameView, error)
	FindGame(playerID string) (string, error)
}

type client struct {
	mu       sync.Mutex
	conn     *websocket.Conn
	gameID   string
	playerID string
}

func (c *client) send(action string, data interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteJSON(map[string]interface{}{
		"action": action,
		"data":   data,
	})
}

// Hub tracks live connections per game and fans arena events out to
// them. It is the arena.Broadcaster the registry publishes through.
type Hub struct {
	mu      sync.RWMutex
	games   map[string]map[*client]struct{}
	service GameService
	log     zerolog.Logger
}

func NewHub(service GameService, log zerolog.Logger) *Hub {
	return &Hub{
		games:   make(map[string]map[*client]struct{}),
		service: service,
		log:     log.With().Str("component", "ws").Logger(),
	}
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

func (h *Hub) HandleWS(c *gin.Context) {
	gameID := c.Query("game_id")
	playerID := c.Query("player_id")
	if gameID == "" && playerID != "" {
		// Reconnect path: a client that only remembers its player ID is
		// routed back to its seated game.
		found, err := h.service.FindGame(playerID)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "no game for player"})
			return
		}
		gameID = found
	}
	if gameID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing game_id"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}

	cl := &client{conn: conn, gameID: gameID, playerID: playerID}

	h.mu.Lock()
	if _, ok := h.games[gameID]; !ok {
		h.games[gameID] = make(map[*client]struct{})
	}
	h.games[gameID][cl] = struct{}{}
	h.mu.Unlock()

	h.log.Info().Str("game_id", gameID).Str("player_id", playerID).Msg("client connected")

	defer func() {
		h.drop(cl)
		if cl.playerID != "" {
			if err := h.service.LeaveGame(cl.gameID, cl.playerID); err != nil &&
				!errors.Is(err, arena.ErrGameNotFound) && !errors.Is(err, arena.ErrPlayerNotFound) {
				h.log.Warn().Err(err).Str("game_id", cl.gameID).Msg("leave on disconnect failed")
			}
		}
	}()

	// Push the current state so a reconnecting client does not wait
	// for the next broadcast.
	if view, err := h.service.View(gameID); err == nil {
		_ = cl.send("state", view)
	}

	for {
		var msg struct {
			Action string          `json:"action"`
			Data   json.RawMessage `json:"data"`
		}
		if err := conn.ReadJSON(&msg); err != nil {
			return
		}

		switch msg.Action {
		case "place_fence":
			h.handlePlaceFence(cl, msg.Data)
		case "leave_game":
			return
		case "get_state":
			view, err := h.service.View(cl.gameID)
			if err != nil {
				_ = cl.send("error", gin.H{"message": err.Error()})
				continue
			}
			_ = cl.send("state", view)
		default:
			h.log.Debug().Str("action", msg.Action).Msg("unknown action")
		}
	}
}

func (h *Hub) handlePlaceFence(cl *client, raw json.RawMessage) {
	var move struct {
		PlayerID    string `json:"player_id"`
		Row         int    `json:"row"`
		Col         int    `json:"col"`
		Orientation string `json:"orientation"`
	}
	if err := json.Unmarshal(raw, &move); err != nil {
		_ = cl.send("error", gin.H{"message": "invalid move payload"})
		return
	}
	if move.PlayerID == "" {
		move.PlayerID = cl.playerID
	}

	claimed, view, err := h.service.PlaceFence(cl.gameID, move.PlayerID, move.Row, move.Col, game.Orientation(move.Orientation))
	if err != nil {
		_ = cl.send("error", gin.H{"message": err.Error()})
		return
	}

	// The registry broadcasts the shared state; the mover additionally
	// learns which lands the fence closed.
	_ = cl.send("move_result", gin.H{
		"claimed": claimed,
		"state":   view,
	})
}

func (h *Hub) drop(cl *client) {
	h.mu.Lock()
	if clients, ok := h.games[cl.gameID]; ok {
		delete(clients, cl)
		if len(clients) == 0 {
			delete(h.games, cl.gameID)
		}
	}
	h.mu.Unlock()
	_ = cl.conn.Close()
}

// Broadcast sends an {action, data} envelope to every connection
// watching the game.
func (h *Hub) Broadcast(gameID string, action string, data interface{}) {
	h.mu.RLock()
	clients := make([]*client, 0, len(h.games[gameID]))
	for cl := range h.games[gameID] {
		clients = append(clients, cl)
	}
	h.mu.RUnlock()

	for _, cl := range clients {
		if err := cl.send(action, data); err != nil {
			h.log.Debug().Err(err).Str("game_id", gameID).Msg("dropping dead connection")
			h.drop(cl)
		}
	}
}

// SendToPlayer targets only the connections a specific player holds.
func (h *Hub) SendToPlayer(gameID, playerID string, action string, data interface{}) {
	h.mu.RLock()
	clients := make([]*client, 0, 1)
	for cl := range h.games[gameID] {
		if cl.playerID == playerID {
			clients = append(clients, cl)
		}
	}
	h.mu.RUnlock()

	for _, cl := range clients {
		if err := cl.send(action, data); err != nil {
			h.drop(cl)
		}
	}
}
