package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"prospector/internal/arena"
	"prospector/internal/game"
)

// statusFor maps domain errors to HTTP statuses. Unknown errors fall
// through to 500.
func statusFor(err error) int {
	switch {
	case errors.Is(err, arena.ErrGameNotFound), errors.Is(err, arena.ErrPlayerNotFound):
		return http.StatusNotFound
	case errors.Is(err, game.ErrGameFull), errors.Is(err, game.ErrNotYourTurn), errors.Is(err, game.ErrGameFinished):
		return http.StatusConflict
	case errors.Is(err, game.ErrInvalidMove):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func abortWith(c *gin.Context, err error) {
	c.JSON(statusFor(err), gin.H{"error": err.Error()})
}

// @Summary Create new game
// @Description Create a game and seat the caller as its first player
// @Tags Game
// @Accept json
// @Produce json
// @Param request body http.CreateGameRequest true "Game settings"
// @Success 200 {object} map[string]interface{}
// @Router /games [post]
func CreateGameHandler(reg *arena.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreateGameRequest
		if err := c.BindJSON(&req); err != nil || req.PlayerName == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "player_name required"})
			return
		}
		opts := arena.GameOptions{
			GridSize:    req.GridSize,
			MaxPlayers:  req.MaxPlayers,
			TurnTimeout: time.Duration(req.TurnTimeout) * time.Second,
		}
		if len(req.LandMix) > 0 {
			opts.LandMix = make(game.LandMix, len(req.LandMix))
			for t, frac := range req.LandMix {
				opts.LandMix[game.LandType(t)] = frac
			}
		}
		player, view := reg.CreateGame(req.PlayerName, userID(c), opts)
		c.JSON(http.StatusOK, gin.H{"player": player, "game": view})
	}
}

// @Summary Join a game
// @Description Seat a player in a waiting game; play starts when enough players join
// @Tags Game
// @Accept json
// @Produce json
// @Param id path string true "Game ID"
// @Param request body http.JoinGameRequest true "Player info"
// @Success 200 {object} map[string]interface{}
// @Router /games/{id}/join [post]
func JoinGameHandler(reg *arena.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req JoinGameRequest
		if err := c.BindJSON(&req); err != nil || req.PlayerName == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "player_name required"})
			return
		}
		player, view, err := reg.JoinGame(c.Param("id"), req.PlayerName, userID(c))
		if err != nil {
			abortWith(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"player": player, "game": view})
	}
}

// @Summary Leave a game
// @Description Remove a player; a sole remaining opponent wins by forfeit
// @Tags Game
// @Accept json
// @Produce json
// @Param id path string true "Game ID"
// @Param request body http.LeaveGameRequest true "Player info"
// @Success 200 {object} map[string]interface{}
// @Router /games/{id}/leave [post]
func LeaveGameHandler(reg *arena.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LeaveGameRequest
		if err := c.BindJSON(&req); err != nil || req.PlayerID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "player_id required"})
			return
		}
		if err := reg.LeaveGame(c.Param("id"), req.PlayerID); err != nil {
			abortWith(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"left": true})
	}
}

// @Summary Place a fence
// @Description Place a fence on the shared grid; enclosing a land claims it and keeps the turn
// @Tags Game
// @Accept json
// @Produce json
// @Param id path string true "Game ID"
// @Param request body http.PlaceFenceRequest true "Fence placement"
// @Success 200 {object} map[string]interface{}
// @Router /games/{id}/fences [post]
func PlaceFenceHandler(reg *arena.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req PlaceFenceRequest
		if err := c.BindJSON(&req); err != nil || req.PlayerID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "player_id required"})
			return
		}
		orientation := game.Orientation(req.Orientation)
		if orientation != game.Horizontal && orientation != game.Vertical {
			c.JSON(http.StatusBadRequest, gin.H{"error": "orientation must be horizontal or vertical"})
			return
		}
		claimed, view, err := reg.PlaceFence(c.Param("id"), req.PlayerID, req.Row, req.Col, orientation)
		if err != nil {
			abortWith(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"claimed": claimed, "game": view})
	}
}

// @Summary Get game state
// @Description Current view of a game, including fences, owners, and scores
// @Tags Game
// @Produce json
// @Param id path string true "Game ID"
// @Success 200 {object} map[string]interface{}
// @Router /games/{id} [get]
func GetGameHandler(reg *arena.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		view, err := reg.View(c.Param("id"))
		if err != nil {
			abortWith(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"game": view})
	}
}

// @Summary End a game
// @Description Force an active game to finish and settle its outcome
// @Tags Game
// @Produce json
// @Param id path string true "Game ID"
// @Success 200 {object} map[string]interface{}
// @Router /games/{id}/end [post]
func EndGameHandler(reg *arena.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		view, err := reg.EndGame(c.Param("id"))
		if err != nil {
			abortWith(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"game": view})
	}
}
