package http

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"prospector/internal/auth"
	"prospector/internal/store"
)

const userIDKey = "user_id"

// userID returns the authenticated user's ID, or "" for anonymous
// callers. Anonymous play is allowed everywhere; auth only links games
// to lifetime stats.
func userID(c *gin.Context) string {
	return c.GetString(userIDKey)
}

// AuthMiddleware resolves a bearer token into the request's user ID.
// Missing or invalid tokens do not reject the request; handlers that
// require an account check userID themselves.
func AuthMiddleware(jwt *auth.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if ok && token != "" {
			if uid, err := jwt.Verify(token); err == nil {
				c.Set(userIDKey, uid)
			}
		}
		c.Next()
	}
}

// @Summary Register an account
// @Description Create a user with a username and password
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body http.RegisterRequest true "Credentials"
// @Success 200 {object} map[string]interface{}
// @Router /auth/register [post]
func RegisterHandler(users store.UserStore, hasher *auth.PasswordHasher, jwt *auth.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req RegisterRequest
		if err := c.BindJSON(&req); err != nil || req.Username == "" || req.Password == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "username and password required"})
			return
		}

		hash, err := hasher.Hash(req.Password)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create account"})
			return
		}

		user, err := users.Create(c.Request.Context(), req.Username, hash)
		if err != nil {
			if errors.Is(err, store.ErrDuplicateUsername) {
				c.JSON(http.StatusConflict, gin.H{"error": "username taken"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create account"})
			return
		}

		token, err := jwt.Generate(user.ID, time.Now())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create session"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"user": user, "token": token})
	}
}

// @Summary Log in
// @Description Exchange credentials for a session token
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body http.LoginRequest true "Credentials"
// @Success 200 {object} map[string]interface{}
// @Router /auth/login [post]
func LoginHandler(users store.UserStore, hasher *auth.PasswordHasher, jwt *auth.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LoginRequest
		if err := c.BindJSON(&req); err != nil || req.Username == "" || req.Password == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "username and password required"})
			return
		}

		user, err := users.ByUsername(c.Request.Context(), req.Username)
		if err != nil {
			if errors.Is(err, store.ErrUserNotFound) {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "wrong username or password"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "login failed"})
			return
		}

		if err := hasher.Compare(req.Password, user.PasswordHash); err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "wrong username or password"})
			return
		}

		if err := users.TouchLogin(c.Request.Context(), user.ID); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "login failed"})
			return
		}

		token, err := jwt.Generate(user.ID, time.Now())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create session"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"user": user, "token": token})
	}
}

// @Summary Log out
// @Description Sessions are stateless tokens; logout just confirms the client should discard its token
// @Tags Auth
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /auth/logout [post]
func LogoutHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"logged_out": true})
	}
}

// @Summary Get user profile
// @Description Public profile and lifetime stats for a user
// @Tags Auth
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} map[string]interface{}
// @Router /users/{id} [get]
func GetUserHandler(users store.UserStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := users.ByID(c.Request.Context(), c.Param("id"))
		if err != nil {
			if errors.Is(err, store.ErrUserNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "lookup failed"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"user": user})
	}
}

// @Summary Leaderboard
// @Description Top users ranked by wins
// @Tags Auth
// @Produce json
// @Param limit query int false "Max entries (default 10)"
// @Success 200 {object} map[string]interface{}
// @Router /leaderboard [get]
func LeaderboardHandler(users store.UserStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit, err := strconv.Atoi(c.DefaultQuery("limit", "10"))
		if err != nil || limit <= 0 {
			limit = 10
		}
		top, err := users.Leaderboard(c.Request.Context(), limit)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "leaderboard unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"leaderboard": top})
	}
}
