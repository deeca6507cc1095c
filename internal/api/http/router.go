package http

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"prospector/internal/api/ws"
	"prospector/internal/arena"
	"prospector/internal/auth"
	"prospector/internal/store"
)

func NewRouter(reg *arena.Registry, hub *ws.Hub, users store.UserStore, recorder *store.GameRecorder, hasher *auth.PasswordHasher, jwt *auth.JWTManager) *gin.Engine {
	r := gin.Default()
	r.Use(cors.Default())
	r.Use(AuthMiddleware(jwt))

	// WebSocket for live game updates
	r.GET("/ws", hub.HandleWS)

	// --- GAME ENDPOINTS ---
	r.POST("/games", CreateGameHandler(reg))
	r.GET("/games/:id", GetGameHandler(reg))
	r.POST("/games/:id/join", JoinGameHandler(reg))
	r.POST("/games/:id/leave", LeaveGameHandler(reg))
	r.POST("/games/:id/fences", PlaceFenceHandler(reg))
	r.POST("/games/:id/end", EndGameHandler(reg))

	// --- AUTH ENDPOINTS ---
	r.POST("/auth/register", RegisterHandler(users, hasher, jwt))
	r.POST("/auth/login", LoginHandler(users, hasher, jwt))
	r.POST("/auth/logout", LogoutHandler())
	r.GET("/users/:id", GetUserHandler(users))
	r.GET("/leaderboard", LeaderboardHandler(users))

	// --- RECORD ENDPOINTS ---
	r.GET("/records", ListRecordsHandler(recorder))
	r.GET("/records/:name", GetRecordHandler(recorder))
	r.DELETE("/records/:name", DeleteRecordHandler(recorder))

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}
