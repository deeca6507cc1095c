package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	_ "prospector/docs"

	httpapi "prospector/internal/api/http"
	"prospector/internal/api/ws"
	"prospector/internal/arena"
	"prospector/internal/auth"
	"prospector/internal/config"
	"prospector/internal/store"
	"prospector/migrations"
)

// @title Prospector API
// @version 1.0
// @description REST API for the fence-and-claim multiplayer grid game (Go + Gin)
// @contact.name Backend Team
// @BasePath /
func main() {
	cfg := config.Load()
	log := zerolog.New(os.Stdout).With().Timestamp().Logger()

	users, err := newUserStore(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("user store init failed")
	}

	recorder, err := store.NewGameRecorder(cfg.RecordsDir)
	if err != nil {
		log.Fatal().Err(err).Msg("game recorder init failed")
	}

	reg := arena.NewRegistry(cfg, users, recorder, log)
	hub := ws.NewHub(reg, log)
	reg.SetBroadcaster(hub)

	hasher := auth.NewPasswordHasher()
	jwt := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTMaxAge)

	stop := make(chan struct{})
	go reg.RunTurnClock(stop)
	go reg.RunInactivityMonitor(stop)

	r := httpapi.NewRouter(reg, hub, users, recorder, hasher, jwt)
	r.GET("/", func(c *gin.Context) {
		c.Redirect(http.StatusMovedPermanently, "/swagger/index.html")
	})

	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
		<-sig
		close(stop)
		log.Info().Msg("shutting down")
		os.Exit(0)
	}()

	log.Info().Str("addr", cfg.HTTPAddr).Msg("listening")
	if err := r.Run(cfg.HTTPAddr); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

// newUserStore picks postgres when DATABASE_URL is set, the JSON file
// store otherwise.
func newUserStore(cfg config.Config, log zerolog.Logger) (store.UserStore, error) {
	if cfg.DatabaseURL != "" {
		if err := migrations.Migrate(cfg.DatabaseURL); err != nil {
			return nil, err
		}
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		log.Info().Msg("using postgres user store")
		return store.NewPostgresUserStore(ctx, cfg.DatabaseURL)
	}
	log.Info().Str("path", cfg.UsersFile).Msg("using file user store")
	return store.NewFileUserStore(cfg.UsersFile)
}
