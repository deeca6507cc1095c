package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	HTTPAddr string

	// Game defaults; create-game requests may override grid size, player
	// cap, and turn timeout within the engine's limits.
	GridSize    int
	MaxPlayers  int
	TurnTimeout time.Duration

	// Monitor tuning.
	TimerTick        time.Duration
	WarningThreshold time.Duration
	InactivityTick   time.Duration
	InactivityWindow time.Duration

	// Land type mix; fractions of the grid per type, remainder regular.
	LandRegular float64
	LandCopper  float64
	LandSilver  float64
	LandGold    float64

	// Persistence. DatabaseURL empty means the JSON file store.
	UsersFile   string
	RecordsDir  string
	DatabaseURL string

	// Auth.
	JWTSecret string
	JWTMaxAge time.Duration
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func getenvFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func getenvDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func Load() Config {
	return Config{
		HTTPAddr: getenv("HTTP_ADDR", ":8080"),

		GridSize:    getenvInt("GRID_SIZE", 5),
		MaxPlayers:  getenvInt("MAX_PLAYERS", 2),
		TurnTimeout: getenvDuration("TURN_TIMEOUT", 60*time.Second),

		TimerTick:        getenvDuration("TIMER_TICK", time.Second),
		WarningThreshold: getenvDuration("WARNING_THRESHOLD", 10*time.Second),
		InactivityTick:   getenvDuration("INACTIVITY_TICK", 10*time.Second),
		InactivityWindow: getenvDuration("INACTIVITY_WINDOW", 60*time.Second),

		LandRegular: getenvFloat("LAND_REGULAR", 0.7),
		LandCopper:  getenvFloat("LAND_COPPER", 0.2),
		LandSilver:  getenvFloat("LAND_SILVER", 0.07),
		LandGold:    getenvFloat("LAND_GOLD", 0.03),

		UsersFile:   getenv("USERS_FILE", "users.json"),
		RecordsDir:  getenv("RECORDS_DIR", "records"),
		DatabaseURL: getenv("DATABASE_URL", ""),

		JWTSecret: getenv("JWT_SECRET", "prospector-dev-secret"),
		JWTMaxAge: getenvDuration("JWT_MAX_AGE", 24*time.Hour),
	}
}
