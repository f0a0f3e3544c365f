package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	Server       ServerConfig
	Game         GameConfig
	Presentation PresentationConfig
	Logging      LoggingConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port string
	Host string
	Env  string // "development" or "production"
}

// GameConfig holds game-related configuration
type GameConfig struct {
	Participants       int
	LapDuration        time.Duration
	RemovalDelay       time.Duration
	SettleTimeConstant time.Duration
	WinnerCount        int
	AllowResume        bool
	ChairPolicy        string // "priority" or "random"
	RandomSeed         int64
	TickHz             int
	BroadcastHz        int
	StaleTableTimeout  time.Duration
	RoomCodeLength     int
}

// PresentationConfig holds display attributes handed to clients, never to the engine
type PresentationConfig struct {
	PlayerColors []string
}

// LoggingConfig holds logging-related configuration
type LoggingConfig struct {
	Level  string
	Format string // "json" or "text"
}

// Load loads configuration from environment variables with defaults.
// Values from an optional .env file are applied first without overriding the environment.
func Load(envFiles ...string) *Config {
	// A missing .env file is normal
	_ = godotenv.Load(envFiles...)

	return &Config{
		Server: ServerConfig{
			Port: getEnv("PORT", "8080"),
			Host: getEnv("HOST", "0.0.0.0"),
			Env:  getEnv("ENV", "development"),
		},
		Game: GameConfig{
			Participants:       getEnvInt("PARTICIPANTS", 10),
			LapDuration:        time.Duration(getEnvInt("LAP_DURATION_MS", 3000)) * time.Millisecond,
			RemovalDelay:       time.Duration(getEnvInt("REMOVAL_DELAY_MS", 5000)) * time.Millisecond,
			SettleTimeConstant: time.Duration(getEnvInt("SETTLE_TIME_CONSTANT_MS", 250)) * time.Millisecond,
			WinnerCount:        getEnvInt("WINNER_COUNT", 1),
			AllowResume:        getEnvBool("ALLOW_RESUME", false),
			ChairPolicy:        getEnv("CHAIR_POLICY", "priority"),
			RandomSeed:         int64(getEnvInt("RANDOM_SEED", 0)),
			TickHz:             getEnvInt("TICK_HZ", 60),
			BroadcastHz:        getEnvInt("BROADCAST_HZ", 20),
			StaleTableTimeout:  time.Duration(getEnvInt("STALE_TABLE_TIMEOUT_MINUTES", 120)) * time.Minute,
			RoomCodeLength:     getEnvInt("ROOM_CODE_LENGTH", 6),
		},
		Presentation: PresentationConfig{
			PlayerColors: getEnvList("PLAYER_COLORS", nil),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "text"),
		},
	}
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Server.Env == "development"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Server.Env == "production"
}

// GetAddr returns the server address in host:port format
func (c *Config) GetAddr() string {
	return c.Server.Host + ":" + c.Server.Port
}

// getEnv returns an environment variable or a default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvInt returns an environment variable as an integer or a default value
func getEnvInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvBool returns an environment variable as a boolean or a default value
func getEnvBool(key string, defaultValue bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

// getEnvList returns a comma separated environment variable as a slice or a default value
func getEnvList(key string, defaultValue []string) []string {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}

	items := make([]string, 0)
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	if len(items) == 0 {
		return defaultValue
	}
	return items
}
