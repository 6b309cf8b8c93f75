package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates all runtime settings required by the client.
type Config struct {
	AppName     string
	Environment string
	API         APIConfig
	Storage     StorageConfig
	View        ViewConfig
	Context     ContextConfig
	Logger      LoggerConfig
}

type APIConfig struct {
	BaseURL string
	// RequestTimeout of zero leaves network calls without a deadline,
	// matching the upstream behaviour a hung request stays pending.
	RequestTimeout time.Duration
}

type StorageConfig struct {
	Path             string
	JanitorEnabled   bool
	JanitorInterval  time.Duration
	HistoryRetention time.Duration
}

type ViewConfig struct {
	GridPageSize int
	ListPageSize int
}

type ContextConfig struct {
	ShutdownTimeout time.Duration
}

type LoggerConfig struct {
	Level    string
	Encoding string
}

// Load reads configuration from environment variables (optionally .env)
// and applies sane defaults so the client can run anywhere.
func Load() (*Config, error) {
	_ = godotenv.Load(".env")

	cfg := &Config{
		AppName:     getString("APP_NAME", "taskpilot"),
		Environment: getString("APP_ENV", "development"),
		API: APIConfig{
			BaseURL:        getString("API_BASE_URL", "http://localhost:8080"),
			RequestTimeout: getDuration("API_REQUEST_TIMEOUT", 0),
		},
		Storage: StorageConfig{
			Path:             getString("STATE_PATH", defaultStatePath()),
			JanitorEnabled:   getBool("JANITOR_ENABLED", true),
			JanitorInterval:  getDuration("JANITOR_INTERVAL", 5*time.Minute),
			HistoryRetention: getDuration("HISTORY_RETENTION", 24*time.Hour),
		},
		View: ViewConfig{
			GridPageSize: getInt("GRID_PAGE_SIZE", 9),
			ListPageSize: getInt("LIST_PAGE_SIZE", 10),
		},
		Context: ContextConfig{
			ShutdownTimeout: getDuration("SHUTDOWN_TIMEOUT_SECONDS", 15*time.Second),
		},
		Logger: LoggerConfig{
			Level:    getString("LOG_LEVEL", "info"),
			Encoding: getString("LOG_ENCODING", "console"),
		},
	}

	if cfg.API.BaseURL == "" {
		return nil, fmt.Errorf("API_BASE_URL must not be empty")
	}

	return cfg, nil
}

// MustLoad panics if configuration cannot be loaded.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

func defaultStatePath() string {
	if home, err := os.UserHomeDir(); err == nil {
		return home + "/.taskpilot/state.db"
	}
	return "./data/state.db"
}

func getString(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			return parsed
		}
	}
	return fallback
}

func getBool(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.ParseBool(val); err == nil {
			return parsed
		}
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if parsed, err := time.ParseDuration(val); err == nil {
			return parsed
		}
		if seconds, err := strconv.Atoi(val); err == nil {
			return time.Duration(seconds) * time.Second
		}
	}
	return fallback
}
