package config

import (
	"fmt"
	"log"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/vytor/chesscompare/internal/logger"
)

type Config struct {
	Addr                 string `yaml:"addr"`
	DBPath               string `yaml:"db_path"`
	LogLevel             string `yaml:"log_level"`
	ChessComBaseURL      string `yaml:"chesscom_base_url"`
	UserAgent            string `yaml:"user_agent"`
	HTTPTimeoutSeconds   int    `yaml:"http_timeout_seconds"`
	ArchiveLimit         int    `yaml:"archive_limit"`
	MaxConcurrentArchive int    `yaml:"max_concurrent_archive"`
	PlayerCacheTTLHours  int    `yaml:"player_cache_ttl_hours"`
	SessionTTLMinutes    int    `yaml:"session_ttl_minutes"`
	WarmWorkerCount      int    `yaml:"warm_worker_count"`
	WarmQueueSize        int    `yaml:"warm_queue_size"`
}

// Defaults returns the configuration used when nothing else is set.
func Defaults() Config {
	return Config{
		Addr:                 ":8080",
		DBPath:               "file:chesscompare.db",
		LogLevel:             "INFO",
		ChessComBaseURL:      "https://api.chess.com/pub",
		UserAgent:            "chess-comparator",
		HTTPTimeoutSeconds:   15,
		ArchiveLimit:         0,
		MaxConcurrentArchive: 16,
		PlayerCacheTTLHours:  24,
		SessionTTLMinutes:    30,
		WarmWorkerCount:      2,
		WarmQueueSize:        32,
	}
}

// Load reads configuration from a .env file (if present), an optional YAML file
// named by CONFIG_FILE, and environment variables, in increasing precedence.
func Load() Config {
	// Ignore error so the app still starts when .env is absent in production.
	_ = godotenv.Load()

	cfg := Defaults()
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		fileCfg, err := LoadFile(path, cfg)
		if err != nil {
			log.Printf("ignoring config file %s: %v", path, err)
		} else {
			cfg = fileCfg
		}
	}

	return Config{
		Addr:                 envOr("ADDR", cfg.Addr),
		DBPath:               envOr("DB_PATH", cfg.DBPath),
		LogLevel:             envOr("LOG_LEVEL", cfg.LogLevel),
		ChessComBaseURL:      envOr("CHESSCOM_BASE_URL", cfg.ChessComBaseURL),
		UserAgent:            envOr("USER_AGENT", cfg.UserAgent),
		HTTPTimeoutSeconds:   envIntOr("HTTP_TIMEOUT_SECONDS", cfg.HTTPTimeoutSeconds),
		ArchiveLimit:         envIntOr("ARCHIVE_LIMIT", cfg.ArchiveLimit),
		MaxConcurrentArchive: envIntOr("MAX_CONCURRENT_ARCHIVE", cfg.MaxConcurrentArchive),
		PlayerCacheTTLHours:  envIntOr("PLAYER_CACHE_TTL_HOURS", cfg.PlayerCacheTTLHours),
		SessionTTLMinutes:    envIntOr("SESSION_TTL_MINUTES", cfg.SessionTTLMinutes),
		WarmWorkerCount:      envIntOr("WARM_WORKER_COUNT", cfg.WarmWorkerCount),
		WarmQueueSize:        envIntOr("WARM_QUEUE_SIZE", cfg.WarmQueueSize),
	}
}

// LoadFile overlays the YAML document at path onto base. Keys missing from the
// file keep base's values.
func LoadFile(path string, base Config) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return base, fmt.Errorf("failed to read config file: %w", err)
	}
	cfg := base
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return base, fmt.Errorf("failed to parse config file: %w", err)
	}
	return cfg, nil
}

// Validate reports every invalid setting at once.
func (c Config) Validate() error {
	var problems []string

	if strings.TrimSpace(c.Addr) == "" {
		problems = append(problems, "ADDR cannot be empty")
	}
	if strings.TrimSpace(c.DBPath) == "" {
		problems = append(problems, "DB_PATH cannot be empty")
	}
	if _, ok := logger.LookupLevel(c.LogLevel); !ok {
		problems = append(problems, fmt.Sprintf("LOG_LEVEL %q is not one of DEBUG, INFO, WARN, ERROR", c.LogLevel))
	}
	if c.ChessComBaseURL == "" {
		problems = append(problems, "CHESSCOM_BASE_URL cannot be empty")
	} else if u, err := url.Parse(c.ChessComBaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		problems = append(problems, fmt.Sprintf("CHESSCOM_BASE_URL %q is not an absolute URL", c.ChessComBaseURL))
	}
	if c.HTTPTimeoutSeconds <= 0 {
		problems = append(problems, "HTTP_TIMEOUT_SECONDS must be positive")
	}
	if c.ArchiveLimit < 0 {
		problems = append(problems, "ARCHIVE_LIMIT cannot be negative")
	}
	if c.MaxConcurrentArchive <= 0 {
		problems = append(problems, "MAX_CONCURRENT_ARCHIVE must be positive")
	}
	if c.PlayerCacheTTLHours <= 0 {
		problems = append(problems, "PLAYER_CACHE_TTL_HOURS must be positive")
	}
	if c.SessionTTLMinutes <= 0 {
		problems = append(problems, "SESSION_TTL_MINUTES must be positive")
	}
	if c.WarmWorkerCount <= 0 {
		problems = append(problems, "WARM_WORKER_COUNT must be positive")
	}
	if c.WarmQueueSize <= 0 {
		problems = append(problems, "WARM_QUEUE_SIZE must be positive")
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return nil
}

func (c Config) HTTPTimeout() time.Duration {
	return time.Duration(c.HTTPTimeoutSeconds) * time.Second
}

func (c Config) PlayerCacheTTL() time.Duration {
	return time.Duration(c.PlayerCacheTTLHours) * time.Hour
}

func (c Config) SessionTTL() time.Duration {
	return time.Duration(c.SessionTTLMinutes) * time.Minute
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envIntOr(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
		log.Printf("invalid value for %s=%q, using default %d", key, v, def)
	}
	return def
}
