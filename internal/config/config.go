package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// StoreDriver selects the repository backing the persisted store.
type StoreDriver string

const (
	StoreDriverFile     StoreDriver = "file"
	StoreDriverRedis    StoreDriver = "redis"
	StoreDriverPostgres StoreDriver = "postgres"
)

// AgentPolicy selects how "Speak to an Agent" tickets behave: relay puts
// the requester into verbatim forwarding, collect gathers detail messages
// first.
type AgentPolicy string

const (
	AgentPolicyRelay   AgentPolicy = "relay"
	AgentPolicyCollect AgentPolicy = "collect"
)

// Config aggregates runtime configuration for the bot.
type Config struct {
	App      AppConfig
	Wasender WasenderConfig
	Staff    StaffConfig
	Store    StoreConfig
	Redis    RedisConfig
	Postgres PostgresConfig
	Logger   LoggerConfig
	Bot      BotConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	RequestTimeoutSeconds int
}

// WasenderConfig holds the outbound messaging provider credentials.
type WasenderConfig struct {
	SendURL        string
	Token          string
	TimeoutSeconds int
}

// StaffConfig identifies staff senders and the admin HTTP secret.
type StaffConfig struct {
	Numbers  []string
	AdminKey string
}

// StoreConfig selects and parameterizes the store repository.
type StoreConfig struct {
	Driver   StoreDriver
	FilePath string
}

// RedisConfig holds Redis connection values.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	StoreKey string
}

// PostgresConfig holds DB connection values.
type PostgresConfig struct {
	DSN            string
	MaxConns       int32
	MinConns       int32
	ConnMaxIdleSec int32
	ConnMaxLifeSec int32
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// BotConfig holds dialogue policy knobs.
type BotConfig struct {
	AgentPolicy AgentPolicy
}

// Load reads configuration from environment variables, applying defaults
// where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	staffNumbers := splitList(getEnv("STAFF_NUMBERS", ""))
	if len(staffNumbers) == 0 {
		// legacy single-admin variable
		if admin := os.Getenv("ADMIN_NUMBER"); admin != "" {
			staffNumbers = []string{admin}
		}
	}

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "quickstop-cafebot"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "3000"),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
		},
		Wasender: WasenderConfig{
			SendURL:        getEnv("WASENDER_SEND_URL", "https://wasenderapi.com/api/send-message"),
			Token:          os.Getenv("WASENDER_TOKEN"),
			TimeoutSeconds: getEnvAsInt("WASENDER_TIMEOUT_SECONDS", 10),
		},
		Staff: StaffConfig{
			Numbers:  staffNumbers,
			AdminKey: os.Getenv("ADMIN_KEY"),
		},
		Store: StoreConfig{
			Driver:   StoreDriver(strings.ToLower(getEnv("STORE_DRIVER", "file"))),
			FilePath: getEnv("STORE_FILE_PATH", "data.json"),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
			StoreKey: getEnv("REDIS_STORE_KEY", "cafebot:store"),
		},
		Postgres: PostgresConfig{
			DSN:            os.Getenv("POSTGRES_DSN"),
			MaxConns:       int32(getEnvAsInt("POSTGRES_MAX_CONNS", 10)),
			MinConns:       int32(getEnvAsInt("POSTGRES_MIN_CONNS", 2)),
			ConnMaxIdleSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_IDLE_SECONDS", 30)),
			ConnMaxLifeSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_LIFE_SECONDS", 300)),
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Bot: BotConfig{
			AgentPolicy: AgentPolicy(strings.ToLower(getEnv("BOT_AGENT_POLICY", "relay"))),
		},
	}

	switch cfg.Store.Driver {
	case StoreDriverFile, StoreDriverRedis, StoreDriverPostgres:
	default:
		return nil, fmt.Errorf("invalid STORE_DRIVER: %q", cfg.Store.Driver)
	}
	switch cfg.Bot.AgentPolicy {
	case AgentPolicyRelay, AgentPolicyCollect:
	default:
		return nil, fmt.Errorf("invalid BOT_AGENT_POLICY: %q", cfg.Bot.AgentPolicy)
	}

	return cfg, nil
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

// Timeout returns the outbound send timeout duration.
func (w WasenderConfig) Timeout() time.Duration {
	if w.TimeoutSeconds <= 0 {
		return 10 * time.Second
	}
	return time.Duration(w.TimeoutSeconds) * time.Second
}

func splitList(val string) []string {
	parts := strings.Split(val, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}
