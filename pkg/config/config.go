package config

import (
	"errors"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Eight bound columns per inserted row must stay under 65535 parameters.
const maxSeedBatchSize = 8000

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Database DatabaseConfig
	Redis    RedisConfig
	CORS     CORSConfig
	Log      LogConfig
	Search   SearchConfig
	Seed     SeedConfig
}

type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// SearchConfig tunes the advocate search endpoint and its caches.
type SearchConfig struct {
	DefaultLimit         int
	MaxLimit             int
	CacheEnabled         bool
	CacheTTL             time.Duration
	CacheMaxAge          time.Duration
	StaleWhileRevalidate time.Duration
}

// SeedConfig gates the synthetic data endpoint and sizes seeding batches.
type SeedConfig struct {
	Enabled      bool
	DefaultCount int
	MaxCount     int
	BatchSize    int
	Workers      int
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !isMissingFile(err) {
			return nil, err
		}
	}

	return fromViper(v), nil
}

func fromViper(v *viper.Viper) *Config {
	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

	cfg.Database = DatabaseConfig{
		Host:         v.GetString("DB_HOST"),
		Port:         v.GetInt("DB_PORT"),
		User:         v.GetString("DB_USER"),
		Password:     v.GetString("DB_PASSWORD"),
		Name:         v.GetString("DB_NAME"),
		SSLMode:      v.GetString("DB_SSL_MODE"),
		MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
	}

	cfg.Redis = RedisConfig{
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Search = SearchConfig{
		DefaultLimit:         positiveOr(v.GetInt("SEARCH_DEFAULT_LIMIT"), 50),
		MaxLimit:             positiveOr(v.GetInt("SEARCH_MAX_LIMIT"), 200),
		CacheEnabled:         v.GetBool("SEARCH_CACHE_ENABLED"),
		CacheTTL:             parseDuration(v.GetString("SEARCH_CACHE_TTL"), time.Minute),
		CacheMaxAge:          parseDuration(v.GetString("SEARCH_CACHE_MAX_AGE"), time.Minute),
		StaleWhileRevalidate: parseDuration(v.GetString("SEARCH_CACHE_SWR"), 5*time.Minute),
	}
	if cfg.Search.DefaultLimit > cfg.Search.MaxLimit {
		cfg.Search.DefaultLimit = cfg.Search.MaxLimit
	}

	cfg.Seed = SeedConfig{
		Enabled:      v.GetBool("ENABLE_SEED"),
		DefaultCount: positiveOr(v.GetInt("SEED_DEFAULT_COUNT"), 1000),
		MaxCount:     positiveOr(v.GetInt("SEED_MAX_COUNT"), 10000),
		BatchSize:    clampInt(positiveOr(v.GetInt("SEED_BATCH_SIZE"), 1000), 1, maxSeedBatchSize),
		Workers:      positiveOr(v.GetInt("SEED_WORKERS"), 2),
	}

	return cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "advocates")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("SEARCH_DEFAULT_LIMIT", 50)
	v.SetDefault("SEARCH_MAX_LIMIT", 200)
	v.SetDefault("SEARCH_CACHE_ENABLED", false)
	v.SetDefault("SEARCH_CACHE_TTL", "60s")
	v.SetDefault("SEARCH_CACHE_MAX_AGE", "60s")
	v.SetDefault("SEARCH_CACHE_SWR", "300s")

	v.SetDefault("ENABLE_SEED", false)
	v.SetDefault("SEED_DEFAULT_COUNT", 1000)
	v.SetDefault("SEED_MAX_COUNT", 10000)
	v.SetDefault("SEED_BATCH_SIZE", 1000)
	v.SetDefault("SEED_WORKERS", 2)
}

// viper reports a missing explicit config file as a plain fs error rather than
// ConfigFileNotFoundError.
func isMissingFile(err error) bool {
	return strings.Contains(err.Error(), "no such file or directory")
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

func positiveOr(value, fallback int) int {
	if value <= 0 {
		return fallback
	}
	return value
}

func clampInt(value, lo, hi int) int {
	if value < lo {
		return lo
	}
	if value > hi {
		return hi
	}
	return value
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
