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

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Database DatabaseConfig
	Redis    RedisConfig
	Provider ProviderConfig
	Planner  PlannerConfig
	Catalog  CatalogConfig
	JWT      JWTConfig
	CORS     CORSConfig
	Log      LogConfig
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

// ProviderConfig points at the upstream booking provider.
type ProviderConfig struct {
	BaseURL         string
	APIKey          string
	Timeout         time.Duration
	FetchWorkers    int
	AvailabilityTTL time.Duration
}

// PlannerConfig governs the scheduling pipeline.
type PlannerConfig struct {
	MaxHorizonDays int
	BufferSlots    int
	SolverTimeout  time.Duration
}

// CatalogConfig controls the periodic activity catalog refresh.
type CatalogConfig struct {
	RefreshEnabled bool
	RefreshCron    string
	SyncWorkers    int
	SyncRetries    int
}

type JWTConfig struct {
	Secret string
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// Load reads environment configuration, honouring a local .env file when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	cfg := &Config{
		Env:       strings.ToLower(v.GetString("ENV")),
		Port:      v.GetInt("PORT"),
		APIPrefix: v.GetString("API_PREFIX"),
	}
	if cfg.Env != EnvDevelopment && cfg.Env != EnvProduction {
		return nil, errors.New("ENV must be development or production")
	}

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

	cfg.Provider = ProviderConfig{
		BaseURL:         v.GetString("PROVIDER_BASE_URL"),
		APIKey:          v.GetString("PROVIDER_API_KEY"),
		Timeout:         parseDuration(v.GetString("PROVIDER_TIMEOUT"), 10*time.Second),
		FetchWorkers:    v.GetInt("PROVIDER_FETCH_WORKERS"),
		AvailabilityTTL: parseDuration(v.GetString("PROVIDER_AVAILABILITY_TTL"), 15*time.Minute),
	}

	cfg.Planner = PlannerConfig{
		MaxHorizonDays: v.GetInt("PLANNER_MAX_HORIZON_DAYS"),
		BufferSlots:    v.GetInt("PLANNER_BUFFER_SLOTS"),
		SolverTimeout:  parseDuration(v.GetString("PLANNER_SOLVER_TIMEOUT"), 10*time.Second),
	}

	cfg.Catalog = CatalogConfig{
		RefreshEnabled: v.GetBool("CATALOG_REFRESH_ENABLED"),
		RefreshCron:    v.GetString("CATALOG_REFRESH_CRON"),
		SyncWorkers:    v.GetInt("CATALOG_SYNC_WORKERS"),
		SyncRetries:    v.GetInt("CATALOG_SYNC_RETRIES"),
	}

	cfg.JWT = JWTConfig{
		Secret: v.GetString("JWT_SECRET"),
	}

	cfg.CORS = CORSConfig{
		AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS")),
	}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "trip_planner")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("PROVIDER_BASE_URL", "http://localhost:9090")
	v.SetDefault("PROVIDER_API_KEY", "")
	v.SetDefault("PROVIDER_TIMEOUT", "10s")
	v.SetDefault("PROVIDER_FETCH_WORKERS", 8)
	v.SetDefault("PROVIDER_AVAILABILITY_TTL", "15m")

	v.SetDefault("PLANNER_MAX_HORIZON_DAYS", 30)
	v.SetDefault("PLANNER_BUFFER_SLOTS", 3)
	v.SetDefault("PLANNER_SOLVER_TIMEOUT", "10s")

	v.SetDefault("CATALOG_REFRESH_ENABLED", false)
	v.SetDefault("CATALOG_REFRESH_CRON", "0 4 * * *")
	v.SetDefault("CATALOG_SYNC_WORKERS", 2)
	v.SetDefault("CATALOG_SYNC_RETRIES", 3)

	v.SetDefault("JWT_SECRET", "dev_secret")
	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
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
