// Package config loads and validates application configuration from
// environment variables via viper.
package config

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/planejatrip/planejatrip-backend/logger"
	"github.com/spf13/viper"
)

// Environment represents the application's running environment.
type Environment string

const (
	EnvDevelopment Environment = "development"
	EnvProduction  Environment = "production"

	minJWTSecretLength = 32
)

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Environment    Environment `mapstructure:"ENVIRONMENT"`
	Port           string      `mapstructure:"PORT"`
	AllowedOrigins []string    `mapstructure:"ALLOWED_ORIGINS"`
	FrontendURL    string      `mapstructure:"FRONTEND_URL"`
}

// DatabaseConfig holds PostgreSQL connection details.
type DatabaseConfig struct {
	Host         string `mapstructure:"HOST"`
	Port         int    `mapstructure:"PORT"`
	User         string `mapstructure:"USER"`
	Password     string `mapstructure:"PASSWORD"`
	Name         string `mapstructure:"NAME"`
	SSLMode      string `mapstructure:"SSL_MODE"`
	MaxOpenConns int    `mapstructure:"MAX_OPEN_CONNS"`
}

// URL returns a postgres:// connection URL suitable for golang-migrate and
// other URL-based tools.
func (c *DatabaseConfig) URL() string {
	sslmode := c.SSLMode
	if sslmode == "" {
		sslmode = "disable"
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		url.QueryEscape(c.User),
		url.QueryEscape(c.Password),
		c.Host,
		c.Port,
		c.Name,
		sslmode,
	)
}

// ConnString returns a key-value connection string for pgxpool.
func (c *DatabaseConfig) ConnString() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode)
}

// RedisConfig holds Redis connection details for rate limiting.
type RedisConfig struct {
	Address  string `mapstructure:"ADDRESS"`
	Password string `mapstructure:"PASSWORD"`
	DB       int    `mapstructure:"DB"`
}

// EmailConfig holds Resend settings for invite notifications.
type EmailConfig struct {
	FromAddress  string `mapstructure:"FROM_ADDRESS"`
	FromName     string `mapstructure:"FROM_NAME"`
	ResendAPIKey string `mapstructure:"RESEND_API_KEY"`
}

// SupabaseConfig holds identity-provider settings. The JWT secret validates
// the HS256 access tokens Supabase issues.
type SupabaseConfig struct {
	URL       string `mapstructure:"URL"`
	AnonKey   string `mapstructure:"ANON_KEY"`
	JWTSecret string `mapstructure:"JWT_SECRET"`
}

// SuggestionConfig holds settings for the generative suggestion provider.
type SuggestionConfig struct {
	APIKey         string `mapstructure:"API_KEY"`
	BaseURL        string `mapstructure:"BASE_URL"`
	Model          string `mapstructure:"MODEL"`
	TimeoutSeconds int    `mapstructure:"TIMEOUT_SECONDS"`
}

// RateLimitConfig holds settings for the Redis auth rate limiter.
type RateLimitConfig struct {
	AuthRequestsPerMinute int `mapstructure:"AUTH_REQUESTS_PER_MINUTE"`
	WindowSeconds         int `mapstructure:"WINDOW_SECONDS"`
}

// Config is the root configuration object.
type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	Redis      RedisConfig
	Email      EmailConfig
	Supabase   SupabaseConfig
	Suggestion SuggestionConfig
	RateLimit  RateLimitConfig
}

func bindEnvVars(v *viper.Viper, bindings [][2]string) error {
	for _, b := range bindings {
		if err := v.BindEnv(b[0], b[1]); err != nil {
			return fmt.Errorf("failed to bind %s: %w", b[1], err)
		}
	}
	return nil
}

// LoadConfig reads configuration from the environment, applies defaults,
// and validates production requirements.
func LoadConfig() (*Config, error) {
	log := logger.GetLogger()
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("server.environment", string(EnvDevelopment))
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.allowed_origins", "http://localhost:5173")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.ssl_mode", "disable")
	v.SetDefault("database.max_open_conns", 10)
	v.SetDefault("redis.address", "localhost:6379")
	v.SetDefault("email.from_name", "PlanejaTrip")
	v.SetDefault("suggestion.base_url", "https://generativelanguage.googleapis.com")
	v.SetDefault("suggestion.model", "gemini-2.5-flash")
	v.SetDefault("suggestion.timeout_seconds", 30)
	v.SetDefault("ratelimit.auth_requests_per_minute", 10)
	v.SetDefault("ratelimit.window_seconds", 60)

	if err := bindEnvVars(v, [][2]string{
		{"server.environment", "ENVIRONMENT"},
		{"server.port", "PORT"},
		{"server.allowed_origins", "ALLOWED_ORIGINS"},
		{"server.frontend_url", "FRONTEND_URL"},
		{"database.host", "DB_HOST"},
		{"database.port", "DB_PORT"},
		{"database.user", "DB_USER"},
		{"database.password", "DB_PASSWORD"},
		{"database.name", "DB_NAME"},
		{"database.ssl_mode", "DB_SSL_MODE"},
		{"database.max_open_conns", "DB_MAX_OPEN_CONNS"},
		{"redis.address", "REDIS_ADDRESS"},
		{"redis.password", "REDIS_PASSWORD"},
		{"redis.db", "REDIS_DB"},
		{"email.from_address", "EMAIL_FROM_ADDRESS"},
		{"email.from_name", "EMAIL_FROM_NAME"},
		{"email.resend_api_key", "RESEND_API_KEY"},
		{"supabase.url", "SUPABASE_URL"},
		{"supabase.anon_key", "SUPABASE_ANON_KEY"},
		{"supabase.jwt_secret", "SUPABASE_JWT_SECRET"},
		{"suggestion.api_key", "SUGGESTION_API_KEY"},
		{"suggestion.base_url", "SUGGESTION_BASE_URL"},
		{"suggestion.model", "SUGGESTION_MODEL"},
		{"suggestion.timeout_seconds", "SUGGESTION_TIMEOUT_SECONDS"},
		{"ratelimit.auth_requests_per_minute", "AUTH_REQUESTS_PER_MINUTE"},
		{"ratelimit.window_seconds", "RATE_LIMIT_WINDOW_SECONDS"},
	}); err != nil {
		return nil, err
	}

	cfg := &Config{
		Server: ServerConfig{
			Environment:    Environment(v.GetString("server.environment")),
			Port:           v.GetString("server.port"),
			AllowedOrigins: splitList(v.GetString("server.allowed_origins")),
			FrontendURL:    v.GetString("server.frontend_url"),
		},
		Database: DatabaseConfig{
			Host:         v.GetString("database.host"),
			Port:         v.GetInt("database.port"),
			User:         v.GetString("database.user"),
			Password:     v.GetString("database.password"),
			Name:         v.GetString("database.name"),
			SSLMode:      v.GetString("database.ssl_mode"),
			MaxOpenConns: v.GetInt("database.max_open_conns"),
		},
		Redis: RedisConfig{
			Address:  v.GetString("redis.address"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
		},
		Email: EmailConfig{
			FromAddress:  v.GetString("email.from_address"),
			FromName:     v.GetString("email.from_name"),
			ResendAPIKey: v.GetString("email.resend_api_key"),
		},
		Supabase: SupabaseConfig{
			URL:       v.GetString("supabase.url"),
			AnonKey:   v.GetString("supabase.anon_key"),
			JWTSecret: v.GetString("supabase.jwt_secret"),
		},
		Suggestion: SuggestionConfig{
			APIKey:         v.GetString("suggestion.api_key"),
			BaseURL:        v.GetString("suggestion.base_url"),
			Model:          v.GetString("suggestion.model"),
			TimeoutSeconds: v.GetInt("suggestion.timeout_seconds"),
		},
		RateLimit: RateLimitConfig{
			AuthRequestsPerMinute: v.GetInt("ratelimit.auth_requests_per_minute"),
			WindowSeconds:         v.GetInt("ratelimit.window_seconds"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	log.Infow("Configuration loaded",
		"environment", cfg.Server.Environment,
		"port", cfg.Server.Port,
		"dbHost", cfg.Database.Host,
	)
	return cfg, nil
}

// Validate enforces settings the service cannot run safely without.
func (c *Config) Validate() error {
	if c.Server.Environment != EnvDevelopment && c.Server.Environment != EnvProduction {
		return fmt.Errorf("unknown environment %q", c.Server.Environment)
	}
	if c.Server.Environment == EnvProduction {
		if len(c.Supabase.JWTSecret) < minJWTSecretLength {
			return fmt.Errorf("SUPABASE_JWT_SECRET must be at least %d characters in production", minJWTSecretLength)
		}
		if c.Email.ResendAPIKey == "" {
			return fmt.Errorf("RESEND_API_KEY is required in production")
		}
	}
	return nil
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
