// Package config loads server settings from defaults, an optional YAML file
// and SPLITLEDGER_* environment variables.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable, with dots in keys
// replaced by underscores: db.url is read from SPLITLEDGER_DB_URL.
const EnvPrefix = "SPLITLEDGER"

const (
	EnvDev  = "dev"
	EnvProd = "prod"

	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// devJWTSecret is only accepted outside prod.
const devJWTSecret = "splitledger-dev-secret"

// ErrInvalid is wrapped by every validation failure from Load.
var ErrInvalid = errors.New("invalid configuration")

type Config struct {
	Env  string
	HTTP HTTPConfig
	DB   DBConfig
	Auth AuthConfig
	Log  LogConfig
	CORS CORSConfig
}

type HTTPConfig struct {
	Port int
}

// Addr is the listen address for the HTTP server.
func (c HTTPConfig) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

type DBConfig struct {
	Driver string
	Path   string // sqlite file
	URL    string // postgres connection string
}

type AuthConfig struct {
	JWTSecret string
	TokenTTL  time.Duration
}

type LogConfig struct {
	Level  string
	Format string
}

type CORSConfig struct {
	AllowedOrigins []string
}

// SetDefaults registers defaults and environment bindings on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("env", EnvDev)
	v.SetDefault("http.port", 8080)
	v.SetDefault("db.driver", DriverSQLite)
	v.SetDefault("db.path", "./data/ledger.db")
	v.SetDefault("db.url", "")
	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("auth.token_ttl", 24*time.Hour)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "")
	v.SetDefault("cors.allowed_origins", []string{"*"})

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
}

// ReadFile merges a YAML file into v. An empty path is a no-op.
func ReadFile(v *viper.Viper, path string) error {
	if path == "" {
		return nil
	}
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("failed to read config %s: %w", path, err)
	}
	return nil
}

// Load reads and validates the configuration held by v. Defaults are
// registered first, so a bare viper.New() yields a working dev config.
func Load(v *viper.Viper) (Config, error) {
	SetDefaults(v)

	cfg := Config{
		Env:  strings.ToLower(strings.TrimSpace(v.GetString("env"))),
		HTTP: HTTPConfig{Port: v.GetInt("http.port")},
		DB: DBConfig{
			Driver: strings.ToLower(strings.TrimSpace(v.GetString("db.driver"))),
			Path:   v.GetString("db.path"),
			URL:    v.GetString("db.url"),
		},
		Auth: AuthConfig{
			JWTSecret: v.GetString("auth.jwt_secret"),
			TokenTTL:  v.GetDuration("auth.token_ttl"),
		},
		Log: LogConfig{
			Level:  strings.ToLower(v.GetString("log.level")),
			Format: strings.ToLower(v.GetString("log.format")),
		},
		CORS: CORSConfig{AllowedOrigins: splitList(v.GetStringSlice("cors.allowed_origins"))},
	}

	if cfg.Log.Format == "" {
		cfg.Log.Format = "console"
		if cfg.Env == EnvProd {
			cfg.Log.Format = "json"
		}
	}
	if cfg.Auth.JWTSecret == "" && cfg.Env != EnvProd {
		cfg.Auth.JWTSecret = devJWTSecret
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	switch c.Env {
	case EnvDev, EnvProd:
	default:
		return fmt.Errorf("%w: env must be %q or %q, got %q", ErrInvalid, EnvDev, EnvProd, c.Env)
	}
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("%w: http.port %d out of range", ErrInvalid, c.HTTP.Port)
	}

	switch c.DB.Driver {
	case DriverSQLite:
		if c.DB.Path == "" {
			return fmt.Errorf("%w: db.path is required for sqlite", ErrInvalid)
		}
	case DriverPostgres:
		if c.DB.URL == "" {
			return fmt.Errorf("%w: db.url is required for postgres", ErrInvalid)
		}
	default:
		return fmt.Errorf("%w: unknown db.driver %q", ErrInvalid, c.DB.Driver)
	}

	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("%w: auth.jwt_secret is required in %s", ErrInvalid, c.Env)
	}
	if c.Auth.TokenTTL <= 0 {
		return fmt.Errorf("%w: auth.token_ttl must be positive", ErrInvalid)
	}

	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: unknown log.level %q", ErrInvalid, c.Log.Level)
	}
	switch c.Log.Format {
	case "console", "json":
	default:
		return fmt.Errorf("%w: unknown log.format %q", ErrInvalid, c.Log.Format)
	}

	if len(c.CORS.AllowedOrigins) == 0 {
		return fmt.Errorf("%w: cors.allowed_origins must not be empty", ErrInvalid)
	}
	return nil
}

// splitList accepts both YAML lists and comma-separated env values.
func splitList(values []string) []string {
	var out []string
	for _, value := range values {
		for _, part := range strings.Split(value, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
