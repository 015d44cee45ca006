// internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/unclebandit/crm-backend/internal/logging"
)

// Config holds everything the binaries read from the environment.
type Config struct {
	Port        string
	DBDriver    string
	DatabaseURL string
	JWTSecret   string
	TokenTTL    time.Duration
	AMQPURL     string
	EventsQueue string
	LogLevel    string
}

var defaults = map[string]any{
	"port":         "8080",
	"db_driver":    "postgres",
	"db_host":      "localhost",
	"db_port":      "5432",
	"db_user":      "postgres",
	"db_password":  "",
	"db_name":      "crm",
	"token_ttl":    "24h",
	"events_queue": "customer_events",
	"log_level":    "info",
}

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logging.Warnf("⚠️ No .env file found, relying on OS environment variables")
	}
	return FromViper(newViper())
}

func newViper() *viper.Viper {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// AutomaticEnv only resolves keys viper already knows about.
	for _, key := range []string{"database_url", "jwt_secret", "amqp_url"} {
		_ = v.BindEnv(key)
	}
	return v
}

// FromViper builds a Config from an already populated viper instance.
func FromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		Port:        v.GetString("port"),
		DBDriver:    strings.ToLower(v.GetString("db_driver")),
		DatabaseURL: v.GetString("database_url"),
		JWTSecret:   v.GetString("jwt_secret"),
		TokenTTL:    v.GetDuration("token_ttl"),
		AMQPURL:     v.GetString("amqp_url"),
		EventsQueue: v.GetString("events_queue"),
		LogLevel:    v.GetString("log_level"),
	}

	switch cfg.DBDriver {
	case "postgres":
		if cfg.DatabaseURL == "" {
			cfg.DatabaseURL = fmt.Sprintf(
				"postgres://%s:%s@%s:%s/%s?sslmode=disable",
				v.GetString("db_user"), v.GetString("db_password"),
				v.GetString("db_host"), v.GetString("db_port"), v.GetString("db_name"),
			)
		}
	case "sqlite":
		if cfg.DatabaseURL == "" {
			cfg.DatabaseURL = "file:crm.db?_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)"
		}
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}

	if cfg.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET must be set")
	}
	if cfg.TokenTTL <= 0 {
		return nil, fmt.Errorf("TOKEN_TTL must be positive, got %s", cfg.TokenTTL)
	}

	return cfg, nil
}
