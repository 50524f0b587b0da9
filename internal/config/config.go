package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
	"golang.org/x/text/language"
)

type Config struct {
	App struct {
		Name string `envconfig:"APP_NAME" default:"Hesab"`
		Port int    `envconfig:"PORT" default:"8080"`
		// Locale selects digit grouping for formatted amounts.
		Locale string `envconfig:"LOCALE" default:"fa-IR"`
	}

	DB struct {
		Host     string `envconfig:"DB_HOST" default:"localhost"`
		Port     int    `envconfig:"DB_PORT" default:"5432"`
		User     string `envconfig:"DB_USER" default:"postgres"`
		Password string `envconfig:"DB_PASSWORD" default:""`
		Name     string `envconfig:"DB_NAME" default:"hesab"`
	}

	Server struct {
		Timeout     time.Duration `envconfig:"SERVER_TIMEOUT" default:"30s"`
		CORSOrigins []string      `envconfig:"CORS_ORIGINS" default:"http://localhost:5173"`
	}

	Backup struct {
		Dir string `envconfig:"BACKUP_DIR" default:"."`
	}
}

func (c *Config) ConnectionString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.DB.User, c.DB.Password, c.DB.Host, c.DB.Port, c.DB.Name)
}

// Language returns the configured locale, falling back to Persian when it does not parse.
func (c *Config) Language() language.Tag {
	tag, err := language.Parse(c.App.Locale)
	if err != nil {
		return language.Persian
	}

	return tag
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	return &cfg, nil
}
