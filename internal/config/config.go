// Package config loads application settings from the environment.
//
// Variables are read with the ESTATELY_ prefix and mapped onto nested
// structs with "." as the delimiter, e.g. ESTATELY_DB.HOST -> DB.Host.
// A .env file, when present, is loaded first via godotenv autoload.
package config

import (
	"fmt"
	"strings"

	_ "github.com/joho/godotenv/autoload"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

const envPrefix = "ESTATELY_"

// Config is the root configuration object.
type Config struct {
	Env     string        `koanf:"env"`
	Port    int           `koanf:"port"`
	DB      DBConfig      `koanf:"db"`
	Limiter LimiterConfig `koanf:"limiter"`
	SMTP    SMTPConfig    `koanf:"smtp"`
	Auth    AuthConfig    `koanf:"auth"`
}

// DBConfig holds the PostgreSQL connection settings and pool bounds.
// QueueLimit caps how many callers may wait for a free connection before
// acquisition fails fast.
type DBConfig struct {
	Host       string `koanf:"host"`
	Port       int    `koanf:"port"`
	User       string `koanf:"user"`
	Password   string `koanf:"password"`
	Name       string `koanf:"name"`
	SSLMode    string `koanf:"ssl_mode"`
	MaxConns   int    `koanf:"max_conns"`
	QueueLimit int    `koanf:"queue_limit"`
}

// LimiterConfig tunes the per-client request rate limiter.
type LimiterConfig struct {
	RPS     float64 `koanf:"rps"`
	Burst   int     `koanf:"burst"`
	Enabled bool    `koanf:"enabled"`
}

// SMTPConfig holds the mail relay settings for the password-reset flow.
type SMTPConfig struct {
	Host     string `koanf:"host"`
	Port     int    `koanf:"port"`
	Username string `koanf:"username"`
	Password string `koanf:"password"`
	Sender   string `koanf:"sender"`
}

// AuthConfig stores the signing secret for login tokens.
type AuthConfig struct {
	Secret string `koanf:"secret"`
}

// Load reads the environment into a Config, applying defaults for
// everything a development setup can reasonably assume.
func Load() (*Config, error) {
	cfg := &Config{
		Env:  "development",
		Port: 4000,
		DB: DBConfig{
			Host:       "localhost",
			Port:       5432,
			SSLMode:    "disable",
			MaxConns:   25,
			QueueLimit: 100,
		},
		Limiter: LimiterConfig{
			RPS:     2,
			Burst:   4,
			Enabled: true,
		},
		SMTP: SMTPConfig{
			Port:   25,
			Sender: "Estately <no-reply@estately.example>",
		},
	}

	k := koanf.New(".")

	err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, envPrefix))
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("loading environment: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.DB.Name == "" {
		return fmt.Errorf("ESTATELY_DB.NAME must be set")
	}
	if c.DB.User == "" {
		return fmt.Errorf("ESTATELY_DB.USER must be set")
	}
	if c.DB.MaxConns < 1 {
		return fmt.Errorf("db max_conns must be at least 1")
	}
	if c.DB.QueueLimit < 0 {
		return fmt.Errorf("db queue_limit must not be negative")
	}
	return nil
}
