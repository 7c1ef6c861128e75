// Package config loads runtime configuration from the environment, with an
// optional .env file for local development.
package config

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config is everything the server needs to start. Fields map to environment
// variables via envconfig: PORT, DB_PATH, JWT_SECRET, JWT_TTL_HOURS,
// BASE_URL, BCRYPT_COST.
type Config struct {
	Port        int    `envconfig:"PORT"`
	DBPath      string `envconfig:"DB_PATH"`
	JWTSecret   string `envconfig:"JWT_SECRET"`
	JWTTTLHours int    `envconfig:"JWT_TTL_HOURS"`
	BaseURL     string `envconfig:"BASE_URL"`
	BcryptCost  int    `envconfig:"BCRYPT_COST"`
}

// Load reads .env when present, then the process environment. JWT_SECRET
// has no default; the server must not start with a guessable secret.
func Load() (*Config, error) {
	// Missing .env is fine; the real environment wins either way.
	_ = godotenv.Load()

	c := new(Config)
	if err := envconfig.Process("", c); err != nil {
		return nil, fmt.Errorf("processing environment config: %w", err)
	}

	if c.JWTSecret == "" {
		return nil, fmt.Errorf("set JWT_SECRET")
	}

	if c.Port == 0 {
		c.Port = 8080
	}
	if c.DBPath == "" {
		c.DBPath = "data/foodbridge.db"
	}
	if c.JWTTTLHours == 0 {
		c.JWTTTLHours = 24
	}
	if c.BaseURL == "" {
		c.BaseURL = fmt.Sprintf("http://localhost:%d", c.Port)
	}

	return c, nil
}
