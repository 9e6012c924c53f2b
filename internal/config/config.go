// Package config loads process-wide configuration from the environment.
//
// Everything the core needs — signing secret, admin allow-list, bcrypt cost,
// field limits — is read exactly once at startup and passed by value into the
// constructors that need it. Nothing in this struct is mutated after Load
// returns; there are no runtime singletons.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

// Config holds all configuration parameters for the service.
type Config struct {
	Port   int    `env:"PORT" envDefault:"3173"`
	DBPath string `env:"DB_PATH" envDefault:"data/accounts.db"`

	// SecretAccessKey signs every session token. Required — the service
	// refuses to start without it. Generate with: openssl rand -hex 32
	SecretAccessKey string `env:"SECRET_ACCESS_KEY,required"`

	// AdminEmails is the allow-list consulted at account creation.
	// Membership sets the immutable admin flag on the new record.
	AdminEmails []string `env:"ADMIN_EMAILS" envSeparator:","`

	// BcryptCost is the password hashing work factor.
	BcryptCost int `env:"BCRYPT_COST" envDefault:"10"`

	// Avatar resolution for local signup. The fetch is bounded by
	// AvatarTimeout and always falls back to DefaultProfileImg.
	AvatarEndpoint    string        `env:"AVATAR_ENDPOINT" envDefault:"https://ui-avatars.com/api/"`
	AvatarTimeout     time.Duration `env:"AVATAR_TIMEOUT" envDefault:"3s"`
	DefaultProfileImg string        `env:"DEFAULT_PROFILE_IMG" envDefault:"https://cloud.brandonpyle.com/s/JySYcKTSp8tLfCQ/download/default_profile.png"`

	// Profile field limits.
	BioLimit       int `env:"BIO_LIMIT" envDefault:"150"`
	MinUsernameLen int `env:"MIN_USERNAME_LEN" envDefault:"3"`
}

// Load reads configuration from the environment, loading a .env file first
// when one exists in the working directory (development convenience — in
// production the variables come from the real environment).
func Load() (*Config, error) {
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			return nil, fmt.Errorf("config: loading .env file: %w", err)
		}
	}

	cfg := Config{}
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("config: parsing environment: %w", err)
	}

	return &cfg, nil
}

// AdminSet returns the allow-list as a set for O(1) membership checks.
// Built once at startup; callers must treat the returned map as read-only.
func (c *Config) AdminSet() map[string]struct{} {
	set := make(map[string]struct{}, len(c.AdminEmails))
	for _, email := range c.AdminEmails {
		if email != "" {
			set[email] = struct{}{}
		}
	}
	return set
}
