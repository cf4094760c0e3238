// Administrasi Akademik - Academic Portal Content API
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config loads and validates application configuration.
//
// Configuration is layered with koanf: struct defaults, then an optional YAML
// file, then environment variables (PORTAL_ prefix). Later layers override
// earlier ones.
package config

import (
	"fmt"
	"time"
)

// Config is the root configuration for the portal API server.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Database  DatabaseConfig  `koanf:"database"`
	Security  SecurityConfig  `koanf:"security"`
	RateLimit RateLimitConfig `koanf:"ratelimit"`
	CORS      CORSConfig      `koanf:"cors"`
	Logging   LoggingConfig   `koanf:"logging"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// DatabaseConfig holds MySQL connection settings.
type DatabaseConfig struct {
	Host     string `koanf:"host"`
	Port     int    `koanf:"port"`
	User     string `koanf:"user"`
	Password string `koanf:"password"`
	Name     string `koanf:"name"`

	MaxOpenConns    int           `koanf:"max_open_conns"`
	MaxIdleConns    int           `koanf:"max_idle_conns"`
	ConnMaxLifetime time.Duration `koanf:"conn_max_lifetime"`
}

// DSN returns the MySQL data source name for database/sql.
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true&charset=utf8mb4",
		c.User, c.Password, c.Host, c.Port, c.Name)
}

// SecurityConfig holds token signing settings.
type SecurityConfig struct {
	// JWTSecret signs bearer tokens. Minimum 32 characters.
	JWTSecret string `koanf:"jwt_secret"`

	// TokenTTL is how long an issued token stays valid.
	TokenTTL time.Duration `koanf:"token_ttl"`
}

// RatePolicy is one fixed-window rate limit policy.
type RatePolicy struct {
	// Window is the fixed counting window length.
	Window time.Duration `koanf:"window"`

	// MaxRequests is the number of requests admitted per window per client.
	MaxRequests int `koanf:"max_requests"`

	// Message is returned to rejected callers.
	Message string `koanf:"message"`
}

// RateLimitConfig holds the two named rate limit policies.
// Login is the strict policy for authentication endpoints; API is the
// general policy for everything else. Each policy tracks clients
// independently.
type RateLimitConfig struct {
	Disabled bool       `koanf:"disabled"`
	Login    RatePolicy `koanf:"login"`
	API      RatePolicy `koanf:"api"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins []string `koanf:"allowed_origins"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// Validate checks the configuration for values that would make the server
// unsafe or unable to start.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535, got %d", c.Server.Port)
	}

	if len(c.Security.JWTSecret) < 32 {
		return fmt.Errorf("security.jwt_secret must be at least 32 characters")
	}
	if c.Security.TokenTTL <= 0 {
		return fmt.Errorf("security.token_ttl must be positive")
	}

	for name, p := range map[string]RatePolicy{"login": c.RateLimit.Login, "api": c.RateLimit.API} {
		if p.Window <= 0 {
			return fmt.Errorf("ratelimit.%s.window must be positive", name)
		}
		if p.MaxRequests < 1 {
			return fmt.Errorf("ratelimit.%s.max_requests must be at least 1", name)
		}
	}

	if c.Database.Name == "" {
		return fmt.Errorf("database.name is required")
	}

	return nil
}
