// Administrasi Akademik - Academic Portal Content API
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package database is the MySQL persistence layer. All statements are
// parameterized; no query text is ever built from user input.
package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/sony/gobreaker/v2"

	"github.com/rahanss/Administrasi-Akademik/internal/config"
	"github.com/rahanss/Administrasi-Akademik/internal/logging"
	"github.com/rahanss/Administrasi-Akademik/internal/models"
)

// ErrNotFound is returned when a targeted row does not exist.
var ErrNotFound = errors.New("record not found")

// Database wraps the SQL connection pool and the circuit breaker guarding
// user directory lookups.
type Database struct {
	db *sql.DB

	// userBreaker fails user lookups fast while the store is down, instead
	// of stacking up timeouts on every authenticated request.
	userBreaker *gobreaker.CircuitBreaker[*models.CMSUser]
}

// New opens the connection pool and verifies connectivity.
func New(cfg *config.DatabaseConfig) (*Database, error) {
	db, err := sql.Open("mysql", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	breaker := gobreaker.NewCircuitBreaker[*models.CMSUser](gobreaker.Settings{
		Name:    "user-directory",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Warn().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("circuit breaker state change")
		},
	})

	logging.Info().
		Str("host", cfg.Host).
		Str("database", cfg.Name).
		Msg("database connected")

	return &Database{db: db, userBreaker: breaker}, nil
}

// Ping checks connectivity, for health endpoints.
func (d *Database) Ping(ctx context.Context) error {
	return d.db.PingContext(ctx)
}

// Close closes the connection pool.
func (d *Database) Close() error {
	return d.db.Close()
}
