// Administrasi Akademik - Academic Portal Content API
// SPDX-License-Identifier: AGPL-3.0-or-later

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/rahanss/Administrasi-Akademik/internal/metrics"
	"github.com/rahanss/Administrasi-Akademik/internal/models"
)

// FindActiveByID looks up an active CMS user by id. Implements
// auth.UserDirectory: returns (nil, nil) when no active user matches, and a
// non-nil error only when the store itself fails. A missing row must not
// trip the breaker, so it is handled inside the protected call.
func (d *Database) FindActiveByID(ctx context.Context, id int64) (*models.CMSUser, error) {
	user, err := d.userBreaker.Execute(func() (*models.CMSUser, error) {
		row := d.db.QueryRowContext(ctx,
			`SELECT id, username, name, email, role, active, created_at
			 FROM cms_users WHERE id = ? AND active = 1`, id)

		var u models.CMSUser
		err := row.Scan(&u.ID, &u.Username, &u.Name, &u.Email, &u.Role, &u.Active, &u.CreatedAt)
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		if err != nil {
			return nil, err
		}
		return &u, nil
	})
	if err != nil {
		metrics.DBQueryErrors.WithLabelValues("find_user_by_id").Inc()
		return nil, fmt.Errorf("user lookup failed: %w", err)
	}
	return user, nil
}

// FindActiveByUsername looks up an active CMS user by username for login,
// including the password hash. Returns ErrNotFound when no active user
// matches; login treats that the same as a wrong password.
func (d *Database) FindActiveByUsername(ctx context.Context, username string) (*models.CMSUser, error) {
	row := d.db.QueryRowContext(ctx,
		`SELECT id, username, name, email, role, active, password_hash, created_at
		 FROM cms_users WHERE username = ? AND active = 1`, username)

	var u models.CMSUser
	err := row.Scan(&u.ID, &u.Username, &u.Name, &u.Email, &u.Role, &u.Active, &u.PasswordHash, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		metrics.DBQueryErrors.WithLabelValues("find_user_by_username").Inc()
		return nil, fmt.Errorf("user lookup failed: %w", err)
	}
	return &u, nil
}
