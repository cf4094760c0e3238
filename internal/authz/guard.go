// Administrasi Akademik - Academic Portal Content API
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package authz decides whether an authenticated principal may reach a
// route, based on the role hierarchy admin < super_admin.
//
// The distinction between its two errors matters for status codes:
// ErrNotAuthenticated maps to 401 (the caller is unknown), ErrForbidden to
// 403 (the caller is known but lacks privilege).
package authz

import (
	"errors"

	"github.com/rahanss/Administrasi-Akademik/internal/auth"
)

var (
	// ErrNotAuthenticated is returned when no principal is present.
	ErrNotAuthenticated = errors.New("authentication required")

	// ErrForbidden is returned when the principal's role ranks below the
	// route's requirement.
	ErrForbidden = errors.New("insufficient role")
)

// Check admits the principal when its role ranks at or above required.
// A nil principal always fails with ErrNotAuthenticated.
func Check(p *auth.Principal, required auth.Role) error {
	if p == nil {
		return ErrNotAuthenticated
	}
	if !p.Role.AtLeast(required) {
		return ErrForbidden
	}
	return nil
}

// RequireAuthenticated admits any principal regardless of role. Routes with
// no role floor use this instead of Check.
func RequireAuthenticated(p *auth.Principal) error {
	if p == nil {
		return ErrNotAuthenticated
	}
	return nil
}
