// Administrasi Akademik - Academic Portal Content API
// SPDX-License-Identifier: AGPL-3.0-or-later

package auth

import (
	"context"

	"github.com/rahanss/Administrasi-Akademik/internal/models"
)

// Principal is the authenticated identity resolved from a verified token.
// It is fetched fresh from the user directory on every request and never
// cached, so deactivating a user takes effect immediately rather than at
// token expiry.
type Principal struct {
	ID       int64
	Username string
	Name     string
	Email    string
	Role     Role
	Active   bool
}

// principalFromUser maps a directory record to a Principal.
func principalFromUser(u *models.CMSUser) *Principal {
	return &Principal{
		ID:       u.ID,
		Username: u.Username,
		Name:     u.Name,
		Email:    u.Email,
		Role:     Role(u.Role),
		Active:   u.Active,
	}
}

type contextKey string

// principalContextKey stores the resolved Principal in the request context.
const principalContextKey contextKey = "principal"

// ContextWithPrincipal returns a context carrying the given principal.
func ContextWithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, principalContextKey, p)
}

// PrincipalFromContext retrieves the principal from the request context.
// Returns nil for unauthenticated requests.
func PrincipalFromContext(ctx context.Context) *Principal {
	if p, ok := ctx.Value(principalContextKey).(*Principal); ok {
		return p
	}
	return nil
}
