// Administrasi Akademik - Academic Portal Content API
// SPDX-License-Identifier: AGPL-3.0-or-later

package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/rahanss/Administrasi-Akademik/internal/logging"
	"github.com/rahanss/Administrasi-Akademik/internal/models"
)

// TokenCookieName is the cookie checked when no Authorization header is
// present.
const TokenCookieName = "token"

// Sentinel errors for credential resolution. ErrUnauthorized deliberately
// carries no detail about which check failed; the specific cause is logged
// server-side only.
var (
	ErrUnauthorized         = errors.New("unauthorized")
	ErrDirectoryUnavailable = errors.New("user directory unavailable")
)

// UserDirectory looks up administrative users by id.
//
// FindActiveByID returns (nil, nil) when no active user matches the id, and
// a non-nil error only for infrastructure failures (store down, timeout).
// The distinction matters: a missing user is an authentication failure, a
// store outage is an operational incident and must not be reported as
// either authentication success or a bad credential.
type UserDirectory interface {
	FindActiveByID(ctx context.Context, id int64) (*models.CMSUser, error)
}

// Authenticator resolves bearer credentials to principals.
type Authenticator struct {
	codec     *JWTManager
	directory UserDirectory
}

// NewAuthenticator creates an Authenticator from a token codec and a user
// directory.
func NewAuthenticator(codec *JWTManager, directory UserDirectory) *Authenticator {
	return &Authenticator{codec: codec, directory: directory}
}

// Resolve extracts the bearer credential from the request, verifies it and
// returns the principal it identifies.
//
// Fails with ErrUnauthorized when the credential is absent, malformed,
// expired, carries a bad signature, or identifies a user that no longer
// exists or has been deactivated. The directory is consulted on every call
// with no caching, which is what makes deactivation take effect immediately
// even though the token itself stays cryptographically valid until expiry.
//
// Fails with ErrDirectoryUnavailable (wrapped) when the directory lookup
// itself fails; callers must surface this as a server error, never as an
// authentication outcome.
func (a *Authenticator) Resolve(r *http.Request) (*Principal, error) {
	token, ok := extractToken(r)
	if !ok {
		return nil, ErrUnauthorized
	}

	claims, err := a.codec.ValidateToken(token)
	if err != nil {
		logging.Ctx(r.Context()).Debug().Err(err).Msg("token verification failed")
		return nil, ErrUnauthorized
	}

	userID, err := claims.UserID()
	if err != nil {
		logging.Ctx(r.Context()).Debug().Err(err).Msg("token subject is not a user id")
		return nil, ErrUnauthorized
	}

	user, err := a.directory.FindActiveByID(r.Context(), userID)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDirectoryUnavailable, err)
	}
	if user == nil {
		// Unknown or deactivated user. Same generic failure as a bad token.
		return nil, ErrUnauthorized
	}

	return principalFromUser(user), nil
}

// TryResolve is the best-effort variant used by public routes that enrich
// their response for authenticated admins. It returns nil instead of an
// error when no valid credential is present, and also nil on directory
// outage: enrichment is optional and must never fail a public request.
func (a *Authenticator) TryResolve(r *http.Request) *Principal {
	p, err := a.Resolve(r)
	if err != nil {
		if errors.Is(err, ErrDirectoryUnavailable) {
			logging.Ctx(r.Context()).Warn().Err(err).Msg("skipping response enrichment")
		}
		return nil
	}
	return p
}

// extractToken pulls the bearer credential from the Authorization header,
// falling back to the token cookie.
func extractToken(r *http.Request) (string, bool) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		cookie, err := r.Cookie(TokenCookieName)
		if err != nil || cookie.Value == "" {
			return "", false
		}
		return cookie.Value, true
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", false
	}
	return parts[1], true
}
