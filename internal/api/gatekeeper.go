// Administrasi Akademik - Academic Portal Content API
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"errors"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/rahanss/Administrasi-Akademik/internal/auth"
	"github.com/rahanss/Administrasi-Akademik/internal/authz"
	"github.com/rahanss/Administrasi-Akademik/internal/logging"
	"github.com/rahanss/Administrasi-Akademik/internal/metrics"
	"github.com/rahanss/Administrasi-Akademik/internal/ratelimit"
)

// Gatekeeper owns the request admission pipeline. Checks run in a fixed
// order: rate limiting first, then authentication, then role checks. A
// client over its quota gets 429 even when it also lacks credentials, and
// never learns anything about authentication state.
type Gatekeeper struct {
	loginLimiter  *ratelimit.Limiter
	apiLimiter    *ratelimit.Limiter
	authenticator *auth.Authenticator
	disabled      bool
}

// NewGatekeeper builds the pipeline. The two limiters track clients
// independently; exhausting the login quota leaves the general quota
// untouched.
func NewGatekeeper(login, api *ratelimit.Limiter, authenticator *auth.Authenticator, disabled bool) *Gatekeeper {
	return &Gatekeeper{
		loginLimiter:  login,
		apiLimiter:    api,
		authenticator: authenticator,
		disabled:      disabled,
	}
}

// rateLimitedResponse is the wire shape of a 429 rejection.
type rateLimitedResponse struct {
	Error      string `json:"error"`
	RetryAfter int    `json:"retryAfter"`
}

// RateLimitLogin applies the strict login policy.
func (g *Gatekeeper) RateLimitLogin(next http.Handler) http.Handler {
	return g.rateLimit(g.loginLimiter, "login", next)
}

// RateLimitAPI applies the general API policy.
func (g *Gatekeeper) RateLimitAPI(next http.Handler) http.Handler {
	return g.rateLimit(g.apiLimiter, "generalApi", next)
}

func (g *Gatekeeper) rateLimit(limiter *ratelimit.Limiter, policy string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if g.disabled {
			next.ServeHTTP(w, r)
			return
		}

		d := limiter.Admit(clientKey(r))

		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(d.Limit))
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(d.Remaining))
		w.Header().Set("X-RateLimit-Reset", d.ResetAt.UTC().Format(time.RFC3339))

		if !d.Allowed {
			metrics.RecordRateLimitRejection(policy)
			logging.Ctx(r.Context()).Warn().
				Str("policy", policy).
				Str("client", clientKey(r)).
				Int("retry_after", d.RetryAfter).
				Msg("rate limit exceeded")

			w.Header().Set("Retry-After", strconv.Itoa(d.RetryAfter))
			respondJSON(w, http.StatusTooManyRequests, rateLimitedResponse{
				Error:      limiter.Policy().Message,
				RetryAfter: d.RetryAfter,
			})
			return
		}

		next.ServeHTTP(w, r)
	})
}

// Authenticate resolves the bearer credential and stores the principal in
// the request context. The 401 message is deliberately generic: a missing
// token, a bad signature, an expired token and a deactivated user all read
// the same to the caller. A directory outage is the one distinct case; it
// fails closed as 503, never as an authentication verdict.
func (g *Gatekeeper) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		principal, err := g.authenticator.Resolve(r)
		if err != nil {
			if errors.Is(err, auth.ErrDirectoryUnavailable) {
				metrics.RecordDirectoryOutage()
				logging.Ctx(r.Context()).Error().Err(err).Msg("user directory unavailable")
				respondError(w, http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE",
					"Service temporarily unavailable")
				return
			}

			metrics.RecordAuthFailure("unauthorized")
			respondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
			return
		}

		ctx := auth.ContextWithPrincipal(r.Context(), principal)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// OptionalAuthenticate is the best-effort variant for public routes that
// enrich responses for admins. It never rejects: with no usable credential
// the request simply proceeds anonymously.
func (g *Gatekeeper) OptionalAuthenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if principal := g.authenticator.TryResolve(r); principal != nil {
			r = r.WithContext(auth.ContextWithPrincipal(r.Context(), principal))
		}
		next.ServeHTTP(w, r)
	})
}

// RequireRole gates a route on the role hierarchy. Must run after
// Authenticate.
func (g *Gatekeeper) RequireRole(required auth.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal := auth.PrincipalFromContext(r.Context())
			if err := authz.Check(principal, required); err != nil {
				if errors.Is(err, authz.ErrNotAuthenticated) {
					metrics.RecordAuthFailure("unauthorized")
					respondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
					return
				}

				metrics.RecordAuthFailure("forbidden")
				logging.Ctx(r.Context()).Warn().
					Str("username", principal.Username).
					Str("role", string(principal.Role)).
					Str("required", string(required)).
					Msg("insufficient role")
				respondError(w, http.StatusForbidden, "FORBIDDEN", "Insufficient privileges")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// clientKey identifies the client for rate limiting. With the RealIP
// middleware ahead of us RemoteAddr already holds the proxy-reported
// address, which may or may not carry a port.
func clientKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
