// Administrasi Akademik - Academic Portal Content API
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/rahanss/Administrasi-Akademik/internal/auth"
	"github.com/rahanss/Administrasi-Akademik/internal/config"
)

// Handler holds the dependencies shared by all HTTP handlers.
type Handler struct {
	store  Store
	tokens *auth.JWTManager
	cfg    *config.Config
}

// NewHandler creates the handler set.
func NewHandler(store Store, tokens *auth.JWTManager, cfg *config.Config) *Handler {
	return &Handler{store: store, tokens: tokens, cfg: cfg}
}

// Health reports overall service health including database connectivity.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := h.store.Ping(ctx); err != nil {
		respondJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status":   "unhealthy",
			"database": "down",
		})
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"status":   "healthy",
		"database": "up",
	})
}

// HealthLive is the liveness probe. It answers as long as the process can
// serve requests, regardless of dependency state.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "alive"})
}

// CMSHealth is the authenticated health check used by the CMS frontend to
// verify the session is still valid.
func (h *Handler) CMSHealth(w http.ResponseWriter, r *http.Request) {
	respondSuccess(w, http.StatusOK, map[string]string{"status": "ok"})
}
