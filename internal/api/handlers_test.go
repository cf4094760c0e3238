// Administrasi Akademik - Academic Portal Content API
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/goccy/go-json"

	"github.com/rahanss/Administrasi-Akademik/internal/auth"
	"github.com/rahanss/Administrasi-Akademik/internal/models"
)

func postJSON(t *testing.T, handler http.Handler, path, body, token string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestLogin(t *testing.T) {
	store := newFakeStore()
	store.addUser(1, "admin", "admin", "correct-horse", true)
	store.addUser(2, "ghost", "admin", "correct-horse", false)

	tests := []struct {
		name       string
		body       string
		wantStatus int
	}{
		{"valid credentials", `{"username":"admin","password":"correct-horse"}`, http.StatusOK},
		{"wrong password", `{"username":"admin","password":"wrong"}`, http.StatusUnauthorized},
		{"unknown user", `{"username":"nobody","password":"correct-horse"}`, http.StatusUnauthorized},
		{"deactivated user", `{"username":"ghost","password":"correct-horse"}`, http.StatusUnauthorized},
		{"missing password", `{"username":"admin"}`, http.StatusBadRequest},
		{"not json", `username=admin`, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Fresh router per case so the strict login quota never
			// interferes.
			router, _ := newTestRouter(t, store)

			rec := postJSON(t, router, "/api/cms/auth/login", tt.body, "")
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d, body %s", rec.Code, tt.wantStatus, rec.Body.String())
			}
			if tt.wantStatus != http.StatusOK {
				return
			}

			var resp struct {
				Data loginResponse `json:"data"`
			}
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatal(err)
			}
			if resp.Data.Token == "" {
				t.Error("token missing from login response")
			}
			if resp.Data.User.Username != "admin" || resp.Data.User.Role != "admin" {
				t.Errorf("user = %+v", resp.Data.User)
			}

			var cookie *http.Cookie
			for _, c := range rec.Result().Cookies() {
				if c.Name == auth.TokenCookieName {
					cookie = c
				}
			}
			if cookie == nil || cookie.Value != resp.Data.Token {
				t.Error("token cookie not set to issued token")
			}
			if cookie != nil && !cookie.HttpOnly {
				t.Error("token cookie must be HttpOnly")
			}
		})
	}
}

// Wrong password and unknown username must be indistinguishable to the
// caller.
func TestLoginFailureIsGeneric(t *testing.T) {
	store := newFakeStore()
	store.addUser(1, "admin", "admin", "correct-horse", true)

	var bodies []string
	for _, body := range []string{
		`{"username":"admin","password":"wrong-password"}`,
		`{"username":"nobody","password":"wrong-password"}`,
	} {
		router, _ := newTestRouter(t, store)
		rec := postJSON(t, router, "/api/cms/auth/login", body, "")
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d, want 401", rec.Code)
		}
		bodies = append(bodies, rec.Body.String())
	}

	var a, b models.APIResponse
	if err := json.Unmarshal([]byte(bodies[0]), &a); err != nil {
		t.Fatal(err)
	}
	if err := json.Unmarshal([]byte(bodies[1]), &b); err != nil {
		t.Fatal(err)
	}
	if a.Error == nil || b.Error == nil || a.Error.Message != b.Error.Message {
		t.Errorf("failure messages differ: %q vs %q", bodies[0], bodies[1])
	}
}

func TestMeReturnsPrincipal(t *testing.T) {
	store := newFakeStore()
	store.addUser(7, "admin", "super_admin", "correct-horse", true)
	router, tokens := newTestRouter(t, store)

	token, err := tokens.GenerateToken(7, "admin")
	if err != nil {
		t.Fatal(err)
	}

	rec := doRequest(t, router, http.MethodGet, "/api/cms/auth/me", token)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var resp struct {
		Data userResponse `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Data.ID != 7 || resp.Data.Role != "super_admin" {
		t.Errorf("data = %+v", resp.Data)
	}
}

// The lecturer directory is public, but only an admin credential unlocks the
// private columns. Anonymous and invalid-token requests still succeed.
func TestLecturerEnrichment(t *testing.T) {
	store := newFakeStore()
	store.addUser(1, "admin", "admin", "correct-horse", true)

	t.Run("anonymous", func(t *testing.T) {
		router, _ := newTestRouter(t, store)
		rec := doRequest(t, router, http.MethodGet, "/api/lecturers", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		if store.lastIncludePrivate {
			t.Error("anonymous request must not include private columns")
		}
	})

	t.Run("invalid token still succeeds", func(t *testing.T) {
		router, _ := newTestRouter(t, store)
		rec := doRequest(t, router, http.MethodGet, "/api/lecturers", "garbage-token")
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		if store.lastIncludePrivate {
			t.Error("invalid token must not include private columns")
		}
	})

	t.Run("admin token enriches", func(t *testing.T) {
		router, tokens := newTestRouter(t, store)
		token, err := tokens.GenerateToken(1, "admin")
		if err != nil {
			t.Fatal(err)
		}
		rec := doRequest(t, router, http.MethodGet, "/api/lecturers", token)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		if !store.lastIncludePrivate {
			t.Error("admin request should include private columns")
		}
	})

	t.Run("directory outage degrades to public", func(t *testing.T) {
		router, tokens := newTestRouter(t, store)
		token, err := tokens.GenerateToken(1, "admin")
		if err != nil {
			t.Fatal(err)
		}
		store.findErr = context.DeadlineExceeded
		defer func() { store.findErr = nil }()

		rec := doRequest(t, router, http.MethodGet, "/api/lecturers", token)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		if store.lastIncludePrivate {
			t.Error("outage must degrade to the public view, not fail the request")
		}
	})
}

func TestCMSNewsLifecycle(t *testing.T) {
	store := newFakeStore()
	store.addUser(1, "admin", "admin", "correct-horse", true)
	router, tokens := newTestRouter(t, store)

	token, err := tokens.GenerateToken(1, "admin")
	if err != nil {
		t.Fatal(err)
	}

	rec := postJSON(t, router, "/api/cms/news",
		`{"title":"Pendaftaran Dibuka","slug":"pendaftaran-dibuka","body":"Pendaftaran mahasiswa baru telah dibuka.","published":true}`,
		token)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create: status = %d, body %s", rec.Code, rec.Body.String())
	}

	var created struct {
		Data models.News `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatal(err)
	}
	if created.Data.ID == 0 || created.Data.PublishedAt == nil {
		t.Errorf("created = %+v, want id and published_at set", created.Data)
	}

	// Published article is publicly readable.
	rec = doRequest(t, router, http.MethodGet, "/api/news/pendaftaran-dibuka", "")
	if rec.Code != http.StatusOK {
		t.Errorf("public get: status = %d, want 200", rec.Code)
	}

	// Validation failure on create.
	rec = postJSON(t, router, "/api/cms/news", `{"slug":"x","body":"y"}`, token)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("invalid create: status = %d, want 400", rec.Code)
	}

	// Delete then public read returns 404.
	req := httptest.NewRequest(http.MethodDelete, "/api/cms/news/1", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	del := httptest.NewRecorder()
	router.ServeHTTP(del, req)
	if del.Code != http.StatusOK {
		t.Fatalf("delete: status = %d, body %s", del.Code, del.Body.String())
	}

	rec = doRequest(t, router, http.MethodGet, "/api/news/pendaftaran-dibuka", "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("get after delete: status = %d, want 404", rec.Code)
	}
}

func TestHealthEndpointsBypassRateLimit(t *testing.T) {
	router, _ := newTestRouter(t, newFakeStore())

	// Far more requests than any quota allows.
	var rec *httptest.ResponseRecorder
	for i := 0; i < 20; i++ {
		rec = doRequest(t, router, http.MethodGet, "/health", "")
	}
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
	if rec.Header().Get("X-RateLimit-Limit") != "" {
		t.Error("health endpoint should not carry quota headers")
	}
}
