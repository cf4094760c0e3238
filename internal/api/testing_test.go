// Administrasi Akademik - Academic Portal Content API
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"context"
	"net/http"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/rahanss/Administrasi-Akademik/internal/auth"
	"github.com/rahanss/Administrasi-Akademik/internal/config"
	"github.com/rahanss/Administrasi-Akademik/internal/database"
	"github.com/rahanss/Administrasi-Akademik/internal/models"
)

// fakeStore is an in-memory Store for handler and gatekeeper tests.
type fakeStore struct {
	users   map[int64]*models.CMSUser
	byName  map[string]*models.CMSUser
	news    []models.News
	findErr error

	// lastIncludePrivate records the flag of the most recent lecturer
	// listing, to assert enrichment decisions.
	lastIncludePrivate bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:  make(map[int64]*models.CMSUser),
		byName: make(map[string]*models.CMSUser),
	}
}

func (s *fakeStore) addUser(id int64, username, role, password string, active bool) *models.CMSUser {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		panic(err)
	}
	u := &models.CMSUser{
		ID:           id,
		Username:     username,
		Name:         "Test " + username,
		Email:        username + "@example.ac.id",
		Role:         role,
		Active:       active,
		PasswordHash: string(hash),
		CreatedAt:    time.Now(),
	}
	s.users[id] = u
	s.byName[username] = u
	return u
}

func (s *fakeStore) FindActiveByID(_ context.Context, id int64) (*models.CMSUser, error) {
	if s.findErr != nil {
		return nil, s.findErr
	}
	u, ok := s.users[id]
	if !ok || !u.Active {
		return nil, nil
	}
	return u, nil
}

func (s *fakeStore) FindActiveByUsername(_ context.Context, username string) (*models.CMSUser, error) {
	if s.findErr != nil {
		return nil, s.findErr
	}
	u, ok := s.byName[username]
	if !ok || !u.Active {
		return nil, database.ErrNotFound
	}
	return u, nil
}

func (s *fakeStore) ListPublishedNews(_ context.Context, _ int) ([]models.News, error) {
	return s.news, nil
}

func (s *fakeStore) GetPublishedNewsBySlug(_ context.Context, slug string) (*models.News, error) {
	for i := range s.news {
		if s.news[i].Slug == slug && s.news[i].Published {
			return &s.news[i], nil
		}
	}
	return nil, database.ErrNotFound
}

func (s *fakeStore) ListAllNews(_ context.Context) ([]models.News, error) {
	return s.news, nil
}

func (s *fakeStore) CreateNews(_ context.Context, n *models.News) (*models.News, error) {
	n.ID = int64(len(s.news) + 1)
	s.news = append(s.news, *n)
	return n, nil
}

func (s *fakeStore) UpdateNews(_ context.Context, n *models.News) error {
	for i := range s.news {
		if s.news[i].ID == n.ID {
			s.news[i] = *n
			return nil
		}
	}
	return database.ErrNotFound
}

func (s *fakeStore) DeleteNews(_ context.Context, id int64) error {
	for i := range s.news {
		if s.news[i].ID == id {
			s.news = append(s.news[:i], s.news[i+1:]...)
			return nil
		}
	}
	return database.ErrNotFound
}

func (s *fakeStore) ListLecturers(_ context.Context, _ int64, includePrivate bool) ([]models.Lecturer, error) {
	s.lastIncludePrivate = includePrivate
	l := models.Lecturer{ID: 1, Name: "Dr. Example", Email: "example@example.ac.id"}
	if includePrivate {
		l.StaffNumber = "198001012005011001"
		l.Phone = "081234567890"
	}
	return []models.Lecturer{l}, nil
}

func (s *fakeStore) CreateLecturer(_ context.Context, l *models.Lecturer) (*models.Lecturer, error) {
	l.ID = 1
	return l, nil
}

func (s *fakeStore) DeleteLecturer(_ context.Context, _ int64) error { return nil }

func (s *fakeStore) ListCourses(_ context.Context, _ int64) ([]models.Course, error) {
	return []models.Course{{ID: 1, Code: "IF101", Name: "Introduction to Informatics", Credits: 3, Semester: 1, ProgramID: 1}}, nil
}

func (s *fakeStore) CreateCourse(_ context.Context, c *models.Course) (*models.Course, error) {
	c.ID = 1
	return c, nil
}

func (s *fakeStore) ListSchedules(_ context.Context, _ string) ([]models.ClassSchedule, error) {
	return nil, nil
}

func (s *fakeStore) Ping(_ context.Context) error { return nil }

// testConfig returns a config with small quotas so tests can exhaust them.
func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{Host: "127.0.0.1", Port: 5000},
		Security: config.SecurityConfig{
			JWTSecret: "test-secret-test-secret-test-secret!",
			TokenTTL:  time.Hour,
		},
		RateLimit: config.RateLimitConfig{
			Login: config.RatePolicy{
				Window:      time.Minute,
				MaxRequests: 2,
				Message:     "Too many login attempts, please try again later.",
			},
			API: config.RatePolicy{
				Window:      time.Minute,
				MaxRequests: 5,
				Message:     "Too many requests, please try again later.",
			},
		},
		CORS: config.CORSConfig{AllowedOrigins: []string{"*"}},
	}
}

// newTestRouter builds a full route tree over the fake store. Each call gets
// fresh rate limiter registries.
func newTestRouter(t *testing.T, store *fakeStore) (http.Handler, *auth.JWTManager) {
	t.Helper()

	cfg := testConfig()
	tokens, err := auth.NewJWTManager(&cfg.Security)
	if err != nil {
		t.Fatalf("NewJWTManager() error = %v", err)
	}
	return NewRouter(cfg, store, tokens).Routes(), tokens
}
