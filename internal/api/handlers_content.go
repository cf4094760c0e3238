// Administrasi Akademik - Academic Portal Content API
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/rahanss/Administrasi-Akademik/internal/auth"
	"github.com/rahanss/Administrasi-Akademik/internal/database"
	"github.com/rahanss/Administrasi-Akademik/internal/logging"
	"github.com/rahanss/Administrasi-Akademik/internal/models"
	"github.com/rahanss/Administrasi-Akademik/internal/validation"
)

// ListNews serves published articles to the public portal.
func (h *Handler) ListNews(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	news, err := h.store.ListPublishedNews(r.Context(), limit)
	if err != nil {
		h.storeError(w, r, err, "list news")
		return
	}
	respondSuccess(w, http.StatusOK, news)
}

// GetNews serves one published article by slug.
func (h *Handler) GetNews(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	article, err := h.store.GetPublishedNewsBySlug(r.Context(), slug)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			respondError(w, http.StatusNotFound, "NOT_FOUND", "Article not found")
			return
		}
		h.storeError(w, r, err, "get news")
		return
	}
	respondSuccess(w, http.StatusOK, article)
}

// ListLecturers serves the lecturer directory. The route is public, but a
// caller holding a valid admin token also gets the private staff number and
// phone columns; anonymous callers never see them and never get an error for
// not having a token.
func (h *Handler) ListLecturers(w http.ResponseWriter, r *http.Request) {
	programID, _ := strconv.ParseInt(r.URL.Query().Get("program_id"), 10, 64)

	principal := auth.PrincipalFromContext(r.Context())
	includePrivate := principal != nil && principal.Role.AtLeast(auth.RoleAdmin)

	lecturers, err := h.store.ListLecturers(r.Context(), programID, includePrivate)
	if err != nil {
		h.storeError(w, r, err, "list lecturers")
		return
	}
	respondSuccess(w, http.StatusOK, lecturers)
}

// ListCourses serves the course catalog.
func (h *Handler) ListCourses(w http.ResponseWriter, r *http.Request) {
	programID, _ := strconv.ParseInt(r.URL.Query().Get("program_id"), 10, 64)

	courses, err := h.store.ListCourses(r.Context(), programID)
	if err != nil {
		h.storeError(w, r, err, "list courses")
		return
	}
	respondSuccess(w, http.StatusOK, courses)
}

// ListSchedules serves class schedules, optionally filtered by day.
func (h *Handler) ListSchedules(w http.ResponseWriter, r *http.Request) {
	schedules, err := h.store.ListSchedules(r.Context(), r.URL.Query().Get("day"))
	if err != nil {
		h.storeError(w, r, err, "list schedules")
		return
	}
	respondSuccess(w, http.StatusOK, schedules)
}

// NewsRequest is the CMS create/update body for articles.
type NewsRequest struct {
	Title     string `json:"title" validate:"required,min=3,max=200"`
	Slug      string `json:"slug" validate:"required,min=3,max=200"`
	Body      string `json:"body" validate:"required"`
	Published bool   `json:"published"`
}

// CMSListNews serves all articles including drafts.
func (h *Handler) CMSListNews(w http.ResponseWriter, r *http.Request) {
	news, err := h.store.ListAllNews(r.Context())
	if err != nil {
		h.storeError(w, r, err, "list news")
		return
	}
	respondSuccess(w, http.StatusOK, news)
}

// CMSCreateNews creates an article.
func (h *Handler) CMSCreateNews(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeNewsRequest(w, r)
	if !ok {
		return
	}

	article := newsFromRequest(req)
	created, err := h.store.CreateNews(r.Context(), article)
	if err != nil {
		h.storeError(w, r, err, "create news")
		return
	}

	logging.Ctx(r.Context()).Info().Str("slug", created.Slug).Int64("id", created.ID).Msg("article created")
	respondSuccess(w, http.StatusCreated, created)
}

// CMSUpdateNews updates an article.
func (h *Handler) CMSUpdateNews(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	req, ok := h.decodeNewsRequest(w, r)
	if !ok {
		return
	}

	article := newsFromRequest(req)
	article.ID = id
	if err := h.store.UpdateNews(r.Context(), article); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			respondError(w, http.StatusNotFound, "NOT_FOUND", "Article not found")
			return
		}
		h.storeError(w, r, err, "update news")
		return
	}
	respondSuccess(w, http.StatusOK, article)
}

// CMSDeleteNews deletes an article.
func (h *Handler) CMSDeleteNews(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	if err := h.store.DeleteNews(r.Context(), id); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			respondError(w, http.StatusNotFound, "NOT_FOUND", "Article not found")
			return
		}
		h.storeError(w, r, err, "delete news")
		return
	}
	respondSuccess(w, http.StatusOK, map[string]string{"message": "Article deleted"})
}

// LecturerRequest is the master data body for lecturers.
type LecturerRequest struct {
	Name        string `json:"name" validate:"required,min=2,max=100"`
	TitlePrefix string `json:"title_prefix" validate:"max=50"`
	TitleSuffix string `json:"title_suffix" validate:"max=50"`
	Email       string `json:"email" validate:"required,email"`
	Position    string `json:"position" validate:"max=100"`
	ProgramID   int64  `json:"program_id" validate:"required"`
	StaffNumber string `json:"staff_number" validate:"required,max=30"`
	Phone       string `json:"phone" validate:"max=30"`
}

// CMSCreateLecturer creates a lecturer record. Super admin only.
func (h *Handler) CMSCreateLecturer(w http.ResponseWriter, r *http.Request) {
	var req LecturerRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_REQUEST", "Request body must be valid JSON")
		return
	}
	if verr := validation.ValidateStruct(&req); verr != nil {
		respondAPIError(w, http.StatusBadRequest, apiErrorFromValidation(verr))
		return
	}

	created, err := h.store.CreateLecturer(r.Context(), &models.Lecturer{
		Name:        req.Name,
		TitlePrefix: req.TitlePrefix,
		TitleSuffix: req.TitleSuffix,
		Email:       req.Email,
		Position:    req.Position,
		ProgramID:   req.ProgramID,
		StaffNumber: req.StaffNumber,
		Phone:       req.Phone,
	})
	if err != nil {
		h.storeError(w, r, err, "create lecturer")
		return
	}
	respondSuccess(w, http.StatusCreated, created)
}

// CMSDeleteLecturer deletes a lecturer record. Super admin only.
func (h *Handler) CMSDeleteLecturer(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	if err := h.store.DeleteLecturer(r.Context(), id); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			respondError(w, http.StatusNotFound, "NOT_FOUND", "Lecturer not found")
			return
		}
		h.storeError(w, r, err, "delete lecturer")
		return
	}
	respondSuccess(w, http.StatusOK, map[string]string{"message": "Lecturer deleted"})
}

// CourseRequest is the master data body for catalog courses.
type CourseRequest struct {
	Code      string `json:"code" validate:"required,min=2,max=20"`
	Name      string `json:"name" validate:"required,min=3,max=200"`
	Credits   int    `json:"credits" validate:"required,min=1,max=12"`
	Semester  int    `json:"semester" validate:"required,min=1,max=14"`
	ProgramID int64  `json:"program_id" validate:"required"`
}

// CMSCreateCourse creates a catalog course. Super admin only.
func (h *Handler) CMSCreateCourse(w http.ResponseWriter, r *http.Request) {
	var req CourseRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_REQUEST", "Request body must be valid JSON")
		return
	}
	if verr := validation.ValidateStruct(&req); verr != nil {
		respondAPIError(w, http.StatusBadRequest, apiErrorFromValidation(verr))
		return
	}

	created, err := h.store.CreateCourse(r.Context(), &models.Course{
		Code:      req.Code,
		Name:      req.Name,
		Credits:   req.Credits,
		Semester:  req.Semester,
		ProgramID: req.ProgramID,
	})
	if err != nil {
		h.storeError(w, r, err, "create course")
		return
	}
	respondSuccess(w, http.StatusCreated, created)
}

// decodeNewsRequest decodes and validates an article body, writing the error
// response itself on failure.
func (h *Handler) decodeNewsRequest(w http.ResponseWriter, r *http.Request) (*NewsRequest, bool) {
	var req NewsRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_REQUEST", "Request body must be valid JSON")
		return nil, false
	}
	if verr := validation.ValidateStruct(&req); verr != nil {
		respondAPIError(w, http.StatusBadRequest, apiErrorFromValidation(verr))
		return nil, false
	}
	return &req, true
}

// newsFromRequest maps an article body to the model, stamping PublishedAt
// when the article goes out published.
func newsFromRequest(req *NewsRequest) *models.News {
	article := &models.News{
		Title:     req.Title,
		Slug:      req.Slug,
		Body:      req.Body,
		Published: req.Published,
	}
	if req.Published {
		now := time.Now().UTC()
		article.PublishedAt = &now
	}
	return article
}

// pathID parses the {id} path parameter, writing the error response itself
// on failure.
func (h *Handler) pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id < 1 {
		respondError(w, http.StatusBadRequest, "INVALID_REQUEST", "Invalid id")
		return 0, false
	}
	return id, true
}

// storeError logs a persistence failure and responds with a generic 500.
func (h *Handler) storeError(w http.ResponseWriter, r *http.Request, err error, operation string) {
	logging.Ctx(r.Context()).Error().Err(err).Str("operation", operation).Msg("store operation failed")
	respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error")
}

// apiErrorFromValidation converts the validation package's error shape to
// the response model.
func apiErrorFromValidation(verr *validation.RequestValidationError) *models.APIError {
	e := verr.ToAPIError()
	return &models.APIError{Code: e.Code, Message: e.Message, Details: e.Details}
}
