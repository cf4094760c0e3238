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

// ListPublishedNews returns published articles, newest first.
func (d *Database) ListPublishedNews(ctx context.Context, limit int) ([]models.News, error) {
	if limit < 1 || limit > 100 {
		limit = 20
	}

	rows, err := d.db.QueryContext(ctx,
		`SELECT id, title, slug, body, published, published_at, created_at, updated_at
		 FROM news WHERE published = 1
		 ORDER BY published_at DESC LIMIT ?`, limit)
	if err != nil {
		metrics.DBQueryErrors.WithLabelValues("list_news").Inc()
		return nil, fmt.Errorf("failed to list news: %w", err)
	}
	defer rows.Close()

	return scanNewsRows(rows)
}

// GetPublishedNewsBySlug returns one published article, or ErrNotFound.
func (d *Database) GetPublishedNewsBySlug(ctx context.Context, slug string) (*models.News, error) {
	row := d.db.QueryRowContext(ctx,
		`SELECT id, title, slug, body, published, published_at, created_at, updated_at
		 FROM news WHERE slug = ? AND published = 1`, slug)

	n, err := scanNews(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		metrics.DBQueryErrors.WithLabelValues("get_news").Inc()
		return nil, fmt.Errorf("failed to get news: %w", err)
	}
	return n, nil
}

// ListAllNews returns every article including drafts, for the CMS surface.
func (d *Database) ListAllNews(ctx context.Context) ([]models.News, error) {
	rows, err := d.db.QueryContext(ctx,
		`SELECT id, title, slug, body, published, published_at, created_at, updated_at
		 FROM news ORDER BY created_at DESC`)
	if err != nil {
		metrics.DBQueryErrors.WithLabelValues("list_news_cms").Inc()
		return nil, fmt.Errorf("failed to list news: %w", err)
	}
	defer rows.Close()

	return scanNewsRows(rows)
}

// CreateNews inserts an article and returns it with its assigned id.
func (d *Database) CreateNews(ctx context.Context, n *models.News) (*models.News, error) {
	res, err := d.db.ExecContext(ctx,
		`INSERT INTO news (title, slug, body, published, published_at, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, NOW(), NOW())`,
		n.Title, n.Slug, n.Body, n.Published, n.PublishedAt)
	if err != nil {
		metrics.DBQueryErrors.WithLabelValues("create_news").Inc()
		return nil, fmt.Errorf("failed to create news: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to read insert id: %w", err)
	}
	n.ID = id
	return n, nil
}

// UpdateNews updates an article in place. Returns ErrNotFound when the id
// does not exist.
func (d *Database) UpdateNews(ctx context.Context, n *models.News) error {
	res, err := d.db.ExecContext(ctx,
		`UPDATE news SET title = ?, slug = ?, body = ?, published = ?, published_at = ?, updated_at = NOW()
		 WHERE id = ?`,
		n.Title, n.Slug, n.Body, n.Published, n.PublishedAt, n.ID)
	if err != nil {
		metrics.DBQueryErrors.WithLabelValues("update_news").Inc()
		return fmt.Errorf("failed to update news: %w", err)
	}
	return requireRowAffected(res)
}

// DeleteNews removes an article. Returns ErrNotFound when the id does not
// exist.
func (d *Database) DeleteNews(ctx context.Context, id int64) error {
	res, err := d.db.ExecContext(ctx, `DELETE FROM news WHERE id = ?`, id)
	if err != nil {
		metrics.DBQueryErrors.WithLabelValues("delete_news").Inc()
		return fmt.Errorf("failed to delete news: %w", err)
	}
	return requireRowAffected(res)
}

// lecturerPublicColumns omits staff_number and phone; those are only
// returned to authenticated administrators.
const (
	lecturerPublicColumns = `l.id, l.name, l.title_prefix, l.title_suffix, l.email, l.position,
		l.program_id, p.name AS program_name, '' AS staff_number, '' AS phone`
	lecturerAdminColumns = `l.id, l.name, l.title_prefix, l.title_suffix, l.email, l.position,
		l.program_id, p.name AS program_name, l.staff_number, l.phone`
)

// ListLecturers returns active lecturers, optionally filtered by program.
// When includePrivate is true the staff number and phone columns are
// included; callers gate that on an authenticated admin principal.
func (d *Database) ListLecturers(ctx context.Context, programID int64, includePrivate bool) ([]models.Lecturer, error) {
	columns := lecturerPublicColumns
	if includePrivate {
		columns = lecturerAdminColumns
	}

	query := `SELECT ` + columns + `
		 FROM lecturers l LEFT JOIN programs p ON l.program_id = p.id
		 WHERE l.active = 1`
	args := []interface{}{}
	if programID > 0 {
		query += ` AND l.program_id = ?`
		args = append(args, programID)
	}
	query += ` ORDER BY l.name`

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		metrics.DBQueryErrors.WithLabelValues("list_lecturers").Inc()
		return nil, fmt.Errorf("failed to list lecturers: %w", err)
	}
	defer rows.Close()

	var lecturers []models.Lecturer
	for rows.Next() {
		var l models.Lecturer
		var programName sql.NullString
		if err := rows.Scan(&l.ID, &l.Name, &l.TitlePrefix, &l.TitleSuffix, &l.Email, &l.Position,
			&l.ProgramID, &programName, &l.StaffNumber, &l.Phone); err != nil {
			return nil, fmt.Errorf("failed to scan lecturer: %w", err)
		}
		l.ProgramName = programName.String
		lecturers = append(lecturers, l)
	}
	return lecturers, rows.Err()
}

// CreateLecturer inserts a lecturer record.
func (d *Database) CreateLecturer(ctx context.Context, l *models.Lecturer) (*models.Lecturer, error) {
	res, err := d.db.ExecContext(ctx,
		`INSERT INTO lecturers (name, title_prefix, title_suffix, email, position, program_id, staff_number, phone, active)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, 1)`,
		l.Name, l.TitlePrefix, l.TitleSuffix, l.Email, l.Position, l.ProgramID, l.StaffNumber, l.Phone)
	if err != nil {
		metrics.DBQueryErrors.WithLabelValues("create_lecturer").Inc()
		return nil, fmt.Errorf("failed to create lecturer: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to read insert id: %w", err)
	}
	l.ID = id
	return l, nil
}

// DeleteLecturer removes a lecturer record.
func (d *Database) DeleteLecturer(ctx context.Context, id int64) error {
	res, err := d.db.ExecContext(ctx, `DELETE FROM lecturers WHERE id = ?`, id)
	if err != nil {
		metrics.DBQueryErrors.WithLabelValues("delete_lecturer").Inc()
		return fmt.Errorf("failed to delete lecturer: %w", err)
	}
	return requireRowAffected(res)
}

// ListCourses returns catalog courses, optionally filtered by program.
func (d *Database) ListCourses(ctx context.Context, programID int64) ([]models.Course, error) {
	query := `SELECT id, code, name, credits, semester, program_id FROM courses`
	args := []interface{}{}
	if programID > 0 {
		query += ` WHERE program_id = ?`
		args = append(args, programID)
	}
	query += ` ORDER BY semester, code`

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		metrics.DBQueryErrors.WithLabelValues("list_courses").Inc()
		return nil, fmt.Errorf("failed to list courses: %w", err)
	}
	defer rows.Close()

	var courses []models.Course
	for rows.Next() {
		var c models.Course
		if err := rows.Scan(&c.ID, &c.Code, &c.Name, &c.Credits, &c.Semester, &c.ProgramID); err != nil {
			return nil, fmt.Errorf("failed to scan course: %w", err)
		}
		courses = append(courses, c)
	}
	return courses, rows.Err()
}

// CreateCourse inserts a catalog course.
func (d *Database) CreateCourse(ctx context.Context, c *models.Course) (*models.Course, error) {
	res, err := d.db.ExecContext(ctx,
		`INSERT INTO courses (code, name, credits, semester, program_id) VALUES (?, ?, ?, ?, ?)`,
		c.Code, c.Name, c.Credits, c.Semester, c.ProgramID)
	if err != nil {
		metrics.DBQueryErrors.WithLabelValues("create_course").Inc()
		return nil, fmt.Errorf("failed to create course: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to read insert id: %w", err)
	}
	c.ID = id
	return c, nil
}

// ListSchedules returns class schedules, optionally filtered by day.
func (d *Database) ListSchedules(ctx context.Context, day string) ([]models.ClassSchedule, error) {
	query := `SELECT s.id, s.course_id, c.name AS course_name, s.lecturer_id, s.day, s.start_time, s.end_time, s.room, s.class_name
		 FROM class_schedules s LEFT JOIN courses c ON s.course_id = c.id`
	args := []interface{}{}
	if day != "" {
		query += ` WHERE s.day = ?`
		args = append(args, day)
	}
	query += ` ORDER BY s.day, s.start_time`

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		metrics.DBQueryErrors.WithLabelValues("list_schedules").Inc()
		return nil, fmt.Errorf("failed to list schedules: %w", err)
	}
	defer rows.Close()

	var schedules []models.ClassSchedule
	for rows.Next() {
		var s models.ClassSchedule
		var courseName sql.NullString
		if err := rows.Scan(&s.ID, &s.CourseID, &courseName, &s.LecturerID, &s.Day,
			&s.StartTime, &s.EndTime, &s.Room, &s.ClassName); err != nil {
			return nil, fmt.Errorf("failed to scan schedule: %w", err)
		}
		s.CourseName = courseName.String
		schedules = append(schedules, s)
	}
	return schedules, rows.Err()
}

// scanNews scans one news row from a QueryRow result.
func scanNews(row *sql.Row) (*models.News, error) {
	var n models.News
	err := row.Scan(&n.ID, &n.Title, &n.Slug, &n.Body, &n.Published, &n.PublishedAt, &n.CreatedAt, &n.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &n, nil
}

// scanNewsRows scans all news rows from a Query result.
func scanNewsRows(rows *sql.Rows) ([]models.News, error) {
	var items []models.News
	for rows.Next() {
		var n models.News
		if err := rows.Scan(&n.ID, &n.Title, &n.Slug, &n.Body, &n.Published, &n.PublishedAt, &n.CreatedAt, &n.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan news: %w", err)
		}
		items = append(items, n)
	}
	return items, rows.Err()
}

// requireRowAffected converts a zero-row write into ErrNotFound.
func requireRowAffected(res sql.Result) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
