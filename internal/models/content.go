// Administrasi Akademik - Academic Portal Content API
// SPDX-License-Identifier: AGPL-3.0-or-later

package models

import "time"

// News is a portal news article. Unpublished articles are visible only
// through the CMS surface.
type News struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Slug        string     `json:"slug"`
	Body        string     `json:"body"`
	Published   bool       `json:"published"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// Lecturer is a teaching staff record. StaffNumber and Phone are private
// fields: they are omitted from public responses and filled in only when the
// caller presents a valid administrative token.
type Lecturer struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	TitlePrefix string `json:"title_prefix,omitempty"`
	TitleSuffix string `json:"title_suffix,omitempty"`
	Email       string `json:"email"`
	Position    string `json:"position"`
	ProgramID   int64  `json:"program_id"`
	ProgramName string `json:"program_name,omitempty"`

	// Admin-only fields.
	StaffNumber string `json:"staff_number,omitempty"`
	Phone       string `json:"phone,omitempty"`
}

// Course is a course catalog entry.
type Course struct {
	ID        int64  `json:"id"`
	Code      string `json:"code"`
	Name      string `json:"name"`
	Credits   int    `json:"credits"`
	Semester  int    `json:"semester"`
	ProgramID int64  `json:"program_id"`
}

// ClassSchedule is a single scheduled class meeting.
type ClassSchedule struct {
	ID         int64  `json:"id"`
	CourseID   int64  `json:"course_id"`
	CourseName string `json:"course_name,omitempty"`
	LecturerID int64  `json:"lecturer_id"`
	Day        string `json:"day"`
	StartTime  string `json:"start_time"`
	EndTime    string `json:"end_time"`
	Room       string `json:"room"`
	ClassName  string `json:"class_name"`
}
