package course

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Course is a published course students can enroll in.
type Course struct {
	bun.BaseModel    `bun:"table:courses,alias:crs"`
	ID               uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	Title            string     `bun:"title,notnull" json:"title,omitempty"`
	ShortDescription string     `bun:"short_description" json:"short_description,omitempty"`
	Description      string     `bun:"description" json:"description,omitempty"`
	Category         string     `bun:"category" json:"category,omitempty"`
	Price            float64    `bun:"price" json:"price"`
	ThumbnailURL     string     `bun:"thumbnail_url" json:"thumbnail_url,omitempty"`
	CreatedAt        *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt        *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
}

// Lecture is a single unit of course content.
type Lecture struct {
	bun.BaseModel `bun:"table:lectures,alias:lec"`
	ID            uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	CourseID      uuid.UUID  `bun:"course_id,notnull,type:uuid" json:"course_id,omitempty"`
	Title         string     `bun:"title,notnull" json:"title,omitempty"`
	Description   string     `bun:"description" json:"description,omitempty"`
	VideoURL      string     `bun:"video_url" json:"video_url,omitempty"`
	DurationSec   int        `bun:"duration_sec" json:"duration_sec"`
	OrderIndex    int        `bun:"order_index" json:"order_index"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt     *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
}

// Assignment is graded coursework attached to a course.
type Assignment struct {
	bun.BaseModel `bun:"table:assignments,alias:asg"`
	ID            uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	CourseID      uuid.UUID  `bun:"course_id,notnull,type:uuid" json:"course_id,omitempty"`
	Title         string     `bun:"title,notnull" json:"title,omitempty"`
	Description   string     `bun:"description" json:"description,omitempty"`
	MaxMarks      float64    `bun:"max_marks" json:"max_marks"`
	DueAt         *time.Time `bun:"due_at,nullzero" json:"due_at,omitempty"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt     *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
}

// SubmissionStatus tracks a submission through grading.
type SubmissionStatus = string

const (
	SubmissionSubmitted SubmissionStatus = "SUBMITTED"
	SubmissionGraded    SubmissionStatus = "GRADED"
)

// Submission is a student's answer to an assignment. One per student per
// assignment; resubmission is rejected.
type Submission struct {
	bun.BaseModel `bun:"table:submissions,alias:sub"`
	ID            uuid.UUID        `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	AssignmentID  uuid.UUID        `bun:"assignment_id,notnull,type:uuid" json:"assignment_id,omitempty"`
	StudentEmail  string           `bun:"student_email,notnull" json:"student_email,omitempty"`
	Content       string           `bun:"content" json:"content,omitempty"`
	SubmissionURL string           `bun:"submission_url" json:"submission_url,omitempty"`
	Status        SubmissionStatus `bun:"status,notnull" json:"status,omitempty"`
	Grade         *float64         `bun:"grade" json:"grade,omitempty"`
	Feedback      string           `bun:"feedback" json:"feedback,omitempty"`
	SubmittedAt   *time.Time       `bun:"submitted_at,nullzero" json:"submitted_at,omitempty"`
}

// Enrollment links a student to a course and carries their progress.
type Enrollment struct {
	bun.BaseModel `bun:"table:enrollments,alias:enr"`
	ID            uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	CourseID      uuid.UUID  `bun:"course_id,notnull,type:uuid" json:"course_id,omitempty"`
	StudentEmail  string     `bun:"student_email,notnull" json:"student_email,omitempty"`
	Progress      float64    `bun:"progress,notnull,default:0" json:"progress"`
	EnrolledAt    *time.Time `bun:"enrolled_at,nullzero,default:current_timestamp" json:"enrolled_at,omitempty"`
	UpdatedAt     *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
}
