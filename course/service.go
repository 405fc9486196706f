package course

import (
	"context"
	"time"

	goerrors "github.com/goliatone/go-errors"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
)

// ErrAlreadySubmitted rejects a second submission for the same assignment.
var ErrAlreadySubmitted = goerrors.New("assignment already submitted", goerrors.CategoryConflict).
	WithTextCode("ALREADY_SUBMITTED")

// ErrNotEnrolled rejects coursework from students outside the course.
var ErrNotEnrolled = goerrors.New("student is not enrolled in this course", goerrors.CategoryAuth).
	WithTextCode("NOT_ENROLLED")

// Service implements enrollment, progress tracking, and submission grading
// on top of the repositories.
type Service struct {
	repo RepositoryManager
}

// NewService creates the course service.
func NewService(repo RepositoryManager) *Service {
	return &Service{repo: repo}
}

// Enroll adds the student to a course. Enrolling twice is a no-op.
func (s *Service) Enroll(ctx context.Context, studentEmail string, courseID uuid.UUID) error {
	if _, err := s.repo.Courses().FetchByID(ctx, courseID); err != nil {
		return err
	}

	if _, err := s.repo.Enrollments().Find(ctx, courseID, studentEmail); err == nil {
		return nil
	} else if !repository.IsRecordNotFound(err) {
		return err
	}

	now := time.Now()
	_, err := s.repo.Enrollments().Create(ctx, &Enrollment{
		ID:           uuid.New(),
		CourseID:     courseID,
		StudentEmail: studentEmail,
		Progress:     0,
		EnrolledAt:   &now,
	})
	return err
}

// Unenroll removes the student from a course along with their progress.
func (s *Service) Unenroll(ctx context.Context, studentEmail string, courseID uuid.UUID) error {
	return s.repo.Enrollments().Remove(ctx, courseID, studentEmail)
}

// EnrolledCourseIDs lists the ids of every course the student is enrolled in.
func (s *Service) EnrolledCourseIDs(ctx context.Context, studentEmail string) ([]uuid.UUID, error) {
	records, err := s.repo.Enrollments().ListByStudent(ctx, studentEmail)
	if err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, 0, len(records))
	for _, rec := range records {
		ids = append(ids, rec.CourseID)
	}
	return ids, nil
}

// UpdateProgress records the student's progress in a course, clamped to
// the 0..100 range.
func (s *Service) UpdateProgress(ctx context.Context, studentEmail string, courseID uuid.UUID, percent float64) error {
	record, err := s.repo.Enrollments().Find(ctx, courseID, studentEmail)
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return ErrNotEnrolled
		}
		return err
	}

	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}

	record.Progress = percent
	now := time.Now()
	record.UpdatedAt = &now

	_, err = s.repo.Enrollments().Update(ctx, record)
	return err
}

// ProgressMap returns course id -> progress for the student.
func (s *Service) ProgressMap(ctx context.Context, studentEmail string) (map[string]float64, error) {
	records, err := s.repo.Enrollments().ListByStudent(ctx, studentEmail)
	if err != nil {
		return nil, err
	}

	out := make(map[string]float64, len(records))
	for _, rec := range records {
		out[rec.CourseID.String()] = rec.Progress
	}
	return out, nil
}

// Submit stores the student's answer for an assignment. Resubmission is
// rejected with ErrAlreadySubmitted.
func (s *Service) Submit(ctx context.Context, sub *Submission) (*Submission, error) {
	assignment, err := s.repo.Assignments().FetchByID(ctx, sub.AssignmentID)
	if err != nil {
		return nil, err
	}

	if _, err := s.repo.Enrollments().Find(ctx, assignment.CourseID, sub.StudentEmail); err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, ErrNotEnrolled
		}
		return nil, err
	}

	existing, err := s.repo.Submissions().FindByAssignmentAndStudent(ctx, sub.AssignmentID, sub.StudentEmail)
	if err != nil && !repository.IsRecordNotFound(err) {
		return nil, err
	}
	if existing != nil {
		return nil, ErrAlreadySubmitted
	}

	now := time.Now()
	sub.ID = uuid.New()
	sub.Status = SubmissionSubmitted
	sub.SubmittedAt = &now
	sub.Grade = nil
	sub.Feedback = ""

	return s.repo.Submissions().Create(ctx, sub)
}

// Grade records a grade and feedback on a submission.
func (s *Service) Grade(ctx context.Context, submissionID uuid.UUID, grade float64, feedback string) (*Submission, error) {
	record, err := s.repo.Submissions().FetchByID(ctx, submissionID)
	if err != nil {
		return nil, err
	}

	record.Grade = &grade
	record.Feedback = feedback
	record.Status = SubmissionGraded

	return s.repo.Submissions().Update(ctx, record)
}
