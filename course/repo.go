package course

import (
	"context"
	"database/sql"
	"errors"
	"log"

	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/quitecodedevelopers/elearning/auth"
)

// RepositoryManager exposes all repositories
type RepositoryManager interface {
	repository.Validator
	repository.TransactionManager
	Users() auth.Users
	Courses() Courses
	Lectures() Lectures
	Assignments() Assignments
	Submissions() Submissions
	Enrollments() Enrollments
}

type mngr struct {
	db          *bun.DB
	users       auth.Users
	courses     Courses
	lectures    Lectures
	assignments Assignments
	submissions Submissions
	enrollments Enrollments
}

// NewRepositoryManager wires every repository over the shared bun handle.
func NewRepositoryManager(db *bun.DB) RepositoryManager {
	return &mngr{
		db:          db,
		users:       auth.NewUsersRepository(db),
		courses:     NewCoursesRepository(db),
		lectures:    NewLecturesRepository(db),
		assignments: NewAssignmentsRepository(db),
		submissions: NewSubmissionsRepository(db),
		enrollments: NewEnrollmentsRepository(db),
	}
}

func (m mngr) Validate() error {
	if m.users == nil {
		return errors.New("repository users should be initialized")
	}
	if m.courses == nil {
		return errors.New("repository courses should be initialized")
	}
	if m.lectures == nil {
		return errors.New("repository lectures should be initialized")
	}
	if m.assignments == nil {
		return errors.New("repository assignments should be initialized")
	}
	if m.submissions == nil {
		return errors.New("repository submissions should be initialized")
	}
	if m.enrollments == nil {
		return errors.New("repository enrollments should be initialized")
	}
	return nil
}

func (m mngr) MustValidate() {
	if err := m.Validate(); err != nil {
		log.Panic(err)
	}
}

func (m mngr) RunInTx(ctx context.Context, opts *sql.TxOptions, f func(ctx context.Context, tx bun.Tx) error) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
		return m.db.RunInTx(ctx, opts, f)
	}
}

func (m mngr) Users() auth.Users        { return m.users }
func (m mngr) Courses() Courses         { return m.courses }
func (m mngr) Lectures() Lectures       { return m.lectures }
func (m mngr) Assignments() Assignments { return m.assignments }
func (m mngr) Submissions() Submissions { return m.submissions }
func (m mngr) Enrollments() Enrollments { return m.enrollments }

// Courses is the course repository surface.
type Courses interface {
	repository.Repository[*Course]

	FetchByID(ctx context.Context, id uuid.UUID) (*Course, error)
	ListAll(ctx context.Context) ([]*Course, error)
	SearchByCategory(ctx context.Context, category string) ([]*Course, error)
	SearchByTitle(ctx context.Context, title string) ([]*Course, error)
	DeleteByID(ctx context.Context, id uuid.UUID) error
	CountByCategory(ctx context.Context) (map[string]int64, error)
	Total(ctx context.Context) (int64, error)
}

type courses struct {
	repository.Repository[*Course]
	db *bun.DB
}

// NewCoursesRepository builds the Courses repository.
func NewCoursesRepository(db *bun.DB) Courses {
	repo := repository.NewRepository[*Course](db, repository.ModelHandlers[*Course]{
		NewRecord: func() *Course { return &Course{} },
		GetID: func(c *Course) uuid.UUID {
			if c == nil {
				return uuid.Nil
			}
			return c.ID
		},
		SetID: func(c *Course, id uuid.UUID) {
			if c != nil {
				c.ID = id
			}
		},
		GetIdentifier: func() string { return "id" },
	})
	return &courses{Repository: repo, db: db}
}

func (r *courses) FetchByID(ctx context.Context, id uuid.UUID) (*Course, error) {
	record := &Course{}
	err := r.db.NewSelect().Model(record).
		Where("?TableAlias.id = ?", id).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, repository.NewRecordNotFound().
				WithMetadata(map[string]any{"id": id.String()})
		}
		return nil, err
	}
	return record, nil
}

func (r *courses) ListAll(ctx context.Context) ([]*Course, error) {
	var records []*Course
	err := r.db.NewSelect().Model(&records).
		Order("created_at DESC").
		Scan(ctx)
	return records, err
}

func (r *courses) SearchByCategory(ctx context.Context, category string) ([]*Course, error) {
	var records []*Course
	err := r.db.NewSelect().Model(&records).
		Where("?TableAlias.category = ?", category).
		Order("created_at DESC").
		Scan(ctx)
	return records, err
}

func (r *courses) SearchByTitle(ctx context.Context, title string) ([]*Course, error) {
	var records []*Course
	err := r.db.NewSelect().Model(&records).
		Where("?TableAlias.title LIKE ?", "%"+title+"%").
		Order("created_at DESC").
		Scan(ctx)
	return records, err
}

func (r *courses) DeleteByID(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.NewDelete().Model((*Course)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return err
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return repository.NewRecordNotFound().
			WithMetadata(map[string]any{"id": id.String()})
	}
	return nil
}

func (r *courses) CountByCategory(ctx context.Context) (map[string]int64, error) {
	var rows []struct {
		Category string `bun:"category"`
		Total    int64  `bun:"total"`
	}
	err := r.db.NewSelect().Model((*Course)(nil)).
		ColumnExpr("COALESCE(NULLIF(category, ''), 'Uncategorized') AS category").
		ColumnExpr("COUNT(*) AS total").
		GroupExpr("COALESCE(NULLIF(category, ''), 'Uncategorized')").
		Scan(ctx, &rows)
	if err != nil {
		return nil, err
	}

	out := make(map[string]int64, len(rows))
	for _, row := range rows {
		out[row.Category] = row.Total
	}
	return out, nil
}

func (r *courses) Total(ctx context.Context) (int64, error) {
	n, err := r.db.NewSelect().Model((*Course)(nil)).Count(ctx)
	return int64(n), err
}

// Lectures is the lecture repository surface.
type Lectures interface {
	repository.Repository[*Lecture]

	FetchByID(ctx context.Context, id uuid.UUID) (*Lecture, error)
	ListByCourse(ctx context.Context, courseID uuid.UUID) ([]*Lecture, error)
	DeleteByID(ctx context.Context, id uuid.UUID) error
}

type lectures struct {
	repository.Repository[*Lecture]
	db *bun.DB
}

// NewLecturesRepository builds the Lectures repository.
func NewLecturesRepository(db *bun.DB) Lectures {
	repo := repository.NewRepository[*Lecture](db, repository.ModelHandlers[*Lecture]{
		NewRecord: func() *Lecture { return &Lecture{} },
		GetID: func(l *Lecture) uuid.UUID {
			if l == nil {
				return uuid.Nil
			}
			return l.ID
		},
		SetID: func(l *Lecture, id uuid.UUID) {
			if l != nil {
				l.ID = id
			}
		},
		GetIdentifier: func() string { return "id" },
	})
	return &lectures{Repository: repo, db: db}
}

func (r *lectures) FetchByID(ctx context.Context, id uuid.UUID) (*Lecture, error) {
	record := &Lecture{}
	err := r.db.NewSelect().Model(record).
		Where("?TableAlias.id = ?", id).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, repository.NewRecordNotFound().
				WithMetadata(map[string]any{"id": id.String()})
		}
		return nil, err
	}
	return record, nil
}

func (r *lectures) ListByCourse(ctx context.Context, courseID uuid.UUID) ([]*Lecture, error) {
	var records []*Lecture
	err := r.db.NewSelect().Model(&records).
		Where("?TableAlias.course_id = ?", courseID).
		Order("order_index ASC").
		Scan(ctx)
	return records, err
}

func (r *lectures) DeleteByID(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.NewDelete().Model((*Lecture)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return err
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return repository.NewRecordNotFound().
			WithMetadata(map[string]any{"id": id.String()})
	}
	return nil
}

// Assignments is the assignment repository surface.
type Assignments interface {
	repository.Repository[*Assignment]

	FetchByID(ctx context.Context, id uuid.UUID) (*Assignment, error)
	ListByCourse(ctx context.Context, courseID uuid.UUID) ([]*Assignment, error)
	Total(ctx context.Context) (int64, error)
}

type assignments struct {
	repository.Repository[*Assignment]
	db *bun.DB
}

// NewAssignmentsRepository builds the Assignments repository.
func NewAssignmentsRepository(db *bun.DB) Assignments {
	repo := repository.NewRepository[*Assignment](db, repository.ModelHandlers[*Assignment]{
		NewRecord: func() *Assignment { return &Assignment{} },
		GetID: func(a *Assignment) uuid.UUID {
			if a == nil {
				return uuid.Nil
			}
			return a.ID
		},
		SetID: func(a *Assignment, id uuid.UUID) {
			if a != nil {
				a.ID = id
			}
		},
		GetIdentifier: func() string { return "id" },
	})
	return &assignments{Repository: repo, db: db}
}

func (r *assignments) FetchByID(ctx context.Context, id uuid.UUID) (*Assignment, error) {
	record := &Assignment{}
	err := r.db.NewSelect().Model(record).
		Where("?TableAlias.id = ?", id).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, repository.NewRecordNotFound().
				WithMetadata(map[string]any{"id": id.String()})
		}
		return nil, err
	}
	return record, nil
}

func (r *assignments) ListByCourse(ctx context.Context, courseID uuid.UUID) ([]*Assignment, error) {
	var records []*Assignment
	err := r.db.NewSelect().Model(&records).
		Where("?TableAlias.course_id = ?", courseID).
		Order("created_at ASC").
		Scan(ctx)
	return records, err
}

func (r *assignments) Total(ctx context.Context) (int64, error) {
	n, err := r.db.NewSelect().Model((*Assignment)(nil)).Count(ctx)
	return int64(n), err
}

// Submissions is the submission repository surface.
type Submissions interface {
	repository.Repository[*Submission]

	FetchByID(ctx context.Context, id uuid.UUID) (*Submission, error)
	ListByAssignment(ctx context.Context, assignmentID uuid.UUID) ([]*Submission, error)
	ListByStudent(ctx context.Context, studentEmail string) ([]*Submission, error)
	FindByAssignmentAndStudent(ctx context.Context, assignmentID uuid.UUID, studentEmail string) (*Submission, error)
}

type submissions struct {
	repository.Repository[*Submission]
	db *bun.DB
}

// NewSubmissionsRepository builds the Submissions repository.
func NewSubmissionsRepository(db *bun.DB) Submissions {
	repo := repository.NewRepository[*Submission](db, repository.ModelHandlers[*Submission]{
		NewRecord: func() *Submission { return &Submission{} },
		GetID: func(s *Submission) uuid.UUID {
			if s == nil {
				return uuid.Nil
			}
			return s.ID
		},
		SetID: func(s *Submission, id uuid.UUID) {
			if s != nil {
				s.ID = id
			}
		},
		GetIdentifier: func() string { return "id" },
	})
	return &submissions{Repository: repo, db: db}
}

func (r *submissions) FetchByID(ctx context.Context, id uuid.UUID) (*Submission, error) {
	record := &Submission{}
	err := r.db.NewSelect().Model(record).
		Where("?TableAlias.id = ?", id).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, repository.NewRecordNotFound().
				WithMetadata(map[string]any{"id": id.String()})
		}
		return nil, err
	}
	return record, nil
}

func (r *submissions) ListByAssignment(ctx context.Context, assignmentID uuid.UUID) ([]*Submission, error) {
	var records []*Submission
	err := r.db.NewSelect().Model(&records).
		Where("?TableAlias.assignment_id = ?", assignmentID).
		Order("submitted_at ASC").
		Scan(ctx)
	return records, err
}

func (r *submissions) ListByStudent(ctx context.Context, studentEmail string) ([]*Submission, error) {
	var records []*Submission
	err := r.db.NewSelect().Model(&records).
		Where("?TableAlias.student_email = ?", studentEmail).
		Order("submitted_at DESC").
		Scan(ctx)
	return records, err
}

func (r *submissions) FindByAssignmentAndStudent(ctx context.Context, assignmentID uuid.UUID, studentEmail string) (*Submission, error) {
	record := &Submission{}
	err := r.db.NewSelect().Model(record).
		Where("?TableAlias.assignment_id = ?", assignmentID).
		Where("?TableAlias.student_email = ?", studentEmail).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, repository.NewRecordNotFound().
				WithMetadata(map[string]any{
					"assignment_id": assignmentID.String(),
					"student_email": studentEmail,
				})
		}
		return nil, err
	}
	return record, nil
}

// Enrollments is the enrollment repository surface.
type Enrollments interface {
	repository.Repository[*Enrollment]

	Find(ctx context.Context, courseID uuid.UUID, studentEmail string) (*Enrollment, error)
	ListByStudent(ctx context.Context, studentEmail string) ([]*Enrollment, error)
	Remove(ctx context.Context, courseID uuid.UUID, studentEmail string) error
}

type enrollments struct {
	repository.Repository[*Enrollment]
	db *bun.DB
}

// NewEnrollmentsRepository builds the Enrollments repository.
func NewEnrollmentsRepository(db *bun.DB) Enrollments {
	repo := repository.NewRepository[*Enrollment](db, repository.ModelHandlers[*Enrollment]{
		NewRecord: func() *Enrollment { return &Enrollment{} },
		GetID: func(e *Enrollment) uuid.UUID {
			if e == nil {
				return uuid.Nil
			}
			return e.ID
		},
		SetID: func(e *Enrollment, id uuid.UUID) {
			if e != nil {
				e.ID = id
			}
		},
		GetIdentifier: func() string { return "id" },
	})
	return &enrollments{Repository: repo, db: db}
}

func (r *enrollments) Find(ctx context.Context, courseID uuid.UUID, studentEmail string) (*Enrollment, error) {
	record := &Enrollment{}
	err := r.db.NewSelect().Model(record).
		Where("?TableAlias.course_id = ?", courseID).
		Where("?TableAlias.student_email = ?", studentEmail).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, repository.NewRecordNotFound().
				WithMetadata(map[string]any{
					"course_id":     courseID.String(),
					"student_email": studentEmail,
				})
		}
		return nil, err
	}
	return record, nil
}

func (r *enrollments) ListByStudent(ctx context.Context, studentEmail string) ([]*Enrollment, error) {
	var records []*Enrollment
	err := r.db.NewSelect().Model(&records).
		Where("?TableAlias.student_email = ?", studentEmail).
		Order("enrolled_at ASC").
		Scan(ctx)
	return records, err
}

func (r *enrollments) Remove(ctx context.Context, courseID uuid.UUID, studentEmail string) error {
	_, err := r.db.NewDelete().Model((*Enrollment)(nil)).
		Where("course_id = ?", courseID).
		Where("student_email = ?", studentEmail).
		Exec(ctx)
	return err
}

// UserCount reports the total number of users for the admin dashboard.
func UserCount(ctx context.Context, db *bun.DB) (int64, error) {
	n, err := db.NewSelect().Model((*auth.User)(nil)).Count(ctx)
	return int64(n), err
}
