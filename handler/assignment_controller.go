package handler

import (
	"errors"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/quitecodedevelopers/elearning/auth"
	"github.com/quitecodedevelopers/elearning/course"
)

// AssignmentRequest is the create payload for assignments.
type AssignmentRequest struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	MaxMarks    float64    `json:"max_marks"`
	DueAt       *time.Time `json:"due_at"`
}

func (r AssignmentRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Required, validation.Length(1, 200)),
		validation.Field(&r.MaxMarks, validation.Min(0.0)),
	)
}

// SubmitRequest is the student submission payload.
type SubmitRequest struct {
	Content       string `json:"content"`
	SubmissionURL string `json:"submission_url"`
}

func (r SubmitRequest) Validate() error {
	if r.Content == "" && r.SubmissionURL == "" {
		return validation.Errors{
			"content": errors.New("either content or submission_url is required"),
		}
	}
	return nil
}

// GradeRequest is the admin grading payload.
type GradeRequest struct {
	Grade    float64 `json:"grade"`
	Feedback string  `json:"feedback"`
}

func (r GradeRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Grade, validation.Min(0.0)),
	)
}

// AssignmentController serves assignments, submissions, and grading.
type AssignmentController struct {
	Repo    course.RepositoryManager
	Service *course.Service
	Logger  auth.Logger
	Guards  guards
}

// NewAssignmentController creates the assignment controller.
func NewAssignmentController(repo course.RepositoryManager, svc *course.Service, logger auth.Logger, contextKey string) *AssignmentController {
	return &AssignmentController{
		Repo:    repo,
		Service: svc,
		Logger:  logger,
		Guards:  guards{contextKey: contextKey},
	}
}

// RegisterRoutes mounts the assignment endpoints.
func (h *AssignmentController) RegisterRoutes(app fiber.Router) {
	app.Get("/courses/:courseId/assignments", h.ListByCourse)
	app.Get("/assignments/:assignmentId", h.GetByID)

	authed := h.Guards.authenticated()
	app.Post("/assignments/:assignmentId/submit", authed, h.Submit)
	app.Get("/users/me/submissions", authed, h.MySubmissions)

	admin := h.Guards.admin()
	app.Post("/admin/courses/:courseId/assignment", admin, h.Create)
	app.Get("/admin/assignments/:assignmentId/submissions", admin, h.ListSubmissions)
	app.Post("/admin/submissions/:submissionId/grade", admin, h.Grade)
}

// Create adds an assignment to a course.
func (h *AssignmentController) Create(c *fiber.Ctx) error {
	courseID, err := paramUUID(c, "courseId")
	if err != nil {
		return err
	}

	req := AssignmentRequest{}
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if err := req.Validate(); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	if _, err := h.Repo.Courses().FetchByID(c.UserContext(), courseID); err != nil {
		return err
	}

	now := time.Now()
	record, err := h.Repo.Assignments().Create(c.UserContext(), &course.Assignment{
		ID:          uuid.New(),
		CourseID:    courseID,
		Title:       req.Title,
		Description: req.Description,
		MaxMarks:    req.MaxMarks,
		DueAt:       req.DueAt,
		CreatedAt:   &now,
		UpdatedAt:   &now,
	})
	if err != nil {
		return err
	}
	return c.JSON(record)
}

// ListByCourse returns the assignments of a course.
func (h *AssignmentController) ListByCourse(c *fiber.Ctx) error {
	courseID, err := paramUUID(c, "courseId")
	if err != nil {
		return err
	}

	records, err := h.Repo.Assignments().ListByCourse(c.UserContext(), courseID)
	if err != nil {
		return err
	}
	return c.JSON(records)
}

// GetByID returns a single assignment.
func (h *AssignmentController) GetByID(c *fiber.Ctx) error {
	id, err := paramUUID(c, "assignmentId")
	if err != nil {
		return err
	}

	record, err := h.Repo.Assignments().FetchByID(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(record)
}

// Submit records the authenticated student's answer.
func (h *AssignmentController) Submit(c *fiber.Ctx) error {
	assignmentID, err := paramUUID(c, "assignmentId")
	if err != nil {
		return err
	}

	subject, err := requireSubject(c, h.Guards.contextKey)
	if err != nil {
		return err
	}

	req := SubmitRequest{}
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if err := req.Validate(); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	record, err := h.Service.Submit(c.UserContext(), &course.Submission{
		AssignmentID:  assignmentID,
		StudentEmail:  subject,
		Content:       req.Content,
		SubmissionURL: req.SubmissionURL,
	})
	if err != nil {
		return err
	}
	return c.JSON(record)
}

// MySubmissions lists the authenticated student's submissions.
func (h *AssignmentController) MySubmissions(c *fiber.Ctx) error {
	subject, err := requireSubject(c, h.Guards.contextKey)
	if err != nil {
		return err
	}

	records, err := h.Repo.Submissions().ListByStudent(c.UserContext(), subject)
	if err != nil {
		return err
	}
	return c.JSON(records)
}

// ListSubmissions lists every submission for an assignment.
func (h *AssignmentController) ListSubmissions(c *fiber.Ctx) error {
	assignmentID, err := paramUUID(c, "assignmentId")
	if err != nil {
		return err
	}

	records, err := h.Repo.Submissions().ListByAssignment(c.UserContext(), assignmentID)
	if err != nil {
		return err
	}
	return c.JSON(records)
}

// Grade records a grade and feedback on a submission.
func (h *AssignmentController) Grade(c *fiber.Ctx) error {
	submissionID, err := paramUUID(c, "submissionId")
	if err != nil {
		return err
	}

	req := GradeRequest{}
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if err := req.Validate(); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	record, err := h.Service.Grade(c.UserContext(), submissionID, req.Grade, req.Feedback)
	if err != nil {
		return err
	}
	return c.JSON(record)
}
