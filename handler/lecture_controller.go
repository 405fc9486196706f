package handler

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/quitecodedevelopers/elearning/auth"
	"github.com/quitecodedevelopers/elearning/course"
)

// LectureRequest is the create/update payload for lectures.
type LectureRequest struct {
	CourseID    string `json:"course_id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	VideoURL    string `json:"video_url"`
	DurationSec int    `json:"duration_sec"`
	OrderIndex  int    `json:"order_index"`
}

func (r LectureRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.CourseID, validation.Required, is.UUID),
		validation.Field(&r.Title, validation.Required, validation.Length(1, 200)),
		validation.Field(&r.DurationSec, validation.Min(0)),
		validation.Field(&r.OrderIndex, validation.Min(0)),
	)
}

// LectureController serves lecture browsing and admin lecture management.
type LectureController struct {
	Repo   course.RepositoryManager
	Logger auth.Logger
	Guards guards
}

// NewLectureController creates the lecture controller.
func NewLectureController(repo course.RepositoryManager, logger auth.Logger, contextKey string) *LectureController {
	return &LectureController{
		Repo:   repo,
		Logger: logger,
		Guards: guards{contextKey: contextKey},
	}
}

// RegisterRoutes mounts the lecture endpoints.
func (h *LectureController) RegisterRoutes(app fiber.Router) {
	app.Get("/courses/:courseId/lectures", h.ListByCourse)
	app.Get("/lectures/:id", h.GetByID)

	admin := h.Guards.admin()
	app.Post("/admin/lectures", admin, h.Create)
	app.Put("/admin/lectures/:id", admin, h.Update)
	app.Delete("/admin/lectures/:id", admin, h.Delete)
}

// ListByCourse returns the lectures of a course in playback order.
func (h *LectureController) ListByCourse(c *fiber.Ctx) error {
	courseID, err := paramUUID(c, "courseId")
	if err != nil {
		return err
	}

	records, err := h.Repo.Lectures().ListByCourse(c.UserContext(), courseID)
	if err != nil {
		return err
	}
	return c.JSON(records)
}

// GetByID returns a single lecture.
func (h *LectureController) GetByID(c *fiber.Ctx) error {
	id, err := paramUUID(c, "id")
	if err != nil {
		return err
	}

	record, err := h.Repo.Lectures().FetchByID(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(record)
}

// Create adds a lecture to a course.
func (h *LectureController) Create(c *fiber.Ctx) error {
	req := LectureRequest{}
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if err := req.Validate(); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	courseID, err := uuid.Parse(req.CourseID)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid course_id")
	}

	if _, err := h.Repo.Courses().FetchByID(c.UserContext(), courseID); err != nil {
		return err
	}

	now := time.Now()
	record, err := h.Repo.Lectures().Create(c.UserContext(), &course.Lecture{
		ID:          uuid.New(),
		CourseID:    courseID,
		Title:       req.Title,
		Description: req.Description,
		VideoURL:    req.VideoURL,
		DurationSec: req.DurationSec,
		OrderIndex:  req.OrderIndex,
		CreatedAt:   &now,
		UpdatedAt:   &now,
	})
	if err != nil {
		return err
	}
	return c.JSON(record)
}

// Update replaces a lecture's editable fields.
func (h *LectureController) Update(c *fiber.Ctx) error {
	id, err := paramUUID(c, "id")
	if err != nil {
		return err
	}

	req := LectureRequest{}
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if err := req.Validate(); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	record, err := h.Repo.Lectures().FetchByID(c.UserContext(), id)
	if err != nil {
		return err
	}

	now := time.Now()
	record.Title = req.Title
	record.Description = req.Description
	record.VideoURL = req.VideoURL
	record.DurationSec = req.DurationSec
	record.OrderIndex = req.OrderIndex
	record.UpdatedAt = &now

	updated, err := h.Repo.Lectures().Update(c.UserContext(), record)
	if err != nil {
		return err
	}
	return c.JSON(updated)
}

// Delete removes a lecture.
func (h *LectureController) Delete(c *fiber.Ctx) error {
	id, err := paramUUID(c, "id")
	if err != nil {
		return err
	}

	if err := h.Repo.Lectures().DeleteByID(c.UserContext(), id); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "lecture deleted"})
}
