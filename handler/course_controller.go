package handler

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/quitecodedevelopers/elearning/auth"
	"github.com/quitecodedevelopers/elearning/course"
)

// CourseRequest is the create/update payload for courses.
type CourseRequest struct {
	Title            string  `json:"title"`
	ShortDescription string  `json:"short_description"`
	Description      string  `json:"description"`
	Category         string  `json:"category"`
	Price            float64 `json:"price"`
	ThumbnailURL     string  `json:"thumbnail_url"`
}

func (r CourseRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Required, validation.Length(1, 200)),
		validation.Field(&r.Price, validation.Min(0.0)),
	)
}

// CourseController serves course browsing and admin course management.
type CourseController struct {
	Repo   course.RepositoryManager
	Logger auth.Logger
	Guards guards
}

// NewCourseController creates the course controller.
func NewCourseController(repo course.RepositoryManager, logger auth.Logger, contextKey string) *CourseController {
	return &CourseController{
		Repo:   repo,
		Logger: logger,
		Guards: guards{contextKey: contextKey},
	}
}

// RegisterRoutes mounts the course endpoints. Reads are public; writes
// require the admin role.
func (h *CourseController) RegisterRoutes(app fiber.Router) {
	app.Get("/courses", h.List)
	app.Get("/courses/:id", h.GetByID)

	admin := h.Guards.admin()
	app.Post("/admin/courses", admin, h.Create)
	app.Put("/admin/courses/:id", admin, h.Update)
	app.Delete("/admin/courses/:id", admin, h.Delete)
}

// List returns all courses, optionally filtered by category or title.
func (h *CourseController) List(c *fiber.Ctx) error {
	if category := c.Query("category"); category != "" {
		records, err := h.Repo.Courses().SearchByCategory(c.UserContext(), category)
		if err != nil {
			return err
		}
		return c.JSON(records)
	}

	if title := c.Query("title"); title != "" {
		records, err := h.Repo.Courses().SearchByTitle(c.UserContext(), title)
		if err != nil {
			return err
		}
		return c.JSON(records)
	}

	records, err := h.Repo.Courses().ListAll(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(records)
}

// GetByID returns a single course.
func (h *CourseController) GetByID(c *fiber.Ctx) error {
	id, err := paramUUID(c, "id")
	if err != nil {
		return err
	}

	record, err := h.Repo.Courses().FetchByID(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(record)
}

// Create adds a new course.
func (h *CourseController) Create(c *fiber.Ctx) error {
	req := CourseRequest{}
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if err := req.Validate(); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	now := time.Now()
	record, err := h.Repo.Courses().Create(c.UserContext(), &course.Course{
		ID:               uuid.New(),
		Title:            req.Title,
		ShortDescription: req.ShortDescription,
		Description:      req.Description,
		Category:         req.Category,
		Price:            req.Price,
		ThumbnailURL:     req.ThumbnailURL,
		CreatedAt:        &now,
		UpdatedAt:        &now,
	})
	if err != nil {
		return err
	}
	return c.JSON(record)
}

// Update replaces a course's editable fields.
func (h *CourseController) Update(c *fiber.Ctx) error {
	id, err := paramUUID(c, "id")
	if err != nil {
		return err
	}

	req := CourseRequest{}
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if err := req.Validate(); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	record, err := h.Repo.Courses().FetchByID(c.UserContext(), id)
	if err != nil {
		return err
	}

	now := time.Now()
	record.Title = req.Title
	record.ShortDescription = req.ShortDescription
	record.Description = req.Description
	record.Category = req.Category
	record.Price = req.Price
	record.ThumbnailURL = req.ThumbnailURL
	record.UpdatedAt = &now

	updated, err := h.Repo.Courses().Update(c.UserContext(), record)
	if err != nil {
		return err
	}
	return c.JSON(updated)
}

// Delete removes a course.
func (h *CourseController) Delete(c *fiber.Ctx) error {
	id, err := paramUUID(c, "id")
	if err != nil {
		return err
	}

	if err := h.Repo.Courses().DeleteByID(c.UserContext(), id); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "course deleted"})
}
