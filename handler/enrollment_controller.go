package handler

import (
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/gofiber/fiber/v2"

	"github.com/quitecodedevelopers/elearning/auth"
	"github.com/quitecodedevelopers/elearning/course"
)

// ProgressRequest updates the caller's progress in a course.
type ProgressRequest struct {
	Percent float64 `json:"percent"`
}

func (r ProgressRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Percent, validation.Min(0.0), validation.Max(100.0)),
	)
}

// EnrollmentController serves enrollment and progress tracking.
type EnrollmentController struct {
	Service *course.Service
	Logger  auth.Logger
	Guards  guards
}

// NewEnrollmentController creates the enrollment controller.
func NewEnrollmentController(svc *course.Service, logger auth.Logger, contextKey string) *EnrollmentController {
	return &EnrollmentController{
		Service: svc,
		Logger:  logger,
		Guards:  guards{contextKey: contextKey},
	}
}

// RegisterRoutes mounts the enrollment endpoints. All require a signed-in
// student.
func (h *EnrollmentController) RegisterRoutes(app fiber.Router) {
	authed := h.Guards.authenticated()
	app.Post("/courses/:courseId/enroll", authed, h.Enroll)
	app.Delete("/courses/:courseId/unenroll", authed, h.Unenroll)
	app.Get("/users/me/enrolled", authed, h.Enrolled)
	app.Get("/users/me/progress", authed, h.Progress)
	app.Put("/users/me/courses/:courseId/progress", authed, h.UpdateProgress)
}

// Enroll adds the caller to a course.
func (h *EnrollmentController) Enroll(c *fiber.Ctx) error {
	courseID, err := paramUUID(c, "courseId")
	if err != nil {
		return err
	}

	subject, err := requireSubject(c, h.Guards.contextKey)
	if err != nil {
		return err
	}

	if err := h.Service.Enroll(c.UserContext(), subject, courseID); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "enrolled"})
}

// Unenroll removes the caller from a course.
func (h *EnrollmentController) Unenroll(c *fiber.Ctx) error {
	courseID, err := paramUUID(c, "courseId")
	if err != nil {
		return err
	}

	subject, err := requireSubject(c, h.Guards.contextKey)
	if err != nil {
		return err
	}

	if err := h.Service.Unenroll(c.UserContext(), subject, courseID); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "unenrolled"})
}

// Enrolled lists the ids of the caller's courses.
func (h *EnrollmentController) Enrolled(c *fiber.Ctx) error {
	subject, err := requireSubject(c, h.Guards.contextKey)
	if err != nil {
		return err
	}

	ids, err := h.Service.EnrolledCourseIDs(c.UserContext(), subject)
	if err != nil {
		return err
	}
	return c.JSON(ids)
}

// Progress returns course id -> completion percentage for the caller.
func (h *EnrollmentController) Progress(c *fiber.Ctx) error {
	subject, err := requireSubject(c, h.Guards.contextKey)
	if err != nil {
		return err
	}

	progress, err := h.Service.ProgressMap(c.UserContext(), subject)
	if err != nil {
		return err
	}
	return c.JSON(progress)
}

// UpdateProgress records the caller's progress in a course.
func (h *EnrollmentController) UpdateProgress(c *fiber.Ctx) error {
	courseID, err := paramUUID(c, "courseId")
	if err != nil {
		return err
	}

	subject, err := requireSubject(c, h.Guards.contextKey)
	if err != nil {
		return err
	}

	req := ProgressRequest{}
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if err := req.Validate(); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	if err := h.Service.UpdateProgress(c.UserContext(), subject, courseID, req.Percent); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "progress updated"})
}
