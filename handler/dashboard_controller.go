package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/uptrace/bun"

	"github.com/quitecodedevelopers/elearning/auth"
	"github.com/quitecodedevelopers/elearning/course"
)

// DashboardController serves aggregate stats for the admin console.
type DashboardController struct {
	DB     *bun.DB
	Repo   course.RepositoryManager
	Logger auth.Logger
	Guards guards
}

// NewDashboardController creates the dashboard controller.
func NewDashboardController(db *bun.DB, repo course.RepositoryManager, logger auth.Logger, contextKey string) *DashboardController {
	return &DashboardController{
		DB:     db,
		Repo:   repo,
		Logger: logger,
		Guards: guards{contextKey: contextKey},
	}
}

// RegisterRoutes mounts the dashboard endpoint behind the admin guard.
func (h *DashboardController) RegisterRoutes(app fiber.Router) {
	app.Get("/admin/dashboard-data", h.Guards.admin(), h.DashboardData)
}

// DashboardData returns entity counts and the per-category course
// breakdown in a single payload.
func (h *DashboardController) DashboardData(c *fiber.Ctx) error {
	ctx := c.UserContext()

	users, err := course.UserCount(ctx, h.DB)
	if err != nil {
		return err
	}

	courses, err := h.Repo.Courses().Total(ctx)
	if err != nil {
		return err
	}

	assignments, err := h.Repo.Assignments().Total(ctx)
	if err != nil {
		return err
	}

	byCategory, err := h.Repo.Courses().CountByCategory(ctx)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"total_users":        users,
		"total_courses":      courses,
		"total_assignments":  assignments,
		"course_by_category": byCategory,
	})
}
