package handler

import (
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/gofiber/fiber/v2"
	repository "github.com/goliatone/go-repository-bun"

	"github.com/quitecodedevelopers/elearning/auth"
)

// UpdateProfileRequest changes display fields on the caller's account.
// Email and role are immutable through this endpoint.
type UpdateProfileRequest struct {
	Name string `json:"name"`
}

func (r UpdateProfileRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.Length(1, 120)),
	)
}

// ChangePasswordRequest rotates the caller's password after verifying the
// current one.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

func (r ChangePasswordRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.CurrentPassword, validation.Required),
		validation.Field(&r.NewPassword, validation.Required, validation.Length(8, 72)),
	)
}

// ProfileController serves the signed-in user's account endpoints.
type ProfileController struct {
	Users  auth.Users
	Logger auth.Logger
	Guards guards
}

// NewProfileController creates the profile controller.
func NewProfileController(users auth.Users, logger auth.Logger, contextKey string) *ProfileController {
	return &ProfileController{
		Users:  users,
		Logger: logger,
		Guards: guards{contextKey: contextKey},
	}
}

// RegisterRoutes mounts the profile endpoints.
func (h *ProfileController) RegisterRoutes(app fiber.Router) {
	authed := h.Guards.authenticated()
	app.Get("/users/me", authed, h.Me)
	app.Put("/users/me/update", authed, h.Update)
	app.Post("/users/me/change-password", authed, h.ChangePassword)
}

// Me returns the caller's account.
func (h *ProfileController) Me(c *fiber.Ctx) error {
	user, err := h.currentUser(c)
	if err != nil {
		return err
	}
	return c.JSON(user.Sanitized())
}

// Update changes the caller's display name.
func (h *ProfileController) Update(c *fiber.Ctx) error {
	user, err := h.currentUser(c)
	if err != nil {
		return err
	}

	req := UpdateProfileRequest{}
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if err := req.Validate(); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	user.Name = req.Name
	updated, err := h.Users.Update(c.UserContext(), user, repository.UpdateByID(user.ID.String()))
	if err != nil {
		return err
	}
	return c.JSON(updated.Sanitized())
}

// ChangePassword verifies the current password before storing a new hash.
func (h *ProfileController) ChangePassword(c *fiber.Ctx) error {
	user, err := h.currentUser(c)
	if err != nil {
		return err
	}

	req := ChangePasswordRequest{}
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if err := req.Validate(); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	if err := auth.ComparePasswordAndHash(req.CurrentPassword, user.PasswordHash); err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, "invalid credentials")
	}

	hash, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		return err
	}

	if err := h.Users.UpdatePassword(c.UserContext(), user.ID, hash); err != nil {
		return err
	}

	h.Logger.Info("password changed", "user", user.Email)
	return c.JSON(fiber.Map{"message": "password updated"})
}

func (h *ProfileController) currentUser(c *fiber.Ctx) (*auth.User, error) {
	subject, err := requireSubject(c, h.Guards.contextKey)
	if err != nil {
		return nil, err
	}
	return h.Users.GetByEmail(c.UserContext(), subject)
}
