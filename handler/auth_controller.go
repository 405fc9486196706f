package handler

import (
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/gofiber/fiber/v2"

	"github.com/quitecodedevelopers/elearning/auth"
)

// RegisterRequest is the registration payload.
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r RegisterRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required),
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Password, validation.Required, validation.Length(8, 72)),
	)
}

// LoginRequest is the login payload.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r LoginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Password, validation.Required),
	)
}

// AuthController serves registration and login.
type AuthController struct {
	Users  auth.Users
	Auther auth.Authenticator
	Logger auth.Logger
}

// NewAuthController creates the auth controller.
func NewAuthController(users auth.Users, auther auth.Authenticator, logger auth.Logger) *AuthController {
	return &AuthController{
		Users:  users,
		Auther: auther,
		Logger: logger,
	}
}

// RegisterRoutes mounts the auth endpoints. Both are public.
func (a *AuthController) RegisterRoutes(app fiber.Router) {
	app.Post("/auth/register", a.Register)
	app.Post("/auth/login", a.Login)
}

// Register creates a new student account.
func (a *AuthController) Register(c *fiber.Ctx) error {
	req := RegisterRequest{}
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if err := req.Validate(); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return err
	}

	user, err := a.Users.Register(c.UserContext(), &auth.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hash,
		Role:         auth.RoleStudent,
	})
	if err != nil {
		a.Logger.Error("registration failed", "email", req.Email, "error", err)
		return err
	}

	return c.JSON(user.Sanitized())
}

// Login verifies credentials and returns the session payload. Every
// failure surfaces as one generic message: the response never says which
// half of the credentials was wrong.
func (a *AuthController) Login(c *fiber.Ctx) error {
	req := LoginRequest{}
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if err := req.Validate(); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	payload, err := a.Auther.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, "invalid credentials")
	}

	return c.JSON(payload)
}
