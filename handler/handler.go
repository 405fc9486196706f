// Package handler contains the fiber controllers for the e-learning API.
// Write endpoints are guarded with authware role checks; the request
// authenticator itself never rejects, so every denial originates here.
package handler

import (
	"github.com/gofiber/fiber/v2"
	goerrors "github.com/goliatone/go-errors"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"

	"github.com/quitecodedevelopers/elearning/auth"
	"github.com/quitecodedevelopers/elearning/middleware/authware"
)

// ErrorHandler maps structured errors to HTTP responses. Register it as
// the fiber app's ErrorHandler.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var fiberErr *fiber.Error
	if goerrors.As(err, &fiberErr) {
		return c.Status(fiberErr.Code).JSON(fiber.Map{"error": fiberErr.Message})
	}

	if repository.IsRecordNotFound(err) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not found"})
	}

	var richErr *goerrors.Error
	if goerrors.As(err, &richErr) {
		return c.Status(statusFromCategory(richErr.Category)).JSON(fiber.Map{"error": richErr.Message})
	}

	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
}

func statusFromCategory(category goerrors.Category) int {
	switch category {
	case goerrors.CategoryAuth:
		return fiber.StatusUnauthorized
	case goerrors.CategoryNotFound:
		return fiber.StatusNotFound
	case goerrors.CategoryConflict:
		return fiber.StatusConflict
	case goerrors.CategoryValidation, goerrors.CategoryBadInput:
		return fiber.StatusBadRequest
	case goerrors.CategoryRateLimit:
		return fiber.StatusTooManyRequests
	default:
		return fiber.StatusInternalServerError
	}
}

// subjectFromRequest returns the authenticated subject email, or "" for
// anonymous requests.
func subjectFromRequest(c *fiber.Ctx, contextKey string) string {
	claims, ok := authware.ClaimsFromFiber(c, contextKey)
	if !ok {
		return ""
	}
	return claims.Subject()
}

// requireSubject is like subjectFromRequest but turns anonymous into 401.
func requireSubject(c *fiber.Ctx, contextKey string) (string, error) {
	subject := subjectFromRequest(c, contextKey)
	if subject == "" {
		return "", fiber.NewError(fiber.StatusUnauthorized, "authentication required")
	}
	return subject, nil
}

func paramUUID(c *fiber.Ctx, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params(name))
	if err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusBadRequest, "invalid "+name)
	}
	return id, nil
}

// guards bundles the middleware every route group needs.
type guards struct {
	contextKey string
}

func (g guards) authenticated() fiber.Handler {
	return authware.RequireAuthenticated(g.contextKey)
}

func (g guards) admin() fiber.Handler {
	return authware.RequireRole(g.contextKey, auth.RoleAdmin)
}
