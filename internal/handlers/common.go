package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/example/bazaar/internal/middleware"
	"github.com/example/bazaar/internal/policy"
)

// ErrorHandler renders every failure as {"error": message}.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		code = fiberErr.Code
	}
	return c.Status(code).JSON(fiber.Map{"error": err.Error()})
}

// authorize evaluates the endpoint policy for the current request. Denied
// anonymous actors get 401, denied authenticated actors 403.
func authorize(c *fiber.Ctx, p policy.Predicate, owner *uuid.UUID) error {
	actor := middleware.CurrentUser(c)
	if p(policy.Request{Actor: actor, Method: c.Method(), Owner: owner}) {
		return nil
	}

	if actor == nil {
		return fiber.NewError(fiber.StatusUnauthorized, "authentication required")
	}
	return fiber.NewError(fiber.StatusForbidden, "permission denied")
}
