package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/samirrijal/skysurvey/internal/core/coverage"
	"github.com/samirrijal/skysurvey/internal/core/usecases"
	"github.com/samirrijal/skysurvey/internal/pkg/geojson"
)

// APIError is a structured error response.
type APIError struct {
	Status    int    `json:"status"`
	Code      string `json:"code"`    // Error code: bad_request, not_found, degenerate_polygon, etc.
	Message   string `json:"message"` // Human-readable message
	RequestID string `json:"request_id,omitempty"`
}

// newError builds a JSON error response with a request ID.
func newError(c *fiber.Ctx, status int, code string, message string) error {
	reqID, _ := c.Locals("requestid").(string)
	return c.Status(status).JSON(APIError{
		Status:    status,
		Code:      code,
		Message:   message,
		RequestID: reqID,
	})
}

// errBadRequest returns a 400 error.
func errBadRequest(c *fiber.Ctx, msg string) error {
	return newError(c, 400, "bad_request", msg)
}

// errNotFound returns a 404 error.
func errNotFound(c *fiber.Ctx, msg string) error {
	return newError(c, 404, "not_found", msg)
}

// errInternal returns a 500 error.
func errInternal(c *fiber.Ctx, msg string) error {
	return newError(c, 500, "internal_error", msg)
}

// errConflict returns a 409 error.
func errConflict(c *fiber.Ctx, msg string) error {
	return newError(c, 409, "conflict", msg)
}

// errUnprocessable returns a 422 error with a specific code.
func errUnprocessable(c *fiber.Ctx, code, msg string) error {
	return newError(c, 422, code, msg)
}

// errFromService maps use case and planner errors to responses.
func errFromService(c *fiber.Ctx, err error) error {
	if code := coverage.ErrorCode(err); code != "" {
		return errUnprocessable(c, code, err.Error())
	}
	switch {
	case errors.Is(err, geojson.ErrUnsupportedGeometry):
		return errUnprocessable(c, "unsupported_geometry", err.Error())
	case errors.Is(err, usecases.ErrInvalidMission):
		return errUnprocessable(c, "invalid_mission", err.Error())
	case errors.Is(err, usecases.ErrInvalidDroneStatus):
		return errBadRequest(c, err.Error())
	case errors.Is(err, usecases.ErrMissionNotFound), errors.Is(err, usecases.ErrDroneNotFound):
		return errNotFound(c, err.Error())
	case errors.Is(err, usecases.ErrInvalidTransition), errors.Is(err, usecases.ErrDroneUnavailable):
		return errConflict(c, err.Error())
	}
	LoggerFromCtx(c.UserContext()).Error("request failed", "path", c.Path(), "error", err)
	return errInternal(c, "internal server error")
}
