package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/samirrijal/trailview/internal/core/domain"
)

// APIError is a structured error response.
type APIError struct {
	Status    int    `json:"status"`
	Code      string `json:"code"`    // Error code: bad_request, not_found, internal_error, etc.
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

// errUnavailable returns a 503 error.
func errUnavailable(c *fiber.Ctx, msg string) error {
	return newError(c, 503, "unavailable", msg)
}

// clientErrors are the domain errors caused by the request itself.
var clientErrors = []error{
	domain.ErrEmptyRoute,
	domain.ErrMalformedPoint,
	domain.ErrInvalidSlug,
	domain.ErrUnknownFormat,
	domain.ErrInvalidDocument,
	domain.ErrUnknownUnit,
	domain.ErrUnknownVariant,
	domain.ErrInvalidCamera,
	domain.ErrPopupOutOfRange,
}

// errFromService maps a service error onto the error envelope. Anything
// unrecognised is logged and hidden behind a 500.
func errFromService(c *fiber.Ctx, err error) error {
	if errors.Is(err, domain.ErrNotFound) {
		return errNotFound(c, err.Error())
	}
	for _, target := range clientErrors {
		if errors.Is(err, target) {
			return errBadRequest(c, err.Error())
		}
	}
	LoggerFromCtx(c.UserContext()).Error("request failed",
		"method", c.Method(),
		"path", c.Path(),
		"error", err,
	)
	return errInternal(c, "internal error")
}
