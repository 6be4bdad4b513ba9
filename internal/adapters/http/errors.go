package http

import "github.com/gofiber/fiber/v2"

// APIError is the structured error body returned by every endpoint.
type APIError struct {
	Status    int    `json:"status"`
	Code      string `json:"code"` // bad_request, not_found, upstream_error, ...
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

func newError(c *fiber.Ctx, status int, code string, message string) error {
	reqID, _ := c.Locals("requestid").(string)
	return c.Status(status).JSON(APIError{
		Status:    status,
		Code:      code,
		Message:   message,
		RequestID: reqID,
	})
}

func errBadRequest(c *fiber.Ctx, msg string) error {
	return newError(c, 400, "bad_request", msg)
}

func errNotFound(c *fiber.Ctx, msg string) error {
	return newError(c, 404, "not_found", msg)
}

func errInternal(c *fiber.Ctx, msg string) error {
	return newError(c, 500, "internal_error", msg)
}

// errUpstream reports exhausted geodata mirrors as a 502.
func errUpstream(c *fiber.Ctx, msg string) error {
	return newError(c, 502, "upstream_error", msg)
}
