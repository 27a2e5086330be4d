package httpapi

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/yaklabco/hl7lint/internal/logging"
)

// localRequestID is the fiber.Ctx local holding the request ID.
const localRequestID = "requestId"

// Response is the envelope of every JSON reply.
type Response struct {
	Data      any    `json:"data,omitempty"`
	Error     string `json:"error,omitempty"`
	RequestID string `json:"requestId,omitempty"`
}

// statusError carries the HTTP status a service error maps to.
type statusError struct {
	status int
	msg    string
	err    error
}

func (e *statusError) Error() string {
	if e.err == nil {
		return e.msg
	}

	return e.msg + ": " + e.err.Error()
}

func (e *statusError) Unwrap() error { return e.err }

func newStatusError(status int, msg string, err error) error {
	return &statusError{status: status, msg: msg, err: err}
}

func requestID(c *fiber.Ctx) string {
	id, _ := c.Locals(localRequestID).(string)

	return id
}

// applyErrorToResponse writes err as an error envelope. Errors without a
// status are reported as 500 with msg.
func applyErrorToResponse(c *fiber.Ctx, msg string, err error) error {
	status := fiber.StatusInternalServerError

	var se *statusError
	if errors.As(err, &se) {
		status = se.status
		msg = se.Error()
	}

	var fe *fiber.Error
	if errors.As(err, &fe) {
		status = fe.Code
		msg = fe.Message
	}

	if status >= fiber.StatusInternalServerError {
		logging.FromContext(c.UserContext()).Error(msg,
			logging.FieldRequestID, requestID(c),
			logging.FieldError, err)
	}

	return c.Status(status).JSON(Response{Error: msg, RequestID: requestID(c)})
}

func applySuccessToResponse(c *fiber.Ctx, data any) error {
	return c.Status(fiber.StatusOK).JSON(Response{Data: data, RequestID: requestID(c)})
}
