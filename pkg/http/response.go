package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
)

// ErrorEnvelope is the wire shape for every failed request.
type ErrorEnvelope struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// SuccessResponse writes payload as-is with HTTP 200. Payloads carry their
// own `success: true` field.
func SuccessResponse(c echo.Context, payload interface{}) error {
	return c.JSON(http.StatusOK, payload)
}

// ErrorResponse writes the error envelope with the given status.
func ErrorResponse(c echo.Context, status int, msg string) error {
	return c.JSON(status, ErrorEnvelope{Success: false, Error: msg})
}

// BadRequestResponse writes a 400 error envelope.
func BadRequestResponse(c echo.Context, msg string) error {
	return ErrorResponse(c, http.StatusBadRequest, msg)
}

// InternalErrorResponse writes a 500 error envelope.
func InternalErrorResponse(c echo.Context, msg string) error {
	return ErrorResponse(c, http.StatusInternalServerError, msg)
}

// AppErrorResponse maps an error to the envelope, honoring AppError status.
func AppErrorResponse(c echo.Context, err error) error {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return ErrorResponse(c, appErr.Status, appErr.Message)
	}
	return ErrorResponse(c, http.StatusInternalServerError, err.Error())
}
