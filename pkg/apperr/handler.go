package apperr

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/facility_platform/pkg/logging"
)

type errorBody struct {
	Message    string `json:"message"`
	StatusCode int    `json:"statusCode"`
}

type ErrorResponse struct {
	Success bool      `json:"success"`
	Error   errorBody `json:"error"`
}

func NewErrorResponse(status int, msg string) ErrorResponse {
	return ErrorResponse{Error: errorBody{Message: msg, StatusCode: status}}
}

// HTTPErrorHandler renders every error that escapes a handler or middleware.
// Operational errors keep their message, anything else becomes a generic 500.
func HTTPErrorHandler() echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		l := logging.FromContext(c.Request().Context())

		status, msg := resolve(err)
		switch {
		case status >= http.StatusInternalServerError:
			l.Error("unexpected_error", "status", status, "error", fmt.Sprintf("%+v", err))
		default:
			l.Debug("request_rejected", "status", status, "reason", msg)
		}

		var werr error
		if c.Request().Method == http.MethodHead {
			werr = c.NoContent(status)
		} else {
			werr = c.JSON(status, NewErrorResponse(status, msg))
		}
		if werr != nil {
			l.Error("write_error_response_failed", "error", werr)
		}
	}
}

func resolve(err error) (int, string) {
	var ae *Error
	if errors.As(err, &ae) {
		if !ae.Operational() {
			return http.StatusInternalServerError, "Internal Server Error"
		}
		return ae.Kind.Status(), ae.Message
	}

	var he *echo.HTTPError
	if errors.As(err, &he) {
		switch he.Code {
		case http.StatusNotFound:
			return http.StatusNotFound, "Route not found"
		case http.StatusInternalServerError:
			return http.StatusInternalServerError, "Internal Server Error"
		}
		if msg, ok := he.Message.(string); ok {
			return he.Code, msg
		}
		return he.Code, http.StatusText(he.Code)
	}

	return http.StatusInternalServerError, "Internal Server Error"
}

// StatusOf reports the status HTTPErrorHandler renders err with.
func StatusOf(err error) int {
	status, _ := resolve(err)
	return status
}
