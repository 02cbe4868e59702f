// Package response writes JSON responses for the handlers that sit outside the
// huma API, such as middleware rejections and the fallback error path.
package response

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	domainerrors "github.com/j0yzhu/GameWebApp/internal/errors"
)

// Envelope provides a consistent JSON response structure.
type Envelope struct {
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
	Code    string `json:"code,omitempty"`
	Details any    `json:"details,omitempty"`
	Success bool   `json:"success"`
}

// JSON writes a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, data any, logger *slog.Logger) {
	write(w, status, Envelope{Success: status < 400, Data: data}, logger)
}

// Success writes a successful JSON response (200 OK).
func Success(w http.ResponseWriter, data any, logger *slog.Logger) {
	JSON(w, http.StatusOK, data, logger)
}

// Error writes an error response with the given status code.
func Error(w http.ResponseWriter, status int, message string, logger *slog.Logger) {
	write(w, status, Envelope{Error: message}, logger)
}

// TooManyRequests writes a 429 response.
func TooManyRequests(w http.ResponseWriter, message string, logger *slog.Logger) {
	w.Header().Set("Retry-After", "60")
	write(w, http.StatusTooManyRequests, Envelope{
		Error: message,
		Code:  string(domainerrors.CodeRateLimited),
	}, logger)
}

// HandleError writes an appropriate HTTP response based on the error type.
// Service errors carry their own status; unknown errors become 500 and are
// logged without leaking their text to the client.
func HandleError(w http.ResponseWriter, err error, logger *slog.Logger) {
	var appErr *domainerrors.Error
	if errors.As(err, &appErr) && appErr.Code != domainerrors.CodeInternal {
		write(w, appErr.HTTPStatus(), Envelope{
			Error:   appErr.Message,
			Code:    string(appErr.Code),
			Details: appErr.Details,
		}, logger)
		return
	}

	if logger != nil {
		logger.Error("Unhandled error", "error", err)
	}
	write(w, http.StatusInternalServerError, Envelope{
		Error: "internal server error",
		Code:  string(domainerrors.CodeInternal),
	}, logger)
}

func write(w http.ResponseWriter, status int, envelope Envelope, logger *slog.Logger) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(envelope); err != nil {
		if logger != nil {
			logger.Error("Failed to encode JSON response", "error", err)
		}
	}
}
