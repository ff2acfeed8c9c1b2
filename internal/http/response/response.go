// Package response provides standardized HTTP response formatting and error handling utilities.
package response

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	domainerrors "github.com/camiseteria/camiseteria-server/internal/errors"
)

// Envelope provides a consistent JSON response structure.
type Envelope struct {
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
	Code    string `json:"code,omitempty"`
	Details any    `json:"details,omitempty"`
	Message string `json:"message,omitempty"`
	Success bool   `json:"success"`
}

// JSON writes a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, data any, logger *slog.Logger) {
	write(w, status, Envelope{
		Success: status < 400,
		Data:    data,
	}, logger)
}

// Success writes a successful JSON response (200 OK).
func Success(w http.ResponseWriter, data any, logger *slog.Logger) {
	JSON(w, http.StatusOK, data, logger)
}

// SuccessMessage writes a 200 OK response carrying data and a human-readable message.
func SuccessMessage(w http.ResponseWriter, data any, message string, logger *slog.Logger) {
	write(w, http.StatusOK, Envelope{
		Success: true,
		Data:    data,
		Message: message,
	}, logger)
}

// Error writes an error response with the given status code.
func Error(w http.ResponseWriter, status int, message string, logger *slog.Logger) {
	write(w, status, Envelope{
		Success: false,
		Error:   message,
	}, logger)
}

// Unauthorized writes a 401 Unauthorized response.
func Unauthorized(w http.ResponseWriter, message string, logger *slog.Logger) {
	Error(w, http.StatusUnauthorized, message, logger)
}

// NotFound writes a 404 Not Found response.
func NotFound(w http.ResponseWriter, message string, logger *slog.Logger) {
	Error(w, http.StatusNotFound, message, logger)
}

// InternalError writes a 500 Internal Server Error response.
func InternalError(w http.ResponseWriter, message string, logger *slog.Logger) {
	Error(w, http.StatusInternalServerError, message, logger)
}

// HandleError writes an appropriate HTTP response based on the error type.
// Domain errors are mapped to their HTTP codes, unknown errors become 500.
// Messages of server-side failures are logged, never sent to the client.
func HandleError(w http.ResponseWriter, err error, logger *slog.Logger) {
	var domainErr *domainerrors.Error
	if !errors.As(err, &domainErr) {
		if logger != nil {
			logger.Error("Unhandled error", "error", err)
		}
		InternalError(w, "internal server error", logger)
		return
	}

	status := domainErr.HTTPStatus()
	message := domainErr.Message
	switch domainErr.Code {
	case domainerrors.CodeInternal, domainerrors.CodeCorruptData:
		if logger != nil {
			logger.Error("Request failed", "code", domainErr.Code, "error", err)
		}
		message = "internal server error"
	case domainerrors.CodeUpstream:
		if logger != nil {
			logger.Error("Upstream failure", "error", err)
		}
	}

	write(w, status, Envelope{
		Success: false,
		Error:   message,
		Code:    string(domainErr.Code),
		Details: domainErr.Details,
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
