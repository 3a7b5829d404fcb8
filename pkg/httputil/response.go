package httputil

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	apperrors "github.com/keremustuner/Case-Study/pkg/errors"
	"github.com/keremustuner/Case-Study/pkg/logger"
	"github.com/keremustuner/Case-Study/pkg/validator"
)

// Response is the standard JSON response envelope.
type Response struct {
	Data  any            `json:"data,omitempty"`
	Error *ErrorResponse `json:"error,omitempty"`
}

// ErrorResponse represents an error in the standard response format.
type ErrorResponse struct {
	Code      string            `json:"code"`
	Message   string            `json:"message"`
	Fields    map[string]string `json:"fields,omitempty"`
	RequestID string            `json:"request_id,omitempty"`
}

// WriteJSON writes a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// Headers are already sent; nothing meaningful can be done if encoding fails.
	_ = json.NewEncoder(w).Encode(v)
}

// WriteData writes v wrapped in the data envelope.
func WriteData(w http.ResponseWriter, status int, v any) {
	WriteJSON(w, status, Response{Data: v})
}

// sentinelCodes maps bare sentinel errors to their public code and message.
var sentinelCodes = []struct {
	err     error
	code    string
	message string
}{
	{apperrors.ErrNotFound, "NOT_FOUND", "resource not found"},
	{apperrors.ErrInvalidInput, "INVALID_INPUT", ""},
	{apperrors.ErrUnprocessable, "UNPROCESSABLE", ""},
	{apperrors.ErrServiceUnavail, "SERVICE_UNAVAILABLE", "service unavailable"},
}

// WriteError writes a standardized error response based on the error type.
// Server-side failures (5xx) are logged with the request-scoped logger when
// the RequestLogger middleware is mounted, otherwise with fallback.
func WriteError(w http.ResponseWriter, r *http.Request, err error, fallback *slog.Logger) {
	l := logger.FromContext(r.Context())
	if l == slog.Default() && fallback != nil {
		l = fallback
	}
	requestID := logger.CorrelationIDFromContext(r.Context())

	status := apperrors.HTTPStatus(err)
	code := "INTERNAL_ERROR"
	message := "an internal error occurred"

	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		code, message = appErr.Code, appErr.Message
	} else {
		for _, s := range sentinelCodes {
			if errors.Is(err, s.err) {
				code, message = s.code, s.message
				if message == "" {
					message = err.Error()
				}
				break
			}
		}
	}

	if status >= http.StatusInternalServerError {
		l.ErrorContext(r.Context(), "request failed",
			slog.String("error", err.Error()),
			slog.Int("status", status),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
		)
	}

	WriteJSON(w, status, Response{
		Error: &ErrorResponse{Code: code, Message: message, RequestID: requestID},
	})
}

// WriteValidationError writes a 400 response. Field-level details are
// included when err is a *validator.ValidationError.
func WriteValidationError(w http.ResponseWriter, r *http.Request, err error) {
	requestID := logger.CorrelationIDFromContext(r.Context())

	var valErr *validator.ValidationError
	if errors.As(err, &valErr) {
		WriteJSON(w, http.StatusBadRequest, Response{
			Error: &ErrorResponse{
				Code:      "VALIDATION_ERROR",
				Message:   "request validation failed",
				Fields:    valErr.Fields(),
				RequestID: requestID,
			},
		})
		return
	}

	WriteJSON(w, http.StatusBadRequest, Response{
		Error: &ErrorResponse{Code: "INVALID_INPUT", Message: err.Error(), RequestID: requestID},
	})
}
