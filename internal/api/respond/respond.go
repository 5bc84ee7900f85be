// Package respond serializes the API's response envelope.
//
// Success: {statusCode, data, message, success}
// Error:   {success: false, message, errors, stack} with stack only outside
// production deployments.
package respond

import (
	"encoding/json"
	"net/http"
	"runtime/debug"

	"github.com/raghavk/vidtube/internal/domain"
)

// IncludeStack controls whether error responses carry a stack trace. Set once
// at startup from the environment; never enabled in production.
var IncludeStack bool

type successEnvelope struct {
	StatusCode int         `json:"statusCode"`
	Data       interface{} `json:"data"`
	Message    string      `json:"message"`
	Success    bool        `json:"success"`
}

type errorEnvelope struct {
	Success bool     `json:"success"`
	Message string   `json:"message"`
	Errors  []string `json:"errors"`
	Stack   string   `json:"stack,omitempty"`
}

func JSON(w http.ResponseWriter, statusCode int, data interface{}, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(successEnvelope{
		StatusCode: statusCode,
		Data:       data,
		Message:    message,
		Success:    statusCode < 400,
	})
}

// Error maps the error's kind to a status code and writes the error envelope.
func Error(w http.ResponseWriter, err error) {
	statusCode := statusFor(domain.Kind(err))

	envelope := errorEnvelope{
		Success: false,
		Message: err.Error(),
		Errors:  []string{},
	}
	if IncludeStack {
		envelope.Stack = string(debug.Stack())
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(envelope)
}

func statusFor(kind domain.ErrorKind) int {
	switch kind {
	case domain.KindValidation:
		return http.StatusBadRequest
	case domain.KindConflict:
		return http.StatusConflict
	case domain.KindNotFound:
		return http.StatusNotFound
	case domain.KindUnauthorized:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}
