package response

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/prasetyadi/meeting-summarizer/internal/domain"
)

// Response represents a standard API response
type Response struct {
	Success bool `json:"success"`
	Data    any  `json:"data,omitempty"`
	Error   any  `json:"error,omitempty"`
}

// ErrorBody is the machine-readable error envelope.
type ErrorBody struct {
	Code         string `json:"code"`
	Message      string `json:"message"`
	RetryAllowed bool   `json:"retry_allowed"`
}

// JSON sends a JSON response
func JSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	resp := Response{
		Success: status >= 200 && status < 300,
		Data:    data,
	}

	json.NewEncoder(w).Encode(resp)
}

// OK sends a 200 OK response with data
func OK(w http.ResponseWriter, data any) {
	JSON(w, http.StatusOK, data)
}

// Error sends an error response with the given envelope
func Error(w http.ResponseWriter, status int, body ErrorBody) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	json.NewEncoder(w).Encode(Response{Success: false, Error: body})
}

// BadRequest sends a 400 validation error envelope
func BadRequest(w http.ResponseWriter, code domain.ErrorCode, message string) {
	Error(w, http.StatusBadRequest, ErrorBody{Code: string(code), Message: message, RetryAllowed: false})
}

// DomainError maps an application error to its HTTP status and envelope
func DomainError(w http.ResponseWriter, err error) {
	var derr *domain.Error
	if !errors.As(err, &derr) {
		derr = domain.NewError(domain.CodeInternal, "internal error", true)
	}

	Error(w, statusFor(derr.Code), ErrorBody{
		Code:         string(derr.Code),
		Message:      derr.Message,
		RetryAllowed: derr.RetryAllowed,
	})
}

func statusFor(code domain.ErrorCode) int {
	switch code {
	case domain.CodeFileFormat, domain.CodeFileSize, domain.CodeTranscription:
		return http.StatusBadRequest
	case domain.CodeSessionNotFound:
		return http.StatusNotFound
	case domain.CodeSummaryFinalized:
		return http.StatusConflict
	case domain.CodeWhisperService, domain.CodeClaudeCLI:
		return http.StatusBadGateway
	case domain.CodeTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}
