package api

import (
	"encoding/json"
	"errors"
	"net/http"

	apperrors "github.com/matzehuels/brainlift/pkg/errors"
	"github.com/matzehuels/brainlift/pkg/store"
)

// errorResponse is the JSON body for failed requests.
type errorResponse struct {
	Error string         `json:"error"`
	Code  apperrors.Code `json:"code"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps domain errors to HTTP status codes. Unknown errors
// become 500s with a generic message so internals never leak to clients.
func writeError(w http.ResponseWriter, err error) {
	if errors.Is(err, store.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, errorResponse{
			Error: "brainlift not found",
			Code:  apperrors.ErrCodeBrainLiftNotFound,
		})
		return
	}

	code := apperrors.GetCode(err)
	writeJSON(w, statusFor(code), errorResponse{
		Error: apperrors.UserMessage(err),
		Code:  code,
	})
}

func statusFor(code apperrors.Code) int {
	switch code {
	case apperrors.ErrCodeInvalidInput,
		apperrors.ErrCodeInvalidURL,
		apperrors.ErrCodeInvalidOutline,
		apperrors.ErrCodeInvalidAnalysis,
		apperrors.ErrCodeInvalidConfig:
		return http.StatusBadRequest
	case apperrors.ErrCodeNotFound,
		apperrors.ErrCodeBrainLiftNotFound,
		apperrors.ErrCodeSectionNotFound:
		return http.StatusNotFound
	case apperrors.ErrCodeRateLimited:
		return http.StatusTooManyRequests
	case apperrors.ErrCodeTimeout:
		return http.StatusGatewayTimeout
	case apperrors.ErrCodeNetwork, apperrors.ErrCodeLLMUnavailable:
		return http.StatusBadGateway
	case apperrors.ErrCodeUnsupported:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
