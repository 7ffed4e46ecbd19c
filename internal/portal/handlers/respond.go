package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	e "github.com/psgplacements/interview-platform/internal/portal/errors"
	"go.uber.org/zap"
)

// APIError is the structured error body. Clients branch on Code, never on
// message text.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// APIResponse is the envelope for every JSON response.
type APIResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   *APIError   `json:"error,omitempty"`
}

const (
	codeInvalidInput     = "INVALID_INPUT"
	codeNotFound         = "NOT_FOUND"
	codeDuplicateName    = "DUPLICATE_NAME"
	codeDuplicatePending = "DUPLICATE_PENDING_REQUEST"
	codeStatusConflict   = "STATUS_CONFLICT"
	codeCredentialTaken  = "CREDENTIAL_TAKEN"
	codeUnauthorized     = "UNAUTHORIZED"
	codeForbidden        = "FORBIDDEN"
	codeInternal         = "INTERNAL"
)

func writeJSON(w http.ResponseWriter, statusCode int, resp APIResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

func writeData(w http.ResponseWriter, statusCode int, data interface{}) {
	writeJSON(w, statusCode, APIResponse{Success: true, Data: data})
}

func writeMessage(w http.ResponseWriter, statusCode int, message string, data interface{}) {
	writeJSON(w, statusCode, APIResponse{Success: true, Message: message, Data: data})
}

func writeError(w http.ResponseWriter, statusCode int, code, message string) {
	writeJSON(w, statusCode, APIResponse{
		Success: false,
		Error:   &APIError{Code: code, Message: message},
	})
}

// writeServiceError maps service-layer sentinel errors to HTTP status and
// wire codes. Unrecognized errors are logged and reported as internal.
func (h *Handler) writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, e.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, codeInvalidInput, err.Error())
	case errors.Is(err, e.ErrDuplicatePending):
		writeError(w, http.StatusBadRequest, codeDuplicatePending,
			"You already have a pending request for this company")
	case errors.Is(err, e.ErrNotFound):
		writeError(w, http.StatusNotFound, codeNotFound, err.Error())
	case errors.Is(err, e.ErrDuplicateName):
		writeError(w, http.StatusConflict, codeDuplicateName, err.Error())
	case errors.Is(err, e.ErrStatusConflict):
		writeError(w, http.StatusConflict, codeStatusConflict, err.Error())
	case errors.Is(err, e.ErrCredentialTaken):
		writeError(w, http.StatusConflict, codeCredentialTaken, err.Error())
	case errors.Is(err, e.ErrForbidden):
		writeError(w, http.StatusForbidden, codeForbidden, err.Error())
	default:
		h.logger.Error("Request failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, codeInternal, "internal error")
	}
}
