package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/miruku-pixel/poddo-pos-engine/internal/domain"
)

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type ErrorResponse struct {
	Error  string            `json:"error"`
	Kind   string            `json:"kind,omitempty"`
	Errors []ValidationError `json:"errors,omitempty"`
}

func kindLabel(kind domain.ErrorKind) string {
	switch kind {
	case domain.KindValidation:
		return "validation"
	case domain.KindAuthorization:
		return "authorization"
	case domain.KindConflict:
		return "conflict"
	case domain.KindSession:
		return "session"
	case domain.KindTransport:
		return "transport"
	default:
		return ""
	}
}

// respondError maps the error taxonomy onto HTTP statuses. Anything
// untyped is a backend failure the operator can retry.
func respondError(w http.ResponseWriter, err error) {
	if errors.Is(err, domain.ErrOrderNotFound) {
		writeJSON(w, http.StatusNotFound, ErrorResponse{Error: domain.ErrOrderNotFound.Error()})
		return
	}

	status := http.StatusInternalServerError
	resp := ErrorResponse{Error: err.Error()}

	kind := domain.KindOf(err)
	resp.Kind = kindLabel(kind)

	switch kind {
	case domain.KindValidation:
		status = http.StatusBadRequest
		var e *domain.Error
		if errors.As(err, &e) && e.Field != "" {
			resp.Errors = []ValidationError{{Field: e.Field, Message: e.Message}}
		}
	case domain.KindAuthorization:
		status = http.StatusForbidden
	case domain.KindConflict:
		status = http.StatusConflict
	case domain.KindSession:
		status = http.StatusUnauthorized
	case domain.KindTransport:
		status = http.StatusBadGateway
	}

	writeJSON(w, status, resp)
}

func respondValidationErrors(w http.ResponseWriter, errs []ValidationError) {
	writeJSON(w, http.StatusBadRequest, ErrorResponse{
		Error:  "Validation failed",
		Kind:   "validation",
		Errors: errs,
	})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
