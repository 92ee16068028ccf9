package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-logr/logr"
	"github.com/oapi-codegen/nullable"

	"github.com/cinedex/catalog-api/internal/app/directors"
	"github.com/cinedex/catalog-api/internal/app/movies"
)

const (
	codeBadJSON          = "BAD_JSON"
	codeInvalidParameter = "INVALID_PARAMETER"
	codeInconsistent     = "INCONSISTENT_INPUT"
	codeIdempotencyReuse = "IDEMPOTENCY_KEY_REUSE"
	codeNotFound         = "NOT_FOUND"
	codeMethodNotAllowed = "METHOD_NOT_ALLOWED"
	codeInternal         = "INTERNAL"
)

type ErrorBody struct {
	Code      string                            `json:"code"`
	Message   string                            `json:"message"`
	Details   nullable.Nullable[map[string]any] `json:"details,omitempty"`
	RequestID nullable.Nullable[string]         `json:"requestId,omitempty"`
}

type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

func writeError(w http.ResponseWriter, r *http.Request, status int, code string, message string, details map[string]any) {
	var er ErrorResponse
	er.Error.Code = code
	er.Error.Message = message
	if details != nil {
		er.Error.Details = nullable.NewNullableWithValue(details)
	}
	if rid := middleware.GetReqID(r.Context()); rid != "" {
		er.Error.RequestID = nullable.NewNullableWithValue(rid)
	}
	writeJSON(w, status, er)
}

// writeServiceError maps application errors onto the error envelope. Anything
// else is logged and reported as a generic 500 so driver text never leaks.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	if de := (*directors.Error)(nil); errors.As(err, &de) {
		writeError(w, r, de.Status, de.Code, de.Message, de.Details)
		return
	}
	if me := (*movies.Error)(nil); errors.As(err, &me) {
		writeError(w, r, me.Status, me.Code, me.Message, me.Details)
		return
	}
	logr.FromContextOrDiscard(r.Context()).Error(err, "request failed")
	writeError(w, r, http.StatusInternalServerError, codeInternal, "internal error", nil)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
