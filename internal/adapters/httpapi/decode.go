package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"
)

const maxBodyBytes = 1 << 20

// decodeJSON reads exactly one JSON value into dst, rejecting unknown fields.
// On failure it writes a 400 and returns false.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if r.Body == nil || r.Body == http.NoBody {
		writeError(w, r, http.StatusBadRequest, codeBadJSON, "missing request body", nil)
		return false
	}
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		msg := "malformed JSON body"
		if errors.Is(err, io.EOF) {
			msg = "missing request body"
		}
		writeError(w, r, http.StatusBadRequest, codeBadJSON, msg, map[string]any{"reason": err.Error()})
		return false
	}
	if dec.More() {
		writeError(w, r, http.StatusBadRequest, codeBadJSON, "body must contain a single JSON value", nil)
		return false
	}
	return true
}

// pathID binds the {id} route parameter. On failure it writes a 400 and
// returns false.
func pathID(w http.ResponseWriter, r *http.Request) (int, bool) {
	var id int
	err := runtime.BindStyledParameterWithOptions("simple", "id", chi.URLParam(r, "id"), &id, runtime.BindStyledParameterOptions{
		ParamLocation: runtime.ParamLocationPath,
		Explode:       false,
		Required:      true,
	})
	if err != nil {
		writeError(w, r, http.StatusBadRequest, codeInvalidParameter, "id must be an integer", map[string]any{"id": chi.URLParam(r, "id")})
		return 0, false
	}
	return id, true
}

// reconcileID merges the path id into a body id. A body id that disagrees
// with the path is rejected.
func reconcileID(w http.ResponseWriter, r *http.Request, pathValue int, body *int) (*int, bool) {
	if body != nil && *body != pathValue {
		writeError(w, r, http.StatusBadRequest, codeInconsistent,
			fmt.Sprintf("body id %d does not match path id %d", *body, pathValue),
			map[string]any{"id": *body, "pathId": pathValue})
		return nil, false
	}
	v := pathValue
	return &v, true
}
