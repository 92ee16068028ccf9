package httpapi

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-logr/logr"

	"github.com/cinedex/catalog-api/internal/ports/out/idempotency"
)

const (
	headerIdempotencyKey = "Idempotency-Key"
	headerReplayed       = "Idempotent-Replayed"
)

// handlerResult is what a write handler produces before it is serialized.
type handlerResult struct {
	status int
	body   any
}

// hashBody hashes the canonical JSON form of a decoded request body.
func hashBody(canon any) (string, error) {
	raw, err := json.Marshal(canon)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:]), nil
}

// idempotent runs handle under the Idempotency-Key protocol:
//   - no key: handle runs normally
//   - same key and body hash: the stored 2xx response is replayed
//   - same key with a different body hash: 409 IDEMPOTENCY_KEY_REUSE
//
// A 2xx response claims the key: the body hash is stored under a meta
// fingerprint (empty BodyHash) and the response under the full fingerprint.
// Failed attempts store nothing, so the client may retry with a corrected body.
func (s *Server) idempotent(w http.ResponseWriter, r *http.Request, route string, canon any, handle func() (handlerResult, error)) {
	ctx := r.Context()
	key := strings.TrimSpace(r.Header.Get(headerIdempotencyKey))
	if key == "" || s.Idem == nil {
		res, err := handle()
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeJSON(w, res.status, res.body)
		return
	}

	bodyHash, err := hashBody(canon)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	metaFP := idempotency.Fingerprint{
		Key:      idempotency.Key(key),
		Method:   r.Method,
		Route:    route,
		BodyHash: "",
	}
	meta, claimed, err := s.Idem.Get(ctx, metaFP)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	if claimed && string(meta.Body) != bodyHash {
		writeError(w, r, http.StatusConflict, codeIdempotencyReuse, "idempotency key reuse with different payload", nil)
		return
	}

	respFP := metaFP
	respFP.BodyHash = bodyHash
	if claimed {
		if rec, ok, err := s.Idem.Get(ctx, respFP); err != nil {
			writeServiceError(w, r, err)
			return
		} else if ok && rec.StatusCode >= 200 && rec.StatusCode < 300 {
			logr.FromContextOrDiscard(ctx).V(1).Info("replaying idempotent response", "route", route, "status", rec.StatusCode)
			w.Header().Set("Content-Type", rec.ContentType)
			w.Header().Set(headerReplayed, "true")
			w.WriteHeader(rec.StatusCode)
			_, _ = w.Write(rec.Body)
			return
		}
	}

	res, err := handle()
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	b, err := json.Marshal(res.body)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	if res.status >= 200 && res.status < 300 {
		s.storeIdempotent(ctx, route, metaFP, respFP, idempotency.Record{
			StatusCode:  res.status,
			ContentType: "application/json",
			Body:        b,
			CreatedAt:   s.now(),
		})
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(res.status)
	_, _ = w.Write(append(b, '\n'))
}

// storeIdempotent records the claim on the key and then the response. Storage
// failures are logged; the response itself has already been produced.
func (s *Server) storeIdempotent(ctx context.Context, route string, metaFP, respFP idempotency.Fingerprint, rec idempotency.Record) {
	log := logr.FromContextOrDiscard(ctx)
	if err := s.Idem.Put(ctx, metaFP, idempotency.Record{
		ContentType: "text/plain",
		Body:        []byte(respFP.BodyHash),
		CreatedAt:   rec.CreatedAt,
	}); err != nil {
		log.Error(err, "store idempotency key claim", "route", route)
		return
	}
	if err := s.Idem.Put(ctx, respFP, rec); err != nil {
		log.Error(err, "store idempotent response", "route", route)
	}
}
