package middleware

import (
	"bytes"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/blumenwerk/shop-backend/api/responses"
	pkgerrors "github.com/blumenwerk/shop-backend/pkg/errors"
	"github.com/blumenwerk/shop-backend/pkg/logger"
	"github.com/blumenwerk/shop-backend/pkg/redis"
)

// checkoutIdempotencyTTL covers the window in which a shopper could plausibly
// re-submit the same attempt (reload, double click, flaky network).
const checkoutIdempotencyTTL = 24 * time.Hour

type idempotencyRecord struct {
	Status      int    `json:"status"`
	Body        string `json:"body"`
	RequestHash string `json:"request_hash"`
}

// Idempotency replays the stored response when the same Idempotency-Key is
// submitted twice with an identical body, and rejects reuse with a different
// body. The header is opt-in: callers without one go straight through, and a
// nil store disables the middleware entirely.
func Idempotency(store redis.IdempotencyStore, scope string, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			idempotencyKey := strings.TrimSpace(r.Header.Get("Idempotency-Key"))
			if store == nil || idempotencyKey == "" {
				next.ServeHTTP(w, r)
				return
			}

			body, err := io.ReadAll(r.Body)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read request"))
				return
			}
			r.Body = io.NopCloser(bytes.NewReader(body))

			requestHash := hashBody(body)
			key := store.IdempotencyKey(scope, idempotencyKey)

			stored, getErr := store.Get(r.Context(), key)
			if getErr != nil && !errors.Is(getErr, goredis.Nil) {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, getErr, "check idempotency"))
				return
			}
			if stored != "" {
				record, decodeErr := decodeRecord(stored)
				if decodeErr != nil {
					responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, decodeErr, "decode idempotency record"))
					return
				}
				if record.RequestHash != requestHash {
					responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeIdempotency, "idempotency key reused with different request body"))
					return
				}
				writeStoredResponse(w, record)
				return
			}

			rec := &responseCapture{ResponseWriter: w}
			next.ServeHTTP(rec, r)

			record := idempotencyRecord{
				Status:      defaultStatus(rec.status),
				Body:        base64.StdEncoding.EncodeToString(rec.body.Bytes()),
				RequestHash: requestHash,
			}
			encoded, encodeErr := json.Marshal(record)
			if encodeErr != nil {
				if logg != nil {
					logg.Error(r.Context(), "idempotency.encode_failed", encodeErr)
				}
				return
			}
			// First writer wins: if a concurrent request with the same key
			// already stored its response, keep that record.
			if _, setErr := store.SetNX(r.Context(), key, string(encoded), checkoutIdempotencyTTL); setErr != nil && logg != nil {
				logg.Error(r.Context(), "idempotency.store_failed", setErr)
			}
		})
	}
}

type responseCapture struct {
	http.ResponseWriter
	status int
	body   bytes.Buffer
}

func (c *responseCapture) WriteHeader(status int) {
	c.status = status
	c.ResponseWriter.WriteHeader(status)
}

func (c *responseCapture) Write(p []byte) (int, error) {
	c.body.Write(p)
	return c.ResponseWriter.Write(p)
}

func hashBody(body []byte) string {
	sum := sha256.Sum256(body)
	return hex.EncodeToString(sum[:])
}

func decodeRecord(raw string) (idempotencyRecord, error) {
	var record idempotencyRecord
	if err := json.Unmarshal([]byte(raw), &record); err != nil {
		return idempotencyRecord{}, err
	}
	return record, nil
}

func writeStoredResponse(w http.ResponseWriter, record idempotencyRecord) {
	payload, err := base64.StdEncoding.DecodeString(record.Body)
	if err != nil {
		payload = nil
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Idempotent-Replay", "true")
	w.WriteHeader(defaultStatus(record.Status))
	w.Write(payload)
}

func defaultStatus(status int) int {
	if status == 0 {
		return http.StatusOK
	}
	return status
}
