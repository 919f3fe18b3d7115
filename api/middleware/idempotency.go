package middleware

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/educateagirl/storefront-api/api/responses"
	"github.com/educateagirl/storefront-api/api/validators"
	pkgerrors "github.com/educateagirl/storefront-api/pkg/errors"
	"github.com/educateagirl/storefront-api/pkg/logger"
	pkgredis "github.com/educateagirl/storefront-api/pkg/redis"
)

const (
	idempotencyHeader = "Idempotency-Key"

	defaultIdempotencyTTL  = 24 * time.Hour
	criticalIdempotencyTTL = 7 * 24 * time.Hour

	maxIdempotencyKeyLength = 255
)

// idempotentRoutes maps "METHOD path" to how long a stored response is replayed.
// Orders and checkout keep theirs longer since a duplicate costs real money.
var idempotentRoutes = map[string]time.Duration{
	"POST /api/products": defaultIdempotencyTTL,
	"POST /api/messages": defaultIdempotencyTTL,
	"POST /api/reviews":  defaultIdempotencyTTL,
	"POST /api/wishlist": defaultIdempotencyTTL,
	"POST /api/orders":   criticalIdempotencyTTL,
	"POST /api/checkout": criticalIdempotencyTTL,
}

type storedResponse struct {
	Status      int    `json:"status"`
	ContentType string `json:"content_type,omitempty"`
	Body        []byte `json:"body"`
	RequestHash string `json:"request_hash"`
}

// Idempotency replays the stored response for a repeated Idempotency-Key on
// covered routes. Keys are scoped per client IP, so callers sharing a key
// never see each other's responses. Requests without the header pass
// straight through.
func Idempotency(store pkgredis.IdempotencyStore, ips ClientIPResolver, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ttl, covered := routeTTL(r.Method, requestPath(r))
			clientKey := strings.TrimSpace(r.Header.Get(idempotencyHeader))
			if !covered || store == nil || clientKey == "" {
				next.ServeHTTP(w, r)
				return
			}
			ctx := r.Context()
			if len(clientKey) > maxIdempotencyKeyLength {
				responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, "Idempotency-Key header too long"))
				return
			}

			body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, validators.MaxBodyBytes))
			if err != nil {
				var tooLarge *http.MaxBytesError
				if errors.As(err, &tooLarge) {
					responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodePayloadTooLarge, "request body too large"))
					return
				}
				responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "unreadable request body"))
				return
			}
			r.Body = io.NopCloser(bytes.NewReader(body))

			hash := hashBody(body)
			key := store.IdempotencyKey(replayScope(r, ips), clientKey)

			prior, err := lookup(ctx, store, key, logg)
			if err != nil {
				responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check idempotency"))
				return
			}
			if prior != nil {
				if prior.RequestHash != hash {
					responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeIdempotency, "idempotency key reused with different request body"))
					return
				}
				prior.replay(w)
				return
			}

			rec := &responseCapture{ResponseWriter: w}
			next.ServeHTTP(rec, r)
			persist(ctx, store, key, ttl, rec, hash, logg)
		})
	}
}

// lookup returns the stored response for key, or nil when there is none.
// Undecodable records are dropped so the request runs fresh.
func lookup(ctx context.Context, store pkgredis.IdempotencyStore, key string, logg *logger.Logger) (*storedResponse, error) {
	raw, err := store.Get(ctx, key)
	if errors.Is(err, redis.Nil) || (err == nil && raw == "") {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var prior storedResponse
	if err := json.Unmarshal([]byte(raw), &prior); err != nil {
		logError(ctx, logg, "idempotency.record_corrupt", err)
		if delErr := store.Del(ctx, key); delErr != nil {
			logError(ctx, logg, "idempotency.record_delete", delErr)
		}
		return nil, nil
	}
	return &prior, nil
}

// persist stores the captured response unless it was a server failure,
// which stays retryable under the same key.
func persist(ctx context.Context, store pkgredis.IdempotencyStore, key string, ttl time.Duration, rec *responseCapture, hash string, logg *logger.Logger) {
	status := rec.statusCode()
	if status >= http.StatusInternalServerError {
		return
	}
	payload, err := json.Marshal(storedResponse{
		Status:      status,
		ContentType: rec.Header().Get("Content-Type"),
		Body:        rec.body.Bytes(),
		RequestHash: hash,
	})
	if err != nil {
		logError(ctx, logg, "idempotency.record_encode", err)
		return
	}
	if _, err := store.SetNX(ctx, key, string(payload), ttl); err != nil {
		logError(ctx, logg, "idempotency.record_store", err)
	}
}

func (s *storedResponse) replay(w http.ResponseWriter) {
	if s.ContentType != "" {
		w.Header().Set("Content-Type", s.ContentType)
	}
	w.Header().Set("Idempotent-Replayed", "true")
	w.WriteHeader(s.Status)
	_, _ = w.Write(s.Body)
}

func replayScope(r *http.Request, ips ClientIPResolver) string {
	return r.Method + "|" + requestPath(r) + "|" + ips.ClientIP(r)
}

func hashBody(payload []byte) string {
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:])
}

// requestPath is the path matched against idempotentRoutes. The route
// pattern is not final while group middleware runs, so the raw path is used.
func requestPath(r *http.Request) string {
	if r == nil || r.URL == nil {
		return ""
	}
	path := r.URL.Path
	if len(path) > 1 {
		path = strings.TrimSuffix(path, "/")
	}
	return path
}

func routeTTL(method, path string) (time.Duration, bool) {
	ttl, ok := idempotentRoutes[method+" "+path]
	return ttl, ok
}

// responseCapture tees the handler's response so it can be stored.
type responseCapture struct {
	http.ResponseWriter
	body   bytes.Buffer
	status int
}

func (r *responseCapture) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *responseCapture) Write(b []byte) (int, error) {
	if r.status == 0 {
		r.status = http.StatusOK
	}
	r.body.Write(b)
	return r.ResponseWriter.Write(b)
}

func (r *responseCapture) statusCode() int {
	if r.status == 0 {
		return http.StatusOK
	}
	return r.status
}

func logError(ctx context.Context, logg *logger.Logger, msg string, err error) {
	if logg == nil || err == nil {
		return
	}
	logg.Error(ctx, msg, err)
}
