package middleware

import (
	"bytes"
	"context"
	"crypto/sha1"
	"fmt"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
)

// cacheWriter captures the response body and status while forwarding to
// the client.
type cacheWriter struct {
	http.ResponseWriter
	status int
	buf    bytes.Buffer
}

func (w *cacheWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *cacheWriter) Write(b []byte) (int, error) {
	w.buf.Write(b)
	return w.ResponseWriter.Write(b)
}

func cacheKey(r *http.Request) string {
	sum := sha1.Sum([]byte(r.URL.Path + "?" + r.URL.RawQuery))
	return fmt.Sprintf("httpcache:%x", sum[:])
}

// CacheGET returns a wrapper that serves successful GET responses from
// Redis for ttl. Only 200 responses with a JSON body are stored. A nil
// client disables caching and the wrapper becomes a passthrough.
func CacheGET(rdb *redis.Client, ttl time.Duration) func(http.HandlerFunc) http.HandlerFunc {
	if rdb == nil {
		return func(next http.HandlerFunc) http.HandlerFunc { return next }
	}
	if ttl <= 0 {
		ttl = time.Minute
	}
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet {
				next(w, r)
				return
			}
			key := cacheKey(r)
			if body, err := rdb.Get(r.Context(), key).Bytes(); err == nil {
				w.Header().Set("Content-Type", "application/json")
				w.Header().Set("X-Cache", "HIT")
				w.WriteHeader(http.StatusOK)
				_, _ = w.Write(body)
				return
			}
			cw := &cacheWriter{ResponseWriter: w, status: http.StatusOK}
			w.Header().Set("X-Cache", "MISS")
			next(cw, r)
			if cw.status == http.StatusOK {
				// Detached context so a cancelled request does not lose the entry.
				_ = rdb.SetEx(context.Background(), key, cw.buf.Bytes(), ttl).Err()
			}
		}
	}
}
