package ratelimiter

import (
	"hash/fnv"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/dmitrymomot/tenants/pkg/clientip"
	"github.com/dmitrymomot/tenants/pkg/logger"
)

const maxKeyLength = 64

// KeyFunc extracts the bucket key from a request. An empty key bypasses the
// limiter.
type KeyFunc func(r *http.Request) string

// ByClientIP keys requests by the address stored by clientip.Middleware,
// falling back to the connection address.
func ByClientIP(r *http.Request) string {
	if ip := clientip.FromContext(r.Context()); ip != "" {
		return ip
	}
	return clientip.FromRequest(r)
}

// ByHeader keys requests by the value of one header.
func ByHeader(name string) KeyFunc {
	return func(r *http.Request) string { return r.Header.Get(name) }
}

// Composite joins the non-empty keys of several functions. Keys longer than
// 64 bytes are replaced by their FNV-1a hash.
func Composite(fns ...KeyFunc) KeyFunc {
	return func(r *http.Request) string {
		parts := make([]string, 0, len(fns))
		for _, fn := range fns {
			if k := fn(r); k != "" {
				parts = append(parts, k)
			}
		}

		key := strings.Join(parts, ":")
		if len(key) <= maxKeyLength {
			return key
		}
		h := fnv.New64a()
		_, _ = h.Write([]byte(key))
		return strconv.FormatUint(h.Sum64(), 36)
	}
}

// Middleware rejects requests over the limit with 429. Store failures let the
// request through and are logged.
func Middleware(b *Bucket, key KeyFunc, log *slog.Logger) func(http.Handler) http.Handler {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			k := key(r)
			if k == "" {
				next.ServeHTTP(w, r)
				return
			}

			res, err := b.Allow(r.Context(), k)
			if err != nil {
				log.ErrorContext(r.Context(), "rate limit check failed", logger.Error(err))
				next.ServeHTTP(w, r)
				return
			}

			h := w.Header()
			h.Set("X-RateLimit-Limit", strconv.Itoa(res.Limit))
			h.Set("X-RateLimit-Remaining", strconv.Itoa(max(0, res.Remaining)))
			h.Set("X-RateLimit-Reset", strconv.FormatInt(res.ResetAt.Unix(), 10))

			if !res.Allowed() {
				secs := int(res.RetryAfter().Seconds())
				h.Set("Retry-After", strconv.Itoa(max(1, secs)))
				log.WarnContext(r.Context(), "rate limit exceeded", slog.String("key", k))
				http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
