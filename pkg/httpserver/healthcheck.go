package httpserver

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/dmitrymomot/tenants/pkg/logger"
)

// Check probes one dependency.
type Check func(ctx context.Context) error

const checkTimeout = 3 * time.Second

// Liveness always answers 200 with {"status":"alive"}.
func Liveness() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		writeStatus(w, http.StatusOK, map[string]any{"status": "alive"})
	}
}

// Readiness runs every named check against the request context. It answers
// 200 when all pass and 503 otherwise, listing each check's outcome.
func Readiness(log *slog.Logger, checks map[string]Check) http.HandlerFunc {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), checkTimeout)
		defer cancel()

		code, status := http.StatusOK, "ready"
		results := make(map[string]string, len(checks))
		for name, check := range checks {
			if err := check(ctx); err != nil {
				log.WarnContext(ctx, "readiness check failed", slog.String("check", name), logger.Error(err))
				results[name] = "failing"
				code, status = http.StatusServiceUnavailable, "not_ready"
				continue
			}
			results[name] = "ok"
		}

		writeStatus(w, code, map[string]any{"status": status, "checks": results})
	}
}

func writeStatus(w http.ResponseWriter, code int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(body)
}
