// Package httpserver runs the public HTTP listener.
//
// Server wraps net/http with signal aware graceful shutdown and exposes Ready
// and Addr so callers (and tests) can wait for the listener. Liveness and
// Readiness provide JSON health endpoints; Readiness runs named dependency
// checks such as pg.Healthcheck and redis.Healthcheck.
//
//	srv := httpserver.New(cfg, log)
//	err := srv.Run(ctx, router)
package httpserver
