// Package requestid tags every request with an identifier.
//
// Middleware reuses a client supplied X-Request-ID when it is made of letters,
// digits, dashes and underscores (up to 128 bytes) and otherwise generates a
// UUIDv7. The id is echoed back in the response header and stored in the
// request context, where LoggerExtractor picks it up for log records.
package requestid
