package redis

import "errors"

var (
	ErrEmptyConnectionURL           = errors.New("redis: empty connection url")
	ErrFailedToParseRedisConnString = errors.New("redis: failed to parse connection url")
	ErrRedisNotReady                = errors.New("redis: not ready within the retry budget")
	ErrHealthcheckFailed            = errors.New("redis: healthcheck failed")
)
