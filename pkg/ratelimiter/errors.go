package ratelimiter

import "errors"

var (
	ErrInvalidConfig     = errors.New("ratelimiter: invalid configuration")
	ErrInvalidTokenCount = errors.New("ratelimiter: invalid token count")
	ErrStoreUnavailable  = errors.New("ratelimiter: store unavailable")
)
