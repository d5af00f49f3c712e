package audit

import "errors"

var (
	ErrActionRequired = errors.New("audit: action is required")
	ErrStoreFailed    = errors.New("audit: failed to store event")
)
