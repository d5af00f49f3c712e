package tenants

import "errors"

var (
	ErrSlugTaken    = errors.New("tenant slug already taken")
	ErrStoreFailure = errors.New("tenant store failure")
)
