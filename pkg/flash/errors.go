package flash

import "errors"

var (
	ErrNoSecret       = errors.New("flash.no_secret")
	ErrSecretTooShort = errors.New("flash.secret_too_short")
	ErrInvalidCookie  = errors.New("flash.invalid_cookie")
)
