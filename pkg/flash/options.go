package flash

import "net/http"

// DefaultCookieName is the cookie carrying pending messages.
const DefaultCookieName = "__flash"

// Options are the cookie attributes used by Manager.
type Options struct {
	Name     string
	Path     string
	Domain   string
	MaxAge   int
	Secure   bool
	SameSite http.SameSite
}

type Option func(*Options)

func WithName(name string) Option {
	return func(o *Options) {
		if name != "" {
			o.Name = name
		}
	}
}

func WithPath(path string) Option {
	return func(o *Options) {
		o.Path = path
	}
}

// WithDomain sets the cookie domain. Use the root domain so messages set on
// a tenant subdomain are readable on the public home page.
func WithDomain(domain string) Option {
	return func(o *Options) {
		o.Domain = domain
	}
}

func WithMaxAge(seconds int) Option {
	return func(o *Options) {
		o.MaxAge = seconds
	}
}

func WithSecure(secure bool) Option {
	return func(o *Options) {
		o.Secure = secure
	}
}

func WithSameSite(sameSite http.SameSite) Option {
	return func(o *Options) {
		o.SameSite = sameSite
	}
}

func defaultOptions() Options {
	return Options{
		Name:     DefaultCookieName,
		Path:     "/",
		MaxAge:   300,
		SameSite: http.SameSiteLaxMode,
	}
}

func applyOptions(base Options, opts []Option) Options {
	for _, opt := range opts {
		opt(&base)
	}
	return base
}
