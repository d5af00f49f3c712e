package flash

import "strings"

// Config holds flash cookie configuration.
type Config struct {
	// Secrets is a comma-separated list; the first one encrypts new cookies.
	Secrets string `env:"FLASH_SECRETS,required"`
	Name    string `env:"FLASH_COOKIE_NAME" envDefault:"__flash"`
	Domain  string `env:"FLASH_COOKIE_DOMAIN" envDefault:""`
	MaxAge  int    `env:"FLASH_COOKIE_MAX_AGE" envDefault:"300"`
	Secure  bool   `env:"FLASH_COOKIE_SECURE" envDefault:"false"`
}

func (c Config) secrets() []string {
	var out []string
	for s := range strings.SplitSeq(c.Secrets, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// NewFromConfig creates a Manager from cfg. Extra options are applied last.
func NewFromConfig(cfg Config, opts ...Option) (*Manager, error) {
	base := []Option{
		WithName(cfg.Name),
		WithDomain(cfg.Domain),
		WithSecure(cfg.Secure),
	}
	if cfg.MaxAge > 0 {
		base = append(base, WithMaxAge(cfg.MaxAge))
	}
	return New(cfg.secrets(), append(base, opts...)...)
}
