package tenant

import "time"

// Config holds tenant resolution settings loaded from the environment.
type Config struct {
	BaseDomain   string        `env:"TENANT_BASE_DOMAIN" envDefault:"localhost"` // BaseDomain is the root domain tenants are served under.
	HomeURL      string        `env:"TENANT_HOME_URL" envDefault:""`             // HomeURL is the public home page; set it when not serving on 80/443.
	CacheDriver  string        `env:"TENANT_CACHE_DRIVER" envDefault:"memory"`   // CacheDriver is one of "memory", "redis" or "none".
	CacheSize    int           `env:"TENANT_CACHE_SIZE" envDefault:"1000"`       // CacheSize caps the in-memory cache.
	CacheTTL     time.Duration `env:"TENANT_CACHE_TTL" envDefault:"5m"`          // CacheTTL is how long resolved tenants stay cached.
	CachePrefix  string        `env:"TENANT_CACHE_PREFIX" envDefault:"tenants:"` // CachePrefix namespaces redis cache keys.
	ScopeEnabled bool          `env:"TENANT_SCOPE_ENABLED" envDefault:"true"`    // ScopeEnabled installs the authorization scoper.
}

// Home returns the configured home URL or the base domain root.
// The derived "//<base>/" form carries no port, so deployments on a
// non-default port (e.g. localhost:8080) must set TENANT_HOME_URL.
func (c Config) Home() string {
	if c.HomeURL != "" {
		return c.HomeURL
	}
	if c.BaseDomain == "" {
		return "/"
	}
	return "//" + c.BaseDomain + "/"
}
