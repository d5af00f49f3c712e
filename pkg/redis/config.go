package redis

import "time"

// Config holds Redis connection settings. Redis is optional for the tenants
// service, so the URL is not required at load time.
type Config struct {
	// ConnectionURL has the form "redis://:password@localhost:6379/0".
	ConnectionURL  string        `env:"REDIS_URL"`
	RetryAttempts  int           `env:"REDIS_RETRY_ATTEMPTS" envDefault:"3"`
	RetryInterval  time.Duration `env:"REDIS_RETRY_INTERVAL" envDefault:"2s"`
	ConnectTimeout time.Duration `env:"REDIS_CONNECT_TIMEOUT" envDefault:"30s"`
}
