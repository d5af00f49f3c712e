package config

import (
	"errors"
	"fmt"
	"reflect"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

var (
	envFileOnce sync.Once

	mu    sync.Mutex
	cache = make(map[reflect.Type]any)
)

// LoadEnvFiles reads the given dotenv files (".env" when none are given)
// into the process environment. Variables already set are not overridden
// and missing files are ignored. Only the first call has an effect, so call
// it before the first Load when a non-default file is wanted.
func LoadEnvFiles(files ...string) {
	envFileOnce.Do(func() {
		if len(files) == 0 {
			_ = godotenv.Load()
			return
		}
		for _, f := range files {
			_ = godotenv.Load(f)
		}
	})
}

// Load fills v from environment variables using `env` and `envDefault` struct
// tags. Each configuration type is parsed once; later calls get the cached copy.
//
//	var cfg pg.Config
//	if err := config.Load(&cfg); err != nil { ... }
func Load[T any](v *T) error {
	if v == nil {
		return ErrNilPointer
	}
	LoadEnvFiles()

	key := reflect.TypeFor[T]()

	mu.Lock()
	defer mu.Unlock()

	if cached, ok := cache[key]; ok {
		*v = cached.(T)
		return nil
	}

	var parsed T
	if err := env.Parse(&parsed); err != nil {
		return errors.Join(ErrParsingConfig, err)
	}
	cache[key] = parsed
	*v = parsed
	return nil
}

// MustLoad is Load that panics on failure. Use it only at startup.
func MustLoad[T any](v *T) {
	if err := Load(v); err != nil {
		panic(fmt.Sprintf("failed to load required configuration: %v", err))
	}
}
