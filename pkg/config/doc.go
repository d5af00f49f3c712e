// Package config loads typed configuration from environment variables.
//
// Values come from the process environment, optionally seeded from dotenv
// files. Structs are described with `env` and `envDefault` tags from
// github.com/caarlos0/env/v11; each type is parsed once and cached.
//
//	config.LoadEnvFiles(".env.local")
//
//	var cfg tenant.Config
//	config.MustLoad(&cfg)
package config
