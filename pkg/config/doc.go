// Package config loads typed configuration from the environment and,
// optionally, a YAML file. Each type is loaded once and cached for
// subsequent calls.
//
// Environment variables are parsed with caarlos0/env, so fields are
// declared with env and envDefault tags. A .env file in the working
// directory is read on first use.
//
//	type AppConfig struct {
//		weave.Config
//		DatabaseURL string `env:"DATABASE_URL,required"`
//	}
//
//	cfg := config.MustLoad[AppConfig]()
//
// # Files
//
// LoadFile reads a YAML document first and lets the environment override
// it. Defaults from envDefault only fill fields the file left empty:
//
//	cfg, err := config.LoadFile[weave.Config]("config.yaml")
//
// A field marked required must still be present in the environment.
//
// # Caching
//
// Results are cached by type (and path for LoadFile). Use Reset in tests
// that change the environment between loads.
package config
