package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"reflect"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

var (
	// ErrParse is returned when environment variables cannot be parsed into the target type.
	ErrParse = errors.New("config: failed to parse environment")

	// ErrReadFile is returned when a configuration file cannot be read or decoded.
	ErrReadFile = errors.New("config: failed to read file")
)

type cacheKey struct {
	typ  reflect.Type
	path string
}

var (
	cache      sync.Map // cacheKey -> any
	dotenvOnce sync.Once
)

// Load parses environment variables into a new T. The result is cached per
// type, so later calls return the same value without touching the
// environment again. A .env file in the working directory is loaded on
// first use; variables already set in the process win.
func Load[T any]() (T, error) {
	return load[T]("")
}

// MustLoad is like Load but panics on error.
func MustLoad[T any]() T {
	cfg, err := Load[T]()
	if err != nil {
		panic(err)
	}
	return cfg
}

// LoadFile decodes the YAML file at path into a new T and then applies
// environment variables on top. Precedence, lowest first: envDefault tags,
// the file, the environment. Results are cached per type and path.
func LoadFile[T any](path string) (T, error) {
	return load[T](path)
}

// MustLoadFile is like LoadFile but panics on error.
func MustLoadFile[T any](path string) T {
	cfg, err := LoadFile[T](path)
	if err != nil {
		panic(err)
	}
	return cfg
}

// Reset drops every cached configuration.
func Reset() {
	cache.Clear()
}

func load[T any](path string) (T, error) {
	key := cacheKey{typ: reflect.TypeFor[T](), path: path}
	if v, ok := cache.Load(key); ok {
		return v.(T), nil
	}

	dotenvOnce.Do(loadDotenv)

	var cfg T
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("%w: %w", ErrReadFile, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("%w: %s: %w", ErrReadFile, path, err)
		}
	}

	if err := env.ParseWithOptions(&cfg, env.Options{SetDefaultsForZeroValuesOnly: path != ""}); err != nil {
		return cfg, fmt.Errorf("%w: %w", ErrParse, err)
	}

	v, _ := cache.LoadOrStore(key, cfg)
	return v.(T), nil
}

// loadDotenv reads .env without overriding the process environment.
// A missing file is not an error.
func loadDotenv() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Warn("config: failed to load .env", slog.Any("error", err))
	}
}
