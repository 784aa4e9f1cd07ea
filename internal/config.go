package internal

import (
	"github.com/dmitrymomot/weave/pkg/cookie"
	"github.com/dmitrymomot/weave/pkg/logger"
)

// Config is the application configuration loadable with package config.
type Config struct {
	Env        string        `env:"APP_ENV"         envDefault:"development" yaml:"env"`
	Address    string        `env:"APP_ADDRESS"     envDefault:":8080"       yaml:"address"`
	StrictPath bool          `env:"APP_STRICT_PATH"                          yaml:"strict_path"`
	Cookie     cookie.Config `yaml:"cookie"`
	Logger     logger.Config `yaml:"logger"`
}
