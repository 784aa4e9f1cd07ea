package cookie

import (
	"net/http"
	"slices"
	"strings"
)

// Config holds jar settings loadable from the environment or a YAML file.
// A Signed entry of "*" signs every cookie.
type Config struct {
	Domain   string   `env:"COOKIE_DOMAIN"    yaml:"domain"`
	Path     string   `env:"COOKIE_PATH"      yaml:"path"      envDefault:"/"`
	SameSite string   `env:"COOKIE_SAME_SITE" yaml:"same_site" envDefault:"lax"`
	Secrets  []string `env:"COOKIE_SECRETS"   yaml:"secrets"`
	Signed   []string `env:"COOKIE_SIGNED"    yaml:"signed"`
	MaxAge   int      `env:"COOKIE_MAX_AGE"   yaml:"max_age"`
	HTTPOnly bool     `env:"COOKIE_HTTP_ONLY" yaml:"http_only" envDefault:"true"`
	Secure   bool     `env:"COOKIE_SECURE"    yaml:"secure"`
}

// Options converts the config into jar options.
func (c Config) Options() []JarOption {
	opts := []JarOption{
		WithSecrets(c.Secrets...),
		WithDefaults(Attributes{
			Domain:   c.Domain,
			Path:     c.Path,
			MaxAge:   c.MaxAge,
			SameSite: ParseSameSite(c.SameSite),
			HTTPOnly: c.HTTPOnly,
			Secure:   c.Secure,
		}),
	}
	if slices.Contains(c.Signed, "*") {
		opts = append(opts, WithSignAll())
	} else if len(c.Signed) > 0 {
		opts = append(opts, WithSigned(c.Signed...))
	}
	return opts
}

// ParseSameSite maps "lax", "strict" and "none" (any case) to the
// corresponding http.SameSite. Anything else is the default mode.
func ParseSameSite(s string) http.SameSite {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "lax":
		return http.SameSiteLaxMode
	case "strict":
		return http.SameSiteStrictMode
	case "none":
		return http.SameSiteNoneMode
	default:
		return http.SameSiteDefaultMode
	}
}
