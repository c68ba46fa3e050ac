package session

import (
	"fmt"
	"strings"
	"time"

	"github.com/dmitrymomot/plugsession/pkg/cookie"
)

// Never disables Timeout or ReissueTime when assigned to them.
const Never time.Duration = -1

// Config holds session configuration
type Config struct {
	// Secret signs the session cookie and the stored records. Several
	// comma-separated secrets enable rotation: the first one signs.
	Secret string `env:"SESSION_SECRET,required"`

	// CookieName is the name of the session cookie (default: "session")
	CookieName string `env:"SESSION_COOKIE_NAME" envDefault:"session"`

	// MaxAge of the cookie; zero produces a browser-session cookie
	MaxAge time.Duration `env:"SESSION_MAX_AGE" envDefault:"240h"`

	Path     string   `env:"SESSION_PATH" envDefault:"/"`
	Domains  []string `env:"SESSION_DOMAINS" envSeparator:","`
	Secure   bool     `env:"SESSION_SECURE" envDefault:"false"`
	HTTPOnly bool     `env:"SESSION_HTTP_ONLY" envDefault:"true"`
	SameSite string   `env:"SESSION_SAME_SITE" envDefault:"lax"`

	// SetOnException keeps saving sessions of requests that panicked or
	// were marked failed
	SetOnException bool `env:"SESSION_SET_ON_EXCEPTION" envDefault:"true"`

	// Timeout of inactivity after which the stored state is discarded.
	// Zero or negative never expires.
	Timeout time.Duration `env:"SESSION_TIMEOUT" envDefault:"1200s"`

	// ReissueTime since the last renewal after which any access re-sends the
	// cookie and persists a new renewal time. Zero reissues on every access,
	// negative never reissues.
	ReissueTime time.Duration `env:"SESSION_REISSUE_TIME" envDefault:"0s"`

	HashAlg    string `env:"SESSION_HASH_ALG" envDefault:"sha512"`
	Salt       string `env:"SESSION_SALT" envDefault:"plugsession."`
	Serializer string `env:"SESSION_SERIALIZER" envDefault:"json"`

	// Backend names the registered storage backend
	Backend string `env:"SESSION_BACKEND" envDefault:"memory"`
	// FilePath is the directory used by the file backend
	FilePath string `env:"SESSION_FILE_PATH"`
	// Chain lists member backend names when Backend is "chain"
	Chain []string `env:"SESSION_CHAIN" envSeparator:","`
	// BackendConfig points to a YAML file holding a nested BackendSpec; it
	// takes precedence over Backend, FilePath and Chain
	BackendConfig string `env:"SESSION_BACKEND_CONFIG"`
}

// DefaultConfig returns default session configuration. Secret is left empty
// and must be provided.
func DefaultConfig() Config {
	return Config{
		CookieName:     "session",
		MaxAge:         10 * 24 * time.Hour,
		Path:           "/",
		HTTPOnly:       true,
		SameSite:       "lax",
		SetOnException: true,
		Timeout:        1200 * time.Second,
		ReissueTime:    0,
		HashAlg:        cookie.DefaultHashAlgorithm,
		Salt:           "plugsession.",
		Serializer:     "json",
		Backend:        "memory",
	}
}

// cookieConfig maps the cookie attributes onto cookie.Config. Domains are
// handled by CookieCodec.
func (c Config) cookieConfig() cookie.Config {
	return cookie.Config{
		Secrets:  c.Secret,
		Salt:     c.Salt,
		HashAlg:  c.HashAlg,
		Path:     c.Path,
		MaxAge:   int(c.MaxAge / time.Second),
		Secure:   c.Secure,
		HttpOnly: c.HTTPOnly,
		SameSite: strings.ToLower(c.SameSite),
	}
}

// Validate reports settings the session subsystem cannot start with.
func (c Config) Validate() error {
	if len(cookie.SplitSecrets(c.Secret)) == 0 {
		return fmt.Errorf("%w: %w", ErrConfiguration, ErrNoSecret)
	}
	if c.CookieName == "" {
		return fmt.Errorf("%w: cookie name is empty", ErrConfiguration)
	}
	if c.MaxAge < 0 {
		return fmt.Errorf("%w: negative max age %s", ErrConfiguration, c.MaxAge)
	}
	switch c.Serializer {
	case "", "json":
	default:
		return fmt.Errorf("%w: %w: %q", ErrConfiguration, ErrUnknownSerializer, c.Serializer)
	}
	return nil
}

func (c Config) expires() bool {
	return c.Timeout > 0
}

func (c Config) reissues() bool {
	return c.ReissueTime >= 0
}
