package cookie

import "strings"

// DefaultSalt namespaces signatures produced by managers built with New.
const DefaultSalt = "cookie."

// Config holds cookie manager configuration
type Config struct {
	Secrets  string `env:"COOKIE_SECRETS" envDefault:""`
	Salt     string `env:"COOKIE_SALT" envDefault:"cookie."`
	HashAlg  string `env:"COOKIE_HASH_ALG" envDefault:"sha512"`
	Path     string `env:"COOKIE_PATH" envDefault:"/"`
	Domain   string `env:"COOKIE_DOMAIN" envDefault:""`
	MaxAge   int    `env:"COOKIE_MAX_AGE" envDefault:"0"`
	Secure   bool   `env:"COOKIE_SECURE" envDefault:"false"`
	HttpOnly bool   `env:"COOKIE_HTTP_ONLY" envDefault:"true"`
	SameSite string `env:"COOKIE_SAME_SITE" envDefault:"lax"`
}

// DefaultConfig returns default cookie configuration
func DefaultConfig() Config {
	return Config{
		Salt:     DefaultSalt,
		HashAlg:  DefaultHashAlgorithm,
		Path:     "/",
		HttpOnly: true,
		SameSite: "lax",
	}
}

// SplitSecrets splits a comma separated secret list, dropping blanks.
func SplitSecrets(s string) []string {
	if s == "" {
		return nil
	}

	parts := strings.Split(s, ",")
	secrets := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			secrets = append(secrets, p)
		}
	}
	return secrets
}

// NewFromConfig creates a new Manager from the provided Config.
// Only non-zero values from the config are applied.
func NewFromConfig(cfg Config, opts ...Option) (*Manager, error) {
	signer, err := NewSigner(SplitSecrets(cfg.Secrets), cfg.Salt, cfg.HashAlg)
	if err != nil {
		return nil, err
	}

	configOpts := make([]Option, 0, 6+len(opts))
	if cfg.Path != "" {
		configOpts = append(configOpts, WithPath(cfg.Path))
	}
	if cfg.Domain != "" {
		configOpts = append(configOpts, WithDomain(cfg.Domain))
	}
	if cfg.MaxAge != 0 {
		configOpts = append(configOpts, WithMaxAge(cfg.MaxAge))
	}
	if cfg.SameSite != "" {
		configOpts = append(configOpts, WithSameSite(ParseSameSite(cfg.SameSite)))
	}
	configOpts = append(configOpts, WithSecure(cfg.Secure), WithHTTPOnly(cfg.HttpOnly))
	configOpts = append(configOpts, opts...)

	return NewWithSigner(signer, configOpts...), nil
}
