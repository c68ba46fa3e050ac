package redis

import "time"

// Config holds Redis connection and session storage settings.
type Config struct {
	ConnectionURL  string        `env:"REDIS_URL" envDefault:"redis://localhost:6379/0" mapstructure:"url"`
	RetryAttempts  int           `env:"REDIS_RETRY_ATTEMPTS" envDefault:"3" mapstructure:"retry_attempts"`
	RetryInterval  time.Duration `env:"REDIS_RETRY_INTERVAL" envDefault:"5s" mapstructure:"retry_interval"`
	ConnectTimeout time.Duration `env:"REDIS_CONNECT_TIMEOUT" envDefault:"30s" mapstructure:"connect_timeout"`

	// KeyPrefix namespaces session records
	KeyPrefix string `env:"REDIS_SESSION_PREFIX" envDefault:"session:" mapstructure:"prefix"`
	// TTL expires records server side; zero keeps them until cleared
	TTL time.Duration `env:"REDIS_SESSION_TTL" envDefault:"0s" mapstructure:"ttl"`
}

// DefaultConfig mirrors the env defaults.
func DefaultConfig() Config {
	return Config{
		ConnectionURL:  "redis://localhost:6379/0",
		RetryAttempts:  3,
		RetryInterval:  5 * time.Second,
		ConnectTimeout: 30 * time.Second,
		KeyPrefix:      "session:",
	}
}
