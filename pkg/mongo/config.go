package mongo

import "time"

// Config represents the MongoDB connection and collection settings.
type Config struct {
	ConnectionURL   string        `env:"MONGODB_URL" mapstructure:"url"`
	Database        string        `env:"MONGODB_DATABASE" envDefault:"plugsession" mapstructure:"database"`
	Collection      string        `env:"MONGODB_COLLECTION" envDefault:"sessions" mapstructure:"collection"`
	TTL             time.Duration `env:"MONGODB_SESSION_TTL" mapstructure:"ttl"` // records idle for TTL are removed by a TTL index; 0 keeps them
	ConnectTimeout  time.Duration `env:"MONGODB_CONNECT_TIMEOUT" envDefault:"10s" mapstructure:"connect_timeout"`
	MaxPoolSize     uint64        `env:"MONGODB_MAX_POOL_SIZE" envDefault:"100" mapstructure:"max_pool_size"`
	MinPoolSize     uint64        `env:"MONGODB_MIN_POOL_SIZE" envDefault:"1" mapstructure:"min_pool_size"`
	MaxConnIdleTime time.Duration `env:"MONGODB_MAX_CONN_IDLE_TIME" envDefault:"300s" mapstructure:"max_conn_idle_time"`
	RetryWrites     bool          `env:"MONGODB_RETRY_WRITES" envDefault:"true" mapstructure:"retry_writes"`
	RetryReads      bool          `env:"MONGODB_RETRY_READS" envDefault:"true" mapstructure:"retry_reads"`
	RetryAttempts   int           `env:"MONGODB_RETRY_ATTEMPTS" envDefault:"3" mapstructure:"retry_attempts"`
	RetryInterval   time.Duration `env:"MONGODB_RETRY_INTERVAL" envDefault:"5s" mapstructure:"retry_interval"`
}

// DefaultConfig mirrors the env defaults.
func DefaultConfig() Config {
	return Config{
		Database:        "plugsession",
		Collection:      "sessions",
		ConnectTimeout:  10 * time.Second,
		MaxPoolSize:     100,
		MinPoolSize:     1,
		MaxConnIdleTime: 300 * time.Second,
		RetryWrites:     true,
		RetryReads:      true,
		RetryAttempts:   3,
		RetryInterval:   5 * time.Second,
	}
}
