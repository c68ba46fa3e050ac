package s3

import "time"

// Config contains S3 session storage settings.
type Config struct {
	Bucket         string        `env:"S3_BUCKET" mapstructure:"bucket"`
	Region         string        `env:"S3_REGION" envDefault:"us-east-1" mapstructure:"region"`
	AccessKeyID    string        `env:"S3_ACCESS_KEY_ID" mapstructure:"access_key_id"`
	SecretKey      string        `env:"S3_SECRET_KEY" mapstructure:"secret_key"`
	Endpoint       string        `env:"S3_ENDPOINT" mapstructure:"endpoint"`                 // for S3-compatible services
	ForcePathStyle bool          `env:"S3_FORCE_PATH_STYLE" mapstructure:"force_path_style"` // MinIO and friends
	Prefix         string        `env:"S3_PREFIX" envDefault:"sessions/" mapstructure:"prefix"`
	Timeout        time.Duration `env:"S3_TIMEOUT" envDefault:"10s" mapstructure:"timeout"`
}

// DefaultConfig mirrors the env defaults.
func DefaultConfig() Config {
	return Config{
		Region:  "us-east-1",
		Prefix:  "sessions/",
		Timeout: 10 * time.Second,
	}
}
