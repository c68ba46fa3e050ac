// Package config loads application configuration from the environment and
// from YAML files.
//
// Environment loading wraps github.com/joho/godotenv and
// github.com/caarlos0/env/v11: an optional .env file is read once, then
// environment variables are parsed into any struct annotated with `env`
// tags. Each configuration type is parsed once per process and served from
// a cache afterwards.
//
//	type Config struct {
//	    Secret string `env:"SESSION_SECRET,required"`
//	    Path   string `env:"SESSION_PATH" envDefault:"/"`
//	}
//
//	var cfg Config
//	if err := config.Load(&cfg); err != nil {
//	    log.Fatal(err)
//	}
//
// LoadEnv reads additional .env files explicitly. ResetCache clears the
// cache between tests.
//
// Nested structures that do not fit flat environment variables, such as a
// chain of storage backends, are read with LoadYAML (gopkg.in/yaml.v3).
//
// Errors are sentinel values comparable with errors.Is: ErrParsingConfig,
// ErrNilPointer, ErrLoadingEnvFile, ErrReadingFile and ErrParsingYAML.
package config
