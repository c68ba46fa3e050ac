package config

import "errors"

var (
	// ErrParsingConfig indicates the environment could not be parsed into the struct
	ErrParsingConfig = errors.New("config.parsing_failed")

	// ErrConfigNotLoaded indicates a cached configuration is missing after parsing
	ErrConfigNotLoaded = errors.New("config.not_loaded")

	// ErrNilPointer indicates a nil destination was passed to a loader
	ErrNilPointer = errors.New("config.nil_pointer")

	// ErrLoadingEnvFile indicates a .env file could not be read
	ErrLoadingEnvFile = errors.New("config.env_file")

	// ErrReadingFile indicates a YAML file could not be read
	ErrReadingFile = errors.New("config.read_file")

	// ErrParsingYAML indicates a YAML document could not be decoded
	ErrParsingYAML = errors.New("config.parsing_yaml")
)
