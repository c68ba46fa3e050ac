package config

import (
	"errors"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadYAML decodes the YAML file at path into v. Environment references of
// the form ${VAR} are expanded before decoding.
func LoadYAML(path string, v any) error {
	if v == nil {
		return ErrNilPointer
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return errors.Join(ErrReadingFile, err)
	}

	return ParseYAML(data, v)
}

// ParseYAML is LoadYAML for an in-memory document.
func ParseYAML(data []byte, v any) error {
	if v == nil {
		return ErrNilPointer
	}
	if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), v); err != nil {
		return errors.Join(ErrParsingYAML, err)
	}
	return nil
}
