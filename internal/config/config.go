package config

import (
	"fmt"
	"os"
)

// LoadAndValidate reads the workspace configuration at path and parses it
// with Parse.
func LoadAndValidate(path string) (*Config, []string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(path, data)
}

// Parse decodes configuration data read from path, fills omitted sections
// with defaults and validates the result. Unknown-field warnings come before
// validation warnings. On a validation error the warnings are still returned.
func Parse(path string, data []byte) (*Config, []string, error) {
	cfg, unknownWarnings, err := LoadWithWarnings(path, data)
	if err != nil {
		return nil, nil, err
	}

	applyDefaults(cfg)

	validationWarnings, err := Validate(cfg)

	warnings := make([]string, 0, len(unknownWarnings)+len(validationWarnings))
	warnings = append(warnings, unknownWarnings...)
	warnings = append(warnings, validationWarnings...)

	if err != nil {
		return nil, warnings, err
	}
	return cfg, warnings, nil
}
