package config

import (
	"encoding/json"
	"fmt"
	"reflect"
	"sort"
	"strings"
)

// LoadWithWarnings parses config data and returns any unknown field warnings.
func LoadWithWarnings(path string, data []byte) (*Config, []string, error) {
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	warnings := detectUnknownFields(data)

	return &cfg, warnings, nil
}

// sectionTypes maps each top-level section to its struct type.
var sectionTypes = map[string]reflect.Type{
	"workspace": reflect.TypeOf(WorkspaceConfig{}),
	"runner":    reflect.TypeOf(RunnerConfig{}),
	"state":     reflect.TypeOf(StateConfig{}),
	"report":    reflect.TypeOf(ReportConfig{}),
	"editor":    reflect.TypeOf(EditorConfig{}),
}

// detectUnknownFields compares raw JSON with known struct fields.
// Warnings are sorted so output is stable.
func detectUnknownFields(data []byte) []string {
	var warnings []string

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		// The data was already parsed into Config, so this is an internal inconsistency.
		return []string{"internal: failed to re-parse config for unknown field detection"}
	}

	knownTopLevel := getJSONFields(reflect.TypeOf(Config{}))
	for key, value := range raw {
		if key == "$schema" {
			continue // $schema is explicitly allowed and ignored
		}
		if !knownTopLevel[key] {
			warnings = append(warnings, fmt.Sprintf("unknown field %q at root level (ignored)", key))
			continue
		}
		warnings = append(warnings, checkSectionUnknownFields(key, value)...)
	}

	sort.Strings(warnings)
	return warnings
}

func checkSectionUnknownFields(section string, data json.RawMessage) []string {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil // null or non-object; type errors surface during parsing
	}

	known := getJSONFields(sectionTypes[section])
	var warnings []string
	for key := range fields {
		if !known[key] {
			warnings = append(warnings, fmt.Sprintf("unknown field %q in %s (ignored)", key, section))
		}
	}
	return warnings
}

// getJSONFields returns a map of known JSON field names for a struct type.
func getJSONFields(t reflect.Type) map[string]bool {
	fields := make(map[string]bool)
	if t == nil {
		return fields
	}
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tag := field.Tag.Get("json")
		if tag == "" || tag == "-" {
			continue
		}
		// Extract field name from tag (before comma)
		name := strings.Split(tag, ",")[0]
		if name != "" {
			fields[name] = true
		}
	}
	return fields
}
