package app

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// LoadProperties reads a YAML or JSON document of property values keyed by
// their external name. An empty document yields an empty map.
func LoadProperties(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading properties file: %w", err)
	}
	props := map[string]any{}
	if err := yaml.Unmarshal(data, &props); err != nil {
		return nil, fmt.Errorf("parsing properties file '%s': %w", path, err)
	}
	return props, nil
}

// ParseProperty splits a key=value assignment. The value is read as a YAML
// scalar or flow collection, so `jobs=4` yields an int and `tags=[a, b]` a
// list. Anything that does not parse stays a string.
func ParseProperty(assignment string) (string, any, error) {
	key, raw, ok := strings.Cut(assignment, "=")
	if !ok || key == "" {
		return "", nil, fmt.Errorf("invalid property '%s': expected key=value", assignment)
	}
	var v any
	if err := yaml.Unmarshal([]byte(raw), &v); err != nil {
		return key, raw, nil
	}
	if v == nil && raw != "null" && raw != "~" {
		return key, raw, nil
	}
	return key, v, nil
}

// Environ returns the process environment as a map.
func Environ() map[string]string {
	env := make(map[string]string)
	for _, kv := range os.Environ() {
		if k, v, ok := strings.Cut(kv, "="); ok {
			env[k] = v
		}
	}
	return env
}
