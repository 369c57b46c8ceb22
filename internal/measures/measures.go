// Package measures reads the derived measures artifact the root build emits
// and generates the feature pages that depend on it.
//
// The artifact schema is owned by the external generator; siteforge only
// requires that it exists and parses as a key-value document once the root
// build succeeded.
package measures

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	sferrors "git.home.luguber.info/inful/siteforge/internal/errors"
)

// Measures is the parsed derived-data artifact. Values stay opaque.
type Measures map[string]any

// Load reads and parses the measures artifact. YAML is the primary encoding;
// JSON documents parse through the same path.
func Load(path string) (Measures, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, sferrors.Wrap(err, sferrors.CategoryMeasures, sferrors.SeverityFatal, "measures artifact not readable").
			WithContext("path", path)
	}
	var m Measures
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, sferrors.Wrap(err, sferrors.CategoryMeasures, sferrors.SeverityFatal, "measures artifact not parseable").
			WithContext("path", path)
	}
	if len(m) == 0 {
		return nil, sferrors.New(sferrors.CategoryMeasures, sferrors.SeverityFatal, "measures artifact is empty").
			WithContext("path", path)
	}
	return m, nil
}

// Keys returns the measure names in stable order.
func (m Measures) Keys() []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// valueYAML renders a measure value back to YAML for page embedding.
func valueYAML(v any) (string, error) {
	out, err := yaml.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("render measure value: %w", err)
	}
	return string(out), nil
}
