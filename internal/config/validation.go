package config

import (
	"fmt"
	"time"

	sferrors "git.home.luguber.info/inful/siteforge/internal/errors"
)

// Validate checks structural invariants of the configuration. The declared
// unit sequence is the build order; every `after` dependency must already be
// satisfied by that order, so the driver can trust it without sorting.
func (c *Config) Validate() error {
	if len(c.Units) == 0 {
		return validationError("at least one build unit must be declared")
	}

	seen := make(map[string]int, len(c.Units))
	for i, u := range c.Units {
		if u.Name == "" {
			return validationError(fmt.Sprintf("unit at position %d has no name", i))
		}
		if _, dup := seen[u.Name]; dup {
			return validationError(fmt.Sprintf("duplicate unit name %q", u.Name))
		}
		seen[u.Name] = i
	}

	for i, u := range c.Units {
		for _, dep := range u.After {
			j, ok := seen[dep]
			if !ok {
				return validationError(fmt.Sprintf("unit %q depends on unknown unit %q", u.Name, dep))
			}
			if j >= i {
				return validationError(fmt.Sprintf("unit %q must be declared after %q", u.Name, dep))
			}
		}
	}

	if c.Serve.Port < 1 || c.Serve.Port > 65535 {
		return validationError(fmt.Sprintf("invalid serve port %d", c.Serve.Port))
	}
	if c.Serve.RebuildEvery != "" {
		if _, err := time.ParseDuration(c.Serve.RebuildEvery); err != nil {
			return validationError(fmt.Sprintf("invalid rebuild_every %q: %v", c.Serve.RebuildEvery, err))
		}
	}
	return nil
}

// RebuildInterval returns the parsed rebuild interval, or zero when disabled.
func (c *Config) RebuildInterval() time.Duration {
	if c.Serve.RebuildEvery == "" {
		return 0
	}
	d, err := time.ParseDuration(c.Serve.RebuildEvery)
	if err != nil {
		return 0
	}
	return d
}

func validationError(msg string) error {
	return sferrors.New(sferrors.CategoryValidation, sferrors.SeverityFatal, msg)
}
