// Package configuration exposes remotely-tunable flags. Unlike preferences,
// configuration is read-only to the application and arrives as a whole map
// that can be swapped at runtime.
package configuration

import (
	"maps"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/AlexZinkM/zec-wallet/internal/preference"
)

// Key reuses the preference key constraints.
type Key = preference.Key

var log = zap.NewNop()

// UseLogger sets the package-wide logger. Any calls to this function must be
// made before providers are created (it is not concurrent safe).
func UseLogger(logger *zap.Logger) {
	log = logger.Named("configuration")
}

// Configuration is an immutable snapshot of configuration values.
type Configuration interface {
	// UpdatedAt is when the values were loaded, zero if never.
	UpdatedAt() time.Time

	HasKey(key Key) bool
	GetBoolean(key Key, defaultValue bool) bool
	GetInt(key Key, defaultValue int) int
	GetString(key Key, defaultValue string) string
}

// StringConfiguration is a Configuration backed by a string map.
type StringConfiguration struct {
	mapping   map[string]string
	updatedAt time.Time
}

var _ Configuration = (*StringConfiguration)(nil)

// NewStringConfiguration copies mapping so later changes by the caller are
// not observed.
func NewStringConfiguration(mapping map[string]string, updatedAt time.Time) *StringConfiguration {
	return &StringConfiguration{
		mapping:   maps.Clone(mapping),
		updatedAt: updatedAt,
	}
}

func (c *StringConfiguration) UpdatedAt() time.Time {
	return c.updatedAt
}

func (c *StringConfiguration) HasKey(key Key) bool {
	_, ok := c.mapping[key.String()]
	return ok
}

func (c *StringConfiguration) GetBoolean(key Key, defaultValue bool) bool {
	raw, ok := c.mapping[key.String()]
	if !ok {
		return defaultValue
	}
	switch raw {
	case "true":
		return true
	case "false":
		return false
	}
	// Could mean somebody made an error in the configuration source.
	log.Warn("Configuration value is not a boolean, using default",
		zap.Stringer("key", key), zap.String("value", raw), zap.Bool("default", defaultValue))
	return defaultValue
}

func (c *StringConfiguration) GetInt(key Key, defaultValue int) int {
	raw, ok := c.mapping[key.String()]
	if !ok {
		return defaultValue
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		log.Warn("Configuration value is not an integer, using default",
			zap.Stringer("key", key), zap.String("value", raw), zap.Int("default", defaultValue))
		return defaultValue
	}
	return v
}

func (c *StringConfiguration) GetString(key Key, defaultValue string) string {
	if raw, ok := c.mapping[key.String()]; ok {
		return raw
	}
	return defaultValue
}

// Empty is a configuration without values; every lookup yields the default.
var Empty Configuration = NewStringConfiguration(nil, time.Time{})
