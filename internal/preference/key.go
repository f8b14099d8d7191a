package preference

import (
	"errors"
	"fmt"
	"regexp"
)

const (
	minKeyLength = 1
	maxKeyLength = 256
)

var keyPattern = regexp.MustCompile(`^[a-zA-Z0-9_]*$`)

// ErrInvalidKey is returned for key names outside the allowed alphabet or length.
var ErrInvalidKey = errors.New("invalid preference key")

// Key names a preference value.
type Key struct {
	name string
}

// NewKey validates name and wraps it as a Key.
func NewKey(name string) (Key, error) {
	if len(name) < minKeyLength || len(name) > maxKeyLength {
		return Key{}, fmt.Errorf("%w: length %d not in [%d, %d]", ErrInvalidKey,
			len(name), minKeyLength, maxKeyLength)
	}
	if !keyPattern.MatchString(name) {
		return Key{}, fmt.Errorf("%w: %q must match %s", ErrInvalidKey, name, keyPattern)
	}
	return Key{name: name}, nil
}

// MustKey is like NewKey but panics on an invalid name. Meant for package
// level key declarations.
func MustKey(name string) Key {
	k, err := NewKey(name)
	if err != nil {
		panic(err)
	}
	return k
}

// String returns the key name.
func (k Key) String() string {
	return k.name
}
