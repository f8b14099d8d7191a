package preference

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"go.uber.org/zap"
)

// ErrUndecodable is returned by strict entries whose stored value does not
// decode.
var ErrUndecodable = errors.New("undecodable preference")

// Default is a typed view of a single preference with a fallback value.
type Default[T any] interface {
	Key() Key
	GetValue(ctx context.Context, p Provider) (T, error)
	PutValue(ctx context.Context, p Provider, value T) error
	Observe(ctx context.Context, p Provider) (<-chan T, error)
}

// Entry implements Default for any type with a string codec.
type Entry[T any] struct {
	key          Key
	defaultValue T
	decode       func(string) (T, error)
	encode       func(T) (string, error)

	// strict entries return decode failures instead of the default.
	strict bool
}

var _ Default[bool] = (*Entry[bool])(nil)

// BooleanDefault is a boolean preference. Only "true" and "false" parse.
func BooleanDefault(key Key, defaultValue bool) *Entry[bool] {
	return &Entry[bool]{
		key:          key,
		defaultValue: defaultValue,
		decode:       parseStrictBool,
		encode: func(v bool) (string, error) {
			return strconv.FormatBool(v), nil
		},
	}
}

// IntegerDefault is a base 10 integer preference.
func IntegerDefault(key Key, defaultValue int) *Entry[int] {
	return &Entry[int]{
		key:          key,
		defaultValue: defaultValue,
		decode:       strconv.Atoi,
		encode: func(v int) (string, error) {
			return strconv.Itoa(v), nil
		},
	}
}

// StringDefault is a plain string preference.
func StringDefault(key Key, defaultValue string) *Entry[string] {
	return &Entry[string]{
		key:          key,
		defaultValue: defaultValue,
		decode:       func(s string) (string, error) { return s, nil },
		encode:       func(s string) (string, error) { return s, nil },
	}
}

// JSONDefault stores a value as JSON. Unlike the scalar entries a value that
// fails to decode is an error, since silently replacing structured data with
// the default could hide a corrupted store.
func JSONDefault[T any](key Key, defaultValue T) *Entry[T] {
	return &Entry[T]{
		key:          key,
		defaultValue: defaultValue,
		decode: func(s string) (T, error) {
			var v T
			if err := json.Unmarshal([]byte(s), &v); err != nil {
				return v, err
			}
			return v, nil
		},
		encode: func(v T) (string, error) {
			b, err := json.Marshal(v)
			if err != nil {
				return "", err
			}
			return string(b), nil
		},
		strict: true,
	}
}

func parseStrictBool(s string) (bool, error) {
	switch s {
	case "true":
		return true, nil
	case "false":
		return false, nil
	}
	return false, fmt.Errorf("%q is not a boolean", s)
}

// Key returns the preference key.
func (e *Entry[T]) Key() Key {
	return e.key
}

// DefaultValue returns the fallback value.
func (e *Entry[T]) DefaultValue() T {
	return e.defaultValue
}

// GetValue reads and coerces the stored value. Missing values and, for
// non-strict entries, values that fail to parse yield the default.
func (e *Entry[T]) GetValue(ctx context.Context, p Provider) (T, error) {
	raw, ok, err := p.GetString(ctx, e.key)
	if err != nil {
		return e.defaultValue, err
	}
	if !ok {
		return e.defaultValue, nil
	}
	return e.coerce(raw)
}

func (e *Entry[T]) coerce(raw string) (T, error) {
	v, err := e.decode(raw)
	if err == nil {
		return v, nil
	}
	if e.strict {
		return e.defaultValue, fmt.Errorf("%w: failed to decode %s: %v", ErrUndecodable, e.key, err)
	}

	log.Warn("Preference coercion failed, using default",
		zap.Stringer("key", e.key), zap.Any("default", e.defaultValue), zap.Error(err))
	return e.defaultValue, nil
}

// PutValue serializes value and writes it.
func (e *Entry[T]) PutValue(ctx context.Context, p Provider, value T) error {
	raw, err := e.encode(value)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", e.key, err)
	}
	return p.PutString(ctx, e.key, raw)
}

// Observe emits the coerced value now and after every change. Undecodable
// values of strict entries are logged and emitted as the default.
func (e *Entry[T]) Observe(ctx context.Context, p Provider) (<-chan T, error) {
	in, err := p.Observe(ctx, e.key)
	if err != nil {
		return nil, err
	}

	out := make(chan T)
	go func() {
		defer close(out)
		for {
			var raw *string
			select {
			case v, ok := <-in:
				if !ok {
					return
				}
				raw = v
			case <-ctx.Done():
				return
			}

			value := e.defaultValue
			if raw != nil {
				var decodeErr error
				value, decodeErr = e.coerce(*raw)
				if decodeErr != nil {
					log.Error("Undecodable preference, using default", zap.Error(decodeErr))
				}
			}

			select {
			case out <- value:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, nil
}
