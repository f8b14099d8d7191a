// Package preference is a small key/value settings layer. Providers store
// strings; typed entries on top of them coerce values and fall back to a
// default when a stored value cannot be parsed.
package preference

import (
	"context"
	"sync"

	"github.com/AlexZinkM/zec-wallet/internal/stream"
)

// Provider is a string key/value store that can be observed.
type Provider interface {
	HasKey(ctx context.Context, key Key) (bool, error)

	// GetString returns ok == false when the key was never written.
	GetString(ctx context.Context, key Key) (value string, ok bool, err error)

	PutString(ctx context.Context, key Key, value string) error

	// Observe emits the current value (nil when absent) and then every
	// change, until ctx is done.
	Observe(ctx context.Context, key Key) (<-chan *string, error)
}

// BatchPutter is implemented by providers that can write several keys in one
// transaction.
type BatchPutter interface {
	PutStrings(ctx context.Context, values map[Key]string) error
}

func equalValue(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// keyStates tracks an observable per key for providers that have no native
// change notifications.
type keyStates struct {
	mu     sync.Mutex
	states map[string]*stream.State[*string]
}

func newKeyStates() *keyStates {
	return &keyStates{states: make(map[string]*stream.State[*string])}
}

// subscribe attaches to the key's state, creating it from load if needed.
func (ks *keyStates) subscribe(ctx context.Context, key Key, load func() (*string, error)) (<-chan *string, error) {
	ks.mu.Lock()
	defer ks.mu.Unlock()

	state, ok := ks.states[key.name]
	if !ok {
		current, err := load()
		if err != nil {
			return nil, err
		}
		state = stream.NewState(current, equalValue)
		ks.states[key.name] = state
	}
	return state.Subscribe(ctx), nil
}

// publish updates the key's state if anybody ever observed it. write runs
// under the same lock so a concurrent subscribe sees either the old value
// followed by this update or the new value.
func (ks *keyStates) publish(key Key, value string, write func() error) error {
	ks.mu.Lock()
	defer ks.mu.Unlock()

	if err := write(); err != nil {
		return err
	}
	if state, ok := ks.states[key.name]; ok {
		v := value
		state.Set(&v)
	}
	return nil
}

func (ks *keyStates) publishAll(values map[Key]string, write func() error) error {
	ks.mu.Lock()
	defer ks.mu.Unlock()

	if err := write(); err != nil {
		return err
	}
	for key, value := range values {
		if state, ok := ks.states[key.name]; ok {
			v := value
			state.Set(&v)
		}
	}
	return nil
}
