package preference

import (
	"context"
	"sync"
)

// MemoryProvider keeps preferences in a map. It is observable like the
// persistent providers and is what tests and dry runs use.
type MemoryProvider struct {
	mu     sync.RWMutex
	values map[string]string
	states *keyStates
}

// NewMemoryProvider creates an empty MemoryProvider.
func NewMemoryProvider() *MemoryProvider {
	return &MemoryProvider{
		values: make(map[string]string),
		states: newKeyStates(),
	}
}

func (p *MemoryProvider) HasKey(_ context.Context, key Key) (bool, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	_, ok := p.values[key.name]
	return ok, nil
}

func (p *MemoryProvider) GetString(_ context.Context, key Key) (string, bool, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	v, ok := p.values[key.name]
	return v, ok, nil
}

func (p *MemoryProvider) PutString(_ context.Context, key Key, value string) error {
	return p.states.publish(key, value, func() error {
		p.mu.Lock()
		p.values[key.name] = value
		p.mu.Unlock()
		return nil
	})
}

func (p *MemoryProvider) PutStrings(_ context.Context, values map[Key]string) error {
	return p.states.publishAll(values, func() error {
		p.mu.Lock()
		for key, value := range values {
			p.values[key.name] = value
		}
		p.mu.Unlock()
		return nil
	})
}

func (p *MemoryProvider) Observe(ctx context.Context, key Key) (<-chan *string, error) {
	return p.states.subscribe(ctx, key, func() (*string, error) {
		v, ok, err := p.GetString(ctx, key)
		if err != nil || !ok {
			return nil, err
		}
		return &v, nil
	})
}
