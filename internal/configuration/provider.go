package configuration

import (
	"context"
	"maps"

	"github.com/AlexZinkM/zec-wallet/internal/stream"
)

// Provider supplies configuration that may change while the process runs.
type Provider interface {
	// Observe emits the current configuration and every later change until
	// ctx is done.
	Observe(ctx context.Context) <-chan Configuration

	// HintToRefresh asks the provider to reload now. Providers that cannot
	// refresh ignore it.
	HintToRefresh(ctx context.Context)
}

func sameValues(a, b Configuration) bool {
	x, okX := a.(*StringConfiguration)
	y, okY := b.(*StringConfiguration)
	if !okX || !okY {
		return a == b
	}
	return maps.Equal(x.mapping, y.mapping)
}

// StaticProvider always serves the same configuration.
type StaticProvider struct {
	state *stream.State[Configuration]
}

var _ Provider = (*StaticProvider)(nil)

func NewStaticProvider(c Configuration) *StaticProvider {
	if c == nil {
		c = Empty
	}
	return &StaticProvider{state: stream.NewState(c, sameValues)}
}

func (p *StaticProvider) Observe(ctx context.Context) <-chan Configuration {
	return p.state.Subscribe(ctx)
}

func (p *StaticProvider) HintToRefresh(context.Context) {}

// Current returns the configuration without subscribing.
func (p *StaticProvider) Current() Configuration {
	return p.state.Get()
}
