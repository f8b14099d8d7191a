// Package stream provides an observable latest-value holder. Subscribers get
// the current value right away and then every distinct update; a slow
// subscriber only ever sees the most recent value.
package stream

import (
	"context"
	"sync"
)

// State holds a value of type T and fans out changes to subscribers.
type State[T any] struct {
	mu      sync.Mutex
	value   T
	version uint64
	equal   func(a, b T) bool
	subs    map[uint64]chan struct{}
	nextID  uint64
}

// NewState creates a State with an initial value. equal decides whether an
// update is a change at all; nil means every Set is a change.
func NewState[T any](initial T, equal func(a, b T) bool) *State[T] {
	return &State[T]{
		value:   initial,
		version: 1,
		equal:   equal,
		subs:    make(map[uint64]chan struct{}),
	}
}

// Get returns the current value.
func (s *State[T]) Get() T {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.value
}

// Set replaces the value and wakes subscribers. It returns false when the
// value was equal to the current one and nothing was published.
func (s *State[T]) Set(v T) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.equal != nil && s.equal(s.value, v) {
		return false
	}
	s.value = v
	s.version++

	for _, notify := range s.subs {
		select {
		case notify <- struct{}{}:
		default:
		}
	}
	return true
}

// Subscribe returns a channel carrying the current value followed by every
// change. The channel is closed once ctx is done.
func (s *State[T]) Subscribe(ctx context.Context) <-chan T {
	out := make(chan T)
	notify := make(chan struct{}, 1)

	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = notify
	s.mu.Unlock()

	go func() {
		defer close(out)
		defer func() {
			s.mu.Lock()
			delete(s.subs, id)
			s.mu.Unlock()
		}()

		var sent uint64
		for {
			s.mu.Lock()
			v, version := s.value, s.version
			s.mu.Unlock()

			if version != sent {
				select {
				case out <- v:
					sent = version
				case <-ctx.Done():
					return
				}
				continue
			}

			select {
			case <-notify:
			case <-ctx.Done():
				return
			}
		}
	}()

	return out
}

// Subscribers reports how many subscriptions are live.
func (s *State[T]) Subscribers() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.subs)
}

// Map forwards every value from in through fn until in closes or ctx is done.
func Map[A, B any](ctx context.Context, in <-chan A, fn func(A) B) <-chan B {
	out := make(chan B)
	go func() {
		defer close(out)
		for {
			select {
			case a, ok := <-in:
				if !ok {
					return
				}
				select {
				case out <- fn(a):
				case <-ctx.Done():
					return
				}
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}
