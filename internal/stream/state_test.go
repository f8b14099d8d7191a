package stream

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func recv[T any](t *testing.T, ch <-chan T) T {
	t.Helper()
	select {
	case v, ok := <-ch:
		require.True(t, ok, "channel closed")
		return v
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for value")
	}
	var zero T
	return zero
}

func TestStateSubscribeEmitsCurrentThenChanges(t *testing.T) {
	s := NewState(1, func(a, b int) bool { return a == b })
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch := s.Subscribe(ctx)
	require.Equal(t, 1, recv(t, ch))

	require.True(t, s.Set(2))
	require.Equal(t, 2, recv(t, ch))

	require.False(t, s.Set(2))
	require.True(t, s.Set(3))
	require.Equal(t, 3, recv(t, ch))
}

func TestStateSlowSubscriberSeesLatest(t *testing.T) {
	s := NewState(0, nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch := s.Subscribe(ctx)
	require.Equal(t, 0, recv(t, ch))

	for i := 1; i <= 10; i++ {
		s.Set(i)
	}

	// Intermediate values may be skipped, the last one never is.
	var last int
	for last != 10 {
		last = recv(t, ch)
	}
	require.Equal(t, 10, s.Get())
}

func TestStateSubscriptionClosesOnCancel(t *testing.T) {
	s := NewState("a", nil)
	ctx, cancel := context.WithCancel(context.Background())

	ch := s.Subscribe(ctx)
	require.Equal(t, "a", recv(t, ch))
	require.Equal(t, 1, s.Subscribers())

	cancel()
	for range ch {
	}
	require.Eventually(t, func() bool {
		return s.Subscribers() == 0
	}, time.Second, 10*time.Millisecond)
}

func TestMap(t *testing.T) {
	s := NewState(2, nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	doubled := Map(ctx, s.Subscribe(ctx), func(v int) int { return v * 2 })
	require.Equal(t, 4, recv(t, doubled))

	s.Set(5)
	require.Equal(t, 10, recv(t, doubled))
}
