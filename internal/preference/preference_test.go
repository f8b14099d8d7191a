package preference

import (
	"context"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/AlexZinkM/zec-wallet/internal/crypto"
)

var testParams = crypto.Params{N: 1 << 4, R: 8, P: 1}

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func next[T any](t *testing.T, ch <-chan T) T {
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

func TestKeyConstraints(t *testing.T) {
	_, err := NewKey("")
	require.ErrorIs(t, err, ErrInvalidKey)

	_, err = NewKey(strings.Repeat("a", 257))
	require.ErrorIs(t, err, ErrInvalidKey)

	_, err = NewKey("has-dash")
	require.ErrorIs(t, err, ErrInvalidKey)

	k, err := NewKey("is_user_backup_complete")
	require.NoError(t, err)
	require.Equal(t, "is_user_backup_complete", k.String())

	_, err = NewKey(strings.Repeat("Z", 256))
	require.NoError(t, err)

	require.Panics(t, func() { MustKey("no spaces") })
}

func TestBooleanDefaultFallsBack(t *testing.T) {
	ctx := context.Background()
	key := MustKey("some_boolean_key")

	for _, def := range []bool{true, false} {
		entry := BooleanDefault(key, def)

		for _, malformed := range []string{"", "1", "0", "TRUE", "yes", " true", "tru"} {
			p := NewMemoryProvider()
			require.NoError(t, p.PutString(ctx, key, malformed))

			v, err := entry.GetValue(ctx, p)
			require.NoError(t, err)
			require.Equal(t, def, v, "value %q", malformed)
		}

		p := NewMemoryProvider()
		v, err := entry.GetValue(ctx, p)
		require.NoError(t, err)
		require.Equal(t, def, v)

		require.NoError(t, entry.PutValue(ctx, p, !def))
		v, err = entry.GetValue(ctx, p)
		require.NoError(t, err)
		require.Equal(t, !def, v)

		raw, ok, err := p.GetString(ctx, key)
		require.NoError(t, err)
		require.True(t, ok)
		require.Equal(t, map[bool]string{true: "true", false: "false"}[!def], raw)
	}
}

func TestIntegerDefaultFallsBack(t *testing.T) {
	ctx := context.Background()
	entry := IntegerDefault(MustKey("some_int_key"), 123)

	for _, malformed := range []string{"", "abc", "1.5", "12a", "99999999999999999999999", "0x10"} {
		p := NewMemoryProvider()
		require.NoError(t, p.PutString(ctx, entry.Key(), malformed))

		v, err := entry.GetValue(ctx, p)
		require.NoError(t, err)
		require.Equal(t, 123, v, "value %q", malformed)
	}

	p := NewMemoryProvider()
	require.NoError(t, entry.PutValue(ctx, p, -42))
	v, err := entry.GetValue(ctx, p)
	require.NoError(t, err)
	require.Equal(t, -42, v)
}

func TestStringDefault(t *testing.T) {
	ctx := context.Background()
	entry := StringDefault(MustKey("some_string_key"), "some_default_value")
	p := NewMemoryProvider()

	v, err := entry.GetValue(ctx, p)
	require.NoError(t, err)
	require.Equal(t, "some_default_value", v)

	require.NoError(t, entry.PutValue(ctx, p, ""))
	v, err = entry.GetValue(ctx, p)
	require.NoError(t, err)
	require.Empty(t, v)
}

type record struct {
	Name string `json:"name"`
}

func TestJSONDefaultIsStrict(t *testing.T) {
	ctx := context.Background()
	entry := JSONDefault[*record](MustKey("record"), nil)
	p := NewMemoryProvider()

	v, err := entry.GetValue(ctx, p)
	require.NoError(t, err)
	require.Nil(t, v)

	require.NoError(t, entry.PutValue(ctx, p, &record{Name: "a"}))
	v, err = entry.GetValue(ctx, p)
	require.NoError(t, err)
	require.Equal(t, "a", v.Name)

	require.NoError(t, p.PutString(ctx, entry.Key(), "{broken"))
	_, err = entry.GetValue(ctx, p)
	require.ErrorIs(t, err, ErrUndecodable)
}

func TestJSONDefaultObserveFallsBack(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	entry := JSONDefault[*record](MustKey("record"), nil)
	p := NewMemoryProvider()
	require.NoError(t, p.PutString(ctx, entry.Key(), "{broken"))

	values, err := entry.Observe(ctx, p)
	require.NoError(t, err)
	require.Nil(t, next(t, values))

	require.NoError(t, entry.PutValue(ctx, p, &record{Name: "b"}))
	require.Equal(t, "b", next(t, values).Name)

	require.NoError(t, p.PutString(ctx, entry.Key(), "still broken"))
	require.Nil(t, next(t, values))
}

func TestObserve(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	entry := BooleanDefault(MustKey("flag"), false)
	p := NewMemoryProvider()

	values, err := entry.Observe(ctx, p)
	require.NoError(t, err)
	require.False(t, next(t, values))

	require.NoError(t, entry.PutValue(ctx, p, true))
	require.True(t, next(t, values))

	// Garbage coerces to the default.
	require.NoError(t, p.PutString(ctx, entry.Key(), "garbage"))
	require.False(t, next(t, values))

	cancel()
	for range values {
	}
}

func TestObserveSeesExistingValue(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	entry := IntegerDefault(MustKey("count"), 0)
	p := NewMemoryProvider()
	require.NoError(t, entry.PutValue(ctx, p, 7))

	values, err := entry.Observe(ctx, p)
	require.NoError(t, err)
	require.Equal(t, 7, next(t, values))
}

func TestBoltProviderPersists(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	path := filepath.Join(t.TempDir(), "prefs", "standard.db")
	entry := BooleanDefault(MustKey("is_user_backup_complete"), false)

	p, err := OpenBolt(path)
	require.NoError(t, err)

	values, err := entry.Observe(ctx, p)
	require.NoError(t, err)
	require.False(t, next(t, values))

	require.NoError(t, entry.PutValue(ctx, p, true))
	require.True(t, next(t, values))

	require.NoError(t, p.PutStrings(ctx, map[Key]string{
		MustKey("a"): "1",
		MustKey("b"): "2",
	}))
	names, err := p.Keys(ctx)
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"a", "b", "is_user_backup_complete"}, names)

	cancel()
	for range values {
	}
	require.NoError(t, p.Close())

	p, err = OpenBolt(path)
	require.NoError(t, err)
	defer p.Close()

	v, err := entry.GetValue(context.Background(), p)
	require.NoError(t, err)
	require.True(t, v)

	ok, err := p.HasKey(context.Background(), MustKey("missing"))
	require.NoError(t, err)
	require.False(t, ok)
}

func TestEncryptedProvider(t *testing.T) {
	ctx := context.Background()
	backing := NewMemoryProvider()
	key := MustKey("persistable_wallet")

	p, err := OpenEncrypted(ctx, backing, []byte("dev"), testParams)
	require.NoError(t, err)

	require.NoError(t, p.PutString(ctx, key, "seed words"))

	v, ok, err := p.GetString(ctx, key)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "seed words", v)

	has, err := p.HasKey(ctx, key)
	require.NoError(t, err)
	require.True(t, has)

	// Neither the key name nor the value is visible in the backing store.
	has, err = backing.HasKey(ctx, key)
	require.NoError(t, err)
	require.False(t, has)
	for _, raw := range backing.values {
		require.NotContains(t, raw, "seed words")
	}

	reopened, err := OpenEncrypted(ctx, backing, []byte("dev"), testParams)
	require.NoError(t, err)
	v, _, err = reopened.GetString(ctx, key)
	require.NoError(t, err)
	require.Equal(t, "seed words", v)

	_, err = OpenEncrypted(ctx, backing, []byte("wrong"), testParams)
	require.ErrorIs(t, err, ErrInvalidPassword)
}

func TestEncryptedValueBoundToKey(t *testing.T) {
	ctx := context.Background()
	backing := NewMemoryProvider()

	p, err := OpenEncrypted(ctx, backing, []byte("dev"), testParams)
	require.NoError(t, err)

	a, b := MustKey("a"), MustKey("b")
	require.NoError(t, p.PutString(ctx, a, "value"))

	keys := p.current()
	sealed, ok, err := backing.GetString(ctx, storedKey(keys, a))
	require.NoError(t, err)
	require.True(t, ok)
	require.NoError(t, backing.PutString(ctx, storedKey(keys, b), sealed))

	_, _, err = p.GetString(ctx, b)
	require.ErrorIs(t, err, crypto.ErrDecrypt)
}

func TestEncryptedObserve(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	p, err := OpenEncrypted(ctx, NewMemoryProvider(), []byte("dev"), testParams)
	require.NoError(t, err)

	entry := StringDefault(MustKey("secret"), "none")
	values, err := entry.Observe(ctx, p)
	require.NoError(t, err)
	require.Equal(t, "none", next(t, values))

	require.NoError(t, entry.PutValue(ctx, p, "shh"))
	require.Equal(t, "shh", next(t, values))
}

func TestRekey(t *testing.T) {
	ctx := context.Background()
	backing := NewMemoryProvider()
	key := MustKey("persistable_wallet")

	p, err := OpenEncrypted(ctx, backing, []byte("old"), testParams)
	require.NoError(t, err)
	require.NoError(t, p.PutString(ctx, key, "wallet"))

	require.NoError(t, p.Rekey(ctx, []byte("new"), []Key{key, MustKey("absent")}, testParams))

	v, ok, err := p.GetString(ctx, key)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "wallet", v)

	_, err = OpenEncrypted(ctx, backing, []byte("old"), testParams)
	require.ErrorIs(t, err, ErrInvalidPassword)

	reopened, err := OpenEncrypted(ctx, backing, []byte("new"), testParams)
	require.NoError(t, err)
	v, _, err = reopened.GetString(ctx, key)
	require.NoError(t, err)
	require.Equal(t, "wallet", v)
}

// stallingProvider blocks the first armed PutString until release closes.
type stallingProvider struct {
	*MemoryProvider
	armed   atomic.Bool
	entered chan struct{}
	release chan struct{}
}

func (p *stallingProvider) PutString(ctx context.Context, key Key, value string) error {
	if p.armed.CompareAndSwap(true, false) {
		close(p.entered)
		<-p.release
	}
	return p.MemoryProvider.PutString(ctx, key, value)
}

func TestRekeyWaitsForInFlightWrite(t *testing.T) {
	ctx := context.Background()
	backing := &stallingProvider{
		MemoryProvider: NewMemoryProvider(),
		entered:        make(chan struct{}),
		release:        make(chan struct{}),
	}
	key := MustKey("persistable_wallet")

	p, err := OpenEncrypted(ctx, backing, []byte("old"), testParams)
	require.NoError(t, err)

	backing.armed.Store(true)
	putErr := make(chan error, 1)
	go func() {
		putErr <- p.PutString(ctx, key, "wallet")
	}()
	<-backing.entered

	rekeyErr := make(chan error, 1)
	go func() {
		rekeyErr <- p.Rekey(ctx, []byte("new"), []Key{key}, testParams)
	}()

	select {
	case <-rekeyErr:
		t.Fatal("rekey finished while a write was in flight")
	case <-time.After(50 * time.Millisecond):
	}

	close(backing.release)
	require.NoError(t, <-putErr)
	require.NoError(t, <-rekeyErr)

	v, ok, err := p.GetString(ctx, key)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "wallet", v)

	reopened, err := OpenEncrypted(ctx, backing, []byte("new"), testParams)
	require.NoError(t, err)
	v, _, err = reopened.GetString(ctx, key)
	require.NoError(t, err)
	require.Equal(t, "wallet", v)
}
