package wallet

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/lightningnetwork/lnd/clock"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/AlexZinkM/zec-wallet/internal/configuration"
	"github.com/AlexZinkM/zec-wallet/internal/model"
	"github.com/AlexZinkM/zec-wallet/internal/preference"
	"github.com/AlexZinkM/zec-wallet/internal/synchronizer"
	"github.com/AlexZinkM/zec-wallet/internal/synchronizer/sim"
)

const (
	testWords = "abandon abandon abandon abandon abandon abandon abandon abandon " +
		"abandon abandon abandon abandon abandon abandon abandon abandon " +
		"abandon abandon abandon abandon abandon abandon abandon art"

	testBirthday = 2_000_000
	tickInterval = time.Second
)

var testTime = time.Date(2022, time.March, 1, 12, 0, 0, 0, time.UTC)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func testWallet(t *testing.T) model.PersistableWallet {
	t.Helper()
	seed, err := model.ParseSeedPhrase(testWords)
	require.NoError(t, err)
	w, err := model.NewPersistableWallet(model.Mainnet, testBirthday, seed)
	require.NoError(t, err)
	return w
}

type fixture struct {
	t         *testing.T
	standard  preference.Provider
	encrypted preference.Provider
	clock     *clock.TestClock
	signal    chan time.Duration
	loader    *sim.Loader
	config    configuration.Provider
	rates     RateSource
	m         *Manager
}

type fixtureOption func(*fixture)

func withProviders(standard, encrypted preference.Provider) fixtureOption {
	return func(f *fixture) {
		f.standard, f.encrypted = standard, encrypted
	}
}

func withConfiguration(values map[string]string) fixtureOption {
	return func(f *fixture) {
		f.config = configuration.NewStaticProvider(
			configuration.NewStringConfiguration(values, testTime))
	}
}

func withRates(rates RateSource) fixtureOption {
	return func(f *fixture) {
		f.rates = rates
	}
}

func newFixture(t *testing.T, balance int64, opts ...fixtureOption) *fixture {
	t.Helper()

	signal := make(chan time.Duration, 64)
	clk := clock.NewTestClockWithTickSignal(testTime, signal)
	f := &fixture{
		t:         t,
		standard:  preference.NewMemoryProvider(),
		encrypted: preference.NewMemoryProvider(),
		clock:     clk,
		signal:    signal,
		loader: sim.NewLoader(sim.Config{
			TickInterval:   tickInterval,
			BlocksPerTick:  1000,
			ChainTip:       map[model.Network]uint64{model.Mainnet: testBirthday + 1000},
			SaplingBalance: balance,
		}, clk),
	}
	for _, opt := range opts {
		opt(f)
	}

	f.m = New(Config{
		Standard:      f.standard,
		Encrypted:     f.encrypted,
		Loader:        f.loader,
		Configuration: f.config,
		Rates:         f.rates,
		Clock:         clk,
		SendCooldown:  4 * time.Minute,
	})
	return f
}

func (f *fixture) start() {
	f.t.Helper()
	require.NoError(f.t, f.m.Start(context.Background()))
	f.t.Cleanup(f.m.Close)
}

func (f *fixture) waitState(kind model.SecretStateKind) model.SecretState {
	f.t.Helper()
	require.Eventually(f.t, func() bool {
		return f.m.CurrentSecretState().Kind == kind
	}, 2*time.Second, 5*time.Millisecond, "waiting for %s", kind)
	return f.m.CurrentSecretState()
}

func (f *fixture) waitRegistered() {
	f.t.Helper()
	select {
	case <-f.signal:
	case <-time.After(2 * time.Second):
		f.t.Fatal("synchronizer tick loop did not register")
	}
}

// advance moves the clock and waits until the tick loop ran and registered
// again.
func (f *fixture) advance(d time.Duration) {
	f.t.Helper()
	f.clock.SetTime(f.clock.Now().Add(d))
	f.waitRegistered()
}

// syncFully brings a started Ready wallet to Synced.
func (f *fixture) syncFully() {
	f.t.Helper()
	require.Eventually(f.t, func() bool {
		return f.m.CurrentSynchronizer() != nil
	}, 2*time.Second, 5*time.Millisecond)
	f.waitRegistered()

	for range 3 {
		f.advance(tickInterval)
	}
	f.waitSnapshot(func(s *model.WalletSnapshot) bool {
		return s.Status == model.StatusSynced
	})
}

func (f *fixture) waitSnapshot(cond func(*model.WalletSnapshot) bool) *model.WalletSnapshot {
	f.t.Helper()
	var snap *model.WalletSnapshot
	require.Eventually(f.t, func() bool {
		snap = f.m.CurrentSnapshot()
		return snap != nil && cond(snap)
	}, 2*time.Second, 5*time.Millisecond)
	return snap
}

func TestLoadingBeforeStart(t *testing.T) {
	f := newFixture(t, 0)
	require.Equal(t, model.SecretLoading, f.m.CurrentSecretState().Kind)
}

// gatedProvider holds back observed values until gate is closed.
type gatedProvider struct {
	preference.Provider
	gate chan struct{}
}

func (p gatedProvider) Observe(ctx context.Context, key preference.Key) (<-chan *string, error) {
	in, err := p.Provider.Observe(ctx, key)
	if err != nil {
		return nil, err
	}
	out := make(chan *string)
	go func() {
		defer close(out)
		select {
		case <-p.gate:
		case <-ctx.Done():
			return
		}
		for v := range in {
			select {
			case out <- v:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, nil
}

func TestLoadingUntilBothSourcesEmit(t *testing.T) {
	gate := make(chan struct{})
	standard := gatedProvider{Provider: preference.NewMemoryProvider(), gate: gate}
	f := newFixture(t, 0, withProviders(standard, preference.NewMemoryProvider()))
	f.start()

	// The wallet source has emitted, the backup flag has not.
	time.Sleep(50 * time.Millisecond)
	require.Equal(t, model.SecretLoading, f.m.CurrentSecretState().Kind)

	close(gate)
	f.waitState(model.SecretNone)
}

func TestDerivationTable(t *testing.T) {
	w := testWallet(t)
	ctx := context.Background()

	tests := []struct {
		name   string
		wallet *model.PersistableWallet
		backup *bool
		want   model.SecretStateKind
	}{
		{name: "nothing stored", want: model.SecretNone},
		{name: "backup only", backup: ptr(true), want: model.SecretNone},
		{name: "backup false only", backup: ptr(false), want: model.SecretNone},
		{name: "wallet without flag", wallet: &w, want: model.SecretNeedsBackup},
		{name: "wallet not backed up", wallet: &w, backup: ptr(false), want: model.SecretNeedsBackup},
		{name: "wallet backed up", wallet: &w, backup: ptr(true), want: model.SecretReady},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t, 0)
			if tc.wallet != nil {
				require.NoError(t, PersistableWalletKey.PutValue(ctx, f.encrypted, tc.wallet))
			}
			if tc.backup != nil {
				require.NoError(t, IsUserBackupComplete.PutValue(ctx, f.standard, *tc.backup))
			}
			f.start()

			state := f.waitState(tc.want)
			if tc.wallet != nil {
				require.True(t, state.Wallet.Equal(w))
			} else {
				require.Nil(t, state.Wallet)
			}
		})
	}
}

func ptr[T any](v T) *T {
	return &v
}

func TestCreateBackupFlow(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, 0)
	f.start()
	f.waitState(model.SecretNone)

	_, err := f.m.SeedPhrase(ctx)
	require.ErrorIs(t, err, ErrNoWallet)

	created, err := f.m.PersistNewWallet(ctx, model.Mainnet)
	require.NoError(t, err)
	require.Equal(t, uint64(2_000_000), created.Birthday)

	state := f.waitState(model.SecretNeedsBackup)
	require.True(t, state.Wallet.Equal(created))
	require.Nil(t, f.m.CurrentSynchronizer())

	seed, err := f.m.SeedPhrase(ctx)
	require.NoError(t, err)
	require.Equal(t, created.SeedPhrase, seed.SeedPhrase)

	_, err = f.m.PersistNewWallet(ctx, model.Mainnet)
	require.ErrorIs(t, err, ErrWalletExists)

	require.NoError(t, f.m.PersistBackupComplete(ctx))
	f.waitState(model.SecretReady)

	require.Eventually(t, func() bool {
		return f.m.CurrentSynchronizer() != nil && f.m.CurrentSnapshot() != nil
	}, 2*time.Second, 5*time.Millisecond)
}

func TestRestoreNeverNeedsBackup(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	f := newFixture(t, 0)
	f.start()
	f.waitState(model.SecretNone)

	states := f.m.SecretState(ctx)
	require.Equal(t, model.SecretNone, (<-states).Kind)

	seen := make(chan []model.SecretStateKind, 1)
	go func() {
		var kinds []model.SecretStateKind
		for s := range states {
			kinds = append(kinds, s.Kind)
			if s.Kind == model.SecretReady {
				break
			}
		}
		seen <- kinds
	}()

	require.NoError(t, f.m.RestoreWallet(ctx, testWallet(t)))

	select {
	case kinds := <-seen:
		require.NotContains(t, kinds, model.SecretNeedsBackup)
		require.Equal(t, model.SecretReady, kinds[len(kinds)-1])
	case <-time.After(2 * time.Second):
		t.Fatal("never became ready")
	}

	backup, err := IsUserBackupComplete.GetValue(ctx, f.standard)
	require.NoError(t, err)
	require.True(t, backup)
}

func TestDuplicateStatesSuppressed(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	f := newFixture(t, 0)
	require.NoError(t, f.m.RestoreWallet(ctx, testWallet(t)))
	f.start()
	f.waitState(model.SecretReady)

	states := f.m.SecretState(ctx)
	require.Equal(t, model.SecretReady, (<-states).Kind)

	// Same values written again.
	require.NoError(t, f.m.PersistBackupComplete(ctx))
	require.NoError(t, f.m.PersistExistingWallet(ctx, testWallet(t)))

	select {
	case s := <-states:
		t.Fatalf("unexpected state %s", s)
	case <-time.After(100 * time.Millisecond):
	}
}

// guardProbe records how many writes are in flight at once.
type guardProbe struct {
	preference.Provider
	inFlight    *atomic.Int32
	maxInFlight *atomic.Int32
	writes      *atomic.Int32
}

func (p guardProbe) PutString(ctx context.Context, key preference.Key, value string) error {
	n := p.inFlight.Add(1)
	defer p.inFlight.Add(-1)

	for {
		cur := p.maxInFlight.Load()
		if n <= cur || p.maxInFlight.CompareAndSwap(cur, n) {
			break
		}
	}
	p.writes.Add(1)
	time.Sleep(time.Millisecond)
	return p.Provider.PutString(ctx, key, value)
}

func TestWritesNeverInterleave(t *testing.T) {
	var inFlight, maxInFlight, writes atomic.Int32
	probe := func() guardProbe {
		return guardProbe{
			Provider:    preference.NewMemoryProvider(),
			inFlight:    &inFlight,
			maxInFlight: &maxInFlight,
			writes:      &writes,
		}
	}
	f := newFixture(t, 0, withProviders(probe(), probe()))
	w := testWallet(t)

	const rounds = 20
	var wg sync.WaitGroup
	for i := range rounds {
		wg.Add(1)
		go func() {
			defer wg.Done()
			var err error
			if i%2 == 0 {
				err = f.m.PersistExistingWallet(context.Background(), w)
			} else {
				err = f.m.PersistBackupComplete(context.Background())
			}
			require.NoError(t, err)
		}()
	}
	wg.Wait()

	require.Equal(t, int32(rounds), writes.Load())
	require.Equal(t, int32(1), maxInFlight.Load())
}

func TestWriteGuardHonorsContext(t *testing.T) {
	f := newFixture(t, 0)
	require.NoError(t, f.m.writeGuard.Acquire(context.Background(), 1))
	defer f.m.writeGuard.Release(1)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	require.ErrorIs(t, f.m.PersistBackupComplete(ctx), context.DeadlineExceeded)
}

func TestPersistRejectsInvalidWallet(t *testing.T) {
	f := newFixture(t, 0)
	w := testWallet(t)
	w.Birthday = 1
	require.Error(t, f.m.PersistExistingWallet(context.Background(), w))
	require.Error(t, f.m.RestoreWallet(context.Background(), w))

	// Nothing was written, not even the backup flag.
	has, err := f.standard.HasKey(context.Background(), IsUserBackupComplete.Key())
	require.NoError(t, err)
	require.False(t, has)
}

func TestSynchronizerFollowsWallet(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	f := newFixture(t, 0)
	require.NoError(t, f.m.RestoreWallet(ctx, testWallet(t)))
	f.start()
	f.waitState(model.SecretReady)

	var first synchronizer.Synchronizer
	require.Eventually(t, func() bool {
		first = f.m.CurrentSynchronizer()
		return first != nil
	}, 2*time.Second, 5*time.Millisecond)

	seed, err := model.NewSeedPhrase()
	require.NoError(t, err)
	other, err := model.NewPersistableWallet(model.Mainnet, testBirthday, seed)
	require.NoError(t, err)
	require.NoError(t, f.m.PersistExistingWallet(ctx, other))

	require.Eventually(t, func() bool {
		s := f.m.CurrentSynchronizer()
		return s != nil && s != first
	}, 2*time.Second, 5*time.Millisecond)

	status := <-first.Status(ctx)
	require.Equal(t, model.StatusStopped, status)
}

// slowWrites widens the window between checking for a wallet and storing one.
type slowWrites struct {
	preference.Provider
}

func (p slowWrites) PutString(ctx context.Context, key preference.Key, value string) error {
	time.Sleep(20 * time.Millisecond)
	return p.Provider.PutString(ctx, key, value)
}

func TestConcurrentCreateKeepsFirstWallet(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, 0, withProviders(preference.NewMemoryProvider(), slowWrites{preference.NewMemoryProvider()}))

	type result struct {
		wallet model.PersistableWallet
		err    error
	}
	results := make(chan result, 2)
	for range 2 {
		go func() {
			w, err := f.m.PersistNewWallet(ctx, model.Mainnet)
			results <- result{w, err}
		}()
	}

	var created []model.PersistableWallet
	var exists int
	for range 2 {
		r := <-results
		switch {
		case r.err == nil:
			created = append(created, r.wallet)
		case errors.Is(r.err, ErrWalletExists):
			exists++
		default:
			t.Fatalf("unexpected error: %v", r.err)
		}
	}
	require.Len(t, created, 1)
	require.Equal(t, 1, exists)

	stored, err := f.m.StoredWallet(ctx)
	require.NoError(t, err)
	require.NotNil(t, stored)
	require.True(t, stored.Equal(created[0]))
}

func TestRestoreKeepsStoredWallet(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, 0)

	created, err := f.m.PersistNewWallet(ctx, model.Mainnet)
	require.NoError(t, err)

	require.ErrorIs(t, f.m.RestoreWallet(ctx, testWallet(t)), ErrWalletExists)

	stored, err := f.m.StoredWallet(ctx)
	require.NoError(t, err)
	require.True(t, stored.Equal(created))

	// The seed was never shown, so the wallet still needs a backup.
	has, err := f.standard.HasKey(ctx, IsUserBackupComplete.Key())
	require.NoError(t, err)
	require.False(t, has)
}

func TestUndecodableWalletReadsAsNone(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, 0)
	require.NoError(t, f.encrypted.PutString(ctx, PersistableWalletKey.Key(), "{not json"))

	f.start()
	f.waitState(model.SecretNone)

	_, err := f.m.StoredWallet(ctx)
	require.ErrorIs(t, err, preference.ErrUndecodable)

	// Creating must not silently replace the entry.
	_, err = f.m.PersistNewWallet(ctx, model.Mainnet)
	require.ErrorIs(t, err, ErrWalletExists)

	// Restoring from the seed recovers it.
	require.NoError(t, f.m.RestoreWallet(ctx, testWallet(t)))
	state := f.waitState(model.SecretReady)
	require.True(t, state.Wallet.Equal(testWallet(t)))
}
