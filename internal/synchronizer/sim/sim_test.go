package sim

import (
	"context"
	"testing"
	"time"

	"github.com/lightningnetwork/lnd/clock"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/AlexZinkM/zec-wallet/internal/model"
	"github.com/AlexZinkM/zec-wallet/internal/synchronizer"
	"github.com/AlexZinkM/zec-wallet/internal/zaddr"
)

const (
	testWords = "abandon abandon abandon abandon abandon abandon abandon abandon " +
		"abandon abandon abandon abandon abandon abandon abandon abandon " +
		"abandon abandon abandon abandon abandon abandon abandon art"

	interval = time.Second
	birthday = 2_000_000
)

var testTime = time.Date(2022, time.March, 1, 12, 0, 0, 0, time.UTC)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type harness struct {
	t      *testing.T
	clock  *clock.TestClock
	signal chan time.Duration
	loader *Loader
	wallet model.PersistableWallet
}

func newHarness(t *testing.T, balance int64) *harness {
	t.Helper()

	seed, err := model.ParseSeedPhrase(testWords)
	require.NoError(t, err)
	wallet, err := model.NewPersistableWallet(model.Mainnet, birthday, seed)
	require.NoError(t, err)

	signal := make(chan time.Duration, 16)
	clk := clock.NewTestClockWithTickSignal(testTime, signal)

	return &harness{
		t:      t,
		clock:  clk,
		signal: signal,
		loader: NewLoader(Config{
			TickInterval:   interval,
			BlocksPerTick:  1000,
			ChainTip:       map[model.Network]uint64{model.Mainnet: birthday + 2000},
			SaplingBalance: balance,
		}, clk),
		wallet: wallet,
	}
}

// waitRegistered blocks until the tick loop waits for the next tick, which
// also means the previous step finished.
func (h *harness) waitRegistered() {
	h.t.Helper()
	select {
	case <-h.signal:
	case <-time.After(time.Second):
		h.t.Fatal("tick loop did not register")
	}
}

func (h *harness) tick() {
	h.t.Helper()
	h.clock.SetTime(h.clock.Now().Add(interval))
	h.waitRegistered()
}

func (h *harness) start() *Synchronizer {
	h.t.Helper()
	s, err := h.loader.Load(context.Background(), h.wallet)
	require.NoError(h.t, err)
	require.NoError(h.t, s.Start(context.Background()))
	h.waitRegistered()
	h.t.Cleanup(s.Stop)
	return s.(*Synchronizer)
}

func TestSyncProgression(t *testing.T) {
	h := newHarness(t, 0)
	s := h.start()

	require.Equal(t, model.StatusDownloading, s.status.Get())

	h.tick()
	require.Equal(t, model.StatusScanning, s.status.Get())
	require.Equal(t, 0, s.info.Get().ScanProgress())

	h.tick()
	require.Equal(t, model.StatusScanning, s.status.Get())
	require.Equal(t, 50, s.info.Get().ScanProgress())

	h.tick()
	require.Equal(t, model.StatusEnhancing, s.status.Get())
	require.Equal(t, 100, s.info.Get().ScanProgress())

	h.tick()
	require.Equal(t, model.StatusSynced, s.status.Get())

	h.tick()
	require.Equal(t, uint64(birthday+2001), s.info.Get().NetworkBlockHeight)

	s.Stop()
	require.Equal(t, model.StatusStopped, s.status.Get())
}

func TestSend(t *testing.T) {
	h := newHarness(t, 100_000)

	unstarted, err := h.loader.Load(context.Background(), h.wallet)
	require.NoError(t, err)

	key, err := h.loader.DeriveSpendingKey(h.wallet)
	require.NoError(t, err)
	defer key.Wipe()

	addrs, err := unstarted.Addresses(context.Background())
	require.NoError(t, err)
	req := synchronizer.SendRequest{ToAddress: addrs.Sapling, Amount: 50_000}

	_, err = unstarted.Send(context.Background(), key, req)
	require.ErrorIs(t, err, synchronizer.ErrNotStarted)

	s := h.start()

	other := synchronizer.NewSpendingKey(model.Mainnet, 0, []byte("not the key"))
	_, err = s.Send(context.Background(), other, req)
	require.ErrorIs(t, err, synchronizer.ErrKeyMismatch)

	_, err = s.Send(context.Background(), key, synchronizer.SendRequest{ToAddress: addrs.Sapling, Amount: 99_001})
	require.ErrorIs(t, err, synchronizer.ErrInsufficientFunds)

	_, err = s.Send(context.Background(), key, synchronizer.SendRequest{ToAddress: "zs1nope", Amount: 1})
	require.ErrorIs(t, err, zaddr.ErrInvalid)

	tx, err := s.Send(context.Background(), key, req)
	require.NoError(t, err)
	require.Equal(t, model.KindPending, tx.Kind)
	require.Equal(t, int64(-50_000), tx.Value)
	require.Equal(t, testTime, tx.CreatedAt)
	require.Equal(t, model.WalletBalance{Total: 49_000, Available: 49_000}, s.sapling.Get())
	require.Equal(t, 1, model.CountUnmined(s.pending.Get()))

	h.tick()
	require.Empty(t, s.pending.Get())
	sent := s.sent.Get()
	require.Len(t, sent, 1)
	require.Equal(t, tx.ID, sent[0].ID)
	require.True(t, sent[0].Mined)
	require.Equal(t, model.KindSent, sent[0].Kind)
}

func TestReceive(t *testing.T) {
	h := newHarness(t, 0)
	s := h.start()

	tx := s.Receive(250_000, "thanks")
	require.Equal(t, model.KindReceived, tx.Kind)
	require.Equal(t, model.WalletBalance{Total: 250_000, Available: 250_000}, s.sapling.Get())
	require.Len(t, s.received.Get(), 1)
}

func TestAddressesAreDeterministic(t *testing.T) {
	h := newHarness(t, 0)

	a, err := h.loader.Load(context.Background(), h.wallet)
	require.NoError(t, err)
	b, err := h.loader.Load(context.Background(), h.wallet)
	require.NoError(t, err)

	addrsA, err := a.Addresses(context.Background())
	require.NoError(t, err)
	addrsB, err := b.Addresses(context.Background())
	require.NoError(t, err)
	require.Equal(t, addrsA, addrsB)

	for addr, kind := range map[string]zaddr.Kind{
		addrsA.Unified:     zaddr.Unified,
		addrsA.Sapling:     zaddr.Sapling,
		addrsA.Transparent: zaddr.Transparent,
	} {
		got, err := zaddr.Classify(addr, model.Mainnet)
		require.NoError(t, err)
		require.Equal(t, kind, got)
	}

	testnet := h.wallet
	testnet.Network = model.Testnet
	c, err := h.loader.Load(context.Background(), testnet)
	require.NoError(t, err)
	addrsC, err := c.Addresses(context.Background())
	require.NoError(t, err)
	require.NotEqual(t, addrsA.Sapling, addrsC.Sapling)
}

func TestNearestBirthday(t *testing.T) {
	h := newHarness(t, 0)

	height, err := h.loader.NearestBirthday(context.Background(), model.Mainnet)
	require.NoError(t, err)
	require.Equal(t, uint64(2_000_000), height)

	height, err = h.loader.NearestBirthday(context.Background(), model.Testnet)
	require.NoError(t, err)
	require.Equal(t, model.Testnet.SaplingActivationHeight(), height)

	_, err = h.loader.NearestBirthday(context.Background(), model.Network("regtest"))
	require.Error(t, err)
}
