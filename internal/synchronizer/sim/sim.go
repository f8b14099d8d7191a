// Package sim is a deterministic in-process synchronizer. It derives
// addresses from the seed, walks through the sync stages on a clock and
// settles sends on the following tick.
package sim

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/lightningnetwork/lnd/clock"
	"go.uber.org/zap"

	"github.com/AlexZinkM/zec-wallet/internal/model"
	"github.com/AlexZinkM/zec-wallet/internal/stream"
	"github.com/AlexZinkM/zec-wallet/internal/synchronizer"
	"github.com/AlexZinkM/zec-wallet/internal/zaddr"
)

var log = zap.NewNop()

// UseLogger sets the package-wide logger.
func UseLogger(logger *zap.Logger) {
	log = logger.Named("sim")
}

// Config tunes the simulated chain.
type Config struct {
	// TickInterval is the time between sync steps.
	TickInterval time.Duration

	// BlocksPerTick is how far scanning advances per tick.
	BlocksPerTick uint64

	// ChainTip per network. Missing networks use the activation height plus
	// one day of blocks.
	ChainTip map[model.Network]uint64

	// SaplingBalance is the spendable balance every loaded wallet starts with.
	SaplingBalance int64
}

// DefaultConfig syncs a fresh wallet in a few ticks.
func DefaultConfig() Config {
	return Config{
		TickInterval:  2 * time.Second,
		BlocksPerTick: 1000,
		ChainTip: map[model.Network]uint64{
			model.Mainnet: 2_700_000,
			model.Testnet: 2_900_000,
		},
	}
}

func (c Config) tip(network model.Network) uint64 {
	if tip, ok := c.ChainTip[network]; ok {
		return tip
	}
	return network.SaplingActivationHeight() + 1152
}

// Loader builds simulated synchronizers.
type Loader struct {
	cfg   Config
	clock clock.Clock
}

var _ synchronizer.Loader = (*Loader)(nil)

func NewLoader(cfg Config, clk clock.Clock) *Loader {
	if cfg.BlocksPerTick == 0 {
		cfg.BlocksPerTick = 1
	}
	return &Loader{cfg: cfg, clock: clk}
}

// NearestBirthday rounds the tip down to a 10000 block checkpoint.
func (l *Loader) NearestBirthday(_ context.Context, network model.Network) (uint64, error) {
	if _, err := model.ParseNetwork(string(network)); err != nil {
		return 0, err
	}
	tip := l.cfg.tip(network)
	birthday := tip - tip%10000
	return max(birthday, network.SaplingActivationHeight()), nil
}

// DeriveSpendingKey stands in for ZIP-32 derivation with an HMAC of the seed.
func (l *Loader) DeriveSpendingKey(wallet model.PersistableWallet) (*synchronizer.SpendingKey, error) {
	seed := wallet.SeedPhrase.Seed()
	defer clear(seed)

	mac := hmac.New(sha256.New, []byte("zec-wallet sim spending key "+string(wallet.Network)))
	mac.Write(seed)
	return synchronizer.NewSpendingKey(wallet.Network, 0, mac.Sum(nil)), nil
}

func (l *Loader) Load(_ context.Context, wallet model.PersistableWallet) (synchronizer.Synchronizer, error) {
	if err := wallet.Validate(); err != nil {
		return nil, fmt.Errorf("failed to load wallet: %w", err)
	}

	key, err := l.DeriveSpendingKey(wallet)
	if err != nil {
		return nil, err
	}
	defer key.Wipe()

	addrs, err := deriveAddresses(wallet.Network, key.Bytes())
	if err != nil {
		return nil, err
	}

	tip := max(l.cfg.tip(wallet.Network), wallet.Birthday)
	info := model.ProcessorInfo{
		NetworkBlockHeight:   tip,
		LastDownloadedHeight: wallet.Birthday,
		LastScannedHeight:    wallet.Birthday,
		ScanStartHeight:      wallet.Birthday,
	}

	return &Synchronizer{
		cfg:         l.cfg,
		clock:       l.clock,
		network:     wallet.Network,
		keyID:       keyID(key.Bytes()),
		addresses:   addrs,
		status:      stream.NewState(model.StatusStopped, equal[model.SyncStatus]),
		info:        stream.NewState(info, equal[model.ProcessorInfo]),
		orchard:     stream.NewState(model.WalletBalance{}, equal[model.WalletBalance]),
		sapling:     stream.NewState(model.WalletBalance{Total: l.cfg.SaplingBalance, Available: l.cfg.SaplingBalance}, equal[model.WalletBalance]),
		transparent: stream.NewState(model.WalletBalance{}, equal[model.WalletBalance]),
		pending:     stream.NewState([]model.Transaction{}, nil),
		cleared:     stream.NewState([]model.Transaction{}, nil),
		sent:        stream.NewState([]model.Transaction{}, nil),
		received:    stream.NewState([]model.Transaction{}, nil),
	}, nil
}

func equal[T comparable](a, b T) bool {
	return a == b
}

func keyID(key []byte) string {
	sum := sha256.Sum256(key)
	return hex.EncodeToString(sum[:8])
}

func deriveAddresses(network model.Network, key []byte) (synchronizer.Addresses, error) {
	expand := func(label string, n int) []byte {
		var out []byte
		for i := 0; len(out) < n; i++ {
			mac := hmac.New(sha256.New, key)
			fmt.Fprintf(mac, "%s/%d", label, i)
			out = mac.Sum(out)
		}
		return out[:n]
	}

	sapling, err := zaddr.EncodeSapling(network, expand("sapling", 43))
	if err != nil {
		return synchronizer.Addresses{}, err
	}
	transparent, err := zaddr.EncodeTransparent(network, expand("transparent", 20))
	if err != nil {
		return synchronizer.Addresses{}, err
	}
	unified, err := zaddr.EncodeUnified(network, expand("unified", 96))
	if err != nil {
		return synchronizer.Addresses{}, err
	}
	return synchronizer.Addresses{Unified: unified, Sapling: sapling, Transparent: transparent}, nil
}

// Synchronizer is a simulated light client for one wallet.
type Synchronizer struct {
	cfg       Config
	clock     clock.Clock
	network   model.Network
	keyID     string
	addresses synchronizer.Addresses

	status      *stream.State[model.SyncStatus]
	info        *stream.State[model.ProcessorInfo]
	orchard     *stream.State[model.WalletBalance]
	sapling     *stream.State[model.WalletBalance]
	transparent *stream.State[model.WalletBalance]
	pending     *stream.State[[]model.Transaction]
	cleared     *stream.State[[]model.Transaction]
	sent        *stream.State[[]model.Transaction]
	received    *stream.State[[]model.Transaction]

	// mu serializes state transitions between the tick loop and Send.
	mu      sync.Mutex
	running bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	txSeq   int
}

var _ synchronizer.Synchronizer = (*Synchronizer)(nil)

// Start begins syncing. It does not block.
func (s *Synchronizer) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return nil
	}
	s.running = true

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.status.Set(model.StatusDownloading)

	s.wg.Add(1)
	go s.run(ctx)

	log.Info("Simulated synchronizer started",
		zap.String("network", string(s.network)), zap.String("key", s.keyID))
	return nil
}

// Stop halts syncing and waits for the tick loop.
func (s *Synchronizer) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	s.cancel()
	s.mu.Unlock()

	s.wg.Wait()
	s.status.Set(model.StatusStopped)
	log.Info("Simulated synchronizer stopped", zap.String("key", s.keyID))
}

func (s *Synchronizer) run(ctx context.Context) {
	defer s.wg.Done()

	for {
		select {
		case <-s.clock.TickAfter(s.cfg.TickInterval):
			s.step()
		case <-ctx.Done():
			return
		}
	}
}

// step advances the simulation by one tick.
func (s *Synchronizer) step() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return
	}

	s.minePending()

	info := s.info.Get()
	switch s.status.Get() {
	case model.StatusDisconnected, model.StatusDownloading:
		info.LastDownloadedHeight = info.NetworkBlockHeight
		s.info.Set(info)
		s.status.Set(model.StatusScanning)

	case model.StatusScanning:
		info.LastScannedHeight = min(info.LastScannedHeight+s.cfg.BlocksPerTick, info.NetworkBlockHeight)
		s.info.Set(info)
		if info.LastScannedHeight == info.NetworkBlockHeight {
			s.status.Set(model.StatusEnhancing)
		}

	case model.StatusEnhancing:
		s.status.Set(model.StatusSynced)

	case model.StatusSynced:
		// New block.
		info.NetworkBlockHeight++
		info.LastDownloadedHeight = info.NetworkBlockHeight
		info.LastScannedHeight = info.NetworkBlockHeight
		s.info.Set(info)
	}
}

// minePending confirms every submitted pending transaction.
func (s *Synchronizer) minePending() {
	pending := s.pending.Get()
	if !slices.ContainsFunc(pending, model.Transaction.IsUnmined) {
		return
	}

	height := s.info.Get().NetworkBlockHeight
	var remaining, confirmed []model.Transaction
	for _, tx := range pending {
		if !tx.IsUnmined() {
			remaining = append(remaining, tx)
			continue
		}
		tx.Kind = model.KindSent
		tx.Mined = true
		tx.MinedHeight = height
		confirmed = append(confirmed, tx)
	}

	s.pending.Set(slices.Concat([]model.Transaction{}, remaining))
	s.sent.Set(slices.Concat(s.sent.Get(), confirmed))

	// Change is spendable again once mined.
	bal := s.sapling.Get()
	bal.Available = bal.Total
	s.sapling.Set(bal)
}

func (s *Synchronizer) Status(ctx context.Context) <-chan model.SyncStatus {
	return s.status.Subscribe(ctx)
}

func (s *Synchronizer) ProcessorInfo(ctx context.Context) <-chan model.ProcessorInfo {
	return s.info.Subscribe(ctx)
}

func (s *Synchronizer) OrchardBalances(ctx context.Context) <-chan model.WalletBalance {
	return s.orchard.Subscribe(ctx)
}

func (s *Synchronizer) SaplingBalances(ctx context.Context) <-chan model.WalletBalance {
	return s.sapling.Subscribe(ctx)
}

func (s *Synchronizer) TransparentBalances(ctx context.Context) <-chan model.WalletBalance {
	return s.transparent.Subscribe(ctx)
}

func (s *Synchronizer) PendingTransactions(ctx context.Context) <-chan []model.Transaction {
	return s.pending.Subscribe(ctx)
}

func (s *Synchronizer) ClearedTransactions(ctx context.Context) <-chan []model.Transaction {
	return s.cleared.Subscribe(ctx)
}

func (s *Synchronizer) SentTransactions(ctx context.Context) <-chan []model.Transaction {
	return s.sent.Subscribe(ctx)
}

func (s *Synchronizer) ReceivedTransactions(ctx context.Context) <-chan []model.Transaction {
	return s.received.Subscribe(ctx)
}

func (s *Synchronizer) Addresses(context.Context) (synchronizer.Addresses, error) {
	return s.addresses, nil
}

// Receive credits the sapling pool as if a payment arrived.
func (s *Synchronizer) Receive(amount int64, memo string) model.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.txSeq++
	tx := model.Transaction{
		ID:          s.txID("recv"),
		Kind:        model.KindReceived,
		Value:       amount,
		ToAddress:   s.addresses.Sapling,
		Memo:        memo,
		MinedHeight: s.info.Get().NetworkBlockHeight,
		CreatedAt:   s.clock.Now(),
	}
	s.received.Set(slices.Concat(s.received.Get(), []model.Transaction{tx}))

	bal := s.sapling.Get()
	bal.Total += amount
	bal.Available += amount
	s.sapling.Set(bal)
	return tx
}

// Send debits amount plus the miner's fee and records a pending
// transaction that is mined on the next tick.
func (s *Synchronizer) Send(_ context.Context, key *synchronizer.SpendingKey, req synchronizer.SendRequest) (model.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return model.Transaction{}, synchronizer.ErrNotStarted
	}
	if key == nil || key.Network != s.network || keyID(key.Bytes()) != s.keyID {
		return model.Transaction{}, synchronizer.ErrKeyMismatch
	}
	if req.Amount <= 0 {
		return model.Transaction{}, fmt.Errorf("amount must be positive")
	}
	if _, err := zaddr.Classify(req.ToAddress, s.network); err != nil {
		return model.Transaction{}, err
	}

	total := req.Amount + model.MinersFeeZatoshi
	bal := s.sapling.Get()
	if total > bal.Available {
		return model.Transaction{}, synchronizer.ErrInsufficientFunds
	}
	bal.Total -= total
	bal.Available -= total
	s.sapling.Set(bal)

	s.txSeq++
	tx := model.Transaction{
		ID:            s.txID("send"),
		Kind:          model.KindPending,
		Value:         -req.Amount,
		ToAddress:     req.ToAddress,
		Memo:          req.Memo,
		CreatedAt:     s.clock.Now(),
		SubmitSuccess: true,
	}
	s.pending.Set(slices.Concat(s.pending.Get(), []model.Transaction{tx}))

	log.Info("Simulated send submitted", zap.String("txid", tx.ID), zap.Int64("zatoshi", req.Amount))
	return tx, nil
}

func (s *Synchronizer) txID(kind string) string {
	sum := sha256.Sum256(fmt.Appendf(nil, "%s/%s/%d", s.keyID, kind, s.txSeq))
	return hex.EncodeToString(sum[:])
}
