// Package wallet ties the stored wallet secret to a running synchronizer.
// It derives the secret state from two stored values, serializes the writes
// that change them and keeps the latest balance and history snapshots.
package wallet

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/lightningnetwork/lnd/clock"
	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"

	"github.com/AlexZinkM/zec-wallet/internal/configuration"
	"github.com/AlexZinkM/zec-wallet/internal/crash"
	"github.com/AlexZinkM/zec-wallet/internal/model"
	"github.com/AlexZinkM/zec-wallet/internal/preference"
	"github.com/AlexZinkM/zec-wallet/internal/stream"
	"github.com/AlexZinkM/zec-wallet/internal/synchronizer"
)

var (
	ErrWalletExists = errors.New("wallet already exists")
	ErrNoWallet     = errors.New("no wallet")
	ErrNotReady     = errors.New("wallet is not ready")
)

// Config holds the Manager's collaborators.
type Config struct {
	// Standard holds plain preferences such as the backup flag.
	Standard preference.Provider

	// Encrypted holds the wallet secret.
	Encrypted preference.Provider

	Loader synchronizer.Loader

	// Configuration is optional; without it every flag has its default.
	Configuration configuration.Provider

	// Rates is optional; without it fiat values are unavailable.
	Rates RateSource

	// Reporter is optional; synchronizer failures are reported to it.
	Reporter *crash.Reporter

	Clock        clock.Clock
	SendCooldown time.Duration
}

// Manager owns the secret state and the synchronizer for the stored wallet.
type Manager struct {
	cfg Config

	// writeGuard serializes wallet and backup flag writes in arrival order.
	writeGuard *semaphore.Weighted

	secret   *stream.State[model.SecretState]
	sync     *stream.State[synchronizer.Synchronizer]
	snapshot *stream.State[*model.WalletSnapshot]
	txs      *stream.State[[]model.Transaction]
	config   *stream.State[configuration.Configuration]

	sendMu   sync.Mutex
	lastSend time.Time

	mu      sync.Mutex
	started bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// New creates a Manager. Call Start to begin observing the stores.
func New(cfg Config) *Manager {
	if cfg.Clock == nil {
		cfg.Clock = clock.NewDefaultClock()
	}
	if cfg.Configuration == nil {
		cfg.Configuration = configuration.NewStaticProvider(configuration.Empty)
	}

	return &Manager{
		cfg:        cfg,
		writeGuard: semaphore.NewWeighted(1),
		secret:     stream.NewState(model.LoadingState, model.SecretState.Equal),
		sync: stream.NewState[synchronizer.Synchronizer](nil, func(a, b synchronizer.Synchronizer) bool {
			return a == b
		}),
		snapshot: stream.NewState[*model.WalletSnapshot](nil, nil),
		txs:      stream.NewState[[]model.Transaction](nil, nil),
		config:   stream.NewState(configuration.Empty, nil),
	}
}

// Start observes the stores and manages the synchronizer until ctx is done
// or Close is called.
func (m *Manager) Start(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.started {
		return nil
	}

	ctx, cancel := context.WithCancel(ctx)

	wallets, err := PersistableWalletKey.Observe(ctx, m.cfg.Encrypted)
	if err != nil {
		cancel()
		return fmt.Errorf("failed to observe wallet: %w", err)
	}
	backups, err := IsUserBackupComplete.Observe(ctx, m.cfg.Standard)
	if err != nil {
		cancel()
		return fmt.Errorf("failed to observe backup flag: %w", err)
	}

	m.started = true
	m.cancel = cancel

	m.wg.Add(4)
	go m.deriveSecretState(ctx, wallets, backups)
	go m.manageSynchronizer(ctx)
	go m.followSynchronizer(ctx)
	go m.followConfiguration(ctx)

	log.Info("Wallet manager started")
	return nil
}

// Close stops every goroutine and the synchronizer.
func (m *Manager) Close() {
	m.mu.Lock()
	cancel := m.cancel
	m.cancel = nil
	m.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	m.wg.Wait()
	log.Info("Wallet manager stopped")
}

// deriveSecretState combines the two stored values. The state stays
// Loading until both have been read.
func (m *Manager) deriveSecretState(ctx context.Context, wallets <-chan *model.PersistableWallet, backups <-chan bool) {
	defer m.wg.Done()

	var (
		wallet                 *model.PersistableWallet
		backupComplete         bool
		haveWallet, haveBackup bool
	)
	for {
		select {
		case w, ok := <-wallets:
			if !ok {
				return
			}
			wallet, haveWallet = w, true
		case b, ok := <-backups:
			if !ok {
				return
			}
			backupComplete, haveBackup = b, true
		case <-ctx.Done():
			return
		}

		if !haveWallet || !haveBackup {
			continue
		}
		state := model.DeriveSecretState(wallet, backupComplete)
		if m.secret.Set(state) {
			log.Debug("Secret state changed", zap.Stringer("state", state))
		}
	}
}

// manageSynchronizer runs a synchronizer while the state is Ready.
func (m *Manager) manageSynchronizer(ctx context.Context) {
	defer m.wg.Done()

	var (
		active       synchronizer.Synchronizer
		activeWallet *model.PersistableWallet
	)
	stop := func() {
		if active == nil {
			return
		}
		m.sync.Set(nil)
		active.Stop()
		active, activeWallet = nil, nil
	}
	defer stop()

	for state := range m.secret.Subscribe(ctx) {
		if state.Kind != model.SecretReady {
			stop()
			continue
		}
		if activeWallet != nil && activeWallet.Equal(*state.Wallet) {
			continue
		}

		stop()
		s, err := m.loadSynchronizer(ctx, *state.Wallet)
		if err != nil {
			log.Error("Failed to start synchronizer", zap.Error(err))
			m.reportCaught(err)
			continue
		}
		active, activeWallet = s, state.Wallet
		m.sync.Set(s)
	}
}

func (m *Manager) loadSynchronizer(ctx context.Context, w model.PersistableWallet) (synchronizer.Synchronizer, error) {
	s, err := m.cfg.Loader.Load(ctx, w)
	if err != nil {
		return nil, fmt.Errorf("failed to load synchronizer: %w", err)
	}
	if err := s.Start(ctx); err != nil {
		return nil, fmt.Errorf("failed to start synchronizer: %w", err)
	}
	log.Info("Synchronizer started", zap.Stringer("wallet", w))
	return s, nil
}

func (m *Manager) reportCaught(err error) {
	if m.cfg.Reporter == nil {
		return
	}
	if _, rerr := m.cfg.Reporter.ReportCaught(err); rerr != nil {
		log.Error("Failed to write crash report", zap.Error(rerr))
	}
}

// followSynchronizer mirrors the active synchronizer's snapshot and history.
func (m *Manager) followSynchronizer(ctx context.Context) {
	defer m.wg.Done()

	var (
		innerCancel context.CancelFunc
		inner       sync.WaitGroup
	)
	reset := func() {
		if innerCancel != nil {
			innerCancel()
			inner.Wait()
			innerCancel = nil
		}
	}
	defer reset()

	for s := range m.sync.Subscribe(ctx) {
		// Old values must not land after the reset.
		reset()
		m.snapshot.Set(nil)
		m.txs.Set(nil)
		if s == nil {
			continue
		}

		var innerCtx context.Context
		innerCtx, innerCancel = context.WithCancel(ctx)

		inner.Add(2)
		go func() {
			defer inner.Done()
			for snap := range synchronizer.Snapshots(innerCtx, s) {
				m.snapshot.Set(&snap)
			}
		}()
		go func() {
			defer inner.Done()
			for txs := range synchronizer.Transactions(innerCtx, s) {
				m.txs.Set(txs)
			}
		}()
	}
}

func (m *Manager) followConfiguration(ctx context.Context) {
	defer m.wg.Done()

	for c := range m.cfg.Configuration.Observe(ctx) {
		m.config.Set(c)
	}
}

// SecretState emits the current state and every change until ctx is done.
func (m *Manager) SecretState(ctx context.Context) <-chan model.SecretState {
	return m.secret.Subscribe(ctx)
}

// CurrentSecretState returns the latest state.
func (m *Manager) CurrentSecretState() model.SecretState {
	return m.secret.Get()
}

// Snapshots emits the latest snapshot, nil while no synchronizer runs.
func (m *Manager) Snapshots(ctx context.Context) <-chan *model.WalletSnapshot {
	return m.snapshot.Subscribe(ctx)
}

// CurrentSnapshot returns the latest snapshot or nil.
func (m *Manager) CurrentSnapshot() *model.WalletSnapshot {
	return m.snapshot.Get()
}

// CurrentSynchronizer returns the running synchronizer or nil.
func (m *Manager) CurrentSynchronizer() synchronizer.Synchronizer {
	return m.sync.Get()
}

// Configuration returns the latest configuration.
func (m *Manager) Configuration() configuration.Configuration {
	return m.config.Get()
}

// StoredWallet reads the wallet straight from the encrypted store.
func (m *Manager) StoredWallet(ctx context.Context) (*model.PersistableWallet, error) {
	w, err := PersistableWalletKey.GetValue(ctx, m.cfg.Encrypted)
	if err != nil {
		return nil, fmt.Errorf("failed to read wallet: %w", err)
	}
	return w, nil
}

// guarded runs fn while holding the write guard.
func (m *Manager) guarded(ctx context.Context, fn func() error) error {
	if err := m.writeGuard.Acquire(ctx, 1); err != nil {
		return err
	}
	defer m.writeGuard.Release(1)
	return fn()
}

// PersistExistingWallet stores w, replacing any stored wallet. Observers see
// the change through SecretState.
func (m *Manager) PersistExistingWallet(ctx context.Context, w model.PersistableWallet) error {
	if err := w.Validate(); err != nil {
		return err
	}
	return m.guarded(ctx, func() error {
		return m.putWallet(ctx, w)
	})
}

// PersistBackupComplete notes that the user has backed up the seed.
func (m *Manager) PersistBackupComplete(ctx context.Context) error {
	return m.guarded(ctx, func() error {
		return m.putBackupComplete(ctx)
	})
}

// putWallet and putBackupComplete must run under the write guard.
func (m *Manager) putWallet(ctx context.Context, w model.PersistableWallet) error {
	if err := PersistableWalletKey.PutValue(ctx, m.cfg.Encrypted, &w); err != nil {
		return fmt.Errorf("failed to persist wallet: %w", err)
	}
	log.Info("Wallet persisted", zap.Stringer("wallet", w))
	return nil
}

func (m *Manager) putBackupComplete(ctx context.Context) error {
	if err := IsUserBackupComplete.PutValue(ctx, m.cfg.Standard, true); err != nil {
		return fmt.Errorf("failed to persist backup flag: %w", err)
	}
	log.Info("Backup marked complete")
	return nil
}

// hasStoredWallet reports whether the wallet entry exists, decodable or not.
// Call it under the write guard.
func (m *Manager) hasStoredWallet(ctx context.Context) (bool, error) {
	ok, err := m.cfg.Encrypted.HasKey(ctx, PersistableWalletKey.Key())
	if err != nil {
		return false, fmt.Errorf("failed to check wallet: %w", err)
	}
	return ok, nil
}

// PersistNewWallet creates a wallet with a fresh seed and the nearest
// checkpoint as birthday. It refuses to replace a stored wallet.
func (m *Manager) PersistNewWallet(ctx context.Context, network model.Network) (model.PersistableWallet, error) {
	birthday, err := m.cfg.Loader.NearestBirthday(ctx, network)
	if err != nil {
		return model.PersistableWallet{}, fmt.Errorf("failed to get birthday: %w", err)
	}
	seed, err := model.NewSeedPhrase()
	if err != nil {
		return model.PersistableWallet{}, err
	}
	w, err := model.NewPersistableWallet(network, birthday, seed)
	if err != nil {
		return model.PersistableWallet{}, err
	}

	err = m.guarded(ctx, func() error {
		stored, err := m.hasStoredWallet(ctx)
		if err != nil {
			return err
		}
		if stored {
			return ErrWalletExists
		}
		return m.putWallet(ctx, w)
	})
	if err != nil {
		return model.PersistableWallet{}, err
	}
	return w, nil
}

// RestoreWallet stores a wallet recovered from its seed. The user already
// has the seed, so the backup flag is written first. A stored wallet is
// never replaced, but an entry that no longer decodes is.
func (m *Manager) RestoreWallet(ctx context.Context, w model.PersistableWallet) error {
	if err := w.Validate(); err != nil {
		return err
	}
	return m.guarded(ctx, func() error {
		existing, err := PersistableWalletKey.GetValue(ctx, m.cfg.Encrypted)
		switch {
		case errors.Is(err, preference.ErrUndecodable):
			log.Warn("Replacing undecodable stored wallet", zap.Error(err))
		case err != nil:
			return fmt.Errorf("failed to read wallet: %w", err)
		case existing != nil:
			return ErrWalletExists
		}

		if err := m.putBackupComplete(ctx); err != nil {
			return err
		}
		return m.putWallet(ctx, w)
	})
}

// SeedPhrase returns the stored seed for the backup flow.
func (m *Manager) SeedPhrase(ctx context.Context) (model.PersistableWallet, error) {
	w, err := m.StoredWallet(ctx)
	if err != nil {
		return model.PersistableWallet{}, err
	}
	if w == nil {
		return model.PersistableWallet{}, ErrNoWallet
	}
	return *w, nil
}

// readyWallet returns the wallet when the state is Ready.
func (m *Manager) readyWallet() (model.PersistableWallet, error) {
	state := m.secret.Get()
	switch state.Kind {
	case model.SecretReady:
		return *state.Wallet, nil
	case model.SecretNone:
		return model.PersistableWallet{}, ErrNoWallet
	}
	return model.PersistableWallet{}, fmt.Errorf("%w: state is %s", ErrNotReady, state)
}
