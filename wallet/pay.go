package wallet

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/AlexZinkM/zec-wallet/internal/common"
	"github.com/AlexZinkM/zec-wallet/internal/model"
	"github.com/AlexZinkM/zec-wallet/internal/synchronizer"
	"github.com/AlexZinkM/zec-wallet/internal/zaddr"
)

var (
	ErrCooldown          = errors.New("cooldown active")
	ErrInsufficientFunds = synchronizer.ErrInsufficientFunds
)

// sendCooldown prefers the configuration flag over the static setting.
func (m *Manager) sendCooldown() time.Duration {
	if minutes := SendCooldownMinutes.GetValue(m.Configuration()); minutes >= 0 {
		return time.Duration(minutes) * time.Minute
	}
	return m.cfg.SendCooldown
}

// Send sends ZEC from the sapling pool. Only one send runs at a time and a
// successful send starts the cooldown.
func (m *Manager) Send(ctx context.Context, req model.SendRequest) (*model.SendResponse, error) {
	w, err := m.readyWallet()
	if err != nil {
		return nil, err
	}

	// Validate recipient address
	if _, err := zaddr.Classify(req.ToAddress, w.Network); err != nil {
		return nil, err
	}

	amount, err := common.ZECToZatoshi(req.Amount)
	if err != nil {
		return nil, err
	}
	if amount <= 0 {
		return nil, fmt.Errorf("%w: amount must be positive", common.ErrInvalidAmount)
	}

	// Check cooldown
	m.sendMu.Lock()
	defer m.sendMu.Unlock()

	if !m.lastSend.IsZero() {
		cooldown := m.sendCooldown()
		if elapsed := m.cfg.Clock.Now().Sub(m.lastSend); elapsed < cooldown {
			remaining := cooldown - elapsed
			return nil, fmt.Errorf("%w, please wait %v", ErrCooldown, remaining.Round(time.Second))
		}
	}

	s := m.CurrentSynchronizer()
	snap := m.CurrentSnapshot()
	if s == nil || snap == nil {
		return nil, fmt.Errorf("%w: synchronizer is not running", ErrNotReady)
	}
	if !snap.IsSendEnabled() {
		return nil, fmt.Errorf("%w: wait until the wallet is synced and funded", ErrNotReady)
	}

	// Check funds (amount + fee)
	if required := amount + model.MinersFeeZatoshi; required > snap.SaplingBalance.Available {
		spendable := max(snap.SaplingBalance.Available-model.MinersFeeZatoshi, 0)
		return nil, fmt.Errorf("%w. Transaction fee: %s ZEC. Max you can send: %s ZEC", ErrInsufficientFunds,
			common.ZatoshiToZEC(model.MinersFeeZatoshi), common.ZatoshiToZEC(spendable))
	}

	key, err := m.cfg.Loader.DeriveSpendingKey(w)
	if err != nil {
		return nil, fmt.Errorf("failed to derive spending key: %w", err)
	}
	// Always clear the key from memory
	defer key.Wipe()

	tx, err := s.Send(ctx, key, synchronizer.SendRequest{
		ToAddress: req.ToAddress,
		Amount:    amount,
		Memo:      req.Memo,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to send transaction: %w", err)
	}

	m.lastSend = m.cfg.Clock.Now()
	log.Info("Transaction submitted", zap.String("txid", tx.ID), zap.Int64("zatoshi", amount))

	return &model.SendResponse{TxID: tx.ID}, nil
}
