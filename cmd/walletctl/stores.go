package main

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/AlexZinkM/zec-wallet/internal/config"
	"github.com/AlexZinkM/zec-wallet/internal/crypto"
	"github.com/AlexZinkM/zec-wallet/internal/preference"
	"github.com/AlexZinkM/zec-wallet/wallet"
)

// stores are the opened preference files. The daemon holds the same files
// locked, so it must not be running.
type stores struct {
	standard  *preference.BoltProvider
	backing   *preference.BoltProvider
	encrypted *preference.EncryptedProvider
}

func openStandard() (*stores, error) {
	standard, err := preference.OpenBolt(cfg.StandardStorePath())
	if err != nil {
		return nil, err
	}
	return &stores{standard: standard}, nil
}

// openAll also opens the encrypted store, prompting for its password.
func openAll(ctx context.Context) (*stores, error) {
	s, err := openStandard()
	if err != nil {
		return nil, err
	}

	s.backing, err = preference.OpenBolt(cfg.EncryptedStorePath())
	if err != nil {
		s.Close()
		return nil, err
	}

	password, err := config.ReadPassword("Enter wallet password: ")
	if err != nil {
		s.Close()
		return nil, err
	}
	defer clear(password)

	s.encrypted, err = preference.OpenEncrypted(ctx, s.backing, password, crypto.DefaultParams)
	if err != nil {
		s.Close()
		return nil, err
	}
	return s, nil
}

// manager drives the stores through the same write guard as the daemon.
// Encrypted is nil for commands that only touch plain preferences.
func (s *stores) manager() *wallet.Manager {
	mcfg := wallet.Config{Standard: s.standard}
	if s.encrypted != nil {
		mcfg.Encrypted = s.encrypted
	}
	return wallet.New(mcfg)
}

func (s *stores) Close() {
	if s.encrypted != nil {
		s.encrypted.Close()
	}
	var errs []error
	if s.backing != nil {
		errs = append(errs, s.backing.Close())
	}
	errs = append(errs, s.standard.Close())
	if err := errors.Join(errs...); err != nil {
		logger.Warn("Failed to close stores", zap.Error(err))
	}
}
