package main

import (
	"go.uber.org/zap"

	"github.com/AlexZinkM/zec-wallet/internal/configuration"
	"github.com/AlexZinkM/zec-wallet/internal/crash"
	"github.com/AlexZinkM/zec-wallet/internal/handler"
	"github.com/AlexZinkM/zec-wallet/internal/preference"
	"github.com/AlexZinkM/zec-wallet/internal/synchronizer/sim"
	"github.com/AlexZinkM/zec-wallet/wallet"
)

var log = zap.NewNop()

// setupLoggers hands a named child of root to every subsystem.
func setupLoggers(root *zap.Logger) {
	log = root.Named("walletd")

	preference.UseLogger(root)
	configuration.UseLogger(root)
	sim.UseLogger(root)
	crash.UseLogger(root)
	wallet.UseLogger(root)
	handler.UseLogger(root)
}
