package api

import (
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/AlexZinkM/zec-wallet/internal/crash"
	"github.com/AlexZinkM/zec-wallet/internal/handler"
)

// SetupRouter sets up router with handlers. Panics in handlers are
// reported to reporter when it is not nil.
func SetupRouter(walletHandler *handler.WalletHandler, reporter *crash.Reporter) http.Handler {
	mux := http.NewServeMux()

	// Swagger UI
	mux.HandleFunc("/swagger/", httpSwagger.WrapHandler)

	// Onboarding and backup
	mux.HandleFunc("/wallet/state", walletHandler.State)
	mux.HandleFunc("/wallet/create", walletHandler.Create)
	mux.HandleFunc("/wallet/restore", walletHandler.Restore)
	mux.HandleFunc("/wallet/seed", walletHandler.Seed)
	mux.HandleFunc("/wallet/backup-complete", walletHandler.BackupComplete)

	// Wallet endpoints
	mux.HandleFunc("/wallet/balance", walletHandler.GetBalance)
	mux.HandleFunc("/wallet/address", walletHandler.GetAddress)
	mux.HandleFunc("/wallet/transactions", walletHandler.TransactionHistory)
	mux.HandleFunc("/wallet/send", walletHandler.Send)
	mux.HandleFunc("/wallet/stream", walletHandler.Stream)

	mux.HandleFunc("/settings", walletHandler.Settings)

	if reporter == nil {
		return mux
	}
	return crash.Recover(reporter, mux)
}
