package wallet

import "go.uber.org/zap"

var log = zap.NewNop()

// UseLogger sets the package-wide logger. Any calls to this function must be
// made before a Manager is started (it is not concurrent safe).
func UseLogger(logger *zap.Logger) {
	log = logger.Named("wallet")
}
