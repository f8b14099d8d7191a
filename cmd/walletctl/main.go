// Command walletctl inspects and maintains the wallet stores while the daemon
// is stopped.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/AlexZinkM/zec-wallet/internal/config"
	"github.com/AlexZinkM/zec-wallet/internal/logging"
	"github.com/AlexZinkM/zec-wallet/internal/preference"
	"github.com/AlexZinkM/zec-wallet/wallet"
)

var (
	dataDir  string
	logLevel string

	cfg       *config.Config
	logger    = zap.NewNop()
	logCloser io.Closer
)

var rootCmd = &cobra.Command{
	Use:           "walletctl",
	Short:         "Inspect and maintain the zec-wallet stores",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load()
		if err != nil {
			return err
		}
		if dataDir != "" {
			cfg.DataDir = dataDir
		}

		// Initialize logger
		logger, logCloser, err = logging.New(logging.Config{Level: logLevel})
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		preference.UseLogger(logger)
		wallet.UseLogger(logger)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
		if logCloser != nil {
			_ = logCloser.Close()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "data directory (default $DATA_DIR)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level")

	rootCmd.AddCommand(stateCmd, backupCompleteCmd, rekeyCmd, settingsCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
