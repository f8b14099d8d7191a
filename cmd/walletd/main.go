// @title        zec-wallet API
// @version      1.0
// @description  Local Zcash wallet: onboarding, backup, balance, receive, send and history.
// @BasePath     /
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lightningnetwork/lnd/clock"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	_ "github.com/AlexZinkM/zec-wallet/docs"
	"github.com/AlexZinkM/zec-wallet/internal/api"
	"github.com/AlexZinkM/zec-wallet/internal/client"
	"github.com/AlexZinkM/zec-wallet/internal/config"
	"github.com/AlexZinkM/zec-wallet/internal/configuration"
	"github.com/AlexZinkM/zec-wallet/internal/crash"
	"github.com/AlexZinkM/zec-wallet/internal/crypto"
	"github.com/AlexZinkM/zec-wallet/internal/handler"
	"github.com/AlexZinkM/zec-wallet/internal/logging"
	"github.com/AlexZinkM/zec-wallet/internal/model"
	"github.com/AlexZinkM/zec-wallet/internal/preference"
	"github.com/AlexZinkM/zec-wallet/internal/synchronizer/sim"
	"github.com/AlexZinkM/zec-wallet/wallet"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	if err := config.Init(); err != nil {
		return err
	}
	cfg := config.Get()

	logger, logCloser, err := logging.New(logging.Config{
		Level:     cfg.LogLevel,
		File:      cfg.LogFile,
		MaxSizeKB: cfg.LogMaxSizeKB,
		MaxFiles:  cfg.LogMaxFiles,
	})
	if err != nil {
		return err
	}
	defer logCloser.Close()
	defer logger.Sync()
	setupLoggers(logger)

	network, err := model.ParseNetwork(cfg.Network)
	if err != nil {
		return err
	}

	// Prompt for password before anything touches the encrypted store
	if err := config.PromptForPassword(); err != nil {
		return err
	}
	defer config.ForgetPassword()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	standard, err := preference.OpenBolt(cfg.StandardStorePath())
	if err != nil {
		return err
	}
	defer standard.Close()

	encrypted, closeEncrypted, err := openEncrypted(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeEncrypted()

	configProvider, stopConfig, err := openConfiguration(ctx, cfg)
	if err != nil {
		return err
	}
	defer stopConfig()

	clk := clock.NewDefaultClock()
	simCfg := sim.DefaultConfig()
	simCfg.SaplingBalance = cfg.SimSaplingBalance
	reporter := crash.NewReporter(cfg.CrashDir(), version, clk)

	manager := wallet.New(wallet.Config{
		Standard:      standard,
		Encrypted:     encrypted,
		Loader:        sim.NewLoader(simCfg, clk),
		Configuration: configProvider,
		Rates:         client.NewCoinGeckoClient(cfg.CoinGeckoURL),
		Reporter:      reporter,
		Clock:         clk,
		SendCooldown:  time.Duration(cfg.SendCooldown) * time.Minute,
	})
	if err := manager.Start(ctx); err != nil {
		return err
	}
	defer manager.Close()

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           api.SetupRouter(handler.NewWalletHandler(manager, network), reporter),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("Server starting",
			zap.String("addr", srv.Addr),
			zap.String("network", string(network)),
			zap.String("version", version))
		log.Info("Swagger UI available", zap.String("url", "http://localhost:"+cfg.Port+"/swagger/"))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	g.Go(func() error {
		refreshOnHangup(gctx, configProvider)
		return nil
	})
	return g.Wait()
}

// openEncrypted opens the encrypted store with the prompted password.
func openEncrypted(ctx context.Context, cfg *config.Config) (preference.Provider, func(), error) {
	backing, err := preference.OpenBolt(cfg.EncryptedStorePath())
	if err != nil {
		return nil, nil, err
	}

	password, err := config.GetPasswordBytes()
	if err != nil {
		backing.Close()
		return nil, nil, err
	}
	// Always clear password from memory
	defer clear(password)

	encrypted, err := preference.OpenEncrypted(ctx, backing, password, crypto.DefaultParams)
	if err != nil {
		backing.Close()
		return nil, nil, err
	}
	config.ForgetPassword()

	return encrypted, func() {
		encrypted.Close()
		if err := backing.Close(); err != nil {
			log.Warn("Failed to close encrypted store", zap.Error(err))
		}
	}, nil
}

// openConfiguration watches CONFIG_FILE when set.
func openConfiguration(ctx context.Context, cfg *config.Config) (configuration.Provider, func(), error) {
	if cfg.ConfigFile == "" {
		return configuration.NewStaticProvider(configuration.Empty), func() {}, nil
	}

	p, err := configuration.NewFileProvider(cfg.ConfigFile)
	if err != nil {
		return nil, nil, err
	}
	if err := p.Start(ctx); err != nil {
		return nil, nil, err
	}
	return p, p.Stop, nil
}

// refreshOnHangup reloads the configuration on SIGHUP.
func refreshOnHangup(ctx context.Context, p configuration.Provider) {
	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	defer signal.Stop(hup)

	for {
		select {
		case <-hup:
			log.Info("Reloading configuration")
			p.HintToRefresh(ctx)
		case <-ctx.Done():
			return
		}
	}
}
