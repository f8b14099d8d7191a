package wallet

import (
	"context"
	"fmt"
	"math/big"

	"go.uber.org/zap"

	"github.com/AlexZinkM/zec-wallet/internal/common"
	"github.com/AlexZinkM/zec-wallet/internal/model"
)

const (
	fiatAvailable   = "available"
	fiatUnavailable = "unavailable"
)

// RateSource prices one ZEC in a fiat currency.
type RateSource interface {
	GetZECRate(ctx context.Context, currency string) (string, error)
}

// StatusText is the short human description of the sync state.
func StatusText(s model.WalletSnapshot) string {
	switch s.Status {
	case model.StatusStopped:
		return "Stopped"
	case model.StatusDisconnected:
		return "Disconnected"
	case model.StatusDownloading, model.StatusValidating, model.StatusScanning:
		if s.ProcessorInfo.ScanProgress() < 100 {
			return "Syncing"
		}
		return "Catching up"
	case model.StatusEnhancing:
		return "Enhancing"
	case model.StatusSynced:
		if s.UnminedCount > 0 {
			return fmt.Sprintf("%d unmined", s.UnminedCount)
		}
		return "Synced"
	}
	return string(s.Status)
}

// DisplayValues formats a snapshot. rate is the price of one ZEC and may
// be empty when unknown.
func DisplayValues(s model.WalletSnapshot, currency, rate string) *model.BalanceResponse {
	resp := &model.BalanceResponse{
		Status:        s.Status,
		StatusText:    StatusText(s),
		Progress:      float64(s.ProcessorInfo.ScanProgress()) / 100,
		Total:         common.ZatoshiToZEC(s.TotalBalance()),
		Orchard:       common.ZatoshiToZEC(s.OrchardBalance.Total),
		Sapling:       common.ZatoshiToZEC(s.SaplingBalance.Total),
		SaplingSpend:  common.ZatoshiToZEC(s.SaplingBalance.Available),
		Transparent:   common.ZatoshiToZEC(s.TransparentBalance.Total),
		UnminedCount:  s.UnminedCount,
		IsSendEnabled: s.IsSendEnabled(),
		FiatState:     fiatUnavailable,
	}

	if amount, ok := fiatAmount(s.TotalBalance(), rate); ok {
		resp.FiatState = fiatAvailable
		resp.FiatCurrency = currency
		resp.FiatRate = rate
		resp.FiatAmount = amount
	}
	return resp
}

// fiatAmount multiplies exactly and rounds half up to cents.
func fiatAmount(zatoshi int64, rate string) (string, bool) {
	if rate == "" {
		return "", false
	}
	r, ok := new(big.Rat).SetString(rate)
	if !ok || r.Sign() < 0 {
		return "", false
	}
	amount := new(big.Rat).SetFrac64(zatoshi, common.ZatoshiPerZEC)
	return amount.Mul(amount, r).FloatString(2), true
}

// Balance returns display values for the current snapshot.
func (m *Manager) Balance(ctx context.Context) (*model.BalanceResponse, error) {
	if _, err := m.readyWallet(); err != nil {
		return nil, err
	}
	snap := m.CurrentSnapshot()
	if snap == nil {
		return nil, fmt.Errorf("%w: synchronizer has not reported yet", ErrNotReady)
	}

	cfg := m.Configuration()
	var rate string
	currency := FiatCurrency.GetValue(cfg)
	if IsFiatConversionEnabled.GetValue(cfg) && m.cfg.Rates != nil {
		var err error
		rate, err = m.cfg.Rates.GetZECRate(ctx, currency)
		if err != nil {
			// A missing rate is not fatal, the balance is still shown.
			log.Warn("Fiat rate unavailable", zap.Error(err))
			rate = ""
		}
	}
	return DisplayValues(*snap, currency, rate), nil
}
