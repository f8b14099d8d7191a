package wallet

import (
	"context"

	"github.com/AlexZinkM/zec-wallet/internal/model"
	"github.com/AlexZinkM/zec-wallet/internal/preference"
)

// Settings reads the user settings.
func (m *Manager) Settings(ctx context.Context) (*model.SettingsResponse, error) {
	resp := &model.SettingsResponse{
		IsFiatConversionEnabled: IsFiatConversionEnabled.GetValue(m.Configuration()),
	}
	for entry, dst := range map[*preference.Entry[bool]]*bool{
		IsBackgroundSyncEnabled:    &resp.IsBackgroundSyncEnabled,
		IsKeepScreenOnWhileSyncing: &resp.IsKeepScreenOnWhileSyncing,
		IsAnalyticsEnabled:         &resp.IsAnalyticsEnabled,
	} {
		v, err := entry.GetValue(ctx, m.cfg.Standard)
		if err != nil {
			return nil, err
		}
		*dst = v
	}
	return resp, nil
}

// UpdateSettings writes the fields present in req and returns the result.
func (m *Manager) UpdateSettings(ctx context.Context, req model.SettingsRequest) (*model.SettingsResponse, error) {
	for entry, v := range map[*preference.Entry[bool]]*bool{
		IsBackgroundSyncEnabled:    req.IsBackgroundSyncEnabled,
		IsKeepScreenOnWhileSyncing: req.IsKeepScreenOnWhileSyncing,
		IsAnalyticsEnabled:         req.IsAnalyticsEnabled,
	} {
		if v == nil {
			continue
		}
		if err := entry.PutValue(ctx, m.cfg.Standard, *v); err != nil {
			return nil, err
		}
	}
	return m.Settings(ctx)
}
