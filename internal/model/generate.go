package model

// CreateResponse represents response for POST /wallet/create
type CreateResponse struct {
	Network  Network `json:"network"`
	Birthday uint64  `json:"birthday"`
}

// RestoreRequest represents request for POST /wallet/restore
type RestoreRequest struct {
	Network    string `json:"network"`
	Birthday   uint64 `json:"birthday"`
	SeedPhrase string `json:"seedPhrase" binding:"required"`
}

// SeedResponse represents response for GET /wallet/seed
type SeedResponse struct {
	Words    []string `json:"words"`
	Birthday uint64   `json:"birthday"`
}

// SettingsResponse represents GET/PUT /settings
type SettingsResponse struct {
	IsBackgroundSyncEnabled    bool `json:"isBackgroundSyncEnabled"`
	IsKeepScreenOnWhileSyncing bool `json:"isKeepScreenOnWhileSyncing"`
	IsAnalyticsEnabled         bool `json:"isAnalyticsEnabled"`
	IsFiatConversionEnabled    bool `json:"isFiatConversionEnabled"`
}

// SettingsRequest represents request for PUT /settings. Omitted fields are
// left unchanged.
type SettingsRequest struct {
	IsBackgroundSyncEnabled    *bool `json:"isBackgroundSyncEnabled,omitempty"`
	IsKeepScreenOnWhileSyncing *bool `json:"isKeepScreenOnWhileSyncing,omitempty"`
	IsAnalyticsEnabled         *bool `json:"isAnalyticsEnabled,omitempty"`
}
