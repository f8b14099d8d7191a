package model

// BalanceResponse represents response for GET /wallet/balance
type BalanceResponse struct {
	Status        SyncStatus `json:"status"`
	StatusText    string     `json:"statusText"`
	Progress      float64    `json:"progress"`
	Total         string     `json:"total"`
	Orchard       string     `json:"orchard"`
	Sapling       string     `json:"sapling"`
	SaplingSpend  string     `json:"saplingAvailable"`
	Transparent   string     `json:"transparent"`
	UnminedCount  int        `json:"unminedCount"`
	IsSendEnabled bool       `json:"isSendEnabled"`

	// FiatState is "available" or "unavailable"; the other fiat fields are
	// empty when unavailable.
	FiatState    string `json:"fiatState"`
	FiatCurrency string `json:"fiatCurrency,omitempty"`
	FiatRate     string `json:"fiatRate,omitempty"`
	FiatAmount   string `json:"fiatAmount,omitempty"`
}

// AddressResponse represents response for GET /wallet/address
type AddressResponse struct {
	Unified     string `json:"unified"`
	Sapling     string `json:"sapling"`
	Transparent string `json:"transparent"`
	QR          string `json:"QR"`
}
