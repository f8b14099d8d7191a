package model

// Stream event types sent over GET /wallet/stream.
const (
	EventSecretState = "secret_state"
	EventBalance     = "balance"
)

// StreamEvent is one WebSocket message. Balance is nil while no
// synchronizer is running.
type StreamEvent struct {
	Type        string               `json:"type"`
	SecretState *SecretStateResponse `json:"secretState,omitempty"`
	Balance     *BalanceResponse     `json:"balance,omitempty"`
}
