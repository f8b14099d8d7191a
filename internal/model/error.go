package model

// ErrorCode is the machine readable part of an error response.
type ErrorCode string

const (
	CodeBadRequest        ErrorCode = "BAD_REQUEST"
	CodeInvalidAddress    ErrorCode = "INVALID_ADDRESS"
	CodeInvalidAmount     ErrorCode = "INVALID_AMOUNT"
	CodeInvalidSeed       ErrorCode = "INVALID_SEED"
	CodeWalletExists      ErrorCode = "WALLET_EXISTS"
	CodeNoWallet          ErrorCode = "NO_WALLET"
	CodeNotReady          ErrorCode = "NOT_READY"
	CodeCooldown          ErrorCode = "COOLDOWN"
	CodeInsufficientFunds ErrorCode = "INSUFFICIENT_FUNDS"
	CodeInternal          ErrorCode = "INTERNAL"
)

// ErrorResponse is the consistent JSON structure for all API error responses.
type ErrorResponse struct {
	Error string    `json:"error"`
	Code  ErrorCode `json:"code,omitempty"`
}
