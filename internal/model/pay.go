package model

// SendRequest represents request for POST /wallet/send
type SendRequest struct {
	ToAddress string `json:"toAddress" binding:"required"`
	Amount    string `json:"amount" binding:"required"`
	Memo      string `json:"memo,omitempty"`
}

// SendResponse represents response for POST /wallet/send
type SendResponse struct {
	TxID string `json:"txId"`
}
