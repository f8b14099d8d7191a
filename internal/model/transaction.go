package model

import (
	"fmt"
	"time"

	"github.com/AlexZinkM/zec-wallet/internal/common"
)

// TransactionType transaction type
type TransactionType string

const (
	TransactionTypeDebit  TransactionType = "DEBIT"
	TransactionTypeCredit TransactionType = "CREDIT"
)

// TransactionView is a transaction as returned by the API
type TransactionView struct {
	Type        TransactionType `json:"type"`
	Kind        TransactionKind `json:"kind"`
	TxID        string          `json:"txId"`
	To          string          `json:"to,omitempty"`
	Amount      string          `json:"amount"`
	Memo        string          `json:"memo,omitempty"`
	Timestamp   time.Time       `json:"timestamp"`
	BlockNumber uint64          `json:"blockNumber"`
	Status      string          `json:"status"`
}

// NewTransactionView converts a synchronizer transaction.
func NewTransactionView(tx Transaction) TransactionView {
	v := TransactionView{
		Kind:        tx.Kind,
		TxID:        tx.ID,
		To:          tx.ToAddress,
		Memo:        tx.Memo,
		Timestamp:   tx.CreatedAt,
		BlockNumber: tx.MinedHeight,
	}

	value := tx.Value
	if tx.Kind == KindReceived {
		v.Type = TransactionTypeCredit
	} else {
		v.Type = TransactionTypeDebit
	}
	if value < 0 {
		value = -value
	}
	v.Amount = common.ZatoshiToZEC(value)

	switch {
	case tx.Kind == KindPending && !tx.SubmitSuccess:
		v.Status = "failed"
	case tx.Kind == KindPending && !tx.Mined:
		v.Status = "pending"
	default:
		v.Status = "confirmed"
	}
	return v
}

// TransactionsResponse represents response for GET /wallet/transactions
type TransactionsResponse struct {
	TotalReceived string            `json:"totalReceived"`
	TotalSent     string            `json:"totalSent"`
	Transactions  []TransactionView `json:"transactions"`
}

// TransactionsRequest represents request parameters for GET /wallet/transactions
type TransactionsRequest struct {
	Type      *TransactionType `form:"type"`
	Kind      *TransactionKind `form:"kind"`
	TxID      *string          `form:"txId"`
	From      *time.Time       `form:"from"`
	To        *time.Time       `form:"to"`
	MinAmount *string          `form:"minAmount"`
	MaxAmount *string          `form:"maxAmount"`
}

// Validate validates TransactionsRequest filter parameters.
func (r *TransactionsRequest) Validate() error {
	if r.Type != nil && *r.Type != TransactionTypeDebit && *r.Type != TransactionTypeCredit {
		return fmt.Errorf("type must be DEBIT or CREDIT")
	}
	if r.Kind != nil {
		switch *r.Kind {
		case KindPending, KindCleared, KindSent, KindReceived:
		default:
			return fmt.Errorf("kind must be pending, cleared, sent or received")
		}
	}
	if r.From != nil && r.To != nil && r.To.Before(*r.From) {
		return fmt.Errorf("to date must be after or equal to from date")
	}
	if r.MinAmount != nil && r.MaxAmount != nil {
		cmp, err := common.CompareZecAmounts(*r.MinAmount, *r.MaxAmount)
		if err != nil {
			return fmt.Errorf("invalid amount: %w", err)
		}
		if cmp == 1 {
			return fmt.Errorf("minAmount must be less than or equal to maxAmount")
		}
	}
	return nil
}
