package wallet

import (
	"fmt"

	"github.com/AlexZinkM/zec-wallet/internal/common"
	"github.com/AlexZinkM/zec-wallet/internal/model"
)

// Transactions returns the history, newest first, filtered by req.
func (m *Manager) Transactions(req *model.TransactionsRequest) (*model.TransactionsResponse, error) {
	if _, err := m.readyWallet(); err != nil {
		return nil, err
	}
	return FilterTransactions(m.txs.Get(), req)
}

// FilterTransactions applies req to txs, which must already be sorted.
func FilterTransactions(txs []model.Transaction, req *model.TransactionsRequest) (*model.TransactionsResponse, error) {
	if req == nil {
		req = &model.TransactionsRequest{}
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var minAmount, maxAmount *int64
	if req.MinAmount != nil {
		v, err := common.ZECToZatoshi(*req.MinAmount)
		if err != nil {
			return nil, fmt.Errorf("failed to parse min amount: %w", err)
		}
		minAmount = &v
	}
	if req.MaxAmount != nil {
		v, err := common.ZECToZatoshi(*req.MaxAmount)
		if err != nil {
			return nil, fmt.Errorf("failed to parse max amount: %w", err)
		}
		maxAmount = &v
	}

	var received, sent int64
	views := make([]model.TransactionView, 0, len(txs))
	for _, tx := range txs {
		view := model.NewTransactionView(tx)
		magnitude := tx.Value
		if magnitude < 0 {
			magnitude = -magnitude
		}

		// Filter by type
		if req.Type != nil && *req.Type != view.Type {
			continue
		}
		if req.Kind != nil && *req.Kind != tx.Kind {
			continue
		}

		// Filter by txId
		if req.TxID != nil && *req.TxID != tx.ID {
			continue
		}

		// Filter by dates
		if req.From != nil && tx.CreatedAt.Before(*req.From) {
			continue
		}
		if req.To != nil && tx.CreatedAt.After(*req.To) {
			continue
		}

		// Filter by amount (integer zatoshi, no float precision issues)
		if minAmount != nil && magnitude < *minAmount {
			continue
		}
		if maxAmount != nil && magnitude > *maxAmount {
			continue
		}

		if view.Type == model.TransactionTypeCredit {
			received += magnitude
		} else {
			sent += magnitude
		}
		views = append(views, view)
	}

	return &model.TransactionsResponse{
		TotalReceived: common.ZatoshiToZEC(received),
		TotalSent:     common.ZatoshiToZEC(sent),
		Transactions:  views,
	}, nil
}
