// Package synchronizer defines the boundary to the light client that
// downloads and scans blocks, tracks balances and builds transactions.
package synchronizer

import (
	"context"
	"errors"

	"github.com/AlexZinkM/zec-wallet/internal/model"
)

var (
	// ErrNotStarted is returned by operations that need a running
	// synchronizer.
	ErrNotStarted = errors.New("synchronizer not started")

	// ErrInsufficientFunds is returned when a send exceeds the spendable
	// sapling balance.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrKeyMismatch is returned when a spending key belongs to another
	// wallet.
	ErrKeyMismatch = errors.New("spending key does not belong to this wallet")
)

// Synchronizer is a running light client for one wallet. Stream methods
// emit the latest value right away and then every change until ctx is done.
type Synchronizer interface {
	Start(ctx context.Context) error
	Stop()

	Status(ctx context.Context) <-chan model.SyncStatus
	ProcessorInfo(ctx context.Context) <-chan model.ProcessorInfo
	OrchardBalances(ctx context.Context) <-chan model.WalletBalance
	SaplingBalances(ctx context.Context) <-chan model.WalletBalance
	TransparentBalances(ctx context.Context) <-chan model.WalletBalance

	PendingTransactions(ctx context.Context) <-chan []model.Transaction
	ClearedTransactions(ctx context.Context) <-chan []model.Transaction
	SentTransactions(ctx context.Context) <-chan []model.Transaction
	ReceivedTransactions(ctx context.Context) <-chan []model.Transaction

	Addresses(ctx context.Context) (Addresses, error)
	Send(ctx context.Context, key *SpendingKey, req SendRequest) (model.Transaction, error)
}

// Loader creates synchronizers and derives keys.
type Loader interface {
	Load(ctx context.Context, wallet model.PersistableWallet) (Synchronizer, error)

	// NearestBirthday is the checkpoint height for a wallet created now.
	NearestBirthday(ctx context.Context, network model.Network) (uint64, error)

	DeriveSpendingKey(wallet model.PersistableWallet) (*SpendingKey, error)
}

// Addresses are the wallet's receive addresses.
type Addresses struct {
	Unified     string
	Sapling     string
	Transparent string
}

// SendRequest is a shielded send of Amount zatoshi.
type SendRequest struct {
	ToAddress string
	Amount    int64
	Memo      string
}

// SpendingKey is the secret needed to authorize a send. Wipe it when done.
type SpendingKey struct {
	Network model.Network
	Account int
	key     []byte
}

// NewSpendingKey copies key.
func NewSpendingKey(network model.Network, account int, key []byte) *SpendingKey {
	k := &SpendingKey{Network: network, Account: account, key: make([]byte, len(key))}
	copy(k.key, key)
	return k
}

// Bytes returns the raw key. The slice is owned by the SpendingKey.
func (k *SpendingKey) Bytes() []byte {
	return k.key
}

func (k *SpendingKey) Wipe() {
	clear(k.key)
	k.key = nil
}

func (k *SpendingKey) String() string {
	return "SpendingKey(redacted)"
}
