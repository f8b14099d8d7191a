package model

import "time"

// MinersFeeZatoshi is the fixed fee paid on every send.
const MinersFeeZatoshi int64 = 1000

// SyncStatus is the synchronizer's lifecycle stage.
type SyncStatus string

const (
	StatusStopped      SyncStatus = "stopped"
	StatusDisconnected SyncStatus = "disconnected"
	StatusDownloading  SyncStatus = "downloading"
	StatusValidating   SyncStatus = "validating"
	StatusScanning     SyncStatus = "scanning"
	StatusEnhancing    SyncStatus = "enhancing"
	StatusSynced       SyncStatus = "synced"
)

// ProcessorInfo describes block processing progress.
type ProcessorInfo struct {
	NetworkBlockHeight   uint64 `json:"networkBlockHeight"`
	LastDownloadedHeight uint64 `json:"lastDownloadedHeight"`
	LastScannedHeight    uint64 `json:"lastScannedHeight"`
	ScanStartHeight      uint64 `json:"scanStartHeight"`
}

// ScanProgress is the scanned share of the range in percent, 0 to 100.
func (p ProcessorInfo) ScanProgress() int {
	if p.NetworkBlockHeight <= p.ScanStartHeight {
		return 100
	}
	if p.LastScannedHeight <= p.ScanStartHeight {
		return 0
	}
	scanned := min(p.LastScannedHeight, p.NetworkBlockHeight) - p.ScanStartHeight
	return int(scanned * 100 / (p.NetworkBlockHeight - p.ScanStartHeight))
}

// WalletBalance is one pool's balance in zatoshi.
type WalletBalance struct {
	Total     int64 `json:"total"`
	Available int64 `json:"available"`
}

func (b WalletBalance) Add(other WalletBalance) WalletBalance {
	return WalletBalance{Total: b.Total + other.Total, Available: b.Available + other.Available}
}

// TransactionKind tells which synchronizer list a transaction came from.
type TransactionKind string

const (
	KindPending  TransactionKind = "pending"
	KindCleared  TransactionKind = "cleared"
	KindSent     TransactionKind = "sent"
	KindReceived TransactionKind = "received"
)

// Transaction is a wallet transaction as reported by the synchronizer.
type Transaction struct {
	ID          string
	Kind        TransactionKind
	Value       int64
	ToAddress   string
	Memo        string
	MinedHeight uint64
	CreatedAt   time.Time

	// SubmitSuccess and Mined only matter for pending transactions.
	SubmitSuccess bool
	Mined         bool
}

// IsUnmined reports a submitted transaction that has not been mined.
func (t Transaction) IsUnmined() bool {
	return t.SubmitSuccess && !t.Mined
}

// WalletSnapshot combines the synchronizer's latest values.
type WalletSnapshot struct {
	Status             SyncStatus
	ProcessorInfo      ProcessorInfo
	OrchardBalance     WalletBalance
	SaplingBalance     WalletBalance
	TransparentBalance WalletBalance
	UnminedCount       int
}

// HasFunds is false when the sapling pool cannot cover the miner's fee.
func (s WalletSnapshot) HasFunds() bool {
	return s.SaplingBalance.Available > MinersFeeZatoshi
}

func (s WalletSnapshot) HasSaplingBalance() bool {
	return s.SaplingBalance.Total > 0
}

func (s WalletSnapshot) IsSendEnabled() bool {
	return s.Status == StatusSynced && s.HasFunds()
}

// TotalBalance sums all pools, never below zero.
func (s WalletSnapshot) TotalBalance() int64 {
	total := s.OrchardBalance.Add(s.SaplingBalance).Add(s.TransparentBalance).Total
	return max(total, 0)
}

// CountUnmined counts pending transactions that were submitted but not mined.
func CountUnmined(pending []Transaction) int {
	n := 0
	for _, tx := range pending {
		if tx.IsUnmined() {
			n++
		}
	}
	return n
}
