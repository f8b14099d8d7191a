package synchronizer

import (
	"context"
	"slices"

	"github.com/AlexZinkM/zec-wallet/internal/model"
)

// Snapshots combines the balance and status streams. Nothing is emitted
// until every stream has produced a value.
func Snapshots(ctx context.Context, s Synchronizer) <-chan model.WalletSnapshot {
	status := s.Status(ctx)
	info := s.ProcessorInfo(ctx)
	orchard := s.OrchardBalances(ctx)
	sapling := s.SaplingBalances(ctx)
	transparent := s.TransparentBalances(ctx)
	pending := s.PendingTransactions(ctx)

	out := make(chan model.WalletSnapshot)
	go func() {
		defer close(out)

		const (
			haveStatus = 1 << iota
			haveInfo
			haveOrchard
			haveSapling
			haveTransparent
			havePending

			haveAll = 1<<iota - 1
		)

		var (
			snapshot model.WalletSnapshot
			have     int
			ok       bool
		)
		for {
			select {
			case snapshot.Status, ok = <-status:
				have |= haveStatus
			case snapshot.ProcessorInfo, ok = <-info:
				have |= haveInfo
			case snapshot.OrchardBalance, ok = <-orchard:
				have |= haveOrchard
			case snapshot.SaplingBalance, ok = <-sapling:
				have |= haveSapling
			case snapshot.TransparentBalance, ok = <-transparent:
				have |= haveTransparent
			case txs, open := <-pending:
				ok = open
				snapshot.UnminedCount = model.CountUnmined(txs)
				have |= havePending
			case <-ctx.Done():
				return
			}
			if !ok {
				return
			}
			if have != haveAll {
				continue
			}

			select {
			case out <- snapshot:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}

// Transactions merges the four transaction lists, newest first. Pending
// transactions sort by creation time like the others.
func Transactions(ctx context.Context, s Synchronizer) <-chan []model.Transaction {
	sources := []<-chan []model.Transaction{
		s.ClearedTransactions(ctx),
		s.PendingTransactions(ctx),
		s.SentTransactions(ctx),
		s.ReceivedTransactions(ctx),
	}

	out := make(chan []model.Transaction)
	go func() {
		defer close(out)

		latest := make([][]model.Transaction, len(sources))
		seen := make([]bool, len(sources))
		for {
			i, txs, ok := receiveAny(ctx, sources)
			if !ok {
				return
			}
			latest[i] = txs
			seen[i] = true
			if slices.Contains(seen, false) {
				continue
			}

			select {
			case out <- SortNewestFirst(slices.Concat(latest...)):
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}

func receiveAny(ctx context.Context, sources []<-chan []model.Transaction) (int, []model.Transaction, bool) {
	select {
	case txs, ok := <-sources[0]:
		return 0, txs, ok
	case txs, ok := <-sources[1]:
		return 1, txs, ok
	case txs, ok := <-sources[2]:
		return 2, txs, ok
	case txs, ok := <-sources[3]:
		return 3, txs, ok
	case <-ctx.Done():
		return 0, nil, false
	}
}

// SortNewestFirst sorts in place by creation time, then mined height, and
// returns txs.
func SortNewestFirst(txs []model.Transaction) []model.Transaction {
	slices.SortStableFunc(txs, func(a, b model.Transaction) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		switch {
		case a.MinedHeight > b.MinedHeight:
			return -1
		case a.MinedHeight < b.MinedHeight:
			return 1
		}
		return 0
	})
	return txs
}
