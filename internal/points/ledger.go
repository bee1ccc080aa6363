// Package points implements the point ledger the chore lifecycle pays into
// and out of. Writes are retried briefly, which covers the transient
// database-is-locked errors a busy SQLite file produces.
package points

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/fernwell/choreboard/internal/model"
	"github.com/fernwell/choreboard/internal/store"
)

type Ledger struct {
	store  *store.PointStore
	logger *slog.Logger
}

func NewLedger(st *store.PointStore, logger *slog.Logger) *Ledger {
	return &Ledger{store: st, logger: logger}
}

// Allocate credits a member for a chore outcome.
func (l *Ledger) Allocate(points int, memberID, choreID int64, when time.Time) error {
	return l.record(model.PointKindAllocation, points, memberID, choreID, when)
}

// Deduct debits a member for a missed chore.
func (l *Ledger) Deduct(points int, memberID, choreID int64, when time.Time) error {
	return l.record(model.PointKindDeduction, -points, memberID, choreID, when)
}

func (l *Ledger) record(kind string, amount int, memberID, choreID int64, when time.Time) error {
	backoff := retry.WithMaxRetries(3, retry.NewFibonacci(50*time.Millisecond))
	err := retry.Do(context.Background(), backoff, func(ctx context.Context) error {
		_, err := l.store.Insert(memberID, choreID, amount, kind, when)
		if err != nil && isBusy(err) {
			return retry.RetryableError(err)
		}
		return err
	})
	if err != nil {
		return err
	}
	l.logger.Debug("point entry recorded",
		"kind", kind, "amount", amount, "member_id", memberID, "chore_id", choreID)
	return nil
}

func isBusy(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "database is locked") || strings.Contains(msg, "SQLITE_BUSY")
}

// Balance returns a member's current point total.
func (l *Ledger) Balance(memberID int64) (int, error) {
	return l.store.BalanceForMember(memberID)
}

// History returns a member's ledger entries, newest first.
func (l *Ledger) History(memberID int64) ([]model.PointEntry, error) {
	return l.store.ListByMember(memberID)
}
