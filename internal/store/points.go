package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/fernwell/choreboard/internal/model"
)

// PointStore is the append-only point ledger table. Allocations carry
// positive amounts, deductions negative, so a member's balance is a sum.
type PointStore struct {
	db *sql.DB
}

func NewPointStore(db *sql.DB) *PointStore {
	return &PointStore{db: db}
}

const pointCols = `id, member_id, chore_id, amount, kind, created_at`

func (s *PointStore) Insert(memberID, choreID int64, amount int, kind string, when time.Time) (*model.PointEntry, error) {
	result, err := s.db.Exec(
		`INSERT INTO point_entries (member_id, chore_id, amount, kind, created_at) VALUES (?, ?, ?, ?, ?)`,
		memberID, choreID, amount, kind, when.UTC(),
	)
	if err != nil {
		return nil, fmt.Errorf("insert point entry: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}

	row := s.db.QueryRow(`SELECT `+pointCols+` FROM point_entries WHERE id = ?`, id)
	var e model.PointEntry
	if err := row.Scan(&e.ID, &e.MemberID, &e.ChoreID, &e.Amount, &e.Kind, &e.CreatedAt); err != nil {
		return nil, fmt.Errorf("scan point entry: %w", err)
	}
	return &e, nil
}

func (s *PointStore) ListByMember(memberID int64) ([]model.PointEntry, error) {
	rows, err := s.db.Query(
		`SELECT `+pointCols+` FROM point_entries WHERE member_id = ? ORDER BY created_at DESC, id DESC`,
		memberID,
	)
	if err != nil {
		return nil, fmt.Errorf("list point entries: %w", err)
	}
	defer rows.Close()

	var entries []model.PointEntry
	for rows.Next() {
		var e model.PointEntry
		if err := rows.Scan(&e.ID, &e.MemberID, &e.ChoreID, &e.Amount, &e.Kind, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan point entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (s *PointStore) BalanceForMember(memberID int64) (int, error) {
	var balance int
	err := s.db.QueryRow(
		`SELECT COALESCE(SUM(amount), 0) FROM point_entries WHERE member_id = ?`, memberID,
	).Scan(&balance)
	if err != nil {
		return 0, fmt.Errorf("member balance: %w", err)
	}
	return balance, nil
}
