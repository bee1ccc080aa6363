package store

import (
	"testing"
	"time"

	"github.com/fernwell/choreboard/internal/model"
)

func TestPointEntriesAndBalance(t *testing.T) {
	cs, ms, ps := setupTestDB(t)

	m, _ := ms.CreateMember("Robin", model.RoleChild, 1)
	c, _ := cs.CreateChore(model.Chore{
		Title: "Dishes", Points: 10, DueAt: time.Now().UTC(), Status: model.StatusPending,
	})

	now := time.Now().UTC()
	if _, err := ps.Insert(m.ID, c.ID, 10, model.PointKindAllocation, now); err != nil {
		t.Fatalf("insert allocation: %v", err)
	}
	if _, err := ps.Insert(m.ID, c.ID, -4, model.PointKindDeduction, now.Add(time.Minute)); err != nil {
		t.Fatalf("insert deduction: %v", err)
	}

	balance, err := ps.BalanceForMember(m.ID)
	if err != nil {
		t.Fatalf("balance: %v", err)
	}
	if balance != 6 {
		t.Errorf("balance = %d, want 6", balance)
	}

	entries, err := ps.ListByMember(m.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("entries = %d, want 2", len(entries))
	}
	if entries[0].Kind != model.PointKindDeduction {
		t.Errorf("entries[0].Kind = %q, want newest (deduction) first", entries[0].Kind)
	}

	if balance, _ := ps.BalanceForMember(999); balance != 0 {
		t.Errorf("balance for unknown member = %d, want 0", balance)
	}
}
