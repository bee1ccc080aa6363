package store

import (
	"testing"
	"time"

	"github.com/fernwell/choreboard/internal/chore"
	"github.com/fernwell/choreboard/internal/database"
	"github.com/fernwell/choreboard/internal/model"
)

func setupTestDB(t *testing.T) (*ChoreStore, *FamilyMemberStore, *PointStore) {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewChoreStore(db), NewFamilyMemberStore(db), NewPointStore(db)
}

func due(t *testing.T, day int) time.Time {
	t.Helper()
	return time.Date(2026, time.March, day, 18, 0, 0, 0, time.UTC)
}

func TestChoreCRUD(t *testing.T) {
	cs, ms, _ := setupTestDB(t)
	member, err := ms.CreateMember("Robin", model.RoleChild, 1)
	if err != nil {
		t.Fatalf("create member: %v", err)
	}

	famID := int64(1)
	created, err := cs.CreateChore(model.Chore{
		Title:      "Wash dishes",
		Points:     5,
		DueAt:      due(t, 10),
		Status:     model.StatusPending,
		AssignedTo: &member.ID,
		FamilyID:   &famID,
		IconID:     "dishes",
	})
	if err != nil {
		t.Fatalf("create chore: %v", err)
	}
	if created.ID == 0 || created.Title != "Wash dishes" || created.Points != 5 {
		t.Errorf("created = %+v", created)
	}
	if created.AssignedTo == nil || *created.AssignedTo != member.ID {
		t.Errorf("assigned_to = %v, want %d", created.AssignedTo, member.ID)
	}
	if !created.DueAt.Equal(due(t, 10)) {
		t.Errorf("due_at = %v, want %v", created.DueAt, due(t, 10))
	}

	created.Title = "Wash and dry dishes"
	created.Status = model.StatusCompleted
	now := time.Now().UTC().Truncate(time.Second)
	created.CompletedBy = &member.ID
	created.CompletedAt = &now
	updated, err := cs.UpdateChore(*created)
	if err != nil {
		t.Fatalf("update chore: %v", err)
	}
	if updated.Title != "Wash and dry dishes" || updated.Status != model.StatusCompleted {
		t.Errorf("updated = %+v", updated)
	}
	if updated.CompletedBy == nil || *updated.CompletedBy != member.ID {
		t.Errorf("completed_by = %v", updated.CompletedBy)
	}

	if err := cs.SoftDelete(created.ID); err != nil {
		t.Fatalf("soft delete: %v", err)
	}
	got, err := cs.GetChore(created.ID)
	if err != nil {
		t.Fatalf("get deleted chore: %v", err)
	}
	if got != nil {
		t.Error("soft-deleted chore still readable")
	}
}

func TestGetChoreNotFound(t *testing.T) {
	cs, _, _ := setupTestDB(t)
	got, err := cs.GetChore(404)
	if err != nil {
		t.Fatalf("get chore: %v", err)
	}
	if got != nil {
		t.Error("expected nil for missing chore")
	}
}

func TestListChoresFilters(t *testing.T) {
	cs, _, _ := setupTestDB(t)
	famA, famB := int64(1), int64(2)

	mk := func(fam int64, status model.Status, day int) {
		t.Helper()
		_, err := cs.CreateChore(model.Chore{
			Title: "Chore", Points: 1, DueAt: due(t, day), Status: status, FamilyID: &fam,
		})
		if err != nil {
			t.Fatalf("create: %v", err)
		}
	}
	mk(famA, model.StatusPending, 1)
	mk(famA, model.StatusCompleted, 2)
	mk(famB, model.StatusPending, 3)

	got, err := cs.ListChores(chore.Filter{FamilyID: &famA})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("family filter: got %d, want 2", len(got))
	}

	pending := model.StatusPending
	got, err = cs.ListChores(chore.Filter{Status: &pending})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("status filter: got %d, want 2", len(got))
	}

	cutoff := due(t, 2)
	got, err = cs.ListChores(chore.Filter{DueBefore: &cutoff})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("due filter: got %d, want 2 (boundary inclusive)", len(got))
	}
}

func TestChildrenAndTemplates(t *testing.T) {
	cs, _, _ := setupTestDB(t)

	parent, err := cs.CreateChore(model.Chore{
		Title: "Trash", Points: 3, DueAt: due(t, 1), Status: model.StatusPending,
		IsRecurring: true, RecurringPattern: "daily:18:00",
	})
	if err != nil {
		t.Fatalf("create parent: %v", err)
	}

	for day := 2; day <= 4; day++ {
		_, err := cs.CreateChore(model.Chore{
			Title: "Trash", Points: 3, DueAt: due(t, day), Status: model.StatusPending,
			ParentChoreID: &parent.ID,
		})
		if err != nil {
			t.Fatalf("create child: %v", err)
		}
	}

	children, err := cs.ListChildren(parent.ID)
	if err != nil {
		t.Fatalf("list children: %v", err)
	}
	if len(children) != 3 {
		t.Errorf("children = %d, want 3", len(children))
	}
	for i := 1; i < len(children); i++ {
		if children[i].DueAt.Before(children[i-1].DueAt) {
			t.Error("children not ordered by due date")
		}
	}

	templates, err := cs.ListTemplates(nil)
	if err != nil {
		t.Fatalf("list templates: %v", err)
	}
	if len(templates) != 1 || templates[0].ID != parent.ID {
		t.Errorf("templates = %+v, want only the parent", templates)
	}
}

func TestDuplicateChildRejected(t *testing.T) {
	cs, _, _ := setupTestDB(t)

	parent, err := cs.CreateChore(model.Chore{
		Title: "Trash", Points: 3, DueAt: due(t, 1), Status: model.StatusPending,
		IsRecurring: true, RecurringPattern: "daily:18:00",
	})
	if err != nil {
		t.Fatalf("create parent: %v", err)
	}

	child := model.Chore{
		Title: "Trash", Points: 3, DueAt: due(t, 2), Status: model.StatusPending,
		ParentChoreID: &parent.ID,
	}
	if _, err := cs.CreateChore(child); err != nil {
		t.Fatalf("create child: %v", err)
	}
	if _, err := cs.CreateChore(child); err == nil {
		t.Error("second child with same (parent, due_at) was accepted")
	}
}
