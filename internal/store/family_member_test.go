package store

import (
	"testing"

	"github.com/fernwell/choreboard/internal/model"
)

func TestMemberCRUD(t *testing.T) {
	_, ms, _ := setupTestDB(t)

	m, err := ms.CreateMember("Dana", model.RoleParent, 7)
	if err != nil {
		t.Fatalf("create member: %v", err)
	}
	if m.Name != "Dana" || m.Role != model.RoleParent || m.FamilyID != 7 {
		t.Errorf("member = %+v", m)
	}
	if m.HasPIN {
		t.Error("new member should have no PIN")
	}

	got, err := ms.GetMember(m.ID)
	if err != nil {
		t.Fatalf("get member: %v", err)
	}
	if got == nil || got.Name != "Dana" {
		t.Errorf("got = %+v", got)
	}

	missing, err := ms.GetMember(404)
	if err != nil {
		t.Fatalf("get missing member: %v", err)
	}
	if missing != nil {
		t.Error("expected nil for missing member")
	}
}

func TestListByFamily(t *testing.T) {
	_, ms, _ := setupTestDB(t)

	ms.CreateMember("Dana", model.RoleParent, 1)
	ms.CreateMember("Robin", model.RoleChild, 1)
	ms.CreateMember("Sam", model.RoleChild, 2)

	members, err := ms.ListByFamily(1)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(members) != 2 {
		t.Errorf("got %d members, want 2", len(members))
	}
}

func TestPINRoundTrip(t *testing.T) {
	_, ms, _ := setupTestDB(t)

	m, _ := ms.CreateMember("Dana", model.RoleParent, 1)
	if err := ms.SetPIN(m.ID, "$2a$10$fakehash"); err != nil {
		t.Fatalf("set pin: %v", err)
	}

	hash, err := ms.PINHash(m.ID)
	if err != nil {
		t.Fatalf("get pin hash: %v", err)
	}
	if hash != "$2a$10$fakehash" {
		t.Errorf("hash = %q", hash)
	}

	got, _ := ms.GetMember(m.ID)
	if !got.HasPIN {
		t.Error("HasPIN should be true after SetPIN")
	}

	if err := ms.SetPIN(m.ID, ""); err != nil {
		t.Fatalf("clear pin: %v", err)
	}
	got, _ = ms.GetMember(m.ID)
	if got.HasPIN {
		t.Error("HasPIN should be false after clearing")
	}
}

func TestRequireVerification(t *testing.T) {
	_, ms, _ := setupTestDB(t)

	required, err := ms.RequireVerification(1)
	if err != nil {
		t.Fatalf("default policy: %v", err)
	}
	if required {
		t.Error("default should be false")
	}

	if err := ms.SetRequireVerification(1, true); err != nil {
		t.Fatalf("set policy: %v", err)
	}
	required, err = ms.RequireVerification(1)
	if err != nil {
		t.Fatalf("read policy: %v", err)
	}
	if !required {
		t.Error("policy should be true after set")
	}

	// Upsert flips it back.
	if err := ms.SetRequireVerification(1, false); err != nil {
		t.Fatalf("unset policy: %v", err)
	}
	required, _ = ms.RequireVerification(1)
	if required {
		t.Error("policy should be false after unset")
	}
}
