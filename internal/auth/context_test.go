package auth

import (
	"context"
	"testing"

	"github.com/fernwell/choreboard/internal/model"
)

func TestWithMemberAndMember(t *testing.T) {
	m := model.FamilyMember{ID: 1, Name: "Dana", Role: model.RoleParent, FamilyID: 2}

	ctx := WithMember(context.Background(), m)
	got, ok := Member(ctx)
	if !ok {
		t.Fatal("expected member in context")
	}
	if got.ID != 1 || got.Name != "Dana" || got.FamilyID != 2 {
		t.Errorf("got = %+v", got)
	}
}

func TestMemberMissing(t *testing.T) {
	if _, ok := Member(context.Background()); ok {
		t.Error("expected false for missing member")
	}
}

func TestIsParent(t *testing.T) {
	parent := model.FamilyMember{ID: 1, Role: model.RoleParent}
	child := model.FamilyMember{ID: 2, Role: model.RoleChild}

	if !IsParent(WithMember(context.Background(), parent)) {
		t.Error("parent role should report true")
	}
	if IsParent(WithMember(context.Background(), child)) {
		t.Error("child role should report false")
	}
	if IsParent(context.Background()) {
		t.Error("empty context should report false")
	}
}
