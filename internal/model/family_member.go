package model

import "time"

// Role controls what a family member may do: parents can verify, reject,
// and manage any chore in their family; children act on their own chores.
type Role string

const (
	RoleParent Role = "parent"
	RoleChild  Role = "child"
)

type FamilyMember struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Role      Role      `json:"role"`
	FamilyID  int64     `json:"family_id"`
	HasPIN    bool      `json:"has_pin"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsParentOf reports whether the member holds the parent role in the given
// family.
func (m FamilyMember) IsParentOf(familyID int64) bool {
	return m.Role == RoleParent && m.FamilyID == familyID
}

// FamilySettings holds per-family policy, currently just whether completed
// chores need a parent's sign-off before points are awarded.
type FamilySettings struct {
	FamilyID            int64 `json:"family_id"`
	RequireVerification bool  `json:"require_verification"`
}
