package model

import "time"

// Status is the lifecycle state of a chore instance. Parent templates stay
// pending forever; only child instances (and one-time chores) transition.
type Status string

const (
	StatusPending             Status = "pending"
	StatusCompleted           Status = "completed"
	StatusPendingVerification Status = "pending_verification"
	StatusVerified            Status = "verified"
	StatusRejected            Status = "rejected"
	StatusMissed              Status = "missed"
)

// Terminal reports whether no further transition may leave this status.
func (s Status) Terminal() bool {
	switch s {
	case StatusCompleted, StatusVerified, StatusRejected, StatusMissed:
		return true
	}
	return false
}

type Chore struct {
	ID               int64      `json:"id"`
	Title            string     `json:"title"`
	Description      string     `json:"description"`
	Points           int        `json:"points"`
	DueAt            time.Time  `json:"due_at"`
	IsRecurring      bool       `json:"is_recurring"`
	RecurringPattern string     `json:"recurring_pattern,omitempty"`
	Status           Status     `json:"status"`
	ParentChoreID    *int64     `json:"parent_chore_id"`
	AssignedTo       *int64     `json:"assigned_to"`
	CreatedBy        *int64     `json:"created_by"`
	FamilyID         *int64     `json:"family_id"`
	IconID           string     `json:"icon_id"`
	CompletedBy      *int64     `json:"completed_by,omitempty"`
	CompletedAt      *time.Time `json:"completed_at,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
	DeletedAt        *time.Time `json:"deleted_at,omitempty"`
}

// IsTemplate reports whether this chore is a recurring parent template.
// Templates generate child instances and never complete themselves.
func (c Chore) IsTemplate() bool {
	return c.IsRecurring && c.ParentChoreID == nil
}

type PointEntry struct {
	ID        int64     `json:"id"`
	MemberID  int64     `json:"member_id"`
	ChoreID   int64     `json:"chore_id"`
	Amount    int       `json:"amount"`
	Kind      string    `json:"kind"`
	CreatedAt time.Time `json:"created_at"`
}

const (
	PointKindAllocation = "allocation"
	PointKindDeduction  = "deduction"
)
