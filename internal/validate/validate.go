// Package validate holds the stateless rule checks run before chore
// mutations: field bounds and role-based permission predicates.
package validate

import (
	"fmt"
	"strings"

	"github.com/fernwell/choreboard/internal/model"
	"github.com/fernwell/choreboard/internal/pattern"
)

// DefaultMaxPoints caps the points a single chore may be worth.
const DefaultMaxPoints = 100

type Validator struct {
	maxPoints int
}

func New(maxPoints int) *Validator {
	if maxPoints <= 0 {
		maxPoints = DefaultMaxPoints
	}
	return &Validator{maxPoints: maxPoints}
}

// Title requires a non-empty title after trimming whitespace.
func (v *Validator) Title(title string) error {
	if strings.TrimSpace(title) == "" {
		return fmt.Errorf("title must not be empty")
	}
	return nil
}

// Points requires a positive value within the configured cap.
func (v *Validator) Points(points int) error {
	if points <= 0 {
		return fmt.Errorf("points must be positive, got %d", points)
	}
	if points > v.maxPoints {
		return fmt.Errorf("points must be at most %d, got %d", v.maxPoints, points)
	}
	return nil
}

// Pattern requires the text to parse as a recurrence pattern.
func (v *Validator) Pattern(text string) error {
	if _, err := pattern.Parse(text); err != nil {
		return fmt.Errorf("recurring pattern: %w", err)
	}
	return nil
}

// Chore runs the field checks applicable to creating or updating a chore.
func (v *Validator) Chore(c model.Chore) error {
	if err := v.Title(c.Title); err != nil {
		return err
	}
	if err := v.Points(c.Points); err != nil {
		return err
	}
	if c.IsRecurring {
		if err := v.Pattern(c.RecurringPattern); err != nil {
			return err
		}
	}
	return nil
}

// CanComplete allows the assigned member, or any parent of the chore's
// family. An unassigned chore may be completed by anyone in the family.
func (v *Validator) CanComplete(m model.FamilyMember, c model.Chore) bool {
	if c.AssignedTo != nil && *c.AssignedTo == m.ID {
		return true
	}
	if c.FamilyID != nil {
		if c.AssignedTo == nil && m.FamilyID == *c.FamilyID {
			return true
		}
		return m.IsParentOf(*c.FamilyID)
	}
	return c.AssignedTo == nil
}

// CanVerify allows the chore's creator or any parent of its family. The
// pending-verification state requirement is enforced by the lifecycle
// service, not here.
func (v *Validator) CanVerify(m model.FamilyMember, c model.Chore) bool {
	return v.canAdminister(m, c)
}

// CanReject mirrors CanVerify.
func (v *Validator) CanReject(m model.FamilyMember, c model.Chore) bool {
	return v.canAdminister(m, c)
}

// CanUpdate allows the chore's creator or any parent of its family.
func (v *Validator) CanUpdate(m model.FamilyMember, c model.Chore) bool {
	return v.canAdminister(m, c)
}

// CanDelete mirrors CanUpdate.
func (v *Validator) CanDelete(m model.FamilyMember, c model.Chore) bool {
	return v.canAdminister(m, c)
}

func (v *Validator) canAdminister(m model.FamilyMember, c model.Chore) bool {
	if c.CreatedBy != nil && *c.CreatedBy == m.ID {
		return true
	}
	if c.FamilyID != nil {
		return m.IsParentOf(*c.FamilyID)
	}
	return false
}
