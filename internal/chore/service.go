// Package chore implements the chore lifecycle: creation, the
// completion/verification state machine, overdue handling, and the
// bookkeeping hooks into the point ledger.
package chore

import (
	"fmt"
	"log/slog"
	"time"

	"go.uber.org/multierr"

	"github.com/fernwell/choreboard/internal/generate"
	"github.com/fernwell/choreboard/internal/model"
	"github.com/fernwell/choreboard/internal/validate"
)

// Filter narrows repository chore listings.
type Filter struct {
	FamilyID   *int64
	AssignedTo *int64
	ParentID   *int64
	Status     *model.Status
	DueBefore  *time.Time
}

// Repository is the persistence collaborator. A single create/update/delete
// is atomic inside it; the service holds no locks of its own.
type Repository interface {
	GetChore(id int64) (*model.Chore, error)
	ListChores(f Filter) ([]model.Chore, error)
	CreateChore(c model.Chore) (*model.Chore, error)
	UpdateChore(c model.Chore) (*model.Chore, error)
	SoftDelete(id int64) error
	ListChildren(parentID int64) ([]model.Chore, error)
}

// MemberSource resolves family members and per-family policy.
type MemberSource interface {
	GetMember(id int64) (*model.FamilyMember, error)
	RequireVerification(familyID int64) (bool, error)
}

// Ledger records point outcomes. Failures here never roll back a status
// transition that has already been applied; they surface as
// ErrPointAllocation / ErrPointDeduction alongside the updated chore.
type Ledger interface {
	Allocate(points int, memberID, choreID int64, when time.Time) error
	Deduct(points int, memberID, choreID int64, when time.Time) error
}

type Service struct {
	repo    Repository
	members MemberSource
	ledger  Ledger
	gen     *generate.Generator
	val     *validate.Validator
	horizon time.Duration
	logger  *slog.Logger
	now     func() time.Time
}

// DefaultHorizon is how far ahead child instances are materialized when a
// recurring chore is created.
const DefaultHorizon = 31 * 24 * time.Hour

func NewService(repo Repository, members MemberSource, ledger Ledger, gen *generate.Generator, val *validate.Validator, horizon time.Duration, logger *slog.Logger) *Service {
	if horizon <= 0 {
		horizon = DefaultHorizon
	}
	return &Service{
		repo:    repo,
		members: members,
		ledger:  ledger,
		gen:     gen,
		val:     val,
		horizon: horizon,
		logger:  logger,
		now:     time.Now,
	}
}

// SetNow overrides the clock, for tests.
func (s *Service) SetNow(now func() time.Time) { s.now = now }

func (s *Service) getChore(id int64) (*model.Chore, error) {
	c, err := s.repo.GetChore(id)
	if err != nil {
		return nil, fmt.Errorf("get chore %d: %w", id, err)
	}
	if c == nil || c.DeletedAt != nil {
		return nil, fmt.Errorf("chore %d: %w", id, ErrNotFound)
	}
	return c, nil
}

func (s *Service) getMember(id int64) (*model.FamilyMember, error) {
	m, err := s.members.GetMember(id)
	if err != nil {
		return nil, fmt.Errorf("get member %d: %w", id, err)
	}
	if m == nil {
		return nil, fmt.Errorf("member %d: %w", id, ErrNotFound)
	}
	return m, nil
}

func transitionError(c *model.Chore, action string) error {
	return fmt.Errorf("cannot %s chore %d in status %q: %w", action, c.ID, c.Status, ErrInvalidTransition)
}

// Get returns a chore by id.
func (s *Service) Get(id int64) (*model.Chore, error) {
	return s.getChore(id)
}

// List returns chores matching the filter.
func (s *Service) List(f Filter) ([]model.Chore, error) {
	return s.repo.ListChores(f)
}

// VerificationRequired reports whether the member's family policy demands a
// parent sign-off before a completed chore earns points.
func (s *Service) VerificationRequired(memberID int64) (bool, error) {
	m, err := s.getMember(memberID)
	if err != nil {
		return false, err
	}
	return s.members.RequireVerification(m.FamilyID)
}

// Create validates and persists a one-time chore, owned by the actor.
func (s *Service) Create(actorID int64, c model.Chore) (*model.Chore, error) {
	if _, err := s.getMember(actorID); err != nil {
		return nil, err
	}
	c.IsRecurring = false
	c.RecurringPattern = ""
	c.ParentChoreID = nil
	c.Status = model.StatusPending
	c.CreatedBy = &actorID
	if err := s.val.Chore(c); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidData, err)
	}

	created, err := s.repo.CreateChore(c)
	if err != nil {
		return nil, fmt.Errorf("create chore: %w", err)
	}
	s.logger.Info("chore created", "chore_id", created.ID, "title", created.Title)
	return created, nil
}

// CreateRecurring validates and persists a recurring template, then
// materializes its first batch of child instances through the horizon. The
// template is returned even if generation fails; the failure comes back
// wrapped in ErrGeneration.
func (s *Service) CreateRecurring(actorID int64, c model.Chore) (*model.Chore, error) {
	if _, err := s.getMember(actorID); err != nil {
		return nil, err
	}
	c.IsRecurring = true
	c.ParentChoreID = nil
	c.Status = model.StatusPending
	c.CreatedBy = &actorID
	if err := s.val.Chore(c); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidData, err)
	}

	parent, err := s.repo.CreateChore(c)
	if err != nil {
		return nil, fmt.Errorf("create recurring chore: %w", err)
	}

	now := s.now()
	instances, err := s.gen.Instances(*parent, now, now.Add(s.horizon))
	if err != nil {
		return parent, fmt.Errorf("chore %d: %w: %v", parent.ID, ErrGeneration, err)
	}
	s.logger.Info("recurring chore created",
		"chore_id", parent.ID, "pattern", parent.RecurringPattern, "instances", len(instances))
	return parent, nil
}

// Update applies field changes to a chore after permission and field checks.
func (s *Service) Update(actorID int64, c model.Chore) (*model.Chore, error) {
	existing, err := s.getChore(c.ID)
	if err != nil {
		return nil, err
	}
	m, err := s.getMember(actorID)
	if err != nil {
		return nil, err
	}
	if !s.val.CanUpdate(*m, *existing) {
		return nil, fmt.Errorf("member %d cannot update chore %d: %w", actorID, c.ID, ErrPermissionDenied)
	}

	existing.Title = c.Title
	existing.Description = c.Description
	existing.Points = c.Points
	existing.AssignedTo = c.AssignedTo
	existing.IconID = c.IconID
	if existing.IsTemplate() {
		existing.RecurringPattern = c.RecurringPattern
	}
	if err := s.val.Chore(*existing); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidData, err)
	}

	updated, err := s.repo.UpdateChore(*existing)
	if err != nil {
		return nil, fmt.Errorf("update chore %d: %w", c.ID, err)
	}
	return updated, nil
}

// Delete tombstones a chore. Deleting a recurring template tombstones every
// child instance with it.
func (s *Service) Delete(actorID, id int64) error {
	c, err := s.getChore(id)
	if err != nil {
		return err
	}
	m, err := s.getMember(actorID)
	if err != nil {
		return err
	}
	if !s.val.CanDelete(*m, *c) {
		return fmt.Errorf("member %d cannot delete chore %d: %w", actorID, id, ErrPermissionDenied)
	}

	if c.IsTemplate() {
		children, err := s.repo.ListChildren(id)
		if err != nil {
			return fmt.Errorf("list children of chore %d: %w", id, err)
		}
		for _, child := range children {
			if err := s.repo.SoftDelete(child.ID); err != nil {
				return fmt.Errorf("delete child chore %d: %w", child.ID, err)
			}
		}
	}
	if err := s.repo.SoftDelete(id); err != nil {
		return fmt.Errorf("delete chore %d: %w", id, err)
	}
	s.logger.Info("chore deleted", "chore_id", id)
	return nil
}

// Complete moves a pending chore to completed, or to pending verification
// when requireVerification is set. Points are allocated immediately on the
// completed path only; the verified path allocates on Verify instead.
func (s *Service) Complete(id, byMemberID int64, requireVerification bool) (*model.Chore, error) {
	c, err := s.getChore(id)
	if err != nil {
		return nil, err
	}
	m, err := s.getMember(byMemberID)
	if err != nil {
		return nil, err
	}
	if c.IsTemplate() {
		return nil, transitionError(c, "complete")
	}
	if !s.val.CanComplete(*m, *c) {
		return nil, fmt.Errorf("member %d cannot complete chore %d: %w", byMemberID, id, ErrPermissionDenied)
	}
	if c.Status != model.StatusPending {
		return nil, transitionError(c, "complete")
	}

	now := s.now()
	c.CompletedBy = &byMemberID
	c.CompletedAt = &now
	if requireVerification {
		c.Status = model.StatusPendingVerification
	} else {
		c.Status = model.StatusCompleted
	}

	updated, err := s.repo.UpdateChore(*c)
	if err != nil {
		return nil, fmt.Errorf("update chore %d: %w", id, err)
	}
	s.logger.Info("chore completed",
		"chore_id", id, "member_id", byMemberID, "status", updated.Status)

	if updated.Status == model.StatusCompleted {
		if err := s.ledger.Allocate(updated.Points, byMemberID, id, now); err != nil {
			s.logger.Error("point allocation failed", "chore_id", id, "member_id", byMemberID, "error", err)
			return updated, fmt.Errorf("chore %d: %w: %v", id, ErrPointAllocation, err)
		}
	}
	return updated, nil
}

// Verify approves a chore awaiting verification and allocates its points to
// the member who completed it.
func (s *Service) Verify(id, byMemberID int64) (*model.Chore, error) {
	c, err := s.getChore(id)
	if err != nil {
		return nil, err
	}
	m, err := s.getMember(byMemberID)
	if err != nil {
		return nil, err
	}
	if c.Status != model.StatusPendingVerification {
		return nil, transitionError(c, "verify")
	}
	if !s.val.CanVerify(*m, *c) {
		return nil, fmt.Errorf("member %d cannot verify chore %d: %w", byMemberID, id, ErrPermissionDenied)
	}

	c.Status = model.StatusVerified
	updated, err := s.repo.UpdateChore(*c)
	if err != nil {
		return nil, fmt.Errorf("update chore %d: %w", id, err)
	}
	s.logger.Info("chore verified", "chore_id", id, "verified_by", byMemberID)

	earner := updated.CompletedBy
	if earner == nil {
		earner = updated.AssignedTo
	}
	if earner != nil {
		if err := s.ledger.Allocate(updated.Points, *earner, id, s.now()); err != nil {
			s.logger.Error("point allocation failed", "chore_id", id, "member_id", *earner, "error", err)
			return updated, fmt.Errorf("chore %d: %w: %v", id, ErrPointAllocation, err)
		}
	}
	return updated, nil
}

// Reject declines a chore awaiting verification. No points move.
func (s *Service) Reject(id, byMemberID int64, reason string) (*model.Chore, error) {
	c, err := s.getChore(id)
	if err != nil {
		return nil, err
	}
	m, err := s.getMember(byMemberID)
	if err != nil {
		return nil, err
	}
	if c.Status != model.StatusPendingVerification {
		return nil, transitionError(c, "reject")
	}
	if !s.val.CanReject(*m, *c) {
		return nil, fmt.Errorf("member %d cannot reject chore %d: %w", byMemberID, id, ErrPermissionDenied)
	}

	c.Status = model.StatusRejected
	updated, err := s.repo.UpdateChore(*c)
	if err != nil {
		return nil, fmt.Errorf("update chore %d: %w", id, err)
	}
	s.logger.Info("chore rejected", "chore_id", id, "rejected_by", byMemberID, "reason", reason)
	return updated, nil
}

// MarkMissed moves a pending chore past its due date to missed and deducts
// its points from the assigned member, if any.
func (s *Service) MarkMissed(id int64) (*model.Chore, error) {
	c, err := s.getChore(id)
	if err != nil {
		return nil, err
	}
	if c.IsTemplate() {
		return nil, transitionError(c, "miss")
	}
	if c.Status != model.StatusPending {
		return nil, transitionError(c, "miss")
	}
	now := s.now()
	if c.DueAt.After(now) {
		return nil, fmt.Errorf("chore %d is not yet due: %w", id, ErrInvalidTransition)
	}

	c.Status = model.StatusMissed
	updated, err := s.repo.UpdateChore(*c)
	if err != nil {
		return nil, fmt.Errorf("update chore %d: %w", id, err)
	}
	s.logger.Info("chore missed", "chore_id", id, "due_at", updated.DueAt)

	if updated.AssignedTo != nil {
		if err := s.ledger.Deduct(updated.Points, *updated.AssignedTo, id, now); err != nil {
			s.logger.Error("point deduction failed", "chore_id", id, "member_id", *updated.AssignedTo, "error", err)
			return updated, fmt.Errorf("chore %d: %w: %v", id, ErrPointDeduction, err)
		}
	}
	return updated, nil
}

// Overdue lists pending, non-template chores whose due date has passed.
func (s *Service) Overdue() ([]model.Chore, error) {
	now := s.now()
	pending := model.StatusPending
	chores, err := s.repo.ListChores(Filter{Status: &pending, DueBefore: &now})
	if err != nil {
		return nil, fmt.Errorf("list overdue chores: %w", err)
	}
	out := chores[:0]
	for _, c := range chores {
		if !c.IsTemplate() {
			out = append(out, c)
		}
	}
	return out, nil
}

// CheckOverdue marks every overdue pending chore missed and returns how
// many were marked. Chores already missed fall outside the pending scan, so
// running it twice in a row marks nothing the second time. Per-chore
// failures are aggregated; the scan continues.
func (s *Service) CheckOverdue() (int, error) {
	overdue, err := s.Overdue()
	if err != nil {
		return 0, err
	}

	var count int
	var errs error
	for _, c := range overdue {
		if _, err := s.MarkMissed(c.ID); err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		count++
	}
	if count > 0 {
		s.logger.Info("overdue chores marked missed", "count", count)
	}
	return count, errs
}

// Reschedule sets a new due date on a chore.
func (s *Service) Reschedule(actorID, id int64, due time.Time) (*model.Chore, error) {
	c, err := s.getChore(id)
	if err != nil {
		return nil, err
	}
	m, err := s.getMember(actorID)
	if err != nil {
		return nil, err
	}
	if !s.val.CanUpdate(*m, *c) {
		return nil, fmt.Errorf("member %d cannot reschedule chore %d: %w", actorID, id, ErrPermissionDenied)
	}
	if c.Status.Terminal() {
		return nil, transitionError(c, "reschedule")
	}

	c.DueAt = due
	updated, err := s.repo.UpdateChore(*c)
	if err != nil {
		return nil, fmt.Errorf("update chore %d: %w", id, err)
	}
	s.logger.Info("chore rescheduled", "chore_id", id, "due_at", due)
	return updated, nil
}

// FutureUpdate is the set of field changes applied to not-yet-due child
// instances. Nil fields are left untouched.
type FutureUpdate struct {
	Title       *string
	Description *string
	Points      *int
	IconID      *string
	AssignedTo  *int64
}

// UpdateFuture applies the mutation to every child of the template with a
// due date from now on, leaving already-resolved instances untouched.
// Returns the number of children updated.
func (s *Service) UpdateFuture(actorID, parentID int64, mut FutureUpdate) (int, error) {
	parent, err := s.getChore(parentID)
	if err != nil {
		return 0, err
	}
	m, err := s.getMember(actorID)
	if err != nil {
		return 0, err
	}
	if !s.val.CanUpdate(*m, *parent) {
		return 0, fmt.Errorf("member %d cannot update chore %d: %w", actorID, parentID, ErrPermissionDenied)
	}
	if mut.Title != nil {
		if err := s.val.Title(*mut.Title); err != nil {
			return 0, fmt.Errorf("%w: %v", ErrInvalidData, err)
		}
	}
	if mut.Points != nil {
		if err := s.val.Points(*mut.Points); err != nil {
			return 0, fmt.Errorf("%w: %v", ErrInvalidData, err)
		}
	}

	children, err := s.repo.ListChildren(parentID)
	if err != nil {
		return 0, fmt.Errorf("list children of chore %d: %w", parentID, err)
	}

	now := s.now()
	var count int
	for _, child := range children {
		if child.DueAt.Before(now) {
			continue
		}
		if mut.Title != nil {
			child.Title = *mut.Title
		}
		if mut.Description != nil {
			child.Description = *mut.Description
		}
		if mut.Points != nil {
			child.Points = *mut.Points
		}
		if mut.IconID != nil {
			child.IconID = *mut.IconID
		}
		if mut.AssignedTo != nil {
			child.AssignedTo = mut.AssignedTo
		}
		if _, err := s.repo.UpdateChore(child); err != nil {
			return count, fmt.Errorf("update child chore %d: %w", child.ID, err)
		}
		count++
	}
	s.logger.Info("future chores updated", "parent_id", parentID, "count", count)
	return count, nil
}

// DeleteFuture tombstones every child of the template with a due date from
// now on. Past instances keep their history. Returns the number deleted.
func (s *Service) DeleteFuture(actorID, parentID int64) (int, error) {
	parent, err := s.getChore(parentID)
	if err != nil {
		return 0, err
	}
	m, err := s.getMember(actorID)
	if err != nil {
		return 0, err
	}
	if !s.val.CanDelete(*m, *parent) {
		return 0, fmt.Errorf("member %d cannot delete chore %d: %w", actorID, parentID, ErrPermissionDenied)
	}

	children, err := s.repo.ListChildren(parentID)
	if err != nil {
		return 0, fmt.Errorf("list children of chore %d: %w", parentID, err)
	}

	now := s.now()
	var count int
	for _, child := range children {
		if child.DueAt.Before(now) {
			continue
		}
		if err := s.repo.SoftDelete(child.ID); err != nil {
			return count, fmt.Errorf("delete child chore %d: %w", child.ID, err)
		}
		count++
	}
	s.logger.Info("future chores deleted", "parent_id", parentID, "count", count)
	return count, nil
}
