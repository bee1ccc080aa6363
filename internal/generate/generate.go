// Package generate materializes concrete chore instances from recurring
// templates. Generation is idempotent: a (parent, due date) pair is never
// created twice, so overlapping windows are safe to re-run.
package generate

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.uber.org/multierr"

	"github.com/fernwell/choreboard/internal/dateutil"
	"github.com/fernwell/choreboard/internal/model"
	"github.com/fernwell/choreboard/internal/pattern"
)

// ErrInvalidPattern marks a chore flagged recurring whose stored pattern
// does not parse. Batch generation skips such templates and reports them.
var ErrInvalidPattern = errors.New("invalid recurring pattern")

// Store is the slice of the repository the generator needs.
type Store interface {
	ListTemplates(familyID *int64) ([]model.Chore, error)
	ListChildren(parentID int64) ([]model.Chore, error)
	CreateChore(c model.Chore) (*model.Chore, error)
}

type Generator struct {
	store  Store
	logger *slog.Logger
	now    func() time.Time
}

func New(store Store, logger *slog.Logger) *Generator {
	return &Generator{store: store, logger: logger, now: time.Now}
}

// SetNow overrides the clock, for tests.
func (g *Generator) SetNow(now func() time.Time) { g.now = now }

// Hard cap on occurrences per expansion, mirroring the window nothing sane
// exceeds; guards against runaway loops on absurd date ranges.
const maxOccurrences = 10000

// DueDates expands a pattern into every due timestamp within [start, end],
// boundaries inclusive, in increasing order. One-time patterns yield nothing.
// Pure and deterministic.
func DueDates(p pattern.Pattern, start, end time.Time) []time.Time {
	if end.Before(start) {
		return nil
	}

	var dates []time.Time
	// Seed the cursor on the day before the window so an occurrence on the
	// start day itself is found by the strictly-after searches.
	cursor := dateutil.At(dateutil.StartOfDay(start).AddDate(0, 0, -1), p.Hour, p.Minute)

	advance := func(t time.Time) time.Time { return time.Time{} }
	switch p.Freq {
	case pattern.Daily:
		advance = func(t time.Time) time.Time { return t.AddDate(0, 0, 1) }
	case pattern.Weekly:
		advance = func(t time.Time) time.Time {
			var next time.Time
			for _, d := range p.Weekdays {
				cand := dateutil.NextWeekday(t, pattern.Weekday(d))
				if next.IsZero() || cand.Before(next) {
					next = cand
				}
			}
			return next
		}
	case pattern.Monthly:
		if p.LastDay {
			advance = dateutil.NextLastDayOfMonth
		} else {
			advance = func(t time.Time) time.Time { return dateutil.NextMonthDay(t, p.MonthDay) }
		}
	default:
		return nil
	}

	for len(dates) < maxOccurrences {
		cursor = advance(cursor)
		if cursor.IsZero() || cursor.After(end) {
			break
		}
		if !cursor.Before(start) {
			dates = append(dates, cursor)
		}
	}
	return dates
}

// Instances generates the missing child chores for one parent template over
// [start, end]. Children copy the parent's fields, start pending, and point
// back via ParentChoreID. Dates already covered by an existing child are
// skipped, so repeated calls over overlapping windows create nothing new.
func (g *Generator) Instances(parent model.Chore, start, end time.Time) ([]model.Chore, error) {
	p, err := pattern.Parse(parent.RecurringPattern)
	if err != nil {
		return nil, fmt.Errorf("chore %d: %w: %v", parent.ID, ErrInvalidPattern, err)
	}

	dues := DueDates(p, start, end)
	if len(dues) == 0 {
		return nil, nil
	}

	existing, err := g.store.ListChildren(parent.ID)
	if err != nil {
		return nil, fmt.Errorf("list children of chore %d: %w", parent.ID, err)
	}
	covered := make(map[int64]bool, len(existing))
	for _, c := range existing {
		covered[c.DueAt.Unix()] = true
	}

	parentID := parent.ID
	var created []model.Chore
	for _, due := range dues {
		if covered[due.Unix()] {
			continue
		}
		child := model.Chore{
			Title:         parent.Title,
			Description:   parent.Description,
			Points:        parent.Points,
			DueAt:         due,
			Status:        model.StatusPending,
			ParentChoreID: &parentID,
			AssignedTo:    parent.AssignedTo,
			CreatedBy:     parent.CreatedBy,
			FamilyID:      parent.FamilyID,
			IconID:        parent.IconID,
		}
		saved, err := g.store.CreateChore(child)
		if err != nil {
			return created, fmt.Errorf("create instance of chore %d due %s: %w",
				parent.ID, due.Format(time.RFC3339), err)
		}
		created = append(created, *saved)
		covered[due.Unix()] = true
	}
	return created, nil
}

// GenerateAll tops up child instances for every recurring template,
// optionally scoped to one family, from each template's last generated due
// date (or now, if none) through end. Templates with unparseable patterns
// are skipped; their errors are aggregated into the returned error while
// the batch continues. The count of created instances is always valid.
func (g *Generator) GenerateAll(familyID *int64, end time.Time) (int, error) {
	templates, err := g.store.ListTemplates(familyID)
	if err != nil {
		return 0, fmt.Errorf("list templates: %w", err)
	}

	var total int
	var errs error
	for _, parent := range templates {
		start := g.now()
		children, err := g.store.ListChildren(parent.ID)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("list children of chore %d: %w", parent.ID, err))
			continue
		}
		for _, c := range children {
			if c.DueAt.After(start) {
				start = c.DueAt
			}
		}

		created, err := g.Instances(parent, start, end)
		total += len(created)
		if err != nil {
			if errors.Is(err, ErrInvalidPattern) {
				g.logger.Warn("skipping template with invalid pattern",
					"chore_id", parent.ID, "pattern", parent.RecurringPattern)
			}
			errs = multierr.Append(errs, err)
		}
	}
	return total, errs
}

// GenerateNextMonth runs GenerateAll with a horizon roughly one month out.
func (g *Generator) GenerateNextMonth(familyID *int64) (int, error) {
	return g.GenerateAll(familyID, g.now().AddDate(0, 0, 31))
}
