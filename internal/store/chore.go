package store

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/fernwell/choreboard/internal/chore"
	"github.com/fernwell/choreboard/internal/model"
)

// ChoreStore persists chores in SQLite. It implements both the lifecycle
// service's Repository and the generator's Store. Soft-deleted rows are
// excluded from every query except the tombstone write itself.
type ChoreStore struct {
	db *sql.DB
}

func NewChoreStore(db *sql.DB) *ChoreStore {
	return &ChoreStore{db: db}
}

const choreCols = `id, title, description, points, due_at, is_recurring, recurring_pattern, status,
	parent_chore_id, assigned_to, created_by, family_id, icon_id, completed_by, completed_at,
	created_at, updated_at, deleted_at`

func scanChore(scanner interface{ Scan(...any) error }) (*model.Chore, error) {
	var c model.Chore
	var parentID, assignedTo, createdBy, familyID, completedBy sql.NullInt64
	var completedAt, deletedAt sql.NullTime

	err := scanner.Scan(
		&c.ID, &c.Title, &c.Description, &c.Points, &c.DueAt, &c.IsRecurring, &c.RecurringPattern,
		&c.Status, &parentID, &assignedTo, &createdBy, &familyID, &c.IconID, &completedBy,
		&completedAt, &c.CreatedAt, &c.UpdatedAt, &deletedAt,
	)
	if err != nil {
		return nil, err
	}

	if parentID.Valid {
		c.ParentChoreID = &parentID.Int64
	}
	if assignedTo.Valid {
		c.AssignedTo = &assignedTo.Int64
	}
	if createdBy.Valid {
		c.CreatedBy = &createdBy.Int64
	}
	if familyID.Valid {
		c.FamilyID = &familyID.Int64
	}
	if completedBy.Valid {
		c.CompletedBy = &completedBy.Int64
	}
	if completedAt.Valid {
		t := completedAt.Time
		c.CompletedAt = &t
	}
	if deletedAt.Valid {
		t := deletedAt.Time
		c.DeletedAt = &t
	}
	return &c, nil
}

func nullInt(p *int64) sql.NullInt64 {
	if p == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *p, Valid: true}
}

func nullTime(p *time.Time) sql.NullTime {
	if p == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: p.UTC(), Valid: true}
}

func (s *ChoreStore) CreateChore(c model.Chore) (*model.Chore, error) {
	result, err := s.db.Exec(
		`INSERT INTO chores
			(title, description, points, due_at, is_recurring, recurring_pattern, status,
			 parent_chore_id, assigned_to, created_by, family_id, icon_id, completed_by, completed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		c.Title, c.Description, c.Points, c.DueAt.UTC(), c.IsRecurring, c.RecurringPattern, c.Status,
		nullInt(c.ParentChoreID), nullInt(c.AssignedTo), nullInt(c.CreatedBy), nullInt(c.FamilyID),
		c.IconID, nullInt(c.CompletedBy), nullTime(c.CompletedAt),
	)
	if err != nil {
		return nil, fmt.Errorf("insert chore: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetChore(id)
}

func (s *ChoreStore) GetChore(id int64) (*model.Chore, error) {
	row := s.db.QueryRow(`SELECT `+choreCols+` FROM chores WHERE id = ? AND deleted_at IS NULL`, id)
	c, err := scanChore(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get chore: %w", err)
	}
	return c, nil
}

func (s *ChoreStore) ListChores(f chore.Filter) ([]model.Chore, error) {
	where := []string{"deleted_at IS NULL"}
	var args []any

	if f.FamilyID != nil {
		where = append(where, "family_id = ?")
		args = append(args, *f.FamilyID)
	}
	if f.AssignedTo != nil {
		where = append(where, "assigned_to = ?")
		args = append(args, *f.AssignedTo)
	}
	if f.ParentID != nil {
		where = append(where, "parent_chore_id = ?")
		args = append(args, *f.ParentID)
	}
	if f.Status != nil {
		where = append(where, "status = ?")
		args = append(args, *f.Status)
	}
	if f.DueBefore != nil {
		where = append(where, "due_at <= ?")
		args = append(args, f.DueBefore.UTC())
	}

	query := `SELECT ` + choreCols + ` FROM chores WHERE ` + strings.Join(where, " AND ") +
		` ORDER BY due_at ASC, id ASC`
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list chores: %w", err)
	}
	defer rows.Close()

	return collectChores(rows)
}

func collectChores(rows *sql.Rows) ([]model.Chore, error) {
	var chores []model.Chore
	for rows.Next() {
		c, err := scanChore(rows)
		if err != nil {
			return nil, fmt.Errorf("scan chore: %w", err)
		}
		chores = append(chores, *c)
	}
	return chores, rows.Err()
}

func (s *ChoreStore) UpdateChore(c model.Chore) (*model.Chore, error) {
	_, err := s.db.Exec(
		`UPDATE chores SET
			title = ?, description = ?, points = ?, due_at = ?, is_recurring = ?,
			recurring_pattern = ?, status = ?, assigned_to = ?, icon_id = ?,
			completed_by = ?, completed_at = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND deleted_at IS NULL`,
		c.Title, c.Description, c.Points, c.DueAt.UTC(), c.IsRecurring,
		c.RecurringPattern, c.Status, nullInt(c.AssignedTo), c.IconID,
		nullInt(c.CompletedBy), nullTime(c.CompletedAt), c.ID,
	)
	if err != nil {
		return nil, fmt.Errorf("update chore: %w", err)
	}
	return s.GetChore(c.ID)
}

func (s *ChoreStore) SoftDelete(id int64) error {
	_, err := s.db.Exec(
		`UPDATE chores SET deleted_at = CURRENT_TIMESTAMP, updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND deleted_at IS NULL`, id)
	if err != nil {
		return fmt.Errorf("soft delete chore: %w", err)
	}
	return nil
}

func (s *ChoreStore) ListChildren(parentID int64) ([]model.Chore, error) {
	rows, err := s.db.Query(
		`SELECT `+choreCols+` FROM chores
		WHERE parent_chore_id = ? AND deleted_at IS NULL ORDER BY due_at ASC`,
		parentID,
	)
	if err != nil {
		return nil, fmt.Errorf("list children: %w", err)
	}
	defer rows.Close()

	return collectChores(rows)
}

func (s *ChoreStore) ListTemplates(familyID *int64) ([]model.Chore, error) {
	query := `SELECT ` + choreCols + ` FROM chores
		WHERE is_recurring = 1 AND parent_chore_id IS NULL AND deleted_at IS NULL`
	var args []any
	if familyID != nil {
		query += ` AND family_id = ?`
		args = append(args, *familyID)
	}
	query += ` ORDER BY id ASC`

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list templates: %w", err)
	}
	defer rows.Close()

	return collectChores(rows)
}
