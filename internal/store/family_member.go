package store

import (
	"database/sql"
	"fmt"

	"github.com/fernwell/choreboard/internal/model"
)

type FamilyMemberStore struct {
	db *sql.DB
}

func NewFamilyMemberStore(db *sql.DB) *FamilyMemberStore {
	return &FamilyMemberStore{db: db}
}

const memberCols = `id, name, role, family_id, pin_hash != '', created_at, updated_at`

func scanMember(scanner interface{ Scan(...any) error }) (*model.FamilyMember, error) {
	var m model.FamilyMember
	err := scanner.Scan(&m.ID, &m.Name, &m.Role, &m.FamilyID, &m.HasPIN, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (s *FamilyMemberStore) CreateMember(name string, role model.Role, familyID int64) (*model.FamilyMember, error) {
	result, err := s.db.Exec(
		`INSERT INTO family_members (name, role, family_id) VALUES (?, ?, ?)`,
		name, role, familyID,
	)
	if err != nil {
		return nil, fmt.Errorf("insert member: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetMember(id)
}

func (s *FamilyMemberStore) GetMember(id int64) (*model.FamilyMember, error) {
	row := s.db.QueryRow(`SELECT `+memberCols+` FROM family_members WHERE id = ?`, id)
	m, err := scanMember(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get member: %w", err)
	}
	return m, nil
}

func (s *FamilyMemberStore) ListByFamily(familyID int64) ([]model.FamilyMember, error) {
	rows, err := s.db.Query(
		`SELECT `+memberCols+` FROM family_members WHERE family_id = ? ORDER BY name ASC`,
		familyID,
	)
	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}
	defer rows.Close()

	var members []model.FamilyMember
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, fmt.Errorf("scan member: %w", err)
		}
		members = append(members, *m)
	}
	return members, rows.Err()
}

// SetPIN stores a bcrypt hash for the member; an empty hash clears the PIN.
func (s *FamilyMemberStore) SetPIN(id int64, hash string) error {
	_, err := s.db.Exec(
		`UPDATE family_members SET pin_hash = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		hash, id,
	)
	if err != nil {
		return fmt.Errorf("set pin: %w", err)
	}
	return nil
}

func (s *FamilyMemberStore) PINHash(id int64) (string, error) {
	var hash string
	err := s.db.QueryRow(`SELECT pin_hash FROM family_members WHERE id = ?`, id).Scan(&hash)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("get pin hash: %w", err)
	}
	return hash, nil
}

// RequireVerification returns the family's verification policy; families
// without a settings row default to no verification.
func (s *FamilyMemberStore) RequireVerification(familyID int64) (bool, error) {
	var required bool
	err := s.db.QueryRow(
		`SELECT require_verification FROM family_settings WHERE family_id = ?`, familyID,
	).Scan(&required)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("get family settings: %w", err)
	}
	return required, nil
}

func (s *FamilyMemberStore) SetRequireVerification(familyID int64, required bool) error {
	_, err := s.db.Exec(
		`INSERT INTO family_settings (family_id, require_verification) VALUES (?, ?)
		ON CONFLICT(family_id) DO UPDATE SET require_verification = excluded.require_verification`,
		familyID, required,
	)
	if err != nil {
		return fmt.Errorf("set family settings: %w", err)
	}
	return nil
}
