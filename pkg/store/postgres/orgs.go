package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/mockerhub/registry/pkg/registry"
)

// OrgStore persists organizations and membership edges in PostgreSQL.
type OrgStore struct {
	db *sql.DB
}

// NewOrgStore creates an organization store on an open database handle.
func NewOrgStore(db *sql.DB) *OrgStore {
	return &OrgStore{db: db}
}

// Create inserts the organization and its owner's membership edge in one
// transaction.
func (s *OrgStore) Create(ctx context.Context, org *registry.Organization) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}

	query := `
		INSERT INTO organizations (name, description, image, owner_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`
	err = tx.QueryRowContext(ctx, query,
		org.Name,
		org.Description,
		org.Image,
		org.OwnerID,
	).Scan(&org.ID)
	if err != nil {
		tx.Rollback()
		if taken := translateUnique(err); taken != err {
			return taken
		}
		return fmt.Errorf("failed to create organization: %w", err)
	}

	memberQuery := `INSERT INTO organization_members (organization_id, user_id) VALUES ($1, $2)`
	if _, err := tx.ExecContext(ctx, memberQuery, org.ID, org.OwnerID); err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to add owner membership: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit organization creation: %w", err)
	}
	return nil
}

const orgColumns = `id, name, description, image, owner_id`

func scanOrg(row *sql.Row) (*registry.Organization, error) {
	var org registry.Organization
	err := row.Scan(&org.ID, &org.Name, &org.Description, &org.Image, &org.OwnerID)
	if err != nil {
		return nil, err
	}
	return &org, nil
}

// GetByID retrieves an organization by id.
func (s *OrgStore) GetByID(ctx context.Context, id int64) (*registry.Organization, error) {
	query := `SELECT ` + orgColumns + ` FROM organizations WHERE id = $1`

	org, err := scanOrg(s.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, registry.NotFound(registry.EntityOrganization, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get organization: %w", err)
	}
	return org, nil
}

// GetByName retrieves an organization by name.
func (s *OrgStore) GetByName(ctx context.Context, name string) (*registry.Organization, error) {
	query := `SELECT ` + orgColumns + ` FROM organizations WHERE name = $1`

	org, err := scanOrg(s.db.QueryRowContext(ctx, query, name))
	if err == sql.ErrNoRows {
		return nil, registry.NotFound(registry.EntityOrganization, name)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get organization: %w", err)
	}
	return org, nil
}

// AddMember inserts the membership edge if absent. The edge returned is the
// same either way, so re-adding a member is a no-op.
func (s *OrgStore) AddMember(ctx context.Context, orgID, userID int64) (*registry.OrgMember, error) {
	query := `
		INSERT INTO organization_members (organization_id, user_id)
		VALUES ($1, $2)
		ON CONFLICT (organization_id, user_id) DO NOTHING
	`
	if _, err := s.db.ExecContext(ctx, query, orgID, userID); err != nil {
		return nil, fmt.Errorf("failed to add organization member: %w", err)
	}
	return &registry.OrgMember{OrganizationID: orgID, UserID: userID}, nil
}

// IsMember reports whether the user has a membership edge to the organization.
func (s *OrgStore) IsMember(ctx context.Context, userID, orgID int64) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM organization_members WHERE organization_id = $1 AND user_id = $2)`

	var exists bool
	if err := s.db.QueryRowContext(ctx, query, orgID, userID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check organization membership: %w", err)
	}
	return exists, nil
}
