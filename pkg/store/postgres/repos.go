package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/mockerhub/registry/pkg/registry"
)

// RepoStore persists repositories in PostgreSQL.
type RepoStore struct {
	db *sql.DB
}

// NewRepoStore creates a repository store on an open database handle.
func NewRepoStore(db *sql.DB) *RepoStore {
	return &RepoStore{db: db}
}

// Create inserts a repository and fills in the generated id.
func (s *RepoStore) Create(ctx context.Context, repo *registry.Repository) error {
	query := `
		INSERT INTO repositories (name, canonical_name, description, public, owner_id, organization_id, badge)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`

	err := s.db.QueryRowContext(ctx, query,
		repo.Name,
		repo.CanonicalName,
		repo.Description,
		repo.Public,
		repo.OwnerID,
		repo.OrganizationID,
		repo.Badge,
	).Scan(&repo.ID)

	if err != nil {
		if taken := translateUnique(err); taken != err {
			return taken
		}
		return fmt.Errorf("failed to create repository: %w", err)
	}
	return nil
}

const repoColumns = `id, name, canonical_name, description, public, owner_id, organization_id, badge`

func scanRepoRow(scan func(dest ...interface{}) error) (*registry.Repository, error) {
	var repo registry.Repository
	var orgID sql.NullInt64

	err := scan(
		&repo.ID,
		&repo.Name,
		&repo.CanonicalName,
		&repo.Description,
		&repo.Public,
		&repo.OwnerID,
		&orgID,
		&repo.Badge,
	)
	if err != nil {
		return nil, err
	}

	if orgID.Valid {
		id := orgID.Int64
		repo.OrganizationID = &id
	}
	return &repo, nil
}

// GetByID retrieves a repository by id.
func (s *RepoStore) GetByID(ctx context.Context, id int64) (*registry.Repository, error) {
	query := `SELECT ` + repoColumns + ` FROM repositories WHERE id = $1`

	repo, err := scanRepoRow(s.db.QueryRowContext(ctx, query, id).Scan)
	if err == sql.ErrNoRows {
		return nil, registry.NotFound(registry.EntityRepository, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get repository: %w", err)
	}
	return repo, nil
}

// GetByCanonicalName retrieves a repository by its canonical name.
func (s *RepoStore) GetByCanonicalName(ctx context.Context, canonicalName string) (*registry.Repository, error) {
	query := `SELECT ` + repoColumns + ` FROM repositories WHERE canonical_name = $1`

	repo, err := scanRepoRow(s.db.QueryRowContext(ctx, query, canonicalName).Scan)
	if err == sql.ErrNoRows {
		return nil, registry.NotFound(registry.EntityRepository, canonicalName)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get repository: %w", err)
	}
	return repo, nil
}

// ListForUser returns repositories the user owns personally plus the
// repositories of every organization the user is a member of.
func (s *RepoStore) ListForUser(ctx context.Context, userID int64) ([]*registry.Repository, error) {
	query := `
		SELECT ` + repoColumns + `
		FROM repositories
		WHERE (organization_id IS NULL AND owner_id = $1)
		   OR organization_id IN (
			SELECT organization_id FROM organization_members WHERE user_id = $1
		)
		ORDER BY canonical_name ASC
	`

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list repositories: %w", err)
	}
	defer rows.Close()

	var repos []*registry.Repository
	for rows.Next() {
		repo, err := scanRepoRow(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan repository: %w", err)
		}
		repos = append(repos, repo)
	}
	return repos, rows.Err()
}
