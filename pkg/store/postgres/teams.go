package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/mockerhub/registry/pkg/registry"
)

// TeamStore persists teams, team membership, and team permissions in
// PostgreSQL.
type TeamStore struct {
	db *sql.DB
}

// NewTeamStore creates a team store on an open database handle.
func NewTeamStore(db *sql.DB) *TeamStore {
	return &TeamStore{db: db}
}

// Create inserts a team and fills in the generated id.
func (s *TeamStore) Create(ctx context.Context, team *registry.Team) error {
	query := `
		INSERT INTO teams (organization_id, name, description)
		VALUES ($1, $2, $3)
		RETURNING id
	`

	err := s.db.QueryRowContext(ctx, query,
		team.OrganizationID,
		team.Name,
		team.Description,
	).Scan(&team.ID)

	if err != nil {
		if taken := translateUnique(err); taken != err {
			return taken
		}
		return fmt.Errorf("failed to create team: %w", err)
	}
	return nil
}

// GetByID retrieves a team by id.
func (s *TeamStore) GetByID(ctx context.Context, id int64) (*registry.Team, error) {
	query := `SELECT id, organization_id, name, description FROM teams WHERE id = $1`

	var team registry.Team
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&team.ID,
		&team.OrganizationID,
		&team.Name,
		&team.Description,
	)
	if err == sql.ErrNoRows {
		return nil, registry.NotFound(registry.EntityTeam, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get team: %w", err)
	}
	return &team, nil
}

// ListByOrg lists all teams of an organization ordered by name.
func (s *TeamStore) ListByOrg(ctx context.Context, orgID int64) ([]*registry.Team, error) {
	query := `
		SELECT id, organization_id, name, description
		FROM teams
		WHERE organization_id = $1
		ORDER BY name ASC
	`

	rows, err := s.db.QueryContext(ctx, query, orgID)
	if err != nil {
		return nil, fmt.Errorf("failed to list teams: %w", err)
	}
	defer rows.Close()

	var teams []*registry.Team
	for rows.Next() {
		var team registry.Team
		if err := rows.Scan(&team.ID, &team.OrganizationID, &team.Name, &team.Description); err != nil {
			return nil, fmt.Errorf("failed to scan team: %w", err)
		}
		teams = append(teams, &team)
	}
	return teams, rows.Err()
}

// FindMember returns the membership edge, or (nil, nil) when absent.
func (s *TeamStore) FindMember(ctx context.Context, teamID, userID int64) (*registry.TeamMember, error) {
	query := `SELECT team_id, user_id FROM team_members WHERE team_id = $1 AND user_id = $2`

	var member registry.TeamMember
	err := s.db.QueryRowContext(ctx, query, teamID, userID).Scan(&member.TeamID, &member.UserID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find team member: %w", err)
	}
	return &member, nil
}

// AddMember inserts a membership edge.
func (s *TeamStore) AddMember(ctx context.Context, teamID, userID int64) (*registry.TeamMember, error) {
	query := `
		INSERT INTO team_members (team_id, user_id)
		VALUES ($1, $2)
		ON CONFLICT (team_id, user_id) DO NOTHING
	`
	if _, err := s.db.ExecContext(ctx, query, teamID, userID); err != nil {
		return nil, fmt.Errorf("failed to add team member: %w", err)
	}
	return &registry.TeamMember{TeamID: teamID, UserID: userID}, nil
}

// FindPermission returns the permission edge, or (nil, nil) when absent.
func (s *TeamStore) FindPermission(ctx context.Context, teamID, repoID int64) (*registry.TeamPermission, error) {
	query := `SELECT team_id, repository_id, kind FROM team_permissions WHERE team_id = $1 AND repository_id = $2`

	var perm registry.TeamPermission
	err := s.db.QueryRowContext(ctx, query, teamID, repoID).Scan(&perm.TeamID, &perm.RepositoryID, &perm.Kind)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find team permission: %w", err)
	}
	return &perm, nil
}

// AddPermission inserts a permission edge.
func (s *TeamStore) AddPermission(ctx context.Context, teamID, repoID int64, kind registry.PermissionKind) (*registry.TeamPermission, error) {
	query := `
		INSERT INTO team_permissions (team_id, repository_id, kind)
		VALUES ($1, $2, $3)
		ON CONFLICT (team_id, repository_id) DO NOTHING
	`
	if _, err := s.db.ExecContext(ctx, query, teamID, repoID, kind); err != nil {
		return nil, fmt.Errorf("failed to add team permission: %w", err)
	}
	return &registry.TeamPermission{TeamID: teamID, RepositoryID: repoID, Kind: kind}, nil
}
