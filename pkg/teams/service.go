package teams

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/mockerhub/registry/pkg/registry"
	"github.com/mockerhub/registry/pkg/store"
)

// Service implements team operations.
type Service struct {
	teams store.Teams
	orgs  store.Orgs
	users store.Users
	repos store.Repos
	log   *logrus.Logger
}

// NewService creates a team service.
func NewService(teams store.Teams, orgs store.Orgs, users store.Users, repos store.Repos, log *logrus.Logger) *Service {
	return &Service{teams: teams, orgs: orgs, users: users, repos: repos, log: log}
}

// Create makes a new team in the organization. Only the organization owner
// may create teams.
func (s *Service) Create(ctx context.Context, requesterID, orgID int64, name, description string) (*registry.Team, error) {
	if name == "" {
		return nil, registry.Validation("team name must not be empty")
	}

	org, err := s.orgs.GetByID(ctx, orgID)
	if err != nil {
		return nil, err
	}
	if org.OwnerID != requesterID {
		return nil, registry.AccessDenied("you are not the owner of organization %s", org.Name)
	}

	team := &registry.Team{
		OrganizationID: orgID,
		Name:           name,
		Description:    description,
	}
	if err := s.teams.Create(ctx, team); err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"team_id":   team.ID,
		"team_name": team.Name,
		"org_id":    orgID,
	}).Info("team created")
	return team, nil
}

// AddMember adds userID to the team. The user must already be a member of
// the team's organization, and only the organization owner may add team
// members. Adding an existing member returns the existing edge without any
// further checks.
func (s *Service) AddMember(ctx context.Context, requesterID, teamID, userID int64) (*registry.TeamMember, error) {
	existing, err := s.teams.FindMember(ctx, teamID, userID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return nil, err
	}

	team, err := s.teams.GetByID(ctx, teamID)
	if err != nil {
		return nil, err
	}

	// A user outside the organization is invisible to team operations.
	isMember, err := s.orgs.IsMember(ctx, userID, team.OrganizationID)
	if err != nil {
		return nil, err
	}
	if !isMember {
		return nil, registry.NotFound(registry.EntityUser, userID)
	}

	org, err := s.orgs.GetByID(ctx, team.OrganizationID)
	if err != nil {
		return nil, err
	}
	if org.OwnerID != requesterID {
		return nil, registry.AccessDenied("you are not the owner of organization %s", org.Name)
	}

	member, err := s.teams.AddMember(ctx, teamID, userID)
	if err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"team_id": teamID,
		"user_id": userID,
	}).Info("team member added")
	return member, nil
}

// AddPermission grants the team an access level on a repository of its
// organization. Only the organization owner may grant permissions. Granting
// an existing permission returns the existing edge unchanged, even when the
// requested kind differs.
func (s *Service) AddPermission(ctx context.Context, requesterID, teamID, repoID int64, kind registry.PermissionKind) (*registry.TeamPermission, error) {
	if !kind.Valid() {
		return nil, registry.Validation("invalid permission kind %q", kind)
	}

	existing, err := s.teams.FindPermission(ctx, teamID, repoID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	repo, err := s.repos.GetByID(ctx, repoID)
	if err != nil {
		return nil, err
	}

	team, err := s.teams.GetByID(ctx, teamID)
	if err != nil {
		return nil, err
	}

	if repo.OrganizationID == nil || *repo.OrganizationID != team.OrganizationID {
		return nil, registry.NotInRelationship(registry.EntityOrganization, team.OrganizationID, registry.EntityRepository, repoID)
	}

	org, err := s.orgs.GetByID(ctx, team.OrganizationID)
	if err != nil {
		return nil, err
	}
	if org.OwnerID != requesterID {
		return nil, registry.AccessDenied("you are not the owner of organization %s", org.Name)
	}

	perm, err := s.teams.AddPermission(ctx, teamID, repoID, kind)
	if err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"team_id": teamID,
		"repo_id": repoID,
		"kind":    kind,
	}).Info("team permission granted")
	return perm, nil
}

// FindByOrg lists the teams of an organization. Only organization members
// may list teams; outsiders get a user-not-found error rather than a
// membership hint.
func (s *Service) FindByOrg(ctx context.Context, requesterID, orgID int64) ([]*registry.Team, error) {
	if _, err := s.orgs.GetByID(ctx, orgID); err != nil {
		return nil, err
	}

	isMember, err := s.orgs.IsMember(ctx, requesterID, orgID)
	if err != nil {
		return nil, err
	}
	if !isMember {
		return nil, registry.NotFound(registry.EntityUser, requesterID)
	}

	return s.teams.ListByOrg(ctx, orgID)
}

// GetByID retrieves a team by id.
func (s *Service) GetByID(ctx context.Context, id int64) (*registry.Team, error) {
	return s.teams.GetByID(ctx, id)
}
