package repos

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/mockerhub/registry/pkg/registry"
	"github.com/mockerhub/registry/pkg/store"
)

// Service implements repository operations.
type Service struct {
	repos store.Repos
	users store.Users
	orgs  store.Orgs
	teams store.Teams
	log   *logrus.Logger
}

// NewService creates a repository service.
func NewService(repos store.Repos, users store.Users, orgs store.Orgs, teams store.Teams, log *logrus.Logger) *Service {
	return &Service{repos: repos, users: users, orgs: orgs, teams: teams, log: log}
}

// Create makes a new repository. Repositories created by admins are official:
// they take the bare canonical name and carry the official badge. When orgID
// is set the repository belongs to that organization and the creator must be
// one of its members.
func (s *Service) Create(ctx context.Context, ownerID int64, name, description string, public bool, orgID *int64) (*registry.Repository, error) {
	if name == "" {
		return nil, registry.Validation("repository name must not be empty")
	}

	owner, err := s.users.GetByID(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	official := owner.Role == registry.RoleAdmin

	orgName := ""
	if orgID != nil {
		org, err := s.orgs.GetByID(ctx, *orgID)
		if err != nil {
			return nil, err
		}
		isMember, err := s.orgs.IsMember(ctx, ownerID, *orgID)
		if err != nil {
			return nil, err
		}
		if !isMember {
			return nil, registry.AccessDenied("you are not a member of organization %s", org.Name)
		}
		orgName = org.Name
	}

	canonical := registry.CanonicalName(name, owner.Username, official, orgName)

	// Friendly pre-check; the unique index is the real guarantee.
	if _, err := s.repos.GetByCanonicalName(ctx, canonical); err == nil {
		return nil, registry.FieldTaken("repository name")
	} else if !registry.IsNotFound(err) {
		return nil, err
	}

	badge := registry.BadgeNone
	if official {
		badge = registry.BadgeOfficial
	}

	repo := &registry.Repository{
		Name:           name,
		CanonicalName:  canonical,
		Description:    description,
		Public:         public,
		OwnerID:        ownerID,
		OrganizationID: orgID,
		Badge:          badge,
	}
	if err := s.repos.Create(ctx, repo); err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"repo_id":        repo.ID,
		"canonical_name": repo.CanonicalName,
		"owner_id":       ownerID,
	}).Info("repository created")
	return repo, nil
}

// CanRead reports whether the requester may read the repository. A nil
// requesterID means anonymous.
func (s *Service) CanRead(ctx context.Context, repo *registry.Repository, requesterID *int64) (bool, error) {
	if repo.Public {
		return true, nil
	}
	if requesterID == nil {
		return false, nil
	}
	if repo.OrganizationID != nil {
		isMember, err := s.orgs.IsMember(ctx, *requesterID, *repo.OrganizationID)
		if err != nil {
			return false, err
		}
		if isMember {
			return true, nil
		}
		return s.TeamGrantsRead(ctx, repo, *requesterID)
	}
	return repo.OwnerID == *requesterID, nil
}

// TeamGrantsRead is the seam where team permissions would enter read
// resolution. Permission edges are recorded by the teams service but grant
// nothing here yet, so this always reports false. Team-scoped reads, when
// they land, go through this method and nowhere else.
func (s *Service) TeamGrantsRead(ctx context.Context, repo *registry.Repository, requesterID int64) (bool, error) {
	return false, nil
}

// GetVisibleByCanonicalName retrieves a repository the requester may read.
// Unreadable repositories are reported as not found so their existence is
// not leaked.
func (s *Service) GetVisibleByCanonicalName(ctx context.Context, canonicalName string, requesterID *int64) (*registry.Repository, error) {
	repo, err := s.repos.GetByCanonicalName(ctx, canonicalName)
	if err != nil {
		return nil, err
	}

	readable, err := s.CanRead(ctx, repo, requesterID)
	if err != nil {
		return nil, err
	}
	if !readable {
		return nil, registry.NotFound(registry.EntityRepository, canonicalName)
	}
	return repo, nil
}

// ListVisible lists the repositories associated with userID (personal plus
// those of their organizations) that the requester may read.
func (s *Service) ListVisible(ctx context.Context, userID int64, requesterID *int64) ([]*registry.Repository, error) {
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return nil, err
	}

	all, err := s.repos.ListForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	visible := make([]*registry.Repository, 0, len(all))
	for _, repo := range all {
		readable, err := s.CanRead(ctx, repo, requesterID)
		if err != nil {
			return nil, err
		}
		if readable {
			visible = append(visible, repo)
		}
	}
	return visible, nil
}

// GetByID retrieves a repository by id without a visibility check.
func (s *Service) GetByID(ctx context.Context, id int64) (*registry.Repository, error) {
	return s.repos.GetByID(ctx, id)
}
