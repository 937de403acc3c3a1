package store

import (
	"context"

	"github.com/mockerhub/registry/pkg/registry"
)

// Users persists user accounts.
//
// Lookups return registry.NotFoundError when no row matches. Create fills in
// the generated id and join date, and returns registry.FieldTakenError when
// the email or username is already taken.
type Users interface {
	Create(ctx context.Context, user *registry.User) error
	GetByID(ctx context.Context, id int64) (*registry.User, error)
	GetByUsername(ctx context.Context, username string) (*registry.User, error)
	GetByEmail(ctx context.Context, email string) (*registry.User, error)
	// UpdatePassword replaces the stored hash and sets the
	// must-change-password flag in one statement.
	UpdatePassword(ctx context.Context, id int64, hashedPassword string, mustChange bool) error
	// HasSuperAdmin reports whether any superadmin account exists.
	HasSuperAdmin(ctx context.Context) (bool, error)
}

// Orgs persists organizations and their membership edges.
type Orgs interface {
	// Create inserts the organization and its owner's membership edge in a
	// single transaction: no reader may observe the organization without its
	// owner as a member. Returns registry.FieldTakenError when the name is
	// taken.
	Create(ctx context.Context, org *registry.Organization) error
	GetByID(ctx context.Context, id int64) (*registry.Organization, error)
	GetByName(ctx context.Context, name string) (*registry.Organization, error)
	// AddMember inserts the membership edge, or returns the existing edge
	// unchanged when it is already present.
	AddMember(ctx context.Context, orgID, userID int64) (*registry.OrgMember, error)
	// IsMember reports whether the user has a membership edge to the
	// organization.
	IsMember(ctx context.Context, userID, orgID int64) (bool, error)
}

// Teams persists teams, team membership, and team-to-repository permission
// edges. Find* methods return (nil, nil) when no edge exists, so callers can
// distinguish absence from failure.
type Teams interface {
	Create(ctx context.Context, team *registry.Team) error
	GetByID(ctx context.Context, id int64) (*registry.Team, error)
	ListByOrg(ctx context.Context, orgID int64) ([]*registry.Team, error)
	FindMember(ctx context.Context, teamID, userID int64) (*registry.TeamMember, error)
	AddMember(ctx context.Context, teamID, userID int64) (*registry.TeamMember, error)
	FindPermission(ctx context.Context, teamID, repoID int64) (*registry.TeamPermission, error)
	AddPermission(ctx context.Context, teamID, repoID int64, kind registry.PermissionKind) (*registry.TeamPermission, error)
}

// Repos persists repositories.
type Repos interface {
	// Create inserts the repository, returning registry.FieldTakenError when
	// the canonical name is already reserved.
	Create(ctx context.Context, repo *registry.Repository) error
	GetByID(ctx context.Context, id int64) (*registry.Repository, error)
	GetByCanonicalName(ctx context.Context, canonicalName string) (*registry.Repository, error)
	// ListForUser returns the repositories the user owns personally plus the
	// repositories of every organization the user belongs to. Order follows
	// store iteration; callers must not rely on it.
	ListForUser(ctx context.Context, userID int64) ([]*registry.Repository, error)
}

// Store bundles every repository interface behind one backend.
type Store interface {
	Users() Users
	Orgs() Orgs
	Teams() Teams
	Repos() Repos
}
