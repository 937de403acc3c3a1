// Package storetest provides in-memory store implementations for service
// tests. Behavior mirrors the postgres implementation: NotFound on missing
// rows, FieldTaken on uniqueness conflicts, idempotent edge inserts, and
// atomic owner self-membership on organization creation.
package storetest

import (
	"context"
	"sort"
	"time"

	"github.com/mockerhub/registry/pkg/registry"
	"github.com/mockerhub/registry/pkg/store"
)

// Store is an in-memory store.Store.
type Store struct {
	users *Users
	orgs  *Orgs
	teams *Teams
	repos *Repos
}

// New creates an empty in-memory store.
func New() *Store {
	orgs := &Orgs{byID: make(map[int64]*registry.Organization), members: make(map[edge]bool), nextID: 1}
	return &Store{
		users: &Users{byID: make(map[int64]*registry.User), nextID: 1},
		orgs:  orgs,
		teams: &Teams{byID: make(map[int64]*registry.Team), members: make(map[edge]bool), perms: make(map[edge]registry.PermissionKind), nextID: 1},
		repos: &Repos{byID: make(map[int64]*registry.Repository), orgs: orgs, nextID: 1},
	}
}

func (s *Store) Users() store.Users { return s.users }
func (s *Store) Orgs() store.Orgs   { return s.orgs }
func (s *Store) Teams() store.Teams { return s.teams }
func (s *Store) Repos() store.Repos { return s.repos }

type edge [2]int64

// Users is an in-memory store.Users.
type Users struct {
	byID   map[int64]*registry.User
	nextID int64
}

func (f *Users) Create(ctx context.Context, user *registry.User) error {
	for _, existing := range f.byID {
		if existing.Email == user.Email {
			return registry.FieldTaken("email")
		}
		if existing.Username == user.Username {
			return registry.FieldTaken("username")
		}
	}
	user.ID = f.nextID
	user.JoinDate = time.Now()
	f.nextID++
	clone := *user
	f.byID[user.ID] = &clone
	return nil
}

func (f *Users) GetByID(ctx context.Context, id int64) (*registry.User, error) {
	user, ok := f.byID[id]
	if !ok {
		return nil, registry.NotFound(registry.EntityUser, id)
	}
	clone := *user
	return &clone, nil
}

func (f *Users) GetByUsername(ctx context.Context, username string) (*registry.User, error) {
	for _, user := range f.byID {
		if user.Username == username {
			clone := *user
			return &clone, nil
		}
	}
	return nil, registry.NotFound(registry.EntityUser, username)
}

func (f *Users) GetByEmail(ctx context.Context, email string) (*registry.User, error) {
	for _, user := range f.byID {
		if user.Email == email {
			clone := *user
			return &clone, nil
		}
	}
	return nil, registry.NotFound(registry.EntityUser, email)
}

func (f *Users) UpdatePassword(ctx context.Context, id int64, hashedPassword string, mustChange bool) error {
	user, ok := f.byID[id]
	if !ok {
		return registry.NotFound(registry.EntityUser, id)
	}
	user.HashedPassword = hashedPassword
	user.MustChangePassword = mustChange
	return nil
}

// SetRole promotes a user directly, bypassing service checks. Test fixture
// only.
func (f *Users) SetRole(id int64, role registry.Role) {
	if user, ok := f.byID[id]; ok {
		user.Role = role
	}
}

func (f *Users) HasSuperAdmin(ctx context.Context) (bool, error) {
	for _, user := range f.byID {
		if user.Role == registry.RoleSuperAdmin {
			return true, nil
		}
	}
	return false, nil
}

// Orgs is an in-memory store.Orgs.
type Orgs struct {
	byID    map[int64]*registry.Organization
	members map[edge]bool
	nextID  int64
}

func (f *Orgs) Create(ctx context.Context, org *registry.Organization) error {
	for _, existing := range f.byID {
		if existing.Name == org.Name {
			return registry.FieldTaken("organization name")
		}
	}
	org.ID = f.nextID
	f.nextID++
	clone := *org
	f.byID[org.ID] = &clone
	f.members[edge{org.ID, org.OwnerID}] = true
	return nil
}

func (f *Orgs) GetByID(ctx context.Context, id int64) (*registry.Organization, error) {
	org, ok := f.byID[id]
	if !ok {
		return nil, registry.NotFound(registry.EntityOrganization, id)
	}
	clone := *org
	return &clone, nil
}

func (f *Orgs) GetByName(ctx context.Context, name string) (*registry.Organization, error) {
	for _, org := range f.byID {
		if org.Name == name {
			clone := *org
			return &clone, nil
		}
	}
	return nil, registry.NotFound(registry.EntityOrganization, name)
}

func (f *Orgs) AddMember(ctx context.Context, orgID, userID int64) (*registry.OrgMember, error) {
	f.members[edge{orgID, userID}] = true
	return &registry.OrgMember{OrganizationID: orgID, UserID: userID}, nil
}

func (f *Orgs) IsMember(ctx context.Context, userID, orgID int64) (bool, error) {
	return f.members[edge{orgID, userID}], nil
}

// MemberCount returns the number of membership edges for an organization.
func (f *Orgs) MemberCount(orgID int64) int {
	count := 0
	for e := range f.members {
		if e[0] == orgID {
			count++
		}
	}
	return count
}

// Teams is an in-memory store.Teams.
type Teams struct {
	byID    map[int64]*registry.Team
	members map[edge]bool
	perms   map[edge]registry.PermissionKind
	nextID  int64
}

func (f *Teams) Create(ctx context.Context, team *registry.Team) error {
	for _, existing := range f.byID {
		if existing.OrganizationID == team.OrganizationID && existing.Name == team.Name {
			return registry.FieldTaken("team name")
		}
	}
	team.ID = f.nextID
	f.nextID++
	clone := *team
	f.byID[team.ID] = &clone
	return nil
}

func (f *Teams) GetByID(ctx context.Context, id int64) (*registry.Team, error) {
	team, ok := f.byID[id]
	if !ok {
		return nil, registry.NotFound(registry.EntityTeam, id)
	}
	clone := *team
	return &clone, nil
}

func (f *Teams) ListByOrg(ctx context.Context, orgID int64) ([]*registry.Team, error) {
	var teams []*registry.Team
	for _, team := range f.byID {
		if team.OrganizationID == orgID {
			clone := *team
			teams = append(teams, &clone)
		}
	}
	sort.Slice(teams, func(i, j int) bool { return teams[i].Name < teams[j].Name })
	return teams, nil
}

func (f *Teams) FindMember(ctx context.Context, teamID, userID int64) (*registry.TeamMember, error) {
	if !f.members[edge{teamID, userID}] {
		return nil, nil
	}
	return &registry.TeamMember{TeamID: teamID, UserID: userID}, nil
}

func (f *Teams) AddMember(ctx context.Context, teamID, userID int64) (*registry.TeamMember, error) {
	f.members[edge{teamID, userID}] = true
	return &registry.TeamMember{TeamID: teamID, UserID: userID}, nil
}

func (f *Teams) FindPermission(ctx context.Context, teamID, repoID int64) (*registry.TeamPermission, error) {
	kind, ok := f.perms[edge{teamID, repoID}]
	if !ok {
		return nil, nil
	}
	return &registry.TeamPermission{TeamID: teamID, RepositoryID: repoID, Kind: kind}, nil
}

func (f *Teams) AddPermission(ctx context.Context, teamID, repoID int64, kind registry.PermissionKind) (*registry.TeamPermission, error) {
	if _, ok := f.perms[edge{teamID, repoID}]; !ok {
		f.perms[edge{teamID, repoID}] = kind
	}
	kind = f.perms[edge{teamID, repoID}]
	return &registry.TeamPermission{TeamID: teamID, RepositoryID: repoID, Kind: kind}, nil
}

// Repos is an in-memory store.Repos.
type Repos struct {
	byID   map[int64]*registry.Repository
	orgs   *Orgs
	nextID int64
}

func (f *Repos) Create(ctx context.Context, repo *registry.Repository) error {
	for _, existing := range f.byID {
		if existing.CanonicalName == repo.CanonicalName {
			return registry.FieldTaken("repository name")
		}
	}
	repo.ID = f.nextID
	f.nextID++
	clone := *repo
	f.byID[repo.ID] = &clone
	return nil
}

func (f *Repos) GetByID(ctx context.Context, id int64) (*registry.Repository, error) {
	repo, ok := f.byID[id]
	if !ok {
		return nil, registry.NotFound(registry.EntityRepository, id)
	}
	clone := *repo
	return &clone, nil
}

func (f *Repos) GetByCanonicalName(ctx context.Context, canonicalName string) (*registry.Repository, error) {
	for _, repo := range f.byID {
		if repo.CanonicalName == canonicalName {
			clone := *repo
			return &clone, nil
		}
	}
	return nil, registry.NotFound(registry.EntityRepository, canonicalName)
}

func (f *Repos) ListForUser(ctx context.Context, userID int64) ([]*registry.Repository, error) {
	var repos []*registry.Repository
	for _, repo := range f.byID {
		if repo.OrganizationID == nil {
			if repo.OwnerID == userID {
				clone := *repo
				repos = append(repos, &clone)
			}
			continue
		}
		if f.orgs != nil && f.orgs.members[edge{*repo.OrganizationID, userID}] {
			clone := *repo
			repos = append(repos, &clone)
		}
	}
	sort.Slice(repos, func(i, j int) bool { return repos[i].CanonicalName < repos[j].CanonicalName })
	return repos, nil
}
