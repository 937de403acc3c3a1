package repos

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mockerhub/registry/pkg/registry"
	"github.com/mockerhub/registry/pkg/store"
	"github.com/mockerhub/registry/pkg/store/storetest"
)

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func newTestService(t *testing.T) (*Service, store.Store) {
	t.Helper()
	st := storetest.New()
	return NewService(st.Repos(), st.Users(), st.Orgs(), st.Teams(), testLogger()), st
}

func seedUser(t *testing.T, st store.Store, username string, role registry.Role) *registry.User {
	t.Helper()
	user := &registry.User{
		Email:    username + "@example.com",
		Username: username,
		Role:     role,
	}
	require.NoError(t, st.Users().Create(context.Background(), user))
	return user
}

func seedOrg(t *testing.T, st store.Store, name string, ownerID int64) *registry.Organization {
	t.Helper()
	org := &registry.Organization{Name: name, OwnerID: ownerID}
	require.NoError(t, st.Orgs().Create(context.Background(), org))
	return org
}

func TestCreatePersonal(t *testing.T) {
	ctx := context.Background()
	svc, st := newTestService(t)
	alice := seedUser(t, st, "alice", registry.RoleUser)

	repo, err := svc.Create(ctx, alice.ID, "tools", "my tools", true, nil)
	require.NoError(t, err)
	assert.Equal(t, "alice/tools", repo.CanonicalName)
	assert.Equal(t, registry.BadgeNone, repo.Badge)
	assert.False(t, repo.Official())
	assert.Nil(t, repo.OrganizationID)
}

func TestCreateOfficial(t *testing.T) {
	ctx := context.Background()
	svc, st := newTestService(t)
	admin := seedUser(t, st, "root", registry.RoleAdmin)

	repo, err := svc.Create(ctx, admin.ID, "python", "official image", true, nil)
	require.NoError(t, err)
	assert.Equal(t, "python", repo.CanonicalName)
	assert.Equal(t, registry.BadgeOfficial, repo.Badge)
	assert.True(t, repo.Official())
}

func TestCreateSuperAdminNotOfficial(t *testing.T) {
	ctx := context.Background()
	svc, st := newTestService(t)
	super := seedUser(t, st, "admin", registry.RoleSuperAdmin)

	// Only admin accounts produce official repositories; roles do not nest.
	repo, err := svc.Create(ctx, super.ID, "python", "", true, nil)
	require.NoError(t, err)
	assert.Equal(t, "admin/python", repo.CanonicalName)
	assert.Equal(t, registry.BadgeNone, repo.Badge)
}

func TestCreateInOrg(t *testing.T) {
	ctx := context.Background()
	svc, st := newTestService(t)
	alice := seedUser(t, st, "alice", registry.RoleUser)
	org := seedOrg(t, st, "acme", alice.ID)

	repo, err := svc.Create(ctx, alice.ID, "api", "", false, &org.ID)
	require.NoError(t, err)
	assert.Equal(t, "acme/api", repo.CanonicalName)
	require.NotNil(t, repo.OrganizationID)
	assert.Equal(t, org.ID, *repo.OrganizationID)
}

func TestCreateInOrgNotMember(t *testing.T) {
	ctx := context.Background()
	svc, st := newTestService(t)
	alice := seedUser(t, st, "alice", registry.RoleUser)
	bob := seedUser(t, st, "bob", registry.RoleUser)
	org := seedOrg(t, st, "acme", alice.ID)

	_, err := svc.Create(ctx, bob.ID, "api", "", false, &org.ID)
	var denied *registry.AccessDeniedError
	require.True(t, errors.As(err, &denied))
	assert.Contains(t, denied.Error(), "acme")
}

func TestCreateInUnknownOrg(t *testing.T) {
	ctx := context.Background()
	svc, st := newTestService(t)
	alice := seedUser(t, st, "alice", registry.RoleUser)

	missing := int64(99)
	_, err := svc.Create(ctx, alice.ID, "api", "", false, &missing)
	assert.True(t, registry.IsNotFound(err))
}

func TestCreateDuplicateCanonicalName(t *testing.T) {
	ctx := context.Background()
	svc, st := newTestService(t)
	alice := seedUser(t, st, "alice", registry.RoleUser)

	_, err := svc.Create(ctx, alice.ID, "tools", "", true, nil)
	require.NoError(t, err)

	_, err = svc.Create(ctx, alice.ID, "tools", "", true, nil)
	var taken *registry.FieldTakenError
	require.True(t, errors.As(err, &taken))
	assert.Equal(t, "repository name", taken.Field)
}

func TestCreateSameNameDifferentNamespaces(t *testing.T) {
	ctx := context.Background()
	svc, st := newTestService(t)
	alice := seedUser(t, st, "alice", registry.RoleUser)
	bob := seedUser(t, st, "bob", registry.RoleUser)
	admin := seedUser(t, st, "root", registry.RoleAdmin)

	// The same bare name coexists across namespaces.
	_, err := svc.Create(ctx, alice.ID, "python", "", true, nil)
	require.NoError(t, err)
	_, err = svc.Create(ctx, bob.ID, "python", "", true, nil)
	require.NoError(t, err)
	_, err = svc.Create(ctx, admin.ID, "python", "", true, nil)
	require.NoError(t, err)
}

func TestCreateEmptyName(t *testing.T) {
	ctx := context.Background()
	svc, st := newTestService(t)
	alice := seedUser(t, st, "alice", registry.RoleUser)

	_, err := svc.Create(ctx, alice.ID, "", "", true, nil)
	var verr *registry.ValidationError
	assert.True(t, errors.As(err, &verr))
}

func TestCreateUnknownOwner(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	_, err := svc.Create(ctx, 99, "tools", "", true, nil)
	assert.True(t, registry.IsNotFound(err))
}

func TestCanRead(t *testing.T) {
	ctx := context.Background()
	svc, st := newTestService(t)
	alice := seedUser(t, st, "alice", registry.RoleUser)
	bob := seedUser(t, st, "bob", registry.RoleUser)
	carol := seedUser(t, st, "carol", registry.RoleUser)
	org := seedOrg(t, st, "acme", alice.ID)
	_, err := st.Orgs().AddMember(ctx, org.ID, bob.ID)
	require.NoError(t, err)

	public, err := svc.Create(ctx, alice.ID, "pub", "", true, nil)
	require.NoError(t, err)
	personal, err := svc.Create(ctx, alice.ID, "priv", "", false, nil)
	require.NoError(t, err)
	orgPrivate, err := svc.Create(ctx, alice.ID, "api", "", false, &org.ID)
	require.NoError(t, err)

	tests := []struct {
		name      string
		repo      *registry.Repository
		requester *int64
		want      bool
	}{
		{"public anonymous", public, nil, true},
		{"public stranger", public, &carol.ID, true},
		{"private personal anonymous", personal, nil, false},
		{"private personal owner", personal, &alice.ID, true},
		{"private personal stranger", personal, &carol.ID, false},
		{"private org anonymous", orgPrivate, nil, false},
		{"private org member", orgPrivate, &bob.ID, true},
		{"private org owner", orgPrivate, &alice.ID, true},
		{"private org outsider", orgPrivate, &carol.ID, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := svc.CanRead(ctx, tt.repo, tt.requester)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCanReadIgnoresTeamPermissions(t *testing.T) {
	ctx := context.Background()
	svc, st := newTestService(t)
	alice := seedUser(t, st, "alice", registry.RoleUser)
	carol := seedUser(t, st, "carol", registry.RoleUser)
	org := seedOrg(t, st, "acme", alice.ID)

	repo, err := svc.Create(ctx, alice.ID, "api", "", false, &org.ID)
	require.NoError(t, err)

	// Even a direct team permission edge does not open reads: only
	// organization membership counts.
	team := &registry.Team{OrganizationID: org.ID, Name: "backend"}
	require.NoError(t, st.Teams().Create(ctx, team))
	_, err = st.Teams().AddMember(ctx, team.ID, carol.ID)
	require.NoError(t, err)
	_, err = st.Teams().AddPermission(ctx, team.ID, repo.ID, registry.PermissionAdmin)
	require.NoError(t, err)

	readable, err := svc.CanRead(ctx, repo, &carol.ID)
	require.NoError(t, err)
	assert.False(t, readable)

	granted, err := svc.TeamGrantsRead(ctx, repo, carol.ID)
	require.NoError(t, err)
	assert.False(t, granted)
}

func TestGetVisibleByCanonicalName(t *testing.T) {
	ctx := context.Background()
	svc, st := newTestService(t)
	alice := seedUser(t, st, "alice", registry.RoleUser)
	carol := seedUser(t, st, "carol", registry.RoleUser)

	_, err := svc.Create(ctx, alice.ID, "priv", "", false, nil)
	require.NoError(t, err)

	repo, err := svc.GetVisibleByCanonicalName(ctx, "alice/priv", &alice.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice/priv", repo.CanonicalName)

	// Unreadable and nonexistent repositories are indistinguishable.
	_, err = svc.GetVisibleByCanonicalName(ctx, "alice/priv", &carol.ID)
	assert.True(t, registry.IsNotFound(err))
	_, err = svc.GetVisibleByCanonicalName(ctx, "alice/priv", nil)
	assert.True(t, registry.IsNotFound(err))
	_, err = svc.GetVisibleByCanonicalName(ctx, "alice/ghost", &alice.ID)
	assert.True(t, registry.IsNotFound(err))
}

func TestListVisible(t *testing.T) {
	ctx := context.Background()
	svc, st := newTestService(t)
	alice := seedUser(t, st, "alice", registry.RoleUser)
	bob := seedUser(t, st, "bob", registry.RoleUser)
	org := seedOrg(t, st, "acme", alice.ID)
	_, err := st.Orgs().AddMember(ctx, org.ID, bob.ID)
	require.NoError(t, err)

	_, err = svc.Create(ctx, alice.ID, "pub", "", true, nil)
	require.NoError(t, err)
	_, err = svc.Create(ctx, alice.ID, "priv", "", false, nil)
	require.NoError(t, err)
	_, err = svc.Create(ctx, alice.ID, "api", "", false, &org.ID)
	require.NoError(t, err)

	names := func(repos []*registry.Repository) []string {
		var out []string
		for _, r := range repos {
			out = append(out, r.CanonicalName)
		}
		return out
	}

	// The owner sees everything.
	own, err := svc.ListVisible(ctx, alice.ID, &alice.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"acme/api", "alice/priv", "alice/pub"}, names(own))

	// An org member sees the org repo and the public one.
	member, err := svc.ListVisible(ctx, alice.ID, &bob.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"acme/api", "alice/pub"}, names(member))

	// Anonymous requesters see only public repositories.
	anon, err := svc.ListVisible(ctx, alice.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"alice/pub"}, names(anon))
}

func TestListVisibleUnknownUser(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	_, err := svc.ListVisible(ctx, 99, nil)
	assert.True(t, registry.IsNotFound(err))
}
