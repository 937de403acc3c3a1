package orgs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mockerhub/registry/pkg/registry"
	"github.com/mockerhub/registry/pkg/store"
	"github.com/mockerhub/registry/pkg/store/storetest"
)

// stubAvatars records generated avatars without touching the filesystem.
type stubAvatars struct {
	calls   []string
	uploads []string
	fail    bool
}

func (s *stubAvatars) Generate(text, filename string) (string, error) {
	if s.fail {
		return "", errors.New("render failed")
	}
	s.calls = append(s.calls, filename)
	return "images/" + filename + ".png", nil
}

func (s *stubAvatars) SaveDataURI(dataURI, filename string) (string, error) {
	if !strings.HasPrefix(dataURI, "data:image/png;base64,") {
		return "", errors.New("unsupported image data URI")
	}
	s.uploads = append(s.uploads, filename)
	return "images/" + filename + ".png", nil
}

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func newTestService(t *testing.T) (*Service, store.Store, *stubAvatars) {
	t.Helper()
	st := storetest.New()
	avatars := &stubAvatars{}
	return NewService(st.Orgs(), st.Users(), avatars, testLogger()), st, avatars
}

func seedUser(t *testing.T, st store.Store, username string) *registry.User {
	t.Helper()
	user := &registry.User{
		Email:    username + "@example.com",
		Username: username,
		Role:     registry.RoleUser,
	}
	require.NoError(t, st.Users().Create(context.Background(), user))
	return user
}

func TestCreate(t *testing.T) {
	ctx := context.Background()
	svc, st, avatars := newTestService(t)
	owner := seedUser(t, st, "alice")

	org, err := svc.Create(ctx, owner.ID, "acme", "Acme Corp", "")
	require.NoError(t, err)
	assert.NotZero(t, org.ID)
	assert.Equal(t, owner.ID, org.OwnerID)
	assert.Equal(t, "images/org_acme.png", org.Image)
	assert.Equal(t, []string{"org_acme"}, avatars.calls)

	// The owner is a member from the moment the organization exists.
	member, err := st.Orgs().IsMember(ctx, owner.ID, org.ID)
	require.NoError(t, err)
	assert.True(t, member)
}

func TestCreateDuplicateName(t *testing.T) {
	ctx := context.Background()
	svc, st, _ := newTestService(t)
	owner := seedUser(t, st, "alice")

	_, err := svc.Create(ctx, owner.ID, "acme", "", "")
	require.NoError(t, err)

	_, err = svc.Create(ctx, owner.ID, "acme", "again", "")
	var taken *registry.FieldTakenError
	require.True(t, errors.As(err, &taken))
	assert.Equal(t, "organization name", taken.Field)
}

func TestCreateEmptyName(t *testing.T) {
	ctx := context.Background()
	svc, st, _ := newTestService(t)
	owner := seedUser(t, st, "alice")

	_, err := svc.Create(ctx, owner.ID, "", "", "")
	var verr *registry.ValidationError
	assert.True(t, errors.As(err, &verr))
}

func TestCreateAvatarFailure(t *testing.T) {
	ctx := context.Background()
	svc, st, avatars := newTestService(t)
	owner := seedUser(t, st, "alice")
	avatars.fail = true

	_, err := svc.Create(ctx, owner.ID, "acme", "", "")
	require.Error(t, err)

	// Nothing was persisted.
	_, err = st.Orgs().GetByName(ctx, "acme")
	assert.True(t, registry.IsNotFound(err))
}

func TestCreateWithUploadedImage(t *testing.T) {
	ctx := context.Background()
	svc, st, avatars := newTestService(t)
	owner := seedUser(t, st, "alice")

	org, err := svc.Create(ctx, owner.ID, "acme", "", "data:image/png;base64,iVBORw0KGgo=")
	require.NoError(t, err)
	assert.Equal(t, "images/org_acme.png", org.Image)
	assert.Equal(t, []string{"org_acme"}, avatars.uploads)
	assert.Empty(t, avatars.calls, "no identicon generated when an image is supplied")
}

func TestCreateWithBadImage(t *testing.T) {
	ctx := context.Background()
	svc, st, _ := newTestService(t)
	owner := seedUser(t, st, "alice")

	_, err := svc.Create(ctx, owner.ID, "acme", "", "https://example.com/a.png")
	var verr *registry.ValidationError
	require.True(t, errors.As(err, &verr))

	// Nothing was persisted.
	_, err = st.Orgs().GetByName(ctx, "acme")
	assert.True(t, registry.IsNotFound(err))
}

func TestCreateWithoutAvatars(t *testing.T) {
	ctx := context.Background()
	st := storetest.New()
	svc := NewService(st.Orgs(), st.Users(), nil, testLogger())
	owner := seedUser(t, st, "alice")

	org, err := svc.Create(ctx, owner.ID, "acme", "", "")
	require.NoError(t, err)
	assert.Empty(t, org.Image)
}

func TestAddMember(t *testing.T) {
	ctx := context.Background()
	svc, st, _ := newTestService(t)
	owner := seedUser(t, st, "alice")
	other := seedUser(t, st, "bob")

	org, err := svc.Create(ctx, owner.ID, "acme", "", "")
	require.NoError(t, err)

	member, err := svc.AddMember(ctx, owner.ID, org.ID, other.ID)
	require.NoError(t, err)
	assert.Equal(t, org.ID, member.OrganizationID)
	assert.Equal(t, other.ID, member.UserID)

	isMember, err := svc.IsMember(ctx, other.ID, org.ID)
	require.NoError(t, err)
	assert.True(t, isMember)
}

func TestAddMemberNotOwner(t *testing.T) {
	ctx := context.Background()
	svc, st, _ := newTestService(t)
	owner := seedUser(t, st, "alice")
	other := seedUser(t, st, "bob")

	org, err := svc.Create(ctx, owner.ID, "acme", "", "")
	require.NoError(t, err)

	_, err = svc.AddMember(ctx, other.ID, org.ID, other.ID)
	var denied *registry.AccessDeniedError
	require.True(t, errors.As(err, &denied))
	assert.Contains(t, denied.Error(), "acme")
}

func TestAddMemberIdempotent(t *testing.T) {
	ctx := context.Background()
	svc, st, _ := newTestService(t)
	owner := seedUser(t, st, "alice")
	other := seedUser(t, st, "bob")

	org, err := svc.Create(ctx, owner.ID, "acme", "", "")
	require.NoError(t, err)

	_, err = svc.AddMember(ctx, owner.ID, org.ID, other.ID)
	require.NoError(t, err)
	_, err = svc.AddMember(ctx, owner.ID, org.ID, other.ID)
	require.NoError(t, err)

	memOrgs := st.Orgs().(*storetest.Orgs)
	assert.Equal(t, 2, memOrgs.MemberCount(org.ID), "owner plus one member")
}

func TestAddMemberUnknownOrg(t *testing.T) {
	ctx := context.Background()
	svc, st, _ := newTestService(t)
	owner := seedUser(t, st, "alice")

	_, err := svc.AddMember(ctx, owner.ID, 99, owner.ID)
	assert.True(t, registry.IsNotFound(err))
}

func TestAddMemberUnknownUser(t *testing.T) {
	ctx := context.Background()
	svc, st, _ := newTestService(t)
	owner := seedUser(t, st, "alice")

	org, err := svc.Create(ctx, owner.ID, "acme", "", "")
	require.NoError(t, err)

	_, err = svc.AddMember(ctx, owner.ID, org.ID, 99)
	assert.True(t, registry.IsNotFound(err))
}

func TestGetByName(t *testing.T) {
	ctx := context.Background()
	svc, st, _ := newTestService(t)
	owner := seedUser(t, st, "alice")

	created, err := svc.Create(ctx, owner.ID, "acme", "Acme Corp", "")
	require.NoError(t, err)

	got, err := svc.GetByName(ctx, "acme")
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)

	byID, err := svc.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Acme Corp", byID.Description)

	_, err = svc.GetByName(ctx, "nope")
	assert.True(t, registry.IsNotFound(err))
}

func TestCreateManyDistinctNames(t *testing.T) {
	ctx := context.Background()
	svc, st, _ := newTestService(t)
	owner := seedUser(t, st, "alice")

	for i := 0; i < 3; i++ {
		_, err := svc.Create(ctx, owner.ID, fmt.Sprintf("org-%d", i), "", "")
		require.NoError(t, err)
	}
}
