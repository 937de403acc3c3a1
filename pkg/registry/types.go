package registry

import "time"

// Role is a user's system-wide role. Roles form a closed set with no
// hierarchy: every authorization check enumerates exactly the roles it
// accepts, so admin does not implicitly satisfy a superadmin check.
type Role string

const (
	RoleUser       Role = "user"
	RoleAdmin      Role = "admin"
	RoleSuperAdmin Role = "superadmin"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleAdmin, RoleSuperAdmin:
		return true
	}
	return false
}

// Badge classifies a repository. It is derived from the creator's privilege
// at creation time and never recomputed.
type Badge string

const (
	BadgeNone         Badge = "none"
	BadgeOfficial     Badge = "official"
	BadgeVerified     Badge = "verified"
	BadgeSponsoredOSS Badge = "sponsored_oss"
)

// PermissionKind is the access level a team permission grants on a
// repository.
type PermissionKind string

const (
	PermissionRead      PermissionKind = "read"
	PermissionReadWrite PermissionKind = "read_write"
	PermissionAdmin     PermissionKind = "admin"
)

// Valid reports whether k is one of the known permission kinds.
func (k PermissionKind) Valid() bool {
	switch k {
	case PermissionRead, PermissionReadWrite, PermissionAdmin:
		return true
	}
	return false
}

// User represents a registered account.
type User struct {
	ID                 int64     `json:"id"`
	Email              string    `json:"email"`
	Username           string    `json:"username"`
	Role               Role      `json:"role"`
	HashedPassword     string    `json:"-"` // never exposed
	MustChangePassword bool      `json:"must_change_password"`
	JoinDate           time.Time `json:"join_date"`
}

// Organization groups repositories and members under a globally unique name.
// The owner is fixed at creation; there is no transfer operation.
type Organization struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"desc"`
	Image       string `json:"image"`
	OwnerID     int64  `json:"owner_id"`
}

// OrgMember is a membership edge between a user and an organization. The
// (organization, user) pair is unique; membership is a set, not a list.
type OrgMember struct {
	OrganizationID int64 `json:"organization_id"`
	UserID         int64 `json:"user_id"`
}

// Team is a named group of users inside a single organization.
type Team struct {
	ID             int64  `json:"id"`
	OrganizationID int64  `json:"organization_id"`
	Name           string `json:"name"`
	Description    string `json:"desc"`
}

// TeamMember is a membership edge between a user and a team. The user must
// already be a member of the team's organization.
type TeamMember struct {
	TeamID int64 `json:"team_id"`
	UserID int64 `json:"user_id"`
}

// TeamPermission grants a team an access level on one repository belonging
// to the team's organization.
type TeamPermission struct {
	TeamID       int64          `json:"team_id"`
	RepositoryID int64          `json:"repo_id"`
	Kind         PermissionKind `json:"kind"`
}

// Repository is a registry repository, owned either personally
// (OrganizationID nil) or by an organization.
type Repository struct {
	ID             int64  `json:"id"`
	Name           string `json:"name"`
	CanonicalName  string `json:"canonical_name"`
	Description    string `json:"desc"`
	Public         bool   `json:"public"`
	OwnerID        int64  `json:"owner_id"`
	OrganizationID *int64 `json:"organization_id,omitempty"`
	Badge          Badge  `json:"badge"`
}

// Official reports whether the repository carries the official badge.
func (r *Repository) Official() bool {
	return r.Badge == BadgeOfficial
}
