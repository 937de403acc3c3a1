package authz

import (
	"github.com/mockerhub/registry/pkg/credentials"
	"github.com/mockerhub/registry/pkg/registry"
)

// Principal is the authenticated actor yielded by a successful authorization
// check, for downstream use by services.
type Principal struct {
	UserID int64
	Role   registry.Role
}

// Roles builds the allow-list for an authorization check. A nil allow-list
// skips the role dimension entirely; an empty one denies every role.
func Roles(roles ...registry.Role) []registry.Role {
	return roles
}

// Authorize evaluates claims against an operation's requirements.
//
// The checks run in a fixed order:
//
//  1. Missing claims fail with registry.ErrUnauthenticated.
//  2. A pending password change fails with
//     registry.ErrPasswordChangeRequired unless the caller explicitly
//     allows it. This takes priority over the role check.
//  3. If requiredRoles is non-nil, the decoded role must be a member of the
//     allow-list; otherwise the check fails with AccessDeniedError.
//
// On success the principal's id and role are returned.
func Authorize(claims *credentials.Claims, requiredRoles []registry.Role, allowPasswordChangePending bool) (Principal, error) {
	if claims == nil {
		return Principal{}, registry.ErrUnauthenticated
	}

	if claims.MustChangePassword && !allowPasswordChangePending {
		return Principal{}, registry.ErrPasswordChangeRequired
	}

	if requiredRoles != nil {
		allowed := false
		for _, role := range requiredRoles {
			if claims.Role == role {
				allowed = true
				break
			}
		}
		if !allowed {
			return Principal{}, registry.AccessDenied("access denied for role %s", claims.Role)
		}
	}

	return Principal{UserID: claims.UserID, Role: claims.Role}, nil
}
