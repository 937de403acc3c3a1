// Package authz evaluates whether a principal may perform an operation.
//
// Authorization is a pure evaluation over decoded claims: no storage access,
// no side effects. Each call enumerates exactly the roles it accepts. There
// is no role hierarchy, so an admin does not pass a check that requires
// superadmin.
//
//	principal, err := authz.Authorize(claims, authz.Roles(registry.RoleUser, registry.RoleAdmin), false)
//
// A principal whose token carries must_change_password is blocked from
// everything except the password-change operation itself; that precedence is
// enforced before any role check.
package authz
