// Package registry defines the core domain model of the mockerhub registry:
// users, organizations, teams, repositories, the membership and permission
// edges between them, canonical-name derivation, and the typed error taxonomy
// shared by every service.
//
// # Entities
//
// A User owns personal repositories and may own organizations. An Organization
// groups repositories and members; its owner is always a member. Teams exist
// inside exactly one organization and may be granted per-repository
// permissions on that organization's repositories.
//
// # Canonical names
//
// Every repository has a globally unique canonical name computed once at
// creation:
//
//	CanonicalName("python", "alice", false, "")      // "alice/python"
//	CanonicalName("python", "alice", false, "acme")  // "acme/python"
//	CanonicalName("python", "alice", true, "")       // "python" (official)
//
// # Errors
//
// All services surface failures through the typed errors in this package
// (NotFoundError, FieldTakenError, AccessDeniedError, ...). The HTTP layer
// maps them to status codes exactly once; services never map or swallow them.
package registry
