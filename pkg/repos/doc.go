// Package repos implements repository creation and read-access resolution.
//
// A repository is owned personally or by an organization. Its canonical name
// is derived once at creation and never changes: official repositories (those
// created by admins) take the bare name, organization repositories the
// "org/name" form, personal repositories "username/name".
//
// Read access resolves from the repository alone: public repositories are
// readable by anyone, private personal repositories only by their owner, and
// private organization repositories by any organization member. Team
// permissions do not participate in read resolution; the seam for that is
// Service.TeamGrantsRead.
package repos
