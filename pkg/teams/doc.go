// Package teams implements team management inside organizations.
//
// Teams belong to exactly one organization. Only the organization owner may
// create teams, add members, or grant repository permissions. Team members
// must already belong to the organization, and permissions may only target
// repositories of the same organization. Both edges are sets: re-adding an
// existing member or permission returns the existing edge unchanged.
//
// Team permissions are recorded but not yet consulted by read-access
// resolution; see repos.Service.CanRead for the seam where they will be.
package teams
