package registry

// CanonicalName derives the globally unique name of a repository. It is pure
// and deterministic; the result is computed once at creation and never
// recomputed.
//
// Official repositories (created by admins) live in the flat top-level
// namespace and keep their bare name. Organization repositories are prefixed
// with the organization name, personal repositories with the owner's
// username. orgName is empty for personal repositories.
func CanonicalName(name, ownerUsername string, official bool, orgName string) string {
	if official {
		return name
	}
	if orgName != "" {
		return orgName + "/" + name
	}
	return ownerUsername + "/" + name
}

// OrgCanonicalName derives the canonical name of an organization.
// Organization names occupy a flat namespace, so the canonical name is the
// name itself; the indirection exists so both resource kinds resolve names
// through the same package.
func OrgCanonicalName(name string) string {
	return name
}
