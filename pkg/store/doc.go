// Package store defines the persistence interfaces the registry services
// depend on. Implementations live in subpackages: store/postgres is the
// canonical lib/pq implementation, store/cache wraps it with Redis and an
// in-process LRU for hot membership lookups.
//
// Uniqueness (usernames, emails, organization names, canonical repository
// names) is enforced by the store itself, through unique indexes whose
// conflicts surface as registry.FieldTakenError, so concurrent creations
// cannot race past the services' friendly pre-checks.
package store
