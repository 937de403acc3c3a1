// Package cache layers caching over the organization store.
//
// Two tiers: an in-process expirable LRU (L1) for membership checks, which
// are the hottest path in visibility resolution, and Redis (L2) for
// organization records and membership shared across replicas. Writes go
// through to the backing store and then update or invalidate both tiers, so
// a cached entry can be stale for at most the L1 TTL after an out-of-band
// change.
package cache
