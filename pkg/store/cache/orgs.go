package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/mockerhub/registry/pkg/observability"
	"github.com/mockerhub/registry/pkg/registry"
	"github.com/mockerhub/registry/pkg/store"
)

const (
	orgTTL        = 15 * time.Minute
	membershipTTL = 5 * time.Minute
)

// Names reported on the cache hit/miss counters.
const (
	orgCacheName        = "org"
	membershipCacheName = "org_membership"
)

// Orgs decorates a store.Orgs with Redis and an in-process LRU.
type Orgs struct {
	next    store.Orgs
	redis   *redis.Client
	metrics *observability.Metrics

	// l1 caches membership checks keyed by "orgID:userID".
	l1 *expirable.LRU[string, bool]
}

// NewOrgs wraps next with caching. l1Size bounds the in-process membership
// cache; l1TTL bounds its staleness. metrics may be nil.
func NewOrgs(next store.Orgs, client *redis.Client, l1Size int, l1TTL time.Duration, metrics *observability.Metrics) *Orgs {
	return &Orgs{
		next:    next,
		redis:   client,
		metrics: metrics,
		l1:      expirable.NewLRU[string, bool](l1Size, nil, l1TTL),
	}
}

func orgIDKey(id int64) string      { return fmt.Sprintf("org:id:%d", id) }
func orgNameKey(name string) string { return fmt.Sprintf("org:name:%s", name) }

func memberKey(orgID, userID int64) string {
	return fmt.Sprintf("orgmember:%d:%d", orgID, userID)
}

// Create writes through and primes the owner's membership.
func (c *Orgs) Create(ctx context.Context, org *registry.Organization) error {
	if err := c.next.Create(ctx, org); err != nil {
		return err
	}

	c.l1.Add(memberKey(org.ID, org.OwnerID), true)
	c.redis.Set(ctx, memberKey(org.ID, org.OwnerID), "1", membershipTTL)
	c.cacheOrg(ctx, org)
	return nil
}

// GetByID retrieves an organization, consulting Redis first.
func (c *Orgs) GetByID(ctx context.Context, id int64) (*registry.Organization, error) {
	if org := c.cachedOrg(ctx, orgIDKey(id)); org != nil {
		c.metrics.ObserveCacheLookup(orgCacheName, true)
		return org, nil
	}
	c.metrics.ObserveCacheLookup(orgCacheName, false)

	org, err := c.next.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	c.cacheOrg(ctx, org)
	return org, nil
}

// GetByName retrieves an organization by name, consulting Redis first.
func (c *Orgs) GetByName(ctx context.Context, name string) (*registry.Organization, error) {
	if org := c.cachedOrg(ctx, orgNameKey(name)); org != nil {
		c.metrics.ObserveCacheLookup(orgCacheName, true)
		return org, nil
	}
	c.metrics.ObserveCacheLookup(orgCacheName, false)

	org, err := c.next.GetByName(ctx, name)
	if err != nil {
		return nil, err
	}
	c.cacheOrg(ctx, org)
	return org, nil
}

// AddMember writes through and updates both cache tiers.
func (c *Orgs) AddMember(ctx context.Context, orgID, userID int64) (*registry.OrgMember, error) {
	member, err := c.next.AddMember(ctx, orgID, userID)
	if err != nil {
		return nil, err
	}

	c.l1.Add(memberKey(orgID, userID), true)
	c.redis.Set(ctx, memberKey(orgID, userID), "1", membershipTTL)
	return member, nil
}

// IsMember checks L1, then Redis, then the backing store. Only positive and
// negative answers from the store are cached; cache errors fall through
// silently because the store remains authoritative.
func (c *Orgs) IsMember(ctx context.Context, userID, orgID int64) (bool, error) {
	key := memberKey(orgID, userID)

	if isMember, ok := c.l1.Get(key); ok {
		c.metrics.ObserveCacheLookup(membershipCacheName, true)
		return isMember, nil
	}

	if val, err := c.redis.Get(ctx, key).Result(); err == nil {
		isMember := val == "1"
		c.l1.Add(key, isMember)
		c.metrics.ObserveCacheLookup(membershipCacheName, true)
		return isMember, nil
	}
	c.metrics.ObserveCacheLookup(membershipCacheName, false)

	isMember, err := c.next.IsMember(ctx, userID, orgID)
	if err != nil {
		return false, err
	}

	c.l1.Add(key, isMember)
	val := "0"
	if isMember {
		val = "1"
	}
	c.redis.Set(ctx, key, val, membershipTTL)
	return isMember, nil
}

func (c *Orgs) cachedOrg(ctx context.Context, key string) *registry.Organization {
	data, err := c.redis.Get(ctx, key).Result()
	if err != nil {
		return nil
	}

	var org registry.Organization
	if err := json.Unmarshal([]byte(data), &org); err != nil {
		// Corrupt entry, drop it
		c.redis.Del(ctx, key)
		return nil
	}
	return &org
}

func (c *Orgs) cacheOrg(ctx context.Context, org *registry.Organization) {
	data, err := json.Marshal(org)
	if err != nil {
		return
	}
	c.redis.Set(ctx, orgIDKey(org.ID), data, orgTTL)
	c.redis.Set(ctx, orgNameKey(org.Name), data, orgTTL)
}
