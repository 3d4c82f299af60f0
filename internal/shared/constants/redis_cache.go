package constants

import "time"

// Redis key catalog. Every key this service writes is listed here.
// Pattern: queuely:{module}:{identifier}:{view}

const CachePrefix = "queuely"

// Default queue view TTLs; REDIS_STATUS_TTL / REDIS_WAIT_TIME_TTL override
// them. Both views are invalidated by every mutation, so the TTL only bounds
// staleness between an external write and the invalidation reaching Redis.
const (
	TTLQueueStatus = 5 * time.Second
	TTLWaitTime    = 30 * time.Second
)

const cacheKeyQueue = CachePrefix + ":queue:" // + clinic-id + :view

// RateLimitPrefix namespaces the sliding-window sorted sets.
// Full key: queuely:ratelimit:{ip}:{class}
const RateLimitPrefix = CachePrefix + ":ratelimit"

func BuildQueueStatusKey(clinicID string) string {
	return cacheKeyQueue + clinicID + ":status"
}

func BuildWaitTimeKey(clinicID string) string {
	return cacheKeyQueue + clinicID + ":wait-time"
}

// BuildQueueInvalidationPattern matches every cached view of one clinic's
// queue.
func BuildQueueInvalidationPattern(clinicID string) string {
	return cacheKeyQueue + clinicID + ":*"
}
