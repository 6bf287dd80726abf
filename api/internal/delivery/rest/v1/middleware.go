package v1

import (
	"time"

	"tronwatch/api/internal/infra/cache"
)

const DEFAULT_LIMIT = 150
const EXPIRATION_SECONDS = 30

// returns true if rate limit is exceeded. counters live in a ttl cache
// keyed by client ip, reset every expiration window
func rateLimited(clientIP string, limit int) bool {
	var expiration = time.Second * time.Duration(EXPIRATION_SECONDS)

	count := cache.CreateRateLimitsCache.LoadOrSet(clientIP, 1, expiration)
	if count == nil {
		return true
	}

	countInt, ok := count.(int)
	if !ok {
		return true
	}

	if countInt > limit {
		return true
	}

	cache.CreateRateLimitsCache.Set(clientIP, countInt+1, expiration)
	return false
}
