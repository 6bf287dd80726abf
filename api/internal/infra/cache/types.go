package cache

import "sync"

type Cache struct {
	Storage sync.Map
}

// cache
var (
	CreateRateLimitsCache = InitStorage()
)
