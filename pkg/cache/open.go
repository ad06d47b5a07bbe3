package cache

import (
	"fmt"
	"strings"
	"time"
)

// Backend names accepted by Open.
const (
	BackendFile   = "file"
	BackendMemory = "memory"
	BackendNone   = "none"
)

// Open builds a cache from a backend spec:
//
//	file            file cache in defaultDir
//	file:/some/dir  file cache in /some/dir
//	memory          in-process LRU expiring after ttl
//	none            caching disabled
//	redis://...     Redis at the given URL
func Open(spec, defaultDir string, ttl time.Duration) (Cache, error) {
	switch {
	case spec == "" || spec == BackendFile:
		return NewFileCache(defaultDir)
	case strings.HasPrefix(spec, BackendFile+":"):
		return NewFileCache(strings.TrimPrefix(spec, BackendFile+":"))
	case spec == BackendMemory:
		return NewMemoryCache(DefaultMemoryEntries, ttl), nil
	case spec == BackendNone:
		return NewNullCache(), nil
	case strings.HasPrefix(spec, "redis://"), strings.HasPrefix(spec, "rediss://"):
		return NewRedisCache(spec)
	default:
		return nil, fmt.Errorf("unknown cache backend %q (want file, memory, none or redis://...)", spec)
	}
}
