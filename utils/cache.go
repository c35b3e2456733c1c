package utils

import (
	"context"
	"time"
)

const defaultCacheTTL = time.Hour

// CacheGetString returns a cached string value from Redis.
func CacheGetString(key string) (string, bool) {
	rc := GetRedis()
	if rc == nil {
		return "", false
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	s, err := rc.Get(ctx, key).Result()
	if err != nil {
		if Sugar != nil {
			Sugar.Debugf("cache get miss key=%s err=%v", key, err)
		}
		return "", false
	}
	return s, true
}

// CacheSetString stores a string value with the given TTL.
func CacheSetString(key, value string, ttl time.Duration) {
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	rc := GetRedis()
	if rc == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := rc.Set(ctx, key, value, ttl).Err(); err != nil && Sugar != nil {
		Sugar.Debugf("cache set failed key=%s err=%v", key, err)
	}
}

// CacheDelete removes keys, best-effort.
func CacheDelete(keys ...string) {
	rc := GetRedis()
	if rc == nil || len(keys) == 0 {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_ = rc.Del(ctx, keys...).Err()
}
