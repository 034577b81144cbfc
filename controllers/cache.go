package controllers

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"log"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	propertyCachePrefix = "properties:"
	roomCachePrefix     = "rooms:"
	listCacheTTL        = 10 * time.Minute
)

func listCacheKey(prefix string, queryParams url.Values) string {
	keys := make([]string, 0, len(queryParams))
	for k := range queryParams {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sb strings.Builder
	for _, key := range keys {
		values := queryParams[key]
		sort.Strings(values)
		for _, val := range values {
			sb.WriteString(key)
			sb.WriteString("=")
			sb.WriteString(val)
			sb.WriteString("&")
		}
	}
	rawKey := strings.TrimSuffix(sb.String(), "&")

	sum := sha256.Sum256([]byte(rawKey))
	return prefix + hex.EncodeToString(sum[:])
}

func cacheGet(ctx context.Context, redisClient *redis.Client, key string) ([]byte, bool) {
	if redisClient == nil {
		return nil, false
	}
	cached, err := redisClient.Get(ctx, key).Result()
	if err == nil {
		return []byte(cached), true
	}
	if err != redis.Nil {
		log.Printf("Redis GET error for key %s: %v", key, err)
	}
	return nil, false
}

func cacheSet(ctx context.Context, redisClient *redis.Client, key string, value []byte) {
	if redisClient == nil {
		return
	}
	if err := redisClient.Set(ctx, key, value, listCacheTTL).Err(); err != nil {
		log.Printf("Failed to cache response for key %s: %v", key, err)
	}
}

// invalidateListCaches removes every cached list response under the given
// prefixes. Mutating handlers call it in the background after a write, the
// same way property mutations flush the listing cache.
func invalidateListCaches(redisClient *redis.Client, prefixes ...string) {
	if redisClient == nil {
		return
	}

	ctx := context.Background()
	const scanCount = 100

	for _, prefix := range prefixes {
		pattern := prefix + "*"

		var keysToDelete []string
		var cursor uint64
		var err error

		for {
			var currentKeys []string
			currentKeys, cursor, err = redisClient.Scan(ctx, cursor, pattern, scanCount).Result()
			if err != nil {
				log.Printf("Error during Redis SCAN for pattern '%s': %v", pattern, err)
				return
			}
			keysToDelete = append(keysToDelete, currentKeys...)
			if cursor == 0 {
				break
			}
		}

		if len(keysToDelete) == 0 {
			continue
		}

		pipe := redisClient.Pipeline()
		for _, key := range keysToDelete {
			pipe.Del(ctx, key)
		}
		if _, execErr := pipe.Exec(ctx); execErr != nil {
			log.Printf("Error deleting %d cache keys matching '%s': %v", len(keysToDelete), pattern, execErr)
		} else {
			log.Printf("Cache invalidated: deleted %d keys matching '%s'", len(keysToDelete), pattern)
		}
	}
}
