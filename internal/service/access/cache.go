package access

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

const cachePrefix = "feature_access:"

// Cache 求值结果的 Redis 缓存
// client 为 nil 时缓存退化为直通；缓存读写失败一律忽略。
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCache 创建求值缓存
func NewCache(client *redis.Client, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &Cache{client: client, ttl: ttl}
}

// Get 读取缓存的求值结果
func (c *Cache) Get(ctx context.Context, key string) (*FeatureAccess, bool) {
	if c == nil || c.client == nil {
		return nil, false
	}

	data, err := c.client.Get(ctx, cachePrefix+key).Bytes()
	if err != nil {
		return nil, false
	}

	var access FeatureAccess
	if err := json.Unmarshal(data, &access); err != nil {
		return nil, false
	}
	return &access, true
}

// Set 写入求值结果
func (c *Cache) Set(ctx context.Context, key string, access *FeatureAccess) {
	if c == nil || c.client == nil {
		return
	}

	data, err := json.Marshal(access)
	if err != nil {
		return
	}
	c.client.Set(ctx, cachePrefix+key, data, c.ttl)
}
