package utils

import (
	"log"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

// cacheEntry 包装缓存数据和过期时间
type cacheEntry struct {
	Data      interface{}
	ExpiresAt time.Time
}

// GlobalCache 全局本地缓存，用于目录列表页和投票统计等热点查询
type GlobalCache struct {
	lruCache *lru.Cache[string, cacheEntry]
}

var (
	cacheInstance *GlobalCache
	cacheOnce     sync.Once
)

// GetCache 获取单例缓存实例
func GetCache() *GlobalCache {
	cacheOnce.Do(func() {
		// 容量 1000：目录分页 + 每个条目的统计各占一个键
		l, err := lru.New[string, cacheEntry](1000)
		if err != nil {
			log.Fatalf("Failed to create LRU cache: %v", err)
		}
		cacheInstance = &GlobalCache{lruCache: l}
	})
	return cacheInstance
}

// Set 设置缓存，TTL 为过期时间
func (c *GlobalCache) Set(key string, data interface{}, ttl time.Duration) {
	c.lruCache.Add(key, cacheEntry{
		Data:      data,
		ExpiresAt: time.Now().Add(ttl),
	})
}

// Get 获取缓存，若不存在或已过期则返回 nil
func (c *GlobalCache) Get(key string) interface{} {
	entry, ok := c.lruCache.Get(key)
	if !ok {
		return nil
	}
	if time.Now().After(entry.ExpiresAt) {
		c.lruCache.Remove(key)
		return nil
	}
	return entry.Data
}

// Delete 删除指定缓存
func (c *GlobalCache) Delete(key string) {
	c.lruCache.Remove(key)
}

// Purge 清空全部缓存（管理员批准新条目后调用，目录页立即可见）
func (c *GlobalCache) Purge() {
	c.lruCache.Purge()
}
