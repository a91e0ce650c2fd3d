// Package cache Redis 路径缓存
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"campus-map/logger"
	"campus-map/metrics"
	"campus-map/model"

	"github.com/redis/go-redis/v9"
)

// RouteCache 以地图版本号为键的一部分缓存寻路结果
// 地图每次修改后版本号变化，旧结果自然失效，无需主动清理。
// nil 的 *RouteCache 可以安全使用，所有操作都视为未命中。
type RouteCache struct {
	rc  *redis.Client
	ttl time.Duration
}

// CachedRoute 缓存中的寻路结果
type CachedRoute struct {
	Found    bool       `json:"found"`
	NodeIDs  []model.ID `json:"node_ids,omitempty"`
	EdgeIDs  []model.ID `json:"edge_ids,omitempty"` // 与相邻节点对一一对应
	Distance float64    `json:"distance"`
	Cost     float64    `json:"cost"`
}

// OpenRedis 使用地址、密码和库号打开 Redis 客户端，未配置地址时返回 nil
func OpenRedis(addr, pass string, db int) *redis.Client {
	if addr == "" {
		return nil
	}
	logger.L().Debug("redis_open", "addr", addr, "db", db)
	return redis.NewClient(&redis.Options{Addr: addr, Password: pass, DB: db})
}

// NewRouteCache 创建缓存，rc 为 nil 时返回 nil (不启用缓存)
func NewRouteCache(rc *redis.Client, ttl time.Duration) *RouteCache {
	if rc == nil {
		return nil
	}
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &RouteCache{rc: rc, ttl: ttl}
}

// RouteKey 缓存键
// Redis 中的键会比进程活得久，epoch 保证重启或其他副本不会读到旧图上的路径。
func RouteKey(epoch string, revision uint64, start, end model.ID, profile string) string {
	return fmt.Sprintf("route:%s:%d:%d:%d:%s", epoch, revision, start, end, profile)
}

// Get 读取缓存；Redis 故障按未命中处理，保证寻路可用
func (c *RouteCache) Get(ctx context.Context, key string) (CachedRoute, bool) {
	var out CachedRoute
	if c == nil {
		return out, false
	}
	s, err := c.rc.Get(ctx, key).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			logger.L().Warn("route_cache_get_failed", "key", key, "err", err)
		}
		metrics.RouteCacheMissesTotal.Inc()
		return out, false
	}
	if err := json.Unmarshal([]byte(s), &out); err != nil {
		logger.L().Warn("route_cache_decode_failed", "key", key, "err", err)
		metrics.RouteCacheMissesTotal.Inc()
		return out, false
	}
	metrics.RouteCacheHitsTotal.Inc()
	return out, true
}

// Set 写入缓存，失败只记日志
func (c *RouteCache) Set(ctx context.Context, key string, route CachedRoute) {
	if c == nil {
		return
	}
	b, err := json.Marshal(route)
	if err != nil {
		return
	}
	if err := c.rc.Set(ctx, key, string(b), c.ttl).Err(); err != nil {
		logger.L().Warn("route_cache_set_failed", "key", key, "err", err)
	}
}

// Close 关闭客户端
func (c *RouteCache) Close() error {
	if c == nil {
		return nil
	}
	return c.rc.Close()
}
