package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRouteKey(t *testing.T) {
	assert.Equal(t, "route:e1:3:10:42:wheelchair", RouteKey("e1", 3, 10, 42, "wheelchair"))
	assert.NotEqual(t, RouteKey("e1", 3, 10, 42, "walker"), RouteKey("e1", 4, 10, 42, "walker"))
	// 同样的版本号来自不同进程时不能共用缓存
	assert.NotEqual(t, RouteKey("e1", 0, 10, 42, "walker"), RouteKey("e2", 0, 10, 42, "walker"))
}

func TestDisabledCache(t *testing.T) {
	assert.Nil(t, OpenRedis("", "", 0))
	c := NewRouteCache(nil, time.Minute)
	assert.Nil(t, c)

	_, ok := c.Get(context.Background(), "route:1:1:2:walker")
	assert.False(t, ok)
	c.Set(context.Background(), "route:1:1:2:walker", CachedRoute{Found: true})
	assert.NoError(t, c.Close())
}

func TestUnreachableRedisIsAMiss(t *testing.T) {
	// 没有监听的端口，Get 失败按未命中处理
	rc := OpenRedis("127.0.0.1:1", "", 0)
	require.NotNil(t, rc)
	c := NewRouteCache(rc, 0)
	require.NotNil(t, c)
	assert.Equal(t, 10*time.Minute, c.ttl)
	defer c.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_, ok := c.Get(ctx, "route:1:1:2:walker")
	assert.False(t, ok)
	c.Set(ctx, "route:1:1:2:walker", CachedRoute{Found: true})
}
