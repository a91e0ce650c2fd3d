// Package handler 校园地图 HTTP 接口
package handler

import (
	"errors"
	"net/http"
	"strconv"
	"sync"

	"campus-map/algo"
	"campus-map/cache"
	"campus-map/logger"
	"campus-map/metrics"
	"campus-map/model"

	"github.com/gin-gonic/gin"
)

// 全局对象 (应在 main 中初始化)
var (
	Shared *algo.SharedMap    // 地图与已保存路径
	Routes *cache.RouteCache  // 路径缓存，nil 表示不启用
	Users  UserStore          = NewMemoryUserStore()
	// Persist 每次成功修改后调用 (在读锁下)，用于写回数据库或快照文件；nil 表示不持久化
	Persist func(m *algo.Map, paths *model.SavedPaths) error
)

// persistMu 保证同一时刻只有一次 Persist，读锁允许多个请求同时进入
var persistMu sync.Mutex

// errMapNotLoaded 地图尚未初始化
var errMapNotLoaded = errors.New("地图数据未加载")

// statusOf 把错误映射为 HTTP 状态码
func statusOf(err error) int {
	switch model.FaultOf(err).First() {
	case model.FaultInvalidParameter:
		return http.StatusBadRequest
	case model.FaultDuplicateParameter:
		return http.StatusConflict
	case model.FaultOutOfBoundsIndex, model.FaultObjectNotFound:
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

// respondError 输出错误；非领域错误记录日志
func respondError(c *gin.Context, err error) {
	status := statusOf(err)
	if status == http.StatusInternalServerError {
		logger.L().Error("request_failed", "path", c.FullPath(), "request_id", c.GetString(requestIDKey), "err", err)
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

// view 在读锁下访问地图
func view(fn func(m *algo.Map, paths *model.SavedPaths) error) error {
	if Shared == nil {
		return errMapNotLoaded
	}
	return Shared.View(fn)
}

// mutate 在写锁下修改地图，成功后更新指标并持久化
func mutate(kind string, fn func(m *algo.Map, paths *model.SavedPaths) error) error {
	if Shared == nil {
		return errMapNotLoaded
	}
	if err := Shared.Update(fn); err != nil {
		return err
	}
	metrics.MapMutationsTotal.WithLabelValues(kind).Inc()

	// 内存中的修改已经生效，持久化失败只记录日志
	if err := PersistNow(); err != nil {
		logger.L().Error("map_persist_failed", "kind", kind, "err", err)
	}
	return nil
}

// PersistNow 在读锁下刷新指标并调用 Persist，多次调用依次执行
func PersistNow() error {
	if Shared == nil {
		return errMapNotLoaded
	}
	persistMu.Lock()
	defer persistMu.Unlock()
	return Shared.View(func(m *algo.Map, paths *model.SavedPaths) error {
		metrics.SetEntityCounts(m.NNodes(), m.NEdges(), m.NBuildings(), m.NMPOs())
		if Persist == nil {
			return nil
		}
		return Persist(m, paths)
	})
}

// paramID 解析路径参数中的 ID
func paramID(c *gin.Context, name string) (model.ID, bool) {
	v, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || v == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "无效的 ID: " + c.Param(name)})
		return model.NoID, false
	}
	return model.ID(v), true
}

// queryLimit 解析 limit 参数，缺省为 def
func queryLimit(c *gin.Context, def int) int {
	if v, err := strconv.Atoi(c.Query("limit")); err == nil && v > 0 {
		return v
	}
	return def
}
