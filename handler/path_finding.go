package handler

import (
	"fmt"
	"net/http"
	"time"

	"campus-map/algo"
	"campus-map/cache"
	"campus-map/logger"
	"campus-map/metrics"
	"campus-map/model"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/singleflight"
)

// 相同版本、相同起终点、相同出行方式的并发请求只计算一次
var routeGroup singleflight.Group

// PathRequest 路径规划请求
// 起点/终点可以用 ID、名称 (模糊匹配) 或坐标 (最近的节点) 指定，坐标优先
type PathRequest struct {
	StartID   model.ID `json:"start_id"`
	StartName string   `json:"start_name"`
	StartLat  float64  `json:"start_lat,omitempty"`
	StartLng  float64  `json:"start_lng,omitempty"`
	EndID     model.ID `json:"end_id"`
	EndName   string   `json:"end_name"`
	EndLat    float64  `json:"end_lat,omitempty"`
	EndLng    float64  `json:"end_lng,omitempty"`
	Profile   string   `json:"profile"` // wheelchair / walker / deliverer / driver，默认 walker
}

// PathResponse 路径规划响应
type PathResponse struct {
	Found    bool          `json:"found"`
	Profile  string        `json:"profile"`
	Path     []PathNode    `json:"path,omitempty"`
	Segments []PathSegment `json:"segments,omitempty"`
	Distance float64       `json:"distance,omitempty"` // 总距离 (米)
	Cost     float64       `json:"cost,omitempty"`
	Cached   bool          `json:"cached"`
	Message  string        `json:"message,omitempty"`
}

// PathNode 路径节点信息
type PathNode struct {
	ID   model.ID `json:"id"`
	Name string   `json:"name,omitempty"`
	Lat  float64  `json:"lat"`
	Lng  float64  `json:"lng"`
}

// PathSegment 路径段信息
type PathSegment struct {
	FromID   model.ID `json:"from_id"`
	FromName string   `json:"from_name,omitempty"`
	ToID     model.ID `json:"to_id"`
	ToName   string   `json:"to_name,omitempty"`
	Type     string   `json:"type"`
	Distance float64  `json:"distance"`
}

// resolveEndpoint 把请求中的一端解析为节点 ID
func resolveEndpoint(m *algo.Map, id model.ID, name string, lat, lng float64, which string) (model.ID, error) {
	if lat != 0 && lng != 0 {
		if n := m.FindNearestNode(model.NewCoordinate(lng, lat), false); n != nil {
			return n.ID, nil
		}
	}
	if id != model.NoID {
		if _, ok := m.Node(id); !ok {
			return model.NoID, fmt.Errorf("%s %d: %w", which, id, model.ErrObjectNotFound)
		}
		return id, nil
	}
	if name != "" {
		if n, ok := m.NodeByName(name); ok {
			return n.ID, nil
		}
		if best := m.FilterLocations(name, 1); len(best) > 0 {
			return best[0].Item.ID, nil
		}
		return model.NoID, fmt.Errorf("%s %q: %w", which, name, model.ErrObjectNotFound)
	}
	return model.NoID, fmt.Errorf("%s未指定: %w", which, model.ErrInvalidParameter)
}

// FindPath 路径规划接口
func FindPath(c *gin.Context) {
	var req PathRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "请求参数错误: " + err.Error()})
		return
	}
	profile, ok := algo.ProfileByName(req.Profile)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "未知的出行方式: " + req.Profile})
		return
	}

	var startID, endID model.ID
	var epoch string
	var revision uint64
	err := view(func(m *algo.Map, _ *model.SavedPaths) error {
		epoch, revision = Shared.Epoch(), Shared.Revision()
		var err error
		if startID, err = resolveEndpoint(m, req.StartID, req.StartName, req.StartLat, req.StartLng, "起点"); err != nil {
			return err
		}
		endID, err = resolveEndpoint(m, req.EndID, req.EndName, req.EndLat, req.EndLng, "终点")
		return err
	})
	if err != nil {
		respondError(c, err)
		return
	}

	ctx := c.Request.Context()
	key := cache.RouteKey(epoch, revision, startID, endID, profile.Name)
	route, cached := Routes.Get(ctx, key)
	if !cached {
		v, err, _ := routeGroup.Do(key, func() (any, error) {
			return computeRoute(startID, endID, profile)
		})
		if err != nil {
			respondError(c, err)
			return
		}
		route = v.(cache.CachedRoute)
		Routes.Set(ctx, key, route)
	}

	resp := PathResponse{Found: route.Found, Profile: profile.Name, Cached: cached}
	if !route.Found {
		resp.Message = "未找到符合条件的路径"
		c.JSON(http.StatusOK, resp)
		return
	}
	err = view(func(m *algo.Map, _ *model.SavedPaths) error {
		resp.Path, resp.Segments = describeRoute(m, route)
		return nil
	})
	if err != nil {
		respondError(c, err)
		return
	}
	resp.Distance = route.Distance
	resp.Cost = route.Cost
	resp.Message = "路径规划成功"
	c.JSON(http.StatusOK, resp)
}

// computeRoute 在读锁下执行 Dijkstra
func computeRoute(startID, endID model.ID, profile *algo.Profile) (cache.CachedRoute, error) {
	start := time.Now()
	var result algo.PathResult
	err := view(func(m *algo.Map, _ *model.SavedPaths) error {
		result = algo.FindPath(m, startID, endID, profile)
		return nil
	})
	if err != nil {
		return cache.CachedRoute{}, err
	}
	metrics.RouteSearchDurationMs.Observe(float64(time.Since(start).Microseconds()) / 1000)

	outcome := "not_found"
	route := cache.CachedRoute{Found: result.Found}
	if result.Found {
		outcome = "found"
		route.NodeIDs = result.Path.NodeIDs
		route.Distance = result.Distance
		route.Cost = result.Cost
		for _, seg := range result.Segments {
			route.EdgeIDs = append(route.EdgeIDs, seg.EdgeID)
		}
	}
	metrics.RouteSearchesTotal.WithLabelValues(profile.Name, outcome).Inc()
	logger.L().Debug("route_computed", "start", startID, "end", endID, "profile", profile.Name, "outcome", outcome)
	return route, nil
}

// describeRoute 补全路径上节点和边的信息
func describeRoute(m *algo.Map, route cache.CachedRoute) ([]PathNode, []PathSegment) {
	nodes := make([]PathNode, 0, len(route.NodeIDs))
	for _, id := range route.NodeIDs {
		if n, ok := m.Node(id); ok {
			nodes = append(nodes, PathNode{ID: n.ID, Name: n.Name, Lat: n.Coord.Lat, Lng: n.Coord.Lon})
		}
	}
	segments := make([]PathSegment, 0, len(route.EdgeIDs))
	for i, id := range route.EdgeIDs {
		e, ok := m.Edge(id)
		if !ok || i+1 >= len(nodes) {
			continue
		}
		from, to := nodes[i], nodes[i+1]
		segments = append(segments, PathSegment{
			FromID:   from.ID,
			FromName: from.Name,
			ToID:     to.ID,
			ToName:   to.Name,
			Type:     e.Type.String(),
			Distance: e.Length,
		})
	}
	return nodes, segments
}
