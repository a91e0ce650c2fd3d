package handler

import (
	"fmt"
	"net/http"

	"campus-map/algo"
	"campus-map/model"

	"github.com/gin-gonic/gin"
)

// NodeView 节点信息
type NodeView struct {
	ID         model.ID `json:"id"`
	Name       string   `json:"name,omitempty"`
	Lat        float64  `json:"lat"`
	Lng        float64  `json:"lng"`
	Floor      *int8    `json:"floor,omitempty"`
	Picture    string   `json:"picture,omitempty"`
	Selectable bool     `json:"selectable"`
	BuildingID model.ID `json:"building_id,omitempty"`
	Degree     int      `json:"degree"`
	AutoDoor   bool     `json:"auto_door"` // 是否连着自动门
}

func nodeView(m *algo.Map, n *model.Node) NodeView {
	v := NodeView{
		ID:         n.ID,
		Name:       n.Name,
		Lat:        n.Coord.Lat,
		Lng:        n.Coord.Lon,
		Picture:    n.Picture,
		Selectable: n.Selectable,
		BuildingID: n.BuildingID,
		Degree:     n.Degree(),
		AutoDoor:   m.NodeAdjacentToAutoDoor(n.ID),
	}
	if n.HasFloor() {
		floor := n.Floor
		v.Floor = &floor
	}
	return v
}

// GetNodes 获取所有节点信息
func GetNodes(c *gin.Context) {
	var nodes []NodeView
	err := view(func(m *algo.Map, _ *model.SavedPaths) error {
		nodes = make([]NodeView, 0, m.NNodes())
		for _, n := range m.Nodes() {
			nodes = append(nodes, nodeView(m, n))
		}
		return nil
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"count": len(nodes),
		"nodes": nodes,
	})
}

// GetNodeByID 根据 ID 获取节点信息
func GetNodeByID(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var out NodeView
	err := view(func(m *algo.Map, _ *model.SavedPaths) error {
		n, ok := m.Node(id)
		if !ok {
			return fmt.Errorf("节点 %d: %w", id, model.ErrObjectNotFound)
		}
		out = nodeView(m, n)
		return nil
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// SearchNodes 按名称模糊搜索节点
func SearchNodes(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "缺少搜索关键词"})
		return
	}
	type result struct {
		NodeView
		Score float64 `json:"score"`
	}
	results := make([]result, 0)
	err := view(func(m *algo.Map, _ *model.SavedPaths) error {
		for _, match := range m.FilterLocations(query, queryLimit(c, 10)) {
			results = append(results, result{NodeView: nodeView(m, match.Item), Score: match.Score})
		}
		return nil
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"query":   query,
		"count":   len(results),
		"results": results,
	})
}

// CreateNodeRequest 新建节点请求
type CreateNodeRequest struct {
	Lat        float64  `json:"lat"`
	Lng        float64  `json:"lng"`
	Name       string   `json:"name"`
	Picture    string   `json:"picture"`
	Floor      *int8    `json:"floor"`
	Selectable bool     `json:"selectable"`
	BuildingID model.ID `json:"building_id"`
}

// CreateNode 新建节点
func CreateNode(c *gin.Context) {
	var req CreateNodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "请求参数错误: " + err.Error()})
		return
	}
	if !model.ValidText(req.Name, req.Picture) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "名称和图片路径不能包含 NUL 字符"})
		return
	}
	n := model.NewNode(model.NewCoordinate(req.Lng, req.Lat))
	n.SetName(req.Name)
	n.SetPicture(req.Picture)
	n.SetSelectable(req.Selectable)
	if req.Floor != nil {
		n.SetFloor(*req.Floor)
	}
	n.BuildingID = req.BuildingID

	var out NodeView
	err := mutate("add_node", func(m *algo.Map, _ *model.SavedPaths) error {
		if err := m.AddNode(n); err != nil {
			return err
		}
		out = nodeView(m, n)
		return nil
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, out)
}

// DeleteNode 删除节点及其关联的边
func DeleteNode(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	err := mutate("remove_node", func(m *algo.Map, _ *model.SavedPaths) error {
		return m.RemoveNodeByID(id)
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "删除成功", "id": id})
}

// EdgeRequest 连接/断开请求
type EdgeRequest struct {
	A    model.ID `json:"a" form:"a" binding:"required"`
	B    model.ID `json:"b" form:"b" binding:"required"`
	Type string   `json:"type" form:"type"`
}

// EdgeView 边信息
type EdgeView struct {
	ID     model.ID `json:"id"`
	A      model.ID `json:"a"`
	B      model.ID `json:"b"`
	Type   string   `json:"type"`
	Length float64  `json:"length"`
}

// checkEndpoints 连接操作对缺失/相同的端点是静默的，这里先给出明确的错误
func checkEndpoints(m *algo.Map, a, b model.ID) error {
	if a == b {
		return fmt.Errorf("两端是同一个节点: %w", model.ErrInvalidParameter)
	}
	for _, id := range []model.ID{a, b} {
		if _, ok := m.Node(id); !ok {
			return fmt.Errorf("节点 %d: %w", id, model.ErrObjectNotFound)
		}
	}
	return nil
}

// ConnectNodes 连接两个节点；已经相连时新增一条平行边
func ConnectNodes(c *gin.Context) {
	var req EdgeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "请求参数错误: " + err.Error()})
		return
	}
	edgeType, ok := model.ParseEdgeType(req.Type)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "未知的边类型: " + req.Type})
		return
	}

	var out EdgeView
	err := mutate("connect", func(m *algo.Map, _ *model.SavedPaths) error {
		if err := checkEndpoints(m, req.A, req.B); err != nil {
			return err
		}
		e := m.ConnectByIDs(req.A, req.B, edgeType)
		out = EdgeView{ID: e.ID, A: e.A, B: e.B, Type: e.Type.String(), Length: e.Length}
		return nil
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, out)
}

// DisconnectNodes 断开两个节点 (删除它们之间的第一条边)
func DisconnectNodes(c *gin.Context) {
	var req EdgeRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "请求参数错误: " + err.Error()})
		return
	}
	err := mutate("disconnect", func(m *algo.Map, _ *model.SavedPaths) error {
		if err := checkEndpoints(m, req.A, req.B); err != nil {
			return err
		}
		if !m.DisconnectByIDs(req.A, req.B) {
			return fmt.Errorf("节点 %d 和 %d 之间没有边: %w", req.A, req.B, model.ErrObjectNotFound)
		}
		return nil
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "断开成功"})
}

// SetEdgeType 修改两个节点之间第一条边的类型
func SetEdgeType(c *gin.Context) {
	var req EdgeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "请求参数错误: " + err.Error()})
		return
	}
	edgeType, ok := model.ParseEdgeType(req.Type)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "未知的边类型: " + req.Type})
		return
	}
	err := mutate("set_edge_type", func(m *algo.Map, _ *model.SavedPaths) error {
		if err := checkEndpoints(m, req.A, req.B); err != nil {
			return err
		}
		if !m.SetConnectionTypeByIDs(req.A, req.B, edgeType) {
			return fmt.Errorf("节点 %d 和 %d 之间没有边: %w", req.A, req.B, model.ErrObjectNotFound)
		}
		return nil
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "修改成功", "type": edgeType.String()})
}
