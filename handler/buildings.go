package handler

import (
	"fmt"
	"net/http"

	"campus-map/algo"
	"campus-map/model"

	"github.com/gin-gonic/gin"
)

// BuildingView 建筑信息
type BuildingView struct {
	ID          model.ID   `json:"id"`
	Name        string     `json:"name"`
	Aliases     []string   `json:"aliases"` // 含主名称
	Floors      int        `json:"floors"`
	BoundingBox model.Rect `json:"bounding_box"`
	Nodes       []model.ID `json:"nodes"` // 属于该建筑的节点
}

func buildingView(m *algo.Map, b *model.Building) BuildingView {
	v := BuildingView{
		ID:          b.ID,
		Name:        b.PrimaryName(),
		Aliases:     b.Aliases(),
		Floors:      b.Floors,
		BoundingBox: b.BoundingBox,
		Nodes:       []model.ID{},
	}
	for _, n := range m.NodesInBuilding(b.ID) {
		v.Nodes = append(v.Nodes, n.ID)
	}
	return v
}

// GetBuildings 获取所有建筑
func GetBuildings(c *gin.Context) {
	var out []BuildingView
	err := view(func(m *algo.Map, _ *model.SavedPaths) error {
		out = make([]BuildingView, 0, m.NBuildings())
		for _, b := range m.Buildings() {
			out = append(out, buildingView(m, b))
		}
		return nil
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(out), "buildings": out})
}

// SearchBuildings 按名称和别名模糊搜索建筑
func SearchBuildings(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "缺少搜索关键词"})
		return
	}
	type result struct {
		BuildingView
		Score float64 `json:"score"`
	}
	results := make([]result, 0)
	err := view(func(m *algo.Map, _ *model.SavedPaths) error {
		for _, match := range m.FilterBuildings(query, queryLimit(c, 10)) {
			results = append(results, result{BuildingView: buildingView(m, match.Item), Score: match.Score})
		}
		return nil
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"query": query, "count": len(results), "results": results})
}

// CreateBuildingRequest 新建建筑请求
type CreateBuildingRequest struct {
	Name        string     `json:"name" binding:"required"`
	Aliases     []string   `json:"aliases"`
	Floors      int        `json:"floors"`
	BoundingBox model.Rect `json:"bounding_box"`
}

// CreateBuilding 新建建筑
func CreateBuilding(c *gin.Context) {
	var req CreateBuildingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "请求参数错误: " + err.Error()})
		return
	}
	b, err := model.NewBuilding(req.Name, req.BoundingBox, req.Floors)
	if err != nil {
		respondError(c, err)
		return
	}
	for _, alias := range req.Aliases {
		if err := b.AddAlias(alias); err != nil {
			respondError(c, err)
			return
		}
	}

	var out BuildingView
	err = mutate("add_building", func(m *algo.Map, _ *model.SavedPaths) error {
		if err := m.AddBuilding(b); err != nil {
			return err
		}
		out = buildingView(m, b)
		return nil
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, out)
}

// DeleteBuilding 删除建筑，节点对它的引用随之清除
func DeleteBuilding(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	err := mutate("remove_building", func(m *algo.Map, _ *model.SavedPaths) error {
		return m.RemoveBuildingByID(id)
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "删除成功", "id": id})
}

// editBuilding 在写锁下修改一个建筑并返回修改后的信息
func editBuilding(c *gin.Context, kind string, fn func(b *model.Building) error) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var out BuildingView
	err := mutate(kind, func(m *algo.Map, _ *model.SavedPaths) error {
		b, ok := m.Building(id)
		if !ok {
			return fmt.Errorf("建筑 %d: %w", id, model.ErrObjectNotFound)
		}
		if err := fn(b); err != nil {
			return err
		}
		out = buildingView(m, b)
		return nil
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

type nameRequest struct {
	Name string `json:"name" binding:"required"`
}

// AddBuildingAlias 追加别名
func AddBuildingAlias(c *gin.Context) {
	var req nameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "请求参数错误: " + err.Error()})
		return
	}
	editBuilding(c, "add_alias", func(b *model.Building) error { return b.AddAlias(req.Name) })
}

// RemoveBuildingAlias 删除别名；删除主名称时第一个别名成为主名称
func RemoveBuildingAlias(c *gin.Context) {
	alias := c.Param("alias")
	editBuilding(c, "remove_alias", func(b *model.Building) error { return b.RemoveAlias(alias) })
}

// ChangeBuildingPrimary 把已有别名设为主名称
func ChangeBuildingPrimary(c *gin.Context) {
	var req nameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "请求参数错误: " + err.Error()})
		return
	}
	editBuilding(c, "change_primary", func(b *model.Building) error { return b.ChangePrimary(req.Name) })
}
