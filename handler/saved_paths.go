package handler

import (
	"fmt"
	"net/http"

	"campus-map/algo"
	"campus-map/model"

	"github.com/gin-gonic/gin"
)

// SavedPathView 已保存路径
type SavedPathView struct {
	Index   int        `json:"index"`
	Name    string     `json:"name,omitempty"`
	NodeIDs []model.ID `json:"node_ids"`
}

// GetSavedPaths 获取全部已保存路径
func GetSavedPaths(c *gin.Context) {
	var out []SavedPathView
	err := view(func(_ *algo.Map, paths *model.SavedPaths) error {
		out = make([]SavedPathView, 0, paths.Len())
		for i, p := range paths.Paths() {
			out = append(out, SavedPathView{Index: i, Name: p.Name, NodeIDs: p.NodeIDs})
		}
		return nil
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(out), "paths": out})
}

// SearchSavedPaths 按名称模糊搜索已保存路径
func SearchSavedPaths(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "缺少搜索关键词"})
		return
	}
	type result struct {
		SavedPathView
		Score float64 `json:"score"`
	}
	results := make([]result, 0)
	err := view(func(_ *algo.Map, paths *model.SavedPaths) error {
		all := paths.Paths()
		for _, match := range algo.FilterSavedPaths(paths, query, queryLimit(c, 10)) {
			idx := -1
			for i, p := range all {
				if p == match.Item {
					idx = i
					break
				}
			}
			results = append(results, result{
				SavedPathView: SavedPathView{Index: idx, Name: match.Item.Name, NodeIDs: match.Item.NodeIDs},
				Score:         match.Score,
			})
		}
		return nil
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"query": query, "count": len(results), "results": results})
}

// SavePathRequest 保存路径请求
type SavePathRequest struct {
	Name    string     `json:"name"`
	NodeIDs []model.ID `json:"node_ids" binding:"required,min=1"`
}

// SavePath 保存一条路径，路径上的节点必须都存在
func SavePath(c *gin.Context) {
	var req SavePathRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "请求参数错误: " + err.Error()})
		return
	}
	var out SavedPathView
	err := mutate("save_path", func(m *algo.Map, paths *model.SavedPaths) error {
		for _, id := range req.NodeIDs {
			if _, ok := m.Node(id); !ok {
				return fmt.Errorf("节点 %d: %w", id, model.ErrObjectNotFound)
			}
		}
		p := model.NewPath(req.Name, req.NodeIDs...)
		if err := paths.Add(p); err != nil {
			return err
		}
		out = SavedPathView{Index: paths.Len() - 1, Name: p.Name, NodeIDs: p.NodeIDs}
		return nil
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, out)
}
