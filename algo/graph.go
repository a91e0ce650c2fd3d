package algo

import (
	"campus-map/model"
	"campus-map/utils"

	"github.com/paulmach/orb"
)

// Neighbor 邻接关系：经由 Edge 到达 NodeID
type Neighbor struct {
	NodeID model.ID
	Edge   *model.Edge
}

// GetNeighbors 获取节点的全部邻居 (按关联顺序，平行边各算一次)
func (m *Map) GetNeighbors(nodeID model.ID) []Neighbor {
	var out []Neighbor
	for _, e := range m.IncidentEdges(nodeID) {
		if other, ok := e.Other(nodeID); ok {
			out = append(out, Neighbor{NodeID: other, Edge: e})
		}
	}
	return out
}

// NodeAdjacentToAutoDoor 判断节点是否连着一扇自动门
func (m *Map) NodeAdjacentToAutoDoor(nodeID model.ID) bool {
	for _, e := range m.IncidentEdges(nodeID) {
		if e.Type == model.EdgeAutoDoor {
			return true
		}
	}
	return false
}

// FindNearestNode 找到离给定坐标最近的节点，地图为空时返回 nil
// selectableOnly 为 true 时只考虑可选中的节点
func (m *Map) FindNearestNode(c model.Coordinate, selectableOnly bool) *model.Node {
	var nearest *model.Node
	minDist := -1.0

	for _, node := range m.nodes {
		if selectableOnly && !node.Selectable {
			continue
		}
		dist := utils.HaversineDistance(c, node.Coord)
		if minDist < 0 || dist < minDist {
			minDist = dist
			nearest = node
		}
	}

	return nearest
}

// BoundingRect 所有节点的包围盒，没有节点时返回 false
func (m *Map) BoundingRect() (model.Rect, bool) {
	if len(m.nodes) == 0 {
		return model.Rect{}, false
	}
	points := make(orb.MultiPoint, 0, len(m.nodes))
	for _, n := range m.nodes {
		points = append(points, n.Coord.Point())
	}
	return model.RectFromBound(points.Bound()), true
}

// PolygonsAt 返回包含该坐标的所有多边形 (按插入顺序)
func (m *Map) PolygonsAt(c model.Coordinate) []*model.MPO {
	var out []*model.MPO
	for _, p := range m.mpos {
		if p.Contains(c) {
			out = append(out, p)
		}
	}
	return out
}

// NodesInBuilding 返回属于该建筑的所有节点
func (m *Map) NodesInBuilding(buildingID model.ID) []*model.Node {
	var out []*model.Node
	for _, n := range m.nodes {
		if n.BuildingID == buildingID && buildingID != model.NoID {
			out = append(out, n)
		}
	}
	return out
}
