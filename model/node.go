package model

import "slices"

// FloorNone 楼层号哨兵值，表示节点不在任何楼层
const FloorNone int8 = -1

// Node 对应地图上的一个点 (入口、路口、教室等)
// Building 和 edges 都是弱引用：只保存 ID，真正的对象由 Map 持有。
type Node struct {
	ID         ID         `json:"id"`
	Coord      Coordinate `json:"coord"`                 // 修改坐标请用 Map.MoveNode，以便更新边长
	Name       string     `json:"name,omitempty"`        // 可选名称，空串表示没有
	Picture    string     `json:"picture,omitempty"`     // 可选图片路径
	Floor      int8       `json:"floor"`                 // FloorNone 表示无楼层
	Selectable bool       `json:"selectable"`            // 是否可以在地图上点选
	BuildingID ID         `json:"building_id,omitempty"` // 所属建筑，NoID 表示无

	edges []ID // 关联的边，由 Map 维护
}

// NewNode 创建节点，默认无名称、无楼层、不可选
func NewNode(coord Coordinate) *Node {
	return &Node{
		Coord: coord,
		Floor: FloorNone,
	}
}

// SetName 设置名称，空串等同于清除
func (n *Node) SetName(name string) { n.Name = name }

// ClearName 清除名称
func (n *Node) ClearName() { n.Name = "" }

// HasName 是否有名称
func (n *Node) HasName() bool { return n.Name != "" }

// SetPicture 设置图片路径
func (n *Node) SetPicture(path string) { n.Picture = path }

// ClearPicture 清除图片路径
func (n *Node) ClearPicture() { n.Picture = "" }

// SetFloor 设置楼层号
func (n *Node) SetFloor(floor int8) { n.Floor = floor }

// ClearFloor 清除楼层号
func (n *Node) ClearFloor() { n.Floor = FloorNone }

// HasFloor 是否设置了楼层
func (n *Node) HasFloor() bool { return n.Floor != FloorNone }

// SetSelectable 设置是否可选
func (n *Node) SetSelectable(selectable bool) { n.Selectable = selectable }

// EdgeIDs 返回关联边 ID 的副本
func (n *Node) EdgeIDs() []ID {
	return slices.Clone(n.edges)
}

// Degree 关联边数量
func (n *Node) Degree() int { return len(n.edges) }

// AttachEdge 记录一条关联边，只应由 Map 调用
func (n *Node) AttachEdge(id ID) {
	n.edges = append(n.edges, id)
}

// DetachEdge 删除第一条匹配的关联边，保持其余顺序，只应由 Map 调用
func (n *Node) DetachEdge(id ID) bool {
	i := slices.Index(n.edges, id)
	if i < 0 {
		return false
	}
	n.edges = slices.Delete(n.edges, i, i+1)
	return true
}

// DetachAll 清空关联边 (节点被移出地图时)
func (n *Node) DetachAll() {
	n.edges = nil
}
