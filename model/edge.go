package model

import "strings"

// EdgeType 边的类型 (通行设施)
type EdgeType uint8

// 数值与持久化格式绑定，不要调整顺序
const (
	EdgeSidewalk      EdgeType = 1  // 人行道
	EdgeRoad          EdgeType = 2  // 车行道
	EdgeStairs        EdgeType = 3  // 楼梯
	EdgeRamp          EdgeType = 4  // 坡道
	EdgeHallway       EdgeType = 5  // 走廊
	EdgeElevatorShaft EdgeType = 6  // 电梯井
	EdgeOverpass      EdgeType = 7  // 天桥
	EdgeDoor          EdgeType = 8  // 普通门
	EdgeAutoDoor      EdgeType = 9  // 自动门
	EdgeCrosswalk     EdgeType = 10 // 人行横道
)

// EdgeTypes 全部边类型，按数值顺序
var EdgeTypes = []EdgeType{
	EdgeSidewalk, EdgeRoad, EdgeStairs, EdgeRamp, EdgeHallway,
	EdgeElevatorShaft, EdgeOverpass, EdgeDoor, EdgeAutoDoor, EdgeCrosswalk,
}

// Edge 连接两个节点的无向边
// A、B 是节点的弱引用 (ID)；A != B 由创建者 (Map) 保证，Edge 自身不检查。
type Edge struct {
	ID     ID       `json:"id"`
	A      ID       `json:"a"`
	B      ID       `json:"b"`
	Type   EdgeType `json:"type"`
	Length float64  `json:"length"` // 长度 (米)，由 Map 根据端点坐标算好
}

// NewEdge 创建边
func NewEdge(edgeType EdgeType, a, b ID) *Edge {
	return &Edge{A: a, B: b, Type: edgeType}
}

// SetType 修改边类型
func (e *Edge) SetType(edgeType EdgeType) { e.Type = edgeType }

// Other 返回另一端的节点 ID；id 不是端点时返回 false
func (e *Edge) Other(id ID) (ID, bool) {
	switch id {
	case e.A:
		return e.B, true
	case e.B:
		return e.A, true
	default:
		return NoID, false
	}
}

// Touches 判断边是否以 id 为端点
func (e *Edge) Touches(id ID) bool {
	return e.A == id || e.B == id
}

// Valid 是否为已定义的类型
func (t EdgeType) Valid() bool {
	return t >= EdgeSidewalk && t <= EdgeCrosswalk
}

// String 可读名称
func (t EdgeType) String() string {
	switch t {
	case EdgeSidewalk:
		return "sidewalk"
	case EdgeRoad:
		return "road"
	case EdgeStairs:
		return "stairs"
	case EdgeRamp:
		return "ramp"
	case EdgeHallway:
		return "hallway"
	case EdgeElevatorShaft:
		return "elevator shaft"
	case EdgeOverpass:
		return "overpass"
	case EdgeDoor:
		return "door"
	case EdgeAutoDoor:
		return "automatic door"
	case EdgeCrosswalk:
		return "crosswalk"
	default:
		return "unknown"
	}
}

// TypeName 文本格式里使用的大写名称，例如 ELEVATOR_SHAFT
func (t EdgeType) TypeName() string {
	switch t {
	case EdgeElevatorShaft:
		return "ELEVATOR_SHAFT"
	case EdgeAutoDoor:
		return "AUTO_DOOR"
	default:
		return strings.ToUpper(t.String())
	}
}

// ParseEdgeType 将名称转换为边类型
// 支持 "STAIRS"、"stairs"、"elevator shaft"、"elevator_shaft" 等写法
func ParseEdgeType(name string) (EdgeType, bool) {
	key := strings.ToLower(strings.TrimSpace(name))
	key = strings.ReplaceAll(key, "-", "_")
	key = strings.ReplaceAll(key, " ", "_")
	switch key {
	case "sidewalk":
		return EdgeSidewalk, true
	case "road":
		return EdgeRoad, true
	case "stairs":
		return EdgeStairs, true
	case "ramp":
		return EdgeRamp, true
	case "hallway":
		return EdgeHallway, true
	case "elevator_shaft", "elevator":
		return EdgeElevatorShaft, true
	case "overpass":
		return EdgeOverpass, true
	case "door":
		return EdgeDoor, true
	case "auto_door", "automatic_door":
		return EdgeAutoDoor, true
	case "crosswalk":
		return EdgeCrosswalk, true
	default:
		return 0, false
	}
}
