package algo

import (
	"math"
	"strings"

	"campus-map/model"
)

// CostFunc 边代价函数，不同出行方式对同一条边给出不同代价
// 返回 +Inf (或负数、NaN) 表示这条边不可通行，寻路时会被跳过。
type CostFunc interface {
	Cost(e *model.Edge) float64
}

// EdgeCostFunc 把普通函数适配为 CostFunc
type EdgeCostFunc func(e *model.Edge) float64

func (f EdgeCostFunc) Cost(e *model.Edge) float64 { return f(e) }

// DistanceCost 以边长作为代价，所有类型都可通行
var DistanceCost = EdgeCostFunc(func(e *model.Edge) float64 { return e.Length })

// Profile 出行方式：代价 = 边长 * Multipliers[类型] + Penalties[类型]
// Multipliers 中没有列出的类型视为不可通行。
type Profile struct {
	Name        string
	Multipliers map[model.EdgeType]float64
	Penalties   map[model.EdgeType]float64 // 固定附加代价 (米当量)，例如等电梯
}

// Cost 实现 CostFunc
func (p *Profile) Cost(e *model.Edge) float64 {
	mult, ok := p.Multipliers[e.Type]
	if !ok {
		return math.Inf(1)
	}
	return e.Length*mult + p.Penalties[e.Type]
}

// Allows 该出行方式能否通过此类边
func (p *Profile) Allows(t model.EdgeType) bool {
	_, ok := p.Multipliers[t]
	return ok
}

// 轮椅：不能走楼梯，手动门较慢
var Wheelchair = &Profile{
	Name: "wheelchair",
	Multipliers: map[model.EdgeType]float64{
		model.EdgeSidewalk:      1.0,
		model.EdgeRoad:          1.5,
		model.EdgeRamp:          1.2,
		model.EdgeHallway:       1.0,
		model.EdgeElevatorShaft: 1.0,
		model.EdgeOverpass:      1.0,
		model.EdgeDoor:          1.0,
		model.EdgeAutoDoor:      1.0,
		model.EdgeCrosswalk:     1.0,
	},
	Penalties: map[model.EdgeType]float64{
		model.EdgeElevatorShaft: 30,
		model.EdgeDoor:          20,
	},
}

// 步行：全部可走
var Walker = &Profile{
	Name: "walker",
	Multipliers: map[model.EdgeType]float64{
		model.EdgeSidewalk:      1.0,
		model.EdgeRoad:          1.2,
		model.EdgeStairs:        1.5,
		model.EdgeRamp:          1.0,
		model.EdgeHallway:       1.0,
		model.EdgeElevatorShaft: 1.0,
		model.EdgeOverpass:      1.0,
		model.EdgeDoor:          1.0,
		model.EdgeAutoDoor:      1.0,
		model.EdgeCrosswalk:     1.0,
	},
	Penalties: map[model.EdgeType]float64{
		model.EdgeElevatorShaft: 30,
	},
}

// 送货 (推车)：不能走楼梯，偏好车行道
var Deliverer = &Profile{
	Name: "deliverer",
	Multipliers: map[model.EdgeType]float64{
		model.EdgeSidewalk:      1.2,
		model.EdgeRoad:          1.0,
		model.EdgeRamp:          1.3,
		model.EdgeHallway:       1.2,
		model.EdgeElevatorShaft: 1.0,
		model.EdgeOverpass:      1.2,
		model.EdgeDoor:          1.0,
		model.EdgeAutoDoor:      1.0,
		model.EdgeCrosswalk:     1.0,
	},
	Penalties: map[model.EdgeType]float64{
		model.EdgeElevatorShaft: 60,
		model.EdgeDoor:          30,
	},
}

// 驾车：只能走车行道 (可以穿过人行横道)
var Driver = &Profile{
	Name: "driver",
	Multipliers: map[model.EdgeType]float64{
		model.EdgeRoad:      1.0,
		model.EdgeCrosswalk: 1.0,
	},
}

// Profiles 全部内置出行方式
var Profiles = []*Profile{Wheelchair, Walker, Deliverer, Driver}

// ProfileByName 按名称查找出行方式 (忽略大小写)，空串返回 Walker
func ProfileByName(name string) (*Profile, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return Walker, true
	}
	for _, p := range Profiles {
		if p.Name == name {
			return p, true
		}
	}
	return nil, false
}

// passable 代价是否可用于寻路
func passable(c float64) bool {
	return !math.IsNaN(c) && !math.IsInf(c, 0) && c >= 0
}
