package model

import (
	"fmt"
	"slices"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// MPOType 多边形覆盖物的分类
type MPOType uint8

const (
	MPOWater    MPOType = 1 // 水体
	MPOTree     MPOType = 2 // 树木/绿地
	MPOBuilding MPOType = 3 // 建筑轮廓
)

// MPO (Map Polygon Object) 地图多边形覆盖物，用于绘制建筑、湖泊、树木
// Coords 按顺序构成闭合环，首尾不需要重复
type MPO struct {
	ID     ID           `json:"id"`
	Coords []Coordinate `json:"coords"`
	Type   MPOType      `json:"type"`
	Name   string       `json:"name,omitempty"`
}

// NewMPO 创建多边形，坐标会被复制
// coords 为 nil 视为缺少参数；空切片是合法的 (0 个坐标)
func NewMPO(coords []Coordinate, mpoType MPOType) (*MPO, error) {
	if coords == nil || !mpoType.Valid() {
		return nil, fmt.Errorf("创建多边形失败: %w", ErrInvalidParameter)
	}
	return &MPO{
		Coords: slices.Clone(coords),
		Type:   mpoType,
	}, nil
}

// SetName 设置名称
func (p *MPO) SetName(name string) error {
	if name == "" || !ValidText(name) {
		return fmt.Errorf("设置多边形名称失败: %w", ErrInvalidParameter)
	}
	p.Name = name
	return nil
}

// ClearName 清除名称，本来没有名称也不算错误
func (p *MPO) ClearName() { p.Name = "" }

// SetType 修改分类
func (p *MPO) SetType(mpoType MPOType) error {
	if !mpoType.Valid() {
		return fmt.Errorf("多边形类型 %d: %w", mpoType, ErrInvalidParameter)
	}
	p.Type = mpoType
	return nil
}

// SetCoord 修改指定下标的坐标
func (p *MPO) SetCoord(index int, c Coordinate) error {
	if index < 0 || index >= len(p.Coords) {
		return fmt.Errorf("坐标下标 %d: %w", index, ErrOutOfBoundsIndex)
	}
	p.Coords[index] = c
	return nil
}

// Ring 转换为闭合的 orb.Ring (首尾相同)
func (p *MPO) Ring() orb.Ring {
	ring := make(orb.Ring, 0, len(p.Coords)+1)
	for _, c := range p.Coords {
		ring = append(ring, c.Point())
	}
	if len(ring) > 0 && !ring.Closed() {
		ring = append(ring, ring[0])
	}
	return ring
}

// Bound 包围盒
func (p *MPO) Bound() Rect {
	return RectFromBound(p.Ring().Bound())
}

// Contains 判断坐标是否在多边形内 (少于 3 个顶点的退化多边形不包含任何点)
func (p *MPO) Contains(c Coordinate) bool {
	if len(p.Coords) < 3 {
		return false
	}
	return planar.RingContains(p.Ring(), c.Point())
}

// Valid 是否为已定义的分类
func (t MPOType) Valid() bool {
	return t >= MPOWater && t <= MPOBuilding
}

// String 可读名称
func (t MPOType) String() string {
	switch t {
	case MPOWater:
		return "water"
	case MPOTree:
		return "tree"
	case MPOBuilding:
		return "building"
	default:
		return "unknown"
	}
}

// ParseMPOType 将名称转换为分类
func ParseMPOType(name string) (MPOType, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "water":
		return MPOWater, true
	case "tree":
		return MPOTree, true
	case "building":
		return MPOBuilding, true
	default:
		return 0, false
	}
}
