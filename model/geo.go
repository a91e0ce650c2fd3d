package model

import "github.com/paulmach/orb"

// Coordinate 代表一个经纬度点 (WGS84)，不可变值类型
type Coordinate struct {
	Lon float64 `json:"lon"` // 经度 (类似 x)
	Lat float64 `json:"lat"` // 纬度 (类似 y)
}

// NewCoordinate 创建坐标
func NewCoordinate(lon, lat float64) Coordinate {
	return Coordinate{Lon: lon, Lat: lat}
}

// Point 转换为 orb.Point ([lon, lat])
func (c Coordinate) Point() orb.Point {
	return orb.Point{c.Lon, c.Lat}
}

// CoordinateFromPoint 从 orb.Point 转换
func CoordinateFromPoint(p orb.Point) Coordinate {
	return Coordinate{Lon: p.Lon(), Lat: p.Lat()}
}

// Rect 由左下角和右上角两个坐标构成的矩形
// 约定 BottomLeft 各分量不大于 TopRight，但这里不做强制检查
type Rect struct {
	BottomLeft Coordinate `json:"bottom_left"`
	TopRight   Coordinate `json:"top_right"`
}

// NewRect 创建矩形
func NewRect(bottomLeft, topRight Coordinate) Rect {
	return Rect{BottomLeft: bottomLeft, TopRight: topRight}
}

// Bound 转换为 orb.Bound
func (r Rect) Bound() orb.Bound {
	return orb.Bound{Min: r.BottomLeft.Point(), Max: r.TopRight.Point()}
}

// RectFromBound 从 orb.Bound 转换
func RectFromBound(b orb.Bound) Rect {
	return Rect{
		BottomLeft: CoordinateFromPoint(b.Min),
		TopRight:   CoordinateFromPoint(b.Max),
	}
}

// Contains 判断坐标是否落在矩形内 (含边界)
func (r Rect) Contains(c Coordinate) bool {
	return r.Bound().Contains(c.Point())
}
