package utils

import (
	"campus-map/model"

	"github.com/paulmach/orb/geo"
)

// HaversineDistance 两个经纬度坐标之间的球面距离 (米)
// 边长和最近节点查询都以它为准，半径取 orb.EarthRadius。
func HaversineDistance(a, b model.Coordinate) float64 {
	return geo.DistanceHaversine(a.Point(), b.Point())
}
