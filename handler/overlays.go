package handler

import (
	"net/http"
	"strconv"

	"campus-map/algo"
	"campus-map/model"

	"github.com/gin-gonic/gin"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// overlayCollection 把多边形覆盖物和建筑包围盒导出为 GeoJSON，供前端绘制
func overlayCollection(m *algo.Map, mpos []*model.MPO, withBuildings bool) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, p := range mpos {
		f := geojson.NewFeature(orb.Polygon{p.Ring()})
		f.ID = uint64(p.ID)
		f.Properties["kind"] = "mpo"
		f.Properties["type"] = p.Type.String()
		if p.Name != "" {
			f.Properties["name"] = p.Name
		}
		fc.Append(f)
	}
	if !withBuildings {
		return fc
	}
	for _, b := range m.Buildings() {
		f := geojson.NewFeature(b.BoundingBox.Bound().ToPolygon())
		f.ID = uint64(b.ID)
		f.Properties["kind"] = "building"
		f.Properties["name"] = b.PrimaryName()
		f.Properties["aliases"] = b.Aliases()
		f.Properties["floors"] = b.Floors
		fc.Append(f)
	}
	if r, ok := m.BoundingRect(); ok {
		fc.BBox = geojson.NewBBox(r.Bound())
	}
	return fc
}

// GetOverlays 获取地图覆盖物 (GeoJSON FeatureCollection)
// 带 lat/lng 参数时只返回包含该点的多边形
func GetOverlays(c *gin.Context) {
	lat, errLat := strconv.ParseFloat(c.Query("lat"), 64)
	lng, errLng := strconv.ParseFloat(c.Query("lng"), 64)
	hitTest := errLat == nil && errLng == nil

	var fc *geojson.FeatureCollection
	err := view(func(m *algo.Map, _ *model.SavedPaths) error {
		if hitTest {
			fc = overlayCollection(m, m.PolygonsAt(model.NewCoordinate(lng, lat)), false)
			return nil
		}
		fc = overlayCollection(m, m.MPOs(), true)
		return nil
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, fc)
}
