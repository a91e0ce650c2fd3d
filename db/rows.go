package db

import (
	"fmt"
	"sort"

	"campus-map/algo"
	"campus-map/codec"
	"campus-map/model"

	"github.com/lib/pq"
)

// 各表都带 Position 列，读取时按它排序以还原地图中的插入顺序
// (节点的关联边顺序取决于边的插入顺序)。ID 沿用地图中的稳定 ID。

// BuildingRow 建筑表
type BuildingRow struct {
	ID       uint64         `gorm:"primaryKey;autoIncrement:false"`
	Position int            `gorm:"index"`
	Names    pq.StringArray `gorm:"type:text[]"` // 下标 0 为主名称
	Floors   int
	BLLon    float64
	BLLat    float64
	TRLon    float64
	TRLat    float64
}

// NodeRow 节点表
type NodeRow struct {
	ID         uint64 `gorm:"primaryKey;autoIncrement:false"`
	Position   int    `gorm:"index"`
	Lon        float64
	Lat        float64
	Name       string `gorm:"index"`
	Picture    string
	Floor      int8
	Selectable bool
	BuildingID uint64 `gorm:"index"` // 0 表示无
}

// EdgeRow 边表，长度不入库，恢复时按坐标重新计算
type EdgeRow struct {
	ID       uint64 `gorm:"primaryKey;autoIncrement:false"`
	Position int    `gorm:"index"`
	A        uint64 `gorm:"index"`
	B        uint64 `gorm:"index"`
	Type     uint8
}

// MPORow 多边形表，坐标环用二进制多边形记录保存
type MPORow struct {
	ID       uint64 `gorm:"primaryKey;autoIncrement:false"`
	Position int    `gorm:"index"`
	Name     string
	Polygon  []byte `gorm:"type:bytea"`
}

// SavedPathRow 已保存路径表
type SavedPathRow struct {
	ID       uint `gorm:"primaryKey"`
	Position int  `gorm:"index"`
	Name     string
	NodeIDs  pq.Int64Array `gorm:"type:bigint[]"`
}

func (BuildingRow) TableName() string  { return "campus_buildings" }
func (NodeRow) TableName() string      { return "campus_nodes" }
func (EdgeRow) TableName() string      { return "campus_edges" }
func (MPORow) TableName() string       { return "campus_mpos" }
func (SavedPathRow) TableName() string { return "campus_saved_paths" }

// MapRows 一张地图对应的全部行
type MapRows struct {
	Buildings []BuildingRow
	Nodes     []NodeRow
	Edges     []EdgeRow
	MPOs      []MPORow
}

// MapToRows 把地图拆成数据库行
func MapToRows(m *algo.Map) (*MapRows, error) {
	rows := &MapRows{}
	for i, b := range m.Buildings() {
		rows.Buildings = append(rows.Buildings, BuildingRow{
			ID:       uint64(b.ID),
			Position: i,
			Names:    pq.StringArray(b.Aliases()),
			Floors:   b.Floors,
			BLLon:    b.BoundingBox.BottomLeft.Lon,
			BLLat:    b.BoundingBox.BottomLeft.Lat,
			TRLon:    b.BoundingBox.TopRight.Lon,
			TRLat:    b.BoundingBox.TopRight.Lat,
		})
	}
	for i, n := range m.Nodes() {
		rows.Nodes = append(rows.Nodes, NodeRow{
			ID:         uint64(n.ID),
			Position:   i,
			Lon:        n.Coord.Lon,
			Lat:        n.Coord.Lat,
			Name:       n.Name,
			Picture:    n.Picture,
			Floor:      n.Floor,
			Selectable: n.Selectable,
			BuildingID: uint64(n.BuildingID),
		})
	}
	for i, e := range m.Edges() {
		rows.Edges = append(rows.Edges, EdgeRow{
			ID:       uint64(e.ID),
			Position: i,
			A:        uint64(e.A),
			B:        uint64(e.B),
			Type:     uint8(e.Type),
		})
	}
	for i, p := range m.MPOs() {
		poly, err := codec.EncodePolygon(p)
		if err != nil {
			return nil, fmt.Errorf("编码多边形 %d 失败: %w", p.ID, err)
		}
		rows.MPOs = append(rows.MPOs, MPORow{
			ID:       uint64(p.ID),
			Position: i,
			Name:     p.Name,
			Polygon:  poly,
		})
	}
	return rows, nil
}

// RowsToMap 由数据库行重建地图，ID 原样恢复
func RowsToMap(rows *MapRows) (*algo.Map, error) {
	sortByPosition(rows)
	m := algo.NewMap()

	for _, r := range rows.Buildings {
		b := &model.Building{
			ID:     model.ID(r.ID),
			Names:  append([]string(nil), r.Names...),
			Floors: r.Floors,
			BoundingBox: model.NewRect(
				model.NewCoordinate(r.BLLon, r.BLLat),
				model.NewCoordinate(r.TRLon, r.TRLat),
			),
		}
		if err := m.AddBuilding(b); err != nil {
			return nil, fmt.Errorf("恢复建筑 %d 失败: %w", r.ID, err)
		}
	}
	for _, r := range rows.Nodes {
		n := model.NewNode(model.NewCoordinate(r.Lon, r.Lat))
		n.ID = model.ID(r.ID)
		n.Name = r.Name
		n.Picture = r.Picture
		n.Floor = r.Floor
		n.Selectable = r.Selectable
		n.BuildingID = model.ID(r.BuildingID)
		if err := m.AddNode(n); err != nil {
			return nil, fmt.Errorf("恢复节点 %d 失败: %w", r.ID, err)
		}
	}
	for _, r := range rows.Edges {
		t := model.EdgeType(r.Type)
		if !t.Valid() {
			return nil, fmt.Errorf("恢复边 %d 失败, 类型 %d: %w", r.ID, r.Type, model.ErrInvalidParameter)
		}
		e := model.NewEdge(t, model.ID(r.A), model.ID(r.B))
		e.ID = model.ID(r.ID)
		if err := m.InsertEdge(e); err != nil {
			return nil, fmt.Errorf("恢复边 %d 失败: %w", r.ID, err)
		}
	}
	for _, r := range rows.MPOs {
		p, err := codec.DecodePolygon(r.Polygon)
		if err != nil {
			return nil, fmt.Errorf("恢复多边形 %d 失败: %w", r.ID, err)
		}
		p.ID = model.ID(r.ID)
		p.Name = r.Name
		if err := m.AddMPO(p); err != nil {
			return nil, fmt.Errorf("恢复多边形 %d 失败: %w", r.ID, err)
		}
	}
	return m, nil
}

func sortByPosition(rows *MapRows) {
	sort.SliceStable(rows.Buildings, func(i, j int) bool { return rows.Buildings[i].Position < rows.Buildings[j].Position })
	sort.SliceStable(rows.Nodes, func(i, j int) bool { return rows.Nodes[i].Position < rows.Nodes[j].Position })
	sort.SliceStable(rows.Edges, func(i, j int) bool { return rows.Edges[i].Position < rows.Edges[j].Position })
	sort.SliceStable(rows.MPOs, func(i, j int) bool { return rows.MPOs[i].Position < rows.MPOs[j].Position })
}

// PathsToRows 已保存路径转数据库行
func PathsToRows(s *model.SavedPaths) []SavedPathRow {
	var out []SavedPathRow
	for i, p := range s.Paths() {
		ids := make(pq.Int64Array, len(p.NodeIDs))
		for k, id := range p.NodeIDs {
			ids[k] = int64(id)
		}
		out = append(out, SavedPathRow{Position: i, Name: p.Name, NodeIDs: ids})
	}
	return out
}

// RowsToPaths 数据库行转已保存路径
func RowsToPaths(rows []SavedPathRow) *model.SavedPaths {
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Position < rows[j].Position })
	s := model.NewSavedPaths()
	for _, r := range rows {
		ids := make([]model.ID, len(r.NodeIDs))
		for k, id := range r.NodeIDs {
			ids[k] = model.ID(id)
		}
		_ = s.Add(model.NewPath(r.Name, ids...))
	}
	return s
}
