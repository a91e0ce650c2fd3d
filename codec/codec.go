// Package codec 地图的二进制存储格式
//
// 格式 (版本 1)：整数固定宽度小端序，计数为 u64，字符串以 NUL 结尾，
// 可选字符串缺省时写一个 NUL。边通过节点的稳定 ID 引用端点，
// 与节点在注册表中的位置无关。
//
//	多边形: [type u8][count u64][count × (lon f64, lat f64)]
//	边:     [type u8][a id u64][b id u64]
//	节点:   [id u64][flags u8][lon f64][lat f64][名称个数 u64 (0|1)][名称…][图片][floor i8][building id u64][边数 u64]
//	建筑:   [id u64][floors u64][左下 lon,lat][右上 lon,lat][名称个数 u64][名称…]
//	地图:   "CMAP" [version u16] 建筑表 节点表 边表 ([id u64]+边) 多边形表 ([id u64]+多边形+[名称])
//	路径:   "CPTH" [version u16][count u64] 每条 [名称][节点数 u64][节点 id u64…]
package codec

import (
	"fmt"
	"math"

	"campus-map/algo"
	"campus-map/model"
)

// Version 当前格式版本
const Version uint16 = 1

const (
	mapMagic   = "CMAP"
	pathsMagic = "CPTH"
)

const flagSelectable uint8 = 1 << 0

// 各记录的最小字节数，用于在分配前检查计数是否合理
const (
	coordSize      = 16
	edgeRecordSize = 1 + 8 + 8
	minNodeSize    = 8 + 1 + coordSize + 8 + 1 + 1 + 8 + 8
	minBuilding    = 8 + 8 + 2*coordSize + 8
	minPolygon     = 1 + 8
)

// ---------------------------------------------------------------- 多边形

// EncodePolygon 编码多边形 (不含 ID 和名称)
func EncodePolygon(p *model.MPO) ([]byte, error) {
	if p == nil {
		return nil, fmt.Errorf("编码多边形失败: %w", model.ErrInvalidParameter)
	}
	var w writer
	writePolygon(&w, p)
	return w.buf, nil
}

// DecodePolygon 解码多边形，数据必须恰好是一条记录
func DecodePolygon(b []byte) (*model.MPO, error) {
	r := &reader{buf: b}
	p, err := readPolygon(r)
	if err != nil {
		return nil, err
	}
	return p, r.done()
}

func writePolygon(w *writer, p *model.MPO) {
	w.u8(uint8(p.Type))
	w.u64(uint64(len(p.Coords)))
	for _, c := range p.Coords {
		w.coord(c)
	}
}

func readPolygon(r *reader) (*model.MPO, error) {
	t, err := r.u8()
	if err != nil {
		return nil, err
	}
	if !model.MPOType(t).Valid() {
		return nil, fmt.Errorf("未知的多边形类型 %d: %w", t, ErrTruncatedOrCorrupt)
	}
	n, err := r.count(coordSize)
	if err != nil {
		return nil, err
	}
	coords := make([]model.Coordinate, n)
	for i := range coords {
		if coords[i], err = r.coord(); err != nil {
			return nil, err
		}
	}
	return &model.MPO{Coords: coords, Type: model.MPOType(t)}, nil
}

// ---------------------------------------------------------------- 边

// EncodeEdge 编码边 (不含边自身的 ID)
func EncodeEdge(e *model.Edge) ([]byte, error) {
	if e == nil {
		return nil, fmt.Errorf("编码边失败: %w", model.ErrInvalidParameter)
	}
	var w writer
	writeEdge(&w, e)
	return w.buf, nil
}

// DecodeEdge 解码边，端点是节点的稳定 ID
func DecodeEdge(b []byte) (*model.Edge, error) {
	r := &reader{buf: b}
	e, err := readEdge(r)
	if err != nil {
		return nil, err
	}
	return e, r.done()
}

func writeEdge(w *writer, e *model.Edge) {
	w.u8(uint8(e.Type))
	w.id(e.A)
	w.id(e.B)
}

func readEdge(r *reader) (*model.Edge, error) {
	t, err := r.u8()
	if err != nil {
		return nil, err
	}
	if !model.EdgeType(t).Valid() {
		return nil, fmt.Errorf("未知的边类型 %d: %w", t, ErrTruncatedOrCorrupt)
	}
	a, err := r.id()
	if err != nil {
		return nil, err
	}
	b, err := r.id()
	if err != nil {
		return nil, err
	}
	if a == model.NoID || b == model.NoID || a == b {
		return nil, fmt.Errorf("边的端点 %d-%d 无效: %w", a, b, ErrTruncatedOrCorrupt)
	}
	return model.NewEdge(model.EdgeType(t), a, b), nil
}

// ---------------------------------------------------------------- 节点

// EncodeNode 编码节点
func EncodeNode(n *model.Node) ([]byte, error) {
	if n == nil {
		return nil, fmt.Errorf("编码节点失败: %w", model.ErrInvalidParameter)
	}
	var w writer
	if err := writeNode(&w, n); err != nil {
		return nil, err
	}
	return w.buf, nil
}

// DecodeNode 解码节点，同时返回记录中的关联边数量
// 关联边本身不在节点记录中，由地图在恢复边之后重建。
func DecodeNode(b []byte) (*model.Node, int, error) {
	r := &reader{buf: b}
	n, edges, err := readNode(r)
	if err != nil {
		return nil, 0, err
	}
	return n, edges, r.done()
}

func writeNode(w *writer, n *model.Node) error {
	w.id(n.ID)
	var flags uint8
	if n.Selectable {
		flags |= flagSelectable
	}
	w.u8(flags)
	w.coord(n.Coord)
	if n.HasName() {
		w.u64(1)
		if err := w.str(n.Name); err != nil {
			return err
		}
	} else {
		w.u64(0)
	}
	if err := w.str(n.Picture); err != nil {
		return err
	}
	w.i8(n.Floor)
	w.id(n.BuildingID)
	w.u64(uint64(n.Degree()))
	return nil
}

func readNode(r *reader) (*model.Node, int, error) {
	id, err := r.objectID("节点")
	if err != nil {
		return nil, 0, err
	}
	flags, err := r.u8()
	if err != nil {
		return nil, 0, err
	}
	coord, err := r.coord()
	if err != nil {
		return nil, 0, err
	}
	n := model.NewNode(coord)
	n.ID = id
	n.Selectable = flags&flagSelectable != 0

	names, err := r.u64()
	if err != nil {
		return nil, 0, err
	}
	switch names {
	case 0:
	case 1:
		if n.Name, err = r.str(); err != nil {
			return nil, 0, err
		}
	default:
		return nil, 0, fmt.Errorf("节点名称个数 %d: %w", names, ErrTruncatedOrCorrupt)
	}
	if n.Picture, err = r.str(); err != nil {
		return nil, 0, err
	}
	if n.Floor, err = r.i8(); err != nil {
		return nil, 0, err
	}
	if n.BuildingID, err = r.id(); err != nil {
		return nil, 0, err
	}
	// 边记录不跟在节点后面，这里只读数量，DecodeMap 恢复边后再核对
	edges, err := r.u64()
	if err != nil {
		return nil, 0, err
	}
	if edges > math.MaxInt32 {
		return nil, 0, fmt.Errorf("节点 %d 边数 %d: %w", id, edges, ErrTruncatedOrCorrupt)
	}
	return n, int(edges), nil
}

// ---------------------------------------------------------------- 建筑

// EncodeBuilding 编码建筑
func EncodeBuilding(b *model.Building) ([]byte, error) {
	if b == nil {
		return nil, fmt.Errorf("编码建筑失败: %w", model.ErrInvalidParameter)
	}
	var w writer
	if err := writeBuilding(&w, b); err != nil {
		return nil, err
	}
	return w.buf, nil
}

// DecodeBuilding 解码建筑
func DecodeBuilding(b []byte) (*model.Building, error) {
	r := &reader{buf: b}
	bld, err := readBuilding(r)
	if err != nil {
		return nil, err
	}
	return bld, r.done()
}

func writeBuilding(w *writer, b *model.Building) error {
	w.id(b.ID)
	w.u64(uint64(b.Floors))
	w.coord(b.BoundingBox.BottomLeft)
	w.coord(b.BoundingBox.TopRight)
	w.u64(uint64(len(b.Names)))
	for _, name := range b.Names {
		if name == "" {
			return fmt.Errorf("建筑 %d 含空名称: %w", b.ID, model.ErrInvalidParameter)
		}
		if err := w.str(name); err != nil {
			return err
		}
	}
	return nil
}

func readBuilding(r *reader) (*model.Building, error) {
	id, err := r.objectID("建筑")
	if err != nil {
		return nil, err
	}
	floors, err := r.u64()
	if err != nil {
		return nil, err
	}
	if floors > uint64(^uint32(0)) {
		return nil, fmt.Errorf("楼层数 %d: %w", floors, ErrTruncatedOrCorrupt)
	}
	bl, err := r.coord()
	if err != nil {
		return nil, err
	}
	tr, err := r.coord()
	if err != nil {
		return nil, err
	}
	n, err := r.count(1)
	if err != nil {
		return nil, err
	}
	names := make([]string, n)
	for i := range names {
		if names[i], err = r.str(); err != nil {
			return nil, err
		}
		if names[i] == "" {
			return nil, fmt.Errorf("建筑 %d 含空名称: %w", id, ErrTruncatedOrCorrupt)
		}
	}
	return &model.Building{
		ID:          id,
		Names:       names,
		BoundingBox: model.NewRect(bl, tr),
		Floors:      int(floors),
	}, nil
}

// ---------------------------------------------------------------- 地图

// EncodeMap 编码整张地图
func EncodeMap(m *algo.Map) ([]byte, error) {
	if m == nil {
		return nil, fmt.Errorf("编码地图失败: %w", model.ErrInvalidParameter)
	}
	var w writer
	w.raw([]byte(mapMagic))
	w.u16(Version)

	w.u64(uint64(m.NBuildings()))
	for _, b := range m.Buildings() {
		if err := writeBuilding(&w, b); err != nil {
			return nil, err
		}
	}

	w.u64(uint64(m.NNodes()))
	for _, n := range m.Nodes() {
		if err := writeNode(&w, n); err != nil {
			return nil, err
		}
	}

	w.u64(uint64(m.NEdges()))
	for _, e := range m.Edges() {
		w.id(e.ID)
		writeEdge(&w, e)
	}

	w.u64(uint64(m.NMPOs()))
	for _, p := range m.MPOs() {
		w.id(p.ID)
		writePolygon(&w, p)
		if err := w.str(p.Name); err != nil {
			return nil, err
		}
	}
	return w.buf, nil
}

// DecodeMap 解码整张地图，恢复全部 ID、重建关联表并核对每个节点的边数
func DecodeMap(b []byte) (*algo.Map, error) {
	r := &reader{buf: b}
	if err := r.magic(mapMagic); err != nil {
		return nil, err
	}
	m := algo.NewMap()

	nb, err := r.count(minBuilding)
	if err != nil {
		return nil, err
	}
	for range nb {
		bld, err := readBuilding(r)
		if err != nil {
			return nil, err
		}
		if err := m.AddBuilding(bld); err != nil {
			return nil, corrupt("建筑", bld.ID, err)
		}
	}

	nn, err := r.count(minNodeSize)
	if err != nil {
		return nil, err
	}
	degrees := make(map[model.ID]int, nn)
	for range nn {
		n, deg, err := readNode(r)
		if err != nil {
			return nil, err
		}
		if err := m.AddNode(n); err != nil {
			return nil, corrupt("节点", n.ID, err)
		}
		degrees[n.ID] = deg
	}

	ne, err := r.count(8 + edgeRecordSize)
	if err != nil {
		return nil, err
	}
	for range ne {
		id, err := r.objectID("边")
		if err != nil {
			return nil, err
		}
		e, err := readEdge(r)
		if err != nil {
			return nil, err
		}
		e.ID = id
		if err := m.InsertEdge(e); err != nil {
			return nil, corrupt("边", id, err)
		}
	}
	for _, n := range m.Nodes() {
		if n.Degree() != degrees[n.ID] {
			return nil, fmt.Errorf("节点 %d 记录 %d 条边，实际 %d 条: %w",
				n.ID, degrees[n.ID], n.Degree(), ErrTruncatedOrCorrupt)
		}
	}

	np, err := r.count(8 + minPolygon + 1)
	if err != nil {
		return nil, err
	}
	for range np {
		id, err := r.objectID("多边形")
		if err != nil {
			return nil, err
		}
		p, err := readPolygon(r)
		if err != nil {
			return nil, err
		}
		if p.Name, err = r.str(); err != nil {
			return nil, err
		}
		p.ID = id
		if err := m.AddMPO(p); err != nil {
			return nil, corrupt("多边形", id, err)
		}
	}

	if err := r.done(); err != nil {
		return nil, err
	}
	return m, nil
}

// corrupt 把恢复过程中的一致性错误 (ID 重复、引用不存在) 归为数据损坏
func corrupt(kind string, id model.ID, err error) error {
	return fmt.Errorf("恢复%s %d (%v): %w", kind, id, err, ErrTruncatedOrCorrupt)
}

// ---------------------------------------------------------------- 路径

// EncodeSavedPaths 编码已保存的路径
func EncodeSavedPaths(s *model.SavedPaths) ([]byte, error) {
	if s == nil {
		return nil, fmt.Errorf("编码路径失败: %w", model.ErrInvalidParameter)
	}
	var w writer
	w.raw([]byte(pathsMagic))
	w.u16(Version)
	w.u64(uint64(s.Len()))
	for _, p := range s.Paths() {
		if err := w.str(p.Name); err != nil {
			return nil, err
		}
		w.u64(uint64(len(p.NodeIDs)))
		for _, id := range p.NodeIDs {
			w.id(id)
		}
	}
	return w.buf, nil
}

// DecodeSavedPaths 解码已保存的路径
// 路径只保存节点 ID，是否仍存在于地图中由调用方决定
func DecodeSavedPaths(b []byte) (*model.SavedPaths, error) {
	r := &reader{buf: b}
	if err := r.magic(pathsMagic); err != nil {
		return nil, err
	}
	n, err := r.count(1 + 8)
	if err != nil {
		return nil, err
	}
	s := model.NewSavedPaths()
	for range n {
		name, err := r.str()
		if err != nil {
			return nil, err
		}
		count, err := r.count(8)
		if err != nil {
			return nil, err
		}
		ids := make([]model.ID, count)
		for i := range ids {
			if ids[i], err = r.id(); err != nil {
				return nil, err
			}
		}
		if err := s.Add(model.NewPath(name, ids...)); err != nil {
			return nil, err
		}
	}
	if err := r.done(); err != nil {
		return nil, err
	}
	return s, nil
}
