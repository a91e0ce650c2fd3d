package algo

import (
	"fmt"
	"slices"

	"campus-map/model"
	"campus-map/utils"
)

// Map 校园地图，持有全部节点、边、建筑和多边形覆盖物
//
// 每类实体保存在一个有序切片里 (插入顺序有意义)，并按 ID 建索引。
// 实体之间只通过 ID 互相引用，删除时由 Map 负责级联清理：
//   - 删除节点：先把每条关联边从另一端节点和边表中移除
//   - 删除建筑：先清除所有指向它的节点引用
//
// Map 不是并发安全的，多协程访问请使用 SharedMap。
type Map struct {
	nodes     []*model.Node
	edges     []*model.Edge
	buildings []*model.Building
	mpos      []*model.MPO

	nodeByID     map[model.ID]*model.Node
	edgeByID     map[model.ID]*model.Edge
	buildingByID map[model.ID]*model.Building
	mpoByID      map[model.ID]*model.MPO

	lastID model.ID

	// 路径规划的当前上下文
	activeStart model.ID
	activeEnd   model.ID
	activePath  *model.Path
	costFunc    CostFunc
}

// NewMap 创建一个空地图
func NewMap() *Map {
	return &Map{
		nodeByID:     make(map[model.ID]*model.Node),
		edgeByID:     make(map[model.ID]*model.Edge),
		buildingByID: make(map[model.ID]*model.Building),
		mpoByID:      make(map[model.ID]*model.MPO),
	}
}

// Clear 释放所有实体并重置地图
func (m *Map) Clear() {
	for _, n := range m.nodes {
		n.DetachAll()
	}
	*m = *NewMap()
}

// idTaken 所有实体共用一个 ID 空间
func (m *Map) idTaken(id model.ID) bool {
	if _, ok := m.nodeByID[id]; ok {
		return true
	}
	if _, ok := m.edgeByID[id]; ok {
		return true
	}
	if _, ok := m.buildingByID[id]; ok {
		return true
	}
	_, ok := m.mpoByID[id]
	return ok
}

// assignID 为新实体分配 ID
// 已带 ID 的实体 (从文件或数据库恢复) 保留原 ID，冲突时报告 DuplicateParameter
func (m *Map) assignID(id model.ID) (model.ID, error) {
	if id == model.NoID {
		m.lastID++
		return m.lastID, nil
	}
	if m.idTaken(id) {
		return model.NoID, fmt.Errorf("ID %d 已存在: %w", id, model.ErrDuplicateParameter)
	}
	if id > m.lastID {
		m.lastID = id
	}
	return id, nil
}

// ---------------------------------------------------------------- 节点

// AddNode 把节点加入地图 (追加到末尾)
// 节点如果引用了建筑，该建筑必须已在地图中
func (m *Map) AddNode(n *model.Node) error {
	if n == nil || n.Degree() > 0 || !model.ValidText(n.Name, n.Picture) {
		return fmt.Errorf("添加节点失败: %w", model.ErrInvalidParameter)
	}
	if n.BuildingID != model.NoID && m.buildingByID[n.BuildingID] == nil {
		return fmt.Errorf("节点引用的建筑 %d: %w", n.BuildingID, model.ErrObjectNotFound)
	}
	id, err := m.assignID(n.ID)
	if err != nil {
		return err
	}
	n.ID = id
	m.nodes = append(m.nodes, n)
	m.nodeByID[id] = n
	return nil
}

// NNodes 节点数量
func (m *Map) NNodes() int { return len(m.nodes) }

// Nodes 按插入顺序返回所有节点
func (m *Map) Nodes() []*model.Node { return slices.Clone(m.nodes) }

// Node 按 ID 查找节点
func (m *Map) Node(id model.ID) (*model.Node, bool) {
	n, ok := m.nodeByID[id]
	return n, ok
}

// NodeAt 按下标获取节点
func (m *Map) NodeAt(index int) (*model.Node, error) {
	if index < 0 || index >= len(m.nodes) {
		return nil, fmt.Errorf("节点下标 %d: %w", index, model.ErrOutOfBoundsIndex)
	}
	return m.nodes[index], nil
}

// NodeByName 精确匹配名称，返回第一个命中的节点
func (m *Map) NodeByName(name string) (*model.Node, bool) {
	i := m.nodeIndexByName(name)
	if i < 0 {
		return nil, false
	}
	return m.nodes[i], true
}

// NodeIndex 返回节点在注册表中的下标
func (m *Map) NodeIndex(id model.ID) (int, bool) {
	if _, ok := m.nodeByID[id]; !ok {
		return -1, false
	}
	return slices.IndexFunc(m.nodes, func(n *model.Node) bool { return n.ID == id }), true
}

func (m *Map) nodeIndexByPointer(n *model.Node) int {
	return slices.Index(m.nodes, n)
}

func (m *Map) nodeIndexByName(name string) int {
	if name == "" {
		return -1
	}
	return slices.IndexFunc(m.nodes, func(n *model.Node) bool { return n.Name == name })
}

// RemoveNodeAt 按下标删除节点，级联删除所有关联边
func (m *Map) RemoveNodeAt(index int) error {
	if index < 0 || index >= len(m.nodes) {
		return fmt.Errorf("节点下标 %d: %w", index, model.ErrOutOfBoundsIndex)
	}
	m.removeNodeAt(index)
	return nil
}

// RemoveNode 按对象身份删除节点
func (m *Map) RemoveNode(n *model.Node) error {
	if n == nil {
		return fmt.Errorf("删除节点失败: %w", model.ErrInvalidParameter)
	}
	i := m.nodeIndexByPointer(n)
	if i < 0 {
		return fmt.Errorf("删除节点失败: %w", model.ErrObjectNotFound)
	}
	m.removeNodeAt(i)
	return nil
}

// RemoveNodeByID 按 ID 删除节点
func (m *Map) RemoveNodeByID(id model.ID) error {
	if id == model.NoID {
		return fmt.Errorf("删除节点失败: %w", model.ErrInvalidParameter)
	}
	i, ok := m.NodeIndex(id)
	if !ok {
		return fmt.Errorf("节点 %d: %w", id, model.ErrObjectNotFound)
	}
	m.removeNodeAt(i)
	return nil
}

// RemoveNodeByName 按名称 (精确匹配) 删除第一个命中的节点
func (m *Map) RemoveNodeByName(name string) error {
	if name == "" {
		return fmt.Errorf("删除节点失败: %w", model.ErrInvalidParameter)
	}
	i := m.nodeIndexByName(name)
	if i < 0 {
		return fmt.Errorf("节点 %q: %w", name, model.ErrObjectNotFound)
	}
	m.removeNodeAt(i)
	return nil
}

func (m *Map) removeNodeAt(index int) {
	n := m.nodes[index]

	// 先断开所有连接：从另一端节点的关联表和地图边表中删除
	for _, eid := range n.EdgeIDs() {
		e := m.edgeByID[eid]
		if e == nil {
			continue
		}
		if otherID, ok := e.Other(n.ID); ok {
			if other := m.nodeByID[otherID]; other != nil {
				other.DetachEdge(eid)
			}
		}
		m.dropEdge(eid)
	}
	n.DetachAll()

	delete(m.nodeByID, n.ID)
	m.nodes = slices.Delete(m.nodes, index, index+1)

	if m.activeStart == n.ID {
		m.activeStart = model.NoID
	}
	if m.activeEnd == n.ID {
		m.activeEnd = model.NoID
	}
	if m.activePath != nil && m.activePath.Contains(n.ID) {
		m.activePath = nil
	}
}

// MoveNode 修改节点坐标并重新计算关联边的长度
func (m *Map) MoveNode(id model.ID, coord model.Coordinate) error {
	n, ok := m.nodeByID[id]
	if !ok {
		return fmt.Errorf("节点 %d: %w", id, model.ErrObjectNotFound)
	}
	n.Coord = coord
	for _, eid := range n.EdgeIDs() {
		if e := m.edgeByID[eid]; e != nil {
			m.measure(e)
		}
	}
	return nil
}

// SetNodeBuilding 设置节点所属建筑
func (m *Map) SetNodeBuilding(nodeID, buildingID model.ID) error {
	if nodeID == model.NoID || buildingID == model.NoID {
		return fmt.Errorf("设置节点建筑失败: %w", model.ErrInvalidParameter)
	}
	n, ok := m.nodeByID[nodeID]
	if !ok {
		return fmt.Errorf("节点 %d: %w", nodeID, model.ErrObjectNotFound)
	}
	if _, ok := m.buildingByID[buildingID]; !ok {
		return fmt.Errorf("建筑 %d: %w", buildingID, model.ErrObjectNotFound)
	}
	n.BuildingID = buildingID
	return nil
}

// ClearNodeBuilding 清除节点所属建筑
func (m *Map) ClearNodeBuilding(nodeID model.ID) error {
	n, ok := m.nodeByID[nodeID]
	if !ok {
		return fmt.Errorf("节点 %d: %w", nodeID, model.ErrObjectNotFound)
	}
	n.BuildingID = model.NoID
	return nil
}

// NodeBuilding 返回节点所属建筑，没有时返回 nil
func (m *Map) NodeBuilding(nodeID model.ID) *model.Building {
	n, ok := m.nodeByID[nodeID]
	if !ok || n.BuildingID == model.NoID {
		return nil
	}
	return m.buildingByID[n.BuildingID]
}

// ---------------------------------------------------------------- 边

// NEdges 边数量
func (m *Map) NEdges() int { return len(m.edges) }

// Edges 按插入顺序返回所有边
func (m *Map) Edges() []*model.Edge { return slices.Clone(m.edges) }

// Edge 按 ID 查找边
func (m *Map) Edge(id model.ID) (*model.Edge, bool) {
	e, ok := m.edgeByID[id]
	return e, ok
}

// EdgeAt 按下标获取边
func (m *Map) EdgeAt(index int) (*model.Edge, error) {
	if index < 0 || index >= len(m.edges) {
		return nil, fmt.Errorf("边下标 %d: %w", index, model.ErrOutOfBoundsIndex)
	}
	return m.edges[index], nil
}

// IncidentEdges 返回节点的关联边 (按连接顺序)
func (m *Map) IncidentEdges(nodeID model.ID) []*model.Edge {
	n, ok := m.nodeByID[nodeID]
	if !ok {
		return nil
	}
	out := make([]*model.Edge, 0, n.Degree())
	for _, eid := range n.EdgeIDs() {
		if e := m.edgeByID[eid]; e != nil {
			out = append(out, e)
		}
	}
	return out
}

// InsertEdge 加入一条已构造好的边 (用于从文件或数据库恢复)
// 与 Connect 系列不同，这里对非法输入返回错误而不是静默忽略
func (m *Map) InsertEdge(e *model.Edge) error {
	if e == nil || e.A == e.B || !e.Type.Valid() {
		return fmt.Errorf("插入边失败: %w", model.ErrInvalidParameter)
	}
	a, okA := m.nodeByID[e.A]
	b, okB := m.nodeByID[e.B]
	if !okA || !okB {
		return fmt.Errorf("边的端点 %d-%d: %w", e.A, e.B, model.ErrObjectNotFound)
	}
	id, err := m.assignID(e.ID)
	if err != nil {
		return err
	}
	e.ID = id
	m.registerEdge(e, a, b)
	return nil
}

func (m *Map) registerEdge(e *model.Edge, a, b *model.Node) {
	m.measure(e)
	m.edges = append(m.edges, e)
	m.edgeByID[e.ID] = e
	a.AttachEdge(e.ID)
	b.AttachEdge(e.ID)
}

// measure 根据端点坐标计算边长 (米)
func (m *Map) measure(e *model.Edge) {
	a, okA := m.nodeByID[e.A]
	b, okB := m.nodeByID[e.B]
	if okA && okB {
		e.Length = utils.HaversineDistance(a.Coord, b.Coord)
	}
}

// dropEdge 从边表中删除 (不处理节点的关联表)
func (m *Map) dropEdge(id model.ID) {
	if _, ok := m.edgeByID[id]; !ok {
		return
	}
	delete(m.edgeByID, id)
	i := slices.IndexFunc(m.edges, func(e *model.Edge) bool { return e.ID == id })
	if i >= 0 {
		m.edges = slices.Delete(m.edges, i, i+1)
	}
}

// ---------------------------------------------------------------- 建筑

// AddBuilding 把建筑加入地图
func (m *Map) AddBuilding(b *model.Building) error {
	if b == nil || !model.ValidText(b.Names...) {
		return fmt.Errorf("添加建筑失败: %w", model.ErrInvalidParameter)
	}
	id, err := m.assignID(b.ID)
	if err != nil {
		return err
	}
	b.ID = id
	m.buildings = append(m.buildings, b)
	m.buildingByID[id] = b
	return nil
}

// NBuildings 建筑数量
func (m *Map) NBuildings() int { return len(m.buildings) }

// Buildings 按插入顺序返回所有建筑
func (m *Map) Buildings() []*model.Building { return slices.Clone(m.buildings) }

// Building 按 ID 查找建筑
func (m *Map) Building(id model.ID) (*model.Building, bool) {
	b, ok := m.buildingByID[id]
	return b, ok
}

// BuildingAt 按下标获取建筑
func (m *Map) BuildingAt(index int) (*model.Building, error) {
	if index < 0 || index >= len(m.buildings) {
		return nil, fmt.Errorf("建筑下标 %d: %w", index, model.ErrOutOfBoundsIndex)
	}
	return m.buildings[index], nil
}

// BuildingByName 精确匹配主名称或任一别名
func (m *Map) BuildingByName(name string) (*model.Building, bool) {
	i := m.buildingIndexByName(name)
	if i < 0 {
		return nil, false
	}
	return m.buildings[i], true
}

func (m *Map) buildingIndexByName(name string) int {
	if name == "" {
		return -1
	}
	return slices.IndexFunc(m.buildings, func(b *model.Building) bool { return b.HasName(name) })
}

// RemoveBuildingAt 按下标删除建筑，先清除所有节点对它的引用
func (m *Map) RemoveBuildingAt(index int) error {
	if index < 0 || index >= len(m.buildings) {
		return fmt.Errorf("建筑下标 %d: %w", index, model.ErrOutOfBoundsIndex)
	}
	m.removeBuildingAt(index)
	return nil
}

// RemoveBuilding 按对象身份删除建筑
func (m *Map) RemoveBuilding(b *model.Building) error {
	if b == nil {
		return fmt.Errorf("删除建筑失败: %w", model.ErrInvalidParameter)
	}
	i := slices.Index(m.buildings, b)
	if i < 0 {
		return fmt.Errorf("删除建筑失败: %w", model.ErrObjectNotFound)
	}
	m.removeBuildingAt(i)
	return nil
}

// RemoveBuildingByID 按 ID 删除建筑
func (m *Map) RemoveBuildingByID(id model.ID) error {
	b, ok := m.buildingByID[id]
	if !ok {
		return fmt.Errorf("建筑 %d: %w", id, model.ErrObjectNotFound)
	}
	return m.RemoveBuilding(b)
}

// RemoveBuildingByName 按名称或别名删除第一个命中的建筑
func (m *Map) RemoveBuildingByName(name string) error {
	if name == "" {
		return fmt.Errorf("删除建筑失败: %w", model.ErrInvalidParameter)
	}
	i := m.buildingIndexByName(name)
	if i < 0 {
		return fmt.Errorf("建筑 %q: %w", name, model.ErrObjectNotFound)
	}
	m.removeBuildingAt(i)
	return nil
}

func (m *Map) removeBuildingAt(index int) {
	b := m.buildings[index]
	for _, n := range m.nodes {
		if n.BuildingID == b.ID {
			n.BuildingID = model.NoID
		}
	}
	delete(m.buildingByID, b.ID)
	m.buildings = slices.Delete(m.buildings, index, index+1)
}

// ---------------------------------------------------------------- 多边形

// AddMPO 把多边形覆盖物加入地图
func (m *Map) AddMPO(p *model.MPO) error {
	if p == nil || !p.Type.Valid() || !model.ValidText(p.Name) {
		return fmt.Errorf("添加多边形失败: %w", model.ErrInvalidParameter)
	}
	id, err := m.assignID(p.ID)
	if err != nil {
		return err
	}
	p.ID = id
	m.mpos = append(m.mpos, p)
	m.mpoByID[id] = p
	return nil
}

// NMPOs 多边形数量
func (m *Map) NMPOs() int { return len(m.mpos) }

// MPOs 按插入顺序返回所有多边形
func (m *Map) MPOs() []*model.MPO { return slices.Clone(m.mpos) }

// MPO 按 ID 查找多边形
func (m *Map) MPO(id model.ID) (*model.MPO, bool) {
	p, ok := m.mpoByID[id]
	return p, ok
}

// MPOAt 按下标获取多边形
func (m *Map) MPOAt(index int) (*model.MPO, error) {
	if index < 0 || index >= len(m.mpos) {
		return nil, fmt.Errorf("多边形下标 %d: %w", index, model.ErrOutOfBoundsIndex)
	}
	return m.mpos[index], nil
}

// RemoveMPOAt 按下标删除多边形
func (m *Map) RemoveMPOAt(index int) error {
	if index < 0 || index >= len(m.mpos) {
		return fmt.Errorf("多边形下标 %d: %w", index, model.ErrOutOfBoundsIndex)
	}
	delete(m.mpoByID, m.mpos[index].ID)
	m.mpos = slices.Delete(m.mpos, index, index+1)
	return nil
}

// RemoveMPO 按对象身份删除多边形
func (m *Map) RemoveMPO(p *model.MPO) error {
	if p == nil {
		return fmt.Errorf("删除多边形失败: %w", model.ErrInvalidParameter)
	}
	i := slices.Index(m.mpos, p)
	if i < 0 {
		return fmt.Errorf("删除多边形失败: %w", model.ErrObjectNotFound)
	}
	return m.RemoveMPOAt(i)
}

// RemoveMPOByName 按名称删除第一个命中的多边形
func (m *Map) RemoveMPOByName(name string) error {
	if name == "" {
		return fmt.Errorf("删除多边形失败: %w", model.ErrInvalidParameter)
	}
	i := slices.IndexFunc(m.mpos, func(p *model.MPO) bool { return p.Name == name })
	if i < 0 {
		return fmt.Errorf("多边形 %q: %w", name, model.ErrObjectNotFound)
	}
	return m.RemoveMPOAt(i)
}
