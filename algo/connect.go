package algo

import "campus-map/model"

// 连接操作对缺失或相同的端点静默忽略 (返回 nil / false)，不报告错误。
// 同一对节点可以重复连接，产生平行边。未知的边类型同样视为无操作。

// ConnectByIndices 按注册表下标连接两个节点，返回新建的边
func (m *Map) ConnectByIndices(a, b int, edgeType model.EdgeType) *model.Edge {
	if !edgeType.Valid() {
		return nil
	}
	if a < 0 || b < 0 || a >= len(m.nodes) || b >= len(m.nodes) || a == b {
		return nil
	}
	na, nb := m.nodes[a], m.nodes[b]
	e := model.NewEdge(edgeType, na.ID, nb.ID)
	e.ID, _ = m.assignID(model.NoID)
	m.registerEdge(e, na, nb)
	return e
}

// Connect 按对象身份连接两个节点
func (m *Map) Connect(a, b *model.Node, edgeType model.EdgeType) *model.Edge {
	if a == nil || b == nil {
		return nil
	}
	return m.ConnectByIndices(m.nodeIndexByPointer(a), m.nodeIndexByPointer(b), edgeType)
}

// ConnectByIDs 按 ID 连接两个节点
func (m *Map) ConnectByIDs(a, b model.ID, edgeType model.EdgeType) *model.Edge {
	ia, okA := m.NodeIndex(a)
	ib, okB := m.NodeIndex(b)
	if !okA || !okB {
		return nil
	}
	return m.ConnectByIndices(ia, ib, edgeType)
}

// ConnectByNames 按名称 (精确匹配) 连接两个节点
func (m *Map) ConnectByNames(a, b string, edgeType model.EdgeType) *model.Edge {
	ia, ib := m.nodeIndexByName(a), m.nodeIndexByName(b)
	if ia < 0 || ib < 0 {
		return nil
	}
	return m.ConnectByIndices(ia, ib, edgeType)
}

// edgeBetween 按 a 的关联顺序找到第一条连接 a、b 的边
func (m *Map) edgeBetween(a, b int) *model.Edge {
	if a < 0 || b < 0 || a >= len(m.nodes) || b >= len(m.nodes) || a == b {
		return nil
	}
	na, nb := m.nodes[a], m.nodes[b]
	for _, eid := range na.EdgeIDs() {
		if e := m.edgeByID[eid]; e != nil && e.Touches(nb.ID) {
			return e
		}
	}
	return nil
}

// DisconnectByIndices 删除两个节点之间的第一条边，成功返回 true
func (m *Map) DisconnectByIndices(a, b int) bool {
	e := m.edgeBetween(a, b)
	if e == nil {
		return false
	}
	m.nodes[a].DetachEdge(e.ID)
	m.nodes[b].DetachEdge(e.ID)
	m.dropEdge(e.ID)
	return true
}

// Disconnect 按对象身份断开
func (m *Map) Disconnect(a, b *model.Node) bool {
	if a == nil || b == nil {
		return false
	}
	return m.DisconnectByIndices(m.nodeIndexByPointer(a), m.nodeIndexByPointer(b))
}

// DisconnectByIDs 按 ID 断开
func (m *Map) DisconnectByIDs(a, b model.ID) bool {
	ia, okA := m.NodeIndex(a)
	ib, okB := m.NodeIndex(b)
	if !okA || !okB {
		return false
	}
	return m.DisconnectByIndices(ia, ib)
}

// DisconnectByNames 按名称断开
func (m *Map) DisconnectByNames(a, b string) bool {
	return m.DisconnectByIndices(m.nodeIndexByName(a), m.nodeIndexByName(b))
}

// RemoveEdgeByID 按 ID 删除一条边 (与 Disconnect 不同，可以精确指定平行边中的一条)
func (m *Map) RemoveEdgeByID(id model.ID) bool {
	e, ok := m.edgeByID[id]
	if !ok {
		return false
	}
	for _, nid := range []model.ID{e.A, e.B} {
		if n := m.nodeByID[nid]; n != nil {
			n.DetachEdge(id)
		}
	}
	m.dropEdge(id)
	return true
}

// SetConnectionTypeByIndices 修改两个节点之间第一条边的类型
func (m *Map) SetConnectionTypeByIndices(a, b int, edgeType model.EdgeType) bool {
	if !edgeType.Valid() {
		return false
	}
	e := m.edgeBetween(a, b)
	if e == nil {
		return false
	}
	e.SetType(edgeType)
	return true
}

// SetConnectionType 按对象身份修改边类型
func (m *Map) SetConnectionType(a, b *model.Node, edgeType model.EdgeType) bool {
	if a == nil || b == nil {
		return false
	}
	return m.SetConnectionTypeByIndices(m.nodeIndexByPointer(a), m.nodeIndexByPointer(b), edgeType)
}

// SetConnectionTypeByIDs 按 ID 修改边类型
func (m *Map) SetConnectionTypeByIDs(a, b model.ID, edgeType model.EdgeType) bool {
	ia, okA := m.NodeIndex(a)
	ib, okB := m.NodeIndex(b)
	if !okA || !okB {
		return false
	}
	return m.SetConnectionTypeByIndices(ia, ib, edgeType)
}

// SetConnectionTypeByNames 按名称修改边类型
func (m *Map) SetConnectionTypeByNames(a, b string, edgeType model.EdgeType) bool {
	return m.SetConnectionTypeByIndices(m.nodeIndexByName(a), m.nodeIndexByName(b), edgeType)
}
