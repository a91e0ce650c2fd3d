package algo

import (
	"testing"

	"campus-map/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func addNode(t *testing.T, m *Map, lon, lat float64, name string) *model.Node {
	t.Helper()
	n := model.NewNode(model.NewCoordinate(lon, lat))
	n.SetName(name)
	require.NoError(t, m.AddNode(n))
	return n
}

func TestRemoveNodeCascade(t *testing.T) {
	m := NewMap()
	a := addNode(t, m, 0, 0, "A")
	b := addNode(t, m, 1, 1, "B")
	c := addNode(t, m, 2, 2, "C")

	require.NotNil(t, m.Connect(a, b, model.EdgeStairs))
	require.NotNil(t, m.Connect(a, c, model.EdgeStairs))
	assert.Equal(t, 2, m.NEdges())
	assert.Equal(t, 1, b.Degree())

	require.NoError(t, m.RemoveNode(a))
	assert.Equal(t, 0, m.NEdges())
	assert.Equal(t, 2, m.NNodes())
	assert.Equal(t, []*model.Node{b, c}, m.Nodes())
	assert.Zero(t, b.Degree())
	assert.Zero(t, c.Degree())

	_, ok := m.Node(a.ID)
	assert.False(t, ok)
}

func TestRemoveNodeLeavesNoReferences(t *testing.T) {
	m := NewMap()
	nodes := make([]*model.Node, 5)
	for i := range nodes {
		nodes[i] = addNode(t, m, float64(i), 0, "")
	}
	// 完全图，外加一条平行边
	for i := range nodes {
		for j := i + 1; j < len(nodes); j++ {
			m.ConnectByIndices(i, j, model.EdgeSidewalk)
		}
	}
	m.ConnectByIndices(0, 2, model.EdgeRoad)
	require.Equal(t, 11, m.NEdges())

	victim := nodes[2]
	require.NoError(t, m.RemoveNodeByID(victim.ID))

	assert.Equal(t, 6, m.NEdges())
	for _, e := range m.Edges() {
		assert.False(t, e.Touches(victim.ID))
	}
	for _, n := range m.Nodes() {
		assert.Equal(t, 3, n.Degree())
		for _, eid := range n.EdgeIDs() {
			e, ok := m.Edge(eid)
			require.True(t, ok, "关联表中不应有悬空的边")
			assert.True(t, e.Touches(n.ID))
		}
	}
}

func TestRemoveNodeVariants(t *testing.T) {
	m := NewMap()
	addNode(t, m, 0, 0, "a")
	addNode(t, m, 0, 1, "b")
	c := addNode(t, m, 0, 2, "c")

	assert.ErrorIs(t, m.RemoveNodeAt(3), model.ErrOutOfBoundsIndex)
	assert.ErrorIs(t, m.RemoveNodeByName("zzz"), model.ErrObjectNotFound)
	assert.ErrorIs(t, m.RemoveNodeByName(""), model.ErrInvalidParameter)
	assert.ErrorIs(t, m.RemoveNode(nil), model.ErrInvalidParameter)
	assert.ErrorIs(t, m.RemoveNode(model.NewNode(model.Coordinate{})), model.ErrObjectNotFound)
	assert.ErrorIs(t, m.RemoveNodeByID(model.NoID), model.ErrInvalidParameter)
	assert.ErrorIs(t, m.RemoveNodeByID(999), model.ErrObjectNotFound)

	require.NoError(t, m.RemoveNodeByName("b"))
	require.NoError(t, m.RemoveNodeAt(0))
	assert.Equal(t, []*model.Node{c}, m.Nodes())
}

func TestAddNodeValidation(t *testing.T) {
	m := NewMap()
	assert.ErrorIs(t, m.AddNode(nil), model.ErrInvalidParameter)

	n := model.NewNode(model.Coordinate{})
	n.BuildingID = 77
	assert.ErrorIs(t, m.AddNode(n), model.ErrObjectNotFound)

	first := addNode(t, m, 0, 0, "first")
	dup := model.NewNode(model.Coordinate{})
	dup.ID = first.ID
	assert.ErrorIs(t, m.AddNode(dup), model.ErrDuplicateParameter)

	// 预设 ID 会被保留，之后分配的 ID 不会与之冲突
	preset := model.NewNode(model.Coordinate{})
	preset.ID = 50
	require.NoError(t, m.AddNode(preset))
	next := addNode(t, m, 1, 1, "next")
	assert.Equal(t, model.ID(51), next.ID)
}

func TestAddRejectsUnstorableValues(t *testing.T) {
	m := NewMap()

	n := model.NewNode(model.Coordinate{})
	n.SetName("gate\x00")
	assert.ErrorIs(t, m.AddNode(n), model.ErrInvalidParameter)
	n = model.NewNode(model.Coordinate{})
	n.SetPicture("a\x00.png")
	assert.ErrorIs(t, m.AddNode(n), model.ErrInvalidParameter)

	b := &model.Building{Names: []string{"Library", "A\x00K"}}
	assert.ErrorIs(t, m.AddBuilding(b), model.ErrInvalidParameter)

	assert.ErrorIs(t, m.AddMPO(&model.MPO{Coords: []model.Coordinate{}, Type: model.MPOType(9)}), model.ErrInvalidParameter)
	assert.ErrorIs(t, m.AddMPO(&model.MPO{Coords: []model.Coordinate{}, Type: model.MPOTree, Name: "x\x00"}), model.ErrInvalidParameter)

	a := addNode(t, m, 0, 0, "a")
	c := addNode(t, m, 0, 1, "c")
	assert.ErrorIs(t, m.InsertEdge(model.NewEdge(model.EdgeType(0), a.ID, c.ID)), model.ErrInvalidParameter)

	assert.Zero(t, m.NBuildings())
	assert.Zero(t, m.NMPOs())
	assert.Equal(t, 2, m.NNodes())
	assert.Zero(t, m.NEdges())
}

func TestRemoveBuildingClearsReferences(t *testing.T) {
	m := NewMap()
	b, err := model.NewBuilding("Library", model.Rect{}, 2)
	require.NoError(t, err)
	require.NoError(t, m.AddBuilding(b))
	other, err := model.NewBuilding("Gym", model.Rect{}, 1)
	require.NoError(t, err)
	require.NoError(t, m.AddBuilding(other))

	n1 := addNode(t, m, 0, 0, "desk")
	n2 := addNode(t, m, 0, 1, "stacks")
	n3 := addNode(t, m, 0, 2, "court")
	require.NoError(t, m.SetNodeBuilding(n1.ID, b.ID))
	require.NoError(t, m.SetNodeBuilding(n2.ID, b.ID))
	require.NoError(t, m.SetNodeBuilding(n3.ID, other.ID))
	assert.Len(t, m.NodesInBuilding(b.ID), 2)
	assert.Same(t, b, m.NodeBuilding(n1.ID))

	require.NoError(t, m.RemoveBuildingByName("Library"))
	for _, n := range m.Nodes() {
		assert.NotEqual(t, b.ID, n.BuildingID)
	}
	assert.Equal(t, other.ID, n3.BuildingID)
	assert.Nil(t, m.NodeBuilding(n1.ID))
	assert.Equal(t, 1, m.NBuildings())

	assert.ErrorIs(t, m.SetNodeBuilding(n1.ID, b.ID), model.ErrObjectNotFound)
	assert.ErrorIs(t, m.RemoveBuildingAt(5), model.ErrOutOfBoundsIndex)
	assert.ErrorIs(t, m.RemoveBuilding(b), model.ErrObjectNotFound)
	assert.ErrorIs(t, m.RemoveBuildingByID(b.ID), model.ErrObjectNotFound)
}

func TestBuildingByAlias(t *testing.T) {
	m := NewMap()
	b, err := model.NewBuilding("Information Technology", model.Rect{}, 4)
	require.NoError(t, err)
	require.NoError(t, b.AddAlias("ITE"))
	require.NoError(t, m.AddBuilding(b))

	got, ok := m.BuildingByName("ITE")
	require.True(t, ok)
	assert.Same(t, b, got)
	_, ok = m.BuildingByName("ite")
	assert.False(t, ok)
}

func TestConnectNoOps(t *testing.T) {
	m := NewMap()
	a := addNode(t, m, 0, 0, "a")
	b := addNode(t, m, 0, 0.001, "b")
	stranger := model.NewNode(model.Coordinate{})

	assert.Nil(t, m.Connect(a, a, model.EdgeRoad))
	assert.Nil(t, m.Connect(a, stranger, model.EdgeRoad))
	assert.Nil(t, m.Connect(nil, b, model.EdgeRoad))
	assert.Nil(t, m.ConnectByNames("a", "missing", model.EdgeRoad))
	assert.Nil(t, m.ConnectByIndices(0, 9, model.EdgeRoad))
	assert.False(t, m.Disconnect(a, b))
	assert.False(t, m.SetConnectionType(a, b, model.EdgeRamp))
	assert.Zero(t, m.NEdges())

	// 未知的边类型不会建边
	assert.Nil(t, m.ConnectByIDs(a.ID, b.ID, model.EdgeType(0)))
	assert.Nil(t, m.ConnectByNames("a", "b", model.EdgeType(11)))
	assert.Nil(t, m.Connect(a, b, model.EdgeType(200)))
	assert.Zero(t, m.NEdges())
	assert.Zero(t, a.Degree())

	// 允许平行边
	e1 := m.ConnectByNames("a", "b", model.EdgeSidewalk)
	e2 := m.ConnectByIDs(a.ID, b.ID, model.EdgeHallway)
	require.NotNil(t, e1)
	require.NotNil(t, e2)
	assert.NotEqual(t, e1.ID, e2.ID)
	assert.Equal(t, 2, m.NEdges())
	assert.InDelta(t, 111.32, e1.Length, 0.1)

	// 修改和断开都作用于第一条边
	assert.False(t, m.SetConnectionTypeByIDs(a.ID, b.ID, model.EdgeType(0)))
	assert.Equal(t, model.EdgeSidewalk, e1.Type)
	assert.True(t, m.SetConnectionTypeByNames("b", "a", model.EdgeRamp))
	assert.Equal(t, model.EdgeRamp, e1.Type)
	assert.Equal(t, model.EdgeHallway, e2.Type)

	assert.True(t, m.DisconnectByIDs(a.ID, b.ID))
	assert.Equal(t, []*model.Edge{e2}, m.Edges())
	assert.Equal(t, []model.ID{e2.ID}, a.EdgeIDs())
	assert.Equal(t, []model.ID{e2.ID}, b.EdgeIDs())

	assert.True(t, m.RemoveEdgeByID(e2.ID))
	assert.False(t, m.RemoveEdgeByID(e2.ID))
	assert.Zero(t, a.Degree())
}

func TestInsertEdge(t *testing.T) {
	m := NewMap()
	a := addNode(t, m, 0, 0, "a")
	b := addNode(t, m, 1, 0, "b")

	assert.ErrorIs(t, m.InsertEdge(nil), model.ErrInvalidParameter)
	assert.ErrorIs(t, m.InsertEdge(model.NewEdge(model.EdgeRoad, a.ID, a.ID)), model.ErrInvalidParameter)
	assert.ErrorIs(t, m.InsertEdge(model.NewEdge(model.EdgeRoad, a.ID, 99)), model.ErrObjectNotFound)

	e := model.NewEdge(model.EdgeRoad, a.ID, b.ID)
	e.ID = 40
	require.NoError(t, m.InsertEdge(e))
	assert.Equal(t, model.ID(40), e.ID)
	assert.InDelta(t, 111319.49, e.Length, 1.0)

	dup := model.NewEdge(model.EdgeRoad, a.ID, b.ID)
	dup.ID = a.ID
	assert.ErrorIs(t, m.InsertEdge(dup), model.ErrDuplicateParameter)
}

func TestMoveNodeUpdatesLength(t *testing.T) {
	m := NewMap()
	a := addNode(t, m, 0, 0, "a")
	b := addNode(t, m, 1, 0, "b")
	e := m.Connect(a, b, model.EdgeRoad)
	require.NotNil(t, e)

	require.NoError(t, m.MoveNode(b.ID, model.NewCoordinate(2, 0)))
	assert.InDelta(t, 2*111319.49, e.Length, 2.0)
	assert.ErrorIs(t, m.MoveNode(999, model.Coordinate{}), model.ErrObjectNotFound)
}

func TestMPORegistry(t *testing.T) {
	m := NewMap()
	lake, err := model.NewMPO([]model.Coordinate{{Lon: 0, Lat: 0}, {Lon: 4, Lat: 0}, {Lon: 4, Lat: 4}, {Lon: 0, Lat: 4}}, model.MPOWater)
	require.NoError(t, err)
	require.NoError(t, lake.SetName("Lake"))
	tree, err := model.NewMPO([]model.Coordinate{{Lon: 1, Lat: 1}, {Lon: 2, Lat: 1}, {Lon: 2, Lat: 2}}, model.MPOTree)
	require.NoError(t, err)
	require.NoError(t, m.AddMPO(lake))
	require.NoError(t, m.AddMPO(tree))

	hits := m.PolygonsAt(model.NewCoordinate(1.8, 1.2))
	assert.Equal(t, []*model.MPO{lake, tree}, hits)
	assert.Equal(t, []*model.MPO{lake}, m.PolygonsAt(model.NewCoordinate(3, 3)))

	assert.ErrorIs(t, m.RemoveMPOByName("Pond"), model.ErrObjectNotFound)
	assert.ErrorIs(t, m.RemoveMPOAt(2), model.ErrOutOfBoundsIndex)
	require.NoError(t, m.RemoveMPOByName("Lake"))
	require.NoError(t, m.RemoveMPO(tree))
	assert.Zero(t, m.NMPOs())
	assert.ErrorIs(t, m.RemoveMPO(tree), model.ErrObjectNotFound)
}

func TestGeometryQueries(t *testing.T) {
	m := NewMap()
	_, ok := m.BoundingRect()
	assert.False(t, ok)
	assert.Nil(t, m.FindNearestNode(model.Coordinate{}, false))

	a := addNode(t, m, -1, 2, "a")
	b := addNode(t, m, 3, -4, "b")
	b.SetSelectable(true)

	r, ok := m.BoundingRect()
	require.True(t, ok)
	assert.Equal(t, model.NewRect(model.NewCoordinate(-1, -4), model.NewCoordinate(3, 2)), r)

	assert.Same(t, a, m.FindNearestNode(model.NewCoordinate(-1, 1.9), false))
	assert.Same(t, b, m.FindNearestNode(model.NewCoordinate(-1, 1.9), true))
}

func TestAutoDoorAdjacency(t *testing.T) {
	m := NewMap()
	a := addNode(t, m, 0, 0, "a")
	b := addNode(t, m, 0, 1, "b")
	c := addNode(t, m, 0, 2, "c")
	m.Connect(a, b, model.EdgeAutoDoor)
	m.Connect(b, c, model.EdgeDoor)

	assert.True(t, m.NodeAdjacentToAutoDoor(a.ID))
	assert.True(t, m.NodeAdjacentToAutoDoor(b.ID))
	assert.False(t, m.NodeAdjacentToAutoDoor(c.ID))
}

func TestRemoveNodeClearsActiveContext(t *testing.T) {
	m := NewMap()
	a := addNode(t, m, 0, 0, "a")
	b := addNode(t, m, 0, 0.001, "b")
	m.Connect(a, b, model.EdgeSidewalk)

	require.NoError(t, m.SetActiveStart(a.ID))
	require.NoError(t, m.SetActiveEnd(b.ID))
	_, err := m.FindBestPath()
	require.NoError(t, err)
	require.NotNil(t, m.ActivePath())

	require.NoError(t, m.RemoveNode(b))
	assert.Equal(t, model.NoID, m.ActiveEnd())
	assert.Equal(t, a.ID, m.ActiveStart())
	assert.Nil(t, m.ActivePath())
}

func TestClear(t *testing.T) {
	m := NewMap()
	a := addNode(t, m, 0, 0, "a")
	b := addNode(t, m, 0, 1, "b")
	m.Connect(a, b, model.EdgeRoad)
	m.Clear()
	assert.Zero(t, m.NNodes())
	assert.Zero(t, m.NEdges())
	assert.Zero(t, a.Degree())

	n := addNode(t, m, 0, 0, "again")
	assert.Equal(t, model.ID(1), n.ID)
}
