package algo

import (
	"math"
	"testing"

	"campus-map/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 起点 S 和终点 E 之间有一段楼梯直连，另有一条人行道 + 坡道的绕行路线
func stairsOrRamp(t *testing.T) (*Map, *model.Node, *model.Node, *model.Node) {
	t.Helper()
	m := NewMap()
	s := addNode(t, m, 0, 0, "S")
	e := addNode(t, m, 0, 0.001, "E")
	mid := addNode(t, m, 0.001, 0.0005, "M")
	require.NotNil(t, m.Connect(s, e, model.EdgeStairs))
	require.NotNil(t, m.Connect(s, mid, model.EdgeSidewalk))
	require.NotNil(t, m.Connect(mid, e, model.EdgeRamp))
	return m, s, e, mid
}

func TestFindPathProfiles(t *testing.T) {
	m, s, e, mid := stairsOrRamp(t)

	walk := FindPath(m, s.ID, e.ID, Walker)
	require.True(t, walk.Found)
	assert.Equal(t, []model.ID{s.ID, e.ID}, walk.Path.NodeIDs)
	assert.InDelta(t, 1.5*111.32, walk.Cost, 0.1)
	require.Len(t, walk.Segments, 1)
	assert.Equal(t, model.EdgeStairs, walk.Segments[0].Type)

	chair := FindPath(m, s.ID, e.ID, Wheelchair)
	require.True(t, chair.Found)
	assert.Equal(t, []model.ID{s.ID, mid.ID, e.ID}, chair.Path.NodeIDs)
	for _, seg := range chair.Segments {
		assert.NotEqual(t, model.EdgeStairs, seg.Type)
	}
	assert.InDelta(t, chair.Segments[0].Distance+chair.Segments[1].Distance, chair.Distance, 1e-9)

	drive := FindPath(m, s.ID, e.ID, Driver)
	assert.False(t, drive.Found)
	assert.Nil(t, drive.Path)
}

func TestFindPathDefaultsToDistance(t *testing.T) {
	m, s, e, _ := stairsOrRamp(t)
	res := FindPath(m, s.ID, e.ID, nil)
	require.True(t, res.Found)
	assert.Equal(t, 2, res.Path.Len())
	assert.InDelta(t, res.Distance, res.Cost, 1e-9)
}

func TestFindPathSkipsUnusableCosts(t *testing.T) {
	m, s, e, mid := stairsOrRamp(t)
	noStairs := EdgeCostFunc(func(edge *model.Edge) float64 {
		switch edge.Type {
		case model.EdgeStairs:
			return -1
		case model.EdgeRamp:
			return math.NaN()
		}
		return edge.Length
	})
	res := FindPath(m, s.ID, e.ID, noStairs)
	assert.False(t, res.Found)

	res = FindPath(m, s.ID, mid.ID, noStairs)
	assert.True(t, res.Found)
}

func TestFindPathEdgeCases(t *testing.T) {
	m, s, _, _ := stairsOrRamp(t)

	same := FindPath(m, s.ID, s.ID, Walker)
	require.True(t, same.Found)
	assert.Equal(t, []model.ID{s.ID}, same.Path.NodeIDs)
	assert.Zero(t, same.Cost)

	assert.False(t, FindPath(m, s.ID, 999, Walker).Found)
	assert.False(t, FindPath(m, 999, s.ID, Walker).Found)

	lonely := addNode(t, m, 5, 5, "island")
	assert.False(t, FindPath(m, s.ID, lonely.ID, Walker).Found)
}

func TestFindBestPathUsesActiveContext(t *testing.T) {
	m, s, e, mid := stairsOrRamp(t)

	_, err := m.FindBestPath()
	assert.ErrorIs(t, err, model.ErrInvalidParameter)

	assert.ErrorIs(t, m.SetActiveStart(999), model.ErrObjectNotFound)
	require.NoError(t, m.SetActiveStart(s.ID))
	require.NoError(t, m.SetActiveEnd(e.ID))
	m.SetCostFunc(Wheelchair)

	res, err := m.FindBestPath()
	require.NoError(t, err)
	require.True(t, res.Found)
	assert.Equal(t, []model.ID{s.ID, mid.ID, e.ID}, m.ActivePath().NodeIDs)

	out := m.FormatPath(res)
	assert.Contains(t, out, "1. S")
	assert.Contains(t, out, "3. E")
	assert.Equal(t, "未找到路径", m.FormatPath(PathResult{}))
}

func TestProfiles(t *testing.T) {
	stairs := &model.Edge{Type: model.EdgeStairs, Length: 10}
	assert.True(t, math.IsInf(Wheelchair.Cost(stairs), 1))
	assert.True(t, math.IsInf(Deliverer.Cost(stairs), 1))
	assert.InDelta(t, 15, Walker.Cost(stairs), 1e-9)

	elevator := &model.Edge{Type: model.EdgeElevatorShaft}
	assert.InDelta(t, 30, Wheelchair.Cost(elevator), 1e-9)

	assert.True(t, Driver.Allows(model.EdgeRoad))
	assert.False(t, Driver.Allows(model.EdgeSidewalk))

	for _, name := range []string{"wheelchair", "Walker", " DRIVER ", "deliverer"} {
		p, ok := ProfileByName(name)
		require.True(t, ok, name)
		assert.NotNil(t, p)
	}
	p, ok := ProfileByName("")
	assert.True(t, ok)
	assert.Same(t, Walker, p)
	_, ok = ProfileByName("hovercraft")
	assert.False(t, ok)
}
