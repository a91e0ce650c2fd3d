package db

import (
	"slices"
	"testing"

	"campus-map/algo"
	"campus-map/codec"
	"campus-map/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildMap(t *testing.T) *algo.Map {
	t.Helper()
	m := algo.NewMap()

	lib, err := model.NewBuilding("Library", model.NewRect(
		model.NewCoordinate(120.0, 30.0), model.NewCoordinate(120.001, 30.001)), 4)
	require.NoError(t, err)
	require.NoError(t, lib.AddAlias("Main Library"))
	require.NoError(t, m.AddBuilding(lib))

	coords := [][2]float64{{120.0, 30.0}, {120.0005, 30.0}, {120.0005, 30.0005}}
	names := []string{"Library Entrance", "", "Gym"}
	var ids []model.ID
	for i, c := range coords {
		n := model.NewNode(model.NewCoordinate(c[0], c[1]))
		n.SetName(names[i])
		n.SetSelectable(i != 1)
		if i == 0 {
			n.BuildingID = lib.ID
			n.SetFloor(1)
			n.SetPicture("lib.png")
		}
		require.NoError(t, m.AddNode(n))
		ids = append(ids, n.ID)
	}
	require.NotNil(t, m.ConnectByIDs(ids[0], ids[1], model.EdgeDoor))
	require.NotNil(t, m.ConnectByIDs(ids[1], ids[2], model.EdgeSidewalk))
	require.NotNil(t, m.ConnectByIDs(ids[2], ids[0], model.EdgeStairs))

	lake, err := model.NewMPO([]model.Coordinate{
		model.NewCoordinate(120.002, 30.002),
		model.NewCoordinate(120.003, 30.002),
		model.NewCoordinate(120.003, 30.003),
	}, model.MPOWater)
	require.NoError(t, err)
	require.NoError(t, lake.SetName("Lake"))
	require.NoError(t, m.AddMPO(lake))
	return m
}

func TestMapRowsRoundTrip(t *testing.T) {
	m := buildMap(t)
	rows, err := MapToRows(m)
	require.NoError(t, err)
	assert.Len(t, rows.Buildings, 1)
	assert.Len(t, rows.Nodes, 3)
	assert.Len(t, rows.Edges, 3)
	assert.Len(t, rows.MPOs, 1)
	assert.Equal(t, []string{"Library", "Main Library"}, []string(rows.Buildings[0].Names))

	// 数据库返回的顺序不可靠，恢复时按 Position 排序
	slices.Reverse(rows.Nodes)
	slices.Reverse(rows.Edges)

	restored, err := RowsToMap(rows)
	require.NoError(t, err)

	want, err := codec.EncodeMap(m)
	require.NoError(t, err)
	got, err := codec.EncodeMap(restored)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	n, ok := restored.NodeByName("Library Entrance")
	require.True(t, ok)
	assert.Equal(t, "Library", restored.NodeBuilding(n.ID).PrimaryName())
	assert.Equal(t, 2, n.Degree())
	for _, e := range restored.Edges() {
		assert.Greater(t, e.Length, 0.0)
	}
}

func TestRowsToMapErrors(t *testing.T) {
	t.Run("dangling edge", func(t *testing.T) {
		rows, err := MapToRows(buildMap(t))
		require.NoError(t, err)
		rows.Edges[0].B = 999
		_, err = RowsToMap(rows)
		assert.ErrorIs(t, err, model.ErrObjectNotFound)
	})
	t.Run("bad edge type", func(t *testing.T) {
		rows, err := MapToRows(buildMap(t))
		require.NoError(t, err)
		rows.Edges[1].Type = 0
		_, err = RowsToMap(rows)
		assert.ErrorIs(t, err, model.ErrInvalidParameter)
	})
	t.Run("duplicate id", func(t *testing.T) {
		rows, err := MapToRows(buildMap(t))
		require.NoError(t, err)
		rows.Nodes[2].ID = rows.Nodes[1].ID
		_, err = RowsToMap(rows)
		assert.ErrorIs(t, err, model.ErrDuplicateParameter)
	})
	t.Run("unknown building", func(t *testing.T) {
		rows, err := MapToRows(buildMap(t))
		require.NoError(t, err)
		rows.Buildings = nil
		_, err = RowsToMap(rows)
		assert.ErrorIs(t, err, model.ErrObjectNotFound)
	})
	t.Run("corrupt polygon", func(t *testing.T) {
		rows, err := MapToRows(buildMap(t))
		require.NoError(t, err)
		rows.MPOs[0].Polygon = rows.MPOs[0].Polygon[:5]
		_, err = RowsToMap(rows)
		assert.ErrorIs(t, err, codec.ErrTruncatedOrCorrupt)
	})
}

func TestPathRows(t *testing.T) {
	s := model.NewSavedPaths()
	require.NoError(t, s.Add(model.NewPath("to gym", 2, 3, 4)))
	require.NoError(t, s.Add(model.NewPath("", 4, 2)))

	rows := PathsToRows(s)
	require.Len(t, rows, 2)
	assert.Equal(t, []int64{2, 3, 4}, []int64(rows[0].NodeIDs))

	slices.Reverse(rows)
	back := RowsToPaths(rows)
	require.Equal(t, 2, back.Len())
	p, err := back.Get(0)
	require.NoError(t, err)
	assert.Equal(t, "to gym", p.Name)
	assert.Equal(t, []model.ID{2, 3, 4}, p.NodeIDs)
	p, err = back.Get(1)
	require.NoError(t, err)
	assert.Equal(t, []model.ID{4, 2}, p.NodeIDs)
}
