package ingest

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"campus-map/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `
# comment line
n:15, 89.1, -20.3, "commons east entrance", NOTABLE_LOCATION
n:16, 89.2, -20.3, "", JOIN   # a joint
n:3,  89.3, -20.4, "lab, room 2", notable_location

e:15, 16, ROAD
e: 16, 3, elevator_shaft
p: getting to class, 15, 16, 3
p:"back, again", 3, 15
`

func TestParse(t *testing.T) {
	res, err := Parse(strings.NewReader(sample))
	require.NoError(t, err)

	m := res.Map
	assert.Equal(t, 3, m.NNodes())
	assert.Equal(t, 2, m.NEdges())

	commons, ok := m.Node(res.Index[15])
	require.True(t, ok)
	assert.Equal(t, "commons east entrance", commons.Name)
	assert.Equal(t, model.NewCoordinate(89.1, -20.3), commons.Coord)
	assert.True(t, commons.Selectable)

	joint, ok := m.Node(res.Index[16])
	require.True(t, ok)
	assert.False(t, joint.HasName())
	assert.False(t, joint.Selectable)

	lab, ok := m.NodeByName("lab, room 2")
	require.True(t, ok)
	assert.True(t, lab.Selectable)

	edges := m.Edges()
	assert.Equal(t, model.EdgeRoad, edges[0].Type)
	assert.Equal(t, model.EdgeElevatorShaft, edges[1].Type)
	assert.Equal(t, res.Index[16], edges[1].A)
	assert.Equal(t, res.Index[3], edges[1].B)

	require.Equal(t, 2, res.Paths.Len())
	p, err := res.Paths.Get(0)
	require.NoError(t, err)
	assert.Equal(t, "getting to class", p.Name)
	assert.Equal(t, []model.ID{res.Index[15], res.Index[16], res.Index[3]}, p.NodeIDs)
	p, err = res.Paths.Get(1)
	require.NoError(t, err)
	assert.Equal(t, "back, again", p.Name)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  error
		line  string
	}{
		{"missing kind", "hello", model.ErrInvalidParameter, "第 1 行"},
		{"unknown kind", "x:1,2", model.ErrInvalidParameter, "第 1 行"},
		{"short node", "n:1, 2, 3", model.ErrInvalidParameter, "第 1 行"},
		{"bad coord", `n:1, east, 3, "a", JOIN`, model.ErrInvalidParameter, "第 1 行"},
		{"bad node type", `n:1, 1, 3, "a", DOOR`, model.ErrInvalidParameter, "第 1 行"},
		{"duplicate index", "n:1, 1, 1, \"\", JOIN\nn:1, 2, 2, \"\", JOIN", model.ErrDuplicateParameter, "第 2 行"},
		{"undefined node", "n:1, 1, 1, \"\", JOIN\n\ne:1, 2, ROAD", model.ErrObjectNotFound, "第 3 行"},
		{"self loop", "n:1, 1, 1, \"\", JOIN\ne:1, 1, ROAD", model.ErrInvalidParameter, "第 2 行"},
		{"bad edge type", "n:1, 1, 1, \"\", JOIN\nn:2, 1, 2, \"\", JOIN\ne:1, 2, LADDER", model.ErrInvalidParameter, "第 3 行"},
		{"unterminated quote", `n:1, 1, 1, "abc, JOIN`, model.ErrInvalidParameter, "第 1 行"},
		{"path without name", "p: , 1", model.ErrInvalidParameter, "第 1 行"},
		{"negative index", `n:-1, 1, 1, "", JOIN`, model.ErrInvalidParameter, "第 1 行"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.input))
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)
			assert.Contains(t, err.Error(), tt.line)
		})
	}
}

func TestSplitFields(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"1, 2, 3", []string{"1", "2", "3"}},
		{` 1 ,"a, b" , x `, []string{"1", "a, b", "x"}},
		{`"  padded  ", y`, []string{"  padded  ", "y"}},
		{`a, "#not comment", b # comment`, []string{"a", "#not comment", "b"}},
		{"", []string{""}},
	}
	for _, tt := range tests {
		got, err := splitFields(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	_, err := splitFields(`"a"b, c`)
	assert.ErrorIs(t, err, model.ErrInvalidParameter)
	_, err = splitFields(`x"a", c`)
	assert.ErrorIs(t, err, model.ErrInvalidParameter)
}

func TestParseFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "campus.txt")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0o644))
	res, err := ParseFile(path)
	require.NoError(t, err)
	assert.Equal(t, 3, res.Map.NNodes())

	_, err = ParseFile(filepath.Join(t.TempDir(), "missing.txt"))
	assert.Error(t, err)
}

func TestSeedData(t *testing.T) {
	res, err := ParseFile(filepath.Join("..", "data", "campus_map.txt"))
	require.NoError(t, err)
	assert.Equal(t, 9, res.Map.NNodes())
	assert.Equal(t, 10, res.Map.NEdges())
	assert.Equal(t, 2, res.Paths.Len())

	lib, ok := res.Map.NodeByName("Library Entrance")
	require.True(t, ok)
	assert.True(t, res.Map.NodeAdjacentToAutoDoor(res.Index[0]))
	assert.Equal(t, 1, lib.Degree())
}
