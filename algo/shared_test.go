package algo

import (
	"bytes"
	"errors"
	"strings"
	"sync"
	"testing"

	"campus-map/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSharedMapRevision(t *testing.T) {
	s := NewSharedMap(nil, nil)
	assert.Zero(t, s.Revision())

	err := s.Update(func(m *Map, _ *model.SavedPaths) error {
		return m.AddNode(model.NewNode(model.Coordinate{}))
	})
	require.NoError(t, err)
	assert.Equal(t, uint64(1), s.Revision())

	boom := errors.New("boom")
	err = s.Update(func(*Map, *model.SavedPaths) error { return boom })
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, uint64(1), s.Revision(), "失败的修改不增加版本号")

	s.Replace(NewMap(), nil)
	assert.Equal(t, uint64(2), s.Revision())
	_ = s.View(func(m *Map, paths *model.SavedPaths) error {
		assert.Zero(t, m.NNodes())
		assert.NotNil(t, paths)
		return nil
	})
}

func TestSharedMapEpoch(t *testing.T) {
	a := NewSharedMap(nil, nil)
	b := NewSharedMap(nil, nil)
	assert.NotEmpty(t, a.Epoch())
	assert.NotEqual(t, a.Epoch(), b.Epoch(), "两个实例的版本号都从 0 开始，必须靠 epoch 区分")

	epoch := a.Epoch()
	require.NoError(t, a.Update(func(*Map, *model.SavedPaths) error { return nil }))
	a.Replace(NewMap(), nil)
	assert.Equal(t, epoch, a.Epoch())
}

func TestSharedMapConcurrentAccess(t *testing.T) {
	s := NewSharedMap(NewMap(), model.NewSavedPaths())

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			_ = s.Update(func(m *Map, _ *model.SavedPaths) error {
				n := model.NewNode(model.NewCoordinate(float64(i), 0))
				if err := m.AddNode(n); err != nil {
					return err
				}
				if m.NNodes() > 1 {
					m.ConnectByIndices(0, m.NNodes()-1, model.EdgeSidewalk)
				}
				return nil
			})
		}(i)
		go func() {
			defer wg.Done()
			_ = s.View(func(m *Map, _ *model.SavedPaths) error {
				for _, e := range m.Edges() {
					_, okA := m.Node(e.A)
					_, okB := m.Node(e.B)
					assert.True(t, okA && okB)
				}
				return nil
			})
		}()
	}
	wg.Wait()

	assert.Equal(t, uint64(8), s.Revision())
	_ = s.View(func(m *Map, _ *model.SavedPaths) error {
		assert.Equal(t, 8, m.NNodes())
		assert.Equal(t, 7, m.NEdges())
		return nil
	})
}

func TestDump(t *testing.T) {
	m := NewMap()
	b, err := model.NewBuilding("Library", model.Rect{}, 3)
	require.NoError(t, err)
	require.NoError(t, m.AddBuilding(b))
	a := addNode(t, m, 1, 2, "Front Desk")
	c := addNode(t, m, 1, 3, "")
	require.NoError(t, m.SetNodeBuilding(a.ID, b.ID))
	m.Connect(a, c, model.EdgeElevatorShaft)
	mpo, err := model.NewMPO([]model.Coordinate{{Lon: 0, Lat: 0}}, model.MPOWater)
	require.NoError(t, err)
	require.NoError(t, m.AddMPO(mpo))

	var buf bytes.Buffer
	Dump(&buf, m, 1)
	out := buf.String()

	assert.True(t, strings.HasPrefix(out, "\tmap {\n"))
	assert.Contains(t, out, "names: Library")
	assert.Contains(t, out, "name: Front Desk")
	assert.Contains(t, out, "type: elevator shaft")
	assert.Contains(t, out, "type: water")
	assert.Contains(t, out, "\t\t\tnode ")

	buf.Reset()
	DumpPath(&buf, model.NewPath("", a.ID), 0)
	assert.Equal(t, "path (unnamed): [2]\n", buf.String())
}
