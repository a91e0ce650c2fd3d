package utils

import (
	"testing"

	"campus-map/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHaversineDistance(t *testing.T) {
	p := model.NewCoordinate(116.397, 39.909)
	assert.Zero(t, HaversineDistance(p, p))

	// 赤道上经度相差 1 度约 111.3 公里
	d := HaversineDistance(model.NewCoordinate(0, 0), model.NewCoordinate(1, 0))
	assert.InDelta(t, 111319.49, d, 1.0)

	assert.InDelta(t, d, HaversineDistance(model.NewCoordinate(1, 0), model.NewCoordinate(0, 0)), 1e-9)

	// 球面模型下纬度 1 度与赤道上经度 1 度等长，高纬度的经度 1 度明显更短
	assert.InDelta(t, d, HaversineDistance(model.NewCoordinate(0, 0), model.NewCoordinate(0, 1)), 1e-6)
	assert.InDelta(t, d/2, HaversineDistance(model.NewCoordinate(0, 60), model.NewCoordinate(1, 60)), 5.0)
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("admin123")
	require.NoError(t, err)
	assert.NotEqual(t, "admin123", hash)
	assert.True(t, CheckPassword(hash, "admin123"))
	assert.False(t, CheckPassword(hash, "wrong"))
}
