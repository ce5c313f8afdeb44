package converters

import (
	"errors"
	"testing"

	"github.com/ecopia-map/geofiles/internal/mesh/meshtest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromLocal(t *testing.T) {
	cube := meshtest.LocalCube()

	res, err := NewLocalConverter().FromLocal(cube, WGS84, meshtest.CubeOrigin, true, false)
	require.NoError(t, err)

	assert.Equal(t, WGS84, res.Crs)
	assert.Equal(t, meshtest.CubeOrigin, res.Origin)
	assert.Equal(t, cube.Vertices, res.Vertices)
	assert.False(t, cube.IsGeoReferenced())

	res.Origin[0] = 0
	assert.NotEqual(t, 0.0, meshtest.CubeOrigin[0])
}

func TestFromLocalAbsolute(t *testing.T) {
	res, err := NewLocalConverter().FromLocal(meshtest.LocalCube(), WGS84, meshtest.CubeOrigin, false, true)
	require.NoError(t, err)

	assert.False(t, res.IsOriginBased())
	assertPointsInDelta(t, expectedAbsoluteCube, res.Vertices, 1e-9)
	require.True(t, res.ContainsExtent())
	assert.InDelta(t, 280.307006835938, res.MaxExtent[2], 1e-9)
}

func TestFromLocalErrors(t *testing.T) {
	converter := NewLocalConverter()

	_, err := converter.FromLocal(meshtest.Cube(), WGS84, meshtest.CubeOrigin, true, false)
	assert.True(t, errors.Is(err, ErrAlreadyGeoReferenced))

	_, err = converter.FromLocal(meshtest.LocalCube(), WGS84, nil, true, false)
	assert.Error(t, err)

	_, err = converter.FromLocal(meshtest.LocalCube(), "EPSG:31256", meshtest.CubeOrigin, false, false)
	assert.True(t, errors.Is(err, ErrUnsupportedCrs))
}

func TestToLocal(t *testing.T) {
	res, err := NewLocalConverter().ToLocal(meshtest.Cube(), false)
	require.NoError(t, err)

	assert.False(t, res.IsGeoReferenced())
	assert.False(t, res.IsOriginBased())
	assertPointsInDelta(t, expectedLocalCube, res.Vertices, 1e-7)
}

func TestToLocalFromOriginBased(t *testing.T) {
	res, err := NewLocalConverter().ToLocal(meshtest.OriginCube(), true)
	require.NoError(t, err)

	assert.Equal(t, meshtest.LocalCube().Vertices, res.Vertices)
	assert.Equal(t, []float64{0.5, 0.5, 0.5}, res.MaxExtent)
}

func TestToLocalErrors(t *testing.T) {
	_, err := NewLocalConverter().ToLocal(meshtest.LocalCube(), false)
	assert.True(t, errors.Is(err, ErrNotGeoReferenced))
}
