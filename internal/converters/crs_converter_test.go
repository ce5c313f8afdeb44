package converters

import (
	"errors"
	"testing"

	"github.com/ecopia-map/geofiles/internal/mesh/meshtest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type call struct {
	source, target string
	alwaysXY       bool
	coord          []float64
}

// recordingConverter records its calls and returns the coordinate unchanged,
// or shifted by offset when set.
type recordingConverter struct {
	calls  []call
	offset float64
	err    error
}

func (c *recordingConverter) ConvertCoordinate(sourceCrs string, targetCrs string, alwaysXY bool, coord []float64) ([]float64, error) {
	c.calls = append(c.calls, call{sourceCrs, targetCrs, alwaysXY, append([]float64(nil), coord...)})
	if c.err != nil {
		return nil, c.err
	}
	out := append([]float64(nil), coord...)
	out[0] += c.offset
	return out, nil
}

func (c *recordingConverter) Cleanup() {}

func TestConvertWGS84ToEpsg4326(t *testing.T) {
	cc := &recordingConverter{}
	cube := meshtest.Cube()

	res, err := NewCrsConverter(cc).Convert(cube, EPSG4326, true, false)
	require.NoError(t, err)

	assert.Equal(t, EPSG4326, res.Crs)
	for i, v := range res.Vertices {
		assert.Equal(t, cube.Vertices[i][1], v[0])
		assert.Equal(t, cube.Vertices[i][0], v[1])
		assert.Equal(t, cube.Vertices[i][2], v[2])
	}

	require.Len(t, cc.calls, len(cube.Vertices))
	assert.Equal(t, EPSG4326, cc.calls[0].source)
	assert.Equal(t, EPSG4326, cc.calls[0].target)
	assert.True(t, cc.calls[0].alwaysXY)
	assert.Equal(t, []float64{cube.Vertices[0][1], cube.Vertices[0][0], cube.Vertices[0][2]}, cc.calls[0].coord)
}

func TestConvertToWGS84SwapsOutput(t *testing.T) {
	cc := &recordingConverter{offset: 1}
	cube := meshtest.Cube()
	cube.Crs = "EPSG:31256"

	res, err := NewCrsConverter(cc).Convert(cube, WGS84, false, false)
	require.NoError(t, err)

	assert.Equal(t, "EPSG:31256", cc.calls[0].source)
	assert.Equal(t, EPSG4326, cc.calls[0].target)
	assert.Equal(t, cube.Vertices[0][1], res.Vertices[0][0])
	assert.Equal(t, cube.Vertices[0][0]+1, res.Vertices[0][1])
}

func TestConvertOtherCrsPassesThrough(t *testing.T) {
	cc := &recordingConverter{offset: 100}
	cube := meshtest.Cube()
	cube.Crs = "EPSG:31256"

	res, err := NewCrsConverter(cc).Convert(cube, "EPSG:3857", true, true)
	require.NoError(t, err)

	assert.Equal(t, "EPSG:3857", cc.calls[0].target)
	assert.Equal(t, cube.Vertices[0], cc.calls[0].coord)
	assert.InDelta(t, cube.Vertices[0][0]+100, res.Vertices[0][0], 1e-9)
	require.True(t, res.ContainsExtent())
	assert.InDelta(t, 14.2842865755919+100, res.MaxExtent[0], 1e-9)
}

func TestConvertOriginBasedOnlyConvertsOrigin(t *testing.T) {
	cc := &recordingConverter{}
	cube := meshtest.OriginCube()

	res, err := NewCrsConverter(cc).Convert(cube, EPSG4326, true, true)
	require.NoError(t, err)

	require.Len(t, cc.calls, 1)
	assert.Equal(t, []float64{meshtest.CubeOrigin[1], meshtest.CubeOrigin[0], meshtest.CubeOrigin[2]}, res.Origin)
	assert.Equal(t, cube.Vertices, res.Vertices)
	assert.Equal(t, []float64{0.5, 0.5, 0.5}, res.MaxExtent)
	assert.Equal(t, meshtest.CubeOrigin, cube.Origin)
}

func TestConvertDropsStaleExtent(t *testing.T) {
	cube := meshtest.Cube()
	cube.UpdateExtent()

	res, err := NewCrsConverter(&recordingConverter{}).Convert(cube, EPSG4326, true, false)
	require.NoError(t, err)
	assert.False(t, res.ContainsExtent())
}

func TestConvertErrors(t *testing.T) {
	_, err := NewCrsConverter(&recordingConverter{}).Convert(meshtest.LocalCube(), EPSG4326, true, false)
	assert.True(t, errors.Is(err, ErrNotGeoReferenced))

	failure := errors.New("projection failed")
	_, err = NewCrsConverter(&recordingConverter{err: failure}).Convert(meshtest.Cube(), "EPSG:3857", true, false)
	assert.True(t, errors.Is(err, failure))
}

func TestLonLat(t *testing.T) {
	vertex := []float64{48.3028533074941, 14.2842865755919, 279.307006835938}

	lon, lat, err := LonLat(vertex, EPSG4326)
	require.NoError(t, err)
	assert.Equal(t, vertex[1], lon)
	assert.Equal(t, vertex[0], lat)

	lon, lat, err = LonLat(vertex, WGS84)
	require.NoError(t, err)
	assert.Equal(t, vertex[0], lon)
	assert.Equal(t, vertex[1], lat)

	_, _, err = LonLat(vertex, "some_crs")
	assert.True(t, errors.Is(err, ErrUnsupportedCrs))
	assert.Contains(t, err.Error(), "some_crs")
}

func TestIsEllipsoidal(t *testing.T) {
	assert.True(t, IsEllipsoidal(WGS84))
	assert.True(t, IsEllipsoidal(EPSG4326))
	assert.False(t, IsEllipsoidal("EPSG:4326"))
	assert.False(t, IsEllipsoidal(""))
}
