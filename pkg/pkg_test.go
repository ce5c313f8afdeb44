package pkg

import (
	"path/filepath"
	"testing"

	"github.com/ecopia-map/geofiles/internal/converters"
	"github.com/ecopia-map/geofiles/internal/formats"
	"github.com/ecopia-map/geofiles/internal/mesh"
	"github.com/stretchr/testify/require"
)

// shiftingConverter moves every coordinate by offset along the first axis.
type shiftingConverter struct {
	calls  int
	offset float64
}

func (c *shiftingConverter) ConvertCoordinate(sourceCrs string, targetCrs string, alwaysXY bool, coord []float64) ([]float64, error) {
	c.calls++
	out := append([]float64(nil), coord...)
	out[0] += c.offset
	return out, nil
}

func (c *shiftingConverter) Cleanup() {}

type fakeAlgorithmManager struct {
	converter *shiftingConverter
}

func (m *fakeAlgorithmManager) GetCoordinateConverterAlgorithm() converters.CoordinateConverter {
	return m.converter
}

func (m *fakeAlgorithmManager) GetFormats() ([]formats.Format, error) {
	return formats.All(), nil
}

// writeMesh stores data as GeoOBJ under name, name keeps its extension.
func writeMesh(t *testing.T, dir, name string, data *mesh.File) string {
	t.Helper()
	path, err := formats.WriteFile(formats.NewGeoObj(), filepath.Join(dir, name), data)
	require.NoError(t, err)
	return path
}

func readMesh(t *testing.T, path string) *mesh.File {
	t.Helper()
	format, err := formats.ForPath(path)
	require.NoError(t, err)
	data, err := formats.ReadFile(format, path)
	require.NoError(t, err)
	return data
}
