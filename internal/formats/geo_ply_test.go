package formats

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/ecopia-map/geofiles/internal/mesh"
	"github.com/ecopia-map/geofiles/internal/mesh/meshtest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const geoPlyOriginCubeHeader = `geoply
format ascii 1.0
crs urn:ogc:def:crs:OGC:2:84
origin 14.2842798233032 48.30284881591775 279.807006835938
element vertex 8
property double x
property double y
property double z
element face 12
property list uchar int vertex_index
end_header
-0.5 -0.5 0.5
`

func TestGeoPlyWriteOriginCube(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewGeoPly().Write(&buf, meshtest.OriginCube()))

	text := buf.String()
	assert.True(t, strings.HasPrefix(text, geoPlyOriginCubeHeader), text)
	assert.True(t, strings.HasSuffix(text, "\n3 6 1 0\n"), text)
}

func TestGeoPlyRoundTrip(t *testing.T) {
	data := meshtest.Cube()
	data.MinExtent = []float64{14.2842730710145, 48.3028443243414, 279.307006835938}
	data.MaxExtent = []float64{14.2842865755919, 48.3028533074941, 280.307006835938}
	data.Scaling = []float64{2, 2, 2}
	data.Rotation = []float64{90, 0, 0}
	data.Translation = []float64{10, 50, 100}
	data.MetaInformation = map[string]string{mesh.TranslationUnitKey: "inch", mesh.RotationUnitKey: "rad"}
	data.Objects[0].MetaInformation = map[string]string{"type": "GenericObject"}

	var buf bytes.Buffer
	require.NoError(t, NewGeoPly().Write(&buf, data))
	assert.Contains(t, buf.String(), "obj_info ru rad\nobj_info tu inch\nobj_info type GenericObject\n")

	res, err := NewGeoPly().Read(&buf)
	require.NoError(t, err)
	assert.Equal(t, data.Crs, res.Crs)
	assert.Equal(t, data.Vertices, res.Vertices)
	assert.Equal(t, data.MinExtent, res.MinExtent)
	assert.Equal(t, data.MaxExtent, res.MaxExtent)
	assert.Equal(t, data.Scaling, res.Scaling)
	assert.Equal(t, data.Rotation, res.Rotation)
	assert.Equal(t, data.Translation, res.Translation)
	assert.Equal(t, "inch", res.TranslationUnit())
	assert.Equal(t, "rad", res.RotationUnit())
	require.Len(t, res.Objects, 1)
	assert.Equal(t, "GenericObject", res.Objects[0].MetaInformation["type"])
	assert.Equal(t, data.Objects[0].Faces, res.Objects[0].Faces)
}

func TestGeoPlyReadPlainPly(t *testing.T) {
	input := `ply
format ascii 1.0
comment exported
element vertex 3
property float x
property float y
property float z
property uchar red
element face 1
property list uchar int vertex_index
end_header
0 0 0 255
1 0 0 255
0 1 0 255
3 0 1 2
`
	res, err := NewGeoPly().Read(strings.NewReader(input))
	require.NoError(t, err)
	assert.False(t, res.IsGeoReferenced())
	assert.Equal(t, [][]float64{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}}, res.Vertices)
	assert.Equal(t, []mesh.Face{{Indices: []int{1, 2, 3}}}, res.Objects[0].Faces)
}

func TestGeoPlyWriteErrors(t *testing.T) {
	multi := meshtest.Cube()
	multi.Objects = append(multi.Objects, &mesh.Object{Name: "other"})
	assert.True(t, errors.Is(NewGeoPly().Write(&bytes.Buffer{}, multi), ErrSingleObject))

	transformed := meshtest.Cube()
	transformed.Objects[0].Scaling = []float64{5, 5, 5}
	assert.True(t, errors.Is(NewGeoPly().Write(&bytes.Buffer{}, transformed), mesh.ErrUnsupportedLocalTransform))

	invalid := meshtest.Cube()
	invalid.Objects[0].Faces = []mesh.Face{{Indices: []int{1, 2, 9}}}
	assert.Error(t, NewGeoPly().Write(&bytes.Buffer{}, invalid))
}

func TestGeoPlyReadErrors(t *testing.T) {
	tests := []struct {
		input string
		want  error
	}{
		{"", ErrMalformed},
		{"geoply\nformat ascii 1.0\n", ErrMalformed},
		{"ply\nformat binary_little_endian 1.0\nend_header\n", ErrNotSupported},
		{"geoply\nformat ascii 1.0\nelement edge 2\nend_header\n", ErrNotSupported},
		{"geoply\nformat ascii 1.0\norigin 1 x 3\nend_header\n", ErrMalformed},
		{"geoply\nformat ascii 1.0\nelement face 1\nend_header\n3 0 1\n", ErrMalformed},
		{"geoply\nformat ascii 1.0\nelement vertex 1\nend_header\n1 2\n", ErrMalformed},
		{"geoply\nformat ascii 1.0\nunknown keyword\nend_header\n", ErrMalformed},
		{"geoply\nformat ascii 1.0\nextent 1 2 3\nend_header\n", ErrMalformed},
	}
	for _, tt := range tests {
		_, err := NewGeoPly().Read(strings.NewReader(tt.input))
		assert.True(t, errors.Is(err, tt.want), "%q: %v", tt.input, err)
	}
}
