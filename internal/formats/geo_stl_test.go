package formats

import (
	"bytes"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/ecopia-map/geofiles/internal/mesh"
	"github.com/ecopia-map/geofiles/internal/mesh/meshtest"
	"github.com/hschendel/stl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGeoStlRoundTripOriginBased(t *testing.T) {
	data := meshtest.OriginCube()

	var buf bytes.Buffer
	require.NoError(t, NewGeoStl().Write(&buf, data))

	text := buf.String()
	assert.True(t, strings.HasPrefix(text, "geosolid urn:ogc:def:crs:OGC:2:84 14.2842798233032 48.30284881591775 279.807006835938 cube\n"))
	assert.True(t, strings.HasSuffix(text, "endgeosolid\n"))
	assert.NotContains(t, text, "endsolid")
	assert.Equal(t, 12, strings.Count(text, "endfacet"))

	res, err := NewGeoStl().Read(&buf)
	require.NoError(t, err)
	assert.Equal(t, data.Crs, res.Crs)
	assert.Equal(t, data.Origin, res.Origin)
	require.Len(t, res.Objects, 1)
	assert.Equal(t, "cube", res.Objects[0].Name)
	require.Len(t, res.Objects[0].Faces, 12)

	// vertices are renumbered by first use, compare the referenced coordinates
	assert.Len(t, res.Vertices, 8)
	for i, face := range res.Objects[0].Faces {
		for j, idx := range face.Indices {
			got, err := res.Vertex(idx)
			require.NoError(t, err)
			want, err := data.Vertex(data.Objects[0].Faces[i].Indices[j])
			require.NoError(t, err)
			assert.Equal(t, want, got)
		}
	}
}

func TestGeoStlHeaderWithoutOrigin(t *testing.T) {
	crs, origin, name, err := parseGeoSolidHeader("geosolid urn:ogc:def:crs:EPSG::4326 building 12")
	require.NoError(t, err)
	assert.Equal(t, "urn:ogc:def:crs:EPSG::4326", crs)
	assert.Nil(t, origin)
	assert.Equal(t, "building 12", name)

	crs, origin, name, err = parseGeoSolidHeader("geosolid urn:ogc:def:crs:OGC:2:84 1 2 3")
	require.NoError(t, err)
	assert.Equal(t, "urn:ogc:def:crs:OGC:2:84", crs)
	assert.Equal(t, []float64{1, 2, 3}, origin)
	assert.Equal(t, "", name)

	_, _, _, err = parseGeoSolidHeader("geosolid")
	assert.True(t, errors.Is(err, ErrMalformed))
}

func TestGeoStlNormals(t *testing.T) {
	data := meshtest.OriginCube()
	data.Normals = [][]float64{{0, 0, 1}, {0, 1, 0}}
	data.Objects[0].Faces = []mesh.Face{
		{Indices: []int{1, 2, 3}, NormalIndices: []int{1, 1, 1}},
		{Indices: []int{1, 3, 4}, NormalIndices: []int{1, 2, 2}},
		{Indices: []int{2, 5, 6}},
	}

	var buf bytes.Buffer
	require.NoError(t, NewGeoStl().Write(&buf, data))

	res, err := NewGeoStl().Read(&buf)
	require.NoError(t, err)
	faces := res.Objects[0].Faces
	require.Len(t, faces, 3)

	n, err := res.Normal(faces[0].NormalIndices[0])
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 0, 1}, n)

	n, err = res.Normal(faces[1].NormalIndices[0])
	require.NoError(t, err)
	assert.InDelta(t, 2.0/3, n[1], 1e-15)
	assert.InDelta(t, 1.0/3, n[2], 1e-15)

	assert.Empty(t, faces[2].NormalIndices)
}

func TestGeoStlAbsoluteRoundTripKeepsPrecision(t *testing.T) {
	data := meshtest.Cube()

	var buf bytes.Buffer
	require.NoError(t, NewGeoStl().Write(&buf, data))
	assert.Contains(t, buf.String(), "    vertex 14.2842865755919 48.3028533074941 279.307006835938\n")

	res, err := NewGeoStl().Read(&buf)
	require.NoError(t, err)
	require.Len(t, res.Objects[0].Faces, 12)

	maxError := 0.0
	for i, face := range res.Objects[0].Faces {
		for j, idx := range face.Indices {
			got, err := res.Vertex(idx)
			require.NoError(t, err)
			want, err := data.Vertex(data.Objects[0].Faces[i].Indices[j])
			require.NoError(t, err)
			for k := range want {
				maxError = math.Max(maxError, math.Abs(want[k]-got[k]))
			}
		}
	}
	assert.Zero(t, maxError)
}

func TestGeoStlReadBinary(t *testing.T) {
	solid := &stl.Solid{
		Name: "plate",
		Triangles: []stl.Triangle{
			{Normal: stl.Vec3{0, 0, 1}, Vertices: [3]stl.Vec3{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}}},
			{Normal: stl.Vec3{0, 0, 1}, Vertices: [3]stl.Vec3{{1, 0, 0}, {1, 1, 0}, {0, 1, 0}}},
		},
	}
	var buf bytes.Buffer
	require.NoError(t, solid.WriteAll(&buf))

	res, err := NewGeoStl().Read(&buf)
	require.NoError(t, err)
	assert.False(t, res.IsGeoReferenced())
	assert.Len(t, res.Vertices, 4)
	assert.Equal(t, [][]float64{{0, 0, 1}}, res.Normals)
	require.Len(t, res.Objects, 1)
	assert.Equal(t, []mesh.Face{
		{Indices: []int{1, 2, 3}, NormalIndices: []int{1, 1, 1}},
		{Indices: []int{2, 4, 3}, NormalIndices: []int{1, 1, 1}},
	}, res.Objects[0].Faces)
}

func TestGeoStlReadErrors(t *testing.T) {
	for _, input := range []string{
		"",
		"geosolid urn:ogc:def:crs:OGC:2:84 cube\n",
		"solid cube\nfacet normal 0 0 1\nouter loop\nvertex 0 0 0\nvertex 1 0 0\nendloop\nendfacet\nendsolid cube\n",
		"solid cube\nfacet normal 0 0 x\nendsolid cube\n",
		"geosolid urn:ogc:def:crs:OGC:2:84 cube\nendsolid cube\n",
		"cube\n",
	} {
		_, err := NewGeoStl().Read(strings.NewReader(input))
		assert.True(t, errors.Is(err, ErrMalformed), input)
	}
}

func TestGeoStlLocalMeshIsPlainStl(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewGeoStl().Write(&buf, meshtest.LocalCube()))
	assert.True(t, strings.HasPrefix(buf.String(), "solid cube\n"))
	assert.True(t, strings.HasSuffix(buf.String(), "endsolid cube\n"))

	res, err := NewGeoStl().Read(&buf)
	require.NoError(t, err)
	assert.False(t, res.IsGeoReferenced())
	assert.Len(t, res.Vertices, 8)
}

func TestGeoStlWriteErrors(t *testing.T) {
	pending := meshtest.OriginCube()
	pending.Translation = []float64{1, 0, 0}
	assert.True(t, errors.Is(NewGeoStl().Write(&bytes.Buffer{}, pending), mesh.ErrPendingTransform))

	quads := meshtest.OriginCube()
	quads.Objects[0].Faces = []mesh.Face{{Indices: []int{1, 2, 3, 4}}}
	assert.True(t, errors.Is(NewGeoStl().Write(&bytes.Buffer{}, quads), ErrNotTriangulated))
}

func TestGeoStlIdentityTransformIsWritten(t *testing.T) {
	data := meshtest.OriginCube()
	data.Scaling = []float64{1, 1, 1}
	data.Rotation = []float64{0, 0, 0}
	assert.NoError(t, NewGeoStl().Write(&bytes.Buffer{}, data))
}
