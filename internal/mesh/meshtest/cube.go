// Package meshtest provides the reference meshes used by the tests of several packages.
package meshtest

import "github.com/ecopia-map/geofiles/internal/mesh"

const CubeCrs = "urn:ogc:def:crs:OGC:2:84"

// CubeOrigin is the centroid of the vertices of Cube.
var CubeOrigin = []float64{14.2842798233032, 48.30284881591775, 279.807006835938}

func cubeFaces() []mesh.Face {
	indices := [][]int{
		{1, 2, 3}, {1, 3, 4}, {2, 5, 6}, {2, 6, 3}, {5, 7, 8}, {5, 8, 6},
		{7, 1, 4}, {7, 4, 8}, {4, 3, 6}, {4, 6, 8}, {7, 5, 2}, {7, 2, 1},
	}

	faces := make([]mesh.Face, len(indices))
	for i, idx := range indices {
		faces[i] = mesh.Face{Indices: idx}
	}
	return faces
}

// Cube returns a one metre cube with absolute WGS84 vertices.
func Cube() *mesh.File {
	return &mesh.File{
		Crs: CubeCrs,
		Vertices: [][]float64{
			{14.2842865755919, 48.3028533074941, 279.307006835938},
			{14.2842865755919, 48.3028533074941, 280.307006835938},
			{14.2842865755907, 48.3028443243414, 280.307006835938},
			{14.2842865755907, 48.3028443243414, 279.307006835938},
			{14.2842730710145, 48.3028533074941, 280.307006835938},
			{14.2842730710157, 48.3028443243414, 280.307006835938},
			{14.2842730710145, 48.3028533074941, 279.307006835938},
			{14.2842730710157, 48.3028443243414, 279.307006835938},
		},
		Objects: []*mesh.Object{{Name: "cube", Faces: cubeFaces()}},
	}
}

// LocalCube returns a one metre cube centered at (0,0,0) without any geo-reference.
func LocalCube() *mesh.File {
	return &mesh.File{
		Vertices: [][]float64{
			{-0.5, -0.5, 0.5},
			{-0.5, -0.5, -0.5},
			{-0.5, 0.5, -0.5},
			{-0.5, 0.5, 0.5},
			{0.5, -0.5, -0.5},
			{0.5, 0.5, -0.5},
			{0.5, -0.5, 0.5},
			{0.5, 0.5, 0.5},
		},
		Objects: []*mesh.Object{{Name: "cube", Faces: cubeFaces()}},
	}
}

// OriginCube returns LocalCube placed at CubeOrigin.
func OriginCube() *mesh.File {
	cube := LocalCube()
	cube.Crs = CubeCrs
	cube.Origin = append([]float64(nil), CubeOrigin...)
	return cube
}
