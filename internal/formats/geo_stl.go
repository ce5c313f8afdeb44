package formats

import (
	"bytes"
	"encoding/binary"
	"io"
	"strings"

	"github.com/ecopia-map/geofiles/internal/mesh"
	"github.com/ecopia-map/geofiles/tools"
	"github.com/hschendel/stl"
	pkgerrors "github.com/pkg/errors"
)

const (
	geoSolidKeyword    = "geosolid"
	endGeoSolidKeyword = "endgeosolid"
	solidKeyword       = "solid"
	endSolidKeyword    = "endsolid"
	defaultSolidName   = "mesh"

	binaryHeaderSize   = 80
	binaryTriangleSize = 50
)

// GeoStl is ASCII STL framed by "geosolid <crs> [ox oy oz] <name>" and "endgeosolid".
// Local meshes are written as plain ASCII STL. Coordinates are written with full float64
// precision, binary STL input is read through the stl package.
type GeoStl struct{}

func NewGeoStl() *GeoStl {
	return &GeoStl{}
}

func (g *GeoStl) Name() string {
	return "geostl"
}

func (g *GeoStl) FileExtension() string {
	return ".geostl"
}

func (g *GeoStl) SupportsOriginBase() bool {
	return true
}

// Read parses a GeoSTL, an ASCII STL or a binary STL file. Identical vertices and normals are
// stored once.
func (g *GeoStl) Read(r io.Reader) (*mesh.File, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	if !isBinarySolid(content) {
		return readASCIISolid(content)
	}

	solid, err := stl.ReadAll(bytes.NewReader(content))
	if err != nil {
		return nil, pkgerrors.Wrap(err, "binary stl")
	}
	b := newSolidBuilder(&mesh.File{}, solid.Name)
	for _, triangle := range solid.Triangles {
		var corners [3][3]float64
		for i, v := range triangle.Vertices {
			corners[i] = fromVec3(v)
		}
		b.add(fromVec3(triangle.Normal), corners)
	}
	return b.res, nil
}

// isBinarySolid matches the triangle count of the 80 byte header against the content length, the
// header alone cannot tell binary STL apart as it may start with "solid" as well.
func isBinarySolid(content []byte) bool {
	if len(content) < binaryHeaderSize+4 {
		return false
	}
	count := binary.LittleEndian.Uint32(content[binaryHeaderSize:])
	return int64(len(content)) == binaryHeaderSize+4+int64(count)*binaryTriangleSize
}

func readASCIISolid(content []byte) (*mesh.File, error) {
	lines := newLineReader(bytes.NewReader(content))
	header, ok := lines.nextContent()
	if !ok {
		return nil, pkgerrors.Wrap(ErrMalformed, "empty stl")
	}

	res := &mesh.File{}
	endKeyword := endSolidKeyword
	fields := strings.Fields(header)
	if fields[0] != solidKeyword && fields[0] != geoSolidKeyword {
		return nil, lines.errorf("expected %s or %s, got %q", solidKeyword, geoSolidKeyword, fields[0])
	}
	name := strings.Join(fields[1:], " ")
	if fields[0] == geoSolidKeyword {
		var err error
		if res.Crs, res.Origin, name, err = parseGeoSolidHeader(header); err != nil {
			return nil, err
		}
		endKeyword = endGeoSolidKeyword
	}
	b := newSolidBuilder(res, name)

	var normal [3]float64
	var corners [3][3]float64
	inFacet, numCorners := false, 0
	for {
		line, ok := lines.nextContent()
		if !ok {
			if err := lines.err(); err != nil {
				return nil, err
			}
			return nil, lines.errorf("missing %s", endKeyword)
		}
		fields := strings.Fields(line)

		var err error
		switch fields[0] {
		case "facet":
			if inFacet || len(fields) != 5 || fields[1] != "normal" {
				return nil, lines.errorf("unexpected %q", line)
			}
			normal, err = parseVec3(fields[2:])
			inFacet, numCorners = true, 0
		case "outer", "endloop":
		case "vertex":
			if !inFacet || numCorners == 3 {
				return nil, lines.errorf("unexpected vertex")
			}
			corners[numCorners], err = parseVec3(fields[1:])
			numCorners++
		case "endfacet":
			if !inFacet || numCorners != 3 {
				return nil, lines.errorf("facet with %d vertices", numCorners)
			}
			b.add(normal, corners)
			inFacet = false
		case endKeyword:
			if inFacet {
				return nil, lines.errorf("unterminated facet")
			}
			return res, nil
		default:
			return nil, lines.errorf("unknown keyword %q", fields[0])
		}
		if err != nil {
			return nil, lines.errorf("%s: %v", fields[0], err)
		}
	}
}

func parseVec3(fields []string) ([3]float64, error) {
	var v [3]float64
	if len(fields) != 3 {
		return v, pkgerrors.Errorf("expected 3 values, got %d", len(fields))
	}
	values, err := parseFloats(fields)
	if err != nil {
		return v, err
	}
	copy(v[:], values)
	return v, nil
}

// solidBuilder collects triangles into a single object, numbering vertices and normals by first use.
type solidBuilder struct {
	res      *mesh.File
	obj      *mesh.Object
	vertices map[[3]float64]int
	normals  map[[3]float64]int
}

func newSolidBuilder(res *mesh.File, name string) *solidBuilder {
	obj := &mesh.Object{Name: name, MetaInformation: map[string]string{}}
	res.Objects = []*mesh.Object{obj}
	return &solidBuilder{
		res:      res,
		obj:      obj,
		vertices: map[[3]float64]int{},
		normals:  map[[3]float64]int{},
	}
}

func (b *solidBuilder) add(normal [3]float64, corners [3][3]float64) {
	face := mesh.Face{Indices: make([]int, 3)}
	for i, c := range corners {
		face.Indices[i] = indexOf(b.vertices, &b.res.Vertices, c)
	}
	if normal != ([3]float64{}) {
		n := indexOf(b.normals, &b.res.Normals, normal)
		face.NormalIndices = []int{n, n, n}
	}
	b.obj.Faces = append(b.obj.Faces, face)
}

func indexOf(index map[[3]float64]int, points *[][]float64, p [3]float64) int {
	if idx, ok := index[p]; ok {
		return idx
	}
	*points = append(*points, []float64{p[0], p[1], p[2]})
	index[p] = len(*points)
	return len(*points)
}

func fromVec3(v stl.Vec3) [3]float64 {
	return [3]float64{float64(v[0]), float64(v[1]), float64(v[2])}
}

// parseGeoSolidHeader splits "geosolid <crs> [ox oy oz] <name>".
func parseGeoSolidHeader(header string) (crs string, origin []float64, name string, err error) {
	fields := strings.Fields(header)[1:]
	if len(fields) == 0 {
		return "", nil, "", pkgerrors.Wrap(ErrMalformed, "geosolid without crs")
	}
	crs, fields = fields[0], fields[1:]

	if len(fields) >= 3 {
		if o, parseErr := parseFloats(fields[:3]); parseErr == nil {
			origin, fields = o, fields[3:]
		}
	}
	return crs, origin, strings.Join(fields, " "), nil
}

// Write serializes every triangle of every object. Transformations must be applied beforehand.
func (g *GeoStl) Write(w io.Writer, data *mesh.File) error {
	if data.HasPendingTransform() {
		return mesh.ErrPendingTransform
	}

	name := defaultSolidName
	if len(data.Objects) > 0 && data.Objects[0].Name != "" {
		name = strings.Join(strings.Fields(data.Objects[0].Name), "_")
	}

	ew := &errWriter{w: w}
	if data.IsGeoReferenced() {
		header := []string{geoSolidKeyword, data.Crs}
		if data.IsOriginBased() {
			header = append(header, tools.FormatPoint(data.Origin, " "))
		}
		ew.printf("%s %s\n", strings.Join(header, " "), name)
	} else {
		ew.printf("%s %s\n", solidKeyword, name)
	}

	for _, o := range data.Objects {
		for _, face := range o.Faces {
			normal, corners, err := stlFacet(data, face)
			if err != nil {
				return pkgerrors.Wrapf(err, "object %q", o.Name)
			}
			ew.printf("facet normal %s\n  outer loop\n", tools.FormatPoint(normal, " "))
			for _, c := range corners {
				ew.printf("    vertex %s\n", tools.FormatPoint(c, " "))
			}
			ew.printf("  endloop\nendfacet\n")
		}
	}

	if data.IsGeoReferenced() {
		ew.printf("%s\n", endGeoSolidKeyword)
	} else {
		ew.printf("%s %s\n", endSolidKeyword, name)
	}
	return ew.err
}

// stlFacet returns the facet normal, the mean of the referenced normals or zero, and the corners of face.
func stlFacet(data *mesh.File, face mesh.Face) ([]float64, [][]float64, error) {
	if len(face.Indices) != 3 {
		return nil, nil, pkgerrors.Wrapf(ErrNotTriangulated, "face with %d vertices", len(face.Indices))
	}

	corners := make([][]float64, 3)
	for i, idx := range face.Indices {
		v, err := data.Vertex(idx)
		if err != nil {
			return nil, nil, err
		}
		corners[i] = toPoint3(v)
	}

	normal := make([]float64, 3)
	if len(face.NormalIndices) == 0 {
		return normal, corners, nil
	}
	for _, idx := range face.NormalIndices {
		n, err := data.Normal(idx)
		if err != nil {
			return nil, nil, err
		}
		for i := 0; i < 3 && i < len(n); i++ {
			normal[i] += n[i]
		}
	}
	for i := range normal {
		normal[i] /= float64(len(face.NormalIndices))
	}
	return normal, corners, nil
}

func toPoint3(v []float64) []float64 {
	res := make([]float64, 3)
	copy(res, v)
	return res
}
