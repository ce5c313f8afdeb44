package formats

import (
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/ecopia-map/geofiles/internal/geometry"
	"github.com/ecopia-map/geofiles/internal/mesh"
	pkgerrors "github.com/pkg/errors"
	"github.com/samber/lo"
)

const (
	plyMagic    = "ply"
	geoPlyMagic = "geoply"
	plyFormat   = "format ascii 1.0"
	plyEnd      = "end_header"
)

// GeoPly is ASCII PLY with the "geoply" magic. The header carries crs, origin, extent, scale, rotate
// and translate lines and one "obj_info key value" line per meta information entry. Vertices are
// written as double properties, faces as vertex_index lists.
type GeoPly struct{}

func NewGeoPly() *GeoPly {
	return &GeoPly{}
}

func (g *GeoPly) Name() string {
	return "geoply"
}

func (g *GeoPly) FileExtension() string {
	return ".geoply"
}

func (g *GeoPly) SupportsOriginBase() bool {
	return true
}

// Read parses GeoPLY and plain ASCII PLY holding vertex and face elements.
func (g *GeoPly) Read(r io.Reader) (*mesh.File, error) {
	res := &mesh.File{}
	obj := &mesh.Object{MetaInformation: map[string]string{}}
	res.Objects = []*mesh.Object{obj}
	lines := newLineReader(r)

	magic, ok := lines.nextContent()
	if !ok || (magic != geoPlyMagic && magic != plyMagic) {
		return nil, pkgerrors.Wrapf(ErrMalformed, "missing ply magic, got %q", magic)
	}

	numVertices, numFaces, err := readPlyHeader(lines, res, obj)
	if err != nil {
		return nil, err
	}

	res.Vertices = make([][]float64, 0, numVertices)
	for i := 0; i < numVertices; i++ {
		line, ok := lines.nextContent()
		if !ok {
			return nil, lines.errorf("expected %d vertices, found %d", numVertices, i)
		}
		fields := strings.Fields(line)
		if len(fields) < 3 {
			return nil, lines.errorf("vertex with %d values", len(fields))
		}
		if err := appendPoint(&res.Vertices, fields[:3]); err != nil {
			return nil, lines.errorf("vertex: %v", err)
		}
	}

	obj.Faces = make([]mesh.Face, 0, numFaces)
	for i := 0; i < numFaces; i++ {
		line, ok := lines.nextContent()
		if !ok {
			return nil, lines.errorf("expected %d faces, found %d", numFaces, i)
		}
		face, err := parseOffFace(strings.Fields(line))
		if err != nil {
			return nil, lines.errorf("face: %v", err)
		}
		obj.Faces = append(obj.Faces, face)
	}

	return res, lines.err()
}

// readPlyHeader reads up to end_header and returns the announced vertex and face counts.
func readPlyHeader(lines *lineReader, res *mesh.File, obj *mesh.Object) (numVertices, numFaces int, err error) {
	for {
		line, ok := lines.nextContent()
		if !ok {
			if err := lines.err(); err != nil {
				return 0, 0, err
			}
			return 0, 0, lines.errorf("missing %s", plyEnd)
		}
		fields := strings.Fields(line)
		keyword, args := fields[0], fields[1:]

		switch keyword {
		case plyEnd:
			return numVertices, numFaces, nil
		case "format":
			if len(args) == 0 || args[0] != "ascii" {
				return 0, 0, pkgerrors.Wrapf(ErrNotSupported, "ply %q", line)
			}
		case "comment", "property":
		case "crs":
			res.Crs = strings.Join(args, " ")
		case "origin":
			res.Origin, err = parseFloats(args)
		case "extent":
			var extent []float64
			if extent, err = parseFloats(args); err == nil {
				if len(extent)%2 != 0 {
					return 0, 0, lines.errorf("extent needs an even number of values, got %d", len(extent))
				}
				res.MinExtent, res.MaxExtent = extent[:len(extent)/2], extent[len(extent)/2:]
			}
		case "scale":
			res.Scaling, err = parseFloats(args)
		case "rotate":
			res.Rotation, err = parseFloats(args)
		case "translate":
			res.Translation, err = parseFloats(args)
		case "obj_info":
			if len(args) == 0 {
				return 0, 0, lines.errorf("empty obj_info")
			}
			key, value := args[0], strings.Join(args[1:], " ")
			if key == mesh.TranslationUnitKey || key == mesh.RotationUnitKey {
				if res.MetaInformation == nil {
					res.MetaInformation = map[string]string{}
				}
				res.MetaInformation[key] = value
			} else {
				obj.MetaInformation[key] = value
			}
		case "element":
			if len(args) != 2 {
				return 0, 0, lines.errorf("element %q", line)
			}
			var count int
			if count, err = strconv.Atoi(args[1]); err != nil {
				break
			}
			switch args[0] {
			case "vertex":
				numVertices = count
			case "face":
				numFaces = count
			default:
				return 0, 0, pkgerrors.Wrapf(ErrNotSupported, "ply element %q", args[0])
			}
		default:
			return 0, 0, lines.errorf("unknown header keyword %q", keyword)
		}
		if err != nil {
			return 0, 0, lines.errorf("%s: %v", keyword, err)
		}
	}
}

// Write serializes a single object mesh without object transformation.
func (g *GeoPly) Write(w io.Writer, data *mesh.File) error {
	if len(data.Objects) != 1 {
		return pkgerrors.Wrapf(ErrSingleObject, "got %d objects", len(data.Objects))
	}
	obj := data.Objects[0]
	if obj.ContainsTransformation() {
		return pkgerrors.Wrapf(mesh.ErrUnsupportedLocalTransform, "object %q", obj.Name)
	}

	meta := lo.Assign(obj.MetaInformation)
	if !data.IsDefaultTranslationUnit() {
		meta[mesh.TranslationUnitKey] = data.TranslationUnit()
	}
	if !data.IsDefaultRotationUnit() {
		meta[mesh.RotationUnitKey] = data.RotationUnit()
	}

	ew := &errWriter{w: w}
	ew.printf("%s\n%s\n", geoPlyMagic, plyFormat)
	if data.IsGeoReferenced() {
		ew.printf("crs %s\n", data.Crs)
	}
	ew.vector("origin", data.Origin)
	if data.ContainsExtent() {
		ew.vector("extent", append(append([]float64{}, data.MinExtent...), data.MaxExtent...))
	}
	ew.vector("scale", data.Scaling)
	ew.vector("rotate", data.Rotation)
	ew.vector("translate", data.Translation)

	keys := lo.Keys(meta)
	sort.Strings(keys)
	for _, key := range keys {
		ew.printf("obj_info %s %s\n", key, meta[key])
	}

	numVertices := len(data.Vertices)
	ew.printf("element vertex %d\n", numVertices)
	ew.printf("property double x\nproperty double y\nproperty double z\n")
	ew.printf("element face %d\n", len(obj.Faces))
	ew.printf("property list uchar int vertex_index\n%s\n", plyEnd)

	for _, v := range data.Vertices {
		ew.line(v)
	}
	for _, face := range obj.Faces {
		refs := make([]string, len(face.Indices)+1)
		refs[0] = strconv.Itoa(len(face.Indices))
		for i, idx := range face.Indices {
			resolved, err := geometry.ResolveObjIndex(idx, numVertices)
			if err != nil {
				return pkgerrors.Wrapf(err, "object %q", obj.Name)
			}
			refs[i+1] = strconv.Itoa(resolved)
		}
		ew.printf("%s\n", strings.Join(refs, " "))
	}
	return ew.err
}
