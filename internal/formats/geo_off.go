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
	offHeader    = "OFF"
	geoOffHeader = "GeoOFF"
)

// GeoOff is the OFF format with a GeoOFF header. The header letters announce the lines following
// the crs line, in this order: o origin, e extent, s scaling, t translation, r rotation and one m per
// "key value" meta line.
type GeoOff struct{}

func NewGeoOff() *GeoOff {
	return &GeoOff{}
}

func (g *GeoOff) Name() string {
	return "geooff"
}

func (g *GeoOff) FileExtension() string {
	return ".geooff"
}

func (g *GeoOff) SupportsOriginBase() bool {
	return true
}

func (g *GeoOff) Read(r io.Reader) (*mesh.File, error) {
	res := &mesh.File{}
	obj := &mesh.Object{MetaInformation: map[string]string{}}
	res.Objects = []*mesh.Object{obj}
	lines := newLineReader(r)

	header, ok := lines.nextContent()
	if !ok {
		return nil, pkgerrors.Wrap(ErrMalformed, "missing OFF header")
	}

	switch {
	case strings.HasPrefix(header, geoOffHeader):
		// the crs line may be empty for a local mesh carrying meta information
		crs, ok := lines.next()
		if !ok {
			return nil, lines.errorf("missing crs line")
		}
		res.Crs = crs
		if err := readGeoOffHeaderLines(lines, strings.TrimPrefix(header, geoOffHeader), res, obj); err != nil {
			return nil, err
		}
	case header == offHeader:
	default:
		return nil, lines.errorf("unknown header %q", header)
	}

	counts, ok := lines.nextContent()
	if !ok {
		return nil, lines.errorf("missing element counts")
	}
	fields := strings.Fields(counts)
	if len(fields) < 2 {
		return nil, lines.errorf("element counts %q", counts)
	}
	numVertices, err := strconv.Atoi(fields[0])
	if err != nil {
		return nil, lines.errorf("vertex count: %v", err)
	}
	numFaces, err := strconv.Atoi(fields[1])
	if err != nil {
		return nil, lines.errorf("face count: %v", err)
	}

	res.Vertices = make([][]float64, 0, numVertices)
	for i := 0; i < numVertices; i++ {
		line, ok := lines.nextContent()
		if !ok {
			return nil, lines.errorf("expected %d vertices, found %d", numVertices, i)
		}
		if err := appendPoint(&res.Vertices, strings.Fields(line)); err != nil {
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

func readGeoOffHeaderLines(lines *lineReader, flags string, res *mesh.File, obj *mesh.Object) error {
	for _, flag := range flags {
		line, ok := lines.next()
		if !ok {
			return lines.errorf("missing line for header flag %q", flag)
		}
		fields := strings.Fields(line)

		var err error
		switch flag {
		case 'o':
			res.Origin, err = parseFloats(fields)
		case 'e':
			var extent []float64
			if extent, err = parseFloats(fields); err == nil {
				if len(extent)%2 != 0 {
					return lines.errorf("extent needs an even number of values, got %d", len(extent))
				}
				res.MinExtent, res.MaxExtent = extent[:len(extent)/2], extent[len(extent)/2:]
			}
		case 's':
			res.Scaling, err = parseFloats(fields)
		case 't':
			res.Translation, err = parseFloats(fields)
		case 'r':
			res.Rotation, err = parseFloats(fields)
		case 'm':
			if len(fields) == 0 {
				return lines.errorf("empty meta information line")
			}
			key, value := fields[0], strings.Join(fields[1:], " ")
			if key == mesh.TranslationUnitKey || key == mesh.RotationUnitKey {
				if res.MetaInformation == nil {
					res.MetaInformation = map[string]string{}
				}
				res.MetaInformation[key] = value
			} else {
				obj.MetaInformation[key] = value
			}
		default:
			return lines.errorf("unknown header flag %q", flag)
		}
		if err != nil {
			return lines.errorf("header flag %q: %v", flag, err)
		}
	}
	return nil
}

// parseOffFace turns "n i1 ... in" into a face with OBJ style indices. Trailing values such as
// colors are ignored.
func parseOffFace(fields []string) (mesh.Face, error) {
	if len(fields) == 0 {
		return mesh.Face{}, pkgerrors.New("empty face")
	}
	n, err := strconv.Atoi(fields[0])
	if err != nil {
		return mesh.Face{}, err
	}
	if len(fields) < n+1 {
		return mesh.Face{}, pkgerrors.Errorf("face announces %d vertices, has %d", n, len(fields)-1)
	}

	face := mesh.Face{Indices: make([]int, n)}
	for i := 0; i < n; i++ {
		idx, err := strconv.Atoi(fields[i+1])
		if err != nil {
			return mesh.Face{}, err
		}
		face.Indices[i] = idx + 1
	}
	return face, nil
}

// Write serializes a single object mesh. Local meshes without extra information are written as
// plain OFF.
func (g *GeoOff) Write(w io.Writer, data *mesh.File) error {
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
	if data.IsGeoReferenced() || len(meta) != 0 {
		writeGeoOffHeader(ew, data, meta)
	} else {
		if err := checkPlainOff(data); err != nil {
			return err
		}
		ew.printf("%s\n", offHeader)
	}

	numVertices := len(data.Vertices)
	ew.printf("%d %d 0\n", numVertices, len(obj.Faces))
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

func writeGeoOffHeader(ew *errWriter, data *mesh.File, meta map[string]string) {
	header := geoOffHeader
	if data.IsOriginBased() {
		header += "o"
	}
	if data.ContainsExtent() {
		header += "e"
	}
	if data.ContainsScaling() {
		header += "s"
	}
	if data.ContainsTranslation() {
		header += "t"
	}
	if data.ContainsRotation() {
		header += "r"
	}
	header += strings.Repeat("m", len(meta))

	ew.printf("%s\n", header)
	ew.printf("%s\n", data.Crs)
	if data.IsOriginBased() {
		ew.line(data.Origin)
	}
	if data.ContainsExtent() {
		ew.line(append(append([]float64{}, data.MinExtent...), data.MaxExtent...))
	}
	if data.ContainsScaling() {
		ew.line(data.Scaling)
	}
	if data.ContainsTranslation() {
		ew.line(data.Translation)
	}
	if data.ContainsRotation() {
		ew.line(data.Rotation)
	}

	keys := lo.Keys(meta)
	sort.Strings(keys)
	for _, key := range keys {
		ew.printf("%s %s\n", key, meta[key])
	}
}

func checkPlainOff(data *mesh.File) error {
	switch {
	case data.IsOriginBased():
		return pkgerrors.Wrap(ErrNotSupported, "origin in OFF")
	case data.ContainsExtent():
		return pkgerrors.Wrap(ErrNotSupported, "extent in OFF")
	case data.ContainsScaling():
		return pkgerrors.Wrap(ErrNotSupported, "scaling in OFF")
	case data.ContainsTranslation():
		return pkgerrors.Wrap(ErrNotSupported, "translation in OFF")
	case data.ContainsRotation():
		return pkgerrors.Wrap(ErrNotSupported, "rotation in OFF")
	}
	return nil
}
