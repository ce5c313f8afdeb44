package formats

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/ecopia-map/geofiles/internal/mesh"
	"github.com/ecopia-map/geofiles/tools"
	pkgerrors "github.com/pkg/errors"
)

// GeoObj is the OBJ format extended by the header lines crs, o (origin), sc, t and r.
// Plain OBJ files are read as local meshes.
type GeoObj struct{}

func NewGeoObj() *GeoObj {
	return &GeoObj{}
}

func (g *GeoObj) Name() string {
	return "geoobj"
}

func (g *GeoObj) FileExtension() string {
	return ".geoobj"
}

func (g *GeoObj) SupportsOriginBase() bool {
	return true
}

// Read parses a GeoOBJ file. The first group statement names the current object, every further
// group starts a new object whose parent is the previous one.
func (g *GeoObj) Read(r io.Reader) (*mesh.File, error) {
	res := &mesh.File{}
	lines := newLineReader(r)

	current := &mesh.Object{MetaInformation: map[string]string{}}
	foundGroup, filledGroup := false, false

	startGroup := func(name string) {
		if !foundGroup && !filledGroup {
			current.Name = name
		} else {
			res.Objects = append(res.Objects, current)
			current = &mesh.Object{Name: name, Parent: current.Name, MetaInformation: map[string]string{}}
		}
		foundGroup = true
	}

	for {
		line, ok := lines.nextContent()
		if !ok {
			break
		}
		fields := strings.Fields(line)
		keyword, args := fields[0], fields[1:]

		var err error
		switch keyword {
		case "v":
			err = appendPoint(&res.Vertices, args)
		case "vn":
			err = appendPoint(&res.Normals, args)
			filledGroup = true
		case "vt":
			err = appendPoint(&res.TextureCoordinates, args)
			filledGroup = true
		case "f":
			var face mesh.Face
			face, err = parseObjFace(args)
			current.Faces = append(current.Faces, face)
			filledGroup = true
		case "g":
			startGroup(strings.Join(args, " "))
		case "crs":
			res.Crs = strings.Join(args, " ")
		case "o":
			// plain OBJ names objects with o
			origin, parseErr := parseFloats(args)
			if parseErr != nil || len(args) == 0 {
				startGroup(strings.Join(args, " "))
			} else {
				res.Origin = origin
			}
		case "sc":
			res.Scaling, err = parseFloats(args)
		case "t":
			res.Translation, err = parseFloats(args)
		case "r":
			res.Rotation, err = parseFloats(args)
		}
		if err != nil {
			return nil, lines.errorf("%s: %v", keyword, err)
		}
	}
	if err := lines.err(); err != nil {
		return nil, err
	}

	res.Objects = append(res.Objects, current)
	return res, nil
}

func appendPoint(points *[][]float64, args []string) error {
	point, err := parseFloats(args)
	if err != nil {
		return err
	}
	*points = append(*points, point)
	return nil
}

// parseObjFace parses the vertex references of a face, each of the form v, v/t, v//n or v/t/n.
func parseObjFace(args []string) (mesh.Face, error) {
	face := mesh.Face{Indices: make([]int, 0, len(args))}
	for _, arg := range args {
		parts := strings.Split(arg, "/")

		idx, err := strconv.Atoi(parts[0])
		if err != nil {
			return face, pkgerrors.Wrapf(err, "vertex reference %q", arg)
		}
		face.Indices = append(face.Indices, idx)

		if len(parts) > 1 && parts[1] != "" {
			tex, err := strconv.Atoi(parts[1])
			if err != nil {
				return face, pkgerrors.Wrapf(err, "texture reference %q", arg)
			}
			face.TextureIndices = append(face.TextureIndices, tex)
		}
		if len(parts) > 2 && parts[2] != "" {
			normal, err := strconv.Atoi(parts[2])
			if err != nil {
				return face, pkgerrors.Wrapf(err, "normal reference %q", arg)
			}
			face.NormalIndices = append(face.NormalIndices, normal)
		}
	}
	return face, nil
}

// Write serializes data as GeoOBJ. Groups carry no transformation, objects holding one are rejected.
func (g *GeoObj) Write(w io.Writer, data *mesh.File) error {
	for _, o := range data.Objects {
		if o.ContainsTransformation() {
			return pkgerrors.Wrapf(mesh.ErrUnsupportedLocalTransform, "object %q", o.Name)
		}
	}

	ew := &errWriter{w: w}

	if data.IsGeoReferenced() {
		ew.printf("crs %s\n", data.Crs)
	}
	ew.vector("o", data.Origin)
	ew.vector("sc", data.Scaling)
	ew.vector("t", data.Translation)
	ew.vector("r", data.Rotation)

	for _, v := range data.Vertices {
		ew.vector("v", v)
	}
	for _, n := range data.Normals {
		ew.vector("vn", n)
	}
	for _, t := range data.TextureCoordinates {
		ew.vector("vt", t)
	}

	for _, o := range data.Objects {
		ew.printf("g %s\n", o.Name)
		for _, face := range o.Faces {
			if err := writeObjFace(ew, face); err != nil {
				return pkgerrors.Wrapf(err, "object %q", o.Name)
			}
		}
	}
	return ew.err
}

func writeObjFace(ew *errWriter, face mesh.Face) error {
	hasTextures := len(face.TextureIndices) != 0
	hasNormals := len(face.NormalIndices) != 0
	if (hasTextures && len(face.TextureIndices) != len(face.Indices)) ||
		(hasNormals && len(face.NormalIndices) != len(face.Indices)) {
		return pkgerrors.Errorf("face %v references a different number of textures or normals", face.Indices)
	}

	refs := make([]string, len(face.Indices))
	for i, idx := range face.Indices {
		ref := strconv.Itoa(idx)
		if hasTextures || hasNormals {
			ref += "/"
		}
		if hasTextures {
			ref += strconv.Itoa(face.TextureIndices[i])
		}
		if hasNormals {
			ref += "/" + strconv.Itoa(face.NormalIndices[i])
		}
		refs[i] = ref
	}
	ew.printf("f %s\n", strings.Join(refs, " "))
	return nil
}

// errWriter keeps the first write error, later writes are skipped.
type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) printf(format string, args ...interface{}) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintf(ew.w, format, args...)
}

// vector writes "prefix x y z", nothing for an empty vector.
func (ew *errWriter) vector(prefix string, v []float64) {
	if len(v) == 0 {
		return
	}
	ew.printf("%s %s\n", prefix, tools.FormatPoint(v, " "))
}

func (ew *errWriter) line(v []float64) {
	ew.printf("%s\n", tools.FormatPoint(v, " "))
}
