// Package mesh holds the in-memory model shared by readers, writers and converters.
//
// Converters treat a File as immutable and always hand back a fresh copy, see Clone.
package mesh

import (
	"errors"
	"math"

	"github.com/ecopia-map/geofiles/internal/geometry"
	pkgerrors "github.com/pkg/errors"
	"github.com/samber/lo"
)

const (
	// TranslationUnitKey is the meta information key holding the unit of File.Translation.
	TranslationUnitKey = "tu"
	// RotationUnitKey is the meta information key holding the unit of File.Rotation.
	RotationUnitKey = "ru"

	DefaultTranslationUnit = "m"
	DefaultRotationUnit    = "deg"
)

var (
	ErrUnsupportedLocalTransform = errors.New("local transformations of objects are not supported")
	ErrPendingTransform          = errors.New("mesh contains a transformation which has not been applied")
)

// File is the root of a mesh. A File without Crs is a local mesh, a File with an Origin stores its
// vertices as offsets in metres from that origin.
type File struct {
	Crs    string
	Origin []float64

	Translation []float64
	Rotation    []float64
	Scaling     []float64

	Objects            []*Object
	Vertices           [][]float64
	Normals            [][]float64
	TextureCoordinates [][]float64

	MinExtent []float64
	MaxExtent []float64

	MetaInformation map[string]string
}

func (f *File) IsOriginBased() bool {
	return len(f.Origin) > 0
}

func (f *File) IsGeoReferenced() bool {
	return f.Crs != ""
}

// Vertex returns the vertex addressed by an OBJ style index.
func (f *File) Vertex(idx int) ([]float64, error) {
	i, err := geometry.ResolveObjIndex(idx, len(f.Vertices))
	if err != nil {
		return nil, pkgerrors.Wrap(err, "vertex")
	}
	return f.Vertices[i], nil
}

// Normal returns the normal addressed by an OBJ style index.
func (f *File) Normal(idx int) ([]float64, error) {
	i, err := geometry.ResolveObjIndex(idx, len(f.Normals))
	if err != nil {
		return nil, pkgerrors.Wrap(err, "normal")
	}
	return f.Normals[i], nil
}

// TextureCoordinate returns the texture coordinate addressed by an OBJ style index.
func (f *File) TextureCoordinate(idx int) ([]float64, error) {
	i, err := geometry.ResolveObjIndex(idx, len(f.TextureCoordinates))
	if err != nil {
		return nil, pkgerrors.Wrap(err, "texture coordinate")
	}
	return f.TextureCoordinates[i], nil
}

func (f *File) ContainsExtent() bool {
	return len(f.MinExtent) > 0 && len(f.MaxExtent) > 0
}

func (f *File) ContainsTranslation() bool {
	return len(f.Translation) > 0
}

func (f *File) ContainsRotation() bool {
	return len(f.Rotation) > 0
}

func (f *File) ContainsScaling() bool {
	return len(f.Scaling) > 0
}

// HasPendingTransform is the check writers use before serializing a mesh that cannot carry
// transformation information. It ignores transformation fields holding identity values.
func (f *File) HasPendingTransform() bool {
	if (f.ContainsTranslation() && !isIdentity(f.Translation, 0)) ||
		(f.ContainsRotation() && !isIdentity(f.Rotation, 0)) ||
		(f.ContainsScaling() && !isIdentity(f.Scaling, 1)) {
		return true
	}
	return lo.SomeBy(f.Objects, func(o *Object) bool { return o.ContainsTransformation() })
}

// TranslationUnit returns the unit of the translation vector, metres unless configured otherwise.
func (f *File) TranslationUnit() string {
	if unit, ok := f.MetaInformation[TranslationUnitKey]; ok && unit != "" {
		return unit
	}
	return DefaultTranslationUnit
}

// RotationUnit returns the unit of the rotation vector, degrees unless configured otherwise.
func (f *File) RotationUnit() string {
	if unit, ok := f.MetaInformation[RotationUnitKey]; ok && unit != "" {
		return unit
	}
	return DefaultRotationUnit
}

func (f *File) IsDefaultTranslationUnit() bool {
	return f.TranslationUnit() == DefaultTranslationUnit
}

func (f *File) IsDefaultRotationUnit() bool {
	return f.RotationUnit() == DefaultRotationUnit
}

// UpdateExtent recomputes the bounding box over the stored vertices. Without vertices the extent is cleared.
func (f *File) UpdateExtent() {
	if len(f.Vertices) == 0 {
		f.MinExtent, f.MaxExtent = nil, nil
		return
	}

	dim := len(f.Vertices[0])
	minExtent := make([]float64, dim)
	maxExtent := make([]float64, dim)
	for i := 0; i < dim; i++ {
		minExtent[i] = math.Inf(1)
		maxExtent[i] = math.Inf(-1)
	}

	for _, v := range f.Vertices {
		for i := 0; i < dim && i < len(v); i++ {
			minExtent[i] = math.Min(minExtent[i], v[i])
			maxExtent[i] = math.Max(maxExtent[i], v[i])
		}
	}
	f.MinExtent, f.MaxExtent = minExtent, maxExtent
}

// ObjectByName looks up an object of the file, used to follow Object.Parent.
func (f *File) ObjectByName(name string) (*Object, bool) {
	return lo.Find(f.Objects, func(o *Object) bool { return o.Name == name })
}

// Minimize merges all objects into a single object named name, or after the first object if
// name is empty. Structurally equal faces are only kept once.
func (f *File) Minimize(name string) (*File, error) {
	for _, o := range f.Objects {
		if o.ContainsTransformation() {
			return nil, pkgerrors.Wrapf(ErrUnsupportedLocalTransform, "object %q", o.Name)
		}
	}

	result := f.Clone()
	if len(result.Objects) == 0 {
		return result, nil
	}
	if name == "" {
		name = result.Objects[0].Name
	}

	faces := lo.FlatMap(result.Objects, func(o *Object, _ int) []Face { return o.Faces })
	merged := &Object{
		Name:            name,
		Faces:           lo.UniqBy(faces, func(face Face) string { return face.Key() }),
		MetaInformation: map[string]string{},
	}
	result.Objects = []*Object{merged}
	return result, nil
}

// Clone returns a deep copy sharing no slices or maps with f.
func (f *File) Clone() *File {
	return &File{
		Crs:                f.Crs,
		Origin:             cloneVector(f.Origin),
		Translation:        cloneVector(f.Translation),
		Rotation:           cloneVector(f.Rotation),
		Scaling:            cloneVector(f.Scaling),
		Objects:            lo.Map(f.Objects, func(o *Object, _ int) *Object { return o.Clone() }),
		Vertices:           clonePoints(f.Vertices),
		Normals:            clonePoints(f.Normals),
		TextureCoordinates: clonePoints(f.TextureCoordinates),
		MinExtent:          cloneVector(f.MinExtent),
		MaxExtent:          cloneVector(f.MaxExtent),
		MetaInformation:    cloneMeta(f.MetaInformation),
	}
}

func cloneVector(v []float64) []float64 {
	if v == nil {
		return nil
	}
	return append(make([]float64, 0, len(v)), v...)
}

func clonePoints(points [][]float64) [][]float64 {
	if points == nil {
		return nil
	}
	return lo.Map(points, func(p []float64, _ int) []float64 { return cloneVector(p) })
}

func cloneMeta(meta map[string]string) map[string]string {
	if meta == nil {
		return nil
	}
	return lo.Assign(meta)
}
