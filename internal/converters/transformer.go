package converters

import (
	"github.com/ecopia-map/geofiles/internal/geometry"
	"github.com/ecopia-map/geofiles/internal/mesh"
	"github.com/ecopia-map/geofiles/tools"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/golang/glog"
	"github.com/pkg/errors"
)

type TransformOptions struct {
	Scale     bool
	Rotate    bool
	Translate bool
	// UpdateExtents recomputes the extent after the transformation, otherwise it is cleared.
	UpdateExtents bool
	// ApplyOnlyGlobal skips the transformations stored on the objects.
	ApplyOnlyGlobal bool
}

func DefaultTransformOptions() TransformOptions {
	return TransformOptions{
		Scale:           true,
		Rotate:          true,
		Translate:       true,
		ApplyOnlyGlobal: true,
	}
}

var (
	identityScaling = mgl64.Vec3{1, 1, 1}
	identityVector  = mgl64.Vec3{}
)

// Transformer bakes the pending scaling, rotation and translation of an origin based mesh into its vertices.
//
// A vertex v is transformed around the centroid c of all vertices as c + rotate((v - c) * s) + t.
// Applied components are removed from the result, disabled ones are kept as they are.
type Transformer struct{}

func NewTransformer() *Transformer {
	return &Transformer{}
}

func (t *Transformer) Rotate(data *mesh.File) (*mesh.File, error) {
	return t.Transform(data, TransformOptions{Rotate: true, ApplyOnlyGlobal: true})
}

func (t *Transformer) Translate(data *mesh.File) (*mesh.File, error) {
	return t.Transform(data, TransformOptions{Translate: true, ApplyOnlyGlobal: true})
}

func (t *Transformer) Scale(data *mesh.File) (*mesh.File, error) {
	return t.Transform(data, TransformOptions{Scale: true, ApplyOnlyGlobal: true})
}

func (t *Transformer) Transform(data *mesh.File, opts TransformOptions) (*mesh.File, error) {
	if !data.IsOriginBased() {
		return nil, ErrRequiresOriginBased
	}
	if opts.Translate && !data.IsDefaultTranslationUnit() {
		return nil, errors.Wrapf(ErrUnsupportedUnit, "translation unit %q", data.TranslationUnit())
	}
	if opts.Rotate && !data.IsDefaultRotationUnit() {
		return nil, errors.Wrapf(ErrUnsupportedUnit, "rotation unit %q", data.RotationUnit())
	}

	res := data.Clone()
	scaling, rotation, translation, err := consume(&res.Scaling, &res.Rotation, &res.Translation, opts)
	if err != nil {
		return nil, err
	}

	center := centerOf(res.Vertices)
	for i, vertex := range res.Vertices {
		res.Vertices[i] = transformVertex(vertex, center, scaling, rotation, translation)
	}

	if !opts.ApplyOnlyGlobal {
		if err := t.transformObjects(res, opts); err != nil {
			return nil, err
		}
	}

	res.MinExtent, res.MaxExtent = nil, nil
	if opts.UpdateExtents {
		res.UpdateExtent()
	}
	return res, nil
}

// transformObjects applies the transformations of every object to the vertices its faces reference.
// The vertex array is rebuilt, equal vertices are stored once and unreferenced ones are dropped.
func (t *Transformer) transformObjects(res *mesh.File, opts TransformOptions) error {
	center := centerOf(res.Vertices)

	vertexIndex := make(map[string]int)
	var vertices [][]float64

	for _, obj := range res.Objects {
		scaling, rotation, translation, err := consume(&obj.Scaling, &obj.Rotation, &obj.Translation, opts)
		if err != nil {
			return errors.Wrapf(err, "object %q", obj.Name)
		}
		glog.V(3).Infof("transforming object %s with scaling %v, rotation %v, translation %v", obj.Name, scaling, rotation, translation)

		for f := range obj.Faces {
			face := &obj.Faces[f]
			indices := make([]int, len(face.Indices))
			for i, idx := range face.Indices {
				vertex, err := res.Vertex(idx)
				if err != nil {
					return errors.Wrapf(err, "object %q", obj.Name)
				}

				transformed := transformVertex(vertex, center, scaling, rotation, translation)
				key := tools.FormatPoint(transformed, " ")
				newIdx, ok := vertexIndex[key]
				if !ok {
					vertices = append(vertices, transformed)
					newIdx = len(vertices)
					vertexIndex[key] = newIdx
				}
				indices[i] = newIdx
			}
			face.Indices = indices
		}
	}

	res.Vertices = vertices
	return nil
}

// consume returns the transformation components selected by opts and clears them on the owner.
func consume(scalingField, rotationField, translationField *[]float64, opts TransformOptions) (scaling, rotation, translation mgl64.Vec3, err error) {
	scaling, rotation, translation = identityScaling, identityVector, identityVector

	if opts.Scale {
		if scaling, err = vectorOrIdentity(*scalingField, identityScaling, "scaling"); err != nil {
			return
		}
		*scalingField = nil
	}
	if opts.Rotate {
		if rotation, err = vectorOrIdentity(*rotationField, identityVector, "rotation"); err != nil {
			return
		}
		*rotationField = nil
	}
	if opts.Translate {
		if translation, err = vectorOrIdentity(*translationField, identityVector, "translation"); err != nil {
			return
		}
		*translationField = nil
	}
	return
}

func vectorOrIdentity(v []float64, identity mgl64.Vec3, name string) (mgl64.Vec3, error) {
	switch len(v) {
	case 0:
		return identity, nil
	case 3:
		return mgl64.Vec3{v[0], v[1], v[2]}, nil
	default:
		return identity, errors.Errorf("%s requires 3 components, got %d", name, len(v))
	}
}

func centerOf(vertices [][]float64) mgl64.Vec3 {
	center, err := geometry.Centroid(vertices)
	if err != nil {
		return mgl64.Vec3{}
	}
	return geometry.Vec3(center)
}

func transformVertex(vertex []float64, center, scaling, rotation, translation mgl64.Vec3) []float64 {
	v := geometry.Vec3(vertex).Sub(center)
	scaled := []float64{v[0] * scaling[0], v[1] * scaling[1], v[2] * scaling[2]}
	rotated := geometry.Vec3(geometry.RotatePoint(scaled, nil, rotation[0], rotation[1], rotation[2]))
	out := center.Add(rotated).Add(translation)
	return []float64{out[0], out[1], out[2]}
}
