package mesh

import (
	"github.com/ecopia-map/geofiles/tools"
	"github.com/samber/lo"
)

// Object is a named sub mesh. Its faces index into the vertex arrays of the owning File.
type Object struct {
	Name string
	// Parent is the name of the parent object in the same file, empty for root objects.
	Parent string
	Faces  []Face

	Translation []float64
	Rotation    []float64
	Scaling     []float64

	MetaInformation map[string]string
}

// ContainsTranslation reports a translation other than [0,0,0].
func (o *Object) ContainsTranslation() bool {
	return len(o.Translation) > 0 && !isIdentity(o.Translation, 0)
}

// ContainsRotation reports a rotation other than [0,0,0].
func (o *Object) ContainsRotation() bool {
	return len(o.Rotation) > 0 && !isIdentity(o.Rotation, 0)
}

// ContainsScaling reports a scaling other than [1,1,1].
func (o *Object) ContainsScaling() bool {
	return len(o.Scaling) > 0 && !isIdentity(o.Scaling, 1)
}

// ContainsTransformation is true when any of the local transformation fields is set to a non identity value.
func (o *Object) ContainsTransformation() bool {
	return o.ContainsTranslation() || o.ContainsRotation() || o.ContainsScaling()
}

// Clone returns a deep copy of the object.
func (o *Object) Clone() *Object {
	return &Object{
		Name:            o.Name,
		Parent:          o.Parent,
		Faces:           lo.Map(o.Faces, func(f Face, _ int) Face { return f.Clone() }),
		Translation:     cloneVector(o.Translation),
		Rotation:        cloneVector(o.Rotation),
		Scaling:         cloneVector(o.Scaling),
		MetaInformation: cloneMeta(o.MetaInformation),
	}
}

func isIdentity(vector []float64, identity float64) bool {
	for _, v := range vector {
		if !tools.IsClose(v, identity, 1e-6) {
			return false
		}
	}
	return true
}
