package converters

import (
	"github.com/ecopia-map/geofiles/internal/mesh"
	"github.com/pkg/errors"
)

// LocalConverter attaches or strips the geo-reference of a mesh.
type LocalConverter struct {
	originConverter *OriginConverter
}

func NewLocalConverter() *LocalConverter {
	return &LocalConverter{originConverter: NewOriginConverter()}
}

// FromLocal places a local mesh at origin in crs. The result is origin based unless originBased is
// false, then the vertices are converted to absolute coordinates.
func (c *LocalConverter) FromLocal(data *mesh.File, crs string, origin []float64, originBased bool, updateExtent bool) (*mesh.File, error) {
	if data.IsGeoReferenced() {
		return nil, ErrAlreadyGeoReferenced
	}
	if crs == "" || len(origin) == 0 {
		return nil, errors.Errorf("crs and origin are required to geo-reference a local mesh")
	}

	res := data.Clone()
	res.Crs = crs
	res.Origin = append([]float64(nil), origin...)

	if !originBased {
		return c.originConverter.FromOrigin(res, 0, updateExtent)
	}
	if updateExtent {
		res.UpdateExtent()
	}
	return res, nil
}

// ToLocal drops the geo-reference of data, keeping the vertices as offsets from the former origin.
func (c *LocalConverter) ToLocal(data *mesh.File, updateExtent bool) (*mesh.File, error) {
	if !data.IsGeoReferenced() {
		return nil, ErrNotGeoReferenced
	}

	var res *mesh.File
	if data.IsOriginBased() {
		res = data.Clone()
	} else {
		converted, err := c.originConverter.ToOrigin(data, nil, 0, updateExtent)
		if err != nil {
			return nil, err
		}
		res = converted
	}

	res.Origin = nil
	res.Crs = ""
	if updateExtent {
		res.UpdateExtent()
	}
	return res, nil
}
