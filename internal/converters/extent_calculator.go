package converters

import (
	"github.com/ecopia-map/geofiles/internal/mesh"
	"github.com/golang/glog"
)

// ExtentCalculator determines the extent of a mesh, optionally in absolute coordinates and
// optionally including the transformation which has not been applied yet.
type ExtentCalculator struct {
	originConverter *OriginConverter
	transformer     *Transformer
}

func NewExtentCalculator() *ExtentCalculator {
	return &ExtentCalculator{
		originConverter: NewOriginConverter(),
		transformer:     NewTransformer(),
	}
}

// UpdateExtent returns a copy of data whose extent is recomputed. Vertices and transformation of the
// copy are left untouched, only MinExtent and MaxExtent change.
//
// includeTransformation measures the mesh as if its pending transformation was applied.
// geospatialExtent measures absolute coordinates for origin based meshes. bearingOffset is passed
// to the origin conversions that are needed for either of them.
func (c *ExtentCalculator) UpdateExtent(data *mesh.File, includeTransformation bool, geospatialExtent bool, bearingOffset float64) (*mesh.File, error) {
	res := data.Clone()
	originBased := data.IsOriginBased()

	if includeTransformation {
		temp := res
		if !originBased {
			converted, err := c.originConverter.ToOrigin(res, nil, bearingOffset, false)
			if err != nil {
				return nil, err
			}
			temp = converted
		}

		opts := DefaultTransformOptions()
		opts.UpdateExtents = true
		transformed, err := c.transformer.Transform(temp, opts)
		if err != nil {
			return nil, err
		}

		if originBased && !geospatialExtent {
			res.MinExtent, res.MaxExtent = transformed.MinExtent, transformed.MaxExtent
			return res, nil
		}

		absolute, err := c.originConverter.FromOrigin(transformed, bearingOffset, true)
		if err != nil {
			return nil, err
		}
		res.MinExtent, res.MaxExtent = absolute.MinExtent, absolute.MaxExtent
		glog.V(2).Infof("extent including transformation: %v %v", res.MinExtent, res.MaxExtent)
		return res, nil
	}

	if originBased && geospatialExtent {
		absolute, err := c.originConverter.FromOrigin(res, bearingOffset, true)
		if err != nil {
			return nil, err
		}
		res.MinExtent, res.MaxExtent = absolute.MinExtent, absolute.MaxExtent
		return res, nil
	}

	res.UpdateExtent()
	return res, nil
}
