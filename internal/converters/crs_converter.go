package converters

import (
	"github.com/ecopia-map/geofiles/internal/mesh"
	"github.com/golang/glog"
	"github.com/pkg/errors"
)

// CrsConverter projects a geo-referenced mesh into another coordinate reference system.
type CrsConverter struct {
	coordinateConverter CoordinateConverter
}

func NewCrsConverter(coordinateConverter CoordinateConverter) *CrsConverter {
	return &CrsConverter{coordinateConverter: coordinateConverter}
}

// Convert returns a copy of data expressed in targetCrs. Origin based meshes only get their origin
// converted, the offsets stay valid. For absolute meshes every vertex is converted and the extent
// is either recomputed (updateExtent) or dropped since it no longer matches the vertices.
func (c *CrsConverter) Convert(data *mesh.File, targetCrs string, alwaysXY bool, updateExtent bool) (*mesh.File, error) {
	if !data.IsGeoReferenced() {
		return nil, ErrNotGeoReferenced
	}

	source, fromWGS84 := data.Crs, false
	if source == WGS84 {
		source, fromWGS84 = EPSG4326, true
	}
	target, toWGS84 := targetCrs, false
	if target == WGS84 {
		target, toWGS84 = EPSG4326, true
	}

	glog.V(2).Infof("converting mesh from %s to %s", data.Crs, targetCrs)

	res := data.Clone()
	res.Crs = targetCrs

	convert := func(coord []float64) ([]float64, error) {
		in := append([]float64(nil), coord...)
		if fromWGS84 {
			in[0], in[1] = in[1], in[0]
		}
		out, err := c.coordinateConverter.ConvertCoordinate(source, target, alwaysXY, in)
		if err != nil {
			return nil, errors.Wrapf(err, "converting %v from %s to %s", coord, data.Crs, targetCrs)
		}
		if toWGS84 {
			out[0], out[1] = out[1], out[0]
		}
		return out, nil
	}

	if data.IsOriginBased() {
		origin, err := convert(data.Origin)
		if err != nil {
			return nil, err
		}
		res.Origin = origin
		if updateExtent {
			res.UpdateExtent()
		}
		return res, nil
	}

	for i, vertex := range data.Vertices {
		converted, err := convert(vertex)
		if err != nil {
			return nil, err
		}
		res.Vertices[i] = converted
	}

	if updateExtent {
		res.UpdateExtent()
	} else {
		res.MinExtent, res.MaxExtent = nil, nil
	}
	return res, nil
}
