package converters

import (
	"github.com/ecopia-map/geofiles/internal/geodesy"
	"github.com/ecopia-map/geofiles/internal/geometry"
	"github.com/ecopia-map/geofiles/internal/mesh"
	"github.com/golang/glog"
	"github.com/pkg/errors"
)

// OriginConverter switches a geo-referenced mesh between absolute vertices and vertices stored as
// metric offsets from an origin.
type OriginConverter struct {
	solver geodesy.Solver
}

func NewOriginConverter() *OriginConverter {
	return &OriginConverter{solver: geodesy.NewWGS84Solver()}
}

// ToOrigin converts absolute vertices into offsets from origin. Without origin the centroid of
// the vertices is used. bearingOffset rotates the local axes against north.
func (c *OriginConverter) ToOrigin(data *mesh.File, origin []float64, bearingOffset float64, updateExtent bool) (*mesh.File, error) {
	if data.IsOriginBased() {
		return nil, ErrAlreadyOriginBased
	}
	if !IsEllipsoidal(data.Crs) {
		return nil, errors.Wrapf(ErrUnsupportedCrs, "origin conversion of %q", data.Crs)
	}

	localOrigin := origin
	if len(localOrigin) == 0 {
		center, err := geometry.Centroid(data.Vertices)
		if err != nil {
			return nil, errors.Wrap(err, "origin of mesh")
		}
		localOrigin = center
	}

	originLon, originLat, err := LonLat(localOrigin, data.Crs)
	if err != nil {
		return nil, err
	}

	glog.V(2).Infof("converting %d vertices to origin %v", len(data.Vertices), localOrigin)

	vertices := make([][]float64, len(data.Vertices))
	for i, vertex := range data.Vertices {
		lon, lat, err := LonLat(vertex, data.Crs)
		if err != nil {
			return nil, err
		}
		bearing, _, distance := c.solver.Inverse(lon, lat, originLon, originLat)
		local := geometry.DistantPoint(0, 0, distance, bearing+bearingOffset)
		vertices[i] = append(local, altitude(localOrigin)-altitude(vertex))
	}

	res := data.Clone()
	res.Origin = append([]float64(nil), localOrigin...)
	res.Vertices = vertices
	if updateExtent || data.ContainsExtent() {
		res.UpdateExtent()
	}
	return res, nil
}

// FromOrigin converts the offsets of an origin based mesh back into absolute coordinates.
func (c *OriginConverter) FromOrigin(data *mesh.File, bearingOffset float64, updateExtent bool) (*mesh.File, error) {
	if !data.IsOriginBased() {
		return nil, ErrNotOriginBased
	}
	if !IsEllipsoidal(data.Crs) {
		return nil, errors.Wrapf(ErrUnsupportedCrs, "origin conversion of %q", data.Crs)
	}

	originLon, originLat, err := LonLat(data.Origin, data.Crs)
	if err != nil {
		return nil, err
	}

	glog.V(2).Infof("converting %d vertices from origin %v", len(data.Vertices), data.Origin)

	zero := []float64{0, 0, 0}
	north := []float64{0, 1}
	vertices := make([][]float64, len(data.Vertices))
	for i, vertex := range data.Vertices {
		distance := geometry.PointDistance(zero, vertex)
		bearing := geometry.AngleBetweenPoints(vertex, north) + bearingOffset
		lon, lat, _ := c.solver.Forward(originLon, originLat, bearing, distance)

		z := altitude(data.Origin) - altitude(vertex)
		if data.Crs == WGS84 {
			vertices[i] = []float64{lon, lat, z}
		} else {
			vertices[i] = []float64{lat, lon, z}
		}
	}

	res := data.Clone()
	res.Origin = nil
	res.Vertices = vertices
	if updateExtent || data.ContainsExtent() {
		res.UpdateExtent()
	}
	return res, nil
}

func altitude(point []float64) float64 {
	if len(point) > 2 {
		return point[2]
	}
	return 0
}
