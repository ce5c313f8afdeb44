package converters

import (
	"github.com/pkg/errors"
)

const (
	// WGS84 stores longitude before latitude.
	WGS84 = "urn:ogc:def:crs:OGC:2:84"
	// EPSG4326 stores latitude before longitude.
	EPSG4326 = "urn:ogc:def:crs:EPSG::4326"
)

// IsEllipsoidal reports whether crs is one of the two identities the origin conversion can work with.
func IsEllipsoidal(crs string) bool {
	return crs == WGS84 || crs == EPSG4326
}

// LonLat reads longitude and latitude of vertex according to the axis order of crs.
func LonLat(vertex []float64, crs string) (lon float64, lat float64, err error) {
	switch crs {
	case WGS84:
		return vertex[0], vertex[1], nil
	case EPSG4326:
		return vertex[1], vertex[0], nil
	default:
		return 0, 0, errors.Wrapf(ErrUnsupportedCrs, "%q", crs)
	}
}
