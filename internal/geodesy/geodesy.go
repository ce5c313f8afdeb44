// Package geodesy solves the direct and inverse geodesic problems on the WGS84 ellipsoid.
// All angles are in degrees, distances in metres.
package geodesy

import (
	"github.com/tidwall/geodesic"
)

// Solver is what the origin conversion needs from an ellipsoid model.
type Solver interface {
	// Inverse returns the bearing at the first point, the back bearing at the second point and the
	// distance between two lon/lat pairs.
	Inverse(lon1, lat1, lon2, lat2 float64) (bearing, backBearing, distance float64)
	// Forward returns the point reached from lon/lat after travelling distance along bearing,
	// together with the back bearing at the reached point.
	Forward(lon, lat, bearing, distance float64) (lon2, lat2, backBearing float64)
}

type wgs84Solver struct{}

func NewWGS84Solver() Solver {
	return &wgs84Solver{}
}

func (s *wgs84Solver) Inverse(lon1, lat1, lon2, lat2 float64) (float64, float64, float64) {
	var distance, azi1, azi2 float64
	geodesic.WGS84.Inverse(lat1, lon1, lat2, lon2, &distance, &azi1, &azi2)
	return azi1, backAzimuth(azi2), distance
}

func (s *wgs84Solver) Forward(lon, lat, bearing, distance float64) (float64, float64, float64) {
	var lat2, lon2, azi2 float64
	geodesic.WGS84.Direct(lat, lon, bearing, distance, &lat2, &lon2, &azi2)
	return lon2, lat2, backAzimuth(azi2)
}

// backAzimuth turns the forward azimuth at the end point into the azimuth pointing back, in [-180, 180].
func backAzimuth(azi float64) float64 {
	back := azi + 180
	if back > 180 {
		back -= 360
	}
	return back
}
