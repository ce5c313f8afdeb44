package geodesy

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// length of one degree of longitude along the WGS84 equator
const equatorDegree = 111319.49079327357

func TestInverseAlongEquator(t *testing.T) {
	solver := NewWGS84Solver()

	bearing, backBearing, distance := solver.Inverse(0, 0, 1, 0)
	assert.InDelta(t, 90.0, bearing, 1e-9)
	assert.InDelta(t, -90.0, backBearing, 1e-9)
	assert.InDelta(t, equatorDegree, distance, 1e-6)
}

func TestInverseSamePoint(t *testing.T) {
	_, _, distance := NewWGS84Solver().Inverse(14.28, 48.30, 14.28, 48.30)
	assert.InDelta(t, 0.0, distance, 1e-9)
}

func TestForwardAlongEquator(t *testing.T) {
	lon, lat, backBearing := NewWGS84Solver().Forward(0, 0, 90, equatorDegree)
	assert.InDelta(t, 1.0, lon, 1e-9)
	assert.InDelta(t, 0.0, lat, 1e-9)
	assert.InDelta(t, -90.0, backBearing, 1e-9)
}

func TestForwardQuarterMeridian(t *testing.T) {
	_, lat, _ := NewWGS84Solver().Forward(0, 0, 0, 10001965.729)
	assert.InDelta(t, 90.0, lat, 1e-6)
}

func TestForwardInverseRoundTrip(t *testing.T) {
	solver := NewWGS84Solver()
	lon0, lat0 := 14.2842798233032, 48.30284881591775

	for _, bearing := range []float64{0, 33.3, 90, 145, -120, 270} {
		lon, lat, _ := solver.Forward(lon0, lat0, bearing, 1250.5)
		b, _, d := solver.Inverse(lon0, lat0, lon, lat)

		assert.InDelta(t, 1250.5, d, 1e-6, "bearing %v", bearing)
		expected := bearing
		if expected > 180 {
			expected -= 360
		}
		assert.InDelta(t, expected, b, 1e-9, "bearing %v", bearing)
	}
}

func TestBackAzimuth(t *testing.T) {
	assert.Equal(t, -90.0, backAzimuth(90))
	assert.Equal(t, 90.0, backAzimuth(-90))
	assert.Equal(t, 180.0, backAzimuth(0))
	assert.Equal(t, 0.0, backAzimuth(180))
}
