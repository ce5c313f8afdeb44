// Package geometry contains the point and vector math shared by all converters.
// Points are plain float64 slices so that 2D texture coordinates, 2D planar offsets
// and 3D vertices can go through the same functions.
package geometry

import (
	"errors"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	pkgerrors "github.com/pkg/errors"
)

var (
	ErrEmptyInput   = errors.New("given points are empty")
	ErrInvalidIndex = errors.New("invalid index")
)

// DistantPoint returns the planar point reached from (x0, y0) after travelling distance
// along bearing. Bearings are expressed in degrees, 0 pointing to +Y and growing clockwise.
func DistantPoint(x0, y0, distance, bearing float64) []float64 {
	theta := math.Pi/2 - mgl64.DegToRad(bearing)
	return []float64{x0 + distance*math.Cos(theta), y0 + distance*math.Sin(theta)}
}

// PointDistance is the euclidean distance over the dimensions both points share.
func PointDistance(p1, p2 []float64) float64 {
	n := len(p1)
	if len(p2) < n {
		n = len(p2)
	}

	var sum float64
	for i := 0; i < n; i++ {
		d := p1[i] - p2[i]
		sum += d * d
	}
	return math.Sqrt(sum)
}

// AngleBetweenPoints returns the bearing in [0, 360) of the direction going from `from` to `to`.
// The result is directional: swapping the arguments yields the opposite bearing.
func AngleBetweenPoints(from, to []float64) float64 {
	r := mgl64.RadToDeg(math.Atan2(to[0]-from[0], to[1]-from[1]))
	if r < 0 {
		r += 360
	}
	if r >= 360 {
		r -= 360
	}
	return r
}

// Centroid computes the dimension-wise mean of the given points. The dimension of the
// result is the one of the first point.
func Centroid(points [][]float64) ([]float64, error) {
	if len(points) == 0 {
		return nil, ErrEmptyInput
	}

	center := make([]float64, len(points[0]))
	for _, point := range points {
		for i := 0; i < len(center) && i < len(point); i++ {
			center[i] += point[i]
		}
	}

	count := float64(len(points))
	for i := range center {
		center[i] /= count
	}
	return center, nil
}

// RotatePoint rotates point around origin. roll, pitch and yaw are the rotations in degrees
// around the X, Y and Z axis, composed as Rz(yaw) * Ry(pitch) * Rx(roll).
func RotatePoint(point, origin []float64, roll, pitch, yaw float64) []float64 {
	o := Vec3(origin)
	relative := Vec3(point).Sub(o)

	rotation := mgl64.Rotate3DZ(mgl64.DegToRad(yaw)).
		Mul3(mgl64.Rotate3DY(mgl64.DegToRad(pitch))).
		Mul3(mgl64.Rotate3DX(mgl64.DegToRad(roll)))

	rotated := rotation.Mul3x1(relative).Add(o)
	return []float64{rotated[0], rotated[1], rotated[2]}
}

// ResolveObjIndex maps a 1-based index, or a negative index counted from the tail,
// onto a 0-based position of a sequence with the given length.
func ResolveObjIndex(idx, length int) (int, error) {
	var resolved int
	switch {
	case idx > 0:
		resolved = idx - 1
	case idx < 0:
		resolved = length + idx
	default:
		return 0, pkgerrors.Wrapf(ErrInvalidIndex, "index %d", idx)
	}

	if resolved < 0 || resolved >= length {
		return 0, pkgerrors.Wrapf(ErrInvalidIndex, "index %d out of range for %d elements", idx, length)
	}
	return resolved, nil
}

// Vec3 converts a point to a 3D vector, missing components are zero.
func Vec3(point []float64) mgl64.Vec3 {
	var v mgl64.Vec3
	copy(v[:], point)
	return v
}
