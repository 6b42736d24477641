package d3

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

func absVec3(v mgl64.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{math.Abs(v.X()), math.Abs(v.Y()), math.Abs(v.Z())}
}

func absMat3(m mgl64.Mat3) mgl64.Mat3 {
	var result mgl64.Mat3
	for i := range m {
		result[i] = math.Abs(m[i])
	}
	return result
}

// tangentFrom returns a unit vector orthogonal to the given unit normal.
// The choice is deterministic so the tangent is stable across steps for a
// stable normal.
func tangentFrom(normal mgl64.Vec3) mgl64.Vec3 {
	// Pick the formula whose result cannot degenerate for this normal
	var tangent mgl64.Vec3
	if math.Abs(normal.X()) >= 0.57735 {
		tangent = mgl64.Vec3{normal.Y(), -normal.X(), 0}
	} else {
		tangent = mgl64.Vec3{0, normal.Z(), -normal.Y()}
	}
	return tangent.Normalize()
}

// plane is given by a unit normal and an offset from the origin
type plane struct {
	normal mgl64.Vec3
	offset float64
}

// planeFrom builds a plane through origin shifted by extra along the normal
func planeFrom(normal, origin mgl64.Vec3, extra float64) plane {
	return plane{normal: normal, offset: normal.Dot(origin) + extra}
}

// distance returns the signed distance from the plane to the point
func (p plane) distance(point mgl64.Vec3) float64 {
	return p.normal.Dot(point) - p.offset
}

func clamp(value, low, high float64) float64 {
	return math.Min(math.Max(value, low), high)
}
