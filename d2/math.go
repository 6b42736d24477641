package d2

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// cross returns the z component of the cross product of two vectors
func cross(a, b mgl64.Vec2) float64 {
	return a.X()*b.Y() - a.Y()*b.X()
}

// crossVS returns the cross product of a vector and a z-axis scalar
func crossVS(v mgl64.Vec2, s float64) mgl64.Vec2 {
	return mgl64.Vec2{s * v.Y(), -s * v.X()}
}

// crossSV returns the cross product of a z-axis scalar and a vector
func crossSV(s float64, v mgl64.Vec2) mgl64.Vec2 {
	return mgl64.Vec2{-s * v.Y(), s * v.X()}
}

func absVec2(v mgl64.Vec2) mgl64.Vec2 {
	return mgl64.Vec2{math.Abs(v.X()), math.Abs(v.Y())}
}

func absMat2(m mgl64.Mat2) mgl64.Mat2 {
	var result mgl64.Mat2
	for i := range m {
		result[i] = math.Abs(m[i])
	}
	return result
}

// plane is a line in 2D given by a unit normal and an offset from the origin
type plane struct {
	normal mgl64.Vec2
	offset float64
}

// planeFrom builds a plane through origin shifted by extra along the normal
func planeFrom(normal, origin mgl64.Vec2, extra float64) plane {
	return plane{normal: normal, offset: normal.Dot(origin) + extra}
}

// distance returns the signed distance from the plane to the point
func (p plane) distance(point mgl64.Vec2) float64 {
	return p.normal.Dot(point) - p.offset
}
