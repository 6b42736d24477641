package d3

import "github.com/go-gl/mathgl/mgl64"

// AABB is an axis-aligned bounding box
type AABB struct {
	Min mgl64.Vec3
	Max mgl64.Vec3
}

// Overlaps checks if two AABBs overlap
func (a AABB) Overlaps(other AABB) bool {
	return a.Max.X() >= other.Min.X() && a.Min.X() <= other.Max.X() &&
		a.Max.Y() >= other.Min.Y() && a.Min.Y() <= other.Max.Y() &&
		a.Max.Z() >= other.Min.Z() && a.Min.Z() <= other.Max.Z()
}

// bodyAABB computes the world-space bounding box of a body from its pose.
// The world half-extents are |R| * halfSize.
func bodyAABB(body *Body) AABB {
	extents := absMat3(body.Rotation.Mat()).Mul3x1(body.HalfSize)
	return AABB{
		Min: body.Position.Sub(extents),
		Max: body.Position.Add(extents),
	}
}
