package d2

import "github.com/go-gl/mathgl/mgl64"

// AABB is an axis-aligned bounding box
type AABB struct {
	Min mgl64.Vec2
	Max mgl64.Vec2
}

// Overlaps checks if two AABBs overlap
func (a AABB) Overlaps(other AABB) bool {
	return a.Max.X() >= other.Min.X() && a.Min.X() <= other.Max.X() &&
		a.Max.Y() >= other.Min.Y() && a.Min.Y() <= other.Max.Y()
}

// bodyAABB computes the world-space bounding box of a body from its pose.
// The world half-extents are |R| * halfSize.
func bodyAABB(body *Body) AABB {
	extents := absMat2(body.Rotation.Mat()).Mul2x1(body.HalfSize)
	return AABB{
		Min: body.Position.Sub(extents),
		Max: body.Position.Add(extents),
	}
}
