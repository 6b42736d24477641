package d2

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

const (
	// positionCorrectionFactor is the fraction of the remaining penetration
	// corrected per position iteration
	positionCorrectionFactor = 0.2

	// allowedPenetration is the slop left uncorrected to avoid jitter
	allowedPenetration = 0.001
)

// applyImpulse applies an impulse at a point relative to the center of mass
func applyImpulse(body *Body, offset, impulse mgl64.Vec2) {
	body.LinearVelocity = body.LinearVelocity.Add(impulse.Mul(body.InvMass))
	body.AngularVelocity += body.InvInertia * cross(offset, impulse)
}

// effectiveMass computes the effective mass of a contact along a direction
func effectiveMass(bodyA, bodyB *Body, armA, armB, direction mgl64.Vec2) float64 {
	crossA := cross(armA, direction)
	crossB := cross(armB, direction)
	invResult := bodyA.InvMass + bodyB.InvMass +
		bodyA.InvInertia*crossA*crossA +
		bodyB.InvInertia*crossB*crossB
	return 1.0 / invResult
}

// ContactPoint is a collision point constraining the relative motion of two
// bodies, together with its accumulated impulses and precomputed solver data
type ContactPoint struct {
	point CollisionPoint

	// Tangent vector, orthogonal to the contact normal
	tangent mgl64.Vec2

	// Vectors from each body's center of mass to the contact point
	offsetA mgl64.Vec2
	offsetB mgl64.Vec2

	// Effective masses in the normal and tangent directions
	normalMass  float64
	tangentMass float64

	// Accumulated impulses, preserved across steps for warm starting
	normalImpulse  float64
	tangentImpulse float64
}

func newContactPoint(point CollisionPoint) ContactPoint {
	return ContactPoint{point: point}
}

// Point returns the collision point
func (c *ContactPoint) Point() CollisionPoint {
	return c.point
}

// NormalImpulse returns the accumulated normal impulse
func (c *ContactPoint) NormalImpulse() float64 {
	return c.normalImpulse
}

// TangentImpulse returns the accumulated tangent (friction) impulse
func (c *ContactPoint) TangentImpulse() float64 {
	return c.tangentImpulse
}

// updateFrom copies the accumulated impulses from a matching contact of the
// previous step (warm starting)
func (c *ContactPoint) updateFrom(other *ContactPoint) {
	c.normalImpulse = other.normalImpulse
	c.tangentImpulse = other.tangentImpulse
}

// prepareToSolve precomputes the solver quantities and applies the
// warm-starting impulse
func (c *ContactPoint) prepareToSolve(bodyA, bodyB *Body) {
	c.offsetA = c.point.Position.Sub(bodyA.Position)
	c.offsetB = c.point.Position.Sub(bodyB.Position)

	c.normalMass = effectiveMass(bodyA, bodyB, c.offsetA, c.offsetB, c.point.Normal)

	c.tangent = crossVS(c.point.Normal, 1.0)
	c.tangentMass = effectiveMass(bodyA, bodyB, c.offsetA, c.offsetB, c.tangent)

	c.applyImpulse(bodyA, bodyB,
		c.point.Normal.Mul(c.normalImpulse).Add(c.tangent.Mul(c.tangentImpulse)))
}

// solveVelocities runs one sequential-impulse iteration on the contact
func (c *ContactPoint) solveVelocities(bodyA, bodyB *Body, friction float64) {
	// Normal impulse; the accumulated impulse is clamped to >= 0, not the
	// per-iteration delta
	{
		impulse := -c.normalMass *
			c.velocityAtContact(bodyA, bodyB).Dot(c.point.Normal)

		oldImpulse := c.normalImpulse
		c.normalImpulse = math.Max(0, oldImpulse+impulse)
		c.applyImpulse(bodyA, bodyB,
			c.point.Normal.Mul(c.normalImpulse-oldImpulse))
	}

	// Dry friction impulse, clamped to the cone of the current accumulated
	// normal impulse
	{
		maxFriction := friction * c.normalImpulse

		impulse := -c.tangentMass *
			c.velocityAtContact(bodyA, bodyB).Dot(c.tangent)

		oldImpulse := c.tangentImpulse
		c.tangentImpulse = clamp(oldImpulse+impulse, -maxFriction, maxFriction)

		c.applyImpulse(bodyA, bodyB,
			c.tangent.Mul(c.tangentImpulse-oldImpulse))
	}
}

// solvePositions corrects the remaining penetration by modifying the poses
// directly. The contact is reconstructed from the persisted local-frame data
// because the bodies have moved since contact generation.
func (c *ContactPoint) solvePositions(bodyA, bodyB *Body) {
	normal, clippedPoint, penetration := c.transformedContact(bodyA, bodyB)

	bias := positionCorrectionFactor * math.Max(0, penetration-allowedPenetration)
	if bias <= 0 {
		return
	}

	offsetA := clippedPoint.Sub(bodyA.Position)
	offsetB := clippedPoint.Sub(bodyB.Position)
	mass := effectiveMass(bodyA, bodyB, offsetA, offsetB, normal)

	impulse := normal.Mul(math.Max(0, bias*mass))

	if !bodyA.IsStatic() {
		bodyA.Position = bodyA.Position.Sub(impulse.Mul(bodyA.InvMass))
		bodyA.Rotation.SetAngle(bodyA.Rotation.Angle() -
			bodyA.InvInertia*cross(offsetA, impulse))
	}
	if !bodyB.IsStatic() {
		bodyB.Position = bodyB.Position.Add(impulse.Mul(bodyB.InvMass))
		bodyB.Rotation.SetAngle(bodyB.Rotation.Angle() +
			bodyB.InvInertia*cross(offsetB, impulse))
	}
}

// velocityAtContact returns the relative velocity at the contact point
func (c *ContactPoint) velocityAtContact(bodyA, bodyB *Body) mgl64.Vec2 {
	return bodyB.LinearVelocity.Add(crossSV(bodyB.AngularVelocity, c.offsetB)).
		Sub(bodyA.LinearVelocity).Sub(crossSV(bodyA.AngularVelocity, c.offsetA))
}

// applyImpulse applies an impulse at the contact point to both bodies
func (c *ContactPoint) applyImpulse(bodyA, bodyB *Body, impulse mgl64.Vec2) {
	applyImpulse(bodyA, c.offsetA, impulse.Mul(-1))
	applyImpulse(bodyB, c.offsetB, impulse)
}

// transformedContact rebuilds the contact normal, the clipped point and the
// penetration from the local-frame data and the current body poses
func (c *ContactPoint) transformedContact(bodyA, bodyB *Body) (normal, clippedPoint mgl64.Vec2, penetration float64) {
	positions := [2]mgl64.Vec2{bodyA.Position, bodyB.Position}
	rotations := [2]mgl64.Mat2{bodyA.Rotation.Mat(), bodyB.Rotation.Mat()}

	ind1 := c.point.ClipBoxIndex
	ind2 := 1 - ind1

	clippedPoint = positions[ind2].
		Add(rotations[ind2].Mul2x1(c.point.LocalPoints[ind2]))

	normal = rotations[ind1].Mul2x1(c.point.LocalContactNormal)

	planePoint := positions[ind1].
		Add(rotations[ind1].Mul2x1(c.point.LocalPoints[ind1]))

	penetration = planePoint.Sub(clippedPoint).Dot(normal)

	// Normal must point from A to B
	if ind1 == 1 {
		normal = normal.Mul(-1)
	}
	return normal, clippedPoint, penetration
}

func clamp(value, low, high float64) float64 {
	return math.Min(math.Max(value, low), high)
}
