package d3

import "github.com/go-gl/mathgl/mgl64"

// Body is a box-shaped rigid body. Shape, mass and friction are fixed at
// construction; pose and velocities are mutated by the world and the solver.
// A body with zero mass is static: it has infinite effective mass and is
// never moved by the simulation.
type Body struct {
	// HalfSize is the box extent along each local axis
	HalfSize mgl64.Vec3

	// Mass in kg, 0 for static bodies
	Mass float64

	// InvMass is 1/Mass, 0 for static bodies
	InvMass float64

	// Inertia is the inertia tensor in the local frame, zero for static
	// bodies
	Inertia mgl64.Mat3

	// InvInertia is the inverse inertia tensor in the local frame, zero for
	// static bodies
	InvInertia mgl64.Mat3

	// Friction coefficient in [0, 1]
	Friction float64

	// Position of the center of mass in world space
	Position mgl64.Vec3

	// Rotation of the body
	Rotation Rot

	// LinearVelocity in m/s
	LinearVelocity mgl64.Vec3

	// AngularVelocity in rad/s
	AngularVelocity mgl64.Vec3
}

// boxInertia returns the inertia tensor of a solid box in its local frame
func boxInertia(size mgl64.Vec3, mass float64) mgl64.Mat3 {
	x, y, z := size.X(), size.Y(), size.Z()
	factor := mass / 12.0
	return mgl64.Mat3{
		factor * (y*y + z*z), 0, 0,
		0, factor * (x*x + z*z), 0,
		0, 0, factor * (x*x + y*y),
	}
}

// NewBody creates a body from the full box size, mass and friction.
// Panics if size is not strictly positive, mass is negative or friction is
// outside [0, 1].
func NewBody(size mgl64.Vec3, mass, friction float64) Body {
	if size.X() <= 0 || size.Y() <= 0 || size.Z() <= 0 {
		panic("d3: body size must be positive")
	}
	if mass < 0 {
		panic("d3: body mass must be non-negative")
	}
	if friction < 0 || friction > 1 {
		panic("d3: body friction must be in [0, 1]")
	}

	body := Body{
		HalfSize: size.Mul(0.5),
		Mass:     mass,
		Friction: friction,
		Rotation: RotIdent(),
	}
	if mass > 0 {
		body.InvMass = 1.0 / mass
		body.Inertia = boxInertia(size, mass)
		inertia := body.Inertia
		body.InvInertia = mgl64.Mat3{
			1.0 / inertia[0], 0, 0,
			0, 1.0 / inertia[4], 0,
			0, 0, 1.0 / inertia[8],
		}
	}
	return body
}

// IsStatic reports whether the body has infinite mass
func (b *Body) IsStatic() bool {
	return b.Mass == 0
}

// InvInertiaWorld returns the inverse inertia tensor in the world frame,
// R * I⁻¹ * Rᵀ for the current rotation
func (b *Body) InvInertiaWorld() mgl64.Mat3 {
	if b.IsStatic() {
		return mgl64.Mat3{}
	}
	rotation := b.Rotation.Mat()
	return rotation.Mul3(b.InvInertia).Mul3(rotation.Transpose())
}
