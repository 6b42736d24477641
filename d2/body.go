package d2

import "github.com/go-gl/mathgl/mgl64"

// Body is a box-shaped rigid body. Shape, mass and friction are fixed at
// construction; pose and velocities are mutated by the world and the solver.
// A body with zero mass is static: it has infinite effective mass and is
// never moved by the simulation.
type Body struct {
	// HalfSize is the box extent along each local axis (width/2, height/2)
	HalfSize mgl64.Vec2

	// Mass in kg, 0 for static bodies
	Mass float64

	// InvMass is 1/Mass, 0 for static bodies
	InvMass float64

	// Inertia is the moment of inertia, 0 for static bodies
	Inertia float64

	// InvInertia is 1/Inertia, 0 for static bodies
	InvInertia float64

	// Friction coefficient in [0, 1]
	Friction float64

	// Position of the center of mass in world space
	Position mgl64.Vec2

	// Rotation of the body
	Rotation Rot

	// LinearVelocity in m/s
	LinearVelocity mgl64.Vec2

	// AngularVelocity in rad/s
	AngularVelocity float64
}

// boxInertia returns the moment of inertia of a solid box
func boxInertia(size mgl64.Vec2, mass float64) float64 {
	return mass * size.LenSqr() / 12.0
}

// NewBody creates a body from the full box size, mass and friction.
// Panics if size is not strictly positive, mass is negative or friction is
// outside [0, 1].
func NewBody(size mgl64.Vec2, mass, friction float64) Body {
	if size.X() <= 0 || size.Y() <= 0 {
		panic("d2: body size must be positive")
	}
	if mass < 0 {
		panic("d2: body mass must be non-negative")
	}
	if friction < 0 || friction > 1 {
		panic("d2: body friction must be in [0, 1]")
	}

	body := Body{
		HalfSize: size.Mul(0.5),
		Mass:     mass,
		Friction: friction,
		Rotation: RotFromAngle(0),
	}
	if mass > 0 {
		body.InvMass = 1.0 / mass
		body.Inertia = boxInertia(size, mass)
		body.InvInertia = 1.0 / body.Inertia
	}
	return body
}

// IsStatic reports whether the body has infinite mass
func (b *Body) IsStatic() bool {
	return b.Mass == 0
}
