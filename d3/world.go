package d3

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// MaxBodies is the maximum number of bodies a world can hold
const MaxBodies = math.MaxUint32

// World is the top-level simulation driver. It owns the bodies, the broad
// phase and the contact solver, and advances the simulation step by step.
// A world must only be used from a single goroutine.
type World struct {
	// Gravity acceleration (m/s²)
	Gravity mgl64.Vec3

	// Events holds the optional collision callbacks
	Events Events

	bodies     []Body
	broadPhase BroadPhase
	solver     ContactSolver

	velocityIterations int
	positionIterations int
}

// NewWorld creates a world. Panics if velocityIterations < 1 or
// positionIterations < 0.
func NewWorld(gravity mgl64.Vec3, velocityIterations, positionIterations int) *World {
	if velocityIterations < 1 {
		panic("d3: velocity iterations must be >= 1")
	}
	if positionIterations < 0 {
		panic("d3: position iterations must be >= 0")
	}

	return &World{
		Gravity:            gravity,
		solver:             newContactSolver(),
		velocityIterations: velocityIterations,
		positionIterations: positionIterations,
	}
}

// Reserve grows the body storage to hold at least count bodies
func (w *World) Reserve(count int) {
	if count <= cap(w.bodies) {
		return
	}
	bodies := make([]Body, len(w.bodies), count)
	copy(bodies, w.bodies)
	w.bodies = bodies
}

// AddBody appends a body built from the full box size, mass, friction and
// pose, and returns its index. Returns ok = false without mutating the world
// when the body count has reached MaxBodies.
func (w *World) AddBody(size mgl64.Vec3, mass, friction float64, position mgl64.Vec3, rotation Rot) (index uint32, ok bool) {
	if uint64(len(w.bodies)) >= MaxBodies {
		return 0, false
	}

	body := NewBody(size, mass, friction)
	body.Position = position
	body.Rotation = rotation
	w.bodies = append(w.bodies, body)
	return uint32(len(w.bodies) - 1), true
}

// Body returns the body at the given index
func (w *World) Body(index uint32) *Body {
	return &w.bodies[index]
}

// Bodies returns the bodies in insertion order. The slice is owned by the
// world; callers must not grow it.
func (w *World) Bodies() []Body {
	return w.bodies
}

// BodyCount returns the number of bodies in the world
func (w *World) BodyCount() int {
	return len(w.bodies)
}

// Clear removes all bodies, manifolds and cached broad-phase state
func (w *World) Clear() {
	w.bodies = w.bodies[:0]
	w.broadPhase.clear()
	w.solver.clear()
}

// BroadPhase returns the broad phase, exposing the per-body AABBs of the
// last step
func (w *World) BroadPhase() *BroadPhase {
	return &w.broadPhase
}

// Manifolds returns the persistent contact manifolds in dense-array order
func (w *World) Manifolds() []ContactManifold {
	return w.solver.Manifolds()
}

// VelocityIterations returns the velocity iteration count
func (w *World) VelocityIterations() int {
	return w.velocityIterations
}

// SetVelocityIterations sets the velocity iteration count; panics if n < 1
func (w *World) SetVelocityIterations(n int) {
	if n < 1 {
		panic("d3: velocity iterations must be >= 1")
	}
	w.velocityIterations = n
}

// PositionIterations returns the position iteration count
func (w *World) PositionIterations() int {
	return w.positionIterations
}

// SetPositionIterations sets the position iteration count; panics if n < 0
func (w *World) SetPositionIterations(n int) {
	if n < 0 {
		panic("d3: position iterations must be >= 0")
	}
	w.positionIterations = n
}

// Step advances the simulation by timeStep seconds. Panics if timeStep <= 0.
//
// Positions are integrated before the position iterations on purpose: the
// position solver then sees the already-advanced poses and cleans up the
// residual penetration at the end of the step.
func (w *World) Step(timeStep float64) {
	if timeStep <= 0 {
		panic("d3: time step must be positive")
	}

	w.applyGravity(timeStep)

	w.updateManifolds()

	w.solver.prepareToSolve(w.bodies)
	w.solver.solveVelocities(w.bodies, w.velocityIterations)

	w.integrate(timeStep)

	w.solver.solvePositions(w.bodies, w.positionIterations)
}

func (w *World) applyGravity(timeStep float64) {
	gravityStep := w.Gravity.Mul(timeStep)
	for i := range w.bodies {
		body := &w.bodies[i]
		if body.IsStatic() {
			continue
		}
		body.LinearVelocity = body.LinearVelocity.Add(gravityStep)
	}
}

// updateManifolds refreshes the persistent manifolds: every manifold is
// marked obsolete, pairs reported by the broad phase run the narrow phase
// and upsert their manifold, and manifolds still obsolete afterwards are
// removed
func (w *World) updateManifolds() {
	w.solver.prepareManifoldsUpdate()

	w.broadPhase.Update(w.bodies, func(indA, indB uint32) {
		bodyA := &w.bodies[indA]
		bodyB := &w.bodies[indB]

		var points [MaxCollisionPoints]CollisionPoint
		count := BoxBoxCollision(
			[2]mgl64.Vec3{bodyA.Position, bodyB.Position},
			[2]Rot{bodyA.Rotation, bodyB.Rotation},
			[2]mgl64.Vec3{bodyA.HalfSize, bodyB.HalfSize},
			&points)

		if count > 0 {
			w.solver.onCollision(w.bodies, indA, indB, points[:count])
		}
	})

	w.solver.finishManifoldsUpdate()
	w.solver.flushEvents(&w.Events)
}

func (w *World) integrate(timeStep float64) {
	for i := range w.bodies {
		body := &w.bodies[i]
		body.Position = body.Position.Add(body.LinearVelocity.Mul(timeStep))

		// Rotation advances by the axis-angle of ω·dt, multiplied on the
		// left and renormalized
		rotationStep := body.AngularVelocity.Mul(timeStep)
		angle := rotationStep.Len()
		if angle > 0 {
			axis := rotationStep.Mul(1.0 / angle)
			body.Rotation.SetQuat(
				mgl64.QuatRotate(angle, axis).Mul(body.Rotation.Quat()))
		}
	}
}
