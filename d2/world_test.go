package d2

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testTimeStep = 1.0 / 60.0

func newTestWorld() *World {
	return NewWorld(mgl64.Vec2{0, -10}, 20, 10)
}

func stepN(world *World, steps int) {
	for i := 0; i < steps; i++ {
		world.Step(testTimeStep)
	}
}

// kineticEnergy sums the linear and rotational kinetic energy of all
// dynamic bodies
func kineticEnergy(world *World) float64 {
	var energy float64
	for i := range world.Bodies() {
		body := world.Body(uint32(i))
		energy += 0.5 * body.Mass * body.LinearVelocity.LenSqr()
		energy += 0.5 * body.Inertia * body.AngularVelocity * body.AngularVelocity
	}
	return energy
}

func TestBoxRestsOnFloor(t *testing.T) {
	world := newTestWorld()
	world.AddBody(mgl64.Vec2{100, 1}, 0, 0.5, mgl64.Vec2{0, -0.5}, 0)
	world.AddBody(mgl64.Vec2{1, 1}, 1, 0.5, mgl64.Vec2{0, 5}, 0)

	stepN(world, 600)

	box := world.Body(1)
	assert.Less(t, math.Abs(box.LinearVelocity.Y()), 1e-2, "box still moving vertically")
	assert.InDelta(t, 0.5, box.Position.Y(), 0.001, "box not resting on the floor surface")
	assert.InDelta(t, 0.0, box.Rotation.Angle(), 0.01, "box tilted while resting")
}

func TestStackedBoxesSettle(t *testing.T) {
	world := newTestWorld()
	world.AddBody(mgl64.Vec2{100, 1}, 0, 0.5, mgl64.Vec2{0, -0.5}, 0)
	world.AddBody(mgl64.Vec2{1, 1}, 1, 0.5, mgl64.Vec2{0, 1}, 0)
	world.AddBody(mgl64.Vec2{1, 1}, 1, 0.5, mgl64.Vec2{0, 2}, 0)

	stepN(world, 600)

	boxA := world.Body(1)
	boxB := world.Body(2)
	assert.GreaterOrEqual(t, boxA.Position.Y(), 0.499, "lower box sank into the floor")
	assert.LessOrEqual(t, boxA.Position.Y(), 0.52, "lower box floats")
	assert.GreaterOrEqual(t, boxB.Position.Y(), 1.499, "upper box sank into the lower")
	assert.LessOrEqual(t, boxB.Position.Y(), 1.55, "upper box floats")
	assert.Less(t, math.Abs(boxA.AngularVelocity), 1e-2, "lower box still rotating")
	assert.Less(t, math.Abs(boxB.AngularVelocity), 1e-2, "upper box still rotating")
}

// inclineScene builds a floor rotated by angle with a unit box resting flush
// on it, both with the given friction. Returns the box index and the
// downhill direction.
func inclineScene(world *World, angle, friction float64) (uint32, mgl64.Vec2) {
	world.AddBody(mgl64.Vec2{100, 1}, 0, friction, mgl64.Vec2{0, -0.5}, angle)

	normal := mgl64.Vec2{-math.Sin(angle), math.Cos(angle)}
	surface := mgl64.Vec2{0, -0.5}.Add(normal.Mul(0.5))
	center := surface.Add(normal.Mul(0.5))
	box, _ := world.AddBody(mgl64.Vec2{1, 1}, 1, friction, center, angle)

	downhill := mgl64.Vec2{-math.Cos(angle), -math.Sin(angle)}
	return box, downhill
}

func TestFrictionPreventsSliding(t *testing.T) {
	world := newTestWorld()
	box, downhill := inclineScene(world, 10*math.Pi/180, 0.9)
	start := world.Body(box).Position

	stepN(world, 300)

	displacement := world.Body(box).Position.Sub(start).Dot(downhill)
	assert.Less(t, math.Abs(displacement), 0.1, "box slid on a high-friction incline")
}

func TestFrictionPermitsSliding(t *testing.T) {
	world := newTestWorld()
	box, downhill := inclineScene(world, 10*math.Pi/180, 0.05)
	start := world.Body(box).Position

	stepN(world, 300)

	displacement := world.Body(box).Position.Sub(start).Dot(downhill)
	assert.Greater(t, displacement, 2.0, "box stuck on a low-friction incline")
}

func TestManifoldImpulsePersistsAcrossStorageGrowth(t *testing.T) {
	world := newTestWorld()

	// Floor plus a stack of 15 boxes; the bodies are appended one by one so
	// the slice reallocates several times
	world.AddBody(mgl64.Vec2{100, 1}, 0, 0.5, mgl64.Vec2{0, -0.5}, 0)
	for i := 0; i < 15; i++ {
		world.AddBody(mgl64.Vec2{1, 1}, 1, 0.5, mgl64.Vec2{0, 0.5 + float64(i)}, 0)
	}
	stepN(world, 120)

	pairImpulse := func() float64 {
		for i := range world.Manifolds() {
			manifold := &world.Manifolds()[i]
			if manifold.BodyA() == 2 && manifold.BodyB() == 3 {
				var sum float64
				for ci := 0; ci < manifold.ContactCount(); ci++ {
					sum += manifold.Contact(ci).NormalImpulse()
				}
				return sum
			}
		}
		t.Fatal("no manifold for the pair (2, 3)")
		return 0
	}

	before := pairImpulse()
	require.Greater(t, before, 0.0, "stack pair carries no normal impulse")

	// Grow the storage well past its capacity with bodies far away from
	// the stack
	for i := 0; i < 16; i++ {
		world.AddBody(mgl64.Vec2{1, 1}, 1, 0.5, mgl64.Vec2{50 + 2*float64(i), 5}, 0)
	}
	world.Step(testTimeStep)

	after := pairImpulse()
	assert.InEpsilon(t, before, after, 0.5,
		"accumulated impulse lost across body storage growth")
}

func TestClearAndRefill(t *testing.T) {
	scene := func(world *World) {
		world.AddBody(mgl64.Vec2{100, 1}, 0, 0.5, mgl64.Vec2{0, -0.5}, 0)
		world.AddBody(mgl64.Vec2{1, 1}, 1, 0.5, mgl64.Vec2{0, 2}, 0)
		world.AddBody(mgl64.Vec2{1, 1}, 1, 0.5, mgl64.Vec2{0.2, 4}, 0)
	}

	world := newTestWorld()
	scene(world)
	stepN(world, 120)

	world.Clear()
	require.Zero(t, world.BodyCount(), "bodies remain after clear")
	require.Empty(t, world.Manifolds(), "manifolds remain after clear")
	require.Empty(t, world.BroadPhase().AABBs(), "broad-phase state remains after clear")

	// A cleared-and-refilled world must behave exactly like a fresh one
	scene(world)
	stepN(world, 120)

	fresh := newTestWorld()
	scene(fresh)
	stepN(fresh, 120)

	require.Equal(t, fresh.BodyCount(), world.BodyCount())
	for i := 0; i < world.BodyCount(); i++ {
		assert.Equal(t, fresh.Body(uint32(i)).Position, world.Body(uint32(i)).Position,
			"body %d position diverged after clear and refill", i)
		assert.Equal(t, fresh.Body(uint32(i)).Rotation.Angle(), world.Body(uint32(i)).Rotation.Angle(),
			"body %d rotation diverged after clear and refill", i)
	}
}

func TestImpulseInvariantsAndFrictionCone(t *testing.T) {
	world := newTestWorld()
	world.AddBody(mgl64.Vec2{100, 1}, 0, 0.5, mgl64.Vec2{0, -0.5}, 0)
	world.AddBody(mgl64.Vec2{1, 1}, 1, 0.5, mgl64.Vec2{0, 1}, 0)
	world.AddBody(mgl64.Vec2{1, 1}, 1, 0.5, mgl64.Vec2{0.3, 2}, 0)
	world.Body(2).LinearVelocity = mgl64.Vec2{-3, 0}

	for step := 0; step < 200; step++ {
		world.Step(testTimeStep)

		for i := range world.Manifolds() {
			manifold := &world.Manifolds()[i]
			for ci := 0; ci < manifold.ContactCount(); ci++ {
				contact := manifold.Contact(ci)
				assert.GreaterOrEqual(t, contact.NormalImpulse(), 0.0,
					"negative normal impulse at step %d", step)
				assert.LessOrEqual(t, math.Abs(contact.TangentImpulse()),
					manifold.Friction()*contact.NormalImpulse()+1e-12,
					"friction cone violated at step %d", step)
			}
		}
	}
}

func TestSolveVelocitiesDoesNotAddEnergy(t *testing.T) {
	// Gravity off: a step only resolves the overlapping, approaching boxes,
	// and inelastic contact must not increase kinetic energy
	world := NewWorld(mgl64.Vec2{}, 20, 0)
	world.AddBody(mgl64.Vec2{1, 1}, 1, 0.5, mgl64.Vec2{0, 0}, 0)
	world.AddBody(mgl64.Vec2{1, 1}, 1, 0.5, mgl64.Vec2{0.9, 0.1}, 0)
	world.Body(0).LinearVelocity = mgl64.Vec2{2, 0}
	world.Body(1).LinearVelocity = mgl64.Vec2{-2, 0}

	before := kineticEnergy(world)
	world.Step(testTimeStep)
	after := kineticEnergy(world)

	assert.LessOrEqual(t, after, before+1e-9, "velocity solve added kinetic energy")
}

func TestStaticBodyNeverMoves(t *testing.T) {
	world := newTestWorld()
	floor, _ := world.AddBody(mgl64.Vec2{100, 1}, 0, 0.5, mgl64.Vec2{0, -0.5}, 0)
	world.AddBody(mgl64.Vec2{1, 1}, 1, 0.5, mgl64.Vec2{0, 3}, 0)
	world.AddBody(mgl64.Vec2{1, 1}, 1, 0.5, mgl64.Vec2{0.2, 5}, 0)

	position := world.Body(floor).Position
	angle := world.Body(floor).Rotation.Angle()

	stepN(world, 300)

	assert.Equal(t, position, world.Body(floor).Position, "static body translated")
	assert.Equal(t, angle, world.Body(floor).Rotation.Angle(), "static body rotated")
	assert.Zero(t, world.Body(floor).LinearVelocity, "static body gained velocity")
	assert.Zero(t, world.Body(floor).AngularVelocity, "static body gained angular velocity")
}

func TestAddBodyAndReserve(t *testing.T) {
	world := newTestWorld()
	world.Reserve(8)

	index, ok := world.AddBody(mgl64.Vec2{1, 1}, 1, 0.5, mgl64.Vec2{0, 0}, 0.3)
	require.True(t, ok)
	assert.Equal(t, uint32(0), index)
	assert.Equal(t, 0.3, world.Body(index).Rotation.Angle())
	assert.Equal(t, mgl64.Vec2{0.5, 0.5}, world.Body(index).HalfSize)

	index, ok = world.AddBody(mgl64.Vec2{1, 1}, 0, 0.5, mgl64.Vec2{2, 0}, 0)
	require.True(t, ok)
	assert.Equal(t, uint32(1), index)
	assert.True(t, world.Body(index).IsStatic())
}

func TestStepPanicsOnInvalidTimeStep(t *testing.T) {
	world := newTestWorld()
	assert.Panics(t, func() { world.Step(0) })
	assert.Panics(t, func() { world.Step(-testTimeStep) })
}

func TestIterationSetters(t *testing.T) {
	world := newTestWorld()

	world.SetVelocityIterations(5)
	world.SetPositionIterations(0)
	assert.Equal(t, 5, world.VelocityIterations())
	assert.Equal(t, 0, world.PositionIterations())

	assert.Panics(t, func() { world.SetVelocityIterations(0) })
	assert.Panics(t, func() { world.SetPositionIterations(-1) })
	assert.Panics(t, func() { NewWorld(mgl64.Vec2{}, 0, 0) })
}
