package main

import (
	"fmt"
	"math/rand"

	"github.com/akmonengine/quill/d2"
	"github.com/go-gl/mathgl/mgl64"
)

const (
	timeStep    = 1.0 / 60.0
	maxSteps    = 400
	dumpEvery   = 50
	bottomSize  = 25.0
	wallSize    = 5.0
	columnCount = 10
	rowCount    = 20
)

// A glass-shaped static scene filled with randomized falling boxes
func createScene(world *d2.World) {
	const friction = 0.5

	// Bottom
	world.AddBody(
		mgl64.Vec2{bottomSize + 2*wallSize, wallSize},
		0, friction,
		mgl64.Vec2{0, -wallSize * 0.5}, 0)

	// Left and right sides
	world.AddBody(
		mgl64.Vec2{wallSize, bottomSize * 2},
		0, friction,
		mgl64.Vec2{-(bottomSize + wallSize) * 0.5, bottomSize}, 0)
	world.AddBody(
		mgl64.Vec2{wallSize, bottomSize * 2},
		0, friction,
		mgl64.Vec2{(bottomSize + wallSize) * 0.5, bottomSize}, 0)

	rng := rand.New(rand.NewSource(42))

	cell := bottomSize / float64(columnCount) * 0.5
	startX := -float64(columnCount-1) * cell / 2
	for row := 0; row < rowCount; row++ {
		for col := 0; col < columnCount; col++ {
			size := mgl64.Vec2{
				cell * (0.5 + 0.5*rng.Float64()),
				cell * (0.5 + 0.5*rng.Float64()),
			}
			mass := size.X() * size.Y() * 1000
			position := mgl64.Vec2{
				startX + float64(col)*cell,
				cell*2 + float64(row)*cell,
			}
			world.AddBody(size, mass, friction, position, 0)
		}
	}
}

func main() {
	world := d2.NewWorld(mgl64.Vec2{0, -10}, 15, 5)
	world.Reserve(3 + columnCount*rowCount)
	createScene(world)

	world.Events.OnCollisionEnter = func(e d2.CollisionEvent) {
		if e.BodyA < 3 && e.BodyB >= 3 {
			// A box touched the glass for the first time
			fmt.Printf("box %d landed on wall %d\n", e.BodyB, e.BodyA)
		}
	}

	for step := 0; step < maxSteps; step++ {
		world.Step(timeStep)

		if step%dumpEvery == 0 {
			fmt.Printf("step %d: %d bodies, %d manifolds\n",
				step, world.BodyCount(), len(world.Manifolds()))
		}
	}

	for i, body := range world.Bodies() {
		fmt.Printf("body %d: pos(%.3f, %.3f) rot(%.3f)\n",
			i, body.Position.X(), body.Position.Y(), body.Rotation.Angle())
	}
}
