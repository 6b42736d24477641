package main

import (
	"fmt"

	"github.com/akmonengine/quill/d3"
	"github.com/go-gl/mathgl/mgl64"
)

const timeStep = 1.0 / 60.0

func main() {
	world := d3.NewWorld(mgl64.Vec3{0, -10, 0}, 20, 10)

	// Static floor
	world.AddBody(
		mgl64.Vec3{100, 1, 100},
		0, 0.5,
		mgl64.Vec3{0, -0.5, 0}, d3.RotIdent())

	// A small tower of cubes, slightly offset so it wobbles
	for i := 0; i < 5; i++ {
		world.AddBody(
			mgl64.Vec3{1, 1, 1},
			1, 0.5,
			mgl64.Vec3{0.05 * float64(i), 0.5 + float64(i), 0}, d3.RotIdent())
	}

	for step := 0; step < 600; step++ {
		world.Step(timeStep)
	}

	for i, body := range world.Bodies() {
		fmt.Printf("body %d: pos(%.3f, %.3f, %.3f) |v| %.4f\n",
			i,
			body.Position.X(), body.Position.Y(), body.Position.Z(),
			body.LinearVelocity.Len())
	}
}
