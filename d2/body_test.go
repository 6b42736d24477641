package d2

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func TestNewBody(t *testing.T) {
	tests := []struct {
		name        string
		size        mgl64.Vec2
		mass        float64
		friction    float64
		wantStatic  bool
		wantInertia float64
	}{
		{"dynamic unit box", mgl64.Vec2{1, 1}, 1.0, 0.5, false, 2.0 / 12.0},
		{"static floor", mgl64.Vec2{100, 1}, 0.0, 0.5, true, 0},
		{"heavy box", mgl64.Vec2{2, 4}, 10.0, 1.0, false, 10.0 * 20.0 / 12.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := NewBody(tt.size, tt.mass, tt.friction)

			if body.IsStatic() != tt.wantStatic {
				t.Errorf("IsStatic() = %v, want %v", body.IsStatic(), tt.wantStatic)
			}
			if got := body.HalfSize; got != tt.size.Mul(0.5) {
				t.Errorf("HalfSize = %v, want %v", got, tt.size.Mul(0.5))
			}
			if math.Abs(body.Inertia-tt.wantInertia) > 1e-12 {
				t.Errorf("Inertia = %v, want %v", body.Inertia, tt.wantInertia)
			}

			if tt.wantStatic {
				if body.InvMass != 0 || body.InvInertia != 0 {
					t.Errorf("static body has InvMass %v, InvInertia %v, want 0, 0",
						body.InvMass, body.InvInertia)
				}
			} else {
				if math.Abs(body.InvMass*body.Mass-1) > 1e-12 {
					t.Errorf("InvMass = %v is not the inverse of mass %v", body.InvMass, body.Mass)
				}
				if math.Abs(body.InvInertia*body.Inertia-1) > 1e-12 {
					t.Errorf("InvInertia = %v is not the inverse of inertia %v", body.InvInertia, body.Inertia)
				}
			}
		})
	}
}

func TestNewBodyPanics(t *testing.T) {
	tests := []struct {
		name     string
		size     mgl64.Vec2
		mass     float64
		friction float64
	}{
		{"zero width", mgl64.Vec2{0, 1}, 1, 0.5},
		{"negative height", mgl64.Vec2{1, -1}, 1, 0.5},
		{"negative mass", mgl64.Vec2{1, 1}, -1, 0.5},
		{"friction above one", mgl64.Vec2{1, 1}, 1, 1.5},
		{"negative friction", mgl64.Vec2{1, 1}, 1, -0.1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer func() {
				if recover() == nil {
					t.Errorf("NewBody(%v, %v, %v) did not panic", tt.size, tt.mass, tt.friction)
				}
			}()
			NewBody(tt.size, tt.mass, tt.friction)
		})
	}
}

func TestRotationMatrixConsistency(t *testing.T) {
	angles := []float64{0, 0.3, -1.2, math.Pi, 2 * math.Pi}

	for _, angle := range angles {
		rot := RotFromAngle(angle)
		want := mgl64.Rotate2D(angle)
		if rot.Mat() != want {
			t.Errorf("RotFromAngle(%v).Mat() = %v, want %v", angle, rot.Mat(), want)
		}

		rot.SetAngle(angle * 0.5)
		want = mgl64.Rotate2D(angle * 0.5)
		if rot.Mat() != want {
			t.Errorf("after SetAngle(%v), Mat() = %v, want %v", angle*0.5, rot.Mat(), want)
		}
	}
}

func TestBodyAABB(t *testing.T) {
	tests := []struct {
		name     string
		size     mgl64.Vec2
		position mgl64.Vec2
		angle    float64
		wantMin  mgl64.Vec2
		wantMax  mgl64.Vec2
	}{
		{
			"axis aligned",
			mgl64.Vec2{2, 4}, mgl64.Vec2{1, 1}, 0,
			mgl64.Vec2{0, -1}, mgl64.Vec2{2, 3},
		},
		{
			"rotated 45 degrees",
			mgl64.Vec2{2, 2}, mgl64.Vec2{0, 0}, math.Pi / 4,
			mgl64.Vec2{-math.Sqrt2, -math.Sqrt2}, mgl64.Vec2{math.Sqrt2, math.Sqrt2},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := NewBody(tt.size, 1, 0.5)
			body.Position = tt.position
			body.Rotation.SetAngle(tt.angle)

			aabb := bodyAABB(&body)
			if aabb.Min.Sub(tt.wantMin).Len() > 1e-12 || aabb.Max.Sub(tt.wantMax).Len() > 1e-12 {
				t.Errorf("bodyAABB = [%v, %v], want [%v, %v]", aabb.Min, aabb.Max, tt.wantMin, tt.wantMax)
			}
		})
	}
}
