package d2

import (
	"math"
	"sort"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func collide(posA, posB mgl64.Vec2, rotA, rotB float64, sizeA, sizeB mgl64.Vec2) (int, [MaxCollisionPoints]CollisionPoint) {
	var points [MaxCollisionPoints]CollisionPoint
	count := BoxBoxCollision(
		[2]mgl64.Vec2{posA, posB},
		[2]Rot{RotFromAngle(rotA), RotFromAngle(rotB)},
		[2]mgl64.Vec2{sizeA.Mul(0.5), sizeB.Mul(0.5)},
		&points)
	return count, points
}

func TestBoxBoxCollisionSeparated(t *testing.T) {
	tests := []struct {
		name string
		posB mgl64.Vec2
		rotB float64
	}{
		{"far right", mgl64.Vec2{5, 0}, 0},
		{"far up", mgl64.Vec2{0, 5}, 0},
		{"diagonal", mgl64.Vec2{2, 2}, 0},
		{"rotated, near corner", mgl64.Vec2{1.5, 1.5}, math.Pi / 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			count, _ := collide(
				mgl64.Vec2{0, 0}, tt.posB, 0, tt.rotB,
				mgl64.Vec2{1, 1}, mgl64.Vec2{1, 1})
			if count != 0 {
				t.Errorf("separated boxes produced %d contact points", count)
			}
		})
	}
}

func TestBoxBoxCollisionFaceContact(t *testing.T) {
	// A unit box overlapping the top of a wide floor box by 0.01
	count, points := collide(
		mgl64.Vec2{0, 0}, mgl64.Vec2{0, 0.99}, 0, 0,
		mgl64.Vec2{100, 1}, mgl64.Vec2{1, 1})

	if count != 2 {
		t.Fatalf("face contact produced %d points, want 2", count)
	}

	for i := 0; i < count; i++ {
		point := points[i]

		if point.Normal.Sub(mgl64.Vec2{0, 1}).Len() > 1e-12 {
			t.Errorf("point %d: normal = %v, want (0, 1)", i, point.Normal)
		}
		if math.Abs(point.Penetration-0.01) > 1e-9 {
			t.Errorf("point %d: penetration = %v, want 0.01", i, point.Penetration)
		}
		if math.Abs(math.Abs(point.Position.X())-0.5) > 1e-9 {
			t.Errorf("point %d: |x| = %v, want 0.5", i, math.Abs(point.Position.X()))
		}
		if point.Penetration < 0 {
			t.Errorf("point %d: negative penetration %v", i, point.Penetration)
		}
		if point.FeaturePair[1].Less(point.FeaturePair[0]) {
			t.Errorf("point %d: feature pair %v not canonical", i, point.FeaturePair)
		}
	}

	if points[0].FeaturePair == points[1].FeaturePair {
		t.Errorf("both points carry the same feature pair %v", points[0].FeaturePair)
	}
}

func TestBoxBoxCollisionDeepContact(t *testing.T) {
	// Equal boxes, half overlapping along x
	count, points := collide(
		mgl64.Vec2{0, 0}, mgl64.Vec2{0.5, 0}, 0, 0,
		mgl64.Vec2{1, 1}, mgl64.Vec2{1, 1})

	if count == 0 {
		t.Fatal("overlapping boxes produced no contact points")
	}
	for i := 0; i < count; i++ {
		if points[i].Normal.Sub(mgl64.Vec2{1, 0}).Len() > 1e-12 {
			t.Errorf("point %d: normal = %v, want (1, 0)", i, points[i].Normal)
		}
		if math.Abs(points[i].Penetration-0.5) > 1e-9 {
			t.Errorf("point %d: penetration = %v, want 0.5", i, points[i].Penetration)
		}
	}
}

func TestBoxBoxCollisionRotated(t *testing.T) {
	// A 45-degree box dropped onto a floor, corner first
	count, points := collide(
		mgl64.Vec2{0, 0}, mgl64.Vec2{0, 0.5 + math.Sqrt2/2 - 0.05}, 0, math.Pi/4,
		mgl64.Vec2{100, 1}, mgl64.Vec2{1, 1})

	if count == 0 {
		t.Fatal("corner contact produced no points")
	}
	for i := 0; i < count; i++ {
		if points[i].Penetration < 0 {
			t.Errorf("point %d: negative penetration %v", i, points[i].Penetration)
		}
		if points[i].Normal.Dot(mgl64.Vec2{0, 1}) < 0.9 {
			t.Errorf("point %d: normal %v does not point up", i, points[i].Normal)
		}
	}
}

func TestBoxBoxCollisionSwapSymmetry(t *testing.T) {
	configs := []struct {
		name       string
		posA, posB mgl64.Vec2
		rotA, rotB float64
		sizeA      mgl64.Vec2
		sizeB      mgl64.Vec2
	}{
		// A slight rotation keeps the face penetrations distinct, so the
		// reference box does not flip on an exact tie under the swap
		{"face overlap", mgl64.Vec2{0, 0}, mgl64.Vec2{0, 0.9}, 0, 0.05, mgl64.Vec2{2, 1}, mgl64.Vec2{1, 1}},
		{"tilted", mgl64.Vec2{0, 0}, mgl64.Vec2{0.7, 0.6}, 0.1, 0.6, mgl64.Vec2{1.5, 1}, mgl64.Vec2{1, 1}},
	}

	for _, tt := range configs {
		t.Run(tt.name, func(t *testing.T) {
			countAB, pointsAB := collide(tt.posA, tt.posB, tt.rotA, tt.rotB, tt.sizeA, tt.sizeB)
			countBA, pointsBA := collide(tt.posB, tt.posA, tt.rotB, tt.rotA, tt.sizeB, tt.sizeA)

			if countAB != countBA {
				t.Fatalf("contact counts differ under swap: %d vs %d", countAB, countBA)
			}

			ab := pointsAB[:countAB]
			ba := pointsBA[:countBA]
			sort.Slice(ab, func(i, j int) bool { return ab[i].Position.X() < ab[j].Position.X() })
			sort.Slice(ba, func(i, j int) bool { return ba[i].Position.X() < ba[j].Position.X() })

			for i := range ab {
				if ab[i].Position.Sub(ba[i].Position).Len() > 1e-9 {
					t.Errorf("point %d: positions differ under swap: %v vs %v",
						i, ab[i].Position, ba[i].Position)
				}
				// The normal points A -> B, so it flips with the swap
				if ab[i].Normal.Add(ba[i].Normal).Len() > 1e-9 {
					t.Errorf("point %d: normals are not opposite under swap: %v vs %v",
						i, ab[i].Normal, ba[i].Normal)
				}
				if math.Abs(ab[i].Penetration-ba[i].Penetration) > 1e-9 {
					t.Errorf("point %d: penetrations differ under swap: %v vs %v",
						i, ab[i].Penetration, ba[i].Penetration)
				}
			}
		})
	}
}

func TestFeaturePairsCanonicalAndStable(t *testing.T) {
	// Feature pairs must stay identical while the configuration only moves
	// slightly, since they key the warm-started impulses
	count1, points1 := collide(
		mgl64.Vec2{0, 0}, mgl64.Vec2{0, 0.99}, 0, 0,
		mgl64.Vec2{100, 1}, mgl64.Vec2{1, 1})
	count2, points2 := collide(
		mgl64.Vec2{0, 0}, mgl64.Vec2{0.001, 0.989}, 0, 0.002,
		mgl64.Vec2{100, 1}, mgl64.Vec2{1, 1})

	if count1 != count2 {
		t.Fatalf("perturbation changed contact count: %d vs %d", count1, count2)
	}
	for i := 0; i < count1; i++ {
		if points1[i].FeaturePair != points2[i].FeaturePair {
			t.Errorf("point %d: feature pair changed under perturbation: %v vs %v",
				i, points1[i].FeaturePair, points2[i].FeaturePair)
		}
	}
}
