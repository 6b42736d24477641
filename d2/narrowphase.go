package d2

import (
	"math"

	"github.com/akmonengine/quill"
	"github.com/go-gl/mathgl/mgl64"
)

// MaxCollisionPoints is the maximum number of contact points between two boxes
const MaxCollisionPoints = 2

// CollisionPoint is a single contact between two boxes, produced by the
// narrow phase. The local-frame members allow the solver to reconstruct the
// contact after the bodies have moved.
type CollisionPoint struct {
	// Position of the contact in world space
	Position mgl64.Vec2

	// Normal is the unit contact normal, pointing from body A to body B
	Normal mgl64.Vec2

	// Penetration depth, >= 0
	Penetration float64

	// FeaturePair identifies the box features yielding this point
	FeaturePair quill.FeaturePair

	// ClipBoxIndex tells which box supplied the reference (clipping) face
	ClipBoxIndex int

	// LocalPoints is the contact expressed in each body's local frame
	LocalPoints [2]mgl64.Vec2

	// LocalContactNormal is the reference normal in the clipping box's
	// local frame
	LocalContactNormal mgl64.Vec2
}

// clippedPoint is an incident-edge vertex during clipping
type clippedPoint struct {
	position    mgl64.Vec2
	featurePair quill.FeaturePair
}

// clipEdgeByPlane clips an edge by the negative halfspace of a plane.
// An interpolated vertex keeps the feature of the endpoint inside the
// halfspace and takes the clip box and clip edge as its other feature.
// Returns false when fewer than two vertices survive.
func clipEdgeByPlane(
	source *[2]clippedPoint,
	clipPlane plane,
	clipBox, clipEdge uint8,
	target *[2]clippedPoint,
) bool {
	pointCount := 0
	var distances [2]float64
	for pi := 0; pi < 2; pi++ {
		distances[pi] = clipPlane.distance(source[pi].position)
		if distances[pi] <= 0 {
			target[pointCount] = source[pi]
			pointCount++
		}
	}

	if pointCount == 1 && distances[0]*distances[1] < 0 {
		point := &target[pointCount]
		pointCount++

		lerpFactor := distances[0] / (distances[0] - distances[1])
		point.position = source[0].position.Add(
			source[1].position.Sub(source[0].position).Mul(lerpFactor))

		// Keep the feature of the endpoint in the negative halfspace while
		// overriding the feature of the endpoint in the positive halfspace
		// with the clip box and clip edge
		pi := 0
		if distances[0] <= 0 {
			pi = 1
		}
		point.featurePair = source[pi].featurePair
		point.featurePair[pi].Geometry = clipBox
		point.featurePair[pi].Edge = clipEdge
	}
	return pointCount == 2
}

// vertexSigns enumerates box corners counter-clockwise starting from (+, +):
//
//	       e0
//	   v1      v0
//	   |        |
//	e1 |        | e3
//	   |        |
//	   v2      v3
//	       e2
var vertexSigns = [4][2]float64{
	{+1, +1},
	{-1, +1},
	{-1, -1},
	{+1, -1},
}

// BoxBoxCollision computes the contact points between two oriented boxes
// using the separating-axis test followed by incident-edge clipping.
// It returns the number of points written to result; 0 means no contact.
func BoxBoxCollision(
	positions [2]mgl64.Vec2,
	rotations [2]Rot,
	halfSizes [2]mgl64.Vec2,
	result *[MaxCollisionPoints]CollisionPoint,
) int {
	invRotations := [2]mgl64.Mat2{
		rotations[0].InvMat(),
		rotations[1].InvMat(),
	}

	// Step 1: find the min penetration or a separating axis
	clipBox := 0
	clipAxis := 0
	var minPenetrationDir mgl64.Vec2
	centersVec := positions[1].Sub(positions[0])
	{
		// A -> B relative rotation
		abRelRotation := invRotations[0].Mul2(rotations[1].Mat())
		absRelRotations := [2]mgl64.Mat2{
			absMat2(abRelRotation),
			absMat2(abRelRotation.Transpose()),
		}

		minPenetration := math.MaxFloat64
		for bi := 0; bi < 2; bi++ { // box index
			otherBoxProjections := absVec2(invRotations[bi].Mul2x1(centersVec)).
				Sub(absRelRotations[1-bi].Mul2x1(halfSizes[1-bi]))

			penetrations := halfSizes[bi].Sub(otherBoxProjections)
			for ai := 0; ai < 2; ai++ { // axis index
				if penetrations[ai] < 0 {
					return 0
				}

				if penetrations[ai] < minPenetration {
					minPenetration = penetrations[ai]
					clipBox = bi
					clipAxis = ai
				}
			}
		}
		minPenetrationDir = rotations[clipBox].Mat().Col(clipAxis)
		// Should be directed from A to B
		if minPenetrationDir.Dot(centersVec) < 0 {
			minPenetrationDir = minPenetrationDir.Mul(-1)
		}
	}

	// The clip normal points away from the clipping box
	clipNormal := minPenetrationDir
	if clipBox == 1 {
		clipNormal = clipNormal.Mul(-1)
	}

	// Step 2: find the incident edge
	incidentBox := 1 - clipBox
	var edge [2]clippedPoint
	{
		// Clip normal is in world space; transform it to the local space of
		// the incident box
		incidentDir := invRotations[incidentBox].Mul2x1(clipNormal).Mul(-1)

		var incidentEdge int
		if math.Abs(incidentDir.X()) > math.Abs(incidentDir.Y()) {
			// +-X direction
			incidentEdge = 1
			if incidentDir.X() > 0 {
				incidentEdge = 3
			}
		} else {
			// +-Y direction
			incidentEdge = 2
			if incidentDir.Y() > 0 {
				incidentEdge = 0
			}
		}

		for pi := 0; pi < 2; pi++ { // edge point index
			point := &edge[pi]
			pointIndex := (incidentEdge + pi) % 4
			localPosition := mgl64.Vec2{
				vertexSigns[pointIndex][0] * halfSizes[incidentBox].X(),
				vertexSigns[pointIndex][1] * halfSizes[incidentBox].Y(),
			}

			for fi := 0; fi < 2; fi++ { // point feature index
				point.featurePair[fi].Geometry = uint8(incidentBox)
				// e3, e0 for v0, e0, e1 for v1, etc.
				// fi = 0 yields the previous edge index for pointIndex,
				// fi = 1 yields the edge index itself
				point.featurePair[fi].Edge = uint8((pointIndex + 3 - 3*fi) % 4)
			}
			point.position = positions[incidentBox].
				Add(rotations[incidentBox].Mat().Mul2x1(localPosition))
		}
	}

	// Step 3: clip the incident edge over the side edges of the clip box
	{
		// The side normal is the other axis of the clip box
		sideAxis := 1 - clipAxis
		sideNormal := rotations[clipBox].Mat().Col(sideAxis)

		sideClipPlane1 := planeFrom(
			sideNormal,
			positions[clipBox],
			halfSizes[clipBox][sideAxis])
		// clip axis 0 (x direction) -> e2, clip axis 1 (y direction) -> e1
		sideEdge1 := uint8(2 - clipAxis)

		sideClipPlane2 := planeFrom(
			sideNormal.Mul(-1),
			positions[clipBox],
			halfSizes[clipBox][sideAxis])
		sideEdge2 := (sideEdge1 + 2) % 4 // 180 degrees rotation

		var temp [2]clippedPoint
		// First clip the edge storing the result to temp, then clip temp
		// back to edge
		if !clipEdgeByPlane(&edge, sideClipPlane1, uint8(clipBox), sideEdge1, &temp) ||
			!clipEdgeByPlane(&temp, sideClipPlane2, uint8(clipBox), sideEdge2, &edge) {
			return 0
		}
	}

	// Step 4: create the collision points
	resultPointCount := 0
	{
		clipPlane := planeFrom(
			clipNormal,
			positions[clipBox],
			halfSizes[clipBox][clipAxis])

		localClipNormal := invRotations[clipBox].Mul2x1(clipNormal)

		for pi := 0; pi < 2; pi++ { // point index
			point := &edge[pi]
			penetration := -clipPlane.distance(point.position)
			if penetration < 0 {
				continue
			}

			resultPosition := point.position.Add(clipNormal.Mul(penetration))

			var localPoints [2]mgl64.Vec2
			localPoints[clipBox] = invRotations[clipBox].
				Mul2x1(resultPosition.Sub(positions[clipBox]))
			localPoints[incidentBox] = invRotations[incidentBox].
				Mul2x1(point.position.Sub(positions[incidentBox]))

			result[resultPointCount] = CollisionPoint{
				Position: resultPosition,
				Normal:   minPenetrationDir,
				// Keep the ordering in case of a flip of the
				// clipping-incident boxes; this keeps the collision
				// points persistent
				FeaturePair:        point.featurePair.Canonical(),
				Penetration:        penetration,
				ClipBoxIndex:       clipBox,
				LocalPoints:        localPoints,
				LocalContactNormal: localClipNormal,
			}
			resultPointCount++
		}
	}
	return resultPointCount
}
