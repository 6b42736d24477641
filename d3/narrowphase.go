package d3

import (
	"math"

	"github.com/akmonengine/quill"
	"github.com/go-gl/mathgl/mgl64"
)

// MaxCollisionPoints is the maximum number of contact points between two
// boxes
const MaxCollisionPoints = 8

// CollisionPoint is a single contact between two boxes, produced by the
// narrow phase. The local-frame members allow the solver to reconstruct the
// contact after the bodies have moved.
type CollisionPoint struct {
	// Position of the contact in world space
	Position mgl64.Vec3

	// Normal is the unit contact normal, pointing from body A to body B
	Normal mgl64.Vec3

	// Penetration depth, >= 0
	Penetration float64

	// FeaturePair identifies the box features yielding this point
	FeaturePair quill.FeaturePair

	// ClipBoxIndex tells which box supplied the reference (clipping) face
	ClipBoxIndex int

	// LocalPoints is the contact expressed in each body's local frame
	LocalPoints [2]mgl64.Vec3

	// LocalContactNormal is the reference normal in the clipping box's
	// local frame
	LocalContactNormal mgl64.Vec3
}

// Feature numbering. Faces are numbered axis*2 for the positive direction
// and axis*2+1 for the negative one. A face's own boundary edges are
// face*4+k, so every boundary edge index is unique within a box. The side
// planes of the reference face reuse the face index of the box face they
// belong to.

// clippedPoint is an incident-face vertex during clipping
type clippedPoint struct {
	position    mgl64.Vec3
	featurePair quill.FeaturePair
}

// cornerSigns enumerates the corners of a face counter-clockwise in the
// plane of its two tangent axes, starting from (+, +). The same table
// drives the per-corner boundary edge tags: corner k lies between boundary
// edges k-1 and k.
var cornerSigns = [4][2]float64{
	{+1, +1},
	{-1, +1},
	{-1, -1},
	{+1, -1},
}

// clipPolygonByPlane clips a convex polygon by the negative halfspace of a
// plane into dst. An interpolated vertex keeps the feature of the endpoint
// inside the halfspace and takes the clip box and clip face as its other
// feature.
func clipPolygonByPlane(
	source []clippedPoint,
	clipPlane plane,
	clipBox, clipFace uint8,
	target []clippedPoint,
) []clippedPoint {
	target = target[:0]
	count := len(source)
	for i := 0; i < count; i++ {
		current := &source[i]
		next := &source[(i+1)%count]

		distCurrent := clipPlane.distance(current.position)
		distNext := clipPlane.distance(next.position)

		if distCurrent <= 0 {
			target = append(target, *current)
		}

		if distCurrent*distNext < 0 {
			lerpFactor := distCurrent / (distCurrent - distNext)

			var point clippedPoint
			point.position = current.position.Add(
				next.position.Sub(current.position).Mul(lerpFactor))

			// Keep the feature of the endpoint in the negative halfspace
			// while overriding the feature of the endpoint in the positive
			// halfspace with the clip box and clip face
			slot := 0
			outside := current
			if distCurrent <= 0 {
				slot = 1
				outside = next
			}
			point.featurePair = outside.featurePair
			point.featurePair[slot].Geometry = clipBox
			point.featurePair[slot].Edge = clipFace

			target = append(target, point)
		}
	}
	return target
}

// BoxBoxCollision computes the contact points between two oriented boxes
// using the separating-axis test over the six face axes followed by
// incident-face clipping. Edge-edge axes are intentionally not tested.
// It returns the number of points written to result; 0 means no contact.
func BoxBoxCollision(
	positions [2]mgl64.Vec3,
	rotations [2]Rot,
	halfSizes [2]mgl64.Vec3,
	result *[MaxCollisionPoints]CollisionPoint,
) int {
	invRotations := [2]mgl64.Mat3{
		rotations[0].InvMat(),
		rotations[1].InvMat(),
	}

	// Step 1: find the min penetration or a separating axis
	clipBox := 0
	clipAxis := 0
	var minPenetrationDir mgl64.Vec3
	centersVec := positions[1].Sub(positions[0])
	{
		// A -> B relative rotation
		abRelRotation := invRotations[0].Mul3(rotations[1].Mat())
		absRelRotations := [2]mgl64.Mat3{
			absMat3(abRelRotation),
			absMat3(abRelRotation.Transpose()),
		}

		minPenetration := math.MaxFloat64
		for bi := 0; bi < 2; bi++ { // box index
			otherBoxProjections := absVec3(invRotations[bi].Mul3x1(centersVec)).
				Sub(absRelRotations[bi].Mul3x1(halfSizes[1-bi]))

			penetrations := halfSizes[bi].Sub(otherBoxProjections)
			for ai := 0; ai < 3; ai++ { // axis index
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

	// Step 2: find the incident face
	incidentBox := 1 - clipBox
	var polygonBufA, polygonBufB [MaxCollisionPoints]clippedPoint
	polygon := polygonBufA[:0]
	{
		// Clip normal is in world space; transform it to the local space of
		// the incident box
		incidentDir := invRotations[incidentBox].Mul3x1(clipNormal).Mul(-1)

		// The incident face is the one whose outward normal is most
		// aligned with incidentDir
		faceAxis := 0
		if math.Abs(incidentDir.Y()) > math.Abs(incidentDir[faceAxis]) {
			faceAxis = 1
		}
		if math.Abs(incidentDir.Z()) > math.Abs(incidentDir[faceAxis]) {
			faceAxis = 2
		}
		faceSign := 1.0
		incidentFace := faceAxis * 2
		if incidentDir[faceAxis] < 0 {
			faceSign = -1.0
			incidentFace++
		}

		tangentU := (faceAxis + 1) % 3
		tangentV := (faceAxis + 2) % 3

		halfSize := halfSizes[incidentBox]
		for k := 0; k < 4; k++ { // face corner index
			var localPosition mgl64.Vec3
			localPosition[faceAxis] = faceSign * halfSize[faceAxis]
			localPosition[tangentU] = cornerSigns[k][0] * halfSize[tangentU]
			localPosition[tangentV] = cornerSigns[k][1] * halfSize[tangentV]

			var point clippedPoint
			for fi := 0; fi < 2; fi++ { // point feature index
				point.featurePair[fi].Geometry = uint8(incidentBox)
				// fi = 0 yields the previous boundary edge for corner k,
				// fi = 1 yields the boundary edge k itself
				point.featurePair[fi].Edge =
					uint8(incidentFace*4 + (k+3-3*fi)%4)
			}
			point.position = positions[incidentBox].
				Add(rotations[incidentBox].Mat().Mul3x1(localPosition))
			polygon = append(polygon, point)
		}
	}

	// Step 3: clip the incident face over the two side-plane pairs of the
	// clip box
	{
		buffers := [2][]clippedPoint{polygonBufB[:0], polygonBufA[:0]}
		rotation := rotations[clipBox].Mat()

		bufIndex := 0
		for si := 1; si <= 2; si++ { // side axis offset from the clip axis
			sideAxis := (clipAxis + si) % 3
			sideNormal := rotation.Col(sideAxis)
			sideExtent := halfSizes[clipBox][sideAxis]

			for dir := 0; dir < 2; dir++ { // positive, then negative side
				normal := sideNormal
				if dir == 1 {
					normal = normal.Mul(-1)
				}
				sidePlane := planeFrom(normal, positions[clipBox], sideExtent)
				sideFace := uint8(sideAxis*2 + dir)

				polygon = clipPolygonByPlane(
					polygon, sidePlane,
					uint8(clipBox), sideFace,
					buffers[bufIndex])
				if len(polygon) == 0 {
					return 0
				}
				bufIndex = 1 - bufIndex
			}
		}
	}

	// Step 4: create the collision points
	resultPointCount := 0
	{
		clipPlane := planeFrom(
			clipNormal,
			positions[clipBox],
			halfSizes[clipBox][clipAxis])

		localClipNormal := invRotations[clipBox].Mul3x1(clipNormal)

		for pi := range polygon { // point index
			point := &polygon[pi]
			penetration := -clipPlane.distance(point.position)
			if penetration < 0 {
				continue
			}

			resultPosition := point.position.Add(clipNormal.Mul(penetration))

			var localPoints [2]mgl64.Vec3
			localPoints[clipBox] = invRotations[clipBox].
				Mul3x1(resultPosition.Sub(positions[clipBox]))
			localPoints[incidentBox] = invRotations[incidentBox].
				Mul3x1(point.position.Sub(positions[incidentBox]))

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
			if resultPointCount == MaxCollisionPoints {
				break
			}
		}
	}
	return resultPointCount
}
