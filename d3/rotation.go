package d3

import "github.com/go-gl/mathgl/mgl64"

// Rot is a 3D rotation storing a unit quaternion together with its rotation
// matrix. The matrix is refreshed on every mutation so reads stay cheap
// during the solver loops.
type Rot struct {
	quat mgl64.Quat
	mat  mgl64.Mat3
}

// RotIdent returns the identity rotation
func RotIdent() Rot {
	return RotFromQuat(mgl64.QuatIdent())
}

// RotFromQuat creates a rotation from a quaternion. The quaternion is
// normalized before the matrix is derived.
func RotFromQuat(q mgl64.Quat) Rot {
	q = q.Normalize()
	return Rot{quat: q, mat: q.Mat4().Mat3()}
}

// RotFromAxisAngle creates a rotation of angle radians around the given axis
func RotFromAxisAngle(angleRad float64, axis mgl64.Vec3) Rot {
	return RotFromQuat(mgl64.QuatRotate(angleRad, axis.Normalize()))
}

// Quat returns the unit quaternion
func (r Rot) Quat() mgl64.Quat {
	return r.quat
}

// SetQuat sets the quaternion, renormalizing it, and refreshes the matrix
func (r *Rot) SetQuat(q mgl64.Quat) {
	r.quat = q.Normalize()
	r.mat = r.quat.Mat4().Mat3()
}

// Mat returns the rotation matrix
func (r Rot) Mat() mgl64.Mat3 {
	return r.mat
}

// InvMat returns the inverse rotation matrix, equal to the transpose
func (r Rot) InvMat() mgl64.Mat3 {
	return r.mat.Transpose()
}
