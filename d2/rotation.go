package d2

import "github.com/go-gl/mathgl/mgl64"

// Rot is a 2D rotation storing the angle in radians together with its
// rotation matrix. The matrix is refreshed on every mutation so reads
// stay cheap during the solver loops.
type Rot struct {
	angle float64
	mat   mgl64.Mat2
}

// RotFromAngle creates a rotation from an angle in radians
func RotFromAngle(angleRad float64) Rot {
	return Rot{angle: angleRad, mat: mgl64.Rotate2D(angleRad)}
}

// Angle returns the rotation angle in radians
func (r Rot) Angle() float64 {
	return r.angle
}

// SetAngle sets the rotation angle in radians and refreshes the matrix
func (r *Rot) SetAngle(angleRad float64) {
	r.angle = angleRad
	r.mat = mgl64.Rotate2D(angleRad)
}

// Mat returns the rotation matrix
func (r Rot) Mat() mgl64.Mat2 {
	return r.mat
}

// InvMat returns the inverse rotation matrix, equal to the transpose
func (r Rot) InvMat() mgl64.Mat2 {
	return r.mat.Transpose()
}
