// Package xmath supplies the small set of scalar and quaternion helpers the
// rest of the engine builds on top of the dense linear algebra already
// provided by mgl64 (vectors, matrices, quaternions).
package xmath

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Epsilon is the tolerance used throughout the engine to treat a quantity
// as zero (distances, sines, angles).
const Epsilon = 1e-9

// EpsilonSq is Epsilon squared, used when comparing squared magnitudes to
// avoid an extra sqrt on the hot path.
const EpsilonSq = Epsilon * Epsilon

// Fixed world-space basis axes.
var (
	AxisX = mgl64.Vec3{1, 0, 0}
	AxisY = mgl64.Vec3{0, 1, 0}
	AxisZ = mgl64.Vec3{0, 0, 1}
)

// QuatFromScaledAxis builds the unit quaternion exp(w) for a scaled-axis
// rotation vector w (axis * angle). A zero vector maps to the identity.
func QuatFromScaledAxis(w mgl64.Vec3) mgl64.Quat {
	angle := w.Len()
	if angle < Epsilon {
		// first-order approximation of exp(w), still renormalized by the caller
		return mgl64.Quat{W: 1, V: w.Mul(0.5)}.Normalize()
	}

	axis := w.Mul(1 / angle)
	return mgl64.QuatRotate(angle, axis).Normalize()
}

// ScaledAxis extracts the rotation vector (axis * angle) from a unit
// quaternion, using the branch with angle in (-pi, pi] — the sign of q is
// flipped first if needed so the scalar part is non-negative.
func ScaledAxis(q mgl64.Quat) mgl64.Vec3 {
	q = q.Normalize()
	if q.W < 0 {
		q = mgl64.Quat{W: -q.W, V: q.V.Mul(-1)}
	}

	sinHalf := q.V.Len()
	if sinHalf < Epsilon {
		// small-angle approximation: angle ~= 2*sinHalf
		return q.V.Mul(2)
	}

	angle := 2 * math.Atan2(sinHalf, q.W)
	axis := q.V.Mul(1 / sinHalf)
	return axis.Mul(angle)
}

// InvertMat3 inverts a symmetric 3x3 matrix, falling back to the zero
// matrix when it is singular (or near enough that the inverse would blow
// up) so a degenerate inertia tensor yields an immovable-in-rotation
// body instead of propagating NaNs.
func InvertMat3(m mgl64.Mat3) mgl64.Mat3 {
	det := m.Det()
	if math.Abs(det) < Epsilon {
		return mgl64.Mat3{}
	}

	return m.Inv()
}
