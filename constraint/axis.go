package constraint

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/pkg/errors"

	"github.com/solidbody/xpbd/body"
	"github.com/solidbody/xpbd/xmath"
)

// AxisConstraint keeps an axis on body A co-linear with an axis on body
// B; it is a hard constraint (no compliance) by construction.
type AxisConstraint struct {
	BodyA, BodyB body.Handle
	LocalAxisA   mgl64.Vec3
	LocalAxisB   mgl64.Vec3

	lambda float64
}

// NewAxisConstraint validates its arguments and returns a ready AxisConstraint.
func NewAxisConstraint(bodyA, bodyB body.Handle, localAxisA, localAxisB mgl64.Vec3) (*AxisConstraint, error) {
	if err := validatePair(bodyA, bodyB); err != nil {
		return nil, errors.Wrap(err, "axis constraint")
	}
	if err := validateUnitAxis(localAxisA, "local axis A"); err != nil {
		return nil, errors.Wrap(err, "axis constraint")
	}
	if err := validateUnitAxis(localAxisB, "local axis B"); err != nil {
		return nil, errors.Wrap(err, "axis constraint")
	}

	return &AxisConstraint{
		BodyA:      bodyA,
		BodyB:      bodyB,
		LocalAxisA: localAxisA.Normalize(),
		LocalAxisB: localAxisB.Normalize(),
	}, nil
}

// ResetLambda clears the running Lagrange multiplier.
func (c *AxisConstraint) ResetLambda() { c.lambda = 0 }

// Solve computes and applies one XPBD correction for the current pose.
func (c *AxisConstraint) Solve(store *body.Store, dt float64) {
	correction, ok := c.computeCorrection(store)
	if !ok {
		return
	}
	ApplyRotational(store, correction, &c.lambda, dt)
}

func (c *AxisConstraint) computeCorrection(store *body.Store) (RotationalCorrection, bool) {
	return axisAlignmentCorrection(store, c.BodyA, c.BodyB, c.LocalAxisA, c.LocalAxisB, 0)
}

// axisAlignmentCorrection is the shared co-linear-axis correction used
// by both AxisConstraint and the rotational half of RevoluteJoint.
func axisAlignmentCorrection(store *body.Store, bodyA, bodyB body.Handle, localAxisA, localAxisB mgl64.Vec3, compliance float64) (RotationalCorrection, bool) {
	uA := store.Orientation(bodyA).Rotate(localAxisA)
	uB := store.Orientation(bodyB).Rotate(localAxisB)

	cr := uA.Cross(uB)
	sinSqTheta := cr.Dot(cr)
	if sinSqTheta < xmath.EpsilonSq {
		return RotationalCorrection{}, false
	}

	sinTheta := math.Sqrt(sinSqTheta)
	cosTheta := uA.Dot(uB)
	phi := math.Atan2(sinTheta, cosTheta)

	if math.Abs(phi) < xmath.Epsilon {
		return RotationalCorrection{}, false
	}

	axis := cr.Mul(1 / sinTheta)

	return RotationalCorrection{
		Handles:    [2]body.Handle{bodyA, bodyB},
		Axes:       [2]mgl64.Vec3{axis.Mul(-1), axis},
		Error:      phi,
		Compliance: compliance,
	}, true
}
