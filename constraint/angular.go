package constraint

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/pkg/errors"

	"github.com/solidbody/xpbd/body"
	"github.com/solidbody/xpbd/xmath"
)

// AngularConstraint limits the twist/swing angle between an axis on body
// A and an axis on body B to [MinAngle, MaxAngle].
type AngularConstraint struct {
	BodyA, BodyB         body.Handle
	LocalAxisA           mgl64.Vec3
	LocalAxisB           mgl64.Vec3
	MinAngle, MaxAngle   float64
	Compliance           float64

	lambda float64
}

// NewAngularConstraint validates its arguments and returns a ready AngularConstraint.
func NewAngularConstraint(bodyA, bodyB body.Handle, localAxisA, localAxisB mgl64.Vec3, minAngle, maxAngle, compliance float64) (*AngularConstraint, error) {
	if err := validatePair(bodyA, bodyB); err != nil {
		return nil, errors.Wrap(err, "angular constraint")
	}
	if err := validateUnitAxis(localAxisA, "local axis A"); err != nil {
		return nil, errors.Wrap(err, "angular constraint")
	}
	if err := validateUnitAxis(localAxisB, "local axis B"); err != nil {
		return nil, errors.Wrap(err, "angular constraint")
	}
	if minAngle > maxAngle {
		return nil, errors.New("angular constraint: min angle must not exceed max angle")
	}
	if err := validateCompliance(compliance); err != nil {
		return nil, errors.Wrap(err, "angular constraint")
	}

	return &AngularConstraint{
		BodyA:      bodyA,
		BodyB:      bodyB,
		LocalAxisA: localAxisA.Normalize(),
		LocalAxisB: localAxisB.Normalize(),
		MinAngle:   minAngle,
		MaxAngle:   maxAngle,
		Compliance: compliance,
	}, nil
}

// ResetLambda clears the running Lagrange multiplier.
func (c *AngularConstraint) ResetLambda() { c.lambda = 0 }

// Solve computes and applies one XPBD correction for the current pose.
func (c *AngularConstraint) Solve(store *body.Store, dt float64) {
	correction, ok := c.computeCorrection(store)
	if !ok {
		return
	}
	ApplyRotational(store, correction, &c.lambda, dt)
}

func (c *AngularConstraint) computeCorrection(store *body.Store) (RotationalCorrection, bool) {
	uA := store.Orientation(c.BodyA).Rotate(c.LocalAxisA)
	uB := store.Orientation(c.BodyB).Rotate(c.LocalAxisB)

	cr := uA.Cross(uB)
	sinTheta := cr.Len()
	cosTheta := uA.Dot(uB)
	phi := math.Atan2(sinTheta, cosTheta)

	if phi >= c.MinAngle && phi <= c.MaxAngle {
		return RotationalCorrection{}, false
	}
	if sinTheta < xmath.Epsilon {
		return RotationalCorrection{}, false
	}

	axis := cr.Mul(1 / sinTheta)
	e := phi - clamp(phi, c.MinAngle, c.MaxAngle)

	return RotationalCorrection{
		Handles:    [2]body.Handle{c.BodyA, c.BodyB},
		Axes:       [2]mgl64.Vec3{axis.Mul(-1), axis},
		Error:      e,
		Compliance: c.Compliance,
	}, true
}
