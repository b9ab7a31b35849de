package constraint

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/pkg/errors"

	"github.com/solidbody/xpbd/body"
	"github.com/solidbody/xpbd/xmath"
)

// LinearConstraint keeps body B sliding along an axis fixed to body A,
// clamping how far along that axis it may travel and correcting any
// deviation perpendicular to it.
type LinearConstraint struct {
	BodyA, BodyB body.Handle
	LocalAnchorA mgl64.Vec3
	LocalAnchorB mgl64.Vec3
	LocalAxis    mgl64.Vec3 // relative to body A
	Min, Max     float64
	Compliance   float64

	lambda float64
}

// NewLinearConstraint validates its arguments and returns a ready LinearConstraint.
func NewLinearConstraint(bodyA, bodyB body.Handle, localAnchorA, localAnchorB, localAxis mgl64.Vec3, min, max, compliance float64) (*LinearConstraint, error) {
	if err := validatePair(bodyA, bodyB); err != nil {
		return nil, errors.Wrap(err, "linear constraint")
	}
	if err := validateUnitAxis(localAxis, "local axis"); err != nil {
		return nil, errors.Wrap(err, "linear constraint")
	}
	if min > max {
		return nil, errors.New("linear constraint: min must not exceed max")
	}
	if err := validateCompliance(compliance); err != nil {
		return nil, errors.Wrap(err, "linear constraint")
	}

	return &LinearConstraint{
		BodyA:        bodyA,
		BodyB:        bodyB,
		LocalAnchorA: localAnchorA,
		LocalAnchorB: localAnchorB,
		LocalAxis:    localAxis.Normalize(),
		Min:          min,
		Max:          max,
		Compliance:   compliance,
	}, nil
}

// ResetLambda clears the running Lagrange multiplier.
func (c *LinearConstraint) ResetLambda() { c.lambda = 0 }

// Solve computes and applies one XPBD correction for the current pose.
func (c *LinearConstraint) Solve(store *body.Store, dt float64) {
	correction, ok := c.computeCorrection(store)
	if !ok {
		return
	}
	ApplyTranslational(store, correction, &c.lambda, dt)
}

func (c *LinearConstraint) computeCorrection(store *body.Store) (TranslationalCorrection, bool) {
	rA := store.Orientation(c.BodyA).Rotate(c.LocalAnchorA)
	rB := store.Orientation(c.BodyB).Rotate(c.LocalAnchorB)
	axis := store.Orientation(c.BodyA).Rotate(c.LocalAxis)

	d := store.Position(c.BodyB).Add(rB).Sub(store.Position(c.BodyA).Add(rA))

	s := clamp(d.Dot(axis), c.Min, c.Max)
	dPerp := d.Sub(axis.Mul(s))

	perpSq := dPerp.Dot(dPerp)
	if perpSq < xmath.EpsilonSq {
		return TranslationalCorrection{}, false
	}

	perpLen := dPerp.Len()
	n := dPerp.Mul(1 / perpLen)

	return TranslationalCorrection{
		Handles:    [2]body.Handle{c.BodyA, c.BodyB},
		LeverArms:  [2]mgl64.Vec3{rA, rB},
		Normals:    [2]mgl64.Vec3{n.Mul(-1), n},
		Error:      perpLen,
		Compliance: c.Compliance,
	}, true
}

func clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
