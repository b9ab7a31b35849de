package constraint

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/pkg/errors"

	"github.com/solidbody/xpbd/body"
	"github.com/solidbody/xpbd/xmath"
)

// DistanceConstraint holds two bodies at a fixed rest length apart,
// measured between a local anchor point on each.
type DistanceConstraint struct {
	BodyA, BodyB         body.Handle
	LocalAnchorA         mgl64.Vec3
	LocalAnchorB         mgl64.Vec3
	RestLength           float64
	Compliance           float64

	lambda float64
}

// NewDistanceConstraint validates its arguments and returns a ready
// DistanceConstraint.
func NewDistanceConstraint(bodyA, bodyB body.Handle, localAnchorA, localAnchorB mgl64.Vec3, restLength, compliance float64) (*DistanceConstraint, error) {
	if err := validatePair(bodyA, bodyB); err != nil {
		return nil, errors.Wrap(err, "distance constraint")
	}
	if restLength < 0 {
		return nil, errors.New("distance constraint: rest length must be non-negative")
	}
	if err := validateCompliance(compliance); err != nil {
		return nil, errors.Wrap(err, "distance constraint")
	}

	return &DistanceConstraint{
		BodyA:        bodyA,
		BodyB:        bodyB,
		LocalAnchorA: localAnchorA,
		LocalAnchorB: localAnchorB,
		RestLength:   restLength,
		Compliance:   compliance,
	}, nil
}

// ResetLambda clears the running Lagrange multiplier.
func (c *DistanceConstraint) ResetLambda() { c.lambda = 0 }

// Solve computes and applies one XPBD correction for the current pose.
func (c *DistanceConstraint) Solve(store *body.Store, dt float64) {
	correction, ok := c.computeCorrection(store)
	if !ok {
		return
	}
	ApplyTranslational(store, correction, &c.lambda, dt)
}

func (c *DistanceConstraint) computeCorrection(store *body.Store) (TranslationalCorrection, bool) {
	rA := store.Orientation(c.BodyA).Rotate(c.LocalAnchorA)
	rB := store.Orientation(c.BodyB).Rotate(c.LocalAnchorB)

	d := store.Position(c.BodyB).Add(rB).Sub(store.Position(c.BodyA).Add(rA))
	distSq := d.Dot(d)
	if distSq < xmath.EpsilonSq {
		return TranslationalCorrection{}, false
	}

	dist := d.Len()
	n := d.Mul(1 / dist)
	e := dist - c.RestLength
	if e < 0 {
		e = -e
	}
	if e < xmath.Epsilon {
		return TranslationalCorrection{}, false
	}

	return TranslationalCorrection{
		Handles:    [2]body.Handle{c.BodyA, c.BodyB},
		LeverArms:  [2]mgl64.Vec3{rA, rB},
		Normals:    [2]mgl64.Vec3{n.Mul(-1), n},
		Error:      dist - c.RestLength,
		Compliance: c.Compliance,
	}, true
}
