package constraint

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/pkg/errors"

	"github.com/solidbody/xpbd/body"
	"github.com/solidbody/xpbd/xmath"
)

// SphericalJoint is a 3-DOF ball joint: it pins together a local anchor
// on each of two bodies, leaving all rotation free.
type SphericalJoint struct {
	BodyA, BodyB body.Handle
	LocalAnchorA mgl64.Vec3
	LocalAnchorB mgl64.Vec3
	Compliance   float64

	lambda float64
}

// NewSphericalJoint validates its arguments and returns a ready SphericalJoint.
func NewSphericalJoint(bodyA, bodyB body.Handle, localAnchorA, localAnchorB mgl64.Vec3, compliance float64) (*SphericalJoint, error) {
	if err := validatePair(bodyA, bodyB); err != nil {
		return nil, errors.Wrap(err, "spherical joint")
	}
	if err := validateCompliance(compliance); err != nil {
		return nil, errors.Wrap(err, "spherical joint")
	}

	return &SphericalJoint{
		BodyA:        bodyA,
		BodyB:        bodyB,
		LocalAnchorA: localAnchorA,
		LocalAnchorB: localAnchorB,
		Compliance:   compliance,
	}, nil
}

// ResetLambda clears the running Lagrange multiplier. Its value persists
// across solver iterations within one substep; the stepper resets it
// once per substep.
func (c *SphericalJoint) ResetLambda() { c.lambda = 0 }

// Solve computes and applies one XPBD correction for the current pose.
func (c *SphericalJoint) Solve(store *body.Store, dt float64) {
	correction, ok := c.computeCorrection(store)
	if !ok {
		return
	}
	ApplyTranslational(store, correction, &c.lambda, dt)
}

func (c *SphericalJoint) computeCorrection(store *body.Store) (TranslationalCorrection, bool) {
	return ballCorrection(store, c.BodyA, c.BodyB, c.LocalAnchorA, c.LocalAnchorB, c.Compliance)
}

// ballCorrection is the shared 3-DOF point-coincidence correction used by
// both SphericalJoint and the positional half of RevoluteJoint.
func ballCorrection(store *body.Store, bodyA, bodyB body.Handle, localAnchorA, localAnchorB mgl64.Vec3, compliance float64) (TranslationalCorrection, bool) {
	rA := store.Orientation(bodyA).Rotate(localAnchorA)
	rB := store.Orientation(bodyB).Rotate(localAnchorB)

	d := store.Position(bodyB).Add(rB).Sub(store.Position(bodyA).Add(rA))
	distSq := d.Dot(d)
	if distSq < xmath.EpsilonSq {
		return TranslationalCorrection{}, false
	}

	dist := d.Len()
	n := d.Mul(1 / dist)

	return TranslationalCorrection{
		Handles:    [2]body.Handle{bodyA, bodyB},
		LeverArms:  [2]mgl64.Vec3{rA, rB},
		Normals:    [2]mgl64.Vec3{n.Mul(-1), n},
		Error:      dist,
		Compliance: compliance,
	}, true
}
