package constraint

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/pkg/errors"

	"github.com/solidbody/xpbd/body"
)

// RevoluteJoint is a hinge: it pins a local anchor on each body together
// (like SphericalJoint) and additionally aligns an axis on each body
// (like AxisConstraint), leaving rotation about that shared axis free.
// It carries two independent running multipliers, one per sub-constraint.
type RevoluteJoint struct {
	BodyA, BodyB body.Handle
	LocalAnchorA mgl64.Vec3
	LocalAnchorB mgl64.Vec3
	LocalAxisA   mgl64.Vec3
	LocalAxisB   mgl64.Vec3
	Compliance   float64

	lambdaPos float64
	lambdaRot float64
}

// NewRevoluteJoint validates its arguments and returns a ready RevoluteJoint.
func NewRevoluteJoint(bodyA, bodyB body.Handle, localAnchorA, localAnchorB, localAxisA, localAxisB mgl64.Vec3, compliance float64) (*RevoluteJoint, error) {
	if err := validatePair(bodyA, bodyB); err != nil {
		return nil, errors.Wrap(err, "revolute joint")
	}
	if err := validateUnitAxis(localAxisA, "local axis A"); err != nil {
		return nil, errors.Wrap(err, "revolute joint")
	}
	if err := validateUnitAxis(localAxisB, "local axis B"); err != nil {
		return nil, errors.Wrap(err, "revolute joint")
	}
	if err := validateCompliance(compliance); err != nil {
		return nil, errors.Wrap(err, "revolute joint")
	}

	return &RevoluteJoint{
		BodyA:        bodyA,
		BodyB:        bodyB,
		LocalAnchorA: localAnchorA,
		LocalAnchorB: localAnchorB,
		LocalAxisA:   localAxisA.Normalize(),
		LocalAxisB:   localAxisB.Normalize(),
		Compliance:   compliance,
	}, nil
}

// ResetLambda clears both running Lagrange multipliers.
func (c *RevoluteJoint) ResetLambda() {
	c.lambdaPos = 0
	c.lambdaRot = 0
}

// Solve applies the positional sub-constraint first, then re-reads the
// (now mutated) poses and inertia before applying the axis-alignment
// sub-constraint.
func (c *RevoluteJoint) Solve(store *body.Store, dt float64) {
	if posCorrection, ok := ballCorrection(store, c.BodyA, c.BodyB, c.LocalAnchorA, c.LocalAnchorB, c.Compliance); ok {
		ApplyTranslational(store, posCorrection, &c.lambdaPos, dt)
	}

	if rotCorrection, ok := axisAlignmentCorrection(store, c.BodyA, c.BodyB, c.LocalAxisA, c.LocalAxisB, c.Compliance); ok {
		ApplyRotational(store, rotCorrection, &c.lambdaRot, dt)
	}
}
