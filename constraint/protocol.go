// Package constraint defines the polymorphic constraint protocol — a
// single solve(store, dt) operation backed by a shared XPBD impulse
// helper — plus the six concrete constraint formulations built on it.
package constraint

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/solidbody/xpbd/body"
	"github.com/solidbody/xpbd/xmath"
)

// Constraint is the protocol every constraint formulation implements.
// Solve reads the current pose of its bodies from store and writes back
// position/orientation deltas so the constraint's error is reduced;
// ResetLambda clears any running Lagrange multiplier the constraint
// carries across solver iterations within one substep. The stepper
// calls ResetLambda once per substep, before the Gauss-Seidel sweep.
type Constraint interface {
	Solve(store *body.Store, dt float64)
	ResetLambda()
}

// TranslationalCorrection describes a positional correction: an ordered
// pair of (handle, lever arm, unit normal), a scalar error, and a
// compliance. Body A is handles[0], body B is handles[1]; by convention
// normals[1] == -normals[0] and error is measured at A relative to B
// such that applying the correction reduces it.
type TranslationalCorrection struct {
	Handles    [2]body.Handle
	LeverArms  [2]mgl64.Vec3
	Normals    [2]mgl64.Vec3
	Error      float64
	Compliance float64
}

// RotationalCorrection describes an orientation-only correction: an
// ordered pair of (handle, unit axis), a scalar error, and a compliance.
type RotationalCorrection struct {
	Handles    [2]body.Handle
	Axes       [2]mgl64.Vec3
	Error      float64
	Compliance float64
}

// complianceTilde scales compliance by 1/dt^2, the XPBD convention that
// alpha=0 yields a hard constraint (alphaTilde=0).
func complianceTilde(alpha, dt float64) float64 {
	if alpha > 0 {
		return alpha / (dt * dt)
	}
	return 0
}

// ApplyTranslational runs one XPBD impulse step for a translational
// correction, threading the constraint's running multiplier lambda
// through dLambda = -(error + alphaTilde*lambda) / W.
func ApplyTranslational(store *body.Store, c TranslationalCorrection, lambda *float64, dt float64) {
	alphaTilde := complianceTilde(c.Compliance, dt)

	var w float64
	for i := 0; i < 2; i++ {
		h := c.Handles[i]
		angular := c.LeverArms[i].Cross(c.Normals[i])
		w += store.InverseMass(h) + store.InverseInertiaWorld(h).Mul3x1(angular).Dot(angular)
	}
	w += alphaTilde

	if w < xmath.Epsilon {
		return
	}

	dLambda := -(c.Error + alphaTilde*(*lambda)) / w
	*lambda += dLambda

	for i := 0; i < 2; i++ {
		h := c.Handles[i]
		if !store.HasFiniteMass(h) {
			continue
		}

		impulse := c.Normals[i].Mul(dLambda)
		deltaPosition := impulse.Mul(store.InverseMass(h))
		deltaTheta := store.InverseInertiaWorld(h).Mul3x1(c.LeverArms[i].Cross(impulse))

		store.SetPosition(h, store.Position(h).Add(deltaPosition))
		store.ApplyRotationDelta(h, deltaTheta)
	}
}

// ApplyRotational runs one XPBD impulse step for a rotational
// correction, the same way ApplyTranslational does for translational
// ones but without a linear component.
func ApplyRotational(store *body.Store, c RotationalCorrection, lambda *float64, dt float64) {
	alphaTilde := complianceTilde(c.Compliance, dt)

	var w float64
	for i := 0; i < 2; i++ {
		h := c.Handles[i]
		w += store.InverseInertiaWorld(h).Mul3x1(c.Axes[i]).Dot(c.Axes[i])
	}
	w += alphaTilde

	if w < xmath.Epsilon {
		return
	}

	dLambda := -(c.Error + alphaTilde*(*lambda)) / w
	*lambda += dLambda

	for i := 0; i < 2; i++ {
		h := c.Handles[i]
		if !store.HasFiniteMass(h) {
			continue
		}

		deltaTheta := store.InverseInertiaWorld(h).Mul3x1(c.Axes[i].Mul(dLambda))
		store.ApplyRotationDelta(h, deltaTheta)
	}
}
