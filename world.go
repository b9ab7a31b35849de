// Package xpbd implements a three-dimensional rigid-body physics engine
// based on position-based dynamics with extended constraint compliance
// (XPBD). A World owns a body.Store and a list of constraint.Constraint
// values; Step advances simulation time by a fixed delta through a
// substepped, Gauss-Seidel constraint solve.
package xpbd

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"

	"github.com/solidbody/xpbd/body"
	"github.com/solidbody/xpbd/constraint"
)

// World owns a body store, an ordered list of constraints, gravity, and
// the substep/iteration counts that drive the solver.
type World struct {
	id uuid.UUID

	bodies      *body.Store
	constraints []constraint.Constraint

	Gravity    mgl64.Vec3
	Substeps   int
	Iterations int
}

// NewWorld returns an empty World with the given gravity vector, substep
// count, and constraint-iteration count.
func NewWorld(gravity mgl64.Vec3, substeps, iterations int) *World {
	return &World{
		id:         uuid.New(),
		bodies:     body.NewStore(),
		Gravity:    gravity,
		Substeps:   substeps,
		Iterations: iterations,
	}
}

// ID returns the World's identifier, generated at construction. It has
// no effect on simulation and exists only so a host running several
// Worlds can tag logs/metrics per world.
func (w *World) ID() uuid.UUID { return w.id }

// Bodies returns the World's body store, for read-only inspection by
// renderers and tests.
func (w *World) Bodies() *body.Store { return w.bodies }

// AddBody registers a rigid body and returns its handle. A mass that is
// not finite and positive designates an infinite-mass (kinematic) body.
func (w *World) AddBody(position mgl64.Vec3, orientation mgl64.Quat, mass float64, inertiaTensor mgl64.Mat3) body.Handle {
	return w.bodies.AddBody(position, orientation, mass, inertiaTensor)
}

// AddConstraint registers a constraint. The World takes no ownership of
// the bodies it names, only of the constraint value itself.
func (w *World) AddConstraint(c constraint.Constraint) {
	w.constraints = append(w.constraints, c)
}

// AddForce accumulates a world-space force on the body at h, consumed
// and cleared by the next Step.
func (w *World) AddForce(h body.Handle, force mgl64.Vec3) {
	w.bodies.AddForce(h, force)
}

// AddTorque accumulates a world-space torque on the body at h, consumed
// and cleared by the next Step.
func (w *World) AddTorque(h body.Handle, torque mgl64.Vec3) {
	w.bodies.AddTorque(h, torque)
}

// Step advances the simulation by dt seconds. It runs Substeps
// iterations of: integrate every finite-mass body, run Iterations
// Gauss-Seidel sweeps over every constraint in registration order, then
// reconstruct velocities by finite difference of the resulting pose.
// dt must be positive; behavior for dt <= 0 is a no-op.
func (w *World) Step(dt float64) {
	if dt <= 0 {
		return
	}

	h := dt / float64(w.Substeps)
	invH := 1 / h

	for sub := 0; sub < w.Substeps; sub++ {
		w.integrate(h)
		w.solveConstraints(h)
		w.reconstructVelocities(invH)
	}
}

func (w *World) integrate(h float64) {
	for i := 0; i < w.bodies.Len(); i++ {
		handle := body.Handle(i)
		if !w.bodies.HasFiniteMass(handle) {
			continue
		}

		w.bodies.SnapshotPose(handle)

		linearAccel := w.Gravity.Add(w.bodies.Force(handle).Mul(w.bodies.InverseMass(handle)))
		angularAccel := w.bodies.InverseInertiaWorld(handle).Mul3x1(w.bodies.Torque(handle))
		w.bodies.ClearForces(handle)

		w.bodies.SetLinearVelocity(handle, w.bodies.LinearVelocity(handle).Add(linearAccel.Mul(h)))
		w.bodies.SetAngularVelocity(handle, w.bodies.AngularVelocity(handle).Add(angularAccel.Mul(h)))

		w.bodies.SetPosition(handle, w.bodies.Position(handle).Add(w.bodies.LinearVelocity(handle).Mul(h)))
		w.bodies.ApplyRotationDelta(handle, w.bodies.AngularVelocity(handle).Mul(h))
	}
}

func (w *World) solveConstraints(h float64) {
	for _, c := range w.constraints {
		c.ResetLambda()
	}

	for iter := 0; iter < w.Iterations; iter++ {
		for _, c := range w.constraints {
			c.Solve(w.bodies, h)
		}
	}
}

func (w *World) reconstructVelocities(invH float64) {
	for i := 0; i < w.bodies.Len(); i++ {
		handle := body.Handle(i)
		if !w.bodies.HasFiniteMass(handle) {
			continue
		}
		w.bodies.ReconstructVelocity(handle, invH)
	}
}
