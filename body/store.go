// Package body holds the indexed collection of rigid-body state the
// engine mutates every step: a struct-of-arrays Store addressed by
// opaque Handle values, plus the handful of operations (rotation delta,
// derived-tensor refresh) every other package builds on.
package body

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/solidbody/xpbd/xmath"
)

// Store is an ordered, append-only collection of rigid bodies. Bodies
// are never removed; a Handle returned by AddBody remains valid, and its
// integer value equals the body count at the time of insertion, for the
// lifetime of the Store.
type Store struct {
	positions    []mgl64.Vec3
	orientations []mgl64.Quat

	lastPositions    []mgl64.Vec3
	lastOrientations []mgl64.Quat

	linearVelocities  []mgl64.Vec3
	angularVelocities []mgl64.Vec3

	forces  []mgl64.Vec3
	torques []mgl64.Vec3

	inverseMass         []float64
	inverseInertiaLocal []mgl64.Mat3
	inverseInertiaWorld []mgl64.Mat3
}

// NewStore returns an empty body store.
func NewStore() *Store {
	return &Store{}
}

// Len returns the number of bodies held by the store.
func (s *Store) Len() int {
	return len(s.positions)
}

// AddBody appends a rigid body and returns its handle. A mass that is
// finite and positive yields a finite-mass body: inverse_mass = 1/mass
// and inverse_inertia_local = inertiaTensor^-1 (zero if inertiaTensor is
// singular). Any other mass (<=0, +Inf, NaN) yields an infinite-mass,
// kinematic body with both inverses zero.
func (s *Store) AddBody(position mgl64.Vec3, orientation mgl64.Quat, mass float64, inertiaTensor mgl64.Mat3) Handle {
	finiteMass := mass > 0 && !isInfOrNaN(mass)

	inverseMass := 0.0
	inverseInertiaLocal := mgl64.Mat3{}
	if finiteMass {
		inverseMass = 1 / mass
		inverseInertiaLocal = xmath.InvertMat3(inertiaTensor)
	}

	s.positions = append(s.positions, position)
	s.orientations = append(s.orientations, orientation)

	s.lastPositions = append(s.lastPositions, position)
	s.lastOrientations = append(s.lastOrientations, orientation)

	s.linearVelocities = append(s.linearVelocities, mgl64.Vec3{})
	s.angularVelocities = append(s.angularVelocities, mgl64.Vec3{})

	s.forces = append(s.forces, mgl64.Vec3{})
	s.torques = append(s.torques, mgl64.Vec3{})

	s.inverseMass = append(s.inverseMass, inverseMass)
	s.inverseInertiaLocal = append(s.inverseInertiaLocal, inverseInertiaLocal)
	s.inverseInertiaWorld = append(s.inverseInertiaWorld, worldInertia(orientation, inverseInertiaLocal))

	return Handle(len(s.positions) - 1)
}

func isInfOrNaN(v float64) bool {
	return v != v || v > maxFinite || v < -maxFinite
}

const maxFinite = 1.7976931348623157e+308

func worldInertia(orientation mgl64.Quat, inverseInertiaLocal mgl64.Mat3) mgl64.Mat3 {
	r := orientation.Mat4().Mat3()
	return r.Mul3(inverseInertiaLocal).Mul3(r.Transpose())
}

// HasFiniteMass reports whether the body at h has non-zero inverse mass.
func (s *Store) HasFiniteMass(h Handle) bool {
	return s.inverseMass[h] > 0
}

// Position returns the world-space centre of mass of the body at h.
func (s *Store) Position(h Handle) mgl64.Vec3 { return s.positions[h] }

// SetPosition overwrites the world-space centre of mass of the body at h.
func (s *Store) SetPosition(h Handle, p mgl64.Vec3) { s.positions[h] = p }

// Orientation returns the unit body->world quaternion of the body at h.
func (s *Store) Orientation(h Handle) mgl64.Quat { return s.orientations[h] }

// SetOrientation overwrites the orientation quaternion of the body at h.
// Callers that change orientation directly (rather than through
// ApplyRotationDelta) must also call UpdateDerivedWorldInertia.
func (s *Store) SetOrientation(h Handle, q mgl64.Quat) { s.orientations[h] = q }

// LastPosition returns the pose snapshot taken at the start of the
// current substep.
func (s *Store) LastPosition(h Handle) mgl64.Vec3 { return s.lastPositions[h] }

// LastOrientation returns the orientation snapshot taken at the start of
// the current substep.
func (s *Store) LastOrientation(h Handle) mgl64.Quat { return s.lastOrientations[h] }

// SnapshotPose copies the current pose of the body at h into
// last_position/last_orientation. Called by the stepper at the start of
// every substep's integration phase, before the pose is advanced.
func (s *Store) SnapshotPose(h Handle) {
	s.lastPositions[h] = s.positions[h]
	s.lastOrientations[h] = s.orientations[h]
}

// LinearVelocity returns the world-space linear velocity of the body at h.
func (s *Store) LinearVelocity(h Handle) mgl64.Vec3 { return s.linearVelocities[h] }

// SetLinearVelocity overwrites the linear velocity of the body at h.
func (s *Store) SetLinearVelocity(h Handle, v mgl64.Vec3) { s.linearVelocities[h] = v }

// AngularVelocity returns the world-space angular velocity of the body at h.
func (s *Store) AngularVelocity(h Handle) mgl64.Vec3 { return s.angularVelocities[h] }

// SetAngularVelocity overwrites the angular velocity of the body at h.
func (s *Store) SetAngularVelocity(h Handle, v mgl64.Vec3) { s.angularVelocities[h] = v }

// Force returns the accumulated external force on the body at h.
func (s *Store) Force(h Handle) mgl64.Vec3 { return s.forces[h] }

// Torque returns the accumulated external torque on the body at h.
func (s *Store) Torque(h Handle) mgl64.Vec3 { return s.torques[h] }

// AddForce accumulates a world-space force on the body at h, to be
// consumed and cleared by the next integration substep.
func (s *Store) AddForce(h Handle, force mgl64.Vec3) {
	s.forces[h] = s.forces[h].Add(force)
}

// AddTorque accumulates a world-space torque on the body at h, to be
// consumed and cleared by the next integration substep.
func (s *Store) AddTorque(h Handle, torque mgl64.Vec3) {
	s.torques[h] = s.torques[h].Add(torque)
}

// ClearForces resets the force/torque accumulators of the body at h to
// zero. Called by the stepper once the accumulators have been consumed
// during integration.
func (s *Store) ClearForces(h Handle) {
	s.forces[h] = mgl64.Vec3{}
	s.torques[h] = mgl64.Vec3{}
}

// InverseMass returns 1/mass for the body at h, or 0 for an infinite-mass body.
func (s *Store) InverseMass(h Handle) float64 { return s.inverseMass[h] }

// InverseInertiaLocal returns the body-space inverse inertia tensor of the body at h.
func (s *Store) InverseInertiaLocal(h Handle) mgl64.Mat3 { return s.inverseInertiaLocal[h] }

// InverseInertiaWorld returns the world-space inverse inertia tensor of
// the body at h, consistent with its current orientation.
func (s *Store) InverseInertiaWorld(h Handle) mgl64.Mat3 { return s.inverseInertiaWorld[h] }

// ApplyRotationDelta replaces the orientation of the body at h with
// normalize(exp(omega) * q), where exp(omega) is the unit quaternion
// built from the scaled-axis rotation vector omega, and refreshes the
// world-space inverse inertia tensor to match.
func (s *Store) ApplyRotationDelta(h Handle, omega mgl64.Vec3) {
	delta := xmath.QuatFromScaledAxis(omega)
	s.orientations[h] = delta.Mul(s.orientations[h]).Normalize()
	s.UpdateDerivedWorldInertia(h)
}

// UpdateDerivedWorldInertia recomputes inverse_inertia_world from the
// current orientation. Any direct mutation of orientation that doesn't
// go through ApplyRotationDelta must call this before another component
// reads the body.
func (s *Store) UpdateDerivedWorldInertia(h Handle) {
	s.inverseInertiaWorld[h] = worldInertia(s.orientations[h], s.inverseInertiaLocal[h])
}

// ReconstructVelocity derives linear/angular velocity for the body at h
// by finite difference of its pose against the substep's starting
// snapshot, with invH = 1/h. Called by the stepper once per substep,
// after the constraint solve.
func (s *Store) ReconstructVelocity(h Handle, invH float64) {
	s.linearVelocities[h] = s.positions[h].Sub(s.lastPositions[h]).Mul(invH)

	deltaOrientation := s.orientations[h].Mul(s.lastOrientations[h].Conjugate())
	s.angularVelocities[h] = xmath.ScaledAxis(deltaOrientation).Mul(invH)
}
