package constraint

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/solidbody/xpbd/body"
)

func TestNewAngularConstraint_RejectsMinAboveMax(t *testing.T) {
	_, err := NewAngularConstraint(body.Handle(0), body.Handle(1), mgl64.Vec3{1, 0, 0}, mgl64.Vec3{1, 0, 0}, 1, -1, 0)
	assert.Error(t, err)
}

// Two dynamic bodies whose local axes (1,0,0) start 0.5 rad apart with
// max_angle 0.1; after a few iterations within one substep, the angle
// between them lands within the limit.
func TestAngularConstraint_ClampsToLimit(t *testing.T) {
	s := body.NewStore()
	identity := identityInertia()

	qB := mgl64.QuatRotate(0.5, mgl64.Vec3{0, 1, 0})
	a := s.AddBody(mgl64.Vec3{}, mgl64.QuatIdent(), 1, identity)
	b := s.AddBody(mgl64.Vec3{1, 0, 0}, qB, 1, identity)

	c, err := NewAngularConstraint(a, b, mgl64.Vec3{1, 0, 0}, mgl64.Vec3{1, 0, 0}, -0.1, 0.1, 0)
	require.NoError(t, err)

	c.ResetLambda()
	for i := 0; i < 4; i++ {
		c.Solve(s, 1.0/60.0)
	}

	uA := s.Orientation(a).Rotate(mgl64.Vec3{1, 0, 0})
	uB := s.Orientation(b).Rotate(mgl64.Vec3{1, 0, 0})
	cross := uA.Cross(uB)
	phi := math.Atan2(cross.Len(), uA.Dot(uB))

	assert.GreaterOrEqual(t, phi, -0.1-1e-3)
	assert.LessOrEqual(t, phi, 0.1+1e-3)
}

func TestAngularConstraint_SkipsWithinLimit(t *testing.T) {
	s := body.NewStore()
	identity := identityInertia()
	a := s.AddBody(mgl64.Vec3{}, mgl64.QuatIdent(), 1, identity)
	b := s.AddBody(mgl64.Vec3{}, mgl64.QuatIdent(), 1, identity)

	c, err := NewAngularConstraint(a, b, mgl64.Vec3{1, 0, 0}, mgl64.Vec3{1, 0, 0}, -0.1, 0.1, 0)
	require.NoError(t, err)

	before := s.Orientation(b)
	c.ResetLambda()
	c.Solve(s, 1.0/60.0)

	assert.Equal(t, before, s.Orientation(b))
}
