package constraint

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/solidbody/xpbd/body"
)

func identityInertia() mgl64.Mat3 {
	return mgl64.Mat3{1, 0, 0, 0, 1, 0, 0, 0, 1}
}

func TestNewDistanceConstraint_RejectsInvalidHandles(t *testing.T) {
	_, err := NewDistanceConstraint(body.InvalidHandle, body.Handle(1), mgl64.Vec3{}, mgl64.Vec3{}, 1, 0)
	assert.Error(t, err)

	_, err = NewDistanceConstraint(body.Handle(0), body.Handle(0), mgl64.Vec3{}, mgl64.Vec3{}, 1, 0)
	assert.Error(t, err)
}

func TestNewDistanceConstraint_RejectsNegativeCompliance(t *testing.T) {
	_, err := NewDistanceConstraint(body.Handle(0), body.Handle(1), mgl64.Vec3{}, mgl64.Vec3{}, 1, -1)
	assert.Error(t, err)
}

func TestDistanceConstraint_PullsBodiesToRestLength(t *testing.T) {
	s := body.NewStore()
	a := s.AddBody(mgl64.Vec3{0, 0, 0}, mgl64.QuatIdent(), 0, identityInertia())
	b := s.AddBody(mgl64.Vec3{2, 0, 0}, mgl64.QuatIdent(), 1, identityInertia())

	c, err := NewDistanceConstraint(a, b, mgl64.Vec3{}, mgl64.Vec3{}, 1, 0)
	require.NoError(t, err)

	const dt = 1.0 / 60.0
	c.ResetLambda()
	for i := 0; i < 16; i++ {
		c.Solve(s, dt)
	}

	dist := s.Position(b).Sub(s.Position(a)).Len()
	assert.InDelta(t, 1.0, dist, 1e-6)
	assert.Equal(t, mgl64.Vec3{0, 0, 0}, s.Position(a))
}

func TestDistanceConstraint_SkipsWhenAlreadySatisfied(t *testing.T) {
	s := body.NewStore()
	a := s.AddBody(mgl64.Vec3{0, 0, 0}, mgl64.QuatIdent(), 0, identityInertia())
	b := s.AddBody(mgl64.Vec3{1, 0, 0}, mgl64.QuatIdent(), 1, identityInertia())

	c, err := NewDistanceConstraint(a, b, mgl64.Vec3{}, mgl64.Vec3{}, 1, 0)
	require.NoError(t, err)

	before := s.Position(b)
	c.ResetLambda()
	c.Solve(s, 1.0/60.0)

	assert.Equal(t, before, s.Position(b))
}

func TestDistanceConstraint_SkipsDegenerateZeroDistance(t *testing.T) {
	s := body.NewStore()
	a := s.AddBody(mgl64.Vec3{0, 0, 0}, mgl64.QuatIdent(), 0, identityInertia())
	b := s.AddBody(mgl64.Vec3{0, 0, 0}, mgl64.QuatIdent(), 1, identityInertia())

	c, err := NewDistanceConstraint(a, b, mgl64.Vec3{}, mgl64.Vec3{}, 1, 0)
	require.NoError(t, err)

	c.ResetLambda()
	c.Solve(s, 1.0/60.0)

	assert.Equal(t, mgl64.Vec3{0, 0, 0}, s.Position(b))
}
