package constraint

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/solidbody/xpbd/body"
)

func TestNewRevoluteJoint_RejectsZeroAxis(t *testing.T) {
	_, err := NewRevoluteJoint(body.Handle(0), body.Handle(1), mgl64.Vec3{}, mgl64.Vec3{}, mgl64.Vec3{}, mgl64.Vec3{1, 0, 0}, 0)
	assert.Error(t, err)
}

// A hinge pins two bodies' anchors and aligns their hinge axes;
// sufficient iterations bring both sub-errors near zero.
func TestRevoluteJoint_ConvergesAnchorAndAxis(t *testing.T) {
	s := body.NewStore()
	identity := identityInertia()

	qB := mgl64.QuatRotate(math.Pi/8, mgl64.Vec3{0, 1, 0})
	a := s.AddBody(mgl64.Vec3{0, 0, 0}, mgl64.QuatIdent(), 1, identity)
	b := s.AddBody(mgl64.Vec3{1.2, 0.3, 0}, qB, 1, identity)

	c, err := NewRevoluteJoint(a, b, mgl64.Vec3{}, mgl64.Vec3{}, mgl64.Vec3{0, 0, 1}, mgl64.Vec3{0, 0, 1}, 0)
	require.NoError(t, err)

	c.ResetLambda()
	for i := 0; i < 64; i++ {
		c.Solve(s, 1.0/60.0)
	}

	dist := s.Position(b).Sub(s.Position(a)).Len()
	assert.InDelta(t, 0, dist, 1e-4)

	uA := s.Orientation(a).Rotate(mgl64.Vec3{0, 0, 1})
	uB := s.Orientation(b).Rotate(mgl64.Vec3{0, 0, 1})
	angle := math.Acos(clampUnit(uA.Dot(uB)))
	assert.Less(t, angle, 1e-3)
}

func TestRevoluteJoint_SkipsWhenAlreadySatisfied(t *testing.T) {
	s := body.NewStore()
	identity := identityInertia()
	a := s.AddBody(mgl64.Vec3{0, 0, 0}, mgl64.QuatIdent(), 1, identity)
	b := s.AddBody(mgl64.Vec3{0, 0, 0}, mgl64.QuatIdent(), 1, identity)

	c, err := NewRevoluteJoint(a, b, mgl64.Vec3{}, mgl64.Vec3{}, mgl64.Vec3{0, 0, 1}, mgl64.Vec3{0, 0, 1}, 0)
	require.NoError(t, err)

	beforePos := s.Position(b)
	beforeOrient := s.Orientation(b)
	c.ResetLambda()
	c.Solve(s, 1.0/60.0)

	assert.Equal(t, beforePos, s.Position(b))
	assert.Equal(t, beforeOrient, s.Orientation(b))
}
