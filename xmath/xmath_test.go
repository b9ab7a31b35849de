package xmath

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
)

func TestQuatFromScaledAxis_IsUnit(t *testing.T) {
	for _, w := range []mgl64.Vec3{{0, 0, 0}, {0.001, 0, 0}, {0, math.Pi / 2, 0}, {1, 2, 3}} {
		q := QuatFromScaledAxis(w)
		assert.InDelta(t, 1.0, q.Len(), 1e-9)
	}
}

func TestScaledAxis_RoundTrips(t *testing.T) {
	want := mgl64.Vec3{0.2, -0.3, 0.1}
	q := QuatFromScaledAxis(want)
	got := ScaledAxis(q)

	assert.InDelta(t, want.X(), got.X(), 1e-9)
	assert.InDelta(t, want.Y(), got.Y(), 1e-9)
	assert.InDelta(t, want.Z(), got.Z(), 1e-9)
}

func TestInvertMat3_SingularFallsBackToZero(t *testing.T) {
	got := InvertMat3(mgl64.Mat3{})
	assert.Equal(t, mgl64.Mat3{}, got)
}

func TestInvertMat3_Identity(t *testing.T) {
	got := InvertMat3(mgl64.Ident3())
	assert.Equal(t, mgl64.Ident3(), got)
}
