package constraint

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/pkg/errors"

	"github.com/solidbody/xpbd/body"
)

// validatePair rejects an unset handle or a constraint that names the
// same body twice; it does not (and cannot) check handles against any
// particular Store, which is the caller's responsibility.
func validatePair(a, b body.Handle) error {
	if !a.Valid() || !b.Valid() {
		return errors.New("body handles must be set")
	}
	if a == b {
		return errors.New("body handles must be distinct")
	}
	return nil
}

// validateCompliance rejects a negative or non-finite compliance value.
// alpha=0 is the hard-constraint convention and is always valid.
func validateCompliance(alpha float64) error {
	if math.IsNaN(alpha) || math.IsInf(alpha, 0) {
		return errors.New("compliance must be finite")
	}
	if alpha < 0 {
		return errors.New("compliance must be non-negative")
	}
	return nil
}

// validateUnitAxis rejects a near-zero local axis that can't be
// normalized meaningfully.
func validateUnitAxis(axis mgl64.Vec3, name string) error {
	if axis.Len() < 1e-6 {
		return errors.Errorf("%s must be non-zero", name)
	}
	return nil
}
