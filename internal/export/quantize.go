package export

import (
	gomath "math"

	"github.com/CodeCavePro/RvtVa3cExporter/pkg/bim"
	"github.com/CodeCavePro/RvtVa3cExporter/pkg/math"
)

// Tolerance is the source-unit magnitude below which a coordinate snaps to
// zero.
const Tolerance = 1.0e-9

// Point3 is a vertex snapped to whole millimeters. Equal points are
// duplicate vertices.
type Point3 struct {
	X, Y, Z int64
}

// Quantizer converts source points to Point3.
type Quantizer struct {
	// Factor converts one source length unit to millimeters.
	Factor float64
	// SwitchCoordinates converts from the BIM convention (Z up) to the
	// three.js one (Y up): X is negated, Y and Z are swapped.
	SwitchCoordinates bool
}

// NewQuantizer returns a quantizer for a document unit. Unknown units
// fall back to feet.
func NewQuantizer(unit bim.Unit, switchCoordinates bool) Quantizer {
	factor, ok := unit.Millimetres()
	if !ok {
		factor, _ = bim.UnitFeet.Millimetres()
	}
	return Quantizer{Factor: factor, SwitchCoordinates: switchCoordinates}
}

// Quantize snaps p. It is pure: equal inputs always give equal outputs.
func (q Quantizer) Quantize(p math.Vec3) Point3 {
	x, y, z := q.millimetres(p.X), q.millimetres(p.Y), q.millimetres(p.Z)
	if q.SwitchCoordinates {
		return Point3{-x, z, y}
	}
	return Point3{x, y, z}
}

// Unquantize maps a Point3 back to source units.
func (q Quantizer) Unquantize(p Point3) math.Vec3 {
	x, y, z := p.X, p.Y, p.Z
	if q.SwitchCoordinates {
		x, y, z = -p.X, p.Z, p.Y
	}
	return math.Vec3{
		X: float64(x) / q.Factor,
		Y: float64(y) / q.Factor,
		Z: float64(z) / q.Factor,
	}
}

// millimetres rounds half away from zero.
func (q Quantizer) millimetres(d float64) int64 {
	if gomath.Abs(d) < Tolerance {
		return 0
	}
	return int64(gomath.Round(d * q.Factor))
}
