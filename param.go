package modvolt

import "github.com/modvolt/modvolt-go/internal/curve"

// CurveKind identifies a parameter's response curve.
type CurveKind int

const (
	CurveLinear CurveKind = iota
	CurveQuadratic
	CurveExponential
	CurveLogarithmic
)

// CurveSpec configures the mapping between a normalized control position
// and a physical value. Patch files store physical units; the spec makes
// the stored value independent of the panel's curve calibration.
type CurveSpec struct {
	Min, Max float64
	Kind     CurveKind

	// Exponent shapes the quadratic curve (0 means the default, 2).
	Exponent float64
	// K shapes the exponential curve (0 means the default, 3).
	K float64
}

func (s CurveSpec) internal() curve.Spec {
	return curve.Spec{
		Min:      s.Min,
		Max:      s.Max,
		Kind:     curve.Kind(s.Kind),
		Exponent: s.Exponent,
		K:        s.K,
	}
}

// ToPhysical maps a normalized control position in [0,1] to a physical
// value along the spec's curve. Out-of-range positions clamp; the result
// always lies within [Min,Max].
func ToPhysical(normalized float64, s CurveSpec) float64 {
	return curve.ToPhysical(normalized, s.internal())
}

// ToNormalized inverts ToPhysical. Out-of-range physical values clamp; the
// result always lies within [0,1], and a degenerate (zero-width) range maps
// everything to 0.
func ToNormalized(physical float64, s CurveSpec) float64 {
	return curve.ToNormalized(physical, s.internal())
}

// ParseCurveKind maps a stored curve identifier to a CurveKind. Unknown
// identifiers fall back to CurveLinear and are reported through diag (which
// may be nil).
func ParseCurveKind(id string, diag func(msg string)) CurveKind {
	return CurveKind(curve.ParseKind(id, diag))
}
