// Package curve implements the bidirectional mapping between a normalized
// control position in [0,1] and a physical parameter value along a
// configurable response curve. Conversions are pure functions of the Spec,
// safe to call from any goroutine, and algebraically invertible so patch
// save/restore round-trips exactly.
package curve

import (
	"math"
	"strconv"
)

// Kind identifies a response curve shape.
type Kind int

const (
	// Linear maps the control position straight onto the physical range.
	Linear Kind = iota
	// Quadratic raises the position to Spec.Exponent, concentrating
	// resolution at the low end of the range.
	Quadratic
	// Exponential applies (e^(k*n)-1)/(e^k-1) with shape Spec.K.
	Exponential
	// Logarithmic applies log2(n+1), concentrating resolution at the
	// high end of the range.
	Logarithmic
)

func (k Kind) String() string {
	switch k {
	case Linear:
		return "linear"
	case Quadratic:
		return "quadratic"
	case Exponential:
		return "exponential"
	case Logarithmic:
		return "logarithmic"
	}
	return "unknown"
}

// ParseKind maps a stored curve identifier to a Kind. Unknown identifiers
// fall back to Linear; the fallback is reported through diag (which may be
// nil) rather than returned as an error, so a typo in a patch file degrades
// gracefully instead of failing the load.
func ParseKind(id string, diag func(msg string)) Kind {
	switch id {
	case "linear":
		return Linear
	case "quadratic":
		return Quadratic
	case "exponential":
		return Exponential
	case "logarithmic":
		return Logarithmic
	}
	if diag != nil {
		diag("unknown curve identifier " + strconv.Quote(id) + ", falling back to linear")
	}
	return Linear
}

// Default shape constants applied when a Spec leaves Exponent or K zero.
const (
	DefaultExponent = 2.0
	DefaultK        = 3.0
)

// Spec configures one parameter's response curve. It is immutable once
// constructed and intended to be owned by the parameter it configures and
// reused across conversions. Max >= Min is required; a degenerate range
// (Max == Min) maps every normalized input to Min and every physical input
// to normalized 0.
type Spec struct {
	Min, Max float64
	Kind     Kind

	// Exponent shapes the Quadratic curve; zero selects DefaultExponent.
	Exponent float64
	// K shapes the Exponential curve; zero selects DefaultK. Callers
	// wanting the k->0 linear limit should use Kind Linear.
	K float64
}

func (s Spec) exponent() float64 {
	if s.Exponent == 0 {
		return DefaultExponent
	}
	return s.Exponent
}

func (s Spec) shapeK() float64 {
	if s.K == 0 {
		return DefaultK
	}
	return s.K
}

// ToPhysical converts a normalized control position to a physical value.
// The position is clamped to [0,1] first; the result always lies within
// [Min,Max]. An out-of-enum Kind behaves as Linear.
func ToPhysical(normalized float64, s Spec) float64 {
	n := clamp(normalized, 0, 1)
	span := s.Max - s.Min
	if span == 0 {
		return s.Min
	}
	switch s.Kind {
	case Quadratic:
		return s.Min + math.Pow(n, s.exponent())*span
	case Exponential:
		k := s.shapeK()
		return s.Min + (math.Expm1(k*n)/math.Expm1(k))*span
	case Logarithmic:
		return s.Min + math.Log2(n+1)*span
	}
	return s.Min + n*span
}

// ToNormalized converts a physical value back to a normalized control
// position, exactly inverting ToPhysical branch for branch. The physical
// value is clamped into [Min,Max] before inverting; the result always lies
// within [0,1]. A degenerate range maps every input to 0.
func ToNormalized(physical float64, s Spec) float64 {
	span := s.Max - s.Min
	if span == 0 {
		return 0
	}
	p := clamp(physical, s.Min, s.Max)
	frac := (p - s.Min) / span
	switch s.Kind {
	case Quadratic:
		return math.Pow(frac, 1/s.exponent())
	case Exponential:
		k := s.shapeK()
		return math.Log1p(frac*math.Expm1(k)) / k
	case Logarithmic:
		return math.Exp2(frac) - 1
	}
	return frac
}

func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
