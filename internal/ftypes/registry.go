package ftypes

import (
	"math/rand"

	"hibari/internal/util"
)

// TimeZones is the fixed label set attached to generated Timestamp types.
// The empty string means no timezone.
var TimeZones = []string{"", "UTC", "+08:00", "America/New_York"}

// Decimal parameter bounds for randomly drawn decimal types. The value
// generator draws mantissas of up to five integer digits, so precision always
// leaves room for scale plus five digits.
const (
	decimalScaleMax     = 10
	decimalIntDigits    = 5
	decimalPrecisionMax = 38
)

var kinds = []Kind{
	Int32, Int64, UInt32, UInt64, Float32, Float64,
	Boolean, Decimal, Date32, Time64, Timestamp, Interval,
}

// All returns one representative type per supported kind, with fixed
// parameters for the parameterized kinds.
func All() []Type {
	out := make([]Type, 0, len(kinds))
	for _, k := range kinds {
		switch k {
		case Decimal:
			out = append(out, NewDecimal(12, 4))
		case Timestamp:
			out = append(out, NewTimestamp(""))
		default:
			out = append(out, Type{Kind: k})
		}
	}
	return out
}

// Random draws a type from the registry, randomizing decimal precision/scale
// and the timestamp timezone label.
func Random(r *rand.Rand) Type {
	k := kinds[r.Intn(len(kinds))]
	switch k {
	case Decimal:
		scale := int32(util.RandIntRange(r, 0, decimalScaleMax))
		precision := scale + int32(util.RandIntRange(r, decimalIntDigits, int(decimalPrecisionMax-scale)))
		return NewDecimal(precision, scale)
	case Timestamp:
		return NewTimestamp(TimeZones[r.Intn(len(TimeZones))])
	default:
		return Type{Kind: k}
	}
}
