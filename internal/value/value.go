// Package value generates random typed scalar values and renders them as SQL
// literals and as Arrow-native scalars.
package value

import (
	"math"
	"math/big"
	"math/rand"

	"hibari/internal/ftypes"
	"hibari/internal/util"
)

// Generation bounds for the date/time kinds. Dates and timestamps stay within
// a hundred-year window from the Unix epoch.
const (
	dateDaysMax     = 36500
	nanosPerSecond  = int64(1_000_000_000)
	secondsPerDay   = int64(86_400)
	nanosPerDay     = secondsPerDay * nanosPerSecond
	decimalMantissa = 99_999

	intervalMonthsMax  = 120
	intervalDaysMax    = 365
	intervalSecondsMax = secondsPerDay
)

// IntRange bounds generated signed integers.
type IntRange struct {
	Min int64 `yaml:"min"`
	Max int64 `yaml:"max"`
}

// UintRange bounds generated unsigned integers.
type UintRange struct {
	Min uint64 `yaml:"min"`
	Max uint64 `yaml:"max"`
}

// FloatRange bounds generated floats.
type FloatRange struct {
	Min float64 `yaml:"min"`
	Max float64 `yaml:"max"`
}

// Config controls value generation distribution.
type Config struct {
	Nullable        bool       `yaml:"nullable"`
	NullProbability float64    `yaml:"null_probability"`
	IntRange        IntRange   `yaml:"int_range"`
	UintRange       UintRange  `yaml:"uint_range"`
	FloatRange      FloatRange `yaml:"float_range"`
}

// DefaultConfig returns the stock generation distribution.
func DefaultConfig() Config {
	return Config{
		Nullable:        true,
		NullProbability: 0.1,
		IntRange:        IntRange{Min: -100, Max: 100},
		UintRange:       UintRange{Min: 0, Max: 200},
		FloatRange:      FloatRange{Min: -100, Max: 100},
	}
}

// Value is a concrete instance of a logical type, or Null. The scalar payload
// lives in the field matching the type kind.
type Value struct {
	Type ftypes.Type
	Null bool

	// Int holds Int32/Int64 values, Date32 day offsets, Time64 nanoseconds
	// of day, and Timestamp nanoseconds since epoch.
	Int   int64
	Uint  uint64
	Float float64
	Bool  bool
	// Dec is the unscaled decimal value (mantissa already multiplied by the
	// scale's power of ten).
	Dec *big.Int

	Months int32
	Days   int32
	Nanos  int64
}

// Generator draws random values for logical types.
type Generator struct {
	r   *rand.Rand
	cfg Config
}

// NewGenerator returns a value generator over the given random stream.
func NewGenerator(r *rand.Rand, cfg Config) *Generator {
	return &Generator{r: r, cfg: cfg}
}

// Generate draws a random value of the given type. A nullable config
// short-circuits to Null with the configured probability before any
// type-specific draw.
func (g *Generator) Generate(t ftypes.Type) Value {
	if g.cfg.Nullable && g.r.Float64() < g.cfg.NullProbability {
		return Value{Type: t, Null: true}
	}
	v := Value{Type: t}
	switch t.Kind {
	case ftypes.Int32:
		lo := clampInt64(g.cfg.IntRange.Min, math.MinInt32, math.MaxInt32)
		hi := clampInt64(g.cfg.IntRange.Max, math.MinInt32, math.MaxInt32)
		v.Int = util.RandInt64Range(g.r, lo, hi)
	case ftypes.Int64:
		v.Int = util.RandInt64Range(g.r, g.cfg.IntRange.Min, g.cfg.IntRange.Max)
	case ftypes.UInt32:
		lo := clampUint64(g.cfg.UintRange.Min, math.MaxUint32)
		hi := clampUint64(g.cfg.UintRange.Max, math.MaxUint32)
		v.Uint = util.RandUint64Range(g.r, lo, hi)
	case ftypes.UInt64:
		v.Uint = util.RandUint64Range(g.r, g.cfg.UintRange.Min, g.cfg.UintRange.Max)
	case ftypes.Float32:
		v.Float = float64(float32(util.RandFloat64Range(g.r, g.cfg.FloatRange.Min, g.cfg.FloatRange.Max)))
	case ftypes.Float64:
		v.Float = util.RandFloat64Range(g.r, g.cfg.FloatRange.Min, g.cfg.FloatRange.Max)
	case ftypes.Boolean:
		v.Bool = g.r.Intn(2) == 0
	case ftypes.Decimal:
		mantissa := util.RandInt64Range(g.r, -decimalMantissa, decimalMantissa)
		v.Dec = new(big.Int).Mul(big.NewInt(mantissa), SafePowerOfTen(t.Scale))
	case ftypes.Date32:
		v.Int = util.RandInt64Range(g.r, 0, dateDaysMax)
	case ftypes.Time64:
		v.Int = g.r.Int63n(nanosPerDay)
	case ftypes.Timestamp:
		v.Int = g.r.Int63n(int64(dateDaysMax) * nanosPerDay)
	case ftypes.Interval:
		v.Months = int32(util.RandIntRange(g.r, 0, intervalMonthsMax))
		v.Days = int32(util.RandIntRange(g.r, 0, intervalDaysMax))
		v.Nanos = util.RandInt64Range(g.r, 0, intervalSecondsMax) * nanosPerSecond
	}
	return v
}

func clampInt64(v, lo, hi int64) int64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampUint64(v, hi uint64) uint64 {
	if v > hi {
		return hi
	}
	return v
}
