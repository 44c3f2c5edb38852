package value

import (
	"math/big"
	"strings"
	"testing"

	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"

	"hibari/internal/ftypes"
	"hibari/internal/rng"
)

func TestGenerateDeterministic(t *testing.T) {
	ga := NewGenerator(rng.New(42), DefaultConfig())
	gb := NewGenerator(rng.New(42), DefaultConfig())
	types := append(ftypes.All(), ftypes.NewDecimal(38, 10), ftypes.NewTimestamp("UTC"))
	for i := 0; i < 50; i++ {
		for _, typ := range types {
			a := ToSQLString(ga.Generate(typ))
			b := ToSQLString(gb.Generate(typ))
			if a != b {
				t.Fatalf("draw %d type %s: %q != %q", i, typ, a, b)
			}
		}
	}
}

func TestNullProbabilityBounds(t *testing.T) {
	cfg := DefaultConfig()
	cfg.NullProbability = 0
	g := NewGenerator(rng.New(1), cfg)
	for i := 0; i < 100; i++ {
		if g.Generate(ftypes.Type{Kind: ftypes.Int64}).Null {
			t.Fatalf("null generated with zero probability")
		}
	}
	cfg.NullProbability = 1
	g = NewGenerator(rng.New(1), cfg)
	for i := 0; i < 100; i++ {
		if !g.Generate(ftypes.Type{Kind: ftypes.Int64}).Null {
			t.Fatalf("non-null generated with probability one")
		}
	}
	cfg.Nullable = false
	g = NewGenerator(rng.New(1), cfg)
	for i := 0; i < 100; i++ {
		if g.Generate(ftypes.Type{Kind: ftypes.Int64}).Null {
			t.Fatalf("null generated with nullable disabled")
		}
	}
}

func TestGenerateRespectsRanges(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Nullable = false
	g := NewGenerator(rng.New(7), cfg)
	for i := 0; i < 200; i++ {
		v := g.Generate(ftypes.Type{Kind: ftypes.Int64})
		if v.Int < cfg.IntRange.Min || v.Int > cfg.IntRange.Max {
			t.Fatalf("int64 %d outside [%d, %d]", v.Int, cfg.IntRange.Min, cfg.IntRange.Max)
		}
		u := g.Generate(ftypes.Type{Kind: ftypes.UInt64})
		if u.Uint < cfg.UintRange.Min || u.Uint > cfg.UintRange.Max {
			t.Fatalf("uint64 %d outside [%d, %d]", u.Uint, cfg.UintRange.Min, cfg.UintRange.Max)
		}
		f := g.Generate(ftypes.Type{Kind: ftypes.Float64})
		if f.Float < cfg.FloatRange.Min || f.Float > cfg.FloatRange.Max {
			t.Fatalf("float64 %v outside range", f.Float)
		}
		d := g.Generate(ftypes.Type{Kind: ftypes.Date32})
		if d.Int < 0 || d.Int > dateDaysMax {
			t.Fatalf("date offset %d outside window", d.Int)
		}
		tm := g.Generate(ftypes.Type{Kind: ftypes.Time64})
		if tm.Int < 0 || tm.Int >= nanosPerDay {
			t.Fatalf("time of day %d outside one day", tm.Int)
		}
	}
}

func TestSafePowerOfTen(t *testing.T) {
	for scale := int32(0); scale <= 76; scale++ {
		got := SafePowerOfTen(scale)
		if got.Sign() <= 0 {
			t.Fatalf("scale %d: non-positive power", scale)
		}
		want := scale
		if want > safePowerOfTenMax {
			want = safePowerOfTenMax
		}
		exact := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(want)), nil)
		if got.Cmp(exact) != 0 {
			t.Fatalf("scale %d: got %s, want %s", scale, got, exact)
		}
	}
	if SafePowerOfTen(-3).Cmp(big.NewInt(1)) != 0 {
		t.Fatalf("negative scale should give 1")
	}
}

func TestFormatDecimal(t *testing.T) {
	cases := []struct {
		unscaled int64
		scale    int32
		want     string
	}{
		{12345, 2, "123.45"},
		{-12345, 2, "-123.45"},
		{5, 3, "0.005"},
		{0, 4, "0.0000"},
		{42, 0, "42"},
		{-7, 0, "-7"},
	}
	for _, tc := range cases {
		if got := FormatDecimal(big.NewInt(tc.unscaled), tc.scale); got != tc.want {
			t.Fatalf("FormatDecimal(%d, %d) = %q, want %q", tc.unscaled, tc.scale, got, tc.want)
		}
	}
}

func TestFormatDateTime(t *testing.T) {
	if got := FormatDate(0); got != "1970-01-01" {
		t.Fatalf("FormatDate(0) = %q", got)
	}
	if got := FormatDate(31); got != "1970-02-01" {
		t.Fatalf("FormatDate(31) = %q", got)
	}
	// 1972 is a leap year; day 789 is 1972-02-29.
	if got := FormatDate(365 + 365 + 59); got != "1972-02-29" {
		t.Fatalf("leap day = %q", got)
	}
	if got := FormatTime(0); got != "00:00:00.000000000" {
		t.Fatalf("FormatTime(0) = %q", got)
	}
	ns := (13*3600+5*60+7)*nanosPerSecond + 12
	if got := FormatTime(ns); got != "13:05:07.000000012" {
		t.Fatalf("FormatTime = %q", got)
	}
	if got := FormatTimestamp(nanosPerDay + 42); got != "1970-01-02 00:00:00.000000042" {
		t.Fatalf("FormatTimestamp = %q", got)
	}
}

func TestFormatInterval(t *testing.T) {
	cases := []struct {
		months, days int32
		nanos        int64
		want         string
	}{
		{0, 0, 0, "INTERVAL '0'"},
		{1, 0, 0, "INTERVAL '1 month'"},
		{14, 2, 0, "INTERVAL '1 year 2 months 2 days'"},
		{0, 1, 3661 * nanosPerSecond, "INTERVAL '1 day 1 hour 1 minute 1 second'"},
		{0, 0, 2*nanosPerSecond + 5, "INTERVAL '2 seconds 5 nanoseconds'"},
	}
	for _, tc := range cases {
		if got := FormatInterval(tc.months, tc.days, tc.nanos); got != tc.want {
			t.Fatalf("FormatInterval(%d,%d,%d) = %q, want %q", tc.months, tc.days, tc.nanos, got, tc.want)
		}
	}
}

func TestPackMonthDayNanoLayout(t *testing.T) {
	packed := PackMonthDayNano(3, 7, 11)
	// days in low 32 bits, months in next 32, nanoseconds in high 64.
	want := new(big.Int).Lsh(big.NewInt(11), 64)
	want.Or(want, new(big.Int).Lsh(big.NewInt(3), 32))
	want.Or(want, big.NewInt(7))
	if packed.Cmp(want) != 0 {
		t.Fatalf("packed = %s, want %s", packed, want)
	}
}

func TestPackMonthDayNanoRoundTrip(t *testing.T) {
	cases := []struct {
		months, days int32
		nanos        int64
	}{
		{0, 0, 0},
		{1, 2, 3},
		{-5, 10, 999_999_999},
		{120, -365, -86_400_000_000_000},
		{1 << 30, 1 << 30, 1 << 62},
	}
	for _, tc := range cases {
		m, d, n := UnpackMonthDayNano(PackMonthDayNano(tc.months, tc.days, tc.nanos))
		if m != tc.months || d != tc.days || n != tc.nanos {
			t.Fatalf("round-trip (%d,%d,%d) gave (%d,%d,%d)", tc.months, tc.days, tc.nanos, m, d, n)
		}
	}
}

func TestAppendDecimalRoundTrip(t *testing.T) {
	cases := []struct {
		typ      ftypes.Type
		unscaled int64
	}{
		{ftypes.NewDecimal(12, 4), 12345},
		{ftypes.NewDecimal(12, 4), -12345},
		{ftypes.NewDecimal(50, 10), 98765},
		{ftypes.NewDecimal(50, 10), -98765},
	}
	for _, tc := range cases {
		b := array.NewBuilder(memory.DefaultAllocator, tc.typ.Arrow())
		if err := Append(b, Value{Type: tc.typ, Dec: big.NewInt(tc.unscaled)}); err != nil {
			t.Fatalf("append %s: %v", tc.typ, err)
		}
		arr := b.NewArray()
		var got *big.Int
		switch a := arr.(type) {
		case *array.Decimal128:
			got = a.Value(0).BigInt()
		case *array.Decimal256:
			got = a.Value(0).BigInt()
		default:
			t.Fatalf("unexpected array type %T for %s", arr, tc.typ)
		}
		if got.Cmp(big.NewInt(tc.unscaled)) != 0 {
			t.Fatalf("%s: got %s, want %d", tc.typ, got, tc.unscaled)
		}
		arr.Release()
		b.Release()
	}
}

func TestToSQLStringBasics(t *testing.T) {
	if got := ToSQLString(Value{Type: ftypes.Type{Kind: ftypes.Int32}, Null: true}); got != "NULL" {
		t.Fatalf("null = %q", got)
	}
	if got := ToSQLString(Value{Type: ftypes.Type{Kind: ftypes.Boolean}, Bool: true}); got != "TRUE" {
		t.Fatalf("bool = %q", got)
	}
	v := Value{Type: ftypes.Type{Kind: ftypes.Date32}, Int: 0}
	if got := ToSQLString(v); got != "DATE '1970-01-01'" {
		t.Fatalf("date = %q", got)
	}
	iv := Value{Type: ftypes.Type{Kind: ftypes.Interval}, Months: 2, Days: 1}
	if got := ToSQLString(iv); !strings.HasPrefix(got, "INTERVAL '") {
		t.Fatalf("interval = %q", got)
	}
}
