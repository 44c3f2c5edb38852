package generator

import (
	"math/rand"

	"hibari/internal/ftypes"
)

// TypeGroup describes how an operand type is chosen for a signature slot.
type TypeGroup struct {
	// SameAsOutput makes the slot reuse the operator's resolved output type.
	SameAsOutput bool
	// Fixed pins the slot to a single kind, ignoring the output type.
	Fixed ftypes.Kind
	// OneOf lets the slot pick any of the listed kinds at random.
	OneOf []ftypes.Kind

	hasFixed bool
}

// Same returns a slot that mirrors the operator's output type.
func Same() TypeGroup { return TypeGroup{SameAsOutput: true} }

// FixedType returns a slot pinned to a single kind.
func FixedType(k ftypes.Kind) TypeGroup { return TypeGroup{Fixed: k, hasFixed: true} }

// OneOfTypes returns a slot that picks one of the given kinds.
func OneOfTypes(kinds ...ftypes.Kind) TypeGroup { return TypeGroup{OneOf: kinds} }

// Resolve picks the concrete type for this slot given the operator's
// resolved output type. It never consults any state besides out and r.
func (g TypeGroup) Resolve(out ftypes.Type, r *rand.Rand) ftypes.Type {
	switch {
	case g.SameAsOutput:
		return out
	case g.hasFixed:
		return defaultTypeFor(g.Fixed, r)
	case len(g.OneOf) > 0:
		return defaultTypeFor(g.OneOf[r.Intn(len(g.OneOf))], r)
	}
	return out
}

// defaultTypeFor builds a concrete type for a kind. Parameterized kinds
// get representative parameters so the slot stays renderable.
func defaultTypeFor(k ftypes.Kind, r *rand.Rand) ftypes.Type {
	switch k {
	case ftypes.Decimal:
		return ftypes.NewDecimal(12, 4)
	case ftypes.Timestamp:
		return ftypes.NewTimestamp(ftypes.TimeZones[r.Intn(len(ftypes.TimeZones))])
	default:
		return ftypes.Type{Kind: k}
	}
}

// Signature lists the operand slots of one overload of an operator.
type Signature struct {
	Operands []TypeGroup
}

// Operator describes a SQL operator the expression generator may emit.
type Operator struct {
	Name       string
	Symbol     string
	Returns    []ftypes.Kind
	Signatures []Signature
}

// CanReturn reports whether the operator has an overload producing k.
func (o Operator) CanReturn(k ftypes.Kind) bool {
	for _, rk := range o.Returns {
		if rk == k {
			return true
		}
	}
	return false
}

var numericKinds = []ftypes.Kind{
	ftypes.Int32, ftypes.Int64, ftypes.UInt32, ftypes.UInt64,
	ftypes.Float32, ftypes.Float64, ftypes.Decimal,
}

func numericBinary(name, symbol string) Operator {
	return Operator{
		Name:       name,
		Symbol:     symbol,
		Returns:    numericKinds,
		Signatures: []Signature{{Operands: []TypeGroup{Same(), Same()}}},
	}
}

// DefaultOperators is the operator catalog used by the expression
// generator. Every overload is type-closed over the kinds it returns.
var DefaultOperators = []Operator{
	numericBinary("add", "+"),
	numericBinary("sub", "-"),
	numericBinary("mul", "*"),
	numericBinary("div", "/"),
	numericBinary("mod", "%"),
	{
		Name:       "and",
		Symbol:     "AND",
		Returns:    []ftypes.Kind{ftypes.Boolean},
		Signatures: []Signature{{Operands: []TypeGroup{Same(), Same()}}},
	},
	{
		Name:       "or",
		Symbol:     "OR",
		Returns:    []ftypes.Kind{ftypes.Boolean},
		Signatures: []Signature{{Operands: []TypeGroup{Same(), Same()}}},
	},
	{
		Name:       "ts_plus_interval",
		Symbol:     "+",
		Returns:    []ftypes.Kind{ftypes.Timestamp},
		Signatures: []Signature{{Operands: []TypeGroup{Same(), FixedType(ftypes.Interval)}}},
	},
	{
		Name:       "ts_minus_interval",
		Symbol:     "-",
		Returns:    []ftypes.Kind{ftypes.Timestamp},
		Signatures: []Signature{{Operands: []TypeGroup{Same(), FixedType(ftypes.Interval)}}},
	},
}

// operatorsFor returns the catalog entries that can produce kind k.
func operatorsFor(catalog []Operator, k ftypes.Kind) []Operator {
	var out []Operator
	for _, op := range catalog {
		if op.CanReturn(k) {
			out = append(out, op)
		}
	}
	return out
}
