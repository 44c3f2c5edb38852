// Package ftypes defines the logical data types the fuzzer generates, with
// bidirectional mapping to Arrow types and to SQL type names.
package ftypes

import (
	"fmt"
	"strings"

	"github.com/apache/arrow-go/v18/arrow"
)

// Kind enumerates the supported logical type variants.
type Kind int

// Logical type kinds.
const (
	Int32 Kind = iota
	Int64
	UInt32
	UInt64
	Float32
	Float64
	Boolean
	Decimal
	Date32
	Time64
	Timestamp
	Interval
)

// Type is a logical data type. Decimal carries precision/scale and Timestamp
// carries an optional timezone label; the parameters are preserved through
// every mapping.
type Type struct {
	Kind      Kind
	Precision int32
	Scale     int32
	TimeZone  string
}

// NewDecimal returns a decimal type with the given precision and scale.
func NewDecimal(precision, scale int32) Type {
	return Type{Kind: Decimal, Precision: precision, Scale: scale}
}

// NewTimestamp returns a nanosecond timestamp type. An empty tz means no
// timezone.
func NewTimestamp(tz string) Type {
	return Type{Kind: Timestamp, TimeZone: tz}
}

// Arrow returns the native Arrow type for this logical type.
func (t Type) Arrow() arrow.DataType {
	switch t.Kind {
	case Int32:
		return arrow.PrimitiveTypes.Int32
	case Int64:
		return arrow.PrimitiveTypes.Int64
	case UInt32:
		return arrow.PrimitiveTypes.Uint32
	case UInt64:
		return arrow.PrimitiveTypes.Uint64
	case Float32:
		return arrow.PrimitiveTypes.Float32
	case Float64:
		return arrow.PrimitiveTypes.Float64
	case Boolean:
		return arrow.FixedWidthTypes.Boolean
	case Decimal:
		if t.Precision > 38 {
			return &arrow.Decimal256Type{Precision: t.Precision, Scale: t.Scale}
		}
		return &arrow.Decimal128Type{Precision: t.Precision, Scale: t.Scale}
	case Date32:
		return arrow.FixedWidthTypes.Date32
	case Time64:
		return arrow.FixedWidthTypes.Time64ns
	case Timestamp:
		return &arrow.TimestampType{Unit: arrow.Nanosecond, TimeZone: t.TimeZone}
	case Interval:
		return arrow.FixedWidthTypes.MonthDayNanoInterval
	default:
		return arrow.PrimitiveTypes.Int32
	}
}

// FromArrow maps an Arrow type back to a logical type. It reports false for
// Arrow types the fuzzer does not generate.
func FromArrow(dt arrow.DataType) (Type, bool) {
	switch at := dt.(type) {
	case *arrow.Int32Type:
		return Type{Kind: Int32}, true
	case *arrow.Int64Type:
		return Type{Kind: Int64}, true
	case *arrow.Uint32Type:
		return Type{Kind: UInt32}, true
	case *arrow.Uint64Type:
		return Type{Kind: UInt64}, true
	case *arrow.Float32Type:
		return Type{Kind: Float32}, true
	case *arrow.Float64Type:
		return Type{Kind: Float64}, true
	case *arrow.BooleanType:
		return Type{Kind: Boolean}, true
	case *arrow.Decimal128Type:
		return NewDecimal(at.Precision, at.Scale), true
	case *arrow.Decimal256Type:
		return NewDecimal(at.Precision, at.Scale), true
	case *arrow.Date32Type:
		return Type{Kind: Date32}, true
	case *arrow.Time64Type:
		if at.Unit != arrow.Nanosecond {
			return Type{}, false
		}
		return Type{Kind: Time64}, true
	case *arrow.TimestampType:
		if at.Unit != arrow.Nanosecond {
			return Type{}, false
		}
		return NewTimestamp(at.TimeZone), true
	case *arrow.MonthDayNanoIntervalType:
		return Type{Kind: Interval}, true
	default:
		return Type{}, false
	}
}

// SQLName returns the SQL type name used in CREATE TABLE DDL.
func (t Type) SQLName() string {
	switch t.Kind {
	case Int32:
		return "INTEGER"
	case Int64:
		return "BIGINT"
	case UInt32:
		return "UINTEGER"
	case UInt64:
		return "UBIGINT"
	case Float32:
		return "FLOAT"
	case Float64:
		return "DOUBLE"
	case Boolean:
		return "BOOLEAN"
	case Decimal:
		return fmt.Sprintf("DECIMAL(%d,%d)", t.Precision, t.Scale)
	case Date32:
		return "DATE"
	case Time64:
		return "TIME"
	case Timestamp:
		if t.TimeZone != "" {
			return "TIMESTAMPTZ"
		}
		return "TIMESTAMP"
	case Interval:
		return "INTERVAL"
	default:
		return "INTEGER"
	}
}

// KindFromSQLName maps an engine-reported SQL type name back to a logical
// kind. Engines widen some expression results (integer division comes back
// as DOUBLE, for example), so introspected names take precedence over the
// declared type where they map. Unknown names report false.
func KindFromSQLName(name string) (Kind, bool) {
	base := strings.ToUpper(strings.TrimSpace(name))
	if i := strings.IndexByte(base, '('); i >= 0 {
		base = strings.TrimSpace(base[:i])
	}
	switch base {
	case "INTEGER", "INT", "INT4", "MEDIUMINT", "SMALLINT", "TINYINT":
		return Int32, true
	case "BIGINT", "INT8", "HUGEINT":
		return Int64, true
	case "UINTEGER", "INT UNSIGNED", "UNSIGNED INT":
		return UInt32, true
	case "UBIGINT", "BIGINT UNSIGNED", "UNSIGNED BIGINT":
		return UInt64, true
	case "FLOAT", "FLOAT4", "REAL":
		return Float32, true
	case "DOUBLE", "FLOAT8":
		return Float64, true
	case "BOOLEAN", "BOOL":
		return Boolean, true
	case "DECIMAL", "NUMERIC":
		return Decimal, true
	case "DATE":
		return Date32, true
	case "TIME":
		return Time64, true
	case "TIMESTAMP", "TIMESTAMPTZ", "TIMESTAMP WITH TIME ZONE", "DATETIME":
		return Timestamp, true
	case "INTERVAL":
		return Interval, true
	}
	return 0, false
}

// DisplayName returns the lowercase short name used inside column names.
func (t Type) DisplayName() string {
	switch t.Kind {
	case Int32:
		return "int32"
	case Int64:
		return "int64"
	case UInt32:
		return "uint32"
	case UInt64:
		return "uint64"
	case Float32:
		return "float32"
	case Float64:
		return "float64"
	case Boolean:
		return "boolean"
	case Decimal:
		return "decimal"
	case Date32:
		return "date32"
	case Time64:
		return "time64"
	case Timestamp:
		return "timestamp"
	case Interval:
		return "interval"
	default:
		return "unknown"
	}
}

// IsNumeric reports whether the type participates in arithmetic.
func (t Type) IsNumeric() bool {
	switch t.Kind {
	case Int32, Int64, UInt32, UInt64, Float32, Float64, Decimal:
		return true
	default:
		return false
	}
}

// IsTime reports whether the type is a date/time type.
func (t Type) IsTime() bool {
	switch t.Kind {
	case Date32, Time64, Timestamp:
		return true
	default:
		return false
	}
}

func (t Type) String() string {
	switch t.Kind {
	case Decimal:
		return fmt.Sprintf("decimal(%d,%d)", t.Precision, t.Scale)
	case Timestamp:
		if t.TimeZone != "" {
			return fmt.Sprintf("timestamp(%s)", t.TimeZone)
		}
		return "timestamp"
	default:
		return t.DisplayName()
	}
}
