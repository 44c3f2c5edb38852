package value

import (
	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/decimal128"
	"github.com/apache/arrow-go/v18/arrow/decimal256"
	"github.com/pkg/errors"

	"hibari/internal/ftypes"
)

// Append writes the value into the matching Arrow array builder. The builder
// must have been created from the value's type via ftypes.Type.Arrow.
func Append(b array.Builder, v Value) error {
	if v.Null {
		b.AppendNull()
		return nil
	}
	switch v.Type.Kind {
	case ftypes.Int32:
		b.(*array.Int32Builder).Append(int32(v.Int))
	case ftypes.Int64:
		b.(*array.Int64Builder).Append(v.Int)
	case ftypes.UInt32:
		b.(*array.Uint32Builder).Append(uint32(v.Uint))
	case ftypes.UInt64:
		b.(*array.Uint64Builder).Append(v.Uint)
	case ftypes.Float32:
		b.(*array.Float32Builder).Append(float32(v.Float))
	case ftypes.Float64:
		b.(*array.Float64Builder).Append(v.Float)
	case ftypes.Boolean:
		b.(*array.BooleanBuilder).Append(v.Bool)
	case ftypes.Decimal:
		if v.Type.Precision > 38 {
			b.(*array.Decimal256Builder).Append(decimal256.FromBigInt(v.Dec))
			return nil
		}
		b.(*array.Decimal128Builder).Append(decimal128.FromBigInt(v.Dec))
	case ftypes.Date32:
		b.(*array.Date32Builder).Append(arrow.Date32(v.Int))
	case ftypes.Time64:
		b.(*array.Time64Builder).Append(arrow.Time64(v.Int))
	case ftypes.Timestamp:
		b.(*array.TimestampBuilder).Append(arrow.Timestamp(v.Int))
	case ftypes.Interval:
		b.(*array.MonthDayNanoIntervalBuilder).Append(arrow.MonthDayNanoInterval{
			Months:      v.Months,
			Days:        v.Days,
			Nanoseconds: v.Nanos,
		})
	default:
		return errors.Errorf("unsupported type kind %d", v.Type.Kind)
	}
	return nil
}
