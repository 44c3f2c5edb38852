package engine

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/pkg/errors"

	"hibari/internal/ftypes"
	"hibari/internal/schema"
	"hibari/internal/value"
)

// CreateTableSQL renders the DDL for a generated table.
func CreateTableSQL(tbl schema.Table) string {
	var sb strings.Builder
	sb.WriteString("CREATE TABLE ")
	sb.WriteString(tbl.Name)
	sb.WriteString(" (")
	for i, col := range tbl.Columns {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(col.Name)
		sb.WriteString(" ")
		sb.WriteString(col.Type.SQLName())
	}
	sb.WriteString(")")
	return sb.String()
}

// InsertSQL renders the record batch as INSERT statements, batching rows up
// to maxRowsPerInsert per statement.
func InsertSQL(tbl schema.Table, rec arrow.Record, maxRowsPerInsert int) ([]string, error) {
	if maxRowsPerInsert <= 0 {
		maxRowsPerInsert = 1
	}
	rowCount := int(rec.NumRows())
	if rowCount == 0 {
		return nil, nil
	}
	cols := make([]string, len(tbl.Columns))
	for i, col := range tbl.Columns {
		cols[i] = col.Name
	}
	prefix := fmt.Sprintf("INSERT INTO %s (%s) VALUES ", tbl.Name, strings.Join(cols, ", "))

	var stmts []string
	var sb strings.Builder
	inBatch := 0
	for row := 0; row < rowCount; row++ {
		if inBatch == 0 {
			sb.Reset()
			sb.WriteString(prefix)
		} else {
			sb.WriteString(", ")
		}
		sb.WriteString("(")
		for c := 0; c < int(rec.NumCols()); c++ {
			if c > 0 {
				sb.WriteString(", ")
			}
			lit, err := literalAt(rec.Column(c), row, tbl.Columns[c].Type)
			if err != nil {
				return nil, err
			}
			sb.WriteString(lit)
		}
		sb.WriteString(")")
		inBatch++
		if inBatch == maxRowsPerInsert {
			stmts = append(stmts, sb.String())
			inBatch = 0
		}
	}
	if inBatch > 0 {
		stmts = append(stmts, sb.String())
	}
	return stmts, nil
}

// literalAt renders one Arrow array cell as a SQL literal.
func literalAt(col arrow.Array, i int, typ ftypes.Type) (string, error) {
	if col.IsNull(i) {
		return "NULL", nil
	}
	switch a := col.(type) {
	case *array.Int32:
		return strconv.FormatInt(int64(a.Value(i)), 10), nil
	case *array.Int64:
		return strconv.FormatInt(a.Value(i), 10), nil
	case *array.Uint32:
		return strconv.FormatUint(uint64(a.Value(i)), 10), nil
	case *array.Uint64:
		return strconv.FormatUint(a.Value(i), 10), nil
	case *array.Float32:
		return strconv.FormatFloat(float64(a.Value(i)), 'f', -1, 32), nil
	case *array.Float64:
		return strconv.FormatFloat(a.Value(i), 'f', -1, 64), nil
	case *array.Boolean:
		if a.Value(i) {
			return "TRUE", nil
		}
		return "FALSE", nil
	case *array.Decimal128:
		return value.FormatDecimal(a.Value(i).BigInt(), typ.Scale), nil
	case *array.Decimal256:
		return value.FormatDecimal(a.Value(i).BigInt(), typ.Scale), nil
	case *array.Date32:
		return fmt.Sprintf("DATE '%s'", value.FormatDate(int64(a.Value(i)))), nil
	case *array.Time64:
		return fmt.Sprintf("TIME '%s'", value.FormatTime(int64(a.Value(i)))), nil
	case *array.Timestamp:
		return fmt.Sprintf("TIMESTAMP '%s'", value.FormatTimestamp(int64(a.Value(i)))), nil
	case *array.MonthDayNanoInterval:
		iv := a.Value(i)
		return value.FormatInterval(iv.Months, iv.Days, iv.Nanoseconds), nil
	default:
		return "", errors.Errorf("unsupported arrow array %T", col)
	}
}
