package generator

import (
	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/pkg/errors"

	"hibari/internal/config"
	"hibari/internal/ftypes"
	"hibari/internal/rng"
	"hibari/internal/schema"
	"hibari/internal/util"
	"hibari/internal/value"
)

// GenerateTable builds one random table definition and its row data
// from a dedicated seed. The same seed and config always reproduce the
// same table, independent of any other generator state.
func GenerateTable(seed int64, cfg config.Config, name string) (schema.Table, arrow.Record, error) {
	r := rng.New(seed)
	vals := value.NewGenerator(r, cfg.Values)

	colCount := util.RandIntRange(r, ColumnCountMin, cfg.Generation.MaxColumnCount)
	cols := make([]schema.Column, 0, colCount)
	for i := 0; i < colCount; i++ {
		typ := ftypes.Random(r)
		cols = append(cols, schema.Column{
			Name:     schema.ColumnName(name, i, typ),
			Type:     typ,
			Nullable: cfg.Values.Nullable,
		})
	}
	tbl := schema.Table{Name: name, Columns: cols}

	rowCount := 0
	if cfg.Generation.MaxRowCount > 0 {
		rowCount = r.Intn(cfg.Generation.MaxRowCount)
	}
	rec, err := buildRecord(tbl, rowCount, vals)
	if err != nil {
		return schema.Table{}, nil, errors.Wrapf(err, "build rows for %s", name)
	}
	return tbl, rec, nil
}

func buildRecord(tbl schema.Table, rows int, vals *value.Generator) (arrow.Record, error) {
	builder := array.NewRecordBuilder(memory.DefaultAllocator, tbl.ArrowSchema())
	defer builder.Release()

	for r := 0; r < rows; r++ {
		for c, col := range tbl.Columns {
			v := vals.Generate(col.Type)
			if err := value.Append(builder.Field(c), v); err != nil {
				return nil, errors.Wrapf(err, "column %s", col.Name)
			}
		}
	}
	return builder.NewRecord(), nil
}
