package dataset

import (
	"fmt"
	"strings"

	crerr "github.com/cockroachdb/errors"
)

// ErrRecordShape is returned when a record does not line up with its schema.
var ErrRecordShape = crerr.New("record does not match schema")

// Table is an ordered collection of canonical records of one kind, scoped to
// one (league, season). Producers append rows once and hand the table off;
// consumers treat it as read-only.
type Table struct {
	kind   Kind
	league string
	season string
	schema Schema
	rows   []Record
}

func NewTable(kind Kind, league, season string) (*Table, error) {
	schema, err := SchemaFor(kind)
	if err != nil {
		return nil, err
	}
	return &Table{kind: kind, league: league, season: season, schema: schema}, nil
}

func (t *Table) Kind() Kind     { return t.kind }
func (t *Table) League() string { return t.league }
func (t *Table) Season() string { return t.season }
func (t *Table) Schema() Schema { return t.schema }
func (t *Table) Len() int       { return len(t.rows) }

// Append adds one record. The record must carry exactly one cell per schema
// column; cell types must match the declared column types.
func (t *Table) Append(rec Record) error {
	if len(rec) != len(t.schema.Columns) {
		return fmt.Errorf("%w: kind=%s got %d cells want %d",
			ErrRecordShape, t.kind, len(rec), len(t.schema.Columns))
	}
	for i, cell := range rec {
		if cell.Type() != t.schema.Columns[i].Type {
			return fmt.Errorf("%w: kind=%s column=%s got type %s want %s",
				ErrRecordShape, t.kind, t.schema.Columns[i].Name, cell.Type(), t.schema.Columns[i].Type)
		}
	}
	t.rows = append(t.rows, rec)
	return nil
}

// Row returns the record at index i. Callers must not mutate it.
func (t *Table) Row(i int) Record {
	return t.rows[i]
}

// Value looks up one cell by row index and column name.
func (t *Table) Value(row int, column string) (Value, bool) {
	idx, ok := t.schema.ColumnIndex(column)
	if !ok {
		return Value{}, false
	}
	return t.rows[row][idx], true
}

// NaturalKeyOf renders row i's natural-key tuple as a deterministic string,
// for grouping, duplicate detection and error messages.
func (t *Table) NaturalKeyOf(row int) string {
	parts := make([]string, 0, len(t.schema.NaturalKey))
	for _, name := range t.schema.NaturalKey {
		idx, _ := t.schema.ColumnIndex(name)
		parts = append(parts, t.rows[row][idx].Text())
	}
	return strings.Join(parts, "|")
}
