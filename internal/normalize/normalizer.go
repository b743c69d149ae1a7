// Package normalize maps source-shaped raw records into canonical records.
// It knows nothing about HTTP, HTML or any particular website; all
// source-specific knowledge arrives through the field map.
package normalize

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/courtdata/statpipe/internal/domain/dataset"
	"github.com/courtdata/statpipe/internal/domain/source"
)

// Stats reports what one normalization call dropped or failed to coerce.
// Surfaced to the caller so silent data loss stays observable; never an error.
type Stats struct {
	Records          int
	CoercionFailures int
	FailedColumns    []string
	DroppedKeys      int
}

func (s *Stats) merge(other Stats) {
	s.Records += other.Records
	s.CoercionFailures += other.CoercionFailures
	s.FailedColumns = append(s.FailedColumns, other.FailedColumns...)
	s.DroppedKeys += other.DroppedKeys
}

// Record normalizes one raw record into a canonical record for kind. The
// result always has exactly the registry's columns in declared order; columns
// the field map cannot resolve get typed nulls. The only error is an unknown
// kind, which is a configuration bug.
func Record(raw source.RawRecord, kind dataset.Kind, fieldMap source.FieldMap) (dataset.Record, Stats, error) {
	schema, err := dataset.SchemaFor(kind)
	if err != nil {
		return nil, Stats{}, err
	}

	stats := Stats{Records: 1}
	rec := schema.EmptyRecord()
	for i, column := range schema.Columns {
		rule, ok := fieldMap[column.Name]
		if !ok {
			continue
		}

		switch {
		case rule.Const != nil:
			if rule.Const.Type() != column.Type {
				stats.CoercionFailures++
				stats.FailedColumns = append(stats.FailedColumns, column.Name)
				continue
			}
			rec[i] = *rule.Const
		case rule.Transform != nil:
			value, ok := rule.Transform(raw)
			if !ok || value.Type() != column.Type {
				stats.CoercionFailures++
				stats.FailedColumns = append(stats.FailedColumns, column.Name)
				continue
			}
			rec[i] = value
		case rule.SourceKey != "":
			rawValue, present := raw[rule.SourceKey]
			if !present {
				continue
			}
			value, ok := coerce(rawValue, column.Type)
			if !ok {
				stats.CoercionFailures++
				stats.FailedColumns = append(stats.FailedColumns, column.Name)
				continue
			}
			rec[i] = value
		}
	}

	referenced := fieldMap.ReferencedKeys()
	for key := range raw {
		if _, ok := referenced[key]; !ok {
			stats.DroppedKeys++
		}
	}

	return rec, stats, nil
}

// Batch normalizes every raw record in batch into a table scoped to
// (league, season), accumulating per-record stats into one summary.
func Batch(batch source.Batch, league, season string) (*dataset.Table, Stats, error) {
	table, err := dataset.NewTable(batch.Kind, league, season)
	if err != nil {
		return nil, Stats{}, err
	}

	var stats Stats
	for idx, raw := range batch.Records {
		rec, recStats, err := Record(raw, batch.Kind, batch.FieldMap)
		if err != nil {
			return nil, Stats{}, err
		}
		stats.merge(recStats)
		if err := table.Append(rec); err != nil {
			return nil, Stats{}, fmt.Errorf("append normalized record %d: %w", idx, err)
		}
	}

	sort.Strings(stats.FailedColumns)
	return table, stats, nil
}

// coerce converts a raw scalar into a typed cell. A nil or empty-string raw
// value is a plain null, not a coercion failure.
func coerce(raw any, typ dataset.ColumnType) (dataset.Value, bool) {
	if raw == nil {
		return dataset.Null(typ), true
	}
	if text, ok := raw.(string); ok && strings.TrimSpace(text) == "" {
		return dataset.Null(typ), true
	}

	switch typ {
	case dataset.TypeString:
		return coerceString(raw)
	case dataset.TypeInt:
		return coerceInt(raw)
	case dataset.TypeFloat:
		return coerceFloat(raw)
	case dataset.TypeBool:
		return coerceBool(raw)
	case dataset.TypeDate:
		return coerceDate(raw)
	}
	return dataset.Value{}, false
}

func coerceString(raw any) (dataset.Value, bool) {
	switch v := raw.(type) {
	case string:
		return dataset.String(strings.TrimSpace(v)), true
	case int:
		return dataset.String(strconv.Itoa(v)), true
	case int64:
		return dataset.String(strconv.FormatInt(v, 10)), true
	case float64:
		return dataset.String(strconv.FormatFloat(v, 'g', -1, 64)), true
	}
	return dataset.Value{}, false
}

func coerceInt(raw any) (dataset.Value, bool) {
	switch v := raw.(type) {
	case int:
		return dataset.Int(int64(v)), true
	case int32:
		return dataset.Int(int64(v)), true
	case int64:
		return dataset.Int(v), true
	case float64:
		if v != math.Trunc(v) {
			return dataset.Value{}, false
		}
		return dataset.Int(int64(v)), true
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil {
			return dataset.Value{}, false
		}
		return dataset.Int(n), true
	}
	return dataset.Value{}, false
}

func coerceFloat(raw any) (dataset.Value, bool) {
	switch v := raw.(type) {
	case float64:
		return dataset.Float(v), true
	case float32:
		return dataset.Float(float64(v)), true
	case int:
		return dataset.Float(float64(v)), true
	case int64:
		return dataset.Float(float64(v)), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return dataset.Value{}, false
		}
		return dataset.Float(f), true
	}
	return dataset.Value{}, false
}

func coerceBool(raw any) (dataset.Value, bool) {
	switch v := raw.(type) {
	case bool:
		return dataset.Bool(v), true
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return dataset.Value{}, false
		}
		return dataset.Bool(b), true
	case int:
		return dataset.Bool(v != 0), true
	case int64:
		return dataset.Bool(v != 0), true
	case float64:
		return dataset.Bool(v != 0), true
	}
	return dataset.Value{}, false
}

var dateLayouts = []string{"2006-01-02", time.RFC3339, "2006-01-02T15:04:05", "01/02/2006"}

func coerceDate(raw any) (dataset.Value, bool) {
	switch v := raw.(type) {
	case time.Time:
		return dataset.Date(v), true
	case string:
		trimmed := strings.TrimSpace(v)
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, trimmed); err == nil {
				return dataset.Date(t), true
			}
		}
	}
	return dataset.Value{}, false
}
