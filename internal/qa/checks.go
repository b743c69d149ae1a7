package qa

import (
	"fmt"

	"github.com/courtdata/statpipe/internal/domain/dataset"
)

const keySampleLimit = 5

// RowCountBounds is the expected row-count envelope for one dataset. Max <= 0
// means unbounded above.
type RowCountBounds struct {
	Min int
	Max int
}

// Uniqueness fails when any natural-key tuple appears more than once,
// reporting the duplicate count and a sample of offending keys.
func Uniqueness(table *dataset.Table) CheckResult {
	name := "uniqueness:" + string(table.Kind())
	seen := make(map[string]struct{}, table.Len())
	duplicates := make([]string, 0)
	for row := 0; row < table.Len(); row++ {
		key := table.NaturalKeyOf(row)
		if _, dup := seen[key]; dup {
			duplicates = append(duplicates, key)
		}
		seen[key] = struct{}{}
	}
	if len(duplicates) == 0 {
		return pass(name, fmt.Sprintf("%d rows, natural key unique", table.Len()))
	}
	return fail(name,
		fmt.Sprintf("%d duplicate natural key(s)", len(duplicates)),
		map[string]any{
			"duplicate_count": len(duplicates),
			"sample_keys":     sampleKeys(duplicates),
		})
}

// RequiredColumns fails when the table's schema is missing any column the
// registry declares for its kind. Missing columns are a hard failure since
// aggregation depends on their presence.
func RequiredColumns(table *dataset.Table) CheckResult {
	name := "required_columns:" + string(table.Kind())
	declared := dataset.MustSchemaFor(table.Kind())
	missing := make([]string, 0)
	for _, column := range declared.Columns {
		if _, ok := table.Schema().ColumnIndex(column.Name); !ok {
			missing = append(missing, column.Name)
		}
	}
	if len(missing) == 0 {
		return pass(name, fmt.Sprintf("all %d declared columns present", len(declared.Columns)))
	}
	return fail(name,
		fmt.Sprintf("%d declared column(s) missing", len(missing)),
		map[string]any{"missing_columns": missing})
}

// NullGuard fails on any null in a non-nullable column, carrying the row's
// natural key. Null rates for the remaining columns are reported as metadata.
func NullGuard(table *dataset.Table) CheckResult {
	name := "null_guard:" + string(table.Kind())
	schema := table.Schema()

	violations := make([]string, 0)
	nullCounts := make(map[string]int)
	for row := 0; row < table.Len(); row++ {
		for _, column := range schema.Columns {
			value, _ := table.Value(row, column.Name)
			if !value.IsNull() {
				continue
			}
			if column.NonNullable {
				violations = append(violations, fmt.Sprintf("%s[%s]", column.Name, table.NaturalKeyOf(row)))
				continue
			}
			nullCounts[column.Name]++
		}
	}

	nullRates := make(map[string]any, len(nullCounts))
	if table.Len() > 0 {
		for column, count := range nullCounts {
			nullRates[column] = float64(count) / float64(table.Len())
		}
	}

	if len(violations) == 0 {
		return CheckResult{
			Name:     name,
			Passed:   true,
			Message:  "no nulls in non-nullable columns",
			Metadata: map[string]any{"null_rates": nullRates},
		}
	}
	return fail(name,
		fmt.Sprintf("%d null(s) in non-nullable column(s)", len(violations)),
		map[string]any{
			"violations": sampleKeys(violations),
			"null_rates": nullRates,
		})
}

// NumericRange fails when a column with a declared plausible range holds an
// out-of-range value, reporting each offending row's natural key.
func NumericRange(table *dataset.Table) CheckResult {
	name := "numeric_range:" + string(table.Kind())
	schema := table.Schema()

	violations := make([]map[string]any, 0)
	for row := 0; row < table.Len(); row++ {
		for column, bounds := range schema.Ranges {
			value, ok := table.Value(row, column)
			if !ok {
				continue
			}
			n, isNumeric := value.Numeric()
			if !isNumeric {
				continue
			}
			if n < bounds.Min || n > bounds.Max {
				violations = append(violations, map[string]any{
					"row_key": table.NaturalKeyOf(row),
					"column":  column,
					"value":   n,
					"min":     bounds.Min,
					"max":     bounds.Max,
				})
			}
		}
	}

	if len(violations) == 0 {
		return pass(name, "all ranged columns within declared bounds")
	}
	return fail(name,
		fmt.Sprintf("%d out-of-range value(s)", len(violations)),
		map[string]any{"violations": violations})
}

// RowCount enforces the expected row-count envelope. A count sitting exactly
// on the minimum passes with a borderline warning.
func RowCount(table *dataset.Table, bounds RowCountBounds) CheckResult {
	name := "row_count:" + string(table.Kind())
	count := table.Len()
	metadata := map[string]any{"rows": count, "min": bounds.Min, "max": bounds.Max}

	if count < bounds.Min {
		return fail(name,
			fmt.Sprintf("%d rows, below expected minimum %d (possible truncated fetch)", count, bounds.Min),
			metadata)
	}
	if bounds.Max > 0 && count > bounds.Max {
		return fail(name,
			fmt.Sprintf("%d rows, above expected maximum %d", count, bounds.Max),
			metadata)
	}
	if bounds.Min > 0 && count == bounds.Min {
		return warn(name, fmt.Sprintf("%d rows, exactly at expected minimum", count), metadata)
	}
	return pass(name, fmt.Sprintf("%d rows within expected envelope", count))
}

// ShotBounds verifies every shot's coordinates fall inside the court bounds,
// reporting violations per row.
func ShotBounds(shots *dataset.Table, xBounds, yBounds dataset.Range) CheckResult {
	name := "shot_bounds:" + string(shots.Kind())

	violations := make([]map[string]any, 0)
	for row := 0; row < shots.Len(); row++ {
		x, _ := shots.Value(row, dataset.ColLocX)
		y, _ := shots.Value(row, dataset.ColLocY)
		xVal, xOK := x.Numeric()
		yVal, yOK := y.Numeric()

		outside := (xOK && (xVal < xBounds.Min || xVal > xBounds.Max)) ||
			(yOK && (yVal < yBounds.Min || yVal > yBounds.Max))
		if outside {
			violations = append(violations, map[string]any{
				"row_key": shots.NaturalKeyOf(row),
				"x":       xVal,
				"y":       yVal,
			})
		}
	}

	if len(violations) == 0 {
		return pass(name, fmt.Sprintf("%d shots within court bounds", shots.Len()))
	}
	return fail(name,
		fmt.Sprintf("%d shot(s) outside court bounds", len(violations)),
		map[string]any{"violations": violations})
}

func sampleKeys(keys []string) []string {
	if len(keys) <= keySampleLimit {
		return keys
	}
	return keys[:keySampleLimit]
}
