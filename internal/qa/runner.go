package qa

import (
	"fmt"

	"github.com/courtdata/statpipe/internal/domain/dataset"
)

// Params tunes the configurable checks. Zero values fall back to defaults;
// use DefaultParams as the starting point.
type Params struct {
	Tolerance  float64
	SampleSize int
	SampleSeed int64
	RowCounts  map[dataset.Kind]RowCountBounds
	// CourtX/CourtY override the normalized shot-coordinate convention for
	// sources with a different coordinate system.
	CourtX *dataset.Range
	CourtY *dataset.Range
}

func DefaultParams() Params {
	return Params{
		Tolerance:  1.0,
		SampleSize: 10,
		SampleSeed: 42,
	}
}

func (p Params) courtBounds() (dataset.Range, dataset.Range) {
	x := dataset.Range{Min: 0, Max: 100}
	y := dataset.Range{Min: 0, Max: 100}
	if p.CourtX != nil {
		x = *p.CourtX
	}
	if p.CourtY != nil {
		y = *p.CourtY
	}
	return x, y
}

// RunChecksForKind runs every single-dataset check relevant to the table's
// kind and collects the results into one report.
func RunChecksForKind(table *dataset.Table, params Params) *Report {
	report := NewReport(fmt.Sprintf("qa:%s", table.Kind()))
	report.Add(
		Uniqueness(table),
		RequiredColumns(table),
		NullGuard(table),
		NumericRange(table),
	)
	if bounds, ok := params.RowCounts[table.Kind()]; ok {
		report.Add(RowCount(table, bounds))
	}
	if table.Kind() == dataset.KindShots {
		x, y := params.courtBounds()
		report.Add(ShotBounds(table, x, y))
	}
	return report
}

// RunCrossDatasetChecks runs every cross-table check whose input kinds are
// present. The error path covers malformed invocations only, such as a table
// filed under the wrong kind; data problems land in the report.
func RunCrossDatasetChecks(tables map[dataset.Kind]*dataset.Table, params Params) (*Report, error) {
	for kind, table := range tables {
		if table == nil {
			return nil, fmt.Errorf("%w: nil table for kind %s", ErrIncompatibleKinds, kind)
		}
		if table.Kind() != kind {
			return nil, fmt.Errorf("%w: table of kind %s filed under %s", ErrIncompatibleKinds, table.Kind(), kind)
		}
	}

	report := NewReport("qa:cross")
	playerGames := tables[dataset.KindPlayerGame]
	teamGames := tables[dataset.KindTeamGame]
	plays := tables[dataset.KindPlayByPlay]

	if playerGames != nil && teamGames != nil {
		result, err := CrossTotals(playerGames, teamGames, params.Tolerance)
		if err != nil {
			return nil, err
		}
		report.Add(result)
	}
	if plays != nil && teamGames != nil {
		result, err := ScoreReconciliation(plays, teamGames, params.SampleSize, params.SampleSeed, params.Tolerance)
		if err != nil {
			return nil, err
		}
		report.Add(result)
	}
	return report, nil
}
