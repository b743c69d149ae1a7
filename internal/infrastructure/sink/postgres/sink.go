// Package postgres persists finished datasets and QA reports. Rows are stored
// as one JSONB payload per natural key so schema evolution never needs a
// migration per column.
package postgres

import (
	"context"
	"fmt"

	sonic "github.com/bytedance/sonic"
	"github.com/jmoiron/sqlx"

	"github.com/courtdata/statpipe/internal/domain/dataset"
	qb "github.com/courtdata/statpipe/internal/platform/querybuilder"
	"github.com/courtdata/statpipe/internal/qa"
)

const upsertChunkSize = 200

type Sink struct {
	db *sqlx.DB
}

func NewSink(db *sqlx.DB) *Sink {
	return &Sink{db: db}
}

func (s *Sink) SaveDataset(ctx context.Context, table *dataset.Table) error {
	if table.Len() == 0 {
		return nil
	}

	schema := table.Schema()
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx save dataset %s: %w", table.Kind(), err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for start := 0; start < table.Len(); start += upsertChunkSize {
		end := start + upsertChunkSize
		if end > table.Len() {
			end = table.Len()
		}

		builder := qb.InsertInto("dataset_rows").
			Columns("league", "season", "kind", "row_key", "payload")
		for i := start; i < end; i++ {
			payload, err := rowPayload(schema, table.Row(i))
			if err != nil {
				return fmt.Errorf("encode %s row %s: %w", table.Kind(), table.NaturalKeyOf(i), err)
			}
			builder.Values(table.League(), table.Season(), string(table.Kind()), table.NaturalKeyOf(i), payload)
		}

		query, args, err := builder.
			Suffix(`ON CONFLICT (league, season, kind, row_key)
DO UPDATE SET payload = EXCLUDED.payload, updated_at = NOW()`).
			ToSQL()
		if err != nil {
			return fmt.Errorf("build upsert dataset rows query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("upsert dataset rows kind=%s: %w", table.Kind(), err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit save dataset %s tx: %w", table.Kind(), err)
	}

	return nil
}

func (s *Sink) SaveReport(ctx context.Context, league, season string, report *qa.Report) error {
	payload, err := sonic.ConfigDefault.MarshalToString(report)
	if err != nil {
		return fmt.Errorf("encode qa report: %w", err)
	}

	query, args, err := qb.InsertInto("qa_reports").
		Columns("league", "season", "healthy", "report").
		Values(league, season, report.Healthy(), payload).
		Suffix(`ON CONFLICT (league, season)
DO UPDATE SET healthy = EXCLUDED.healthy, report = EXCLUDED.report, created_at = NOW()`).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build upsert qa report query: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert qa report league=%s season=%s: %w", league, season, err)
	}

	return nil
}

// LoadReport returns the stored report for (league, season); ok=false when
// none was persisted yet.
func (s *Sink) LoadReport(ctx context.Context, league, season string) (*qa.Report, bool, error) {
	query, args, err := qb.Select("report").
		From("qa_reports").
		Where(qb.Eq("league", league), qb.Eq("season", season)).
		Limit(1).
		ToSQL()
	if err != nil {
		return nil, false, fmt.Errorf("build select qa report query: %w", err)
	}

	var raw string
	if err := s.db.GetContext(ctx, &raw, query, args...); err != nil {
		if isNotFound(err) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("select qa report: %w", err)
	}

	var report qa.Report
	if err := sonic.ConfigDefault.UnmarshalFromString(raw, &report); err != nil {
		return nil, false, fmt.Errorf("decode qa report: %w", err)
	}
	return &report, true, nil
}

// rowPayload renders one record as a JSON object keyed by column name.
func rowPayload(schema dataset.Schema, rec dataset.Record) (string, error) {
	obj := make(map[string]any, len(schema.Columns))
	for i, col := range schema.Columns {
		obj[col.Name] = rec[i].Native()
	}
	return sonic.ConfigDefault.MarshalToString(obj)
}
