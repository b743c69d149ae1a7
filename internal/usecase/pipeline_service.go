package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/courtdata/statpipe/internal/aggregate"
	"github.com/courtdata/statpipe/internal/domain/dataset"
	"github.com/courtdata/statpipe/internal/domain/source"
	"github.com/courtdata/statpipe/internal/normalize"
	"github.com/courtdata/statpipe/internal/platform/logging"
	"github.com/courtdata/statpipe/internal/qa"
)

// Stage names the golden-season workflow states. Runs move strictly forward;
// Failed is terminal and reachable from any stage.
type Stage string

const (
	StageFetching    Stage = "fetching"
	StageNormalizing Stage = "normalizing"
	StageAggregating Stage = "aggregating"
	StageValidating  Stage = "validating"
	StagePersisting  Stage = "persisting"
	StageDone        Stage = "done"
	StageFailed      Stage = "failed"
)

// fetchedKinds are the dataset kinds requested from providers. Season kinds
// are always derived locally.
var fetchedKinds = []dataset.Kind{
	dataset.KindSchedule,
	dataset.KindPlayerGame,
	dataset.KindTeamGame,
	dataset.KindPlayByPlay,
	dataset.KindShots,
}

// RunOptions is the per-run configuration recognized by the workflow.
type RunOptions struct {
	PerMode      dataset.PerMode
	SplitTraded  bool
	QATolerance  float64
	QASampleSize int
	QASampleSeed int64
	RowCounts    map[dataset.Kind]qa.RowCountBounds
}

func DefaultRunOptions() RunOptions {
	params := qa.DefaultParams()
	return RunOptions{
		PerMode:      dataset.PerModeTotals,
		QATolerance:  params.Tolerance,
		QASampleSize: params.SampleSize,
		QASampleSeed: params.SampleSeed,
	}
}

func (o RunOptions) qaParams() qa.Params {
	return qa.Params{
		Tolerance:  o.QATolerance,
		SampleSize: o.QASampleSize,
		SampleSeed: o.QASampleSeed,
		RowCounts:  o.RowCounts,
	}
}

type RunInput struct {
	League  string
	Season  string
	Options RunOptions
}

// RunResult is the workflow's terminal output: either StageDone with the
// datasets and a QA report (which may itself record data problems), or
// StageFailed with the originating stage and error.
type RunResult struct {
	League      string
	Season      string
	Stage       Stage
	FailedStage Stage
	Err         error

	Tables      map[dataset.Kind]*dataset.Table
	Report      *qa.Report
	Skipped     map[dataset.Kind]string
	NormStats   map[dataset.Kind]normalize.Stats
	AggFailures map[dataset.Kind][]aggregate.Failure

	StartedAt  time.Time
	FinishedAt time.Time
}

// DatasetSink receives finished artifacts during the Persisting stage.
type DatasetSink interface {
	SaveDataset(ctx context.Context, table *dataset.Table) error
	SaveReport(ctx context.Context, league, season string, report *qa.Report) error
}

// GoldenSeasonService runs the fixed per-(league, season) pipeline:
// fetch raw records, normalize, derive missing granularities, validate
// everything jointly, persist datasets and report.
type GoldenSeasonService struct {
	provider source.Provider
	sink     DatasetSink
	logger   *logging.Logger
	now      func() time.Time
}

func NewGoldenSeasonService(provider source.Provider, sink DatasetSink, logger *logging.Logger) *GoldenSeasonService {
	if logger == nil {
		logger = logging.Default()
	}
	return &GoldenSeasonService{
		provider: provider,
		sink:     sink,
		logger:   logger,
		now:      time.Now,
	}
}

func (s *GoldenSeasonService) Run(ctx context.Context, input RunInput) (RunResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.GoldenSeasonService.Run")
	defer span.End()

	result := RunResult{
		League:      strings.TrimSpace(input.League),
		Season:      strings.TrimSpace(input.Season),
		Tables:      make(map[dataset.Kind]*dataset.Table),
		Skipped:     make(map[dataset.Kind]string),
		NormStats:   make(map[dataset.Kind]normalize.Stats),
		AggFailures: make(map[dataset.Kind][]aggregate.Failure),
		StartedAt:   s.now().UTC(),
	}
	if result.League == "" || result.Season == "" {
		return s.failed(result, StageFetching,
			fmt.Errorf("%w: league and season are required", ErrInvalidInput))
	}
	if _, err := dataset.ParsePerMode(string(input.Options.PerMode)); err != nil {
		return s.failed(result, StageFetching, fmt.Errorf("%w: %v", ErrInvalidInput, err))
	}

	// Fetching is the only stage that talks to the excluded fetch layer.
	batches := make(map[dataset.Kind]source.Batch)
	for _, kind := range fetchedKinds {
		batch, err := s.provider.Fetch(ctx, result.League, result.Season, kind)
		if err != nil {
			if errors.Is(err, source.ErrKindUnavailable) {
				result.Skipped[kind] = fmt.Sprintf("unavailable from source %s", s.provider.Name())
				continue
			}
			return s.failed(result, StageFetching, fmt.Errorf("fetch %s: %w", kind, err))
		}
		batches[kind] = batch
	}
	s.logger.InfoContext(ctx, "fetch stage complete",
		"league", result.League, "season", result.Season,
		"fetched", len(batches), "skipped", len(result.Skipped))

	if err := ctx.Err(); err != nil {
		return s.failed(result, StageNormalizing, err)
	}

	for _, kind := range fetchedKinds {
		batch, ok := batches[kind]
		if !ok {
			continue
		}
		table, stats, err := normalize.Batch(batch, result.League, result.Season)
		if err != nil {
			return s.failed(result, StageNormalizing, fmt.Errorf("normalize %s: %w", kind, err))
		}
		result.Tables[kind] = table
		result.NormStats[kind] = stats
	}

	if err := ctx.Err(); err != nil {
		return s.failed(result, StageAggregating, err)
	}
	if err := s.aggregateMissing(&result, input.Options); err != nil {
		return s.failed(result, StageAggregating, err)
	}

	if err := ctx.Err(); err != nil {
		return s.failed(result, StageValidating, err)
	}
	report, err := s.validate(&result, input.Options)
	if err != nil {
		return s.failed(result, StageValidating, err)
	}
	result.Report = report

	if err := ctx.Err(); err != nil {
		return s.failed(result, StagePersisting, err)
	}
	if s.sink != nil {
		for _, kind := range dataset.Kinds() {
			table, ok := result.Tables[kind]
			if !ok {
				continue
			}
			if err := s.sink.SaveDataset(ctx, table); err != nil {
				return s.failed(result, StagePersisting, fmt.Errorf("persist %s: %w", kind, err))
			}
		}
		if err := s.sink.SaveReport(ctx, result.League, result.Season, report); err != nil {
			return s.failed(result, StagePersisting, fmt.Errorf("persist report: %w", err))
		}
	}

	result.Stage = StageDone
	result.FinishedAt = s.now().UTC()
	s.logger.InfoContext(ctx, "golden season run done",
		"league", result.League, "season", result.Season,
		"datasets", len(result.Tables), "healthy", report.Healthy())
	return result, nil
}

// aggregateMissing fills in the granularities the source did not provide:
// team_game from player_game, then both season tables. Per-entity failures
// accumulate on the result instead of aborting the run.
func (s *GoldenSeasonService) aggregateMissing(result *RunResult, opts RunOptions) error {
	playerGames := result.Tables[dataset.KindPlayerGame]

	if _, ok := result.Tables[dataset.KindTeamGame]; !ok {
		if playerGames == nil {
			result.Skipped[dataset.KindTeamGame] = "no player_game dataset to derive from"
		} else {
			derived, err := aggregate.TeamGame(playerGames)
			if err != nil {
				return fmt.Errorf("derive team_game: %w", err)
			}
			result.Tables[dataset.KindTeamGame] = derived.Table
			result.AggFailures[dataset.KindTeamGame] = derived.Failures
			delete(result.Skipped, dataset.KindTeamGame)
		}
	}

	seasonOpts := aggregate.SeasonOptions{PerMode: opts.PerMode, SplitTraded: opts.SplitTraded}

	if playerGames == nil {
		result.Skipped[dataset.KindPlayerSeason] = "no player_game dataset to derive from"
	} else {
		derived, err := aggregate.PlayerSeason(playerGames, seasonOpts)
		if err != nil {
			return fmt.Errorf("derive player_season: %w", err)
		}
		result.Tables[dataset.KindPlayerSeason] = derived.Table
		result.AggFailures[dataset.KindPlayerSeason] = derived.Failures
	}

	teamGames := result.Tables[dataset.KindTeamGame]
	if teamGames == nil {
		result.Skipped[dataset.KindTeamSeason] = "no team_game dataset to derive from"
	} else {
		derived, err := aggregate.TeamSeason(teamGames, seasonOpts)
		if err != nil {
			return fmt.Errorf("derive team_season: %w", err)
		}
		result.Tables[dataset.KindTeamSeason] = derived.Table
		result.AggFailures[dataset.KindTeamSeason] = derived.Failures
	}

	return nil
}

// validate runs the joint QA pass: per-kind checks, cross-dataset checks, and
// surfacing of skipped kinds, normalization losses and aggregation failures
// as warnings so the report tells the whole story of the run.
func (s *GoldenSeasonService) validate(result *RunResult, opts RunOptions) (*qa.Report, error) {
	params := opts.qaParams()
	report := qa.NewReport(fmt.Sprintf("qa:%s:%s", result.League, result.Season))

	for _, kind := range dataset.Kinds() {
		table, ok := result.Tables[kind]
		if !ok {
			continue
		}
		report.Merge(qa.RunChecksForKind(table, params))
	}

	cross, err := qa.RunCrossDatasetChecks(result.Tables, params)
	if err != nil {
		return nil, err
	}
	report.Merge(cross)

	for _, kind := range dataset.Kinds() {
		if reason, ok := result.Skipped[kind]; ok {
			report.Add(qa.CheckResult{
				Name:    "availability:" + string(kind),
				Passed:  true,
				Warning: true,
				Message: reason,
			})
		}
	}
	for _, kind := range fetchedKinds {
		stats, ok := result.NormStats[kind]
		if !ok || stats.CoercionFailures == 0 {
			continue
		}
		report.Add(qa.CheckResult{
			Name:    "normalization:" + string(kind),
			Passed:  true,
			Warning: true,
			Message: fmt.Sprintf("%d value(s) nulled by failed coercion", stats.CoercionFailures),
			Metadata: map[string]any{
				"failed_columns": stats.FailedColumns,
				"dropped_keys":   stats.DroppedKeys,
			},
		})
	}
	for _, kind := range dataset.Kinds() {
		failures := result.AggFailures[kind]
		if len(failures) == 0 {
			continue
		}
		keys := make([]string, 0, len(failures))
		for _, failure := range failures {
			keys = append(keys, failure.Key+": "+failure.Reason)
		}
		report.Add(qa.CheckResult{
			Name:     "aggregation:" + string(kind),
			Passed:   true,
			Warning:  true,
			Message:  fmt.Sprintf("%d entit(ies) dropped during aggregation", len(failures)),
			Metadata: map[string]any{"failed_keys": keys},
		})
	}

	return report, nil
}

func (s *GoldenSeasonService) failed(result RunResult, stage Stage, err error) (RunResult, error) {
	result.Stage = StageFailed
	result.FailedStage = stage
	result.Err = err
	result.FinishedAt = s.now().UTC()
	s.logger.Error("golden season run failed",
		"league", result.League, "season", result.Season,
		"stage", string(stage), "error", err)
	return result, fmt.Errorf("%w: stage %s: %w", ErrRunFailed, stage, err)
}
