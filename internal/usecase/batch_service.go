package usecase

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/courtdata/statpipe/internal/platform/logging"
	"github.com/courtdata/statpipe/internal/platform/resilience"
)

const defaultBatchWorkers = 4

// BatchTarget is one (league, season) unit of work. Units are independent:
// no state is shared between concurrent runs.
type BatchTarget struct {
	League string
	Season string
}

type BatchInput struct {
	Targets    []BatchTarget
	Options    RunOptions
	MaxWorkers int
}

type BatchTaskResult struct {
	League     string `json:"league"`
	Season     string `json:"season"`
	Stage      Stage  `json:"stage"`
	Healthy    bool   `json:"healthy"`
	Datasets   int    `json:"datasets"`
	Message    string `json:"message,omitempty"`
	DurationMs int64  `json:"duration_ms"`
}

type BatchResult struct {
	TaskCount    int               `json:"task_count"`
	WorkerCount  int               `json:"worker_count"`
	SuccessCount int               `json:"success_count"`
	FailedCount  int               `json:"failed_count"`
	Tasks        []BatchTaskResult `json:"tasks"`
}

// BatchService fans golden-season runs for many (league, season) targets out
// over a bounded worker pool. Concurrent triggers for the same target are
// deduplicated so a season is never pulled twice at once.
type BatchService struct {
	runner   *GoldenSeasonService
	registry *RunRegistry
	logger   *logging.Logger
	flight   resilience.SingleFlight
}

func NewBatchService(runner *GoldenSeasonService, registry *RunRegistry, logger *logging.Logger) *BatchService {
	if logger == nil {
		logger = logging.Default()
	}
	return &BatchService{runner: runner, registry: registry, logger: logger}
}

// RunOne executes one golden-season run, deduplicating concurrent callers
// for the same (league, season) and recording the result in the registry.
func (s *BatchService) RunOne(ctx context.Context, input RunInput) (RunResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.BatchService.RunOne")
	defer span.End()

	key := input.League + "|" + input.Season
	value, err, _ := s.flight.Do(key, func() (any, error) {
		result, runErr := s.runner.Run(ctx, input)
		if s.registry != nil {
			s.registry.Store(result)
		}
		return result, runErr
	})
	result, _ := value.(RunResult)
	return result, err
}

// Run executes every target over an ants pool, collecting per-task outcomes.
// A failed run marks its task failed but never aborts the batch.
func (s *BatchService) Run(ctx context.Context, input BatchInput) (BatchResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.BatchService.Run")
	defer span.End()

	if len(input.Targets) == 0 {
		return BatchResult{}, fmt.Errorf("%w: at least one target is required", ErrInvalidInput)
	}

	workerCount := input.MaxWorkers
	if workerCount <= 0 {
		workerCount = defaultBatchWorkers
	}
	if workerCount > len(input.Targets) {
		workerCount = len(input.Targets)
	}

	pool, err := ants.NewPool(workerCount)
	if err != nil {
		return BatchResult{}, fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	results := make(chan BatchTaskResult, len(input.Targets))
	var successCount atomic.Int32
	var failedCount atomic.Int32

	var workers sync.WaitGroup
	for _, target := range input.Targets {
		target := target
		workers.Add(1)
		if err := pool.Submit(func() {
			defer workers.Done()

			start := time.Now()
			row := BatchTaskResult{League: target.League, Season: target.Season}

			runResult, runErr := s.RunOne(ctx, RunInput{
				League:  target.League,
				Season:  target.Season,
				Options: input.Options,
			})
			row.Stage = runResult.Stage
			row.Datasets = len(runResult.Tables)
			if runErr != nil {
				row.Message = runErr.Error()
				failedCount.Add(1)
			} else {
				row.Healthy = runResult.Report.Healthy()
				successCount.Add(1)
			}
			row.DurationMs = time.Since(start).Milliseconds()

			results <- row
		}); err != nil {
			workers.Done()
			return BatchResult{}, fmt.Errorf("submit task to worker pool: %w", err)
		}
	}

	workers.Wait()
	close(results)

	out := BatchResult{
		TaskCount:   len(input.Targets),
		WorkerCount: workerCount,
		Tasks:       make([]BatchTaskResult, 0, len(input.Targets)),
	}
	for row := range results {
		out.Tasks = append(out.Tasks, row)
	}
	sort.SliceStable(out.Tasks, func(i, j int) bool {
		if out.Tasks[i].League != out.Tasks[j].League {
			return out.Tasks[i].League < out.Tasks[j].League
		}
		return out.Tasks[i].Season < out.Tasks[j].Season
	})

	out.SuccessCount = int(successCount.Load())
	out.FailedCount = int(failedCount.Load())
	s.logger.InfoContext(ctx, "batch run complete",
		"tasks", out.TaskCount, "success", out.SuccessCount, "failed", out.FailedCount)
	return out, nil
}
