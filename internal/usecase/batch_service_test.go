package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/courtdata/statpipe/internal/domain/dataset"
	providermem "github.com/courtdata/statpipe/internal/infrastructure/provider/memory"
	sinkmem "github.com/courtdata/statpipe/internal/infrastructure/sink/memory"
)

func newBatchService(t *testing.T) (*BatchService, *RunRegistry) {
	t.Helper()
	runner := NewGoldenSeasonService(providermem.NewProvider(), sinkmem.NewSink(), nil)
	registry := NewRunRegistry(nil)
	return NewBatchService(runner, registry, nil), registry
}

func TestBatchRunMixedTargets(t *testing.T) {
	service, registry := newBatchService(t)

	result, err := service.Run(context.Background(), BatchInput{
		Targets: []BatchTarget{
			{League: providermem.SeedLeague, Season: providermem.SeedSeason},
			{League: "nba", Season: "1996"},
		},
		Options:    DefaultRunOptions(),
		MaxWorkers: 4,
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if result.TaskCount != 2 || result.SuccessCount != 1 || result.FailedCount != 1 {
		t.Fatalf("tasks=%d success=%d failed=%d", result.TaskCount, result.SuccessCount, result.FailedCount)
	}
	// the pool never outsizes the target list
	if result.WorkerCount != 2 {
		t.Fatalf("workers = %d, want 2", result.WorkerCount)
	}

	// tasks come back ordered by (league, season) regardless of completion order
	if result.Tasks[0].League != providermem.SeedLeague || result.Tasks[1].League != "nba" {
		t.Fatalf("task order: %s, %s", result.Tasks[0].League, result.Tasks[1].League)
	}
	if result.Tasks[0].Stage != StageDone || !result.Tasks[0].Healthy {
		t.Fatalf("seeded task: stage=%s healthy=%t", result.Tasks[0].Stage, result.Tasks[0].Healthy)
	}
	if result.Tasks[1].Stage != StageFailed || result.Tasks[1].Message == "" {
		t.Fatalf("unseeded task: stage=%s message=%q", result.Tasks[1].Stage, result.Tasks[1].Message)
	}

	// both outcomes end up in the registry, failures included
	if _, ok := registry.Get(providermem.SeedLeague, providermem.SeedSeason); !ok {
		t.Fatal("successful run not registered")
	}
	record, ok := registry.Get("nba", "1996")
	if !ok {
		t.Fatal("failed run not registered")
	}
	if record.Result.Stage != StageFailed {
		t.Fatalf("registered failed run stage = %s", record.Result.Stage)
	}
}

func TestBatchRunRequiresTargets(t *testing.T) {
	service, _ := newBatchService(t)

	if _, err := service.Run(context.Background(), BatchInput{Options: DefaultRunOptions()}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestRunOneRecordsResult(t *testing.T) {
	service, registry := newBatchService(t)

	result, err := service.RunOne(context.Background(), RunInput{
		League:  providermem.SeedLeague,
		Season:  providermem.SeedSeason,
		Options: DefaultRunOptions(),
	})
	if err != nil {
		t.Fatalf("RunOne: %v", err)
	}
	if result.Stage != StageDone {
		t.Fatalf("stage = %s", result.Stage)
	}
	if len(result.Tables) != len(dataset.Kinds()) {
		t.Fatalf("datasets = %d, want %d", len(result.Tables), len(dataset.Kinds()))
	}

	record, ok := registry.Get(providermem.SeedLeague, providermem.SeedSeason)
	if !ok {
		t.Fatal("run not registered")
	}
	if record.Result.Stage != StageDone {
		t.Fatalf("registered stage = %s", record.Result.Stage)
	}
}
