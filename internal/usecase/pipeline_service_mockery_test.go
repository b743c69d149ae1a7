package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/mock"

	"github.com/courtdata/statpipe/internal/domain/dataset"
	"github.com/courtdata/statpipe/internal/domain/source"
	sinkmem "github.com/courtdata/statpipe/internal/infrastructure/sink/memory"
	sourcemock "github.com/courtdata/statpipe/internal/mocks/domain/source"
)

func TestGoldenSeasonRun_DerivesFromPlayerGamesOnlyUsingMockery(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	provider := sourcemock.NewProvider(t)

	playerGameBatch := source.Batch{
		Source: "mockfeed",
		Kind:   dataset.KindPlayerGame,
		Records: []source.RawRecord{
			{"gameId": "G1", "teamId": "AAA", "playerId": "p1", "pts": 10},
			{"gameId": "G1", "teamId": "BBB", "playerId": "p2", "pts": 8},
		},
		FieldMap: source.FieldMap{
			dataset.ColGameID:   source.Key("gameId"),
			dataset.ColLeague:   source.Const(dataset.String("demo")),
			dataset.ColSeason:   source.Const(dataset.String("2024")),
			dataset.ColTeamID:   source.Key("teamId"),
			dataset.ColPlayerID: source.Key("playerId"),
			dataset.ColPts:      source.Key("pts"),
		},
	}

	provider.
		On("Fetch", mock.Anything, "demo", "2024", dataset.KindPlayerGame).
		Return(playerGameBatch, nil).
		Once()
	for _, kind := range []dataset.Kind{
		dataset.KindSchedule, dataset.KindTeamGame, dataset.KindPlayByPlay, dataset.KindShots,
	} {
		provider.
			On("Fetch", mock.Anything, "demo", "2024", kind).
			Return(source.Batch{}, source.ErrKindUnavailable).
			Once()
	}
	provider.On("Name").Return("mockfeed")

	service := NewGoldenSeasonService(provider, sinkmem.NewSink(), nil)
	result, err := service.Run(ctx, RunInput{League: "demo", Season: "2024", Options: DefaultRunOptions()})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if result.Stage != StageDone {
		t.Fatalf("unexpected stage: got=%s want=%s", result.Stage, StageDone)
	}

	// team_game and both season tables are derived from the one fetched kind
	for _, kind := range []dataset.Kind{
		dataset.KindPlayerGame, dataset.KindTeamGame, dataset.KindPlayerSeason, dataset.KindTeamSeason,
	} {
		if _, ok := result.Tables[kind]; !ok {
			t.Fatalf("missing derived dataset %s", kind)
		}
	}
	if result.Tables[dataset.KindTeamGame].Len() != 2 {
		t.Fatalf("unexpected team_game rows: got=%d want=2", result.Tables[dataset.KindTeamGame].Len())
	}
	for _, kind := range []dataset.Kind{dataset.KindSchedule, dataset.KindPlayByPlay, dataset.KindShots} {
		if _, ok := result.Skipped[kind]; !ok {
			t.Fatalf("kind %s not recorded as skipped", kind)
		}
	}
}
