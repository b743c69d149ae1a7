package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/courtdata/statpipe/internal/domain/dataset"
	"github.com/courtdata/statpipe/internal/domain/source"
	"github.com/courtdata/statpipe/internal/normalize"
)

func TestFetchPlayerGamesNormalizeCleanly(t *testing.T) {
	p := NewProvider()

	batch, err := p.Fetch(context.Background(), SeedLeague, SeedSeason, dataset.KindPlayerGame)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if batch.Source != "memfeed" {
		t.Fatalf("Source = %q, want memfeed", batch.Source)
	}

	table, stats, err := normalize.Batch(batch, SeedLeague, SeedSeason)
	if err != nil {
		t.Fatalf("normalize.Batch: %v", err)
	}
	if stats.CoercionFailures != 0 {
		t.Fatalf("coercion failures = %d (%v), want 0", stats.CoercionFailures, stats.FailedColumns)
	}
	if table.Len() != 12 {
		t.Fatalf("rows = %d, want 12", table.Len())
	}

	schema := dataset.MustSchemaFor(dataset.KindPlayerGame)
	ptsIdx, _ := schema.ColumnIndex(dataset.ColPts)
	playerIdx, _ := schema.ColumnIndex(dataset.ColPlayerID)
	gameIdx, _ := schema.ColumnIndex(dataset.ColGameID)
	rebIdx, _ := schema.ColumnIndex(dataset.ColReb)

	found := false
	for i := 0; i < table.Len(); i++ {
		row := table.Row(i)
		game, _ := row[gameIdx].StringVal()
		player, _ := row[playerIdx].StringVal()
		if game != "0012400001" || player != "hrb-01" {
			continue
		}
		found = true
		if pts, _ := row[ptsIdx].IntVal(); pts != 30 {
			t.Fatalf("hrb-01 game 1 PTS = %d, want 30", pts)
		}
		if reb, _ := row[rebIdx].IntVal(); reb != 6 {
			t.Fatalf("hrb-01 game 1 REB = %d, want 6", reb)
		}
	}
	if !found {
		t.Fatal("seed line for hrb-01 in game 0012400001 not found")
	}
}

func TestFetchScheduleAndEventsAgreeOnFinalScores(t *testing.T) {
	p := NewProvider()
	ctx := context.Background()

	sched, err := p.Fetch(ctx, SeedLeague, SeedSeason, dataset.KindSchedule)
	if err != nil {
		t.Fatalf("Fetch schedule: %v", err)
	}
	plays, err := p.Fetch(ctx, SeedLeague, SeedSeason, dataset.KindPlayByPlay)
	if err != nil {
		t.Fatalf("Fetch pbp: %v", err)
	}

	finals := make(map[string][2]int)
	for _, rec := range plays.Records {
		game := rec["gameId"].(string)
		finals[game] = [2]int{rec["homeScore"].(int), rec["awayScore"].(int)}
	}
	for _, rec := range sched.Records {
		game := rec["gameId"].(string)
		want := [2]int{rec["homePts"].(int), rec["awayPts"].(int)}
		if finals[game] != want {
			t.Fatalf("game %s final event score %v, schedule says %v", game, finals[game], want)
		}
	}
}

func TestFetchUnavailableKinds(t *testing.T) {
	p := NewProvider()
	ctx := context.Background()

	if _, err := p.Fetch(ctx, SeedLeague, SeedSeason, dataset.KindTeamGame); !errors.Is(err, source.ErrKindUnavailable) {
		t.Fatalf("team_game err = %v, want ErrKindUnavailable", err)
	}

	p = NewProvider().WithoutKinds(dataset.KindShots)
	if _, err := p.Fetch(ctx, SeedLeague, SeedSeason, dataset.KindShots); !errors.Is(err, source.ErrKindUnavailable) {
		t.Fatalf("shots err = %v, want ErrKindUnavailable", err)
	}
}

func TestFetchRejectsUnseededTarget(t *testing.T) {
	p := NewProvider()
	if _, err := p.Fetch(context.Background(), "nba", "1996", dataset.KindSchedule); err == nil {
		t.Fatal("Fetch accepted an unseeded league/season")
	}
}
