package aggregate

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/courtdata/statpipe/internal/domain/dataset"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestPlayerSeasonTotalsAreAdditive(t *testing.T) {
	table := buildPlayerGames(t, []playerLine{
		{game: "G1", team: "HRB", player: "p1", min: 30, pts: 30, fgm: 11, fga: 20, ftm: 6, fta: 7},
		{game: "G2", team: "HRB", player: "p1", min: 34, pts: 22, fgm: 9, fga: 18, ftm: 2, fta: 3},
		{game: "G1", team: "HRB", player: "p2", min: 20, pts: 10, fgm: 4, fga: 9, ftm: 2, fta: 2},
	})

	result, err := PlayerSeason(table, SeasonOptions{PerMode: dataset.PerModeTotals})
	if err != nil {
		t.Fatalf("PlayerSeason: %v", err)
	}
	if !result.Clean() {
		t.Fatalf("failures: %v", result.Failures)
	}
	if result.Table.Len() != 2 {
		t.Fatalf("rows = %d, want 2", result.Table.Len())
	}

	p1 := rowByKey(t, result.Table, "p1|HRB")
	if got := numAt(t, result.Table, p1, dataset.ColGP); got != 2 {
		t.Fatalf("p1 GP = %v", got)
	}
	if got := numAt(t, result.Table, p1, dataset.ColPts); got != 52 {
		t.Fatalf("p1 PTS = %v, want 52", got)
	}
	// ratio from summed attempts: (11+9)/(20+18)
	if got := numAt(t, result.Table, p1, dataset.ColFGPct); !almostEqual(got, 20.0/38.0) {
		t.Fatalf("p1 FG_PCT = %v, want %v", got, 20.0/38.0)
	}
}

// With a single game played, per-game numbers must equal the totals.
func TestPlayerSeasonPerGameMatchesTotalsForOneGame(t *testing.T) {
	lines := []playerLine{
		{game: "G1", team: "HRB", player: "p1", min: 30, pts: 30, fgm: 11, fga: 20, ftm: 6, fta: 7},
		{game: "G1", team: "RDG", player: "p2", min: 28, pts: 18, fgm: 7, fga: 16, ftm: 3, fta: 4},
	}

	totals, err := PlayerSeason(buildPlayerGames(t, lines), SeasonOptions{PerMode: dataset.PerModeTotals})
	if err != nil {
		t.Fatalf("totals: %v", err)
	}
	perGame, err := PlayerSeason(buildPlayerGames(t, lines), SeasonOptions{PerMode: dataset.PerModePerGame})
	if err != nil {
		t.Fatalf("per game: %v", err)
	}

	for _, key := range []string{"p1|HRB", "p2|RDG"} {
		a := rowByKey(t, totals.Table, key)
		b := rowByKey(t, perGame.Table, key)
		for _, col := range []string{dataset.ColPts, dataset.ColFGM, dataset.ColFGA, dataset.ColMin, dataset.ColFGPct} {
			if x, y := numAt(t, totals.Table, a, col), numAt(t, perGame.Table, b, col); !almostEqual(x, y) {
				t.Fatalf("%s %s: totals %v != per-game %v with GP=1", key, col, x, y)
			}
		}
	}
}

func TestPlayerSeasonPerGameDividesByGamesPlayed(t *testing.T) {
	table := buildPlayerGames(t, []playerLine{
		{game: "G1", team: "HRB", player: "p1", min: 30, pts: 30, fgm: 11, fga: 20},
		{game: "G2", team: "HRB", player: "p1", min: 34, pts: 20, fgm: 8, fga: 16},
	})

	result, err := PlayerSeason(table, SeasonOptions{PerMode: dataset.PerModePerGame})
	if err != nil {
		t.Fatalf("PlayerSeason: %v", err)
	}

	p1 := rowByKey(t, result.Table, "p1|HRB")
	if got := numAt(t, result.Table, p1, dataset.ColPts); !almostEqual(got, 25) {
		t.Fatalf("PTS per game = %v, want 25", got)
	}
	// per-mode scaling never touches the ratio
	if got := numAt(t, result.Table, p1, dataset.ColFGPct); !almostEqual(got, 19.0/36.0) {
		t.Fatalf("FG_PCT = %v, want %v", got, 19.0/36.0)
	}
}

func TestPlayerSeasonPer36Scaling(t *testing.T) {
	table := buildPlayerGames(t, []playerLine{
		{game: "G1", team: "HRB", player: "p1", min: 18, pts: 12, fgm: 5, fga: 10},
		{game: "G2", team: "HRB", player: "p1", min: 18, pts: 6, fgm: 2, fga: 8},
	})

	result, err := PlayerSeason(table, SeasonOptions{PerMode: dataset.PerModePer36})
	if err != nil {
		t.Fatalf("PlayerSeason: %v", err)
	}

	// 18 points over 36 minutes scales to 18 per 36
	p1 := rowByKey(t, result.Table, "p1|HRB")
	if got := numAt(t, result.Table, p1, dataset.ColPts); !almostEqual(got, 18) {
		t.Fatalf("PTS per 36 = %v, want 18", got)
	}
}

func TestPlayerSeasonPer36RejectsZeroMinutes(t *testing.T) {
	table := buildPlayerGames(t, []playerLine{
		{game: "G1", team: "HRB", player: "p1", min: 0, pts: 0},
	})

	result, err := PlayerSeason(table, SeasonOptions{PerMode: dataset.PerModePer36})
	if err != nil {
		t.Fatalf("PlayerSeason: %v", err)
	}
	if result.Table.Len() != 0 {
		t.Fatalf("rows = %d, want 0", result.Table.Len())
	}
	if len(result.Failures) != 1 || !strings.Contains(result.Failures[0].Reason, "zero minutes") {
		t.Fatalf("failures = %v", result.Failures)
	}
}

func TestPlayerSeasonPer100PossScaling(t *testing.T) {
	// possessions per row: FGA - OREB + TOV + 0.44*FTA
	table := buildPlayerGames(t, []playerLine{
		{game: "G1", team: "HRB", player: "p1", min: 30, pts: 20, fgm: 8, fga: 20, fta: 5, oreb: 2, tov: 3},
	})

	result, err := PlayerSeason(table, SeasonOptions{PerMode: dataset.PerModePer100Poss})
	if err != nil {
		t.Fatalf("PlayerSeason: %v", err)
	}

	poss := 20.0 - 2.0 + 3.0 + 0.44*5.0
	p1 := rowByKey(t, result.Table, "p1|HRB")
	if got := numAt(t, result.Table, p1, dataset.ColPts); !almostEqual(got, 20*100/poss) {
		t.Fatalf("PTS per 100 = %v, want %v", got, 20*100/poss)
	}
}

func TestPlayerSeasonPer100PossRejectsZeroPossessions(t *testing.T) {
	table := buildPlayerGames(t, []playerLine{
		{game: "G1", team: "HRB", player: "p1", min: 5},
	})

	result, err := PlayerSeason(table, SeasonOptions{PerMode: dataset.PerModePer100Poss})
	if err != nil {
		t.Fatalf("PlayerSeason: %v", err)
	}
	if len(result.Failures) != 1 || !strings.Contains(result.Failures[0].Reason, "zero possessions") {
		t.Fatalf("failures = %v", result.Failures)
	}
}

func TestPlayerSeasonTradedPlayer(t *testing.T) {
	lines := []playerLine{
		{game: "G1", team: "HRB", player: "p1", min: 30, pts: 20, fgm: 8, fga: 16},
		{game: "G2", team: "RDG", player: "p1", min: 28, pts: 10, fgm: 4, fga: 12},
	}

	combined, err := PlayerSeason(buildPlayerGames(t, lines), SeasonOptions{PerMode: dataset.PerModeTotals})
	if err != nil {
		t.Fatalf("combined: %v", err)
	}
	if combined.Table.Len() != 1 {
		t.Fatalf("combined rows = %d, want 1", combined.Table.Len())
	}
	row := rowByKey(t, combined.Table, "p1|HRB,RDG")
	if got := numAt(t, combined.Table, row, dataset.ColPts); got != 30 {
		t.Fatalf("combined PTS = %v, want 30", got)
	}
	if got := numAt(t, combined.Table, row, dataset.ColGP); got != 2 {
		t.Fatalf("combined GP = %v, want 2", got)
	}

	split, err := PlayerSeason(buildPlayerGames(t, lines), SeasonOptions{PerMode: dataset.PerModeTotals, SplitTraded: true})
	if err != nil {
		t.Fatalf("split: %v", err)
	}
	if split.Table.Len() != 2 {
		t.Fatalf("split rows = %d, want 2", split.Table.Len())
	}
	hrb := rowByKey(t, split.Table, "p1|HRB")
	if got := numAt(t, split.Table, hrb, dataset.ColPts); got != 20 {
		t.Fatalf("HRB stint PTS = %v, want 20", got)
	}
}

func TestPlayerSeasonDuplicateRows(t *testing.T) {
	table := buildPlayerGames(t, []playerLine{
		{game: "G1", team: "HRB", player: "p1", pts: 10},
		{game: "G1", team: "HRB", player: "p1", pts: 10},
	})

	result, err := PlayerSeason(table, SeasonOptions{PerMode: dataset.PerModeTotals})
	if err != nil {
		t.Fatalf("PlayerSeason: %v", err)
	}
	if result.Table.Len() != 0 {
		t.Fatalf("rows = %d, want duplicate entity omitted", result.Table.Len())
	}
	if len(result.Failures) != 1 || !strings.Contains(result.Failures[0].Reason, "duplicate") {
		t.Fatalf("failures = %v", result.Failures)
	}
}

func TestPlayerSeasonRejectsBadPerMode(t *testing.T) {
	table := buildPlayerGames(t, nil)
	_, err := PlayerSeason(table, SeasonOptions{PerMode: dataset.PerMode("Per48")})
	if !errors.Is(err, dataset.ErrUnknownPerMode) {
		t.Fatalf("expected ErrUnknownPerMode, got %v", err)
	}
}

type teamLine struct {
	game   string
	team   string
	pts    int64
	oppPts int64
	win    *bool
}

func buildTeamGames(t *testing.T, lines []teamLine) *dataset.Table {
	t.Helper()
	table, err := dataset.NewTable(dataset.KindTeamGame, "demo", "2024")
	if err != nil {
		t.Fatalf("NewTable: %v", err)
	}
	schema := table.Schema()
	for _, line := range lines {
		rec := schema.EmptyRecord()
		for col, v := range map[string]dataset.Value{
			dataset.ColGameID: dataset.String(line.game),
			dataset.ColLeague: dataset.String("demo"),
			dataset.ColSeason: dataset.String("2024"),
			dataset.ColTeamID: dataset.String(line.team),
			dataset.ColPts:    dataset.Int(line.pts),
			dataset.ColOppPts: dataset.Int(line.oppPts),
		} {
			idx, _ := schema.ColumnIndex(col)
			rec[idx] = v
		}
		if line.win != nil {
			idx, _ := schema.ColumnIndex(dataset.ColWin)
			rec[idx] = dataset.Bool(*line.win)
		}
		if err := table.Append(rec); err != nil {
			t.Fatalf("Append: %v", err)
		}
	}
	return table
}

func TestTeamSeasonWinLossRecord(t *testing.T) {
	won, lost := true, false
	table := buildTeamGames(t, []teamLine{
		{game: "G1", team: "HRB", pts: 68, oppPts: 60, win: &won},
		{game: "G2", team: "HRB", pts: 61, oppPts: 65, win: &lost},
		{game: "G3", team: "HRB", pts: 70, oppPts: 70, win: nil},
	})

	result, err := TeamSeason(table, SeasonOptions{PerMode: dataset.PerModeTotals})
	if err != nil {
		t.Fatalf("TeamSeason: %v", err)
	}
	if !result.Clean() {
		t.Fatalf("failures: %v", result.Failures)
	}

	hrb := rowByKey(t, result.Table, "HRB")
	if got := numAt(t, result.Table, hrb, dataset.ColGP); got != 3 {
		t.Fatalf("GP = %v", got)
	}
	// the undecided game counts toward neither column
	if got := numAt(t, result.Table, hrb, dataset.ColWins); got != 1 {
		t.Fatalf("W = %v, want 1", got)
	}
	if got := numAt(t, result.Table, hrb, dataset.ColLosses); got != 1 {
		t.Fatalf("L = %v, want 1", got)
	}
	if got := numAt(t, result.Table, hrb, dataset.ColPts); got != 199 {
		t.Fatalf("PTS = %v, want 199", got)
	}
	if got := numAt(t, result.Table, hrb, dataset.ColOppPts); got != 195 {
		t.Fatalf("OPP_PTS = %v, want 195", got)
	}
}

func TestTeamSeasonKindMismatch(t *testing.T) {
	wrong := buildPlayerGames(t, nil)
	if _, err := TeamSeason(wrong, SeasonOptions{PerMode: dataset.PerModeTotals}); !errors.Is(err, ErrKindMismatch) {
		t.Fatalf("expected ErrKindMismatch, got %v", err)
	}
}
