package aggregate

import (
	"errors"
	"strings"
	"testing"

	"github.com/courtdata/statpipe/internal/domain/dataset"
)

type playerLine struct {
	game   string
	team   string
	player string
	min    float64
	pts    int64
	fgm    int64
	fga    int64
	ftm    int64
	fta    int64
	oreb   int64
	tov    int64
}

func buildPlayerGames(t *testing.T, lines []playerLine) *dataset.Table {
	t.Helper()
	table, err := dataset.NewTable(dataset.KindPlayerGame, "demo", "2024")
	if err != nil {
		t.Fatalf("NewTable: %v", err)
	}
	schema := table.Schema()
	for _, line := range lines {
		rec := schema.EmptyRecord()
		for col, v := range map[string]dataset.Value{
			dataset.ColGameID:   dataset.String(line.game),
			dataset.ColLeague:   dataset.String("demo"),
			dataset.ColSeason:   dataset.String("2024"),
			dataset.ColTeamID:   dataset.String(line.team),
			dataset.ColPlayerID: dataset.String(line.player),
			dataset.ColMin:      dataset.Float(line.min),
			dataset.ColPts:      dataset.Int(line.pts),
			dataset.ColFGM:      dataset.Int(line.fgm),
			dataset.ColFGA:      dataset.Int(line.fga),
			dataset.ColFTM:      dataset.Int(line.ftm),
			dataset.ColFTA:      dataset.Int(line.fta),
			dataset.ColOReb:     dataset.Int(line.oreb),
			dataset.ColTov:      dataset.Int(line.tov),
		} {
			idx, _ := schema.ColumnIndex(col)
			rec[idx] = v
		}
		if err := table.Append(rec); err != nil {
			t.Fatalf("Append: %v", err)
		}
	}
	return table
}

func rowByKey(t *testing.T, table *dataset.Table, key string) int {
	t.Helper()
	for row := 0; row < table.Len(); row++ {
		if table.NaturalKeyOf(row) == key {
			return row
		}
	}
	t.Fatalf("row %q not found", key)
	return -1
}

func numAt(t *testing.T, table *dataset.Table, row int, col string) float64 {
	t.Helper()
	value, ok := table.Value(row, col)
	if !ok {
		t.Fatalf("column %s not declared", col)
	}
	n, ok := value.Numeric()
	if !ok {
		t.Fatalf("column %s at row %d is not numeric (null=%t)", col, row, value.IsNull())
	}
	return n
}

func TestTeamGameSumsAndDecidesWinner(t *testing.T) {
	table := buildPlayerGames(t, []playerLine{
		{game: "G1", team: "HRB", player: "p1", min: 30, pts: 30, fgm: 11, fga: 20, ftm: 6, fta: 7},
		{game: "G1", team: "HRB", player: "p2", min: 28, pts: 20, fgm: 8, fga: 15, ftm: 4, fta: 4},
		{game: "G1", team: "RDG", player: "p3", min: 32, pts: 25, fgm: 10, fga: 22, ftm: 5, fta: 6},
		{game: "G1", team: "RDG", player: "p4", min: 26, pts: 15, fgm: 6, fga: 14, ftm: 3, fta: 5},
	})

	result, err := TeamGame(table)
	if err != nil {
		t.Fatalf("TeamGame: %v", err)
	}
	if !result.Clean() {
		t.Fatalf("unexpected failures: %v", result.Failures)
	}
	if result.Table.Len() != 2 {
		t.Fatalf("team_game rows = %d, want 2", result.Table.Len())
	}

	hrb := rowByKey(t, result.Table, "G1|HRB")
	if got := numAt(t, result.Table, hrb, dataset.ColPts); got != 50 {
		t.Fatalf("HRB PTS = %v, want 50", got)
	}
	if got := numAt(t, result.Table, hrb, dataset.ColOppPts); got != 40 {
		t.Fatalf("HRB OPP_PTS = %v, want 40", got)
	}
	opp, _ := result.Table.Value(hrb, dataset.ColOppID)
	if got, _ := opp.StringVal(); got != "RDG" {
		t.Fatalf("HRB OPP_ID = %q", got)
	}
	win, _ := result.Table.Value(hrb, dataset.ColWin)
	if w, ok := win.BoolVal(); !ok || !w {
		t.Fatalf("HRB WIN = %v ok=%t, want true", w, ok)
	}

	rdg := rowByKey(t, result.Table, "G1|RDG")
	win, _ = result.Table.Value(rdg, dataset.ColWin)
	if w, ok := win.BoolVal(); !ok || w {
		t.Fatalf("RDG WIN = %v ok=%t, want false", w, ok)
	}
}

func TestTeamGameThreePlayerBoxScore(t *testing.T) {
	table := buildPlayerGames(t, []playerLine{
		{game: "G1", team: "T1", player: "P1", pts: 10, fgm: 4, fga: 8},
		{game: "G1", team: "T1", player: "P2", pts: 6, fgm: 3, fga: 5},
		{game: "G1", team: "T2", player: "P3", pts: 12, fgm: 5, fga: 9},
	})

	result, err := TeamGame(table)
	if err != nil {
		t.Fatalf("TeamGame: %v", err)
	}
	if !result.Clean() {
		t.Fatalf("unexpected failures: %v", result.Failures)
	}

	t1 := rowByKey(t, result.Table, "G1|T1")
	if got := numAt(t, result.Table, t1, dataset.ColPts); got != 16 {
		t.Fatalf("T1 PTS = %v, want 16", got)
	}
	if got := numAt(t, result.Table, t1, dataset.ColFGM); got != 7 {
		t.Fatalf("T1 FGM = %v, want 7", got)
	}
	if got := numAt(t, result.Table, t1, dataset.ColFGA); got != 13 {
		t.Fatalf("T1 FGA = %v, want 13", got)
	}
	if got := numAt(t, result.Table, t1, dataset.ColFGPct); got != 7.0/13.0 {
		t.Fatalf("T1 FG_PCT = %v, want 7/13", got)
	}
	opp, _ := result.Table.Value(t1, dataset.ColOppID)
	if got, _ := opp.StringVal(); got != "T2" {
		t.Fatalf("T1 OPP_ID = %q", got)
	}
	if got := numAt(t, result.Table, t1, dataset.ColOppPts); got != 12 {
		t.Fatalf("T1 OPP_PTS = %v, want 12", got)
	}
	win, _ := result.Table.Value(t1, dataset.ColWin)
	if w, ok := win.BoolVal(); !ok || !w {
		t.Fatalf("T1 WIN = %v ok=%t, want true", w, ok)
	}

	t2 := rowByKey(t, result.Table, "G1|T2")
	if got := numAt(t, result.Table, t2, dataset.ColFGPct); got != 5.0/9.0 {
		t.Fatalf("T2 FG_PCT = %v, want 5/9", got)
	}
	if got := numAt(t, result.Table, t2, dataset.ColOppPts); got != 16 {
		t.Fatalf("T2 OPP_PTS = %v, want 16", got)
	}
	win, _ = result.Table.Value(t2, dataset.ColWin)
	if w, ok := win.BoolVal(); !ok || w {
		t.Fatalf("T2 WIN = %v ok=%t, want false", w, ok)
	}
}

// The team percentage must come from summed makes over summed attempts.
// Averaging the per-player percentages would give (1.0 + 0.0)/2 = 0.5 here;
// the correct value is 1/10.
func TestTeamGameRecomputesRatiosFromSums(t *testing.T) {
	table := buildPlayerGames(t, []playerLine{
		{game: "G1", team: "HRB", player: "p1", pts: 2, fgm: 1, fga: 1},
		{game: "G1", team: "HRB", player: "p2", pts: 0, fgm: 0, fga: 9},
		{game: "G1", team: "RDG", player: "p3", pts: 4, fgm: 2, fga: 10},
	})

	result, err := TeamGame(table)
	if err != nil {
		t.Fatalf("TeamGame: %v", err)
	}

	hrb := rowByKey(t, result.Table, "G1|HRB")
	if got := numAt(t, result.Table, hrb, dataset.ColFGPct); got != 0.1 {
		t.Fatalf("HRB FG_PCT = %v, want 0.1", got)
	}
}

func TestTeamGameZeroAttemptRatioIsNull(t *testing.T) {
	table := buildPlayerGames(t, []playerLine{
		{game: "G1", team: "HRB", player: "p1", pts: 2, fgm: 1, fga: 2},
		{game: "G1", team: "RDG", player: "p2", pts: 0, fgm: 0, fga: 3},
	})

	result, err := TeamGame(table)
	if err != nil {
		t.Fatalf("TeamGame: %v", err)
	}

	hrb := rowByKey(t, result.Table, "G1|HRB")
	ft, ok := result.Table.Value(hrb, dataset.ColFTPct)
	if !ok || !ft.IsNull() {
		t.Fatalf("FT_PCT with zero attempts should be null, got %v", ft)
	}
}

func TestTeamGameTiedScore(t *testing.T) {
	table := buildPlayerGames(t, []playerLine{
		{game: "G1", team: "HRB", player: "p1", pts: 50, fgm: 25, fga: 40},
		{game: "G1", team: "RDG", player: "p2", pts: 50, fgm: 25, fga: 41},
	})

	result, err := TeamGame(table)
	if err != nil {
		t.Fatalf("TeamGame: %v", err)
	}
	// rows are kept, WIN is null, and the tie is reported
	if result.Table.Len() != 2 {
		t.Fatalf("rows = %d, want 2", result.Table.Len())
	}
	for row := 0; row < 2; row++ {
		win, _ := result.Table.Value(row, dataset.ColWin)
		if !win.IsNull() {
			t.Fatalf("row %d WIN should be null in a tied game", row)
		}
	}
	if len(result.Failures) != 1 || result.Failures[0].Reason != "tied score" {
		t.Fatalf("failures = %v", result.Failures)
	}
}

func TestTeamGameDuplicatePlayerRow(t *testing.T) {
	table := buildPlayerGames(t, []playerLine{
		{game: "G1", team: "HRB", player: "p1", pts: 10, fgm: 5, fga: 8},
		{game: "G1", team: "HRB", player: "p1", pts: 10, fgm: 5, fga: 8},
		{game: "G1", team: "RDG", player: "p2", pts: 8, fgm: 4, fga: 9},
	})

	result, err := TeamGame(table)
	if err != nil {
		t.Fatalf("TeamGame: %v", err)
	}
	if result.Table.Len() != 0 {
		t.Fatalf("rows = %d, want malformed game omitted", result.Table.Len())
	}
	if len(result.Failures) != 1 || !strings.Contains(result.Failures[0].Reason, "duplicate") {
		t.Fatalf("failures = %v", result.Failures)
	}
}

func TestTeamGameRejectsNonTwoTeamGames(t *testing.T) {
	table := buildPlayerGames(t, []playerLine{
		{game: "G1", team: "HRB", player: "p1", pts: 10, fgm: 5, fga: 8},
	})

	result, err := TeamGame(table)
	if err != nil {
		t.Fatalf("TeamGame: %v", err)
	}
	if result.Table.Len() != 0 {
		t.Fatalf("rows = %d, want 0", result.Table.Len())
	}
	if len(result.Failures) != 1 || !strings.Contains(result.Failures[0].Reason, "expected 2 teams") {
		t.Fatalf("failures = %v", result.Failures)
	}
}

func TestTeamGameKindMismatch(t *testing.T) {
	wrong, err := dataset.NewTable(dataset.KindSchedule, "demo", "2024")
	if err != nil {
		t.Fatalf("NewTable: %v", err)
	}
	if _, err := TeamGame(wrong); !errors.Is(err, ErrKindMismatch) {
		t.Fatalf("expected ErrKindMismatch, got %v", err)
	}
}
