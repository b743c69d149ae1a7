package qa

import (
	"fmt"
	"math"
	"math/rand"
	"sort"

	crerr "github.com/cockroachdb/errors"
	"github.com/sourcegraph/conc/iter"

	"github.com/courtdata/statpipe/internal/domain/dataset"
)

// ErrIncompatibleKinds means a cross-check was invoked with the wrong dataset
// kinds. This is a programming error, not a data-quality finding.
var ErrIncompatibleKinds = crerr.New("incompatible dataset kinds for cross-check")

type teamRef struct {
	gameID string
	teamID string
}

// CrossTotals reconciles player_game sums against team_game values: for each
// (game, team), the sum of each additive stat across that team's players must
// match the team_game row within tolerance. Team groups are compared in
// parallel; output ordering stays deterministic.
func CrossTotals(playerGames, teamGames *dataset.Table, tolerance float64) (CheckResult, error) {
	if playerGames.Kind() != dataset.KindPlayerGame || teamGames.Kind() != dataset.KindTeamGame {
		return CheckResult{}, fmt.Errorf("%w: got (%s, %s) want (%s, %s)",
			ErrIncompatibleKinds, playerGames.Kind(), teamGames.Kind(),
			dataset.KindPlayerGame, dataset.KindTeamGame)
	}

	tgSchema := teamGames.Schema()
	additive := make([]string, 0, len(tgSchema.Additive))
	for _, column := range tgSchema.Additive {
		if _, ok := playerGames.Schema().ColumnIndex(column); ok {
			additive = append(additive, column)
		}
	}

	teamRows := make(map[teamRef]int, teamGames.Len())
	for row := 0; row < teamGames.Len(); row++ {
		ref := teamRef{
			gameID: text(teamGames, row, dataset.ColGameID),
			teamID: text(teamGames, row, dataset.ColTeamID),
		}
		teamRows[ref] = row
	}

	playerSums := make(map[teamRef]map[string]float64)
	refs := make([]teamRef, 0)
	for row := 0; row < playerGames.Len(); row++ {
		ref := teamRef{
			gameID: text(playerGames, row, dataset.ColGameID),
			teamID: text(playerGames, row, dataset.ColTeamID),
		}
		sums, ok := playerSums[ref]
		if !ok {
			sums = make(map[string]float64, len(additive))
			playerSums[ref] = sums
			refs = append(refs, ref)
		}
		for _, column := range additive {
			value, _ := playerGames.Value(row, column)
			if n, ok := value.Numeric(); ok {
				sums[column] += n
			}
		}
	}
	sort.Slice(refs, func(i, j int) bool {
		if refs[i].gameID != refs[j].gameID {
			return refs[i].gameID < refs[j].gameID
		}
		return refs[i].teamID < refs[j].teamID
	})

	perRef := iter.Map(refs, func(ref *teamRef) []map[string]any {
		row, ok := teamRows[*ref]
		if !ok {
			return []map[string]any{{
				"game_id": ref.gameID,
				"team_id": ref.teamID,
				"reason":  "no team_game row for player group",
			}}
		}
		mismatches := make([]map[string]any, 0)
		for _, column := range additive {
			expected := playerSums[*ref][column]
			value, _ := teamGames.Value(row, column)
			actual, hasValue := value.Numeric()
			if !hasValue || math.Abs(expected-actual) > tolerance {
				mismatches = append(mismatches, map[string]any{
					"game_id":  ref.gameID,
					"team_id":  ref.teamID,
					"column":   column,
					"expected": expected,
					"actual":   actual,
				})
			}
		}
		return mismatches
	})

	mismatches := make([]map[string]any, 0)
	for _, chunk := range perRef {
		mismatches = append(mismatches, chunk...)
	}

	name := "cross_totals:player_game~team_game"
	if len(mismatches) == 0 {
		return pass(name, fmt.Sprintf("%d team groups reconciled within tolerance %.2f", len(refs), tolerance)), nil
	}
	return fail(name,
		fmt.Sprintf("%d stat mismatch(es) beyond tolerance %.2f", len(mismatches), tolerance),
		map[string]any{"mismatches": mismatches}), nil
}

// ScoreReconciliation samples games present in both pbp and team_game and
// compares the final running score from the last scoring event against the
// boxscore final score for both teams. The sample is deterministic for a
// given seed. Rows are compared as sorted score pairs because team_game rows
// carry no home/away attribution.
func ScoreReconciliation(plays, teamGames *dataset.Table, sampleSize int, seed int64, tolerance float64) (CheckResult, error) {
	if plays.Kind() != dataset.KindPlayByPlay || teamGames.Kind() != dataset.KindTeamGame {
		return CheckResult{}, fmt.Errorf("%w: got (%s, %s) want (%s, %s)",
			ErrIncompatibleKinds, plays.Kind(), teamGames.Kind(),
			dataset.KindPlayByPlay, dataset.KindTeamGame)
	}

	finalScores := make(map[string][2]float64)
	lastEvent := make(map[string]int64)
	for row := 0; row < plays.Len(); row++ {
		home, homeOK := numeric(plays, row, dataset.ColHomeScore)
		away, awayOK := numeric(plays, row, dataset.ColAwayScore)
		if !homeOK || !awayOK {
			continue
		}
		gameID := text(plays, row, dataset.ColGameID)
		eventNum, _ := numeric(plays, row, dataset.ColEventNum)
		if prev, seen := lastEvent[gameID]; seen && int64(eventNum) <= prev {
			continue
		}
		lastEvent[gameID] = int64(eventNum)
		finalScores[gameID] = sortedPair(home, away)
	}

	boxScores := make(map[string][]float64)
	for row := 0; row < teamGames.Len(); row++ {
		pts, ok := numeric(teamGames, row, dataset.ColPts)
		if !ok {
			continue
		}
		gameID := text(teamGames, row, dataset.ColGameID)
		boxScores[gameID] = append(boxScores[gameID], pts)
	}

	shared := make([]string, 0)
	for gameID := range finalScores {
		if len(boxScores[gameID]) == 2 {
			shared = append(shared, gameID)
		}
	}
	sort.Strings(shared)

	rng := rand.New(rand.NewSource(seed))
	rng.Shuffle(len(shared), func(i, j int) { shared[i], shared[j] = shared[j], shared[i] })
	if sampleSize > 0 && len(shared) > sampleSize {
		shared = shared[:sampleSize]
	}
	sort.Strings(shared)

	mismatches := make([]map[string]any, 0)
	for _, gameID := range shared {
		pbpPair := finalScores[gameID]
		boxPair := sortedPair(boxScores[gameID][0], boxScores[gameID][1])
		if math.Abs(pbpPair[0]-boxPair[0]) > tolerance || math.Abs(pbpPair[1]-boxPair[1]) > tolerance {
			mismatches = append(mismatches, map[string]any{
				"game_id":   gameID,
				"pbp_final": pbpPair,
				"box_final": boxPair,
			})
		}
	}

	name := "score_reconciliation:pbp~team_game"
	if len(mismatches) == 0 {
		return pass(name, fmt.Sprintf("%d sampled game(s) reconciled within tolerance %.2f", len(shared), tolerance)), nil
	}
	return fail(name,
		fmt.Sprintf("%d sampled game(s) with final-score mismatch", len(mismatches)),
		map[string]any{"mismatches": mismatches}), nil
}

func sortedPair(a, b float64) [2]float64 {
	if a > b {
		return [2]float64{a, b}
	}
	return [2]float64{b, a}
}

func text(table *dataset.Table, row int, column string) string {
	value, _ := table.Value(row, column)
	return value.Text()
}

func numeric(table *dataset.Table, row int, column string) (float64, bool) {
	value, _ := table.Value(row, column)
	return value.Numeric()
}
