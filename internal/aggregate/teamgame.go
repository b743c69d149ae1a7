package aggregate

import (
	"fmt"
	"sort"

	"github.com/courtdata/statpipe/internal/domain/dataset"
)

type teamTotals struct {
	teamID  string
	meta    map[string]dataset.Value
	sums    map[string]float64
	seen    map[string]bool
	players map[string]struct{}
	dupKey  string
}

type gameGroup struct {
	gameID string
	teams  map[string]*teamTotals
	order  []string
}

// TeamGame derives a team_game table from a player_game table: one row per
// (game, team), additive stats summed, ratio columns recomputed from summed
// numerators and denominators, opponent id and points attached, WIN decided
// from own versus opponent points. Games with duplicate player rows or other
// than exactly two teams are reported in Failures and left out of the table.
// Tied games keep their rows but carry a null WIN and a Failure entry.
func TeamGame(playerGames *dataset.Table) (Result, error) {
	if playerGames.Kind() != dataset.KindPlayerGame {
		return Result{}, fmt.Errorf("%w: got %s want %s",
			ErrKindMismatch, playerGames.Kind(), dataset.KindPlayerGame)
	}

	pgSchema := playerGames.Schema()
	tgSchema := dataset.MustSchemaFor(dataset.KindTeamGame)

	// Additive columns of team_game restricted to those player_game carries.
	additive := make([]string, 0, len(tgSchema.Additive))
	for _, name := range tgSchema.Additive {
		if _, ok := pgSchema.ColumnIndex(name); ok {
			additive = append(additive, name)
		}
	}

	games := make(map[string]*gameGroup)
	gameOrder := make([]string, 0)

	for row := 0; row < playerGames.Len(); row++ {
		gameID := textAt(playerGames, row, dataset.ColGameID)
		teamID := textAt(playerGames, row, dataset.ColTeamID)
		playerID := textAt(playerGames, row, dataset.ColPlayerID)

		group, ok := games[gameID]
		if !ok {
			group = &gameGroup{gameID: gameID, teams: make(map[string]*teamTotals)}
			games[gameID] = group
			gameOrder = append(gameOrder, gameID)
		}

		totals, ok := group.teams[teamID]
		if !ok {
			totals = &teamTotals{
				teamID:  teamID,
				meta:    make(map[string]dataset.Value),
				sums:    make(map[string]float64),
				seen:    make(map[string]bool),
				players: make(map[string]struct{}),
			}
			group.teams[teamID] = totals
			group.order = append(group.order, teamID)
		}

		if _, dup := totals.players[playerID]; dup {
			totals.dupKey = playerGames.NaturalKeyOf(row)
		}
		totals.players[playerID] = struct{}{}

		for _, name := range []string{dataset.ColLeague, dataset.ColSeason, dataset.ColGameDate, dataset.ColTeamName} {
			if _, exists := totals.meta[name]; exists {
				continue
			}
			if value, ok := playerGames.Value(row, name); ok && !value.IsNull() {
				totals.meta[name] = value
			}
		}

		for _, name := range additive {
			value, _ := playerGames.Value(row, name)
			if n, ok := value.Numeric(); ok {
				totals.sums[name] += n
				totals.seen[name] = true
			}
		}
	}

	sort.Strings(gameOrder)

	out, err := dataset.NewTable(dataset.KindTeamGame, playerGames.League(), playerGames.Season())
	if err != nil {
		return Result{}, err
	}

	result := Result{Table: out}
	for _, gameID := range gameOrder {
		group := games[gameID]

		malformed := false
		for _, teamID := range group.order {
			if dup := group.teams[teamID].dupKey; dup != "" {
				result.Failures = append(result.Failures, Failure{
					Key:    gameID,
					Reason: fmt.Sprintf("duplicate player_game key (%s)", dup),
				})
				malformed = true
			}
		}
		if len(group.order) != 2 {
			result.Failures = append(result.Failures, Failure{
				Key:    gameID,
				Reason: fmt.Sprintf("expected 2 teams, got %d", len(group.order)),
			})
			malformed = true
		}
		if malformed {
			continue
		}

		sort.Strings(group.order)
		first, second := group.teams[group.order[0]], group.teams[group.order[1]]

		tied := first.sums[dataset.ColPts] == second.sums[dataset.ColPts]
		if tied {
			result.Failures = append(result.Failures, Failure{
				Key:    gameID,
				Reason: "tied score",
			})
		}

		for _, pair := range [][2]*teamTotals{{first, second}, {second, first}} {
			own, opp := pair[0], pair[1]
			rec := tgSchema.EmptyRecord()
			put(tgSchema, rec, dataset.ColGameID, dataset.String(gameID))
			put(tgSchema, rec, dataset.ColTeamID, dataset.String(own.teamID))
			for name, value := range own.meta {
				put(tgSchema, rec, name, value)
			}

			for _, name := range additive {
				if !own.seen[name] {
					continue
				}
				put(tgSchema, rec, name, numericCell(tgSchema, name, own.sums[name]))
			}
			fillRatios(tgSchema, rec, own.sums, own.seen)

			put(tgSchema, rec, dataset.ColOppID, dataset.String(opp.teamID))
			if opp.seen[dataset.ColPts] {
				put(tgSchema, rec, dataset.ColOppPts, dataset.Int(int64(opp.sums[dataset.ColPts])))
			}
			if !tied {
				put(tgSchema, rec, dataset.ColWin, dataset.Bool(own.sums[dataset.ColPts] > opp.sums[dataset.ColPts]))
			}

			if err := out.Append(rec); err != nil {
				return Result{}, fmt.Errorf("append team_game row game=%s team=%s: %w", gameID, own.teamID, err)
			}
		}
	}

	return result, nil
}

func textAt(table *dataset.Table, row int, column string) string {
	value, _ := table.Value(row, column)
	return value.Text()
}

func put(schema dataset.Schema, rec dataset.Record, column string, value dataset.Value) {
	if idx, ok := schema.ColumnIndex(column); ok {
		rec[idx] = value
	}
}

// numericCell renders an aggregated sum with the target column's type.
func numericCell(schema dataset.Schema, column string, sum float64) dataset.Value {
	if col, ok := schema.Column(column); ok && col.Type == dataset.TypeInt {
		return dataset.Int(int64(sum))
	}
	return dataset.Float(sum)
}

// fillRatios recomputes every derived ratio from summed numerator and
// denominator. A 0/0 ratio is null, never zero or NaN.
func fillRatios(schema dataset.Schema, rec dataset.Record, sums map[string]float64, seen map[string]bool) {
	for name, ratio := range schema.Ratios {
		if !seen[ratio.Numerator] && !seen[ratio.Denominator] {
			continue
		}
		den := sums[ratio.Denominator]
		if den == 0 {
			put(schema, rec, name, dataset.Null(dataset.TypeFloat))
			continue
		}
		put(schema, rec, name, dataset.Float(sums[ratio.Numerator]/den))
	}
}
