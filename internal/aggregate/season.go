package aggregate

import (
	"fmt"
	"sort"
	"strings"

	"github.com/courtdata/statpipe/internal/domain/dataset"
)

// SeasonOptions parameterizes season aggregation. The per-mode only changes
// how counting stats are scaled; ratio columns are always recomputed from the
// raw summed numerators and denominators.
type SeasonOptions struct {
	PerMode dataset.PerMode
	// SplitTraded keeps one row per (player, team) stint instead of one
	// combined row whose TEAM_ID is the sorted, comma-joined team set.
	SplitTraded bool
}

func (o SeasonOptions) validate() error {
	if _, err := dataset.ParsePerMode(string(o.PerMode)); err != nil {
		return err
	}
	return nil
}

type entityTotals struct {
	key    string
	ids    map[string]string
	meta   map[string]dataset.Value
	teams  map[string]struct{}
	games  map[string]struct{}
	rows   map[string]struct{}
	sums   map[string]float64
	seen   map[string]bool
	poss   float64
	wins   int
	losses int
	dupKey string
}

func newEntityTotals(key string) *entityTotals {
	return &entityTotals{
		key:   key,
		ids:   make(map[string]string),
		meta:  make(map[string]dataset.Value),
		teams: make(map[string]struct{}),
		games: make(map[string]struct{}),
		rows:  make(map[string]struct{}),
		sums:  make(map[string]float64),
		seen:  make(map[string]bool),
	}
}

// PlayerSeason derives a player_season table from a player_game table. Group
// key is the player, or the (player, team) stint when SplitTraded is set.
// Entities whose input rows collide on the player_game natural key, or whose
// per-mode denominator is zero, are reported in Failures and omitted.
func PlayerSeason(playerGames *dataset.Table, opts SeasonOptions) (Result, error) {
	if playerGames.Kind() != dataset.KindPlayerGame {
		return Result{}, fmt.Errorf("%w: got %s want %s",
			ErrKindMismatch, playerGames.Kind(), dataset.KindPlayerGame)
	}
	if err := opts.validate(); err != nil {
		return Result{}, err
	}

	outSchema := dataset.MustSchemaFor(dataset.KindPlayerSeason)
	entities := make(map[string]*entityTotals)
	order := make([]string, 0)

	for row := 0; row < playerGames.Len(); row++ {
		playerID := textAt(playerGames, row, dataset.ColPlayerID)
		teamID := textAt(playerGames, row, dataset.ColTeamID)

		key := playerID
		if opts.SplitTraded {
			key = playerID + "|" + teamID
		}

		totals, ok := entities[key]
		if !ok {
			totals = newEntityTotals(key)
			totals.ids[dataset.ColPlayerID] = playerID
			entities[key] = totals
			order = append(order, key)
		}

		rowKey := playerGames.NaturalKeyOf(row)
		if _, dup := totals.rows[rowKey]; dup {
			totals.dupKey = rowKey
		}
		totals.rows[rowKey] = struct{}{}

		totals.teams[teamID] = struct{}{}
		totals.games[textAt(playerGames, row, dataset.ColGameID)] = struct{}{}
		accumulate(playerGames, row, totals, outSchema.Additive)
	}

	out, err := dataset.NewTable(dataset.KindPlayerSeason, playerGames.League(), playerGames.Season())
	if err != nil {
		return Result{}, err
	}

	result := Result{Table: out}
	sort.Strings(order)
	for _, key := range order {
		totals := entities[key]
		if totals.dupKey != "" {
			result.Failures = append(result.Failures, Failure{
				Key:    key,
				Reason: fmt.Sprintf("duplicate player_game key (%s)", totals.dupKey),
			})
			continue
		}

		gp := len(totals.games)
		if gp == 0 {
			continue
		}

		factor, reason := scaleFactor(opts.PerMode, gp, totals)
		if reason != "" {
			result.Failures = append(result.Failures, Failure{Key: key, Reason: reason})
			continue
		}

		rec := outSchema.EmptyRecord()
		put(outSchema, rec, dataset.ColLeague, dataset.String(playerGames.League()))
		put(outSchema, rec, dataset.ColSeason, dataset.String(playerGames.Season()))
		put(outSchema, rec, dataset.ColPlayerID, dataset.String(totals.ids[dataset.ColPlayerID]))
		put(outSchema, rec, dataset.ColTeamID, dataset.String(joinTeams(totals.teams)))
		if name, ok := totals.meta[dataset.ColPlayerName]; ok {
			put(outSchema, rec, dataset.ColPlayerName, name)
		}
		put(outSchema, rec, dataset.ColGP, dataset.Int(int64(gp)))

		writeScaledStats(outSchema, rec, totals, factor)

		if err := out.Append(rec); err != nil {
			return Result{}, fmt.Errorf("append player_season row %s: %w", key, err)
		}
	}

	return result, nil
}

// TeamSeason derives a team_season table from a team_game table, one row per
// team. W and L count decided games; a null WIN counts toward neither.
func TeamSeason(teamGames *dataset.Table, opts SeasonOptions) (Result, error) {
	if teamGames.Kind() != dataset.KindTeamGame {
		return Result{}, fmt.Errorf("%w: got %s want %s",
			ErrKindMismatch, teamGames.Kind(), dataset.KindTeamGame)
	}
	if err := opts.validate(); err != nil {
		return Result{}, err
	}

	outSchema := dataset.MustSchemaFor(dataset.KindTeamSeason)
	entities := make(map[string]*entityTotals)
	order := make([]string, 0)

	for row := 0; row < teamGames.Len(); row++ {
		teamID := textAt(teamGames, row, dataset.ColTeamID)

		totals, ok := entities[teamID]
		if !ok {
			totals = newEntityTotals(teamID)
			totals.ids[dataset.ColTeamID] = teamID
			entities[teamID] = totals
			order = append(order, teamID)
		}

		rowKey := teamGames.NaturalKeyOf(row)
		if _, dup := totals.rows[rowKey]; dup {
			totals.dupKey = rowKey
		}
		totals.rows[rowKey] = struct{}{}

		totals.games[textAt(teamGames, row, dataset.ColGameID)] = struct{}{}
		accumulate(teamGames, row, totals, outSchema.Additive)

		if win, ok := teamGames.Value(row, dataset.ColWin); ok {
			if w, set := win.BoolVal(); set {
				if w {
					totals.wins++
				} else {
					totals.losses++
				}
			}
		}
	}

	out, err := dataset.NewTable(dataset.KindTeamSeason, teamGames.League(), teamGames.Season())
	if err != nil {
		return Result{}, err
	}

	result := Result{Table: out}
	sort.Strings(order)
	for _, teamID := range order {
		totals := entities[teamID]
		if totals.dupKey != "" {
			result.Failures = append(result.Failures, Failure{
				Key:    teamID,
				Reason: fmt.Sprintf("duplicate team_game key (%s)", totals.dupKey),
			})
			continue
		}

		gp := len(totals.games)
		if gp == 0 {
			continue
		}

		factor, reason := scaleFactor(opts.PerMode, gp, totals)
		if reason != "" {
			result.Failures = append(result.Failures, Failure{Key: teamID, Reason: reason})
			continue
		}

		rec := outSchema.EmptyRecord()
		put(outSchema, rec, dataset.ColLeague, dataset.String(teamGames.League()))
		put(outSchema, rec, dataset.ColSeason, dataset.String(teamGames.Season()))
		put(outSchema, rec, dataset.ColTeamID, dataset.String(teamID))
		if name, ok := totals.meta[dataset.ColTeamName]; ok {
			put(outSchema, rec, dataset.ColTeamName, name)
		}
		put(outSchema, rec, dataset.ColGP, dataset.Int(int64(gp)))
		put(outSchema, rec, dataset.ColWins, dataset.Int(int64(totals.wins)))
		put(outSchema, rec, dataset.ColLosses, dataset.Int(int64(totals.losses)))

		writeScaledStats(outSchema, rec, totals, factor)

		if err := out.Append(rec); err != nil {
			return Result{}, fmt.Errorf("append team_season row %s: %w", teamID, err)
		}
	}

	return result, nil
}

// accumulate folds one game row into an entity's running totals, tracking
// possessions for Per100Poss as FGA - OREB + TOV + 0.44*FTA per game row.
func accumulate(table *dataset.Table, row int, totals *entityTotals, additive []string) {
	schema := table.Schema()
	for _, name := range []string{dataset.ColPlayerName, dataset.ColTeamName} {
		if _, exists := totals.meta[name]; exists {
			continue
		}
		if value, ok := table.Value(row, name); ok && !value.IsNull() {
			totals.meta[name] = value
		}
	}

	for _, name := range additive {
		if _, ok := schema.ColumnIndex(name); !ok {
			continue
		}
		value, _ := table.Value(row, name)
		if n, ok := value.Numeric(); ok {
			totals.sums[name] += n
			totals.seen[name] = true
		}
	}

	fga := numericAt(table, row, dataset.ColFGA)
	oreb := numericAt(table, row, dataset.ColOReb)
	tov := numericAt(table, row, dataset.ColTov)
	fta := numericAt(table, row, dataset.ColFTA)
	totals.poss += fga - oreb + tov + 0.44*fta
}

func numericAt(table *dataset.Table, row int, column string) float64 {
	value, _ := table.Value(row, column)
	n, _ := value.Numeric()
	return n
}

// scaleFactor maps the per-mode to the multiplier applied to summed counting
// stats. The sums are scaled once at the end, never per game and averaged.
func scaleFactor(perMode dataset.PerMode, gp int, totals *entityTotals) (float64, string) {
	switch perMode {
	case dataset.PerModeTotals:
		return 1, ""
	case dataset.PerModePerGame:
		return 1 / float64(gp), ""
	case dataset.PerModePer36, dataset.PerModePer40:
		minutes := totals.sums[dataset.ColMin]
		if minutes <= 0 {
			return 0, "zero minutes, cannot scale per-minute"
		}
		base := 36.0
		if perMode == dataset.PerModePer40 {
			base = 40.0
		}
		return base / minutes, ""
	case dataset.PerModePer100Poss:
		if totals.poss <= 0 {
			return 0, "zero possessions, cannot scale per-possession"
		}
		return 100 / totals.poss, ""
	}
	return 0, "unsupported per mode"
}

// writeScaledStats writes scaled additive stats and ratios recomputed from
// the unscaled sums (a per-mode never changes how a ratio is computed).
func writeScaledStats(schema dataset.Schema, rec dataset.Record, totals *entityTotals, factor float64) {
	for _, name := range schema.Additive {
		if !totals.seen[name] {
			continue
		}
		put(schema, rec, name, dataset.Float(totals.sums[name]*factor))
	}
	fillRatios(schema, rec, totals.sums, totals.seen)
}

func joinTeams(teams map[string]struct{}) string {
	out := make([]string, 0, len(teams))
	for team := range teams {
		out = append(out, team)
	}
	sort.Strings(out)
	return strings.Join(out, ",")
}
