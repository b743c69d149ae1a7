package dataset

import "fmt"

// Canonical column names shared across dataset kinds.
const (
	ColGameID     = "GAME_ID"
	ColLeague     = "LEAGUE"
	ColSeason     = "SEASON"
	ColGameDate   = "GAME_DATE"
	ColTeamID     = "TEAM_ID"
	ColTeamName   = "TEAM_NAME"
	ColPlayerID   = "PLAYER_ID"
	ColPlayerName = "PLAYER_NAME"
	ColMin        = "MIN"
	ColPts        = "PTS"
	ColFGM        = "FGM"
	ColFGA        = "FGA"
	ColFGPct      = "FG_PCT"
	ColFG3M       = "FG3M"
	ColFG3A       = "FG3A"
	ColFG3Pct     = "FG3_PCT"
	ColFTM        = "FTM"
	ColFTA        = "FTA"
	ColFTPct      = "FT_PCT"
	ColOReb       = "OREB"
	ColDReb       = "DREB"
	ColReb        = "REB"
	ColAst        = "AST"
	ColStl        = "STL"
	ColBlk        = "BLK"
	ColTov        = "TOV"
	ColPF         = "PF"
	ColPlusMinus  = "PLUS_MINUS"
	ColOppID      = "OPP_ID"
	ColOppPts     = "OPP_PTS"
	ColWin        = "WIN"
	ColGP         = "GP"
	ColWins       = "W"
	ColLosses     = "L"
	ColHomeID     = "HOME_ID"
	ColHomeName   = "HOME_NAME"
	ColAwayID     = "AWAY_ID"
	ColAwayName   = "AWAY_NAME"
	ColHomePts    = "HOME_PTS"
	ColAwayPts    = "AWAY_PTS"
	ColStatus     = "STATUS"
	ColEventNum   = "EVENT_NUM"
	ColPeriod     = "PERIOD"
	ColClock      = "CLOCK"
	ColEventType  = "EVENT_TYPE"
	ColDesc       = "DESCRIPTION"
	ColHomeScore  = "HOME_SCORE"
	ColAwayScore  = "AWAY_SCORE"
	ColShotID     = "SHOT_ID"
	ColLocX       = "LOC_X"
	ColLocY       = "LOC_Y"
	ColShotType   = "SHOT_TYPE"
	ColShotValue  = "SHOT_VALUE"
	ColMade       = "MADE"
)

// Column declares one canonical column. NonNullable columns fail the QA
// null-guard check on any null; other columns only report their null rate.
type Column struct {
	Name        string
	Type        ColumnType
	NonNullable bool
}

// Ratio names the numerator and denominator columns a derived ratio is
// recomputed from. Ratio columns are never summed or averaged directly.
type Ratio struct {
	Numerator   string
	Denominator string
}

// Range is an inclusive plausibility bound for a numeric column.
// All ratio columns use the fraction convention, so percentages live in [0,1].
type Range struct {
	Min float64
	Max float64
}

// Schema is the full canonical declaration for one dataset kind.
type Schema struct {
	Kind       Kind
	Columns    []Column
	NaturalKey []string
	Additive   []string
	Ratios     map[string]Ratio
	Ranges     map[string]Range

	index map[string]int
}

// SchemaFor returns the registry entry for kind.
func SchemaFor(kind Kind) (Schema, error) {
	schema, ok := registry[kind]
	if !ok {
		return Schema{}, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
	return schema, nil
}

// MustSchemaFor is for callers holding an already-validated kind.
func MustSchemaFor(kind Kind) Schema {
	schema, err := SchemaFor(kind)
	if err != nil {
		panic(err)
	}
	return schema
}

func (s Schema) ColumnIndex(name string) (int, bool) {
	idx, ok := s.index[name]
	return idx, ok
}

func (s Schema) Column(name string) (Column, bool) {
	idx, ok := s.index[name]
	if !ok {
		return Column{}, false
	}
	return s.Columns[idx], true
}

func (s Schema) IsAdditive(name string) bool {
	for _, col := range s.Additive {
		if col == name {
			return true
		}
	}
	return false
}

// EmptyRecord returns a record with every column set to its typed null.
func (s Schema) EmptyRecord() Record {
	rec := make(Record, len(s.Columns))
	for i, col := range s.Columns {
		rec[i] = Null(col.Type)
	}
	return rec
}

var registry map[Kind]Schema

func init() {
	registry = make(map[Kind]Schema, 7)
	for _, schema := range []Schema{
		scheduleSchema(),
		playerGameSchema(),
		teamGameSchema(),
		playByPlaySchema(),
		shotsSchema(),
		playerSeasonSchema(),
		teamSeasonSchema(),
	} {
		schema.index = make(map[string]int, len(schema.Columns))
		for i, col := range schema.Columns {
			schema.index[col.Name] = i
		}
		registry[schema.Kind] = schema
	}
}

func key(name string, typ ColumnType) Column { return Column{Name: name, Type: typ, NonNullable: true} }
func col(name string, typ ColumnType) Column { return Column{Name: name, Type: typ} }

// boxScoreColumns is the counting-stat block shared by game-level kinds.
// MIN is fractional because sources report seconds-accurate minutes.
func boxScoreColumns(typ ColumnType) []Column {
	return []Column{
		col(ColMin, TypeFloat),
		col(ColPts, typ),
		col(ColFGM, typ),
		col(ColFGA, typ),
		col(ColFGPct, TypeFloat),
		col(ColFG3M, typ),
		col(ColFG3A, typ),
		col(ColFG3Pct, TypeFloat),
		col(ColFTM, typ),
		col(ColFTA, typ),
		col(ColFTPct, TypeFloat),
		col(ColOReb, typ),
		col(ColDReb, typ),
		col(ColReb, typ),
		col(ColAst, typ),
		col(ColStl, typ),
		col(ColBlk, typ),
		col(ColTov, typ),
		col(ColPF, typ),
	}
}

func boxScoreAdditive() []string {
	return []string{
		ColMin, ColPts, ColFGM, ColFGA, ColFG3M, ColFG3A,
		ColFTM, ColFTA, ColOReb, ColDReb, ColReb,
		ColAst, ColStl, ColBlk, ColTov, ColPF,
	}
}

func boxScoreRatios() map[string]Ratio {
	return map[string]Ratio{
		ColFGPct:  {Numerator: ColFGM, Denominator: ColFGA},
		ColFG3Pct: {Numerator: ColFG3M, Denominator: ColFG3A},
		ColFTPct:  {Numerator: ColFTM, Denominator: ColFTA},
	}
}

func pctRanges() map[string]Range {
	return map[string]Range{
		ColFGPct:  {Min: 0, Max: 1},
		ColFG3Pct: {Min: 0, Max: 1},
		ColFTPct:  {Min: 0, Max: 1},
	}
}

func scheduleSchema() Schema {
	return Schema{
		Kind: KindSchedule,
		Columns: []Column{
			key(ColGameID, TypeString),
			key(ColLeague, TypeString),
			key(ColSeason, TypeString),
			col(ColGameDate, TypeDate),
			key(ColHomeID, TypeString),
			col(ColHomeName, TypeString),
			key(ColAwayID, TypeString),
			col(ColAwayName, TypeString),
			col(ColHomePts, TypeInt),
			col(ColAwayPts, TypeInt),
			col(ColStatus, TypeString),
		},
		NaturalKey: []string{ColGameID},
		Ranges: map[string]Range{
			ColHomePts: {Min: 0, Max: 250},
			ColAwayPts: {Min: 0, Max: 250},
		},
	}
}

func playerGameSchema() Schema {
	columns := []Column{
		key(ColGameID, TypeString),
		key(ColLeague, TypeString),
		key(ColSeason, TypeString),
		col(ColGameDate, TypeDate),
		key(ColTeamID, TypeString),
		col(ColTeamName, TypeString),
		key(ColPlayerID, TypeString),
		col(ColPlayerName, TypeString),
	}
	columns = append(columns, boxScoreColumns(TypeInt)...)
	columns = append(columns, col(ColPlusMinus, TypeInt))

	ranges := pctRanges()
	ranges[ColMin] = Range{Min: 0, Max: 60}
	ranges[ColPts] = Range{Min: 0, Max: 100}
	ranges[ColFGA] = Range{Min: 0, Max: 70}
	ranges[ColFTA] = Range{Min: 0, Max: 50}
	ranges[ColReb] = Range{Min: 0, Max: 55}

	return Schema{
		Kind:       KindPlayerGame,
		Columns:    columns,
		NaturalKey: []string{ColGameID, ColTeamID, ColPlayerID},
		Additive:   boxScoreAdditive(),
		Ratios:     boxScoreRatios(),
		Ranges:     ranges,
	}
}

func teamGameSchema() Schema {
	columns := []Column{
		key(ColGameID, TypeString),
		key(ColLeague, TypeString),
		key(ColSeason, TypeString),
		col(ColGameDate, TypeDate),
		key(ColTeamID, TypeString),
		col(ColTeamName, TypeString),
	}
	columns = append(columns, boxScoreColumns(TypeInt)...)
	columns = append(columns,
		col(ColOppID, TypeString),
		col(ColOppPts, TypeInt),
		col(ColWin, TypeBool),
	)

	ranges := pctRanges()
	ranges[ColMin] = Range{Min: 0, Max: 360}
	ranges[ColPts] = Range{Min: 0, Max: 250}
	ranges[ColOppPts] = Range{Min: 0, Max: 250}

	return Schema{
		Kind:       KindTeamGame,
		Columns:    columns,
		NaturalKey: []string{ColGameID, ColTeamID},
		Additive:   boxScoreAdditive(),
		Ratios:     boxScoreRatios(),
		Ranges:     ranges,
	}
}

func playByPlaySchema() Schema {
	return Schema{
		Kind: KindPlayByPlay,
		Columns: []Column{
			key(ColGameID, TypeString),
			key(ColLeague, TypeString),
			key(ColSeason, TypeString),
			key(ColEventNum, TypeInt),
			col(ColPeriod, TypeInt),
			col(ColClock, TypeString),
			col(ColTeamID, TypeString),
			col(ColPlayerID, TypeString),
			col(ColEventType, TypeString),
			col(ColDesc, TypeString),
			col(ColHomeScore, TypeInt),
			col(ColAwayScore, TypeInt),
		},
		NaturalKey: []string{ColGameID, ColEventNum},
		Ranges: map[string]Range{
			ColPeriod:    {Min: 1, Max: 12},
			ColHomeScore: {Min: 0, Max: 250},
			ColAwayScore: {Min: 0, Max: 250},
		},
	}
}

func shotsSchema() Schema {
	return Schema{
		Kind: KindShots,
		Columns: []Column{
			key(ColGameID, TypeString),
			key(ColLeague, TypeString),
			key(ColSeason, TypeString),
			key(ColShotID, TypeInt),
			col(ColTeamID, TypeString),
			col(ColPlayerID, TypeString),
			col(ColPeriod, TypeInt),
			col(ColLocX, TypeFloat),
			col(ColLocY, TypeFloat),
			col(ColShotType, TypeString),
			col(ColShotValue, TypeInt),
			col(ColMade, TypeBool),
		},
		NaturalKey: []string{ColGameID, ColShotID},
		Ranges: map[string]Range{
			ColPeriod:    {Min: 1, Max: 12},
			ColLocX:      {Min: 0, Max: 100},
			ColLocY:      {Min: 0, Max: 100},
			ColShotValue: {Min: 2, Max: 3},
		},
	}
}

// Season counting stats are float because per-mode scaling is fractional.
func playerSeasonSchema() Schema {
	columns := []Column{
		key(ColLeague, TypeString),
		key(ColSeason, TypeString),
		key(ColPlayerID, TypeString),
		col(ColPlayerName, TypeString),
		key(ColTeamID, TypeString),
		col(ColGP, TypeInt),
	}
	columns = append(columns, boxScoreColumns(TypeFloat)...)

	ranges := pctRanges()
	ranges[ColGP] = Range{Min: 1, Max: 120}

	return Schema{
		Kind:       KindPlayerSeason,
		Columns:    columns,
		NaturalKey: []string{ColPlayerID, ColTeamID},
		Additive:   boxScoreAdditive(),
		Ratios:     boxScoreRatios(),
		Ranges:     ranges,
	}
}

func teamSeasonSchema() Schema {
	columns := []Column{
		key(ColLeague, TypeString),
		key(ColSeason, TypeString),
		key(ColTeamID, TypeString),
		col(ColTeamName, TypeString),
		col(ColGP, TypeInt),
		col(ColWins, TypeInt),
		col(ColLosses, TypeInt),
	}
	columns = append(columns, boxScoreColumns(TypeFloat)...)
	columns = append(columns, col(ColOppPts, TypeFloat))

	ranges := pctRanges()
	ranges[ColGP] = Range{Min: 1, Max: 120}

	additive := append(boxScoreAdditive(), ColOppPts)

	return Schema{
		Kind:       KindTeamSeason,
		Columns:    columns,
		NaturalKey: []string{ColTeamID},
		Additive:   additive,
		Ratios:     boxScoreRatios(),
		Ranges:     ranges,
	}
}
