package dataset

import (
	"fmt"
	"strings"

	crerr "github.com/cockroachdb/errors"
)

// ErrUnknownKind is returned when a caller asks the registry about a dataset
// kind it does not declare. This is a configuration bug, never a data problem.
var ErrUnknownKind = crerr.New("unknown dataset kind")

// ErrUnknownPerMode is returned for per-mode strings outside the closed set.
var ErrUnknownPerMode = crerr.New("unknown per mode")

// Kind identifies one canonical dataset shape.
type Kind string

const (
	KindSchedule     Kind = "schedule"
	KindPlayerGame   Kind = "player_game"
	KindTeamGame     Kind = "team_game"
	KindPlayByPlay   Kind = "pbp"
	KindShots        Kind = "shots"
	KindPlayerSeason Kind = "player_season"
	KindTeamSeason   Kind = "team_season"
)

// Kinds lists every dataset kind in a stable order.
func Kinds() []Kind {
	return []Kind{
		KindSchedule,
		KindPlayerGame,
		KindTeamGame,
		KindPlayByPlay,
		KindShots,
		KindPlayerSeason,
		KindTeamSeason,
	}
}

func ParseKind(raw string) (Kind, error) {
	kind := Kind(strings.ToLower(strings.TrimSpace(raw)))
	for _, known := range Kinds() {
		if kind == known {
			return kind, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownKind, raw)
}

// PerMode selects how season-level counting stats are scaled. Ratio columns
// are recomputed from summed numerators and denominators under every mode.
type PerMode string

const (
	PerModeTotals     PerMode = "Totals"
	PerModePerGame    PerMode = "PerGame"
	PerModePer36      PerMode = "Per36"
	PerModePer40      PerMode = "Per40"
	PerModePer100Poss PerMode = "Per100Poss"
)

func PerModes() []PerMode {
	return []PerMode{PerModeTotals, PerModePerGame, PerModePer36, PerModePer40, PerModePer100Poss}
}

func ParsePerMode(raw string) (PerMode, error) {
	trimmed := strings.TrimSpace(raw)
	for _, known := range PerModes() {
		if strings.EqualFold(trimmed, string(known)) {
			return known, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownPerMode, raw)
}
