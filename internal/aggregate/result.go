// Package aggregate derives higher-granularity datasets from game-level ones:
// team_game from player_game, and season tables from game tables under a
// closed per-mode. One bad game never poisons a whole season; failures are
// accumulated next to the (smaller) successful table.
package aggregate

import (
	crerr "github.com/cockroachdb/errors"

	"github.com/courtdata/statpipe/internal/domain/dataset"
)

// ErrKindMismatch means the caller handed a table of the wrong kind. This is
// a programming error and halts the run, unlike per-game data problems.
var ErrKindMismatch = crerr.New("table kind mismatch")

// ErrMalformedGame tags per-entity data problems recorded in Failure lists.
var ErrMalformedGame = crerr.New("malformed game")

// Failure identifies one entity that could not be aggregated and why.
type Failure struct {
	Key    string
	Reason string
}

// Result carries the aggregate table plus the entities that were dropped.
type Result struct {
	Table    *dataset.Table
	Failures []Failure
}

// Clean reports whether every input entity aggregated successfully.
func (r Result) Clean() bool { return len(r.Failures) == 0 }
