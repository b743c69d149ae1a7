package source

import (
	"context"

	crerr "github.com/cockroachdb/errors"

	"github.com/courtdata/statpipe/internal/domain/dataset"
)

// ErrKindUnavailable is the explicit "this source does not carry that dataset
// kind" signal. It is expected steady state for most sources, not a failure;
// the pipeline records the skip and moves on.
var ErrKindUnavailable = crerr.New("dataset kind unavailable from source")

// RawRecord is one source-shaped row: arbitrary keys, arbitrary scalar values.
type RawRecord map[string]any

// Batch is everything a fetch collaborator hands over for one
// (league, season, kind): the raw rows plus the field map to interpret them.
type Batch struct {
	Source   string
	Kind     dataset.Kind
	Records  []RawRecord
	FieldMap FieldMap
}

// Provider is the fetch-collaborator contract. Implementations own transport,
// retries and authentication; the core only sees complete batches or a clean
// ErrKindUnavailable.
type Provider interface {
	Name() string
	Fetch(ctx context.Context, league, season string, kind dataset.Kind) (Batch, error)
}
