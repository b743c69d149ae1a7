package usecase

import (
	"fmt"
	"sort"
	"sync"

	idgen "github.com/courtdata/statpipe/internal/platform/id"
)

// RunRecord is one registered run outcome, addressable by (league, season).
type RunRecord struct {
	RunID  string
	Result RunResult
}

// RunRegistry keeps the latest run result per (league, season) so operators
// can inspect reports after the fact. In-memory and process-local; durable
// artifacts live in the sinks.
type RunRegistry struct {
	mu     sync.RWMutex
	byKey  map[string]RunRecord
	nextID idgen.Generator
}

func NewRunRegistry(generator idgen.Generator) *RunRegistry {
	if generator == nil {
		generator = idgen.NewPrefixedGenerator("run")
	}
	return &RunRegistry{
		byKey:  make(map[string]RunRecord),
		nextID: generator,
	}
}

func (r *RunRegistry) Store(result RunResult) {
	runID, err := r.nextID.NewID()
	if err != nil {
		runID = fmt.Sprintf("%s-%s-%d", result.League, result.Season, result.StartedAt.UnixNano())
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.byKey[result.League+"|"+result.Season] = RunRecord{RunID: runID, Result: result}
}

func (r *RunRegistry) Get(league, season string) (RunRecord, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	record, ok := r.byKey[league+"|"+season]
	return record, ok
}

// List returns every record ordered by (league, season).
func (r *RunRegistry) List() []RunRecord {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]RunRecord, 0, len(r.byKey))
	for _, record := range r.byKey {
		out = append(out, record)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Result.League != out[j].Result.League {
			return out[i].Result.League < out[j].Result.League
		}
		return out[i].Result.Season < out[j].Result.Season
	})
	return out
}
