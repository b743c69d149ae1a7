// Package memory keeps saved artifacts in process, for tests and dry runs.
package memory

import (
	"context"
	"sync"

	"github.com/courtdata/statpipe/internal/domain/dataset"
	"github.com/courtdata/statpipe/internal/qa"
)

type Sink struct {
	mu       sync.RWMutex
	datasets map[string]*dataset.Table
	reports  map[string]*qa.Report
}

func NewSink() *Sink {
	return &Sink{
		datasets: make(map[string]*dataset.Table),
		reports:  make(map[string]*qa.Report),
	}
}

func (s *Sink) SaveDataset(_ context.Context, table *dataset.Table) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.datasets[datasetKey(table.League(), table.Season(), table.Kind())] = table
	return nil
}

func (s *Sink) SaveReport(_ context.Context, league, season string, report *qa.Report) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.reports[league+"|"+season] = report
	return nil
}

func (s *Sink) Dataset(league, season string, kind dataset.Kind) (*dataset.Table, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	table, ok := s.datasets[datasetKey(league, season, kind)]
	return table, ok
}

func (s *Sink) Report(league, season string) (*qa.Report, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	report, ok := s.reports[league+"|"+season]
	return report, ok
}

func (s *Sink) DatasetCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.datasets)
}

func datasetKey(league, season string, kind dataset.Kind) string {
	return league + "|" + season + "|" + string(kind)
}
