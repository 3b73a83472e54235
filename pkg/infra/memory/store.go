package memory

import (
	"context"
	"sync"

	"github.com/m-mizutani/ferryman/pkg/domain/model"
	"github.com/m-mizutani/goerr/v2"
)

// defaultCapacity bounds the number of retained run reports. Oldest runs
// are evicted first.
const defaultCapacity = 256

type store struct {
	mu       sync.RWMutex
	reports  map[string]*model.RunReport
	order    []string
	capacity int
}

// NewStore creates a bounded in-memory run store. It is the default store
// of serve mode when no persistent backend is configured.
func NewStore() *store {
	return &store{
		reports:  make(map[string]*model.RunReport),
		capacity: defaultCapacity,
	}
}

func (s *store) Put(ctx context.Context, report *model.RunReport) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.reports[report.ID]; !exists {
		s.order = append(s.order, report.ID)
	}
	s.reports[report.ID] = report

	for len(s.order) > s.capacity {
		delete(s.reports, s.order[0])
		s.order = s.order[1:]
	}

	return nil
}

func (s *store) Get(ctx context.Context, id string) (*model.RunReport, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	report, ok := s.reports[id]
	if !ok {
		return nil, goerr.New("run report not found", goerr.V("id", id))
	}
	return report, nil
}

// List returns the most recent reports, newest first.
func (s *store) List(ctx context.Context, limit int) ([]*model.RunReport, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 || limit > len(s.order) {
		limit = len(s.order)
	}

	reports := make([]*model.RunReport, 0, limit)
	for i := len(s.order) - 1; i >= 0 && len(reports) < limit; i-- {
		reports = append(reports, s.reports[s.order[i]])
	}
	return reports, nil
}
