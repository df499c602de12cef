package memory

import (
	"context"
	"sync"

	"github.com/registrar-labs/courserec/internal/core/domain"
	"github.com/registrar-labs/courserec/internal/core/ports/driven"
)

var _ driven.DemandStore = (*DemandStore)(nil)

// DemandStore is an in-memory implementation of driven.DemandStore.
type DemandStore struct {
	mu      sync.RWMutex
	records []domain.DemandRecord
}

// NewDemandStore creates an empty in-memory demand store.
func NewDemandStore() *DemandStore {
	return &DemandStore{}
}

// ReplaceDemand swaps all stored demand records.
func (s *DemandStore) ReplaceDemand(_ context.Context, records []domain.DemandRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = make([]domain.DemandRecord, len(records))
	copy(s.records, records)
	return nil
}

// CountDemand returns the number of stored demand records.
func (s *DemandStore) CountDemand(_ context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return int64(len(s.records)), nil
}

// demandFor returns the demand for a resolved course, if any record maps
// to it.
func (s *DemandStore) demandFor(courseID int64) (int64, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, r := range s.records {
		if r.CourseID != nil && *r.CourseID == courseID {
			return r.Demand, true
		}
	}
	return 0, false
}
