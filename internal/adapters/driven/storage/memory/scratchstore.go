package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/registrar-labs/courserec/internal/core/domain"
	"github.com/registrar-labs/courserec/internal/core/ports/driven"
)

var _ driven.ScratchStore = (*ScratchStore)(nil)

// ScratchStore is an in-memory implementation of driven.ScratchStore. It
// joins scratch sets against sibling catalog and demand stores the way the
// SQLite adapter joins tables.
type ScratchStore struct {
	mu      sync.RWMutex
	catalog *CatalogStore
	demand  *DemandStore
	sets    map[string][]domain.Recommendation
}

// NewScratchStore creates a scratch store joined against the given catalog
// and demand stores.
func NewScratchStore(catalog *CatalogStore, demand *DemandStore) *ScratchStore {
	return &ScratchStore{
		catalog: catalog,
		demand:  demand,
		sets:    make(map[string][]domain.Recommendation),
	}
}

// WriteRecommendations stores a recommendation set under requestID.
func (s *ScratchStore) WriteRecommendations(_ context.Context, requestID string, recs []domain.Recommendation) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	set := make([]domain.Recommendation, len(recs))
	copy(set, recs)
	s.sets[requestID] = set
	return nil
}

// RowsBySimilarity returns the joined set ordered by similarity descending.
func (s *ScratchStore) RowsBySimilarity(_ context.Context, requestID string) ([]domain.DemandRow, error) {
	rows := s.joinedRows(requestID)
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Similarity != rows[j].Similarity {
			return rows[i].Similarity > rows[j].Similarity
		}
		return rows[i].CourseID < rows[j].CourseID
	})
	return rows, nil
}

// RowsByDemand returns the joined set ordered by demand descending, rows
// without demand data last.
func (s *ScratchStore) RowsByDemand(_ context.Context, requestID string) ([]domain.DemandRow, error) {
	rows := s.joinedRows(requestID)
	sort.SliceStable(rows, func(i, j int) bool {
		di, dj := rows[i].Demand, rows[j].Demand
		switch {
		case di == nil && dj == nil:
			return rows[i].CourseID < rows[j].CourseID
		case di == nil:
			return false
		case dj == nil:
			return true
		case *di != *dj:
			return *di > *dj
		default:
			return rows[i].CourseID < rows[j].CourseID
		}
	})
	return rows, nil
}

// OverallAverage returns the mean demand across the set; nil when no
// course in the set has a demand row.
func (s *ScratchStore) OverallAverage(_ context.Context, requestID string) (*float64, error) {
	return s.average(requestID), nil
}

// DepartmentDemand groups the set's demand by department name.
func (s *ScratchStore) DepartmentDemand(_ context.Context, requestID string) ([]domain.DepartmentDemand, error) {
	type group struct {
		sum   int64
		known int64
		count int
	}
	groups := make(map[string]*group)
	for _, row := range s.joinedRows(requestID) {
		g, ok := groups[row.DeptName]
		if !ok {
			g = &group{}
			groups[row.DeptName] = g
		}
		g.count++
		if row.Demand != nil {
			g.sum += *row.Demand
			g.known++
		}
	}

	names := make([]string, 0, len(groups))
	for name := range groups {
		names = append(names, name)
	}
	sort.Strings(names)

	depts := make([]domain.DepartmentDemand, 0, len(names))
	for _, name := range names {
		g := groups[name]
		dept := domain.DepartmentDemand{DeptName: name, Count: g.count}
		if g.known > 0 {
			avg := float64(g.sum) / float64(g.known)
			dept.Average = &avg
		}
		depts = append(depts, dept)
	}
	return depts, nil
}

// AboveAverage returns rows with demand strictly greater than the set's
// mean. Rows without demand data are excluded.
func (s *ScratchStore) AboveAverage(_ context.Context, requestID string) ([]domain.DemandRow, error) {
	avg := s.average(requestID)
	if avg == nil {
		return nil, nil
	}

	var rows []domain.DemandRow
	for _, row := range s.joinedRows(requestID) {
		if row.Demand != nil && float64(*row.Demand) > *avg {
			rows = append(rows, row)
		}
	}
	sort.SliceStable(rows, func(i, j int) bool {
		if *rows[i].Demand != *rows[j].Demand {
			return *rows[i].Demand > *rows[j].Demand
		}
		return rows[i].CourseID < rows[j].CourseID
	})
	return rows, nil
}

// BelowAverage returns rows with demand strictly less than the set's mean.
func (s *ScratchStore) BelowAverage(_ context.Context, requestID string) ([]domain.DemandRow, error) {
	avg := s.average(requestID)
	if avg == nil {
		return nil, nil
	}

	var rows []domain.DemandRow
	for _, row := range s.joinedRows(requestID) {
		if row.Demand != nil && float64(*row.Demand) < *avg {
			rows = append(rows, row)
		}
	}
	sort.SliceStable(rows, func(i, j int) bool {
		if *rows[i].Demand != *rows[j].Demand {
			return *rows[i].Demand < *rows[j].Demand
		}
		return rows[i].CourseID < rows[j].CourseID
	})
	return rows, nil
}

// Clear removes all scratch rows for requestID.
func (s *ScratchStore) Clear(_ context.Context, requestID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sets, requestID)
	return nil
}

func (s *ScratchStore) joinedRows(requestID string) []domain.DemandRow {
	s.mu.RLock()
	set := s.sets[requestID]
	s.mu.RUnlock()

	rows := make([]domain.DemandRow, 0, len(set))
	for _, rec := range set {
		row := domain.DemandRow{CourseID: rec.CourseID, Similarity: rec.Score}
		s.catalog.mu.RLock()
		if course, ok := s.catalog.courses[rec.CourseID]; ok {
			row.FullCode = course.FullCode()
			row.Title = course.Title
			row.Description = course.RawDescription
			row.DeptName = course.DeptName
		}
		s.catalog.mu.RUnlock()
		if demand, ok := s.demand.demandFor(rec.CourseID); ok {
			row.Demand = &demand
		}
		rows = append(rows, row)
	}
	return rows
}

func (s *ScratchStore) average(requestID string) *float64 {
	var (
		sum   int64
		known int64
	)
	for _, row := range s.joinedRows(requestID) {
		if row.Demand != nil {
			sum += *row.Demand
			known++
		}
	}
	if known == 0 {
		return nil
	}
	avg := float64(sum) / float64(known)
	return &avg
}
