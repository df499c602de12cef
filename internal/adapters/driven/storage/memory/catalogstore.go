// Package memory provides in-memory implementations of the storage ports
// for tests and lightweight wiring.
package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/registrar-labs/courserec/internal/core/domain"
	"github.com/registrar-labs/courserec/internal/core/ports/driven"
)

// Ensure CatalogStore implements the interface.
var _ driven.CatalogStore = (*CatalogStore)(nil)

// CatalogStore is an in-memory implementation of driven.CatalogStore.
type CatalogStore struct {
	mu      sync.RWMutex
	courses map[int64]domain.Course
	descs   map[int64]domain.NormalizedDescription
}

// NewCatalogStore creates an empty in-memory catalog store.
func NewCatalogStore() *CatalogStore {
	return &CatalogStore{
		courses: make(map[int64]domain.Course),
		descs:   make(map[int64]domain.NormalizedDescription),
	}
}

// ReplaceCatalog swaps the stored snapshot.
func (s *CatalogStore) ReplaceCatalog(_ context.Context, courses []domain.Course, descs []domain.NormalizedDescription) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.courses = make(map[int64]domain.Course, len(courses))
	for _, c := range courses {
		s.courses[c.ID] = c
	}
	s.descs = make(map[int64]domain.NormalizedDescription, len(descs))
	for _, d := range descs {
		s.descs[d.CourseID] = d
	}
	return nil
}

// GetCourse retrieves a course by canonical ID.
func (s *CatalogStore) GetCourse(_ context.Context, id int64) (*domain.Course, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	course, ok := s.courses[id]
	if !ok {
		return nil, fmt.Errorf("course %d: %w", id, domain.ErrNotFound)
	}
	return &course, nil
}

// FindByTitle resolves an exact title; lowest course ID wins ties.
func (s *CatalogStore) FindByTitle(_ context.Context, title string) (*domain.Course, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var (
		found *domain.Course
		best  int64
	)
	for id, course := range s.courses {
		if course.Title != title {
			continue
		}
		if found == nil || id < best {
			c := course
			found, best = &c, id
		}
	}
	if found == nil {
		return nil, fmt.Errorf("title %q: %w", title, domain.ErrNotFound)
	}
	return found, nil
}

// SearchTitles returns courses whose titles contain the query.
func (s *CatalogStore) SearchTitles(_ context.Context, query string, limit int) ([]domain.Course, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = 50
	}
	needle := strings.ToLower(query)

	var matches []domain.Course
	for _, course := range s.courses {
		if strings.Contains(strings.ToLower(course.Title), needle) {
			matches = append(matches, course)
		}
	}
	sort.Slice(matches, func(i, j int) bool { return matches[i].ID < matches[j].ID })
	if len(matches) > limit {
		matches = matches[:limit]
	}
	return matches, nil
}

// Corpus returns entries in ascending course-ID order.
func (s *CatalogStore) Corpus(_ context.Context) ([]domain.CorpusEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	corpus := make([]domain.CorpusEntry, 0, len(s.courses))
	for id := range s.courses {
		corpus = append(corpus, domain.CorpusEntry{
			CourseID:      id,
			CleanSentence: s.descs[id].CleanSentence,
		})
	}
	sort.Slice(corpus, func(i, j int) bool { return corpus[i].CourseID < corpus[j].CourseID })
	return corpus, nil
}

// Titles returns the course-ID to title mapping.
func (s *CatalogStore) Titles(_ context.Context) (map[int64]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	titles := make(map[int64]string, len(s.courses))
	for id, course := range s.courses {
		titles[id] = course.Title
	}
	return titles, nil
}
