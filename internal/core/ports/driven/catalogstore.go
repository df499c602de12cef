package driven

import (
	"context"

	"github.com/registrar-labs/courserec/internal/core/domain"
)

// CatalogStore persists the canonical course catalog and its normalised
// descriptions. Backed by SQLite.
type CatalogStore interface {
	// ReplaceCatalog destructively replaces the stored catalog snapshot:
	// existing courses and descriptions are dropped and the given records
	// inserted, all within one transaction.
	ReplaceCatalog(ctx context.Context, courses []domain.Course, descs []domain.NormalizedDescription) error

	// GetCourse retrieves a course by canonical ID.
	// Returns domain.ErrNotFound when absent.
	GetCourse(ctx context.Context, id int64) (*domain.Course, error)

	// FindByTitle resolves an exact course title to its canonical course.
	// Returns domain.ErrNotFound when no course carries the title.
	FindByTitle(ctx context.Context, title string) (*domain.Course, error)

	// SearchTitles returns up to limit courses whose title contains the
	// query, case-insensitively, ordered by course ID.
	SearchTitles(ctx context.Context, query string, limit int) ([]domain.Course, error)

	// Corpus returns one entry per stored course in ascending course-ID
	// order, pairing each course with its clean sentence (empty string when
	// the course has no description).
	Corpus(ctx context.Context) ([]domain.CorpusEntry, error)

	// Titles returns the course-ID to title mapping for the whole catalog.
	Titles(ctx context.Context) (map[int64]string, error)
}
