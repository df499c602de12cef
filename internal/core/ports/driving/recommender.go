package driving

import (
	"context"

	"github.com/registrar-labs/courserec/internal/core/domain"
)

// RecommenderService resolves a source course into ranked, deduplicated
// recommendations and the demand report computed over them. Safe for
// concurrent use once the index is built.
type RecommenderService interface {
	// Recommend returns up to k courses most similar to the source course,
	// deduplicated by title, most-similar first. Returns domain.ErrNotFound
	// when the source course is not in the index.
	Recommend(ctx context.Context, sourceCourseID int64, k int) ([]domain.Recommendation, error)

	// Report joins a recommendation set against demand data and computes
	// the ranked listings and summary statistics.
	Report(ctx context.Context, recs []domain.Recommendation) (*domain.DemandReport, error)

	// ResolveTitle maps an exact course title to its catalog record.
	ResolveTitle(ctx context.Context, title string) (*domain.Course, error)

	// ResolveCourse fetches the catalog record for a canonical course ID.
	ResolveCourse(ctx context.Context, id int64) (*domain.Course, error)

	// Search returns catalog courses whose titles match the query.
	Search(ctx context.Context, query string, limit int) ([]domain.Course, error)
}
