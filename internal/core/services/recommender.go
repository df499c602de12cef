package services

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/registrar-labs/courserec/internal/core/domain"
	"github.com/registrar-labs/courserec/internal/core/ports/driven"
	"github.com/registrar-labs/courserec/internal/core/ports/driving"
	"github.com/registrar-labs/courserec/internal/logger"
)

// Ensure Recommender implements the interface.
var _ driving.RecommenderService = (*Recommender)(nil)

// DefaultTopK is the number of recommendations returned when the caller
// does not ask for a specific count.
const DefaultTopK = 10

// scoreDecimals fixes the precision of similarity scores in results, for
// stable storage and display.
const scoreDecimals = 1e5

// Recommender resolves a source course into a ranked, title-deduplicated
// recommendation list and joins it against demand statistics. It holds the
// similarity index built at startup; requests are stateless and safe to
// run concurrently.
type Recommender struct {
	index      *SimilarityIndex
	titles     map[int64]string
	catalog    driven.CatalogStore
	aggregator *DemandAggregator
}

// NewRecommender wires the index, the catalog title mapping used for
// cross-listing deduplication, and the demand aggregator.
func NewRecommender(
	index *SimilarityIndex,
	titles map[int64]string,
	catalog driven.CatalogStore,
	aggregator *DemandAggregator,
) *Recommender {
	return &Recommender{
		index:      index,
		titles:     titles,
		catalog:    catalog,
		aggregator: aggregator,
	}
}

// Recommend ranks all other courses by similarity to the source course and
// returns the top k distinct titles, most-similar first. The source course
// and any candidate sharing an already-accepted title are skipped, which
// collapses cross-listed and identically-titled sections. Fewer than k
// results are returned when the deduplicated pool is smaller.
func (r *Recommender) Recommend(_ context.Context, sourceCourseID int64, k int) ([]domain.Recommendation, error) {
	if r.index == nil {
		return nil, domain.ErrIndexNotBuilt
	}
	if k <= 0 {
		k = DefaultTopK
	}

	sourceRow, ok := r.index.Row(sourceCourseID)
	if !ok {
		return nil, fmt.Errorf("course %d: %w", sourceCourseID, domain.ErrNotFound)
	}

	logger.Section("Recommendation")
	logger.Debug("source course %d (row %d), k=%d", sourceCourseID, sourceRow, k)

	type candidate struct {
		row   int
		score float64
	}
	candidates := make([]candidate, 0, r.index.Len()-1)
	for row := 0; row < r.index.Len(); row++ {
		if row == sourceRow {
			continue
		}
		candidates = append(candidates, candidate{row: row, score: r.index.Similarity(sourceRow, row)})
	}

	// Stable sort: ties keep ascending row order, so results are
	// deterministic across rebuilds of the same corpus.
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})

	seenTitles := map[string]struct{}{
		r.titles[sourceCourseID]: {},
	}

	recs := make([]domain.Recommendation, 0, k)
	for _, c := range candidates {
		if len(recs) == k {
			break
		}
		id := r.index.CourseID(c.row)
		title := r.titles[id]
		if _, dup := seenTitles[title]; dup {
			continue
		}
		seenTitles[title] = struct{}{}
		recs = append(recs, domain.Recommendation{
			CourseID: id,
			Score:    math.Round(c.score*scoreDecimals) / scoreDecimals,
		})
	}

	logger.Debug("accepted %d of %d candidates", len(recs), len(candidates))
	return recs, nil
}

// Report computes the demand report for a recommendation set.
func (r *Recommender) Report(ctx context.Context, recs []domain.Recommendation) (*domain.DemandReport, error) {
	return r.aggregator.Summarize(ctx, recs)
}

// ResolveTitle maps an exact course title to its catalog record.
func (r *Recommender) ResolveTitle(ctx context.Context, title string) (*domain.Course, error) {
	return r.catalog.FindByTitle(ctx, title)
}

// ResolveCourse fetches the catalog record for a canonical course ID.
func (r *Recommender) ResolveCourse(ctx context.Context, id int64) (*domain.Course, error) {
	return r.catalog.GetCourse(ctx, id)
}

// Search returns catalog courses whose titles contain the query.
func (r *Recommender) Search(ctx context.Context, query string, limit int) ([]domain.Course, error) {
	return r.catalog.SearchTitles(ctx, query, limit)
}
