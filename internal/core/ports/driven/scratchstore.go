package driven

import (
	"context"

	"github.com/registrar-labs/courserec/internal/core/domain"
)

// ScratchStore holds transient recommendation sets long enough to run the
// demand join and aggregate queries against them. Rows are keyed by a
// per-request ID so concurrent requests never observe each other's sets;
// callers must Clear the ID when done.
type ScratchStore interface {
	// WriteRecommendations stores a recommendation set under requestID.
	WriteRecommendations(ctx context.Context, requestID string, recs []domain.Recommendation) error

	// RowsBySimilarity returns the recommendation set left-joined with the
	// catalog and demand tables, ordered by similarity descending.
	RowsBySimilarity(ctx context.Context, requestID string) ([]domain.DemandRow, error)

	// RowsByDemand returns the same join ordered by demand descending,
	// rows without demand data last.
	RowsByDemand(ctx context.Context, requestID string) ([]domain.DemandRow, error)

	// OverallAverage returns the mean demand across the set, nil when no
	// course in the set has a demand row.
	OverallAverage(ctx context.Context, requestID string) (*float64, error)

	// DepartmentDemand returns per-department averages and counts for the
	// set, ordered by department name.
	DepartmentDemand(ctx context.Context, requestID string) ([]domain.DepartmentDemand, error)

	// AboveAverage returns rows whose demand is strictly greater than the
	// set's overall average; BelowAverage strictly less. Rows without
	// demand data appear in neither.
	AboveAverage(ctx context.Context, requestID string) ([]domain.DemandRow, error)
	BelowAverage(ctx context.Context, requestID string) ([]domain.DemandRow, error)

	// Clear removes all scratch rows for requestID.
	Clear(ctx context.Context, requestID string) error
}
