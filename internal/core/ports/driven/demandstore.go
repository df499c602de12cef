package driven

import (
	"context"

	"github.com/registrar-labs/courserec/internal/core/domain"
)

// DemandStore persists enrollment-demand records for the current snapshot.
type DemandStore interface {
	// ReplaceDemand destructively replaces all stored demand records.
	ReplaceDemand(ctx context.Context, records []domain.DemandRecord) error

	// CountDemand returns the number of stored demand records.
	CountDemand(ctx context.Context) (int64, error)
}
