package driven

import (
	"context"

	"github.com/registrar-labs/courserec/internal/core/domain"
)

// Subject is one subject code exposed by the catalog feed.
type Subject struct {
	Code string
	Name string
}

// CatalogAPI fetches raw course listings from the university's course
// web service. Implementations apply bounded timeouts and rate limiting;
// errors propagate to the caller rather than being retried.
type CatalogAPI interface {
	// Subjects lists all subject codes for the configured school.
	Subjects(ctx context.Context) ([]Subject, error)

	// Courses lists the raw course listings for one subject code and term.
	Courses(ctx context.Context, subjectCode, term string) ([]domain.RawListing, error)
}
