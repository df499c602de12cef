package driving

import "context"

// IngestStats summarises one ingestion run.
type IngestStats struct {
	// RawListings is the number of rows read from the feed or file.
	RawListings int

	// Courses is the number of canonical courses after cross-listing
	// collapse.
	Courses int

	// DemandRecords is the number of demand rows retained after
	// first-occurrence deduplication.
	DemandRecords int

	// DemandDropped is the number of demand rows dropped as duplicates or
	// code mismatches.
	DemandDropped int
}

// IngestService rebuilds the stored catalog snapshot from an external
// source. Each run is destructive: prior courses, descriptions and demand
// records are replaced wholesale.
type IngestService interface {
	// IngestCSV rebuilds the catalog from local CSV exports. demandPath may
	// be empty to skip demand ingestion.
	IngestCSV(ctx context.Context, coursesPath, demandPath string) (*IngestStats, error)

	// IngestAPI rebuilds the catalog from the course catalog web service
	// for the given term.
	IngestAPI(ctx context.Context, term string) (*IngestStats, error)
}
