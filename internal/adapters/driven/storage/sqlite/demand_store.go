package sqlite

import (
	"context"
	"fmt"

	"github.com/registrar-labs/courserec/internal/core/domain"
	"github.com/registrar-labs/courserec/internal/core/ports/driven"
)

// demandStore implements driven.DemandStore.
type demandStore struct {
	store *Store
}

var _ driven.DemandStore = (*demandStore)(nil)

// ReplaceDemand swaps all stored demand records inside one transaction.
func (s *demandStore) ReplaceDemand(ctx context.Context, records []domain.DemandRecord) error {
	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	if _, err := tx.ExecContext(ctx, "DELETE FROM demand"); err != nil {
		return fmt.Errorf("clearing demand: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		"INSERT INTO demand (course_id, course_code, course_title, demand) VALUES (?, ?, ?, ?)")
	if err != nil {
		return fmt.Errorf("preparing demand insert: %w", err)
	}
	defer stmt.Close()

	for _, r := range records {
		// r.CourseID may be nil; the driver stores it as NULL.
		var courseID any
		if r.CourseID != nil {
			courseID = *r.CourseID
		}
		if _, err := stmt.ExecContext(ctx, courseID, r.CourseCode, r.CourseTitle, r.Demand); err != nil {
			return fmt.Errorf("inserting demand for %q: %w", r.CourseCode, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit demand replace: %w", err)
	}
	return nil
}

// CountDemand returns the number of stored demand records.
func (s *demandStore) CountDemand(ctx context.Context) (int64, error) {
	var count int64
	err := s.store.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM demand").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting demand: %w", err)
	}
	return count, nil
}
