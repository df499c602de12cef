package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/registrar-labs/courserec/internal/core/domain"
	"github.com/registrar-labs/courserec/internal/core/ports/driven"
)

// scratchStore implements driven.ScratchStore. Scratch rows are keyed by a
// per-request ID so concurrent recommendation requests never share a set.
type scratchStore struct {
	store *Store
}

var _ driven.ScratchStore = (*scratchStore)(nil)

// overallAvgSubquery computes the set's mean demand, scoped to one request.
const overallAvgSubquery = "(SELECT AVG(d2.demand) FROM rec_scratch r2 " +
	"LEFT JOIN demand d2 ON r2.course_id = d2.course_id " +
	"WHERE r2.request_id = ?)"

// WriteRecommendations stores a recommendation set under requestID.
func (s *scratchStore) WriteRecommendations(ctx context.Context, requestID string, recs []domain.Recommendation) error {
	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	stmt, err := tx.PrepareContext(ctx,
		"INSERT INTO rec_scratch (request_id, course_id, similarity) VALUES (?, ?, ?)")
	if err != nil {
		return fmt.Errorf("preparing scratch insert: %w", err)
	}
	defer stmt.Close()

	for _, rec := range recs {
		if _, err := stmt.ExecContext(ctx, requestID, rec.CourseID, rec.Score); err != nil {
			return fmt.Errorf("inserting scratch row %d: %w", rec.CourseID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit scratch set: %w", err)
	}
	return nil
}

// joinSelect builds the recommendation/catalog/demand left join shared by
// all listing queries.
func joinSelect(requestID string) sq.SelectBuilder {
	return builder.
		Select(
			"r.course_id",
			"COALESCE(c.full_code, '')",
			"COALESCE(c.title, '')",
			"COALESCE(c.description, '')",
			"COALESCE(c.dept_name, '')",
			"d.demand",
			"r.similarity",
		).
		From("rec_scratch r").
		LeftJoin("courses c ON r.course_id = c.course_id").
		LeftJoin("demand d ON r.course_id = d.course_id").
		Where(sq.Eq{"r.request_id": requestID})
}

// RowsBySimilarity returns the joined set ordered by similarity descending.
func (s *scratchStore) RowsBySimilarity(ctx context.Context, requestID string) ([]domain.DemandRow, error) {
	return s.queryRows(ctx, joinSelect(requestID).OrderBy("r.similarity DESC", "r.course_id"))
}

// RowsByDemand returns the joined set ordered by demand descending, rows
// without demand data last.
func (s *scratchStore) RowsByDemand(ctx context.Context, requestID string) ([]domain.DemandRow, error) {
	return s.queryRows(ctx, joinSelect(requestID).
		OrderBy("d.demand IS NULL", "d.demand DESC", "r.course_id"))
}

// OverallAverage returns the mean demand across the set; nil when no
// course in the set has a demand row (SQL AVG over all NULLs).
func (s *scratchStore) OverallAverage(ctx context.Context, requestID string) (*float64, error) {
	var avg sql.NullFloat64
	err := s.store.db.QueryRowContext(ctx,
		"SELECT "+overallAvgSubquery, requestID).Scan(&avg)
	if err != nil {
		return nil, fmt.Errorf("querying overall average: %w", err)
	}
	if !avg.Valid {
		return nil, nil
	}
	return &avg.Float64, nil
}

// DepartmentDemand groups the set's demand by department name. AVG ignores
// NULL demand; COUNT(*) counts every course in the group.
func (s *scratchStore) DepartmentDemand(ctx context.Context, requestID string) ([]domain.DepartmentDemand, error) {
	query, args, err := builder.
		Select("COALESCE(c.dept_name, '')", "AVG(d.demand)", "COUNT(*)").
		From("rec_scratch r").
		LeftJoin("courses c ON r.course_id = c.course_id").
		LeftJoin("demand d ON r.course_id = d.course_id").
		Where(sq.Eq{"r.request_id": requestID}).
		GroupBy("c.dept_name").
		OrderBy("c.dept_name").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("building query: %w", err)
	}

	rows, err := s.store.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying department demand: %w", err)
	}
	defer rows.Close()

	var depts []domain.DepartmentDemand
	for rows.Next() {
		var (
			dept domain.DepartmentDemand
			avg  sql.NullFloat64
		)
		if err := rows.Scan(&dept.DeptName, &avg, &dept.Count); err != nil {
			return nil, fmt.Errorf("scanning department demand: %w", err)
		}
		if avg.Valid {
			dept.Average = &avg.Float64
		}
		depts = append(depts, dept)
	}
	return depts, rows.Err()
}

// AboveAverage returns rows with demand strictly greater than the set's
// mean. NULL demand fails the comparison, so unmatched rows are excluded.
func (s *scratchStore) AboveAverage(ctx context.Context, requestID string) ([]domain.DemandRow, error) {
	return s.queryRows(ctx, joinSelect(requestID).
		Where(sq.Expr("d.demand > "+overallAvgSubquery, requestID)).
		OrderBy("d.demand DESC", "r.course_id"))
}

// BelowAverage returns rows with demand strictly less than the set's mean.
func (s *scratchStore) BelowAverage(ctx context.Context, requestID string) ([]domain.DemandRow, error) {
	return s.queryRows(ctx, joinSelect(requestID).
		Where(sq.Expr("d.demand < "+overallAvgSubquery, requestID)).
		OrderBy("d.demand", "r.course_id"))
}

// Clear removes all scratch rows for requestID.
func (s *scratchStore) Clear(ctx context.Context, requestID string) error {
	_, err := s.store.db.ExecContext(ctx,
		"DELETE FROM rec_scratch WHERE request_id = ?", requestID)
	if err != nil {
		return fmt.Errorf("clearing scratch set: %w", err)
	}
	return nil
}

func (s *scratchStore) queryRows(ctx context.Context, q sq.SelectBuilder) ([]domain.DemandRow, error) {
	query, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("building query: %w", err)
	}

	rows, err := s.store.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying scratch join: %w", err)
	}
	defer rows.Close()

	var result []domain.DemandRow
	for rows.Next() {
		var (
			row    domain.DemandRow
			demand sql.NullInt64
		)
		err := rows.Scan(&row.CourseID, &row.FullCode, &row.Title,
			&row.Description, &row.DeptName, &demand, &row.Similarity)
		if err != nil {
			return nil, fmt.Errorf("scanning scratch row: %w", err)
		}
		if demand.Valid {
			row.Demand = &demand.Int64
		}
		result = append(result, row)
	}
	return result, rows.Err()
}
