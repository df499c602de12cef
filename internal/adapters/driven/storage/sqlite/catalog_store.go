package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"

	"github.com/registrar-labs/courserec/internal/core/domain"
	"github.com/registrar-labs/courserec/internal/core/ports/driven"
)

// catalogStore implements driven.CatalogStore.
type catalogStore struct {
	store *Store
}

var _ driven.CatalogStore = (*catalogStore)(nil)

const courseColumns = "course_id, subject_code, course_number, full_code, dept_code, dept_name, title, description, school, term, cross_listings"

// ReplaceCatalog swaps the stored snapshot inside one transaction.
// Dependent demand rows are cleared as well: a new catalog invalidates the
// previous snapshot's demand joins.
func (s *catalogStore) ReplaceCatalog(ctx context.Context, courses []domain.Course, descs []domain.NormalizedDescription) error {
	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	for _, table := range []string{"demand", "descriptions", "courses"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("clearing %s: %w", table, err)
		}
	}

	courseStmt, err := tx.PrepareContext(ctx,
		"INSERT INTO courses ("+courseColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)")
	if err != nil {
		return fmt.Errorf("preparing course insert: %w", err)
	}
	defer courseStmt.Close()

	for _, c := range courses {
		_, err := courseStmt.ExecContext(ctx,
			c.ID, c.SubjectCode, c.CourseNumber, c.FullCode(), c.DeptCode, c.DeptName,
			c.Title, c.RawDescription, c.School, c.Term, strings.Join(c.CrossListings, "|"))
		if err != nil {
			return fmt.Errorf("inserting course %d: %w", c.ID, err)
		}
	}

	descStmt, err := tx.PrepareContext(ctx,
		"INSERT INTO descriptions (course_id, clean_sentence, token_sentence) VALUES (?, ?, ?)")
	if err != nil {
		return fmt.Errorf("preparing description insert: %w", err)
	}
	defer descStmt.Close()

	for _, d := range descs {
		if _, err := descStmt.ExecContext(ctx, d.CourseID, d.CleanSentence, d.TokenSentence()); err != nil {
			return fmt.Errorf("inserting description %d: %w", d.CourseID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit catalog replace: %w", err)
	}
	return nil
}

// GetCourse retrieves a course by canonical ID.
func (s *catalogStore) GetCourse(ctx context.Context, id int64) (*domain.Course, error) {
	query, args, err := builder.
		Select(courseColumns).
		From("courses").
		Where(sq.Eq{"course_id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("building query: %w", err)
	}

	return scanCourse(s.store.db.QueryRowContext(ctx, query, args...))
}

// FindByTitle resolves an exact course title. When several courses carry
// the same title, the lowest canonical ID wins (deterministic).
func (s *catalogStore) FindByTitle(ctx context.Context, title string) (*domain.Course, error) {
	query, args, err := builder.
		Select(courseColumns).
		From("courses").
		Where(sq.Eq{"title": title}).
		OrderBy("course_id").
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("building query: %w", err)
	}

	return scanCourse(s.store.db.QueryRowContext(ctx, query, args...))
}

// SearchTitles returns courses whose titles contain the query,
// case-insensitively.
func (s *catalogStore) SearchTitles(ctx context.Context, q string, limit int) ([]domain.Course, error) {
	if limit <= 0 {
		limit = 50
	}

	query, args, err := builder.
		Select(courseColumns).
		From("courses").
		Where(sq.Expr("LOWER(title) LIKE '%' || LOWER(?) || '%'", q)).
		OrderBy("course_id").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("building query: %w", err)
	}

	rows, err := s.store.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("searching titles: %w", err)
	}
	defer rows.Close()

	var courses []domain.Course
	for rows.Next() {
		course, err := scanCourseRow(rows)
		if err != nil {
			return nil, err
		}
		courses = append(courses, *course)
	}
	return courses, rows.Err()
}

// Corpus returns (course_id, clean_sentence) pairs in ascending course-ID
// order, one per stored course. Courses without a description contribute
// an empty sentence.
func (s *catalogStore) Corpus(ctx context.Context) ([]domain.CorpusEntry, error) {
	query, args, err := builder.
		Select("c.course_id", "COALESCE(d.clean_sentence, '')").
		From("courses c").
		LeftJoin("descriptions d ON c.course_id = d.course_id").
		OrderBy("c.course_id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("building query: %w", err)
	}

	rows, err := s.store.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("loading corpus: %w", err)
	}
	defer rows.Close()

	var corpus []domain.CorpusEntry
	for rows.Next() {
		var entry domain.CorpusEntry
		if err := rows.Scan(&entry.CourseID, &entry.CleanSentence); err != nil {
			return nil, fmt.Errorf("scanning corpus entry: %w", err)
		}
		corpus = append(corpus, entry)
	}
	return corpus, rows.Err()
}

// Titles returns the course-ID to title mapping for the whole catalog.
func (s *catalogStore) Titles(ctx context.Context) (map[int64]string, error) {
	rows, err := s.store.db.QueryContext(ctx, "SELECT course_id, title FROM courses")
	if err != nil {
		return nil, fmt.Errorf("loading titles: %w", err)
	}
	defer rows.Close()

	titles := make(map[int64]string)
	for rows.Next() {
		var (
			id    int64
			title string
		)
		if err := rows.Scan(&id, &title); err != nil {
			return nil, fmt.Errorf("scanning title: %w", err)
		}
		titles[id] = title
	}
	return titles, rows.Err()
}

// rowScanner covers both sql.Row and sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanCourse(row *sql.Row) (*domain.Course, error) {
	course, err := scanCourseRow(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	return course, err
}

func scanCourseRow(scanner rowScanner) (*domain.Course, error) {
	var (
		course        domain.Course
		fullCode      string
		crossListings string
	)
	err := scanner.Scan(
		&course.ID, &course.SubjectCode, &course.CourseNumber, &fullCode,
		&course.DeptCode, &course.DeptName, &course.Title, &course.RawDescription,
		&course.School, &course.Term, &crossListings)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning course: %w", err)
	}
	if crossListings != "" {
		course.CrossListings = strings.Split(crossListings, "|")
	}
	return &course, nil
}
