package services

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/registrar-labs/courserec/internal/core/domain"
	"github.com/registrar-labs/courserec/internal/core/ports/driven"
	"github.com/registrar-labs/courserec/internal/core/ports/driving"
	"github.com/registrar-labs/courserec/internal/logger"
)

// Ensure Ingest implements the interface.
var _ driving.IngestService = (*Ingest)(nil)

// fullCodeExpr splits a catalog code like "CPSC223" or "E&RS 291" into its
// subject prefix and course number.
var fullCodeExpr = regexp.MustCompile(`^([A-Za-z&]+)\s*(\d+[A-Za-z]*)$`)

// Ingest rebuilds the stored catalog snapshot from the course feed or
// local CSV exports. Every run is destructive: the previous snapshot is
// replaced wholesale.
type Ingest struct {
	catalog    driven.CatalogStore
	demand     driven.DemandStore
	api        driven.CatalogAPI
	normaliser driven.Normaliser
}

// NewIngest wires the stores, the catalog feed client (may be nil when
// only CSV ingestion is used), and the description normaliser.
func NewIngest(
	catalog driven.CatalogStore,
	demand driven.DemandStore,
	api driven.CatalogAPI,
	normaliser driven.Normaliser,
) *Ingest {
	return &Ingest{
		catalog:    catalog,
		demand:     demand,
		api:        api,
		normaliser: normaliser,
	}
}

// IngestCSV rebuilds the catalog from CSV exports. The courses file
// carries one raw listing per row: raw id, full code, title, department
// code, department name, description. The optional demand file carries
// raw course id, course code, demand count.
func (s *Ingest) IngestCSV(ctx context.Context, coursesPath, demandPath string) (*driving.IngestStats, error) {
	listings, err := readCoursesCSV(coursesPath)
	if err != nil {
		return nil, fmt.Errorf("read courses file: %w", err)
	}

	stats, canonical, err := s.rebuildCatalog(ctx, listings)
	if err != nil {
		return nil, err
	}

	if demandPath == "" {
		return stats, nil
	}

	records, dropped, err := s.readDemandCSV(demandPath, canonical)
	if err != nil {
		return nil, fmt.Errorf("read demand file: %w", err)
	}

	if err := s.demand.ReplaceDemand(ctx, records); err != nil {
		return nil, fmt.Errorf("replace demand: %w", err)
	}

	stats.DemandRecords = len(records)
	stats.DemandDropped = dropped
	return stats, nil
}

// IngestAPI rebuilds the catalog from the course web service for one term.
// Demand data is not served by the feed; ingest it separately from CSV.
func (s *Ingest) IngestAPI(ctx context.Context, term string) (*driving.IngestStats, error) {
	if s.api == nil {
		return nil, fmt.Errorf("catalog API client not configured: %w", domain.ErrInvalidInput)
	}

	subjects, err := s.api.Subjects(ctx)
	if err != nil {
		return nil, fmt.Errorf("list subjects: %w", err)
	}
	logger.Info("fetching %d subjects for term %s", len(subjects), term)

	var listings []domain.RawListing
	for _, subject := range subjects {
		courses, err := s.api.Courses(ctx, subject.Code, term)
		if err != nil {
			return nil, fmt.Errorf("fetch subject %s: %w", subject.Code, err)
		}
		listings = append(listings, courses...)
	}

	stats, _, err := s.rebuildCatalog(ctx, listings)
	return stats, err
}

// rebuildCatalog canonicalizes raw listings, normalises descriptions, and
// replaces the stored snapshot. It returns the raw-listing to canonical-id
// mapping for demand resolution.
func (s *Ingest) rebuildCatalog(ctx context.Context, listings []domain.RawListing) (*driving.IngestStats, *canonicalCatalog, error) {
	canonical := canonicalize(listings)
	logger.Info("canonicalized %d raw listings into %d courses", len(listings), len(canonical.courses))

	descs := make([]domain.NormalizedDescription, len(canonical.courses))
	for i, course := range canonical.courses {
		descs[i] = s.normaliser.Normalise(course.RawDescription)
		descs[i].CourseID = course.ID
	}

	if err := s.catalog.ReplaceCatalog(ctx, canonical.courses, descs); err != nil {
		return nil, nil, fmt.Errorf("replace catalog: %w", err)
	}

	return &driving.IngestStats{
		RawListings: len(listings),
		Courses:     len(canonical.courses),
	}, canonical, nil
}

// canonicalCatalog is the outcome of cross-listing collapse: canonical
// courses plus the mapping from each raw listing id to its canonical id.
type canonicalCatalog struct {
	courses []domain.Course
	byRawID map[string]int64
}

// canonicalize collapses raw listings into one Course per unique
// (subject code, course number) pair, assigning sequential ids in input
// order. Listings sharing a raw feed id are cross-listed sections: the
// first one wins and later subject codes are recorded as aliases. A
// listing whose code pair was already claimed by a different raw id maps
// to the existing canonical course.
func canonicalize(listings []domain.RawListing) *canonicalCatalog {
	c := &canonicalCatalog{byRawID: make(map[string]int64)}

	indexByCode := make(map[string]int)
	nextID := int64(1)

	for _, listing := range listings {
		if id, seen := c.byRawID[listing.RawID]; seen && listing.RawID != "" {
			course := &c.courses[id-1]
			if listing.SubjectCode != course.SubjectCode && !contains(course.CrossListings, listing.SubjectCode) {
				course.CrossListings = append(course.CrossListings, listing.SubjectCode)
			}
			continue
		}

		codeKey := listing.SubjectCode + " " + listing.CourseNumber
		if idx, dup := indexByCode[codeKey]; dup {
			if listing.RawID != "" {
				c.byRawID[listing.RawID] = c.courses[idx].ID
			}
			continue
		}

		course := domain.Course{
			ID:             nextID,
			SubjectCode:    listing.SubjectCode,
			CourseNumber:   listing.CourseNumber,
			DeptCode:       listing.DeptCode,
			DeptName:       listing.DeptName,
			Title:          listing.Title,
			RawDescription: listing.Description,
			School:         listing.School,
			Term:           listing.Term,
		}
		c.courses = append(c.courses, course)
		indexByCode[codeKey] = len(c.courses) - 1
		if listing.RawID != "" {
			c.byRawID[listing.RawID] = nextID
		}
		nextID++
	}

	return c
}

// readCoursesCSV parses a catalog export into raw listings.
func readCoursesCSV(path string) ([]domain.RawListing, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	var listings []domain.RawListing
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if len(row) < 3 {
			continue
		}

		subject, number := splitFullCode(row[1])
		listing := domain.RawListing{
			RawID:        strings.TrimSpace(row[0]),
			SubjectCode:  subject,
			CourseNumber: number,
			Title:        strings.TrimSpace(row[2]),
		}
		if len(row) > 3 {
			listing.DeptCode = strings.TrimSpace(row[3])
		}
		if len(row) > 4 {
			listing.DeptName = strings.TrimSpace(row[4])
		}
		if len(row) > 5 {
			listing.Description = row[5]
		}
		listings = append(listings, listing)
	}

	return listings, nil
}

// readDemandCSV parses demand rows and resolves them against the canonical
// catalog. Deduplication is an explicit first-occurrence rule keyed on
// canonical course identity; later rows for the same course, and rows
// whose course code contradicts the resolved course, are dropped.
func (s *Ingest) readDemandCSV(path string, canonical *canonicalCatalog) ([]domain.DemandRecord, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, err
	}
	defer f.Close()

	coursesByID := make(map[int64]domain.Course, len(canonical.courses))
	for _, course := range canonical.courses {
		coursesByID[course.ID] = course
	}

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	var (
		records []domain.DemandRecord
		dropped int
		seen    = make(map[int64]struct{})
	)
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, 0, err
		}
		if len(row) < 3 {
			continue
		}

		demand, err := strconv.ParseInt(strings.TrimSpace(row[2]), 10, 64)
		if err != nil || demand < 0 {
			dropped++
			continue
		}

		record := domain.DemandRecord{
			CourseCode: strings.TrimSpace(row[1]),
			Demand:     demand,
		}

		if id, ok := canonical.byRawID[strings.TrimSpace(row[0])]; ok {
			if _, dup := seen[id]; dup {
				dropped++
				continue
			}
			course := coursesByID[id]
			if record.CourseCode != "" && !codeMatches(course, record.CourseCode) {
				dropped++
				continue
			}
			seen[id] = struct{}{}
			record.CourseID = &id
			record.CourseTitle = course.Title
		}

		records = append(records, record)
	}

	return records, dropped, nil
}

// codeMatches reports whether a demand row's course code agrees with the
// canonical course: either the full code or any cross-listed subject code.
func codeMatches(course domain.Course, code string) bool {
	subject, number := splitFullCode(code)
	if number != "" && number != course.CourseNumber {
		return false
	}
	if subject == course.SubjectCode {
		return true
	}
	return contains(course.CrossListings, subject)
}

// splitFullCode separates "CPSC223" or "CPSC 223" into subject and number.
// Codes that do not follow the catalog convention come back with an empty
// number and the trimmed input as subject.
func splitFullCode(code string) (subject, number string) {
	code = strings.TrimSpace(code)
	m := fullCodeExpr.FindStringSubmatch(code)
	if m == nil {
		return code, ""
	}
	return m[1], m[2]
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
