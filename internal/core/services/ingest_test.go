package services

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/registrar-labs/courserec/internal/adapters/driven/storage/memory"
	"github.com/registrar-labs/courserec/internal/core/domain"
	"github.com/registrar-labs/courserec/internal/normalisers/description"
)

func writeCSV(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func newTestIngest() (*Ingest, *memory.CatalogStore, *memory.DemandStore) {
	catalog := memory.NewCatalogStore()
	demand := memory.NewDemandStore()
	return NewIngest(catalog, demand, nil, description.New()), catalog, demand
}

func TestIngestCSV_BasicCatalog(t *testing.T) {
	svc, catalog, _ := newTestIngest()

	coursesPath := writeCSV(t, "courses.csv",
		"c1,CPSC 223,Data Structures,CPSC,Computer Science,Lists trees and graphs\n"+
			"c2,ENGL 185,Lyric Poetry,ENGL,English,Close reading of poems\n")

	stats, err := svc.IngestCSV(context.Background(), coursesPath, "")
	require.NoError(t, err)

	assert.Equal(t, 2, stats.RawListings)
	assert.Equal(t, 2, stats.Courses)

	course, err := catalog.GetCourse(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "CPSC", course.SubjectCode)
	assert.Equal(t, "223", course.CourseNumber)
	assert.Equal(t, "Data Structures", course.Title)
}

func TestIngestCSV_NormalisesDescriptions(t *testing.T) {
	svc, catalog, _ := newTestIngest()

	coursesPath := writeCSV(t, "courses.csv",
		"c1,CPSC 365,Algorithms,CPSC,Computer Science,<p>Design of efficient algorithms.</p>\n")

	_, err := svc.IngestCSV(context.Background(), coursesPath, "")
	require.NoError(t, err)

	corpus, err := catalog.Corpus(context.Background())
	require.NoError(t, err)
	require.Len(t, corpus, 1)
	assert.Equal(t, "design of efficient algorithms", corpus[0].CleanSentence)
}

func TestIngestCSV_CollapsesCrossListings(t *testing.T) {
	svc, catalog, _ := newTestIngest()

	// Two raw listings share the feed id c9: one logical course listed
	// under two subjects.
	coursesPath := writeCSV(t, "courses.csv",
		"c9,PLSC 341,Game Theory,PLSC,Political Science,Strategic interaction\n"+
			"c9,ECON 351,Game Theory,ECON,Economics,Strategic interaction\n")

	stats, err := svc.IngestCSV(context.Background(), coursesPath, "")
	require.NoError(t, err)

	assert.Equal(t, 2, stats.RawListings)
	assert.Equal(t, 1, stats.Courses)

	course, err := catalog.GetCourse(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "PLSC", course.SubjectCode)
	assert.Equal(t, []string{"ECON"}, course.CrossListings)
}

func TestIngestCSV_DuplicateCodePair(t *testing.T) {
	svc, _, _ := newTestIngest()

	// Distinct raw ids claiming the same (subject, number) pair collapse
	// into the first canonical course.
	coursesPath := writeCSV(t, "courses.csv",
		"c1,CPSC 223,Data Structures,CPSC,Computer Science,Lists\n"+
			"c2,CPSC 223,Data Structures,CPSC,Computer Science,Lists again\n")

	stats, err := svc.IngestCSV(context.Background(), coursesPath, "")
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Courses)
}

func TestIngestCSV_DemandFirstOccurrenceWins(t *testing.T) {
	svc, _, demand := newTestIngest()

	coursesPath := writeCSV(t, "courses.csv",
		"c1,CPSC 223,Data Structures,CPSC,Computer Science,Lists\n")
	demandPath := writeCSV(t, "demand.csv",
		"c1,CPSC 223,120\n"+
			"c1,CPSC 223,95\n")

	stats, err := svc.IngestCSV(context.Background(), coursesPath, demandPath)
	require.NoError(t, err)

	assert.Equal(t, 1, stats.DemandRecords)
	assert.Equal(t, 1, stats.DemandDropped)

	count, err := demand.CountDemand(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestIngestCSV_DemandCodeMismatchDropped(t *testing.T) {
	svc, _, _ := newTestIngest()

	coursesPath := writeCSV(t, "courses.csv",
		"c1,CPSC 223,Data Structures,CPSC,Computer Science,Lists\n")
	demandPath := writeCSV(t, "demand.csv",
		"c1,ENGL 185,50\n")

	stats, err := svc.IngestCSV(context.Background(), coursesPath, demandPath)
	require.NoError(t, err)

	assert.Equal(t, 0, stats.DemandRecords)
	assert.Equal(t, 1, stats.DemandDropped)
}

func TestIngestCSV_DemandCrossListedCodeAccepted(t *testing.T) {
	svc, _, _ := newTestIngest()

	coursesPath := writeCSV(t, "courses.csv",
		"c9,PLSC 341,Game Theory,PLSC,Political Science,Strategic interaction\n"+
			"c9,ECON 351,Game Theory,ECON,Economics,Strategic interaction\n")
	// Demand reported under the cross-listed subject with the canonical
	// number.
	demandPath := writeCSV(t, "demand.csv",
		"c9,ECON 341,80\n")

	stats, err := svc.IngestCSV(context.Background(), coursesPath, demandPath)
	require.NoError(t, err)

	assert.Equal(t, 1, stats.DemandRecords)
	assert.Equal(t, 0, stats.DemandDropped)
}

func TestIngestCSV_UnresolvedDemandKept(t *testing.T) {
	svc, _, demand := newTestIngest()

	coursesPath := writeCSV(t, "courses.csv",
		"c1,CPSC 223,Data Structures,CPSC,Computer Science,Lists\n")
	demandPath := writeCSV(t, "demand.csv",
		"zz,HIST 101,33\n")

	stats, err := svc.IngestCSV(context.Background(), coursesPath, demandPath)
	require.NoError(t, err)

	// Unresolvable rows are stored without a canonical course link.
	assert.Equal(t, 1, stats.DemandRecords)
	assert.Equal(t, 0, stats.DemandDropped)

	count, err := demand.CountDemand(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestIngestCSV_NegativeDemandDropped(t *testing.T) {
	svc, _, _ := newTestIngest()

	coursesPath := writeCSV(t, "courses.csv",
		"c1,CPSC 223,Data Structures,CPSC,Computer Science,Lists\n")
	demandPath := writeCSV(t, "demand.csv",
		"c1,CPSC 223,-5\n")

	stats, err := svc.IngestCSV(context.Background(), coursesPath, demandPath)
	require.NoError(t, err)
	assert.Equal(t, 0, stats.DemandRecords)
	assert.Equal(t, 1, stats.DemandDropped)
}

func TestIngestCSV_MissingFile(t *testing.T) {
	svc, _, _ := newTestIngest()

	_, err := svc.IngestCSV(context.Background(), "/nonexistent/courses.csv", "")
	assert.Error(t, err)
}

func TestIngestAPI_NoClient(t *testing.T) {
	svc, _, _ := newTestIngest()

	_, err := svc.IngestAPI(context.Background(), "202603")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSplitFullCode(t *testing.T) {
	cases := []struct {
		in      string
		subject string
		number  string
	}{
		{"CPSC223", "CPSC", "223"},
		{"CPSC 223", "CPSC", "223"},
		{"E&RS 291", "E&RS", "291"},
		{"MATH 120a", "MATH", "120a"},
		{"unparseable code", "unparseable code", ""},
	}

	for _, tc := range cases {
		subject, number := splitFullCode(tc.in)
		assert.Equal(t, tc.subject, subject, tc.in)
		assert.Equal(t, tc.number, number, tc.in)
	}
}
