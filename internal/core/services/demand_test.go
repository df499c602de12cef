package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/registrar-labs/courserec/internal/adapters/driven/storage/memory"
	"github.com/registrar-labs/courserec/internal/core/domain"
)

// newTestAggregator wires an aggregator over in-memory stores populated
// with the given courses and demand values.
func newTestAggregator(t *testing.T, courses []domain.Course, demand map[int64]int64) *DemandAggregator {
	t.Helper()
	ctx := context.Background()

	catalog := memory.NewCatalogStore()
	require.NoError(t, catalog.ReplaceCatalog(ctx, courses, nil))

	demandStore := memory.NewDemandStore()
	records := make([]domain.DemandRecord, 0, len(demand))
	for _, c := range courses {
		d, ok := demand[c.ID]
		if !ok {
			continue
		}
		id := c.ID
		records = append(records, domain.DemandRecord{
			CourseID:    &id,
			CourseCode:  c.FullCode(),
			CourseTitle: c.Title,
			Demand:      d,
		})
	}
	require.NoError(t, demandStore.ReplaceDemand(ctx, records))

	return NewDemandAggregator(memory.NewScratchStore(catalog, demandStore))
}

func demandCatalog() []domain.Course {
	return []domain.Course{
		{ID: 1, SubjectCode: "CPSC", CourseNumber: "365", Title: "Algorithms", DeptName: "Computer Science"},
		{ID: 2, SubjectCode: "CPSC", CourseNumber: "223", Title: "Data Structures", DeptName: "Computer Science"},
		{ID: 3, SubjectCode: "ENGL", CourseNumber: "185", Title: "Lyric Poetry", DeptName: "English"},
	}
}

func demandRecs() []domain.Recommendation {
	return []domain.Recommendation{
		{CourseID: 1, Score: 0.9},
		{CourseID: 2, Score: 0.5},
		{CourseID: 3, Score: 0.1},
	}
}

func TestSummarize_OverallAverage(t *testing.T) {
	a := newTestAggregator(t, demandCatalog(), map[int64]int64{1: 10, 2: 20, 3: 30})

	report, err := a.Summarize(context.Background(), demandRecs())
	require.NoError(t, err)

	require.NotNil(t, report.Summary.OverallAverage)
	assert.Equal(t, 20.0, *report.Summary.OverallAverage)
}

func TestSummarize_Partitions(t *testing.T) {
	a := newTestAggregator(t, demandCatalog(), map[int64]int64{1: 10, 2: 20, 3: 30})

	report, err := a.Summarize(context.Background(), demandRecs())
	require.NoError(t, err)

	// Strict comparisons: the course exactly at the average is in neither
	// partition.
	require.Len(t, report.Summary.HighDemand, 1)
	assert.Equal(t, int64(3), report.Summary.HighDemand[0].CourseID)
	require.Len(t, report.Summary.LowDemand, 1)
	assert.Equal(t, int64(1), report.Summary.LowDemand[0].CourseID)
}

func TestSummarize_ListingOrders(t *testing.T) {
	a := newTestAggregator(t, demandCatalog(), map[int64]int64{1: 10, 2: 20, 3: 30})

	report, err := a.Summarize(context.Background(), demandRecs())
	require.NoError(t, err)

	require.Len(t, report.BySimilarity, 3)
	assert.Equal(t, int64(1), report.BySimilarity[0].CourseID)
	assert.Equal(t, int64(2), report.BySimilarity[1].CourseID)
	assert.Equal(t, int64(3), report.BySimilarity[2].CourseID)

	require.Len(t, report.ByDemand, 3)
	assert.Equal(t, int64(3), report.ByDemand[0].CourseID)
	assert.Equal(t, int64(2), report.ByDemand[1].CourseID)
	assert.Equal(t, int64(1), report.ByDemand[2].CourseID)
}

func TestSummarize_PerDepartment(t *testing.T) {
	a := newTestAggregator(t, demandCatalog(), map[int64]int64{1: 10, 2: 20, 3: 30})

	report, err := a.Summarize(context.Background(), demandRecs())
	require.NoError(t, err)

	require.Len(t, report.Summary.PerDepartment, 2)

	cs := report.Summary.PerDepartment[0]
	assert.Equal(t, "Computer Science", cs.DeptName)
	require.NotNil(t, cs.Average)
	assert.Equal(t, 15.0, *cs.Average)
	assert.Equal(t, 2, cs.Count)

	engl := report.Summary.PerDepartment[1]
	assert.Equal(t, "English", engl.DeptName)
	require.NotNil(t, engl.Average)
	assert.Equal(t, 30.0, *engl.Average)
	assert.Equal(t, 1, engl.Count)
}

func TestSummarize_NoDemandData(t *testing.T) {
	a := newTestAggregator(t, demandCatalog(), nil)

	report, err := a.Summarize(context.Background(), demandRecs())
	require.NoError(t, err)

	assert.Nil(t, report.Summary.OverallAverage)
	assert.Empty(t, report.Summary.HighDemand)
	assert.Empty(t, report.Summary.LowDemand)

	// Listings still carry every recommended course, demand absent.
	require.Len(t, report.BySimilarity, 3)
	for _, row := range report.BySimilarity {
		assert.Nil(t, row.Demand)
	}
}

func TestSummarize_PartialDemandData(t *testing.T) {
	a := newTestAggregator(t, demandCatalog(), map[int64]int64{1: 10, 3: 40})

	report, err := a.Summarize(context.Background(), demandRecs())
	require.NoError(t, err)

	// Average over the two known values only.
	require.NotNil(t, report.Summary.OverallAverage)
	assert.Equal(t, 25.0, *report.Summary.OverallAverage)

	// The unmatched course appears in listings, last in the demand order.
	require.Len(t, report.ByDemand, 3)
	assert.Equal(t, int64(2), report.ByDemand[2].CourseID)
	assert.Nil(t, report.ByDemand[2].Demand)

	// It joins neither partition.
	require.Len(t, report.Summary.HighDemand, 1)
	assert.Equal(t, int64(3), report.Summary.HighDemand[0].CourseID)
	require.Len(t, report.Summary.LowDemand, 1)
	assert.Equal(t, int64(1), report.Summary.LowDemand[0].CourseID)
}

func TestSummarize_AveragesRounded(t *testing.T) {
	a := newTestAggregator(t, demandCatalog(), map[int64]int64{1: 10, 2: 10, 3: 11})

	report, err := a.Summarize(context.Background(), demandRecs())
	require.NoError(t, err)

	// 31/3 rounds to three decimal places.
	require.NotNil(t, report.Summary.OverallAverage)
	assert.Equal(t, 10.333, *report.Summary.OverallAverage)
}

func TestSummarize_EmptySet(t *testing.T) {
	a := newTestAggregator(t, demandCatalog(), map[int64]int64{1: 10})

	report, err := a.Summarize(context.Background(), nil)
	require.NoError(t, err)

	assert.Empty(t, report.BySimilarity)
	assert.Empty(t, report.ByDemand)
	assert.Nil(t, report.Summary.OverallAverage)
}
