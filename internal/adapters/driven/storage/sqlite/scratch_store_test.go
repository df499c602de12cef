package sqlite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/registrar-labs/courserec/internal/core/domain"
)

// seedDemand attaches demand rows to courses 1 and 3; course 2 stays
// unmatched.
func seedDemand(t *testing.T, store *Store) {
	t.Helper()
	one, three := int64(1), int64(3)
	records := []domain.DemandRecord{
		{CourseID: &one, CourseCode: "CPSC 365", CourseTitle: "Algorithms", Demand: 10},
		{CourseID: &three, CourseCode: "ENGL 185", CourseTitle: "Lyric Poetry", Demand: 30},
	}
	require.NoError(t, store.DemandStore().ReplaceDemand(context.Background(), records))
}

func writeSet(t *testing.T, store *Store, requestID string) {
	t.Helper()
	recs := []domain.Recommendation{
		{CourseID: 1, Score: 0.9},
		{CourseID: 2, Score: 0.5},
		{CourseID: 3, Score: 0.1},
	}
	require.NoError(t, store.ScratchStore().WriteRecommendations(context.Background(), requestID, recs))
}

func TestScratchStore_RowsBySimilarity(t *testing.T) {
	store := newTestStore(t)
	seedCatalog(t, store)
	seedDemand(t, store)
	writeSet(t, store, "req-1")

	rows, err := store.ScratchStore().RowsBySimilarity(context.Background(), "req-1")
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, int64(1), rows[0].CourseID)
	assert.Equal(t, "CPSC 365", rows[0].FullCode)
	assert.Equal(t, 0.9, rows[0].Similarity)
	require.NotNil(t, rows[0].Demand)
	assert.Equal(t, int64(10), *rows[0].Demand)

	assert.Equal(t, int64(2), rows[1].CourseID)
	assert.Nil(t, rows[1].Demand)

	assert.Equal(t, int64(3), rows[2].CourseID)
}

func TestScratchStore_RowsByDemand_NullsLast(t *testing.T) {
	store := newTestStore(t)
	seedCatalog(t, store)
	seedDemand(t, store)
	writeSet(t, store, "req-1")

	rows, err := store.ScratchStore().RowsByDemand(context.Background(), "req-1")
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, int64(3), rows[0].CourseID)
	assert.Equal(t, int64(1), rows[1].CourseID)

	// The unmatched course sorts last.
	assert.Equal(t, int64(2), rows[2].CourseID)
	assert.Nil(t, rows[2].Demand)
}

func TestScratchStore_OverallAverage(t *testing.T) {
	store := newTestStore(t)
	seedCatalog(t, store)
	seedDemand(t, store)
	writeSet(t, store, "req-1")

	avg, err := store.ScratchStore().OverallAverage(context.Background(), "req-1")
	require.NoError(t, err)
	require.NotNil(t, avg)
	assert.Equal(t, 20.0, *avg)
}

func TestScratchStore_OverallAverage_NoDemand(t *testing.T) {
	store := newTestStore(t)
	seedCatalog(t, store)
	writeSet(t, store, "req-1")

	avg, err := store.ScratchStore().OverallAverage(context.Background(), "req-1")
	require.NoError(t, err)
	assert.Nil(t, avg)
}

func TestScratchStore_DepartmentDemand(t *testing.T) {
	store := newTestStore(t)
	seedCatalog(t, store)
	seedDemand(t, store)
	writeSet(t, store, "req-1")

	depts, err := store.ScratchStore().DepartmentDemand(context.Background(), "req-1")
	require.NoError(t, err)
	require.Len(t, depts, 2)

	cs := depts[0]
	assert.Equal(t, "Computer Science", cs.DeptName)
	require.NotNil(t, cs.Average)
	assert.Equal(t, 10.0, *cs.Average)
	assert.Equal(t, 2, cs.Count)

	engl := depts[1]
	assert.Equal(t, "English", engl.DeptName)
	require.NotNil(t, engl.Average)
	assert.Equal(t, 30.0, *engl.Average)
	assert.Equal(t, 1, engl.Count)
}

func TestScratchStore_Partitions(t *testing.T) {
	store := newTestStore(t)
	seedCatalog(t, store)
	seedDemand(t, store)
	writeSet(t, store, "req-1")

	high, err := store.ScratchStore().AboveAverage(context.Background(), "req-1")
	require.NoError(t, err)
	require.Len(t, high, 1)
	assert.Equal(t, int64(3), high[0].CourseID)

	low, err := store.ScratchStore().BelowAverage(context.Background(), "req-1")
	require.NoError(t, err)
	require.Len(t, low, 1)
	assert.Equal(t, int64(1), low[0].CourseID)
}

func TestScratchStore_RequestIsolation(t *testing.T) {
	store := newTestStore(t)
	seedCatalog(t, store)
	seedDemand(t, store)
	writeSet(t, store, "req-1")

	other := []domain.Recommendation{{CourseID: 3, Score: 0.2}}
	require.NoError(t, store.ScratchStore().WriteRecommendations(context.Background(), "req-2", other))

	rows, err := store.ScratchStore().RowsBySimilarity(context.Background(), "req-2")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, int64(3), rows[0].CourseID)

	// The other set's average reflects only its own rows.
	avg, err := store.ScratchStore().OverallAverage(context.Background(), "req-2")
	require.NoError(t, err)
	require.NotNil(t, avg)
	assert.Equal(t, 30.0, *avg)
}

func TestScratchStore_Clear(t *testing.T) {
	store := newTestStore(t)
	seedCatalog(t, store)
	writeSet(t, store, "req-1")

	require.NoError(t, store.ScratchStore().Clear(context.Background(), "req-1"))

	rows, err := store.ScratchStore().RowsBySimilarity(context.Background(), "req-1")
	require.NoError(t, err)
	assert.Empty(t, rows)
}
