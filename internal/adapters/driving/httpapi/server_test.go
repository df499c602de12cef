package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/registrar-labs/courserec/internal/core/domain"
	"github.com/registrar-labs/courserec/internal/core/ports/driving"
)

// stubRecommender is a hand-rolled RecommenderService for handler tests.
type stubRecommender struct {
	recommendFn func(ctx context.Context, id int64, k int) ([]domain.Recommendation, error)
	searchFn    func(ctx context.Context, query string, limit int) ([]domain.Course, error)
}

var _ driving.RecommenderService = (*stubRecommender)(nil)

func (s *stubRecommender) Recommend(ctx context.Context, id int64, k int) ([]domain.Recommendation, error) {
	return s.recommendFn(ctx, id, k)
}

func (s *stubRecommender) Report(_ context.Context, recs []domain.Recommendation) (*domain.DemandReport, error) {
	rows := make([]domain.DemandRow, 0, len(recs))
	for _, rec := range recs {
		rows = append(rows, domain.DemandRow{CourseID: rec.CourseID, Similarity: rec.Score})
	}
	return &domain.DemandReport{BySimilarity: rows, ByDemand: rows}, nil
}

func (s *stubRecommender) ResolveTitle(_ context.Context, title string) (*domain.Course, error) {
	return nil, domain.ErrNotFound
}

func (s *stubRecommender) ResolveCourse(_ context.Context, id int64) (*domain.Course, error) {
	return &domain.Course{ID: id, SubjectCode: "CPSC", CourseNumber: "365", Title: "Algorithms"}, nil
}

func (s *stubRecommender) Search(ctx context.Context, query string, limit int) ([]domain.Course, error) {
	return s.searchFn(ctx, query, limit)
}

func newTestServer(stub *stubRecommender) *httptest.Server {
	return httptest.NewServer(NewServer(stub, 0).Handler())
}

func getJSON(t *testing.T, url string, out any) int {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	return resp.StatusCode
}

func TestHealthz(t *testing.T) {
	srv := newTestServer(&stubRecommender{})
	defer srv.Close()

	var body map[string]string
	status := getJSON(t, srv.URL+"/healthz", &body)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "ok", body["status"])
}

func TestSearch_Success(t *testing.T) {
	stub := &stubRecommender{
		searchFn: func(_ context.Context, query string, limit int) ([]domain.Course, error) {
			assert.Equal(t, "algo", query)
			return []domain.Course{
				{ID: 1, SubjectCode: "CPSC", CourseNumber: "365", Title: "Algorithms", DeptName: "Computer Science"},
			}, nil
		},
	}
	srv := newTestServer(stub)
	defer srv.Close()

	var results []searchResult
	status := getJSON(t, srv.URL+"/api/v1/search?q=algo", &results)
	require.Equal(t, http.StatusOK, status)
	require.Len(t, results, 1)
	assert.Equal(t, int64(1), results[0].CourseID)
	assert.Equal(t, "CPSC 365", results[0].FullCode)
}

func TestSearch_MissingQuery(t *testing.T) {
	srv := newTestServer(&stubRecommender{})
	defer srv.Close()

	var body errorResponse
	status := getJSON(t, srv.URL+"/api/v1/search", &body)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.NotEmpty(t, body.Error)
}

func TestSearch_BadLimit(t *testing.T) {
	srv := newTestServer(&stubRecommender{})
	defer srv.Close()

	var body errorResponse
	status := getJSON(t, srv.URL+"/api/v1/search?q=x&limit=nope", &body)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestRecommendations_Success(t *testing.T) {
	stub := &stubRecommender{
		recommendFn: func(_ context.Context, id int64, k int) ([]domain.Recommendation, error) {
			assert.Equal(t, int64(7), id)
			assert.Equal(t, 3, k)
			return []domain.Recommendation{{CourseID: 2, Score: 0.81234}}, nil
		},
	}
	srv := newTestServer(stub)
	defer srv.Close()

	var body recommendationsResponse
	status := getJSON(t, srv.URL+"/api/v1/courses/7/recommendations?k=3", &body)
	require.Equal(t, http.StatusOK, status)

	assert.Equal(t, int64(7), body.CourseID)
	assert.Equal(t, "Algorithms", body.Title)
	require.Len(t, body.Recommendations, 1)
	assert.Equal(t, int64(2), body.Recommendations[0].CourseID)
	require.NotNil(t, body.Report)
	assert.Len(t, body.Report.BySimilarity, 1)
}

func TestRecommendations_NotFound(t *testing.T) {
	stub := &stubRecommender{
		recommendFn: func(_ context.Context, _ int64, _ int) ([]domain.Recommendation, error) {
			return nil, domain.ErrNotFound
		},
	}
	srv := newTestServer(stub)
	defer srv.Close()

	var body errorResponse
	status := getJSON(t, srv.URL+"/api/v1/courses/99/recommendations", &body)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestRecommendations_BadID(t *testing.T) {
	srv := newTestServer(&stubRecommender{})
	defer srv.Close()

	var body errorResponse
	status := getJSON(t, srv.URL+"/api/v1/courses/abc/recommendations", &body)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestRecommendations_BadK(t *testing.T) {
	srv := newTestServer(&stubRecommender{})
	defer srv.Close()

	var body errorResponse
	status := getJSON(t, srv.URL+"/api/v1/courses/1/recommendations?k=0", &body)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestRecommendations_IndexNotBuilt(t *testing.T) {
	stub := &stubRecommender{
		recommendFn: func(_ context.Context, _ int64, _ int) ([]domain.Recommendation, error) {
			return nil, domain.ErrIndexNotBuilt
		},
	}
	srv := newTestServer(stub)
	defer srv.Close()

	var body errorResponse
	status := getJSON(t, srv.URL+"/api/v1/courses/1/recommendations", &body)
	assert.Equal(t, http.StatusServiceUnavailable, status)
}

func TestRequestIDHeader(t *testing.T) {
	srv := newTestServer(&stubRecommender{})
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))
}

func TestMetricsEndpoint(t *testing.T) {
	srv := newTestServer(&stubRecommender{})
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
