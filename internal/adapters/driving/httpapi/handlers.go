package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/registrar-labs/courserec/internal/core/domain"
	"github.com/registrar-labs/courserec/internal/metrics"
)

// searchResult is one row of the title search response.
type searchResult struct {
	CourseID int64  `json:"course_id"`
	FullCode string `json:"full_code"`
	Title    string `json:"title"`
	DeptName string `json:"dept_name"`
}

// recommendationsResponse is the recommendation endpoint's payload.
type recommendationsResponse struct {
	CourseID        int64                   `json:"course_id"`
	Title           string                  `json:"title"`
	FullCode        string                  `json:"full_code"`
	Recommendations []domain.Recommendation `json:"recommendations"`
	Report          *domain.DemandReport    `json:"report"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// handleHealth reports liveness.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleSearch serves GET /api/v1/search?q=<query>&limit=<n>.
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		writeError(w, http.StatusBadRequest, "missing query parameter q")
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}

	courses, err := s.recommender.Search(r.Context(), query, limit)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}

	results := make([]searchResult, 0, len(courses))
	for _, c := range courses {
		results = append(results, searchResult{
			CourseID: c.ID,
			FullCode: c.FullCode(),
			Title:    c.Title,
			DeptName: c.DeptName,
		})
	}
	writeJSON(w, http.StatusOK, results)
}

// handleRecommendations serves
// GET /api/v1/courses/{id}/recommendations?k=<n>.
func (s *Server) handleRecommendations(w http.ResponseWriter, r *http.Request) {
	courseID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "course id must be an integer")
		return
	}

	k := 0
	if raw := r.URL.Query().Get("k"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "k must be a positive integer")
			return
		}
		k = n
	}

	start := time.Now()
	recs, err := s.recommender.Recommend(r.Context(), courseID, k)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}

	report, err := s.recommender.Report(r.Context(), recs)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	metrics.RecommendationSeconds.Observe(time.Since(start).Seconds())

	resp := recommendationsResponse{
		CourseID:        courseID,
		Recommendations: recs,
		Report:          report,
	}
	if course, err := s.recommender.ResolveCourse(r.Context(), courseID); err == nil {
		resp.Title = course.Title
		resp.FullCode = course.FullCode()
	}
	writeJSON(w, http.StatusOK, resp)
}

// writeServiceError maps domain errors onto HTTP status codes.
func (s *Server) writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "course not found")
	case errors.Is(err, domain.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrIndexNotBuilt):
		writeError(w, http.StatusServiceUnavailable, "similarity index not built")
	default:
		s.log.Error().Err(err).Msg("request failed")
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
