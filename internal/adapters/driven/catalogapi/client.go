// Package catalogapi provides a CatalogAPI adapter for the university's
// course web service.
package catalogapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"

	"github.com/registrar-labs/courserec/internal/core/domain"
	"github.com/registrar-labs/courserec/internal/core/ports/driven"
)

// Ensure Client implements the interface.
var _ driven.CatalogAPI = (*Client)(nil)

// Default configuration values.
const (
	DefaultTimeout = 30 * time.Second

	// DefaultRate throttles subject fetches to stay under the feed's quota.
	DefaultRate = 2.0

	subjectsPath = "/api/subjects.json"
	coursesPath  = "/api/courses/subject/%s.json"
)

// Config holds configuration for the catalog API client.
type Config struct {
	// BaseURL is the course web service root.
	BaseURL string

	// APIKey authenticates requests; passed as the apikey query parameter.
	APIKey string

	// School scopes subject listings, e.g. "YC".
	School string

	// Timeout is the per-request timeout (default: 30s).
	Timeout time.Duration
}

// Client fetches subject and course listings over HTTP.
type Client struct {
	client  *http.Client
	limiter *rate.Limiter
	baseURL string
	apiKey  string
	school  string
}

// subjectPayload is the feed's subject list entry.
type subjectPayload struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

// coursePayload is the feed's course listing entry.
type coursePayload struct {
	CID         string `json:"cid"`
	Subject     string `json:"subjectCode"`
	Number      string `json:"courseNumber"`
	DeptCode    string `json:"departmentCode"`
	DeptName    string `json:"department"`
	Title       string `json:"courseTitle"`
	Description string `json:"description"`
	School      string `json:"school"`
	Term        string `json:"termCode"`
}

// NewClient creates a catalog API client.
func NewClient(cfg Config) *Client {
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	return &Client{
		client:  &http.Client{Timeout: cfg.Timeout},
		limiter: rate.NewLimiter(rate.Limit(DefaultRate), 1),
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		school:  cfg.School,
	}
}

// Subjects lists all subject codes for the configured school.
func (c *Client) Subjects(ctx context.Context) ([]driven.Subject, error) {
	var payload []subjectPayload
	if err := c.get(ctx, subjectsPath, nil, &payload); err != nil {
		return nil, fmt.Errorf("fetching subjects: %w", err)
	}

	subjects := make([]driven.Subject, 0, len(payload))
	for _, p := range payload {
		subjects = append(subjects, driven.Subject{Code: p.Code, Name: p.Description})
	}
	return subjects, nil
}

// Courses lists the raw course listings for one subject code and term.
func (c *Client) Courses(ctx context.Context, subjectCode, term string) ([]domain.RawListing, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	var payload []coursePayload
	path := fmt.Sprintf(coursesPath, url.PathEscape(subjectCode))
	params := url.Values{"term": {term}}
	if err := c.get(ctx, path, params, &payload); err != nil {
		return nil, fmt.Errorf("fetching courses for %s: %w", subjectCode, err)
	}

	listings := make([]domain.RawListing, 0, len(payload))
	for _, p := range payload {
		listings = append(listings, domain.RawListing{
			RawID:        p.CID,
			SubjectCode:  p.Subject,
			CourseNumber: p.Number,
			DeptCode:     p.DeptCode,
			DeptName:     p.DeptName,
			Title:        p.Title,
			Description:  p.Description,
			School:       p.School,
			Term:         p.Term,
		})
	}
	return listings, nil
}

// get performs an authenticated GET and decodes the JSON response.
func (c *Client) get(ctx context.Context, path string, params url.Values, out any) error {
	if params == nil {
		params = url.Values{}
	}
	params.Set("apikey", c.apiKey)
	if c.school != "" {
		params.Set("school", c.school)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("catalog feed returned status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}
