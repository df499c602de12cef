package domain

// Recommendation is one ranked similarity hit. Scores are cosine
// similarities in [0, 1], rounded to five decimal places before leaving
// the resolver.
type Recommendation struct {
	CourseID int64   `json:"course_id"`
	Score    float64 `json:"similarity_score"`
}

// DemandRow is one row of a ranked demand listing: a recommended course
// left-joined with its demand record. Demand is nil when the course has no
// demand row; such courses appear in listings but never in numeric
// aggregates.
type DemandRow struct {
	CourseID    int64   `json:"course_id"`
	FullCode    string  `json:"full_code"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	DeptName    string  `json:"dept_name"`
	Demand      *int64  `json:"demand"`
	Similarity  float64 `json:"similarity_score"`
}

// DepartmentDemand aggregates demand for one department within a
// recommendation set. Average is nil when no course in the department has
// demand data.
type DepartmentDemand struct {
	DeptName string   `json:"dept_name"`
	Average  *float64 `json:"average"`
	Count    int      `json:"count"`
}

// DemandSummary holds the aggregate statistics computed over exactly the
// courses in the current recommendation set joined with demand data.
type DemandSummary struct {
	// OverallAverage is the mean of non-nil demand values, rounded to three
	// decimal places. Nil when no course in the set has demand data.
	OverallAverage *float64 `json:"overall_average"`

	// PerDepartment groups averages and counts by department name.
	PerDepartment []DepartmentDemand `json:"per_department"`

	// HighDemand holds courses whose demand is strictly greater than the
	// overall average; LowDemand strictly less. Courses exactly at the
	// average, and courses without demand data, appear in neither.
	HighDemand []DemandRow `json:"high_demand"`
	LowDemand  []DemandRow `json:"low_demand"`
}

// DemandReport is the full response for one recommendation request: both
// ranked listings plus the summary statistics.
type DemandReport struct {
	BySimilarity []DemandRow   `json:"by_similarity"`
	ByDemand     []DemandRow   `json:"by_demand"`
	Summary      DemandSummary `json:"summary"`
}
