package schema

import "time"

// TrendPoint is one daily delta as stored in the warehouse.
type TrendPoint struct {
	Date  time.Time `json:"date"`
	Delta int64     `json:"delta"`
}

// TrendRow is a raw warehouse row carrying the delta and the project total.
// Day is formatted as YYYY-MM-DD by the query so every backend scans the same way.
type TrendRow struct {
	Day   string `db:"day"`
	Delta int64  `db:"delta"`
	Total int64  `db:"total"`
}

// TrendSeries is a cumulative series reconstructed from deltas and an anchor total.
type TrendSeries struct {
	Labels        []string `json:"labels"`
	Deltas        []int64  `json:"values"`
	Cumulative    []int64  `json:"totals"`
	Anchor        int64    `json:"anchor"`
	Baseline      int64    `json:"baseline"`
	AnchorHonored bool     `json:"anchor_honored"`
}

// Len returns the number of points in the series.
func (s TrendSeries) Len() int {
	return len(s.Labels)
}

// ProjectSummary holds the authoritative totals of a project.
type ProjectSummary struct {
	Project    ProjectKey `json:"project"`
	RepoName   string     `json:"repo_name"`
	TotalStars int64      `json:"total_stars" db:"total_stars"`
	TotalForks int64      `json:"total_forks" db:"total_forks"`
}

// ProjectTrends combines the summary with star and fork series.
type ProjectTrends struct {
	Summary    ProjectSummary `json:"summary"`
	StarsTrend TrendSeries    `json:"stars_trend"`
	ForksTrend TrendSeries    `json:"forks_trend"`
}
