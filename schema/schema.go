// Package schema holds the shared data types of repohealth.
package schema

import (
	"fmt"
	"time"
)

// DateLayout is the calendar date format used by the warehouse and reference windows.
const DateLayout = "2006-01-02"

// ReferenceWindows are fixed calendar intervals anchored to a configured reference date.
// All aggregation is relative to these dates, never to the wall clock.
type ReferenceWindows struct {
	ReferenceDate time.Time `json:"reference_date"`  // inclusive end of every window
	MonthStart    time.Time `json:"month_start"`     // start of the current month
	Prev3MStart   time.Time `json:"prev_3m_start"`   // start of the three months before MonthStart
	LastWeekStart time.Time `json:"last_week_start"` // start of the last week
}

// DefaultReferenceWindows returns the windows of the March 2023 snapshot.
func DefaultReferenceWindows() ReferenceWindows {
	return ReferenceWindows{
		ReferenceDate: time.Date(2023, time.March, 31, 0, 0, 0, 0, time.UTC),
		MonthStart:    time.Date(2023, time.March, 1, 0, 0, 0, 0, time.UTC),
		Prev3MStart:   time.Date(2022, time.December, 1, 0, 0, 0, 0, time.UTC),
		LastWeekStart: time.Date(2023, time.March, 24, 0, 0, 0, 0, time.UTC),
	}
}

// Validate checks that the windows are ordered.
func (w ReferenceWindows) Validate() error {
	if !w.Prev3MStart.Before(w.MonthStart) {
		return fmt.Errorf("prev-3m-start %s must be before month-start %s", w.Prev3MStart.Format(DateLayout), w.MonthStart.Format(DateLayout))
	}
	if w.LastWeekStart.Before(w.MonthStart) {
		return fmt.Errorf("last-week-start %s must not be before month-start %s", w.LastWeekStart.Format(DateLayout), w.MonthStart.Format(DateLayout))
	}
	if w.ReferenceDate.Before(w.LastWeekStart) {
		return fmt.Errorf("reference-date %s must not be before last-week-start %s", w.ReferenceDate.Format(DateLayout), w.LastWeekStart.Format(DateLayout))
	}
	return nil
}

// StarForkAggregate holds the star and fork window aggregates.
type StarForkAggregate struct {
	StarCurrentMonth int64   `json:"star_current_month" db:"star_current"`
	StarAvgPrev3M    float64 `json:"star_avg_prev_3m" db:"star_avg_3m"`
	ForkCurrentMonth int64   `json:"fork_current_month" db:"fork_current"`
	ForkAvgPrev3M    float64 `json:"fork_avg_prev_3m" db:"fork_avg_3m"`
}

// CommitPRAggregate holds the per-day commit and pull request averages.
type CommitPRAggregate struct {
	CommitAvgLastWeek float64 `json:"commit_avg_last_week" db:"commit_week"`
	CommitAvgMonth    float64 `json:"commit_avg_month" db:"commit_month"`
	PRAvgLastWeek     float64 `json:"pr_avg_last_week" db:"pr_week"`
	PRAvgMonth        float64 `json:"pr_avg_month" db:"pr_month"`
}

// WindowedAggregate combines both metric pairs for a single scoring call.
type WindowedAggregate struct {
	StarFork StarForkAggregate `json:"star_fork"`
	CommitPR CommitPRAggregate `json:"commit_pr"`
}

// EventTypeAggregate holds unwindowed counts from the event log.
type EventTypeAggregate struct {
	PushEvents        int64 `json:"push_events" db:"push_count"`
	PullRequestEvents int64 `json:"pull_request_events" db:"pr_count"`
	IssueEvents       int64 `json:"issue_events" db:"issue_count"`
	Contributors      int64 `json:"contributors" db:"contributor_count"`
	PullAdditions     int64 `json:"pull_additions" db:"total_additions"`
	PullDeletions     int64 `json:"pull_deletions" db:"total_deletions"`
}

// DimensionScore is the normalized score of one dimension plus the values used to derive it.
type DimensionScore struct {
	Name      string             `json:"name"`
	Weight    string             `json:"weight"`
	Score     float64            `json:"score"`
	Subscores map[string]float64 `json:"subscores,omitempty"`
	Details   map[string]float64 `json:"details"`
}

// HealthScoreResult is the complete output of a health score computation.
type HealthScoreResult struct {
	Project       ProjectKey                   `json:"project"`
	RepoName      string                       `json:"repo_name"`
	FinalScore    float64                      `json:"final_score"`
	Grade         Grade                        `json:"grade"`
	GradeLabel    string                       `json:"grade_label"`
	GradeColor    string                       `json:"grade_color"`
	Weights       DimensionWeights             `json:"weights"`
	Dimensions    map[Dimension]DimensionScore `json:"dimensions"`
	CalculatedAt  time.Time                    `json:"calculated_at"`
	ReferenceDate string                       `json:"reference_date"`
}
