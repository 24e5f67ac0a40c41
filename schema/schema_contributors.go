package schema

// ContributorCount is a raw grouped row of push events per login.
type ContributorCount struct {
	Login string `db:"actor_login"`
	Count int64  `db:"commit_count"`
}

// ContributorInfo describes one ranked contributor.
type ContributorInfo struct {
	Username    string  `json:"username"`
	CommitCount int64   `json:"commit_count"`
	Percentage  float64 `json:"percentage"`
	GitHubURL   string  `json:"github_url"`
}

// ContributorsResult is the ranked contributor breakdown of a project.
type ContributorsResult struct {
	Project           ProjectKey        `json:"project"`
	TotalContributors int               `json:"total_contributors"`
	TotalCommits      int64             `json:"total_commits"`
	Contributors      []ContributorInfo `json:"contributors"`
}

// ContributorChart is the pie-chart form of a contributor breakdown.
type ContributorChart struct {
	Labels []string `json:"labels"`
	Values []int64  `json:"values"`
}

// OtherContributorsLabel names the bucket for contributors outside the top N.
const OtherContributorsLabel = "other"

// Chart converts the result into chart data, adding an "other" bucket for the remainder.
func (r ContributorsResult) Chart() ContributorChart {
	chart := ContributorChart{
		Labels: make([]string, 0, len(r.Contributors)+1),
		Values: make([]int64, 0, len(r.Contributors)+1),
	}
	var shown int64
	for _, c := range r.Contributors {
		chart.Labels = append(chart.Labels, c.Username)
		chart.Values = append(chart.Values, c.CommitCount)
		shown += c.CommitCount
	}
	if r.TotalContributors > len(r.Contributors) {
		if other := r.TotalCommits - shown; other > 0 {
			chart.Labels = append(chart.Labels, OtherContributorsLabel)
			chart.Values = append(chart.Values, other)
		}
	}
	return chart
}
