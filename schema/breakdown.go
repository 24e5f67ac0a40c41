package schema

// Subscore keys used in the scoring logic.
const (
	SubscoreStar        = "star_score"
	SubscoreFork        = "fork_score"
	SubscoreCommitTrend = "commit_trend_score"
	SubscoreEngagement  = "engagement_score"
)

// Detail keys recorded alongside each dimension score.
const (
	DetailStarCurrentMonth = "star_current_month"
	DetailStarAvgPrev3M    = "star_avg_prev_3m"
	DetailForkCurrentMonth = "fork_current_month"
	DetailForkAvgPrev3M    = "fork_avg_prev_3m"

	DetailCommitAvgLastWeek = "commit_avg_last_week"
	DetailCommitAvgMonth    = "commit_avg_month"
	DetailCommitRatio       = "commit_ratio"
	DetailEngagementIndex   = "engagement_index"
	DetailPushEvents        = "push_events"
	DetailPullRequestEvents = "pull_request_events"
	DetailIssueEvents       = "issue_events"
	DetailContributors      = "contributors"

	DetailPRAvgLastWeek = "pr_avg_last_week"
	DetailPRAvgMonth    = "pr_avg_month"
	DetailPRRatio       = "pr_ratio"

	DetailPullAdditions = "pull_additions"
	DetailPullDeletions = "pull_deletions"
	DetailTotalChurn    = "total_churn"
)
