// Package algo holds the pure scoring, grading and trend functions.
package algo

import (
	"fmt"
	"math"

	"github.com/huangsam/repohealth/schema"
)

// Saturation points of the engagement index and their weights.
const (
	maxPushEvents   = 1000.0
	maxPREvents     = 500.0
	maxIssueEvents  = 200.0
	maxContributors = 100.0

	wPush        = 3.0
	wPR          = 4.0
	wIssue       = 2.0
	wContributor = 1.0
)

// Round2 rounds half away from zero to two decimals.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// FormatWeight renders a weight as a whole percentage, e.g. 0.2 becomes "20%".
func FormatWeight(w float64) string {
	return fmt.Sprintf("%.0f%%", w*100)
}

// nonNegative maps negative and NaN counts to zero.
func nonNegative(v float64) float64 {
	if v > 0 {
		return v
	}
	return 0
}

// relativeGrowth compares the current month against the prior average, halved into 0-100.
func relativeGrowth(current int64, avg float64) float64 {
	return math.Min(nonNegative(float64(current))/(nonNegative(avg)+1)*100, 200) / 2
}

// ratioTrend maps the ratio of recent to monthly averages onto 0-100 with 50 meaning flat.
func ratioTrend(recent, month float64) (score, ratio float64) {
	ratio = (nonNegative(recent) + 1) / (nonNegative(month) + 1)
	score = math.Max(0, math.Min(100, 50+(ratio-1)*50))
	return score, ratio
}

// EngagementIndex weighs saturated event counts into a 0-10 index.
func EngagementIndex(e schema.EventTypeAggregate) float64 {
	sat := func(v int64, limit float64) float64 {
		return math.Min(float64(v)/limit, 1)
	}
	return sat(e.PushEvents, maxPushEvents)*wPush +
		sat(e.PullRequestEvents, maxPREvents)*wPR +
		sat(e.IssueEvents, maxIssueEvents)*wIssue +
		sat(e.Contributors, maxContributors)*wContributor
}

// GrowthScore rates star and fork momentum of the current month against the prior three.
func GrowthScore(a schema.StarForkAggregate) schema.DimensionScore {
	star := relativeGrowth(a.StarCurrentMonth, a.StarAvgPrev3M)
	fork := relativeGrowth(a.ForkCurrentMonth, a.ForkAvgPrev3M)

	return schema.DimensionScore{
		Name:  schema.DimensionDisplayName(schema.GrowthDimension),
		Score: Round2(0.5*star + 0.5*fork),
		Subscores: map[string]float64{
			schema.SubscoreStar: Round2(star),
			schema.SubscoreFork: Round2(fork),
		},
		Details: map[string]float64{
			schema.DetailStarCurrentMonth: float64(a.StarCurrentMonth),
			schema.DetailStarAvgPrev3M:    Round2(a.StarAvgPrev3M),
			schema.DetailForkCurrentMonth: float64(a.ForkCurrentMonth),
			schema.DetailForkAvgPrev3M:    Round2(a.ForkAvgPrev3M),
		},
	}
}

// ActivityScore blends the commit trend with overall event engagement.
func ActivityScore(c schema.CommitPRAggregate, e schema.EventTypeAggregate) schema.DimensionScore {
	trend, ratio := ratioTrend(c.CommitAvgLastWeek, c.CommitAvgMonth)
	idx := EngagementIndex(e)
	engagement := math.Min(idx*10, 100)

	return schema.DimensionScore{
		Name:  schema.DimensionDisplayName(schema.ActivityDimension),
		Score: Round2(0.3*trend + 0.7*engagement),
		Subscores: map[string]float64{
			schema.SubscoreCommitTrend: Round2(trend),
			schema.SubscoreEngagement:  Round2(engagement),
		},
		Details: map[string]float64{
			schema.DetailCommitAvgLastWeek: Round2(c.CommitAvgLastWeek),
			schema.DetailCommitAvgMonth:    Round2(c.CommitAvgMonth),
			schema.DetailCommitRatio:       Round2(ratio),
			schema.DetailEngagementIndex:   Round2(idx),
			schema.DetailPushEvents:        float64(e.PushEvents),
			schema.DetailPullRequestEvents: float64(e.PullRequestEvents),
			schema.DetailIssueEvents:       float64(e.IssueEvents),
			schema.DetailContributors:      float64(e.Contributors),
		},
	}
}

// ContributionScore applies the ratio trend to pull request averages.
func ContributionScore(c schema.CommitPRAggregate) schema.DimensionScore {
	score, ratio := ratioTrend(c.PRAvgLastWeek, c.PRAvgMonth)

	return schema.DimensionScore{
		Name:  schema.DimensionDisplayName(schema.ContributionDimension),
		Score: Round2(score),
		Details: map[string]float64{
			schema.DetailPRAvgLastWeek: Round2(c.PRAvgLastWeek),
			schema.DetailPRAvgMonth:    Round2(c.PRAvgMonth),
			schema.DetailPRRatio:       Round2(ratio),
		},
	}
}

// CodeScore rates pull request churn on a log scale that saturates near a million lines.
func CodeScore(e schema.EventTypeAggregate) schema.DimensionScore {
	churn := e.PullAdditions + e.PullDeletions
	var score float64
	if churn > 0 {
		score = math.Min(100, 20*math.Log10(float64(churn)+1))
	}

	return schema.DimensionScore{
		Name:  schema.DimensionDisplayName(schema.CodeDimension),
		Score: Round2(score),
		Details: map[string]float64{
			schema.DetailPullAdditions: float64(e.PullAdditions),
			schema.DetailPullDeletions: float64(e.PullDeletions),
			schema.DetailTotalChurn:    float64(churn),
		},
	}
}
