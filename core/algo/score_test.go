package algo

import (
	"math"
	"testing"

	"github.com/huangsam/repohealth/schema"
	"github.com/stretchr/testify/assert"
)

func TestRound2(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{54.901960, 54.9},
		{0.126, 0.13},
		{-1.236, -1.24},
		{100, 100},
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.want, Round2(tt.in), 1e-9)
	}
}

func TestFormatWeight(t *testing.T) {
	assert.Equal(t, "20%", FormatWeight(0.2))
	assert.Equal(t, "40%", FormatWeight(0.4))
	assert.Equal(t, "33%", FormatWeight(0.333))
}

func TestGrowthScore(t *testing.T) {
	tests := []struct {
		name      string
		agg       schema.StarForkAggregate
		wantScore float64
		wantStar  float64
		wantFork  float64
	}{
		{
			name:      "saturated stars and slow forks",
			agg:       schema.StarForkAggregate{StarCurrentMonth: 50, StarAvgPrev3M: 20, ForkCurrentMonth: 10, ForkAvgPrev3M: 50},
			wantScore: 54.9,
			wantStar:  100,
			wantFork:  9.8,
		},
		{
			name:      "no activity",
			agg:       schema.StarForkAggregate{},
			wantScore: 0,
		},
		{
			name:      "flat month",
			agg:       schema.StarForkAggregate{StarCurrentMonth: 99, StarAvgPrev3M: 99, ForkCurrentMonth: 9, ForkAvgPrev3M: 9},
			wantScore: 47.25,
			wantStar:  49.5,
			wantFork:  45,
		},
		{
			name:      "new project without history",
			agg:       schema.StarForkAggregate{StarCurrentMonth: 5, ForkCurrentMonth: 1},
			wantScore: 75,
			wantStar:  100,
			wantFork:  50,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ds := GrowthScore(tt.agg)
			assert.Equal(t, "Growth", ds.Name)
			assert.InDelta(t, tt.wantScore, ds.Score, 1e-9)
			assert.InDelta(t, tt.wantStar, ds.Subscores[schema.SubscoreStar], 1e-9)
			assert.InDelta(t, tt.wantFork, ds.Subscores[schema.SubscoreFork], 1e-9)
			assert.Equal(t, float64(tt.agg.StarCurrentMonth), ds.Details[schema.DetailStarCurrentMonth])
			assert.Len(t, ds.Details, 4)
		})
	}
}

func TestActivityScore(t *testing.T) {
	tests := []struct {
		name           string
		commits        schema.CommitPRAggregate
		events         schema.EventTypeAggregate
		wantScore      float64
		wantTrend      float64
		wantEngagement float64
		wantIndex      float64
	}{
		{
			name:           "flat commits and saturated events",
			commits:        schema.CommitPRAggregate{CommitAvgLastWeek: 10, CommitAvgMonth: 10},
			events:         schema.EventTypeAggregate{PushEvents: 2000, PullRequestEvents: 1000, IssueEvents: 400, Contributors: 200},
			wantScore:      85,
			wantTrend:      50,
			wantEngagement: 100,
			wantIndex:      10,
		},
		{
			name:           "slowing commits and half engagement",
			commits:        schema.CommitPRAggregate{CommitAvgLastWeek: 0, CommitAvgMonth: 9},
			events:         schema.EventTypeAggregate{PushEvents: 500, PullRequestEvents: 250, IssueEvents: 50, Contributors: 10},
			wantScore:      30.2,
			wantTrend:      5,
			wantEngagement: 41,
			wantIndex:      4.1,
		},
		{
			name:           "commit spike clamps at 100",
			commits:        schema.CommitPRAggregate{CommitAvgLastWeek: 99, CommitAvgMonth: 0},
			wantScore:      30,
			wantTrend:      100,
			wantEngagement: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ds := ActivityScore(tt.commits, tt.events)
			assert.InDelta(t, tt.wantScore, ds.Score, 1e-9)
			assert.InDelta(t, tt.wantTrend, ds.Subscores[schema.SubscoreCommitTrend], 1e-9)
			assert.InDelta(t, tt.wantEngagement, ds.Subscores[schema.SubscoreEngagement], 1e-9)
			assert.InDelta(t, tt.wantIndex, ds.Details[schema.DetailEngagementIndex], 1e-9)
			assert.Equal(t, float64(tt.events.PushEvents), ds.Details[schema.DetailPushEvents])
		})
	}
}

func TestContributionScore(t *testing.T) {
	tests := []struct {
		name      string
		agg       schema.CommitPRAggregate
		wantScore float64
		wantRatio float64
	}{
		{"doubling", schema.CommitPRAggregate{PRAvgLastWeek: 3, PRAvgMonth: 1}, 100, 2},
		{"halving", schema.CommitPRAggregate{PRAvgLastWeek: 1, PRAvgMonth: 3}, 25, 0.5},
		{"no prs", schema.CommitPRAggregate{}, 50, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ds := ContributionScore(tt.agg)
			assert.InDelta(t, tt.wantScore, ds.Score, 1e-9)
			assert.InDelta(t, tt.wantRatio, ds.Details[schema.DetailPRRatio], 1e-9)
			assert.Empty(t, ds.Subscores)
		})
	}
}

func TestCodeScore(t *testing.T) {
	tests := []struct {
		name      string
		agg       schema.EventTypeAggregate
		wantScore float64
	}{
		{"no churn", schema.EventTypeAggregate{}, 0},
		{"thousand lines", schema.EventTypeAggregate{PullAdditions: 600, PullDeletions: 399}, 60},
		{"saturates", schema.EventTypeAggregate{PullAdditions: 5_000_000, PullDeletions: 5_000_000}, 100},
		{"single line", schema.EventTypeAggregate{PullAdditions: 1}, 6.02},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ds := CodeScore(tt.agg)
			assert.InDelta(t, tt.wantScore, ds.Score, 1e-9)
			assert.Equal(t, float64(tt.agg.PullAdditions+tt.agg.PullDeletions), ds.Details[schema.DetailTotalChurn])
		})
	}
}

func TestScoresStayInRange(t *testing.T) {
	aggs := []schema.EventTypeAggregate{
		{},
		{PushEvents: 1, PullRequestEvents: 1, IssueEvents: 1, Contributors: 1, PullAdditions: 1},
		{PushEvents: math.MaxInt32, PullRequestEvents: math.MaxInt32, IssueEvents: math.MaxInt32, Contributors: math.MaxInt32, PullAdditions: math.MaxInt32},
	}
	for _, e := range aggs {
		for _, ds := range []schema.DimensionScore{
			ActivityScore(schema.CommitPRAggregate{CommitAvgLastWeek: 3, CommitAvgMonth: 7}, e),
			CodeScore(e),
		} {
			assert.GreaterOrEqual(t, ds.Score, 0.0)
			assert.LessOrEqual(t, ds.Score, 100.0)
		}
	}
}

// BenchmarkActivityScore benchmarks the engagement-heavy activity scorer.
func BenchmarkActivityScore(b *testing.B) {
	commits := schema.CommitPRAggregate{CommitAvgLastWeek: 12.5, CommitAvgMonth: 9.75}
	events := schema.EventTypeAggregate{PushEvents: 740, PullRequestEvents: 310, IssueEvents: 95, Contributors: 42}

	for b.Loop() {
		ActivityScore(commits, events)
	}
}

// BenchmarkGrowthScore benchmarks the growth scorer.
func BenchmarkGrowthScore(b *testing.B) {
	agg := schema.StarForkAggregate{StarCurrentMonth: 1200, StarAvgPrev3M: 950.5, ForkCurrentMonth: 140, ForkAvgPrev3M: 133.3}

	for b.Loop() {
		GrowthScore(agg)
	}
}

func TestScoresClampNegativeInputs(t *testing.T) {
	tests := []struct {
		name string
		sf   schema.StarForkAggregate
		cp   schema.CommitPRAggregate
	}{
		{"negative average of minus one", schema.StarForkAggregate{StarCurrentMonth: 5, StarAvgPrev3M: -1}, schema.CommitPRAggregate{CommitAvgMonth: -1, PRAvgMonth: -1}},
		{"negative average below minus one", schema.StarForkAggregate{StarCurrentMonth: 5, StarAvgPrev3M: -3, ForkAvgPrev3M: -0.5}, schema.CommitPRAggregate{CommitAvgMonth: -7, PRAvgMonth: -2.5}},
		{"negative current values", schema.StarForkAggregate{StarCurrentMonth: -10, ForkCurrentMonth: -1}, schema.CommitPRAggregate{CommitAvgLastWeek: -4, PRAvgLastWeek: -9}},
		{"nan averages", schema.StarForkAggregate{StarCurrentMonth: 3, StarAvgPrev3M: math.NaN()}, schema.CommitPRAggregate{CommitAvgMonth: math.NaN(), PRAvgLastWeek: math.NaN()}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, ds := range []schema.DimensionScore{
				GrowthScore(tt.sf),
				ActivityScore(tt.cp, schema.EventTypeAggregate{}),
				ContributionScore(tt.cp),
			} {
				assert.False(t, math.IsNaN(ds.Score), ds.Name)
				assert.False(t, math.IsInf(ds.Score, 0), ds.Name)
				assert.GreaterOrEqual(t, ds.Score, 0.0, ds.Name)
				assert.LessOrEqual(t, ds.Score, 100.0, ds.Name)
			}
		})
	}
}

func TestNegativeAverageCountsAsNoHistory(t *testing.T) {
	clamped := GrowthScore(schema.StarForkAggregate{StarCurrentMonth: 5, StarAvgPrev3M: -3})
	fresh := GrowthScore(schema.StarForkAggregate{StarCurrentMonth: 5})
	assert.Equal(t, fresh.Score, clamped.Score)

	score, ratio := ratioTrend(2, -5)
	wantScore, wantRatio := ratioTrend(2, 0)
	assert.InDelta(t, wantScore, score, 1e-9)
	assert.InDelta(t, wantRatio, ratio, 1e-9)
}
