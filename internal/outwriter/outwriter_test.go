package outwriter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/huangsam/repohealth/core"
	"github.com/huangsam/repohealth/internal/contract"
	"github.com/huangsam/repohealth/schema"
	"github.com/prometheus/common/expfmt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(output schema.OutputMode) *contract.Config {
	return &contract.Config{
		Output:       output,
		Precision:    2,
		Width:        120,
		Workers:      4,
		TrendLimit:   100,
		CacheBackend: schema.SQLiteBackend,
	}
}

func sampleHealth(key schema.ProjectKey, final float64, grade schema.Grade) schema.HealthScoreResult {
	band := schema.LookupGradeBand(grade)
	return schema.HealthScoreResult{
		Project:    key,
		RepoName:   key.RepoName(),
		FinalScore: final,
		Grade:      grade,
		GradeLabel: band.Label,
		GradeColor: band.Color,
		Weights:    schema.GetDefaultWeights(),
		Dimensions: map[schema.Dimension]schema.DimensionScore{
			schema.GrowthDimension: {
				Name: "Growth", Weight: "20%", Score: 100,
				Subscores: map[string]float64{schema.SubscoreStar: 100, schema.SubscoreFork: 100},
				Details:   map[string]float64{schema.DetailStarCurrentMonth: 300},
			},
			schema.ActivityDimension:     {Name: "Activity", Weight: "40%", Score: 100, Details: map[string]float64{}},
			schema.ContributionDimension: {Name: "Contribution", Weight: "20%", Score: 50, Details: map[string]float64{}},
			schema.CodeDimension:         {Name: "Code", Weight: "20%", Score: 100, Details: map[string]float64{}},
		},
		CalculatedAt:  time.Date(2023, time.April, 1, 0, 0, 0, 0, time.UTC),
		ReferenceDate: "2023-03-31",
	}
}

func sampleTrends() schema.ProjectTrends {
	return schema.ProjectTrends{
		Summary: schema.ProjectSummary{Project: "facebook_react", RepoName: "facebook/react", TotalStars: 20, TotalForks: 4},
		StarsTrend: schema.TrendSeries{
			Labels:        []string{"2023-03-30", "2023-03-31"},
			Deltas:        []int64{3, 5},
			Cumulative:    []int64{15, 20},
			Anchor:        20,
			Baseline:      12,
			AnchorHonored: true,
		},
		ForksTrend: schema.TrendSeries{Anchor: 4, Baseline: 4, AnchorHonored: true},
	}
}

func sampleContributors() schema.ContributorsResult {
	return schema.ContributorsResult{
		Project:           "facebook_react",
		TotalContributors: 3,
		TotalCommits:      10,
		Contributors: []schema.ContributorInfo{
			{Username: "alice", CommitCount: 6, Percentage: 60, GitHubURL: "https://github.com/alice"},
			{Username: "bob", CommitCount: 3, Percentage: 30, GitHubURL: "https://github.com/bob"},
		},
	}
}

func parseProm(t *testing.T, data []byte) map[string]float64 {
	t.Helper()
	var parser expfmt.TextParser
	families, err := parser.TextToMetricFamilies(bytes.NewReader(data))
	require.NoError(t, err)

	values := make(map[string]float64)
	for name, mf := range families {
		for _, m := range mf.GetMetric() {
			key := name
			for _, lp := range m.GetLabel() {
				key += "," + lp.GetName() + "=" + lp.GetValue()
			}
			values[key] = m.GetGauge().GetValue()
		}
	}
	return values
}

func TestWriteHealthResult(t *testing.T) {
	result := sampleHealth("facebook_react", 90, schema.GradeA)

	t.Run("text", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, WriteHealthResult(&buf, result, testConfig(schema.TextOut), time.Second))

		out := buf.String()
		assert.Contains(t, out, "facebook/react")
		assert.Contains(t, out, "Contribution")
		assert.Contains(t, out, "fork_score=100.00|star_score=100.00")
		assert.Contains(t, out, "Final score: 90.00 (A Excellent)")
		assert.Contains(t, out, "Cache backend: sqlite")
	})

	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, WriteHealthResult(&buf, result, testConfig(schema.JSONOut), 0))

		var decoded map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
		assert.Equal(t, "facebook_react", decoded["project"])
		assert.Equal(t, 90.0, decoded["final_score"])
		assert.Equal(t, "A", decoded["grade"])
		assert.Contains(t, decoded["dimensions"], "growth")
	})

	t.Run("csv", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, WriteHealthResult(&buf, result, testConfig(schema.CSVOut), 0))

		records, err := csv.NewReader(&buf).ReadAll()
		require.NoError(t, err)
		require.Len(t, records, 5) // header + four dimensions
		assert.Equal(t, "dimension", records[0][4])
		assert.Equal(t, []string{"facebook_react", "facebook/react", "90.00", "A", "growth", "20%", "100.00", "star_current_month=300.00"}, records[1])
		assert.Equal(t, "code", records[4][4])
	})

	t.Run("prom", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, WriteHealthResult(&buf, result, testConfig(schema.PromOut), 0))

		values := parseProm(t, buf.Bytes())
		assert.Equal(t, 90.0, values["repohealth_health_score,project=facebook_react,repo_name=facebook/react"])
		assert.Equal(t, 50.0, values["repohealth_dimension_score,project=facebook_react,dimension=contribution"])
		assert.Equal(t, 1.0, values["repohealth_grade_info,project=facebook_react,grade=A,label=Excellent"])
		assert.Contains(t, buf.String(), "# TYPE repohealth_health_score gauge")
	})
}

func TestWriteTrendResult(t *testing.T) {
	trends := sampleTrends()

	t.Run("text", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, WriteTrendResult(&buf, trends, testConfig(schema.TextOut), time.Second))

		out := buf.String()
		assert.Contains(t, out, "facebook/react: 20 stars, 4 forks")
		assert.Contains(t, out, "stars (baseline 12)")
		assert.Contains(t, out, "2023-03-31")
		assert.Contains(t, out, "No daily data")
		assert.NotContains(t, out, "series starts at zero")
	})

	t.Run("text clamped", func(t *testing.T) {
		clamped := sampleTrends()
		clamped.StarsTrend.AnchorHonored = false

		var buf bytes.Buffer
		require.NoError(t, WriteTrendResult(&buf, clamped, testConfig(schema.TextOut), 0))
		assert.Contains(t, buf.String(), "Deltas exceed the total of 20")
	})

	t.Run("csv", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, WriteTrendResult(&buf, trends, testConfig(schema.CSVOut), 0))

		records, err := csv.NewReader(&buf).ReadAll()
		require.NoError(t, err)
		assert.Equal(t, [][]string{
			{"project", "metric", "date", "delta", "total"},
			{"facebook_react", "stars", "2023-03-30", "3", "15"},
			{"facebook_react", "stars", "2023-03-31", "5", "20"},
		}, records)
	})

	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, WriteTrendResult(&buf, trends, testConfig(schema.JSONOut), 0))

		var decoded schema.ProjectTrends
		require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
		assert.Equal(t, trends.StarsTrend.Cumulative, decoded.StarsTrend.Cumulative)
		assert.Equal(t, trends.Summary, decoded.Summary)
	})

	t.Run("prom", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, WriteTrendResult(&buf, trends, testConfig(schema.PromOut), 0))

		values := parseProm(t, buf.Bytes())
		assert.Equal(t, 20.0, values["repohealth_trend_total,project=facebook_react,metric=stars"])
		assert.Equal(t, 12.0, values["repohealth_trend_baseline,project=facebook_react,metric=stars"])
		assert.Equal(t, 1.0, values["repohealth_trend_anchor_honored,project=facebook_react,metric=forks"])
	})
}

func TestWriteContributorsResult(t *testing.T) {
	result := sampleContributors()

	t.Run("text", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, WriteContributorsResult(&buf, result, testConfig(schema.TextOut), 0))

		out := buf.String()
		assert.Contains(t, out, "alice")
		assert.Contains(t, out, "60.00%")
		assert.Contains(t, out, "https://github.com/bob")
		assert.Contains(t, out, "Showing top 2 of 3 contributors (total pushes: 10)")
	})

	t.Run("json includes chart", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, WriteContributorsResult(&buf, result, testConfig(schema.JSONOut), 0))

		var decoded struct {
			TotalCommits int64                   `json:"total_commits"`
			Chart        schema.ContributorChart `json:"chart"`
		}
		require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
		assert.Equal(t, int64(10), decoded.TotalCommits)
		assert.Equal(t, []string{"alice", "bob", schema.OtherContributorsLabel}, decoded.Chart.Labels)
		assert.Equal(t, []int64{6, 3, 1}, decoded.Chart.Values)
	})

	t.Run("csv", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, WriteContributorsResult(&buf, result, testConfig(schema.CSVOut), 0))

		records, err := csv.NewReader(&buf).ReadAll()
		require.NoError(t, err)
		require.Len(t, records, 3)
		assert.Equal(t, []string{"1", "facebook_react", "alice", "6", "60.00", "https://github.com/alice"}, records[1])
	})

	t.Run("prom", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, WriteContributorsResult(&buf, result, testConfig(schema.PromOut), 0))

		values := parseProm(t, buf.Bytes())
		assert.Equal(t, 3.0, values["repohealth_contributors_total,project=facebook_react"])
		assert.Equal(t, 10.0, values["repohealth_pushes_total,project=facebook_react"])
		assert.Equal(t, 3.0, values["repohealth_contributor_commits,project=facebook_react,login=bob"])
	})
}

func TestWritePrecomputeResult(t *testing.T) {
	result := core.PrecomputeResult{
		RunID:         7,
		GeneratedAt:   time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
		TotalProjects: 4,
		Scores: map[schema.ProjectKey]schema.HealthScoreResult{
			"vuejs_vue":      sampleHealth("vuejs_vue", 55, schema.GradeC),
			"facebook_react": sampleHealth("facebook_react", 90, schema.GradeA),
			"golang_go":      sampleHealth("golang_go", 55, schema.GradeC),
		},
		Duration: time.Second,
	}

	t.Run("text ranks by score", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, WritePrecomputeResult(&buf, result, testConfig(schema.TextOut)))

		out := buf.String()
		react := strings.Index(out, "facebook/react")
		golang := strings.Index(out, "golang/go")
		vue := strings.Index(out, "vuejs/vue")
		assert.Less(t, react, golang)
		assert.Less(t, golang, vue)
		assert.Contains(t, out, "Scored 3 projects")
		assert.Contains(t, out, "(snapshot run 7)")
	})

	t.Run("json envelope", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, WritePrecomputeResult(&buf, result, testConfig(schema.JSONOut)))

		var decoded struct {
			GeneratedAt   time.Time                                `json:"generated_at"`
			TotalProjects int                                      `json:"total_projects"`
			SuccessCount  int                                      `json:"success_count"`
			ErrorCount    int                                      `json:"error_count"`
			Scores        map[string]schema.HealthScoreResult `json:"scores"`
		}
		require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
		assert.True(t, result.GeneratedAt.Equal(decoded.GeneratedAt))
		assert.Equal(t, 4, decoded.TotalProjects)
		assert.Equal(t, 3, decoded.SuccessCount)
		assert.Equal(t, 1, decoded.ErrorCount)
		require.Len(t, decoded.Scores, 3)
		assert.Equal(t, schema.GradeA, decoded.Scores["facebook_react"].Grade)
	})

	t.Run("csv", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, WritePrecomputeResult(&buf, result, testConfig(schema.CSVOut)))

		records, err := csv.NewReader(&buf).ReadAll()
		require.NoError(t, err)
		require.Len(t, records, 13)
		assert.Equal(t, "facebook_react", records[1][0])
		assert.Equal(t, "golang_go", records[5][0])
	})

	t.Run("prom", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, WritePrecomputeResult(&buf, result, testConfig(schema.PromOut)))

		values := parseProm(t, buf.Bytes())
		assert.Equal(t, 55.0, values["repohealth_health_score,project=vuejs_vue,repo_name=vuejs/vue"])
		assert.Equal(t, 90.0, values["repohealth_health_score,project=facebook_react,repo_name=facebook/react"])
	})
}

func TestWritePrecomputeDefaultsJSONFile(t *testing.T) {
	t.Chdir(t.TempDir())

	result := core.PrecomputeResult{Scores: map[schema.ProjectKey]schema.HealthScoreResult{
		"facebook_react": sampleHealth("facebook_react", 90, schema.GradeA),
	}}
	require.NoError(t, NewOutWriter().WritePrecompute(result, testConfig(schema.JSONOut)))

	data, err := os.ReadFile(contract.DefaultPrecomputeFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"facebook_react"`)
}

func TestOutWriterWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "score.json")
	cfg := testConfig(schema.JSONOut)
	cfg.OutputFile = path

	require.NoError(t, NewOutWriter().WriteHealth(sampleHealth("facebook_react", 90, schema.GradeA), cfg, 0))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, json.Valid(data))
}

func TestGetMaxTableNameWidth(t *testing.T) {
	tests := []struct {
		width    int
		expected int
	}{
		{40, 15},
		{120, 35},
		{400, 60},
	}
	for _, tt := range tests {
		cfg := &contract.Config{Width: tt.width}
		assert.Equal(t, tt.expected, GetMaxTableNameWidth(cfg), "width %d", tt.width)
	}
}

func TestTruncateName(t *testing.T) {
	assert.Equal(t, "facebook/react", truncateName("facebook/react", 20))
	assert.Equal(t, "faceb...", truncateName("facebook/react", 8))
	assert.Equal(t, "abc", truncateName("abc", 2))
}

func TestGradeLabel(t *testing.T) {
	assert.Equal(t, "B Good", gradeLabel(schema.GradeB, false))
	assert.Contains(t, gradeLabel(schema.GradeB, true), "Good")
}
