package algo

import (
	"testing"

	"github.com/huangsam/repohealth/schema"
	"github.com/stretchr/testify/assert"
)

func TestComposite(t *testing.T) {
	t.Run("default weights", func(t *testing.T) {
		got := Composite(54.9, 85, 100, 60, schema.GetDefaultWeights())
		assert.InDelta(t, 76.98, got, 1e-9)
	})

	t.Run("all perfect", func(t *testing.T) {
		assert.InDelta(t, 100, Composite(100, 100, 100, 100, schema.GetDefaultWeights()), 1e-9)
	})

	t.Run("custom weights", func(t *testing.T) {
		weights := schema.DimensionWeights{
			schema.GrowthDimension:       1,
			schema.ActivityDimension:     0,
			schema.ContributionDimension: 0,
			schema.CodeDimension:         0,
		}
		assert.InDelta(t, 42.42, Composite(42.42, 90, 90, 90, weights), 1e-9)
	})
}

func TestClassifyGrade(t *testing.T) {
	tests := []struct {
		score float64
		want  schema.Grade
		label string
	}{
		{100, schema.GradeA, "Excellent"},
		{80, schema.GradeA, "Excellent"},
		{79.99, schema.GradeB, "Good"},
		{60, schema.GradeB, "Good"},
		{59.99, schema.GradeC, "Fair"},
		{40, schema.GradeC, "Fair"},
		{39.99, schema.GradeD, "Poor"},
		{20, schema.GradeD, "Poor"},
		{19.99, schema.GradeE, "Critical"},
		{0, schema.GradeE, "Critical"},
		{-5, schema.GradeE, "Critical"},
	}

	for _, tt := range tests {
		band := ClassifyGrade(tt.score)
		assert.Equal(t, tt.want, band.Grade, "score %v", tt.score)
		assert.Equal(t, tt.label, band.Label, "score %v", tt.score)
	}
}

func TestClassifyGradeColors(t *testing.T) {
	assert.Equal(t, "#22c55e", ClassifyGrade(95).Color)
	assert.Equal(t, "#ef4444", ClassifyGrade(3).Color)
}
