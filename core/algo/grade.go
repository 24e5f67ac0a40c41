package algo

import "github.com/huangsam/repohealth/schema"

// Composite weighs the rounded dimension scores into the final score.
func Composite(growth, activity, contribution, code float64, weights schema.DimensionWeights) float64 {
	return Round2(growth*weights[schema.GrowthDimension] +
		activity*weights[schema.ActivityDimension] +
		contribution*weights[schema.ContributionDimension] +
		code*weights[schema.CodeDimension])
}

// ClassifyGrade returns the first band whose closed lower bound the score reaches.
func ClassifyGrade(score float64) schema.GradeBand {
	for _, band := range schema.GradeBands {
		if score >= band.MinScore {
			return band
		}
	}
	return schema.GradeBands[len(schema.GradeBands)-1]
}
