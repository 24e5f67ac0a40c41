package algo

import (
	"slices"

	"github.com/huangsam/repohealth/schema"
)

// ReconstructTrend rebuilds a cumulative series from daily deltas so that it ends at anchor.
// When the deltas sum past the anchor the baseline is clamped to zero and the series
// overshoots, which AnchorHonored reports.
func ReconstructTrend(points []schema.TrendPoint, anchor int64) schema.TrendSeries {
	series := schema.TrendSeries{
		Labels:     []string{},
		Deltas:     []int64{},
		Cumulative: []int64{},
		Anchor:     anchor,
	}
	if len(points) == 0 {
		return series
	}

	sorted := slices.Clone(points)
	slices.SortStableFunc(sorted, func(a, b schema.TrendPoint) int {
		return a.Date.Compare(b.Date)
	})

	var sum int64
	for _, p := range sorted {
		sum += p.Delta
	}
	series.Baseline = max(0, anchor-sum)

	series.Labels = make([]string, 0, len(sorted))
	series.Deltas = make([]int64, 0, len(sorted))
	series.Cumulative = make([]int64, 0, len(sorted))

	running := series.Baseline
	for _, p := range sorted {
		running += p.Delta
		series.Labels = append(series.Labels, p.Date.Format(schema.DateLayout))
		series.Deltas = append(series.Deltas, p.Delta)
		series.Cumulative = append(series.Cumulative, running)
	}
	series.AnchorHonored = running == anchor
	return series
}
