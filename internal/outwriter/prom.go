package outwriter

import (
	"fmt"
	"io"
	"slices"
	"strings"

	dto "github.com/prometheus/client_model/go"
	"github.com/prometheus/common/expfmt"
)

// Metric names of the Prometheus text exposition.
const (
	metricHealthScore        = "repohealth_health_score"
	metricDimensionScore     = "repohealth_dimension_score"
	metricGradeInfo          = "repohealth_grade_info"
	metricTrendTotal         = "repohealth_trend_total"
	metricTrendBaseline      = "repohealth_trend_baseline"
	metricTrendAnchorHonored = "repohealth_trend_anchor_honored"
	metricContributorCommits = "repohealth_contributor_commits"
	metricContributorsTotal  = "repohealth_contributors_total"
	metricPushesTotal        = "repohealth_pushes_total"
)

// gaugeSet collects gauge samples grouped into metric families.
type gaugeSet struct {
	families map[string]*dto.MetricFamily
}

func newGaugeSet() *gaugeSet {
	return &gaugeSet{families: make(map[string]*dto.MetricFamily)}
}

// add appends one sample. Labels are given as name, value pairs.
func (g *gaugeSet) add(name, help string, value float64, labels ...string) {
	mf, ok := g.families[name]
	if !ok {
		mf = &dto.MetricFamily{
			Name: ptr(name),
			Help: ptr(help),
			Type: dto.MetricType_GAUGE.Enum(),
		}
		g.families[name] = mf
	}

	pairs := make([]*dto.LabelPair, 0, len(labels)/2)
	for i := 0; i+1 < len(labels); i += 2 {
		pairs = append(pairs, &dto.LabelPair{Name: ptr(labels[i]), Value: ptr(labels[i+1])})
	}
	mf.Metric = append(mf.Metric, &dto.Metric{
		Label: pairs,
		Gauge: &dto.Gauge{Value: ptr(value)},
	})
}

// write emits every family in name order.
func (g *gaugeSet) write(w io.Writer) error {
	names := make([]string, 0, len(g.families))
	for name := range g.families {
		names = append(names, name)
	}
	slices.SortFunc(names, strings.Compare)

	for _, name := range names {
		if _, err := expfmt.MetricFamilyToText(w, g.families[name]); err != nil {
			return fmt.Errorf("failed to write metric family %s: %w", name, err)
		}
	}
	return nil
}

func ptr[T any](v T) *T {
	return &v
}

func boolGauge(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
