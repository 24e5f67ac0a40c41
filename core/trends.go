package core

import (
	"context"

	"github.com/huangsam/repohealth/core/algo"
	"github.com/huangsam/repohealth/internal/warehouse"
	"github.com/huangsam/repohealth/schema"
	"github.com/sirupsen/logrus"
)

// ProjectTrends returns the project totals with the star and fork series over the latest limit days.
func (s *HealthService) ProjectTrends(ctx context.Context, project string, limit int) schema.ProjectTrends {
	key := schema.NormalizeProjectKey(project)
	return schema.ProjectTrends{
		Summary:    s.querier.ProjectSummary(ctx, key),
		StarsTrend: s.metricTrend(ctx, key, schema.StarsMetric, limit),
		ForksTrend: s.metricTrend(ctx, key, schema.ForksMetric, limit),
	}
}

func (s *HealthService) metricTrend(ctx context.Context, key schema.ProjectKey, metric schema.TrendMetric, limit int) schema.TrendSeries {
	points, anchor := warehouse.RowsToPoints(s.querier.TrendRows(ctx, key, metric, limit))
	series := algo.ReconstructTrend(points, anchor)
	if !series.AnchorHonored && series.Len() > 0 {
		s.logger.WithFields(logrus.Fields{
			"project":  key,
			"metric":   metric,
			"anchor":   anchor,
			"baseline": series.Baseline,
		}).Warn("trend deltas exceed the anchor total, series was clamped at zero")
	}
	return series
}
