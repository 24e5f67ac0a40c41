// Package core composes warehouse accessors, the result cache and the pure scorers
// into the health score, trend, contributor and precompute operations.
package core

import (
	"context"

	"github.com/huangsam/repohealth/core/agg"
	"github.com/huangsam/repohealth/core/algo"
	"github.com/huangsam/repohealth/internal/contract"
	"github.com/huangsam/repohealth/schema"
	"github.com/sirupsen/logrus"
)

// HealthService scores projects. Calls are synchronous and share only the cache.
type HealthService struct {
	querier contract.Warehouse
	cache   *agg.ResultCache
	windows schema.ReferenceWindows
	weights schema.DimensionWeights
	clock   contract.Clock
	logger  *logrus.Logger
}

// NewHealthService wires a service. Nil weights select the defaults.
func NewHealthService(
	querier contract.Warehouse,
	cache *agg.ResultCache,
	windows schema.ReferenceWindows,
	weights schema.DimensionWeights,
	clock contract.Clock,
	logger *logrus.Logger,
) *HealthService {
	if weights == nil {
		weights = schema.GetDefaultWeights()
	}
	if clock == nil {
		clock = contract.SystemClock{}
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	if cache == nil {
		cache = agg.NewResultCache(clock, contract.DefaultCacheTTL, nil, logger)
	}
	return &HealthService{
		querier: querier,
		cache:   cache,
		windows: windows,
		weights: weights,
		clock:   clock,
		logger:  logger,
	}
}

// Windows returns the reference windows scores are computed against.
func (s *HealthService) Windows() schema.ReferenceWindows {
	return s.windows
}

// WindowedAggregates reads both windowed metric pairs of a project.
// Each pair fails soft to zero on its own.
func (s *HealthService) WindowedAggregates(ctx context.Context, key schema.ProjectKey) schema.WindowedAggregate {
	return schema.WindowedAggregate{
		StarFork: s.querier.StarForkAggregates(ctx, key, s.windows),
		CommitPR: s.querier.CommitPRAggregates(ctx, key, s.windows),
	}
}

// ComputeHealthScore scores one project. It always returns a complete result;
// a project without data scores zero in every dimension.
func (s *HealthService) ComputeHealthScore(ctx context.Context, project string) schema.HealthScoreResult {
	key := schema.NormalizeProjectKey(project)

	windowed := s.WindowedAggregates(ctx, key)
	events := s.cache.GetOrCompute(ctx, key, func(ctx context.Context) (schema.EventTypeAggregate, bool) {
		return s.querier.EventAggregates(ctx, key)
	})

	dims := map[schema.Dimension]schema.DimensionScore{
		schema.GrowthDimension:       algo.GrowthScore(windowed.StarFork),
		schema.ActivityDimension:     algo.ActivityScore(windowed.CommitPR, events),
		schema.ContributionDimension: algo.ContributionScore(windowed.CommitPR),
		schema.CodeDimension:         algo.CodeScore(events),
	}
	for d, score := range dims {
		score.Weight = algo.FormatWeight(s.weights[d])
		dims[d] = score
	}

	final := algo.Composite(
		dims[schema.GrowthDimension].Score,
		dims[schema.ActivityDimension].Score,
		dims[schema.ContributionDimension].Score,
		dims[schema.CodeDimension].Score,
		s.weights,
	)
	band := algo.ClassifyGrade(final)

	s.logger.WithFields(logrus.Fields{
		"project": key,
		"score":   final,
		"grade":   band.Grade,
	}).Debug("computed health score")

	return schema.HealthScoreResult{
		Project:       key,
		RepoName:      key.RepoName(),
		FinalScore:    final,
		Grade:         band.Grade,
		GradeLabel:    band.Label,
		GradeColor:    band.Color,
		Weights:       s.weights,
		Dimensions:    dims,
		CalculatedAt:  s.clock.Now(),
		ReferenceDate: s.windows.ReferenceDate.Format(schema.DateLayout),
	}
}

// ReconstructTrend rebuilds a cumulative series from daily deltas and the known final total.
func (s *HealthService) ReconstructTrend(points []schema.TrendPoint, anchor int64) schema.TrendSeries {
	return algo.ReconstructTrend(points, anchor)
}
