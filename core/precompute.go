package core

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/huangsam/repohealth/internal/contract"
	"github.com/huangsam/repohealth/schema"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

// PrecomputeOptions controls a precompute run.
type PrecomputeOptions struct {
	// Workers bounds the number of projects scored at once.
	Workers int

	// Rate caps projects started per second. Zero or less disables pacing.
	Rate float64

	// Snapshots, when set, records the run and every score.
	Snapshots contract.SnapshotStore

	// Params is stored with the snapshot run.
	Params map[string]any
}

// PrecomputeResult is the outcome of scoring every project in the warehouse.
type PrecomputeResult struct {
	RunID         int64                                          `json:"run_id,omitempty"`
	GeneratedAt   time.Time                                      `json:"generated_at"`
	TotalProjects int                                            `json:"total_projects"`
	Scores        map[schema.ProjectKey]schema.HealthScoreResult `json:"scores"`
	Duration      time.Duration                                  `json:"-"`
}

// SuccessCount is the number of projects that produced a score.
func (r PrecomputeResult) SuccessCount() int {
	return len(r.Scores)
}

// ErrorCount is the number of listed projects without a score of their own.
func (r PrecomputeResult) ErrorCount() int {
	return max(0, r.TotalProjects-len(r.Scores))
}

// Precompute scores every project with star history on a bounded, paced worker pool.
// Snapshot write failures are logged and do not stop the run.
func (s *HealthService) Precompute(ctx context.Context, opts PrecomputeOptions) (PrecomputeResult, error) {
	start := s.clock.Now()

	projects, err := s.querier.ListProjects(ctx)
	if err != nil {
		return PrecomputeResult{}, fmt.Errorf("failed to list projects: %w", err)
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = contract.DefaultWorkers
	}
	limiter := rate.NewLimiter(rate.Inf, 1)
	if opts.Rate > 0 {
		limiter = rate.NewLimiter(rate.Limit(opts.Rate), 1)
	}

	var runID int64
	if opts.Snapshots != nil {
		runID, err = opts.Snapshots.BeginRun(start, s.windows.ReferenceDate.Format(schema.DateLayout), opts.Params)
		if err != nil {
			return PrecomputeResult{}, fmt.Errorf("failed to begin snapshot run: %w", err)
		}
	}

	var mu sync.Mutex
	scores := make(map[schema.ProjectKey]schema.HealthScoreResult, len(projects))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for _, project := range projects {
		if err := limiter.Wait(gctx); err != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			result := s.ComputeHealthScore(gctx, project)

			mu.Lock()
			scores[result.Project] = result
			mu.Unlock()

			if opts.Snapshots != nil {
				if err := opts.Snapshots.RecordProjectScore(runID, result); err != nil {
					s.logger.WithError(err).WithField("project", result.Project).Warn("failed to record project score")
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return PrecomputeResult{}, err
	}
	if err := ctx.Err(); err != nil {
		return PrecomputeResult{}, err
	}

	end := s.clock.Now()
	if opts.Snapshots != nil {
		if err := opts.Snapshots.EndRun(runID, end, len(scores)); err != nil {
			s.logger.WithError(err).WithField("run_id", runID).Warn("failed to finish snapshot run")
		}
	}

	s.logger.WithFields(logrus.Fields{
		"projects": len(scores),
		"run_id":   runID,
	}).Info("precompute finished")

	return PrecomputeResult{
		RunID:         runID,
		GeneratedAt:   end,
		TotalProjects: len(projects),
		Scores:        scores,
		Duration:      end.Sub(start),
	}, nil
}
