package cmd

import (
	"github.com/huangsam/repohealth/core"
	"github.com/huangsam/repohealth/internal/contract"
	"github.com/huangsam/repohealth/internal/outwriter"
	"github.com/huangsam/repohealth/schema"
	"github.com/spf13/cobra"
)

// precomputeCmd scores every project in the warehouse.
var precomputeCmd = &cobra.Command{
	Use:   "precompute",
	Short: "Score every project in the warehouse.",
	Long: `Score every project with star history on a bounded worker pool.

Results are written as JSON to health_scores.json by default. When a snapshot backend is
configured, the run and every score are also recorded for later export.

Examples:
  # Precompute with 8 workers at 50 projects per second
  repohealth precompute --workers 8 --rate 50

  # Precompute and keep a snapshot in SQLite
  repohealth precompute --output json --snapshot-backend sqlite`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		svc, wh, err := newHealthService(rootCtx, cfg)
		if err != nil {
			contract.LogFatal("Cannot connect to warehouse", err)
		}
		defer func() { _ = wh.Close() }()

		opts := core.PrecomputeOptions{
			Workers: cfg.Workers,
			Rate:    cfg.RateLimit,
			Params:  precomputeParams(cfg),
		}
		if cacheManager != nil {
			opts.Snapshots = cacheManager.GetSnapshotStore()
		}

		result, err := svc.Precompute(rootCtx, opts)
		if err != nil {
			contract.LogFatal("Cannot precompute scores", err)
		}
		if err := outwriter.NewOutWriter().WritePrecompute(result, cfg); err != nil {
			contract.LogFatal("Cannot write precomputed scores", err)
		}
	},
}

// precomputeParams captures the settings stored with a snapshot run.
func precomputeParams(c *contract.Config) map[string]any {
	return map[string]any{
		"warehouse_backend": c.WarehouseBackend,
		"workers":           c.Workers,
		"rate":              c.RateLimit,
		"weights":           c.Weights,
		"month_start":       c.Windows.MonthStart.Format(schema.DateLayout),
		"prev_3m_start":     c.Windows.Prev3MStart.Format(schema.DateLayout),
		"last_week_start":   c.Windows.LastWeekStart.Format(schema.DateLayout),
	}
}
