package cmd

import (
	"time"

	"github.com/huangsam/repohealth/internal/contract"
	"github.com/huangsam/repohealth/internal/outwriter"
	"github.com/spf13/cobra"
)

// trendCmd reconstructs the star and fork series of one project.
var trendCmd = &cobra.Command{
	Use:   "trend <project>",
	Short: "Show cumulative star and fork trends of a project.",
	Long: `Rebuild cumulative star and fork series from daily deltas, anchored to the latest known totals.

When the deltas add up to more than the known total, the series is clamped to start at zero
and reported as not ending at the anchor.

Examples:
  # Show the last 100 days of stars and forks
  repohealth trend facebook/react

  # Show the last 30 days as CSV
  repohealth trend facebook/react --trend-limit 30 --output csv`,
	Args:    cobra.ExactArgs(1),
	PreRunE: projectSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		svc, wh, err := newHealthService(rootCtx, cfg)
		if err != nil {
			contract.LogFatal("Cannot connect to warehouse", err)
		}
		defer func() { _ = wh.Close() }()

		start := time.Now()
		trends := svc.ProjectTrends(rootCtx, string(cfg.Project), cfg.TrendLimit)
		if err := outwriter.NewOutWriter().WriteTrends(trends, cfg, time.Since(start)); err != nil {
			contract.LogFatal("Cannot write trends", err)
		}
	},
}
