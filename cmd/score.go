package cmd

import (
	"time"

	"github.com/huangsam/repohealth/internal/contract"
	"github.com/huangsam/repohealth/internal/outwriter"
	"github.com/spf13/cobra"
)

// scoreCmd computes the composite health score of one project.
var scoreCmd = &cobra.Command{
	Use:   "score <project>",
	Short: "Compute the health score and grade of a project.",
	Long: `Score a project across four dimensions and combine them into a 0-100 health score.

Dimensions:
- Growth: star and fork momentum against the previous three months
- Activity: commit trend plus overall event engagement
- Contribution: pull request trend of the last week against the month
- Code: log-scaled pull request churn

The project may be given as owner/repo or owner_repo.

Examples:
  # Score a project with default weights
  repohealth score facebook/react

  # Score against a different reference month
  repohealth score vuejs_vue --reference-date 2023-02-28 --month-start 2023-02-01 \
    --prev-3m-start 2022-11-01 --last-week-start 2023-02-21

  # Export the breakdown as Prometheus text
  repohealth score golang/go --output prom --output-file go.prom`,
	Args:    cobra.ExactArgs(1),
	PreRunE: projectSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		svc, wh, err := newHealthService(rootCtx, cfg)
		if err != nil {
			contract.LogFatal("Cannot connect to warehouse", err)
		}
		defer func() { _ = wh.Close() }()

		start := time.Now()
		result := svc.ComputeHealthScore(rootCtx, string(cfg.Project))
		if err := outwriter.NewOutWriter().WriteHealth(result, cfg, time.Since(start)); err != nil {
			contract.LogFatal("Cannot write health score", err)
		}
	},
}
