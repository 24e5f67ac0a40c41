package cmd

import (
	"time"

	"github.com/huangsam/repohealth/internal/contract"
	"github.com/huangsam/repohealth/internal/outwriter"
	"github.com/spf13/cobra"
)

// contributorsCmd ranks the pushers of one project.
var contributorsCmd = &cobra.Command{
	Use:   "contributors <project>",
	Short: "Rank the top contributors of a project.",
	Long: `Count push events per actor and show the top contributors with their share of all pushes.

Examples:
  # Show the top 10 contributors
  repohealth contributors facebook/react

  # Show the top 25 as JSON, including chart data
  repohealth contributors facebook/react --top 25 --output json`,
	Args:    cobra.ExactArgs(1),
	PreRunE: projectSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		svc, wh, err := newHealthService(rootCtx, cfg)
		if err != nil {
			contract.LogFatal("Cannot connect to warehouse", err)
		}
		defer func() { _ = wh.Close() }()

		start := time.Now()
		result, err := svc.Contributors(rootCtx, string(cfg.Project), cfg.TopN)
		if err != nil {
			contract.LogFatal("Cannot rank contributors", err)
		}
		if err := outwriter.NewOutWriter().WriteContributors(result, cfg, time.Since(start)); err != nil {
			contract.LogFatal("Cannot write contributors", err)
		}
	},
}
