// Package outwriter has output and writer logic.
package outwriter

import (
	"io"
	"os"
	"time"

	"github.com/huangsam/repohealth/core"
	"github.com/huangsam/repohealth/internal/contract"
	"github.com/huangsam/repohealth/schema"
	"golang.org/x/term"
)

// OutWriter provides a unified interface for all output operations.
// It encapsulates the various output formats and provides a clean API for the commands.
type OutWriter struct{}

// NewOutWriter creates a new instance of the output writer.
func NewOutWriter() *OutWriter {
	return &OutWriter{}
}

// WriteHealth prints a health score using the configured output format.
func (ow *OutWriter) WriteHealth(result schema.HealthScoreResult, cfg *contract.Config, duration time.Duration) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return WriteHealthResult(w, result, cfg, duration)
	}, "Wrote health score")
}

// WriteTrends prints reconstructed star and fork trends using the configured output format.
func (ow *OutWriter) WriteTrends(trends schema.ProjectTrends, cfg *contract.Config, duration time.Duration) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return WriteTrendResult(w, trends, cfg, duration)
	}, "Wrote trends")
}

// WriteContributors prints the top contributors using the configured output format.
func (ow *OutWriter) WriteContributors(result schema.ContributorsResult, cfg *contract.Config, duration time.Duration) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return WriteContributorsResult(w, result, cfg, duration)
	}, "Wrote contributors")
}

// WritePrecompute prints every precomputed score. JSON output goes to
// health_scores.json unless an output file is configured.
func (ow *OutWriter) WritePrecompute(result core.PrecomputeResult, cfg *contract.Config) error {
	outputFile := cfg.OutputFile
	if outputFile == "" && cfg.Output == schema.JSONOut {
		outputFile = contract.DefaultPrecomputeFile
	}
	return writeWithFile(outputFile, func(w io.Writer) error {
		return WritePrecomputeResult(w, result, cfg)
	}, "Wrote precomputed scores")
}

// GetMaxTableNameWidth calculates the maximum width for project names in table output
// based on terminal width.
func GetMaxTableNameWidth(cfg *contract.Config) int {
	var termWidth int

	// Check for absolute width override from flag/env
	if cfg.Width > 0 {
		termWidth = cfg.Width
	}

	if termWidth == 0 {
		detectedWidth, _, err := term.GetSize(int(os.Stdout.Fd()))
		if err != nil || detectedWidth <= 0 {
			termWidth = 80 // Conservative default for narrow terminals and CI
		} else {
			termWidth = detectedWidth
		}
	}

	// Rank + Score + Grade + four dimension columns, with borders and padding
	baseWidth := 25 + 4*10 + 20

	available := termWidth - baseWidth
	if available < 15 {
		return 15
	}
	if available > 60 {
		return 60
	}
	return available
}

// truncateName shortens s to width runes, marking the cut with an ellipsis.
func truncateName(s string, width int) string {
	runes := []rune(s)
	if len(runes) <= width || width <= 3 {
		return s
	}
	return string(runes[:width-3]) + "..."
}
