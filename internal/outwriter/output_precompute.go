package outwriter

import (
	"cmp"
	"fmt"
	"io"
	"slices"
	"strconv"
	"time"

	"github.com/huangsam/repohealth/core"
	"github.com/huangsam/repohealth/internal/contract"
	"github.com/huangsam/repohealth/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// precomputeFile is the JSON document a precompute run writes.
type precomputeFile struct {
	GeneratedAt   time.Time                                      `json:"generated_at"`
	TotalProjects int                                            `json:"total_projects"`
	SuccessCount  int                                            `json:"success_count"`
	ErrorCount    int                                            `json:"error_count"`
	Scores        map[schema.ProjectKey]schema.HealthScoreResult `json:"scores"`
}

// WritePrecomputeResult outputs every precomputed score, dispatching based on the output format configured.
// JSON wraps the project-keyed map with run counts. Tables rank projects by final score.
func WritePrecomputeResult(w io.Writer, result core.PrecomputeResult, cfg *contract.Config) error {
	fmtFloat, _ := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		doc := precomputeFile{
			GeneratedAt:   result.GeneratedAt,
			TotalProjects: result.TotalProjects,
			SuccessCount:  result.SuccessCount(),
			ErrorCount:    result.ErrorCount(),
			Scores:        result.Scores,
		}
		if err := writeJSON(w, doc); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeCSVHealth(w, rankScores(result.Scores), fmtFloat); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	case schema.PromOut:
		g := newGaugeSet()
		for _, key := range sortedKeys(result.Scores) {
			addHealthGauges(g, result.Scores[key])
		}
		if err := g.write(w); err != nil {
			return fmt.Errorf("error writing prom output: %w", err)
		}
	default:
		return writePrecomputeTable(w, result, cfg, fmtFloat)
	}
	return nil
}

// rankScores orders results by final score, highest first, then by project key.
func rankScores(scores map[schema.ProjectKey]schema.HealthScoreResult) []schema.HealthScoreResult {
	ranked := make([]schema.HealthScoreResult, 0, len(scores))
	for _, key := range sortedKeys(scores) {
		ranked = append(ranked, scores[key])
	}
	slices.SortStableFunc(ranked, func(a, b schema.HealthScoreResult) int {
		return cmp.Compare(b.FinalScore, a.FinalScore)
	})
	return ranked
}

func writePrecomputeTable(w io.Writer, result core.PrecomputeResult, cfg *contract.Config, fmtFloat func(float64) string) error {
	table := tablewriter.NewWriter(w)
	defer func() { _ = table.Close() }()

	headers := []string{"Rank", "Project", "Score", "Grade"}
	for _, d := range schema.AllDimensions {
		headers = append(headers, schema.DimensionDisplayName(d))
	}
	table.Header(headers)
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	nameWidth := GetMaxTableNameWidth(cfg)
	ranked := rankScores(result.Scores)
	data := make([][]string, 0, len(ranked))
	for i, r := range ranked {
		row := []string{
			strconv.Itoa(i + 1),
			truncateName(r.RepoName, nameWidth),
			fmtFloat(r.FinalScore),
			gradeLabel(r.Grade, cfg.UseColors),
		}
		for _, d := range schema.AllDimensions {
			row = append(row, fmtFloat(r.Dimensions[d].Score))
		}
		data = append(data, row)
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	summary := fmt.Sprintf("Scored %d projects in %v with %d workers", len(ranked), result.Duration, cfg.Workers)
	if result.RunID > 0 {
		summary += fmt.Sprintf(" (snapshot run %d)", result.RunID)
	}
	if _, err := fmt.Fprintln(w, summary); err != nil {
		return err
	}
	return nil
}
