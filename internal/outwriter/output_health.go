package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"github.com/huangsam/repohealth/internal/contract"
	"github.com/huangsam/repohealth/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// WriteHealthResult outputs a health score, dispatching based on the output format configured.
func WriteHealthResult(w io.Writer, result schema.HealthScoreResult, cfg *contract.Config, duration time.Duration) error {
	fmtFloat, _ := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		if err := writeJSON(w, result); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeCSVHealth(w, []schema.HealthScoreResult{result}, fmtFloat); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	case schema.PromOut:
		gauges := newGaugeSet()
		addHealthGauges(gauges, result)
		if err := gauges.write(w); err != nil {
			return fmt.Errorf("error writing prom output: %w", err)
		}
	default:
		return writeHealthTable(w, result, cfg, fmtFloat, duration)
	}
	return nil
}

// writeHealthTable prints the dimension breakdown followed by the composite score.
func writeHealthTable(w io.Writer, result schema.HealthScoreResult, cfg *contract.Config, fmtFloat func(float64) string, duration time.Duration) error {
	if _, err := fmt.Fprintf(w, "🩺 %s (reference date %s)\n", result.RepoName, result.ReferenceDate); err != nil {
		return err
	}

	table := tablewriter.NewWriter(w)
	defer func() { _ = table.Close() }()

	table.Header([]string{"Dimension", "Weight", "Score", "Subscores"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	var data [][]string
	for _, d := range schema.AllDimensions {
		dim, ok := result.Dimensions[d]
		if !ok {
			continue
		}
		data = append(data, []string{
			dim.Name,
			dim.Weight,
			fmtFloat(dim.Score),
			formatDetails(dim.Subscores, fmtFloat),
		})
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	if _, err := fmt.Fprintf(w, "Final score: %s (%s)\n", fmtFloat(result.FinalScore), gradeLabel(result.Grade, cfg.UseColors)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Computed in %v. Cache backend: %s\n", duration, cfg.CacheBackend); err != nil {
		return err
	}
	return nil
}

// writeCSVHealth writes one row per project and dimension.
func writeCSVHealth(w io.Writer, results []schema.HealthScoreResult, fmtFloat func(float64) string) error {
	header := []string{
		"project",
		"repo_name",
		"final_score",
		"grade",
		"dimension",
		"weight",
		"score",
		"details",
	}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, r := range results {
			for _, d := range schema.AllDimensions {
				dim, ok := r.Dimensions[d]
				if !ok {
					continue
				}
				row := []string{
					string(r.Project),
					r.RepoName,
					fmtFloat(r.FinalScore),
					string(r.Grade),
					string(d),
					dim.Weight,
					fmtFloat(dim.Score),
					formatDetails(dim.Details, fmtFloat),
				}
				if err := cw.Write(row); err != nil {
					return fmt.Errorf("failed to write CSV record: %w", err)
				}
			}
		}
		return nil
	})
}

// addHealthGauges records the final score, each dimension score and the grade of one project.
func addHealthGauges(g *gaugeSet, r schema.HealthScoreResult) {
	project := string(r.Project)
	g.add(metricHealthScore, "Composite health score from 0 to 100.", r.FinalScore,
		"project", project, "repo_name", r.RepoName)
	for _, d := range schema.AllDimensions {
		if dim, ok := r.Dimensions[d]; ok {
			g.add(metricDimensionScore, "Health score of one dimension from 0 to 100.", dim.Score,
				"project", project, "dimension", string(d))
		}
	}
	g.add(metricGradeInfo, "Letter grade of the composite score.", 1,
		"project", project, "grade", string(r.Grade), "label", r.GradeLabel)
}
