package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/huangsam/repohealth/internal/contract"
	"github.com/huangsam/repohealth/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// WriteTrendResult outputs the star and fork trends, dispatching based on the output format configured.
func WriteTrendResult(w io.Writer, trends schema.ProjectTrends, cfg *contract.Config, duration time.Duration) error {
	switch cfg.Output {
	case schema.JSONOut:
		if err := writeJSON(w, trends); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeCSVTrends(w, trends); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	case schema.PromOut:
		if err := writePromTrends(w, trends); err != nil {
			return fmt.Errorf("error writing prom output: %w", err)
		}
	default:
		return writeTrendTable(w, trends, cfg, duration)
	}
	return nil
}

type metricSeries struct {
	metric schema.TrendMetric
	total  int64
	series schema.TrendSeries
}

func namedSeries(trends schema.ProjectTrends) []metricSeries {
	return []metricSeries{
		{schema.StarsMetric, trends.Summary.TotalStars, trends.StarsTrend},
		{schema.ForksMetric, trends.Summary.TotalForks, trends.ForksTrend},
	}
}

// writeTrendTable prints one table per metric, oldest day first.
func writeTrendTable(w io.Writer, trends schema.ProjectTrends, cfg *contract.Config, duration time.Duration) error {
	s := trends.Summary
	if _, err := fmt.Fprintf(w, "📈 %s: %d stars, %d forks\n", s.RepoName, s.TotalStars, s.TotalForks); err != nil {
		return err
	}

	for _, m := range namedSeries(trends) {
		if err := writeSeriesTable(w, m.metric, m.series); err != nil {
			return err
		}
	}

	if _, err := fmt.Fprintf(w, "Trends computed in %v with limit %d\n", duration, cfg.TrendLimit); err != nil {
		return err
	}
	return nil
}

func writeSeriesTable(w io.Writer, metric schema.TrendMetric, series schema.TrendSeries) error {
	if _, err := fmt.Fprintf(w, "\n%s (baseline %d)\n", metric, series.Baseline); err != nil {
		return err
	}
	if series.Len() == 0 {
		_, err := fmt.Fprintln(w, "No daily data")
		return err
	}

	table := tablewriter.NewWriter(w)
	defer func() { _ = table.Close() }()

	table.Header([]string{"Date", "Delta", "Total"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	data := make([][]string, 0, series.Len())
	for i, label := range series.Labels {
		data = append(data, []string{
			label,
			strconv.FormatInt(series.Deltas[i], 10),
			strconv.FormatInt(series.Cumulative[i], 10),
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	if !series.AnchorHonored {
		if _, err := fmt.Fprintf(w, "⚠️  Deltas exceed the total of %d, series starts at zero\n", series.Anchor); err != nil {
			return err
		}
	}
	return nil
}

// writeCSVTrends writes one row per metric and day.
func writeCSVTrends(w io.Writer, trends schema.ProjectTrends) error {
	header := []string{"project", "metric", "date", "delta", "total"}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		project := string(trends.Summary.Project)
		for _, m := range namedSeries(trends) {
			for i, label := range m.series.Labels {
				row := []string{
					project,
					string(m.metric),
					label,
					strconv.FormatInt(m.series.Deltas[i], 10),
					strconv.FormatInt(m.series.Cumulative[i], 10),
				}
				if err := cw.Write(row); err != nil {
					return fmt.Errorf("failed to write CSV record: %w", err)
				}
			}
		}
		return nil
	})
}

// writePromTrends exposes the anchor totals and reconstruction state per metric.
// Daily points are left out to keep label cardinality bounded.
func writePromTrends(w io.Writer, trends schema.ProjectTrends) error {
	g := newGaugeSet()
	project := string(trends.Summary.Project)
	for _, m := range namedSeries(trends) {
		metric := string(m.metric)
		g.add(metricTrendTotal, "Latest known cumulative total.", float64(m.total),
			"project", project, "metric", metric)
		g.add(metricTrendBaseline, "Cumulative value before the first reconstructed day.", float64(m.series.Baseline),
			"project", project, "metric", metric)
		g.add(metricTrendAnchorHonored, "Whether the reconstructed series ends at the known total.", boolGauge(m.series.AnchorHonored),
			"project", project, "metric", metric)
	}
	return g.write(w)
}
