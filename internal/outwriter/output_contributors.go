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

// contributorsOutput is the JSON shape of a contributors result, chart included.
type contributorsOutput struct {
	schema.ContributorsResult
	Chart schema.ContributorChart `json:"chart"`
}

// WriteContributorsResult outputs the top contributors, dispatching based on the output format configured.
func WriteContributorsResult(w io.Writer, result schema.ContributorsResult, cfg *contract.Config, duration time.Duration) error {
	fmtFloat, intFmt := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		if err := writeJSON(w, contributorsOutput{ContributorsResult: result, Chart: result.Chart()}); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeCSVContributors(w, result, fmtFloat, intFmt); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	case schema.PromOut:
		if err := writePromContributors(w, result); err != nil {
			return fmt.Errorf("error writing prom output: %w", err)
		}
	default:
		return writeContributorsTable(w, result, cfg, fmtFloat, intFmt, duration)
	}
	return nil
}

// writeContributorsTable prints the ranked contributors with their share of pushes.
func writeContributorsTable(w io.Writer, result schema.ContributorsResult, cfg *contract.Config, fmtFloat func(float64) string, intFmt string, duration time.Duration) error {
	table := tablewriter.NewWriter(w)
	defer func() { _ = table.Close() }()

	table.Header([]string{"Rank", "Username", "Pushes", "Share", "Profile"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	nameWidth := GetMaxTableNameWidth(cfg)
	data := make([][]string, 0, len(result.Contributors))
	for i, c := range result.Contributors {
		data = append(data, []string{
			strconv.Itoa(i + 1),
			truncateName(c.Username, nameWidth),
			fmt.Sprintf(intFmt, c.CommitCount),
			fmtFloat(c.Percentage) + "%",
			c.GitHubURL,
		})
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	if _, err := fmt.Fprintf(w, "Showing top %d of %d contributors (total pushes: %d)\n",
		len(result.Contributors), result.TotalContributors, result.TotalCommits); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Ranked in %v\n", duration); err != nil {
		return err
	}
	return nil
}

// writeCSVContributors writes one row per ranked contributor.
func writeCSVContributors(w io.Writer, result schema.ContributorsResult, fmtFloat func(float64) string, intFmt string) error {
	header := []string{"rank", "project", "username", "pushes", "percentage", "github_url"}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for i, c := range result.Contributors {
			row := []string{
				strconv.Itoa(i + 1),
				string(result.Project),
				c.Username,
				fmt.Sprintf(intFmt, c.CommitCount),
				fmtFloat(c.Percentage),
				c.GitHubURL,
			}
			if err := cw.Write(row); err != nil {
				return fmt.Errorf("failed to write CSV record: %w", err)
			}
		}
		return nil
	})
}

func writePromContributors(w io.Writer, result schema.ContributorsResult) error {
	g := newGaugeSet()
	project := string(result.Project)
	g.add(metricContributorsTotal, "Distinct pushers of the project.", float64(result.TotalContributors), "project", project)
	g.add(metricPushesTotal, "Push events of the project.", float64(result.TotalCommits), "project", project)
	for _, c := range result.Contributors {
		g.add(metricContributorCommits, "Push events of a top contributor.", float64(c.CommitCount),
			"project", project, "login", c.Username)
	}
	return g.write(w)
}
