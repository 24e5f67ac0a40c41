package warehouse

import (
	"context"
	"fmt"
	"time"

	"github.com/huangsam/repohealth/schema"
)

// trendColumns maps a metric to its table, delta column and total column.
var trendColumns = map[schema.TrendMetric]struct {
	table, delta, total string
}{
	schema.StarsMetric: {"stars", "stars_count", "total_stargazers"},
	schema.ForksMetric: {"forks", "forks_count", "total_forks"},
}

const summaryQuery = `
	SELECT
		(SELECT COALESCE(MAX(total_stargazers), 0) FROM stars WHERE project = ?) AS total_stars,
		(SELECT COALESCE(MAX(total_forks), 0) FROM forks WHERE project = ?) AS total_forks
`

// TrendRows returns the most recent limit rows of a metric, newest first.
func (w *Warehouse) TrendRows(ctx context.Context, key schema.ProjectKey, metric schema.TrendMetric, limit int) []schema.TrendRow {
	cols, ok := trendColumns[metric]
	if !ok {
		w.logSoftFailure(fmt.Errorf("unknown trend metric %q", metric), key, "trend")
		return []schema.TrendRow{}
	}
	if limit <= 0 {
		limit = schema.DefaultTrendLimit
	}

	query := w.db.Rebind(fmt.Sprintf(`
		SELECT %s AS day, COALESCE(%s, 0) AS delta, COALESCE(%s, 0) AS total
		FROM %s
		WHERE project = ?
		ORDER BY date DESC
		LIMIT ?
	`, w.dayExpr("date"), cols.delta, cols.total, cols.table))

	rows := []schema.TrendRow{}
	if err := w.db.SelectContext(ctx, &rows, query, key.RepoName(), limit); err != nil {
		w.logSoftFailure(err, key, "trend_"+string(metric))
		return []schema.TrendRow{}
	}
	return rows
}

// ProjectSummary returns the largest recorded star and fork totals.
func (w *Warehouse) ProjectSummary(ctx context.Context, key schema.ProjectKey) schema.ProjectSummary {
	summary := schema.ProjectSummary{Project: key, RepoName: key.RepoName()}
	repo := key.RepoName()
	if err := w.db.GetContext(ctx, &summary, w.db.Rebind(summaryQuery), repo, repo); err != nil {
		w.logSoftFailure(err, key, "summary")
		return schema.ProjectSummary{Project: key, RepoName: key.RepoName()}
	}
	return summary
}

// RowsToPoints converts newest-first rows into trend points and picks the anchor from the newest kept row.
// Rows with an unparseable day are skipped.
func RowsToPoints(rows []schema.TrendRow) (points []schema.TrendPoint, anchor int64) {
	points = make([]schema.TrendPoint, 0, len(rows))
	for _, r := range rows {
		day, err := time.Parse(schema.DateLayout, r.Day)
		if err != nil {
			continue
		}
		if len(points) == 0 {
			anchor = r.Total
		}
		points = append(points, schema.TrendPoint{Date: day, Delta: r.Delta})
	}
	return points, anchor
}
