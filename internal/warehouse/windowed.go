package warehouse

import (
	"context"
	"fmt"

	"github.com/huangsam/repohealth/schema"
)

// starForkQuery returns the month total and the prior three-month average for stars and forks.
func (w *Warehouse) starForkQuery() string {
	return w.db.Rebind(fmt.Sprintf(`
		SELECT
			(SELECT COALESCE(SUM(stars_count), 0) FROM stars
			 WHERE project = ? AND date >= ? AND date <= ?) AS star_current,
			(SELECT COALESCE(AVG(monthly_total), 0) FROM (
				SELECT SUM(stars_count) AS monthly_total
				FROM stars WHERE project = ? AND date >= ? AND date < ?
				GROUP BY %s
			) star_monthly) AS star_avg_3m,
			(SELECT COALESCE(SUM(forks_count), 0) FROM forks
			 WHERE project = ? AND date >= ? AND date <= ?) AS fork_current,
			(SELECT COALESCE(AVG(monthly_total), 0) FROM (
				SELECT SUM(forks_count) AS monthly_total
				FROM forks WHERE project = ? AND date >= ? AND date < ?
				GROUP BY %s
			) fork_monthly) AS fork_avg_3m
	`, w.monthExpr("date"), w.monthExpr("date")))
}

const commitPRQuery = `
	SELECT
		(SELECT COALESCE(AVG(commit_count), 0) FROM commit_activity
		 WHERE project = ? AND date >= ? AND date <= ?) AS commit_week,
		(SELECT COALESCE(AVG(commit_count), 0) FROM commit_activity
		 WHERE project = ? AND date >= ? AND date <= ?) AS commit_month,
		(SELECT COALESCE(AVG(pr_count), 0) FROM pr_daily
		 WHERE project = ? AND date >= ? AND date <= ?) AS pr_week,
		(SELECT COALESCE(AVG(pr_count), 0) FROM pr_daily
		 WHERE project = ? AND date >= ? AND date <= ?) AS pr_month
`

// StarForkAggregates fetches the star and fork windows in one round trip.
func (w *Warehouse) StarForkAggregates(ctx context.Context, key schema.ProjectKey, windows schema.ReferenceWindows) schema.StarForkAggregate {
	repo := key.RepoName()
	ref := windows.ReferenceDate.Format(schema.DateLayout)
	month := windows.MonthStart.Format(schema.DateLayout)
	prev := windows.Prev3MStart.Format(schema.DateLayout)

	var agg schema.StarForkAggregate
	err := w.db.GetContext(ctx, &agg, w.starForkQuery(),
		repo, month, ref,
		repo, prev, month,
		repo, month, ref,
		repo, prev, month,
	)
	if err != nil {
		w.logSoftFailure(err, key, "star_fork")
		return schema.StarForkAggregate{}
	}
	return agg
}

// CommitPRAggregates fetches the daily commit and pull request averages in one round trip.
func (w *Warehouse) CommitPRAggregates(ctx context.Context, key schema.ProjectKey, windows schema.ReferenceWindows) schema.CommitPRAggregate {
	repo := key.RepoName()
	ref := windows.ReferenceDate.Format(schema.DateLayout)
	month := windows.MonthStart.Format(schema.DateLayout)
	week := windows.LastWeekStart.Format(schema.DateLayout)

	var agg schema.CommitPRAggregate
	err := w.db.GetContext(ctx, &agg, w.db.Rebind(commitPRQuery),
		repo, week, ref,
		repo, month, ref,
		repo, week, ref,
		repo, month, ref,
	)
	if err != nil {
		w.logSoftFailure(err, key, "commit_pr")
		return schema.CommitPRAggregate{}
	}
	return agg
}
