package warehouse

import (
	"context"
	"fmt"

	"github.com/huangsam/repohealth/schema"
)

var (
	codeChurnQuery = fmt.Sprintf(`
		SELECT
			COALESCE(SUM(pull_additions), 0) AS total_additions,
			COALESCE(SUM(pull_deletions), 0) AS total_deletions
		FROM %s
		WHERE repo_name = ? AND type = '%s'
	`, schema.EventTable, schema.PullRequestEventType)

	eventCountQuery = fmt.Sprintf(`
		SELECT
			COUNT(DISTINCT CASE WHEN type = '%[2]s' THEN id END) AS push_count,
			COUNT(DISTINCT CASE WHEN type = '%[3]s' THEN id END) AS pr_count,
			COUNT(DISTINCT CASE WHEN type = '%[4]s' THEN id END) AS issue_count,
			COUNT(DISTINCT actor_id) AS contributor_count
		FROM %[1]s
		WHERE repo_name = ?
	`, schema.EventTable, schema.PushEventType, schema.PullRequestEventType, schema.IssuesEventType)
)

// EventAggregates counts events over the whole history of a repository.
// Either query failing yields the all-zero aggregate and ok=false.
func (w *Warehouse) EventAggregates(ctx context.Context, key schema.ProjectKey) (agg schema.EventTypeAggregate, ok bool) {
	repo := key.RepoName()

	var churn struct {
		Additions int64 `db:"total_additions"`
		Deletions int64 `db:"total_deletions"`
	}
	if err := w.db.GetContext(ctx, &churn, w.db.Rebind(codeChurnQuery), repo); err != nil {
		w.logSoftFailure(err, key, "event_churn")
		return schema.EventTypeAggregate{}, false
	}

	if err := w.db.GetContext(ctx, &agg, w.db.Rebind(eventCountQuery), repo); err != nil {
		w.logSoftFailure(err, key, "event_counts")
		return schema.EventTypeAggregate{}, false
	}
	agg.PullAdditions = churn.Additions
	agg.PullDeletions = churn.Deletions
	return agg, true
}
