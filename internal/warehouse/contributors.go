package warehouse

import (
	"context"
	"fmt"

	"github.com/huangsam/repohealth/schema"
)

var contributorQuery = fmt.Sprintf(`
	SELECT actor_login, COUNT(*) AS commit_count
	FROM %s
	WHERE repo_name = ?
	  AND type = '%s'
	  AND actor_login IS NOT NULL
	  AND actor_login != ''
	GROUP BY actor_login
	ORDER BY commit_count DESC, actor_login ASC
`, schema.EventTable, schema.PushEventType)

// ContributorCounts returns push event counts per login, largest first.
func (w *Warehouse) ContributorCounts(ctx context.Context, key schema.ProjectKey) []schema.ContributorCount {
	counts := []schema.ContributorCount{}
	if err := w.db.SelectContext(ctx, &counts, w.db.Rebind(contributorQuery), key.RepoName()); err != nil {
		w.logSoftFailure(err, key, "contributors")
		return []schema.ContributorCount{}
	}
	return counts
}
