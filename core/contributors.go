package core

import (
	"context"
	"fmt"

	"github.com/huangsam/repohealth/core/algo"
	"github.com/huangsam/repohealth/schema"
)

const githubProfileURL = "https://github.com/"

// Contributors ranks the project's pushers and returns the top N with their share of all pushes.
func (s *HealthService) Contributors(ctx context.Context, project string, topN int) (schema.ContributorsResult, error) {
	if topN < 1 || topN > schema.MaxContributorTop {
		return schema.ContributorsResult{}, fmt.Errorf("top must be between 1 and %d, got %d", schema.MaxContributorTop, topN)
	}

	key := schema.NormalizeProjectKey(project)
	counts := s.querier.ContributorCounts(ctx, key)
	return rankContributors(key, counts, topN), nil
}

// rankContributors expects counts ordered largest first.
func rankContributors(key schema.ProjectKey, counts []schema.ContributorCount, topN int) schema.ContributorsResult {
	var total int64
	for _, c := range counts {
		total += c.Count
	}

	top := counts[:min(topN, len(counts))]
	infos := make([]schema.ContributorInfo, 0, len(top))
	for _, c := range top {
		var pct float64
		if total > 0 {
			pct = algo.Round2(float64(c.Count) / float64(total) * 100)
		}
		infos = append(infos, schema.ContributorInfo{
			Username:    c.Login,
			CommitCount: c.Count,
			Percentage:  pct,
			GitHubURL:   githubProfileURL + c.Login,
		})
	}

	return schema.ContributorsResult{
		Project:           key,
		TotalContributors: len(counts),
		TotalCommits:      total,
		Contributors:      infos,
	}
}
