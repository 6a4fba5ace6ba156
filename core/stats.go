package core

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/octocred/octocred/internal/contract"
	"github.com/octocred/octocred/schema"
)

// Pull request pagination limits. Closed PRs come back sorted by most
// recently updated, so after maxPRPages pages anything older is outside the
// analysis window for all practical repositories.
const (
	prPageSize   = 100
	maxPRPages   = 5
	maxRecentPRs = 10
)

// CollectRepoStats fetches and classifies the activity of one repository.
// A repository metadata failure is fatal for that repository; a pull request
// page failure degrades to the stats collected so far.
func CollectRepoStats(ctx context.Context, client contract.RepoClient, owner, name, username string, windowStart time.Time) (schema.RepoStats, error) {
	repo, err := client.GetRepository(ctx, owner, name)
	if err != nil {
		return schema.RepoStats{}, fmt.Errorf("fetch repository %s/%s: %w", owner, name, err)
	}

	stats := schema.RepoStats{
		Repository: repo,
		Stars:      repo.Stars,
	}

	externals := make(map[string]struct{})
	var userPRs []schema.PullRequest

	for page := 1; page <= maxPRPages; page++ {
		prs, err := client.ListClosedPullRequests(ctx, owner, name, page, prPageSize)
		if err != nil {
			contract.LogWarn(fmt.Sprintf("Pull request page %d failed for %s/%s", page, owner, name), err)
			break
		}

		for _, pr := range prs {
			if pr.MergedAt == nil || pr.MergedAt.Before(windowStart) {
				continue
			}
			stats.TotalMergedPRs++

			switch {
			case strings.EqualFold(pr.Author, username):
				stats.UserMergedPRs++
				userPRs = append(userPRs, pr)
			case isExternalContributor(pr.Author, username, repo.Owner):
				externals[strings.ToLower(pr.Author)] = struct{}{}
			}
		}

		// Results are updated-desc: once a page is not full or its oldest
		// entry predates the window, later pages cannot contribute.
		if len(prs) < prPageSize {
			break
		}
		if oldest := prs[len(prs)-1]; oldest.UpdatedAt.Before(windowStart) {
			break
		}
	}

	stats.ExternalContributors = len(externals)
	stats.RecentPRs = sortRecentPRs(userPRs)
	stats.HasWriteAccess = ResolveWriteAccess(ctx, client, owner, name, username, windowStart)

	return stats, nil
}

// isExternalContributor reports whether the PR author counts toward the
// external contributor dimension. The applicant, the repository owner, and
// bot accounts are excluded.
func isExternalContributor(author, applicant, repoOwner string) bool {
	if author == "" {
		return false
	}
	if strings.EqualFold(author, applicant) || strings.EqualFold(author, repoOwner) {
		return false
	}
	return !strings.HasSuffix(author, "[bot]")
}

// sortRecentPRs orders the applicant's merged PRs newest first and caps the
// list for display.
func sortRecentPRs(prs []schema.PullRequest) []schema.PullRequest {
	sort.Slice(prs, func(i, j int) bool {
		return mergeTime(prs[i]).After(mergeTime(prs[j]))
	})
	if len(prs) > maxRecentPRs {
		prs = prs[:maxRecentPRs]
	}
	return prs
}

// mergeTime returns the ordering timestamp for a PR, preferring merge time.
func mergeTime(pr schema.PullRequest) time.Time {
	if pr.MergedAt != nil {
		return *pr.MergedAt
	}
	return pr.CreatedAt
}
