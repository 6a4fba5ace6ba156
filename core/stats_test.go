package core

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/octocred/octocred/internal/ghapi"
	"github.com/octocred/octocred/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var (
	statsWindow = time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	inWindow    = statsWindow.AddDate(0, 0, 10)
	preWindow   = statsWindow.AddDate(0, 0, -10)
)

// mergedPR builds a merged PR with matching updated and merged times.
func mergedPR(number int, author string, mergedAt time.Time) schema.PullRequest {
	return schema.PullRequest{
		Number:    number,
		Author:    author,
		CreatedAt: mergedAt.Add(-24 * time.Hour),
		UpdatedAt: mergedAt,
		MergedAt:  &mergedAt,
	}
}

// denyAccessProbes stubs every access probe negatively.
func denyAccessProbes(client *ghapi.MockRepoClient) {
	client.On("GetCollaboratorPermission", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return("read", nil).Maybe()
	client.On("ListCollaborators", mock.Anything, mock.Anything, mock.Anything).
		Return([]string{}, nil).Maybe()
	client.On("CountCommitsByAuthor", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(0, nil).Maybe()
}

func TestCollectRepoStatsClassification(t *testing.T) {
	client := &ghapi.MockRepoClient{}
	client.On("GetRepository", mock.Anything, "octocat", "hello-world").
		Return(schema.Repository{Owner: "octocat", Name: "hello-world", Stars: 321}, nil)

	closedAt := inWindow
	unmerged := schema.PullRequest{Number: 7, Author: "dave", UpdatedAt: closedAt}
	page := []schema.PullRequest{
		mergedPR(1, "alice", inWindow),             // applicant
		mergedPR(2, "ALICE", inWindow),             // applicant, case-insensitive
		mergedPR(3, "bob", inWindow),               // external
		mergedPR(4, "BOB", inWindow),               // same external, deduped
		mergedPR(5, "octocat", inWindow),           // repo owner, excluded
		mergedPR(6, "dependabot[bot]", inWindow),   // bot, excluded
		unmerged,                                   // closed without merging
		mergedPR(8, "carol", preWindow),            // merged before the window
	}
	client.On("ListClosedPullRequests", mock.Anything, "octocat", "hello-world", 1, 100).
		Return(page, nil)
	denyAccessProbes(client)

	stats, err := CollectRepoStats(context.Background(), client, "octocat", "hello-world", "alice", statsWindow)
	require.NoError(t, err)

	assert.Equal(t, 321, stats.Stars)
	assert.Equal(t, 5, stats.TotalMergedPRs, "owner and bot merges still count toward repository activity")
	assert.Equal(t, 2, stats.UserMergedPRs)
	assert.Equal(t, 1, stats.ExternalContributors)
	assert.Len(t, stats.RecentPRs, 2)
	assert.False(t, stats.HasWriteAccess)
}

func TestCollectRepoStatsRepositoryFailureIsFatal(t *testing.T) {
	client := &ghapi.MockRepoClient{}
	client.On("GetRepository", mock.Anything, "octocat", "gone").
		Return(schema.Repository{}, ghapi.ErrNotFound)

	_, err := CollectRepoStats(context.Background(), client, "octocat", "gone", "alice", statsWindow)
	assert.ErrorIs(t, err, ghapi.ErrNotFound)
}

func TestCollectRepoStatsPageFailureDegrades(t *testing.T) {
	client := &ghapi.MockRepoClient{}
	client.On("GetRepository", mock.Anything, "octocat", "hello-world").
		Return(schema.Repository{Owner: "octocat", Name: "hello-world", Stars: 50}, nil)

	page := make([]schema.PullRequest, 100)
	for i := range page {
		page[i] = mergedPR(i+1, "bob", inWindow)
	}
	client.On("ListClosedPullRequests", mock.Anything, "octocat", "hello-world", 1, 100).
		Return(page, nil)
	client.On("ListClosedPullRequests", mock.Anything, "octocat", "hello-world", 2, 100).
		Return(nil, errors.New("rate limited"))
	denyAccessProbes(client)

	stats, err := CollectRepoStats(context.Background(), client, "octocat", "hello-world", "alice", statsWindow)
	require.NoError(t, err, "a page failure keeps the stats collected so far")
	assert.Equal(t, 100, stats.TotalMergedPRs)
}

func TestCollectRepoStatsStopsWhenPageLeavesWindow(t *testing.T) {
	client := &ghapi.MockRepoClient{}
	client.On("GetRepository", mock.Anything, "octocat", "hello-world").
		Return(schema.Repository{Owner: "octocat", Name: "hello-world"}, nil)

	// A full page whose oldest entry predates the window must be the last fetch.
	page := make([]schema.PullRequest, 100)
	for i := range 99 {
		page[i] = mergedPR(i+1, "bob", inWindow)
	}
	page[99] = mergedPR(100, "bob", preWindow)
	client.On("ListClosedPullRequests", mock.Anything, "octocat", "hello-world", 1, 100).
		Return(page, nil)
	denyAccessProbes(client)

	stats, err := CollectRepoStats(context.Background(), client, "octocat", "hello-world", "alice", statsWindow)
	require.NoError(t, err)

	assert.Equal(t, 99, stats.TotalMergedPRs)
	client.AssertNotCalled(t, "ListClosedPullRequests", mock.Anything, "octocat", "hello-world", 2, 100)
}

func TestCollectRepoStatsPaginates(t *testing.T) {
	client := &ghapi.MockRepoClient{}
	client.On("GetRepository", mock.Anything, "octocat", "hello-world").
		Return(schema.Repository{Owner: "octocat", Name: "hello-world"}, nil)

	full := make([]schema.PullRequest, 100)
	for i := range full {
		full[i] = mergedPR(i+1, "bob", inWindow)
	}
	short := []schema.PullRequest{mergedPR(101, "bob", inWindow)}

	client.On("ListClosedPullRequests", mock.Anything, "octocat", "hello-world", 1, 100).Return(full, nil)
	client.On("ListClosedPullRequests", mock.Anything, "octocat", "hello-world", 2, 100).Return(short, nil)
	denyAccessProbes(client)

	stats, err := CollectRepoStats(context.Background(), client, "octocat", "hello-world", "alice", statsWindow)
	require.NoError(t, err)
	assert.Equal(t, 101, stats.TotalMergedPRs)
}

func TestSortRecentPRsNewestFirstAndCapped(t *testing.T) {
	base := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	var prs []schema.PullRequest
	for i := range 15 {
		prs = append(prs, mergedPR(i+1, "alice", base.Add(time.Duration(i)*time.Hour)))
	}

	sorted := sortRecentPRs(prs)

	require.Len(t, sorted, maxRecentPRs)
	assert.Equal(t, 15, sorted[0].Number)
	for i := 1; i < len(sorted); i++ {
		assert.True(t, mergeTime(sorted[i-1]).After(mergeTime(sorted[i])))
	}
}

func TestIsExternalContributor(t *testing.T) {
	tests := []struct {
		name   string
		author string
		want   bool
	}{
		{"regular contributor", "bob", true},
		{"applicant excluded", "alice", false},
		{"applicant excluded case-insensitively", "Alice", false},
		{"owner excluded", "octocat", false},
		{"bot excluded", "renovate[bot]", false},
		{"empty author excluded", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isExternalContributor(tt.author, "alice", "octocat"))
		})
	}
}
