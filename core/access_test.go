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
)

var errProbe = errors.New("api unavailable")

func TestResolveWriteAccessPermissionProbe(t *testing.T) {
	tests := []struct {
		name       string
		permission string
		want       bool
	}{
		{"admin grants access", "admin", true},
		{"maintain grants access", "maintain", true},
		{"write grants access", "write", true},
		{"read is not enough", "read", false},
		{"none is not enough", "none", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &ghapi.MockRepoClient{}
			client.On("GetCollaboratorPermission", mock.Anything, "octocat", "hello-world", "alice").
				Return(tt.permission, nil)
			if !tt.want {
				// Weaker probes run after a negative permission answer.
				client.On("ListCollaborators", mock.Anything, "octocat", "hello-world").
					Return([]string{}, nil)
				client.On("ListClosedPullRequests", mock.Anything, "octocat", "hello-world", 1, 100).
					Return([]schema.PullRequest{}, nil)
				client.On("CountCommitsByAuthor", mock.Anything, "octocat", "hello-world", "alice", mock.Anything).
					Return(0, nil)
			}

			got := ResolveWriteAccess(context.Background(), client, "octocat", "hello-world", "alice", time.Now())
			assert.Equal(t, tt.want, got)
			client.AssertExpectations(t)
		})
	}
}

func TestResolveWriteAccessFallsThroughOnError(t *testing.T) {
	client := &ghapi.MockRepoClient{}
	client.On("GetCollaboratorPermission", mock.Anything, "octocat", "hello-world", "alice").
		Return("", errProbe)
	client.On("ListCollaborators", mock.Anything, "octocat", "hello-world").
		Return([]string{"bob", "Alice"}, nil)

	got := ResolveWriteAccess(context.Background(), client, "octocat", "hello-world", "alice", time.Now())

	assert.True(t, got, "collaborator list match is case-insensitive")
	client.AssertNotCalled(t, "ListClosedPullRequests", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestResolveWriteAccessMergeEvidence(t *testing.T) {
	merged := time.Now().Add(-time.Hour)
	client := &ghapi.MockRepoClient{}
	client.On("GetCollaboratorPermission", mock.Anything, "octocat", "hello-world", "alice").
		Return("", errProbe)
	client.On("ListCollaborators", mock.Anything, "octocat", "hello-world").
		Return(nil, errProbe)
	client.On("ListClosedPullRequests", mock.Anything, "octocat", "hello-world", 1, 100).
		Return([]schema.PullRequest{
			{Number: 1, Author: "bob", MergedBy: "carol", MergedAt: &merged},
			{Number: 2, Author: "bob", MergedBy: "ALICE", MergedAt: &merged},
		}, nil)

	got := ResolveWriteAccess(context.Background(), client, "octocat", "hello-world", "alice", time.Now())
	assert.True(t, got)
}

func TestResolveWriteAccessCommitFallback(t *testing.T) {
	since := time.Now().AddDate(0, 0, -90)
	client := &ghapi.MockRepoClient{}
	client.On("GetCollaboratorPermission", mock.Anything, "octocat", "hello-world", "alice").
		Return("", errProbe)
	client.On("ListCollaborators", mock.Anything, "octocat", "hello-world").
		Return(nil, errProbe)
	client.On("ListClosedPullRequests", mock.Anything, "octocat", "hello-world", 1, 100).
		Return(nil, errProbe)
	client.On("CountCommitsByAuthor", mock.Anything, "octocat", "hello-world", "alice", since).
		Return(3, nil)

	got := ResolveWriteAccess(context.Background(), client, "octocat", "hello-world", "alice", since)
	assert.True(t, got)
}

func TestResolveWriteAccessAllProbesFail(t *testing.T) {
	client := &ghapi.MockRepoClient{}
	client.On("GetCollaboratorPermission", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return("", errProbe)
	client.On("ListCollaborators", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, errProbe)
	client.On("ListClosedPullRequests", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(nil, errProbe)
	client.On("CountCommitsByAuthor", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(0, errProbe)

	got := ResolveWriteAccess(context.Background(), client, "octocat", "hello-world", "alice", time.Now())
	assert.False(t, got, "errors never grant access")
}
