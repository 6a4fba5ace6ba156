package ghapi

import (
	"context"
	"time"

	"github.com/octocred/octocred/internal/contract"
	"github.com/octocred/octocred/schema"
	"github.com/stretchr/testify/mock"
)

// MockRepoClient is a mock implementation of RepoClient for testing.
type MockRepoClient struct {
	mock.Mock
}

var _ contract.RepoClient = &MockRepoClient{} // Compile-time check

// GetUser implements the RepoClient interface.
func (m *MockRepoClient) GetUser(ctx context.Context, username string) (schema.User, error) {
	args := m.Called(ctx, username)
	return args.Get(0).(schema.User), args.Error(1)
}

// GetRepository implements the RepoClient interface.
func (m *MockRepoClient) GetRepository(ctx context.Context, owner, name string) (schema.Repository, error) {
	args := m.Called(ctx, owner, name)
	return args.Get(0).(schema.Repository), args.Error(1)
}

// ListClosedPullRequests implements the RepoClient interface.
func (m *MockRepoClient) ListClosedPullRequests(ctx context.Context, owner, name string, page, perPage int) ([]schema.PullRequest, error) {
	args := m.Called(ctx, owner, name, page, perPage)
	prs, _ := args.Get(0).([]schema.PullRequest)
	return prs, args.Error(1)
}

// GetCollaboratorPermission implements the RepoClient interface.
func (m *MockRepoClient) GetCollaboratorPermission(ctx context.Context, owner, name, username string) (string, error) {
	args := m.Called(ctx, owner, name, username)
	return args.String(0), args.Error(1)
}

// ListCollaborators implements the RepoClient interface.
func (m *MockRepoClient) ListCollaborators(ctx context.Context, owner, name string) ([]string, error) {
	args := m.Called(ctx, owner, name)
	logins, _ := args.Get(0).([]string)
	return logins, args.Error(1)
}

// CountCommitsByAuthor implements the RepoClient interface.
func (m *MockRepoClient) CountCommitsByAuthor(ctx context.Context, owner, name, author string, since time.Time) (int, error) {
	args := m.Called(ctx, owner, name, author, since)
	return args.Int(0), args.Error(1)
}
