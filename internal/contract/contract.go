// Package contract provides interfaces and shared utilities for internal architecture.
package contract

import (
	"context"
	"time"

	"github.com/octocred/octocred/schema"
)

// RepoClient defines the repository host operations needed for eligibility
// analysis. This allows the core logic to be tested without network access.
type RepoClient interface {
	// --- Applicant Identity ---

	// GetUser returns the applicant's profile. A NotFound error means the
	// username does not exist.
	GetUser(ctx context.Context, username string) (schema.User, error)

	// --- Repository Metadata ---

	// GetRepository returns the repository metadata, including its star count.
	GetRepository(ctx context.Context, owner, name string) (schema.Repository, error)

	// --- Pull Request Activity ---

	// ListClosedPullRequests returns one page of closed pull requests sorted
	// by most recently updated first. Pages are 1-based.
	ListClosedPullRequests(ctx context.Context, owner, name string, page, perPage int) ([]schema.PullRequest, error)

	// --- Access Probes ---

	// GetCollaboratorPermission returns the permission level the user holds
	// on the repository (e.g. admin, maintain, write, read).
	GetCollaboratorPermission(ctx context.Context, owner, name, username string) (string, error)

	// ListCollaborators returns the logins of all repository collaborators.
	ListCollaborators(ctx context.Context, owner, name string) ([]string, error)

	// CountCommitsByAuthor returns the number of commits the author pushed
	// to the default branch since the given time, capped at one page.
	CountCommitsByAuthor(ctx context.Context, owner, name, author string, since time.Time) (int, error)
}

// HistoryStore defines the interface for append-only application history.
// This allows the persistence layer to be mocked for testing.
type HistoryStore interface {
	// Append adds one record to the store. Existing records are never rewritten.
	Append(record schema.AnalysisRecord) error

	// QueryByIdentity returns all records for the username, newest first.
	// Malformed rows are skipped with a warning.
	QueryByIdentity(username string) ([]schema.AnalysisRecord, error)

	// QueryAll returns every record in the store, newest first.
	QueryAll() ([]schema.AnalysisRecord, error)

	// Status returns status information about the history store.
	Status() (schema.HistoryStatus, error)

	// Clear removes all records from the store.
	Clear() error

	// Close closes the underlying connection or file handle.
	Close() error
}
