// Package ghapi implements the GitHub REST client used for eligibility analysis.
package ghapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/octocred/octocred/internal/contract"
	"github.com/octocred/octocred/schema"
)

// Client request limits.
const (
	requestTimeout = 30 * time.Second
	maxPerPage     = 100
)

// Sentinel errors for upstream responses.
var (
	ErrNotFound  = errors.New("resource not found")
	ErrForbidden = errors.New("access forbidden")
)

// Client is a minimal GitHub REST v3 client. A token is optional; without
// one, requests run against the unauthenticated rate limit.
type Client struct {
	baseURL string
	token   string
	client  *http.Client
}

var _ contract.RepoClient = &Client{} // Compile-time check

// NewClient creates a GitHub client for the given API base URL.
func NewClient(baseURL, token string) *Client {
	return &Client{
		baseURL: baseURL,
		token:   token,
		client: &http.Client{
			Timeout: requestTimeout,
		},
	}
}

// get performs a GET request and decodes the JSON response into out.
func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("GET %s: %w", path, ErrNotFound)
	case resp.StatusCode == http.StatusForbidden:
		return fmt.Errorf("GET %s: %w", path, ErrForbidden)
	case resp.StatusCode >= 300:
		return fmt.Errorf("GET %s: API returned status %d", path, resp.StatusCode)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("GET %s: decode response: %w", path, err)
	}
	return nil
}

// --- Wire payloads ---

type repoPayload struct {
	Name            string `json:"name"`
	StargazersCount int    `json:"stargazers_count"`
	Owner           struct {
		Login string `json:"login"`
	} `json:"owner"`
}

type userPayload struct {
	Login string `json:"login"`
}

type pullPayload struct {
	Number    int          `json:"number"`
	Title     string       `json:"title"`
	User      *userPayload `json:"user"`
	MergedBy  *userPayload `json:"merged_by"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
	MergedAt  *time.Time   `json:"merged_at"`
	HTMLURL   string       `json:"html_url"`
}

type permissionPayload struct {
	Permission string `json:"permission"`
}

type commitPayload struct {
	SHA string `json:"sha"`
}

type profilePayload struct {
	Login       string `json:"login"`
	Name        string `json:"name"`
	AvatarURL   string `json:"avatar_url"`
	PublicRepos int    `json:"public_repos"`
}

// --- RepoClient implementation ---

// GetUser implements the RepoClient interface.
func (c *Client) GetUser(ctx context.Context, username string) (schema.User, error) {
	var payload profilePayload
	path := fmt.Sprintf("/users/%s", username)
	if err := c.get(ctx, path, nil, &payload); err != nil {
		return schema.User{}, err
	}
	return schema.User{
		Login:       payload.Login,
		Name:        payload.Name,
		AvatarURL:   payload.AvatarURL,
		PublicRepos: payload.PublicRepos,
	}, nil
}

// GetRepository implements the RepoClient interface.
func (c *Client) GetRepository(ctx context.Context, owner, name string) (schema.Repository, error) {
	var payload repoPayload
	path := fmt.Sprintf("/repos/%s/%s", owner, name)
	if err := c.get(ctx, path, nil, &payload); err != nil {
		return schema.Repository{}, err
	}
	return schema.Repository{
		Owner: payload.Owner.Login,
		Name:  payload.Name,
		Stars: payload.StargazersCount,
	}, nil
}

// ListClosedPullRequests implements the RepoClient interface.
func (c *Client) ListClosedPullRequests(ctx context.Context, owner, name string, page, perPage int) ([]schema.PullRequest, error) {
	if perPage <= 0 || perPage > maxPerPage {
		perPage = maxPerPage
	}
	query := url.Values{
		"state":     {"closed"},
		"sort":      {"updated"},
		"direction": {"desc"},
		"per_page":  {fmt.Sprint(perPage)},
		"page":      {fmt.Sprint(page)},
	}

	var payload []pullPayload
	path := fmt.Sprintf("/repos/%s/%s/pulls", owner, name)
	if err := c.get(ctx, path, query, &payload); err != nil {
		return nil, err
	}

	prs := make([]schema.PullRequest, 0, len(payload))
	for _, p := range payload {
		pr := schema.PullRequest{
			Number:    p.Number,
			Title:     p.Title,
			CreatedAt: p.CreatedAt,
			UpdatedAt: p.UpdatedAt,
			MergedAt:  p.MergedAt,
			URL:       p.HTMLURL,
		}
		if p.User != nil {
			pr.Author = p.User.Login
		}
		if p.MergedBy != nil {
			pr.MergedBy = p.MergedBy.Login
		}
		prs = append(prs, pr)
	}
	return prs, nil
}

// GetCollaboratorPermission implements the RepoClient interface.
func (c *Client) GetCollaboratorPermission(ctx context.Context, owner, name, username string) (string, error) {
	var payload permissionPayload
	path := fmt.Sprintf("/repos/%s/%s/collaborators/%s/permission", owner, name, username)
	if err := c.get(ctx, path, nil, &payload); err != nil {
		return "", err
	}
	return payload.Permission, nil
}

// ListCollaborators implements the RepoClient interface.
func (c *Client) ListCollaborators(ctx context.Context, owner, name string) ([]string, error) {
	query := url.Values{
		"per_page": {fmt.Sprint(maxPerPage)},
	}

	var payload []userPayload
	path := fmt.Sprintf("/repos/%s/%s/collaborators", owner, name)
	if err := c.get(ctx, path, query, &payload); err != nil {
		return nil, err
	}

	logins := make([]string, 0, len(payload))
	for _, u := range payload {
		logins = append(logins, u.Login)
	}
	return logins, nil
}

// CountCommitsByAuthor implements the RepoClient interface.
func (c *Client) CountCommitsByAuthor(ctx context.Context, owner, name, author string, since time.Time) (int, error) {
	query := url.Values{
		"author":   {author},
		"since":    {since.Format(time.RFC3339)},
		"per_page": {fmt.Sprint(maxPerPage)},
	}

	var payload []commitPayload
	path := fmt.Sprintf("/repos/%s/%s/commits", owner, name)
	if err := c.get(ctx, path, query, &payload); err != nil {
		return 0, err
	}
	return len(payload), nil
}
