package schema

import (
	"math"
	"time"
)

// Default eligibility thresholds.
const (
	DefaultMinStars                = 100
	DefaultMinTotalMergedPRs       = 20
	DefaultMinExternalContributors = 2
	DefaultMinUserMergedPRs        = 5
	DefaultWindowDays              = 90
)

// Credit amounts recommended per overall status.
const (
	ExceedsCredit    = 500
	MeetsCredit      = 300
	FallsShortCredit = 0
)

// CriteriaThresholds holds the minimum values an applicant must reach on
// each measurable dimension.
type CriteriaThresholds struct {
	Stars                int `json:"stars"`
	TotalMergedPRs       int `json:"total_merged_prs"`
	ExternalContributors int `json:"external_contributors"`
	UserMergedPRs        int `json:"user_merged_prs"`
}

// DefaultThresholds returns the standard grant thresholds.
func DefaultThresholds() CriteriaThresholds {
	return CriteriaThresholds{
		Stars:                DefaultMinStars,
		TotalMergedPRs:       DefaultMinTotalMergedPRs,
		ExternalContributors: DefaultMinExternalContributors,
		UserMergedPRs:        DefaultMinUserMergedPRs,
	}
}

// CriterionResult is the scored outcome of a single eligibility dimension.
type CriterionResult struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Required    float64 `json:"required"`
	Actual      float64 `json:"actual"`
	Status      Status  `json:"status"`
	Percentage  int     `json:"percentage"`
}

// CriteriaSet holds the five eligibility dimensions as fixed fields so that
// every result always carries the complete set.
type CriteriaSet struct {
	Stars                CriterionResult `json:"stars"`
	WriteAccess          CriterionResult `json:"write_access"`
	TotalMergedPRs       CriterionResult `json:"total_merged_prs"`
	ExternalContributors CriterionResult `json:"external_contributors"`
	UserMergedPRs        CriterionResult `json:"user_merged_prs"`
}

// All returns the dimensions in their canonical display order.
func (cs *CriteriaSet) All() []*CriterionResult {
	return []*CriterionResult{
		&cs.Stars,
		&cs.WriteAccess,
		&cs.TotalMergedPRs,
		&cs.ExternalContributors,
		&cs.UserMergedPRs,
	}
}

// Summary counts how many dimensions pass and expresses it as a score.
type Summary struct {
	Passed int `json:"passed"`
	Total  int `json:"total"`
	Score  int `json:"score"`
}

// Summarize counts the non-failing dimensions. The score is the passed
// fraction as a rounded percentage.
func (cs *CriteriaSet) Summarize() Summary {
	all := cs.All()
	passed := 0
	for _, c := range all {
		if c.Status != FallsShortStatus {
			passed++
		}
	}
	return Summary{
		Passed: passed,
		Total:  len(all),
		Score:  int(math.Round(float64(passed) / float64(len(all)) * 100)),
	}
}

// User holds the subset of an upstream user profile the analysis needs.
type User struct {
	Login       string `json:"login"`
	Name        string `json:"name,omitempty"`
	AvatarURL   string `json:"avatar_url,omitempty"`
	PublicRepos int    `json:"public_repos"`
}

// Repository holds the subset of repository metadata the analysis needs.
type Repository struct {
	Owner string `json:"owner"`
	Name  string `json:"name"`
	Stars int    `json:"stars"`
}

// FullName returns the owner/name form of the repository.
func (r Repository) FullName() string {
	return r.Owner + "/" + r.Name
}

// PullRequest is a summary of a pull request relevant to eligibility.
type PullRequest struct {
	Number    int        `json:"number"`
	Title     string     `json:"title"`
	Author    string     `json:"author"`
	MergedBy  string     `json:"merged_by,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	MergedAt  *time.Time `json:"merged_at,omitempty"`
	URL       string     `json:"url,omitempty"`
}

// RepoStats holds the raw activity numbers collected for one repository
// before any scoring is applied.
type RepoStats struct {
	Repository           Repository    `json:"repository"`
	Stars                int           `json:"stars"`
	TotalMergedPRs       int           `json:"total_merged_prs"`
	ExternalContributors int           `json:"external_contributors"`
	UserMergedPRs        int           `json:"user_merged_prs"`
	HasWriteAccess       bool          `json:"has_write_access"`
	RecentPRs            []PullRequest `json:"recent_prs,omitempty"`
}

// RepoAnalysis is the scored evaluation of a single repository.
type RepoAnalysis struct {
	Repository    Repository    `json:"repository"`
	Criteria      CriteriaSet   `json:"criteria"`
	OverallStatus Status        `json:"overall_status"`
	Summary       Summary       `json:"summary"`
	RecentPRs     []PullRequest `json:"recent_prs,omitempty"`
}

// AnalysisResult is the final evaluation of an applicant across all of the
// repositories they submitted.
type AnalysisResult struct {
	Username             string        `json:"username"`
	Repositories         []string      `json:"repositories"`
	Timestamp            time.Time     `json:"timestamp"`
	Criteria             CriteriaSet   `json:"criteria"`
	OverallStatus        Status        `json:"overall_status"`
	Summary              Summary       `json:"summary"`
	CreditRecommendation int           `json:"credit_recommendation"`
	RecentPRs            []PullRequest `json:"recent_prs,omitempty"`
}
