package core

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/octocred/octocred/internal/contract"
	"github.com/octocred/octocred/internal/histstore"
	"github.com/octocred/octocred/schema"
	"gopkg.in/yaml.v3"
)

// ErrNoRepositories is returned when every submitted repository failed to
// be analyzed.
var ErrNoRepositories = errors.New("no repositories could be analyzed")

// repoRef is a parsed repository reference.
type repoRef struct {
	Owner string
	Name  string
}

// repoOutcome carries the per-repository result out of the worker pool.
type repoOutcome struct {
	index    int
	analysis schema.RepoAnalysis
	err      error
}

// EvaluateApplicant runs the full eligibility evaluation for one applicant:
// it collects stats for every submitted repository concurrently, scores and
// aggregates them, computes the historical comparison, and appends the
// outcome to the history store. A history append failure is logged but does
// not fail the evaluation.
func EvaluateApplicant(
	ctx context.Context,
	cfg *contract.Config,
	client contract.RepoClient,
	store contract.HistoryStore,
	username string,
	repoRefs []string,
) (*schema.AnalysisResult, *schema.HistoricalAnalysis, error) {
	refs, canonical, err := parseRepoRefs(username, repoRefs)
	if err != nil {
		return nil, nil, err
	}

	// --- 1. Verify the applicant exists ---
	user, err := client.GetUser(ctx, username)
	if err != nil {
		return nil, nil, fmt.Errorf("applicant lookup failed for %s: %w", username, err)
	}
	// The upstream login is the canonical casing.
	username = user.Login

	now := time.Now().UTC()
	windowStart := cfg.WindowStart(now)

	// --- 2. Collect and score each repository with a worker pool ---
	perRepo := collectAndScore(ctx, cfg, client, username, refs, windowStart)
	if len(perRepo) == 0 {
		return nil, nil, ErrNoRepositories
	}

	// --- 3. Aggregate across repositories ---
	criteria, overall := Aggregate(perRepo, cfg.Thresholds, cfg.WindowDays)

	result := &schema.AnalysisResult{
		Username:             username,
		Repositories:         canonical,
		Timestamp:            now,
		Criteria:             criteria,
		OverallStatus:        overall,
		Summary:              criteria.Summarize(),
		CreditRecommendation: CreditRecommendation(overall),
		RecentPRs:            mergeRecentPRs(perRepo),
	}

	// --- 4. Compare against prior applications ---
	history, err := store.QueryByIdentity(username)
	if err != nil {
		contract.LogWarn(fmt.Sprintf("History lookup failed for %s", username), err)
		history = nil
	}

	appType := schema.InitialApplication
	if len(history) > 0 {
		appType = schema.RenewalApplication
	}
	record := schema.RecordFromResult(result, appType, cfg.Notes)
	hist := histstore.ComputeHistoricalAnalysis(record, history)

	// --- 5. Record the application ---
	if err := store.Append(record); err != nil {
		contract.LogWarn(fmt.Sprintf("History tracking failed for %s", username), err)
	}

	return result, &hist, nil
}

// parseRepoRefs validates and canonicalizes the submitted repository references.
func parseRepoRefs(username string, repoRefs []string) ([]repoRef, []string, error) {
	if username == "" {
		return nil, nil, errors.New("username is required")
	}
	if len(repoRefs) == 0 {
		return nil, nil, errors.New("at least one repository is required")
	}
	if len(repoRefs) > contract.MaxRepositories {
		return nil, nil, fmt.Errorf("too many repositories: %d exceeds the limit of %d", len(repoRefs), contract.MaxRepositories)
	}

	refs := make([]repoRef, 0, len(repoRefs))
	canonical := make([]string, 0, len(repoRefs))
	for _, raw := range repoRefs {
		owner, name, err := contract.ParseRepoURL(raw)
		if err != nil {
			return nil, nil, err
		}
		refs = append(refs, repoRef{Owner: owner, Name: name})
		canonical = append(canonical, owner+"/"+name)
	}
	return refs, canonical, nil
}

// collectAndScore fans repository collection out over cfg.Workers goroutines
// and scores each success. Failed repositories are logged and dropped.
func collectAndScore(
	ctx context.Context,
	cfg *contract.Config,
	client contract.RepoClient,
	username string,
	refs []repoRef,
	windowStart time.Time,
) []schema.RepoAnalysis {
	jobCh := make(chan int, len(refs))
	outcomeCh := make(chan repoOutcome, len(refs))
	var wg sync.WaitGroup

	// Start worker pool
	for range cfg.Workers {
		wg.Go(func() {
			for i := range jobCh {
				ref := refs[i]
				stats, err := CollectRepoStats(ctx, client, ref.Owner, ref.Name, username, windowStart)
				if err != nil {
					outcomeCh <- repoOutcome{index: i, err: err}
					continue
				}
				outcomeCh <- repoOutcome{
					index:    i,
					analysis: ScoreRepository(stats, cfg.Thresholds, cfg.WindowDays),
				}
			}
		})
	}

	for i := range refs {
		jobCh <- i
	}
	close(jobCh)

	wg.Wait()
	close(outcomeCh)

	// Keep submission order so output stays deterministic.
	ordered := make([]*schema.RepoAnalysis, len(refs))
	for out := range outcomeCh {
		if out.err != nil {
			ref := refs[out.index]
			contract.LogWarn(fmt.Sprintf("Skipping repository %s/%s", ref.Owner, ref.Name), out.err)
			continue
		}
		analysis := out.analysis
		ordered[out.index] = &analysis
	}

	perRepo := make([]schema.RepoAnalysis, 0, len(refs))
	for _, ra := range ordered {
		if ra != nil {
			perRepo = append(perRepo, *ra)
		}
	}
	return perRepo
}

// mergeRecentPRs combines the applicant's recent PRs from all repositories
// into one newest-first capped list.
func mergeRecentPRs(perRepo []schema.RepoAnalysis) []schema.PullRequest {
	var merged []schema.PullRequest
	for _, ra := range perRepo {
		merged = append(merged, ra.RecentPRs...)
	}
	return sortRecentPRs(merged)
}

// BatchApplicant is one entry of a batch applicants file.
type BatchApplicant struct {
	Username     string   `yaml:"username"`
	Repositories []string `yaml:"repositories"`
}

// BatchOutcome is the evaluation outcome for one batch entry.
type BatchOutcome struct {
	Username string
	Result   *schema.AnalysisResult
	History  *schema.HistoricalAnalysis
	Err      error
}

// LoadApplicantsFile reads a YAML batch file of applicants.
func LoadApplicantsFile(path string) ([]BatchApplicant, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read applicants file: %w", err)
	}

	var doc struct {
		Applicants []BatchApplicant `yaml:"applicants"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse applicants file: %w", err)
	}
	if len(doc.Applicants) == 0 {
		return nil, errors.New("applicants file contains no applicants")
	}
	return doc.Applicants, nil
}

// EvaluateBatch evaluates many applicants concurrently with a bounded worker
// pool. Outcomes keep the input order; individual failures do not stop the
// batch.
func EvaluateBatch(
	ctx context.Context,
	cfg *contract.Config,
	client contract.RepoClient,
	store contract.HistoryStore,
	applicants []BatchApplicant,
) []BatchOutcome {
	outcomes := make([]BatchOutcome, len(applicants))
	jobCh := make(chan int, len(applicants))
	var wg sync.WaitGroup

	for range cfg.Workers {
		wg.Go(func() {
			for i := range jobCh {
				a := applicants[i]
				result, hist, err := EvaluateApplicant(ctx, cfg, client, store, a.Username, a.Repositories)
				outcomes[i] = BatchOutcome{
					Username: a.Username,
					Result:   result,
					History:  hist,
					Err:      err,
				}
			}
		})
	}

	for i := range applicants {
		jobCh <- i
	}
	close(jobCh)
	wg.Wait()

	return outcomes
}
