package core

import (
	"github.com/octocred/octocred/schema"
)

// Description suffixes applied to aggregated dimensions.
const (
	aggregatedSuffix = " (aggregated across all repositories)"
	bestSuffix       = " (best across all repositories)"
)

// Aggregate folds per-repository evaluations into one applicant-level
// criteria set. The applicant's own merged PRs sum across repositories;
// every other dimension takes the best repository. Statuses and percentages
// are recomputed from the aggregated actuals so the hard gate still holds.
func Aggregate(perRepo []schema.RepoAnalysis, th schema.CriteriaThresholds, windowDays int) (schema.CriteriaSet, schema.Status) {
	if len(perRepo) == 0 {
		return emptyCriteria(th, windowDays)
	}
	if len(perRepo) == 1 {
		cs := perRepo[0].Criteria
		return cs, overallStatus(&cs)
	}

	first := perRepo[0].Criteria

	var userPRsSum float64
	bestStars := first.Stars
	bestAccess := first.WriteAccess
	bestTotalPRs := first.TotalMergedPRs
	bestExternals := first.ExternalContributors

	for _, ra := range perRepo {
		cs := ra.Criteria
		userPRsSum += cs.UserMergedPRs.Actual

		if cs.Stars.Actual > bestStars.Actual {
			bestStars = cs.Stars
		}
		if cs.WriteAccess.Actual > bestAccess.Actual {
			bestAccess = cs.WriteAccess
		}
		if cs.TotalMergedPRs.Actual > bestTotalPRs.Actual {
			bestTotalPRs = cs.TotalMergedPRs
		}
		if cs.ExternalContributors.Actual > bestExternals.Actual {
			bestExternals = cs.ExternalContributors
		}
	}

	agg := schema.CriteriaSet{
		Stars:                rescore(bestStars, bestStars.Actual, bestSuffix),
		WriteAccess:          rescoreAccess(bestAccess, bestSuffix),
		TotalMergedPRs:       rescore(bestTotalPRs, bestTotalPRs.Actual, bestSuffix),
		ExternalContributors: rescore(bestExternals, bestExternals.Actual, bestSuffix),
		UserMergedPRs:        rescore(first.UserMergedPRs, userPRsSum, aggregatedSuffix),
	}

	return agg, overallStatus(&agg)
}

// rescore rebuilds a criterion from a new actual value, keeping the name and
// threshold and tagging the description with the aggregation mode.
func rescore(base schema.CriterionResult, actual float64, suffix string) schema.CriterionResult {
	status, percentage := scoreDimension(actual, base.Required)
	return schema.CriterionResult{
		Name:        base.Name,
		Description: base.Description + suffix,
		Required:    base.Required,
		Actual:      actual,
		Status:      status,
		Percentage:  percentage,
	}
}

// rescoreAccess rebuilds the binary access criterion. Access in any single
// repository is enough, and the status stays binary.
func rescoreAccess(base schema.CriterionResult, suffix string) schema.CriterionResult {
	result := scoreAccessCriterion(base.Actual >= 1)
	result.Description += suffix
	return result
}

// emptyCriteria returns the all-zero failing criteria set used when no
// repository could be analyzed, so results always carry five dimensions.
func emptyCriteria(th schema.CriteriaThresholds, windowDays int) (schema.CriteriaSet, schema.Status) {
	zero := ScoreRepository(schema.RepoStats{}, th, windowDays)
	return zero.Criteria, schema.FallsShortStatus
}
