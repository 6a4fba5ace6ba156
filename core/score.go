package core

import (
	"fmt"
	"math"

	"github.com/octocred/octocred/schema"
)

// exceedsFactor is the multiple of a threshold at which a dimension is
// considered to exceed it rather than merely meet it.
const exceedsFactor = 1.5

// Canonical dimension names.
const (
	starsCriterion       = "Repository Stars"
	writeAccessCriterion = "Maintainer/Write Access"
	totalPRsCriterion    = "Total Merged PRs"
	externalsCriterion   = "External Contributors"
	userPRsCriterion     = "User Merged PRs"
)

// scoreDimension computes the status and percentage for a numeric dimension.
// Percentages can exceed 100 and are rounded to the nearest integer.
func scoreDimension(actual, required float64) (schema.Status, int) {
	var status schema.Status
	switch {
	case actual >= required*exceedsFactor:
		status = schema.ExceedsStatus
	case actual >= required:
		status = schema.MeetsStatus
	default:
		status = schema.FallsShortStatus
	}

	percentage := 100
	if required > 0 {
		percentage = int(math.Round(actual / required * 100))
	}
	return status, percentage
}

// scoreCriterion builds a fully scored numeric criterion.
func scoreCriterion(name, description string, actual, required float64) schema.CriterionResult {
	status, percentage := scoreDimension(actual, required)
	return schema.CriterionResult{
		Name:        name,
		Description: description,
		Required:    required,
		Actual:      actual,
		Status:      status,
		Percentage:  percentage,
	}
}

// scoreAccessCriterion builds the boolean write-access criterion. It is
// binary: the status is meets or falls_short, never exceeds.
func scoreAccessCriterion(hasAccess bool) schema.CriterionResult {
	result := schema.CriterionResult{
		Name:        writeAccessCriterion,
		Description: "Applicant has maintainer or write access to the repository",
		Required:    1,
		Actual:      schema.BoolToActual(hasAccess),
	}
	if hasAccess {
		result.Status = schema.MeetsStatus
		result.Percentage = 100
	} else {
		result.Status = schema.FallsShortStatus
		result.Percentage = 0
	}
	return result
}

// overallStatus folds the five dimension statuses into one. Any failing
// dimension fails the whole evaluation; exceeding requires at least two
// exceeding dimensions on top of a full pass.
func overallStatus(cs *schema.CriteriaSet) schema.Status {
	exceeding := 0
	for _, c := range cs.All() {
		switch c.Status {
		case schema.FallsShortStatus:
			return schema.FallsShortStatus
		case schema.ExceedsStatus:
			exceeding++
		}
	}
	if exceeding >= 2 {
		return schema.ExceedsStatus
	}
	return schema.MeetsStatus
}

// CreditRecommendation maps an overall status to a credit amount.
func CreditRecommendation(s schema.Status) int {
	switch s {
	case schema.ExceedsStatus:
		return schema.ExceedsCredit
	case schema.MeetsStatus:
		return schema.MeetsCredit
	default:
		return schema.FallsShortCredit
	}
}

// ScoreRepository scores the collected stats of a single repository against
// the configured thresholds.
func ScoreRepository(stats schema.RepoStats, th schema.CriteriaThresholds, windowDays int) schema.RepoAnalysis {
	cs := schema.CriteriaSet{
		Stars: scoreCriterion(
			starsCriterion,
			fmt.Sprintf("Repository has at least %d stars", th.Stars),
			float64(stats.Stars), float64(th.Stars)),
		WriteAccess: scoreAccessCriterion(stats.HasWriteAccess),
		TotalMergedPRs: scoreCriterion(
			fmt.Sprintf("%s (%d days)", totalPRsCriterion, windowDays),
			fmt.Sprintf("Repository merged at least %d pull requests in the last %d days", th.TotalMergedPRs, windowDays),
			float64(stats.TotalMergedPRs), float64(th.TotalMergedPRs)),
		ExternalContributors: scoreCriterion(
			externalsCriterion,
			fmt.Sprintf("At least %d contributors besides the applicant and the repository owner", th.ExternalContributors),
			float64(stats.ExternalContributors), float64(th.ExternalContributors)),
		UserMergedPRs: scoreCriterion(
			fmt.Sprintf("%s (%d days)", userPRsCriterion, windowDays),
			fmt.Sprintf("Applicant merged at least %d pull requests in the last %d days", th.UserMergedPRs, windowDays),
			float64(stats.UserMergedPRs), float64(th.UserMergedPRs)),
	}

	return schema.RepoAnalysis{
		Repository:    stats.Repository,
		Criteria:      cs,
		OverallStatus: overallStatus(&cs),
		Summary:       cs.Summarize(),
		RecentPRs:     stats.RecentPRs,
	}
}
