package performance

import (
	"strings"

	"github.com/shopspring/decimal"

	"workforce/internal/domain/apperr"
)

var (
	minScore = decimal.NewFromInt(1)
	maxScore = decimal.NewFromInt(5)
)

func inRange(score decimal.Decimal) bool {
	return !score.LessThan(minScore) && !score.GreaterThan(maxScore)
}

// scoreIssue reports why a score cannot be stored as NUMERIC(2,1), or "".
func scoreIssue(score decimal.Decimal) string {
	if !inRange(score) {
		return "must be between 1.0 and 5.0"
	}
	if !score.Equal(score.Round(1)) {
		return "must have at most 1 decimal place"
	}
	return ""
}

// validateReview rejects out-of-range scores instead of clamping them.
func validateReview(rev *Review) error {
	var issues apperr.Issues
	if rev.Subject.ID <= 0 {
		issues.Add("employeeId", "must be a positive id")
	}
	if rev.Reviewer.ID <= 0 {
		issues.Add("reviewerId", "must be a positive id")
	}
	if rev.Subject.ID > 0 && rev.Subject.ID == rev.Reviewer.ID {
		issues.Add("reviewerId", "must differ from employeeId")
	}
	if strings.TrimSpace(rev.Period) == "" {
		issues.Add("period", "is required")
	}
	if reason := scoreIssue(rev.Rating); reason != "" {
		issues.Add("rating", reason)
	}
	scores := []struct {
		field string
		value *decimal.Decimal
	}{
		{"technicalSkills", rev.TechnicalSkills},
		{"communication", rev.Communication},
		{"teamwork", rev.Teamwork},
		{"leadership", rev.Leadership},
	}
	for _, score := range scores {
		if score.value == nil {
			continue
		}
		if reason := scoreIssue(*score.value); reason != "" {
			issues.Add(score.field, reason)
		}
	}
	if _, ok := statuses[rev.Status]; !ok {
		issues.Add("status", "must be one of draft, submitted, approved, closed")
	}
	if err := issues.Err(); err != nil {
		return err
	}
	rev.Period = strings.TrimSpace(rev.Period)
	return nil
}

var clearable = map[string]struct{}{
	"technicalSkills": {},
	"communication":   {},
	"teamwork":        {},
	"leadership":      {},
}

func applyPatch(rev *Review, patch Patch) error {
	for _, field := range patch.Clear {
		if _, ok := clearable[field]; !ok {
			return apperr.Validation(field, "cannot be cleared")
		}
	}
	if patch.ReviewerID != nil {
		rev.Reviewer = ReviewerRef{ID: *patch.ReviewerID}
	}
	if patch.Period != nil {
		rev.Period = *patch.Period
	}
	if patch.Rating != nil {
		rev.Rating = *patch.Rating
	}
	setScore(&rev.TechnicalSkills, patch.TechnicalSkills)
	setScore(&rev.Communication, patch.Communication)
	setScore(&rev.Teamwork, patch.Teamwork)
	setScore(&rev.Leadership, patch.Leadership)
	for _, field := range patch.Clear {
		switch field {
		case "technicalSkills":
			rev.TechnicalSkills = nil
		case "communication":
			rev.Communication = nil
		case "teamwork":
			rev.Teamwork = nil
		case "leadership":
			rev.Leadership = nil
		}
	}
	if patch.Review != nil {
		rev.Review = strings.TrimSpace(*patch.Review)
	}
	if patch.Goals != nil {
		rev.Goals = strings.TrimSpace(*patch.Goals)
	}
	if patch.ImprovementAreas != nil {
		rev.ImprovementAreas = strings.TrimSpace(*patch.ImprovementAreas)
	}
	if patch.Status != nil {
		rev.Status = strings.TrimSpace(*patch.Status)
	}
	return nil
}

func setScore(dst **decimal.Decimal, value *decimal.Decimal) {
	if value != nil {
		score := *value
		*dst = &score
	}
}
