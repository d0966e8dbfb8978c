package performance

import (
	"time"

	"github.com/shopspring/decimal"
)

// SubjectRef and ReviewerRef both point at employees. Keeping them as
// distinct types stops one being passed where the other is expected.
type SubjectRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name,omitempty"`
}

type ReviewerRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name,omitempty"`
}

type Review struct {
	ID               int64            `json:"id"`
	Subject          SubjectRef       `json:"subject"`
	Reviewer         ReviewerRef      `json:"reviewer"`
	Period           string           `json:"period"`
	Rating           decimal.Decimal  `json:"rating"`
	TechnicalSkills  *decimal.Decimal `json:"technicalSkills"`
	Communication    *decimal.Decimal `json:"communication"`
	Teamwork         *decimal.Decimal `json:"teamwork"`
	Leadership       *decimal.Decimal `json:"leadership"`
	Review           string           `json:"review"`
	Goals            string           `json:"goals"`
	ImprovementAreas string           `json:"improvementAreas"`
	Status           string           `json:"status"`
	CreatedAt        time.Time        `json:"createdAt"`
	UpdatedAt        time.Time        `json:"updatedAt"`
}

type Input struct {
	EmployeeID       int64
	ReviewerID       int64
	Period           string
	Rating           decimal.Decimal
	TechnicalSkills  *decimal.Decimal
	Communication    *decimal.Decimal
	Teamwork         *decimal.Decimal
	Leadership       *decimal.Decimal
	Review           string
	Goals            string
	ImprovementAreas string
	Status           string
}

// Patch uses pointers for plain fields; sub-scores can additionally be
// cleared through the Clear set.
type Patch struct {
	ReviewerID       *int64
	Period           *string
	Rating           *decimal.Decimal
	TechnicalSkills  *decimal.Decimal
	Communication    *decimal.Decimal
	Teamwork         *decimal.Decimal
	Leadership       *decimal.Decimal
	Review           *string
	Goals            *string
	ImprovementAreas *string
	Status           *string
	Clear            []string
}

type Filter struct {
	EmployeeID *int64
	ReviewerID *int64
	Period     string
	Status     string
	// Participant limits rows to reviews where the employee is either the
	// subject or the reviewer.
	Participant *int64
	Limit       int
	Offset      int
}

type Summary struct {
	Reviews            int            `json:"reviews"`
	AverageRating      *string        `json:"averageRating"`
	MinRating          *string        `json:"minRating"`
	MaxRating          *string        `json:"maxRating"`
	RatingDistribution map[string]int `json:"ratingDistribution"`
}
