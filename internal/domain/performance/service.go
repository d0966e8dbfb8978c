package performance

import (
	"context"
	"strings"

	"workforce/internal/domain/apperr"
)

type Service struct {
	Store StoreAPI
}

func NewService(store StoreAPI) *Service {
	return &Service{Store: store}
}

func (s *Service) Create(ctx context.Context, in Input) (Review, error) {
	rev := Review{
		Subject:          SubjectRef{ID: in.EmployeeID},
		Reviewer:         ReviewerRef{ID: in.ReviewerID},
		Period:           in.Period,
		Rating:           in.Rating,
		TechnicalSkills:  in.TechnicalSkills,
		Communication:    in.Communication,
		Teamwork:         in.Teamwork,
		Leadership:       in.Leadership,
		Review:           strings.TrimSpace(in.Review),
		Goals:            strings.TrimSpace(in.Goals),
		ImprovementAreas: strings.TrimSpace(in.ImprovementAreas),
		Status:           strings.TrimSpace(in.Status),
	}
	if rev.Status == "" {
		rev.Status = StatusDraft
	}
	if err := validateReview(&rev); err != nil {
		return Review{}, err
	}
	return s.Store.Create(ctx, rev)
}

// Get lets a scoped caller read reviews they are the subject or the
// reviewer of.
func (s *Service) Get(ctx context.Context, id int64, subject *int64) (Review, error) {
	rev, err := s.Store.ByID(ctx, id)
	if err != nil {
		return Review{}, err
	}
	if subject != nil && rev.Subject.ID != *subject && rev.Reviewer.ID != *subject {
		return Review{}, apperr.NotFound("performance review")
	}
	return rev, nil
}

func (s *Service) List(ctx context.Context, filter Filter, subject *int64) ([]Review, int, error) {
	if err := checkFilter(filter); err != nil {
		return nil, 0, err
	}
	filter.Participant = subject
	return s.Store.List(ctx, filter)
}

func (s *Service) Summary(ctx context.Context, filter Filter, subject *int64) (Summary, error) {
	if err := checkFilter(filter); err != nil {
		return Summary{}, err
	}
	filter.Participant = subject
	ratings, err := s.Store.Ratings(ctx, filter)
	if err != nil {
		return Summary{}, err
	}
	return buildSummary(ratings), nil
}

func (s *Service) Update(ctx context.Context, id int64, patch Patch) (Review, error) {
	return s.Store.Update(ctx, id, func(rev *Review) error {
		if err := applyPatch(rev, patch); err != nil {
			return err
		}
		return validateReview(rev)
	})
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.Store.Delete(ctx, id)
}

func checkFilter(filter Filter) error {
	if filter.Status != "" {
		if _, ok := statuses[filter.Status]; !ok {
			return apperr.Validation("status", "unknown review status")
		}
	}
	return nil
}
