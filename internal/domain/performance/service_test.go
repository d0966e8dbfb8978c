package performance

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"workforce/internal/domain/apperr"
)

type fakeStore struct {
	reviews map[int64]Review
	next    int64
	last    Filter
}

func newFakeStore() *fakeStore {
	return &fakeStore{reviews: map[int64]Review{}}
}

func (f *fakeStore) Create(_ context.Context, rev Review) (Review, error) {
	f.next++
	rev.ID = f.next
	f.reviews[rev.ID] = rev
	return rev, nil
}

func (f *fakeStore) ByID(_ context.Context, id int64) (Review, error) {
	rev, ok := f.reviews[id]
	if !ok {
		return Review{}, apperr.NotFound("performance review")
	}
	return rev, nil
}

func (f *fakeStore) List(_ context.Context, filter Filter) ([]Review, int, error) {
	f.last = filter
	var out []Review
	for _, rev := range f.reviews {
		if filter.Participant != nil && rev.Subject.ID != *filter.Participant && rev.Reviewer.ID != *filter.Participant {
			continue
		}
		out = append(out, rev)
	}
	return out, len(out), nil
}

func (f *fakeStore) Update(_ context.Context, id int64, apply func(*Review) error) (Review, error) {
	rev, ok := f.reviews[id]
	if !ok {
		return Review{}, apperr.NotFound("performance review")
	}
	if err := apply(&rev); err != nil {
		return Review{}, err
	}
	f.reviews[id] = rev
	return rev, nil
}

func (f *fakeStore) Delete(_ context.Context, id int64) error {
	delete(f.reviews, id)
	return nil
}

func (f *fakeStore) Ratings(ctx context.Context, filter Filter) ([]decimal.Decimal, error) {
	items, _, _ := f.List(ctx, filter)
	var out []decimal.Decimal
	for _, rev := range items {
		out = append(out, rev.Rating)
	}
	return out, nil
}

func TestCreateReview(t *testing.T) {
	svc := NewService(newFakeStore())
	ctx := context.Background()

	rev, err := svc.Create(ctx, Input{EmployeeID: 1, ReviewerID: 2, Period: " 2026-Q1 ", Rating: *score("5.0")})
	if err != nil {
		t.Fatalf("create error: %v", err)
	}
	if rev.Status != StatusDraft || rev.Period != "2026-Q1" {
		t.Fatalf("unexpected review %+v", rev)
	}

	if _, err := svc.Create(ctx, Input{EmployeeID: 1, ReviewerID: 1, Period: "2026-Q1", Rating: *score("4")}); !errors.Is(err, apperr.ErrValidation) {
		t.Fatalf("self review must fail, got %v", err)
	}
	if _, err := svc.Create(ctx, Input{EmployeeID: 1, ReviewerID: 2, Period: "2026-Q1", Rating: *score("5.5")}); !errors.Is(err, apperr.ErrValidation) {
		t.Fatalf("rating 5.5 must fail, got %v", err)
	}
}

func TestUpdateRevalidatesMergedReview(t *testing.T) {
	svc := NewService(newFakeStore())
	ctx := context.Background()
	rev, err := svc.Create(ctx, Input{EmployeeID: 1, ReviewerID: 2, Period: "2026-Q1", Rating: *score("3")})
	if err != nil {
		t.Fatalf("create error: %v", err)
	}

	self := int64(1)
	if _, err := svc.Update(ctx, rev.ID, Patch{ReviewerID: &self}); !errors.Is(err, apperr.ErrValidation) {
		t.Fatalf("expected reviewer validation error, got %v", err)
	}
	if _, err := svc.Update(ctx, rev.ID, Patch{Teamwork: score("7")}); !errors.Is(err, apperr.ErrValidation) {
		t.Fatalf("expected sub-score validation error, got %v", err)
	}
	status := StatusSubmitted
	updated, err := svc.Update(ctx, rev.ID, Patch{Status: &status, Rating: score("4.5")})
	if err != nil {
		t.Fatalf("update error: %v", err)
	}
	if updated.Status != StatusSubmitted || !updated.Rating.Equal(*score("4.5")) {
		t.Fatalf("unexpected review %+v", updated)
	}
}

func TestScopedReviewAccess(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store)
	ctx := context.Background()
	asSubject, _ := svc.Create(ctx, Input{EmployeeID: 1, ReviewerID: 2, Period: "Q1", Rating: *score("3")})
	asReviewer, _ := svc.Create(ctx, Input{EmployeeID: 3, ReviewerID: 1, Period: "Q1", Rating: *score("4")})
	unrelated, _ := svc.Create(ctx, Input{EmployeeID: 3, ReviewerID: 2, Period: "Q1", Rating: *score("5")})

	caller := int64(1)
	for _, id := range []int64{asSubject.ID, asReviewer.ID} {
		if _, err := svc.Get(ctx, id, &caller); err != nil {
			t.Fatalf("review %d must be visible: %v", id, err)
		}
	}
	if _, err := svc.Get(ctx, unrelated.ID, &caller); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	items, total, err := svc.List(ctx, Filter{}, &caller)
	if err != nil {
		t.Fatalf("list error: %v", err)
	}
	if total != 2 || len(items) != 2 {
		t.Fatalf("expected two visible reviews, got %d", total)
	}
	if store.last.Participant == nil || *store.last.Participant != 1 {
		t.Fatalf("expected participant filter, got %+v", store.last)
	}

	summary, err := svc.Summary(ctx, Filter{}, nil)
	if err != nil {
		t.Fatalf("summary error: %v", err)
	}
	if summary.Reviews != 3 || *summary.AverageRating != "4.00" {
		t.Fatalf("unexpected summary %+v", summary)
	}
}
