package performance

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"workforce/internal/domain/apperr"
	"workforce/internal/platform/db/query"
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{DB: pool}
}

// The subject and reviewer joins are explicit; both target employees.
const reviewColumns = `pr.id, pr.employee_id, subject.name, pr.reviewer_id, reviewer.name, pr.period, pr.rating,
  pr.technical_skills, pr.communication, pr.teamwork, pr.leadership, pr.review, pr.goals, pr.improvement_areas,
  pr.status, pr.created_at, pr.updated_at`

const reviewFrom = ` FROM performance_reviews pr
  JOIN employees subject ON subject.id = pr.employee_id
  JOIN employees reviewer ON reviewer.id = pr.reviewer_id`

func scanReview(row pgx.Row) (Review, error) {
	var rev Review
	err := row.Scan(&rev.ID, &rev.Subject.ID, &rev.Subject.Name, &rev.Reviewer.ID, &rev.Reviewer.Name, &rev.Period,
		&rev.Rating, &rev.TechnicalSkills, &rev.Communication, &rev.Teamwork, &rev.Leadership, &rev.Review,
		&rev.Goals, &rev.ImprovementAreas, &rev.Status, &rev.CreatedAt, &rev.UpdatedAt)
	return rev, err
}

func storeErr(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return apperr.NotFound("performance review")
	}
	return apperr.FromStore(err)
}

func (f Filter) build() query.Filter {
	var out query.Filter
	if f.EmployeeID != nil {
		out.Add("pr.employee_id = ?", *f.EmployeeID)
	}
	if f.ReviewerID != nil {
		out.Add("pr.reviewer_id = ?", *f.ReviewerID)
	}
	if f.Participant != nil {
		out.AddAny("(pr.employee_id = ? OR pr.reviewer_id = ?)", *f.Participant)
	}
	if f.Period != "" {
		out.Add("pr.period = ?", f.Period)
	}
	if f.Status != "" {
		out.Add("pr.status = ?", f.Status)
	}
	return out
}

func (s *Store) Create(ctx context.Context, rev Review) (Review, error) {
	var id int64
	err := s.DB.QueryRow(ctx, `
    INSERT INTO performance_reviews (employee_id, reviewer_id, period, rating, technical_skills, communication,
      teamwork, leadership, review, goals, improvement_areas, status)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
    RETURNING id
  `, rev.Subject.ID, rev.Reviewer.ID, rev.Period, rev.Rating, rev.TechnicalSkills, rev.Communication,
		rev.Teamwork, rev.Leadership, rev.Review, rev.Goals, rev.ImprovementAreas, rev.Status).Scan(&id)
	if err != nil {
		return Review{}, apperr.FromStore(err)
	}
	return s.ByID(ctx, id)
}

func (s *Store) ByID(ctx context.Context, id int64) (Review, error) {
	rev, err := scanReview(s.DB.QueryRow(ctx, "SELECT "+reviewColumns+reviewFrom+" WHERE pr.id = $1", id))
	return rev, storeErr(err)
}

func (s *Store) List(ctx context.Context, filter Filter) ([]Review, int, error) {
	f := filter.build()

	var total int
	if err := s.DB.QueryRow(ctx, "SELECT COUNT(1) FROM performance_reviews pr"+f.Where(), f.Args()...).Scan(&total); err != nil {
		return nil, 0, apperr.FromStore(err)
	}

	page, args := f.Page(filter.Limit, filter.Offset)
	rows, err := s.DB.Query(ctx, "SELECT "+reviewColumns+reviewFrom+f.Where()+" ORDER BY pr.created_at DESC, pr.id DESC"+page, args...)
	if err != nil {
		return nil, 0, apperr.FromStore(err)
	}
	defer rows.Close()

	out := []Review{}
	for rows.Next() {
		rev, err := scanReview(rows)
		if err != nil {
			return nil, 0, apperr.FromStore(err)
		}
		out = append(out, rev)
	}
	return out, total, apperr.FromStore(rows.Err())
}

func (s *Store) Update(ctx context.Context, id int64, apply func(*Review) error) (Review, error) {
	tx, err := s.DB.Begin(ctx)
	if err != nil {
		return Review{}, apperr.Internal(err)
	}
	defer tx.Rollback(ctx)

	rev, err := scanReview(tx.QueryRow(ctx, "SELECT "+reviewColumns+reviewFrom+" WHERE pr.id = $1 FOR UPDATE OF pr", id))
	if err != nil {
		return Review{}, storeErr(err)
	}
	if err := apply(&rev); err != nil {
		return Review{}, err
	}

	if _, err := tx.Exec(ctx, `
    UPDATE performance_reviews
    SET reviewer_id = $1, period = $2, rating = $3, technical_skills = $4, communication = $5, teamwork = $6,
        leadership = $7, review = $8, goals = $9, improvement_areas = $10, status = $11, updated_at = now()
    WHERE id = $12
  `, rev.Reviewer.ID, rev.Period, rev.Rating, rev.TechnicalSkills, rev.Communication, rev.Teamwork,
		rev.Leadership, rev.Review, rev.Goals, rev.ImprovementAreas, rev.Status, id); err != nil {
		return Review{}, apperr.FromStore(err)
	}
	updated, err := scanReview(tx.QueryRow(ctx, "SELECT "+reviewColumns+reviewFrom+" WHERE pr.id = $1", id))
	if err != nil {
		return Review{}, storeErr(err)
	}
	if err := tx.Commit(ctx); err != nil {
		return Review{}, apperr.FromStore(err)
	}
	return updated, nil
}

func (s *Store) Delete(ctx context.Context, id int64) error {
	tag, err := s.DB.Exec(ctx, "DELETE FROM performance_reviews WHERE id = $1", id)
	if err != nil {
		return apperr.FromStore(err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("performance review")
	}
	return nil
}

func (s *Store) Ratings(ctx context.Context, filter Filter) ([]decimal.Decimal, error) {
	f := filter.build()
	rows, err := s.DB.Query(ctx, "SELECT pr.rating FROM performance_reviews pr"+f.Where(), f.Args()...)
	if err != nil {
		return nil, apperr.FromStore(err)
	}
	defer rows.Close()

	var out []decimal.Decimal
	for rows.Next() {
		var rating decimal.Decimal
		if err := rows.Scan(&rating); err != nil {
			return nil, apperr.FromStore(err)
		}
		out = append(out, rating)
	}
	return out, apperr.FromStore(rows.Err())
}
