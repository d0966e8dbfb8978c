package attendance

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"workforce/internal/domain/apperr"
	"workforce/internal/platform/db/query"
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{DB: pool}
}

// Times are read back as text so the API keeps the HH:MM:SS form.
const recordColumns = `a.id, a.employee_id, e.name, a.date, a.status, a.check_in_time::text, a.check_out_time::text,
  a.remarks, a.created_at, a.updated_at`

const recordFrom = ` FROM attendance a JOIN employees e ON e.id = a.employee_id`

func scanRecord(row pgx.Row) (Record, error) {
	var rec Record
	err := row.Scan(&rec.ID, &rec.EmployeeID, &rec.EmployeeName, &rec.Date, &rec.Status, &rec.CheckInTime,
		&rec.CheckOutTime, &rec.Remarks, &rec.CreatedAt, &rec.UpdatedAt)
	return rec, err
}

func storeErr(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return apperr.NotFound("attendance record")
	}
	return apperr.FromStore(err)
}

func (s *Store) Create(ctx context.Context, rec Record) (Record, error) {
	var id int64
	err := s.DB.QueryRow(ctx, `
    INSERT INTO attendance (employee_id, date, status, check_in_time, check_out_time, remarks)
    VALUES ($1,$2,$3,$4::time,$5::time,$6)
    RETURNING id
  `, rec.EmployeeID, rec.Date, rec.Status, rec.CheckInTime, rec.CheckOutTime, rec.Remarks).Scan(&id)
	if err != nil {
		return Record{}, apperr.FromStore(err)
	}
	return s.ByID(ctx, id)
}

func (s *Store) ByID(ctx context.Context, id int64) (Record, error) {
	rec, err := scanRecord(s.DB.QueryRow(ctx, "SELECT "+recordColumns+recordFrom+" WHERE a.id = $1", id))
	return rec, storeErr(err)
}

func (s *Store) List(ctx context.Context, filter Filter) ([]Record, int, error) {
	var f query.Filter
	if filter.EmployeeID != nil {
		f.Add("a.employee_id = ?", *filter.EmployeeID)
	}
	if filter.From != nil {
		f.Add("a.date >= ?", *filter.From)
	}
	if filter.To != nil {
		f.Add("a.date <= ?", *filter.To)
	}
	if filter.Status != "" {
		f.Add("a.status = ?", filter.Status)
	}

	var total int
	if err := s.DB.QueryRow(ctx, "SELECT COUNT(1) FROM attendance a"+f.Where(), f.Args()...).Scan(&total); err != nil {
		return nil, 0, apperr.FromStore(err)
	}

	page, args := f.Page(filter.Limit, filter.Offset)
	rows, err := s.DB.Query(ctx, "SELECT "+recordColumns+recordFrom+f.Where()+" ORDER BY a.date DESC, a.id DESC"+page, args...)
	if err != nil {
		return nil, 0, apperr.FromStore(err)
	}
	defer rows.Close()

	out := []Record{}
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, 0, apperr.FromStore(err)
		}
		out = append(out, rec)
	}
	return out, total, apperr.FromStore(rows.Err())
}

func (s *Store) Update(ctx context.Context, id int64, apply func(*Record) error) (Record, error) {
	tx, err := s.DB.Begin(ctx)
	if err != nil {
		return Record{}, apperr.Internal(err)
	}
	defer tx.Rollback(ctx)

	rec, err := scanRecord(tx.QueryRow(ctx, "SELECT "+recordColumns+recordFrom+" WHERE a.id = $1 FOR UPDATE OF a", id))
	if err != nil {
		return Record{}, storeErr(err)
	}
	if err := apply(&rec); err != nil {
		return Record{}, err
	}

	if _, err := tx.Exec(ctx, `
    UPDATE attendance
    SET date = $1, status = $2, check_in_time = $3::time, check_out_time = $4::time, remarks = $5, updated_at = now()
    WHERE id = $6
  `, rec.Date, rec.Status, rec.CheckInTime, rec.CheckOutTime, rec.Remarks, id); err != nil {
		return Record{}, apperr.FromStore(err)
	}
	updated, err := scanRecord(tx.QueryRow(ctx, "SELECT "+recordColumns+recordFrom+" WHERE a.id = $1", id))
	if err != nil {
		return Record{}, storeErr(err)
	}
	if err := tx.Commit(ctx); err != nil {
		return Record{}, apperr.FromStore(err)
	}
	return updated, nil
}

func (s *Store) Delete(ctx context.Context, id int64) error {
	tag, err := s.DB.Exec(ctx, "DELETE FROM attendance WHERE id = $1", id)
	if err != nil {
		return apperr.FromStore(err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("attendance record")
	}
	return nil
}
