package payroll

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

const recordColumns = `p.id, p.employee_id, e.name, p.month, p.year, p.base_salary, p.allowances, p.bonus,
  p.deductions, p.tax, p.net_salary, p.status, p.paid_date, p.remarks, p.created_at, p.updated_at`

const recordFrom = ` FROM payroll p JOIN employees e ON e.id = p.employee_id`

func scanRecord(row pgx.Row) (Record, error) {
	var rec Record
	err := row.Scan(&rec.ID, &rec.EmployeeID, &rec.EmployeeName, &rec.Month, &rec.Year, &rec.BaseSalary,
		&rec.Allowances, &rec.Bonus, &rec.Deductions, &rec.Tax, &rec.NetSalary, &rec.Status, &rec.PaidDate,
		&rec.Remarks, &rec.CreatedAt, &rec.UpdatedAt)
	if err == nil {
		rec.Warnings = computeWarnings(rec.NetSalary)
	}
	return rec, err
}

func storeErr(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return apperr.NotFound("payroll record")
	}
	return apperr.FromStore(err)
}

func (s *Store) Create(ctx context.Context, rec Record) (Record, error) {
	var id int64
	err := s.DB.QueryRow(ctx, `
    INSERT INTO payroll (employee_id, month, year, base_salary, allowances, bonus, deductions, tax, net_salary,
      status, paid_date, remarks)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
    RETURNING id
  `, rec.EmployeeID, rec.Month, rec.Year, rec.BaseSalary, rec.Allowances, rec.Bonus, rec.Deductions, rec.Tax,
		rec.NetSalary, rec.Status, rec.PaidDate, rec.Remarks).Scan(&id)
	if err != nil {
		return Record{}, apperr.FromStore(err)
	}
	return s.ByID(ctx, id)
}

func (s *Store) ByID(ctx context.Context, id int64) (Record, error) {
	rec, err := scanRecord(s.DB.QueryRow(ctx, "SELECT "+recordColumns+recordFrom+" WHERE p.id = $1", id))
	return rec, storeErr(err)
}

func (s *Store) List(ctx context.Context, filter Filter) ([]Record, int, error) {
	var f query.Filter
	if filter.EmployeeID != nil {
		f.Add("p.employee_id = ?", *filter.EmployeeID)
	}
	if filter.Month != nil {
		f.Add("p.month = ?", *filter.Month)
	}
	if filter.Year != nil {
		f.Add("p.year = ?", *filter.Year)
	}
	if filter.Status != "" {
		f.Add("p.status = ?", filter.Status)
	}

	var total int
	if err := s.DB.QueryRow(ctx, "SELECT COUNT(1) FROM payroll p"+f.Where(), f.Args()...).Scan(&total); err != nil {
		return nil, 0, apperr.FromStore(err)
	}

	page, args := f.Page(filter.Limit, filter.Offset)
	rows, err := s.DB.Query(ctx, "SELECT "+recordColumns+recordFrom+f.Where()+
		" ORDER BY p.year DESC, p.month DESC, p.id DESC"+page, args...)
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

	rec, err := scanRecord(tx.QueryRow(ctx, "SELECT "+recordColumns+recordFrom+" WHERE p.id = $1 FOR UPDATE OF p", id))
	if err != nil {
		return Record{}, storeErr(err)
	}
	if err := apply(&rec); err != nil {
		return Record{}, err
	}

	if _, err := tx.Exec(ctx, `
    UPDATE payroll
    SET month = $1, year = $2, base_salary = $3, allowances = $4, bonus = $5, deductions = $6, tax = $7,
        net_salary = $8, status = $9, paid_date = $10, remarks = $11, updated_at = now()
    WHERE id = $12
  `, rec.Month, rec.Year, rec.BaseSalary, rec.Allowances, rec.Bonus, rec.Deductions, rec.Tax, rec.NetSalary,
		rec.Status, rec.PaidDate, rec.Remarks, id); err != nil {
		return Record{}, apperr.FromStore(err)
	}
	updated, err := scanRecord(tx.QueryRow(ctx, "SELECT "+recordColumns+recordFrom+" WHERE p.id = $1", id))
	if err != nil {
		return Record{}, storeErr(err)
	}
	if err := tx.Commit(ctx); err != nil {
		return Record{}, apperr.FromStore(err)
	}
	return updated, nil
}

func (s *Store) Delete(ctx context.Context, id int64) error {
	tag, err := s.DB.Exec(ctx, "DELETE FROM payroll WHERE id = $1", id)
	if err != nil {
		return apperr.FromStore(err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("payroll record")
	}
	return nil
}

func (s *Store) PayslipData(ctx context.Context, id int64) (PayslipData, error) {
	var data PayslipData
	var department *string
	row := s.DB.QueryRow(ctx, "SELECT "+recordColumns+`, e.email, e.designation, d.name`+recordFrom+`
    LEFT JOIN departments d ON d.id = e.department_id
    WHERE p.id = $1`, id)
	rec := &data.Record
	err := row.Scan(&rec.ID, &rec.EmployeeID, &rec.EmployeeName, &rec.Month, &rec.Year, &rec.BaseSalary,
		&rec.Allowances, &rec.Bonus, &rec.Deductions, &rec.Tax, &rec.NetSalary, &rec.Status, &rec.PaidDate,
		&rec.Remarks, &rec.CreatedAt, &rec.UpdatedAt, &data.EmployeeEmail, &data.Designation, &department)
	if err != nil {
		return PayslipData{}, storeErr(err)
	}
	if department != nil {
		data.Department = *department
	}
	return data, nil
}
