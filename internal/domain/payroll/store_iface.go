package payroll

import "context"

type StoreAPI interface {
	Create(ctx context.Context, rec Record) (Record, error)
	ByID(ctx context.Context, id int64) (Record, error)
	List(ctx context.Context, filter Filter) ([]Record, int, error)
	// Update locks the row, lets apply merge and recompute it, and writes
	// the result in the same transaction.
	Update(ctx context.Context, id int64, apply func(*Record) error) (Record, error)
	Delete(ctx context.Context, id int64) error
	PayslipData(ctx context.Context, id int64) (PayslipData, error)
}

var _ StoreAPI = (*Store)(nil)
