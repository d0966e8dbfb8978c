package attendance

import "context"

type StoreAPI interface {
	Create(ctx context.Context, rec Record) (Record, error)
	ByID(ctx context.Context, id int64) (Record, error)
	List(ctx context.Context, filter Filter) ([]Record, int, error)
	Update(ctx context.Context, id int64, apply func(*Record) error) (Record, error)
	Delete(ctx context.Context, id int64) error
}

var _ StoreAPI = (*Store)(nil)
