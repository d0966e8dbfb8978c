package performance

import (
	"context"

	"github.com/shopspring/decimal"
)

type StoreAPI interface {
	Create(ctx context.Context, rev Review) (Review, error)
	ByID(ctx context.Context, id int64) (Review, error)
	List(ctx context.Context, filter Filter) ([]Review, int, error)
	Update(ctx context.Context, id int64, apply func(*Review) error) (Review, error)
	Delete(ctx context.Context, id int64) error
	Ratings(ctx context.Context, filter Filter) ([]decimal.Decimal, error)
}

var _ StoreAPI = (*Store)(nil)
