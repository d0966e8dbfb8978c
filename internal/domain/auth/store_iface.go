package auth

import "context"

type StoreAPI interface {
	CreateAccount(ctx context.Context, account Account) (Account, error)
	AccountByEmail(ctx context.Context, email string) (Account, error)
	AccountByID(ctx context.Context, id int64) (Account, error)
	ListAccounts(ctx context.Context, filter AccountFilter) ([]Account, int, error)
	UpdateAccount(ctx context.Context, id int64, patch AccountPatch) (Account, error)
	TouchLastAuthenticated(ctx context.Context, id int64) error
	UpdateSecretHash(ctx context.Context, id int64, hash string) error
	UpdateMFASecret(ctx context.Context, id int64, secretEnc []byte) error
	SetMFAEnabled(ctx context.Context, id int64, enabled bool) error
}

var _ StoreAPI = (*Store)(nil)
