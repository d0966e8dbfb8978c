package auth

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"workforce/internal/domain/apperr"
	"workforce/internal/platform/db/query"
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

const accountColumns = `id, email, secret_hash, role, active, first_name, last_name, mfa_enabled,
  mfa_secret_enc, last_authenticated_at, created_at, updated_at`

func scanAccount(row pgx.Row) (Account, error) {
	var out Account
	var role string
	err := row.Scan(&out.ID, &out.Email, &out.SecretHash, &role, &out.Active, &out.FirstName, &out.LastName,
		&out.MFAEnabled, &out.MFASecretEnc, &out.LastAuthenticatedAt, &out.CreatedAt, &out.UpdatedAt)
	out.Role = Role(role)
	return out, err
}

// CreateAccount relies on accounts_email_key to reject duplicates, so two
// concurrent registrations of one email cannot both succeed.
func (s *Store) CreateAccount(ctx context.Context, account Account) (Account, error) {
	row := s.DB.QueryRow(ctx, `
    INSERT INTO accounts (email, secret_hash, role, active, first_name, last_name)
    VALUES ($1,$2,$3,$4,$5,$6)
    RETURNING `+accountColumns,
		account.Email, account.SecretHash, string(account.Role), account.Active, account.FirstName, account.LastName)
	out, err := scanAccount(row)
	return out, apperr.FromStore(err)
}

func (s *Store) AccountByEmail(ctx context.Context, email string) (Account, error) {
	out, err := scanAccount(s.DB.QueryRow(ctx, "SELECT "+accountColumns+" FROM accounts WHERE email = $1", email))
	return out, apperr.FromStore(err)
}

func (s *Store) AccountByID(ctx context.Context, id int64) (Account, error) {
	out, err := scanAccount(s.DB.QueryRow(ctx, "SELECT "+accountColumns+" FROM accounts WHERE id = $1", id))
	return out, apperr.FromStore(err)
}

func (s *Store) ListAccounts(ctx context.Context, filter AccountFilter) ([]Account, int, error) {
	var f query.Filter
	if filter.Role != "" {
		f.Add("role = ?", string(filter.Role))
	}
	if filter.Active != nil {
		f.Add("active = ?", *filter.Active)
	}

	var total int
	if err := s.DB.QueryRow(ctx, "SELECT COUNT(1) FROM accounts"+f.Where(), f.Args()...).Scan(&total); err != nil {
		return nil, 0, apperr.FromStore(err)
	}

	page, args := f.Page(filter.Limit, filter.Offset)
	rows, err := s.DB.Query(ctx, "SELECT "+accountColumns+" FROM accounts"+f.Where()+" ORDER BY id"+page, args...)
	if err != nil {
		return nil, 0, apperr.FromStore(err)
	}
	defer rows.Close()

	out := []Account{}
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, 0, apperr.FromStore(err)
		}
		out = append(out, account)
	}
	return out, total, apperr.FromStore(rows.Err())
}

// UpdateAccount applies the patch in a single statement; absent fields keep
// their stored value.
func (s *Store) UpdateAccount(ctx context.Context, id int64, patch AccountPatch) (Account, error) {
	var role *string
	if patch.Role != nil {
		value := string(*patch.Role)
		role = &value
	}
	row := s.DB.QueryRow(ctx, `
    UPDATE accounts
    SET role = COALESCE($1, role),
        active = COALESCE($2, active),
        first_name = COALESCE($3, first_name),
        last_name = COALESCE($4, last_name),
        updated_at = now()
    WHERE id = $5
    RETURNING `+accountColumns,
		role, patch.Active, patch.FirstName, patch.LastName, id)
	out, err := scanAccount(row)
	return out, apperr.FromStore(err)
}

func (s *Store) TouchLastAuthenticated(ctx context.Context, id int64) error {
	_, err := s.DB.Exec(ctx, "UPDATE accounts SET last_authenticated_at = now() WHERE id = $1", id)
	return apperr.FromStore(err)
}

func (s *Store) UpdateSecretHash(ctx context.Context, id int64, hash string) error {
	tag, err := s.DB.Exec(ctx, "UPDATE accounts SET secret_hash = $1, updated_at = now() WHERE id = $2", hash, id)
	if err != nil {
		return apperr.FromStore(err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("account")
	}
	return nil
}

func (s *Store) UpdateMFASecret(ctx context.Context, id int64, secretEnc []byte) error {
	_, err := s.DB.Exec(ctx, `
    UPDATE accounts SET mfa_secret_enc = $1, mfa_enabled = false, updated_at = now() WHERE id = $2
  `, secretEnc, id)
	return apperr.FromStore(err)
}

func (s *Store) SetMFAEnabled(ctx context.Context, id int64, enabled bool) error {
	_, err := s.DB.Exec(ctx, "UPDATE accounts SET mfa_enabled = $1, updated_at = now() WHERE id = $2", enabled, id)
	return apperr.FromStore(err)
}
