package auth

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"

	"workforce/internal/domain/apperr"
)

const mfaIssuer = "Workforce"

// SecretBox encrypts MFA secrets at rest.
type SecretBox interface {
	Configured() bool
	EncryptString(value string) ([]byte, error)
	DecryptString(value []byte) (string, error)
}

type Service struct {
	Store    StoreAPI
	Hasher   *Hasher
	Tokens   *TokenService
	Denylist Denylist
	Box      SecretBox
	Now      func() time.Time
}

func NewService(store StoreAPI, hasher *Hasher, tokens *TokenService, denylist Denylist, box SecretBox) *Service {
	return &Service{
		Store:    store,
		Hasher:   hasher,
		Tokens:   tokens,
		Denylist: denylist,
		Box:      box,
		Now:      time.Now,
	}
}

func (s *Service) now() time.Time {
	if s.Now == nil {
		return time.Now()
	}
	return s.Now()
}

func ValidateEmail(email string) error {
	local, domain, ok := strings.Cut(email, "@")
	if email == "" {
		return apperr.Validation("email", "is required")
	}
	if !ok || local == "" || domain == "" || strings.Contains(domain, "@") || !strings.Contains(domain, ".") {
		return apperr.Validation("email", "must be a valid email address")
	}
	return nil
}

func ValidateSecret(field, secret string) error {
	if len(secret) < MinSecretLength {
		return apperr.Validation(field, "must be at least 8 characters")
	}
	if len(secret) > MaxSecretLength {
		return apperr.Validation(field, "must be at most 72 bytes")
	}
	return nil
}

func (s *Service) Register(ctx context.Context, in RegisterInput) (Account, error) {
	in.Email = NormalizeEmail(in.Email)
	var issues apperr.Issues
	if err := ValidateEmail(in.Email); err != nil {
		issues.Add("email", fieldReason(err))
	}
	if err := ValidateSecret("password", in.Secret); err != nil {
		issues.Add("password", fieldReason(err))
	}
	if !in.Role.Valid() {
		issues.Add("role", "must be one of admin, hr, employee")
	}
	if err := issues.Err(); err != nil {
		return Account{}, err
	}

	hash, err := s.Hasher.Hash(in.Secret)
	if err != nil {
		return Account{}, apperr.Internal(err)
	}
	return s.Store.CreateAccount(ctx, Account{
		Email:      in.Email,
		SecretHash: hash,
		Role:       in.Role,
		Active:     true,
		FirstName:  strings.TrimSpace(in.FirstName),
		LastName:   strings.TrimSpace(in.LastName),
	})
}

// Verify checks a credential. Unknown, inactive and mismatched all fail the
// same way after the same amount of hashing work.
func (s *Service) Verify(ctx context.Context, email, secret string) (Account, error) {
	account, err := s.Store.AccountByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			s.Hasher.CompareDummy(secret)
			return Account{}, ErrInvalidCredential
		}
		return Account{}, err
	}
	if !s.Hasher.Compare(account.SecretHash, secret) {
		return Account{}, ErrInvalidCredential
	}
	if !account.Active {
		return Account{}, ErrInvalidCredential
	}
	return account, nil
}

func (s *Service) Login(ctx context.Context, email, secret, mfaCode string) (Session, error) {
	account, err := s.Verify(ctx, email, secret)
	if err != nil {
		return Session{}, err
	}
	if account.MFAEnabled {
		if mfaCode == "" {
			return Session{}, ErrMFARequired
		}
		ok, err := s.checkMFA(account, mfaCode)
		if err != nil {
			return Session{}, err
		}
		if !ok {
			return Session{}, ErrInvalidCredential
		}
	}

	token, expiresAt, err := s.Tokens.Issue(account)
	if err != nil {
		return Session{}, apperr.Internal(err)
	}
	if err := s.Store.TouchLastAuthenticated(ctx, account.ID); err != nil {
		slog.Warn("update last_authenticated_at failed", "accountId", account.ID, "err", err)
	} else {
		now := s.now()
		account.LastAuthenticatedAt = &now
	}
	return Session{Token: token, ExpiresAt: expiresAt, Account: account}, nil
}

// Authenticate verifies a bearer token and consults the denylist.
func (s *Service) Authenticate(ctx context.Context, raw string) (Identity, error) {
	identity, err := s.Tokens.Verify(raw)
	if err != nil {
		return Identity{}, err
	}
	if s.Denylist == nil {
		return identity, nil
	}
	revoked, err := s.Denylist.IsRevoked(ctx, identity)
	if err != nil {
		return Identity{}, apperr.Internal(err)
	}
	if revoked {
		return Identity{}, ErrTokenRevoked
	}
	return identity, nil
}

func (s *Service) Logout(ctx context.Context, identity Identity) error {
	if s.Denylist == nil {
		return nil
	}
	return apperr.Internal(s.Denylist.RevokeToken(ctx, identity.TokenID, identity.ExpiresAt))
}

// RevokeAccount invalidates every token issued to the account up to now.
func (s *Service) RevokeAccount(ctx context.Context, accountID int64) error {
	if s.Denylist == nil {
		return nil
	}
	return apperr.Internal(s.Denylist.RevokeAccount(ctx, accountID, s.now()))
}

func (s *Service) Me(ctx context.Context, identity Identity) (Account, error) {
	return s.Store.AccountByID(ctx, identity.AccountID)
}

func (s *Service) ChangeSecret(ctx context.Context, identity Identity, current, next string) error {
	account, err := s.Store.AccountByID(ctx, identity.AccountID)
	if err != nil {
		return err
	}
	if !s.Hasher.Compare(account.SecretHash, current) {
		return ErrInvalidCredential
	}
	if err := ValidateSecret("newPassword", next); err != nil {
		return err
	}
	if current == next {
		return apperr.Validation("newPassword", "must differ from the current password")
	}
	hash, err := s.Hasher.Hash(next)
	if err != nil {
		return apperr.Internal(err)
	}
	if err := s.Store.UpdateSecretHash(ctx, account.ID, hash); err != nil {
		return err
	}
	if err := s.RevokeAccount(ctx, account.ID); err != nil {
		return err
	}
	return s.Logout(ctx, identity)
}

func (s *Service) GetAccount(ctx context.Context, id int64) (Account, error) {
	return s.Store.AccountByID(ctx, id)
}

func (s *Service) ListAccounts(ctx context.Context, filter AccountFilter) ([]Account, int, error) {
	return s.Store.ListAccounts(ctx, filter)
}

// UpdateAccount revokes outstanding tokens when the change alters what those
// tokens claim (role) or whether the account may act at all.
func (s *Service) UpdateAccount(ctx context.Context, id int64, patch AccountPatch) (Account, error) {
	if patch.Role != nil && !patch.Role.Valid() {
		return Account{}, apperr.Validation("role", "must be one of admin, hr, employee")
	}
	before, err := s.Store.AccountByID(ctx, id)
	if err != nil {
		return Account{}, err
	}
	updated, err := s.Store.UpdateAccount(ctx, id, patch)
	if err != nil {
		return Account{}, err
	}
	if updated.Role != before.Role || (before.Active && !updated.Active) {
		if err := s.RevokeAccount(ctx, id); err != nil {
			return Account{}, err
		}
	}
	return updated, nil
}

func (s *Service) SetupMFA(ctx context.Context, identity Identity) (string, string, error) {
	if s.Box == nil || !s.Box.Configured() {
		return "", "", ErrMFAUnavailable
	}
	account, err := s.Store.AccountByID(ctx, identity.AccountID)
	if err != nil {
		return "", "", err
	}
	// A new seed clears mfa_enabled, so it must go through DisableMFA first.
	if account.MFAEnabled {
		return "", "", ErrMFAEnabled
	}
	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      mfaIssuer,
		AccountName: account.Email,
		Period:      30,
		Digits:      otp.DigitsSix,
	})
	if err != nil {
		return "", "", apperr.Internal(err)
	}
	encrypted, err := s.Box.EncryptString(key.Secret())
	if err != nil {
		return "", "", apperr.Internal(err)
	}
	if err := s.Store.UpdateMFASecret(ctx, account.ID, encrypted); err != nil {
		return "", "", err
	}
	return key.Secret(), key.URL(), nil
}

func (s *Service) EnableMFA(ctx context.Context, identity Identity, code string) error {
	return s.toggleMFA(ctx, identity, code, true)
}

func (s *Service) DisableMFA(ctx context.Context, identity Identity, code string) error {
	return s.toggleMFA(ctx, identity, code, false)
}

func (s *Service) toggleMFA(ctx context.Context, identity Identity, code string, enabled bool) error {
	if s.Box == nil || !s.Box.Configured() {
		return ErrMFAUnavailable
	}
	account, err := s.Store.AccountByID(ctx, identity.AccountID)
	if err != nil {
		return err
	}
	if len(account.MFASecretEnc) == 0 {
		return ErrMFAMissing
	}
	ok, err := s.checkMFA(account, code)
	if err != nil {
		return err
	}
	if !ok {
		return ErrMFAInvalid
	}
	return s.Store.SetMFAEnabled(ctx, account.ID, enabled)
}

func (s *Service) checkMFA(account Account, code string) (bool, error) {
	if s.Box == nil || !s.Box.Configured() || len(account.MFASecretEnc) == 0 {
		return false, ErrMFAUnavailable
	}
	secret, err := s.Box.DecryptString(account.MFASecretEnc)
	if err != nil {
		slog.Warn("mfa secret decrypt failed", "accountId", account.ID, "err", err)
		return false, nil
	}
	ok, err := totp.ValidateCustom(code, secret, s.now().UTC(), totp.ValidateOpts{
		Period:    30,
		Skew:      1,
		Digits:    otp.DigitsSix,
		Algorithm: otp.AlgorithmSHA1,
	})
	if err != nil {
		return false, nil
	}
	return ok, nil
}

func fieldReason(err error) string {
	var appErr *apperr.Error
	if errors.As(err, &appErr) && len(appErr.Fields) > 0 {
		return appErr.Fields[0].Reason
	}
	return err.Error()
}
