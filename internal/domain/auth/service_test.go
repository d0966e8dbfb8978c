package auth

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/pquerna/otp/totp"
	"golang.org/x/crypto/bcrypt"

	"workforce/internal/domain/apperr"
)

type fakeStore struct {
	mu       sync.Mutex
	nextID   int64
	accounts map[int64]Account
	touched  []int64
}

func newFakeStore() *fakeStore {
	return &fakeStore{accounts: map[int64]Account{}}
}

func (f *fakeStore) CreateAccount(_ context.Context, account Account) (Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.accounts {
		if existing.Email == account.Email {
			return Account{}, apperr.Conflict("email", "email already exists")
		}
	}
	f.nextID++
	account.ID = f.nextID
	f.accounts[account.ID] = account
	return account, nil
}

func (f *fakeStore) AccountByEmail(_ context.Context, email string) (Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, account := range f.accounts {
		if account.Email == email {
			return account, nil
		}
	}
	return Account{}, apperr.NotFound("account")
}

func (f *fakeStore) AccountByID(_ context.Context, id int64) (Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	account, ok := f.accounts[id]
	if !ok {
		return Account{}, apperr.NotFound("account")
	}
	return account, nil
}

func (f *fakeStore) ListAccounts(_ context.Context, _ AccountFilter) ([]Account, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []Account
	for _, account := range f.accounts {
		out = append(out, account)
	}
	return out, len(out), nil
}

func (f *fakeStore) UpdateAccount(_ context.Context, id int64, patch AccountPatch) (Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	account, ok := f.accounts[id]
	if !ok {
		return Account{}, apperr.NotFound("account")
	}
	if patch.Role != nil {
		account.Role = *patch.Role
	}
	if patch.Active != nil {
		account.Active = *patch.Active
	}
	if patch.FirstName != nil {
		account.FirstName = *patch.FirstName
	}
	if patch.LastName != nil {
		account.LastName = *patch.LastName
	}
	f.accounts[id] = account
	return account, nil
}

func (f *fakeStore) TouchLastAuthenticated(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.touched = append(f.touched, id)
	return nil
}

func (f *fakeStore) UpdateSecretHash(_ context.Context, id int64, hash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	account := f.accounts[id]
	account.SecretHash = hash
	f.accounts[id] = account
	return nil
}

func (f *fakeStore) UpdateMFASecret(_ context.Context, id int64, secretEnc []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	account := f.accounts[id]
	account.MFASecretEnc = secretEnc
	account.MFAEnabled = false
	f.accounts[id] = account
	return nil
}

func (f *fakeStore) SetMFAEnabled(_ context.Context, id int64, enabled bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	account := f.accounts[id]
	account.MFAEnabled = enabled
	f.accounts[id] = account
	return nil
}

type plainBox struct{}

func (plainBox) Configured() bool                           { return true }
func (plainBox) EncryptString(value string) ([]byte, error) { return []byte("enc:" + value), nil }
func (plainBox) DecryptString(value []byte) (string, error) { return string(value[len("enc:"):]), nil }

type serviceFixture struct {
	svc   *Service
	store *fakeStore
	now   time.Time
}

func newServiceFixture(t *testing.T) *serviceFixture {
	t.Helper()
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	store := newFakeStore()
	tokens := NewTokenService(testSecret, "workforce", time.Hour).WithClock(fixedClock(now))
	denylist := NewMemoryDenylist(time.Hour)
	denylist.now = fixedClock(now)
	svc := NewService(store, NewHasher(bcrypt.MinCost), tokens, denylist, plainBox{})
	svc.Now = fixedClock(now)
	return &serviceFixture{svc: svc, store: store, now: now}
}

func (f *serviceFixture) advance(t *testing.T, d time.Duration) {
	t.Helper()
	f.now = f.now.Add(d)
	f.svc.Now = fixedClock(f.now)
	f.svc.Tokens = f.svc.Tokens.WithClock(fixedClock(f.now))
	f.svc.Denylist.(*MemoryDenylist).now = fixedClock(f.now)
}

func TestRegisterNormalizesAndRejectsDuplicates(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	account, err := f.svc.Register(ctx, RegisterInput{Email: "  Ada@Example.COM ", Secret: "correct-horse", Role: RoleHR})
	if err != nil {
		t.Fatalf("register error: %v", err)
	}
	if account.Email != "ada@example.com" {
		t.Fatalf("expected normalized email, got %q", account.Email)
	}
	if account.SecretHash == "correct-horse" || account.SecretHash == "" {
		t.Fatal("expected stored hash")
	}

	_, err = f.svc.Register(ctx, RegisterInput{Email: "ada@example.com", Secret: "another-secret", Role: RoleEmployee})
	if !errors.Is(err, apperr.ErrConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestRegisterValidation(t *testing.T) {
	f := newServiceFixture(t)
	tests := []struct {
		name  string
		input RegisterInput
		field string
	}{
		{name: "bad email", input: RegisterInput{Email: "nope", Secret: "long-enough", Role: RoleHR}, field: "email"},
		{name: "short secret", input: RegisterInput{Email: "a@b.io", Secret: "short", Role: RoleHR}, field: "password"},
		{name: "unknown role", input: RegisterInput{Email: "a@b.io", Secret: "long-enough", Role: Role("manager")}, field: "role"},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.svc.Register(context.Background(), tc.input)
			var appErr *apperr.Error
			if !errors.As(err, &appErr) || appErr.Kind != apperr.KindValidation {
				t.Fatalf("expected validation error, got %v", err)
			}
			if appErr.Fields[0].Field != tc.field {
				t.Fatalf("expected field %s, got %+v", tc.field, appErr.Fields)
			}
		})
	}
}

func TestVerifyFailuresAreIndistinguishable(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()
	if _, err := f.svc.Register(ctx, RegisterInput{Email: "on@example.com", Secret: "correct-horse", Role: RoleEmployee}); err != nil {
		t.Fatalf("register error: %v", err)
	}
	inactive, err := f.svc.Register(ctx, RegisterInput{Email: "off@example.com", Secret: "correct-horse", Role: RoleEmployee})
	if err != nil {
		t.Fatalf("register error: %v", err)
	}
	off := false
	if _, err := f.store.UpdateAccount(ctx, inactive.ID, AccountPatch{Active: &off}); err != nil {
		t.Fatalf("deactivate error: %v", err)
	}

	cases := []struct{ email, secret string }{
		{"missing@example.com", "correct-horse"},
		{"on@example.com", "wrong-horse"},
		{"off@example.com", "correct-horse"},
	}
	for _, tc := range cases {
		_, err := f.svc.Verify(ctx, tc.email, tc.secret)
		if err != ErrInvalidCredential {
			t.Fatalf("verify(%s): expected ErrInvalidCredential, got %v", tc.email, err)
		}
	}

	account, err := f.svc.Verify(ctx, " ON@example.com", "correct-horse")
	if err != nil {
		t.Fatalf("verify error: %v", err)
	}
	if account.Email != "on@example.com" {
		t.Fatalf("unexpected account %+v", account)
	}
}

func TestLoginIssuesTokenAndTouchesAccount(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()
	registered, err := f.svc.Register(ctx, RegisterInput{Email: "hr@example.com", Secret: "correct-horse", Role: RoleHR})
	if err != nil {
		t.Fatalf("register error: %v", err)
	}

	if _, err := f.svc.Login(ctx, "hr@example.com", "bad-secret", ""); err == nil {
		t.Fatal("expected login failure")
	}
	if len(f.store.touched) != 0 {
		t.Fatal("failed login must not touch last_authenticated_at")
	}

	session, err := f.svc.Login(ctx, "hr@example.com", "correct-horse", "")
	if err != nil {
		t.Fatalf("login error: %v", err)
	}
	if len(f.store.touched) != 1 || f.store.touched[0] != registered.ID {
		t.Fatalf("expected last_authenticated_at update, got %v", f.store.touched)
	}
	identity, err := f.svc.Authenticate(ctx, session.Token)
	if err != nil {
		t.Fatalf("authenticate error: %v", err)
	}
	if identity.AccountID != registered.ID || identity.Role != RoleHR {
		t.Fatalf("unexpected identity %+v", identity)
	}
}

func TestLogoutRevokesOnlyThatToken(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()
	if _, err := f.svc.Register(ctx, RegisterInput{Email: "e@example.com", Secret: "correct-horse", Role: RoleEmployee}); err != nil {
		t.Fatalf("register error: %v", err)
	}
	first, err := f.svc.Login(ctx, "e@example.com", "correct-horse", "")
	if err != nil {
		t.Fatalf("login error: %v", err)
	}
	second, err := f.svc.Login(ctx, "e@example.com", "correct-horse", "")
	if err != nil {
		t.Fatalf("login error: %v", err)
	}

	identity, err := f.svc.Authenticate(ctx, first.Token)
	if err != nil {
		t.Fatalf("authenticate error: %v", err)
	}
	if err := f.svc.Logout(ctx, identity); err != nil {
		t.Fatalf("logout error: %v", err)
	}
	if _, err := f.svc.Authenticate(ctx, first.Token); err != ErrTokenRevoked {
		t.Fatalf("expected revoked, got %v", err)
	}
	if _, err := f.svc.Authenticate(ctx, second.Token); err != nil {
		t.Fatalf("expected second session to survive, got %v", err)
	}
}

func TestChangeSecretRevokesEarlierTokens(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()
	if _, err := f.svc.Register(ctx, RegisterInput{Email: "c@example.com", Secret: "correct-horse", Role: RoleEmployee}); err != nil {
		t.Fatalf("register error: %v", err)
	}
	session, err := f.svc.Login(ctx, "c@example.com", "correct-horse", "")
	if err != nil {
		t.Fatalf("login error: %v", err)
	}
	identity, err := f.svc.Authenticate(ctx, session.Token)
	if err != nil {
		t.Fatalf("authenticate error: %v", err)
	}

	f.advance(t, 5*time.Second)
	if err := f.svc.ChangeSecret(ctx, identity, "wrong-horse", "battery-staple"); err != ErrInvalidCredential {
		t.Fatalf("expected invalid credential, got %v", err)
	}
	if err := f.svc.ChangeSecret(ctx, identity, "correct-horse", "battery-staple"); err != nil {
		t.Fatalf("change secret error: %v", err)
	}
	if _, err := f.svc.Authenticate(ctx, session.Token); err != ErrTokenRevoked {
		t.Fatalf("expected old token revoked, got %v", err)
	}

	f.advance(t, 2*time.Second)
	if _, err := f.svc.Login(ctx, "c@example.com", "correct-horse", ""); err != ErrInvalidCredential {
		t.Fatalf("expected old secret rejected, got %v", err)
	}
	fresh, err := f.svc.Login(ctx, "c@example.com", "battery-staple", "")
	if err != nil {
		t.Fatalf("login error: %v", err)
	}
	if _, err := f.svc.Authenticate(ctx, fresh.Token); err != nil {
		t.Fatalf("expected new token valid, got %v", err)
	}
}

func TestReloginInSameSecondAsSecretChange(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()
	if _, err := f.svc.Register(ctx, RegisterInput{Email: "s@example.com", Secret: "correct-horse", Role: RoleEmployee}); err != nil {
		t.Fatalf("register error: %v", err)
	}
	session, err := f.svc.Login(ctx, "s@example.com", "correct-horse", "")
	if err != nil {
		t.Fatalf("login error: %v", err)
	}
	identity, err := f.svc.Authenticate(ctx, session.Token)
	if err != nil {
		t.Fatalf("authenticate error: %v", err)
	}

	f.advance(t, 300*time.Millisecond)
	if err := f.svc.ChangeSecret(ctx, identity, "correct-horse", "battery-staple"); err != nil {
		t.Fatalf("change secret error: %v", err)
	}
	fresh, err := f.svc.Login(ctx, "s@example.com", "battery-staple", "")
	if err != nil {
		t.Fatalf("login error: %v", err)
	}
	if _, err := f.svc.Authenticate(ctx, fresh.Token); err != nil {
		t.Fatalf("expected token issued right after the change to be valid, got %v", err)
	}
	if _, err := f.svc.Authenticate(ctx, session.Token); err != ErrTokenRevoked {
		t.Fatalf("expected earlier token in the same second revoked, got %v", err)
	}
}

func TestUpdateAccountRoleChangeRevokesTokens(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()
	account, err := f.svc.Register(ctx, RegisterInput{Email: "r@example.com", Secret: "correct-horse", Role: RoleHR})
	if err != nil {
		t.Fatalf("register error: %v", err)
	}
	session, err := f.svc.Login(ctx, "r@example.com", "correct-horse", "")
	if err != nil {
		t.Fatalf("login error: %v", err)
	}

	f.advance(t, 5*time.Second)
	demoted := RoleEmployee
	updated, err := f.svc.UpdateAccount(ctx, account.ID, AccountPatch{Role: &demoted})
	if err != nil {
		t.Fatalf("update error: %v", err)
	}
	if updated.Role != RoleEmployee {
		t.Fatalf("expected role change, got %s", updated.Role)
	}
	if _, err := f.svc.Authenticate(ctx, session.Token); err != ErrTokenRevoked {
		t.Fatalf("expected token carrying old role to be revoked, got %v", err)
	}

	bogus := Role("owner")
	if _, err := f.svc.UpdateAccount(ctx, account.ID, AccountPatch{Role: &bogus}); !errors.Is(err, apperr.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestMFALoginFlow(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()
	if _, err := f.svc.Register(ctx, RegisterInput{Email: "m@example.com", Secret: "correct-horse", Role: RoleAdmin}); err != nil {
		t.Fatalf("register error: %v", err)
	}
	session, err := f.svc.Login(ctx, "m@example.com", "correct-horse", "")
	if err != nil {
		t.Fatalf("login error: %v", err)
	}
	identity, err := f.svc.Authenticate(ctx, session.Token)
	if err != nil {
		t.Fatalf("authenticate error: %v", err)
	}

	secret, url, err := f.svc.SetupMFA(ctx, identity)
	if err != nil {
		t.Fatalf("setup error: %v", err)
	}
	if secret == "" || url == "" {
		t.Fatal("expected secret and otpauth url")
	}

	if err := f.svc.EnableMFA(ctx, identity, "000000"); err != ErrMFAInvalid {
		code, _ := totp.GenerateCode(secret, f.now)
		if code != "000000" {
			t.Fatalf("expected invalid code error, got %v", err)
		}
	}
	code, err := totp.GenerateCode(secret, f.now)
	if err != nil {
		t.Fatalf("code error: %v", err)
	}
	if err := f.svc.EnableMFA(ctx, identity, code); err != nil {
		t.Fatalf("enable error: %v", err)
	}

	if _, err := f.svc.Login(ctx, "m@example.com", "correct-horse", ""); err != ErrMFARequired {
		t.Fatalf("expected mfa required, got %v", err)
	}
	if _, err := f.svc.Login(ctx, "m@example.com", "correct-horse", code); err != nil {
		t.Fatalf("login with mfa error: %v", err)
	}

	if _, _, err := f.svc.SetupMFA(ctx, identity); err != ErrMFAEnabled {
		t.Fatalf("expected setup to be refused while enabled, got %v", err)
	}
	if _, err := f.svc.Login(ctx, "m@example.com", "correct-horse", ""); err != ErrMFARequired {
		t.Fatalf("refused setup must leave mfa on, got %v", err)
	}

	if err := f.svc.DisableMFA(ctx, identity, code); err != nil {
		t.Fatalf("disable error: %v", err)
	}
	if _, _, err := f.svc.SetupMFA(ctx, identity); err != nil {
		t.Fatalf("setup after disable error: %v", err)
	}
}
