package db

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"workforce/internal/domain/apperr"
	"workforce/internal/domain/auth"
	"workforce/internal/platform/config"
)

// Seed creates the bootstrap admin account when SEED_ADMIN_EMAIL is set.
func Seed(ctx context.Context, pool *pgxpool.Pool, cfg config.Config) error {
	return ensureAdminAccount(ctx, auth.NewStore(pool), auth.NewHasher(cfg.BcryptCost), cfg.SeedAdminEmail, cfg.SeedAdminPassword)
}

func ensureAdminAccount(ctx context.Context, store auth.StoreAPI, hasher *auth.Hasher, email, password string) error {
	email = auth.NormalizeEmail(email)
	if email == "" || strings.TrimSpace(password) == "" {
		return nil
	}

	_, err := store.AccountByEmail(ctx, email)
	if err == nil {
		return nil
	}
	if !errors.Is(err, apperr.ErrNotFound) {
		return err
	}

	hash, err := hasher.Hash(password)
	if err != nil {
		return err
	}
	account, err := store.CreateAccount(ctx, auth.Account{
		Email:      email,
		SecretHash: hash,
		Role:       auth.RoleAdmin,
		Active:     true,
		FirstName:  "System",
		LastName:   "Administrator",
	})
	if errors.Is(err, apperr.ErrConflict) {
		return nil
	}
	if err != nil {
		return err
	}
	slog.Info("seeded admin account", "accountId", account.ID)
	return nil
}
