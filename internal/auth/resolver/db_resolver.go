package resolver

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/bbqjam05/pwd-week6-server/internal/auth"
	"github.com/bbqjam05/pwd-week6-server/internal/db"

	"github.com/google/uuid"
)

// DBResolver resolves identities using the database.
type DBResolver struct {
	db *db.DB
}

func NewDBResolver(db *db.DB) *DBResolver {
	return &DBResolver{db: db}
}

func (r *DBResolver) Resolve(
	ctx context.Context,
	identity *auth.Identity,
) (auth.VerifiedIdentity, error) {

	if identity == nil || identity.ProviderUserID == "" {
		return auth.VerifiedIdentity{}, errors.New("resolver: identity is incomplete")
	}

	out := auth.VerifiedIdentity{Provider: identity.Provider}

	// 1. Try identity lookup (provider + provider_user_id)
	err := r.db.QueryRowContext(ctx, `
		SELECT u.id, u.email, u.name
		FROM identities i
		JOIN users u ON u.id = i.user_id
		WHERE i.provider = $1
		  AND i.provider_user_id = $2
	`,
		identity.Provider.String(),
		identity.ProviderUserID,
	).Scan(&out.UserID, &out.Email, &out.Name)

	if err == nil {
		return out, nil
	}

	if !errors.Is(err, sql.ErrNoRows) {
		return auth.VerifiedIdentity{}, fmt.Errorf("resolver: lookup identity: %w", err)
	}

	email := strings.ToLower(strings.TrimSpace(identity.Email))
	if email == "" {
		return auth.VerifiedIdentity{}, ErrUnresolvable
	}

	// 2. Try email-based linking (existing user, new provider)
	err = r.db.QueryRowContext(ctx, `
		SELECT id, email, name
		FROM users
		WHERE LOWER(email) = LOWER($1)
	`,
		email,
	).Scan(&out.UserID, &out.Email, &out.Name)

	if err == nil {
		if !identity.EmailVerified {
			return auth.VerifiedIdentity{}, ErrUnverifiedEmail
		}

		if err := link(ctx, r.db, out.UserID, identity); err != nil {
			return auth.VerifiedIdentity{}, err
		}

		return out, nil
	}

	if !errors.Is(err, sql.ErrNoRows) {
		return auth.VerifiedIdentity{}, fmt.Errorf("resolver: lookup email: %w", err)
	}

	// 3. Create new user and its identity mapping together
	userID := uuid.New().String()
	name := strings.TrimSpace(identity.Name)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return auth.VerifiedIdentity{}, fmt.Errorf("resolver: begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO users (id, email, name, email_verified)
		VALUES ($1, $2, $3, $4)
	`,
		userID,
		email,
		name,
		identity.EmailVerified,
	)
	if err != nil {
		return auth.VerifiedIdentity{}, fmt.Errorf("resolver: create user: %w", err)
	}

	if err := link(ctx, tx, userID, identity); err != nil {
		return auth.VerifiedIdentity{}, err
	}

	if err := tx.Commit(); err != nil {
		return auth.VerifiedIdentity{}, fmt.Errorf("resolver: commit: %w", err)
	}

	return auth.VerifiedIdentity{
		UserID:   userID,
		Email:    email,
		Name:     name,
		Provider: identity.Provider,
	}, nil
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func link(ctx context.Context, q execer, userID string, identity *auth.Identity) error {
	_, err := q.ExecContext(ctx, `
		INSERT INTO identities (user_id, provider, provider_user_id)
		VALUES ($1, $2, $3)
	`,
		userID,
		identity.Provider.String(),
		identity.ProviderUserID,
	)
	if err != nil {
		return fmt.Errorf("resolver: link identity: %w", err)
	}
	return nil
}
