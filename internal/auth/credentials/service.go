package credentials

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/bbqjam05/pwd-week6-server/internal/auth"
	"github.com/bbqjam05/pwd-week6-server/internal/db"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = &auth.RejectionError{Reason: "invalid email or password"}
	ErrEmailTaken         = &auth.RejectionError{Reason: "email already registered"}
)

// Service is the Postgres-backed user directory for local accounts.
type Service struct {
	db     *db.DB
	hasher *Hasher
}

func NewService(db *db.DB, hasher *Hasher) *Service {
	return &Service{db: db, hasher: hasher}
}

// Register creates a user with local credentials. Any existing user with
// the same email, local or provider-created, makes the email taken.
func (s *Service) Register(
	ctx context.Context,
	creds auth.Credentials,
) (auth.VerifiedIdentity, error) {

	email := normalizeEmail(creds.Email)
	name := strings.TrimSpace(creds.Name)

	hash, version, err := s.hasher.Hash(creds.Password)
	if err != nil {
		return auth.VerifiedIdentity{}, fmt.Errorf("credentials: hash: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return auth.VerifiedIdentity{}, fmt.Errorf("credentials: begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	// 1. Enforce email uniqueness
	var exists bool
	err = tx.QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM users WHERE LOWER(email) = LOWER($1)
		)
	`, email).Scan(&exists)
	if err != nil {
		return auth.VerifiedIdentity{}, fmt.Errorf("credentials: lookup email: %w", err)
	}

	if exists {
		return auth.VerifiedIdentity{}, ErrEmailTaken
	}

	// 2. Create user
	userID := uuid.New()
	_, err = tx.ExecContext(ctx, `
		INSERT INTO users (id, email, name, email_verified)
		VALUES ($1, $2, $3, false)
	`, userID, email, name)
	if err != nil {
		return auth.VerifiedIdentity{}, fmt.Errorf("credentials: insert user: %w", err)
	}

	// 3. Insert credentials
	_, err = tx.ExecContext(ctx, `
		INSERT INTO credentials (user_id, password_hash, hash_version)
		VALUES ($1, $2, $3)
	`, userID, hash, version)
	if err != nil {
		return auth.VerifiedIdentity{}, fmt.Errorf("credentials: insert credentials: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return auth.VerifiedIdentity{}, fmt.Errorf("credentials: commit: %w", err)
	}

	return auth.VerifiedIdentity{
		UserID:   userID.String(),
		Email:    email,
		Name:     name,
		Provider: auth.ProviderLocal,
	}, nil
}

// Authenticate checks an email/password pair. Unknown email and wrong
// password are indistinguishable to the caller; database failures are not.
func (s *Service) Authenticate(
	ctx context.Context,
	email string,
	password string,
) (auth.VerifiedIdentity, error) {

	var (
		id   auth.VerifiedIdentity
		cred Credential
	)

	err := s.db.QueryRowContext(ctx, `
		SELECT u.id, u.email, u.name, c.password_hash
		FROM users u
		JOIN credentials c ON c.user_id = u.id
		WHERE LOWER(u.email) = LOWER($1)
		  AND u.status = 'active'
	`, normalizeEmail(email)).Scan(&id.UserID, &id.Email, &id.Name, &cred.PasswordHash)

	if errors.Is(err, sql.ErrNoRows) {
		return auth.VerifiedIdentity{}, ErrInvalidCredentials
	}
	if err != nil {
		return auth.VerifiedIdentity{}, fmt.Errorf("credentials: lookup: %w", err)
	}

	if err := s.hasher.Verify(cred.PasswordHash, password); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) || errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return auth.VerifiedIdentity{}, ErrInvalidCredentials
		}
		return auth.VerifiedIdentity{}, fmt.Errorf("credentials: verify hash: %w", err)
	}

	id.Provider = auth.ProviderLocal
	return id, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
