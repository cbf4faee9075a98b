package resolver

import (
	"context"
	"errors"
	"testing"

	"github.com/bbqjam05/pwd-week6-server/internal/auth"
	"github.com/bbqjam05/pwd-week6-server/internal/db"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestResolver(t *testing.T) (*DBResolver, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return NewDBResolver(&db.DB{DB: sqlDB}), mock
}

var userCols = []string{"id", "email", "name"}

func googleIdentity() *auth.Identity {
	return &auth.Identity{
		Provider:       auth.ProviderGoogle,
		ProviderUserID: "sub-123",
		Email:          "Alice@Example.com",
		EmailVerified:  true,
		Name:           "Alice",
	}
}

func TestResolve_KnownIdentity(t *testing.T) {
	r, mock := newTestResolver(t)

	mock.ExpectQuery(`FROM identities i`).
		WithArgs("google", "sub-123").
		WillReturnRows(sqlmock.NewRows(userCols).AddRow("u1", "alice@example.com", "Alice"))

	id, err := r.Resolve(context.Background(), googleIdentity())
	require.NoError(t, err)
	assert.Equal(t, auth.VerifiedIdentity{
		UserID: "u1", Email: "alice@example.com", Name: "Alice", Provider: auth.ProviderGoogle,
	}, id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestResolve_LinksByEmail(t *testing.T) {
	r, mock := newTestResolver(t)

	mock.ExpectQuery(`FROM identities i`).WillReturnRows(sqlmock.NewRows(userCols))
	mock.ExpectQuery(`FROM users`).
		WithArgs("alice@example.com").
		WillReturnRows(sqlmock.NewRows(userCols).AddRow("u1", "alice@example.com", "Alice"))
	mock.ExpectExec(`INSERT INTO identities`).
		WithArgs("u1", "google", "sub-123").
		WillReturnResult(sqlmock.NewResult(0, 1))

	id, err := r.Resolve(context.Background(), googleIdentity())
	require.NoError(t, err)
	assert.Equal(t, "u1", id.UserID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestResolve_RefusesUnverifiedLink(t *testing.T) {
	r, mock := newTestResolver(t)

	ident := googleIdentity()
	ident.EmailVerified = false

	mock.ExpectQuery(`FROM identities i`).WillReturnRows(sqlmock.NewRows(userCols))
	mock.ExpectQuery(`FROM users`).
		WillReturnRows(sqlmock.NewRows(userCols).AddRow("u1", "alice@example.com", "Alice"))

	_, err := r.Resolve(context.Background(), ident)
	assert.ErrorIs(t, err, ErrUnverifiedEmail)
}

func TestResolve_CreatesUser(t *testing.T) {
	r, mock := newTestResolver(t)

	mock.ExpectQuery(`FROM identities i`).WillReturnRows(sqlmock.NewRows(userCols))
	mock.ExpectQuery(`FROM users`).WillReturnRows(sqlmock.NewRows(userCols))
	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO users`).
		WithArgs(sqlmock.AnyArg(), "alice@example.com", "Alice", true).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO identities`).
		WithArgs(sqlmock.AnyArg(), "google", "sub-123").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	id, err := r.Resolve(context.Background(), googleIdentity())
	require.NoError(t, err)
	assert.NotEmpty(t, id.UserID)
	assert.Equal(t, "alice@example.com", id.Email)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestResolve_LinkFailureRollsBackUser(t *testing.T) {
	r, mock := newTestResolver(t)

	mock.ExpectQuery(`FROM identities i`).WillReturnRows(sqlmock.NewRows(userCols))
	mock.ExpectQuery(`FROM users`).WillReturnRows(sqlmock.NewRows(userCols))
	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO users`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO identities`).WillReturnError(errors.New("unique violation"))
	mock.ExpectRollback()

	_, err := r.Resolve(context.Background(), googleIdentity())
	require.Error(t, err)
	_, ok := auth.AsRejection(err)
	assert.False(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestResolve_MissingEmailIsRejected(t *testing.T) {
	r, mock := newTestResolver(t)

	ident := googleIdentity()
	ident.Email = ""

	mock.ExpectQuery(`FROM identities i`).WillReturnRows(sqlmock.NewRows(userCols))

	_, err := r.Resolve(context.Background(), ident)
	reason, ok := auth.AsRejection(err)
	assert.True(t, ok)
	assert.Equal(t, "email_required", reason)
}

func TestResolve_DatabaseFailure(t *testing.T) {
	r, mock := newTestResolver(t)

	mock.ExpectQuery(`FROM identities i`).WillReturnError(errors.New("connection refused"))

	_, err := r.Resolve(context.Background(), googleIdentity())
	require.Error(t, err)
	_, ok := auth.AsRejection(err)
	assert.False(t, ok)
}
