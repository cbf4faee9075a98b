package session

import (
	"context"
	"errors"
	"time"

	"github.com/bbqjam05/pwd-week6-server/internal/auth"
)

// Session represents an authenticated user session. It carries a snapshot
// of the identity it was created for and nothing else.
type Session struct {
	SessionID string        `json:"session_id"`
	UserID    string        `json:"user_id"`
	Email     string        `json:"email"`
	Name      string        `json:"name"`
	Provider  auth.Provider `json:"provider"`
	CreatedAt time.Time     `json:"created_at"`
	ExpiresAt time.Time     `json:"expires_at"`
}

// Identity returns the identity the session is bound to.
func (s Session) Identity() auth.VerifiedIdentity {
	return auth.VerifiedIdentity{
		UserID:   s.UserID,
		Email:    s.Email,
		Name:     s.Name,
		Provider: s.Provider,
	}
}

// Authorization is a pending provider authorization, created when the
// authorization URL is handed out and consumed once by the callback.
type Authorization struct {
	State        string        `json:"state"`
	Provider     auth.Provider `json:"provider"`
	CodeVerifier string        `json:"code_verifier"`
	ExpiresAt    time.Time     `json:"expires_at"`
}

var (
	errMissingIDs = errors.New("session: missing session_id or user_id")
	errExpired    = errors.New("session: expires_at must be in the future")
)

// Store defines how sessions are stored and retrieved.
// Get returns (nil, nil) for an unknown session.
type Store interface {
	Create(ctx context.Context, s Session) error
	Get(ctx context.Context, sessionID string) (*Session, error)
	Delete(ctx context.Context, sessionID string) error
}

// AuthorizationStore keeps pending provider authorizations. Consume is
// atomic: a state can be redeemed at most once, and an unknown or expired
// state yields (nil, nil).
type AuthorizationStore interface {
	SaveAuthorization(ctx context.Context, a Authorization) error
	ConsumeAuthorization(ctx context.Context, state string) (*Authorization, error)
}
