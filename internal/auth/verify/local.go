package verify

import (
	"context"

	"github.com/bbqjam05/pwd-week6-server/internal/auth"
)

// DefaultLoginRejection is used when the directory rejects a login
// without saying why.
const DefaultLoginRejection = "login failed"

// Directory is the user directory the local strategy delegates to.
type Directory interface {
	Register(ctx context.Context, creds auth.Credentials) (auth.VerifiedIdentity, error)
	Authenticate(ctx context.Context, email, password string) (auth.VerifiedIdentity, error)
}

// Local verifies email/password identities.
type Local struct {
	directory Directory
}

func NewLocal(directory Directory) *Local {
	return &Local{directory: directory}
}

// Verify checks existing credentials.
func (l *Local) Verify(ctx context.Context, creds auth.Credentials) auth.Outcome {
	id, err := l.directory.Authenticate(ctx, creds.Email, creds.Password)
	return l.outcome(id, err, DefaultLoginRejection)
}

// Enroll creates the account and verifies it in one step.
func (l *Local) Enroll(ctx context.Context, creds auth.Credentials) auth.Outcome {
	id, err := l.directory.Register(ctx, creds)
	return l.outcome(id, err, "registration failed")
}

func (l *Local) outcome(id auth.VerifiedIdentity, err error, fallback string) auth.Outcome {
	if err != nil {
		if reason, ok := auth.AsRejection(err); ok {
			if reason == "" {
				reason = fallback
			}
			return auth.Rejected(reason)
		}
		return auth.Failed(err)
	}
	if id.UserID == "" {
		return auth.Rejected(fallback)
	}
	id.Provider = auth.ProviderLocal
	return auth.Verified(id)
}
