package resolver

import (
	"context"

	"github.com/bbqjam05/pwd-week6-server/internal/auth"
)

// ErrUnresolvable is returned when a provider identity carries too little
// to be mapped to a user. It is a rejection, not a failure.
var ErrUnresolvable = &auth.RejectionError{Reason: "email_required"}

// ErrUnverifiedEmail is returned when an identity would be linked to an
// existing user by an email address the provider does not vouch for.
var ErrUnverifiedEmail = &auth.RejectionError{Reason: "email_not_verified"}

// Resolver determines which internal user an external identity belongs to.
// It is the ONLY place where identity-to-user mapping logic lives.
type Resolver interface {
	Resolve(
		ctx context.Context,
		identity *auth.Identity,
	) (auth.VerifiedIdentity, error)
}
