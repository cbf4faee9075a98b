package verify

import (
	"context"
	"fmt"

	"github.com/bbqjam05/pwd-week6-server/internal/auth"
	"github.com/bbqjam05/pwd-week6-server/internal/auth/provider"
	"github.com/bbqjam05/pwd-week6-server/internal/auth/resolver"
)

// Rejection reasons surfaced in the callback redirect.
const (
	ReasonMissingCode = "missing_code"
	ReasonNoUser      = "user_not_found"
)

// Callback is what the provider round-trip hands back, after the caller
// has checked and consumed the anti-CSRF state.
type Callback struct {
	Code             string
	State            string
	CodeVerifier     string
	Error            string
	ErrorDescription string
}

// Provider verifies identities asserted by one OAuth provider.
type Provider struct {
	provider provider.OAuthProvider
	resolver resolver.Resolver
}

func NewProvider(p provider.OAuthProvider, r resolver.Resolver) *Provider {
	return &Provider{provider: p, resolver: r}
}

func (v *Provider) Kind() auth.Provider {
	return v.provider.Kind()
}

// Verify maps the callback into an outcome. Provider-reported errors and
// unresolvable identities are rejections; transport, token and directory
// failures are infrastructure failures.
func (v *Provider) Verify(ctx context.Context, cb Callback) auth.Outcome {
	if cb.Error != "" {
		return auth.Rejected(cb.Error)
	}
	if cb.Code == "" {
		return auth.Rejected(ReasonMissingCode)
	}

	identity, err := v.provider.ExchangeCode(ctx, provider.Grant{
		Code:         cb.Code,
		State:        cb.State,
		CodeVerifier: cb.CodeVerifier,
	})
	if err != nil {
		return auth.Failed(fmt.Errorf("%s exchange: %w", v.provider.Kind(), err))
	}
	if identity == nil {
		return auth.Rejected(ReasonNoUser)
	}

	user, err := v.resolver.Resolve(ctx, identity)
	if err != nil {
		if reason, ok := auth.AsRejection(err); ok {
			return auth.Rejected(reason)
		}
		return auth.Failed(fmt.Errorf("%s resolve: %w", v.provider.Kind(), err))
	}
	if user.UserID == "" {
		return auth.Rejected(ReasonNoUser)
	}

	user.Provider = v.provider.Kind()
	return auth.Verified(user)
}
