package provider

import (
	"context"

	"github.com/bbqjam05/pwd-week6-server/internal/auth"
)

// Grant is what the callback hands back for a code exchange.
type Grant struct {
	Code         string
	State        string
	CodeVerifier string
}

// OAuthProvider defines the contract every external auth provider
// must implement. Implementations return identity facts only and
// must not perform user creation, linking, or session management.
type OAuthProvider interface {
	// Kind identifies the provider; it also names its routes.
	Kind() auth.Provider

	// AuthCodeURL returns the authorization URL. Output is a pure function
	// of the provider configuration and the caller-supplied state and PKCE
	// challenge. Providers without PKCE support ignore the challenge.
	AuthCodeURL(state string, codeChallenge string) string

	// ExchangeCode exchanges the authorization code for provider credentials
	// and returns a normalized identity. No auth decisions are made here.
	ExchangeCode(ctx context.Context, grant Grant) (*auth.Identity, error)
}
