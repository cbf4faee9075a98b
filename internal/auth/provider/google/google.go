package google

import (
	"context"
	"errors"
	"fmt"

	"github.com/bbqjam05/pwd-week6-server/internal/auth"
	"github.com/bbqjam05/pwd-week6-server/internal/auth/provider"
	"github.com/bbqjam05/pwd-week6-server/internal/logger"

	"github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"
)

const (
	issuer  = "https://accounts.google.com"
	jwksURL = "https://www.googleapis.com/oauth2/v3/certs"
)

// Endpoint is Google's authorization-code endpoint pair.
var Endpoint = oauth2.Endpoint{
	AuthURL:  "https://accounts.google.com/o/oauth2/v2/auth",
	TokenURL: "https://oauth2.googleapis.com/token",
}

// Scopes requested on every authorization.
var Scopes = []string{
	oidc.ScopeOpenID,
	"https://www.googleapis.com/auth/userinfo.profile",
	"https://www.googleapis.com/auth/userinfo.email",
}

type Config struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string

	// Endpoint and Verifier override the production values; tests use them.
	Endpoint oauth2.Endpoint
	Verifier *oidc.IDTokenVerifier
}

type Provider struct {
	oauthConfig *oauth2.Config
	verifier    *oidc.IDTokenVerifier
}

var _ provider.OAuthProvider = (*Provider)(nil)

// New builds the provider without any network call; Google's signing keys
// are fetched lazily on the first id_token verification.
func New(ctx context.Context, cfg Config) (*Provider, error) {

	if cfg.ClientID == "" || cfg.ClientSecret == "" || cfg.RedirectURL == "" {
		return nil, errors.New("google oauth config missing required fields")
	}

	endpoint := cfg.Endpoint
	if endpoint.AuthURL == "" || endpoint.TokenURL == "" {
		endpoint = Endpoint
	}

	verifier := cfg.Verifier
	if verifier == nil {
		keySet := oidc.NewRemoteKeySet(ctx, jwksURL)
		verifier = oidc.NewVerifier(issuer, keySet, &oidc.Config{
			ClientID: cfg.ClientID,
		})
	}

	return &Provider{
		oauthConfig: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Endpoint:     endpoint,
			Scopes:       Scopes,
		},
		verifier: verifier,
	}, nil
}

func (p *Provider) Kind() auth.Provider {
	return auth.ProviderGoogle
}

// AuthCodeURL builds the consent URL: offline access, forced consent
// prompt, and the PKCE challenge when one is given.
func (p *Provider) AuthCodeURL(state string, codeChallenge string) string {
	opts := []oauth2.AuthCodeOption{
		oauth2.AccessTypeOffline,
		oauth2.SetAuthURLParam("prompt", "consent"),
	}
	if codeChallenge != "" {
		opts = append(opts,
			oauth2.SetAuthURLParam("code_challenge", codeChallenge),
			oauth2.SetAuthURLParam("code_challenge_method", "S256"),
		)
	}
	return p.oauthConfig.AuthCodeURL(state, opts...)
}

func (p *Provider) ExchangeCode(
	ctx context.Context,
	grant provider.Grant,
) (*auth.Identity, error) {

	var opts []oauth2.AuthCodeOption
	if grant.CodeVerifier != "" {
		opts = append(opts, oauth2.SetAuthURLParam("code_verifier", grant.CodeVerifier))
	}

	token, err := p.oauthConfig.Exchange(ctx, grant.Code, opts...)
	if err != nil {
		return nil, fmt.Errorf("google token exchange failed: %w", err)
	}

	rawIDToken, ok := token.Extra("id_token").(string)
	if !ok || rawIDToken == "" {
		return nil, errors.New("google did not return id_token")
	}

	idToken, err := p.verifier.Verify(ctx, rawIDToken)
	if err != nil {
		return nil, fmt.Errorf("google id_token verification failed: %w", err)
	}

	var claims struct {
		Subject       string `json:"sub"`
		Email         string `json:"email"`
		EmailVerified bool   `json:"email_verified"`
		Name          string `json:"name"`
	}

	if err := idToken.Claims(&claims); err != nil {
		return nil, fmt.Errorf("google id_token claims parse failed: %w", err)
	}

	if claims.Subject == "" {
		return nil, errors.New("google id_token missing subject")
	}

	logger.Info("google oidc verified", map[string]any{
		"issuer":         idToken.Issuer,
		"email_present":  claims.Email != "",
		"email_verified": claims.EmailVerified,
		"expiry_unix":    idToken.Expiry.Unix(),
	})

	return &auth.Identity{
		Provider:       auth.ProviderGoogle,
		ProviderUserID: claims.Subject,
		Email:          claims.Email,
		EmailVerified:  claims.EmailVerified,
		Name:           claims.Name,
	}, nil
}
