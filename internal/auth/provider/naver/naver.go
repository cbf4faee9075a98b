package naver

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/bbqjam05/pwd-week6-server/internal/auth"
	"github.com/bbqjam05/pwd-week6-server/internal/auth/provider"
	"github.com/bbqjam05/pwd-week6-server/internal/logger"

	"github.com/tidwall/gjson"
	"golang.org/x/oauth2"
)

// Endpoint is Naver Login's authorization-code endpoint pair. Naver expects
// the client secret in the form body.
var Endpoint = oauth2.Endpoint{
	AuthURL:   "https://nid.naver.com/oauth2.0/authorize",
	TokenURL:  "https://nid.naver.com/oauth2.0/token",
	AuthStyle: oauth2.AuthStyleInParams,
}

const ProfileURL = "https://openapi.naver.com/v1/nid/me"

const maxProfileBytes = 1 << 20

type Config struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string

	// Endpoint and ProfileURL override the production values; tests use them.
	Endpoint   oauth2.Endpoint
	ProfileURL string
}

// Provider implements Naver Login. Naver is plain OAuth2: identity comes
// from the profile API, not from an id_token.
type Provider struct {
	oauthConfig *oauth2.Config
	profileURL  string
}

var _ provider.OAuthProvider = (*Provider)(nil)

func New(cfg Config) (*Provider, error) {

	if cfg.ClientID == "" || cfg.ClientSecret == "" || cfg.RedirectURL == "" {
		return nil, errors.New("naver oauth config missing required fields")
	}

	endpoint := cfg.Endpoint
	if endpoint.AuthURL == "" || endpoint.TokenURL == "" {
		endpoint = Endpoint
	}

	profileURL := cfg.ProfileURL
	if profileURL == "" {
		profileURL = ProfileURL
	}

	return &Provider{
		oauthConfig: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Endpoint:     endpoint,
		},
		profileURL: profileURL,
	}, nil
}

func (p *Provider) Kind() auth.Provider {
	return auth.ProviderNaver
}

// AuthCodeURL builds the Naver login URL. Naver does not support PKCE, so
// the challenge is ignored; the state is what binds the callback.
func (p *Provider) AuthCodeURL(state string, _ string) string {
	return p.oauthConfig.AuthCodeURL(state)
}

func (p *Provider) ExchangeCode(
	ctx context.Context,
	grant provider.Grant,
) (*auth.Identity, error) {

	token, err := p.oauthConfig.Exchange(
		ctx,
		grant.Code,
		oauth2.SetAuthURLParam("state", grant.State),
	)
	if err != nil {
		return nil, fmt.Errorf("naver token exchange failed: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.profileURL, nil)
	if err != nil {
		return nil, fmt.Errorf("naver profile request: %w", err)
	}

	res, err := p.oauthConfig.Client(ctx, token).Do(req)
	if err != nil {
		return nil, fmt.Errorf("naver profile fetch failed: %w", err)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(io.LimitReader(res.Body, maxProfileBytes))
	if err != nil {
		return nil, fmt.Errorf("naver profile read failed: %w", err)
	}

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("naver profile fetch failed: status %d", res.StatusCode)
	}

	if !gjson.ValidBytes(body) {
		return nil, errors.New("naver profile is not valid json")
	}

	profile := gjson.ParseBytes(body)
	if code := profile.Get("resultcode").String(); code != "00" {
		logger.Warn("naver profile rejected", map[string]any{
			"resultcode": code,
			"message":    profile.Get("message").String(),
		})
		return nil, fmt.Errorf("naver profile resultcode %q", code)
	}

	id := profile.Get("response.id").String()
	if id == "" {
		return nil, errors.New("naver profile missing id")
	}

	email := profile.Get("response.email").String()

	// Naver only exposes the account's registered, confirmed email.
	return &auth.Identity{
		Provider:       auth.ProviderNaver,
		ProviderUserID: id,
		Email:          email,
		EmailVerified:  email != "",
		Name:           firstNonEmpty(profile.Get("response.name").String(), profile.Get("response.nickname").String()),
	}, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
