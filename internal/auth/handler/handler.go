package handler

import (
	"context"
	"strings"
	"time"

	"github.com/bbqjam05/pwd-week6-server/internal/auth"
	"github.com/bbqjam05/pwd-week6-server/internal/auth/provider"
	"github.com/bbqjam05/pwd-week6-server/internal/auth/resolver"
	"github.com/bbqjam05/pwd-week6-server/internal/auth/verify"
	"github.com/bbqjam05/pwd-week6-server/internal/logger"
	"github.com/bbqjam05/pwd-week6-server/internal/session"

	"github.com/gin-gonic/gin"
)

// LocalVerifier is the local-credentials strategy.
type LocalVerifier interface {
	Verify(ctx context.Context, creds auth.Credentials) auth.Outcome
	Enroll(ctx context.Context, creds auth.Credentials) auth.Outcome
}

type Options struct {
	Local          LocalVerifier
	Providers      *provider.Registry
	Resolver       resolver.Resolver
	Sessions       *session.Manager
	Authorizations session.AuthorizationStore

	// ClientURL is where browsers land after a provider callback.
	ClientURL    string
	StateTTL     time.Duration
	CookieSecure bool
}

type Handler struct {
	local          LocalVerifier
	providers      *provider.Registry
	resolver       resolver.Resolver
	sessions       *session.Manager
	authorizations session.AuthorizationStore

	clientURL    string
	stateTTL     time.Duration
	cookieSecure bool
}

func NewHandler(opts Options) *Handler {
	if opts.StateTTL <= 0 {
		opts.StateTTL = defaultStateTTL
	}
	return &Handler{
		local:          opts.Local,
		providers:      opts.Providers,
		resolver:       opts.Resolver,
		sessions:       opts.Sessions,
		authorizations: opts.Authorizations,
		clientURL:      strings.TrimRight(opts.ClientURL, "/"),
		stateTTL:       opts.StateTTL,
		cookieSecure:   opts.CookieSecure,
	}
}

// RegisterRoutes binds the auth API. Provider routes are bound once per
// registered provider, each to its own verifier.
func (h *Handler) RegisterRoutes(r gin.IRouter, requireAuth gin.HandlerFunc) {
	api := r.Group("/api/auth")

	api.POST("/register", h.Register)
	api.POST("/login", h.Login)
	api.POST("/logout", h.Logout)
	api.GET("/me", requireAuth, h.Me)

	for _, p := range h.providers.All() {
		name := p.Kind().String()
		api.GET("/"+name+"/url", h.authorizationURL(p))
		api.GET("/"+name+"/callback", h.callback(verify.NewProvider(p, h.resolver)))

		logger.Info("provider routes registered", map[string]any{
			"provider": name,
		})
	}
}
