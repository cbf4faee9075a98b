package app

import (
	"context"
	"net/http"

	"github.com/bbqjam05/pwd-week6-server/internal/auth/credentials"
	"github.com/bbqjam05/pwd-week6-server/internal/auth/handler"
	"github.com/bbqjam05/pwd-week6-server/internal/auth/provider"
	"github.com/bbqjam05/pwd-week6-server/internal/auth/provider/google"
	"github.com/bbqjam05/pwd-week6-server/internal/auth/provider/naver"
	"github.com/bbqjam05/pwd-week6-server/internal/auth/resolver"
	"github.com/bbqjam05/pwd-week6-server/internal/auth/verify"
	"github.com/bbqjam05/pwd-week6-server/internal/config"
	"github.com/bbqjam05/pwd-week6-server/internal/middleware"
	"github.com/bbqjam05/pwd-week6-server/internal/session"

	"github.com/gin-gonic/gin"
)

// Services are the collaborators the HTTP layer is built from.
type Services struct {
	Directory      verify.Directory
	Resolver       resolver.Resolver
	Sessions       session.Store
	Authorizations session.AuthorizationStore
	Providers      []provider.OAuthProvider
}

func setupHTTP(ctx context.Context, cfg config.Config) (*gin.Engine, func() error, error) {

	infra, err := setupInfra(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	// ----------------------------
	// Dependencies
	// ----------------------------

	sessionStore := session.NewRedisStore(infra.Redis.Client)

	googleProvider, err := google.New(ctx, google.Config{
		ClientID:     cfg.GoogleClientID,
		ClientSecret: cfg.GoogleClientSecret,
		RedirectURL:  cfg.GoogleCallbackURL,
	})
	if err != nil {
		_ = infra.Close()
		return nil, nil, err
	}

	naverProvider, err := naver.New(naver.Config{
		ClientID:     cfg.NaverClientID,
		ClientSecret: cfg.NaverClientSecret,
		RedirectURL:  cfg.NaverCallbackURL,
	})
	if err != nil {
		_ = infra.Close()
		return nil, nil, err
	}

	router, err := NewRouter(cfg, Services{
		Directory:      credentials.NewService(infra.DB, credentials.NewHasher(cfg.BcryptCost)),
		Resolver:       resolver.NewDBResolver(infra.DB),
		Sessions:       sessionStore,
		Authorizations: sessionStore,
		Providers:      []provider.OAuthProvider{googleProvider, naverProvider},
	})
	if err != nil {
		_ = infra.Close()
		return nil, nil, err
	}

	return router, infra.Close, nil
}

// NewRouter wires the auth API on top of already-connected services.
func NewRouter(cfg config.Config, svc Services) (*gin.Engine, error) {
	registry, err := provider.NewRegistry(svc.Providers...)
	if err != nil {
		return nil, err
	}

	sessionManager := session.NewManager(svc.Sessions, session.ManagerOptions{
		TTL: cfg.SessionTTL,
	})

	authHandler := handler.NewHandler(handler.Options{
		Local:          verify.NewLocal(svc.Directory),
		Providers:      registry,
		Resolver:       svc.Resolver,
		Sessions:       sessionManager,
		Authorizations: svc.Authorizations,
		ClientURL:      cfg.ClientBaseURL(),
		StateTTL:       cfg.OAuthStateTTL,
		CookieSecure:   cfg.CookieSecure,
	})

	authMiddleware := middleware.NewAuthMiddleware(sessionManager)

	// ----------------------------
	// Router
	// ----------------------------

	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	authHandler.RegisterRoutes(router, middleware.GinRequireAuth(authMiddleware))

	return router, nil
}
