package app

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/bbqjam05/pwd-week6-server/internal/auth"
	"github.com/bbqjam05/pwd-week6-server/internal/auth/provider"
	"github.com/bbqjam05/pwd-week6-server/internal/auth/provider/naver"
	"github.com/bbqjam05/pwd-week6-server/internal/config"
	"github.com/bbqjam05/pwd-week6-server/internal/session"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type noDirectory struct{}

func (noDirectory) Register(context.Context, auth.Credentials) (auth.VerifiedIdentity, error) {
	return auth.VerifiedIdentity{}, &auth.RejectionError{Reason: "email already registered"}
}

func (noDirectory) Authenticate(context.Context, string, string) (auth.VerifiedIdentity, error) {
	return auth.VerifiedIdentity{}, &auth.RejectionError{Reason: "invalid email or password"}
}

type noResolver struct{}

func (noResolver) Resolve(context.Context, *auth.Identity) (auth.VerifiedIdentity, error) {
	return auth.VerifiedIdentity{}, &auth.RejectionError{Reason: "email_required"}
}

func testRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	naverProvider, err := naver.New(naver.Config{
		ClientID:     "client-b",
		ClientSecret: "secret-b",
		RedirectURL:  "http://localhost:8080/api/auth/naver/callback",
	})
	require.NoError(t, err)

	store := session.NewMemoryStore()
	router, err := NewRouter(config.Config{
		ClientURL:     "http://localhost:3000/",
		SessionTTL:    time.Hour,
		OAuthStateTTL: time.Minute,
	}, Services{
		Directory:      noDirectory{},
		Resolver:       noResolver{},
		Sessions:       store,
		Authorizations: store,
		Providers:      []provider.OAuthProvider{naverProvider},
	})
	require.NoError(t, err)
	return router
}

func TestRouter_Health(t *testing.T) {
	w := httptest.NewRecorder()
	testRouter(t).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestRouter_ProviderRoutesPerRegisteredProvider(t *testing.T) {
	router := testRouter(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/auth/naver/url", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		URL string `json:"url"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.True(t, strings.HasPrefix(body.URL, "https://nid.naver.com/oauth2.0/authorize?"), body.URL)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/auth/google/url", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRouter_MeRequiresSession(t *testing.T) {
	w := httptest.NewRecorder()
	testRouter(t).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/auth/me", nil))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"success":false,"message":"login required"}`, w.Body.String())
}

func TestRouter_DuplicateProvider(t *testing.T) {
	p, err := naver.New(naver.Config{ClientID: "a", ClientSecret: "b", RedirectURL: "http://x/cb"})
	require.NoError(t, err)

	_, err = NewRouter(config.Config{}, Services{Providers: []provider.OAuthProvider{p, p}})
	assert.Error(t, err)
}
