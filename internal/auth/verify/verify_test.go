package verify

import (
	"context"
	"errors"
	"testing"

	"github.com/bbqjam05/pwd-week6-server/internal/auth"
	"github.com/bbqjam05/pwd-week6-server/internal/auth/provider"

	"github.com/stretchr/testify/assert"
)

type fakeDirectory struct {
	registerID  auth.VerifiedIdentity
	registerErr error
	authID      auth.VerifiedIdentity
	authErr     error
}

func (f fakeDirectory) Register(context.Context, auth.Credentials) (auth.VerifiedIdentity, error) {
	return f.registerID, f.registerErr
}

func (f fakeDirectory) Authenticate(context.Context, string, string) (auth.VerifiedIdentity, error) {
	return f.authID, f.authErr
}

func TestLocal_Verify(t *testing.T) {
	alice := auth.VerifiedIdentity{UserID: "u1", Email: "alice@example.com", Name: "Alice"}

	tests := []struct {
		name   string
		dir    fakeDirectory
		kind   auth.OutcomeKind
		reason string
	}{
		{"verified", fakeDirectory{authID: alice}, auth.OutcomeVerified, ""},
		{"specific rejection", fakeDirectory{authErr: &auth.RejectionError{Reason: "invalid email or password"}}, auth.OutcomeRejected, "invalid email or password"},
		{"generic rejection", fakeDirectory{authErr: &auth.RejectionError{}}, auth.OutcomeRejected, DefaultLoginRejection},
		{"directory failure", fakeDirectory{authErr: errors.New("db down")}, auth.OutcomeFailed, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := NewLocal(tt.dir).Verify(context.Background(), auth.Credentials{Email: "a", Password: "b"})
			assert.Equal(t, tt.kind, out.Kind())
			assert.Equal(t, tt.reason, out.Reason())
			if tt.kind == auth.OutcomeVerified {
				assert.Equal(t, auth.ProviderLocal, out.Identity().Provider)
				assert.Equal(t, "u1", out.Identity().UserID)
			}
		})
	}
}

func TestLocal_Enroll(t *testing.T) {
	out := NewLocal(fakeDirectory{registerErr: &auth.RejectionError{Reason: "email already registered"}}).
		Enroll(context.Background(), auth.Credentials{})
	assert.Equal(t, auth.OutcomeRejected, out.Kind())
	assert.Equal(t, "email already registered", out.Reason())

	out = NewLocal(fakeDirectory{registerID: auth.VerifiedIdentity{UserID: "u1"}}).
		Enroll(context.Background(), auth.Credentials{})
	assert.Equal(t, auth.OutcomeVerified, out.Kind())
}

type fakeOAuth struct {
	identity *auth.Identity
	err      error
	grant    provider.Grant
}

func (f *fakeOAuth) Kind() auth.Provider { return auth.ProviderNaver }

func (f *fakeOAuth) AuthCodeURL(state, _ string) string { return "https://idp/?state=" + state }

func (f *fakeOAuth) ExchangeCode(_ context.Context, g provider.Grant) (*auth.Identity, error) {
	f.grant = g
	return f.identity, f.err
}

type fakeResolver struct {
	id  auth.VerifiedIdentity
	err error
}

func (f fakeResolver) Resolve(context.Context, *auth.Identity) (auth.VerifiedIdentity, error) {
	return f.id, f.err
}

func TestProvider_Verify(t *testing.T) {
	ident := &auth.Identity{Provider: auth.ProviderNaver, ProviderUserID: "nv-1", Email: "bob@naver.com"}
	bob := auth.VerifiedIdentity{UserID: "u2", Email: "bob@naver.com"}

	tests := []struct {
		name     string
		cb       Callback
		oauth    *fakeOAuth
		resolver fakeResolver
		kind     auth.OutcomeKind
		reason   string
	}{
		{"provider error param", Callback{Error: "access_denied"}, &fakeOAuth{}, fakeResolver{}, auth.OutcomeRejected, "access_denied"},
		{"missing code", Callback{}, &fakeOAuth{}, fakeResolver{}, auth.OutcomeRejected, ReasonMissingCode},
		{"exchange failure", Callback{Code: "c"}, &fakeOAuth{err: errors.New("timeout")}, fakeResolver{}, auth.OutcomeFailed, ""},
		{"resolver rejection", Callback{Code: "c"}, &fakeOAuth{identity: ident}, fakeResolver{err: &auth.RejectionError{Reason: "email_required"}}, auth.OutcomeRejected, "email_required"},
		{"resolver failure", Callback{Code: "c"}, &fakeOAuth{identity: ident}, fakeResolver{err: errors.New("db down")}, auth.OutcomeFailed, ""},
		{"no user", Callback{Code: "c"}, &fakeOAuth{identity: ident}, fakeResolver{}, auth.OutcomeRejected, ReasonNoUser},
		{"verified", Callback{Code: "c"}, &fakeOAuth{identity: ident}, fakeResolver{id: bob}, auth.OutcomeVerified, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := NewProvider(tt.oauth, tt.resolver).Verify(context.Background(), tt.cb)
			assert.Equal(t, tt.kind, out.Kind())
			assert.Equal(t, tt.reason, out.Reason())
			if tt.kind == auth.OutcomeFailed {
				assert.Error(t, out.Err())
			}
			if tt.kind == auth.OutcomeVerified {
				assert.Equal(t, auth.ProviderNaver, out.Identity().Provider)
			}
		})
	}
}

func TestProvider_PassesGrant(t *testing.T) {
	oauth := &fakeOAuth{identity: &auth.Identity{ProviderUserID: "x"}}
	NewProvider(oauth, fakeResolver{id: auth.VerifiedIdentity{UserID: "u"}}).
		Verify(context.Background(), Callback{Code: "code-1", State: "state-1", CodeVerifier: "v"})

	assert.Equal(t, provider.Grant{Code: "code-1", State: "state-1", CodeVerifier: "v"}, oauth.grant)
}
