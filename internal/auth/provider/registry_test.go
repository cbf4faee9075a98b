package provider

import (
	"context"
	"testing"

	"github.com/bbqjam05/pwd-week6-server/internal/auth"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubProvider struct {
	kind auth.Provider
}

func (s stubProvider) Kind() auth.Provider { return s.kind }

func (s stubProvider) AuthCodeURL(state, _ string) string {
	return "https://idp.example.com/auth?state=" + state
}

func (s stubProvider) ExchangeCode(context.Context, Grant) (*auth.Identity, error) {
	return nil, nil
}

func TestRegistry_Order(t *testing.T) {
	r, err := NewRegistry(stubProvider{auth.ProviderGoogle}, stubProvider{auth.ProviderNaver})
	require.NoError(t, err)

	all := r.All()
	require.Len(t, all, 2)
	assert.Equal(t, auth.ProviderGoogle, all[0].Kind())
	assert.Equal(t, auth.ProviderNaver, all[1].Kind())

	p, ok := r.Get(auth.ProviderNaver)
	assert.True(t, ok)
	assert.Equal(t, auth.ProviderNaver, p.Kind())

	_, ok = r.Get(auth.ProviderLocal)
	assert.False(t, ok)
}

func TestRegistry_RejectsDuplicates(t *testing.T) {
	_, err := NewRegistry(stubProvider{auth.ProviderGoogle}, stubProvider{auth.ProviderGoogle})
	assert.ErrorContains(t, err, "registered twice")
}

func TestRegistry_RejectsLocal(t *testing.T) {
	_, err := NewRegistry(stubProvider{auth.ProviderLocal})
	assert.Error(t, err)
}
