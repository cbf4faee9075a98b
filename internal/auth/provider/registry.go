package provider

import (
	"fmt"

	"github.com/bbqjam05/pwd-week6-server/internal/auth"
)

// Registry holds all configured OAuth providers in registration order.
// Routes are bound per provider at startup, so there is no lookup by a
// request-supplied name.
type Registry struct {
	order     []auth.Provider
	providers map[auth.Provider]OAuthProvider
}

// NewRegistry registers the given providers. Registering the same kind
// twice, or the local kind, is a configuration error.
func NewRegistry(list ...OAuthProvider) (*Registry, error) {
	r := &Registry{providers: make(map[auth.Provider]OAuthProvider, len(list))}
	for _, p := range list {
		kind := p.Kind()
		if kind == auth.ProviderLocal || kind == "" {
			return nil, fmt.Errorf("provider: %q is not an oauth provider", kind)
		}
		if _, dup := r.providers[kind]; dup {
			return nil, fmt.Errorf("provider: %s registered twice", kind)
		}
		r.providers[kind] = p
		r.order = append(r.order, kind)
	}
	return r, nil
}

// All returns the providers in registration order.
func (r *Registry) All() []OAuthProvider {
	out := make([]OAuthProvider, 0, len(r.order))
	for _, k := range r.order {
		out = append(out, r.providers[k])
	}
	return out
}

// Get returns the provider of the given kind.
func (r *Registry) Get(kind auth.Provider) (OAuthProvider, bool) {
	p, ok := r.providers[kind]
	return p, ok
}
