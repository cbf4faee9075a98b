package session

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/bbqjam05/pwd-week6-server/internal/auth"
	"github.com/bbqjam05/pwd-week6-server/internal/logger"
)

const defaultWriteTimeout = 3 * time.Second

type ManagerOptions struct {
	TTL    time.Duration
	Cookie CookieOptions

	// WriteTimeout bounds store writes, which run detached from the
	// request so a client disconnect cannot leave half-written state.
	WriteTimeout time.Duration
}

// Manager binds verified identities to transport sessions.
type Manager struct {
	store        Store
	ttl          time.Duration
	cookie       CookieOptions
	writeTimeout time.Duration
	now          func() time.Time
}

func NewManager(store Store, opts ManagerOptions) *Manager {
	if opts.TTL <= 0 {
		opts.TTL = 24 * time.Hour
	}
	if opts.WriteTimeout <= 0 {
		opts.WriteTimeout = defaultWriteTimeout
	}
	return &Manager{
		store:        store,
		ttl:          opts.TTL,
		cookie:       opts.Cookie,
		writeTimeout: opts.WriteTimeout,
		now:          time.Now,
	}
}

// Login creates a session for identity and issues its cookie. A session
// already referenced by the request cookie is destroyed first. The cookie
// is only written once the store accepted the session.
func (m *Manager) Login(
	ctx context.Context,
	w http.ResponseWriter,
	r *http.Request,
	identity auth.VerifiedIdentity,
) (*Session, error) {

	if identity.UserID == "" {
		return nil, errors.New("session: identity without user id")
	}

	ctx, cancel := m.detached(ctx)
	defer cancel()

	if previous := IDFromRequest(r); previous != "" {
		if err := m.store.Delete(ctx, previous); err != nil {
			logger.Warn("previous session not removed", map[string]any{
				"error": err.Error(),
			})
		}
	}

	sessionID, err := GenerateID()
	if err != nil {
		return nil, err
	}

	now := m.now().UTC()
	sess := Session{
		SessionID: sessionID,
		UserID:    identity.UserID,
		Email:     identity.Email,
		Name:      identity.Name,
		Provider:  identity.Provider,
		CreatedAt: now,
		ExpiresAt: now.Add(m.ttl),
	}

	if err := m.store.Create(ctx, sess); err != nil {
		return nil, fmt.Errorf("session: create: %w", err)
	}

	SetCookie(w, sessionID, sess.ExpiresAt, m.cookie)

	return &sess, nil
}

// Logout destroys the store entry and clears the cookie. The cookie is
// cleared even when the store delete fails; that failure is still returned.
func (m *Manager) Logout(
	ctx context.Context,
	w http.ResponseWriter,
	r *http.Request,
) error {

	ctx, cancel := m.detached(ctx)
	defer cancel()

	var storeErr error
	if sessionID := IDFromRequest(r); sessionID != "" {
		storeErr = m.store.Delete(ctx, sessionID)
	}

	ClearCookie(w, m.cookie)

	if storeErr != nil {
		return fmt.Errorf("session: delete: %w", storeErr)
	}
	return nil
}

// CurrentIdentity returns the identity bound to the request's session.
// ok is false when there is no live session; that is not an error.
func (m *Manager) CurrentIdentity(
	ctx context.Context,
	r *http.Request,
) (identity auth.VerifiedIdentity, ok bool, err error) {

	sessionID := IDFromRequest(r)
	if sessionID == "" {
		return auth.VerifiedIdentity{}, false, nil
	}

	sess, err := m.store.Get(ctx, sessionID)
	if err != nil {
		return auth.VerifiedIdentity{}, false, fmt.Errorf("session: get: %w", err)
	}
	if sess == nil {
		return auth.VerifiedIdentity{}, false, nil
	}

	if !m.now().Before(sess.ExpiresAt) {
		_ = m.store.Delete(ctx, sessionID)
		return auth.VerifiedIdentity{}, false, nil
	}

	return sess.Identity(), true, nil
}

func (m *Manager) detached(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(ctx), m.writeTimeout)
}
