package handler

import (
	"net/http"
	"net/url"
	"time"

	"github.com/bbqjam05/pwd-week6-server/internal/auth"
	"github.com/bbqjam05/pwd-week6-server/internal/auth/provider"
	"github.com/bbqjam05/pwd-week6-server/internal/auth/verify"
	"github.com/bbqjam05/pwd-week6-server/internal/logger"
	"github.com/bbqjam05/pwd-week6-server/internal/session"

	"github.com/gin-gonic/gin"
)

// Redirect error codes for failures that carry no rejection reason.
const (
	errorInvalidState = "invalid_state"
	errorServer       = "server_error"
	errorLogin        = "login_error"
)

// authorizationURL hands out the provider's consent URL. The state and
// PKCE verifier are stored before the URL leaves the server.
func (h *Handler) authorizationURL(p provider.OAuthProvider) gin.HandlerFunc {
	return func(c *gin.Context) {
		f := newFlow(c, "authorize_url")
		f.provider = p.Kind()

		state, err := newState()
		if err != nil {
			f.fail("failed to start authorization", err)
			return
		}

		verifier, challenge, err := generatePKCE()
		if err != nil {
			f.fail("failed to start authorization", err)
			return
		}

		ctx := c.Request.Context()
		err = h.authorizations.SaveAuthorization(ctx, session.Authorization{
			State:        state,
			Provider:     p.Kind(),
			CodeVerifier: verifier,
			ExpiresAt:    time.Now().Add(h.stateTTL),
		})
		if err != nil {
			f.fail("failed to start authorization", err)
			return
		}

		h.setStateCookie(c, state)

		f.json(http.StatusOK, gin.H{"url": p.AuthCodeURL(state, challenge)})
	}
}

// callback completes a provider round-trip. Every outcome, including
// infrastructure failure, is a redirect back to the client.
func (h *Handler) callback(v *verify.Provider) gin.HandlerFunc {
	return func(c *gin.Context) {
		f := newFlow(c, "callback")
		f.provider = v.Kind()
		f.enter(stageValidating)

		h.clearStateCookie(c)

		pending, code := h.consumeState(c, f, v.Kind())
		if pending == nil {
			f.redirect(h.loginURL(code))
			return
		}

		f.enter(stageVerifying)
		out := v.Verify(c.Request.Context(), verify.Callback{
			Code:             c.Query("code"),
			State:            pending.State,
			CodeVerifier:     pending.CodeVerifier,
			Error:            c.Query("error"),
			ErrorDescription: c.Query("error_description"),
		})

		switch out.Kind() {
		case auth.OutcomeRejected:
			logger.Warn("provider login rejected", f.fields(map[string]any{
				"reason": out.Reason(),
			}))
			f.redirect(h.loginURL(out.Reason()))
			return
		case auth.OutcomeFailed:
			logger.Error("provider verification failed", f.fields(map[string]any{
				"error": errString(out.Err()),
			}))
			f.redirect(h.loginURL(errorServer))
			return
		case auth.OutcomeVerified:
		default:
			logger.Error("provider verification returned no outcome", f.fields(nil))
			f.redirect(h.loginURL(errorServer))
			return
		}

		f.enter(stageSessionBinding)
		if _, err := h.sessions.Login(c.Request.Context(), c.Writer, c.Request, out.Identity()); err != nil {
			logger.Error("session creation failed", f.fields(map[string]any{
				"error": err.Error(),
			}))
			f.redirect(h.loginURL(errorLogin))
			return
		}

		f.redirect(h.clientURL + "/dashboard")
	}
}

// consumeState checks the callback state against the browser cookie and
// redeems the stored authorization. A state is good for one callback, for
// the provider it was issued to. On failure the redirect error code is
// returned instead.
func (h *Handler) consumeState(c *gin.Context, f *flow, kind auth.Provider) (*session.Authorization, string) {
	state := stateFromCallback(c)
	if state == "" {
		logger.Warn("callback state missing or mismatched", f.fields(nil))
		return nil, errorInvalidState
	}

	pending, err := h.authorizations.ConsumeAuthorization(c.Request.Context(), state)
	if err != nil {
		logger.Error("authorization lookup failed", f.fields(map[string]any{
			"error": err.Error(),
		}))
		return nil, errorServer
	}
	if pending == nil {
		logger.Warn("callback state unknown or already used", f.fields(nil))
		return nil, errorInvalidState
	}
	if pending.Provider != kind {
		logger.Warn("callback state issued to another provider", f.fields(map[string]any{
			"issued_to": pending.Provider.String(),
		}))
		return nil, errorInvalidState
	}

	return pending, ""
}

func (h *Handler) loginURL(code string) string {
	return h.clientURL + "/login?error=" + url.QueryEscape(code)
}
