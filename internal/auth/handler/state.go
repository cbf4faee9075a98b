package handler

import (
	"net/http"
	"time"

	"github.com/bbqjam05/pwd-week6-server/internal/utils"

	"github.com/gin-gonic/gin"
)

const (
	stateCookieName = "__oauth_state"
	defaultStateTTL = 5 * time.Minute
)

// newState returns a fresh 256-bit state value.
func newState() (string, error) {
	return utils.RandomString(32)
}

func (h *Handler) setStateCookie(c *gin.Context, state string) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     stateCookieName,
		Value:    state,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(h.stateTTL.Seconds()),
	})
}

func (h *Handler) clearStateCookie(c *gin.Context) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     stateCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})
}

// stateFromCallback returns the callback state when it matches the one
// this browser was issued, or "".
func stateFromCallback(c *gin.Context) string {
	state := c.Query("state")
	if state == "" {
		return ""
	}

	cookie, err := c.Request.Cookie(stateCookieName)
	if err != nil || cookie.Value != state {
		return ""
	}

	return state
}
