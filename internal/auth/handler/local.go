package handler

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/bbqjam05/pwd-week6-server/internal/auth"
	"github.com/bbqjam05/pwd-week6-server/internal/auth/credentials"
	"github.com/bbqjam05/pwd-week6-server/internal/middleware"

	"github.com/gin-gonic/gin"
)

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// bindJSON treats an empty body as empty fields so that the validator,
// not the decoder, reports what is missing.
func bindJSON(c *gin.Context, dst any) error {
	if err := c.ShouldBindJSON(dst); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func (h *Handler) Register(c *gin.Context) {
	f := newFlow(c, "register")
	f.enter(stageValidating)

	var req registerRequest
	if err := bindJSON(c, &req); err != nil {
		f.reject(http.StatusBadRequest, "invalid request body")
		return
	}

	creds := auth.Credentials{Email: req.Email, Password: req.Password, Name: req.Name}
	if err := credentials.Validate(creds, credentials.ModeRegister); err != nil {
		f.reject(http.StatusBadRequest, err.Error())
		return
	}

	f.enter(stageVerifying)
	out := h.local.Enroll(c.Request.Context(), creds)
	switch out.Kind() {
	case auth.OutcomeRejected:
		f.reject(http.StatusConflict, out.Reason())
		return
	case auth.OutcomeFailed:
		f.fail("registration failed", out.Err())
		return
	case auth.OutcomeVerified:
	default:
		f.fail("registration failed", fmt.Errorf("unexpected outcome %s", out.Kind()))
		return
	}

	f.enter(stageSessionBinding)
	user := out.Identity()
	if _, err := h.sessions.Login(c.Request.Context(), c.Writer, c.Request, user); err != nil {
		f.fail("error while logging in after registration", err)
		return
	}

	f.succeed(http.StatusCreated, "registration complete", &user)
}

func (h *Handler) Login(c *gin.Context) {
	f := newFlow(c, "login")
	f.enter(stageValidating)

	var req loginRequest
	if err := bindJSON(c, &req); err != nil {
		f.reject(http.StatusBadRequest, "invalid request body")
		return
	}

	creds := auth.Credentials{Email: req.Email, Password: req.Password}
	if err := credentials.Validate(creds, credentials.ModeLogin); err != nil {
		f.reject(http.StatusBadRequest, err.Error())
		return
	}

	f.enter(stageVerifying)
	out := h.local.Verify(c.Request.Context(), creds)
	switch out.Kind() {
	case auth.OutcomeRejected:
		f.reject(http.StatusUnauthorized, out.Reason())
		return
	case auth.OutcomeFailed:
		f.fail("error while logging in", out.Err())
		return
	case auth.OutcomeVerified:
	default:
		f.fail("error while logging in", fmt.Errorf("unexpected outcome %s", out.Kind()))
		return
	}

	f.enter(stageSessionBinding)
	user := out.Identity()
	if _, err := h.sessions.Login(c.Request.Context(), c.Writer, c.Request, user); err != nil {
		f.fail("error while logging in", err)
		return
	}

	f.succeed(http.StatusOK, "logged in", &user)
}

// Logout is idempotent: without a session it still clears the cookie and
// answers 200.
func (h *Handler) Logout(c *gin.Context) {
	f := newFlow(c, "logout")
	f.enter(stageSessionBinding)

	if err := h.sessions.Logout(c.Request.Context(), c.Writer, c.Request); err != nil {
		f.fail("error while destroying session", err)
		return
	}

	f.succeed(http.StatusOK, "logged out", nil)
}

// Me must run behind middleware.GinRequireAuth.
func (h *Handler) Me(c *gin.Context) {
	f := newFlow(c, "me")
	f.enter(stageSessionBinding)

	user, ok := middleware.IdentityFromContext(c.Request.Context())
	if !ok {
		f.reject(http.StatusUnauthorized, middleware.MessageLoginRequired)
		return
	}

	f.succeed(http.StatusOK, "", &user)
}
