package handler

import (
	"net/http"

	"github.com/bbqjam05/pwd-week6-server/internal/auth"
	"github.com/bbqjam05/pwd-week6-server/internal/logger"

	"github.com/gin-gonic/gin"
)

type stage int

const (
	stageStart stage = iota
	stageValidating
	stageVerifying
	stageSessionBinding
	stageResponded
)

func (s stage) String() string {
	switch s {
	case stageStart:
		return "start"
	case stageValidating:
		return "validating"
	case stageVerifying:
		return "verifying"
	case stageSessionBinding:
		return "session_binding"
	case stageResponded:
		return "responded"
	default:
		return "unknown"
	}
}

// flow tracks one request through
// start -> validating -> verifying -> session_binding -> responded.
// Stages only move forward and exactly one response is written.
type flow struct {
	c        *gin.Context
	endpoint string
	provider auth.Provider
	stage    stage
}

func newFlow(c *gin.Context, endpoint string) *flow {
	return &flow{c: c, endpoint: endpoint, stage: stageStart}
}

func (f *flow) enter(next stage) {
	if next <= f.stage {
		logger.Error("auth flow stage out of order", f.fields(map[string]any{
			"next": next.String(),
		}))
		return
	}
	f.stage = next
}

func (f *flow) fields(extra map[string]any) map[string]any {
	out := map[string]any{
		"endpoint": f.endpoint,
		"stage":    f.stage.String(),
	}
	if f.provider != "" {
		out["provider"] = f.provider.String()
	}
	for k, v := range extra {
		out[k] = v
	}
	return out
}

// claim marks the flow responded and reports whether the caller may write.
func (f *flow) claim() bool {
	if f.stage == stageResponded {
		logger.Error("auth flow responded twice", f.fields(nil))
		return false
	}
	f.stage = stageResponded
	return true
}

func (f *flow) succeed(status int, message string, user *auth.VerifiedIdentity) {
	if !f.claim() {
		return
	}
	body := gin.H{"success": true}
	if message != "" {
		body["message"] = message
	}
	if user != nil {
		body["data"] = gin.H{"user": user}
	}
	f.c.JSON(status, body)
}

// reject answers an expected failure (validation or rejection).
func (f *flow) reject(status int, message string) {
	if !f.claim() {
		return
	}
	f.c.JSON(status, gin.H{"success": false, "message": message})
}

// fail answers an infrastructure failure. The cause is logged, never sent.
func (f *flow) fail(message string, err error) {
	logger.Error(message, f.fields(map[string]any{"error": errString(err)}))
	if !f.claim() {
		return
	}
	f.c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": message})
}

func (f *flow) json(status int, body gin.H) {
	if !f.claim() {
		return
	}
	f.c.JSON(status, body)
}

func (f *flow) redirect(location string) {
	if !f.claim() {
		return
	}
	f.c.Redirect(http.StatusFound, location)
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
