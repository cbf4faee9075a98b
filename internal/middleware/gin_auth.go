package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// GinRequireAuth adapts the net/http AuthMiddleware to Gin.
func GinRequireAuth(auth *AuthMiddleware) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Bridge handler to allow net/http middleware execution
		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			c.Request = r
			c.Next()
		})

		auth.RequireAuth(next).ServeHTTP(c.Writer, c.Request)

		// the middleware answered on its own; stop the gin chain
		if c.Writer.Written() {
			c.Abort()
		}
	}
}
