package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/joshu-sajeev/stepform/common"
)

const AdminTokenHeader = "X-Admin-Token"

// AdminToken rejects requests whose X-Admin-Token header does not match
// token. An empty token disables the admin routes entirely.
func AdminToken(token string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token == "" {
			c.Error(common.Errf(http.StatusForbidden, "admin api disabled"))
			c.Abort()
			return
		}

		got := strings.TrimSpace(c.GetHeader(AdminTokenHeader))
		if got == "" {
			c.Error(common.Errf(http.StatusUnauthorized, "missing admin token"))
			c.Abort()
			return
		}

		if subtle.ConstantTimeCompare([]byte(got), []byte(token)) != 1 {
			c.Error(common.Errf(http.StatusUnauthorized, "invalid admin token"))
			c.Abort()
			return
		}

		c.Next()
	}
}
