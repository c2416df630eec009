package middleware

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

const AdminRoleKey = "role"

// AdminRequired gates the privileged surface. A missing or stale
// session gets a bare 401 — the client treats that as AuthExpired and
// forces a re-login, so no redirect happens here.
func AdminRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		role := session.Get(AdminRoleKey)
		if role != "admin" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "認証されていません"})
			return
		}
		c.Next()
	}
}

// IsAdmin reports whether the current request carries a live admin
// session. Used by the public create paths, where an admin session
// unlocks the 管理者 label and the longer body allowance.
func IsAdmin(c *gin.Context) bool {
	session := sessions.Default(c)
	return session.Get(AdminRoleKey) == "admin"
}
