package http

import (
	"github.com/gin-gonic/gin"

	"github.com/yanqian/shopbot/internal/domain/auth"
)

const adminClaimsKey = "admin_claims"

func setAdminClaims(c *gin.Context, claims auth.Claims) {
	c.Set(adminClaimsKey, claims)
}

// actor names the admin behind a request for audit logs.
func actor(c *gin.Context) string {
	value, ok := c.Get(adminClaimsKey)
	if !ok {
		return "anonymous"
	}
	claims, ok := value.(auth.Claims)
	if !ok || claims.Subject == "" {
		return "anonymous"
	}
	return claims.Subject
}
