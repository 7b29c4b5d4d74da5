package middleware

import (
	"net/http"

	"github.com/agyouthrise/rise-backend/internal/common"
	"github.com/agyouthrise/rise-backend/internal/domain"
	"github.com/gin-gonic/gin"
)

// RequireAdmin checks that the authenticated user carries the admin role
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if GetRole(c) != domain.RoleAdmin {
			common.ErrorResponse(c, http.StatusForbidden, "관리자 권한이 필요합니다", common.ErrForbidden)
			c.Abort()
			return
		}
		c.Next()
	}
}
