package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/library-catalog/internal/api"
)

// MessageReadOnly is returned for writes while the catalog is read-only.
const MessageReadOnly = "catalog is read-only"

// ReadOnlyMiddleware blocks catalog writes during maintenance.
// GET, HEAD and OPTIONS always pass.
func ReadOnlyMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		switch c.Request.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			c.Next()
			return
		}
		api.AbortFail(c, http.StatusForbidden, MessageReadOnly)
	}
}
