package store

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ReadOnly blocks write operations when enabled. GET, HEAD and OPTIONS
// always pass, so the table can still load and export.
type ReadOnly struct {
	enabled bool
}

func NewReadOnly(enabled bool) *ReadOnly {
	return &ReadOnly{enabled: enabled}
}

func (m *ReadOnly) IsEnabled() bool {
	return m.enabled
}

// Handler returns a gin middleware that answers writes with 403.
func (m *ReadOnly) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !m.enabled {
			c.Next()
			return
		}

		switch c.Request.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			c.Next()
			return
		}

		c.AbortWithStatusJSON(http.StatusForbidden, ErrorResponse{Error: "the book store is read-only"})
	}
}
