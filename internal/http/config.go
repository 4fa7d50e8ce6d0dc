package http

import (
	"github.com/mrlokans/booktable/internal/session"
	"github.com/mrlokans/booktable/internal/table"
)

// RouterConfig contains all dependencies and configuration needed
// to create the HTTP router.
type RouterConfig struct {
	// Core dependencies
	Workspaces *table.Workspaces

	// Sessions (optional). Without them every request shares one workspace.
	SessionManager *session.SessionManager

	// CSRF protection (optional, off when empty)
	CSRFSecret    []byte
	SecureCookies bool

	// Export download name without extension
	ExportBaseName string

	// Health endpoints (optional)
	Health *HealthController
}
