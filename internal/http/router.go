package http

import (
	"embed"
	"errors"
	"html/template"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/booktable/internal/exporters"
	"github.com/mrlokans/booktable/internal/logging"
	"github.com/mrlokans/booktable/internal/session"
	"github.com/mrlokans/booktable/internal/table"
)

//go:embed templates/*.html
var templatesFS embed.FS

var funcMap = template.FuncMap{
	"add": func(a, b int) int { return a + b },
	"dict": func(pairs ...any) (map[string]any, error) {
		if len(pairs)%2 != 0 {
			return nil, errors.New("dict needs key/value pairs")
		}
		m := make(map[string]any, len(pairs)/2)
		for i := 0; i < len(pairs); i += 2 {
			key, ok := pairs[i].(string)
			if !ok {
				return nil, errors.New("dict keys must be strings")
			}
			m[key] = pairs[i+1]
		}
		return m, nil
	},
	"subtract": func(a, b int) int {
		return a - b
	},
	"formatDate": func(t time.Time) string {
		if t.IsZero() {
			return ""
		}
		return t.Format("Jan 2, 2006")
	},
	"sortMark": func(s table.Sort, key string) string {
		if s.Key != table.SortKey(key) {
			return ""
		}
		switch s.Direction {
		case table.Ascending:
			return "▲"
		case table.Descending:
			return "▼"
		}
		return ""
	},
}

// NewRouter creates and configures the web UI router.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(logging.RequestIDMiddleware())
	router.Use(logging.AccessLog())

	// Apply security headers to all responses
	router.Use(session.SecurityHeadersMiddleware())

	// CSRF must run before session so that session context is preserved
	if len(cfg.CSRFSecret) > 0 {
		router.Use(session.CSRFMiddleware(cfg.CSRFSecret, cfg.SecureCookies))
	}

	// Session runs after CSRF so session context isn't overwritten by CSRF's request replacement
	if cfg.SessionManager != nil {
		router.Use(cfg.SessionManager.SessionLoadSave())
	}

	tmpl := template.Must(template.New("").Funcs(funcMap).ParseFS(templatesFS, "templates/*.html"))
	router.SetHTMLTemplate(tmpl)

	if cfg.Health != nil {
		cfg.Health.RegisterRoutes(router)
	}

	baseName := cfg.ExportBaseName
	if baseName == "" {
		baseName = exporters.DefaultBaseName
	}

	resolver := &workspaceResolver{workspaces: cfg.Workspaces, sessions: cfg.SessionManager}
	tableController := NewTableController(cfg.SessionManager)
	booksController := NewBooksController(cfg.SessionManager)
	exportController := NewExportController(baseName, cfg.SessionManager)

	ui := router.Group("/", resolver.Middleware())

	// Table
	ui.GET("/", tableController.Page)
	ui.POST("/ui/search", tableController.Search)
	ui.POST("/ui/sort", tableController.Sort)
	ui.POST("/ui/page", tableController.Paginate)
	ui.POST("/ui/select/:id", tableController.Select)
	ui.POST("/ui/reload", tableController.Reload)
	ui.GET("/api/table", tableController.TableJSON)

	// Create, edit and delete dialogs
	ui.GET("/ui/books/new", booksController.NewForm)
	ui.POST("/ui/books", booksController.Create)
	ui.GET("/ui/books/:id/edit", booksController.EditForm)
	ui.POST("/ui/books/:id", booksController.Edit)
	ui.GET("/ui/books/:id/delete", booksController.DeleteConfirm)
	ui.POST("/ui/books/:id/delete", booksController.Delete)

	// Downloads
	ui.GET("/ui/export/:format", exportController.Download)

	return router
}
