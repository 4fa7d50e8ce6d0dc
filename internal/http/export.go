package http

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/booktable/internal/exporters"
	"github.com/mrlokans/booktable/internal/session"
)

// ExportController streams the visible rows as a file download.
type ExportController struct {
	baseName string
	notes    notifier
}

func NewExportController(baseName string, sessions *session.SessionManager) *ExportController {
	return &ExportController{baseName: baseName, notes: notifier{sessions: sessions}}
}

// Download exports every row matching the current search, in the current
// order, in the format named by the :format parameter.
func (ec *ExportController) Download(c *gin.Context) {
	exporter, ok := exporters.ByFormat(c.Param("format"))
	if !ok {
		respondNotFound(c, "export format")
		return
	}
	ws := workspaceFrom(c)

	var buf bytes.Buffer
	if _, err := ws.Manager.Export(c.Request.Context(), &buf, exporter); err != nil {
		ec.notes.keep(c, ws)
		redirectHome(c)
		return
	}
	// The download replaces the page, so the success message waits for the next render.
	ec.notes.keep(c, ws)

	filename := exporters.Filename(ec.baseName, exporter)
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, exporter.ContentType(), buf.Bytes())
}
