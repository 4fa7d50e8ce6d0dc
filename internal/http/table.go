package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/booktable/internal/logging"
	"github.com/mrlokans/booktable/internal/session"
	"github.com/mrlokans/booktable/internal/table"
)

// TableController renders the book table and handles the controls that
// change what it shows.
type TableController struct {
	notes notifier
}

func NewTableController(sessions *session.SessionManager) *TableController {
	return &TableController{notes: notifier{sessions: sessions}}
}

// Page renders the table. The first visit of a workspace loads the collection.
// Query parameters q, sort, dir, page and size adjust the view before rendering.
func (tc *TableController) Page(c *gin.Context) {
	ws := workspaceFrom(c)
	ctx := c.Request.Context()

	if v := ws.Manager.View(); !v.Loaded && v.LastError == "" {
		_ = ws.Manager.Load(ctx)
	}

	if err := applyQuery(c, ws.Manager); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	view := ws.Manager.View()
	c.HTML(http.StatusOK, "table", gin.H{
		"View":      view,
		"Selected":  ws.Manager.Selected(),
		"Flashes":   tc.notes.take(c, ws),
		"PageSizes": table.PageSizes,
		"CSRFField": session.CSRFField(c),
	})
}

func applyQuery(c *gin.Context, m *table.Manager) error {
	if q, ok := c.GetQuery("q"); ok {
		m.Search(q)
	}
	if key, ok := c.GetQuery("sort"); ok {
		sortKey, err := table.ParseSortKey(key)
		if err != nil {
			return err
		}
		dir, err := table.ParseSortDirection(c.DefaultQuery("dir", string(table.Ascending)))
		if err != nil {
			return err
		}
		if err := m.SetSort(sortKey, dir); err != nil {
			return err
		}
	}
	if size, ok := c.GetQuery("size"); ok {
		n, err := strconv.Atoi(size)
		if err != nil {
			return errors.New("invalid page size")
		}
		if err := m.SetPageSize(n); err != nil {
			return err
		}
	}
	if page, ok := c.GetQuery("page"); ok {
		n, err := strconv.Atoi(page)
		if err != nil {
			return errors.New("invalid page")
		}
		m.SetPage(n)
	}
	return nil
}

// Search applies the posted search term.
func (tc *TableController) Search(c *gin.Context) {
	workspaceFrom(c).Manager.Search(c.PostForm("q"))
	redirectHome(c)
}

// Sort applies a posted sort. Without a direction the column cycles
// through ascending, descending and unsorted.
func (tc *TableController) Sort(c *gin.Context) {
	m := workspaceFrom(c).Manager

	key, err := table.ParseSortKey(c.PostForm("key"))
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	next := m.View().Sort.Next(key)
	if raw, ok := c.GetPostForm("dir"); ok {
		dir, err := table.ParseSortDirection(raw)
		if err != nil {
			respondError(c, http.StatusBadRequest, err.Error())
			return
		}
		next = table.Sort{Key: key, Direction: dir}
	}

	if err := m.SetSort(next.Key, next.Direction); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	redirectHome(c)
}

// Paginate moves to a page and optionally changes the page size.
func (tc *TableController) Paginate(c *gin.Context) {
	m := workspaceFrom(c).Manager

	if raw := c.PostForm("size"); raw != "" {
		size, err := strconv.Atoi(raw)
		if err != nil {
			respondError(c, http.StatusBadRequest, "invalid page size")
			return
		}
		if err := m.SetPageSize(size); err != nil {
			respondError(c, http.StatusBadRequest, err.Error())
			return
		}
	}
	if raw := c.PostForm("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil {
			respondError(c, http.StatusBadRequest, "invalid page")
			return
		}
		m.SetPage(page)
	}
	redirectHome(c)
}

// Select toggles the selection of a row.
func (tc *TableController) Select(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := workspaceFrom(c).Manager.Select(id); err != nil {
		if errors.Is(err, table.ErrNotFound) {
			respondNotFound(c, "book")
			return
		}
		respondInternalError(c, err, "select")
		return
	}
	redirectHome(c)
}

// Reload fetches the collection again.
func (tc *TableController) Reload(c *gin.Context) {
	ws := workspaceFrom(c)
	if err := ws.Manager.Load(c.Request.Context()); err != nil {
		logging.FromContext(c.Request.Context()).Warn("reload failed", "workspace", ws.ID, "error", err)
	}
	tc.notes.keep(c, ws)
	redirectHome(c)
}

// TableJSON returns the current view as JSON.
func (tc *TableController) TableJSON(c *gin.Context) {
	ws := workspaceFrom(c)
	c.JSON(http.StatusOK, gin.H{
		"workspace":     ws.ID,
		"view":          ws.Manager.View(),
		"selected":      ws.Manager.Selected(),
		"notifications": tc.notes.take(c, ws),
	})
}
