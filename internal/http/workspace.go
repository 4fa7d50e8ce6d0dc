package http

import (
	"sync"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/booktable/internal/session"
	"github.com/mrlokans/booktable/internal/table"
)

const contextKeyWorkspace = "workspace"

// workspaceResolver finds the table workspace of a request. With sessions it
// is keyed by the session; without them every request shares one workspace.
type workspaceResolver struct {
	workspaces *table.Workspaces
	sessions   *session.SessionManager

	mu       sync.Mutex
	sharedID string
}

func (wr *workspaceResolver) resolve(c *gin.Context) *table.Workspace {
	if wr.sessions == nil {
		wr.mu.Lock()
		defer wr.mu.Unlock()
		ws := wr.workspaces.Get(wr.sharedID)
		wr.sharedID = ws.ID
		return ws
	}

	id := wr.sessions.WorkspaceID(c.Request)
	ws := wr.workspaces.Get(id)
	if ws.ID != id {
		wr.sessions.SetWorkspaceID(c.Request, ws.ID)
	}
	return ws
}

// Middleware stores the request's workspace in the gin context.
func (wr *workspaceResolver) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(contextKeyWorkspace, wr.resolve(c))
		c.Next()
	}
}

func workspaceFrom(c *gin.Context) *table.Workspace {
	return c.MustGet(contextKeyWorkspace).(*table.Workspace)
}

// notifier moves table notifications between the workspace inbox and the
// session, so they survive the redirect after a form post.
type notifier struct {
	sessions *session.SessionManager
}

// keep queues pending notifications in the session. Without sessions they
// stay in the workspace inbox until the next render.
func (n notifier) keep(c *gin.Context, ws *table.Workspace) {
	if n.sessions == nil {
		return
	}
	n.sessions.AddFlash(c.Request, toFlashes(ws.Inbox.Drain())...)
}

// take returns every pending notification once.
func (n notifier) take(c *gin.Context, ws *table.Workspace) []session.Flash {
	var flashes []session.Flash
	if n.sessions != nil {
		flashes = n.sessions.PopFlashes(c.Request)
	}
	return append(flashes, toFlashes(ws.Inbox.Drain())...)
}

func toFlashes(notes []table.Notification) []session.Flash {
	flashes := make([]session.Flash, 0, len(notes))
	for _, n := range notes {
		flashes = append(flashes, session.Flash{Level: string(n.Level), Message: n.Message})
	}
	return flashes
}
