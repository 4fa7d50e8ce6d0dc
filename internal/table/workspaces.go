package table

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Workspace is the table state of one browser session.
type Workspace struct {
	ID      string
	Manager *Manager
	Inbox   *Inbox

	lastUsed time.Time
}

// Workspaces hands out one Manager per session, all sharing the same Store.
type Workspaces struct {
	store Store
	opts  []Option
	now   func() time.Time

	mu    sync.Mutex
	items map[string]*Workspace
}

// NewWorkspaces creates an empty registry. opts are applied to every new Manager.
func NewWorkspaces(store Store, opts ...Option) *Workspaces {
	return &Workspaces{
		store: store,
		opts:  opts,
		now:   time.Now,
		items: make(map[string]*Workspace),
	}
}

// Get returns the workspace with id, creating a fresh one when id is empty or unknown.
// The returned id differs from the argument when a new workspace was created.
func (w *Workspaces) Get(id string) *Workspace {
	w.mu.Lock()
	defer w.mu.Unlock()

	if ws, ok := w.items[id]; ok && id != "" {
		ws.lastUsed = w.now()
		return ws
	}

	inbox := &Inbox{}
	ws := &Workspace{
		ID:       uuid.NewString(),
		Manager:  NewManager(w.store, inbox, w.opts...),
		Inbox:    inbox,
		lastUsed: w.now(),
	}
	w.items[ws.ID] = ws
	return ws
}

// Len returns the number of live workspaces.
func (w *Workspaces) Len() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.items)
}

// Expire drops workspaces unused for longer than idle and returns how many were dropped.
func (w *Workspaces) Expire(idle time.Duration) int {
	w.mu.Lock()
	defer w.mu.Unlock()

	cutoff := w.now().Add(-idle)
	dropped := 0
	for id, ws := range w.items {
		if ws.lastUsed.Before(cutoff) {
			delete(w.items, id)
			dropped++
		}
	}
	return dropped
}
