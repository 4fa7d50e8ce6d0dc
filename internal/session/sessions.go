package session

import (
	"database/sql"
	"encoding/gob"
	"fmt"
	"net/http"
	"time"

	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"
	_ "github.com/mattn/go-sqlite3"

	"github.com/mrlokans/booktable/internal/config"
)

// Session data keys
const (
	SessionKeyWorkspace = "workspace_id"
	SessionKeyFlashes   = "flashes"
)

// Flash is a one-time notification shown on the next rendered page.
type Flash struct {
	Level   string
	Message string
}

func init() {
	// Register types that will be stored in sessions
	gob.Register([]Flash{})
}

// SessionManager wraps scs.SessionManager with workspace and flash helpers.
type SessionManager struct {
	*scs.SessionManager
}

// OpenDB opens the sqlite database that holds sessions and creates the
// sessions table sqlite3store expects.
func OpenDB(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open session database: %w", err)
	}
	// An in-memory database only lives as long as one of its connections.
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS sessions (
		token TEXT PRIMARY KEY,
		data BLOB NOT NULL,
		expiry REAL NOT NULL
	);
	CREATE INDEX IF NOT EXISTS sessions_expiry_idx ON sessions(expiry);`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("create sessions table: %w", err)
	}
	return db, nil
}

// NewSessionManager creates a session manager storing sessions in sqlDB.
// The sessions table must exist, see OpenDB.
func NewSessionManager(sqlDB *sql.DB, cfg config.Session) (*SessionManager, error) {
	if sqlDB == nil {
		return nil, fmt.Errorf("session database is required")
	}

	sm := scs.New()
	sm.Store = sqlite3store.New(sqlDB)

	lifetime := cfg.Lifetime
	if lifetime <= 0 {
		lifetime = 24 * time.Hour
	}
	sm.Lifetime = lifetime
	sm.IdleTimeout = lifetime / 2

	sm.Cookie.Name = "booktable_session"
	sm.Cookie.HttpOnly = true
	sm.Cookie.Secure = cfg.SecureCookies
	// Lax so the session survives the redirect after a form post.
	sm.Cookie.SameSite = http.SameSiteLaxMode
	sm.Cookie.Path = "/"

	return &SessionManager{SessionManager: sm}, nil
}

// WorkspaceID returns the workspace bound to the session, or "".
func (sm *SessionManager) WorkspaceID(r *http.Request) string {
	return sm.GetString(r.Context(), SessionKeyWorkspace)
}

// SetWorkspaceID binds the session to a workspace.
func (sm *SessionManager) SetWorkspaceID(r *http.Request, id string) {
	sm.Put(r.Context(), SessionKeyWorkspace, id)
}

// AddFlash queues notifications for the next rendered page.
func (sm *SessionManager) AddFlash(r *http.Request, flashes ...Flash) {
	if len(flashes) == 0 {
		return
	}
	queued, _ := sm.Get(r.Context(), SessionKeyFlashes).([]Flash)
	sm.Put(r.Context(), SessionKeyFlashes, append(queued, flashes...))
}

// PopFlashes returns and clears the queued notifications.
func (sm *SessionManager) PopFlashes(r *http.Request) []Flash {
	flashes, _ := sm.Pop(r.Context(), SessionKeyFlashes).([]Flash)
	return flashes
}
