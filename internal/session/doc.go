// Package session ties a browser to its table workspace.
//
// Sessions are managed by scs and persisted in sqlite through sqlite3store.
// A session holds the workspace id and the queued notifications (flashes)
// that the next rendered page shows once.
//
// # Usage
//
//	sqlDB, err := session.OpenDB(cfg.Session.DBPath)
//	sm, err := session.NewSessionManager(sqlDB, cfg.Session)
//	router.Use(session.CSRFMiddleware(secret, cfg.Session.SecureCookies))
//	router.Use(sm.SessionLoadSave())
//
// In handlers:
//
//	id := sm.WorkspaceID(c.Request)
//	sm.AddFlash(c.Request, session.Flash{Level: "success", Message: "Book added successfully"})
package session
