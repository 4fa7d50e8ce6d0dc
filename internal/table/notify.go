package table

import "sync"

// Level is the severity of a notification.
type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
)

// Notification is a transient user-visible message.
type Notification struct {
	Level   Level  `json:"level"`
	Message string `json:"message"`
}

// Notifier receives notifications emitted by the table.
type Notifier interface {
	Notify(n Notification)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(n Notification)

func (f NotifierFunc) Notify(n Notification) { f(n) }

// Inbox queues notifications until they are drained by a page render.
type Inbox struct {
	mu    sync.Mutex
	items []Notification
}

func (i *Inbox) Notify(n Notification) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.items = append(i.items, n)
}

// Drain returns the queued notifications and empties the inbox.
func (i *Inbox) Drain() []Notification {
	i.mu.Lock()
	defer i.mu.Unlock()
	items := i.items
	i.items = nil
	return items
}

// Confirmer asks the user to approve a destructive action.
type Confirmer interface {
	Confirm(prompt string) bool
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(prompt string) bool

func (f ConfirmFunc) Confirm(prompt string) bool { return f(prompt) }

// Confirmed is a Confirmer for callers that already obtained confirmation.
var Confirmed = ConfirmFunc(func(string) bool { return true })

const (
	msgLoadFailed   = "Error loading books"
	msgCreated      = "Book added successfully"
	msgCreateFailed = "Error adding book"
	msgUpdated      = "Book updated successfully"
	msgUpdateFailed = "Error updating book"
	msgDeleted      = "Book deleted successfully"
	msgDeleteFailed = "Error deleting book"
	msgExported     = "%s file exported successfully"
	msgExportFailed = "Error exporting %s file"
)
