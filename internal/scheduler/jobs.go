package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/mrlokans/booktable/internal/entities"
)

// BookResetter replaces the whole collection.
type BookResetter interface {
	Reset(ctx context.Context, seed []entities.Book) error
}

// StoreResetJob puts the bundled book store back to its seed data.
type StoreResetJob struct {
	Store BookResetter
	Seed  func() []entities.Book
}

func (j *StoreResetJob) Name() string { return "store-reset" }

func (j *StoreResetJob) Run(ctx context.Context) error {
	seed := j.Seed()
	if err := j.Store.Reset(ctx, seed); err != nil {
		return fmt.Errorf("reset store: %w", err)
	}
	slog.InfoContext(ctx, "store reset to seed data", "books", len(seed))
	return nil
}

// WorkspaceExpirer drops table workspaces that have been idle too long.
type WorkspaceExpirer interface {
	Expire(idle time.Duration) int
}

// WorkspaceCleanupJob frees the table state of abandoned sessions.
type WorkspaceCleanupJob struct {
	Workspaces WorkspaceExpirer
	Idle       time.Duration
}

func (j *WorkspaceCleanupJob) Name() string { return "workspace-cleanup" }

func (j *WorkspaceCleanupJob) Run(ctx context.Context) error {
	if dropped := j.Workspaces.Expire(j.Idle); dropped > 0 {
		slog.InfoContext(ctx, "expired idle workspaces", "count", dropped, "idle", j.Idle)
	}
	return nil
}
