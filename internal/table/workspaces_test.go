package table

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorkspaces_Get(t *testing.T) {
	ws := NewWorkspaces(newFakeStore(sampleBooks()...), WithPageSize(5))

	first := ws.Get("")
	require.NotEmpty(t, first.ID)
	assert.Same(t, first, ws.Get(first.ID))
	assert.Equal(t, 5, first.Manager.View().PageSize)

	other := ws.Get("unknown")
	assert.NotEqual(t, "unknown", other.ID)
	assert.NotEqual(t, first.ID, other.ID)
	assert.Equal(t, 2, ws.Len())
}

func TestWorkspaces_Isolated(t *testing.T) {
	ws := NewWorkspaces(newFakeStore(sampleBooks()...))
	a := ws.Get("")
	b := ws.Get("")

	require.NoError(t, a.Manager.Load(context.Background()))
	require.NoError(t, b.Manager.Load(context.Background()))

	a.Manager.Search("zeta")
	assert.Equal(t, 1, a.Manager.View().FilteredCount)
	assert.Equal(t, 2, b.Manager.View().FilteredCount)

	_, err := a.Manager.Create(context.Background(), form("Shared", 1))
	require.NoError(t, err)
	assert.Len(t, a.Inbox.Drain(), 1)
	assert.Empty(t, b.Inbox.Drain())
}

func TestWorkspaces_Expire(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	ws := NewWorkspaces(newFakeStore())
	ws.now = func() time.Time { return now }

	old := ws.Get("")
	now = now.Add(time.Hour)
	fresh := ws.Get("")

	assert.Equal(t, 1, ws.Expire(30*time.Minute))
	assert.Equal(t, 1, ws.Len())
	assert.Same(t, fresh, ws.Get(fresh.ID))
	assert.NotEqual(t, old.ID, ws.Get(old.ID).ID)
}
