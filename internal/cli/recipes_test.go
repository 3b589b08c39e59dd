package cli

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	offlinedomain "github.com/heritagebakes/bakebook/internal/offline/domain"
	recipedomain "github.com/heritagebakes/bakebook/internal/recipe/domain"
)

func TestDeleteOfflineDiscardsUnsyncedCreate(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "local.db")
	ctx := context.Background()

	e, err := newEnv(&RootOptions{Server: "http://localhost:0", DBPath: dbPath})
	require.NoError(t, err)
	require.NoError(t, e.store.SaveToken(ctx, "test-token"))

	// A recipe added offline: cached under a temporary id with its
	// create still queued.
	recipe := &recipedomain.Recipe{ID: "temp_abc", Title: "Scones"}
	require.NoError(t, e.store.SaveRecipes(ctx, []*recipedomain.Recipe{recipe}))
	_, err = e.queue.Enqueue(ctx, offlinedomain.NewCreate(recipe))
	require.NoError(t, err)

	root := NewRootCommand()
	out := &bytes.Buffer{}
	root.SetOut(out)
	root.SetErr(out)
	root.SetArgs([]string{"delete", "temp_abc", "--db", dbPath, "--offline"})
	require.NoError(t, root.Execute())

	// The create never reached the server, so the delete coalesces away
	// instead of being queued.
	assert.Contains(t, out.String(), "offline: discarded unsynced recipe temp_abc")
	assert.NotContains(t, out.String(), "queued delete")

	items, err := e.queue.Items(ctx)
	require.NoError(t, err)
	assert.Empty(t, items)

	cached, err := e.store.LoadRecipes(ctx)
	require.NoError(t, err)
	assert.Empty(t, cached)
}

func TestDeleteOfflineQueuesDeleteForSyncedRecipe(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "local.db")
	ctx := context.Background()

	e, err := newEnv(&RootOptions{Server: "http://localhost:0", DBPath: dbPath})
	require.NoError(t, err)
	require.NoError(t, e.store.SaveToken(ctx, "test-token"))

	recipe := &recipedomain.Recipe{ID: "srv-1", Title: "Baguette"}
	require.NoError(t, e.store.SaveRecipes(ctx, []*recipedomain.Recipe{recipe}))

	root := NewRootCommand()
	out := &bytes.Buffer{}
	root.SetOut(out)
	root.SetErr(out)
	root.SetArgs([]string{"delete", "srv-1", "--db", dbPath, "--offline"})
	require.NoError(t, root.Execute())

	assert.Contains(t, out.String(), "offline: queued delete srv-1")

	items, err := e.queue.Items(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, offlinedomain.OpDelete, items[0].Op)
	assert.Equal(t, "srv-1", items[0].RecipeID)
}
