package outbox

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heritagebakes/bakebook/internal/offline/domain"
	"github.com/heritagebakes/bakebook/internal/offline/store"
	recipedomain "github.com/heritagebakes/bakebook/internal/recipe/domain"
	"github.com/heritagebakes/bakebook/pkg/database"
)

func newTestQueue(t *testing.T) *Queue {
	t.Helper()

	db, err := database.NewSQLiteConnection(filepath.Join(t.TempDir(), "local.db"))
	require.NoError(t, err)
	st, err := store.New(db)
	require.NoError(t, err)
	return NewQueue(st)
}

func recipe(id, title string) *recipedomain.Recipe {
	return &recipedomain.Recipe{ID: id, Title: title}
}

func TestEnqueueAssignsIDAndPendingStatus(t *testing.T) {
	q := newTestQueue(t)
	ctx := context.Background()

	id, err := q.Enqueue(ctx, domain.NewCreate(recipe("temp_1", "Soda Bread")))
	require.NoError(t, err)
	require.NotEmpty(t, id)

	items, err := q.Items(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, id, items[0].ID)
	assert.Equal(t, domain.OpCreate, items[0].Op)
	assert.Equal(t, domain.StatusPending, items[0].Status)
	assert.False(t, items[0].CreatedAt.IsZero())
}

func TestEnqueueRejectsInvalidItems(t *testing.T) {
	q := newTestQueue(t)
	ctx := context.Background()

	// Create without a payload.
	_, err := q.Enqueue(ctx, domain.OutboxItem{Op: domain.OpCreate, RecipeID: "temp_1"})
	require.Error(t, err)

	// Create whose payload has no title.
	_, err = q.Enqueue(ctx, domain.NewCreate(recipe("temp_1", "")))
	require.Error(t, err)

	// Delete carrying a payload.
	_, err = q.Enqueue(ctx, domain.OutboxItem{Op: domain.OpDelete, RecipeID: "r1", Payload: recipe("r1", "x")})
	require.Error(t, err)

	// Unknown op.
	_, err = q.Enqueue(ctx, domain.OutboxItem{Op: "rename", RecipeID: "r1"})
	require.Error(t, err)

	items, err := q.Items(ctx)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestDeleteCoalescesPendingUpdates(t *testing.T) {
	q := newTestQueue(t)
	ctx := context.Background()

	_, err := q.Enqueue(ctx, domain.NewUpdate("r1", recipe("r1", "Rye v2")))
	require.NoError(t, err)
	_, err = q.Enqueue(ctx, domain.NewUpdate("r1", recipe("r1", "Rye v3")))
	require.NoError(t, err)
	otherID, err := q.Enqueue(ctx, domain.NewUpdate("r2", recipe("r2", "Focaccia")))
	require.NoError(t, err)

	delID, err := q.Enqueue(ctx, domain.NewDelete("r1"))
	require.NoError(t, err)
	require.NotEmpty(t, delID)

	items, err := q.Items(ctx)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, otherID, items[0].ID)
	assert.Equal(t, delID, items[1].ID)
	assert.Equal(t, domain.OpDelete, items[1].Op)
}

func TestDeleteOfUnsyncedCreateDropsBoth(t *testing.T) {
	q := newTestQueue(t)
	ctx := context.Background()

	_, err := q.Enqueue(ctx, domain.NewCreate(recipe("temp_1", "Brioche")))
	require.NoError(t, err)
	_, err = q.Enqueue(ctx, domain.NewUpdate("temp_1", recipe("temp_1", "Brioche v2")))
	require.NoError(t, err)

	// The server never saw temp_1, so nothing needs deleting there either.
	id, err := q.Enqueue(ctx, domain.NewDelete("temp_1"))
	require.NoError(t, err)
	assert.Empty(t, id)

	items, err := q.Items(ctx)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestUpdateStatusAndPending(t *testing.T) {
	q := newTestQueue(t)
	ctx := context.Background()

	first, err := q.Enqueue(ctx, domain.NewCreate(recipe("temp_1", "Baguette")))
	require.NoError(t, err)
	second, err := q.Enqueue(ctx, domain.NewCreate(recipe("temp_2", "Ciabatta")))
	require.NoError(t, err)

	updated, err := q.UpdateStatus(ctx, first, domain.StatusError, "boom")
	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.Equal(t, domain.StatusError, updated.Status)
	assert.Equal(t, "boom", updated.Error)

	missing, err := q.UpdateStatus(ctx, "no-such-id", domain.StatusSynced, "")
	require.NoError(t, err)
	assert.Nil(t, missing)

	pending, err := q.Pending(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, second, pending[0].ID)
}

func TestResetForRetryRequeuesErroredAndStaleItems(t *testing.T) {
	q := newTestQueue(t)
	ctx := context.Background()

	errored, err := q.Enqueue(ctx, domain.NewCreate(recipe("temp_1", "Stollen")))
	require.NoError(t, err)
	stale, err := q.Enqueue(ctx, domain.NewCreate(recipe("temp_2", "Panettone")))
	require.NoError(t, err)

	_, err = q.UpdateStatus(ctx, errored, domain.StatusError, "server error")
	require.NoError(t, err)
	_, err = q.UpdateStatus(ctx, stale, domain.StatusSyncing, "")
	require.NoError(t, err)

	require.NoError(t, q.ResetForRetry(ctx))

	pending, err := q.Pending(ctx)
	require.NoError(t, err)
	assert.Len(t, pending, 2)
}

func TestRemoveDeletesOnlyTheGivenItem(t *testing.T) {
	q := newTestQueue(t)
	ctx := context.Background()

	first, err := q.Enqueue(ctx, domain.NewCreate(recipe("temp_1", "Challah")))
	require.NoError(t, err)
	second, err := q.Enqueue(ctx, domain.NewCreate(recipe("temp_2", "Babka")))
	require.NoError(t, err)

	require.NoError(t, q.Remove(ctx, first))

	items, err := q.Items(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, second, items[0].ID)
}

func TestRemapRecipeIDRewritesLaterItems(t *testing.T) {
	q := newTestQueue(t)
	ctx := context.Background()

	_, err := q.Enqueue(ctx, domain.NewUpdate("temp_1", recipe("temp_1", "Kouign-amann")))
	require.NoError(t, err)
	_, err = q.Enqueue(ctx, domain.NewUpdate("temp_1", recipe("temp_1", "Kouign-amann, salted")))
	require.NoError(t, err)

	require.NoError(t, q.RemapRecipeID(ctx, "temp_1", "srv-9"))

	items, err := q.Items(ctx)
	require.NoError(t, err)
	require.Len(t, items, 2)
	for _, it := range items {
		assert.Equal(t, "srv-9", it.RecipeID)
		require.NotNil(t, it.Payload)
		assert.Equal(t, "srv-9", it.Payload.ID)
	}
}
