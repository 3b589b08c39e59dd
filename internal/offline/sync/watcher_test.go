package sync

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heritagebakes/bakebook/internal/offline/api"
	"github.com/heritagebakes/bakebook/internal/offline/domain"
	"github.com/heritagebakes/bakebook/internal/offline/outbox"
	"github.com/heritagebakes/bakebook/internal/offline/store"
	"github.com/heritagebakes/bakebook/pkg/database"
)

func TestWatcherDrainsOutboxOnReconnect(t *testing.T) {
	db, err := database.NewSQLiteConnection(filepath.Join(t.TempDir(), "local.db"))
	require.NoError(t, err)
	st, err := store.New(db)
	require.NoError(t, err)

	// Scripted server that starts unreachable and comes back when the
	// up flag flips.
	var up int32
	var posts int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.LoadInt32(&up) == 0 {
			http.Error(w, "service unavailable", http.StatusServiceUnavailable)
			return
		}
		if r.URL.Path == "/api/health" {
			w.WriteHeader(http.StatusOK)
			return
		}
		if r.Method == http.MethodPost {
			atomic.AddInt32(&posts, 1)
			serveRecipe(w, tempRecipe("srv-1", "Rolls"))
			return
		}
		http.NotFound(w, r)
	}))
	t.Cleanup(srv.Close)

	ctx := context.Background()
	require.NoError(t, st.SaveToken(ctx, "test-token"))

	queue := outbox.NewQueue(st)
	client := api.NewClient(srv.URL, st)
	engine := NewEngine(st, queue, client)

	_, err = queue.Enqueue(ctx, domain.NewCreate(tempRecipe(domain.TempID(), "Rolls")))
	require.NoError(t, err)

	watcher := NewConnectivityWatcher(engine, client, 100*time.Millisecond)
	watcher.Start()
	defer watcher.Stop()

	// While the server is down nothing is sent.
	time.Sleep(300 * time.Millisecond)
	assert.Zero(t, atomic.LoadInt32(&posts))

	items, err := queue.Items(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)

	atomic.StoreInt32(&up, 1)

	// The next poll notices the transition and drains the outbox.
	require.Eventually(t, func() bool {
		items, err := queue.Items(ctx)
		return err == nil && len(items) == 0
	}, 5*time.Second, 20*time.Millisecond)
	assert.Equal(t, int32(1), atomic.LoadInt32(&posts))

	// Staying online must not replay the drained item.
	time.Sleep(300 * time.Millisecond)
	assert.Equal(t, int32(1), atomic.LoadInt32(&posts))
}
