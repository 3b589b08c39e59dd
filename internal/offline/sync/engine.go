// Package sync drains the outbox against the remote API when the network
// is available. The drain is strictly sequential so a user's own edits
// replay in the order they were made.
package sync

import (
	"context"
	"fmt"
	"log"
	stdsync "sync"

	"github.com/heritagebakes/bakebook/internal/offline/api"
	"github.com/heritagebakes/bakebook/internal/offline/domain"
	"github.com/heritagebakes/bakebook/internal/offline/outbox"
	"github.com/heritagebakes/bakebook/internal/offline/store"
	recipedomain "github.com/heritagebakes/bakebook/internal/recipe/domain"
)

// Result aggregates one sync pass.
type Result struct {
	Synced int `json:"synced"`
	Errors int `json:"errors"`
}

// Engine replays queued mutations. A mutex serializes whole passes so a
// manual trigger and the connectivity watcher cannot race on the outbox.
type Engine struct {
	mu     stdsync.Mutex
	store  *store.Store
	queue  *outbox.Queue
	client *api.Client
}

// NewEngine creates an Engine over the given store, queue and client.
func NewEngine(st *store.Store, q *outbox.Queue, c *api.Client) *Engine {
	return &Engine{store: st, queue: q, client: c}
}

// ProcessOutbox runs one sync pass over the currently queued items.
//
// Items abandoned mid-pass (syncing) or failed on a previous pass (error)
// are first reset to pending so they are retried. An empty outbox returns
// {0,0} without touching the network. When offline, the pass is silently
// deferred and no item is marked error. One item's failure never blocks
// subsequent items.
//
// Delivery is at-least-once, not exactly-once: a pass interrupted between
// the server call and the local remove re-submits the mutation next time.
func (e *Engine) ProcessOutbox(ctx context.Context) (Result, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	var res Result

	if err := e.queue.ResetForRetry(ctx); err != nil {
		log.Printf("[Sync] reset for retry: %v", err)
	}
	items, err := e.queue.Pending(ctx)
	if err != nil {
		// Treat an unreadable outbox as empty rather than crash.
		log.Printf("[Sync] read outbox: %v", err)
		return res, nil
	}
	if len(items) == 0 {
		return res, nil
	}

	if !e.client.Online(ctx) {
		log.Printf("[Sync] offline, deferring %d item(s)", len(items))
		return res, nil
	}

	// Server-assigned ids learned during this pass; later items in the
	// snapshot may still reference a temporary id remapped earlier.
	remapped := make(map[string]string)

	for _, item := range items {
		if id, ok := remapped[item.RecipeID]; ok {
			item.RecipeID = id
		}

		if _, err := e.queue.UpdateStatus(ctx, item.ID, domain.StatusSyncing, ""); err != nil {
			log.Printf("[Sync] mark syncing %s: %v", item.ID, err)
		}

		token, err := e.store.LoadToken(ctx)
		if err != nil || token == "" {
			e.fail(ctx, &res, item.ID, "No authentication token available")
			continue
		}

		if err := e.syncItem(ctx, token, item, remapped); err != nil {
			e.fail(ctx, &res, item.ID, err.Error())
			continue
		}

		if err := e.queue.Remove(ctx, item.ID); err != nil {
			log.Printf("[Sync] remove %s: %v", item.ID, err)
		}
		res.Synced++
	}

	log.Printf("[Sync] pass done: %d synced, %d errors", res.Synced, res.Errors)
	return res, nil
}

func (e *Engine) fail(ctx context.Context, res *Result, id, msg string) {
	if _, err := e.queue.UpdateStatus(ctx, id, domain.StatusError, msg); err != nil {
		log.Printf("[Sync] mark error %s: %v", id, err)
	}
	res.Errors++
}

func (e *Engine) syncItem(ctx context.Context, token string, item domain.OutboxItem, remapped map[string]string) error {
	switch item.Op {
	case domain.OpCreate:
		created, err := e.client.CreateRecipe(ctx, token, item.Payload)
		if err != nil {
			return err
		}
		if created.ID != item.RecipeID {
			remapped[item.RecipeID] = created.ID
			if err := e.remapRecipe(ctx, item.RecipeID, created); err != nil {
				return err
			}
		}
		return nil

	case domain.OpUpdate:
		updated, err := e.client.UpdateRecipe(ctx, token, item.RecipeID, item.Payload)
		if err != nil {
			return err
		}
		return e.refreshCached(ctx, updated)

	case domain.OpDelete:
		// Idempotent intent: the recipe may already be gone server-side,
		// so a failed delete still counts as synced.
		if err := e.client.DeleteRecipe(ctx, token, item.RecipeID); err != nil {
			log.Printf("[Sync] delete %s failed, treating as synced: %v", item.RecipeID, err)
		}
		return nil

	default:
		return fmt.Errorf("unknown operation %q", item.Op)
	}
}

// remapRecipe replaces the temporary identifier in the cached snapshot
// with the server-assigned recipe, and rewrites queued items still
// referencing the old id.
func (e *Engine) remapRecipe(ctx context.Context, oldID string, created *recipedomain.Recipe) error {
	recipes, err := e.store.LoadRecipes(ctx)
	if err != nil {
		return err
	}

	replaced := false
	for i, r := range recipes {
		if r.ID == oldID {
			recipes[i] = created
			replaced = true
			break
		}
	}
	if !replaced {
		recipes = append(recipes, created)
	}
	if err := e.store.SaveRecipes(ctx, recipes); err != nil {
		return err
	}

	return e.queue.RemapRecipeID(ctx, oldID, created.ID)
}

// refreshCached overwrites the cached copy of an updated recipe.
func (e *Engine) refreshCached(ctx context.Context, updated *recipedomain.Recipe) error {
	recipes, err := e.store.LoadRecipes(ctx)
	if err != nil {
		return err
	}
	for i, r := range recipes {
		if r.ID == updated.ID {
			recipes[i] = updated
			return e.store.SaveRecipes(ctx, recipes)
		}
	}
	return nil
}
