// Package outbox keeps the ordered list of pending mutations that must
// eventually reach the server.
package outbox

import (
	"context"
	"fmt"
	"time"

	"github.com/heritagebakes/bakebook/internal/offline/domain"
	"github.com/heritagebakes/bakebook/internal/offline/store"

	"github.com/google/uuid"
)

// Queue is an append-only (with status mutation) log stored as a single
// snapshot in the local store. Two concurrent writers race last-write-wins
// on the snapshot; acceptable for single-user, low-frequency usage.
type Queue struct {
	store *store.Store
}

// NewQueue creates a Queue backed by the given store.
func NewQueue(st *store.Store) *Queue {
	return &Queue{store: st}
}

// Enqueue validates the item, assigns an id and pending status, appends
// it and returns the id.
//
// A delete for a recipe with queued work coalesces: earlier pending
// creates/updates for the same recipe are dropped, and if one of them was
// a create (the server never saw the recipe) the delete itself is dropped
// too. In that case Enqueue returns "" with no error.
func (q *Queue) Enqueue(ctx context.Context, item domain.OutboxItem) (string, error) {
	if err := item.Validate(); err != nil {
		return "", fmt.Errorf("outbox: invalid item: %w", err)
	}

	items, err := q.store.LoadOutbox(ctx)
	if err != nil {
		return "", err
	}

	if item.Op == domain.OpDelete {
		var dropCreate bool
		kept := items[:0]
		for _, it := range items {
			if it.Status != domain.StatusSynced && it.RecipeID == item.RecipeID {
				if it.Op == domain.OpCreate {
					dropCreate = true
				}
				continue
			}
			kept = append(kept, it)
		}
		items = kept
		if dropCreate {
			return "", q.store.SaveOutbox(ctx, items)
		}
	}

	item.ID = uuid.New().String()
	item.Status = domain.StatusPending
	item.CreatedAt = time.Now()

	if err := q.store.SaveOutbox(ctx, append(items, item)); err != nil {
		return "", err
	}
	return item.ID, nil
}

// UpdateStatus merges the given status (and error message) into the
// matching item and returns it. Returns nil when the id is absent.
func (q *Queue) UpdateStatus(ctx context.Context, id string, status domain.Status, errMsg string) (*domain.OutboxItem, error) {
	items, err := q.store.LoadOutbox(ctx)
	if err != nil {
		return nil, err
	}

	for i := range items {
		if items[i].ID != id {
			continue
		}
		items[i].Status = status
		items[i].Error = errMsg
		if err := q.store.SaveOutbox(ctx, items); err != nil {
			return nil, err
		}
		updated := items[i]
		return &updated, nil
	}
	return nil, nil
}

// Remove deletes the item; used after a confirmed sync.
func (q *Queue) Remove(ctx context.Context, id string) error {
	items, err := q.store.LoadOutbox(ctx)
	if err != nil {
		return err
	}

	kept := items[:0]
	for _, it := range items {
		if it.ID != id {
			kept = append(kept, it)
		}
	}
	return q.store.SaveOutbox(ctx, kept)
}

// Pending returns items with pending status, in enqueue order.
func (q *Queue) Pending(ctx context.Context) ([]domain.OutboxItem, error) {
	items, err := q.store.LoadOutbox(ctx)
	if err != nil {
		return nil, err
	}

	var pending []domain.OutboxItem
	for _, it := range items {
		if it.Status == domain.StatusPending {
			pending = append(pending, it)
		}
	}
	return pending, nil
}

// ResetForRetry moves stale syncing items (abandoned by an interrupted
// pass) and errored items back to pending so the next pass retries them.
func (q *Queue) ResetForRetry(ctx context.Context) error {
	items, err := q.store.LoadOutbox(ctx)
	if err != nil {
		return err
	}

	changed := false
	for i := range items {
		if items[i].Status == domain.StatusSyncing || items[i].Status == domain.StatusError {
			items[i].Status = domain.StatusPending
			changed = true
		}
	}
	if !changed {
		return nil
	}
	return q.store.SaveOutbox(ctx, items)
}

// Items returns the whole stored outbox, in enqueue order.
func (q *Queue) Items(ctx context.Context) ([]domain.OutboxItem, error) {
	return q.store.LoadOutbox(ctx)
}

// RemapRecipeID rewrites the recipe identifier on queued items after a
// create was confirmed with a server-assigned id.
func (q *Queue) RemapRecipeID(ctx context.Context, oldID, newID string) error {
	items, err := q.store.LoadOutbox(ctx)
	if err != nil {
		return err
	}

	changed := false
	for i := range items {
		if items[i].RecipeID == oldID {
			items[i].RecipeID = newID
			changed = true
		}
		if items[i].Payload != nil && items[i].Payload.ID == oldID {
			items[i].Payload.ID = newID
			changed = true
		}
	}
	if !changed {
		return nil
	}
	return q.store.SaveOutbox(ctx, items)
}
