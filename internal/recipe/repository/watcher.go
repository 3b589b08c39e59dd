package repository

import (
	"context"
	"log"
	"strings"

	"github.com/fsnotify/fsnotify"
)

// Watch runs an fsnotify watcher on the recipes directory until ctx is
// cancelled. When a per-user recipe file is written, removed or renamed
// outside the process, the cached collection is invalidated so the next
// read picks up the on-disk state.
func (r *FileRecipeRepository) Watch(ctx context.Context) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := w.Add(r.dir); err != nil {
		return err
	}

	log.Printf("[Watcher] watching %s", r.dir)

	for {
		select {
		case <-ctx.Done():
			log.Println("[Watcher] stopped")
			return nil

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !strings.HasSuffix(ev.Name, ".json") {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) != 0 {
				r.Invalidate(ev.Name)
			}

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			log.Printf("[Watcher] error: %v", err)
		}
	}
}
