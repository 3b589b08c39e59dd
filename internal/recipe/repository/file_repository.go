package repository

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	recipedomain "github.com/heritagebakes/bakebook/internal/recipe/domain"
	"github.com/heritagebakes/bakebook/internal/storage"

	"github.com/google/uuid"
)

// ErrNotFound is returned by Update and Delete when no recipe matches.
var ErrNotFound = errors.New("recipe not found")

// FileRecipeRepository stores one JSON file per user under
// <dataDir>/recipes/<userID>.json. Loaded collections are cached in
// memory; Invalidate drops a cached collection so the next read goes back
// to disk (used by the fsnotify watcher when files change externally).
type FileRecipeRepository struct {
	mu    sync.RWMutex
	dir   string
	cache map[string][]*recipedomain.Recipe
}

// NewFileRecipeRepository creates the recipes directory if needed.
func NewFileRecipeRepository(dataDir string) (*FileRecipeRepository, error) {
	dir := filepath.Join(dataDir, "recipes")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("recipes dir: %w", err)
	}
	return &FileRecipeRepository{
		dir:   dir,
		cache: make(map[string][]*recipedomain.Recipe),
	}, nil
}

// Dir returns the directory holding the per-user recipe files.
func (r *FileRecipeRepository) Dir() string {
	return r.dir
}

func (r *FileRecipeRepository) path(userID string) string {
	return filepath.Join(r.dir, userID+".json")
}

// load returns the user's collection, reading from disk on cache miss.
// Callers must hold r.mu.
func (r *FileRecipeRepository) load(userID string) ([]*recipedomain.Recipe, error) {
	if recipes, ok := r.cache[userID]; ok {
		return recipes, nil
	}
	var recipes []*recipedomain.Recipe
	if _, err := storage.ReadJSON(r.path(userID), &recipes); err != nil {
		return nil, err
	}
	r.cache[userID] = recipes
	return recipes, nil
}

// save flushes the user's collection and refreshes the cache.
// Callers must hold r.mu.
func (r *FileRecipeRepository) save(userID string, recipes []*recipedomain.Recipe) error {
	if err := storage.WriteJSON(r.path(userID), recipes); err != nil {
		return err
	}
	r.cache[userID] = recipes
	return nil
}

func (r *FileRecipeRepository) Create(recipe *recipedomain.Recipe) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	recipes, err := r.load(recipe.UserID)
	if err != nil {
		return err
	}

	recipe.ID = uuid.New().String()
	recipe.CreatedAt = time.Now()
	recipe.UpdatedAt = time.Now()
	return r.save(recipe.UserID, append(recipes, recipe))
}

func (r *FileRecipeRepository) FindByUser(userID string) ([]*recipedomain.Recipe, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	recipes, err := r.load(userID)
	if err != nil {
		return nil, err
	}

	out := make([]*recipedomain.Recipe, len(recipes))
	for i, rec := range recipes {
		copied := *rec
		out[i] = &copied
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (r *FileRecipeRepository) FindByID(userID, id string) (*recipedomain.Recipe, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	recipes, err := r.load(userID)
	if err != nil {
		return nil, err
	}
	for _, rec := range recipes {
		if rec.ID == id {
			copied := *rec
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *FileRecipeRepository) Update(recipe *recipedomain.Recipe) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	recipes, err := r.load(recipe.UserID)
	if err != nil {
		return err
	}
	for i, rec := range recipes {
		if rec.ID == recipe.ID {
			recipe.CreatedAt = rec.CreatedAt
			recipe.UpdatedAt = time.Now()
			copied := *recipe
			recipes[i] = &copied
			return r.save(recipe.UserID, recipes)
		}
	}
	return ErrNotFound
}

func (r *FileRecipeRepository) Delete(userID, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	recipes, err := r.load(userID)
	if err != nil {
		return err
	}
	// Filter into a fresh slice: load returns the cached slice itself, and
	// the cache must stay intact if save fails.
	kept := make([]*recipedomain.Recipe, 0, len(recipes))
	found := false
	for _, rec := range recipes {
		if rec.ID == id {
			found = true
			continue
		}
		kept = append(kept, rec)
	}
	if !found {
		return ErrNotFound
	}
	return r.save(userID, kept)
}

// Invalidate drops the cached collection for the user owning the given
// recipe file path. Unknown paths are ignored.
func (r *FileRecipeRepository) Invalidate(path string) {
	base := filepath.Base(path)
	if !strings.HasSuffix(base, ".json") {
		return
	}
	userID := strings.TrimSuffix(base, ".json")

	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.cache, userID)
}
