package repository

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	authdomain "github.com/heritagebakes/bakebook/internal/auth/domain"
	"github.com/heritagebakes/bakebook/internal/storage"

	"github.com/google/uuid"
)

// fileUserRepository implements UserRepository on top of two JSON files
// (users.json, tokens.json) under the data directory. State is held in
// memory and flushed atomically on every mutation.
type fileUserRepository struct {
	mu        sync.RWMutex
	usersPath string
	tokenPath string
	users     []*authdomain.User
	tokens    []*authdomain.RefreshToken
}

// NewFileUserRepository loads existing state from dataDir (if any) and
// returns a ready repository.
func NewFileUserRepository(dataDir string) (UserRepository, error) {
	r := &fileUserRepository{
		usersPath: filepath.Join(dataDir, "users.json"),
		tokenPath: filepath.Join(dataDir, "tokens.json"),
	}
	if _, err := storage.ReadJSON(r.usersPath, &r.users); err != nil {
		return nil, fmt.Errorf("load users: %w", err)
	}
	if _, err := storage.ReadJSON(r.tokenPath, &r.tokens); err != nil {
		return nil, fmt.Errorf("load tokens: %w", err)
	}
	return r, nil
}

func (r *fileUserRepository) Create(user *authdomain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	user.ID = uuid.New().String()
	user.CreatedAt = time.Now()
	user.UpdatedAt = time.Now()
	r.users = append(r.users, user)
	return storage.WriteJSON(r.usersPath, r.users)
}

func (r *fileUserRepository) FindByEmail(email string) (*authdomain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if strings.EqualFold(u.Email, email) {
			copied := *u
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *fileUserRepository) FindByID(id string) (*authdomain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if u.ID == id {
			copied := *u
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *fileUserRepository) Update(user *authdomain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	user.UpdatedAt = time.Now()
	for i, u := range r.users {
		if u.ID == user.ID {
			copied := *user
			r.users[i] = &copied
			return storage.WriteJSON(r.usersPath, r.users)
		}
	}
	return fmt.Errorf("user not found: %s", user.ID)
}

func (r *fileUserRepository) SaveRefreshToken(token *authdomain.RefreshToken) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	// Expired tokens are dropped on every save to keep the file small.
	now := time.Now()
	kept := r.tokens[:0]
	for _, t := range r.tokens {
		if t.ExpiresAt.After(now) {
			kept = append(kept, t)
		}
	}
	r.tokens = append(kept, token)
	return storage.WriteJSON(r.tokenPath, r.tokens)
}

func (r *fileUserRepository) FindRefreshToken(token string) (*authdomain.RefreshToken, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, t := range r.tokens {
		if t.Token == token {
			copied := *t
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *fileUserRepository) DeleteRefreshToken(token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	kept := r.tokens[:0]
	for _, t := range r.tokens {
		if t.Token != token {
			kept = append(kept, t)
		}
	}
	r.tokens = kept
	return storage.WriteJSON(r.tokenPath, r.tokens)
}

func (r *fileUserRepository) DeleteRefreshTokensByUser(userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	kept := r.tokens[:0]
	for _, t := range r.tokens {
		if t.UserID != userID {
			kept = append(kept, t)
		}
	}
	r.tokens = kept
	return storage.WriteJSON(r.tokenPath, r.tokens)
}
