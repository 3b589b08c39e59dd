// Package store is the client's durable local key-value area. Four
// whole-value snapshot slots (user, token, recipes, outbox) are kept as
// JSON blobs in a SQLite table. Reads may fail; callers treat a failed
// read as an empty slot rather than crash.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	authdomain "github.com/heritagebakes/bakebook/internal/auth/domain"
	offlinedomain "github.com/heritagebakes/bakebook/internal/offline/domain"
	recipedomain "github.com/heritagebakes/bakebook/internal/recipe/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Slot names. The stored value is always a whole-collection snapshot,
// never a fine-grained record.
const (
	SlotUser    = "user"
	SlotToken   = "token"
	SlotRecipes = "recipes"
	SlotOutbox  = "outbox"
)

type slotRecord struct {
	Slot      string `gorm:"primaryKey"`
	Value     []byte
	UpdatedAt time.Time
}

// TableName implements the GORM tabler interface.
func (slotRecord) TableName() string { return "slots" }

// Store wraps the SQLite-backed slot table.
type Store struct {
	db *gorm.DB
}

// New migrates the slot table and returns a ready Store.
func New(db *gorm.DB) (*Store, error) {
	if err := db.AutoMigrate(&slotRecord{}); err != nil {
		return nil, fmt.Errorf("store: migrate: %w", err)
	}
	return &Store{db: db}, nil
}

// Get unmarshals the named slot into v. Returns false when the slot is
// absent.
func (s *Store) Get(ctx context.Context, slot string, v any) (bool, error) {
	var rec slotRecord
	err := s.db.WithContext(ctx).Where("slot = ?", slot).First(&rec).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("store: get %s: %w", slot, err)
	}
	if err := json.Unmarshal(rec.Value, v); err != nil {
		return false, fmt.Errorf("store: decode %s: %w", slot, err)
	}
	return true, nil
}

// Set overwrites the named slot with the JSON encoding of v.
func (s *Store) Set(ctx context.Context, slot string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("store: encode %s: %w", slot, err)
	}
	rec := slotRecord{Slot: slot, Value: data, UpdatedAt: time.Now()}
	err = s.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(&rec).Error
	if err != nil {
		return fmt.Errorf("store: set %s: %w", slot, err)
	}
	return nil
}

// Delete removes the named slot. Deleting an absent slot is not an error.
func (s *Store) Delete(ctx context.Context, slot string) error {
	err := s.db.WithContext(ctx).Where("slot = ?", slot).Delete(&slotRecord{}).Error
	if err != nil {
		return fmt.Errorf("store: delete %s: %w", slot, err)
	}
	return nil
}

// LoadToken returns the cached bearer token, or "" when absent.
func (s *Store) LoadToken(ctx context.Context) (string, error) {
	var token string
	found, err := s.Get(ctx, SlotToken, &token)
	if err != nil || !found {
		return "", err
	}
	return token, nil
}

func (s *Store) SaveToken(ctx context.Context, token string) error {
	return s.Set(ctx, SlotToken, token)
}

// LoadUser returns the cached profile, or nil when absent.
func (s *Store) LoadUser(ctx context.Context) (*authdomain.User, error) {
	var user authdomain.User
	found, err := s.Get(ctx, SlotUser, &user)
	if err != nil || !found {
		return nil, err
	}
	return &user, nil
}

func (s *Store) SaveUser(ctx context.Context, user *authdomain.User) error {
	return s.Set(ctx, SlotUser, user)
}

// LoadRecipes returns the cached recipe snapshot; absent means empty.
func (s *Store) LoadRecipes(ctx context.Context) ([]*recipedomain.Recipe, error) {
	var recipes []*recipedomain.Recipe
	if _, err := s.Get(ctx, SlotRecipes, &recipes); err != nil {
		return nil, err
	}
	return recipes, nil
}

func (s *Store) SaveRecipes(ctx context.Context, recipes []*recipedomain.Recipe) error {
	return s.Set(ctx, SlotRecipes, recipes)
}

// LoadOutbox returns the stored outbox snapshot; absent means empty.
func (s *Store) LoadOutbox(ctx context.Context) ([]offlinedomain.OutboxItem, error) {
	var items []offlinedomain.OutboxItem
	if _, err := s.Get(ctx, SlotOutbox, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) SaveOutbox(ctx context.Context, items []offlinedomain.OutboxItem) error {
	return s.Set(ctx, SlotOutbox, items)
}

// Clear wipes the session slots on logout. Recipe cache and outbox are
// kept so unsynced work survives a re-login.
func (s *Store) Clear(ctx context.Context) error {
	if err := s.Delete(ctx, SlotUser); err != nil {
		return err
	}
	return s.Delete(ctx, SlotToken)
}
