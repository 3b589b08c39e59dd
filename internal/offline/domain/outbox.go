// Package domain defines the client-side offline types: the outbox item
// shapes and the temporary-identifier scheme used before the server has
// confirmed a create.
package domain

import (
	"strings"
	"time"

	recipedomain "github.com/heritagebakes/bakebook/internal/recipe/domain"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
)

// Op is the mutation kind carried by an outbox item.
type Op string

const (
	OpCreate Op = "create"
	OpUpdate Op = "update"
	OpDelete Op = "delete"
)

// Status tracks an outbox item through a sync pass.
type Status string

const (
	StatusPending Status = "pending"
	StatusSyncing Status = "syncing"
	StatusSynced  Status = "synced"
	StatusError   Status = "error"
)

// OutboxItem is one not-yet-confirmed mutation awaiting replay against
// the server. Payload is nil for deletes.
type OutboxItem struct {
	ID        string               `json:"id"`
	Op        Op                   `json:"op"`
	RecipeID  string               `json:"recipe_id"`
	Payload   *recipedomain.Recipe `json:"payload,omitempty"`
	Status    Status               `json:"status"`
	Error     string               `json:"error,omitempty"`
	CreatedAt time.Time            `json:"created_at"`
}

// NewCreate builds a create item. The payload is expected to carry a
// temporary identifier (see TempID) until the server assigns a real one.
func NewCreate(payload *recipedomain.Recipe) OutboxItem {
	return OutboxItem{Op: OpCreate, RecipeID: payload.ID, Payload: payload}
}

// NewUpdate builds an update item for the recipe with the given id.
func NewUpdate(id string, payload *recipedomain.Recipe) OutboxItem {
	return OutboxItem{Op: OpUpdate, RecipeID: id, Payload: payload}
}

// NewDelete builds a delete item for the recipe with the given id.
func NewDelete(id string) OutboxItem {
	return OutboxItem{Op: OpDelete, RecipeID: id}
}

// Validate checks the item shape at enqueue time, before it is appended
// to the stored outbox.
func (i OutboxItem) Validate() error {
	return validation.ValidateStruct(&i,
		validation.Field(&i.Op, validation.Required, validation.In(OpCreate, OpUpdate, OpDelete)),
		validation.Field(&i.RecipeID, validation.Required),
		validation.Field(&i.Payload,
			validation.Required.When(i.Op != OpDelete),
			validation.Nil.When(i.Op == OpDelete),
			validation.When(i.Op != OpDelete, validation.By(payloadHasTitle)),
		),
	)
}

func payloadHasTitle(value interface{}) error {
	payload, _ := value.(*recipedomain.Recipe)
	if payload == nil {
		return nil
	}
	return validation.Validate(payload.Title, validation.Required)
}

// TempID returns a fresh client-generated temporary recipe identifier.
func TempID() string {
	return "temp_" + uuid.New().String()
}

// IsTempID reports whether id is a client-generated temporary identifier
// that the server has not confirmed yet.
func IsTempID(id string) bool {
	return strings.HasPrefix(id, "temp_")
}
