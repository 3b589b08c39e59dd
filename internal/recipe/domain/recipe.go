package domain

import "time"

// Recipe is a single entry in a user's private collection. Photo holds
// either a URL or inline base64 data; the server does not interpret it.
type Recipe struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Title       string    `json:"title"`
	Ingredients []string  `json:"ingredients,omitempty"`
	Directions  string    `json:"directions,omitempty"`
	Memory      string    `json:"memory,omitempty"`
	Photo       string    `json:"photo,omitempty"`
	Tags        []string  `json:"tags,omitempty"`
	CookTime    string    `json:"cook_time,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// HasTag reports whether the recipe carries the given tag.
func (r *Recipe) HasTag(tag string) bool {
	for _, t := range r.Tags {
		if t == tag {
			return true
		}
	}
	return false
}
