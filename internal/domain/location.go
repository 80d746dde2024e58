package domain

import (
	"strings"
	"time"
)

// State is the top-level location node. Name is stored normalized.
type State struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	OwnerID   string    `json:"owner,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Area is a location inside exactly one State. (StateID, Name) is unique.
type Area struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	StateID   string    `json:"state"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// NormalizeName trims and lower-cases a location name for storage and comparison.
func NormalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
