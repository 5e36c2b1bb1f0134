// Package testdata contains test types for the source provider.
package testdata

import (
	"encoding/json"
	"time"
)

// User represents a user in the system.
// This is the full documentation body.
//
//tymock:mock
//tymock:mock fullUser hydrated
type User struct {
	// ID is the unique identifier
	ID string `json:"id"`

	// Name is the user's display name
	Name string `json:"name"`

	// Email is optional
	Email string `json:"email,omitempty"`

	// Age may be nil
	Age *int `json:"age"`

	// CreatedAt is when the user was created
	CreatedAt time.Time `json:"created_at"`

	// Metadata can contain any JSON
	Metadata map[string]any `json:"metadata,omitempty"`

	// Tags is a list of strings
	Tags []string `json:"tags"`

	Status Status `json:"status"`

	Raw json.RawMessage `json:"raw,omitempty"`

	Secret string `json:"-"`

	internal int
}

// Status represents user status.
type Status string

const (
	// StatusActive means the user is active
	StatusActive Status = "active"
	// StatusInactive means the user is inactive
	StatusInactive Status = "inactive"
	// StatusPending means awaiting approval
	StatusPending Status = "pending"
)

// Priority is an integer enum.
type Priority int

const (
	PriorityLow Priority = iota
	PriorityMedium
	PriorityHigh
)

// Timestamps is embedded by Admin.
type Timestamps struct {
	Updated time.Time `json:"updated"`
}

// Admin extends User.
//
//tymock:mock admins count=2
type Admin struct {
	User
	*Timestamps
	Level    Priority `json:"level"`
	Payload  []byte   `json:"payload"`
	Location struct {
		Lat float64 `json:"lat"`
		Lng float64 `json:"lng"`
	} `json:"location"`
}

// Store loads users.
type Store interface {
	// Get returns one user.
	Get(id string) (*User, error)
	List(limit int, tags ...string) ([]User, int, error)
	Close() error
}

// Token implements a custom marshaler.
type Token struct{ v string }

func (t Token) MarshalText() ([]byte, error) { return []byte(t.v), nil }

// Handler is a named function type.
type Handler func(u User) bool
