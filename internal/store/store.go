package store

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// User represents an account that can sign in to the admin area.
type User struct {
	ID            int64
	Username      string
	PasswordHash  string
	MayAdminister bool
	CreatedAt     time.Time
}

// ContactMessage represents a message submitted through the public contact form.
//
// IPAddress and UserAgent are captured once at creation and never leave the
// server; IsRead is the only field mutable after creation.
type ContactMessage struct {
	ID        int64
	Name      string
	Email     string
	Message   string
	IsRead    bool
	IPAddress string
	UserAgent string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewContactMessage carries the fields of a message being submitted.
type NewContactMessage struct {
	Name      string
	Email     string
	Message   string
	IPAddress string
	UserAgent string
}

// ContactMessageFilter narrows and paginates a contact message listing.
type ContactMessageFilter struct {
	// Search matches case-insensitively as a literal substring of
	// name, email or message. Empty string matches everything.
	Search string
	// IsRead restricts to messages with the given read state when non-nil.
	IsRead *bool
	Limit  int
	Offset int
}

// UserStore handles user persistence.
type UserStore interface {
	// CreateUser creates a new user with hashed password.
	CreateUser(ctx context.Context, username, passwordHash string, mayAdminister bool) (*User, error)

	// GetUserByID retrieves a user by ID.
	GetUserByID(ctx context.Context, id int64) (*User, error)

	// GetUserByUsername retrieves a user by username.
	GetUserByUsername(ctx context.Context, username string) (*User, error)
}

// ContactMessageStore handles contact message persistence.
type ContactMessageStore interface {
	// CreateContactMessage persists a new unread message and returns it
	// with server-assigned id and timestamps.
	CreateContactMessage(ctx context.Context, msg *NewContactMessage) (*ContactMessage, error)

	// GetContactMessageByID retrieves a message by ID.
	GetContactMessageByID(ctx context.Context, id int64) (*ContactMessage, error)

	// ListContactMessages returns the filtered page ordered newest first
	// (created_at descending, id ascending on ties) plus the total number
	// of rows matching the filter regardless of pagination.
	ListContactMessages(ctx context.Context, filter ContactMessageFilter) ([]*ContactMessage, int64, error)

	// SetContactMessageRead updates the read flag and returns the updated message.
	SetContactMessageRead(ctx context.Context, id int64, isRead bool) (*ContactMessage, error)

	// DeleteContactMessage permanently removes a message.
	DeleteContactMessage(ctx context.Context, id int64) error
}

// SettingsStore handles gallery configuration persistence.
type SettingsStore interface {
	// GetSetting returns the raw value for a key, or ErrNotFound.
	GetSetting(ctx context.Context, key string) (string, error)

	// SetSetting creates or replaces the value for a key.
	SetSetting(ctx context.Context, key, value string) error
}

// Store aggregates all storage interfaces.
type Store interface {
	UserStore
	ContactMessageStore
	SettingsStore

	// Close closes the underlying database connection.
	Close() error
}
