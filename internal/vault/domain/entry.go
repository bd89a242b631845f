// Package domain defines the vault's core entities: password entries, their
// on-disk encrypted representation, and the domain errors of the store.
package domain

import (
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	validation "github.com/jellydator/validation"
)

// PasswordEntry is a single secret record of the vault.
//
// The whole entry, secret and metadata alike, exists on disk only as the
// encrypted payload of an EncryptedRecord; no field of it is ever persisted
// in plaintext. The id is opaque, generated at creation and never reused.
type PasswordEntry struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	Username  string    `json:"username,omitempty"`
	Password  string    `json:"password"`
	URL       string    `json:"url,omitempty"`
	Notes     string    `json:"notes,omitempty"`
	Tags      []string  `json:"tags"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Summary returns the entry's browsable metadata without the secret value.
func (e *PasswordEntry) Summary() EntrySummary {
	return EntrySummary{
		ID:        e.ID,
		Title:     e.Title,
		Username:  e.Username,
		URL:       e.URL,
		Tags:      e.Tags,
		CreatedAt: e.CreatedAt,
		UpdatedAt: e.UpdatedAt,
	}
}

// EntrySummary is the listing view of an entry: enough decrypted metadata to
// present a browsable list, never the password.
type EntrySummary struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	Username  string    `json:"username,omitempty"`
	URL       string    `json:"url,omitempty"`
	Tags      []string  `json:"tags"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SortSummaries orders summaries by title (case-insensitive), tie-broken by
// id so equal titles keep a stable order. Directory scan order is effectively
// random, so listing always sorts.
func SortSummaries(summaries []EntrySummary) {
	sort.Slice(summaries, func(i, j int) bool {
		a, b := strings.ToLower(summaries[i].Title), strings.ToLower(summaries[j].Title)
		if a != b {
			return a < b
		}
		return summaries[i].ID.String() < summaries[j].ID.String()
	})
}

// CreateEntryInput contains the caller-supplied fields for a new entry.
type CreateEntryInput struct {
	Title    string   `json:"title"`
	Username string   `json:"username,omitempty"`
	Password string   `json:"password"`
	URL      string   `json:"url,omitempty"`
	Notes    string   `json:"notes,omitempty"`
	Tags     []string `json:"tags"`
}

// Validate checks the create input before any encryption is attempted.
// A rejected entry is never partially stored.
func (i *CreateEntryInput) Validate() error {
	return validation.ValidateStruct(i,
		validation.Field(&i.Title, validation.Required, validation.Length(1, 256)),
		validation.Field(&i.Password, validation.Required, validation.Length(1, 4096)),
		validation.Field(&i.Username, validation.Length(0, 256)),
		validation.Field(&i.URL, validation.Length(0, 2048)),
		validation.Field(&i.Notes, validation.Length(0, 16384)),
		validation.Field(&i.Tags, validation.Each(validation.Required, validation.Length(1, 64))),
	)
}

// NewEntry builds a PasswordEntry from validated input with a fresh opaque id
// and UTC timestamps.
func (i *CreateEntryInput) NewEntry() *PasswordEntry {
	now := time.Now().UTC()
	tags := i.Tags
	if tags == nil {
		tags = []string{}
	}
	return &PasswordEntry{
		ID:        uuid.Must(uuid.NewV7()),
		Title:     i.Title,
		Username:  i.Username,
		Password:  i.Password,
		URL:       i.URL,
		Notes:     i.Notes,
		Tags:      tags,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// UpdateEntryInput contains the fields of an entry update. Nil fields are
// left unchanged.
type UpdateEntryInput struct {
	Title    *string   `json:"title,omitempty"`
	Username *string   `json:"username,omitempty"`
	Password *string   `json:"password,omitempty"`
	URL      *string   `json:"url,omitempty"`
	Notes    *string   `json:"notes,omitempty"`
	Tags     *[]string `json:"tags,omitempty"`
}

// Validate checks the update input before any encryption is attempted.
func (i *UpdateEntryInput) Validate() error {
	return validation.ValidateStruct(i,
		validation.Field(&i.Title, validation.When(i.Title != nil, validation.Required, validation.Length(1, 256))),
		validation.Field(&i.Password, validation.When(i.Password != nil, validation.Required, validation.Length(1, 4096))),
		validation.Field(&i.Username, validation.When(i.Username != nil, validation.Length(0, 256))),
		validation.Field(&i.URL, validation.When(i.URL != nil, validation.Length(0, 2048))),
		validation.Field(&i.Notes, validation.When(i.Notes != nil, validation.Length(0, 16384))),
	)
}

// Apply copies the non-nil fields onto the entry and refreshes UpdatedAt.
// CreatedAt is never touched.
func (i *UpdateEntryInput) Apply(entry *PasswordEntry) {
	if i.Title != nil {
		entry.Title = *i.Title
	}
	if i.Username != nil {
		entry.Username = *i.Username
	}
	if i.Password != nil {
		entry.Password = *i.Password
	}
	if i.URL != nil {
		entry.URL = *i.URL
	}
	if i.Notes != nil {
		entry.Notes = *i.Notes
	}
	if i.Tags != nil {
		entry.Tags = *i.Tags
	}
	entry.UpdatedAt = time.Now().UTC()
}
