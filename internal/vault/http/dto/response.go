package dto

import (
	"time"

	vaultDomain "github.com/kv-gits/rpm/internal/vault/domain"
)

// CreatePasswordResponse contains the metadata of a newly created entry.
// The secret value is never echoed back.
type CreatePasswordResponse struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
}

// MapEntryToCreateResponse converts a created entry to the response
// representation.
func MapEntryToCreateResponse(entry *vaultDomain.PasswordEntry) CreatePasswordResponse {
	return CreatePasswordResponse{
		ID:        entry.ID.String(),
		Title:     entry.Title,
		CreatedAt: entry.CreatedAt,
	}
}

// PasswordResponse is the full decrypted entry, returned only from the
// single-entry read endpoint.
type PasswordResponse struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Username  string    `json:"username,omitempty"`
	Password  string    `json:"password"`
	URL       string    `json:"url,omitempty"`
	Notes     string    `json:"notes,omitempty"`
	Tags      []string  `json:"tags"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// MapEntryToResponse converts a decrypted entry to the response
// representation, including the secret value.
func MapEntryToResponse(entry *vaultDomain.PasswordEntry) PasswordResponse {
	return PasswordResponse{
		ID:        entry.ID.String(),
		Title:     entry.Title,
		Username:  entry.Username,
		Password:  entry.Password,
		URL:       entry.URL,
		Notes:     entry.Notes,
		Tags:      entry.Tags,
		CreatedAt: entry.CreatedAt,
		UpdatedAt: entry.UpdatedAt,
	}
}

// PasswordSummaryResponse is the listing view of an entry: metadata only,
// never the password.
type PasswordSummaryResponse struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Username  string    `json:"username,omitempty"`
	URL       string    `json:"url,omitempty"`
	Tags      []string  `json:"tags"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ListPasswordsResponse wraps the summary list.
type ListPasswordsResponse struct {
	Passwords []PasswordSummaryResponse `json:"passwords"`
}

// MapSummariesToListResponse converts entry summaries to the response
// representation.
func MapSummariesToListResponse(summaries []vaultDomain.EntrySummary) ListPasswordsResponse {
	passwords := make([]PasswordSummaryResponse, 0, len(summaries))
	for _, summary := range summaries {
		passwords = append(passwords, PasswordSummaryResponse{
			ID:        summary.ID.String(),
			Title:     summary.Title,
			Username:  summary.Username,
			URL:       summary.URL,
			Tags:      summary.Tags,
			CreatedAt: summary.CreatedAt,
			UpdatedAt: summary.UpdatedAt,
		})
	}
	return ListPasswordsResponse{Passwords: passwords}
}
