// Package dto provides data transfer objects for password entry request and
// response handling.
package dto

import (
	vaultDomain "github.com/kv-gits/rpm/internal/vault/domain"
)

// CreatePasswordRequest contains the parameters for creating a password entry.
type CreatePasswordRequest struct {
	Title    string   `json:"title"`
	Username string   `json:"username"`
	Password string   `json:"password"`
	URL      string   `json:"url"`
	Notes    string   `json:"notes"`
	Tags     []string `json:"tags"`
}

// ToInput converts the request to the domain create input. Validation lives
// on the domain input so the CLI and HTTP surfaces share one rule set.
func (r *CreatePasswordRequest) ToInput() *vaultDomain.CreateEntryInput {
	return &vaultDomain.CreateEntryInput{
		Title:    r.Title,
		Username: r.Username,
		Password: r.Password,
		URL:      r.URL,
		Notes:    r.Notes,
		Tags:     r.Tags,
	}
}

// UpdatePasswordRequest contains the fields of a password entry update.
// Absent fields are left unchanged.
type UpdatePasswordRequest struct {
	Title    *string   `json:"title"`
	Username *string   `json:"username"`
	Password *string   `json:"password"`
	URL      *string   `json:"url"`
	Notes    *string   `json:"notes"`
	Tags     *[]string `json:"tags"`
}

// ToInput converts the request to the domain update input.
func (r *UpdatePasswordRequest) ToInput() *vaultDomain.UpdateEntryInput {
	return &vaultDomain.UpdateEntryInput{
		Title:    r.Title,
		Username: r.Username,
		Password: r.Password,
		URL:      r.URL,
		Notes:    r.Notes,
		Tags:     r.Tags,
	}
}
