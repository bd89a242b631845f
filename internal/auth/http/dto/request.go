// Package dto provides data transfer objects for authentication request and
// response handling.
package dto

import (
	validation "github.com/jellydator/validation"
)

// AuthenticateRequest contains the master password presented for vault unlock.
type AuthenticateRequest struct {
	MasterPassword string `json:"master_password"`
}

// Validate checks if the authenticate request is valid.
//
// Only presence is validated here: length and strength rules apply when a
// password is set, not when one is presented. A short guess still earns the
// full (slow) verification and a 401, never a distinguishable 400.
func (r *AuthenticateRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.MasterPassword,
			validation.Required,
		),
	)
}
