package domain

import (
	"github.com/kv-gits/rpm/internal/errors"
)

// Vault storage error definitions.
var (
	// ErrEntryNotFound indicates no record exists for the requested entry id.
	ErrEntryNotFound = errors.Wrap(errors.ErrNotFound, "entry not found")

	// ErrVaultNotInitialized indicates the vault directory has no salt or
	// verification hash yet; `rpm init` must run first.
	ErrVaultNotInitialized = errors.Wrap(errors.ErrNotFound, "vault not initialized")

	// ErrVaultAlreadyInitialized indicates an init attempt on an existing vault.
	ErrVaultAlreadyInitialized = errors.Wrap(errors.ErrConflict, "vault already initialized")
)
