package domain

import (
	cryptoDomain "github.com/kv-gits/rpm/internal/crypto/domain"
)

// EncryptedRecord is the on-disk unit of the vault: one file per entry,
// serialized as JSON with base64-encoded binary fields.
//
// The payload is the JSON encoding of the full PasswordEntry, encrypted with
// the vault's AEAD; the authentication tag is part of the ciphertext. Every
// record carries its own algorithm tag and nonce, so records written under
// different vault-level algorithm settings coexist and no nonce space is
// shared across records.
type EncryptedRecord struct {
	Algorithm  cryptoDomain.Algorithm `json:"algorithm"`
	Nonce      []byte                 `json:"nonce"`
	Ciphertext []byte                 `json:"ciphertext"`
}
