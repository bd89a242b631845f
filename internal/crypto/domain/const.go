package domain

// Algorithm represents the cryptographic algorithm used for encryption.
//
// All supported algorithms provide Authenticated Encryption with Associated Data
// (AEAD), ensuring both confidentiality and authenticity of encrypted data. The
// algorithm is a vault-level setting: new records are written with the configured
// algorithm while existing records keep the tag they were encrypted with, so a
// vault may hold records under both algorithms after the setting changes.
type Algorithm string

const (
	// AES256GCM represents the AES-256-GCM authenticated encryption algorithm.
	//
	// AES-GCM combines AES encryption with GMAC authentication. It uses a
	// 256-bit key, a 12-byte nonce and a 16-byte authentication tag, and is
	// hardware-accelerated on CPUs with AES-NI.
	AES256GCM Algorithm = "aes256-gcm"

	// ChaCha20Poly1305 represents the ChaCha20-Poly1305 authenticated encryption
	// algorithm.
	//
	// ChaCha20-Poly1305 combines the ChaCha20 stream cipher with the Poly1305
	// MAC. It uses a 256-bit key, a 12-byte nonce and a 16-byte authentication
	// tag, with constant-time software performance on platforms without AES-NI.
	ChaCha20Poly1305 Algorithm = "chacha20poly1305"
)

const (
	// KeySize is the required key length in bytes for both supported algorithms.
	KeySize = 32

	// SaltSize is the required length in bytes of the vault key-derivation salt.
	SaltSize = 16
)
