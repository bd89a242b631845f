// Package clipboard holds decrypted secrets on the system clipboard with a
// guaranteed, reschedulable clearance timeout.
package clipboard

import (
	"github.com/atotto/clipboard"
)

// Clipboard abstracts the system clipboard so the guard can be tested
// without touching the real one.
type Clipboard interface {
	ReadAll() (string, error)
	WriteAll(text string) error
}

// systemClipboard is the production Clipboard backed by the OS clipboard.
type systemClipboard struct{}

// NewSystemClipboard returns the system clipboard implementation.
func NewSystemClipboard() Clipboard {
	return systemClipboard{}
}

func (systemClipboard) ReadAll() (string, error) {
	return clipboard.ReadAll()
}

func (systemClipboard) WriteAll(text string) error {
	return clipboard.WriteAll(text)
}
