package commands

import (
	"context"
	"fmt"

	"github.com/kv-gits/rpm/internal/app"
	"github.com/kv-gits/rpm/internal/config"
)

// RunStatus reports the vault path, initialization state and entry count.
// It reads only directory metadata; no entry is decrypted.
func RunStatus(ctx context.Context, io IOTuple) error {
	cfg := config.Load()
	container := app.NewContainer(cfg)
	logger := container.Logger()
	defer closeContainer(container, logger)

	store, err := container.Store()
	if err != nil {
		return err
	}

	_, _ = fmt.Fprintf(io.Writer, "Vault path:  %s\n", store.Root())

	if !store.Initialized() {
		_, _ = fmt.Fprintln(io.Writer, "Initialized: no")
		return nil
	}

	count, err := store.EntryCount()
	if err != nil {
		return err
	}

	_, _ = fmt.Fprintln(io.Writer, "Initialized: yes")
	_, _ = fmt.Fprintf(io.Writer, "Entries:     %d\n", count)
	return nil
}
