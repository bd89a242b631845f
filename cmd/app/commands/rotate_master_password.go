package commands

import (
	"context"
	"fmt"

	"github.com/kv-gits/rpm/internal/app"
	"github.com/kv-gits/rpm/internal/config"
)

// RunRotateMasterPassword re-encrypts every entry of the vault under a key
// derived from a new master password. The rotation runs as a single exclusive
// transaction: an interrupted run is rolled forward or back the next time the
// store is opened, and the vault never mixes keys.
func RunRotateMasterPassword(ctx context.Context, io IOTuple) error {
	cfg := config.Load()
	container := app.NewContainer(cfg)
	logger := container.Logger()
	defer closeContainer(container, logger)

	store, err := container.Store()
	if err != nil {
		return err
	}
	if !store.Initialized() {
		return fmt.Errorf("vault not initialized at %s (run 'init' first)", store.Root())
	}

	oldPassword, err := promptPassword(io, "Current master password: ")
	if err != nil {
		return err
	}

	newPassword, err := promptNewPassword(io, "New master password: ")
	if err != nil {
		return err
	}

	useCase, err := container.VaultUseCase()
	if err != nil {
		return err
	}

	if err := useCase.RotateMasterPassword(ctx, oldPassword, newPassword); err != nil {
		return err
	}

	// Outstanding sessions were issued under the old key; lock everything.
	sessionManager, err := container.SessionManager()
	if err != nil {
		return err
	}
	sessionManager.LockAll()

	_, _ = fmt.Fprintln(io.Writer, "Master password rotated. All sessions have been revoked.")
	return nil
}
