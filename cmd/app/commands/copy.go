package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/kv-gits/rpm/internal/app"
	authDomain "github.com/kv-gits/rpm/internal/auth/domain"
	"github.com/kv-gits/rpm/internal/config"
)

// RunCopy decrypts a single entry and places its password on the clipboard
// through the clearance guard, then blocks until the timeout has cleared it.
// The decrypted value never touches stdout.
func RunCopy(ctx context.Context, idStr string, io IOTuple) error {
	id, err := uuid.Parse(idStr)
	if err != nil {
		return fmt.Errorf("invalid id format: must be a valid UUID")
	}

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

	password, err := promptPassword(io, "Master password: ")
	if err != nil {
		return err
	}

	verificationHash, err := store.VerificationHash()
	if err != nil {
		return err
	}
	if !container.PasswordHasher().VerifyPassword(password, verificationHash) {
		return authDomain.ErrInvalidCredentials
	}

	salt, err := store.Salt()
	if err != nil {
		return err
	}
	key, err := container.KeyDeriver().DeriveKey(password, salt)
	if err != nil {
		return err
	}
	defer key.Zero()

	useCase, err := container.VaultUseCase()
	if err != nil {
		return err
	}

	entry, err := useCase.GetEntry(ctx, key, id)
	if err != nil {
		return err
	}

	guard := container.ClipboardGuard()
	if err := guard.CopyWithTimeout(entry.Password, cfg.ClipboardTimeout); err != nil {
		return err
	}

	_, _ = fmt.Fprintf(io.Writer, "Password for %q copied to clipboard, clearing in %s\n",
		entry.Title, cfg.ClipboardTimeout)

	// Keep the process alive until the guard has cleared the clipboard;
	// Ctrl-C clears immediately through the container shutdown path.
	select {
	case <-time.After(cfg.ClipboardTimeout + time.Second):
	case <-ctx.Done():
	}

	return nil
}
