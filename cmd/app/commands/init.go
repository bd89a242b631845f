package commands

import (
	"context"
	"fmt"

	"github.com/kv-gits/rpm/internal/app"
	"github.com/kv-gits/rpm/internal/config"
	customValidation "github.com/kv-gits/rpm/internal/validation"
)

// RunInit initializes a new vault: creates the vault directory, generates a
// fresh salt and persists the master password verification hash. Fails if the
// vault is already initialized.
func RunInit(ctx context.Context, io IOTuple) error {
	cfg := config.Load()
	container := app.NewContainer(cfg)
	logger := container.Logger()
	defer closeContainer(container, logger)

	store, err := container.Store()
	if err != nil {
		return err
	}

	if store.Initialized() {
		return fmt.Errorf("vault already initialized at %s", store.Root())
	}

	password, err := promptNewPassword(io, "Master password: ")
	if err != nil {
		return err
	}

	if err := customValidation.MasterPassword(password); err != nil {
		return err
	}

	salt, err := container.KeyDeriver().GenerateSalt()
	if err != nil {
		return err
	}

	verificationHash, err := container.PasswordHasher().HashPassword(password)
	if err != nil {
		return err
	}

	if err := store.Init(salt, verificationHash); err != nil {
		return err
	}

	_, _ = fmt.Fprintf(io.Writer, "Vault initialized at %s\n", store.Root())
	return nil
}
