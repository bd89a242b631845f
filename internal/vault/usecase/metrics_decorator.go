package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	cryptoDomain "github.com/kv-gits/rpm/internal/crypto/domain"
	"github.com/kv-gits/rpm/internal/metrics"
	vaultDomain "github.com/kv-gits/rpm/internal/vault/domain"
)

// vaultUseCaseWithMetrics decorates VaultUseCase with metrics instrumentation.
type vaultUseCaseWithMetrics struct {
	next    VaultUseCase
	metrics metrics.BusinessMetrics
}

// NewVaultUseCaseWithMetrics wraps a VaultUseCase with metrics recording.
func NewVaultUseCaseWithMetrics(useCase VaultUseCase, m metrics.BusinessMetrics) VaultUseCase {
	return &vaultUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

func (v *vaultUseCaseWithMetrics) record(ctx context.Context, operation string, start time.Time, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	v.metrics.RecordOperation(ctx, "vault", operation, status)
	v.metrics.RecordDuration(ctx, "vault", operation, time.Since(start), status)
}

// CreateEntry records metrics for entry creation.
func (v *vaultUseCaseWithMetrics) CreateEntry(
	ctx context.Context,
	key *cryptoDomain.MasterKey,
	input *vaultDomain.CreateEntryInput,
) (*vaultDomain.PasswordEntry, error) {
	start := time.Now()
	entry, err := v.next.CreateEntry(ctx, key, input)
	v.record(ctx, "entry_create", start, err)
	return entry, err
}

// GetEntry records metrics for entry retrieval.
func (v *vaultUseCaseWithMetrics) GetEntry(
	ctx context.Context,
	key *cryptoDomain.MasterKey,
	id uuid.UUID,
) (*vaultDomain.PasswordEntry, error) {
	start := time.Now()
	entry, err := v.next.GetEntry(ctx, key, id)
	v.record(ctx, "entry_get", start, err)
	return entry, err
}

// UpdateEntry records metrics for entry updates.
func (v *vaultUseCaseWithMetrics) UpdateEntry(
	ctx context.Context,
	key *cryptoDomain.MasterKey,
	id uuid.UUID,
	input *vaultDomain.UpdateEntryInput,
) (*vaultDomain.PasswordEntry, error) {
	start := time.Now()
	entry, err := v.next.UpdateEntry(ctx, key, id, input)
	v.record(ctx, "entry_update", start, err)
	return entry, err
}

// DeleteEntry records metrics for entry deletion.
func (v *vaultUseCaseWithMetrics) DeleteEntry(
	ctx context.Context,
	key *cryptoDomain.MasterKey,
	id uuid.UUID,
) error {
	start := time.Now()
	err := v.next.DeleteEntry(ctx, key, id)
	v.record(ctx, "entry_delete", start, err)
	return err
}

// ListEntries records metrics for entry listing.
func (v *vaultUseCaseWithMetrics) ListEntries(
	ctx context.Context,
	key *cryptoDomain.MasterKey,
) ([]vaultDomain.EntrySummary, error) {
	start := time.Now()
	summaries, err := v.next.ListEntries(ctx, key)
	v.record(ctx, "entry_list", start, err)
	return summaries, err
}

// RotateMasterPassword records metrics for master password rotation.
func (v *vaultUseCaseWithMetrics) RotateMasterPassword(ctx context.Context, oldPassword, newPassword string) error {
	start := time.Now()
	err := v.next.RotateMasterPassword(ctx, oldPassword, newPassword)
	v.record(ctx, "rotate_master_password", start, err)
	return err
}
