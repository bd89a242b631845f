package storage

import (
	"log/slog"
	"os"
	"path/filepath"

	cryptoDomain "github.com/kv-gits/rpm/internal/crypto/domain"
	apperrors "github.com/kv-gits/rpm/internal/errors"
)

const (
	rotateEntriesDir = "entries.rotate"
	oldEntriesDir    = "entries.old"
	rotateSaltFile   = "salt.rotate"
	rotateVerifyFile = "verify.rotate"
)

// RotateMasterKey re-encrypts every record under the new key and replaces the
// salt and verification hash, as one full-vault exclusive transaction: the
// write lock is held for the whole duration, so no reader ever observes a
// vault where some entries use the old key and others the new one.
//
// Commit sequence (recoverRotation completes or rolls back any interrupted
// step on the next store open):
//
//  1. stage all re-encrypted records in entries.rotate/
//  2. stage salt.rotate and verify.rotate
//  3. rename entries   -> entries.old
//  4. rename entries.rotate -> entries     (commit point)
//  5. rename salt.rotate   -> salt
//  6. rename verify.rotate -> verify
//  7. remove entries.old
func (s *Store) RotateMasterKey(
	oldKey, newKey *cryptoDomain.MasterKey,
	newSalt []byte,
	newVerificationHash string,
) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(newSalt) != cryptoDomain.SaltSize {
		return cryptoDomain.ErrInvalidSaltSize
	}

	names, err := s.recordNames()
	if err != nil {
		return err
	}

	// Stage: decrypt with the old key, re-encrypt with the new one. Any
	// failure here aborts with the live vault untouched.
	stagingDir := filepath.Join(s.root, rotateEntriesDir)
	if err := os.RemoveAll(stagingDir); err != nil {
		return apperrors.Wrap(err, "failed to clear rotation staging")
	}
	if err := os.MkdirAll(stagingDir, dirPerm); err != nil {
		return apperrors.Wrap(err, "failed to create rotation staging")
	}

	abort := func(err error) error {
		os.RemoveAll(stagingDir)
		os.Remove(filepath.Join(s.root, rotateSaltFile))
		os.Remove(filepath.Join(s.root, rotateVerifyFile))
		return err
	}

	for _, name := range names {
		entry, err := s.readRecord(name, oldKey)
		if err != nil {
			return abort(err)
		}

		newName, err := s.entryName(entry.ID, newKey)
		if err != nil {
			return abort(err)
		}
		if err := s.writeRecordTo(stagingDir, newName, entry, newKey); err != nil {
			return abort(err)
		}
	}

	if err := writeFileAtomic(filepath.Join(s.root, rotateSaltFile), newSalt); err != nil {
		return abort(apperrors.Wrap(err, "failed to stage salt"))
	}
	if err := writeFileAtomic(filepath.Join(s.root, rotateVerifyFile), []byte(newVerificationHash)); err != nil {
		return abort(apperrors.Wrap(err, "failed to stage verification hash"))
	}

	// Commit.
	if err := os.Rename(s.entriesPath(), filepath.Join(s.root, oldEntriesDir)); err != nil {
		return abort(apperrors.Wrap(err, "failed to displace entries"))
	}
	if err := os.Rename(stagingDir, s.entriesPath()); err != nil {
		// Roll back to the old vault; salt and verify were not yet replaced.
		os.Rename(filepath.Join(s.root, oldEntriesDir), s.entriesPath())
		return abort(apperrors.Wrap(err, "failed to activate rotated entries"))
	}
	if err := os.Rename(filepath.Join(s.root, rotateSaltFile), s.saltPath()); err != nil {
		return apperrors.Wrap(err, "failed to replace salt")
	}
	if err := os.Rename(filepath.Join(s.root, rotateVerifyFile), s.verifyPath()); err != nil {
		return apperrors.Wrap(err, "failed to replace verification hash")
	}
	if err := os.RemoveAll(filepath.Join(s.root, oldEntriesDir)); err != nil {
		s.logger.Warn("failed to remove displaced entries", slog.Any("error", err))
	}

	s.logger.Info("master key rotated", slog.Int("entries", len(names)))
	return nil
}

// recoverRotation finishes or rolls back a rotation interrupted by a crash.
// Called once when the store is opened, before any other operation.
//
// Rules, matching the commit sequence above:
//   - staged artifacts with the live entries directory still present mean the
//     commit never started: discard the staging.
//   - entries missing but entries.old present means the crash hit between
//     steps 3 and 4: restore entries.old (salt and verify are still the old
//     ones, so the old vault is fully intact).
//   - entries and entries.old both present means the commit point passed:
//     roll forward the salt/verify renames and remove entries.old.
func (s *Store) recoverRotation() error {
	entriesExists := dirExists(s.entriesPath())
	oldExists := dirExists(filepath.Join(s.root, oldEntriesDir))
	stagingDir := filepath.Join(s.root, rotateEntriesDir)

	switch {
	case entriesExists && oldExists:
		// Past the commit point: finish the rotation.
		if fileExists(filepath.Join(s.root, rotateSaltFile)) {
			if err := os.Rename(filepath.Join(s.root, rotateSaltFile), s.saltPath()); err != nil {
				return apperrors.Wrap(err, "rotation recovery: failed to replace salt")
			}
		}
		if fileExists(filepath.Join(s.root, rotateVerifyFile)) {
			if err := os.Rename(filepath.Join(s.root, rotateVerifyFile), s.verifyPath()); err != nil {
				return apperrors.Wrap(err, "rotation recovery: failed to replace verification hash")
			}
		}
		if err := os.RemoveAll(filepath.Join(s.root, oldEntriesDir)); err != nil {
			return apperrors.Wrap(err, "rotation recovery: failed to remove displaced entries")
		}
		s.logger.Warn("completed interrupted master key rotation")

	case !entriesExists && oldExists:
		// Before the commit point: restore the old vault.
		if err := os.Rename(filepath.Join(s.root, oldEntriesDir), s.entriesPath()); err != nil {
			return apperrors.Wrap(err, "rotation recovery: failed to restore entries")
		}
		s.logger.Warn("rolled back interrupted master key rotation")
	}

	// Staged artifacts are worthless in every remaining state. The roll-forward
	// branch renamed its salt/verify already, so removal is a no-op there.
	if err := os.RemoveAll(stagingDir); err != nil {
		return apperrors.Wrap(err, "rotation recovery: failed to remove staging")
	}
	os.Remove(filepath.Join(s.root, rotateSaltFile))
	os.Remove(filepath.Join(s.root, rotateVerifyFile))

	return nil
}

func dirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
