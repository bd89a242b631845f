package clipboard

import (
	"log/slog"
	"sync"
	"time"

	apperrors "github.com/kv-gits/rpm/internal/errors"
)

// Guard places secrets on the clipboard and guarantees clearance after a
// bounded timeout. A new copy before expiry cancels the pending clear and
// reschedules: only the most recent secret's timeout governs.
//
// The clearance timer runs independently of every store lock and may fire
// concurrently with any vault operation. Clearing actively overwrites the
// clipboard content; leaving a stale secret behind is treated as a defect,
// so Close flushes a pending secret instead of abandoning the timer.
type Guard struct {
	clipboard Clipboard
	logger    *slog.Logger

	mu         sync.Mutex
	timer      *time.Timer
	current    string
	generation uint64
}

// NewGuard creates a Guard over the given clipboard.
func NewGuard(cb Clipboard, logger *slog.Logger) *Guard {
	return &Guard{
		clipboard: cb,
		logger:    logger,
	}
}

// CopyWithTimeout places the secret on the clipboard and schedules clearance
// after the timeout. Any previously pending clearance is cancelled; the new
// timeout governs alone.
func (g *Guard) CopyWithTimeout(secret string, timeout time.Duration) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if err := g.clipboard.WriteAll(secret); err != nil {
		return apperrors.Wrap(err, "failed to write clipboard")
	}

	if g.timer != nil {
		g.timer.Stop()
	}

	g.current = secret
	g.generation++
	gen := g.generation
	g.timer = time.AfterFunc(timeout, func() {
		g.clear(gen)
	})

	g.logger.Debug("secret copied to clipboard", slog.Duration("timeout", timeout))
	return nil
}

// clear runs when a clearance timer fires. A stale generation means the
// timer was superseded by a newer copy and must do nothing.
func (g *Guard) clear(gen uint64) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if gen != g.generation {
		return
	}
	g.clearLocked()
}

// clearLocked overwrites the clipboard if it still holds the guarded secret.
// If the user copied something else in the meantime, that content is theirs
// to keep.
func (g *Guard) clearLocked() {
	defer func() {
		g.current = ""
		g.timer = nil
	}()

	content, err := g.clipboard.ReadAll()
	if err == nil && content != g.current {
		return
	}

	if err := g.clipboard.WriteAll(""); err != nil {
		g.logger.Warn("failed to clear clipboard", slog.Any("error", err))
		return
	}
	g.logger.Debug("clipboard cleared")
}

// Close cancels the pending timer and, if a secret is still guarded, clears
// it immediately.
func (g *Guard) Close() {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.generation++
	if g.timer != nil {
		g.timer.Stop()
		g.clearLocked()
	}
}
