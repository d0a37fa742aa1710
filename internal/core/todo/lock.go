package todo

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
)

// LockTTL is the age at which a lock file is considered stale and eligible
// for reclaiming.
const LockTTL = 10 * time.Minute

// LockInfo is the JSON payload written into a lock file.
type LockInfo struct {
	ID        string `json:"id"`
	PID       int    `json:"pid"`
	Session   string `json:"session,omitempty"`
	CreatedAt string `json:"created_at"`
}

// ConfirmFunc asks the user to confirm reclaiming a stale lock. A nil
// ConfirmFunc marks the caller as non-interactive.
type ConfirmFunc func(title, description string) (bool, error)

// LockManager hands out advisory per-record locks backed by <id>.lock files.
// Locks are cooperative: they deter compliant callers, nothing more.
type LockManager struct {
	dir     string
	session string
	ttl     time.Duration
	confirm ConfirmFunc
	log     zerolog.Logger
}

// NewLockManager creates a lock manager for the given record directory.
func NewLockManager(dir, session string, ttl time.Duration, confirm ConfirmFunc, log zerolog.Logger) *LockManager {
	if ttl <= 0 {
		ttl = LockTTL
	}
	return &LockManager{
		dir:     dir,
		session: session,
		ttl:     ttl,
		confirm: confirm,
		log:     log.With().Str("cmp", "todo-lock").Logger(),
	}
}

func (m *LockManager) lockPath(id string) string {
	return filepath.Join(m.dir, id+".lock")
}

// Acquire takes the lock for a record id. On success the returned release
// function must be deferred immediately; it removes the lock file no matter
// how the protected operation ends.
//
// A fresh foreign lock fails with ErrLocked. A stale lock is reclaimed after
// interactive confirmation, or fails with ErrStaleLock when no confirmation
// capability is available or the user declines.
func (m *LockManager) Acquire(id string) (release func(), err error) {
	path := m.lockPath(id)

	if release, err = m.tryCreate(path, id); err == nil {
		return release, nil
	}
	if !errors.Is(err, os.ErrExist) {
		return nil, fmt.Errorf("create lock file: %w", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			// Holder released between our attempts; try once more.
			return m.tryCreate(path, id)
		}
		return nil, fmt.Errorf("inspect lock file: %w", err)
	}

	age := time.Since(info.ModTime())
	if age < m.ttl {
		holder := m.readHolder(path)
		return nil, fmt.Errorf("%w: held by session %s for %s", ErrLocked, holder, age.Round(time.Second))
	}

	if m.confirm == nil {
		return nil, fmt.Errorf("%w: lock for %s is %s old; rerun interactively to reclaim", ErrStaleLock, id, age.Round(time.Second))
	}

	ok, err := m.confirm(
		"Reclaim stale lock?",
		fmt.Sprintf("Record %s is locked by session %s, last touched %s ago.", id, m.readHolder(path), age.Round(time.Second)),
	)
	if err != nil {
		return nil, fmt.Errorf("confirm stale lock reclaim: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: reclaim declined", ErrStaleLock)
	}

	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("remove stale lock: %w", err)
	}

	m.log.Debug().Str("id", id).Dur("age", age).Msg("stale lock reclaimed")

	release, err = m.tryCreate(path, id)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return nil, fmt.Errorf("%w: relocked by session %s", ErrLocked, m.readHolder(path))
		}
		return nil, fmt.Errorf("create lock file: %w", err)
	}
	return release, nil
}

// tryCreate creates the lock file exclusively and writes the holder payload.
func (m *LockManager) tryCreate(path, id string) (func(), error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, err
	}

	payload := LockInfo{
		ID:        id,
		PID:       os.Getpid(),
		Session:   m.session,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
	}
	if encErr := json.NewEncoder(f).Encode(payload); encErr != nil {
		m.log.Warn().Err(encErr).Str("id", id).Msg("write lock payload")
	}
	if err := f.Close(); err != nil {
		m.log.Warn().Err(err).Str("id", id).Msg("close lock file")
	}

	return func() {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			m.log.Warn().Err(err).Str("id", id).Msg("release lock")
		}
	}, nil
}

// readHolder returns the session recorded in a lock file, or a placeholder
// when the payload is unreadable.
func (m *LockManager) readHolder(path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		return "unknown"
	}

	var info LockInfo
	if err := json.Unmarshal(data, &info); err != nil || info.Session == "" {
		return "unknown"
	}
	return info.Session
}
