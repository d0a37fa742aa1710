// Package todo implements a flat-file record store for agent and operator
// task tracking: one markdown file per record with a front-matter header,
// advisory per-record lock files, and age-based cleanup of closed records.
package todo

import (
	"errors"
	"strings"
	"time"
)

var (
	// ErrNotFound is returned when a record does not exist.
	ErrNotFound = errors.New("todo record not found")
	// ErrLocked is returned when another session holds a fresh lock.
	ErrLocked = errors.New("todo record is locked")
	// ErrStaleLock is returned when a stale lock exists but cannot be
	// reclaimed without interactive confirmation.
	ErrStaleLock = errors.New("stale lock requires interactive confirmation")
	// ErrIDExhausted is returned when no free random id could be found
	// within the bounded number of attempts.
	ErrIDExhausted = errors.New("could not generate a unique record id")
)

// DisplayPrefix is the prefix used when rendering record ids for humans.
const DisplayPrefix = "#"

// Record is a single todo entry as persisted on disk.
type Record struct {
	ID        string   `json:"id"`
	Title     string   `json:"title"`
	Tags      []string `json:"tags,omitempty"`
	Status    string   `json:"status"`
	CreatedAt string   `json:"created_at"`
	Body      string   `json:"body,omitempty"`
}

// DisplayID returns the human-facing form of the record id.
func (r Record) DisplayID() string {
	return DisplayPrefix + r.ID
}

// Closed reports whether the record's status is terminal.
func (r Record) Closed() bool {
	return IsClosed(r.Status)
}

// IsClosed reports whether a status string is terminal. Status values are
// free-form; only "closed" and "done" (case-insensitive) end a record's life.
func IsClosed(status string) bool {
	switch strings.ToLower(strings.TrimSpace(status)) {
	case "closed", "done":
		return true
	}
	return false
}

// NormalizeID strips the optional display marker and "todo-" prefix so ids
// copied from rendered output resolve to their file names.
func NormalizeID(id string) string {
	id = strings.TrimSpace(id)
	id = strings.TrimPrefix(id, DisplayPrefix)

	lower := strings.ToLower(id)
	if strings.HasPrefix(lower, "todo-") {
		id = id[len("todo-"):]
	}

	return strings.TrimSpace(id)
}

// ParseCreatedAt parses a record timestamp. Records written by this store
// use RFC 3339, but files are hand-editable so parse failures are expected
// and reported rather than papered over.
func ParseCreatedAt(value string) (time.Time, error) {
	return time.Parse(time.RFC3339, strings.TrimSpace(value))
}
