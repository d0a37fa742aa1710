// Package host defines the capability surface the policy packages are
// allowed to depend on. A concrete agent runtime (or the CLI, or a test)
// supplies an implementation; policy code never imports a runtime type.
package host

import (
	"encoding/json"
	"time"
)

// Decision is the verdict on an intercepted operation.
type Decision struct {
	Allowed bool   `json:"allowed"`
	Reason  string `json:"reason,omitempty"`
}

// Allow returns a permitting decision.
func Allow() Decision { return Decision{Allowed: true} }

// Block returns a vetoing decision with a reason for the caller.
func Block(reason string) Decision { return Decision{Allowed: false, Reason: reason} }

// Entry is one opaque tagged record in a session's append-only log.
type Entry struct {
	Tag  string          `json:"tag"`
	Time time.Time       `json:"time"`
	Data json.RawMessage `json:"data"`
}

// Decode unmarshals the entry payload into v.
func (e Entry) Decode(v any) error {
	return json.Unmarshal(e.Data, v)
}

// Tools exposes the host's active tool set.
type Tools interface {
	// Active returns the names of the currently enabled tools.
	Active() []string

	// SetActive replaces the enabled tool set.
	SetActive(tools []string)
}

// EntryLog is an append-only ordered log of tagged records, replayed in
// order when a session is reconstructed.
type EntryLog interface {
	// Append serializes v and adds a tagged entry at the end of the log.
	Append(tag string, v any) error

	// Entries returns the full log in append order.
	Entries() ([]Entry, error)
}

// UI exposes the host's interactive affordances. Implementations running
// without a user attached no-op the one-way calls and fail Confirm.
type UI interface {
	// Notify shows a non-blocking message to the user.
	Notify(msg string)

	// Confirm asks a yes/no question. Returns an error when no
	// interactive capability is available.
	Confirm(title, description string) (bool, error)

	// SetStatus updates the persistent status affordance.
	SetStatus(status string)

	// PrefillInput places text into the user's input area if it is empty.
	PrefillInput(text string)
}

// Host aggregates the capabilities a policy engine consumes.
type Host interface {
	SessionID() string
	Tools() Tools
	Log() EntryLog
	UI() UI
}
