package host

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"
)

// MemHost is an in-memory Host used by tests and embedded callers.
type MemHost struct {
	Session string

	mu            sync.Mutex
	tools         []string
	entries       []Entry
	Notifications []string
	Statuses      []string
	Prefilled     []string

	// ConfirmAnswer drives Confirm; ConfirmErr wins when set.
	ConfirmAnswer bool
	ConfirmErr    error
}

// NewMemHost creates an in-memory host for the given session id.
func NewMemHost(session string) *MemHost {
	return &MemHost{Session: session}
}

func (m *MemHost) SessionID() string { return m.Session }
func (m *MemHost) Tools() Tools      { return (*memTools)(m) }
func (m *MemHost) Log() EntryLog     { return (*memLog)(m) }
func (m *MemHost) UI() UI            { return (*memUI)(m) }

type memTools MemHost

func (t *memTools) Active() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]string, len(t.tools))
	copy(out, t.tools)
	return out
}

func (t *memTools) SetActive(tools []string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.tools = make([]string, len(tools))
	copy(t.tools, tools)
}

type memLog MemHost

func (l *memLog) Append(tag string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal entry: %w", err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, Entry{Tag: tag, Time: time.Now(), Data: data})
	return nil
}

func (l *memLog) Entries() ([]Entry, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Entry, len(l.entries))
	copy(out, l.entries)
	return out, nil
}

type memUI MemHost

func (u *memUI) Notify(msg string) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.Notifications = append(u.Notifications, msg)
}

func (u *memUI) Confirm(title, description string) (bool, error) {
	if u.ConfirmErr != nil {
		return false, u.ConfirmErr
	}
	return u.ConfirmAnswer, nil
}

func (u *memUI) SetStatus(status string) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.Statuses = append(u.Statuses, status)
}

func (u *memUI) PrefillInput(text string) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.Prefilled = append(u.Prefilled, text)
}
