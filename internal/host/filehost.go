package host

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/rs/zerolog"
	"golang.org/x/term"
)

// ErrNonInteractive is returned by Confirm when no terminal is attached.
var ErrNonInteractive = errors.New("no interactive terminal available")

// FileHost is a Host backed by flat files under a session state directory.
// The CLI uses it so plan-mode state survives between invocations the same
// way a live runtime's session log would.
type FileHost struct {
	session string
	dir     string
	log     zerolog.Logger
	mu      sync.Mutex
}

// NewFileHost creates a file-backed host rooted at dir.
func NewFileHost(dir, session string, log zerolog.Logger) *FileHost {
	return &FileHost{
		session: session,
		dir:     dir,
		log:     log.With().Str("cmp", "filehost").Str("session", session).Logger(),
	}
}

func (h *FileHost) SessionID() string { return h.session }
func (h *FileHost) Tools() Tools      { return (*fileTools)(h) }
func (h *FileHost) Log() EntryLog     { return (*fileLog)(h) }
func (h *FileHost) UI() UI            { return (*fileUI)(h) }

func (h *FileHost) logPath() string {
	return filepath.Join(h.dir, h.session+".log.jsonl")
}

func (h *FileHost) toolsPath() string {
	return filepath.Join(h.dir, h.session+".tools.json")
}

type fileTools FileHost

func (t *fileTools) Active() []string {
	t.mu.Lock()
	defer t.mu.Unlock()

	data, err := os.ReadFile((*FileHost)(t).toolsPath())
	if err != nil {
		return nil
	}

	var tools []string
	if err := json.Unmarshal(data, &tools); err != nil {
		t.log.Debug().Err(err).Msg("malformed tools file, treating as unset")
		return nil
	}
	return tools
}

func (t *fileTools) SetActive(tools []string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	h := (*FileHost)(t)
	if err := os.MkdirAll(h.dir, 0o755); err != nil {
		t.log.Warn().Err(err).Msg("create session dir")
		return
	}

	data, err := json.Marshal(tools)
	if err != nil {
		t.log.Warn().Err(err).Msg("marshal tools")
		return
	}
	if err := os.WriteFile(h.toolsPath(), data, 0o644); err != nil {
		t.log.Warn().Err(err).Msg("write tools file")
	}
}

type fileLog FileHost

func (l *fileLog) Append(tag string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal entry: %w", err)
	}

	entry := Entry{Tag: tag, Time: time.Now().UTC(), Data: data}
	line, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshal entry envelope: %w", err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	h := (*FileHost)(l)
	if err := os.MkdirAll(h.dir, 0o755); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}

	f, err := os.OpenFile(h.logPath(), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open session log: %w", err)
	}
	defer func() { _ = f.Close() }()

	if _, err := f.Write(append(line, '\n')); err != nil {
		return fmt.Errorf("append session log: %w", err)
	}
	return nil
}

func (l *fileLog) Entries() ([]Entry, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	f, err := os.Open((*FileHost)(l).logPath())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("open session log: %w", err)
	}
	defer func() { _ = f.Close() }()

	var entries []Entry
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		var entry Entry
		if err := json.Unmarshal(scanner.Bytes(), &entry); err != nil {
			l.log.Debug().Err(err).Msg("skipping malformed log line")
			continue
		}
		entries = append(entries, entry)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read session log: %w", err)
	}
	return entries, nil
}

type fileUI FileHost

func (u *fileUI) Notify(msg string) {
	_, _ = fmt.Fprintln(os.Stderr, msg)
}

func (u *fileUI) Confirm(title, description string) (bool, error) {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return false, ErrNonInteractive
	}

	var ok bool
	err := huh.NewConfirm().
		Title(title).
		Description(description).
		Value(&ok).
		Run()
	if err != nil {
		return false, err
	}
	return ok, nil
}

func (u *fileUI) SetStatus(status string) {
	u.log.Debug().Str("status", status).Msg("status updated")
}

func (u *fileUI) PrefillInput(text string) {
	// The CLI has no persistent input area to prefill.
	u.log.Debug().Str("text", text).Msg("prefill ignored")
}
