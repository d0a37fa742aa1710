package todo

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/sahilm/fuzzy"

	"github.com/colonyops/stagehand/pkg/randid"
)

const (
	idLength = 8
	// maxIDAttempts bounds collision-checked id generation; exceeding it
	// means the directory is absurdly full or the RNG is broken.
	maxIDAttempts = 50

	// DefaultStatus is assigned to records created without one.
	DefaultStatus = "open"
)

// Patch carries the fields an Update call wants to change. Nil pointers are
// left untouched on the stored record.
type Patch struct {
	Title  *string
	Tags   *[]string
	Status *string
	Body   *string
}

// Store is a one-file-per-record todo store rooted at a single directory.
type Store struct {
	dir   string
	locks *LockManager
	log   zerolog.Logger
}

// NewStore creates a store over dir using the given lock manager.
func NewStore(dir string, locks *LockManager, log zerolog.Logger) *Store {
	return &Store{
		dir:   dir,
		locks: locks,
		log:   log.With().Str("cmp", "todo-store").Logger(),
	}
}

// Dir returns the store's record directory.
func (s *Store) Dir() string { return s.dir }

func (s *Store) recordPath(id string) string {
	return filepath.Join(s.dir, id+".md")
}

// Create writes a new record with a fresh collision-checked id.
func (s *Store) Create(ctx context.Context, title string, tags []string, status, body string) (Record, error) {
	id, err := s.generateID()
	if err != nil {
		return Record{}, err
	}

	if status == "" {
		status = DefaultStatus
	}

	record := Record{
		ID:        id,
		Title:     title,
		Tags:      tags,
		Status:    status,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
		Body:      NormalizeBody(body),
	}

	release, err := s.locks.Acquire(id)
	if err != nil {
		return Record{}, err
	}
	defer release()

	if err := s.write(record); err != nil {
		return Record{}, err
	}

	s.log.Debug().Str("id", id).Str("title", title).Msg("record created")
	return record, nil
}

// Get reads a single record. The id may carry display decorations.
func (s *Store) Get(ctx context.Context, id string) (Record, error) {
	id = NormalizeID(id)

	data, err := os.ReadFile(s.recordPath(id))
	if err != nil {
		if os.IsNotExist(err) {
			return Record{}, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return Record{}, fmt.Errorf("read record %s: %w", id, err)
	}

	record := Parse(string(data))
	if record.ID == "" {
		// File without front matter; the file name is still authoritative.
		record.ID = id
	}
	return record, nil
}

// Update merges the provided fields into an existing record.
func (s *Store) Update(ctx context.Context, id string, patch Patch) (Record, error) {
	id = NormalizeID(id)

	record, err := s.Get(ctx, id)
	if err != nil {
		return Record{}, err
	}

	release, err := s.locks.Acquire(id)
	if err != nil {
		return Record{}, err
	}
	defer release()

	if patch.Title != nil {
		record.Title = *patch.Title
	}
	if patch.Tags != nil {
		record.Tags = *patch.Tags
	}
	if patch.Status != nil {
		record.Status = *patch.Status
	}
	if patch.Body != nil {
		record.Body = NormalizeBody(*patch.Body)
	}
	if record.CreatedAt == "" {
		record.CreatedAt = time.Now().UTC().Format(time.RFC3339)
	}

	if err := s.write(record); err != nil {
		return Record{}, err
	}
	return record, nil
}

// Append adds text to the end of a record's body, separated from existing
// content by a single blank line.
func (s *Store) Append(ctx context.Context, id, text string) (Record, error) {
	id = NormalizeID(id)

	if strings.TrimSpace(text) == "" {
		return Record{}, fmt.Errorf("append to %s: text is empty", id)
	}

	record, err := s.Get(ctx, id)
	if err != nil {
		return Record{}, err
	}

	release, err := s.locks.Acquire(id)
	if err != nil {
		return Record{}, err
	}
	defer release()

	if record.Body == "" {
		record.Body = NormalizeBody(text)
	} else {
		record.Body = NormalizeBody(strings.TrimRight(record.Body, "\n") + "\n\n" + text)
	}

	if err := s.write(record); err != nil {
		return Record{}, err
	}
	return record, nil
}

// Delete removes a record file and returns the record as it was.
func (s *Store) Delete(ctx context.Context, id string) (Record, error) {
	id = NormalizeID(id)

	record, err := s.Get(ctx, id)
	if err != nil {
		return Record{}, err
	}

	release, err := s.locks.Acquire(id)
	if err != nil {
		return Record{}, err
	}
	defer release()

	if err := os.Remove(s.recordPath(id)); err != nil {
		if os.IsNotExist(err) {
			return Record{}, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return Record{}, fmt.Errorf("delete record %s: %w", id, err)
	}

	s.log.Debug().Str("id", id).Msg("record deleted")
	return record, nil
}

// List returns open records sorted open-before-closed, then by created_at
// ascending. (The open-before-closed key is a no-op here but keeps the
// ordering contract shared with ListAll.)
func (s *Store) List(ctx context.Context) ([]Record, error) {
	all, err := s.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	open := make([]Record, 0, len(all))
	for _, r := range all {
		if !r.Closed() {
			open = append(open, r)
		}
	}
	return open, nil
}

// ListAll returns every record, front matter only, sorted open-before-closed
// then by created_at ascending within each group.
func (s *Store) ListAll(ctx context.Context) ([]Record, error) {
	records, err := s.scanHeaders()
	if err != nil {
		return nil, err
	}

	sort.SliceStable(records, func(i, j int) bool {
		ri, rj := records[i], records[j]
		if ri.Closed() != rj.Closed() {
			return !ri.Closed()
		}
		return createdBefore(ri.CreatedAt, rj.CreatedAt)
	})

	return records, nil
}

// Search returns records where every whitespace-separated query token fuzzy
// matches the record's composite search string, ranked by ascending summed
// match cost with open records before closed ones.
func (s *Store) Search(ctx context.Context, query string) ([]Record, error) {
	tokens := strings.Fields(query)
	if len(tokens) == 0 {
		return s.ListAll(ctx)
	}

	records, err := s.scanHeaders()
	if err != nil {
		return nil, err
	}

	type ranked struct {
		record Record
		cost   int
	}

	var results []ranked
	for _, r := range records {
		composite := searchText(r)

		cost, ok := 0, true
		for _, token := range tokens {
			matches := fuzzy.Find(token, []string{composite})
			if len(matches) == 0 {
				ok = false
				break
			}
			// fuzzy scores higher-is-better; invert into a cost.
			cost -= matches[0].Score
		}
		if ok {
			results = append(results, ranked{record: r, cost: cost})
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].cost != results[j].cost {
			return results[i].cost < results[j].cost
		}
		return !results[i].record.Closed() && results[j].record.Closed()
	})

	out := make([]Record, len(results))
	for i, r := range results {
		out[i] = r.record
	}
	return out, nil
}

// generateID produces a record id not currently present on disk.
func (s *Store) generateID() (string, error) {
	for range maxIDAttempts {
		id := randid.GenerateHex(idLength)
		if _, err := os.Stat(s.recordPath(id)); os.IsNotExist(err) {
			return id, nil
		}
	}
	return "", ErrIDExhausted
}

// scanHeaders parses the front matter of every record file in the store.
// Unreadable files are skipped: listing is best-effort over a directory a
// human may be editing.
func (s *Store) scanHeaders() ([]Record, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read todo dir: %w", err)
	}

	var records []Record
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".md") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(s.dir, entry.Name()))
		if err != nil {
			s.log.Debug().Err(err).Str("file", entry.Name()).Msg("skipping unreadable record")
			continue
		}

		record := ParseHeader(string(data))
		if record.ID == "" {
			record.ID = strings.TrimSuffix(entry.Name(), ".md")
		}
		records = append(records, record)
	}

	return records, nil
}

// write persists a record. The file is written whole; records are small.
func (s *Store) write(record Record) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create todo dir: %w", err)
	}
	if err := os.WriteFile(s.recordPath(record.ID), []byte(Serialize(record)), 0o644); err != nil {
		return fmt.Errorf("write record %s: %w", record.ID, err)
	}
	return nil
}

// searchText builds the composite string tokens are matched against.
func searchText(r Record) string {
	parts := []string{r.DisplayID(), r.ID, r.Title}
	parts = append(parts, r.Tags...)
	parts = append(parts, r.Status)
	return strings.Join(parts, " ")
}

// createdBefore orders created_at values: parseable timestamps first in
// chronological order, unparseable ones after in lexical order.
func createdBefore(a, b string) bool {
	ta, errA := ParseCreatedAt(a)
	tb, errB := ParseCreatedAt(b)

	switch {
	case errA == nil && errB == nil:
		return ta.Before(tb)
	case errA == nil:
		return true
	case errB == nil:
		return false
	default:
		return a < b
	}
}
