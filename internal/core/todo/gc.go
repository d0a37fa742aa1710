package todo

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// GarbageCollect deletes closed records older than the directory's gcDays
// setting. Cleanup is best-effort: unreadable files and unparseable
// timestamps are skipped, never deleted. Returns the ids that were removed.
func (s *Store) GarbageCollect(ctx context.Context) ([]string, error) {
	settings := LoadSettings(s.dir)
	if !settings.GC {
		return nil, nil
	}

	cutoff := time.Now().Add(-time.Duration(settings.GCDays) * 24 * time.Hour)

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var removed []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".md") {
			continue
		}

		path := filepath.Join(s.dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			s.log.Debug().Err(err).Str("file", entry.Name()).Msg("gc: skipping unreadable record")
			continue
		}

		record := ParseHeader(string(data))
		if !record.Closed() {
			continue
		}

		created, err := ParseCreatedAt(record.CreatedAt)
		if err != nil {
			s.log.Debug().Str("file", entry.Name()).Str("created_at", record.CreatedAt).Msg("gc: skipping unparseable timestamp")
			continue
		}
		if !created.Before(cutoff) {
			continue
		}

		if err := os.Remove(path); err != nil {
			s.log.Debug().Err(err).Str("file", entry.Name()).Msg("gc: remove failed")
			continue
		}

		id := record.ID
		if id == "" {
			id = strings.TrimSuffix(entry.Name(), ".md")
		}
		removed = append(removed, id)
	}

	if len(removed) > 0 {
		s.log.Info().Int("count", len(removed)).Msg("gc: removed closed records")
	}
	return removed, nil
}
