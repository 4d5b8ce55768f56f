// Package cache persists normalized reports on disk, keyed by the SHA-256
// digest of the raw stats file they were built from. A changed stats file
// therefore never hits a stale report.
package cache

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/statlens-io/statlens/internal/stats"
)

const entryExt = ".msgpack"

// Store is a disk cache of normalized reports. Corrupt, stale, or
// unreadable entries degrade to misses, never to errors.
type Store struct {
	mu         sync.Mutex
	dir        string
	maxEntries int
}

// Open opens (creating if needed) a store rooted at dir, keeping at most
// maxEntries entries. An empty dir selects the user cache directory.
func Open(dir string, maxEntries int) (*Store, error) {
	if dir == "" {
		base, err := os.UserCacheDir()
		if err != nil {
			return nil, fmt.Errorf("failed to locate user cache directory: %w", err)
		}
		dir = filepath.Join(base, "statlens")
	}
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create cache directory %s: %w", dir, err)
	}
	s := &Store{dir: dir, maxEntries: maxEntries}
	s.mu.Lock()
	s.prune()
	s.mu.Unlock()
	return s, nil
}

// Dir returns the directory backing the store.
func (s *Store) Dir() string {
	return s.dir
}

// Get returns the cached report for digest, or ok=false on a miss.
func (s *Store) Get(digest string) (*stats.Report, bool) {
	if s == nil {
		return nil, false
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.entryPath(digest))
	if err != nil {
		return nil, false
	}
	var p reportPayload
	if err := msgpack.Unmarshal(data, &p); err != nil {
		log.Debug().Err(err).Str("digest", digest).Msg("Discarding unreadable cache entry")
		return nil, false
	}
	if p.Schema != schemaVersion {
		log.Debug().
			Uint16("entry_schema", p.Schema).
			Uint16("schema", schemaVersion).
			Str("digest", digest).
			Msg("Discarding cache entry with stale schema")
		return nil, false
	}
	report, err := p.report()
	if err != nil {
		log.Debug().Err(err).Str("digest", digest).Msg("Discarding undecodable cache entry")
		return nil, false
	}
	return report, true
}

// Put stores the report under digest. Writes are atomic: the entry is
// staged to a temp file and renamed into place.
func (s *Store) Put(digest string, report *stats.Report) error {
	if s == nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := newReportPayload(report)
	if err != nil {
		return err
	}
	data, err := msgpack.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to marshal report payload: %w", err)
	}

	tmp, err := os.CreateTemp(s.dir, "entry-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create cache temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to write cache entry: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to close cache temp file: %w", err)
	}
	if err := os.Rename(tmpName, s.entryPath(digest)); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to move cache entry into place: %w", err)
	}

	s.prune()
	return nil
}

// Clear removes every cache entry and returns how many were removed.
func (s *Store) Clear() (int, error) {
	if s == nil {
		return 0, nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	names, err := s.entryNames()
	if err != nil {
		return 0, fmt.Errorf("failed to read cache directory: %w", err)
	}
	removed := 0
	for _, name := range names {
		if err := os.Remove(filepath.Join(s.dir, name)); err != nil {
			return removed, fmt.Errorf("failed to remove cache entry %s: %w", name, err)
		}
		removed++
	}
	return removed, nil
}

// Len returns the number of entries currently in the cache.
func (s *Store) Len() (int, error) {
	if s == nil {
		return 0, nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	names, err := s.entryNames()
	if err != nil {
		return 0, fmt.Errorf("failed to read cache directory: %w", err)
	}
	return len(names), nil
}

// prune removes the oldest entries by modification time once the store
// exceeds maxEntries. Caller holds mu.
func (s *Store) prune() {
	if s.maxEntries <= 0 {
		return
	}
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return
	}
	type aged struct {
		name  string
		mtime time.Time
	}
	var files []aged
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != entryExt {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		files = append(files, aged{name: e.Name(), mtime: info.ModTime()})
	}
	if len(files) <= s.maxEntries {
		return
	}
	sort.Slice(files, func(i, j int) bool { return files[i].mtime.Before(files[j].mtime) })
	for _, f := range files[:len(files)-s.maxEntries] {
		if err := os.Remove(filepath.Join(s.dir, f.name)); err == nil {
			log.Debug().Str("entry", f.name).Msg("Pruned cache entry")
		}
	}
}

func (s *Store) entryNames() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, err
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != entryExt {
			continue
		}
		names = append(names, e.Name())
	}
	return names, nil
}

func (s *Store) entryPath(digest string) string {
	return filepath.Join(s.dir, digest+entryExt)
}
