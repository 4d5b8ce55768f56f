// Package ingest loads bundle stats files into normalized reports.
package ingest

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/statlens-io/statlens/internal/cache"
	"github.com/statlens-io/statlens/internal/stats"
)

// Snapshot is one loaded stats file: the normalized report plus the
// provenance of the bytes it was built from.
type Snapshot struct {
	ID        uuid.UUID     `json:"id"`
	Path      string        `json:"path"`
	SizeBytes int64         `json:"sizeBytes"`
	SHA256    string        `json:"sha256"`
	LoadedAt  time.Time     `json:"loadedAt"`
	FromCache bool          `json:"fromCache"`
	Report    *stats.Report `json:"-"`
}

// Loader reads, parses, and normalizes stats files.
type Loader struct {
	store *cache.Store
}

// NewLoader creates a loader. A nil store disables report caching.
func NewLoader(store *cache.Store) *Loader {
	return &Loader{store: store}
}

// Load reads the stats file at path and returns its normalized snapshot.
// Normalization failures are terminal: no partial report is ever returned,
// and the normalizer's error kinds stay checkable through the wrap.
func (l *Loader) Load(path string) (*Snapshot, error) {
	start := time.Now()

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat stats file %s: %w", path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("stats path %s is a directory", path)
	}

	data, err := os.ReadFile(path) //nolint:gosec // CLI tool reads user-provided file path
	if err != nil {
		return nil, fmt.Errorf("failed to read stats file %s: %w", path, err)
	}

	sum := sha256.Sum256(data)
	snap := &Snapshot{
		ID:        uuid.New(),
		Path:      path,
		SizeBytes: int64(len(data)),
		SHA256:    hex.EncodeToString(sum[:]),
		LoadedAt:  time.Now().UTC(),
	}

	if report, ok := l.store.Get(snap.SHA256); ok {
		snap.Report = report
		snap.FromCache = true
		log.Debug().
			Str("path", path).
			Str("sha256", snap.SHA256).
			Dur("elapsed", time.Since(start)).
			Msg("Stats report loaded from cache")
		return snap, nil
	}

	doc, err := parseJSON(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse stats file %s: %w", path, err)
	}

	report, err := stats.Normalize(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to normalize stats file %s: %w", path, err)
	}
	snap.Report = report

	if err := l.store.Put(snap.SHA256, report); err != nil {
		log.Warn().Err(err).Str("path", path).Msg("Failed to cache stats report")
	}

	log.Debug().
		Str("path", path).
		Str("shape", string(report.Shape)).
		Int64("bytes", snap.SizeBytes).
		Int("assets", len(report.Assets)).
		Int("modules", len(report.Modules)).
		Dur("elapsed", time.Since(start)).
		Msg("Stats report normalized")
	return snap, nil
}

// parseJSON decodes with UseNumber so numeric ids keep their exact
// textual form.
func parseJSON(data []byte) (interface{}, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var doc interface{}
	if err := dec.Decode(&doc); err != nil {
		return nil, err
	}
	return doc, nil
}
