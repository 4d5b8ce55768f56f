package cache

import (
	"bytes"
	"encoding/json"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/statlens-io/statlens/internal/stats"
)

func testReport(t *testing.T, raw string) *stats.Report {
	t.Helper()
	dec := json.NewDecoder(bytes.NewReader([]byte(raw)))
	dec.UseNumber()
	var doc interface{}
	require.NoError(t, dec.Decode(&doc))
	report, err := stats.Normalize(doc)
	require.NoError(t, err)
	return report
}

func newTestStore(t *testing.T, maxEntries int) *Store {
	t.Helper()
	store, err := Open(t.TempDir(), maxEntries)
	require.NoError(t, err)
	return store
}

func TestStoreRoundTrip(t *testing.T) {
	report := testReport(t, `{
		"assets": [{"name": "main.js", "size": 5000, "chunks": [0, "runtime"], "chunkNames": ["main"]}],
		"chunks": [{"id": 0, "size": 5000, "files": ["main.js"], "modules": [
			{"id": 1, "identifier": "./a.js", "name": "./a.js", "size": 3000, "chunks": [0]}
		]}],
		"modules": [
			{"id": "str-id", "identifier": "./b.js", "size": 2000, "chunks": [0], "issuerId": 1, "issuer": "./a.js"},
			{"id": 2, "identifier": "./c.js", "size": 100, "modules": [
				{"identifier": "./d.js", "size": 40}
			]}
		],
		"errors": [{"message": "boom", "moduleId": 1}],
		"warnings": ["deprecated loader"]
	}`)
	store := newTestStore(t, 16)

	require.NoError(t, store.Put("digest-1", report))

	cached, ok := store.Get("digest-1")
	require.True(t, ok)
	assert.Equal(t, report, cached)

	// The string/number id distinction has to survive the round trip.
	assert.Equal(t, "str-id", cached.Modules[0].ID)
	assert.Equal(t, json.Number("1"), cached.Modules[0].IssuerID)
	assert.Equal(t, json.Number("1"), cached.Chunks[0].Modules[0].ID)
}

func TestStoreMissOnUnknownDigest(t *testing.T) {
	store := newTestStore(t, 16)

	report, ok := store.Get("missing")
	assert.False(t, ok)
	assert.Nil(t, report)
}

func TestStoreDiscardsCorruptEntry(t *testing.T) {
	store := newTestStore(t, 16)

	require.NoError(t, os.WriteFile(store.entryPath("bad"), []byte("not msgpack"), 0o600))

	_, ok := store.Get("bad")
	assert.False(t, ok)
}

func TestStoreDiscardsStaleSchema(t *testing.T) {
	store := newTestStore(t, 16)

	data, err := msgpack.Marshal(&reportPayload{Schema: schemaVersion + 1})
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(store.entryPath("stale"), data, 0o600))

	_, ok := store.Get("stale")
	assert.False(t, ok)
}

func TestStorePrunesOldestEntries(t *testing.T) {
	store := newTestStore(t, 2)
	report := testReport(t, `{"assets": [{"name": "a.js", "size": 1}]}`)

	require.NoError(t, store.Put("first", report))
	past := time.Now().Add(-2 * time.Hour)
	require.NoError(t, os.Chtimes(store.entryPath("first"), past, past))

	require.NoError(t, store.Put("second", report))
	mid := time.Now().Add(-1 * time.Hour)
	require.NoError(t, os.Chtimes(store.entryPath("second"), mid, mid))

	require.NoError(t, store.Put("third", report))

	count, err := store.Len()
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	_, ok := store.Get("first")
	assert.False(t, ok)
	_, ok = store.Get("second")
	assert.True(t, ok)
	_, ok = store.Get("third")
	assert.True(t, ok)
}

func TestStoreClear(t *testing.T) {
	store := newTestStore(t, 16)
	report := testReport(t, `{"assets": []}`)

	require.NoError(t, store.Put("one", report))
	require.NoError(t, store.Put("two", report))

	removed, err := store.Clear()
	require.NoError(t, err)
	assert.Equal(t, 2, removed)

	count, err := store.Len()
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}
