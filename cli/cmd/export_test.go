package cmd

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/statlens-io/statlens/cli/output"
)

type stubWriteCloser struct {
	bytes.Buffer
	closeErr error
	closed   bool
}

func (s *stubWriteCloser) Close() error {
	s.closed = true
	return s.closeErr
}

func TestWriteExport(t *testing.T) {
	w := &stubWriteCloser{}
	payload := exportPayload{Snapshot: exportSnapshot{ID: "0a1b", Path: "stats.json"}}

	if err := writeExport(w, output.FormatJSON, payload); err != nil {
		t.Fatalf("writeExport failed: %v", err)
	}
	if !w.closed {
		t.Error("Expected the writer to be closed")
	}

	var got exportPayload
	if err := json.Unmarshal(w.Bytes(), &got); err != nil {
		t.Fatalf("Output is not valid JSON: %v", err)
	}
	if got.Snapshot.ID != "0a1b" {
		t.Errorf("Expected snapshot id '0a1b', got %q", got.Snapshot.ID)
	}
}

func TestWriteExportCloseError(t *testing.T) {
	w := &stubWriteCloser{closeErr: errors.New("device out of space")}

	err := writeExport(w, output.FormatJSON, exportPayload{})
	if err == nil {
		t.Fatal("Expected the close error to surface")
	}
	if !strings.Contains(err.Error(), "device out of space") {
		t.Errorf("Unexpected error: %v", err)
	}
	if !w.closed {
		t.Error("Expected the writer to be closed")
	}
}
