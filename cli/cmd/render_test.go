package cmd

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/statlens-io/statlens/internal/stats"
)

func TestModuleTable(t *testing.T) {
	modules := []*stats.Module{
		{ID: json.Number("1"), Identifier: "./src/a.js", Name: "./src/a.js", Size: 5000},
		{ID: "app", Identifier: "./src/b.js", Size: 100},
		{Identifier: "./src/c.js", Name: "./src/c.js" + strings.Repeat("x", 100), Size: 0},
	}

	data := moduleTable(modules)

	if len(data.Rows) != 3 {
		t.Fatalf("Expected 3 rows, got %d", len(data.Rows))
	}

	if data.Rows[0][0] != "1" {
		t.Errorf("Expected id '1', got %q", data.Rows[0][0])
	}
	if data.Rows[0][2] != "4.9 KB" {
		t.Errorf("Expected size '4.9 KB', got %q", data.Rows[0][2])
	}

	// A module without a name falls back to its identifier.
	if data.Rows[1][1] != "./src/b.js" {
		t.Errorf("Expected identifier fallback, got %q", data.Rows[1][1])
	}

	// A module without an id renders an empty cell.
	if data.Rows[2][0] != "" {
		t.Errorf("Expected empty id cell, got %q", data.Rows[2][0])
	}

	// Long names are truncated for table display.
	if len(data.Rows[2][1]) != 80 || !strings.HasSuffix(data.Rows[2][1], "...") {
		t.Errorf("Expected truncated name, got %q", data.Rows[2][1])
	}
}

func TestFormatChunkRefs(t *testing.T) {
	refs := []interface{}{json.Number("0"), "vendors", json.Number("2")}
	if got := formatChunkRefs(refs); got != "0, vendors, 2" {
		t.Errorf("Unexpected chunk refs: %q", got)
	}

	if got := formatChunkRefs(nil); got != "" {
		t.Errorf("Expected empty string for no refs, got %q", got)
	}
}

func TestProblemText(t *testing.T) {
	if got := problemText("plain message"); got != "plain message" {
		t.Errorf("Unexpected text: %q", got)
	}

	rich := map[string]interface{}{"message": "Module not found", "moduleName": "./a.js"}
	if got := problemText(rich); got != "Module not found" {
		t.Errorf("Unexpected text: %q", got)
	}

	// Entries without a message field fall back to their JSON encoding.
	odd := map[string]interface{}{"details": "no message field"}
	if got := problemText(odd); !strings.Contains(got, "no message field") {
		t.Errorf("Expected JSON fallback to include details, got %q", got)
	}
}
