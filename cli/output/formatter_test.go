package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input   string
		want    Format
		wantErr bool
	}{
		{"table", FormatTable, false},
		{"", FormatTable, false},
		{"json", FormatJSON, false},
		{"JSON", FormatJSON, false},
		{"yaml", FormatYAML, false},
		{"yml", FormatYAML, false},
		{"csv", "", true},
	}

	for _, tt := range tests {
		got, err := ParseFormat(tt.input)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseFormat(%q) expected error, got %q", tt.input, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseFormat(%q) failed: %v", tt.input, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseFormat(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestPrintJSON(t *testing.T) {
	var buf bytes.Buffer
	f := &Formatter{Format: FormatJSON, Writer: &buf}

	if err := f.Print(map[string]int{"size": 5000}); err != nil {
		t.Fatalf("Print failed: %v", err)
	}

	var decoded map[string]int
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("Output is not valid JSON: %v", err)
	}
	if decoded["size"] != 5000 {
		t.Errorf("Expected size 5000, got %d", decoded["size"])
	}
}

func TestPrintYAML(t *testing.T) {
	var buf bytes.Buffer
	f := &Formatter{Format: FormatYAML, Writer: &buf}

	if err := f.Print(map[string]string{"name": "main.js"}); err != nil {
		t.Fatalf("Print failed: %v", err)
	}

	if !strings.Contains(buf.String(), "name: main.js") {
		t.Errorf("Expected YAML key-value in output, got: %q", buf.String())
	}
}

func TestQuietSuppressesOutput(t *testing.T) {
	var buf bytes.Buffer
	f := &Formatter{Format: FormatTable, Quiet: true, Writer: &buf}

	if err := f.Print(map[string]string{"name": "main.js"}); err != nil {
		t.Fatalf("Print failed: %v", err)
	}
	f.PrintTable(TableData{Headers: []string{"NAME"}, Rows: [][]string{{"main.js"}}})
	f.PrintSuccess("done")
	f.PrintWarning("warn")
	f.PrintInfo("info")
	f.PrintKeyValue("key", "value")

	if buf.Len() != 0 {
		t.Errorf("Expected no output in quiet mode, got: %q", buf.String())
	}
}

func TestPrintTable(t *testing.T) {
	var buf bytes.Buffer
	f := &Formatter{Format: FormatTable, Writer: &buf}

	f.PrintTable(TableData{
		Headers:   []string{"NAME", "SIZE"},
		Rows:      [][]string{{"main.js", "4.9 KB"}},
		Alignment: []int{AlignLeft, AlignRight},
	})

	output := buf.String()
	if !strings.Contains(output, "NAME") {
		t.Error("Expected header in output")
	}
	if !strings.Contains(output, "main.js") {
		t.Error("Expected row value in output")
	}
}

func TestPrintTableNoHeaders(t *testing.T) {
	var buf bytes.Buffer
	f := &Formatter{Format: FormatTable, NoHeaders: true, Writer: &buf}

	f.PrintTable(TableData{
		Headers: []string{"NAME"},
		Rows:    [][]string{{"main.js"}},
	})

	output := buf.String()
	if strings.Contains(output, "NAME") {
		t.Error("Expected headers to be suppressed")
	}
	if !strings.Contains(output, "main.js") {
		t.Error("Expected row value in output")
	}
}

func TestPrintTableJSONMode(t *testing.T) {
	var buf bytes.Buffer
	f := &Formatter{Format: FormatJSON, Writer: &buf}

	f.PrintTable(TableData{
		Headers: []string{"NAME", "SIZE"},
		Rows:    [][]string{{"main.js", "4.9 KB"}},
	})

	var rows []map[string]string
	if err := json.Unmarshal(buf.Bytes(), &rows); err != nil {
		t.Fatalf("Output is not valid JSON: %v", err)
	}
	if len(rows) != 1 || rows[0]["NAME"] != "main.js" {
		t.Errorf("Unexpected rows: %v", rows)
	}
}

func TestPrintKeyValue(t *testing.T) {
	var buf bytes.Buffer
	f := &Formatter{Format: FormatTable, Writer: &buf}

	f.PrintKeyValue("Assets", "3")

	if buf.String() != "Assets: 3\n" {
		t.Errorf("Unexpected output: %q", buf.String())
	}
}

func TestPrintWarning(t *testing.T) {
	var buf bytes.Buffer
	f := &Formatter{Format: FormatTable, Writer: &buf}

	f.PrintWarning("deprecated loader")

	if buf.String() != "warning: deprecated loader\n" {
		t.Errorf("Unexpected output: %q", buf.String())
	}
}
