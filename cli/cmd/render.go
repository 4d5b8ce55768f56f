package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/statlens-io/statlens/cli/output"
	"github.com/statlens-io/statlens/cli/util"
	"github.com/statlens-io/statlens/internal/stats"
)

// moduleTable renders a resolved module list the way the modules and
// dependents commands display it
func moduleTable(modules []*stats.Module) output.TableData {
	data := output.TableData{
		Headers:   []string{"ID", "NAME", "SIZE"},
		Rows:      make([][]string, len(modules)),
		Alignment: []int{output.AlignLeft, output.AlignLeft, output.AlignRight},
	}

	for i, m := range modules {
		id := ""
		if m.ID != nil {
			id = fmt.Sprintf("%v", m.ID)
		}
		name := m.Name
		if name == "" {
			name = m.Identifier
		}
		data.Rows[i] = []string{
			util.TruncateString(id, 40),
			util.TruncateString(name, 80),
			stats.FormatSize(m.Size),
		}
	}

	return data
}

// formatChunkRefs joins chunk references for display; ids may be string
// or numeric
func formatChunkRefs(refs []interface{}) string {
	parts := make([]string, len(refs))
	for i, ref := range refs {
		parts[i] = fmt.Sprintf("%v", ref)
	}
	return strings.Join(parts, ", ")
}

// problemText extracts a printable message from an error or warning entry
func problemText(p stats.Problem) string {
	switch v := p.(type) {
	case string:
		return v
	case map[string]interface{}:
		if msg, ok := v["message"].(string); ok && msg != "" {
			return msg
		}
	}
	b, err := json.Marshal(p)
	if err != nil {
		return fmt.Sprintf("%v", p)
	}
	return string(b)
}
