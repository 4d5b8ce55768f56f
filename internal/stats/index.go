package stats

import (
	"encoding/json"
	"math"
	"strconv"
)

// Index provides constant-time module lookup by id or identifier. It is
// built once per Report and read-only afterwards.
//
// The index interns every module occurrence reachable in the report: the
// top-level list, chunk-embedded lists, and concatenation children. The
// same logical module is often reachable through several of those paths,
// so occurrences dedupe by identifier (canonical id when the identifier
// is empty) and the first occurrence in document order wins.
type Index struct {
	byID         map[string]*Module
	byIdentifier map[string]*Module
	interned     map[string]*Module
	modules      []*Module
}

// NewIndex builds the module index for a normalized report.
func NewIndex(r *Report) *Index {
	ix := &Index{
		byID:         make(map[string]*Module),
		byIdentifier: make(map[string]*Module),
		interned:     make(map[string]*Module),
	}
	if r == nil {
		return ix
	}
	for i := range r.Modules {
		ix.intern(&r.Modules[i])
	}
	for i := range r.Chunks {
		chunk := &r.Chunks[i]
		for j := range chunk.Modules {
			ix.intern(&chunk.Modules[j])
		}
	}
	return ix
}

// intern registers one module occurrence and, depth-first, its
// concatenation children.
func (ix *Index) intern(m *Module) {
	key, ok := internKey(m)
	switch {
	case !ok:
		// No identifier and no id: unaddressable, but still part of the
		// module universe for linear scans.
		ix.modules = append(ix.modules, m)
	case ix.interned[key] == nil:
		ix.interned[key] = m
		ix.modules = append(ix.modules, m)
		if ck, ok := canonicalKey(m.ID); ok {
			if _, exists := ix.byID[ck]; !exists {
				ix.byID[ck] = m
			}
		}
		if m.Identifier != "" {
			if _, exists := ix.byIdentifier[m.Identifier]; !exists {
				ix.byIdentifier[m.Identifier] = m
			}
		}
	}
	for i := range m.Modules {
		ix.intern(&m.Modules[i])
	}
}

// ByID returns the module whose id stringifies equal to id. Numeric and
// string representations of the same id ("5" vs 5) hit the same entry.
func (ix *Index) ByID(id interface{}) (*Module, bool) {
	key, ok := canonicalKey(id)
	if !ok {
		return nil, false
	}
	m, ok := ix.byID[key]
	return m, ok
}

// ByIdentifier returns the module with the exact identifier.
func (ix *Index) ByIdentifier(identifier string) (*Module, bool) {
	if identifier == "" {
		return nil, false
	}
	m, ok := ix.byIdentifier[identifier]
	return m, ok
}

// Modules returns every distinct module in the report, in document order.
func (ix *Index) Modules() []*Module {
	return ix.modules
}

// Len returns the number of distinct modules in the report.
func (ix *Index) Len() int {
	return len(ix.modules)
}

// canonical maps a module occurrence to its interned instance.
func (ix *Index) canonical(m *Module) *Module {
	if key, ok := internKey(m); ok {
		if c := ix.interned[key]; c != nil {
			return c
		}
	}
	return m
}

// internKey is the stable dedup key of a module: the identifier when
// present, else the canonical id.
func internKey(m *Module) (string, bool) {
	if m.Identifier != "" {
		return "i|" + m.Identifier, true
	}
	if ck, ok := canonicalKey(m.ID); ok {
		return "d|" + ck, true
	}
	return "", false
}

// canonicalKey converts an id to its canonical string form so that
// numeric and string representations of the same id compare equal.
// Strings pass through untouched; numbers render the way a decimal
// formatter would print them (1e3 and 1000.0 both become "1000").
func canonicalKey(id interface{}) (string, bool) {
	switch v := id.(type) {
	case string:
		return v, true
	case json.Number:
		return canonicalNumber(v.String()), true
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return "", false
		}
		return strconv.FormatFloat(v, 'f', -1, 64), true
	case int:
		return strconv.Itoa(v), true
	case int64:
		return strconv.FormatInt(v, 10), true
	}
	return "", false
}

func canonicalNumber(s string) string {
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return strconv.FormatInt(i, 10)
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	return s
}
