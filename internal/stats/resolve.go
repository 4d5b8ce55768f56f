package stats

import (
	"sort"
	"strings"
)

// Resolver answers asset and dependency queries against a normalized
// Report and its Index. "Nothing found" is always a valid empty result,
// never an error.
type Resolver struct {
	report *Report
	index  *Index
}

// NewResolver creates a resolver over a report and its index.
func NewResolver(r *Report, ix *Index) *Resolver {
	return &Resolver{report: r, index: ix}
}

// AssetModules returns the modules that contribute to the named asset,
// sorted descending by size. Resolution follows chunk membership first:
// chunks referenced by the asset contribute their embedded module lists.
// Shallower stats formats omit chunk-embedded detail, so when membership
// yields nothing the flat module list is scanned for modules whose own
// chunk references intersect the asset's.
func (rs *Resolver) AssetModules(name string) []*Module {
	result := []*Module{}
	if rs == nil || rs.report == nil || rs.index == nil {
		return result
	}

	var asset *Asset
	for i := range rs.report.Assets {
		if rs.report.Assets[i].Name == name {
			asset = &rs.report.Assets[i]
			break
		}
	}
	if asset == nil || len(rs.report.Chunks) == 0 {
		return result
	}

	wanted := refSet(asset.Chunks)
	if len(wanted) == 0 {
		return result
	}

	seen := make(map[*Module]struct{})
	add := func(m *Module) {
		c := rs.index.canonical(m)
		if _, dup := seen[c]; dup {
			return
		}
		seen[c] = struct{}{}
		result = append(result, c)
	}

	for i := range rs.report.Chunks {
		chunk := &rs.report.Chunks[i]
		if len(chunk.Modules) == 0 {
			continue
		}
		if ck, ok := canonicalKey(chunk.ID); !ok || !wanted[ck] {
			continue
		}
		for j := range chunk.Modules {
			add(&chunk.Modules[j])
		}
	}

	if len(result) == 0 {
		for _, m := range rs.index.Modules() {
			if intersects(m.Chunks, wanted) {
				add(m)
			}
		}
	}

	sortBySizeDesc(result)
	return result
}

// ModuleDependents returns the modules that directly depend on the module
// referenced by ref, sorted descending by size. The reference may be an
// id, an identifier, or, when it contains a path separator, a module name.
//
// A concatenated module records its merged sources in its own modules
// list; that list is the dependent set and the issuer scan is skipped.
// Otherwise dependents are the modules whose issuerId stringifies equal
// to the target's id or whose issuer equals the target's identifier.
func (rs *Resolver) ModuleDependents(ref string) []*Module {
	result := []*Module{}
	if rs == nil || rs.report == nil || rs.index == nil {
		return result
	}

	target := rs.findTarget(ref)
	if target == nil {
		return result
	}

	seen := make(map[*Module]struct{})
	add := func(m *Module) {
		c := rs.index.canonical(m)
		if _, dup := seen[c]; dup {
			return
		}
		seen[c] = struct{}{}
		result = append(result, c)
	}

	if len(target.Modules) > 0 {
		for i := range target.Modules {
			add(&target.Modules[i])
		}
		sortBySizeDesc(result)
		return result
	}

	targetID, hasID := canonicalKey(target.ID)
	for _, m := range rs.index.Modules() {
		if hasID {
			// An issuer-id match settles the candidate; the identifier
			// check is skipped for it.
			if ik, ok := canonicalKey(m.IssuerID); ok && ik == targetID {
				add(m)
				continue
			}
		}
		if target.Identifier != "" && m.Issuer == target.Identifier {
			add(m)
		}
	}

	sortBySizeDesc(result)
	return result
}

// findTarget resolves a module reference: by id, then by identifier, then
// for path-like references by exact name.
func (rs *Resolver) findTarget(ref string) *Module {
	if m, ok := rs.index.ByID(ref); ok {
		return m
	}
	if m, ok := rs.index.ByIdentifier(ref); ok {
		return m
	}
	if strings.ContainsAny(ref, `/\`) {
		for _, m := range rs.index.Modules() {
			if m.Name == ref {
				return m
			}
		}
	}
	return nil
}

func refSet(refs []interface{}) map[string]bool {
	set := make(map[string]bool, len(refs))
	for _, ref := range refs {
		if ck, ok := canonicalKey(ref); ok {
			set[ck] = true
		}
	}
	return set
}

func intersects(refs []interface{}, wanted map[string]bool) bool {
	for _, ref := range refs {
		if ck, ok := canonicalKey(ref); ok && wanted[ck] {
			return true
		}
	}
	return false
}

func sortBySizeDesc(mods []*Module) {
	sort.SliceStable(mods, func(i, j int) bool {
		return mods[i].Size > mods[j].Size
	})
}
