package stats

import (
	"encoding/json"
	"errors"
	"math"
	"sort"
	"strconv"

	"github.com/rs/zerolog/log"
)

var (
	// ErrNotAnObject is returned when the parsed document is not a JSON object.
	ErrNotAnObject = errors.New("stats document is not a JSON object")
	// ErrUnrecognizedShape is returned when no known report shape matches.
	ErrUnrecognizedShape = errors.New("unrecognized stats document shape")
	// ErrMissingAssets is returned when a multi-build document has neither
	// a child with an assets array nor a top-level one to fall back to.
	ErrMissingAssets = errors.New("stats document is missing an assets array")
)

// selection is the outcome of a matched shape rule: the object to
// normalize plus the shape tag recorded on the Report.
type selection struct {
	doc   map[string]interface{}
	shape Shape
}

// shapeRules are tried in order and the first rule that claims the
// document decides which object gets normalized. Order matters: top-level
// module detail wins over child reports, which win over bare asset lists.
var shapeRules = []func(map[string]interface{}) (selection, bool, error){
	detectModuleReport,
	detectChildReport,
	detectAssetReport,
}

// Normalize turns an arbitrary parsed JSON value into a canonical Report.
// The input document is never mutated; the Report is a fresh value tree.
//
// Numeric ids keep their exact textual form when the document was decoded
// with json.Decoder.UseNumber; ids parsed as float64 are converted to the
// equivalent json.Number.
func Normalize(doc interface{}) (*Report, error) {
	obj, ok := doc.(map[string]interface{})
	if !ok {
		return nil, ErrNotAnObject
	}
	for _, detect := range shapeRules {
		sel, ok, err := detect(obj)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		return buildReport(sel), nil
	}
	return nil, ErrUnrecognizedShape
}

func detectModuleReport(obj map[string]interface{}) (selection, bool, error) {
	if mods, ok := obj["modules"].([]interface{}); ok && len(mods) > 0 {
		return selection{doc: obj, shape: ShapeModules}, true, nil
	}
	return selection{}, false, nil
}

func detectChildReport(obj map[string]interface{}) (selection, bool, error) {
	children, ok := obj["children"].([]interface{})
	if !ok || len(children) == 0 {
		return selection{}, false, nil
	}
	for _, child := range children {
		childObj, ok := child.(map[string]interface{})
		if !ok {
			continue
		}
		if _, ok := childObj["assets"].([]interface{}); ok {
			return selection{doc: childObj, shape: ShapeChild}, true, nil
		}
	}
	if _, ok := obj["assets"].([]interface{}); ok {
		log.Warn().Msg("No child report carries an assets array, using the top-level document (module detail unavailable)")
		return selection{doc: obj, shape: ShapeChildFallback}, true, nil
	}
	return selection{}, false, ErrMissingAssets
}

func detectAssetReport(obj map[string]interface{}) (selection, bool, error) {
	if _, ok := obj["assets"].([]interface{}); ok {
		return selection{doc: obj, shape: ShapeAssets}, true, nil
	}
	return selection{}, false, nil
}

func buildReport(sel selection) *Report {
	r := &Report{
		Shape:    sel.shape,
		Assets:   buildAssets(sel.doc["assets"]),
		Chunks:   buildChunks(sel.doc["chunks"]),
		Modules:  buildModules(sel.doc["modules"]),
		Errors:   buildProblems(sel.doc["errors"]),
		Warnings: buildProblems(sel.doc["warnings"]),
	}
	r.ErrorsCount = problemCount(sel.doc["errorsCount"], r.Errors)
	r.WarningsCount = problemCount(sel.doc["warningsCount"], r.Warnings)

	sort.SliceStable(r.Assets, func(i, j int) bool {
		return r.Assets[i].Size > r.Assets[j].Size
	})
	return r
}

func buildAssets(v interface{}) []Asset {
	arr, ok := v.([]interface{})
	if !ok {
		return []Asset{}
	}
	assets := make([]Asset, 0, len(arr))
	for _, el := range arr {
		obj, ok := el.(map[string]interface{})
		if !ok {
			continue
		}
		assets = append(assets, Asset{
			Name:       stringOf(obj["name"]),
			Size:       sizeOf(obj["size"]),
			Chunks:     chunkRefs(obj["chunks"]),
			ChunkNames: stringsOf(obj["chunkNames"]),
		})
	}
	return assets
}

func buildChunks(v interface{}) []Chunk {
	arr, ok := v.([]interface{})
	if !ok {
		return []Chunk{}
	}
	chunks := make([]Chunk, 0, len(arr))
	for _, el := range arr {
		obj, ok := el.(map[string]interface{})
		if !ok {
			continue
		}
		chunk := Chunk{
			ID:    idValue(obj["id"]),
			Size:  sizeOf(obj["size"]),
			Files: stringsOf(obj["files"]),
		}
		if mods := buildModules(obj["modules"]); len(mods) > 0 {
			chunk.Modules = mods
		}
		chunks = append(chunks, chunk)
	}
	return chunks
}

func buildModules(v interface{}) []Module {
	arr, ok := v.([]interface{})
	if !ok {
		return []Module{}
	}
	mods := make([]Module, 0, len(arr))
	for _, el := range arr {
		obj, ok := el.(map[string]interface{})
		if !ok {
			continue
		}
		m := Module{
			ID:         idValue(obj["id"]),
			Identifier: stringOf(obj["identifier"]),
			Name:       stringOf(obj["name"]),
			Size:       sizeOf(obj["size"]),
			Chunks:     chunkRefs(obj["chunks"]),
			Issuer:     stringOf(obj["issuer"]),
			IssuerID:   idValue(obj["issuerId"]),
			IssuerName: stringOf(obj["issuerName"]),
		}
		if nested := buildModules(obj["modules"]); len(nested) > 0 {
			m.Modules = nested
		}
		mods = append(mods, m)
	}
	return mods
}

func buildProblems(v interface{}) []Problem {
	arr, ok := v.([]interface{})
	if !ok {
		return []Problem{}
	}
	problems := make([]Problem, 0, len(arr))
	for _, el := range arr {
		problems = append(problems, el)
	}
	return problems
}

// problemCount keeps an explicit numeric count from the source document
// and derives the count from the array otherwise.
func problemCount(v interface{}, problems []Problem) int {
	switch n := v.(type) {
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return int(i)
		}
		if f, err := n.Float64(); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
			return int(f)
		}
	case float64:
		if !math.IsNaN(n) && !math.IsInf(n, 0) {
			return int(n)
		}
	case int:
		return n
	case int64:
		return int(n)
	}
	return len(problems)
}

// sizeOf coerces a size value to bytes; missing or non-finite sizes
// count as 0.
func sizeOf(v interface{}) int64 {
	switch n := v.(type) {
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return i
		}
		if f, err := n.Float64(); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
			return int64(f)
		}
	case float64:
		if !math.IsNaN(n) && !math.IsInf(n, 0) {
			return int64(n)
		}
	case int:
		return int64(n)
	case int64:
		return n
	}
	return 0
}

// idValue keeps an id in scalar form: strings stay strings, numbers
// become json.Number, anything else normalizes to nil.
func idValue(v interface{}) interface{} {
	switch id := v.(type) {
	case string:
		return id
	case json.Number:
		return id
	case float64:
		if math.IsNaN(id) || math.IsInf(id, 0) {
			return nil
		}
		return json.Number(strconv.FormatFloat(id, 'f', -1, 64))
	case int:
		return json.Number(strconv.Itoa(id))
	case int64:
		return json.Number(strconv.FormatInt(id, 10))
	}
	return nil
}

// chunkRefs keeps the scalar chunk references of an asset or module;
// non-scalar entries are dropped since nothing can match them.
func chunkRefs(v interface{}) []interface{} {
	arr, ok := v.([]interface{})
	if !ok {
		return []interface{}{}
	}
	refs := make([]interface{}, 0, len(arr))
	for _, el := range arr {
		if ref := idValue(el); ref != nil {
			refs = append(refs, ref)
		}
	}
	return refs
}

func stringOf(v interface{}) string {
	s, _ := v.(string)
	return s
}

func stringsOf(v interface{}) []string {
	arr, ok := v.([]interface{})
	if !ok {
		return []string{}
	}
	out := make([]string, 0, len(arr))
	for _, el := range arr {
		if s, ok := el.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
