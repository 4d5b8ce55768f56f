// Package stats implements the normalized bundle report model and the
// resolvers that answer size and dependency queries against it.
//
// A Report is built once from a parsed stats document and is immutable
// afterwards; every resolver call is a pure read, so concurrent queries
// against the same Report need no coordination.
package stats

// Shape identifies which detection rule produced a Report.
type Shape string

const (
	// ShapeModules is a single-build document with top-level module detail.
	ShapeModules Shape = "modules"
	// ShapeChild is a multi-build document resolved to its first child
	// that carries an assets array.
	ShapeChild Shape = "child"
	// ShapeChildFallback is a multi-build document none of whose children
	// carry an assets array; the top-level document was used instead.
	ShapeChildFallback Shape = "child-fallback"
	// ShapeAssets is a single-build document with assets but no module detail.
	ShapeAssets Shape = "assets"
)

// Problem is a build error or warning. Producers disagree on the shape
// (bare strings vs. rich objects), so problem values pass through the
// normalizer untouched.
type Problem interface{}

// Report is the canonical view of one build's stats document. All slices
// are non-nil after normalization; Assets is sorted descending by size.
type Report struct {
	Assets        []Asset   `json:"assets" yaml:"assets"`
	Chunks        []Chunk   `json:"chunks" yaml:"chunks"`
	Modules       []Module  `json:"modules" yaml:"modules"`
	Errors        []Problem `json:"errors" yaml:"errors"`
	Warnings      []Problem `json:"warnings" yaml:"warnings"`
	ErrorsCount   int       `json:"errorsCount" yaml:"errorsCount"`
	WarningsCount int       `json:"warningsCount" yaml:"warningsCount"`

	// Shape records which detection rule matched during normalization.
	Shape Shape `json:"-" yaml:"-"`
}

// Asset is a named build output file.
type Asset struct {
	Name string `json:"name" yaml:"name"`
	Size int64  `json:"size" yaml:"size"`
	// Chunks holds the chunk references (ids, string or numeric) the
	// asset was emitted from.
	Chunks     []interface{} `json:"chunks" yaml:"chunks"`
	ChunkNames []string      `json:"chunkNames" yaml:"chunkNames"`
}

// Chunk is an intermediate bundling unit. Its id is unique only within a
// single report and may be numeric or string.
type Chunk struct {
	ID    interface{} `json:"id" yaml:"id"`
	Size  int64       `json:"size" yaml:"size"`
	Files []string    `json:"files" yaml:"files"`
	// Modules is the chunk-embedded module detail, present only in the
	// more verbose stats formats.
	Modules []Module `json:"modules,omitempty" yaml:"modules,omitempty"`
}

// Module is a single source compilation unit. Identifier is the stable
// cross-reference key; the id may collide in type between numeric and
// string representations across references.
type Module struct {
	ID         interface{}   `json:"id" yaml:"id"`
	Identifier string        `json:"identifier" yaml:"identifier"`
	Name       string        `json:"name" yaml:"name"`
	Size       int64         `json:"size" yaml:"size"`
	Chunks     []interface{} `json:"chunks" yaml:"chunks"`
	Issuer     string        `json:"issuer" yaml:"issuer"`
	IssuerID   interface{}   `json:"issuerId" yaml:"issuerId"`
	IssuerName string        `json:"issuerName" yaml:"issuerName"`
	// Modules is non-empty when this module is a concatenation of the
	// listed sub-modules.
	Modules []Module `json:"modules,omitempty" yaml:"modules,omitempty"`
}

// Problems groups a report's diagnostics for the query surface.
type Problems struct {
	Warnings []Problem `json:"warnings" yaml:"warnings"`
	Errors   []Problem `json:"errors" yaml:"errors"`
}

// Problems returns the report's warnings and errors.
func (r *Report) Problems() Problems {
	if r == nil {
		return Problems{Warnings: []Problem{}, Errors: []Problem{}}
	}
	return Problems{Warnings: r.Warnings, Errors: r.Errors}
}

// TotalAssetSize returns the combined size of all assets in the report.
func (r *Report) TotalAssetSize() int64 {
	if r == nil {
		return 0
	}
	var total int64
	for i := range r.Assets {
		total += r.Assets[i].Size
	}
	return total
}
