package cache

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/statlens-io/statlens/internal/stats"
)

// schemaVersion guards cached payloads against struct drift. Bump it
// whenever the payload layout changes; older entries then read as misses.
const schemaVersion uint16 = 1

// Id kinds. Ids are interface-typed on the report, so they travel as a
// tagged kind+text pair to keep the string/number distinction intact.
const (
	idKindNone uint8 = iota
	idKindString
	idKindNumber
)

type rawID struct {
	Kind uint8  `msgpack:"k"`
	Text string `msgpack:"t"`
}

func encodeID(v interface{}) rawID {
	switch id := v.(type) {
	case string:
		return rawID{Kind: idKindString, Text: id}
	case json.Number:
		return rawID{Kind: idKindNumber, Text: id.String()}
	case float64:
		return rawID{Kind: idKindNumber, Text: strconv.FormatFloat(id, 'f', -1, 64)}
	case int:
		return rawID{Kind: idKindNumber, Text: strconv.Itoa(id)}
	case int64:
		return rawID{Kind: idKindNumber, Text: strconv.FormatInt(id, 10)}
	}
	return rawID{Kind: idKindNone}
}

func (r rawID) value() interface{} {
	switch r.Kind {
	case idKindString:
		return r.Text
	case idKindNumber:
		return json.Number(r.Text)
	default:
		return nil
	}
}

type reportPayload struct {
	Schema        uint16          `msgpack:"schema"`
	Shape         string          `msgpack:"shape"`
	Assets        []assetPayload  `msgpack:"assets"`
	Chunks        []chunkPayload  `msgpack:"chunks"`
	Modules       []modulePayload `msgpack:"modules"`
	Errors        []byte          `msgpack:"errors"`
	Warnings      []byte          `msgpack:"warnings"`
	ErrorsCount   int             `msgpack:"errorsCount"`
	WarningsCount int             `msgpack:"warningsCount"`
}

type assetPayload struct {
	Name       string   `msgpack:"name"`
	Size       int64    `msgpack:"size"`
	Chunks     []rawID  `msgpack:"chunks"`
	ChunkNames []string `msgpack:"chunkNames"`
}

type chunkPayload struct {
	ID      rawID           `msgpack:"id"`
	Size    int64           `msgpack:"size"`
	Files   []string        `msgpack:"files"`
	Modules []modulePayload `msgpack:"modules"`
}

type modulePayload struct {
	ID         rawID           `msgpack:"id"`
	Identifier string          `msgpack:"identifier"`
	Name       string          `msgpack:"name"`
	Size       int64           `msgpack:"size"`
	Chunks     []rawID         `msgpack:"chunks"`
	Issuer     string          `msgpack:"issuer"`
	IssuerID   rawID           `msgpack:"issuerId"`
	IssuerName string          `msgpack:"issuerName"`
	Modules    []modulePayload `msgpack:"modules"`
}

// newReportPayload converts a normalized report to its cacheable form.
// Opaque problem values travel as JSON bytes since msgpack cannot round
// trip arbitrary interface values faithfully.
func newReportPayload(r *stats.Report) (*reportPayload, error) {
	errsJSON, err := json.Marshal(r.Errors)
	if err != nil {
		return nil, fmt.Errorf("failed to encode report errors: %w", err)
	}
	warnsJSON, err := json.Marshal(r.Warnings)
	if err != nil {
		return nil, fmt.Errorf("failed to encode report warnings: %w", err)
	}

	p := &reportPayload{
		Schema:        schemaVersion,
		Shape:         string(r.Shape),
		Assets:        make([]assetPayload, len(r.Assets)),
		Chunks:        make([]chunkPayload, len(r.Chunks)),
		Modules:       encodeModules(r.Modules),
		Errors:        errsJSON,
		Warnings:      warnsJSON,
		ErrorsCount:   r.ErrorsCount,
		WarningsCount: r.WarningsCount,
	}
	for i := range r.Assets {
		a := &r.Assets[i]
		p.Assets[i] = assetPayload{
			Name:       a.Name,
			Size:       a.Size,
			Chunks:     encodeIDs(a.Chunks),
			ChunkNames: a.ChunkNames,
		}
	}
	for i := range r.Chunks {
		c := &r.Chunks[i]
		p.Chunks[i] = chunkPayload{
			ID:      encodeID(c.ID),
			Size:    c.Size,
			Files:   c.Files,
			Modules: encodeModules(c.Modules),
		}
	}
	return p, nil
}

// report converts a cached payload back to a normalized report.
func (p *reportPayload) report() (*stats.Report, error) {
	errs, err := decodeProblems(p.Errors)
	if err != nil {
		return nil, fmt.Errorf("failed to decode report errors: %w", err)
	}
	warns, err := decodeProblems(p.Warnings)
	if err != nil {
		return nil, fmt.Errorf("failed to decode report warnings: %w", err)
	}

	r := &stats.Report{
		Shape:         stats.Shape(p.Shape),
		Assets:        make([]stats.Asset, len(p.Assets)),
		Chunks:        make([]stats.Chunk, len(p.Chunks)),
		Modules:       decodeModules(p.Modules),
		Errors:        errs,
		Warnings:      warns,
		ErrorsCount:   p.ErrorsCount,
		WarningsCount: p.WarningsCount,
	}
	for i := range p.Assets {
		a := &p.Assets[i]
		r.Assets[i] = stats.Asset{
			Name:       a.Name,
			Size:       a.Size,
			Chunks:     decodeIDs(a.Chunks),
			ChunkNames: nonNilStrings(a.ChunkNames),
		}
	}
	for i := range p.Chunks {
		c := &p.Chunks[i]
		r.Chunks[i] = stats.Chunk{
			ID:    c.ID.value(),
			Size:  c.Size,
			Files: nonNilStrings(c.Files),
		}
		if len(c.Modules) > 0 {
			r.Chunks[i].Modules = decodeModules(c.Modules)
		}
	}
	return r, nil
}

func encodeModules(mods []stats.Module) []modulePayload {
	if len(mods) == 0 {
		return nil
	}
	out := make([]modulePayload, len(mods))
	for i := range mods {
		m := &mods[i]
		out[i] = modulePayload{
			ID:         encodeID(m.ID),
			Identifier: m.Identifier,
			Name:       m.Name,
			Size:       m.Size,
			Chunks:     encodeIDs(m.Chunks),
			Issuer:     m.Issuer,
			IssuerID:   encodeID(m.IssuerID),
			IssuerName: m.IssuerName,
			Modules:    encodeModules(m.Modules),
		}
	}
	return out
}

func decodeModules(payloads []modulePayload) []stats.Module {
	out := make([]stats.Module, len(payloads))
	for i := range payloads {
		p := &payloads[i]
		out[i] = stats.Module{
			ID:         p.ID.value(),
			Identifier: p.Identifier,
			Name:       p.Name,
			Size:       p.Size,
			Chunks:     decodeIDs(p.Chunks),
			Issuer:     p.Issuer,
			IssuerID:   p.IssuerID.value(),
			IssuerName: p.IssuerName,
		}
		if len(p.Modules) > 0 {
			out[i].Modules = decodeModules(p.Modules)
		}
	}
	return out
}

func encodeIDs(refs []interface{}) []rawID {
	out := make([]rawID, len(refs))
	for i, ref := range refs {
		out[i] = encodeID(ref)
	}
	return out
}

func decodeIDs(refs []rawID) []interface{} {
	out := make([]interface{}, 0, len(refs))
	for _, ref := range refs {
		if v := ref.value(); v != nil {
			out = append(out, v)
		}
	}
	return out
}

func decodeProblems(data []byte) ([]stats.Problem, error) {
	if len(data) == 0 {
		return []stats.Problem{}, nil
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var values []interface{}
	if err := dec.Decode(&values); err != nil {
		return nil, err
	}
	problems := make([]stats.Problem, 0, len(values))
	for _, v := range values {
		problems = append(problems, v)
	}
	return problems, nil
}

func nonNilStrings(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
