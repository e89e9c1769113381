package ast

import (
	"encoding/json"
	"fmt"
)

// Print renders a File as deterministic, indented JSON for golden
// snapshot tests: every arena is walked in index order and every node
// is tagged with its concrete type name, so two files that parse to
// the same tree always print identically regardless of map iteration
// order anywhere upstream.
func Print(f *File) string {
	if f == nil {
		return "null"
	}
	data, err := json.MarshalIndent(dumpFile(f), "", "  ")
	if err != nil {
		return fmt.Sprintf("error: %v", err)
	}
	return string(data)
}

// Compact is Print without indentation, for inline assertions.
func Compact(f *File) string {
	if f == nil {
		return "null"
	}
	data, err := json.Marshal(dumpFile(f))
	if err != nil {
		return fmt.Sprintf("error: %v", err)
	}
	return string(data)
}

func dumpFile(f *File) map[string]any {
	exprs := make([]any, f.Exprs.Len())
	for i, e := range f.Exprs.All() {
		exprs[i] = dumpNode(e)
	}
	pats := make([]any, f.Pats.Len())
	for i, p := range f.Pats.All() {
		pats[i] = dumpNode(p)
	}
	stmts := make([]any, f.Stmts.Len())
	for i, s := range f.Stmts.All() {
		stmts[i] = dumpNode(s)
	}
	types := make([]any, f.Types.Len())
	for i, t := range f.Types.All() {
		types[i] = dumpNode(t)
	}
	top := make([]int32, len(f.TopLevel))
	for i, idx := range f.TopLevel {
		top[i] = int32(idx)
	}
	return map[string]any{
		"path":     f.Path,
		"exprs":    exprs,
		"patterns": pats,
		"stmts":    stmts,
		"types":    types,
		"header":   int32(f.Header),
		"topLevel": top,
	}
}

// dumpNode reflects a node's type name into the "kind" field and
// defers to encoding/json for its own exported fields; Idx-valued
// fields print as plain integers, which is enough to cross-reference
// the parallel arenas above in a snapshot diff.
func dumpNode(node any) map[string]any {
	raw, err := json.Marshal(node)
	if err != nil {
		return map[string]any{"kind": "error", "error": err.Error()}
	}
	var fields map[string]any
	if err := json.Unmarshal(raw, &fields); err != nil {
		return map[string]any{"kind": "error", "error": err.Error()}
	}
	fields["kind"] = fmt.Sprintf("%T", node)
	return fields
}
