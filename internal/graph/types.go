package graph

import "fmt"

// Kind classifies a node. The set is closed: extractors for new languages must
// map their constructs onto these kinds rather than inventing new ones.
type Kind string

const (
	KindFile      Kind = "file"
	KindFunction  Kind = "function"
	KindClass     Kind = "class"
	KindComponent Kind = "component"
	KindImport    Kind = "import"
	KindExport    Kind = "export"
)

// Relation classifies an edge.
type Relation string

const (
	RelationImports Relation = "imports"
	RelationExports Relation = "exports"
	RelationDefines Relation = "defines"
	RelationCalls   Relation = "calls"
	RelationRenders Relation = "renders"
)

// Node is a named entity in the codebase. For a file the id is the
// project-relative path; for a symbol it is "<filePath>#<name>", which keeps
// same-named symbols from different files from colliding.
type Node struct {
	ID           string  `json:"id"`
	Label        string  `json:"label"`
	Kind         Kind    `json:"kind"`
	DefiningFile string  `json:"defining_file,omitempty"`
	X            float64 `json:"x,omitempty"`
	Y            float64 `json:"y,omitempty"`
}

// Edge is a directed relationship between two node ids. Before resolution
// Target equals RawTarget; after resolution Target is a real node id and
// RawTarget is preserved verbatim for diagnostics.
type Edge struct {
	ID        string   `json:"id"`
	Source    string   `json:"source"`
	Target    string   `json:"target"`
	Kind      Relation `json:"kind"`
	RawTarget string   `json:"raw_target,omitempty"`
}

// Graph is the final node/edge set produced by one analysis run.
type Graph struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// SymbolID composes a symbol node id from its defining file and name.
func SymbolID(filePath, name string) string {
	return filePath + "#" + name
}

// EdgeID builds a deterministic edge id from the source, relation, raw target
// and a source-location discriminator, so the same relation occurring twice at
// different offsets in one file does not collide.
func EdgeID(source string, kind Relation, rawTarget string, row, col int) string {
	return fmt.Sprintf("%s-%s-%s@%d:%d", source, kind, rawTarget, row, col)
}

// FileNode returns the node representing a source file.
func FileNode(filePath string) Node {
	return Node{ID: filePath, Label: filePath, Kind: KindFile}
}
