// Package extractor turns raw source text into candidate graph nodes and
// edges. Edges leave the extractors with an unresolved raw target; mapping
// raw targets to real node ids is the resolver's job.
package extractor

import (
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"codegraph/internal/graph"
)

// RawUnit is the extraction result for a single file: one file node plus any
// symbol nodes and unresolved edges found in it.
type RawUnit struct {
	Nodes []graph.Node
	Edges []graph.Edge
}

// Extractor produces a RawUnit from one file's source text. Implementations
// must not fail on malformed input: a parse failure yields a partial unit
// (at minimum the lone file node) so one bad file cannot abort the run.
type Extractor interface {
	Language() string
	Extract(filePath string, source []byte) RawUnit
}

// Registry holds the extractor variants keyed by language tag.
type Registry struct {
	byLanguage map[string]Extractor
	logger     *zap.Logger
}

// NewRegistry builds the full extractor set: tree-sitter front-ends for
// JavaScript/TypeScript/TSX/Python/Go and the lexical fallback for script
// languages without a compiled grammar.
func NewRegistry(logger *zap.Logger) *Registry {
	r := &Registry{
		byLanguage: make(map[string]Extractor),
		logger:     logger,
	}
	register := func(e Extractor) {
		r.byLanguage[e.Language()] = e
	}

	register(newScriptExtractor("javascript", logger))
	register(newScriptExtractor("typescript", logger))
	register(newScriptExtractor("tsx", logger))
	register(newQueryExtractor("python", logger))
	register(newQueryExtractor("go", logger))
	for _, lang := range []string{"ruby", "shell", "perl", "lua"} {
		register(newLexicalExtractor(lang, logger))
	}
	return r
}

// ForLanguage returns the extractor registered for a language tag.
func (r *Registry) ForLanguage(lang string) (Extractor, bool) {
	e, ok := r.byLanguage[lang]
	return e, ok
}

// Languages returns the registered language tags.
func (r *Registry) Languages() []string {
	langs := make([]string, 0, len(r.byLanguage))
	for lang := range r.byLanguage {
		langs = append(langs, lang)
	}
	return langs
}

var extToLanguage = map[string]string{
	".js":   "javascript",
	".mjs":  "javascript",
	".cjs":  "javascript",
	".jsx":  "javascript",
	".ts":   "typescript",
	".tsx":  "tsx",
	".py":   "python",
	".go":   "go",
	".rb":   "ruby",
	".sh":   "shell",
	".bash": "shell",
	".pl":   "perl",
	".lua":  "lua",
}

// DetectLanguage maps a file path to a language tag by extension.
func DetectLanguage(path string) (string, bool) {
	lang, ok := extToLanguage[strings.ToLower(filepath.Ext(path))]
	return lang, ok
}

// unitBuilder accumulates nodes and edges for one file, deduplicating edge
// candidates by id as they are added.
type unitBuilder struct {
	file      string
	nodes     []graph.Node
	edges     []graph.Edge
	seenNodes map[string]struct{}
	seenEdges map[string]struct{}
}

func newUnitBuilder(filePath string) *unitBuilder {
	b := &unitBuilder{
		file:      filePath,
		seenNodes: make(map[string]struct{}),
		seenEdges: make(map[string]struct{}),
	}
	b.addNode(graph.FileNode(filePath))
	return b
}

func (b *unitBuilder) addNode(n graph.Node) {
	if _, ok := b.seenNodes[n.ID]; ok {
		return
	}
	b.seenNodes[n.ID] = struct{}{}
	b.nodes = append(b.nodes, n)
}

// addEdge appends an edge from the file node with an unresolved raw target.
func (b *unitBuilder) addEdge(kind graph.Relation, rawTarget string, row, col int) {
	id := graph.EdgeID(b.file, kind, rawTarget, row, col)
	if _, ok := b.seenEdges[id]; ok {
		return
	}
	b.seenEdges[id] = struct{}{}
	b.edges = append(b.edges, graph.Edge{
		ID:        id,
		Source:    b.file,
		Target:    rawTarget,
		Kind:      kind,
		RawTarget: rawTarget,
	})
}

// addDefinition records a named definition: a symbol node plus a defines edge
// from the file.
func (b *unitBuilder) addDefinition(name string, kind graph.Kind, row, col int) {
	id := graph.SymbolID(b.file, name)
	b.addNode(graph.Node{ID: id, Label: name, Kind: kind, DefiningFile: b.file})
	b.addEdge(graph.RelationDefines, id, row, col)
}

// addExport records an export binding: an export node plus an exports edge
// from the file. Pass name="" for unnamed default exports.
func (b *unitBuilder) addExport(name string, row, col int) {
	binding := "export_default"
	if name != "" {
		binding = "export_" + name
	}
	id := graph.SymbolID(b.file, binding)
	b.addNode(graph.Node{ID: id, Label: binding, Kind: graph.KindExport, DefiningFile: b.file})
	b.addEdge(graph.RelationExports, id, row, col)
}

func (b *unitBuilder) unit() RawUnit {
	return RawUnit{Nodes: b.nodes, Edges: b.edges}
}
