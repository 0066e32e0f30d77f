// Package resolver maps the raw edge targets produced by extraction onto
// concrete node ids. Path-like import specifiers go through filesystem-style
// resolution against the walked file set; everything else falls through a
// lookup chain that ends by synthesizing an external import node, so no
// reference is ever silently lost.
package resolver

import (
	"path"
	"sort"
	"strings"

	"go.uber.org/zap"

	"codegraph/internal/graph"
)

// candidateExts is the probe order for extensionless import specifiers.
// TypeScript variants come before JavaScript so that a project carrying both
// a.ts and a.js resolves ./a to the TypeScript file.
var candidateExts = []string{".tsx", ".ts", ".jsx", ".js", ".mjs", ".py", ".go"}

type Resolver struct {
	logger *zap.Logger
}

func New(logger *zap.Logger) *Resolver {
	return &Resolver{logger: logger}
}

// Resolve rewrites every edge target to a known node id, synthesizing file
// and external import nodes where needed, and drops edges whose endpoints
// still cannot be tied to a node. Input nodes are assumed deduplicated.
func (r *Resolver) Resolve(nodes []graph.Node, edges []graph.Edge, files []string) ([]graph.Node, []graph.Edge) {
	fileSet := make(map[string]struct{}, len(files))
	for _, f := range files {
		fileSet[f] = struct{}{}
	}
	sortedFiles := append([]string(nil), files...)
	sort.Strings(sortedFiles)

	byID := make(map[string]struct{}, len(nodes))
	for _, n := range nodes {
		byID[n.ID] = struct{}{}
	}

	// Label index for bare-name lookups. Last write wins on collisions; the
	// source-local probe earlier in the chain is what gives same-file symbols
	// priority over this map.
	byLabel := make(map[string]string)
	for _, n := range nodes {
		if n.Kind == graph.KindFile {
			continue
		}
		if n.Label != "" {
			byLabel[n.Label] = n.ID
		}
		if idx := strings.LastIndex(n.ID, "#"); idx >= 0 {
			byLabel[n.ID[idx+1:]] = n.ID
		}
	}

	synthesized := make(map[string]struct{})
	synthesize := func(n graph.Node) {
		if _, ok := byID[n.ID]; ok {
			return
		}
		if _, ok := synthesized[n.ID]; ok {
			return
		}
		synthesized[n.ID] = struct{}{}
		nodes = append(nodes, n)
		byID[n.ID] = struct{}{}
		if n.Kind != graph.KindFile && n.Label != "" {
			byLabel[n.Label] = n.ID
		}
	}

	resolved := make([]graph.Edge, 0, len(edges))
	for _, e := range edges {
		raw := e.RawTarget
		if raw == "" {
			raw = e.Target
		}

		target := ""
		if e.Kind == graph.RelationImports && isPathLike(raw) {
			if p, ok := r.resolvePath(e.Source, raw, fileSet); ok {
				target = p
				synthesize(graph.FileNode(p))
			}
		}
		if target == "" {
			target = r.resolveSymbol(e.Source, raw, byID, byLabel, sortedFiles, synthesize)
		}

		e.Target = target
		resolved = append(resolved, e)
	}

	// Retention pass: an edge survives only with both endpoints present.
	kept := resolved[:0]
	for _, e := range resolved {
		_, srcOK := byID[e.Source]
		_, dstOK := byID[e.Target]
		if !srcOK || !dstOK {
			r.logger.Warn("dropping dangling edge",
				zap.String("edge", e.ID),
				zap.String("source", e.Source),
				zap.String("target", e.Target))
			continue
		}
		kept = append(kept, e)
	}
	return nodes, kept
}

func isPathLike(raw string) bool {
	return strings.HasPrefix(raw, ".") || strings.HasPrefix(raw, "/")
}

func knownExt(ext string) bool {
	for _, e := range candidateExts {
		if e == ext {
			return true
		}
	}
	return false
}

// resolvePath resolves a path-like specifier against the file set: the exact
// path when its extension is already known, then each candidate extension in
// priority order, then an index file inside the named directory.
func (r *Resolver) resolvePath(sourceFile, raw string, fileSet map[string]struct{}) (string, bool) {
	var base string
	if strings.HasPrefix(raw, "/") {
		// project-root-absolute specifier
		base = path.Clean(strings.TrimPrefix(raw, "/"))
	} else {
		base = path.Clean(path.Join(path.Dir(sourceFile), raw))
	}

	if knownExt(path.Ext(base)) {
		if _, ok := fileSet[base]; ok {
			return base, true
		}
	}
	for _, ext := range candidateExts {
		if _, ok := fileSet[base+ext]; ok {
			return base + ext, true
		}
	}
	for _, ext := range candidateExts {
		idx := base + "/index" + ext
		if _, ok := fileSet[idx]; ok {
			return idx, true
		}
	}
	return "", false
}

// resolveSymbol is the generic lookup chain: exact id, source-local symbol,
// bare label, case-insensitive file-path substring, and finally a synthesized
// external import node carrying the raw target as both id and label.
func (r *Resolver) resolveSymbol(source, raw string, byID map[string]struct{}, byLabel map[string]string, sortedFiles []string, synthesize func(graph.Node)) string {
	if _, ok := byID[raw]; ok {
		return raw
	}

	sourceFile := source
	if idx := strings.Index(sourceFile, "#"); idx >= 0 {
		sourceFile = sourceFile[:idx]
	}
	if local := graph.SymbolID(sourceFile, raw); local != raw {
		if _, ok := byID[local]; ok {
			return local
		}
	}

	if id, ok := byLabel[raw]; ok {
		return id
	}

	lower := strings.ToLower(raw)
	if lower == "" {
		return raw
	}
	for _, f := range sortedFiles {
		if strings.Contains(strings.ToLower(f), lower) {
			synthesize(graph.FileNode(f))
			return f
		}
	}

	synthesize(graph.Node{ID: raw, Label: raw, Kind: graph.KindImport})
	return raw
}
