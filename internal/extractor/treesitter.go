package extractor

import (
	"strings"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_go "github.com/tree-sitter/tree-sitter-go/bindings/go"
	tree_sitter_javascript "github.com/tree-sitter/tree-sitter-javascript/bindings/go"
	tree_sitter_python "github.com/tree-sitter/tree-sitter-python/bindings/go"
	tree_sitter_typescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"
	"go.uber.org/zap"

	"codegraph/internal/graph"
)

func grammarFor(lang string) *tree_sitter.Language {
	switch lang {
	case "javascript":
		return tree_sitter.NewLanguage(tree_sitter_javascript.Language())
	case "typescript":
		return tree_sitter.NewLanguage(tree_sitter_typescript.LanguageTypescript())
	case "tsx":
		return tree_sitter.NewLanguage(tree_sitter_typescript.LanguageTSX())
	case "python":
		return tree_sitter.NewLanguage(tree_sitter_python.Language())
	case "go":
		return tree_sitter.NewLanguage(tree_sitter_go.Language())
	}
	return nil
}

// parseTree parses source with a fresh parser. Returns nil when the parser
// cannot be set up; syntax errors do not fail the parse, tree-sitter yields a
// partial tree instead, which is exactly what the partial-failure policy
// wants.
func parseTree(grammar *tree_sitter.Language, source []byte) *tree_sitter.Tree {
	parser := tree_sitter.NewParser()
	defer parser.Close()
	if err := parser.SetLanguage(grammar); err != nil {
		return nil
	}
	return parser.Parse(source, nil)
}

// queryExtractor runs the per-language query from Queries and maps capture
// names onto the node/edge taxonomy. Used for Python and Go, whose constructs
// all fall out of a flat capture list.
type queryExtractor struct {
	lang    string
	grammar *tree_sitter.Language
	query   string
	logger  *zap.Logger
}

func newQueryExtractor(lang string, logger *zap.Logger) *queryExtractor {
	return &queryExtractor{
		lang:    lang,
		grammar: grammarFor(lang),
		query:   Queries[lang],
		logger:  logger,
	}
}

func (e *queryExtractor) Language() string { return e.lang }

func (e *queryExtractor) Extract(filePath string, source []byte) RawUnit {
	b := newUnitBuilder(filePath)

	tree := parseTree(e.grammar, source)
	if tree == nil {
		e.logger.Warn("parse failed, keeping file node only",
			zap.String("file", filePath), zap.String("language", e.lang))
		return b.unit()
	}
	defer tree.Close()

	query, qerr := tree_sitter.NewQuery(e.grammar, e.query)
	if qerr != nil {
		e.logger.Warn("query compile failed, keeping file node only",
			zap.String("language", e.lang), zap.String("error", qerr.Message))
		return b.unit()
	}
	defer query.Close()

	cursor := tree_sitter.NewQueryCursor()
	defer cursor.Close()

	names := query.CaptureNames()
	matches := cursor.Matches(query, tree.RootNode(), source)
	for m := matches.Next(); m != nil; m = matches.Next() {
		for _, c := range m.Captures {
			node := c.Node
			text := node.Utf8Text(source)
			row := int(node.StartPosition().Row) + 1
			col := int(node.StartPosition().Column)

			switch names[c.Index] {
			case "def.function":
				b.addDefinition(text, graph.KindFunction, row, col)
			case "def.class":
				b.addDefinition(text, graph.KindClass, row, col)
			case "import.module":
				b.addEdge(graph.RelationImports, text, row, col)
			case "import.path":
				b.addEdge(graph.RelationImports, strings.Trim(text, "\"`"), row, col)
			case "call.name":
				b.addEdge(graph.RelationCalls, text, row, col)
			}
		}
	}
	return b.unit()
}
