package extractor

import (
	"strings"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"
	"go.uber.org/zap"

	"codegraph/internal/graph"
)

// scriptExtractor walks JavaScript, TypeScript and TSX trees by hand. The
// export and JSX shapes need more context than a flat capture list gives, so
// unlike the query-based extractors this one dispatches on node kinds.
type scriptExtractor struct {
	lang    string
	grammar *tree_sitter.Language
	jsx     bool
	logger  *zap.Logger
}

func newScriptExtractor(lang string, logger *zap.Logger) *scriptExtractor {
	return &scriptExtractor{
		lang:    lang,
		grammar: grammarFor(lang),
		jsx:     lang != "typescript", // plain .ts has no JSX form
		logger:  logger,
	}
}

func (e *scriptExtractor) Language() string { return e.lang }

func (e *scriptExtractor) Extract(filePath string, source []byte) RawUnit {
	b := newUnitBuilder(filePath)

	tree := parseTree(e.grammar, source)
	if tree == nil {
		e.logger.Warn("parse failed, keeping file node only",
			zap.String("file", filePath), zap.String("language", e.lang))
		return b.unit()
	}
	defer tree.Close()

	e.walk(tree.RootNode(), source, b)
	return b.unit()
}

func (e *scriptExtractor) walk(node *tree_sitter.Node, source []byte, b *unitBuilder) {
	switch node.Kind() {
	case "import_statement":
		if spec := stringContent(node.ChildByFieldName("source"), source); spec != "" {
			row, col := pos(node)
			b.addEdge(graph.RelationImports, spec, row, col)
		}
		return

	case "export_statement":
		e.extractExport(node, source, b)
		return

	case "function_declaration", "generator_function_declaration":
		e.extractNamedDefinition(node, source, b)

	case "class_declaration":
		e.extractNamedDefinition(node, source, b)

	case "interface_declaration", "type_alias_declaration", "enum_declaration":
		if name := node.ChildByFieldName("name"); name != nil {
			row, col := pos(node)
			b.addDefinition(name.Utf8Text(source), graph.KindClass, row, col)
		}

	case "lexical_declaration", "variable_declaration":
		e.extractVariableDeclarations(node, source, b)

	case "call_expression":
		e.extractCall(node, source, b)

	case "jsx_opening_element", "jsx_self_closing_element":
		e.extractComponentUsage(node, source, b)
	}

	for i := uint(0); i < node.ChildCount(); i++ {
		e.walk(node.Child(i), source, b)
	}
}

// extractExport handles named exports, default exports, export clauses and
// re-exports. Re-exports become an exports edge whose raw target is the
// re-exported module specifier; every other form gets an export node.
func (e *scriptExtractor) extractExport(node *tree_sitter.Node, source []byte, b *unitBuilder) {
	row, col := pos(node)

	// export {x} from "./m" / export * from "./m"
	if spec := stringContent(node.ChildByFieldName("source"), source); spec != "" {
		b.addEdge(graph.RelationExports, spec, row, col)
		return
	}

	isDefault := false
	for i := uint(0); i < node.ChildCount(); i++ {
		if node.Child(i).Kind() == "default" {
			isDefault = true
			break
		}
	}

	if decl := node.ChildByFieldName("declaration"); decl != nil {
		if isDefault {
			b.addExport("", row, col)
		} else if name := declaredName(decl, source); name != "" {
			b.addExport(name, row, col)
		}
		// the declaration itself still defines a symbol
		e.walk(decl, source, b)
		return
	}

	exported := false
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		if child.Kind() != "export_clause" {
			continue
		}
		for j := uint(0); j < child.ChildCount(); j++ {
			spec := child.Child(j)
			if spec.Kind() != "export_specifier" {
				continue
			}
			if name := spec.ChildByFieldName("name"); name != nil {
				srow, scol := pos(spec)
				b.addExport(name.Utf8Text(source), srow, scol)
				exported = true
			}
		}
	}
	if !exported && isDefault {
		// export default <identifier or expression>
		b.addExport("", row, col)
	}
}

func (e *scriptExtractor) extractNamedDefinition(node *tree_sitter.Node, source []byte, b *unitBuilder) {
	name := node.ChildByFieldName("name")
	if name == nil {
		return
	}
	text := name.Utf8Text(source)
	kind := graph.KindFunction
	if node.Kind() == "class_declaration" {
		kind = graph.KindClass
	}
	if e.isComponentDefinition(text, node) {
		kind = graph.KindComponent
	}
	row, col := pos(node)
	b.addDefinition(text, kind, row, col)
}

// extractVariableDeclarations captures variable-bound functions as
// definitions and CommonJS require() bindings as imports edges. Anonymous
// values with no bound identifier are not modeled.
func (e *scriptExtractor) extractVariableDeclarations(node *tree_sitter.Node, source []byte, b *unitBuilder) {
	for i := uint(0); i < node.ChildCount(); i++ {
		decl := node.Child(i)
		if decl.Kind() != "variable_declarator" {
			continue
		}
		name := decl.ChildByFieldName("name")
		value := decl.ChildByFieldName("value")
		if name == nil || value == nil || name.Kind() != "identifier" {
			continue
		}
		row, col := pos(decl)

		switch value.Kind() {
		case "arrow_function", "function_expression", "function":
			text := name.Utf8Text(source)
			kind := graph.KindFunction
			if e.isComponentDefinition(text, value) {
				kind = graph.KindComponent
			}
			b.addDefinition(text, kind, row, col)
		case "call_expression":
			if spec := requirePath(value, source); spec != "" {
				b.addEdge(graph.RelationImports, spec, row, col)
			}
		}
	}
}

// extractCall emits a calls edge keeping only the bare callee name. For
// member-style calls the qualifying object is discarded; require() and
// dynamic import() become imports edges instead.
func (e *scriptExtractor) extractCall(node *tree_sitter.Node, source []byte, b *unitBuilder) {
	fn := node.ChildByFieldName("function")
	if fn == nil {
		return
	}
	row, col := pos(node)

	switch fn.Kind() {
	case "import":
		if spec := firstStringArgument(node, source); spec != "" {
			b.addEdge(graph.RelationImports, spec, row, col)
		}
	case "identifier":
		name := fn.Utf8Text(source)
		if name == "require" {
			if spec := firstStringArgument(node, source); spec != "" {
				b.addEdge(graph.RelationImports, spec, row, col)
				return
			}
		}
		b.addEdge(graph.RelationCalls, name, row, col)
	case "member_expression":
		if prop := fn.ChildByFieldName("property"); prop != nil {
			b.addEdge(graph.RelationCalls, prop.Utf8Text(source), row, col)
		}
	}
}

func (e *scriptExtractor) extractComponentUsage(node *tree_sitter.Node, source []byte, b *unitBuilder) {
	name := node.ChildByFieldName("name")
	if name == nil {
		return
	}
	text := name.Utf8Text(source)
	// <Foo.Bar> renders Bar
	if idx := strings.LastIndex(text, "."); idx >= 0 {
		text = text[idx+1:]
	}
	if !isComponentTag(text) {
		return
	}
	row, col := pos(node)
	b.addEdge(graph.RelationRenders, text, row, col)
}

// isComponentDefinition reports whether a definition should be modeled as a
// component: upper-case name and a JSX element somewhere in its subtree.
func (e *scriptExtractor) isComponentDefinition(name string, node *tree_sitter.Node) bool {
	if !e.jsx || name == "" {
		return false
	}
	if name[0] < 'A' || name[0] > 'Z' {
		return false
	}
	return containsJSX(node, 0)
}

func containsJSX(node *tree_sitter.Node, depth int) bool {
	if depth > 64 {
		return false
	}
	if strings.HasPrefix(node.Kind(), "jsx_") {
		return true
	}
	for i := uint(0); i < node.ChildCount(); i++ {
		if containsJSX(node.Child(i), depth+1) {
			return true
		}
	}
	return false
}

// declaredName extracts the bound identifier of an exported declaration.
func declaredName(decl *tree_sitter.Node, source []byte) string {
	switch decl.Kind() {
	case "lexical_declaration", "variable_declaration":
		for i := uint(0); i < decl.ChildCount(); i++ {
			child := decl.Child(i)
			if child.Kind() != "variable_declarator" {
				continue
			}
			if name := child.ChildByFieldName("name"); name != nil && name.Kind() == "identifier" {
				return name.Utf8Text(source)
			}
		}
	default:
		if name := decl.ChildByFieldName("name"); name != nil {
			return name.Utf8Text(source)
		}
	}
	return ""
}

// requirePath returns the module path of a require("...") call, or "".
func requirePath(call *tree_sitter.Node, source []byte) string {
	fn := call.ChildByFieldName("function")
	if fn == nil || fn.Kind() != "identifier" || fn.Utf8Text(source) != "require" {
		return ""
	}
	return firstStringArgument(call, source)
}

func firstStringArgument(call *tree_sitter.Node, source []byte) string {
	args := call.ChildByFieldName("arguments")
	if args == nil {
		return ""
	}
	for i := uint(0); i < args.ChildCount(); i++ {
		if arg := args.Child(i); arg.Kind() == "string" {
			return stringContent(arg, source)
		}
	}
	return ""
}

// stringContent returns the text of a string literal without its quotes.
func stringContent(node *tree_sitter.Node, source []byte) string {
	if node == nil {
		return ""
	}
	for i := uint(0); i < node.ChildCount(); i++ {
		if child := node.Child(i); child.Kind() == "string_fragment" {
			return child.Utf8Text(source)
		}
	}
	text := node.Utf8Text(source)
	if len(text) >= 2 {
		return text[1 : len(text)-1]
	}
	return text
}

func pos(node *tree_sitter.Node) (int, int) {
	p := node.StartPosition()
	return int(p.Row) + 1, int(p.Column)
}
