package extractor

import (
	"testing"

	"go.uber.org/zap"

	"codegraph/internal/graph"
)

func extractWith(t *testing.T, lang, filePath, source string) RawUnit {
	t.Helper()
	reg := NewRegistry(zap.NewNop())
	e, ok := reg.ForLanguage(lang)
	if !ok {
		t.Fatalf("no extractor for %s", lang)
	}
	return e.Extract(filePath, []byte(source))
}

func hasNode(u RawUnit, id string) bool {
	for _, n := range u.Nodes {
		if n.ID == id {
			return true
		}
	}
	return false
}

func nodeKind(u RawUnit, id string) graph.Kind {
	for _, n := range u.Nodes {
		if n.ID == id {
			return n.Kind
		}
	}
	return ""
}

func hasEdge(u RawUnit, kind graph.Relation, rawTarget string) bool {
	for _, e := range u.Edges {
		if e.Kind == kind && e.RawTarget == rawTarget {
			return true
		}
	}
	return false
}

func TestJavaScriptComponentFile(t *testing.T) {
	source := `import Hero from './Hero';
import { useState } from 'react';

export default function App() {
  const [count, setCount] = useState(0);
  return (
    <div>
      <Hero />
    </div>
  );
}
`
	u := extractWith(t, "javascript", "src/App.jsx", source)

	for _, id := range []string{"src/App.jsx", "src/App.jsx#App", "src/App.jsx#export_default"} {
		if !hasNode(u, id) {
			t.Errorf("missing node %s", id)
		}
	}
	if kind := nodeKind(u, "src/App.jsx#App"); kind != graph.KindComponent {
		t.Errorf("App should be a component, got %s", kind)
	}

	if !hasEdge(u, graph.RelationImports, "./Hero") {
		t.Error("missing imports edge for ./Hero")
	}
	if !hasEdge(u, graph.RelationImports, "react") {
		t.Error("missing imports edge for react")
	}
	if !hasEdge(u, graph.RelationDefines, "src/App.jsx#App") {
		t.Error("missing defines edge for App")
	}
	if !hasEdge(u, graph.RelationExports, "src/App.jsx#export_default") {
		t.Error("missing exports edge for default export")
	}
	if !hasEdge(u, graph.RelationRenders, "Hero") {
		t.Error("missing renders edge for Hero")
	}
	if hasEdge(u, graph.RelationRenders, "div") {
		t.Error("built-in tag div should not produce a renders edge")
	}
	if !hasEdge(u, graph.RelationCalls, "useState") {
		t.Error("missing calls edge for useState")
	}
}

func TestJavaScriptDefaultExportOfIdentifier(t *testing.T) {
	source := `function Hero() {
  return <h1>Hi</h1>;
}
export default Hero;
`
	u := extractWith(t, "javascript", "Hero.jsx", source)

	if !hasNode(u, "Hero.jsx#Hero") {
		t.Error("missing Hero definition node")
	}
	if kind := nodeKind(u, "Hero.jsx#Hero"); kind != graph.KindComponent {
		t.Errorf("Hero should be a component, got %s", kind)
	}
	if !hasNode(u, "Hero.jsx#export_default") {
		t.Error("default export of a named symbol should still produce export_default")
	}
}

func TestJavaScriptNamedAndArrowExports(t *testing.T) {
	source := `export const useThing = () => {
  return 42;
};
export class Widget {}
const helper = 1;
export { helper };
`
	u := extractWith(t, "javascript", "lib.js", source)

	if !hasNode(u, "lib.js#export_useThing") {
		t.Error("missing export node for useThing")
	}
	if kind := nodeKind(u, "lib.js#useThing"); kind != graph.KindFunction {
		t.Errorf("arrow function without JSX should be a function, got %s", kind)
	}
	if kind := nodeKind(u, "lib.js#Widget"); kind != graph.KindClass {
		t.Errorf("Widget should be a class, got %s", kind)
	}
	if !hasNode(u, "lib.js#export_Widget") {
		t.Error("missing export node for Widget")
	}
	if !hasNode(u, "lib.js#export_helper") {
		t.Error("missing export node for clause-exported helper")
	}
}

func TestJavaScriptCommonJSAndDynamicImports(t *testing.T) {
	source := `const fs = require('fs');
async function load() {
  const mod = await import('./lazy');
  return fs.readFileSync('x');
}
`
	u := extractWith(t, "javascript", "main.js", source)

	if !hasEdge(u, graph.RelationImports, "fs") {
		t.Error("missing imports edge for require('fs')")
	}
	if !hasEdge(u, graph.RelationImports, "./lazy") {
		t.Error("missing imports edge for dynamic import")
	}
	if hasEdge(u, graph.RelationCalls, "require") {
		t.Error("require with a literal path should not also be a call")
	}
	if !hasEdge(u, graph.RelationCalls, "readFileSync") {
		t.Error("member call should keep the final accessed name")
	}
}

func TestJavaScriptReExport(t *testing.T) {
	source := `export { Button } from './Button';
export * from './utils';
`
	u := extractWith(t, "javascript", "index.js", source)

	if !hasEdge(u, graph.RelationExports, "./Button") {
		t.Error("missing re-export edge for ./Button")
	}
	if !hasEdge(u, graph.RelationExports, "./utils") {
		t.Error("missing re-export edge for ./utils")
	}
	if hasNode(u, "index.js#export_Button") {
		t.Error("re-export should not create an export node")
	}
}

func TestTypeScriptDeclarations(t *testing.T) {
	source := `import { api } from "./api";

export interface User {
  name: string;
}

export function fetchUser(id: string): Promise<User> {
  return api.get(id);
}
`
	u := extractWith(t, "typescript", "src/user.ts", source)

	if kind := nodeKind(u, "src/user.ts#User"); kind != graph.KindClass {
		t.Errorf("interface should be modeled as a class, got %s", kind)
	}
	if kind := nodeKind(u, "src/user.ts#fetchUser"); kind != graph.KindFunction {
		t.Errorf("fetchUser should be a function, got %s", kind)
	}
	if !hasNode(u, "src/user.ts#export_fetchUser") {
		t.Error("missing export node for fetchUser")
	}
	if !hasEdge(u, graph.RelationImports, "./api") {
		t.Error("missing imports edge for ./api")
	}
	if !hasEdge(u, graph.RelationCalls, "get") {
		t.Error("missing calls edge for api.get")
	}
}

func TestTSXComponent(t *testing.T) {
	source := `import Nav from "./Nav";

const Layout = ({ children }: { children: React.ReactNode }) => (
  <main>
    <Nav />
    {children}
  </main>
);

export default Layout;
`
	u := extractWith(t, "tsx", "src/Layout.tsx", source)

	if kind := nodeKind(u, "src/Layout.tsx#Layout"); kind != graph.KindComponent {
		t.Errorf("Layout should be a component, got %s", kind)
	}
	if !hasEdge(u, graph.RelationRenders, "Nav") {
		t.Error("missing renders edge for Nav")
	}
	if hasEdge(u, graph.RelationRenders, "main") {
		t.Error("built-in tag main should not produce a renders edge")
	}
}

func TestMalformedSourceKeepsFileNode(t *testing.T) {
	u := extractWith(t, "javascript", "broken.js", "function {{{{ ((((")

	if !hasNode(u, "broken.js") {
		t.Fatal("file node must survive malformed input")
	}
}
