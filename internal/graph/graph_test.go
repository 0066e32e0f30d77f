package graph

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestDedupeNodesFirstOccurrenceWins(t *testing.T) {
	nodes := []Node{
		{ID: "a.js", Label: "a.js", Kind: KindFile},
		{ID: "a.js#foo", Label: "foo", Kind: KindFunction},
		{ID: "a.js", Label: "other label", Kind: KindFile},
	}

	out := DedupeNodes(nodes)
	if len(out) != 2 {
		t.Fatalf("expected 2 nodes, got %d", len(out))
	}
	if out[0].Label != "a.js" {
		t.Errorf("first occurrence should win, got label %q", out[0].Label)
	}
}

func TestDedupeIdempotent(t *testing.T) {
	edges := []Edge{
		{ID: "e1", Source: "a", Target: "b", Kind: RelationImports},
		{ID: "e2", Source: "a", Target: "c", Kind: RelationCalls},
		{ID: "e1", Source: "x", Target: "y", Kind: RelationImports},
	}

	once := DedupeEdges(edges)
	twice := DedupeEdges(once)
	if len(once) != 2 || len(twice) != 2 {
		t.Fatalf("expected 2 edges after dedupe, got %d then %d", len(once), len(twice))
	}
	if twice[0].Source != "a" {
		t.Errorf("first occurrence should win, got source %q", twice[0].Source)
	}
}

func TestSymbolID(t *testing.T) {
	if got := SymbolID("src/a.ts", "foo"); got != "src/a.ts#foo" {
		t.Errorf("unexpected symbol id %q", got)
	}
}

func TestEdgeIDDiscriminatesLocations(t *testing.T) {
	a := EdgeID("a.js", RelationCalls, "foo", 1, 0)
	b := EdgeID("a.js", RelationCalls, "foo", 2, 0)
	if a == b {
		t.Errorf("edge ids for distinct locations should differ: %q", a)
	}
}

func TestToWireShape(t *testing.T) {
	g := &Graph{
		Nodes: []Node{
			{ID: "a.js", Label: "a.js", Kind: KindFile},
			{ID: "a.js#foo", Label: "foo", Kind: KindFunction, DefiningFile: "a.js"},
		},
		Edges: []Edge{
			{ID: "e1", Source: "a.js", Target: "a.js#foo", Kind: RelationDefines, RawTarget: "a.js#foo"},
		},
	}

	data, err := json.Marshal(g.ToWire())
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	s := string(data)

	for _, want := range []string{
		`"id":"a.js#foo"`,
		`"label":"foo"`,
		`"type":"function"`,
		`"filePath":"a.js"`,
		`"rawTarget":"a.js#foo"`,
		`"label":"defines"`,
	} {
		if !strings.Contains(s, want) {
			t.Errorf("wire JSON missing %s:\n%s", want, s)
		}
	}
	if strings.Contains(s, "defining_file") {
		t.Errorf("internal field name leaked into wire JSON:\n%s", s)
	}
	// file nodes carry no filePath of their own
	if strings.Contains(s, `"id":"a.js","data":{"label":"a.js","type":"file","filePath"`) {
		t.Errorf("file node should omit filePath:\n%s", s)
	}
}
