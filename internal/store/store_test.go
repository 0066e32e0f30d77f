package store

import (
	"context"
	"path/filepath"
	"testing"

	"codegraph/internal/graph"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleGraph() *graph.Graph {
	return &graph.Graph{
		Nodes: []graph.Node{
			{ID: "a.js", Label: "a.js", Kind: graph.KindFile},
			{ID: "a.js#foo", Label: "foo", Kind: graph.KindFunction, DefiningFile: "a.js"},
			{ID: "b.js", Label: "b.js", Kind: graph.KindFile},
			{ID: "b.js#bar", Label: "bar", Kind: graph.KindFunction, DefiningFile: "b.js"},
		},
		Edges: []graph.Edge{
			{ID: "e1", Source: "a.js", Target: "a.js#foo", Kind: graph.RelationDefines, RawTarget: "a.js#foo"},
			{ID: "e2", Source: "a.js", Target: "b.js", Kind: graph.RelationImports, RawTarget: "./b"},
		},
	}
}

func TestReplaceAndGetGraph(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if err := s.ReplaceGraph(ctx, sampleGraph()); err != nil {
		t.Fatalf("replace: %v", err)
	}

	got, err := s.GetGraph(ctx)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(got.Nodes) != 4 || len(got.Edges) != 2 {
		t.Fatalf("got %d nodes, %d edges", len(got.Nodes), len(got.Edges))
	}

	var imp *graph.Edge
	for i := range got.Edges {
		if got.Edges[i].Kind == graph.RelationImports {
			imp = &got.Edges[i]
		}
	}
	if imp == nil {
		t.Fatal("imports edge missing")
	}
	if imp.RawTarget != "./b" || imp.Target != "b.js" {
		t.Errorf("imports edge round-trip mismatch: %+v", imp)
	}
}

func TestReplaceGraphOverwrites(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if err := s.ReplaceGraph(ctx, sampleGraph()); err != nil {
		t.Fatal(err)
	}
	small := &graph.Graph{Nodes: []graph.Node{{ID: "only.js", Label: "only.js", Kind: graph.KindFile}}}
	if err := s.ReplaceGraph(ctx, small); err != nil {
		t.Fatal(err)
	}

	got, err := s.GetGraph(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Nodes) != 1 || len(got.Edges) != 0 {
		t.Errorf("stale data survived replace: %d nodes, %d edges", len(got.Nodes), len(got.Edges))
	}
}

func TestGetSymbolsInFile(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if err := s.ReplaceGraph(ctx, sampleGraph()); err != nil {
		t.Fatal(err)
	}

	nodes, err := s.GetSymbolsInFile(ctx, "a.js")
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(nodes) != 1 || nodes[0].ID != "a.js#foo" {
		t.Errorf("unexpected symbols: %+v", nodes)
	}

	none, err := s.GetSymbolsInFile(ctx, "missing.js")
	if err != nil {
		t.Fatal(err)
	}
	if len(none) != 0 {
		t.Errorf("expected no symbols, got %+v", none)
	}
}

func TestPruneStaleFiles(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if err := s.ReplaceGraph(ctx, sampleGraph()); err != nil {
		t.Fatal(err)
	}
	if err := s.PruneStaleFiles(ctx, []string{"a.js"}); err != nil {
		t.Fatalf("prune: %v", err)
	}

	got, err := s.GetGraph(ctx)
	if err != nil {
		t.Fatal(err)
	}
	for _, n := range got.Nodes {
		if n.ID == "b.js#bar" {
			t.Error("symbol from pruned file survived")
		}
	}
	for _, e := range got.Edges {
		if e.ID == "e1" {
			return // defines edge within a.js must survive
		}
	}
	t.Error("edge e1 should have survived the prune")
}
