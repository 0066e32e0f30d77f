package extractor

import (
	"testing"

	"codegraph/internal/graph"
)

func TestPythonExtraction(t *testing.T) {
	source := `import os
from pathlib import Path
from . import sibling

def load(path):
    return os.path.join(path)

class Loader:
    def run(self):
        return load(".")
`
	u := extractWith(t, "python", "pkg/loader.py", source)

	if !hasEdge(u, graph.RelationImports, "os") {
		t.Error("missing imports edge for os")
	}
	if !hasEdge(u, graph.RelationImports, "pathlib") {
		t.Error("missing imports edge for pathlib")
	}
	if kind := nodeKind(u, "pkg/loader.py#load"); kind != graph.KindFunction {
		t.Errorf("load should be a function, got %s", kind)
	}
	if kind := nodeKind(u, "pkg/loader.py#Loader"); kind != graph.KindClass {
		t.Errorf("Loader should be a class, got %s", kind)
	}
	if !hasEdge(u, graph.RelationCalls, "load") {
		t.Error("missing calls edge for load")
	}
	if !hasEdge(u, graph.RelationCalls, "join") {
		t.Error("attribute call should keep the final accessed name")
	}
}

func TestGoExtraction(t *testing.T) {
	source := `package main

import "fmt"

type Greeter struct{}

func (g Greeter) Greet() string { return "hi" }

func main() {
	fmt.Println(Greeter{}.Greet())
}
`
	u := extractWith(t, "go", "cmd/main.go", source)

	if !hasEdge(u, graph.RelationImports, "fmt") {
		t.Error("import path should be unquoted")
	}
	if kind := nodeKind(u, "cmd/main.go#main"); kind != graph.KindFunction {
		t.Errorf("main should be a function, got %s", kind)
	}
	if kind := nodeKind(u, "cmd/main.go#Greet"); kind != graph.KindFunction {
		t.Errorf("methods should be functions, got %s", kind)
	}
	if kind := nodeKind(u, "cmd/main.go#Greeter"); kind != graph.KindClass {
		t.Errorf("type declarations should be classes, got %s", kind)
	}
	if !hasEdge(u, graph.RelationCalls, "Println") {
		t.Error("missing calls edge for fmt.Println")
	}
}
