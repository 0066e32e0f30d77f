package extractor

import (
	"testing"

	"codegraph/internal/graph"
)

func TestLexicalRuby(t *testing.T) {
	source := `require 'json'

class Report
  def render
    format(compute())
  end
end

def compute
  if ready?
    1
  end
end
`
	u := extractWith(t, "ruby", "report.rb", source)

	if !hasEdge(u, graph.RelationImports, "json") {
		t.Error("missing imports edge for require 'json'")
	}
	if kind := nodeKind(u, "report.rb#Report"); kind != graph.KindClass {
		t.Errorf("Report should be a class, got %s", kind)
	}
	if kind := nodeKind(u, "report.rb#render"); kind != graph.KindFunction {
		t.Errorf("render should be a function, got %s", kind)
	}
	if !hasEdge(u, graph.RelationCalls, "format") {
		t.Error("missing calls edge for format")
	}
	if !hasEdge(u, graph.RelationCalls, "compute") {
		t.Error("missing calls edge for compute")
	}
}

func TestLexicalKeywordsNotCalls(t *testing.T) {
	source := `function deploy {
  if (ready); then
    run_step
  fi
  for x in a b; do
    process(x)
  done
  while (true); do
    break
  done
}
`
	u := extractWith(t, "shell", "deploy.sh", source)

	if kind := nodeKind(u, "deploy.sh#deploy"); kind != graph.KindFunction {
		t.Errorf("deploy should be a function, got %s", kind)
	}
	for _, kw := range []string{"if", "for", "while"} {
		if hasEdge(u, graph.RelationCalls, kw) {
			t.Errorf("keyword %q must not produce a calls edge", kw)
		}
	}
	if !hasEdge(u, graph.RelationCalls, "process") {
		t.Error("missing calls edge for process")
	}
}

func TestLexicalCommentsSkipped(t *testing.T) {
	source := `# setup(ignored)
def real
end
`
	u := extractWith(t, "ruby", "x.rb", source)

	if hasEdge(u, graph.RelationCalls, "setup") {
		t.Error("commented-out call should be skipped")
	}
	if !hasNode(u, "x.rb#real") {
		t.Error("missing definition after comment")
	}
}
