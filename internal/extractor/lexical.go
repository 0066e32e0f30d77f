package extractor

import (
	"bufio"
	"bytes"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"codegraph/internal/graph"
)

// lexicalExtractor is the fallback for script languages without a compiled
// grammar. It scans line by line with anchored patterns; precision is
// deliberately traded for coverage, and the generic call pattern over-matches
// anything shaped like name(...).
type lexicalExtractor struct {
	lang   string
	logger *zap.Logger
}

func newLexicalExtractor(lang string, logger *zap.Logger) *lexicalExtractor {
	return &lexicalExtractor{lang: lang, logger: logger}
}

var (
	lexDefPattern    = regexp.MustCompile(`^(?:def|class|function|sub)\s+([A-Za-z_][A-Za-z0-9_]*)`)
	lexImportPattern = regexp.MustCompile(`^(?:import\s+([A-Za-z_][A-Za-z0-9_.]*)|from\s+([A-Za-z_][A-Za-z0-9_.]*)\s+import|require\s*\(?\s*['"]([^'"]+)['"])`)
	lexCallPattern   = regexp.MustCompile(`\b([A-Za-z_][A-Za-z0-9_]*)\s*\(`)
)

// lexKeywords are control-flow and declaration words the call pattern would
// otherwise report as calls.
var lexKeywords = map[string]struct{}{
	"if": {}, "elsif": {}, "elif": {}, "else": {}, "for": {}, "while": {},
	"until": {}, "unless": {}, "do": {}, "end": {}, "return": {},
	"switch": {}, "case": {}, "catch": {}, "then": {}, "fi": {}, "done": {},
	"def": {}, "class": {}, "function": {}, "sub": {}, "module": {},
	"require": {}, "import": {}, "print": {}, "new": {}, "not": {},
	"and": {}, "or": {}, "in": {},
}

func (e *lexicalExtractor) Language() string { return e.lang }

func (e *lexicalExtractor) Extract(filePath string, source []byte) RawUnit {
	b := newUnitBuilder(filePath)

	scanner := bufio.NewScanner(bytes.NewReader(source))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	row := 0
	for scanner.Scan() {
		row++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "//") {
			continue
		}

		if m := lexDefPattern.FindStringSubmatch(line); m != nil {
			kind := graph.KindFunction
			if strings.HasPrefix(line, "class") {
				kind = graph.KindClass
			}
			b.addDefinition(m[1], kind, row, 0)
			continue
		}

		if m := lexImportPattern.FindStringSubmatch(line); m != nil {
			for _, target := range m[1:] {
				if target != "" {
					b.addEdge(graph.RelationImports, target, row, 0)
					break
				}
			}
			continue
		}

		for _, m := range lexCallPattern.FindAllStringSubmatch(line, -1) {
			if _, keyword := lexKeywords[m[1]]; keyword {
				continue
			}
			b.addEdge(graph.RelationCalls, m[1], row, 0)
		}
	}
	if err := scanner.Err(); err != nil {
		e.logger.Warn("line scan aborted, keeping partial results",
			zap.String("file", filePath), zap.Error(err))
	}
	return b.unit()
}
