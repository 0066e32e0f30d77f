// Package walker enumerates the files under a base directory, honoring the
// project's .gitignore plus a built-in ignore list for dependency and build
// trees that would otherwise drown the graph.
package walker

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	gitignore "github.com/sabhiram/go-gitignore"
	"go.uber.org/zap"

	"codegraph/internal/analyzer"
	"codegraph/internal/extractor"
)

// ignoredDirs are never descended into.
var ignoredDirs = map[string]struct{}{
	".git":         {},
	".hg":          {},
	".svn":         {},
	"node_modules": {},
	".next":        {},
	".nuxt":        {},
	"dist":         {},
	"build":        {},
	".venv":        {},
	"venv":         {},
	"__pycache__":  {},
	".idea":        {},
	".vscode":      {},
	"vendor":       {},
	"coverage":     {},
}

// ignoredFiles are skipped by exact name.
var ignoredFiles = map[string]struct{}{
	".DS_Store":         {},
	".env":              {},
	"package-lock.json": {},
	"yarn.lock":         {},
	"pnpm-lock.yaml":    {},
}

// ignoredSuffixes are skipped by extension.
var ignoredSuffixes = []string{".pyc", ".pyo", ".log", ".min.js", ".map"}

type Walker struct {
	logger *zap.Logger
	extra  []string // extra ignore patterns, gitignore syntax
}

func New(logger *zap.Logger, extraIgnores []string) *Walker {
	return &Walker{logger: logger, extra: extraIgnores}
}

// Walk returns the analyzable files under baseDir together with the full
// walked file set. Paths are slash-separated and relative to baseDir; the
// full set is what path-like import specifiers later resolve against.
func (w *Walker) Walk(baseDir string) ([]analyzer.FileEntry, []string, error) {
	ignore := w.loadIgnore(baseDir)

	var entries []analyzer.FileEntry
	var all []string
	err := filepath.WalkDir(baseDir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if p == baseDir {
				return err
			}
			w.logger.Warn("walk error, skipping subtree", zap.String("path", p), zap.Error(err))
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		rel, relErr := filepath.Rel(baseDir, p)
		if relErr != nil || rel == "." {
			return nil
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			if _, skip := ignoredDirs[d.Name()]; skip {
				return filepath.SkipDir
			}
			if ignore != nil && ignore.MatchesPath(rel+"/") {
				return filepath.SkipDir
			}
			return nil
		}

		if w.skipFile(d.Name()) {
			return nil
		}
		if ignore != nil && ignore.MatchesPath(rel) {
			return nil
		}

		all = append(all, rel)
		if lang, ok := extractor.DetectLanguage(rel); ok {
			entries = append(entries, analyzer.FileEntry{Path: rel, Language: lang})
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	w.logger.Debug("walk complete",
		zap.String("base", baseDir),
		zap.Int("files", len(all)),
		zap.Int("analyzable", len(entries)))
	return entries, all, nil
}

// loadIgnore compiles the project .gitignore, if any, merged with configured
// extra patterns.
func (w *Walker) loadIgnore(baseDir string) *gitignore.GitIgnore {
	lines := append([]string(nil), w.extra...)
	if data, err := os.ReadFile(filepath.Join(baseDir, ".gitignore")); err == nil {
		lines = append(lines, strings.Split(string(data), "\n")...)
	}
	if len(lines) == 0 {
		return nil
	}
	return gitignore.CompileIgnoreLines(lines...)
}

func (w *Walker) skipFile(name string) bool {
	if _, skip := ignoredFiles[name]; skip {
		return true
	}
	for _, suffix := range ignoredSuffixes {
		if strings.HasSuffix(name, suffix) {
			return true
		}
	}
	return false
}
