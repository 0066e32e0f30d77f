// Package analyzer runs the full pipeline over a walked file set: per-file
// extraction in a worker pool, deterministic merge with first-occurrence
// deduplication, reference resolution, and a final dedupe sweep.
package analyzer

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"go.uber.org/zap"

	"codegraph/internal/extractor"
	"codegraph/internal/graph"
	"codegraph/internal/resolver"
)

var (
	// ErrNoFiles is returned when the walked tree holds nothing analyzable.
	ErrNoFiles = errors.New("no analyzable files found")
	// ErrBaseNotDirectory is returned when the base path is missing or not a
	// directory. This is the one fatal input condition; per-file problems
	// degrade to partial results instead.
	ErrBaseNotDirectory = errors.New("base path is not a directory")
)

// FileEntry is one analyzable file, path relative to the base directory.
type FileEntry struct {
	Path     string
	Language string
}

// Options tune the pipeline. Zero values fall back to defaults.
type Options struct {
	Workers     int
	MaxFileSize int64
}

const (
	defaultWorkers     = 8
	defaultMaxFileSize = 2 << 20 // 2 MiB
)

type Analyzer struct {
	registry *extractor.Registry
	resolver *resolver.Resolver
	logger   *zap.Logger
	opts     Options
}

func New(logger *zap.Logger, opts Options) *Analyzer {
	if opts.Workers <= 0 {
		opts.Workers = defaultWorkers
	}
	if opts.MaxFileSize <= 0 {
		opts.MaxFileSize = defaultMaxFileSize
	}
	return &Analyzer{
		registry: extractor.NewRegistry(logger),
		resolver: resolver.New(logger),
		logger:   logger,
		opts:     opts,
	}
}

// Analyze extracts every file, merges the per-file units in sorted path
// order, resolves raw references against the full walked file set, and
// returns the deduplicated graph. fileSet lists every walked file, analyzable
// or not; path-like imports resolve against it.
func (a *Analyzer) Analyze(ctx context.Context, baseDir string, files []FileEntry, fileSet []string) (*graph.Graph, error) {
	info, err := os.Stat(baseDir)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrBaseNotDirectory, baseDir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrBaseNotDirectory, baseDir)
	}
	if len(files) == 0 {
		return nil, ErrNoFiles
	}

	sorted := append([]FileEntry(nil), files...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Path < sorted[j].Path })

	// Units land in a slot per sorted index so the merge order, and with it
	// every first-occurrence dedupe decision, is independent of worker
	// scheduling.
	units := make([]extractor.RawUnit, len(sorted))
	jobs := make(chan int)

	var wg sync.WaitGroup
	for w := 0; w < a.opts.Workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				units[i] = a.extractFile(baseDir, sorted[i])
			}
		}()
	}

	for i := range sorted {
		select {
		case <-ctx.Done():
			close(jobs)
			wg.Wait()
			return nil, ctx.Err()
		case jobs <- i:
		}
	}
	close(jobs)
	wg.Wait()

	var nodes []graph.Node
	var edges []graph.Edge
	for _, u := range units {
		nodes = append(nodes, u.Nodes...)
		edges = append(edges, u.Edges...)
	}
	nodes = graph.DedupeNodes(nodes)
	edges = graph.DedupeEdges(edges)

	nodes, edges = a.resolver.Resolve(nodes, edges, fileSet)

	g := &graph.Graph{
		Nodes: graph.DedupeNodes(nodes),
		Edges: graph.DedupeEdges(edges),
	}
	a.logger.Info("analysis complete",
		zap.Int("files", len(sorted)),
		zap.Int("nodes", len(g.Nodes)),
		zap.Int("edges", len(g.Edges)))
	return g, nil
}

// extractFile reads and extracts one file. Any per-file problem degrades to
// a unit holding only the file node.
func (a *Analyzer) extractFile(baseDir string, entry FileEntry) extractor.RawUnit {
	fileOnly := extractor.RawUnit{Nodes: []graph.Node{graph.FileNode(entry.Path)}}

	ext, ok := a.registry.ForLanguage(entry.Language)
	if !ok {
		return fileOnly
	}

	full := filepath.Join(baseDir, filepath.FromSlash(entry.Path))
	if info, err := os.Stat(full); err == nil && info.Size() > a.opts.MaxFileSize {
		a.logger.Warn("skipping oversized file",
			zap.String("file", entry.Path), zap.Int64("size", info.Size()))
		return fileOnly
	}

	source, err := os.ReadFile(full)
	if err != nil {
		a.logger.Warn("read failed, keeping file node only",
			zap.String("file", entry.Path), zap.Error(err))
		return fileOnly
	}
	return ext.Extract(entry.Path, source)
}
