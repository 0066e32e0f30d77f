// Package store persists analyzed graphs in SQLite so a server restart does
// not force a re-analysis.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"codegraph/internal/graph"
)

const schema = `
CREATE TABLE IF NOT EXISTS nodes (
	id            TEXT PRIMARY KEY,
	label         TEXT NOT NULL,
	kind          TEXT NOT NULL,
	defining_file TEXT NOT NULL DEFAULT ''
);
CREATE TABLE IF NOT EXISTS edges (
	id         TEXT PRIMARY KEY,
	source     TEXT NOT NULL,
	target     TEXT NOT NULL,
	kind       TEXT NOT NULL,
	raw_target TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS idx_nodes_file ON nodes(defining_file);
CREATE INDEX IF NOT EXISTS idx_edges_source ON edges(source);
`

type Store struct {
	db *sql.DB
}

func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error { return s.db.Close() }

// ReplaceGraph swaps the stored graph for g in one transaction.
func (s *Store) ReplaceGraph(ctx context.Context, g *graph.Graph) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM edges`); err != nil {
		return fmt.Errorf("clear edges: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM nodes`); err != nil {
		return fmt.Errorf("clear nodes: %w", err)
	}

	nodeStmt, err := tx.PrepareContext(ctx,
		`INSERT OR REPLACE INTO nodes (id, label, kind, defining_file) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare nodes: %w", err)
	}
	defer nodeStmt.Close()
	for _, n := range g.Nodes {
		if _, err := nodeStmt.ExecContext(ctx, n.ID, n.Label, string(n.Kind), n.DefiningFile); err != nil {
			return fmt.Errorf("insert node %s: %w", n.ID, err)
		}
	}

	edgeStmt, err := tx.PrepareContext(ctx,
		`INSERT OR REPLACE INTO edges (id, source, target, kind, raw_target) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare edges: %w", err)
	}
	defer edgeStmt.Close()
	for _, e := range g.Edges {
		if _, err := edgeStmt.ExecContext(ctx, e.ID, e.Source, e.Target, string(e.Kind), e.RawTarget); err != nil {
			return fmt.Errorf("insert edge %s: %w", e.ID, err)
		}
	}

	return tx.Commit()
}

// GetGraph loads the stored graph. An empty store yields an empty graph, not
// an error.
func (s *Store) GetGraph(ctx context.Context) (*graph.Graph, error) {
	g := &graph.Graph{}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, label, kind, defining_file FROM nodes ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query nodes: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var n graph.Node
		var kind string
		if err := rows.Scan(&n.ID, &n.Label, &kind, &n.DefiningFile); err != nil {
			return nil, fmt.Errorf("scan node: %w", err)
		}
		n.Kind = graph.Kind(kind)
		g.Nodes = append(g.Nodes, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate nodes: %w", err)
	}

	erows, err := s.db.QueryContext(ctx,
		`SELECT id, source, target, kind, raw_target FROM edges ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query edges: %w", err)
	}
	defer erows.Close()
	for erows.Next() {
		var e graph.Edge
		var kind string
		if err := erows.Scan(&e.ID, &e.Source, &e.Target, &kind, &e.RawTarget); err != nil {
			return nil, fmt.Errorf("scan edge: %w", err)
		}
		e.Kind = graph.Relation(kind)
		g.Edges = append(g.Edges, e)
	}
	if err := erows.Err(); err != nil {
		return nil, fmt.Errorf("iterate edges: %w", err)
	}
	return g, nil
}

// GetSymbolsInFile returns the non-file nodes defined in one file.
func (s *Store) GetSymbolsInFile(ctx context.Context, filePath string) ([]graph.Node, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, label, kind, defining_file FROM nodes WHERE defining_file = ? ORDER BY id`, filePath)
	if err != nil {
		return nil, fmt.Errorf("query symbols: %w", err)
	}
	defer rows.Close()

	var nodes []graph.Node
	for rows.Next() {
		var n graph.Node
		var kind string
		if err := rows.Scan(&n.ID, &n.Label, &kind, &n.DefiningFile); err != nil {
			return nil, fmt.Errorf("scan symbol: %w", err)
		}
		n.Kind = graph.Kind(kind)
		nodes = append(nodes, n)
	}
	return nodes, rows.Err()
}

// PruneStaleFiles removes nodes whose defining file is no longer present,
// along with edges touching them.
func (s *Store) PruneStaleFiles(ctx context.Context, validFiles []string) error {
	if len(validFiles) == 0 {
		return nil
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(validFiles)), ",")
	args := make([]any, len(validFiles))
	for i, f := range validFiles {
		args[i] = f
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	del := fmt.Sprintf(
		`DELETE FROM nodes WHERE defining_file != '' AND defining_file NOT IN (%s)`, placeholders)
	if _, err := tx.ExecContext(ctx, del, args...); err != nil {
		return fmt.Errorf("prune nodes: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM edges WHERE source NOT IN (SELECT id FROM nodes) OR target NOT IN (SELECT id FROM nodes)`); err != nil {
		return fmt.Errorf("prune edges: %w", err)
	}
	return tx.Commit()
}
