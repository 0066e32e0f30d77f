package server

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"codegraph/internal/gitsource"
)

// Arguments structs

type AnalyzeArgs struct {
	Path    string `json:"path,omitempty" jsonschema:"description:Local directory to analyze"`
	RepoURL string `json:"repo_url,omitempty" jsonschema:"description:Git repository URL to clone and analyze instead of a local path"`
}

type AnalysisStatusArgs struct{}

type GetGraphArgs struct{}

type GetSymbolsInFileArgs struct {
	FilePath string `json:"file_path" jsonschema:"required,description:Project-relative path of the file to inspect"`
}

func (s *Server) registerTools() {
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "analyze",
		Description: "Analyzes a codebase into a dependency graph and stores it",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args AnalyzeArgs) (*mcp.CallToolResult, any, error) {
		if (args.Path == "") == (args.RepoURL == "") {
			return errorResult("Provide exactly one of path or repo_url"), nil, nil
		}

		s.statusMu.RLock()
		current := s.status
		s.statusMu.RUnlock()
		if current == AnalysisStatusInProgress {
			return errorResult("Analysis already in progress"), nil, nil
		}
		if current == AnalysisStatusReady || current == AnalysisStatusFailed {
			s.resetReady()
		}

		s.setStatus(AnalysisStatusInProgress, nil)
		startTime := time.Now()

		baseDir := args.Path
		if args.RepoURL != "" {
			dir, cleanup, err := gitsource.Clone(ctx, args.RepoURL, s.logger)
			if err != nil {
				s.setStatus(AnalysisStatusFailed, fmt.Errorf("clone failed: %w", err))
				return errorResult(fmt.Sprintf("Clone failed: %v", err)), nil, nil
			}
			defer cleanup()
			baseDir = dir
		}

		files, fileSet, err := s.walker.Walk(baseDir)
		if err != nil {
			s.setStatus(AnalysisStatusFailed, fmt.Errorf("walk failed: %w", err))
			return errorResult(fmt.Sprintf("Walk failed: %v", err)), nil, nil
		}

		g, err := s.analyzer.Analyze(ctx, baseDir, files, fileSet)
		if err != nil {
			s.setStatus(AnalysisStatusFailed, fmt.Errorf("analysis failed: %w", err))
			return errorResult(fmt.Sprintf("Analysis failed: %v", err)), nil, nil
		}

		if s.store != nil {
			if err := s.store.ReplaceGraph(ctx, g); err != nil {
				// Keep the in-memory result; persistence is best effort.
				s.logger.Warn("failed to persist graph", zap.Error(err))
			}
		}

		s.setStatus(AnalysisStatusReady, nil)
		duration := time.Since(startTime)
		msg := fmt.Sprintf("Analyzed %d nodes and %d edges in %.2fs", len(g.Nodes), len(g.Edges), duration.Seconds())
		return textResult(msg), nil, nil
	})

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "analysis_status",
		Description: "Returns the current analysis status",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args AnalysisStatusArgs) (*mcp.CallToolResult, any, error) {
		status, err, duration := s.GetStatus()

		result := map[string]any{
			"status": string(status),
		}
		if duration > 0 {
			result["duration_seconds"] = duration.Seconds()
		}
		if err != nil {
			result["error"] = err.Error()
		}

		jsonBytes, _ := json.MarshalIndent(result, "", "  ")
		return textResult(string(jsonBytes)), nil, nil
	})

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "get_graph",
		Description: "Returns the analyzed dependency graph",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args GetGraphArgs) (*mcp.CallToolResult, any, error) {
		if res := s.waitReady(ctx); res != nil {
			return res, nil, nil
		}

		g, err := s.store.GetGraph(ctx)
		if err != nil {
			return errorResult(fmt.Sprintf("Query failed: %v", err)), nil, nil
		}

		jsonBytes, err := json.MarshalIndent(g.ToWire(), "", "  ")
		if err != nil {
			return errorResult(fmt.Sprintf("Encode failed: %v", err)), nil, nil
		}
		return textResult(string(jsonBytes)), nil, nil
	})

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "get_symbols_in_file",
		Description: "Returns the symbols defined in a file",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args GetSymbolsInFileArgs) (*mcp.CallToolResult, any, error) {
		if res := s.waitReady(ctx); res != nil {
			return res, nil, nil
		}

		nodes, err := s.store.GetSymbolsInFile(ctx, args.FilePath)
		if err != nil {
			return errorResult(fmt.Sprintf("Query failed: %v", err)), nil, nil
		}
		if len(nodes) == 0 {
			return textResult("No symbols found."), nil, nil
		}

		type SimpleNode struct {
			ID   string `json:"id"`
			Name string `json:"name"`
			Kind string `json:"kind"`
		}
		var simple []SimpleNode
		for _, n := range nodes {
			simple = append(simple, SimpleNode{ID: n.ID, Name: n.Label, Kind: string(n.Kind)})
		}

		jsonBytes, _ := json.MarshalIndent(simple, "", "  ")
		return textResult(string(jsonBytes)), nil, nil
	})
}
