// Package server exposes the analysis pipeline over MCP stdio.
package server

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"codegraph/internal/analyzer"
	"codegraph/internal/store"
	"codegraph/internal/walker"
)

type AnalysisStatus string

const (
	AnalysisStatusPending    AnalysisStatus = "pending"
	AnalysisStatusInProgress AnalysisStatus = "in_progress"
	AnalysisStatusReady      AnalysisStatus = "ready"
	AnalysisStatusFailed     AnalysisStatus = "failed"
)

const systemPrompt = `# CodeGraph MCP Server

Analyze a codebase into a dependency graph of files, functions, classes,
components, imports and exports.

## Workflow
1. Call ` + "`analyze`" + ` with the project path (or a repository URL).
2. Poll ` + "`analysis_status`" + ` until it reports ready.
3. Use ` + "`get_graph`" + ` for the whole graph or ` + "`get_symbols_in_file`" + `
   for a single file's structure.

Edges carry the raw reference text in raw_target; targets are resolved node
ids. References that resolve to nothing inside the project appear as
synthesized external import nodes rather than being dropped.
`

type Server struct {
	mcpServer *mcp.Server
	walker    *walker.Walker
	analyzer  *analyzer.Analyzer
	store     *store.Store
	logger    *zap.Logger

	statusMu      sync.RWMutex
	status        AnalysisStatus
	statusErr     error
	analysisStart time.Time
	analysisTime  time.Duration
	ready         chan struct{}
}

func New(w *walker.Walker, a *analyzer.Analyzer, st *store.Store, logger *zap.Logger) *Server {
	s := &Server{
		mcpServer: mcp.NewServer(&mcp.Implementation{
			Name:    "codegraph",
			Version: "0.1.0",
		}, nil),
		walker:   w,
		analyzer: a,
		store:    st,
		logger:   logger,
		status:   AnalysisStatusPending,
		ready:    make(chan struct{}),
	}
	s.registerTools()
	s.registerResources()
	return s
}

// Run serves MCP over stdio until the transport closes or ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcp.StdioTransport{})
}

func (s *Server) setStatus(status AnalysisStatus, err error) {
	s.statusMu.Lock()
	defer s.statusMu.Unlock()
	s.status = status
	s.statusErr = err

	switch status {
	case AnalysisStatusInProgress:
		s.analysisStart = time.Now()
		s.analysisTime = 0
	case AnalysisStatusReady, AnalysisStatusFailed:
		if !s.analysisStart.IsZero() {
			s.analysisTime = time.Since(s.analysisStart)
		}
		select {
		case <-s.ready:
		default:
			close(s.ready)
		}
	}
}

// GetStatus returns the current status, the failure error if any, and the
// duration of the last completed analysis.
func (s *Server) GetStatus() (AnalysisStatus, error, time.Duration) {
	s.statusMu.RLock()
	defer s.statusMu.RUnlock()
	return s.status, s.statusErr, s.analysisTime
}

// WaitForAnalysis blocks until an analysis has finished, successfully or
// not, or ctx expires.
func (s *Server) WaitForAnalysis(ctx context.Context) error {
	s.statusMu.RLock()
	ready := s.ready
	s.statusMu.RUnlock()

	select {
	case <-ready:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// resetReady arms a fresh ready channel ahead of a re-analysis.
func (s *Server) resetReady() {
	s.statusMu.Lock()
	defer s.statusMu.Unlock()
	select {
	case <-s.ready:
		s.ready = make(chan struct{})
	default:
	}
}

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
	}
}

func errorResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
		IsError: true,
	}
}

// waitReady is the shared pre-check for read tools.
func (s *Server) waitReady(ctx context.Context) *mcp.CallToolResult {
	waitCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	if err := s.WaitForAnalysis(waitCtx); err != nil {
		status, statusErr, _ := s.GetStatus()
		if statusErr != nil {
			return errorResult(fmt.Sprintf("Analysis failed: %v", statusErr))
		}
		if status == AnalysisStatusInProgress {
			return errorResult("Analysis in progress, please try again")
		}
		return errorResult(fmt.Sprintf("Analysis wait failed: %v", err))
	}
	return nil
}
