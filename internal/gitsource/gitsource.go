// Package gitsource fetches remote repositories into throwaway working
// directories for analysis.
package gitsource

import (
	"context"
	"fmt"
	"os"

	gogit "github.com/go-git/go-git/v5"
	"go.uber.org/zap"
)

// Clone shallow-clones url into a fresh temp directory and returns the
// directory together with a cleanup func. Callers must run cleanup once the
// analysis is done, on error paths included.
func Clone(ctx context.Context, url string, logger *zap.Logger) (string, func(), error) {
	dir, err := os.MkdirTemp("", "codegraph-clone-*")
	if err != nil {
		return "", nil, fmt.Errorf("create clone dir: %w", err)
	}
	cleanup := func() {
		if rmErr := os.RemoveAll(dir); rmErr != nil {
			logger.Warn("clone cleanup failed", zap.String("dir", dir), zap.Error(rmErr))
		}
	}

	logger.Info("cloning repository", zap.String("url", url), zap.String("dir", dir))
	_, err = gogit.PlainCloneContext(ctx, dir, false, &gogit.CloneOptions{
		URL:   url,
		Depth: 1,
	})
	if err != nil {
		cleanup()
		return "", nil, fmt.Errorf("clone %s: %w", url, err)
	}
	return dir, cleanup, nil
}
