package util

import (
	"os"
	"path/filepath"
)

// FindGitRoot walks upward from the current directory looking for a .git
// entry. Returns the current directory if none is found.
func FindGitRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}
	return FindGitRootFrom(dir), nil
}

// FindGitRootFrom walks upward from start looking for a .git entry. Returns
// start itself when no repository root is found.
func FindGitRootFrom(start string) string {
	dir := start
	for {
		if _, err := os.Stat(filepath.Join(dir, ".git")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return start
		}
		dir = parent
	}
}
