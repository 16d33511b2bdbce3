package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// resolveTuffHome returns the dependency cache: TUFF_HOME, or ~/.tuff.
func resolveTuffHome() (string, error) {
	if home := strings.TrimSpace(os.Getenv("TUFF_HOME")); home != "" {
		abs, err := filepath.Abs(home)
		if err != nil {
			return "", fmt.Errorf("resolve TUFF_HOME %q: %w", home, err)
		}
		return abs, nil
	}
	userHome, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve user home: %w", err)
	}
	return filepath.Join(userHome, ".tuff"), nil
}

// extraSearchPaths lists the existing directories named by TUFF_PATH.
func extraSearchPaths() []string {
	var paths []string
	for _, part := range splitPathListEnv(os.Getenv("TUFF_PATH")) {
		if info, err := os.Stat(part); err == nil && info.IsDir() {
			paths = append(paths, part)
		}
	}
	return paths
}

func splitPathListEnv(value string) []string {
	if value == "" {
		return nil
	}
	raw := strings.Split(value, string(os.PathListSeparator))
	out := make([]string, 0, len(raw))
	for _, part := range raw {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
