// Package fsutil provides file system utility functions.
package fsutil

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/mwnorman/pluginspi/internal/ctxlog"
)

// FindFiles recursively searches root for files accepted by filter and
// returns their full paths. Each directory contributes its matching files
// first, then its subdirectories are descended in listing order. Symbolic
// links are followed; a directory reached twice is searched once.
//
// A directory that cannot be read contributes nothing; the error is logged
// and the search continues with its siblings.
func FindFiles(ctx context.Context, root string, filter Filter) []string {
	if filter == nil {
		panic("filter must not be nil")
	}

	var files []string
	findFiles(ctx, root, filter, make(map[string]struct{}), &files)
	return files
}

func findFiles(ctx context.Context, dir string, filter Filter, visited map[string]struct{}, files *[]string) {
	logger := ctxlog.FromContext(ctx)

	if resolved, err := filepath.EvalSymlinks(dir); err == nil {
		if _, seen := visited[resolved]; seen {
			ctxlog.Trace(ctx, "Directory already searched", "path", dir, "target", resolved)
			return
		}
		visited[resolved] = struct{}{}
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		logger.Error("Failed to read directory", "path", dir, "error", err)
		return
	}

	var subdirs []string
	for _, entry := range entries {
		path := filepath.Join(dir, entry.Name())
		isDir := entry.IsDir()
		if entry.Type()&fs.ModeSymlink != 0 {
			info, err := os.Stat(path)
			if err != nil {
				logger.Debug("Skipping dangling symbolic link", "path", path, "error", err)
				continue
			}
			isDir = info.IsDir()
		}
		if isDir {
			subdirs = append(subdirs, path)
			continue
		}
		if filter(entry.Name()) {
			ctxlog.Trace(ctx, "Scan found file", "path", path)
			*files = append(*files, path)
		}
	}

	for _, sub := range subdirs {
		findFiles(ctx, sub, filter, visited, files)
	}
}
