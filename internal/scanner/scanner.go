// Package scanner walks search path entries and reports the declaration
// units found there. It knows nothing about capabilities; it only finds marker
// files in directory trees and archive bundles.
package scanner

import (
	"context"
	"os"
	"path/filepath"

	"github.com/mwnorman/pluginspi/internal/ctxlog"
	"github.com/mwnorman/pluginspi/internal/fsutil"
	"github.com/mwnorman/pluginspi/internal/model"
)

// Scan inspects one search path entry. A directory is searched recursively;
// an archive bundle has its entries enumerated. Anything else, including an
// entry that does not exist, contributes nothing.
func Scan(ctx context.Context, entry string, filter fsutil.Filter) []*model.DeclarationRef {
	logger := ctxlog.FromContext(ctx)

	info, err := os.Stat(entry)
	if err != nil {
		logger.Debug("Skipping search path entry", "entry", entry, "error", err)
		return nil
	}

	if info.IsDir() {
		return scanDir(ctx, entry, filter)
	}
	if fsutil.IsArchive(entry) {
		return scanArchive(ctx, entry, filter)
	}

	logger.Debug("Skipping search path entry: neither a directory nor an archive bundle", "entry", entry)
	return nil
}

// ScanAll scans every entry in order and concatenates the results.
func ScanAll(ctx context.Context, entries []string, filter fsutil.Filter) []*model.DeclarationRef {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Scanning search path for plugins...", "entries", len(entries))

	var refs []*model.DeclarationRef
	for _, entry := range entries {
		refs = append(refs, Scan(ctx, entry, filter)...)
	}

	logger.Debug("Search path scan finished.", "declarations_found", len(refs))
	return refs
}

func scanDir(ctx context.Context, dir string, filter fsutil.Filter) []*model.DeclarationRef {
	root := filepath.Clean(dir)
	paths := fsutil.FindFiles(ctx, root, filter)

	refs := make([]*model.DeclarationRef, 0, len(paths))
	for _, path := range paths {
		refs = append(refs, model.NewDirectoryRef(root, path))
	}
	return refs
}

func scanArchive(ctx context.Context, archive string, filter fsutil.Filter) []*model.DeclarationRef {
	entries, err := fsutil.ListArchive(archive, filter)
	if err != nil {
		ctxlog.FromContext(ctx).Error("Problem scanning archive bundle for declarations", "archive", archive, "error", err)
		return nil
	}

	refs := make([]*model.DeclarationRef, 0, len(entries))
	for _, entry := range entries {
		symbol := model.ToSymbol(entry.Name)
		ctxlog.Trace(ctx, "Scan found declaration in archive bundle", "symbol", symbol, "archive", archive)
		refs = append(refs, model.NewArchiveRef(archive, entry.Name, symbol, entry.Content))
	}
	return refs
}
