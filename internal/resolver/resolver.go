// Package resolver turns declaration unit references into capability
// manifests.
//
// A reference is first converted to a symbolic name, the namespace part of that
// name is loaded through the loader, and the marker file is parsed. Any failure
// drops the unit: it simply contributes no manifest.
package resolver

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mwnorman/pluginspi/internal/ctxlog"
	"github.com/mwnorman/pluginspi/internal/hcl"
	"github.com/mwnorman/pluginspi/internal/loader"
	"github.com/mwnorman/pluginspi/internal/model"
)

// ErrNoMarker is returned for declaration units that carry no 'plugin' block.
var ErrNoMarker = errors.New("declaration carries no plugin marker")

// Resolver resolves declaration units against a Loader.
type Resolver struct {
	loader *loader.Loader
}

// New creates a Resolver backed by l.
func New(l *loader.Loader) *Resolver {
	return &Resolver{loader: l}
}

// SymbolFor computes the symbolic name of a declaration unit. Directory units
// are named by their path relative to the search root; archive units carry
// the name computed by the scanner.
func SymbolFor(ref *model.DeclarationRef) (string, error) {
	if ref.FromArchive() {
		return ref.Symbol, nil
	}
	if ref.FSInformation == nil {
		return "", fmt.Errorf("declaration reference has no location")
	}

	rel, err := filepath.Rel(ref.Root, ref.FSInformation.FilePath)
	if err != nil {
		return "", fmt.Errorf("failed to relativize %s to %s: %w", ref.FSInformation.FilePath, ref.Root, err)
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%s is not below search root %s", ref.FSInformation.FilePath, ref.Root)
	}
	return model.ToSymbol(filepath.ToSlash(rel)), nil
}

// Resolve builds the manifest for one declaration unit.
//
// Unknown names in the provides list are logged and skipped; the remaining
// types still form the manifest.
func (r *Resolver) Resolve(ctx context.Context, ref *model.DeclarationRef) (*model.Manifest, error) {
	logger := ctxlog.FromContext(ctx)

	symbol, err := SymbolFor(ref)
	if err != nil {
		return nil, err
	}
	nsName, err := model.NamespaceOf(symbol)
	if err != nil {
		return nil, err
	}
	ns, err := r.loader.Namespace(nsName)
	if err != nil {
		return nil, fmt.Errorf("problem loading %s: %w", symbol, err)
	}

	src, err := readSource(ref)
	if err != nil {
		return nil, err
	}
	decl, err := hcl.ParseDeclaration(src, ref.String())
	if err != nil {
		return nil, fmt.Errorf("failed to parse declaration %s: %w", ref, err)
	}
	if decl == nil {
		return nil, fmt.Errorf("%w: %s", ErrNoMarker, ref)
	}

	manifest := &model.Manifest{
		Symbol:        symbol,
		Namespace:     ns,
		Provides:      make([]*loader.TypeDescriptor, 0, len(decl.Provides)),
		FSInformation: ref.FSInformation,
	}
	for _, name := range decl.Provides {
		td, err := r.lookupType(ns, name)
		if err != nil {
			logger.Error("Problem resolving provided type", "declaration", symbol, "type", name, "error", err)
			continue
		}
		manifest.Provides = append(manifest.Provides, td)
	}

	logger.Debug("Found plugin(s) in namespace", "namespace", ns.Name(), "provides", len(manifest.Provides))
	return manifest, nil
}

// ResolveAll resolves every reference, dropping those that fail.
func (r *Resolver) ResolveAll(ctx context.Context, refs []*model.DeclarationRef) []*model.Manifest {
	logger := ctxlog.FromContext(ctx)

	manifests := make([]*model.Manifest, 0, len(refs))
	for _, ref := range refs {
		manifest, err := r.Resolve(ctx, ref)
		if errors.Is(err, ErrNoMarker) {
			logger.Debug("Namespace declares no plugins", "declaration", ref.String())
			continue
		}
		if err != nil {
			logger.Error("Problem resolving declaration", "declaration", ref.String(), "error", err)
			continue
		}
		manifests = append(manifests, manifest)
	}
	return manifests
}

// lookupType resolves a simple name inside ns first, then as a qualified
// name across the loader.
func (r *Resolver) lookupType(ns *loader.Namespace, name string) (*loader.TypeDescriptor, error) {
	td, err := ns.Type(name)
	if err == nil || !strings.Contains(name, model.NamespaceSeparator) {
		return td, err
	}
	return r.loader.Type(name)
}

func readSource(ref *model.DeclarationRef) ([]byte, error) {
	if ref.FromArchive() {
		return ref.Content, nil
	}
	src, err := os.ReadFile(ref.FSInformation.FilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read declaration: %w", err)
	}
	return src, nil
}
