// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// This file defines DeclarationRef, the hand-off between the location scanner
// and the declaration resolver.
//
// A directory search path entry yields a root and the path of each marker file
// below it; the symbolic name is derived later from the path relative to the
// root. An archive entry has no meaningful root on disk, so the scanner computes
// the symbolic name from the entry name directly and captures the entry content
// while the bundle is open.
package model

// DeclarationRef identifies one discovered declaration unit.
type DeclarationRef struct {
	// Root is the search path directory the marker was found under.
	Root string
	// Symbol is the precomputed symbolic name for archive entries.
	Symbol string
	// Content holds the marker file of archive entries.
	Content []byte

	FSInformation *FSInfo
}

// NewDirectoryRef references the marker file at path found below root.
func NewDirectoryRef(root, path string) *DeclarationRef {
	return &DeclarationRef{
		Root:          root,
		FSInformation: NewFSInfo(path),
	}
}

// NewArchiveRef references entry inside archive under the given symbolic name.
func NewArchiveRef(archive, entry, symbol string, content []byte) *DeclarationRef {
	return &DeclarationRef{
		Symbol:        symbol,
		Content:       content,
		FSInformation: NewArchiveFSInfo(archive, entry),
	}
}

// FromArchive reports whether the unit was found inside an archive bundle.
func (r *DeclarationRef) FromArchive() bool {
	return r.FSInformation != nil && r.FSInformation.Archive != ""
}

// String implements fmt.Stringer.
func (r *DeclarationRef) String() string {
	return r.FSInformation.String()
}
